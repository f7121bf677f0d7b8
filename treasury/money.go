// Package treasury implements C9: the fiat-inflow split engine that routes
// 25% of every inflow to the coin economy and 75% to infrastructure
// (company API, owner salary, community reserves), plus the maintainer
// registry that redistributes community reserves by performance score.
// Grounded on spec §4.9 and
// original_source/bpci-enterprise/src/autonomous_economy/bpci_treasury_integration.rs.
package treasury

import "math/big"

// microsPerUnit is the fixed-point scale: one Money unit is 1e6 micros,
// matching the precision rust_decimal gave the original at 4+ decimal
// places without pulling in a decimal library the retrieval pack never
// exercises end-to-end for money (see DESIGN.md Open Question 5).
const microsPerUnit = 1_000_000

// Money is a fixed-point monetary amount stored as an integer number of
// micros. It never uses float64 at the public contract (spec §4.9's "no
// floating point for money at the public contract").
type Money int64

// FromFloat builds a Money from a float64 amount, rounding to the nearest
// micro. Intended only at the system boundary (parsing external input),
// never for internal arithmetic.
func FromFloat(amount float64) Money {
	r := new(big.Rat).SetFloat64(amount)
	if r == nil {
		return 0
	}
	scaled := new(big.Rat).Mul(r, big.NewRat(microsPerUnit, 1))
	f, _ := scaled.Float64()
	return Money(int64(f + sign(f)*0.5))
}

func sign(f float64) float64 {
	if f < 0 {
		return -1
	}
	return 1
}

// ToFloat renders the amount as a float64, for display/logging only.
func (m Money) ToFloat() float64 { return float64(m) / microsPerUnit }

// MulRat scales m by a rational factor (numerator/denominator), rounding
// to the nearest micro. Used for exact percentage splits like 1/3 or 8/15
// rather than repeating float64 multiplication.
func (m Money) MulRat(num, den int64) Money {
	r := new(big.Rat).SetInt64(int64(m))
	factor := big.NewRat(num, den)
	r.Mul(r, factor)
	num2 := r.Num()
	den2 := r.Denom()
	q := new(big.Int)
	rem := new(big.Int)
	q.QuoRem(num2, den2, rem)
	// round half away from zero
	if rem.Sign() != 0 {
		doubled := new(big.Int).Mul(rem, big.NewInt(2))
		doubled.Abs(doubled)
		if doubled.Cmp(den2) >= 0 {
			if num2.Sign() < 0 {
				q.Sub(q, big.NewInt(1))
			} else {
				q.Add(q, big.NewInt(1))
			}
		}
	}
	return Money(q.Int64())
}

// Add returns m + other.
func (m Money) Add(other Money) Money { return m + other }

// Sub returns m - other.
func (m Money) Sub(other Money) Money { return m - other }

// Abs returns the absolute value of m.
func (m Money) Abs() Money {
	if m < 0 {
		return -m
	}
	return m
}

// Cmp implements the standard three-way comparison.
func (m Money) Cmp(other Money) int {
	switch {
	case m < other:
		return -1
	case m > other:
		return 1
	default:
		return 0
	}
}
