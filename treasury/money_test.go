package treasury

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFromFloatToFloat_RoundTrip(t *testing.T) {
	m := FromFloat(100.50)
	require.InDelta(t, 100.50, m.ToFloat(), 1e-6)
}

func TestMulRat_ExactThirds(t *testing.T) {
	m := FromFloat(300)
	third := m.MulRat(1, 3)
	require.InDelta(t, 100.0, third.ToFloat(), 1e-4)
}

func TestMulRat_SumsToOriginalForTreasurySplit(t *testing.T) {
	total := FromFloat(1000)
	coin := total.MulRat(1, 4)
	infra := total.Sub(coin)
	companyAPI := infra.MulRat(1, 3)
	ownerSalary := infra.MulRat(2, 15)
	community := infra.MulRat(8, 15)

	sum := coin.Add(companyAPI).Add(ownerSalary).Add(community)
	require.LessOrEqual(t, sum.Sub(total).Abs(), Money(100))
}

func TestMoney_AbsAndCmp(t *testing.T) {
	a := FromFloat(10)
	b := FromFloat(20)
	require.Equal(t, -1, a.Cmp(b))
	require.Equal(t, 1, b.Cmp(a))
	require.Equal(t, Money(0), a.Sub(a))
	require.Equal(t, b.Sub(a), a.Sub(b).Abs())
}
