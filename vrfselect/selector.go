// Package vrfselect implements C8: VRF-driven, stake-weighted leader
// selection over an ordered validator list. Grounded on spec §4.8 and the
// validatorset package's stake-accumulation walk shape
// (validatorset.ValidatorSet.TotalStake and stakeOf walk and accumulate
// stake the same way).
package vrfselect

import (
	"github.com/GlobalSushrut/metanode/crypto"
	"github.com/GlobalSushrut/metanode/errors"
)

// Candidate is one entry in the ordered sequence the selector walks:
// a VRF public key paired with its stake weight.
type Candidate struct {
	VrfPub crypto.PublicKey
	Stake  uint64
}

// LeaderSelector implements select_leader/is_eligible over an ordered list
// of (VrfPub, stake) candidates (spec §4.8).
type LeaderSelector struct {
	candidates []Candidate
	fipsMode   bool
	totalStake uint64
}

// NewLeaderSelector builds a selector over the given ordered candidates.
// Order is significant: it is the tie-break and the walk order.
func NewLeaderSelector(candidates []Candidate, fipsMode bool) *LeaderSelector {
	var total uint64
	for _, c := range candidates {
		total += c.Stake
	}
	cs := make([]Candidate, len(candidates))
	copy(cs, candidates)
	return &LeaderSelector{candidates: cs, fipsMode: fipsMode, totalStake: total}
}

// TotalStake reports the sum of every candidate's stake.
func (s *LeaderSelector) TotalStake() uint64 { return s.totalStake }

// SelectLeader implements select_leader: requires FIPS validation when the
// selector runs in FIPS mode, maps the VRF output to a uniform value over
// total stake, then walks candidates accumulating stake until the
// cumulative total exceeds that value. Tie-break is deterministic by index
// order (the walk itself is the tie-break: the first candidate whose
// accumulated stake crosses the threshold wins).
func (s *LeaderSelector) SelectLeader(output crypto.VRFOutput) (Candidate, error) {
	if len(s.candidates) == 0 {
		return Candidate{}, errors.NewValidationError("leader selector: no candidates")
	}
	if s.fipsMode && !output.FIPSValidated {
		return Candidate{}, errors.NewPermissionDeniedError("leader selector: fips mode requires a fips-validated vrf output")
	}
	if s.totalStake == 0 {
		return Candidate{}, errors.NewValidationError("leader selector: total stake is zero")
	}

	x := output.ToUniformU64(s.totalStake)

	var cumulative uint64
	for _, c := range s.candidates {
		cumulative += c.Stake
		if cumulative > x {
			return c, nil
		}
	}
	// Floating point / modulo edge: x == totalStake-1 and the walk's last
	// addition lands exactly on cumulative == totalStake, which is > x for
	// any x < totalStake, so this is unreachable for x in [0, totalStake).
	// Kept as a defensive fallback to the last candidate.
	return s.candidates[len(s.candidates)-1], nil
}

// IsEligible implements is_eligible: a candidate is eligible for a slot if
// its VRF output maps to a probability below threshold.
func IsEligible(output crypto.VRFOutput, threshold float64) bool {
	return output.ToProbability() < threshold
}
