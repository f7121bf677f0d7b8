package treasury

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMaintainerRegistry_ProportionalDistribution(t *testing.T) {
	r := NewMaintainerRegistry()
	r.Register("a", MaintainerValidator, 30)
	r.Register("b", MaintainerMiner, 70)

	allocations, consumed := r.Distribute(FromFloat(1000))
	require.Len(t, allocations, 2)
	require.InDelta(t, 300.0, allocations["a"].ToFloat(), 1.0)
	require.InDelta(t, 700.0, allocations["b"].ToFloat(), 1.0)
	require.InDelta(t, 1000.0, consumed.ToFloat(), 1.0)
}

func TestMaintainerRegistry_SkipsInactiveAndZeroScore(t *testing.T) {
	r := NewMaintainerRegistry()
	r.Register("active", MaintainerValidator, 10)
	r.Register("inactive", MaintainerMiner, 10)
	r.Register("zero", MaintainerNotary, 0)
	r.Deactivate("inactive")

	allocations, _ := r.Distribute(FromFloat(100))
	require.Len(t, allocations, 1)
	_, hasInactive := allocations["inactive"]
	require.False(t, hasInactive)
	_, hasZero := allocations["zero"]
	require.False(t, hasZero)
}

func TestMaintainerRegistry_NoEligibleMaintainersReturnsNothing(t *testing.T) {
	r := NewMaintainerRegistry()
	r.Register("x", MaintainerValidator, 5)
	r.Deactivate("x")

	allocations, consumed := r.Distribute(FromFloat(500))
	require.Nil(t, allocations)
	require.Equal(t, Money(0), consumed)
}

func TestMaintainerRegistry_EmptyRegistryReturnsNothing(t *testing.T) {
	r := NewMaintainerRegistry()
	allocations, consumed := r.Distribute(FromFloat(500))
	require.Nil(t, allocations)
	require.Equal(t, Money(0), consumed)
}
