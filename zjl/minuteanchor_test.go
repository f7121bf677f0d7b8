package zjl

import (
	"testing"
	"time"

	"github.com/GlobalSushrut/metanode/types"
	"github.com/stretchr/testify/require"
)

func TestAcceptBundleRef_FiltersBelowQualityThreshold(t *testing.T) {
	a := NewMinuteAnchorer(0.5)

	require.True(t, a.AcceptBundleRef(BundleRef{BundleID: "b1", VmID: "vm1", QualityScore: 0.9}))
	require.False(t, a.AcceptBundleRef(BundleRef{BundleID: "b2", VmID: "vm1", QualityScore: 0.1}))
}

func TestForceFinalize_BuildsAnchorOverAcceptedRefs(t *testing.T) {
	a := NewMinuteAnchorer(0.5)
	now := time.Now()

	a.AcceptBundleRef(BundleRef{
		BundleID: "b1", VmID: "vm1", BundleRoot: types.DomainHash("TEST", []byte("b1")),
		EventCount: 10, Timestamp: now, QualityScore: 0.9,
	})
	a.AcceptBundleRef(BundleRef{
		BundleID: "b2", VmID: "vm2", BundleRoot: types.DomainHash("TEST", []byte("b2")),
		EventCount: 5, Timestamp: now, QualityScore: 0.95,
	})

	anchor := a.ForceFinalize(now)
	require.Len(t, anchor.BundleRefs, 2)
	require.Equal(t, 2, anchor.VmCount)
	require.Equal(t, uint64(15), anchor.TotalEvents)
	require.NotEqual(t, types.ZeroHash, anchor.AggregatedRoot)
	require.Greater(t, anchor.PoeSummary.ResourceEfficiency, 0.0)
}

func TestForceFinalize_EmptyBufferProducesZeroRoot(t *testing.T) {
	a := NewMinuteAnchorer(0.5)
	anchor := a.ForceFinalize(time.Now())
	require.Equal(t, types.ZeroHash, anchor.AggregatedRoot)
	require.Empty(t, anchor.BundleRefs)
}

func TestForceFinalize_ClearsBufferAfterFinalizing(t *testing.T) {
	a := NewMinuteAnchorer(0.0)
	a.AcceptBundleRef(BundleRef{BundleID: "b1", VmID: "vm1", EventCount: 1, QualityScore: 1.0})

	first := a.ForceFinalize(time.Now())
	require.Len(t, first.BundleRefs, 1)

	second := a.ForceFinalize(time.Now())
	require.Empty(t, second.BundleRefs)
}
