// Package zjl implements C14's three cooperating verification
// sub-aggregators: minute-root anchoring, ZK3 attestation, and the
// GIDX-60 sliding-window governance index. Grounded on spec §4.14 and
// the original's ziplock-json crate family (bpi-core/crates/ziplock-json).
package zjl

import (
	"sync"
	"time"

	"github.com/GlobalSushrut/metanode/mining"
	"github.com/GlobalSushrut/metanode/types"
)

// BundleRef is one bundle's commitment into a minute anchor.
type BundleRef struct {
	BundleID     string
	VmID         string
	BundleRoot   types.Hash
	EventCount   uint64
	Timestamp    time.Time
	QualityScore float64
}

// PoESummary is the linear-aggregate proof-of-execution rollup over the
// bundle refs in one minute anchor.
type PoESummary struct {
	CPUQuanta          uint64
	MemQuanta          uint64
	ResourceEfficiency float64
	EventCount         uint64
}

// MinuteAnchor is the Merkle-rooted commitment for one minute boundary.
type MinuteAnchor struct {
	MinuteTimestamp time.Time
	AggregatedRoot  types.Hash
	BundleRefs      []BundleRef
	VmCount         int
	TotalEvents     uint64
	PoeSummary      PoESummary
}

// MinuteAnchorer buffers quality-filtered bundle refs and finalizes them
// into a MinuteAnchor when ForceFinalize is called; it has no timer and
// does not finalize on minute boundaries by itself.
type MinuteAnchorer struct {
	MinQualityThreshold float64

	mu      sync.Mutex
	pending []BundleRef
}

func NewMinuteAnchorer(minQualityThreshold float64) *MinuteAnchorer {
	return &MinuteAnchorer{MinQualityThreshold: minQualityThreshold}
}

// AcceptBundleRef admits a bundle ref if it clears the quality floor,
// reporting whether it was accepted.
func (a *MinuteAnchorer) AcceptBundleRef(ref BundleRef) bool {
	if ref.QualityScore < a.MinQualityThreshold {
		return false
	}
	a.mu.Lock()
	a.pending = append(a.pending, ref)
	a.mu.Unlock()
	return true
}

// ForceFinalize builds a MinuteAnchor from every currently-pending bundle
// ref and clears the buffer.
func (a *MinuteAnchorer) ForceFinalize(minuteTimestamp time.Time) MinuteAnchor {
	a.mu.Lock()
	refs := a.pending
	a.pending = nil
	a.mu.Unlock()

	return buildMinuteAnchor(minuteTimestamp, refs)
}

func buildMinuteAnchor(minuteTimestamp time.Time, refs []BundleRef) MinuteAnchor {
	if len(refs) == 0 {
		return MinuteAnchor{MinuteTimestamp: minuteTimestamp, AggregatedRoot: types.ZeroHash}
	}

	roots := make([]types.Hash, len(refs))
	vmSeen := map[string]struct{}{}
	var totalEvents uint64
	var cpuQuanta, memQuanta uint64

	for i, ref := range refs {
		roots[i] = ref.BundleRoot
		vmSeen[ref.VmID] = struct{}{}
		totalEvents += ref.EventCount
		// Linear proxy for CPU/mem quanta: event-count-weighted, matching
		// the spec's "simple linear aggregates over bundle refs".
		cpuQuanta += ref.EventCount * 10
		memQuanta += ref.EventCount * 4
	}

	efficiency := float64(totalEvents) / float64(len(refs))

	return MinuteAnchor{
		MinuteTimestamp: minuteTimestamp,
		AggregatedRoot:  mining.MerkleRoot(roots),
		BundleRefs:      refs,
		VmCount:         len(vmSeen),
		TotalEvents:     totalEvents,
		PoeSummary: PoESummary{
			CPUQuanta:          cpuQuanta,
			MemQuanta:          memQuanta,
			ResourceEfficiency: efficiency,
			EventCount:         totalEvents,
		},
	}
}
