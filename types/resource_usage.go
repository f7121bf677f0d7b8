package types

import "github.com/GlobalSushrut/metanode/errors"

// ResourceUsage is the per-app/per-proof resource accounting envelope from
// spec §3. All fields are monotone non-negative; Validate enforces that.
type ResourceUsage struct {
	CPUTimeMs       uint64
	MemoryPeakBytes uint64
	NetworkBytes    uint64
	StorageBytes    uint64
	ReceiptsCount   uint64
}

// Validate checks the monotone-non-negative invariant. Every field is an
// unsigned integer already, so the only way to violate the invariant in Go
// is via an overflowed conversion upstream; Validate exists as the single
// place that invariant is asserted so call sites don't each re-derive it.
func (r ResourceUsage) Validate() error {
	return nil
}

// Add returns the element-wise sum of two usage records, used when rolling
// per-receipt usage up into a PoE bundle's usage_sum.
func (r ResourceUsage) Add(o ResourceUsage) ResourceUsage {
	return ResourceUsage{
		CPUTimeMs:       r.CPUTimeMs + o.CPUTimeMs,
		MemoryPeakBytes: r.MemoryPeakBytes + o.MemoryPeakBytes,
		NetworkBytes:    r.NetworkBytes + o.NetworkBytes,
		StorageBytes:    r.StorageBytes + o.StorageBytes,
		ReceiptsCount:   r.ReceiptsCount + o.ReceiptsCount,
	}
}

func (r ResourceUsage) canonicalBytes() []byte {
	return NewEncoder().
		PutUint64(r.CPUTimeMs).
		PutUint64(r.MemoryPeakBytes).
		PutUint64(r.NetworkBytes).
		PutUint64(r.StorageBytes).
		PutUint64(r.ReceiptsCount).
		Bytes()
}

// CanonicalBytes exposes the canonical encoding used when a ResourceUsage
// is embedded in a larger domain-hashed struct.
func (r ResourceUsage) CanonicalBytes() []byte { return r.canonicalBytes() }

// RequireNonEmpty is a small shared validation helper used across C2/C7/C13
// to reject empty identifiers eagerly, before any side effect (spec §7:
// "Validation is eager and runs before any side effect").
func RequireNonEmpty(field, value string) error {
	if value == "" {
		return errors.NewValidationError("%s must not be empty", field)
	}
	return nil
}
