// Package header implements C6: header structural invariants, chain
// continuity, and an LRU-cached light-client verifier with batch
// percentile metrics. Grounded on
// original_source/bpi-core/crates/metanode-consensus/bpi-light-client.
package header

import (
	"github.com/GlobalSushrut/metanode/errors"
	"github.com/GlobalSushrut/metanode/types"
)

const domainHeader = "HEADER"

// KnownVersion is the only header version this verifier accepts.
const KnownVersion = 1

// Mode enumerates the consensus mode a header was produced under.
type Mode int

const (
	ModeNormal Mode = iota
	ModeRecovery
	ModeGenesis
)

// Header is the light-client-verifiable block header (spec §3).
type Header struct {
	Version          uint32
	Height           uint64
	PrevHash         types.Hash
	PohRoot          types.Hash
	ReceiptsRoot     types.Hash
	DaRoot           types.Hash
	XcmpRoot         types.Hash
	ValidatorSetHash types.Hash
	Mode             Mode
	Round            uint64
	Timestamp        int64
}

// Hash implements `prev_hash == H(header_domain, prev.canonical)`.
func (h Header) Hash() types.Hash {
	enc := types.NewEncoder().
		PutUint32(h.Version).
		PutUint64(h.Height).
		PutHash(h.PrevHash).
		PutHash(h.PohRoot).
		PutHash(h.ReceiptsRoot).
		PutHash(h.DaRoot).
		PutHash(h.XcmpRoot).
		PutHash(h.ValidatorSetHash).
		PutUint64(uint64(h.Mode)).
		PutUint64(h.Round).
		PutInt64(h.Timestamp)
	return types.DomainHash(domainHeader, enc.Bytes())
}

func (h Header) isGenesis() bool { return h.Height == 0 }

// Validate implements Header.validate() (spec §4.6): known version,
// round == 0 iff genesis, non-zero roots except at genesis.
func (h Header) Validate() error {
	if h.Version != KnownVersion {
		return errors.NewValidationError("header: unknown version %d", h.Version)
	}

	genesis := h.isGenesis()
	if genesis != (h.Round == 0) {
		return errors.NewValidationError("header: round must be 0 iff height is 0")
	}

	if !genesis {
		if h.PohRoot == types.ZeroHash || h.ReceiptsRoot == types.ZeroHash ||
			h.DaRoot == types.ZeroHash || h.XcmpRoot == types.ZeroHash ||
			h.ValidatorSetHash == types.ZeroHash {
			return errors.NewValidationError("header: non-genesis header must carry non-zero roots")
		}
	}

	if h.Timestamp <= 0 {
		return errors.NewValidationError("header: timestamp must be positive")
	}

	return nil
}

// ValidateChainContinuity implements validate_chain_continuity(prev) (spec
// §4.6): height increments by exactly one, prev_hash binds prev's hash,
// and timestamps strictly increase. Round is explicitly allowed to restart.
func (h Header) ValidateChainContinuity(prev Header) error {
	if h.Height != prev.Height+1 {
		return errors.NewChainContinuityError("header: height %d does not follow prev height %d", h.Height, prev.Height)
	}
	if h.PrevHash != prev.Hash() {
		return errors.NewChainContinuityError("header: prev_hash does not match prev.Hash()")
	}
	if h.Timestamp <= prev.Timestamp {
		return errors.NewChainContinuityError("header: timestamp must strictly increase over prev")
	}
	return nil
}
