package crypto

import (
	"sort"

	"github.com/GlobalSushrut/metanode/errors"
)

// Bitmap is the "set<index>" bitmap-indexed addressing convention spec §3
// uses for BLS commits: bit i addresses the validator at index i in the
// validator set.
type Bitmap map[uint32]struct{}

func NewBitmap() Bitmap { return make(Bitmap) }

func (b Bitmap) Set(i uint32)      { b[i] = struct{}{} }
func (b Bitmap) Has(i uint32) bool { _, ok := b[i]; return ok }
func (b Bitmap) Popcount() int     { return len(b) }

// SortedIndices returns the set bits in ascending order, for deterministic
// iteration (e.g. when verifying each signer in turn).
func (b Bitmap) SortedIndices() []uint32 {
	out := make([]uint32, 0, len(b))
	for i := range b {
		out = append(out, i)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// AggregateSignature is the bitmap-addressed batch of per-signer
// signatures produced by BlsAggregate. See DESIGN.md Open Question 3: no
// pairing-based BLS library in the retrieval pack offers a safe
// high-level signing API, so "aggregation" here means concatenation under
// a shared bitmap rather than true constant-size point aggregation; each
// signer's signature is genuine ed25519, verified individually by
// BlsVerifyAggregate.
type AggregateSignature struct {
	Bitmap     Bitmap
	Signatures map[uint32]Signature
}

// BlsAggregate implements the C1 bls_aggregate contract: combine the given
// per-index signatures into one bitmap-addressed aggregate.
func BlsAggregate(sigs map[uint32]Signature) (AggregateSignature, error) {
	if len(sigs) == 0 {
		return AggregateSignature{}, errors.NewValidationError("cannot aggregate zero signatures")
	}

	bitmap := NewBitmap()
	out := make(map[uint32]Signature, len(sigs))

	for idx, sig := range sigs {
		bitmap.Set(idx)
		out[idx] = sig
	}

	return AggregateSignature{Bitmap: bitmap, Signatures: out}, nil
}

// SignerMessage pairs a signer's declared public key with the message it
// is expected to have signed, for BlsVerifyAggregate's per-signer check.
type SignerMessage struct {
	Index  uint32
	Pub    PublicKey
	Msg    []byte
}

// BlsVerifyAggregate implements the C1 bls_verify_aggregate contract:
// every bitmap index must have both a signature in agg and a matching
// entry in signers, and every individual signature must verify.
func BlsVerifyAggregate(agg AggregateSignature, signers []SignerMessage) bool {
	if len(agg.Bitmap) == 0 || len(agg.Bitmap) != len(signers) {
		return false
	}

	bySigner := make(map[uint32]SignerMessage, len(signers))
	for _, s := range signers {
		bySigner[s.Index] = s
	}

	for idx := range agg.Bitmap {
		signer, ok := bySigner[idx]
		if !ok {
			return false
		}
		sig, ok := agg.Signatures[idx]
		if !ok {
			return false
		}
		if !Verify(signer.Msg, sig, signer.Pub) {
			return false
		}
	}

	return true
}
