package receipts

import "github.com/GlobalSushrut/metanode/types"

const domainKnot = "KNOT_INVARIANT"

// Knot is the tamper-evidence fingerprint of an ordered receipt+proof chain
// (spec glossary): a deterministic 32-byte hash over the two parallel
// ordered sequences of receipt hashes and their proof hashes.
type Knot struct {
	ReceiptHashes []types.Hash
	ProofHashes   []types.Hash
	InvariantHash types.Hash
}

func computeKnotInvariant(receiptHashes, proofHashes []types.Hash) types.Hash {
	enc := types.NewEncoder().PutUint32(uint32(len(receiptHashes)))
	for _, h := range receiptHashes {
		enc = enc.PutHash(h)
	}
	enc = enc.PutUint32(uint32(len(proofHashes)))
	for _, h := range proofHashes {
		enc = enc.PutHash(h)
	}
	return types.DomainHash(domainKnot, enc.Bytes())
}

// BuildKnot derives the knot invariant for an ordered batch of receipts: the
// two parallel sequences are extracted in receipt order, one hash per
// receipt and one per its embedded proof.
func BuildKnot(batch []Receipt) Knot {
	receiptHashes := make([]types.Hash, len(batch))
	proofHashes := make([]types.Hash, len(batch))
	for i, r := range batch {
		receiptHashes[i] = r.ReceiptHash()
		proofHashes[i] = r.Proof().ProofHash()
	}
	return Knot{
		ReceiptHashes: receiptHashes,
		ProofHashes:   proofHashes,
		InvariantHash: computeKnotInvariant(receiptHashes, proofHashes),
	}
}

// Reverify recomputes InvariantHash from the knot's own recorded sequences
// and reports whether it still matches — the "knot invariant must re-verify"
// rule from spec §3.
func (k Knot) Reverify() bool {
	return computeKnotInvariant(k.ReceiptHashes, k.ProofHashes) == k.InvariantHash
}
