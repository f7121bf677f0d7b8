package proofs

import (
	"github.com/GlobalSushrut/metanode/errors"
	"github.com/GlobalSushrut/metanode/types"
)

// POHInput is the generate() argument for a temporal-ordering proof: it
// chains a monotone sequence number to the previous proof's OrderingHash, a
// proof-of-history style linked clock independent of wall time.
type POHInput struct {
	SequenceNumber uint64
	PrevHash       types.Hash
	Timestamp      int64
	Nonce          []byte
}

// POHProof is the temporal-ordering proof variant (spec §4.2).
type POHProof struct {
	SequenceNumber uint64
	PrevHash       types.Hash
	Timestamp      int64
	Nonce          []byte
	OrderingHash   types.Hash
}

func (p *POHProof) ProofType() Type       { return TypePOH }
func (p *POHProof) SubjectID() string     { return p.PrevHash.String() }
func (p *POHProof) ProofHash() types.Hash { return p.OrderingHash }

func pohOrderingHash(in POHInput) types.Hash {
	enc := types.NewEncoder().
		PutUint64(in.SequenceNumber).
		PutHash(in.PrevHash).
		PutInt64(in.Timestamp).
		PutBytes(in.Nonce)
	return types.DomainHash(DomainPOH, enc.Bytes())
}

// GeneratePOH implements the C2 POH generate contract. SequenceNumber 0 is
// reserved for the chain's genesis link and must pair with a zero PrevHash;
// any other sequence number must chain to a non-zero PrevHash.
func GeneratePOH(in POHInput) (*POHProof, error) {
	if in.SequenceNumber == 0 && in.PrevHash != types.ZeroHash {
		return nil, errors.NewValidationError("poh: sequence 0 must chain from the zero hash")
	}
	if in.SequenceNumber > 0 && in.PrevHash == types.ZeroHash {
		return nil, errors.NewValidationError("poh: non-genesis sequence must chain from a non-zero hash")
	}

	return &POHProof{
		SequenceNumber: in.SequenceNumber,
		PrevHash:       in.PrevHash,
		Timestamp:      in.Timestamp,
		Nonce:          in.Nonce,
		OrderingHash:   pohOrderingHash(in),
	}, nil
}

func (p *POHProof) Verify() bool {
	if p.SequenceNumber == 0 && p.PrevHash != types.ZeroHash {
		return false
	}
	if p.SequenceNumber > 0 && p.PrevHash == types.ZeroHash {
		return false
	}

	want := pohOrderingHash(POHInput{
		SequenceNumber: p.SequenceNumber,
		PrevHash:       p.PrevHash,
		Timestamp:      p.Timestamp,
		Nonce:          p.Nonce,
	})
	return want == p.OrderingHash
}
