package proofs

import (
	"github.com/GlobalSushrut/metanode/types"
)

// POTInput is the generate() argument for a finality / cross-chain
// transition proof: a validator attesting that a given chain reached a
// given height with a given block hash.
type POTInput struct {
	ChainID     string
	BlockHeight uint64
	BlockHash   types.Hash
	ValidatorID string
	Timestamp   int64
}

// POTProof is the finality proof variant (spec §4.2).
type POTProof struct {
	ChainID       string
	BlockHeight   uint64
	BlockHash     types.Hash
	ValidatorID   string
	Timestamp     int64
	ConsensusHash types.Hash
}

func (p *POTProof) ProofType() Type       { return TypePOT }
func (p *POTProof) SubjectID() string     { return p.ChainID }
func (p *POTProof) ProofHash() types.Hash { return p.ConsensusHash }

func potConsensusHash(in POTInput) types.Hash {
	enc := types.NewEncoder().
		PutString(in.ChainID).
		PutUint64(in.BlockHeight).
		PutHash(in.BlockHash).
		PutString(in.ValidatorID).
		PutInt64(in.Timestamp)
	return types.DomainHash(DomainPOT, enc.Bytes())
}

// GeneratePOT implements the C2 POT generate contract.
func GeneratePOT(in POTInput) (*POTProof, error) {
	if err := types.RequireNonEmpty("chain_id", in.ChainID); err != nil {
		return nil, err
	}
	if err := types.RequireNonEmpty("validator_id", in.ValidatorID); err != nil {
		return nil, err
	}

	return &POTProof{
		ChainID:       in.ChainID,
		BlockHeight:   in.BlockHeight,
		BlockHash:     in.BlockHash,
		ValidatorID:   in.ValidatorID,
		Timestamp:     in.Timestamp,
		ConsensusHash: potConsensusHash(in),
	}, nil
}

func (p *POTProof) Verify() bool {
	if p.ChainID == "" || p.ValidatorID == "" {
		return false
	}

	want := potConsensusHash(POTInput{
		ChainID:     p.ChainID,
		BlockHeight: p.BlockHeight,
		BlockHash:   p.BlockHash,
		ValidatorID: p.ValidatorID,
		Timestamp:   p.Timestamp,
	})
	return want == p.ConsensusHash
}
