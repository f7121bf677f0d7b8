package proofs

import (
	"github.com/GlobalSushrut/metanode/types"
)

// POEInput is the generate() argument for a wasm-execution proof.
type POEInput struct {
	ModuleID   string
	EntryPoint string
	InputHash  types.Hash
	OutputHash types.Hash
	GasUsed    uint64
	Timestamp  int64
}

// POEProof is the execution-trace proof variant (spec §4.2): attests that
// running EntryPoint of ModuleID against InputHash deterministically
// produced OutputHash for a declared gas cost.
type POEProof struct {
	ModuleID      string
	EntryPoint    string
	InputHash     types.Hash
	OutputHash    types.Hash
	GasUsed       uint64
	Timestamp     int64
	ExecutionHash types.Hash
}

func (p *POEProof) ProofType() Type       { return TypePOE }
func (p *POEProof) SubjectID() string     { return p.ModuleID }
func (p *POEProof) ProofHash() types.Hash { return p.ExecutionHash }

func poeExecutionHash(in POEInput) types.Hash {
	enc := types.NewEncoder().
		PutString(in.ModuleID).
		PutString(in.EntryPoint).
		PutHash(in.InputHash).
		PutHash(in.OutputHash).
		PutUint64(in.GasUsed).
		PutInt64(in.Timestamp)
	return types.DomainHash(DomainPOE, enc.Bytes())
}

// GeneratePOE implements the C2 POE generate contract. Empty module or entry
// point identifiers are rejected, matching POA's empty-input rule.
func GeneratePOE(in POEInput) (*POEProof, error) {
	if err := types.RequireNonEmpty("module_id", in.ModuleID); err != nil {
		return nil, err
	}
	if err := types.RequireNonEmpty("entry_point", in.EntryPoint); err != nil {
		return nil, err
	}

	return &POEProof{
		ModuleID:      in.ModuleID,
		EntryPoint:    in.EntryPoint,
		InputHash:     in.InputHash,
		OutputHash:    in.OutputHash,
		GasUsed:       in.GasUsed,
		Timestamp:     in.Timestamp,
		ExecutionHash: poeExecutionHash(in),
	}, nil
}

func (p *POEProof) Verify() bool {
	if p.ModuleID == "" || p.EntryPoint == "" {
		return false
	}

	want := poeExecutionHash(POEInput{
		ModuleID:   p.ModuleID,
		EntryPoint: p.EntryPoint,
		InputHash:  p.InputHash,
		OutputHash: p.OutputHash,
		GasUsed:    p.GasUsed,
		Timestamp:  p.Timestamp,
	})
	return want == p.ExecutionHash
}
