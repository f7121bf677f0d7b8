package proofs

import (
	"github.com/GlobalSushrut/metanode/errors"
	"github.com/GlobalSushrut/metanode/types"
)

// POGInput is the generate() argument for an economic-operation proof: a
// value movement between two accounts, denominated in integer micros so the
// hash input never carries a floating-point representation.
type POGInput struct {
	OperationID string
	FromAccount string
	ToAccount   string
	AmountMicro int64
	Timestamp   int64
}

// POGProof is the economic-operation proof variant (spec §4.2), used by the
// treasury component to attest a distribution or settlement actually
// occurred with the stated parties and amount.
type POGProof struct {
	OperationID  string
	FromAccount  string
	ToAccount    string
	AmountMicro  int64
	Timestamp    int64
	EconomicHash types.Hash
}

func (p *POGProof) ProofType() Type       { return TypePOG }
func (p *POGProof) SubjectID() string     { return p.OperationID }
func (p *POGProof) ProofHash() types.Hash { return p.EconomicHash }

func pogEconomicHash(in POGInput) types.Hash {
	enc := types.NewEncoder().
		PutString(in.OperationID).
		PutString(in.FromAccount).
		PutString(in.ToAccount).
		PutInt64(in.AmountMicro).
		PutInt64(in.Timestamp)
	return types.DomainHash(DomainPOG, enc.Bytes())
}

// GeneratePOG implements the C2 POG generate contract. Negative amounts are
// rejected at construction; an economic operation can never move negative
// value, it would instead be expressed as a reversed from/to pair.
func GeneratePOG(in POGInput) (*POGProof, error) {
	if err := types.RequireNonEmpty("operation_id", in.OperationID); err != nil {
		return nil, err
	}
	if err := types.RequireNonEmpty("from_account", in.FromAccount); err != nil {
		return nil, err
	}
	if err := types.RequireNonEmpty("to_account", in.ToAccount); err != nil {
		return nil, err
	}
	if in.AmountMicro < 0 {
		return nil, errors.NewValidationError("pog: amount must be non-negative")
	}

	return &POGProof{
		OperationID:  in.OperationID,
		FromAccount:  in.FromAccount,
		ToAccount:    in.ToAccount,
		AmountMicro:  in.AmountMicro,
		Timestamp:    in.Timestamp,
		EconomicHash: pogEconomicHash(in),
	}, nil
}

func (p *POGProof) Verify() bool {
	if p.OperationID == "" || p.FromAccount == "" || p.ToAccount == "" || p.AmountMicro < 0 {
		return false
	}

	want := pogEconomicHash(POGInput{
		OperationID: p.OperationID,
		FromAccount: p.FromAccount,
		ToAccount:   p.ToAccount,
		AmountMicro: p.AmountMicro,
		Timestamp:   p.Timestamp,
	})
	return want == p.EconomicHash
}
