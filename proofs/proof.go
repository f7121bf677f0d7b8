// Package proofs implements the C2 typed proof systems (spec §4.2): five
// variants — POA, POE, POT, POG, POH — each constructed by a pure
// generate(input) and verified by a pure verify(proof) that re-derives
// structural hashes from the proof's own fields and compares. Grounded on
// original_source/bpi-core/crates/metanode-core/bpi-math/src/proofs.rs,
// rebuilt as a Go sum type (an interface plus one concrete struct per
// variant) dispatched on an explicit Type tag rather than Rust's enum
// match, per the teacher's preference for concrete structs over dynamic
// dispatch.
package proofs

import "github.com/GlobalSushrut/metanode/types"

// Type tags the proof variant, returned by each variant's ProofType method
// so dispatch never relies on a type assertion alone.
type Type int

const (
	TypePOA Type = iota
	TypePOE
	TypePOT
	TypePOG
	TypePOH
)

func (t Type) String() string {
	switch t {
	case TypePOA:
		return "POA"
	case TypePOE:
		return "POE"
	case TypePOT:
		return "POT"
	case TypePOG:
		return "POG"
	case TypePOH:
		return "POH"
	default:
		return "UNKNOWN"
	}
}

// Domain tags, one per variant, each unique and stable (spec §3/§4.2).
const (
	DomainPOA = "PROOF_POA"
	DomainPOE = "PROOF_POE"
	DomainPOT = "PROOF_POT"
	DomainPOG = "PROOF_POG"
	DomainPOH = "PROOF_POH"
)

// Proof is the common contract every variant satisfies.
type Proof interface {
	ProofType() Type
	SubjectID() string
	ProofHash() types.Hash
	Verify() bool
}
