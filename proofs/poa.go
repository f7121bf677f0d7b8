package proofs

import (
	"github.com/GlobalSushrut/metanode/errors"
	"github.com/GlobalSushrut/metanode/types"
)

// ActionKind enumerates the container lifecycle actions a POA proof can
// attest to.
type ActionKind int

const (
	ActionDeploy ActionKind = iota
	ActionStart
	ActionStop
	ActionScale
	ActionUpdate
	ActionDelete
)

// POAInput is the generate() argument for a container-action proof. Timestamp
// is caller-supplied rather than sampled internally so generate stays a pure
// function of its input, per spec §8's determinism property.
type POAInput struct {
	ContainerID   string
	Action        ActionKind
	PrevStateHash types.Hash
	NewStateHash  types.Hash
	Usage         types.ResourceUsage
	Timestamp     int64
}

// POAProof is the container-action proof variant (spec §4.2).
type POAProof struct {
	ContainerID    string
	Action         ActionKind
	PrevStateHash  types.Hash
	NewStateHash   types.Hash
	Usage          types.ResourceUsage
	Timestamp      int64
	TransitionHash types.Hash
	ResourceHash   types.Hash
	TemporalHash   types.Hash
	ActionHash     types.Hash
}

func (p *POAProof) ProofType() Type        { return TypePOA }
func (p *POAProof) SubjectID() string      { return p.ContainerID }
func (p *POAProof) ProofHash() types.Hash  { return p.ActionHash }

func poaTransitionHash(prev, next types.Hash) types.Hash {
	return types.DomainHashMulti(DomainPOA+"_TRANSITION", prev[:], next[:])
}

func poaResourceHash(u types.ResourceUsage) types.Hash {
	return types.DomainHash(DomainPOA+"_RESOURCE", u.CanonicalBytes())
}

func poaTemporalHash(containerID string, action ActionKind, ts int64) types.Hash {
	enc := types.NewEncoder().PutString(containerID).PutUint64(uint64(action)).PutInt64(ts)
	return types.DomainHash(DomainPOA+"_TEMPORAL", enc.Bytes())
}

func poaActionHash(transition, resource, temporal types.Hash) types.Hash {
	return types.DomainHashMulti(DomainPOA, transition[:], resource[:], temporal[:])
}

// GeneratePOA implements the C2 POA generate contract. Container actions
// with an empty container ID are rejected at construction.
func GeneratePOA(in POAInput) (*POAProof, error) {
	if in.ContainerID == "" {
		return nil, errors.NewValidationError("poa: container id must not be empty")
	}
	if err := in.Usage.Validate(); err != nil {
		return nil, err
	}

	transition := poaTransitionHash(in.PrevStateHash, in.NewStateHash)
	resource := poaResourceHash(in.Usage)
	temporal := poaTemporalHash(in.ContainerID, in.Action, in.Timestamp)

	return &POAProof{
		ContainerID:    in.ContainerID,
		Action:         in.Action,
		PrevStateHash:  in.PrevStateHash,
		NewStateHash:   in.NewStateHash,
		Usage:          in.Usage,
		Timestamp:      in.Timestamp,
		TransitionHash: transition,
		ResourceHash:   resource,
		TemporalHash:   temporal,
		ActionHash:     poaActionHash(transition, resource, temporal),
	}, nil
}

// Verify re-derives every structural hash from the proof's own fields.
func (p *POAProof) Verify() bool {
	if p.ContainerID == "" {
		return false
	}
	if p.Usage.Validate() != nil {
		return false
	}

	transition := poaTransitionHash(p.PrevStateHash, p.NewStateHash)
	resource := poaResourceHash(p.Usage)
	temporal := poaTemporalHash(p.ContainerID, p.Action, p.Timestamp)
	action := poaActionHash(transition, resource, temporal)

	return transition == p.TransitionHash &&
		resource == p.ResourceHash &&
		temporal == p.TemporalHash &&
		action == p.ActionHash
}
