// Package validatorset implements C5: a stake-weighted, copy-on-update
// validator set, a per-round commit aggregator, and BLS-style aggregate
// commit verification, built directly from spec §4.5 — no original_source
// counterpart exists for this component.
package validatorset

import (
	"github.com/GlobalSushrut/metanode/crypto"
	"github.com/GlobalSushrut/metanode/errors"
	"github.com/GlobalSushrut/metanode/types"
)

// Validator is one stake-weighted member, addressed by its position in the
// set (bitmap index i == slice index i).
type Validator struct {
	Index  uint32
	PubKey crypto.PublicKey
	Stake  uint64
}

// ValidatorSet is an ordered, indexed, copy-on-update sequence of
// validators. Epoch increases by one on every Update.
type ValidatorSet struct {
	Validators []Validator
	Epoch      uint64
}

// NewValidatorSet builds epoch 0 from the given ordered validators, indices
// renumbered by position.
func NewValidatorSet(validators []Validator) *ValidatorSet {
	out := make([]Validator, len(validators))
	for i, v := range validators {
		v.Index = uint32(i)
		out[i] = v
	}
	return &ValidatorSet{Validators: out, Epoch: 0}
}

// Update returns a new ValidatorSet at Epoch+1; the receiver is untouched
// (copy-on-update, spec §4.5).
func (vs *ValidatorSet) Update(validators []Validator) *ValidatorSet {
	out := make([]Validator, len(validators))
	for i, v := range validators {
		v.Index = uint32(i)
		out[i] = v
	}
	return &ValidatorSet{Validators: out, Epoch: vs.Epoch + 1}
}

func (vs *ValidatorSet) ByIndex(i uint32) (Validator, bool) {
	if int(i) >= len(vs.Validators) {
		return Validator{}, false
	}
	return vs.Validators[i], true
}

func (vs *ValidatorSet) TotalStake() uint64 {
	var total uint64
	for _, v := range vs.Validators {
		total += v.Stake
	}
	return total
}

// QuorumThreshold implements spec's quorum rule: floor(2*total_stake/3)+1.
func (vs *ValidatorSet) QuorumThreshold() uint64 {
	return (2*vs.TotalStake())/3 + 1
}

func (vs *ValidatorSet) stakeOf(indices []uint32) uint64 {
	var total uint64
	for _, i := range indices {
		if v, ok := vs.ByIndex(i); ok {
			total += v.Stake
		}
	}
	return total
}

const domainCommitMsg = "VALIDATORSET_COMMIT_MSG"

// commitMessage binds a signature to both the header hash and the round it
// was produced for, so a signature from an earlier round can never be
// replayed into a later one ("header_hash binds the round", spec §4.5).
func commitMessage(headerHash types.Hash, round uint64) []byte {
	enc := types.NewEncoder().PutHash(headerHash).PutUint64(round)
	h := types.DomainHash(domainCommitMsg, enc.Bytes())
	return h[:]
}

// ValidatorSignature is one validator's vote for a given header/round.
type ValidatorSignature struct {
	Index      uint32
	Sig        crypto.Signature
	HeaderHash types.Hash
	Round      uint64
}

// CommitAggregator collects per-validator signatures for one (header,
// round, height) tuple until quorum is reached.
type CommitAggregator struct {
	Set        *ValidatorSet
	HeaderHash types.Hash
	Round      uint64
	Height     uint64
	collected  map[uint32]ValidatorSignature
}

func NewCommitAggregator(set *ValidatorSet, headerHash types.Hash, round, height uint64) *CommitAggregator {
	return &CommitAggregator{Set: set, HeaderHash: headerHash, Round: round, Height: height, collected: map[uint32]ValidatorSignature{}}
}

// AddSignature implements the C5 add-signature contract: the header hash
// and round must match the aggregator's, the index must be valid, and
// duplicate indices are rejected.
func (a *CommitAggregator) AddSignature(sig ValidatorSignature) error {
	if sig.HeaderHash != a.HeaderHash || sig.Round != a.Round {
		return errors.NewValidationError("commit aggregator: header_hash/round mismatch")
	}
	if _, ok := a.Set.ByIndex(sig.Index); !ok {
		return errors.NewInvalidArgumentError("commit aggregator: unknown validator index %d", sig.Index)
	}
	if _, dup := a.collected[sig.Index]; dup {
		return errors.NewValidationError("commit aggregator: duplicate index %d", sig.Index)
	}
	a.collected[sig.Index] = sig
	return nil
}

// BlsCommit is the emitted aggregate commit.
type BlsCommit struct {
	AggSig     crypto.AggregateSignature
	HeaderHash types.Hash
	Round      uint64
	Height     uint64
}

// Aggregate implements the C5 aggregate() contract: fails unless the
// signed stake meets quorum.
func (a *CommitAggregator) Aggregate() (*BlsCommit, error) {
	indices := make([]uint32, 0, len(a.collected))
	sigs := make(map[uint32]crypto.Signature, len(a.collected))
	for idx, sig := range a.collected {
		indices = append(indices, idx)
		sigs[idx] = sig.Sig
	}

	if a.Set.stakeOf(indices) < a.Set.QuorumThreshold() {
		return nil, errors.ErrQuorumFailure
	}

	agg, err := crypto.BlsAggregate(sigs)
	if err != nil {
		return nil, err
	}

	return &BlsCommit{AggSig: agg, HeaderHash: a.HeaderHash, Round: a.Round, Height: a.Height}, nil
}

// CheckBitmapValidity implements check (a) of commit.verify: the bitmap
// must only reference indices present in the validator set.
func (c *BlsCommit) CheckBitmapValidity(set *ValidatorSet) bool {
	for _, idx := range c.AggSig.Bitmap.SortedIndices() {
		if _, ok := set.ByIndex(idx); !ok {
			return false
		}
	}
	return true
}

// CheckQuorum implements check (b): the signed stake behind the bitmap must
// meet the set's quorum threshold.
func (c *BlsCommit) CheckQuorum(set *ValidatorSet) bool {
	indices := c.AggSig.Bitmap.SortedIndices()
	if len(indices) == 0 {
		return false
	}
	return set.stakeOf(indices) >= set.QuorumThreshold()
}

// VerifySignatures implements check (c): the aggregate signature verifies
// against the per-signer public-key set recovered via the bitmap, each
// signature binding both header hash and round (check (d)).
func (c *BlsCommit) VerifySignatures(set *ValidatorSet) bool {
	indices := c.AggSig.Bitmap.SortedIndices()
	if len(indices) == 0 {
		return false
	}

	msg := commitMessage(c.HeaderHash, c.Round)
	signers := make([]crypto.SignerMessage, 0, len(indices))
	for _, idx := range indices {
		v, ok := set.ByIndex(idx)
		if !ok {
			return false
		}
		signers = append(signers, crypto.SignerMessage{Index: idx, Pub: v.PubKey, Msg: msg})
	}

	return crypto.BlsVerifyAggregate(c.AggSig, signers)
}

// Verify implements the C5 commit.verify(validator_set) contract as a
// whole: bitmap validity, stake quorum, and aggregate signature.
func (c *BlsCommit) Verify(set *ValidatorSet) bool {
	return c.CheckBitmapValidity(set) && c.CheckQuorum(set) && c.VerifySignatures(set)
}
