package mining

import (
	"encoding/binary"
	"math"

	"github.com/GlobalSushrut/metanode/errors"
	"github.com/GlobalSushrut/metanode/proofs"
	"github.com/GlobalSushrut/metanode/receipts"
	"github.com/GlobalSushrut/metanode/types"
)

const (
	domainMiningProof = "MINING_PROOF_SUMMARY"
	domainMiningBlock = "MINING_BLOCK"
	domainMiningKnot  = "MINING_BLOCK_KNOT"

	maxNonce = 1_000_000 // spec §4.4 step 5 / §7 edge case: 1,000,001 iterations total
)

// Engine is the mutable miner state: current difficulty, cumulative supply,
// and blocks mined so far, the inputs mine_block needs across calls.
type Engine struct {
	MinerID     string
	Difficulty  MiningDifficulty
	Rewards     MiningRewards
	Governance  EconomicGovernance
	Supply      uint64
	BlocksMined uint64
}

func NewEngine(minerID string, difficulty MiningDifficulty, rewards MiningRewards, gov EconomicGovernance) *Engine {
	return &Engine{MinerID: minerID, Difficulty: difficulty, Rewards: rewards, Governance: gov}
}

func buildProofSummary(rewards MiningRewards, txs []*receipts.AggregatedTransaction) ProofSummary {
	var s ProofSummary
	for _, tx := range txs {
		for _, r := range tx.Receipts {
			switch r.Proof().ProofType() {
			case proofs.TypePOA:
				s.CountPOA++
			case proofs.TypePOE:
				s.CountPOE++
			case proofs.TypePOT:
				s.CountPOT++
			case proofs.TypePOG:
				s.CountPOG++
			case proofs.TypePOH:
				s.CountPOH++
			}
		}
	}

	s.TotalProofWeight = float64(s.CountPOA)*rewards.MultiplierPOA +
		float64(s.CountPOE)*rewards.MultiplierPOE +
		float64(s.CountPOT)*rewards.MultiplierPOT +
		float64(s.CountPOG)*rewards.MultiplierPOG +
		float64(s.CountPOH)*rewards.MultiplierPOH

	enc := types.NewEncoder().
		PutUint64(uint64(s.CountPOA)).
		PutUint64(uint64(s.CountPOE)).
		PutUint64(uint64(s.CountPOT)).
		PutUint64(uint64(s.CountPOG)).
		PutUint64(uint64(s.CountPOH)).
		PutFloat64Bits(s.TotalProofWeight)
	s.ProofHash = types.DomainHash(domainMiningProof, enc.Bytes())

	return s
}

func candidateBytesWithoutHash(c MiningCandidate) []byte {
	enc := types.NewEncoder().
		PutUint64(c.Height).
		PutHash(c.PrevHash).
		PutHash(c.MerkleRoot).
		PutInt64(c.Timestamp).
		PutUint64(c.Nonce).
		PutUint64(c.Difficulty).
		PutString(c.MinerID).
		PutHash(c.ProofSummary.ProofHash)
	return enc.Bytes()
}

// target derives a 32-byte proof-of-work target from difficulty. Honoring
// the spec's stated consequence ("higher difficulty, smaller target") takes
// priority over its literal "place the raw bytes" phrasing — the two
// disagree for any non-degenerate difficulty value, and autonomous
// retargeting (more blocks mined quickly => difficulty rises => mining
// should get harder, not easier) only makes sense under the inverted
// reading, so the top 8 bytes carry the bitwise complement of difficulty.
func target(difficulty uint64) [32]byte {
	var t [32]byte
	for i := range t {
		t[i] = 0xFF
	}
	binary.BigEndian.PutUint64(t[0:8], ^difficulty)
	return t
}

func lessThanTarget(hash types.Hash, t [32]byte) bool {
	for i := 0; i < 32; i++ {
		if hash[i] != t[i] {
			return hash[i] < t[i]
		}
	}
	return false
}

func blockKnotInvariant(txs []*receipts.AggregatedTransaction, merkleRoot, proofHash types.Hash) types.Hash {
	chain := types.ZeroHash
	for _, tx := range txs {
		chain = types.DomainHashMulti(domainMiningKnot+"_TX_CHAIN", chain[:], tx.AggregatedHash[:])
	}
	txChainWithRoot := types.DomainHashMulti(domainMiningKnot+"_A", chain[:], merkleRoot[:])

	knotChain := types.ZeroHash
	for _, tx := range txs {
		knotChain = types.DomainHashMulti(domainMiningKnot+"_KNOT_CHAIN", knotChain[:], tx.KnotInvariant.InvariantHash[:])
	}
	knotChainWithProof := types.DomainHashMulti(domainMiningKnot+"_B", knotChain[:], proofHash[:])

	return types.DomainHashMulti(domainMiningKnot, txChainWithRoot[:], knotChainWithProof[:])
}

// MineBlock implements the C4 mine_block contract. pendingTxs is the batch
// already pulled from C3's aggregator; timestampMs is caller-supplied for
// determinism in tests.
func (e *Engine) MineBlock(prevHash types.Hash, height uint64, pendingTxs []*receipts.AggregatedTransaction, timestampMs int64) (*MinedBlock, error) {
	if len(pendingTxs) == 0 {
		return nil, nil // empty mempool is a no-op, spec §7
	}

	leaves := make([]types.Hash, len(pendingTxs))
	for i, tx := range pendingTxs {
		leaves[i] = tx.AggregatedHash
	}
	merkleRoot := MerkleRoot(leaves)
	summary := buildProofSummary(e.Rewards, pendingTxs)

	candidate := MiningCandidate{
		Height:       height,
		PrevHash:     prevHash,
		Txs:          pendingTxs,
		MerkleRoot:   merkleRoot,
		Timestamp:    timestampMs,
		Nonce:        0,
		Difficulty:   e.Difficulty.CurrentDifficulty,
		MinerID:      e.MinerID,
		ProofSummary: summary,
	}

	tgt := target(e.Difficulty.CurrentDifficulty)

	var blockHash types.Hash
	found := false
	for nonce := uint64(0); nonce <= maxNonce; nonce++ {
		candidate.Nonce = nonce
		h := types.DomainHash(domainMiningBlock, candidateBytesWithoutHash(candidate))
		if lessThanTarget(h, tgt) {
			blockHash = h
			found = true
			break
		}
	}
	if !found {
		return nil, errors.New(errors.ERR_TIMEOUT, "mining: nonce search exceeded 1,000,000 iterations")
	}

	rewardAmount := e.computeReward(summary)
	knot := blockKnotInvariant(pendingTxs, merkleRoot, summary.ProofHash)

	e.BlocksMined++
	e.Supply += rewardAmount

	return &MinedBlock{
		Candidate:     candidate,
		BlockHash:     blockHash,
		Reward:        rewardAmount,
		KnotInvariant: knot,
	}, nil
}

// computeReward implements spec §4.4 step 6.
func (e *Engine) computeReward(summary ProofSummary) uint64 {
	halvings := e.BlocksMined / e.Rewards.HalvingInterval
	halvedBase := e.Rewards.Base
	if halvings >= 64 {
		halvedBase = 0
	} else {
		halvedBase >>= halvings
	}

	presenceBonus := 0.0
	if summary.CountPOA > 0 {
		presenceBonus += e.Rewards.MultiplierPOA
	}
	if summary.CountPOE > 0 {
		presenceBonus += e.Rewards.MultiplierPOE
	}
	if summary.CountPOT > 0 {
		presenceBonus += e.Rewards.MultiplierPOT
	}
	if summary.CountPOG > 0 {
		presenceBonus += e.Rewards.MultiplierPOG
	}
	if summary.CountPOH > 0 {
		presenceBonus += e.Rewards.MultiplierPOH
	}

	multiplier := (1.0 + presenceBonus) * (1.0 + summary.TotalProofWeight/100.0)
	reward := uint64(math.Round(float64(halvedBase) * multiplier))

	if e.Supply+reward > e.Rewards.SupplyCap {
		if e.Rewards.SupplyCap > e.Supply {
			reward = e.Rewards.SupplyCap - e.Supply
		} else {
			reward = 0
		}
	}
	return reward
}

// Retarget implements spec §4.4 step 8, called by the caller every
// adj_window blocks with the observed actual block time. It leaves the
// difficulty unchanged when Governance.AutonomousAdjust is false.
func (e *Engine) Retarget(actualMs int64) {
	if !e.Governance.AutonomousAdjust || actualMs <= 0 {
		return
	}
	ratio := float64(e.Difficulty.TargetMs) / float64(actualMs)
	minRatio := 1.0 / e.Difficulty.MaxAdjFactor
	maxRatio := e.Difficulty.MaxAdjFactor
	if ratio < minRatio {
		ratio = minRatio
	}
	if ratio > maxRatio {
		ratio = maxRatio
	}

	newDifficulty := uint64(math.Floor(float64(e.Difficulty.CurrentDifficulty) * ratio))
	if newDifficulty < 1 {
		newDifficulty = 1
	}
	e.Difficulty.CurrentDifficulty = newDifficulty
}
