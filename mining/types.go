// Package mining implements the C4 autonomous mining engine (spec §4.4):
// block candidate assembly over C3's aggregated transactions, proof-weighted
// reward with halving and supply cap, bounded proof-of-work nonce search,
// and periodic difficulty retargeting. Grounded on
// original_source/bpi-core/crates/metanode-core/bpi-math/src/mining.rs.
package mining

import (
	"github.com/GlobalSushrut/metanode/proofs"
	"github.com/GlobalSushrut/metanode/receipts"
	"github.com/GlobalSushrut/metanode/types"
)

// MiningDifficulty is the retargeting state (spec §4.4).
type MiningDifficulty struct {
	TargetMs          int64
	AdjWindow         uint64
	MaxAdjFactor      float64
	CurrentDifficulty uint64
	TargetHash        types.Hash
}

// MiningRewards configures the proof-weighted issuance schedule.
type MiningRewards struct {
	Base            uint64
	MultiplierPOA   float64
	MultiplierPOE   float64
	MultiplierPOT   float64
	MultiplierPOG   float64
	MultiplierPOH   float64
	HalvingInterval uint64
	SupplyCap       uint64
}

func (r MiningRewards) multiplierFor(t proofs.Type) float64 {
	switch t {
	case proofs.TypePOA:
		return r.MultiplierPOA
	case proofs.TypePOE:
		return r.MultiplierPOE
	case proofs.TypePOT:
		return r.MultiplierPOT
	case proofs.TypePOG:
		return r.MultiplierPOG
	case proofs.TypePOH:
		return r.MultiplierPOH
	default:
		return 0
	}
}

// EconomicGovernance is the fee/inflation split config carried alongside
// mining, consumed by the treasury component downstream; mining only reads
// it to decide whether autonomous retargeting is enabled.
type EconomicGovernance struct {
	Inflation        float64
	FeeBurn          float64
	ValidatorShare   float64
	TreasuryShare    float64
	DevShare         float64
	AutonomousAdjust bool
}

// ProofSummary is the per-block roll-up of proof-type counts and weights.
type ProofSummary struct {
	CountPOA         int
	CountPOE         int
	CountPOT         int
	CountPOG         int
	CountPOH         int
	TotalProofWeight float64
	ProofHash        types.Hash
}

// MiningCandidate is the pre-PoW block shape, spec §4.4 step 2.
type MiningCandidate struct {
	Height       uint64
	PrevHash     types.Hash
	Txs          []*receipts.AggregatedTransaction
	MerkleRoot   types.Hash
	Timestamp    int64
	Nonce        uint64
	Difficulty   uint64
	MinerID      string
	ProofSummary ProofSummary
}

// MinedBlock is the output of a successful mine_block call.
type MinedBlock struct {
	Candidate     MiningCandidate
	BlockHash     types.Hash
	Reward        uint64
	KnotInvariant types.Hash
}
