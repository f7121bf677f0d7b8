package mining

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/GlobalSushrut/metanode/proofs"
	"github.com/GlobalSushrut/metanode/receipts"
	"github.com/GlobalSushrut/metanode/types"
)

func sampleTx(t *testing.T, id string) *receipts.AggregatedTransaction {
	t.Helper()
	proof, err := proofs.GeneratePOA(proofs.POAInput{
		ContainerID:  "c-" + id,
		NewStateHash: types.DomainHash("X", []byte(id)),
	})
	require.NoError(t, err)
	r, err := receipts.NewBPCIReceipt("r-"+id, []string{"c-" + id}, 1, proof, 100)
	require.NoError(t, err)

	agg := receipts.NewAggregator(receipts.Config{BatchSize: 1, TimeWindowMs: 1, MaxPending: 10}, func() string { return "tx-" + id })
	tx, err := agg.AddReceipt(r, 0)
	require.NoError(t, err)
	require.NotNil(t, tx)
	return tx
}

func lowDifficultyEngine() *Engine {
	return NewEngine("miner-1", MiningDifficulty{
		TargetMs:          5000,
		AdjWindow:         10,
		MaxAdjFactor:      4.0,
		CurrentDifficulty: 1,
	}, MiningRewards{
		Base:            1000,
		MultiplierPOA:   1.5,
		MultiplierPOE:   2.0,
		MultiplierPOT:   1.8,
		MultiplierPOG:   1.2,
		MultiplierPOH:   1.3,
		HalvingInterval: 210_000,
		SupplyCap:       21_000_000_000,
	}, EconomicGovernance{AutonomousAdjust: true})
}

func TestMineBlock_EmptyMempoolNoOp(t *testing.T) {
	e := lowDifficultyEngine()
	block, err := e.MineBlock(types.ZeroHash, 1, nil, 0)
	require.NoError(t, err)
	require.Nil(t, block)
}

func TestMineBlock_ProducesValidBlock(t *testing.T) {
	e := lowDifficultyEngine()
	tx := sampleTx(t, "1")

	block, err := e.MineBlock(types.ZeroHash, 1, []*receipts.AggregatedTransaction{tx}, 1000)
	require.NoError(t, err)
	require.NotNil(t, block)
	require.Equal(t, uint64(1), block.Candidate.Height)
	require.Equal(t, 1, block.Candidate.ProofSummary.CountPOA)
	require.NotEqual(t, types.ZeroHash, block.BlockHash)
	require.Greater(t, block.Reward, uint64(0))
	require.Equal(t, uint64(1), e.BlocksMined)
}

func TestMineBlock_RewardRespectsSupplyCap(t *testing.T) {
	e := lowDifficultyEngine()
	e.Supply = e.Rewards.SupplyCap - 10
	tx := sampleTx(t, "2")

	block, err := e.MineBlock(types.ZeroHash, 1, []*receipts.AggregatedTransaction{tx}, 1000)
	require.NoError(t, err)
	require.LessOrEqual(t, e.Supply, e.Rewards.SupplyCap)
	require.LessOrEqual(t, block.Reward, uint64(10))
}

func TestMineBlock_HalvingReducesReward(t *testing.T) {
	e := lowDifficultyEngine()
	e.Rewards.HalvingInterval = 1
	e.BlocksMined = 2 // two halvings already happened

	tx := sampleTx(t, "3")
	block, err := e.MineBlock(types.ZeroHash, 1, []*receipts.AggregatedTransaction{tx}, 1000)
	require.NoError(t, err)
	require.Less(t, block.Reward, e.Rewards.Base)
}

func TestMerkleRoot_OddLevelDuplicatesLast(t *testing.T) {
	leaves := []types.Hash{
		types.DomainHash("X", []byte("a")),
		types.DomainHash("X", []byte("b")),
		types.DomainHash("X", []byte("c")),
	}
	root := MerkleRoot(leaves)
	require.NotEqual(t, types.ZeroHash, root)

	// deterministic
	require.Equal(t, root, MerkleRoot(leaves))
}

func TestRetarget_ClampsToMaxAdjFactor(t *testing.T) {
	e := lowDifficultyEngine()
	e.Difficulty.CurrentDifficulty = 100
	e.Difficulty.TargetMs = 5000
	e.Difficulty.MaxAdjFactor = 2.0

	e.Retarget(100) // actual much faster than target -> ratio clamps to MaxAdjFactor
	require.Equal(t, uint64(200), e.Difficulty.CurrentDifficulty)
}

func TestMineBlock_TimesOutAtMaxDifficulty(t *testing.T) {
	e := lowDifficultyEngine()
	e.Difficulty.CurrentDifficulty = ^uint64(0) // forces an all-zero top target, practically unreachable
	tx := sampleTx(t, "4")

	_, err := e.MineBlock(types.ZeroHash, 1, []*receipts.AggregatedTransaction{tx}, 1000)
	require.Error(t, err)
}

func TestRetarget_NeverBelowOne(t *testing.T) {
	e := lowDifficultyEngine()
	e.Difficulty.CurrentDifficulty = 1
	e.Difficulty.TargetMs = 1000
	e.Difficulty.MaxAdjFactor = 4.0

	e.Retarget(100_000) // actual far slower than target -> difficulty would shrink
	require.GreaterOrEqual(t, e.Difficulty.CurrentDifficulty, uint64(1))
}
