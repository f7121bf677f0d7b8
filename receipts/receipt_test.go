package receipts

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/GlobalSushrut/metanode/proofs"
	"github.com/GlobalSushrut/metanode/types"
)

func samplePOA(t *testing.T, containerID string, ts int64) proofs.Proof {
	t.Helper()
	p, err := proofs.GeneratePOA(proofs.POAInput{
		ContainerID:  containerID,
		Action:       proofs.ActionDeploy,
		NewStateHash: types.DomainHash("X", []byte(containerID)),
		Timestamp:    ts,
	})
	require.NoError(t, err)
	return p
}

func TestDockLockReceipt_ConstructAndHash(t *testing.T) {
	proof := samplePOA(t, "c-1", 10)
	r, err := NewDockLockReceipt("r-1", []string{"c-1"}, 10, proof, types.ResourceUsage{CPUTimeMs: 5})
	require.NoError(t, err)
	require.Equal(t, LedgerDockLock, r.LedgerType())
	require.NotEqual(t, types.ZeroHash, r.ReceiptHash())
}

func TestReceipt_RejectsInvalidProof(t *testing.T) {
	proof := samplePOA(t, "c-2", 1)
	badProof := proof.(*proofs.POAProof)
	tampered := *badProof
	tampered.Timestamp = 999 // invalidates the embedded proof's hash

	_, err := NewDockLockReceipt("r-2", []string{"c-2"}, 1, &tampered, types.ResourceUsage{})
	require.Error(t, err)
}

func TestReceipt_RejectsEmptyFields(t *testing.T) {
	proof := samplePOA(t, "c-3", 1)

	_, err := NewDockLockReceipt("", []string{"c-3"}, 1, proof, types.ResourceUsage{})
	require.Error(t, err)

	_, err = NewDockLockReceipt("r-3", nil, 1, proof, types.ResourceUsage{})
	require.Error(t, err)
}

func TestKnot_BuildAndReverify(t *testing.T) {
	var batch []Receipt
	for i := 0; i < 3; i++ {
		proof := samplePOA(t, "c-knot", int64(i))
		r, err := NewBPIReceipt("r-knot", []string{"c-knot"}, int64(i), proof, uint64(i))
		require.NoError(t, err)
		batch = append(batch, r)
	}

	knot := BuildKnot(batch)
	require.True(t, knot.Reverify())

	knot.ReceiptHashes[0] = types.DomainHash("X", []byte("tamper"))
	require.False(t, knot.Reverify())
}

func TestAggregator_BatchSizeTrigger(t *testing.T) {
	counter := 0
	agg := NewAggregator(Config{BatchSize: 2, TimeWindowMs: 10_000, MaxPending: 100}, func() string {
		counter++
		return "tx-" + string(rune('0'+counter))
	})

	proof1 := samplePOA(t, "c-a", 1)
	r1, err := NewBPCIReceipt("r-a", []string{"c-a"}, 1, proof1, 1000)
	require.NoError(t, err)

	tx, err := agg.AddReceipt(r1, 0)
	require.NoError(t, err)
	require.Nil(t, tx) // below batch size, no trigger yet

	proof2 := samplePOA(t, "c-b", 2)
	r2, err := NewBPCIReceipt("r-b", []string{"c-b"}, 2, proof2, 2000)
	require.NoError(t, err)

	tx, err = agg.AddReceipt(r2, 1)
	require.NoError(t, err)
	require.NotNil(t, tx)
	require.Equal(t, 2, tx.ReceiptCount)
	require.True(t, tx.Verify())
	require.Equal(t, 0, agg.PendingCount(LedgerBPCI))
}

func TestAggregator_TimeWindowTrigger(t *testing.T) {
	agg := NewAggregator(Config{BatchSize: 100, TimeWindowMs: 50, MaxPending: 100}, func() string { return "tx-1" })

	proof := samplePOA(t, "c-c", 1)
	r, err := NewBPIReceipt("r-c", []string{"c-c"}, 1, proof, 1)
	require.NoError(t, err)

	tx, err := agg.AddReceipt(r, 0)
	require.NoError(t, err)
	require.Nil(t, tx)

	proof2 := samplePOA(t, "c-d", 2)
	r2, err := NewBPIReceipt("r-d", []string{"c-d"}, 2, proof2, 2)
	require.NoError(t, err)

	tx, err = agg.AddReceipt(r2, 60) // 60ms elapsed >= 50ms window
	require.NoError(t, err)
	require.NotNil(t, tx)
	require.Equal(t, 2, tx.ReceiptCount)
}

func TestAggregator_CapacityExceeded(t *testing.T) {
	agg := NewAggregator(Config{BatchSize: 100, TimeWindowMs: 100_000, MaxPending: 1}, func() string { return "tx-1" })

	proof1 := samplePOA(t, "c-e", 1)
	r1, err := NewBPIReceipt("r-e", []string{"c-e"}, 1, proof1, 1)
	require.NoError(t, err)
	_, err = agg.AddReceipt(r1, 0)
	require.NoError(t, err)

	proof2 := samplePOA(t, "c-f", 2)
	r2, err := NewBPIReceipt("r-f", []string{"c-f"}, 2, proof2, 2)
	require.NoError(t, err)
	_, err = agg.AddReceipt(r2, 1)
	require.Error(t, err)
}

func TestAggregator_PoolsIndependent(t *testing.T) {
	agg := NewAggregator(Config{BatchSize: 2, TimeWindowMs: 100_000, MaxPending: 100}, func() string { return "tx-1" })

	proof := samplePOA(t, "c-g", 1)
	dlReceipt, err := NewDockLockReceipt("r-g", []string{"c-g"}, 1, proof, types.ResourceUsage{})
	require.NoError(t, err)

	tx, err := agg.AddReceipt(dlReceipt, 0)
	require.NoError(t, err)
	require.Nil(t, tx)
	require.Equal(t, 1, agg.PendingCount(LedgerDockLock))
	require.Equal(t, 0, agg.PendingCount(LedgerBPI))
}
