package bundletx

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func testBundle(t *testing.T) Bundle {
	t.Helper()
	return Bundle{
		BundleID:     "bundle-1",
		Type:         BundleAuditData,
		ContentHash:  "abc123",
		SizeBytes:    1024,
		QualityScore: 0.95,
		SourceVM:     "vm-1",
		Metadata: BundleMetadata{
			Description:    "test bundle",
			Priority:       PriorityNormal,
			RetentionDays:  30,
			ComplianceTags: []string{"audit"},
			AccessControl: AccessControl{
				ClearanceLevel: "standard",
				AuthorizedVMs:  []string{"vm-1"},
			},
		},
		Content: []byte{1, 2, 3, 4},
	}
}

func managerWithQuorum(t *testing.T) *Manager {
	t.Helper()
	mesh := NewLedgerMesh()
	mesh.RegisterValidator(ValidatorNode{NodeID: "v1", Stake: 1000})
	mesh.RegisterValidator(ValidatorNode{NodeID: "v2", Stake: 1000})
	mesh.RegisterValidator(ValidatorNode{NodeID: "v3", Stake: 1000})
	mesh.RegisterValidator(ValidatorNode{NodeID: "v4", Stake: 1000})
	mesh.RegisterValidator(ValidatorNode{NodeID: "v5", Stake: 1000})
	mesh.RegisterValidator(ValidatorNode{NodeID: "v6", Stake: 1000})
	mesh.RegisterValidator(ValidatorNode{NodeID: "v7", Stake: 1000})
	mesh.RegisterValidator(ValidatorNode{NodeID: "v8", Stake: 1000})
	mesh.RegisterValidator(ValidatorNode{NodeID: "v9", Stake: 1000})
	return NewManager(nil, mesh, nil)
}

func TestSubmitBundleTransaction_Succeeds(t *testing.T) {
	m := managerWithQuorum(t)

	txID, err := m.SubmitBundleTransaction(testBundle(t))
	require.NoError(t, err)
	require.NotEmpty(t, txID)

	tx, err := m.GetTransaction(txID)
	require.NoError(t, err)
	require.Equal(t, TxValidating, tx.Status)
	require.True(t, tx.VmValidation.ValidationPassed)
	require.GreaterOrEqual(t, tx.DecentralizationProof.NakamotoCoefficient, minNakamotoCoefficient)
	require.Equal(t, AuctionOpen, tx.AuctionMetadata.Status)
	require.Nil(t, tx.EconomicData.SettlementFee)
}

func TestSubmitBundleTransaction_EconomicTransactionGetsSettlementFee(t *testing.T) {
	m := managerWithQuorum(t)
	bundle := testBundle(t)
	bundle.Type = BundleEconomicTransaction

	txID, err := m.SubmitBundleTransaction(bundle)
	require.NoError(t, err)

	tx, err := m.GetTransaction(txID)
	require.NoError(t, err)
	require.NotNil(t, tx.EconomicData.SettlementFee)

	baseCost := float64(bundle.SizeBytes) * 0.001
	require.InDelta(t, baseCost*0.1, *tx.EconomicData.SettlementFee, 1e-9)
	require.InDelta(t, baseCost*0.3, tx.EconomicData.TransactionCost, 1e-9)
	require.InDelta(t, baseCost*0.4, tx.EconomicData.ProcessingFee, 1e-9)
	require.InDelta(t, baseCost*0.3, tx.EconomicData.StorageFee, 1e-9)
}

func TestSubmitBundleTransaction_RejectsLowVmIntegrity(t *testing.T) {
	mesh := NewLedgerMesh()
	mesh.RegisterValidator(ValidatorNode{NodeID: "v1"})
	mesh.RegisterValidator(ValidatorNode{NodeID: "v2"})
	mesh.RegisterValidator(ValidatorNode{NodeID: "v3"})

	validator := NewStaticVmIntegrityValidator()
	validator.Scores["vm-1"] = 0.5

	m := NewManager(validator, mesh, nil)

	_, err := m.SubmitBundleTransaction(testBundle(t))
	require.Error(t, err)
}

func TestSubmitBundleTransaction_RejectsBelowNakamotoQuorum(t *testing.T) {
	mesh := NewLedgerMesh()
	mesh.RegisterValidator(ValidatorNode{NodeID: "v1"})

	m := NewManager(nil, mesh, nil)

	_, err := m.SubmitBundleTransaction(testBundle(t))
	require.Error(t, err)
}

func TestSubmitBundleTransaction_CriticalPriorityGetsStrictestSLA(t *testing.T) {
	m := managerWithQuorum(t)
	bundle := testBundle(t)
	bundle.Metadata.Priority = PriorityCritical

	txID, err := m.SubmitBundleTransaction(bundle)
	require.NoError(t, err)

	tx, err := m.GetTransaction(txID)
	require.NoError(t, err)
	require.Contains(t, tx.AuctionMetadata.SLARequirements, "< 1ms latency")
}

func TestGetTransaction_UnknownIDErrors(t *testing.T) {
	m := managerWithQuorum(t)
	_, err := m.GetTransaction("does-not-exist")
	require.Error(t, err)

	_, err = m.GetTransactionStatus("does-not-exist")
	require.Error(t, err)
}

type recordingAuditSink struct {
	calls int
	lastBundleID string
}

func (r *recordingAuditSink) RecordBundleCommitted(bundleID string, transactionCount int, sizeBytes uint64, integrityHash string) {
	r.calls++
	r.lastBundleID = bundleID
}

func TestSubmitBundleTransaction_EmitsAuditEvent(t *testing.T) {
	mesh := NewLedgerMesh()
	mesh.RegisterValidator(ValidatorNode{NodeID: "v1"})
	mesh.RegisterValidator(ValidatorNode{NodeID: "v2"})
	mesh.RegisterValidator(ValidatorNode{NodeID: "v3"})
	mesh.RegisterValidator(ValidatorNode{NodeID: "v4"})
	mesh.RegisterValidator(ValidatorNode{NodeID: "v5"})
	mesh.RegisterValidator(ValidatorNode{NodeID: "v6"})
	mesh.RegisterValidator(ValidatorNode{NodeID: "v7"})
	mesh.RegisterValidator(ValidatorNode{NodeID: "v8"})
	mesh.RegisterValidator(ValidatorNode{NodeID: "v9"})
	sink := &recordingAuditSink{}
	m := NewManager(nil, mesh, sink)

	_, err := m.SubmitBundleTransaction(testBundle(t))
	require.NoError(t, err)
	require.Equal(t, 1, sink.calls)
	require.Equal(t, "bundle-1", sink.lastBundleID)
}
