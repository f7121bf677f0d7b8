package bundletx

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/GlobalSushrut/metanode/errors"
	"github.com/GlobalSushrut/metanode/types"
)

const (
	vmValidationThreshold          = 0.95
	minNakamotoCoefficient         = 3.0
	minGeographicDistribution      = 0.7
	biddingWindow                  = 30 * time.Minute
	qualityBonus                   = 1.2
)

// VmIntegrityValidator scores a source VM's current integrity; the real
// implementation lives outside this package, wired in at construction.
type VmIntegrityValidator interface {
	ValidateVmIntegrity(vmID string) (float64, error)
}

// StaticVmIntegrityValidator returns a fixed score per VM ID, defaulting
// to a trusted score for unknown VMs. It exists for wiring the manager up
// before a real VM-attestation source is available.
type StaticVmIntegrityValidator struct {
	Scores       map[string]float64
	DefaultScore float64
}

func NewStaticVmIntegrityValidator() *StaticVmIntegrityValidator {
	return &StaticVmIntegrityValidator{Scores: map[string]float64{}, DefaultScore: 0.97}
}

func (v *StaticVmIntegrityValidator) ValidateVmIntegrity(vmID string) (float64, error) {
	if score, ok := v.Scores[vmID]; ok {
		return score, nil
	}
	return v.DefaultScore, nil
}

// ValidatorNode is one participant in the decentralized ledger mesh.
type ValidatorNode struct {
	NodeID string
	Stake  float64
}

// LedgerMesh tracks the validator set backing the decentralization proof.
// Its calculations are deliberately simple placeholders for metrics a
// real consensus layer would report; only the Nakamoto coefficient
// depends on the tracked validator count.
type LedgerMesh struct {
	mu         sync.Mutex
	validators map[string]ValidatorNode
}

func NewLedgerMesh() *LedgerMesh {
	return &LedgerMesh{validators: map[string]ValidatorNode{}}
}

func (m *LedgerMesh) RegisterValidator(node ValidatorNode) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.validators[node.NodeID] = node
}

func (m *LedgerMesh) nakamotoCoefficient() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	total := float64(len(m.validators))
	if total == 0 {
		return 0
	}
	c := total / 3.0
	if c < 1.0 {
		c = 1.0
	}
	return c
}

func (m *LedgerMesh) geographicDistribution() float64 { return 0.8 }
func (m *LedgerMesh) antiManipulationScore() float64  { return 0.95 }
func (m *LedgerMesh) validatorDiversity() float64     { return 0.85 }

// AuditSink receives a record of every committed bundle; the real
// implementation is the C14 ZJL ledger.
type AuditSink interface {
	RecordBundleCommitted(bundleID string, transactionCount int, sizeBytes uint64, integrityHash string)
}

// NopAuditSink discards every event, for callers that don't wire in a
// real audit trail.
type NopAuditSink struct{}

func (NopAuditSink) RecordBundleCommitted(string, int, uint64, string) {}

// Manager implements submit_bundle_transaction's full commit pipeline.
type Manager struct {
	vmValidator VmIntegrityValidator
	ledgerMesh  *LedgerMesh
	audit       AuditSink

	mu    sync.RWMutex
	txs   map[string]BundleTransaction
	clock func() time.Time
}

func NewManager(vmValidator VmIntegrityValidator, ledgerMesh *LedgerMesh, audit AuditSink) *Manager {
	if vmValidator == nil {
		vmValidator = NewStaticVmIntegrityValidator()
	}
	if ledgerMesh == nil {
		ledgerMesh = NewLedgerMesh()
	}
	if audit == nil {
		audit = NopAuditSink{}
	}
	return &Manager{
		vmValidator: vmValidator,
		ledgerMesh:  ledgerMesh,
		audit:       audit,
		txs:         map[string]BundleTransaction{},
		clock:       time.Now,
	}
}

// SubmitBundleTransaction runs the six-step commit pipeline: VM integrity
// gate, decentralization enforcement, auction initiation, economic-data
// split, transaction assembly, and audit emission.
func (m *Manager) SubmitBundleTransaction(bundle Bundle) (string, error) {
	txID := uuid.NewString()
	now := m.clock()

	vmValidation, err := m.validateVmIntegrity(bundle.SourceVM, now)
	if err != nil {
		return "", err
	}

	decentralizationProof, err := m.enforceDecentralization(now)
	if err != nil {
		return "", err
	}

	auctionMetadata := m.initiateBundleAuction(bundle, now)
	economicData := m.calculateEconomicData(bundle, now)

	signature := transactionSignature(txID, now)

	tx := BundleTransaction{
		TransactionID:         txID,
		Bundle:                bundle,
		VmValidation:          vmValidation,
		DecentralizationProof: decentralizationProof,
		AuctionMetadata:       auctionMetadata,
		EconomicData:          economicData,
		Timestamp:             now,
		Status:                TxValidating,
		Signature:             signature,
	}

	m.mu.Lock()
	m.txs[txID] = tx
	m.mu.Unlock()

	m.audit.RecordBundleCommitted(bundle.BundleID, 1, bundle.SizeBytes, bundle.ContentHash)

	return txID, nil
}

func (m *Manager) validateVmIntegrity(vmID string, now time.Time) (VmValidationResult, error) {
	score, err := m.vmValidator.ValidateVmIntegrity(vmID)
	if err != nil {
		return VmValidationResult{}, errors.NewIntegrityFailureError("bundletx: VM integrity validation error for %s: %v", vmID, err)
	}

	status := classifyIntegrity(score)
	passed := score >= vmValidationThreshold
	if !passed {
		return VmValidationResult{}, errors.NewIntegrityFailureError("bundletx: VM %s integrity score %.3f below threshold %.2f", vmID, score, vmValidationThreshold)
	}

	return VmValidationResult{
		IntegrityScore:   score,
		Status:           status,
		ValidatedAt:      now,
		ValidationPassed: passed,
	}, nil
}

func (m *Manager) enforceDecentralization(now time.Time) (DecentralizationProof, error) {
	nakamoto := m.ledgerMesh.nakamotoCoefficient()
	geo := m.ledgerMesh.geographicDistribution()

	if nakamoto < minNakamotoCoefficient {
		return DecentralizationProof{}, errors.NewQuorumFailureError("bundletx: Nakamoto coefficient %.2f below minimum %.1f", nakamoto, minNakamotoCoefficient)
	}
	if geo < minGeographicDistribution {
		return DecentralizationProof{}, errors.NewQuorumFailureError("bundletx: geographic distribution %.2f below minimum %.1f", geo, minGeographicDistribution)
	}

	return DecentralizationProof{
		NakamotoCoefficient:    nakamoto,
		GeographicDistribution: geo,
		ValidatorDiversity:     m.ledgerMesh.validatorDiversity(),
		AntiManipulationScore:  m.ledgerMesh.antiManipulationScore(),
		Timestamp:              now,
		ProofSignature:         decentralizationSignature(now),
	}, nil
}

func (m *Manager) initiateBundleAuction(bundle Bundle, now time.Time) AuctionMetadata {
	qualityMultiplier := bundle.QualityScore * qualityBonus
	baseBid := float64(bundle.SizeBytes) * 0.01
	startingBid := baseBid * qualityMultiplier

	return AuctionMetadata{
		AuctionID:         uuid.NewString(),
		StartingBid:       startingBid,
		CurrentBid:        startingBid,
		BiddingDeadline:   now.Add(biddingWindow),
		QualityMultiplier: qualityMultiplier,
		SLARequirements:   slaRequirementsFor(bundle.Metadata.Priority),
		Status:            AuctionOpen,
	}
}

func slaRequirementsFor(priority BundlePriority) []string {
	switch priority {
	case PriorityCritical:
		return []string{"99.99% uptime", "< 1ms latency", "Real-time processing"}
	case PriorityHigh:
		return []string{"99.9% uptime", "< 10ms latency"}
	default:
		return []string{"99% uptime"}
	}
}

func (m *Manager) calculateEconomicData(bundle Bundle, now time.Time) EconomicData {
	baseCost := float64(bundle.SizeBytes) * 0.001

	data := EconomicData{
		TransactionCost: baseCost * 0.3,
		ProcessingFee:   baseCost * 0.4,
		StorageFee:      baseCost * 0.3,
		Timestamp:       now,
	}

	if bundle.Type == BundleEconomicTransaction {
		settlementFee := baseCost * 0.1
		data.SettlementFee = &settlementFee
	}

	return data
}

func transactionSignature(txID string, now time.Time) string {
	enc := types.NewEncoder().PutString(txID).PutInt64(now.UnixNano())
	h := types.DomainHash(domainBundleTx, enc.Bytes())
	return "bundle_tx:" + h.String()
}

func decentralizationSignature(now time.Time) string {
	enc := types.NewEncoder().PutInt64(now.UnixNano())
	h := types.DomainHash(domainDecentralizationProof, enc.Bytes())
	return "decentral:" + h.String()
}

// GetTransactionStatus returns a transaction's current status.
func (m *Manager) GetTransactionStatus(transactionID string) (TransactionStatus, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	tx, ok := m.txs[transactionID]
	if !ok {
		return 0, errors.NewNotFoundError("bundletx: transaction %s not found", transactionID)
	}
	return tx.Status, nil
}

// GetTransaction returns a full copy of a stored transaction.
func (m *Manager) GetTransaction(transactionID string) (BundleTransaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	tx, ok := m.txs[transactionID]
	if !ok {
		return BundleTransaction{}, errors.NewNotFoundError("bundletx: transaction %s not found", transactionID)
	}
	return tx, nil
}
