// Package bundletx implements C13: bundle transaction submission with a
// VM-integrity gate, a decentralization proof, BPCI auction metadata, and
// economic-data split, plus audit event emission. Grounded on spec §4.13
// and original_source/bpi-core/crates/ziplock-json/src/bundle_transaction.rs.
package bundletx

import "time"

const domainBundleTx = "BUNDLE_TX"
const domainDecentralizationProof = "DECENTRALIZATION_PROOF"

// BundleType classifies what kind of payload a bundle carries.
type BundleType int

const (
	BundleAuditData BundleType = iota
	BundleVmExecution
	BundleConsensusData
	BundleEconomicTransaction
	BundleSecurityAlert
	BundleSystemMetrics
)

// BundlePriority drives the SLA requirements attached at auction time.
type BundlePriority int

const (
	PriorityCritical BundlePriority = iota
	PriorityHigh
	PriorityNormal
	PriorityLow
)

// AccessControl restricts which VMs may read a bundle and for how long.
type AccessControl struct {
	ClearanceLevel string
	AuthorizedVMs  []string
	ExpiresAt      *time.Time
}

// BundleMetadata is descriptive, non-payload information about a bundle.
type BundleMetadata struct {
	Description     string
	Priority        BundlePriority
	RetentionDays   uint32
	ComplianceTags  []string
	AccessControl   AccessControl
}

// Bundle is the unit of work submitted for commitment.
type Bundle struct {
	BundleID     string
	Type         BundleType
	ContentHash  string
	SizeBytes    uint64
	QualityScore float64
	SourceVM     string
	Metadata     BundleMetadata
	Content      []byte
}

// VmIntegrityStatus classifies a VM integrity score into a trust band.
type VmIntegrityStatus int

const (
	VmTrusted VmIntegrityStatus = iota
	VmWarning
	VmCompromised
)

func classifyIntegrity(score float64) VmIntegrityStatus {
	switch {
	case score >= 0.95:
		return VmTrusted
	case score >= 0.8:
		return VmWarning
	default:
		return VmCompromised
	}
}

// VmValidationResult is the outcome of gating a bundle on its source VM's
// integrity score.
type VmValidationResult struct {
	IntegrityScore   float64
	Status           VmIntegrityStatus
	ValidatedAt      time.Time
	ValidationPassed bool
}

// DecentralizationProof attests that the ledger mesh meets minimum
// decentralization requirements at commit time.
type DecentralizationProof struct {
	NakamotoCoefficient   float64
	GeographicDistribution float64
	ValidatorDiversity    float64
	AntiManipulationScore float64
	Timestamp             time.Time
	ProofSignature        string
}

// AuctionStatus is a BPCI bundle auction's lifecycle state.
type AuctionStatus int

const (
	AuctionOpen AuctionStatus = iota
	AuctionBidding
	AuctionClosed
	AuctionAwarded
	AuctionCancelled
)

// AuctionMetadata is the auction record attached to a committed bundle.
type AuctionMetadata struct {
	AuctionID         string
	StartingBid       float64
	CurrentBid        float64
	BiddingDeadline   time.Time
	QualityMultiplier float64
	SLARequirements   []string
	Status            AuctionStatus
}

// EconomicData is the multi-coin fee split computed for a bundle
// (spec §4.13: GEN/NEX/FLX/AUR coins).
type EconomicData struct {
	TransactionCost float64 // GEN
	ProcessingFee   float64 // NEX
	StorageFee      float64 // FLX
	SettlementFee   *float64 // AUR, only for EconomicTransaction bundles
	Timestamp       time.Time
}

// TransactionStatus is a BundleTransaction's lifecycle state.
type TransactionStatus int

const (
	TxPending TransactionStatus = iota
	TxValidating
	TxValidated
	TxAuctioning
	TxCommitted
	TxFailed
	TxRejected
)

// BundleTransaction is the fully-assembled, signed commit record for one
// submitted bundle.
type BundleTransaction struct {
	TransactionID         string
	Bundle                Bundle
	VmValidation          VmValidationResult
	DecentralizationProof DecentralizationProof
	AuctionMetadata       AuctionMetadata
	EconomicData          EconomicData
	Timestamp             time.Time
	Status                TransactionStatus
	Signature             string
}
