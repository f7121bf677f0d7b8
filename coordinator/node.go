// Package coordinator implements C12: the BPI node coordinator that
// starts, supervises, and retires the ecosystem's typed worker nodes
// (ENC cluster, oracle, shadow registry, pipeline API, storage, proof,
// audit, logbook). Grounded on spec §4.12 and
// original_source/bpi-core/src/bpi_node_coordinator.rs.
package coordinator

import "time"

// NodeKind enumerates the eight specialized BPI node types.
type NodeKind int

const (
	KindEncCluster NodeKind = iota
	KindOracle
	KindShadowRegistry
	KindPipelineApi
	KindStorage
	KindProof
	KindAudit
	KindLogbook
)

func (k NodeKind) String() string {
	switch k {
	case KindEncCluster:
		return "enc_cluster"
	case KindOracle:
		return "oracle"
	case KindShadowRegistry:
		return "shadow_registry"
	case KindPipelineApi:
		return "pipeline_api"
	case KindStorage:
		return "storage"
	case KindProof:
		return "proof"
	case KindAudit:
		return "audit"
	case KindLogbook:
		return "logbook"
	default:
		return "unknown"
	}
}

// EncryptionLevel is the ENC cluster node's configured strength.
type EncryptionLevel int

const (
	EncryptionStandard EncryptionLevel = iota
	EncryptionMilitary
	EncryptionQuantum
)

// OracleType is the oracle node's data-feed category.
type OracleType int

const (
	OraclePrice OracleType = iota
	OracleData
	OracleCrossChain
	OracleGovernance
)

// ShadowRegistryType is the shadow-registry node's bridging mode.
type ShadowRegistryType int

const (
	ShadowWeb2Bridge ShadowRegistryType = iota
	ShadowPrivacyRegistry
	ShadowComplianceRegistry
)

// StorageKind is the storage node's replication strategy.
type StorageKind int

const (
	StorageDistributed StorageKind = iota
	StorageHighPerformance
	StorageArchive
)

// ProofKind is the proof node's attestation category.
type ProofKind int

const (
	ProofTransaction ProofKind = iota
	ProofCompliance
	ProofIdentity
)

// ComplianceLevel is the proof node's required rigor.
type ComplianceLevel int

const (
	ComplianceBasic ComplianceLevel = iota
	ComplianceEnhanced
	ComplianceGovernment
)

// AuditScope is the audit node's coverage.
type AuditScope int

const (
	AuditTransaction AuditScope = iota
	AuditNode
	AuditFullSystem
)

// LogbookKind is the logbook node's receipt category.
type LogbookKind int

const (
	LogbookAuctionRecords LogbookKind = iota
	LogbookTransactionRecords
	LogbookComplianceRecords
)

// EncClusterConfig configures a KindEncCluster node.
type EncClusterConfig struct {
	ClusterID       string
	EncryptionLevel EncryptionLevel
	GatewayEndpoint string
	MempoolSize     uint32
}

// OracleConfig configures a KindOracle node.
type OracleConfig struct {
	OracleType        OracleType
	SupportedChains   []string
	UpdateFrequencyMs uint64
	ReliabilityScore  float64
}

// ShadowRegistryConfig configures a KindShadowRegistry node.
type ShadowRegistryConfig struct {
	RegistryType   ShadowRegistryType
	Web2Endpoints  []string
	Web3Contracts  []string
	BridgeCapacity uint32
}

// PipelineApiConfig configures a KindPipelineApi node.
type PipelineApiConfig struct {
	PipelineID        string
	BisoPolicies      []string
	TrafficLightRules []string
	ThroughputLimit   uint32
}

// StorageConfig configures a KindStorage node.
type StorageConfig struct {
	StorageType        StorageKind
	CapacityGB         uint64
	ReplicationFactor  uint32
	EncryptionEnabled  bool
}

// ProofConfig configures a KindProof node.
type ProofConfig struct {
	ProofType           ProofKind
	ComplianceLevel     ComplianceLevel
	AuditRetentionDays  uint32
	GovernmentEndpoints []string
}

// AuditConfig configures a KindAudit node.
type AuditConfig struct {
	AuditScope           AuditScope
	ComplianceFrameworks []string
	AuditFrequencyHours  uint32
	ReportingEndpoints   []string
}

// LogbookConfig configures a KindLogbook node.
type LogbookConfig struct {
	LogbookType     LogbookKind
	ReceiptSources  []string
	StoragePolicy   string
	RetentionPolicy string
}

// NodeConfig is a tagged union of the eight node configs; exactly one
// field matching Kind should be set.
type NodeConfig struct {
	Kind           NodeKind
	EncCluster     *EncClusterConfig
	Oracle         *OracleConfig
	ShadowRegistry *ShadowRegistryConfig
	PipelineApi    *PipelineApiConfig
	Storage        *StorageConfig
	Proof          *ProofConfig
	Audit          *AuditConfig
	Logbook        *LogbookConfig
}

// NodeStatus is a node's lifecycle state.
type NodeStatus int

const (
	StatusInitializing NodeStatus = iota
	StatusActive
	StatusSyncing
	StatusMaintenance
	StatusStopped
	StatusError
)

func (s NodeStatus) String() string {
	switch s {
	case StatusInitializing:
		return "initializing"
	case StatusActive:
		return "active"
	case StatusSyncing:
		return "syncing"
	case StatusMaintenance:
		return "maintenance"
	case StatusStopped:
		return "stopped"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// NodeMetrics is a node's periodically-updated performance snapshot.
type NodeMetrics struct {
	CPUUsage          float64
	MemoryUsage       float64
	NetworkThroughput float64
	StorageUsage      float64
	UptimeSeconds     uint64
	RequestsProcessed uint64
	ErrorsCount       uint64
}

// Node is one running (or retired) BPI node instance.
type Node struct {
	NodeID          string
	Config          NodeConfig
	Status          NodeStatus
	Endpoint        string
	StartTime       time.Time
	LastHeartbeat   time.Time
	BlockHeight     uint64
	PeerConnections []string
	Metrics         NodeMetrics
}

// ConnectionKind is the transport a NodeConnection uses.
type ConnectionKind int

const (
	ConnP2P ConnectionKind = iota
	ConnRPC
	ConnWebSocket
	ConnDirectMemory
)

// ConnectionStatus is a NodeConnection's current state.
type ConnectionStatus int

const (
	ConnStatusConnected ConnectionStatus = iota
	ConnStatusDisconnected
	ConnStatusReconnecting
	ConnStatusFailed
)

// NodeConnection is an established (or torn-down) link between two nodes.
type NodeConnection struct {
	ConnectionID string
	FromNode     string
	ToNode       string
	Kind         ConnectionKind
	EstablishedAt time.Time
	Status       ConnectionStatus
}
