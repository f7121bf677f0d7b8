package biso

import (
	"sync"

	"github.com/google/uuid"
)

// WalletStamp binds a wallet to its verified BISO profile.
type WalletStamp struct {
	WalletID string
	Kind     StampKind
}

// StampRegistry looks up a wallet's verified stamp.
type StampRegistry struct {
	mu     sync.RWMutex
	stamps map[string]WalletStamp
}

func NewStampRegistry() *StampRegistry {
	return &StampRegistry{stamps: map[string]WalletStamp{}}
}

func (r *StampRegistry) Register(walletID string, kind StampKind) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stamps[walletID] = WalletStamp{WalletID: walletID, Kind: kind}
}

func (r *StampRegistry) Lookup(walletID string) (WalletStamp, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.stamps[walletID]
	return s, ok
}

// Metrics tracks request counters (spec §4.10: "always incremented").
type Metrics struct {
	mu                sync.Mutex
	TotalRequests     uint64
	PerEndpointCounts map[string]uint64
	DeniedCount       uint64
	ComplianceReports uint64
}

func NewMetrics() *Metrics {
	return &Metrics{PerEndpointCounts: map[string]uint64{}}
}

func (m *Metrics) record(endpoint string, allowed, complianceRequired bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.TotalRequests++
	m.PerEndpointCounts[endpoint]++
	if !allowed {
		m.DeniedCount++
	}
	if complianceRequired {
		m.ComplianceReports++
	}
}

// ApiResponse is evaluate_communication_permission's structured result
// (spec §4.10); denials are reported here rather than raised.
type ApiResponse struct {
	Success            bool
	AccessLevel        AccessLevel
	ComplianceRequired bool
	Error              string
	AuditTrailID       string
}

// AccessLogEntry is one append-only audit record, grounded on the
// original ApiAccessLog/audit_trail_id shape.
type AccessLogEntry struct {
	LogID         string
	WalletID      string
	Endpoint      string
	Operation     string
	AccessGranted bool
	TimestampMs   int64
}

// Gate implements evaluate_communication_permission.
type Gate struct {
	stamps  *StampRegistry
	metrics *Metrics

	mu   sync.Mutex
	logs []AccessLogEntry
}

func NewGate(stamps *StampRegistry, metrics *Metrics) *Gate {
	if stamps == nil {
		stamps = NewStampRegistry()
	}
	if metrics == nil {
		metrics = NewMetrics()
	}
	return &Gate{stamps: stamps, metrics: metrics}
}

func (g *Gate) Stamps() *StampRegistry { return g.stamps }

// AccessLogs returns a copy of the accumulated audit trail.
func (g *Gate) AccessLogs() []AccessLogEntry {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]AccessLogEntry, len(g.logs))
	copy(out, g.logs)
	return out
}

func (g *Gate) appendLog(walletID, endpoint, operation string, granted bool) string {
	id := uuid.NewString()
	g.mu.Lock()
	g.logs = append(g.logs, AccessLogEntry{
		LogID:         id,
		WalletID:      walletID,
		Endpoint:      endpoint,
		Operation:     operation,
		AccessGranted: granted,
	})
	g.mu.Unlock()
	return id
}

func (g *Gate) Metrics() *Metrics { return g.metrics }

// EvaluateCommunicationPermission implements spec §4.10's six-step
// decision: missing stamp denies; explicit blocklist denies; government
// endpoints require Government; bank endpoints require Government or
// Bank; PoE sharing is open to every profile (with a compliance-report
// requirement for Unstamped/Individual/Enterprise); otherwise allow at
// the profile's default access level.
func (g *Gate) EvaluateCommunicationPermission(walletID, endpoint, operation string) ApiResponse {
	stamp, ok := g.stamps.Lookup(walletID)
	if !ok {
		resp := ApiResponse{Success: false, Error: "wallet has no verified stamp"}
		resp.AuditTrailID = g.appendLog(walletID, endpoint, operation, false)
		g.metrics.record(endpoint, false, false)
		return resp
	}

	profile := Profiles[stamp.Kind]

	if profile.Blocked(endpoint) {
		resp := ApiResponse{Success: false, AccessLevel: profile.DefaultAccessLevel, Error: classifyBlockedReason(endpoint)}
		resp.AuditTrailID = g.appendLog(walletID, endpoint, operation, false)
		g.metrics.record(endpoint, false, false)
		return resp
	}

	if IsGovernmentEndpoint(endpoint) && stamp.Kind != StampGovernment {
		resp := ApiResponse{Success: false, AccessLevel: profile.DefaultAccessLevel, Error: "Government API access denied: requires Government stamp"}
		resp.AuditTrailID = g.appendLog(walletID, endpoint, operation, false)
		g.metrics.record(endpoint, false, false)
		return resp
	}

	if IsBankEndpoint(endpoint) && stamp.Kind != StampGovernment && stamp.Kind != StampBank {
		resp := ApiResponse{Success: false, AccessLevel: profile.DefaultAccessLevel, Error: "Bank API access denied: requires Government or Bank stamp"}
		resp.AuditTrailID = g.appendLog(walletID, endpoint, operation, false)
		g.metrics.record(endpoint, false, false)
		return resp
	}

	if IsPoESharingEndpoint(endpoint) {
		complianceRequired := stamp.Kind == StampUnstamped || stamp.Kind == StampIndividual || stamp.Kind == StampEnterprise
		accessLevel := profile.DefaultAccessLevel
		if stamp.Kind == StampUnstamped {
			accessLevel = AccessPoeOnly
		}
		resp := ApiResponse{Success: true, AccessLevel: accessLevel, ComplianceRequired: complianceRequired}
		resp.AuditTrailID = g.appendLog(walletID, endpoint, operation, true)
		g.metrics.record(endpoint, true, complianceRequired)
		return resp
	}

	resp := ApiResponse{Success: true, AccessLevel: profile.DefaultAccessLevel, ComplianceRequired: profile.Restrictions.ComplianceReportingRequired}
	resp.AuditTrailID = g.appendLog(walletID, endpoint, operation, true)
	g.metrics.record(endpoint, true, resp.ComplianceRequired)
	return resp
}

func classifyBlockedReason(endpoint string) string {
	if IsGovernmentEndpoint(endpoint) {
		return "Government API access denied: endpoint blocked for this profile"
	}
	if IsBankEndpoint(endpoint) {
		return "Bank API access denied: endpoint blocked for this profile"
	}
	return "endpoint blocked for this profile"
}
