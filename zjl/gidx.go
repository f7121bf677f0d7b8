package zjl

import (
	"sync"
	"time"

	"github.com/GlobalSushrut/metanode/telemetry"
)

// GIDXSnapshot is the current governance-index reading for one
// jurisdiction's sliding window.
type GIDXSnapshot struct {
	AttestationCount int
	ComplianceScore  float64
	IncidentRate     float64
	ExfiltrationRisk float64
	OverallSecurity  float64
}

// AlertKind classifies which GIDX threshold tripped.
type AlertKind int

const (
	AlertCompliance AlertKind = iota
	AlertIncident
)

// Alert is emitted when a GIDX snapshot crosses a configured threshold.
type Alert struct {
	Jurisdiction string
	Kind         AlertKind
	Value        float64
	Threshold    float64
	At           time.Time
}

// Thresholds configures when GIDXAggregator.AddAttestation should emit
// an Alert.
type Thresholds struct {
	ComplianceFloor float64 // alert when compliance_score < this
	IncidentCeiling float64 // alert when incident_rate > this
}

type windowEntry struct {
	attestation ZK3Attestation
}

// GIDXAggregator is GIDX-60: a per-jurisdiction sliding window over the
// last W minutes of ZK3 attestations, recomputing the governance index on
// every insertion.
type GIDXAggregator struct {
	WindowMinutes float64
	Thresholds    Thresholds

	mu      sync.Mutex
	entries map[string][]windowEntry
	metrics *telemetry.Registry
}

// NewGIDXAggregator builds an aggregator. metrics may be nil, in which case
// attestation and alert counters are not reported.
func NewGIDXAggregator(windowMinutes float64, thresholds Thresholds, metrics *telemetry.Registry) *GIDXAggregator {
	return &GIDXAggregator{
		WindowMinutes: windowMinutes,
		Thresholds:    thresholds,
		entries:       map[string][]windowEntry{},
		metrics:       metrics,
	}
}

// AddAttestation admits an attestation into its jurisdiction's window,
// prunes entries older than the window, recomputes the snapshot, and
// returns any alerts the new snapshot trips.
func (g *GIDXAggregator) AddAttestation(a ZK3Attestation) (GIDXSnapshot, []Alert) {
	g.mu.Lock()
	defer g.mu.Unlock()

	window := time.Duration(g.WindowMinutes * float64(time.Minute))
	cutoff := a.Timestamp.Add(-window)

	entries := append(g.entries[a.Jurisdiction], windowEntry{attestation: a})
	pruned := entries[:0]
	for _, e := range entries {
		if !e.attestation.Timestamp.Before(cutoff) {
			pruned = append(pruned, e)
		}
	}
	g.entries[a.Jurisdiction] = pruned

	snapshot := computeSnapshot(pruned, g.WindowMinutes)
	alerts := g.alertsFor(a.Jurisdiction, snapshot, a.Timestamp)

	if g.metrics != nil {
		g.metrics.IncZJLAttestation()
		for range alerts {
			g.metrics.IncZJLAlert()
		}
	}

	return snapshot, alerts
}

func computeSnapshot(entries []windowEntry, windowMinutes float64) GIDXSnapshot {
	n := len(entries)
	if n == 0 {
		return GIDXSnapshot{}
	}

	var confSum, compliantConfSum float64
	var incidents, exfils int
	for _, e := range entries {
		confSum += e.attestation.ConfidenceScore
		if e.attestation.ComplianceOk {
			compliantConfSum += e.attestation.ConfidenceScore
		}
		if e.attestation.IncidentSeen {
			incidents++
		}
		if e.attestation.ExfilSuspected {
			exfils++
		}
	}

	complianceScore := 0.0
	if confSum > 0 {
		complianceScore = compliantConfSum / confSum
	}

	incidentRate := 0.0
	if windowMinutes > 0 {
		incidentRate = float64(incidents) * (60.0 / windowMinutes)
	}

	exfiltrationRisk := float64(exfils) / float64(n)

	overall := clamp01((complianceScore + (1 - clamp01(incidentRate/10)) + (1 - exfiltrationRisk)) / 3)

	return GIDXSnapshot{
		AttestationCount: n,
		ComplianceScore:  complianceScore,
		IncidentRate:     incidentRate,
		ExfiltrationRisk: exfiltrationRisk,
		OverallSecurity:  overall,
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func (g *GIDXAggregator) alertsFor(jurisdiction string, snapshot GIDXSnapshot, at time.Time) []Alert {
	var alerts []Alert
	if snapshot.ComplianceScore < g.Thresholds.ComplianceFloor {
		alerts = append(alerts, Alert{Jurisdiction: jurisdiction, Kind: AlertCompliance, Value: snapshot.ComplianceScore, Threshold: g.Thresholds.ComplianceFloor, At: at})
	}
	if snapshot.IncidentRate > g.Thresholds.IncidentCeiling {
		alerts = append(alerts, Alert{Jurisdiction: jurisdiction, Kind: AlertIncident, Value: snapshot.IncidentRate, Threshold: g.Thresholds.IncidentCeiling, At: at})
	}
	return alerts
}

// Snapshot returns the current snapshot for a jurisdiction without
// admitting a new attestation.
func (g *GIDXAggregator) Snapshot(jurisdiction string) GIDXSnapshot {
	g.mu.Lock()
	defer g.mu.Unlock()
	return computeSnapshot(g.entries[jurisdiction], g.WindowMinutes)
}
