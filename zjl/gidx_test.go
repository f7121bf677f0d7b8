package zjl

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/GlobalSushrut/metanode/telemetry"
)

func TestScenarioF_FiveAttestationsOverFiveMinuteWindow(t *testing.T) {
	g := NewGIDXAggregator(5, Thresholds{ComplianceFloor: 0.8, IncidentCeiling: 2.0}, nil)

	base := time.Now()
	compliance := []bool{true, true, false, true, true}
	incidents := []bool{false, true, true, false, false}
	exfil := []bool{false, false, false, true, false}
	confidence := []float64{0.95, 0.87, 0.73, 0.91, 0.89}

	var snapshot GIDXSnapshot
	var allAlerts []Alert
	for i := 0; i < 5; i++ {
		a := ZK3Attestation{
			ComplianceOk:    compliance[i],
			IncidentSeen:    incidents[i],
			ExfilSuspected:  exfil[i],
			ConfidenceScore: confidence[i],
			Jurisdiction:    "US",
			Timestamp:       base.Add(time.Duration(i) * time.Second),
		}
		var alerts []Alert
		snapshot, alerts = g.AddAttestation(a)
		allAlerts = append(allAlerts, alerts...)
	}

	require.Equal(t, 5, snapshot.AttestationCount)
	require.Greater(t, snapshot.ComplianceScore, 0.0)
	require.Less(t, snapshot.ComplianceScore, 1.0)
	require.Greater(t, snapshot.IncidentRate, 0.0)
	require.Greater(t, snapshot.ExfiltrationRisk, 0.0)
	require.Less(t, snapshot.ExfiltrationRisk, 1.0)
	require.Greater(t, snapshot.OverallSecurity, 0.0)
	require.Less(t, snapshot.OverallSecurity, 1.0)
	require.NotEmpty(t, allAlerts, "expected at least one alert given incident_rate=24 > threshold 2.0")
}

func TestAddAttestation_PrunesEntriesOlderThanWindow(t *testing.T) {
	g := NewGIDXAggregator(1, Thresholds{ComplianceFloor: 0.5, IncidentCeiling: 100}, nil)
	base := time.Now()

	g.AddAttestation(ZK3Attestation{ComplianceOk: true, ConfidenceScore: 0.9, Jurisdiction: "US", Timestamp: base})
	snapshot, _ := g.AddAttestation(ZK3Attestation{ComplianceOk: true, ConfidenceScore: 0.9, Jurisdiction: "US", Timestamp: base.Add(2 * time.Minute)})

	require.Equal(t, 1, snapshot.AttestationCount, "first entry should have aged out of the 1-minute window")
}

func TestAddAttestation_SeparatesJurisdictions(t *testing.T) {
	g := NewGIDXAggregator(5, Thresholds{ComplianceFloor: 0.5, IncidentCeiling: 100}, nil)
	now := time.Now()

	g.AddAttestation(ZK3Attestation{ComplianceOk: true, ConfidenceScore: 0.9, Jurisdiction: "US", Timestamp: now})
	snapshot, _ := g.AddAttestation(ZK3Attestation{ComplianceOk: true, ConfidenceScore: 0.9, Jurisdiction: "EU", Timestamp: now})

	require.Equal(t, 1, snapshot.AttestationCount)
	require.Equal(t, 1, g.Snapshot("US").AttestationCount)
}

func TestSnapshot_EmptyJurisdictionReturnsZeroValue(t *testing.T) {
	g := NewGIDXAggregator(5, Thresholds{}, nil)
	require.Equal(t, GIDXSnapshot{}, g.Snapshot("nowhere"))
}

func TestAddAttestation_RecordsTelemetry(t *testing.T) {
	metrics := telemetry.New()
	g := NewGIDXAggregator(5, Thresholds{ComplianceFloor: 0.99, IncidentCeiling: 0}, metrics)

	now := time.Now()
	_, alerts := g.AddAttestation(ZK3Attestation{ComplianceOk: true, IncidentSeen: true, ConfidenceScore: 0.9, Jurisdiction: "US", Timestamp: now})
	require.NotEmpty(t, alerts, "zero incident ceiling should trip the incident alert")

	snap := metrics.Snapshot()
	require.Equal(t, uint64(1), snap.ZJLAttestations)
	require.Equal(t, uint64(len(alerts)), snap.ZJLWindowAlerts)
}
