package zjl

import (
	"encoding/binary"
	"math"
	"time"

	"github.com/GlobalSushrut/metanode/types"
)

const (
	zk3DomainRound0 = "ZK3_ROUND_0"
	zk3DomainRound1 = "ZK3_ROUND_1"
	zk3DomainProof  = "ZK3_PROOF"
	zk3DomainVmCommitment = "ZK3_VM_COMMITMENT"

	complianceSeverityFloor  = 8
	complianceCountThreshold = 5
	incidentSeverityFloor    = 9
)

// AuditEvent is one VM audit record fed into ZK3 attestation.
type AuditEvent struct {
	Severity  int
	Kind      string
	Timestamp time.Time
}

// VmState is the VM snapshot an attestation is bound to.
type VmState struct {
	VmID        string
	Jurisdiction string
	StateRoot   types.Hash
}

// ZK3Attestation is the per-VM compliance/incident/exfiltration verdict,
// carrying a re-derivable domain-hashed transcript in place of a true
// zero-knowledge proof (same shape as the C1 VRF proof).
type ZK3Attestation struct {
	ComplianceOk    bool
	IncidentSeen    bool
	ExfilSuspected  bool
	ZkProof         types.Hash
	VmCommitment    types.Hash
	ConfidenceScore float64
	Jurisdiction    string
	Timestamp       time.Time
}

func attestationTranscript(state VmState, events []AuditEvent, ts time.Time) (types.Hash, types.Hash) {
	enc := types.NewEncoder().PutString(state.VmID).PutHash(state.StateRoot).PutUint32(uint32(len(events)))
	for _, e := range events {
		enc = enc.PutInt64(int64(e.Severity)).PutString(e.Kind)
	}
	round0 := types.DomainHash(zk3DomainRound0, enc.Bytes())
	round1 := types.DomainHashMulti(zk3DomainRound1, round0[:], []byte(state.Jurisdiction))

	stampBytes := make([]byte, 8)
	binary.BigEndian.PutUint64(stampBytes, uint64(ts.UnixNano()))
	proof := types.DomainHashMulti(zk3DomainProof, round1[:], stampBytes)
	commitment := types.DomainHashMulti(zk3DomainVmCommitment, []byte(state.VmID), state.StateRoot[:])

	return proof, commitment
}

// confidenceFromEvents derives a deterministic, non-zero confidence score
// from event volume and severity: denser, more severe evidence yields
// higher confidence, asymptotically approaching 1.
func confidenceFromEvents(events []AuditEvent) float64 {
	if len(events) == 0 {
		return 0.5
	}
	var severitySum float64
	for _, e := range events {
		severitySum += float64(e.Severity)
	}
	avgSeverity := severitySum / float64(len(events))
	return 1 - math.Exp(-avgSeverity/10)
}

// Attest implements ZK3 attestation: classify compliance/incident status
// from event severities, then bind the verdict to a domain-hashed
// transcript over the VM state and event set.
func Attest(state VmState, events []AuditEvent, exfilSuspected bool, now time.Time) ZK3Attestation {
	var highSeverityCount int
	var incidentSeen bool
	for _, e := range events {
		if e.Severity >= complianceSeverityFloor {
			highSeverityCount++
		}
		if e.Severity >= incidentSeverityFloor {
			incidentSeen = true
		}
	}
	complianceOk := highSeverityCount <= complianceCountThreshold

	proof, commitment := attestationTranscript(state, events, now)

	return ZK3Attestation{
		ComplianceOk:    complianceOk,
		IncidentSeen:    incidentSeen,
		ExfilSuspected:  exfilSuspected,
		ZkProof:         proof,
		VmCommitment:    commitment,
		ConfidenceScore: confidenceFromEvents(events),
		Jurisdiction:    state.Jurisdiction,
		Timestamp:       now,
	}
}

// VerifyAttestation re-derives the transcript from state and events and
// compares it against the attestation's recorded proof and commitment.
func VerifyAttestation(state VmState, events []AuditEvent, a ZK3Attestation) bool {
	proof, commitment := attestationTranscript(state, events, a.Timestamp)
	return proof == a.ZkProof && commitment == a.VmCommitment
}
