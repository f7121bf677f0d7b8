// Package telemetry exposes the §6 SystemMetrics surface: a live
// Prometheus registry for scraping, plus a typed Snapshot() for callers
// that want the struct directly rather than parsing /metrics — the
// "reflection / stats-as-JSON" pattern replaced by a typed snapshot per
// spec §9's design note.
package telemetry

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Snapshot is the typed §6 SystemMetrics structure.
type Snapshot struct {
	ConsensusRounds    uint64
	ActiveValidators   int
	MempoolSizes       map[string]int
	TreasuryInflows    uint64
	TreasuryDistributed float64
	ZJLWindowAlerts    uint64
	ZJLAttestations    uint64
}

// Registry is the process-wide metrics surface. It is safe for concurrent
// use; the mempool-size map is guarded by its own mutex since Prometheus
// gauges don't give us a point-in-time read of arbitrary label sets.
type Registry struct {
	reg *prometheus.Registry

	consensusRounds  prometheus.Counter
	activeValidators prometheus.Gauge
	treasuryInflows  prometheus.Counter
	treasuryAmount   prometheus.Counter
	zjlAlerts        prometheus.Counter
	zjlAttestations  prometheus.Counter

	mu           sync.RWMutex
	mempoolSizes map[string]int
}

func New() *Registry {
	reg := prometheus.NewRegistry()

	r := &Registry{
		reg: reg,
		consensusRounds: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "metanode_consensus_rounds_total",
			Help: "Total consensus rounds observed by the light client verifier.",
		}),
		activeValidators: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "metanode_active_validators",
			Help: "Current size of the active validator set.",
		}),
		treasuryInflows: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "metanode_treasury_inflows_total",
			Help: "Total number of fiat inflow events processed by the treasury engine.",
		}),
		treasuryAmount: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "metanode_treasury_distributed_total",
			Help: "Total amount distributed across all treasury sub-allocations.",
		}),
		zjlAlerts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "metanode_zjl_alerts_total",
			Help: "Total GIDX-60 alerts raised.",
		}),
		zjlAttestations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "metanode_zjl_attestations_total",
			Help: "Total ZK3 attestations ingested by the GIDX aggregator.",
		}),
		mempoolSizes: make(map[string]int),
	}

	reg.MustRegister(r.consensusRounds, r.activeValidators, r.treasuryInflows, r.treasuryAmount, r.zjlAlerts, r.zjlAttestations)

	return r
}

func (r *Registry) Registerer() prometheus.Registerer { return r.reg }
func (r *Registry) Gatherer() prometheus.Gatherer     { return r.reg }

func (r *Registry) IncConsensusRound()            { r.consensusRounds.Inc() }
func (r *Registry) SetActiveValidators(n int)     { r.activeValidators.Set(float64(n)) }
func (r *Registry) IncTreasuryInflow(amount float64) {
	r.treasuryInflows.Inc()
	r.treasuryAmount.Add(amount)
}
func (r *Registry) IncZJLAlert()       { r.zjlAlerts.Inc() }
func (r *Registry) IncZJLAttestation() { r.zjlAttestations.Inc() }

func (r *Registry) SetMempoolSize(ledgerType string, size int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.mempoolSizes[ledgerType] = size
}

// Snapshot returns a point-in-time typed copy of the metrics surface.
func (r *Registry) Snapshot() Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sizes := make(map[string]int, len(r.mempoolSizes))
	for k, v := range r.mempoolSizes {
		sizes[k] = v
	}

	mf, _ := r.reg.Gather()
	snap := Snapshot{MempoolSizes: sizes}
	for _, fam := range mf {
		switch fam.GetName() {
		case "metanode_consensus_rounds_total":
			snap.ConsensusRounds = uint64(fam.Metric[0].GetCounter().GetValue())
		case "metanode_active_validators":
			snap.ActiveValidators = int(fam.Metric[0].GetGauge().GetValue())
		case "metanode_treasury_inflows_total":
			snap.TreasuryInflows = uint64(fam.Metric[0].GetCounter().GetValue())
		case "metanode_treasury_distributed_total":
			snap.TreasuryDistributed = fam.Metric[0].GetCounter().GetValue()
		case "metanode_zjl_alerts_total":
			snap.ZJLWindowAlerts = uint64(fam.Metric[0].GetCounter().GetValue())
		case "metanode_zjl_attestations_total":
			snap.ZJLAttestations = uint64(fam.Metric[0].GetCounter().GetValue())
		}
	}

	return snap
}
