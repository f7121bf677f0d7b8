package treasury

import "sync"

// MaintainerType enumerates the kinds of ecosystem participant a
// maintainer registry entry can represent (supplemented from
// bpci_treasury_integration.rs's MaintainerType).
type MaintainerType int

const (
	MaintainerValidator MaintainerType = iota
	MaintainerMiner
	MaintainerNotary
	MaintainerGovernance
	MaintainerCommunity
	MaintainerInfrastructure
)

// Maintainer is one registered recipient of community-reserve
// distributions.
type Maintainer struct {
	ID               string
	Type             MaintainerType
	PerformanceScore float64
	TotalEarned      Money
	IsActive         bool
}

// MaintainerRegistry tracks registered maintainers and performs
// performance-weighted distribution of community reserves.
type MaintainerRegistry struct {
	mu          sync.Mutex
	maintainers map[string]*Maintainer
}

func NewMaintainerRegistry() *MaintainerRegistry {
	return &MaintainerRegistry{maintainers: map[string]*Maintainer{}}
}

// Register adds or replaces a maintainer entry.
func (r *MaintainerRegistry) Register(id string, mtype MaintainerType, performanceScore float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.maintainers[id] = &Maintainer{ID: id, Type: mtype, PerformanceScore: performanceScore, IsActive: true}
}

// Deactivate marks a maintainer inactive; inactive maintainers are skipped
// by Distribute.
func (r *MaintainerRegistry) Deactivate(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m, ok := r.maintainers[id]; ok {
		m.IsActive = false
	}
}

// Distribute allocates availableFunds across active maintainers
// proportional to performance_score, skipping inactive and zero-sum cases
// (spec §4.9 step 7). Returns the per-maintainer allocation map and the
// total amount actually consumed (zero if there are no eligible
// maintainers or total performance is zero).
func (r *MaintainerRegistry) Distribute(availableFunds Money) (map[string]Money, Money) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.maintainers) == 0 || availableFunds <= 0 {
		return nil, 0
	}

	var totalScore float64
	active := make([]*Maintainer, 0, len(r.maintainers))
	for _, m := range r.maintainers {
		if m.IsActive && m.PerformanceScore > 0 {
			active = append(active, m)
			totalScore += m.PerformanceScore
		}
	}
	if totalScore <= 0 {
		return nil, 0
	}

	allocations := make(map[string]Money, len(active))
	var consumed Money
	for _, m := range active {
		share := m.PerformanceScore / totalScore
		num, den := rationalize(share)
		allocation := availableFunds.MulRat(num, den)
		allocations[m.ID] = allocation
		m.TotalEarned = m.TotalEarned.Add(allocation)
		consumed = consumed.Add(allocation)
	}
	return allocations, consumed
}

// rationalize approximates a float64 in [0,1] as a fraction with enough
// precision for money-sized amounts, avoiding repeated float64 arithmetic
// inside MulRat's exact big.Rat path.
func rationalize(f float64) (int64, int64) {
	const den = 1_000_000
	return int64(f * den), den
}

// Get returns a copy of a maintainer's current record, if present.
func (r *MaintainerRegistry) Get(id string) (Maintainer, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.maintainers[id]
	if !ok {
		return Maintainer{}, false
	}
	return *m, true
}
