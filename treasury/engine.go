package treasury

import (
	"sync"

	"github.com/google/uuid"

	"github.com/GlobalSushrut/metanode/errors"
	"github.com/GlobalSushrut/metanode/telemetry"
	"github.com/GlobalSushrut/metanode/types"
)

const domainTreasuryTx = "TREASURY_TX"

// epsilonMicros is the invariant-check tolerance, ε = 1e-4 units (spec
// §4.9 step 4), expressed in micros.
const epsilonMicros = Money(100) // 1e-4 * 1e6

// Source enumerates where an inflow originated (spec §4.9).
type Source int

const (
	SourceWalletGasFees Source = iota
	SourceWalletRentPayments
	SourceBankSettlementFees
	SourceGovernanceTransactionFees
	SourceEmergencyFunds
)

// Kind enumerates treasury transaction kinds recorded in history.
type Kind int

const (
	KindGasFeeCollection Kind = iota
	KindRentPayment
	KindEmergencyDistribution
	KindMaintainerPayment
	KindGovernanceAllocation
)

func kindForSource(s Source) Kind {
	switch s {
	case SourceWalletRentPayments:
		return KindRentPayment
	default:
		return KindGasFeeCollection
	}
}

// InfrastructureSplit is the three-way breakdown of the 75% infrastructure
// share (spec §4.9 step 3).
type InfrastructureSplit struct {
	CompanyAPI   Money
	OwnerSalary  Money
	Community    Money
}

// Splits is the full breakdown of one inflow.
type Splits struct {
	CoinEconomy    Money
	Infrastructure InfrastructureSplit
}

// Sum returns coin + company_api + owner_salary + community, the quantity
// the invariant check in step 4 compares against the original amount.
func (s Splits) Sum() Money {
	return s.CoinEconomy.
		Add(s.Infrastructure.CompanyAPI).
		Add(s.Infrastructure.OwnerSalary).
		Add(s.Infrastructure.Community)
}

// TreasuryTransaction is the immutable audit record appended to history
// (spec §4.9 step 6).
type TreasuryTransaction struct {
	ID        string
	Kind      Kind
	Source    Source
	WalletID  string
	Total     Money
	Splits    Splits
	Timestamp int64
	Hash      types.Hash
}

func transactionHash(id string, kind Kind, total Money, splits Splits, timestamp int64) types.Hash {
	enc := types.NewEncoder().
		PutString(id).
		PutUint32(uint32(kind)).
		PutInt64(int64(total)).
		PutInt64(int64(splits.CoinEconomy)).
		PutInt64(int64(splits.Infrastructure.CompanyAPI)).
		PutInt64(int64(splits.Infrastructure.OwnerSalary)).
		PutInt64(int64(splits.Infrastructure.Community)).
		PutInt64(timestamp)
	return types.DomainHash(domainTreasuryTx, enc.Bytes())
}

// CoinDistributor hands the 25% coin-economy share off to whatever mints
// or settles coins. Left as an interface per spec §9's Open Question 4:
// the PoE-to-coin-distribution path beyond the 25% split is an
// integration-time decision.
type CoinDistributor interface {
	Distribute(amount Money, walletID string) error
}

// NopCoinDistributor is the logging-free default: it accepts every
// distribution without side effects.
type NopCoinDistributor struct{}

func (NopCoinDistributor) Distribute(Money, string) error { return nil }

// Config configures the split engine (spec §4.9).
type Config struct {
	MinimumAmount             Money
	PerSourceCeiling          Money
	AutoDistributeMaintainers bool
	CompanyAPIWallet          string
	OwnerWallet               string
}

// DefaultConfig matches the original's 1/3, 2/15, 8/15 infra split and a
// $100k per-source ceiling (spec §4.9 step 3's example).
func DefaultConfig() Config {
	return Config{
		MinimumAmount:             FromFloat(0.01),
		PerSourceCeiling:          FromFloat(100_000),
		AutoDistributeMaintainers: true,
	}
}

// Engine implements process_fiat_inflow (spec §4.9).
type Engine struct {
	mu          sync.Mutex
	cfg         Config
	distributor CoinDistributor
	maintainers *MaintainerRegistry
	community   Money
	history     []TreasuryTransaction
	metrics     *telemetry.Registry
}

// NewEngine builds a treasury engine. distributor may be nil, in which
// case NopCoinDistributor is used. metrics may be nil, in which case
// inflow counters are not reported.
func NewEngine(cfg Config, distributor CoinDistributor, maintainers *MaintainerRegistry, metrics *telemetry.Registry) *Engine {
	if distributor == nil {
		distributor = NopCoinDistributor{}
	}
	if maintainers == nil {
		maintainers = NewMaintainerRegistry()
	}
	return &Engine{cfg: cfg, distributor: distributor, maintainers: maintainers, metrics: metrics}
}

// ProcessFiatInflow implements process_fiat_inflow(amount, source,
// wallet_id): validates, splits 25/75, checks the sum invariant, dispatches,
// records history, and optionally redistributes to maintainers.
func (e *Engine) ProcessFiatInflow(amount Money, source Source, walletID string, nowMs int64) (*TreasuryTransaction, error) {
	if amount <= 0 || amount < e.cfg.MinimumAmount {
		return nil, errors.NewValidationError("treasury: invalid amount")
	}
	if e.cfg.PerSourceCeiling > 0 && amount > e.cfg.PerSourceCeiling {
		return nil, errors.NewValidationError("treasury: amount exceeds per-source ceiling")
	}
	isWalletSource := source == SourceWalletGasFees || source == SourceWalletRentPayments
	if isWalletSource {
		if err := types.RequireNonEmpty("wallet_id", walletID); err != nil {
			return nil, err
		}
	}

	coin := amount.MulRat(1, 4) // 25%
	infra := amount.Sub(coin)  // 75%, computed as the remainder so coin+infra == amount exactly

	split := Splits{
		CoinEconomy: coin,
		Infrastructure: InfrastructureSplit{
			CompanyAPI:  infra.MulRat(1, 3),  // 1/3 of infra = 25% of total
			OwnerSalary: infra.MulRat(2, 15), // 2/15 of infra = 10% of total
			Community:   infra.MulRat(8, 15), // 8/15 of infra = 40% of total
		},
	}

	if split.Sum().Sub(amount).Abs() > epsilonMicros {
		return nil, errors.NewIntegrityFailureError("treasury: split invariant violated, sum=%d amount=%d", split.Sum(), amount)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.distributor.Distribute(split.CoinEconomy, walletID); err != nil {
		return nil, errors.NewInternalError("treasury: coin distribution failed: %v", err)
	}
	// company_api/owner_salary are recorded only in the transaction's
	// Splits; the engine keeps no balance for them and credits no wallet.
	e.community = e.community.Add(split.Infrastructure.Community)

	id := uuid.NewString()
	tx := TreasuryTransaction{
		ID:        id,
		Kind:      kindForSource(source),
		Source:    source,
		WalletID:  walletID,
		Total:     amount,
		Splits:    split,
		Timestamp: nowMs,
	}
	tx.Hash = transactionHash(id, tx.Kind, amount, split, nowMs)
	e.history = append(e.history, tx)

	if e.cfg.AutoDistributeMaintainers {
		e.distributeToMaintainers()
	}

	if e.metrics != nil {
		e.metrics.IncTreasuryInflow(amount.ToFloat())
	}

	return &tx, nil
}

// distributeToMaintainers allocates up to 50% of community reserves to
// active maintainers proportional to performance_score (spec §4.9 step 7).
// Must be called with e.mu held.
func (e *Engine) distributeToMaintainers() {
	allocations, consumed := e.maintainers.Distribute(e.community.MulRat(1, 2))
	if len(allocations) == 0 {
		return
	}
	e.community = e.community.Sub(consumed)
}

// CommunityReserves reports the current undistributed community balance.
func (e *Engine) CommunityReserves() Money {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.community
}

// History returns a copy of the recorded transaction history.
func (e *Engine) History() []TreasuryTransaction {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]TreasuryTransaction, len(e.history))
	copy(out, e.history)
	return out
}
