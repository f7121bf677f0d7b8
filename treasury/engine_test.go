package treasury

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/GlobalSushrut/metanode/telemetry"
)

func TestProcessFiatInflow_SplitInvariantHolds(t *testing.T) {
	e := NewEngine(DefaultConfig(), nil, nil, nil)

	amount := FromFloat(1000)
	tx, err := e.ProcessFiatInflow(amount, SourceWalletGasFees, "wallet-1", 1000)
	require.NoError(t, err)
	require.NotNil(t, tx)

	require.LessOrEqual(t, tx.Splits.Sum().Sub(amount).Abs(), epsilonMicros)
	require.InDelta(t, 250.0, tx.Splits.CoinEconomy.ToFloat(), 0.01)
	require.InDelta(t, 250.0, tx.Splits.Infrastructure.CompanyAPI.ToFloat(), 0.01)
	require.InDelta(t, 100.0, tx.Splits.Infrastructure.OwnerSalary.ToFloat(), 0.01)
	require.InDelta(t, 400.0, tx.Splits.Infrastructure.Community.ToFloat(), 0.01)
}

func TestProcessFiatInflow_RejectsBelowMinimum(t *testing.T) {
	e := NewEngine(DefaultConfig(), nil, nil, nil)
	_, err := e.ProcessFiatInflow(0, SourceWalletGasFees, "w", 0)
	require.Error(t, err)
}

func TestProcessFiatInflow_RejectsAboveCeiling(t *testing.T) {
	cfg := DefaultConfig()
	e := NewEngine(cfg, nil, nil, nil)
	_, err := e.ProcessFiatInflow(FromFloat(200_000), SourceWalletGasFees, "w", 0)
	require.Error(t, err)
}

func TestProcessFiatInflow_RequiresWalletIDForWalletSources(t *testing.T) {
	e := NewEngine(DefaultConfig(), nil, nil, nil)
	_, err := e.ProcessFiatInflow(FromFloat(10), SourceWalletGasFees, "", 0)
	require.Error(t, err)

	_, err = e.ProcessFiatInflow(FromFloat(10), SourceBankSettlementFees, "", 0)
	require.NoError(t, err)
}

func TestProcessFiatInflow_AppendsHistoryWithHash(t *testing.T) {
	e := NewEngine(DefaultConfig(), nil, nil, nil)
	_, err := e.ProcessFiatInflow(FromFloat(50), SourceWalletRentPayments, "w", 1)
	require.NoError(t, err)

	hist := e.History()
	require.Len(t, hist, 1)
	require.Equal(t, KindRentPayment, hist[0].Kind)
	require.NotZero(t, hist[0].Hash)
}

func TestProcessFiatInflow_AutoDistributesToActiveMaintainers(t *testing.T) {
	registry := NewMaintainerRegistry()
	registry.Register("m1", MaintainerValidator, 80)
	registry.Register("m2", MaintainerMiner, 20)
	registry.Register("m3", MaintainerNotary, 50)
	registry.Deactivate("m3")

	cfg := DefaultConfig()
	e := NewEngine(cfg, nil, registry, nil)

	_, err := e.ProcessFiatInflow(FromFloat(10000), SourceWalletGasFees, "w", 0)
	require.NoError(t, err)

	m1, ok := registry.Get("m1")
	require.True(t, ok)
	m2, ok := registry.Get("m2")
	require.True(t, ok)
	m3, ok := registry.Get("m3")
	require.True(t, ok)

	require.Greater(t, m1.TotalEarned, m2.TotalEarned)
	require.Equal(t, Money(0), m3.TotalEarned) // inactive maintainer gets nothing

	require.InDelta(t, 2000.0, e.CommunityReserves().ToFloat(), 1.0) // half of the 4000 community share was distributed
}

type recordingDistributor struct {
	calls int
	last  Money
}

func (d *recordingDistributor) Distribute(amount Money, _ string) error {
	d.calls++
	d.last = amount
	return nil
}

func TestProcessFiatInflow_RecordsTelemetry(t *testing.T) {
	metrics := telemetry.New()
	e := NewEngine(DefaultConfig(), nil, nil, metrics)

	_, err := e.ProcessFiatInflow(FromFloat(1000), SourceWalletGasFees, "w", 0)
	require.NoError(t, err)

	snap := metrics.Snapshot()
	require.Equal(t, uint64(1), snap.TreasuryInflows)
	require.InDelta(t, 1000.0, snap.TreasuryDistributed, 0.01)
}

func TestProcessFiatInflow_DispatchesToCoinDistributor(t *testing.T) {
	d := &recordingDistributor{}
	e := NewEngine(DefaultConfig(), d, nil, nil)

	_, err := e.ProcessFiatInflow(FromFloat(400), SourceWalletGasFees, "w", 0)
	require.NoError(t, err)
	require.Equal(t, 1, d.calls)
	require.InDelta(t, 100.0, d.last.ToFloat(), 0.01)
}
