package receipts

import (
	"github.com/GlobalSushrut/metanode/errors"
	"github.com/GlobalSushrut/metanode/types"
)

const domainAggReceipts = "AGG_RECEIPTS"
const domainAggTx = "AGG_TX"

// AggregatedTransaction is the C3 roll-up of a drained receipt batch (spec
// §3).
type AggregatedTransaction struct {
	TxID          string
	Ledger        LedgerType
	Receipts      []Receipt
	ReceiptCount  int
	SourceObj     string
	TargetObj     string
	KnotInvariant Knot
	AggregatedHash types.Hash
	Timestamp     int64
}

func aggReceiptsHash(batch []Receipt) types.Hash {
	enc := types.NewEncoder().PutUint32(uint32(len(batch)))
	for _, r := range batch {
		h := r.ReceiptHash()
		enc = enc.PutHash(h)
	}
	return types.DomainHash(domainAggReceipts, enc.Bytes())
}

func buildAggregatedTransaction(txID string, ledger LedgerType, batch []Receipt, source, target string, ts int64) *AggregatedTransaction {
	knot := BuildKnot(batch)
	hReceipts := aggReceiptsHash(batch)
	aggHash := types.DomainHashMulti(domainAggTx, hReceipts[:], knot.InvariantHash[:])

	return &AggregatedTransaction{
		TxID:           txID,
		Ledger:         ledger,
		Receipts:       batch,
		ReceiptCount:   len(batch),
		SourceObj:      source,
		TargetObj:      target,
		KnotInvariant:  knot,
		AggregatedHash: aggHash,
		Timestamp:      ts,
	}
}

// Verify re-checks the two invariants spec §3 names for AggregatedTransaction.
func (a *AggregatedTransaction) Verify() bool {
	if len(a.Receipts) != a.ReceiptCount {
		return false
	}
	if !a.KnotInvariant.Reverify() {
		return false
	}
	hReceipts := aggReceiptsHash(a.Receipts)
	want := types.DomainHashMulti(domainAggTx, hReceipts[:], a.KnotInvariant.InvariantHash[:])
	return want == a.AggregatedHash
}

// Config is the per-mempool aggregator configuration (spec §4.3).
type Config struct {
	BatchSize    int
	TimeWindowMs int64
	MaxPending   int
}

// TxIDFunc mints a fresh transaction identifier for each aggregation; the
// aggregator has no identity source of its own, the caller supplies one
// (e.g. a uuid.New() wrapper, per SPEC_FULL's ambient-stack wiring).
type TxIDFunc func() string

// Aggregator implements the C3 five-pool mempool and its admission/drain
// rules.
type Aggregator struct {
	cfg      Config
	newTxID  TxIDFunc
	pending  map[LedgerType][]Receipt
	lastAggAtMs map[LedgerType]int64
}

func NewAggregator(cfg Config, newTxID TxIDFunc) *Aggregator {
	return &Aggregator{
		cfg:     cfg,
		newTxID: newTxID,
		pending: map[LedgerType][]Receipt{
			LedgerDockLock: {}, LedgerCluster: {}, LedgerBPI: {}, LedgerBPCI: {}, LedgerEconomy: {},
		},
		lastAggAtMs: map[LedgerType]int64{},
	}
}

func (a *Aggregator) totalPending() int {
	total := 0
	for _, pool := range a.pending {
		total += len(pool)
	}
	return total
}

// AddReceipt implements the C3 add_receipt contract: admission fails with
// CapacityExceeded once the sum across all five pools reaches max_pending.
// nowMs is caller-supplied so the aggregator stays a pure function of its
// inputs.
func (a *Aggregator) AddReceipt(r Receipt, nowMs int64) (*AggregatedTransaction, error) {
	if a.totalPending() >= a.cfg.MaxPending {
		return nil, errors.NewCapacityExceededError("receipt mempool: max_pending reached")
	}

	lt := r.LedgerType()
	a.pending[lt] = append(a.pending[lt], r)

	if _, ok := a.lastAggAtMs[lt]; !ok {
		a.lastAggAtMs[lt] = nowMs
	}

	triggered := len(a.pending[lt]) >= a.cfg.BatchSize ||
		(nowMs-a.lastAggAtMs[lt]) >= a.cfg.TimeWindowMs

	if !triggered {
		return nil, nil
	}

	return a.aggregate(lt, "mempool", "ledger:"+lt.String(), nowMs)
}

// aggregate drains up to batch_size receipts from the given pool's FIFO
// front, all-or-nothing: a failure to build the transaction leaves the pool
// untouched.
func (a *Aggregator) aggregate(lt LedgerType, source, target string, nowMs int64) (*AggregatedTransaction, error) {
	pool := a.pending[lt]
	if len(pool) == 0 {
		return nil, nil
	}

	n := len(pool)
	if n > a.cfg.BatchSize {
		n = a.cfg.BatchSize
	}
	batch := pool[:n]

	tx := buildAggregatedTransaction(a.newTxID(), lt, batch, source, target, nowMs)
	if !tx.Verify() {
		return nil, errors.NewIntegrityFailureError("receipt aggregation: built transaction failed self-verification")
	}

	a.pending[lt] = pool[n:]
	a.lastAggAtMs[lt] = nowMs
	return tx, nil
}

// Aggregate forces an aggregation pass over the given ledger's pool, used
// when an external scheduler (rather than AddReceipt's own trigger check)
// decides it is time, e.g. a periodic flush.
func (a *Aggregator) Aggregate(lt LedgerType, nowMs int64) (*AggregatedTransaction, error) {
	return a.aggregate(lt, "mempool", "ledger:"+lt.String(), nowMs)
}

// PendingCount reports the current queue depth for a ledger type, mainly
// for tests and observability.
func (a *Aggregator) PendingCount(lt LedgerType) int {
	return len(a.pending[lt])
}
