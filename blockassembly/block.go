package blockassembly

import (
	"fmt"

	"github.com/GlobalSushrut/metanode/crypto"
	"github.com/GlobalSushrut/metanode/errors"
	"github.com/GlobalSushrut/metanode/mining"
	"github.com/GlobalSushrut/metanode/telemetry"
	"github.com/GlobalSushrut/metanode/types"
	"github.com/GlobalSushrut/metanode/ulogger"
	"github.com/GlobalSushrut/metanode/validatorset"
)

// mempoolLedgerType labels the PoE bundle mempool in telemetry's
// per-ledger-type mempool-size gauge (spec §6).
const mempoolLedgerType = "poe_bundle"

const domainBlock = "BPCI_BLOCK"

// BpciBlock is the C7 block shape (spec §3), distinct from C4's
// receipt-driven MiningCandidate: it rolls up BpciTransactions minted from
// PoE bundles rather than AggregatedTransactions from the receipt pipeline.
type BpciBlock struct {
	Version       uint32
	Height        uint64
	PrevHash      types.Hash
	MerkleRoot    types.Hash
	Timestamp     int64
	Nonce         uint64
	Difficulty    uint64
	Txs           []*BpciTransaction
	ValidatorSigs map[uint32]validatorset.ValidatorSignature
	Hash          types.Hash
}

func blockCanonicalBytes(b BpciBlock) []byte {
	enc := types.NewEncoder().
		PutUint32(b.Version).
		PutUint64(b.Height).
		PutHash(b.PrevHash).
		PutHash(b.MerkleRoot).
		PutInt64(b.Timestamp).
		PutUint64(b.Nonce).
		PutUint64(b.Difficulty).
		PutUint32(uint32(len(b.Txs)))
	for _, tx := range b.Txs {
		enc = enc.PutHash(tx.Hash)
	}
	return enc.Bytes()
}

// Dispatcher hands a finished block to the downstream validator/consensus
// channel (spec §4.7). A dispatch failure is reported, never reverts block
// production.
type Dispatcher interface {
	Dispatch(block *BpciBlock) error
}

// LoggingDispatcher is the default Dispatcher: it only logs, leaving actual
// wiring to the C12 coordinator's inter-node channel.
type LoggingDispatcher struct {
	Log ulogger.Logger
}

func (d LoggingDispatcher) Dispatch(block *BpciBlock) error {
	d.Log.Infof("dispatching block height=%d txs=%d hash=%s", block.Height, len(block.Txs), block.Hash.String())
	return nil
}

// Config is the C7 block creator's configuration.
type Config struct {
	KWindow                 float64
	MaxTransactionsPerBlock int
	FeeSplit                FeeSplitConfig
	SchedulingPredicate     func() bool
	MinerID                 string
	SignerKey               crypto.PrivateKey
	Version                 uint32
	Difficulty              uint64
}

// Creator implements the C7 block creator / mempool.
type Creator struct {
	cfg           Config
	log           ulogger.Logger
	dispatcher    Dispatcher
	pending       []PoEBundle
	height        uint64
	lastBlockHash types.Hash
	txCounter     uint64
	newTxID       func(uint64) string
	metrics       *telemetry.Registry
}

// NewCreator builds a block creator. metrics may be nil, in which case the
// mempool size gauge is not reported.
func NewCreator(cfg Config, log ulogger.Logger, dispatcher Dispatcher, newTxID func(uint64) string, metrics *telemetry.Registry) *Creator {
	if newTxID == nil {
		newTxID = func(n uint64) string { return fmt.Sprintf("tx-%d", n) }
	}
	return &Creator{cfg: cfg, log: log, dispatcher: dispatcher, newTxID: newTxID, metrics: metrics}
}

func (c *Creator) reportMempoolSize() {
	if c.metrics != nil {
		c.metrics.SetMempoolSize(mempoolLedgerType, len(c.pending))
	}
}

// ProcessPoEBundle implements process_poe_bundle: invalid bundles are
// dropped with a logged warning, not a fatal error. Returns the produced
// block if admission crossed the scheduling threshold.
func (c *Creator) ProcessPoEBundle(bundle PoEBundle, nowMs int64) (*BpciBlock, error) {
	if err := bundle.Validate(); err != nil {
		c.log.Warnf("dropping invalid poe bundle app=%s: %v", bundle.AppID, err)
		return nil, nil
	}

	c.pending = append(c.pending, bundle)
	c.reportMempoolSize()

	triggered := len(c.pending) >= c.cfg.MaxTransactionsPerBlock ||
		(c.cfg.SchedulingPredicate != nil && c.cfg.SchedulingPredicate())

	if !triggered {
		return nil, nil
	}
	return c.CreateBlock(nowMs)
}

// CreateBlock implements create_block(): drains pending atomically, builds
// one BpciTransaction per bundle, and assembles a BpciBlock. Also usable
// directly as force_create_block (spec §8 Scenario A).
func (c *Creator) CreateBlock(nowMs int64) (*BpciBlock, error) {
	if len(c.pending) == 0 {
		return nil, nil
	}

	batch := c.pending
	c.pending = nil
	c.reportMempoolSize()

	c.height++
	prevHash := c.lastBlockHash

	txs := make([]*BpciTransaction, 0, len(batch))
	for _, bundle := range batch {
		c.txCounter++
		txID := c.newTxID(c.txCounter)
		tx, err := buildTransaction(txID, c.cfg.KWindow, c.cfg.FeeSplit, c.cfg.SignerKey, bundle)
		if err != nil {
			return nil, errors.NewInternalError("block assembly: failed to build transaction: %v", err)
		}
		txs = append(txs, tx)
	}

	leaves := make([]types.Hash, len(txs))
	for i, tx := range txs {
		leaves[i] = tx.Hash
	}
	merkleRoot := mining.MerkleRoot(leaves)

	block := BpciBlock{
		Version:       c.cfg.Version,
		Height:        c.height,
		PrevHash:      prevHash,
		MerkleRoot:    merkleRoot,
		Timestamp:     nowMs,
		Nonce:         0,
		Difficulty:    c.cfg.Difficulty,
		Txs:           txs,
		ValidatorSigs: map[uint32]validatorset.ValidatorSignature{},
	}
	block.Hash = types.DomainHash(domainBlock, blockCanonicalBytes(block))

	c.lastBlockHash = block.Hash

	if c.dispatcher != nil {
		if err := c.dispatcher.Dispatch(&block); err != nil {
			c.log.Errorf("block dispatch failed for height %d: %v", block.Height, err)
		}
	}

	return &block, nil
}

// Height reports the creator's current chain height.
func (c *Creator) Height() uint64 { return c.height }

// PendingCount reports the current number of admitted-but-unbatched bundles.
func (c *Creator) PendingCount() int { return len(c.pending) }
