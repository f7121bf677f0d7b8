// Package receipts implements the C3 receipt model and mempool aggregation
// (spec §4.3): five typed receipt variants rolled up by a per-ledger-type
// mempool into AggregatedTransaction batches, tamper-evidenced by a knot
// invariant. Grounded on
// original_source/bpi-core/crates/metanode-core/bpi-math/src/receipts.rs.
package receipts

import (
	"github.com/GlobalSushrut/metanode/errors"
	"github.com/GlobalSushrut/metanode/proofs"
	"github.com/GlobalSushrut/metanode/types"
)

// LedgerType distinguishes the five receipt variants and doubles as the
// mempool key they are pooled under.
type LedgerType int

const (
	LedgerDockLock LedgerType = iota
	LedgerCluster
	LedgerBPI
	LedgerBPCI
	LedgerEconomy
)

func (l LedgerType) String() string {
	switch l {
	case LedgerDockLock:
		return "DockLock"
	case LedgerCluster:
		return "Cluster"
	case LedgerBPI:
		return "BPI"
	case LedgerBPCI:
		return "BPCI"
	case LedgerEconomy:
		return "Economy"
	default:
		return "Unknown"
	}
}

const (
	domainDockLock = "RECEIPT_DOCKLOCK"
	domainCluster  = "RECEIPT_CLUSTER"
	domainBPI      = "RECEIPT_BPI"
	domainBPCI     = "RECEIPT_BPCI"
	domainEconomy  = "RECEIPT_ECONOMY"
)

// Receipt is the common contract every variant satisfies.
type Receipt interface {
	ReceiptID() string
	SubjectIDs() []string
	Timestamp() int64
	Proof() proofs.Proof
	LedgerType() LedgerType
	ReceiptHash() types.Hash
}

func encodeCommon(enc *types.Encoder, receiptID string, subjectIDs []string, ts int64, proofHash types.Hash) *types.Encoder {
	enc = enc.PutString(receiptID).PutUint32(uint32(len(subjectIDs)))
	for _, s := range subjectIDs {
		enc = enc.PutString(s)
	}
	return enc.PutInt64(ts).PutHash(proofHash)
}

func requireReceipt(receiptID string, subjectIDs []string, proof proofs.Proof) error {
	if err := types.RequireNonEmpty("receipt_id", receiptID); err != nil {
		return err
	}
	if len(subjectIDs) == 0 {
		return errors.NewValidationError("receipt: subject_ids must not be empty")
	}
	if proof == nil {
		return errors.NewValidationError("receipt: proof must not be nil")
	}
	if !proof.Verify() {
		return errors.NewIntegrityFailureError("receipt: embedded proof does not verify")
	}
	return nil
}

// DockLockReceipt attests a container-runtime step, carrying the proof of
// the underlying container action plus the observed resource usage.
type DockLockReceipt struct {
	ID            string
	Subjects      []string
	Ts            int64
	Pf            proofs.Proof
	ResourceUsage types.ResourceUsage
	Hash          types.Hash
}

func (r *DockLockReceipt) ReceiptID() string       { return r.ID }
func (r *DockLockReceipt) SubjectIDs() []string    { return r.Subjects }
func (r *DockLockReceipt) Timestamp() int64        { return r.Ts }
func (r *DockLockReceipt) Proof() proofs.Proof     { return r.Pf }
func (r *DockLockReceipt) LedgerType() LedgerType  { return LedgerDockLock }
func (r *DockLockReceipt) ReceiptHash() types.Hash { return r.Hash }

// NewDockLockReceipt implements the C3 DockLock receipt constructor.
func NewDockLockReceipt(id string, subjects []string, ts int64, proof proofs.Proof, usage types.ResourceUsage) (*DockLockReceipt, error) {
	if err := requireReceipt(id, subjects, proof); err != nil {
		return nil, err
	}
	enc := encodeCommon(types.NewEncoder(), id, subjects, ts, proof.ProofHash()).PutBytes(usage.CanonicalBytes())
	return &DockLockReceipt{ID: id, Subjects: subjects, Ts: ts, Pf: proof, ResourceUsage: usage,
		Hash: types.DomainHash(domainDockLock, enc.Bytes())}, nil
}

// ClusterReceipt attests an encrypted-cluster control-plane state change.
type ClusterReceipt struct {
	ID           string
	Subjects     []string
	Ts           int64
	Pf           proofs.Proof
	ClusterState string
	Hash         types.Hash
}

func (r *ClusterReceipt) ReceiptID() string       { return r.ID }
func (r *ClusterReceipt) SubjectIDs() []string    { return r.Subjects }
func (r *ClusterReceipt) Timestamp() int64        { return r.Ts }
func (r *ClusterReceipt) Proof() proofs.Proof     { return r.Pf }
func (r *ClusterReceipt) LedgerType() LedgerType  { return LedgerCluster }
func (r *ClusterReceipt) ReceiptHash() types.Hash { return r.Hash }

func NewClusterReceipt(id string, subjects []string, ts int64, proof proofs.Proof, clusterState string) (*ClusterReceipt, error) {
	if err := requireReceipt(id, subjects, proof); err != nil {
		return nil, err
	}
	enc := encodeCommon(types.NewEncoder(), id, subjects, ts, proof.ProofHash()).PutString(clusterState)
	return &ClusterReceipt{ID: id, Subjects: subjects, Ts: ts, Pf: proof, ClusterState: clusterState,
		Hash: types.DomainHash(domainCluster, enc.Bytes())}, nil
}

// BPIReceipt attests a BPI-node-level operation (oracle read, storage
// commit, audit event, etc.), tagged with the gas it consumed.
type BPIReceipt struct {
	ID       string
	Subjects []string
	Ts       int64
	Pf       proofs.Proof
	GasUsed  uint64
	Hash     types.Hash
}

func (r *BPIReceipt) ReceiptID() string       { return r.ID }
func (r *BPIReceipt) SubjectIDs() []string    { return r.Subjects }
func (r *BPIReceipt) Timestamp() int64        { return r.Ts }
func (r *BPIReceipt) Proof() proofs.Proof     { return r.Pf }
func (r *BPIReceipt) LedgerType() LedgerType  { return LedgerBPI }
func (r *BPIReceipt) ReceiptHash() types.Hash { return r.Hash }

func NewBPIReceipt(id string, subjects []string, ts int64, proof proofs.Proof, gasUsed uint64) (*BPIReceipt, error) {
	if err := requireReceipt(id, subjects, proof); err != nil {
		return nil, err
	}
	enc := encodeCommon(types.NewEncoder(), id, subjects, ts, proof.ProofHash()).PutUint64(gasUsed)
	return &BPIReceipt{ID: id, Subjects: subjects, Ts: ts, Pf: proof, GasUsed: gasUsed,
		Hash: types.DomainHash(domainBPI, enc.Bytes())}, nil
}

// BPCIReceipt attests a block-producer/consensus-interface event, tagged
// with the settlement amount it carries (in integer micros).
type BPCIReceipt struct {
	ID          string
	Subjects    []string
	Ts          int64
	Pf          proofs.Proof
	AmountMicro int64
	Hash        types.Hash
}

func (r *BPCIReceipt) ReceiptID() string       { return r.ID }
func (r *BPCIReceipt) SubjectIDs() []string    { return r.Subjects }
func (r *BPCIReceipt) Timestamp() int64        { return r.Ts }
func (r *BPCIReceipt) Proof() proofs.Proof     { return r.Pf }
func (r *BPCIReceipt) LedgerType() LedgerType  { return LedgerBPCI }
func (r *BPCIReceipt) ReceiptHash() types.Hash { return r.Hash }

func NewBPCIReceipt(id string, subjects []string, ts int64, proof proofs.Proof, amountMicro int64) (*BPCIReceipt, error) {
	if err := requireReceipt(id, subjects, proof); err != nil {
		return nil, err
	}
	if amountMicro < 0 {
		return nil, errors.NewValidationError("bpci receipt: amount must be non-negative")
	}
	enc := encodeCommon(types.NewEncoder(), id, subjects, ts, proof.ProofHash()).PutInt64(amountMicro)
	return &BPCIReceipt{ID: id, Subjects: subjects, Ts: ts, Pf: proof, AmountMicro: amountMicro,
		Hash: types.DomainHash(domainBPCI, enc.Bytes())}, nil
}

// EconomyReceipt attests a treasury-side economic event (distribution,
// maintainer payout), carrying the account pair it moved value between.
type EconomyReceipt struct {
	ID          string
	Subjects    []string
	Ts          int64
	Pf          proofs.Proof
	FromAccount string
	ToAccount   string
	Hash        types.Hash
}

func (r *EconomyReceipt) ReceiptID() string       { return r.ID }
func (r *EconomyReceipt) SubjectIDs() []string    { return r.Subjects }
func (r *EconomyReceipt) Timestamp() int64        { return r.Ts }
func (r *EconomyReceipt) Proof() proofs.Proof     { return r.Pf }
func (r *EconomyReceipt) LedgerType() LedgerType  { return LedgerEconomy }
func (r *EconomyReceipt) ReceiptHash() types.Hash { return r.Hash }

func NewEconomyReceipt(id string, subjects []string, ts int64, proof proofs.Proof, from, to string) (*EconomyReceipt, error) {
	if err := requireReceipt(id, subjects, proof); err != nil {
		return nil, err
	}
	enc := encodeCommon(types.NewEncoder(), id, subjects, ts, proof.ProofHash()).PutString(from).PutString(to)
	return &EconomyReceipt{ID: id, Subjects: subjects, Ts: ts, Pf: proof, FromAccount: from, ToAccount: to,
		Hash: types.DomainHash(domainEconomy, enc.Bytes())}, nil
}
