package header

import (
	"encoding/binary"
	"sort"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	bolt "go.etcd.io/bbolt"

	"github.com/GlobalSushrut/metanode/errors"
	"github.com/GlobalSushrut/metanode/telemetry"
	"github.com/GlobalSushrut/metanode/types"
	"github.com/GlobalSushrut/metanode/validatorset"
)

const defaultMaxCacheSize = 1000

// Metrics breaks a single verify_header call down by phase (spec §4.6 step
// 6).
type Metrics struct {
	HeaderValidationTime time.Duration
	BlsVerificationTime  time.Duration
	ValidatorSetTime     time.Duration
	ChainContinuityTime  time.Duration
	SignaturesVerified   int
	ValidatorCount       int
}

// VerificationResult is the cached, emitted outcome of one verify_header call.
type VerificationResult struct {
	Success          bool
	VerificationTime time.Duration
	Height           uint64
	HeaderHash       types.Hash
	Metrics          Metrics
}

// Store persists verification results beyond the in-process LRU cache, so a
// restarted verifier does not need to recheck headers it already saw. A nil
// Store means the verifier runs purely in-memory.
type Store interface {
	Get(h types.Hash) (VerificationResult, bool, error)
	Put(h types.Hash, v VerificationResult) error
}

// BoltStore is a go.etcd.io/bbolt-backed Store, for a verifier that should
// survive process restarts.
type BoltStore struct {
	db     *bolt.DB
	bucket []byte
}

var bucketVerificationResults = []byte("header_verification_results")

func NewBoltStore(db *bolt.DB) (*BoltStore, error) {
	err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketVerificationResults)
		return err
	})
	if err != nil {
		return nil, errors.NewInternalError("header: failed to create bucket: %v", err)
	}
	return &BoltStore{db: db, bucket: bucketVerificationResults}, nil
}

func encodeVerificationResult(v VerificationResult) []byte {
	enc := types.NewEncoder().
		PutBool(v.Success).
		PutInt64(int64(v.VerificationTime)).
		PutUint64(v.Height).
		PutHash(v.HeaderHash).
		PutInt64(int64(v.Metrics.HeaderValidationTime)).
		PutInt64(int64(v.Metrics.BlsVerificationTime)).
		PutInt64(int64(v.Metrics.ValidatorSetTime)).
		PutInt64(int64(v.Metrics.ChainContinuityTime)).
		PutUint64(uint64(v.Metrics.SignaturesVerified)).
		PutUint64(uint64(v.Metrics.ValidatorCount))
	return enc.Bytes()
}

func decodeVerificationResult(b []byte) (VerificationResult, bool) {
	// fixed layout matching encodeVerificationResult's Put order
	const want = 1 + 8*8 + 32
	if len(b) < want {
		return VerificationResult{}, false
	}
	off := 0
	readBool := func() bool { v := b[off] == 1; off++; return v }
	readI64 := func() int64 { v := int64(binary.BigEndian.Uint64(b[off : off+8])); off += 8; return v }
	readU64 := func() uint64 { v := binary.BigEndian.Uint64(b[off : off+8]); off += 8; return v }
	readHash := func() types.Hash { var h types.Hash; copy(h[:], b[off:off+32]); off += 32; return h }

	var v VerificationResult
	v.Success = readBool()
	v.VerificationTime = time.Duration(readI64())
	v.Height = readU64()
	v.HeaderHash = readHash()
	v.Metrics.HeaderValidationTime = time.Duration(readI64())
	v.Metrics.BlsVerificationTime = time.Duration(readI64())
	v.Metrics.ValidatorSetTime = time.Duration(readI64())
	v.Metrics.ChainContinuityTime = time.Duration(readI64())
	v.Metrics.SignaturesVerified = int(readU64())
	v.Metrics.ValidatorCount = int(readU64())
	return v, true
}

func (s *BoltStore) Get(h types.Hash) (VerificationResult, bool, error) {
	var out VerificationResult
	var ok bool
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(s.bucket).Get(h[:])
		if b == nil {
			return nil
		}
		out, ok = decodeVerificationResult(b)
		return nil
	})
	if err != nil {
		return VerificationResult{}, false, err
	}
	return out, ok, nil
}

func (s *BoltStore) Put(h types.Hash, v VerificationResult) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(s.bucket).Put(h[:], encodeVerificationResult(v))
	})
}

// HeaderVerifier implements C6's verify_header/verify_batch contract: an
// LRU-cached (spec default 1000 entries), optionally durably-backed,
// single-header and batch verifier.
type HeaderVerifier struct {
	set     *validatorset.ValidatorSet
	cache   *lru.Cache[types.Hash, VerificationResult]
	store   Store
	metrics *telemetry.Registry
}

// NewHeaderVerifier builds a verifier with the given max cache size (0 uses
// the spec default of 1000), an optional durable Store, and an optional
// telemetry Registry (nil disables consensus-round counting).
func NewHeaderVerifier(set *validatorset.ValidatorSet, maxCacheSize int, store Store, metrics *telemetry.Registry) (*HeaderVerifier, error) {
	if maxCacheSize <= 0 {
		maxCacheSize = defaultMaxCacheSize
	}
	cache, err := lru.New[types.Hash, VerificationResult](maxCacheSize)
	if err != nil {
		return nil, errors.NewInternalError("header: failed to build LRU cache: %v", err)
	}
	return &HeaderVerifier{set: set, cache: cache, store: store, metrics: metrics}, nil
}

// UpdateValidatorSet implements update_validator_set(new): replaces the set
// and flushes the cache, since cached results were computed against the old
// set.
func (hv *HeaderVerifier) UpdateValidatorSet(set *validatorset.ValidatorSet) {
	hv.set = set
	hv.cache.Purge()
}

func (hv *HeaderVerifier) lookup(h types.Hash) (VerificationResult, bool) {
	if v, ok := hv.cache.Get(h); ok {
		return v, true
	}
	if hv.store != nil {
		if v, ok, err := hv.store.Get(h); err == nil && ok {
			hv.cache.Add(h, v)
			return v, true
		}
	}
	return VerificationResult{}, false
}

func (hv *HeaderVerifier) remember(h types.Hash, v VerificationResult) {
	hv.cache.Add(h, v)
	if hv.store != nil {
		_ = hv.store.Put(h, v)
	}
}

// VerifyHeader implements the C6 verify_header contract.
func (hv *HeaderVerifier) VerifyHeader(h Header, prev *Header, commit *validatorset.BlsCommit) (VerificationResult, error) {
	headerHash := h.Hash()

	if cached, ok := hv.lookup(headerHash); ok {
		return cached, nil
	}

	overallStart := time.Now()
	var m Metrics

	hvStart := time.Now()
	validateErr := h.Validate()
	m.HeaderValidationTime = time.Since(hvStart)
	if validateErr != nil {
		return hv.failUncached(headerHash, h.Height, m, overallStart), validateErr
	}

	if prev != nil {
		ccStart := time.Now()
		ccErr := h.ValidateChainContinuity(*prev)
		m.ChainContinuityTime = time.Since(ccStart)
		if ccErr != nil {
			return hv.failUncached(headerHash, h.Height, m, overallStart), ccErr
		}
	}

	vsStart := time.Now()
	bitmapOk := commit.CheckBitmapValidity(hv.set)
	quorumOk := bitmapOk && commit.CheckQuorum(hv.set)
	m.ValidatorSetTime = time.Since(vsStart)
	m.ValidatorCount = len(hv.set.Validators)

	if !quorumOk {
		return hv.fail(headerHash, h.Height, m, overallStart), errors.NewQuorumFailureError("header: validator set verification failed")
	}

	blsStart := time.Now()
	sigOk := commit.VerifySignatures(hv.set)
	m.BlsVerificationTime = time.Since(blsStart)
	m.SignaturesVerified = commit.AggSig.Bitmap.Popcount()

	if !sigOk {
		return hv.fail(headerHash, h.Height, m, overallStart), errors.NewQuorumFailureError("header: validator set verification failed")
	}

	if commit.HeaderHash != headerHash {
		return hv.fail(headerHash, h.Height, m, overallStart), errors.NewValidationError("header: commit.header_hash does not bind header.hash()")
	}

	result := VerificationResult{
		Success:          true,
		VerificationTime: time.Since(overallStart),
		Height:           h.Height,
		HeaderHash:       headerHash,
		Metrics:          m,
	}
	hv.remember(headerHash, result)
	if hv.metrics != nil {
		hv.metrics.IncConsensusRound()
	}
	return result, nil
}

// fail builds a failure result for a header that completed basic validation
// and chain-continuity checks but failed quorum, signature, or hash-binding
// verification — those failures are cached, since re-evaluating them against
// the same validator set and commit produces the same answer.
func (hv *HeaderVerifier) fail(headerHash types.Hash, height uint64, m Metrics, start time.Time) VerificationResult {
	result := hv.failUncached(headerHash, height, m, start)
	hv.remember(headerHash, result)
	return result
}

// failUncached builds a failure result without caching it. Used for
// ChainContinuity and basic header-validation failures (spec §7: "the
// header is refused and not cached"), since a later call with a corrected
// prev must re-run those checks rather than return a stale cached failure.
func (hv *HeaderVerifier) failUncached(headerHash types.Hash, height uint64, m Metrics, start time.Time) VerificationResult {
	return VerificationResult{
		Success:          false,
		VerificationTime: time.Since(start),
		Height:           height,
		HeaderHash:       headerHash,
		Metrics:          m,
	}
}

// HeaderCommit pairs a header with the commit that finalizes it, the
// verify_batch chain element.
type HeaderCommit struct {
	Header Header
	Commit *validatorset.BlsCommit
}

// BatchResult is the verify_batch contract's output (spec §4.6).
type BatchResult struct {
	Total       int
	Successful  int
	Results     []VerificationResult
	P50         time.Duration
	P95         time.Duration
	Fastest     time.Duration
	Slowest     time.Duration
	Throughput  float64 // verifications per second
}

// VerifyBatch implements verify_batch: single-header batches never
// reference prev (spec §7 edge case).
func (hv *HeaderVerifier) VerifyBatch(chain []HeaderCommit) (BatchResult, error) {
	start := time.Now()
	results := make([]VerificationResult, 0, len(chain))
	var successTimes []time.Duration

	for i, hc := range chain {
		var prev *Header
		if i > 0 {
			prev = &chain[i-1].Header
		}
		result, err := hv.VerifyHeader(hc.Header, prev, hc.Commit)
		results = append(results, result)
		if err == nil && result.Success {
			successTimes = append(successTimes, result.VerificationTime)
		}
	}

	sort.Slice(successTimes, func(i, j int) bool { return successTimes[i] < successTimes[j] })

	br := BatchResult{Total: len(chain), Results: results}
	for _, r := range results {
		if r.Success {
			br.Successful++
		}
	}

	n := len(successTimes)
	if n > 0 {
		br.P50 = successTimes[n/2]
		br.P95 = successTimes[n*95/100]
		br.Fastest = successTimes[0]
		br.Slowest = successTimes[n-1]
	}

	totalSeconds := time.Since(start).Seconds()
	if totalSeconds > 0 {
		br.Throughput = float64(len(chain)) / totalSeconds
	}

	return br, nil
}
