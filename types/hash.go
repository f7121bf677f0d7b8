// Package types holds the data-model primitives shared by every component
// (spec §3): the 32-byte domain-separated Hash, ResourceUsage, and the
// canonical-encoding helpers every domain-hashed struct builds on.
//
// Hash reuses btcsuite's chainhash.Hash rather than a bare [32]byte array,
// the same concrete type teranode, leanlp-BTC-coinjoin and EXCCoin/exccd
// all use for a 32-byte blockchain hash.
package types

import (
	"crypto/sha256"
	"encoding/binary"
	"math"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// Hash is the fixed 32-byte opaque identifier used throughout the system.
type Hash = chainhash.Hash

// ZeroHash is the all-zero Hash, used at genesis positions.
var ZeroHash Hash

// DomainHash computes H(domain_tag, bytes) = SHA-256(domain_tag || 0x7C ||
// bytes), spec §3's domain-separated hash. Every call site passes a unique,
// stable domain tag so that no two protocol meanings ever collide in hash
// space.
func DomainHash(domainTag string, data []byte) Hash {
	h := sha256.New()
	h.Write([]byte(domainTag))
	h.Write([]byte{0x7C})
	h.Write(data)
	var out Hash
	copy(out[:], h.Sum(nil))
	return out
}

// DomainHashMulti concatenates several byte slices before hashing, useful
// for canonical-field hashing without building an intermediate buffer by
// hand at every call site.
func DomainHashMulti(domainTag string, parts ...[]byte) Hash {
	h := sha256.New()
	h.Write([]byte(domainTag))
	h.Write([]byte{0x7C})
	for _, p := range parts {
		h.Write(p)
	}
	var out Hash
	copy(out[:], h.Sum(nil))
	return out
}

// Encoder accumulates a canonical binary encoding for a domain-hashed
// struct: fixed field order, big-endian integers, length-prefixed variable
// data. This is the single canonical encoding spec §9's Open Question
// called for, rather than the source's ad-hoc string-concat formatting.
type Encoder struct {
	buf []byte
}

func NewEncoder() *Encoder { return &Encoder{} }

func (e *Encoder) Bytes() []byte { return e.buf }

func (e *Encoder) PutUint64(v uint64) *Encoder {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	e.buf = append(e.buf, b[:]...)
	return e
}

func (e *Encoder) PutUint32(v uint32) *Encoder {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	e.buf = append(e.buf, b[:]...)
	return e
}

func (e *Encoder) PutInt64(v int64) *Encoder { return e.PutUint64(uint64(v)) }

func (e *Encoder) PutFloat64Bits(v float64) *Encoder {
	return e.PutUint64(math.Float64bits(v))
}

func (e *Encoder) PutBytes(b []byte) *Encoder {
	e.PutUint32(uint32(len(b)))
	e.buf = append(e.buf, b...)
	return e
}

func (e *Encoder) PutString(s string) *Encoder {
	return e.PutBytes([]byte(s))
}

func (e *Encoder) PutHash(h Hash) *Encoder {
	e.buf = append(e.buf, h[:]...)
	return e
}

func (e *Encoder) PutBool(b bool) *Encoder {
	if b {
		e.buf = append(e.buf, 1)
	} else {
		e.buf = append(e.buf, 0)
	}
	return e
}
