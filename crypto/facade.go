// Package crypto is the C1 façade: every other component reaches the
// underlying cryptographic primitives only through this package's pure,
// non-I/O contract (spec §4.1). Real post-quantum primitives are an
// explicit non-goal (spec §1) — PQ algorithm ids route to a clearly-named
// hash-based placeholder that satisfies the same contract shape, while the
// classical algorithms (ed25519, secp256k1, X25519, ChaCha20-Poly1305) are
// genuine, not placeholders.
package crypto

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/sha256"

	"github.com/GlobalSushrut/metanode/errors"
	"github.com/GlobalSushrut/metanode/types"
	"github.com/btcsuite/btcd/btcec/v2"
	ecdsa_btcec "github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/curve25519"
	"golang.org/x/crypto/hkdf"
)

// Algorithm enumerates every keygen/sign/kem family the façade supports
// (spec §4.1: "at least: classical signature, aggregateable signature,
// VRF, KEM, PQ-signature, PQ-KEM").
type Algorithm int

const (
	AlgUnknown Algorithm = iota
	AlgClassicalSignature // secp256k1 ECDSA
	AlgAggregateSignature // ed25519, used per-signer under a BLS-style bitmap (see DESIGN.md)
	AlgVRF                // ed25519-keyed VRF transcript, see vrf.go
	AlgKEM                // X25519 + HKDF + ChaCha20-Poly1305 AEAD
	AlgPQSignature        // placeholder: contract-only, spec §1 non-goal
	AlgPQKEM              // placeholder: contract-only, spec §1 non-goal
)

// PrivateKey, PublicKey and Signature are opaque byte strings tagged with
// their algorithm; nothing outside this package interprets Bytes
// structurally (spec §4.1).
type PrivateKey struct {
	Algorithm Algorithm
	Bytes     []byte
}

type PublicKey struct {
	Algorithm Algorithm
	Bytes     []byte
}

type Signature struct {
	Algorithm Algorithm
	Bytes     []byte
}

// GenerateKeypair implements the C1 keygen contract.
func GenerateKeypair(alg Algorithm) (PrivateKey, PublicKey, error) {
	switch alg {
	case AlgClassicalSignature:
		priv, err := btcec.NewPrivateKey()
		if err != nil {
			return PrivateKey{}, PublicKey{}, errors.NewCryptographicFailureError("secp256k1 keygen failed", err)
		}
		return PrivateKey{Algorithm: alg, Bytes: priv.Serialize()},
			PublicKey{Algorithm: alg, Bytes: priv.PubKey().SerializeCompressed()}, nil

	case AlgAggregateSignature, AlgVRF:
		pub, priv, err := ed25519.GenerateKey(rand.Reader)
		if err != nil {
			return PrivateKey{}, PublicKey{}, errors.NewCryptographicFailureError("ed25519 keygen failed", err)
		}
		return PrivateKey{Algorithm: alg, Bytes: priv}, PublicKey{Algorithm: alg, Bytes: pub}, nil

	case AlgKEM:
		var priv [32]byte
		if _, err := rand.Read(priv[:]); err != nil {
			return PrivateKey{}, PublicKey{}, errors.NewCryptographicFailureError("x25519 keygen failed", err)
		}
		clampCurve25519(priv[:])
		pub, err := curve25519.X25519(priv[:], curve25519.Basepoint)
		if err != nil {
			return PrivateKey{}, PublicKey{}, errors.NewCryptographicFailureError("x25519 base-point mult failed", err)
		}
		return PrivateKey{Algorithm: alg, Bytes: priv[:]}, PublicKey{Algorithm: alg, Bytes: pub}, nil

	case AlgPQSignature, AlgPQKEM:
		priv := make([]byte, 64)
		if _, err := rand.Read(priv); err != nil {
			return PrivateKey{}, PublicKey{}, errors.NewCryptographicFailureError("pq placeholder keygen failed", err)
		}
		pub := sha256.Sum256(priv)
		return PrivateKey{Algorithm: alg, Bytes: priv}, PublicKey{Algorithm: alg, Bytes: pub[:]}, nil

	default:
		return PrivateKey{}, PublicKey{}, errors.NewInvalidArgumentError("unknown algorithm id %d", int(alg))
	}
}

// clampCurve25519 applies the standard X25519 private-scalar clamping.
func clampCurve25519(k []byte) {
	k[0] &= 248
	k[31] &= 127
	k[31] |= 64
}

// Sign implements the C1 sign contract for classical and aggregateable
// signature algorithms. VRF and KEM keys are not signing keys.
func Sign(msg []byte, priv PrivateKey) (Signature, error) {
	switch priv.Algorithm {
	case AlgClassicalSignature:
		if len(priv.Bytes) != 32 {
			return Signature{}, errors.NewCryptographicFailureError("invalid secp256k1 private key length")
		}
		pk := btcec.PrivKeyFromBytes(priv.Bytes)
		digest := sha256.Sum256(msg)
		sig := ecdsa_btcec.Sign(pk, digest[:])
		return Signature{Algorithm: priv.Algorithm, Bytes: sig.Serialize()}, nil

	case AlgAggregateSignature, AlgVRF:
		if len(priv.Bytes) != ed25519.PrivateKeySize {
			return Signature{}, errors.NewCryptographicFailureError("invalid ed25519 private key length")
		}
		sig := ed25519.Sign(ed25519.PrivateKey(priv.Bytes), msg)
		return Signature{Algorithm: priv.Algorithm, Bytes: sig}, nil

	default:
		return Signature{}, errors.NewInvalidArgumentError("algorithm %d cannot sign", int(priv.Algorithm))
	}
}

// Verify implements the C1 verify contract.
func Verify(msg []byte, sig Signature, pub PublicKey) bool {
	if sig.Algorithm != pub.Algorithm {
		return false
	}

	switch pub.Algorithm {
	case AlgClassicalSignature:
		pk, err := btcec.ParsePubKey(pub.Bytes)
		if err != nil {
			return false
		}
		parsed, err := ecdsa_btcec.ParseDERSignature(sig.Bytes)
		if err != nil {
			return false
		}
		digest := sha256.Sum256(msg)
		return parsed.Verify(digest[:], pk)

	case AlgAggregateSignature, AlgVRF:
		if len(pub.Bytes) != ed25519.PublicKeySize {
			return false
		}
		return ed25519.Verify(ed25519.PublicKey(pub.Bytes), msg, sig.Bytes)

	default:
		return false
	}
}

// Encrypt implements public-key AEAD encryption: an ephemeral X25519 key is
// generated, combined with recipientPub via ECDH + HKDF into a ChaCha20-
// Poly1305 key, and the ephemeral public key is prefixed to the
// ciphertext so Decrypt can redo the same derivation.
func Encrypt(msg []byte, recipientPub PublicKey) ([]byte, error) {
	if recipientPub.Algorithm != AlgKEM {
		return nil, errors.NewInvalidArgumentError("recipient key is not a KEM key")
	}

	var ephPriv [32]byte
	if _, err := rand.Read(ephPriv[:]); err != nil {
		return nil, errors.NewCryptographicFailureError("failed to generate ephemeral key", err)
	}
	clampCurve25519(ephPriv[:])

	ephPub, err := curve25519.X25519(ephPriv[:], curve25519.Basepoint)
	if err != nil {
		return nil, errors.NewCryptographicFailureError("ephemeral base-point mult failed", err)
	}

	shared, err := curve25519.X25519(ephPriv[:], recipientPub.Bytes)
	if err != nil {
		return nil, errors.NewCryptographicFailureError("ecdh failed", err)
	}

	key, err := deriveAEADKey(shared)
	if err != nil {
		return nil, err
	}

	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, errors.NewCryptographicFailureError("aead init failed", err)
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, errors.NewCryptographicFailureError("failed to generate nonce", err)
	}

	ct := aead.Seal(nil, nonce, msg, nil)

	out := make([]byte, 0, len(ephPub)+len(nonce)+len(ct))
	out = append(out, ephPub...)
	out = append(out, nonce...)
	out = append(out, ct...)
	return out, nil
}

// Decrypt implements the matching private-key decryption.
func Decrypt(ct []byte, priv PrivateKey) ([]byte, error) {
	if priv.Algorithm != AlgKEM {
		return nil, errors.NewInvalidArgumentError("key is not a KEM key")
	}
	if len(ct) < 32+chacha20poly1305.NonceSize {
		return nil, errors.NewCryptographicFailureError("ciphertext too short")
	}

	ephPub := ct[:32]
	nonce := ct[32 : 32+chacha20poly1305.NonceSize]
	body := ct[32+chacha20poly1305.NonceSize:]

	shared, err := curve25519.X25519(priv.Bytes, ephPub)
	if err != nil {
		return nil, errors.NewCryptographicFailureError("ecdh failed", err)
	}

	key, err := deriveAEADKey(shared)
	if err != nil {
		return nil, err
	}

	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, errors.NewCryptographicFailureError("aead init failed", err)
	}

	pt, err := aead.Open(nil, nonce, body, nil)
	if err != nil {
		return nil, errors.NewCryptographicFailureError("decryption failed", err)
	}
	return pt, nil
}

// Kex implements the C1 key-exchange contract directly (without the
// ephemeral-key wrapping Encrypt/Decrypt add), for callers (ERB/httpcg
// session setup) that want the raw shared secret.
func Kex(priv PrivateKey, peerPub PublicKey) ([]byte, error) {
	if priv.Algorithm != AlgKEM || peerPub.Algorithm != AlgKEM {
		return nil, errors.NewInvalidArgumentError("kex requires KEM keys on both sides")
	}
	shared, err := curve25519.X25519(priv.Bytes, peerPub.Bytes)
	if err != nil {
		return nil, errors.NewCryptographicFailureError("ecdh failed", err)
	}
	return deriveAEADKey(shared)
}

func deriveAEADKey(shared []byte) ([]byte, error) {
	kdf := hkdf.New(sha256.New, shared, nil, []byte("metanode-kex-v1"))
	key := make([]byte, chacha20poly1305.KeySize)
	if _, err := kdf.Read(key); err != nil {
		return nil, errors.NewCryptographicFailureError("hkdf expansion failed", err)
	}
	return key, nil
}

// DomainHash re-exports the shared domain-separated hash so callers that
// already import crypto for keys don't also need to import types.
func DomainHash(tag string, data []byte) types.Hash { return types.DomainHash(tag, data) }
