package crypto

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/binary"
	"math/bits"
	"os"
	"runtime"
	"time"

	"github.com/GlobalSushrut/metanode/errors"
	"github.com/btcsuite/btcd/btcec/v2"
	"golang.org/x/crypto/curve25519"
)

// entropyReader wraps crypto/rand and XORs a fixed process-local entropy
// mix into every byte it produces, so every military-grade key is seeded
// from real entropy folded with the process-local mix spec §4.1 demands —
// rather than generating a key first and mutating it after its public half
// has already been derived, which would desynchronize the pair.
type entropyReader struct {
	mix []byte
}

func (r entropyReader) Read(p []byte) (int, error) {
	n, err := rand.Read(p)
	if err != nil {
		return n, err
	}
	for i := 0; i < n; i++ {
		p[i] ^= r.mix[i%len(r.mix)]
	}
	return n, nil
}

func generateEntropyMixedKeypair(alg Algorithm) (PrivateKey, PublicKey, error) {
	reader := entropyReader{mix: processEntropy()}

	switch alg {
	case AlgClassicalSignature:
		seed := make([]byte, 32)
		if _, err := reader.Read(seed); err != nil {
			return PrivateKey{}, PublicKey{}, errors.NewCryptographicFailureError("secp256k1 keygen failed", err)
		}
		pk := btcec.PrivKeyFromBytes(seed)
		return PrivateKey{Algorithm: alg, Bytes: pk.Serialize()},
			PublicKey{Algorithm: alg, Bytes: pk.PubKey().SerializeCompressed()}, nil

	case AlgAggregateSignature, AlgVRF:
		pub, priv, err := ed25519.GenerateKey(reader)
		if err != nil {
			return PrivateKey{}, PublicKey{}, errors.NewCryptographicFailureError("ed25519 keygen failed", err)
		}
		return PrivateKey{Algorithm: alg, Bytes: priv}, PublicKey{Algorithm: alg, Bytes: pub}, nil

	case AlgKEM:
		var priv [32]byte
		if _, err := reader.Read(priv[:]); err != nil {
			return PrivateKey{}, PublicKey{}, errors.NewCryptographicFailureError("x25519 keygen failed", err)
		}
		clampCurve25519(priv[:])
		pub, err := curve25519.X25519(priv[:], curve25519.Basepoint)
		if err != nil {
			return PrivateKey{}, PublicKey{}, errors.NewCryptographicFailureError("x25519 base-point mult failed", err)
		}
		return PrivateKey{Algorithm: alg, Bytes: priv[:]}, PublicKey{Algorithm: alg, Bytes: pub}, nil

	default:
		return GenerateKeypair(alg)
	}
}

// MilitaryGradeValidate implements the C8-facing "military-grade" key
// gates from spec §4.1: reject all-zero keys, all-ones keys, and keys
// whose popcount ratio falls outside [0.3, 0.7].
func MilitaryGradeValidate(keyBytes []byte) error {
	if len(keyBytes) == 0 {
		return errors.NewValidationError("key material is empty")
	}

	allZero, allOnes := true, true
	var popcount int

	for _, b := range keyBytes {
		if b != 0x00 {
			allZero = false
		}
		if b != 0xFF {
			allOnes = false
		}
		popcount += bits.OnesCount8(b)
	}

	if allZero {
		return errors.NewValidationError("key material is all-zero")
	}
	if allOnes {
		return errors.NewValidationError("key material is all-ones")
	}

	ratio := float64(popcount) / float64(len(keyBytes)*8)
	if ratio < 0.3 || ratio > 0.7 {
		return errors.NewValidationError("key popcount ratio %.3f outside [0.3, 0.7]", ratio)
	}

	return nil
}

// FIPSMode, when set on a VRFOutput or a generated keypair, propagates a
// flag indicating the process-local entropy mix and popcount gate were
// both applied (spec §4.1: "Optionally an FIPS flag propagates to
// outputs.").
type FIPSMode bool

// processEntropy folds wall-clock time, pid and goroutine count into a
// short byte sequence, the "additional process-local entropy mix" spec
// §4.1 requires be XORed into generated key bytes.
func processEntropy() []byte {
	buf := make([]byte, 16)
	binary.BigEndian.PutUint64(buf[0:8], uint64(time.Now().UnixNano()))
	binary.BigEndian.PutUint32(buf[8:12], uint32(os.Getpid()))
	binary.BigEndian.PutUint32(buf[12:16], uint32(runtime.NumGoroutine()))
	return buf
}

// GenerateMilitaryGradeKeypair wraps GenerateKeypair with the additional
// process-local entropy mix and popcount gate from spec §4.1. The entropy
// mix is folded into the key material before any public key is derived
// from it (the mix never touches a key after its public half has already
// been derived from it, or the two would go out of sync); keys
// that still fail the popcount gate after the mix are discarded and
// regenerated, which crypto/rand output satisfies on effectively every
// attempt.
func GenerateMilitaryGradeKeypair(alg Algorithm) (PrivateKey, PublicKey, FIPSMode, error) {
	const maxAttempts = 64

	for attempt := 0; attempt < maxAttempts; attempt++ {
		priv, pub, err := generateEntropyMixedKeypair(alg)
		if err != nil {
			return PrivateKey{}, PublicKey{}, false, err
		}

		if err := MilitaryGradeValidate(priv.Bytes); err != nil {
			continue
		}

		return priv, pub, true, nil
	}

	return PrivateKey{}, PublicKey{}, false, errors.NewCryptographicFailureError("could not produce a military-grade key after %d attempts", maxAttempts)
}
