package crypto

import (
	"crypto/ed25519"
	"encoding/binary"

	"github.com/GlobalSushrut/metanode/errors"
	"github.com/GlobalSushrut/metanode/types"
)

const (
	vrfMaxInputBytes = 1 << 20 // 1 MiB, spec §4.8

	vrfDomainRound0  = "VRF_ROUND_0"
	vrfDomainRound1  = "VRF_ROUND_1"
	vrfDomainRound2  = "VRF_ROUND_2"
	vrfDomainOutput  = "VRF_OUTPUT"
)

// VRFProof is the three-round, 32-byte-chunk transcript spec §4.8
// describes: "a deterministic domain-hashed multi-round transcript". It is
// intentionally not a true zero-knowledge VRF (see DESIGN.md Open
// Questions) — it is publicly re-derivable from the public key and input
// alone, which is exactly what VrfVerify does.
type VRFProof struct {
	Round0 types.Hash
	Round1 types.Hash
	Round2 types.Hash
}

// VRFOutput is the pseudorandom output derived from a VRFProof, plus the
// FIPS gate flag propagated from the military-grade keypair that produced
// the proving key, if any.
type VRFOutput struct {
	Bytes          types.Hash
	FIPSValidated  bool
}

// ToUniformU64 maps the VRF output to a uniform integer in [0, max), a
// pure function of the output bytes.
func (o VRFOutput) ToUniformU64(max uint64) uint64 {
	if max == 0 {
		return 0
	}
	v := binary.BigEndian.Uint64(o.Bytes[:8])
	return v % max
}

// ToProbability maps the VRF output to a uniform float64 in [0, 1), a pure
// function of the output bytes.
func (o VRFOutput) ToProbability() float64 {
	v := binary.BigEndian.Uint64(o.Bytes[:8])
	return float64(v>>11) / (1 << 53)
}

func ed25519PubFromPriv(priv PrivateKey) ([]byte, error) {
	if priv.Algorithm != AlgVRF {
		return nil, errors.NewInvalidArgumentError("key is not a VRF key")
	}
	if len(priv.Bytes) != ed25519.PrivateKeySize {
		return nil, errors.NewCryptographicFailureError("invalid ed25519 private key length")
	}
	sk := ed25519.PrivateKey(priv.Bytes)
	return []byte(sk.Public().(ed25519.PublicKey)), nil
}

func vrfTranscript(pubBytes, input []byte) (VRFProof, types.Hash) {
	round0 := types.DomainHashMulti(vrfDomainRound0, pubBytes, input)
	round1 := types.DomainHashMulti(vrfDomainRound1, pubBytes, input, round0[:])
	round2 := types.DomainHashMulti(vrfDomainRound2, pubBytes, input, round1[:])
	output := types.DomainHashMulti(vrfDomainOutput, round2[:])

	return VRFProof{Round0: round0, Round1: round1, Round2: round2}, output
}

// VrfProve implements the C1 vrf_prove contract.
func VrfProve(priv PrivateKey, input []byte) (VRFProof, VRFOutput, error) {
	if len(input) == 0 {
		return VRFProof{}, VRFOutput{}, errors.NewValidationError("vrf input must not be empty")
	}
	if len(input) > vrfMaxInputBytes {
		return VRFProof{}, VRFOutput{}, errors.NewValidationError("vrf input exceeds 1 MiB")
	}

	pubBytes, err := ed25519PubFromPriv(priv)
	if err != nil {
		return VRFProof{}, VRFOutput{}, err
	}

	proof, output := vrfTranscript(pubBytes, input)
	return proof, VRFOutput{Bytes: output}, nil
}

// VrfVerify implements the C1 vrf_verify contract: it re-derives every
// chunk from only the public key and input, and rejects on any mismatch.
func VrfVerify(pub PublicKey, input []byte, proof VRFProof, output VRFOutput) bool {
	if pub.Algorithm != AlgVRF {
		return false
	}
	if len(input) == 0 || len(input) > vrfMaxInputBytes {
		return false
	}

	wantProof, wantOutput := vrfTranscript(pub.Bytes, input)

	return wantProof.Round0 == proof.Round0 &&
		wantProof.Round1 == proof.Round1 &&
		wantProof.Round2 == proof.Round2 &&
		wantOutput == output.Bytes
}
