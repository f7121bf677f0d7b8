// Package blockassembly implements C7: PoE-bundle admission, block
// scheduling by size/time, and BpciTransaction/BpciBlock construction.
// Grounded on
// original_source/bpi-core/crates/metanode-economics/bpci-block-creator and
// the teacher's services/blockassembly/BlockAssembler.go channel-driven
// assembler shape.
package blockassembly

import (
	"strings"

	"github.com/GlobalSushrut/metanode/errors"
	"github.com/GlobalSushrut/metanode/types"
)

// knownAlgorithmTags are the signature-algorithm prefixes a bpi_comm
// signature string is allowed to start with (spec §4.7).
var knownAlgorithmTags = []string{"ed25519", "secp256k1", "bls", "dilithium", "kyber"}

func hasKnownAlgorithmTag(sig string) bool {
	for _, tag := range knownAlgorithmTags {
		if strings.HasPrefix(sig, tag+":") {
			return true
		}
	}
	return false
}

// PoEBundle is the app-submitted economic envelope (spec §3).
type PoEBundle struct {
	Version          int
	AppID            string
	LogBlockHashes   []string
	UsageSum         types.ResourceUsage
	Phi              float64
	Gamma            float64
	BillingWindow    string
	BpiCommSignature string
}

// Validate implements process_poe_bundle's validation step. Invalid bundles
// are not a fatal error — the caller is expected to log and drop them.
func (b PoEBundle) Validate() error {
	if b.Version != 1 {
		return errors.NewValidationError("poe bundle: version must be 1, got %d", b.Version)
	}
	if err := types.RequireNonEmpty("app_id", b.AppID); err != nil {
		return err
	}
	if b.Phi < 0 {
		return errors.NewValidationError("poe bundle: phi must be >= 0")
	}
	if b.Gamma < 0 || b.Gamma >= 1 {
		return errors.NewValidationError("poe bundle: gamma must be in [0, 1)")
	}
	if !hasKnownAlgorithmTag(b.BpiCommSignature) {
		return errors.NewValidationError("poe bundle: bpi_comm_signature missing a known algorithm tag")
	}
	return nil
}
