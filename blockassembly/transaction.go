package blockassembly

import (
	"github.com/GlobalSushrut/metanode/crypto"
	"github.com/GlobalSushrut/metanode/types"
)

const domainTx = "BPCI_TX"

// TxKind enumerates the BpciTransaction variants (spec §3).
type TxKind int

const (
	TxPoEBundle TxKind = iota
	TxSettlement
	TxGovernance
	TxBankMesh
)

// FeeSplit is the four-way split of a transaction's minted NEX (spec §3).
type FeeSplit struct {
	Locked    float64
	Spendable float64
	Owner     float64
	Treasury  float64
}

func (f FeeSplit) Sum() float64 { return f.Locked + f.Spendable + f.Owner + f.Treasury }

// FeeSplitConfig is the percentage-of-nex_minted each bucket receives (spec
// §4.7's literal 0.2%/0.3%/0.2%/0.3%).
type FeeSplitConfig struct {
	LockedPct    float64
	SpendablePct float64
	OwnerPct     float64
	TreasuryPct  float64
}

// DefaultFeeSplitConfig matches spec §4.7's literal percentages.
func DefaultFeeSplitConfig() FeeSplitConfig {
	return FeeSplitConfig{LockedPct: 0.002, SpendablePct: 0.003, OwnerPct: 0.002, TreasuryPct: 0.003}
}

func (c FeeSplitConfig) split(nexMinted float64) FeeSplit {
	return FeeSplit{
		Locked:    nexMinted * c.LockedPct,
		Spendable: nexMinted * c.SpendablePct,
		Owner:     nexMinted * c.OwnerPct,
		Treasury:  nexMinted * c.TreasuryPct,
	}
}

// BpciTransaction is the C7 per-bundle transaction (spec §3).
type BpciTransaction struct {
	TxID       string
	Kind       TxKind
	AppID      string
	PoEData    PoEBundle
	NexMinted  float64
	FeeSplit   FeeSplit
	Signature  crypto.Signature
	Hash       types.Hash
}

func txHash(txID, appID string, nexMinted, phi, gamma float64) types.Hash {
	enc := types.NewEncoder().
		PutString(txID).
		PutString(appID).
		PutFloat64Bits(nexMinted).
		PutFloat64Bits(phi).
		PutFloat64Bits(gamma)
	return types.DomainHash(domainTx, enc.Bytes())
}

// buildTransaction implements spec §4.7's per-bundle BpciTransaction
// construction: nex_minted, fee_split, hash, and a signature over that hash
// with the creator's key.
func buildTransaction(txID string, kWindow float64, feeCfg FeeSplitConfig, signer crypto.PrivateKey, bundle PoEBundle) (*BpciTransaction, error) {
	nexMinted := kWindow * bundle.Gamma
	feeSplit := feeCfg.split(nexMinted)
	hash := txHash(txID, bundle.AppID, nexMinted, bundle.Phi, bundle.Gamma)

	sig, err := crypto.Sign(hash[:], signer)
	if err != nil {
		return nil, err
	}

	return &BpciTransaction{
		TxID:      txID,
		Kind:      TxPoEBundle,
		AppID:     bundle.AppID,
		PoEData:   bundle,
		NexMinted: nexMinted,
		FeeSplit:  feeSplit,
		Signature: sig,
		Hash:      hash,
	}, nil
}
