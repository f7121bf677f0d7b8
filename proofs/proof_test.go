package proofs

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/GlobalSushrut/metanode/types"
)

func TestPOA_GenerateVerifyRoundTrip(t *testing.T) {
	proof, err := GeneratePOA(POAInput{
		ContainerID:   "container-1",
		Action:        ActionDeploy,
		PrevStateHash: types.ZeroHash,
		NewStateHash:  types.DomainHash("X", []byte("state-1")),
		Usage:         types.ResourceUsage{CPUTimeMs: 10, MemoryPeakBytes: 1024},
		Timestamp:     1000,
	})
	require.NoError(t, err)
	require.True(t, proof.Verify())
	require.Equal(t, TypePOA, proof.ProofType())
	require.Equal(t, "container-1", proof.SubjectID())

	proof.Timestamp = 1001
	require.False(t, proof.Verify())
}

func TestPOA_RejectsEmptyContainerID(t *testing.T) {
	_, err := GeneratePOA(POAInput{ContainerID: ""})
	require.Error(t, err)
}

func TestPOA_Deterministic(t *testing.T) {
	in := POAInput{
		ContainerID:  "container-2",
		Action:       ActionScale,
		NewStateHash: types.DomainHash("X", []byte("s2")),
		Timestamp:    42,
	}
	p1, err := GeneratePOA(in)
	require.NoError(t, err)
	p2, err := GeneratePOA(in)
	require.NoError(t, err)
	require.Equal(t, p1.ActionHash, p2.ActionHash)
}

func TestPOE_GenerateVerifyRoundTrip(t *testing.T) {
	proof, err := GeneratePOE(POEInput{
		ModuleID:   "mod-a",
		EntryPoint: "run",
		InputHash:  types.DomainHash("X", []byte("in")),
		OutputHash: types.DomainHash("X", []byte("out")),
		GasUsed:    500,
		Timestamp:  10,
	})
	require.NoError(t, err)
	require.True(t, proof.Verify())

	proof.GasUsed = 501
	require.False(t, proof.Verify())
}

func TestPOE_RejectsEmptyIdentifiers(t *testing.T) {
	_, err := GeneratePOE(POEInput{ModuleID: "", EntryPoint: "run"})
	require.Error(t, err)

	_, err = GeneratePOE(POEInput{ModuleID: "mod-a", EntryPoint: ""})
	require.Error(t, err)
}

func TestPOT_GenerateVerifyRoundTrip(t *testing.T) {
	proof, err := GeneratePOT(POTInput{
		ChainID:     "chain-x",
		BlockHeight: 100,
		BlockHash:   types.DomainHash("X", []byte("block")),
		ValidatorID: "validator-1",
		Timestamp:   5,
	})
	require.NoError(t, err)
	require.True(t, proof.Verify())

	proof.BlockHeight = 101
	require.False(t, proof.Verify())
}

func TestPOG_GenerateVerifyRoundTrip(t *testing.T) {
	proof, err := GeneratePOG(POGInput{
		OperationID: "op-1",
		FromAccount: "treasury",
		ToAccount:   "maintainer-1",
		AmountMicro: 1_000_000,
		Timestamp:   7,
	})
	require.NoError(t, err)
	require.True(t, proof.Verify())

	proof.AmountMicro = 2_000_000
	require.False(t, proof.Verify())
}

func TestPOG_RejectsNegativeAmount(t *testing.T) {
	_, err := GeneratePOG(POGInput{
		OperationID: "op-1",
		FromAccount: "a",
		ToAccount:   "b",
		AmountMicro: -1,
	})
	require.Error(t, err)
}

func TestPOH_GenesisAndChaining(t *testing.T) {
	genesis, err := GeneratePOH(POHInput{SequenceNumber: 0, PrevHash: types.ZeroHash})
	require.NoError(t, err)
	require.True(t, genesis.Verify())

	next, err := GeneratePOH(POHInput{
		SequenceNumber: 1,
		PrevHash:       genesis.OrderingHash,
		Timestamp:      1,
		Nonce:          []byte{0x01},
	})
	require.NoError(t, err)
	require.True(t, next.Verify())
}

func TestPOH_RejectsMismatchedGenesis(t *testing.T) {
	_, err := GeneratePOH(POHInput{SequenceNumber: 0, PrevHash: types.DomainHash("X", []byte("not zero"))})
	require.Error(t, err)

	_, err = GeneratePOH(POHInput{SequenceNumber: 1, PrevHash: types.ZeroHash})
	require.Error(t, err)
}
