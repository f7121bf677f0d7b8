package httpcg

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStartERBSession_ZeroedUsage(t *testing.T) {
	c := NewERBCoordinator()
	session := c.StartERBSession("google.com", "did:pravyom:loc:US:abc", ERBApi)
	require.NotEmpty(t, session.SessionID)
	require.Equal(t, uint64(0), session.Usage.ApiCalls)
	require.Equal(t, uint64(0), session.Usage.BandwidthBytes)
	require.Equal(t, uint64(0), session.Usage.ComputeUnits)
}

func TestUpdateResourceUsage_AccumulatesAcrossCalls(t *testing.T) {
	c := NewERBCoordinator()
	session := c.StartERBSession("google.com", "wallet", ERBApi)

	c.UpdateResourceUsage(session.SessionID, "GET", 2048)
	c.UpdateResourceUsage(session.SessionID, "POST", 100)

	got, ok := c.Get(session.SessionID)
	require.True(t, ok)
	require.Equal(t, uint64(2), got.Usage.ApiCalls)
	require.Equal(t, uint64(2148), got.Usage.BandwidthBytes)
	// GET(2048 bytes): base 1 + 2048/1024 = 3; POST(100 bytes): base 2 + 0 = 2
	require.Equal(t, uint64(5), got.Usage.ComputeUnits)
}

func TestUpdateResourceUsage_UnknownSessionIsNoop(t *testing.T) {
	c := NewERBCoordinator()
	c.UpdateResourceUsage("does-not-exist", "GET", 10)
	_, ok := c.Get("does-not-exist")
	require.False(t, ok)
}
