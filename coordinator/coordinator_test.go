package coordinator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestStartNode_EncCluster_BecomesActive(t *testing.T) {
	c := New(nil)
	defer c.Shutdown()

	id, err := c.StartNode(NodeConfig{
		Kind: KindEncCluster,
		EncCluster: &EncClusterConfig{
			ClusterID:       "cluster-1",
			EncryptionLevel: EncryptionMilitary,
			GatewayEndpoint: "http://localhost:8080",
			MempoolSize:     10000,
		},
	}, "http://localhost:9001")
	require.NoError(t, err)
	require.NotEmpty(t, id)

	nodes := c.GetNodesStatus()
	require.Contains(t, nodes, id)
	require.Equal(t, StatusActive, nodes[id].Status)
}

func TestStartNode_RejectsMissingTypeConfig(t *testing.T) {
	c := New(nil)
	defer c.Shutdown()

	_, err := c.StartNode(NodeConfig{Kind: KindOracle}, "http://localhost:9002")
	require.Error(t, err)

	nodes := c.GetNodesStatus()
	require.Empty(t, nodes)
}

func TestStartNode_OracleLoopRunsUntilStopped(t *testing.T) {
	c := New(nil)
	defer c.Shutdown()

	id, err := c.StartNode(NodeConfig{
		Kind: KindOracle,
		Oracle: &OracleConfig{
			OracleType:        OraclePrice,
			SupportedChains:   []string{"BPI", "ETH"},
			UpdateFrequencyMs: 5,
			ReliabilityScore:  0.95,
		},
	}, "http://localhost:9003")
	require.NoError(t, err)

	time.Sleep(20 * time.Millisecond)
	require.NoError(t, c.StopNode(id))

	nodes := c.GetNodesStatus()
	require.NotContains(t, nodes, id)
}

func TestConnect_LinksTwoRunningNodes(t *testing.T) {
	c := New(nil)
	defer c.Shutdown()

	a, err := c.StartNode(NodeConfig{Kind: KindStorage, Storage: &StorageConfig{
		StorageType: StorageDistributed, CapacityGB: 1000, ReplicationFactor: 3, EncryptionEnabled: true,
	}}, "http://localhost:9004")
	require.NoError(t, err)

	b, err := c.StartNode(NodeConfig{Kind: KindLogbook, Logbook: &LogbookConfig{
		LogbookType:     LogbookAuctionRecords,
		ReceiptSources:  []string{"http-cage", "docklock", "enc-cluster"},
		StoragePolicy:   "replicated",
		RetentionPolicy: "7years",
	}}, "http://localhost:9005")
	require.NoError(t, err)

	connID, err := c.Connect(a, b, ConnWebSocket)
	require.NoError(t, err)
	require.NotEmpty(t, connID)

	nodes := c.GetNodesStatus()
	require.Contains(t, nodes[a].PeerConnections, b)
}

func TestConnect_RejectsUnknownNode(t *testing.T) {
	c := New(nil)
	defer c.Shutdown()

	a, err := c.StartNode(NodeConfig{Kind: KindStorage, Storage: &StorageConfig{}}, "http://localhost:9006")
	require.NoError(t, err)

	_, err = c.Connect(a, "does-not-exist", ConnWebSocket)
	require.Error(t, err)
}

func TestStopNode_RemovesAssociatedConnections(t *testing.T) {
	c := New(nil)
	defer c.Shutdown()

	a, err := c.StartNode(NodeConfig{Kind: KindStorage, Storage: &StorageConfig{}}, "http://localhost:9007")
	require.NoError(t, err)
	b, err := c.StartNode(NodeConfig{Kind: KindStorage, Storage: &StorageConfig{}}, "http://localhost:9008")
	require.NoError(t, err)

	_, err = c.Connect(a, b, ConnP2P)
	require.NoError(t, err)

	require.NoError(t, c.StopNode(a))
	require.Empty(t, c.connections)
}

func TestStopNode_UnknownNodeErrors(t *testing.T) {
	c := New(nil)
	defer c.Shutdown()
	require.Error(t, c.StopNode("not-a-node"))
}
