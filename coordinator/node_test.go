package coordinator

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNodeKind_String(t *testing.T) {
	require.Equal(t, "enc_cluster", KindEncCluster.String())
	require.Equal(t, "logbook", KindLogbook.String())
	require.Equal(t, "unknown", NodeKind(99).String())
}

func TestNodeStatus_String(t *testing.T) {
	require.Equal(t, "active", StatusActive.String())
	require.Equal(t, "unknown", NodeStatus(99).String())
}
