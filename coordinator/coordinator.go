package coordinator

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/GlobalSushrut/metanode/errors"
	"github.com/GlobalSushrut/metanode/ulogger"
)

// heartbeatInterval matches the original's 30-second node heartbeat tick.
const heartbeatInterval = 30 * time.Second

// Coordinator orchestrates the lifecycle of every BPI node type: it
// starts a node's supervised background loop through an errgroup,
// tracks its status and heartbeat, and tears both down on Stop.
type Coordinator struct {
	CoordinatorID string

	log ulogger.Logger

	mu          sync.RWMutex
	nodes       map[string]*Node
	connections map[string]*NodeConnection
	cancels     map[string]context.CancelFunc

	group  *errgroup.Group
	ctx    context.Context
	cancel context.CancelFunc
}

// New builds a coordinator whose supervised node loops run under a single
// cancellable root context.
func New(log ulogger.Logger) *Coordinator {
	if log == nil {
		log = ulogger.Nop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	group, gctx := errgroup.WithContext(ctx)
	return &Coordinator{
		CoordinatorID: "bpi-coordinator-" + uuid.NewString(),
		log:           log,
		nodes:         map[string]*Node{},
		connections:   map[string]*NodeConnection{},
		cancels:       map[string]context.CancelFunc{},
		group:         group,
		ctx:           gctx,
		cancel:        cancel,
	}
}

// StartNode registers a node, launches its type-specific background
// loop and heartbeat under the coordinator's supervised errgroup, and
// marks it active (spec §4.12 start_node).
func (c *Coordinator) StartNode(cfg NodeConfig, endpoint string) (string, error) {
	nodeID := "bpi-node-" + uuid.NewString()
	now := time.Now()

	node := &Node{
		NodeID:        nodeID,
		Config:        cfg,
		Status:        StatusInitializing,
		Endpoint:      endpoint,
		StartTime:     now,
		LastHeartbeat: now,
	}

	nodeCtx, nodeCancel := context.WithCancel(c.ctx)

	c.mu.Lock()
	c.nodes[nodeID] = node
	c.cancels[nodeID] = nodeCancel
	c.mu.Unlock()

	loop, err := c.loopFor(cfg)
	if err != nil {
		nodeCancel()
		c.mu.Lock()
		delete(c.nodes, nodeID)
		delete(c.cancels, nodeID)
		c.mu.Unlock()
		return "", err
	}

	c.log.Infof("starting bpi node %s of kind %v", nodeID, cfg.Kind)

	if loop != nil {
		c.group.Go(func() error {
			loop(nodeCtx, nodeID)
			return nil
		})
	}

	c.group.Go(func() error {
		c.runHeartbeat(nodeCtx, nodeID)
		return nil
	})

	c.mu.Lock()
	node.Status = StatusActive
	c.mu.Unlock()

	c.log.Infof("bpi node started: %s", nodeID)
	return nodeID, nil
}

// loopFor returns the type-specific supervised tick loop for a node
// kind, or nil for kinds with no periodic background work.
func (c *Coordinator) loopFor(cfg NodeConfig) (func(ctx context.Context, nodeID string), error) {
	switch cfg.Kind {
	case KindEncCluster:
		if cfg.EncCluster == nil {
			return nil, errors.NewInvalidArgumentError("coordinator: enc_cluster node missing config")
		}
		return nil, nil
	case KindOracle:
		if cfg.Oracle == nil {
			return nil, errors.NewInvalidArgumentError("coordinator: oracle node missing config")
		}
		freq := time.Duration(cfg.Oracle.UpdateFrequencyMs) * time.Millisecond
		if freq <= 0 {
			freq = time.Second
		}
		return c.tickLoop(freq, "oracle feed"), nil
	case KindShadowRegistry:
		if cfg.ShadowRegistry == nil {
			return nil, errors.NewInvalidArgumentError("coordinator: shadow_registry node missing config")
		}
		return c.tickLoop(60*time.Second, "shadow registry bridge"), nil
	case KindPipelineApi:
		if cfg.PipelineApi == nil {
			return nil, errors.NewInvalidArgumentError("coordinator: pipeline_api node missing config")
		}
		return c.tickLoop(10*time.Second, "pipeline throughput"), nil
	case KindStorage:
		if cfg.Storage == nil {
			return nil, errors.NewInvalidArgumentError("coordinator: storage node missing config")
		}
		return c.tickLoop(30*time.Second, "storage monitor"), nil
	case KindProof:
		if cfg.Proof == nil {
			return nil, errors.NewInvalidArgumentError("coordinator: proof node missing config")
		}
		return c.tickLoop(5*time.Minute, "proof generation"), nil
	case KindAudit:
		if cfg.Audit == nil {
			return nil, errors.NewInvalidArgumentError("coordinator: audit node missing config")
		}
		return c.tickLoop(time.Hour, "audit collection"), nil
	case KindLogbook:
		if cfg.Logbook == nil {
			return nil, errors.NewInvalidArgumentError("coordinator: logbook node missing config")
		}
		return c.tickLoop(10*time.Second, "receipt collection"), nil
	default:
		return nil, errors.NewInvalidArgumentError("coordinator: unknown node kind %v", cfg.Kind)
	}
}

func (c *Coordinator) tickLoop(interval time.Duration, label string) func(ctx context.Context, nodeID string) {
	return func(ctx context.Context, nodeID string) {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				c.log.Debugf("%s tick for node %s", label, nodeID)
			}
		}
	}
}

func (c *Coordinator) runHeartbeat(ctx context.Context, nodeID string) {
	ticker := time.NewTicker(heartbeatInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.mu.Lock()
			if node, ok := c.nodes[nodeID]; ok {
				node.LastHeartbeat = time.Now()
				node.Metrics.UptimeSeconds = uint64(time.Since(node.StartTime).Seconds())
			}
			c.mu.Unlock()
			c.log.Debugf("heartbeat for node %s", nodeID)
		}
	}
}

// GetNodesStatus returns a snapshot of every known node.
func (c *Coordinator) GetNodesStatus() map[string]Node {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string]Node, len(c.nodes))
	for id, n := range c.nodes {
		out[id] = *n
	}
	return out
}

// Connect records an established link between two running nodes
// (spec §4.12's NodeConnection).
func (c *Coordinator) Connect(fromNode, toNode string, kind ConnectionKind) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.nodes[fromNode]; !ok {
		return "", errors.NewNotFoundError("coordinator: unknown node %s", fromNode)
	}
	if _, ok := c.nodes[toNode]; !ok {
		return "", errors.NewNotFoundError("coordinator: unknown node %s", toNode)
	}
	connID := uuid.NewString()
	c.connections[connID] = &NodeConnection{
		ConnectionID:  connID,
		FromNode:      fromNode,
		ToNode:        toNode,
		Kind:          kind,
		EstablishedAt: time.Now(),
		Status:        ConnStatusConnected,
	}
	c.nodes[fromNode].PeerConnections = append(c.nodes[fromNode].PeerConnections, toNode)
	return connID, nil
}

// StopNode cancels a node's background loops, marks it stopped, and
// removes it along with any connections it held (spec §4.12 stop_node).
func (c *Coordinator) StopNode(nodeID string) error {
	c.mu.Lock()
	cancel, ok := c.cancels[nodeID]
	if !ok {
		c.mu.Unlock()
		return errors.NewNotFoundError("coordinator: unknown node %s", nodeID)
	}
	if node, ok := c.nodes[nodeID]; ok {
		node.Status = StatusStopped
	}
	delete(c.nodes, nodeID)
	delete(c.cancels, nodeID)
	for id, conn := range c.connections {
		if conn.FromNode == nodeID || conn.ToNode == nodeID {
			delete(c.connections, id)
		}
	}
	c.mu.Unlock()

	cancel()
	c.log.Infof("bpi node stopped: %s", nodeID)
	return nil
}

// Shutdown cancels every supervised node loop and waits for them to
// return.
func (c *Coordinator) Shutdown() error {
	c.cancel()
	return c.group.Wait()
}
