package httpcg

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// ERBType enumerates excess-resource-billing categories (spec §4.11 step 5).
type ERBType int

const (
	ERBCompute ERBType = iota
	ERBBandwidth
	ERBApi
	ERBData
)

// ResourceUsage tracks a session's accumulated billable usage.
type ResourceUsage struct {
	ComputeUnits  uint64
	BandwidthBytes uint64
	ApiCalls       uint64
}

// ERBSession is one started excess-resource-billing session.
type ERBSession struct {
	SessionID     string
	Domain        string
	Type          ERBType
	WalletAddress string
	Usage         ResourceUsage
	BillingRate   float64
	StartedAt     time.Time
}

// ERBCoordinator starts sessions and updates their resource counters
// (spec §4.11 steps 5 and 8).
type ERBCoordinator struct {
	mu       sync.Mutex
	sessions map[string]*ERBSession
	now      func() time.Time
}

func NewERBCoordinator() *ERBCoordinator {
	return &ERBCoordinator{sessions: map[string]*ERBSession{}, now: time.Now}
}

// StartERBSession implements start_erb_session: a zeroed usage counter at
// a fixed per-unit billing rate.
func (c *ERBCoordinator) StartERBSession(domain, walletAddress string, erbType ERBType) *ERBSession {
	session := &ERBSession{
		SessionID:     uuid.NewString(),
		Domain:        domain,
		Type:          erbType,
		WalletAddress: walletAddress,
		BillingRate:   0.001,
		StartedAt:     c.now(),
	}
	c.mu.Lock()
	c.sessions[session.SessionID] = session
	c.mu.Unlock()
	return session
}

func baseComputeUnits(method string) uint64 {
	switch method {
	case "POST", "PUT":
		return 2
	default: // GET, DELETE, and anything else
		return 1
	}
}

// UpdateResourceUsage implements step 8's counter update:
// api_calls += 1, bandwidth_bytes += len(body),
// compute_units += base(method) + len(body)/1024.
func (c *ERBCoordinator) UpdateResourceUsage(sessionID, method string, bodyLen int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	session, ok := c.sessions[sessionID]
	if !ok {
		return
	}
	session.Usage.ApiCalls++
	session.Usage.BandwidthBytes += uint64(bodyLen)
	session.Usage.ComputeUnits += baseComputeUnits(method) + uint64(bodyLen)/1024
}

// Get returns a copy of a session's current state.
func (c *ERBCoordinator) Get(sessionID string) (ERBSession, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.sessions[sessionID]
	if !ok {
		return ERBSession{}, false
	}
	return *s, true
}
