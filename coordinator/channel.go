package coordinator

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/GlobalSushrut/metanode/errors"
	"github.com/GlobalSushrut/metanode/ulogger"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// InterNodeChannel is the WebSocket-backed transport behind
// ConnWebSocket links: each connected node gets a socket, and messages
// addressed to a node ID are written directly to its socket.
type InterNodeChannel struct {
	log ulogger.Logger

	mu      sync.Mutex
	sockets map[string]*websocket.Conn
}

func NewInterNodeChannel(log ulogger.Logger) *InterNodeChannel {
	if log == nil {
		log = ulogger.Nop()
	}
	return &InterNodeChannel{log: log, sockets: map[string]*websocket.Conn{}}
}

// Accept upgrades an incoming HTTP connection and registers it under
// nodeID, replacing any prior socket for that node.
func (c *InterNodeChannel) Accept(nodeID string, w http.ResponseWriter, r *http.Request) error {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return errors.NewInternalError("coordinator: websocket upgrade failed for node %s: %v", nodeID, err)
	}

	c.mu.Lock()
	if old, ok := c.sockets[nodeID]; ok {
		old.Close()
	}
	c.sockets[nodeID] = conn
	c.mu.Unlock()

	c.log.Infof("inter-node channel connected: %s", nodeID)
	return nil
}

// Send writes a message directly to the node's socket.
func (c *InterNodeChannel) Send(nodeID string, payload []byte) error {
	c.mu.Lock()
	conn, ok := c.sockets[nodeID]
	c.mu.Unlock()
	if !ok {
		return errors.NewNotFoundError("coordinator: no channel open to node %s", nodeID)
	}

	if err := conn.SetWriteDeadline(time.Now().Add(5 * time.Second)); err != nil {
		return errors.NewInternalError("coordinator: failed to set write deadline for node %s: %v", nodeID, err)
	}
	if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		c.mu.Lock()
		delete(c.sockets, nodeID)
		c.mu.Unlock()
		conn.Close()
		return errors.NewInternalError("coordinator: failed to send to node %s: %v", nodeID, err)
	}
	return nil
}

// Close tears down a node's socket and removes it from the channel.
func (c *InterNodeChannel) Close(nodeID string) {
	c.mu.Lock()
	conn, ok := c.sockets[nodeID]
	delete(c.sockets, nodeID)
	c.mu.Unlock()
	if ok {
		conn.Close()
	}
}

// Connected reports whether nodeID currently has an open socket.
func (c *InterNodeChannel) Connected(nodeID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.sockets[nodeID]
	return ok
}
