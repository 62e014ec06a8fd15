package notify

import (
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/scancook/backend/internal/domain"
)

// writeWait bounds how long a notification write may block on one client
const writeWait = 5 * time.Second

// Hub fans out session notifications to connected websocket clients. Clients
// that cannot be written to are dropped; a session with no listeners simply
// loses its notifications, mirroring a toast nobody is around to see.
type Hub struct {
	conns     map[string]map[*websocket.Conn]bool // session id -> connections
	mutex     sync.Mutex
	writeWait time.Duration
}

// NewHub creates an empty notification hub
func NewHub() *Hub {
	return &Hub{
		conns:     make(map[string]map[*websocket.Conn]bool),
		writeWait: writeWait,
	}
}

// Register attaches a websocket connection to a session's notification stream
func (h *Hub) Register(sessionID string, conn *websocket.Conn) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if h.conns[sessionID] == nil {
		h.conns[sessionID] = make(map[*websocket.Conn]bool)
	}
	h.conns[sessionID][conn] = true
}

// Unregister detaches and closes a connection
func (h *Hub) Unregister(sessionID string, conn *websocket.Conn) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	h.drop(sessionID, conn)
}

// Notify delivers a notification to every client of the session. Writes are
// serialized under the hub lock; each write carries a deadline so a stalled
// client times out and gets dropped instead of blocking the mutation that
// triggered the notification.
func (h *Hub) Notify(sessionID string, n domain.Notification) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	for conn := range h.conns[sessionID] {
		conn.SetWriteDeadline(time.Now().Add(h.writeWait))
		if err := conn.WriteJSON(n); err != nil {
			log.Printf("[NOTIFY] dropping client for session %s: %v", sessionID, err)
			h.drop(sessionID, conn)
		}
	}
}

// ListenerCount returns the number of connected clients for a session
// (for debugging/monitoring)
func (h *Hub) ListenerCount(sessionID string) int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.conns[sessionID])
}

// drop removes and closes a connection; callers must hold the lock
func (h *Hub) drop(sessionID string, conn *websocket.Conn) {
	if clients, ok := h.conns[sessionID]; ok {
		delete(clients, conn)
		if len(clients) == 0 {
			delete(h.conns, sessionID)
		}
	}
	conn.Close()
}
