package conversation

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	maxMsgSize = 4 * 1024
	sendBuffer = 64
)

// Event is pushed to every live view of a workspace.
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

const (
	EventConversationUpdated = "conversation.updated"
	EventWorkspaceClosed     = "workspace.closed"
	EventPong                = "pong"
)

// connection is a single websocket client
type connection struct {
	workspaceID string
	conn        *websocket.Conn
	send        chan []byte
}

// Hub tracks websocket connections per workspace. An operator may have
// several tabs open on the same workspace.
type Hub struct {
	mu          sync.RWMutex
	connections map[string]map[*connection]struct{}
	closed      bool
	wg          sync.WaitGroup
	log         zerolog.Logger
}

func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		connections: make(map[string]map[*connection]struct{}),
		log:         log.With().Str("component", "hub").Logger(),
	}
}

// register adds c and reserves its two pumps in the wait group. It
// refuses new connections once the hub is closed.
func (h *Hub) register(c *connection) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	set, ok := h.connections[c.workspaceID]
	if !ok {
		set = make(map[*connection]struct{})
		h.connections[c.workspaceID] = set
	}
	set[c] = struct{}{}
	h.wg.Add(2)
	return true
}

func (h *Hub) unregister(c *connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.connections[c.workspaceID]
	if !ok {
		return
	}
	if _, ok := set[c]; !ok {
		return
	}
	delete(set, c)
	close(c.send)
	if len(set) == 0 {
		delete(h.connections, c.workspaceID)
	}
}

// Publish sends an event to every connection of the workspace. Slow
// clients miss events rather than blocking the caller.
func (h *Hub) Publish(workspaceID string, event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		h.log.Error().Err(err).Str("type", event.Type).Msg("encode event")
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.connections[workspaceID] {
		select {
		case c.send <- data:
		default:
		}
	}
}

// Connections reports how many clients the workspace has.
func (h *Hub) Connections(workspaceID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.connections[workspaceID])
}

// Drop disconnects every client of a workspace after telling it the
// workspace is gone.
func (h *Hub) Drop(workspaceID string) {
	h.Publish(workspaceID, Event{Type: EventWorkspaceClosed})

	h.mu.Lock()
	set := h.connections[workspaceID]
	delete(h.connections, workspaceID)
	for c := range set {
		close(c.send)
	}
	h.mu.Unlock()
}

// Close disconnects everyone and waits for the pumps to exit.
func (h *Hub) Close() {
	h.mu.Lock()
	h.closed = true
	for id, set := range h.connections {
		for c := range set {
			close(c.send)
		}
		delete(h.connections, id)
	}
	h.mu.Unlock()
	h.wg.Wait()
}

// ServeWS registers conn and runs its pumps. It blocks until the client
// disconnects.
func (h *Hub) ServeWS(conn *websocket.Conn, workspaceID string) {
	c := &connection{
		workspaceID: workspaceID,
		conn:        conn,
		send:        make(chan []byte, sendBuffer),
	}
	if !h.register(c) {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"), time.Now().Add(writeWait))
		conn.Close()
		return
	}

	go h.writePump(c)
	h.readPump(c)
}

func (h *Hub) readPump(c *connection) {
	defer func() {
		h.unregister(c)
		c.conn.Close()
		h.wg.Done()
	}()

	c.conn.SetReadLimit(maxMsgSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Debug().Err(err).Str("workspace_id", c.workspaceID).Msg("websocket read")
			}
			return
		}

		var in struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal(msg, &in); err != nil {
			continue
		}
		if in.Type == "ping" {
			h.reply(c, Event{Type: EventPong})
		}
	}
}

func (h *Hub) reply(c *connection, event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	if _, ok := h.connections[c.workspaceID][c]; !ok {
		return
	}
	select {
	case c.send <- data:
	default:
	}
}

func (h *Hub) writePump(c *connection) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
		h.wg.Done()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
