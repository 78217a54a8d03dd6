package websocket

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 4096

	// Per-client outbound buffer.
	sendBufferSize = 256
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Allow all origins in development
		return true
	},
}

// Message is one inbound client frame.
type Message struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// Envelope is one outbound frame.
type Envelope struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
}

// Router receives decoded inbound frames and connection-drop notices.
// Implemented by the dispatcher in front of the game service.
type Router interface {
	Route(ctx context.Context, playerID string, msg Message)
	Disconnected(ctx context.Context, playerID string)
}

// Client represents one connected participant.
type Client struct {
	hub      *Hub
	conn     *websocket.Conn
	send     chan []byte
	playerID string
}

// Hub maintains the set of active clients and delivers targeted messages.
// It implements the service layer's Broadcaster.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client

	// Inbound delivery requests from the service layer
	outbound chan *delivery

	// Register requests from new connections
	register chan *Client

	// Unregister requests from dying connections
	unregister chan *Client

	router Router
}

type delivery struct {
	playerIDs []string
	payload   []byte
}

// NewHub creates a hub. SetRouter must be called before ServeWS.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		outbound:   make(chan *delivery, sendBufferSize),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// SetRouter installs the inbound message router. The hub and the service
// are constructed in either order, so the router is attached after wiring.
func (h *Hub) SetRouter(r Router) {
	h.router = r
}

// Run starts the hub's event loop.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case d := <-h.outbound:
			h.deliver(d)
		}
	}
}

// ServeWS upgrades the request and runs the connection for playerID.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, playerID string) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	client := &Client{
		hub:      h,
		conn:     conn,
		send:     make(chan []byte, sendBufferSize),
		playerID: playerID,
	}

	client.hub.register <- client

	go client.writePump()
	go client.readPump()

	h.ToPlayer(playerID, "welcome", map[string]string{"player_id": playerID})
}

// ToPlayer sends one event to one participant. Dropped silently when the
// participant is not connected.
func (h *Hub) ToPlayer(playerID, event string, data interface{}) {
	h.ToPlayers([]string{playerID}, event, data)
}

// ToPlayers sends one event to each of the given participants.
func (h *Hub) ToPlayers(playerIDs []string, event string, data interface{}) {
	payload, err := json.Marshal(Envelope{Type: event, Data: data})
	if err != nil {
		log.Printf("Failed to marshal %s message: %v", event, err)
		return
	}
	h.outbound <- &delivery{playerIDs: playerIDs, payload: payload}
}

// ToAll sends one event to every connected participant. Used for the
// periodic server-status heartbeat.
func (h *Hub) ToAll(event string, data interface{}) {
	h.mu.RLock()
	ids := make([]string, 0, len(h.clients))
	for id := range h.clients {
		ids = append(ids, id)
	}
	h.mu.RUnlock()
	h.ToPlayers(ids, event, data)
}

// IsConnected reports whether the participant has a live connection. Used
// by the matchmaker's connectivity probe.
func (h *Hub) IsConnected(playerID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.clients[playerID]
	return ok
}

// ConnectionCount returns the number of live connections.
func (h *Hub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	if existing, ok := h.clients[client.playerID]; ok {
		// A reconnect replaces the stale connection.
		close(existing.send)
	}
	h.clients[client.playerID] = client
	total := len(h.clients)
	h.mu.Unlock()

	log.Printf("Client %s connected (total connections: %d)", client.playerID, total)
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	current, ok := h.clients[client.playerID]
	if ok && current == client {
		delete(h.clients, client.playerID)
		close(client.send)
	}
	total := len(h.clients)
	h.mu.Unlock()

	if ok && current == client {
		log.Printf("Client %s disconnected (remaining connections: %d)", client.playerID, total)
		if h.router != nil {
			h.router.Disconnected(context.Background(), client.playerID)
		}
	}
}

func (h *Hub) deliver(d *delivery) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, id := range d.playerIDs {
		client, ok := h.clients[id]
		if !ok {
			continue
		}
		select {
		case client.send <- d.payload:
		default:
			// Client's send buffer is full; the reconciliation channel
			// is how it catches up after reconnecting.
			log.Printf("Dropping message for slow client %s", id)
		}
	}
}

// readPump pumps messages from the WebSocket connection to the router.
// Malformed frames and router panics are contained here: they cost the
// offending connection at worst, never the process or other sessions.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error for %s: %v", c.playerID, err)
			}
			break
		}

		var msg Message
		if err := json.Unmarshal(raw, &msg); err != nil {
			log.Printf("Malformed frame from %s: %v", c.playerID, err)
			c.hub.ToPlayer(c.playerID, "error", map[string]string{"message": "malformed message"})
			continue
		}
		c.dispatch(msg)
	}
}

// dispatch hands one frame to the router behind a recover barrier.
func (c *Client) dispatch(msg Message) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Panic handling %q from %s: %v", msg.Type, c.playerID, r)
			c.hub.ToPlayer(c.playerID, "error", map[string]string{"message": "internal error"})
		}
	}()
	if c.hub.router != nil {
		c.hub.router.Route(context.Background(), c.playerID, msg)
	}
}

// writePump pumps messages from the hub to the WebSocket connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			// Add queued messages to the current WebSocket message
			n := len(c.send)
			for i := 0; i < n; i++ {
				w.Write([]byte{'\n'})
				w.Write(<-c.send)
			}

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
