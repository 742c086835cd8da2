package events

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Message is the envelope pushed to every connected client.
type Message struct {
	Event     string      `json:"event"`
	Data      interface{} `json:"data"`
	Timestamp time.Time   `json:"timestamp"`
}

// Hub fans application events out to connected WebSocket clients. It
// implements the services.Notifier interface.
type Hub struct {
	upgrader websocket.Upgrader
	mu       sync.RWMutex
	clients  map[*client]bool
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// NewHub creates an event hub ready to accept connections.
func NewHub() *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // Browser clients connect from the app origin
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		clients: make(map[*client]bool),
	}
}

// SetupRoutes configures the WebSocket endpoint.
func (h *Hub) SetupRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/ws/events", h.HandleWebSocket)
}

// HandleWebSocket upgrades the connection and keeps it registered until the
// client goes away.
func (h *Hub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Failed to upgrade WebSocket: %v", err)
		return
	}

	c := &client{conn: conn, send: make(chan []byte, 64)}

	h.mu.Lock()
	h.clients[c] = true
	count := len(h.clients)
	h.mu.Unlock()
	log.Printf("Event client connected from %s (%d connected)", r.RemoteAddr, count)

	go h.writeLoop(c)
	h.readLoop(c)
}

// writeLoop drains the client's send queue onto the wire.
func (h *Hub) writeLoop(c *client) {
	for data := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			h.remove(c)
			return
		}
	}
	c.conn.Close()
}

// readLoop discards inbound frames and detects disconnects. Clients are
// listen-only; all writes go through the REST API.
func (h *Hub) readLoop(c *client) {
	defer h.remove(c)
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("WebSocket read error: %v", err)
			}
			return
		}
	}
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
	c.conn.Close()
}

// Broadcast pushes an event to every connected client. A client whose send
// queue is full is dropped rather than allowed to stall the rest.
func (h *Hub) Broadcast(event string, data interface{}) {
	payload, err := json.Marshal(Message{Event: event, Data: data, Timestamp: time.Now()})
	if err != nil {
		log.Printf("Failed to marshal event %s: %v", event, err)
		return
	}

	// Sends happen under the read lock so remove cannot close a send
	// channel mid-broadcast; remove needs the write lock. Slow clients are
	// collected and dropped after the lock is released, since remove would
	// deadlock against the held read lock.
	h.mu.RLock()
	var slow []*client
	for c := range h.clients {
		select {
		case c.send <- payload:
		default:
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range slow {
		log.Printf("Dropping slow event client")
		h.remove(c)
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
