// Package server provides the built-in demo endpoint for sockscope: a local
// WebSocket target to tap against, with an echo hub and a PTY shell bridge.
package server

import (
	"log"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// frame is an inbound message routed through the hub loop.
type frame struct {
	from *client
	data []byte
}

// client is one connected peer on the echo endpoint.
type client struct {
	id   string
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// Hub maintains connected clients. Each inbound text frame is echoed back
// to its sender and forwarded to every other client.
type Hub struct {
	clients    map[*client]bool
	inbound    chan frame
	register   chan *client
	unregister chan *client
	mu         sync.RWMutex
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*client]bool),
		inbound:    make(chan frame, 256),
		register:   make(chan *client),
		unregister: make(chan *client),
	}
}

// Run starts the hub's main loop.
func (h *Hub) Run() {
	for {
		select {
		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = true
			h.mu.Unlock()
			log.Printf("[hub] client %s connected (%d total)", c.id, h.ClientCount())

		case c := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
			}
			h.mu.Unlock()
			log.Printf("[hub] client %s disconnected (%d total)", c.id, h.ClientCount())

		case f := <-h.inbound:
			h.deliver(f)
		}
	}
}

// deliver echoes a frame to its sender and fans it out to the other
// clients. Slow clients are dropped rather than blocking the loop.
func (h *Hub) deliver(f frame) {
	echo := append([]byte("echo: "), f.data...)
	peer := append([]byte("peer "+f.from.id+": "), f.data...)

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		msg := peer
		if c == f.from {
			msg = echo
		}
		select {
		case c.send <- msg:
		default:
			close(c.send)
			delete(h.clients, c)
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// HandleWebSocket upgrades the HTTP connection and registers the client.
func (h *Hub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[hub] upgrade error: %v", err)
		return
	}

	c := &client{
		id:   uuid.New().String()[:8],
		hub:  h,
		conn: conn,
		send: make(chan []byte, 256),
	}
	h.register <- c

	go c.writePump()
	go c.readPump()
}

// readPump reads messages from the WebSocket connection into the hub.
func (c *client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				log.Printf("[hub] read error: %v", err)
			}
			break
		}
		c.hub.inbound <- frame{from: c, data: message}
	}
}

// writePump writes queued messages to the WebSocket connection.
func (c *client) writePump() {
	defer c.conn.Close()
	for message := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}
}
