package livestats

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"marketplace-be/internal/logger"
	"marketplace-be/internal/metrics"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	sendBuffer = 16
)

var ErrHubClosed = errors.New("live stats hub closed")

// Message is the envelope written to every websocket client.
type Message struct {
	Type      string    `json:"type"`
	Payload   any       `json:"payload"`
	Timestamp time.Time `json:"timestamp"`
}

type client struct {
	id   string
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// Hub keeps the connected dashboard clients and fans messages out to them.
// The last message is replayed to clients as they connect.
type Hub struct {
	clients    map[*client]bool
	broadcast  chan []byte
	register   chan *client
	unregister chan *client
	done       chan struct{}

	mu      sync.RWMutex
	last    []byte
	metrics *metrics.Collector

	upgrader websocket.Upgrader
}

func NewHub(m *metrics.Collector, allowedOrigin string) *Hub {
	h := &Hub{
		clients:    make(map[*client]bool),
		broadcast:  make(chan []byte, 8),
		register:   make(chan *client),
		unregister: make(chan *client),
		done:       make(chan struct{}),
		metrics:    m,
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || allowedOrigin == "*" || origin == allowedOrigin
		},
	}
	return h
}

// Run serves register, unregister and broadcast until ctx is cancelled,
// then disconnects every client.
func (h *Hub) Run(ctx context.Context) {
	log := logger.L().With(zap.String("component", "livestats_hub"))
	defer close(h.done)

	for {
		select {
		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = true
			n := len(h.clients)
			last := h.last
			h.mu.Unlock()
			if last != nil {
				c.send <- last
			}
			h.metrics.SetLiveClients(n)
			log.Debug("client connected", zap.String("client_id", c.id), zap.Int("clients", n))

		case c := <-h.unregister:
			h.mu.Lock()
			if h.clients[c] {
				delete(h.clients, c)
				close(c.send)
			}
			n := len(h.clients)
			h.mu.Unlock()
			h.metrics.SetLiveClients(n)
			log.Debug("client disconnected", zap.String("client_id", c.id), zap.Int("clients", n))

		case msg := <-h.broadcast:
			h.mu.Lock()
			h.last = msg
			for c := range h.clients {
				select {
				case c.send <- msg:
				default:
					// slow consumer
					close(c.send)
					delete(h.clients, c)
				}
			}
			n := len(h.clients)
			h.mu.Unlock()
			h.metrics.SetLiveClients(n)

		case <-ctx.Done():
			h.mu.Lock()
			for c := range h.clients {
				close(c.send)
				delete(h.clients, c)
			}
			h.mu.Unlock()
			h.metrics.SetLiveClients(0)
			return
		}
	}
}

// Broadcast queues a message for every connected client.
func (h *Hub) Broadcast(ctx context.Context, kind string, payload any) error {
	select {
	case <-h.done:
		return ErrHubClosed
	default:
	}

	data, err := json.Marshal(Message{Type: kind, Payload: payload, Timestamp: time.Now().UTC()})
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	select {
	case h.broadcast <- data:
		return nil
	case <-h.done:
		return ErrHubClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// ServeHTTP upgrades the request and attaches the connection to the hub.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	log := logger.FromCtx(r.Context())

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	c := &client{
		id:   uuid.NewString(),
		hub:  h,
		conn: conn,
		send: make(chan []byte, sendBuffer),
	}

	select {
	case h.register <- c:
	case <-h.done:
		conn.Close()
		return
	}

	go c.writePump()
	go c.readPump()
}

// readPump only drains control frames; clients do not send anything.
func (c *client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.L().Debug("websocket read error", zap.String("client_id", c.id), zap.Error(err))
			}
			return
		}
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
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
