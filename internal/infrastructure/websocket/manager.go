package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Tzla1/medsearch-sub000/pkg/logger"
)

// Client is one authenticated WebSocket connection.
type Client struct {
	UserID string
	Conn   *websocket.Conn
	Send   chan []byte

	closeOnce sync.Once
}

// closeSend closes the outbound channel exactly once; both the unregister
// path and the slow-consumer path may race to it.
func (c *Client) closeSend() {
	c.closeOnce.Do(func() { close(c.Send) })
}

// Event is a push notification about an appointment lifecycle change.
type Event struct {
	Type          string    `json:"type"` // "appointment.booked", "appointment.cancelled", ...
	AppointmentID string    `json:"appointment_id"`
	Status        string    `json:"status"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// Manager tracks active connections and routes events to users.
type Manager struct {
	clients    map[string]*Client
	Register   chan *Client
	Unregister chan *Client
	mutex      sync.RWMutex
}

func NewManager() *Manager {
	return &Manager{
		clients:    make(map[string]*Client),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
	}
}

// Start runs the manager's main loop in a goroutine.
func (m *Manager) Start(ctx context.Context) {
	go func() {
		for {
			select {
			case client := <-m.Register:
				m.mutex.Lock()
				m.clients[client.UserID] = client
				m.mutex.Unlock()
				logger.Debug("WebSocket client registered: %s", client.UserID)

			case client := <-m.Unregister:
				m.mutex.Lock()
				if m.clients[client.UserID] == client {
					delete(m.clients, client.UserID)
				}
				client.closeSend()
				m.mutex.Unlock()
				logger.Debug("WebSocket client unregistered: %s", client.UserID)

			case <-ctx.Done():
				return
			}
		}
	}()
}

// Notify pushes an event to a user if they are connected. It never blocks
// the caller; slow consumers are dropped.
func (m *Manager) Notify(userID string, event Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		logger.Error("Failed to marshal notification event: %v", err)
		return
	}

	// The non-blocking send happens under the read lock so a concurrent
	// close (which holds the write lock) cannot interleave with it.
	m.mutex.RLock()
	client, ok := m.clients[userID]
	if !ok {
		m.mutex.RUnlock()
		return
	}
	select {
	case client.Send <- payload:
		m.mutex.RUnlock()
		return
	default:
	}
	m.mutex.RUnlock()

	m.mutex.Lock()
	if m.clients[userID] == client {
		delete(m.clients, userID)
	}
	client.closeSend()
	m.mutex.Unlock()
}

// ReadPump drains inbound frames until the connection closes. The server
// does not act on client messages; the channel is push-only.
func (c *Client) ReadPump(m *Manager) {
	defer func() {
		m.Unregister <- c
		c.Conn.Close()
	}()

	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Warn("WebSocket read error: %v", err)
			}
			break
		}
	}
}

// WritePump forwards queued events to the connection.
func (c *Client) WritePump() {
	defer c.Conn.Close()

	for {
		message, ok := <-c.Send
		if !ok {
			c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}

		if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
			logger.Warn("WebSocket write error: %v", err)
			return
		}
	}
}
