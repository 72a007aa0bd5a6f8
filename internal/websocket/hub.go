package websocket

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"smart-collab/internal/session"
	"smart-collab/pkg/logger"
)

const sendBuffer = 16

// Conn is the part of a websocket connection the hub writes to.
type Conn interface {
	WriteJSON(v interface{}) error
	Close() error
}

// Client is one websocket connection owned by a signed-in user.
type Client struct {
	UserID string
	Conn   Conn

	send        chan session.Event
	done        chan struct{}
	closeOnce   sync.Once
	stopped     chan struct{}
	unsubscribe func()
}

func NewClient(userID string, conn Conn) *Client {
	return &Client{
		UserID:  userID,
		Conn:    conn,
		send:    make(chan session.Event, sendBuffer),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
}

// Close stops delivery to the client. Events still queued are discarded.
func (c *Client) Close() {
	c.closeOnce.Do(func() { close(c.done) })
}

// Wait blocks until WritePump has returned. The connection must not be
// released before then.
func (c *Client) Wait() {
	<-c.stopped
}

func (c *Client) enqueue(e session.Event) {
	select {
	case <-c.done:
	case c.send <- e:
	default:
		logger.SystemLogger.Warn("Dropping session event for slow client", zap.String("user_id", c.UserID))
	}
}

// WritePump forwards queued events to the connection until the client is
// closed or a write fails. Nothing is written once the client is closed.
func (c *Client) WritePump() {
	defer close(c.stopped)
	for {
		select {
		case <-c.done:
			return
		default:
		}
		select {
		case e := <-c.send:
			select {
			case <-c.done:
				return
			default:
			}
			if err := c.Conn.WriteJSON(e); err != nil {
				logger.ErrorLogger.Error("Error writing session event", zap.String("user_id", c.UserID), zap.Error(err))
				return
			}
		case <-c.done:
			return
		}
	}
}

// Hub tracks live clients and ties each one to its user's session events.
type Hub struct {
	Register   chan *Client
	Unregister chan *Client

	bus     *session.Bus
	stopped chan struct{}
	mu      sync.RWMutex
	clients map[string]map[*Client]bool
}

func NewHub(bus *session.Bus) *Hub {
	return &Hub{
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		bus:        bus,
		stopped:    make(chan struct{}),
		clients:    make(map[string]map[*Client]bool),
	}
}

// Run handles registration until ctx is cancelled, then drops every client.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.stopped)
	for {
		select {
		case client := <-h.Register:
			h.mu.Lock()
			if h.clients[client.UserID] == nil {
				h.clients[client.UserID] = make(map[*Client]bool)
			}
			h.clients[client.UserID][client] = true
			h.mu.Unlock()
			client.unsubscribe = h.bus.Subscribe(client.UserID, client.enqueue)
		case client := <-h.Unregister:
			h.remove(client)
		case <-ctx.Done():
			h.mu.RLock()
			var all []*Client
			for _, set := range h.clients {
				for client := range set {
					all = append(all, client)
				}
			}
			h.mu.RUnlock()
			for _, client := range all {
				h.remove(client)
				client.Conn.Close()
			}
			return
		}
	}
}

// Join registers client unless the hub has already stopped.
func (h *Hub) Join(client *Client) bool {
	select {
	case h.Register <- client:
		return true
	case <-h.stopped:
		return false
	}
}

// Leave unregisters client. It returns immediately once the hub has stopped.
func (h *Hub) Leave(client *Client) {
	select {
	case h.Unregister <- client:
	case <-h.stopped:
	}
}

func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	set, ok := h.clients[client.UserID]
	if !ok || !set[client] {
		h.mu.Unlock()
		return
	}
	delete(set, client)
	if len(set) == 0 {
		delete(h.clients, client.UserID)
	}
	h.mu.Unlock()

	if client.unsubscribe != nil {
		client.unsubscribe()
	}
	client.Close()
}

// Connected reports how many live clients userID has.
func (h *Hub) Connected(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}
