package events

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gofiber/contrib/websocket"
	"go.uber.org/zap"
)

// Event is a domain notification pushed to connected clients and fed to
// trigger schedules.
type Event struct {
	Name      string         `json:"name"`
	Payload   map[string]any `json:"payload,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// Listener receives every published event. The scheduler registers one
// to drive trigger-based schedules.
type Listener func(evt Event)

// subscriber is the write side of a websocket connection.
type subscriber interface {
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// client pairs a socket with its write lock. Websocket connections do
// not permit concurrent writers, and publishes arrive from request
// goroutines and the scheduler at the same time.
type client struct {
	sub subscriber
	wmu sync.Mutex
}

// Hub fans domain events out to websocket subscribers and in-process
// listeners.
type Hub struct {
	mu        sync.RWMutex
	clients   map[subscriber]*client
	listeners []Listener
	logger    *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients: make(map[subscriber]*client),
		logger:  logger,
	}
}

func (h *Hub) Register(c *websocket.Conn) {
	h.add(c)
}

func (h *Hub) Unregister(c *websocket.Conn) {
	h.remove(c)
}

func (h *Hub) add(s subscriber) {
	h.mu.Lock()
	h.clients[s] = &client{sub: s}
	h.mu.Unlock()
}

func (h *Hub) remove(s subscriber) {
	h.mu.Lock()
	delete(h.clients, s)
	h.mu.Unlock()
}

func (h *Hub) Subscribe(fn Listener) {
	h.mu.Lock()
	h.listeners = append(h.listeners, fn)
	h.mu.Unlock()
}

// Publish delivers the event to every listener and websocket client.
// Slow or broken sockets are dropped, never waited on.
func (h *Hub) Publish(name string, payload map[string]any) {
	evt := Event{Name: name, Payload: payload, Timestamp: time.Now().UTC()}

	h.mu.RLock()
	listeners := make([]Listener, len(h.listeners))
	copy(listeners, h.listeners)
	clients := make([]*client, 0, len(h.clients))
	for _, cl := range h.clients {
		clients = append(clients, cl)
	}
	h.mu.RUnlock()

	for _, fn := range listeners {
		go fn(evt)
	}

	if len(clients) == 0 {
		return
	}

	msg, err := json.Marshal(evt)
	if err != nil {
		h.logger.Warn("event marshal failed", zap.String("event", name), zap.Error(err))
		return
	}
	for _, cl := range clients {
		// one writer per socket at a time
		cl.wmu.Lock()
		err := cl.sub.WriteMessage(websocket.TextMessage, msg)
		cl.wmu.Unlock()
		if err != nil {
			h.logger.Debug("dropping websocket client", zap.Error(err))
			h.remove(cl.sub)
			cl.sub.Close()
		}
	}
}
