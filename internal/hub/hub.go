// Package hub streams graph events to browser clients over Server-Sent Events.
//
// Each event is written as a named SSE event with a sequence ID:
//
//	id: 7
//	event: graph_colored
//	data: {"graph_id":"01J...","payload":{...}}
//
// A client connecting to /events?graph=<id> only receives events for that
// graph. Without the parameter it receives everything.
package hub

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// Message is one event as sent to clients
type Message struct {
	Event   string `json:"-"`
	GraphID string `json:"graph_id,omitempty"`
	Payload any    `json:"payload,omitempty"`
}

type frame struct {
	graphID string
	data    []byte
}

// Client represents a connected SSE client
type Client struct {
	id     string
	graph  string // empty subscribes to every graph
	frames chan []byte
}

func (c *Client) wants(graphID string) bool {
	return c.graph == "" || c.graph == graphID
}

// Hub manages SSE client connections
type Hub struct {
	mu         sync.RWMutex
	clients    map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	outbound   chan Message
	seq        atomic.Uint64
	nextClient atomic.Uint64
	logger     *zap.Logger
	keepalive  time.Duration
	done       chan struct{} // closed when Run returns
}

// New creates a new Hub
func New(logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		clients:    make(map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		outbound:   make(chan Message, 256),
		logger:     logger,
		keepalive:  30 * time.Second,
		done:       make(chan struct{}),
	}
}

// Run starts the hub's event loop and returns when ctx is done.
// Remaining clients are disconnected on return.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = struct{}{}
			total := len(h.clients)
			h.mu.Unlock()
			h.logger.Debug("SSE client connected",
				zap.String("client", c.id),
				zap.String("graph", c.graph),
				zap.Int("total", total))

		case c := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.frames)
			}
			total := len(h.clients)
			h.mu.Unlock()
			h.logger.Debug("SSE client disconnected", zap.String("client", c.id), zap.Int("total", total))

		case msg := <-h.outbound:
			f, err := h.encode(msg)
			if err != nil {
				h.logger.Warn("failed to encode event", zap.String("event", msg.Event), zap.Error(err))
				continue
			}
			h.fanOut(f)

		case <-ctx.Done():
			h.mu.Lock()
			for c := range h.clients {
				delete(h.clients, c)
				close(c.frames)
			}
			h.mu.Unlock()
			return
		}
	}
}

func (h *Hub) encode(msg Message) (frame, error) {
	data, err := json.Marshal(msg)
	if err != nil {
		return frame{}, err
	}
	id := h.seq.Add(1)
	return frame{
		graphID: msg.GraphID,
		data:    []byte(fmt.Sprintf("id: %d\nevent: %s\ndata: %s\n\n", id, msg.Event, data)),
	}, nil
}

func (h *Hub) fanOut(f frame) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		if !c.wants(f.graphID) {
			continue
		}
		select {
		case c.frames <- f.data:
		default:
			h.logger.Debug("SSE client is slow, dropping event", zap.String("client", c.id))
		}
	}
}

// Broadcast queues an event for every interested client. It never blocks;
// when the queue is full the event is dropped.
func (h *Hub) Broadcast(event, graphID string, payload any) {
	select {
	case h.outbound <- Message{Event: event, GraphID: graphID, Payload: payload}:
	default:
		h.logger.Warn("event queue full, dropping event", zap.String("event", event))
	}
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// ServeHTTP handles SSE connections
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "SSE not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	// The stream outlives the server's write timeout
	_ = http.NewResponseController(w).SetWriteDeadline(time.Time{})

	c := &Client{
		id:     strconv.FormatUint(h.nextClient.Add(1), 10),
		graph:  r.URL.Query().Get("graph"),
		frames: make(chan []byte, 64),
	}

	select {
	case h.register <- c:
	case <-h.done:
		http.Error(w, "server shutting down", http.StatusServiceUnavailable)
		return
	case <-r.Context().Done():
		return
	}
	defer func() {
		select {
		case h.unregister <- c:
		case <-h.done:
		}
	}()

	fmt.Fprintf(w, "retry: 3000\n: connected\n\n")
	flusher.Flush()

	ticker := time.NewTicker(h.keepalive)
	defer ticker.Stop()

	for {
		select {
		case data, ok := <-c.frames:
			if !ok {
				return
			}
			if _, err := w.Write(data); err != nil {
				return
			}
			flusher.Flush()

		case <-ticker.C:
			if _, err := fmt.Fprintf(w, ": keepalive\n\n"); err != nil {
				return
			}
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}
