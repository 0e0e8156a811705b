// RQAGuard - Streaming Recurrence and Fusion Intrusion Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rqaguard

package websocket

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/goccy/go-json"

	"github.com/tomtom215/rqaguard/internal/logging"
	"github.com/tomtom215/rqaguard/internal/metrics"
	"github.com/tomtom215/rqaguard/internal/models"
)

// Message types.
const (
	MessageTypeVerdict = "verdict"
	MessageTypePing    = "ping"
	MessageTypePong    = "pong"
)

// ErrBroadcastFull is returned by Append when the broadcast buffer is full.
var ErrBroadcastFull = errors.New("websocket: broadcast channel full")

const broadcastBuffer = 256

// Message is the envelope written to clients.
type Message struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

// Hub fans verdict frames out to connected clients. The client set is owned
// by the RunWithContext goroutine; everything else talks to it through
// channels.
type Hub struct {
	join   chan *Client
	leave  chan *Client
	frames chan []byte

	stopped  chan struct{}
	stopOnce sync.Once

	nextID atomic.Uint64
	count  atomic.Int64
}

// NewHub creates a hub. RunWithContext must be running for frames to flow.
func NewHub() *Hub {
	return &Hub{
		join:    make(chan *Client),
		leave:   make(chan *Client),
		frames:  make(chan []byte, broadcastBuffer),
		stopped: make(chan struct{}),
	}
}

// register hands c to the run loop. It returns false once the hub has stopped.
func (h *Hub) register(c *Client) bool {
	select {
	case h.join <- c:
		return true
	case <-h.stopped:
		return false
	}
}

func (h *Hub) unregister(c *Client) {
	select {
	case h.leave <- c:
	case <-h.stopped:
	}
}

// RunWithContext owns the client set until ctx is done, then closes every
// client and returns ctx.Err(). Pending joins and leaves are applied before
// each broadcast, so a client whose register call returned before Append
// receives that frame.
func (h *Hub) RunWithContext(ctx context.Context) error {
	clients := make(map[uint64]*Client)
	defer h.stopOnce.Do(func() { close(h.stopped) })

	for {
		select {
		case <-ctx.Done():
			n := len(clients)
			for id, c := range clients {
				close(c.send)
				delete(clients, id)
			}
			h.setCount(0)
			logging.Info().Str("component", "websocket-hub").Int("clients_closed", n).Msg("websocket hub stopped")
			return ctx.Err()

		case c := <-h.join:
			h.admit(clients, c)
		case c := <-h.leave:
			h.evict(clients, c)

		case frame := <-h.frames:
			h.settle(clients)
			h.fanout(clients, frame)
		}
	}
}

// settle applies membership changes that are already waiting.
func (h *Hub) settle(clients map[uint64]*Client) {
	for {
		select {
		case c := <-h.join:
			h.admit(clients, c)
		case c := <-h.leave:
			h.evict(clients, c)
		default:
			return
		}
	}
}

func (h *Hub) admit(clients map[uint64]*Client, c *Client) {
	clients[c.id] = c
	h.setCount(len(clients))
	logging.Debug().Uint64("client_id", c.id).Int("total_clients", len(clients)).Msg("websocket client connected")
}

func (h *Hub) evict(clients map[uint64]*Client, c *Client) {
	if clients[c.id] != c {
		return
	}
	delete(clients, c.id)
	close(c.send)
	h.setCount(len(clients))
	logging.Debug().Uint64("client_id", c.id).Int("total_clients", len(clients)).Msg("websocket client disconnected")
}

// fanout writes frame to clients in connection order. A client whose send
// buffer is full is dropped instead of stalling the others.
func (h *Hub) fanout(clients map[uint64]*Client, frame []byte) {
	var slow []uint64
	for _, id := range slices.Sorted(maps.Keys(clients)) {
		select {
		case clients[id].send <- frame:
		default:
			slow = append(slow, id)
		}
	}
	if len(slow) == 0 {
		return
	}
	for _, id := range slow {
		close(clients[id].send)
		delete(clients, id)
	}
	h.setCount(len(clients))
	logging.Warn().Int("dropped_clients", len(slow)).Msg("disconnected slow websocket clients")
}

func (h *Hub) setCount(n int) {
	h.count.Store(int64(n))
	metrics.UpdateWSConnections(n)
}

// Append broadcasts rec as a verdict message. The record is encoded once for
// all clients. Append never blocks: a full broadcast buffer drops the record
// and returns ErrBroadcastFull.
func (h *Hub) Append(_ context.Context, rec models.LogRecord) error {
	frame, err := MarshalMessage(Message{Type: MessageTypeVerdict, Data: rec})
	if err != nil {
		return fmt.Errorf("websocket: encode verdict: %w", err)
	}
	select {
	case h.frames <- frame:
		return nil
	default:
		return ErrBroadcastFull
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	return int(h.count.Load())
}

// MarshalMessage encodes a message as JSON.
func MarshalMessage(msg Message) ([]byte, error) {
	return json.Marshal(msg)
}
