// Coursecast - Realtime Learning Recommendations for Course Platforms
// Copyright 2026 The Coursecast Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/coursecast/coursecast

// Package realtime implements the server side of the push channel: a
// hub fanning typed envelopes out to connected WebSocket clients, and
// the per-connection read/write pumps.
package realtime

import (
	"context"
	"sort"
	"sync"

	"github.com/coursecast/coursecast/internal/logging"
	"github.com/coursecast/coursecast/internal/metrics"
	"github.com/coursecast/coursecast/internal/models"
)

// Message is the wire format pushed to clients. It matches the envelope
// shape consumed by the feed package.
type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// Hub maintains the set of active clients and broadcasts envelopes to
// them.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan Message
	Register   chan *Client
	Unregister chan *Client
	mu         sync.RWMutex
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		broadcast:  make(chan Message, 256),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
	}
}

// RunWithContext runs the hub event loop until the context is
// cancelled, then closes all clients and returns ctx.Err(). Designed
// for suture supervision.
//
// Selection is priority-ordered (shutdown, lifecycle, broadcast) so
// client state is consistent before any message is delivered; Go's
// select picks randomly among ready channels otherwise.
func (h *Hub) RunWithContext(ctx context.Context) error {
	for {
		// Priority 1: shutdown.
		select {
		case <-ctx.Done():
			h.shutdown(ctx)
			return ctx.Err()
		default:
		}

		// Priority 2: lifecycle events.
		select {
		case client := <-h.Register:
			h.addClient(client)
			continue
		case client := <-h.Unregister:
			h.removeClient(client)
			continue
		default:
		}

		// Priority 3: broadcasts, or block until anything is ready.
		select {
		case <-ctx.Done():
			h.shutdown(ctx)
			return ctx.Err()
		case client := <-h.Register:
			h.addClient(client)
		case client := <-h.Unregister:
			h.removeClient(client)
		case message := <-h.broadcast:
			h.broadcastToClients(message)
		}
	}
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	h.clients[client] = true
	count := len(h.clients)
	h.mu.Unlock()

	metrics.WSConnections.Set(float64(count))
	logging.Info().Int("total_clients", count).Msg("websocket client connected")
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
	}
	count := len(h.clients)
	h.mu.Unlock()

	metrics.WSConnections.Set(float64(count))
	logging.Info().Int("total_clients", count).Msg("websocket client disconnected")
}

// shutdown closes all clients and logs the reason. Context cancellation
// is expected during graceful shutdown, so it is not logged as an error.
func (h *Hub) shutdown(ctx context.Context) {
	count := h.ClientCount()
	h.closeAllClients()

	reason := "context_canceled"
	if ctx.Err() == context.DeadlineExceeded {
		reason = "context_deadline"
	}

	logging.Info().
		Str("component", "realtime-hub").
		Str("reason", reason).
		Int("clients_closed", count).
		Msg("realtime hub stopped")
}

// broadcastToClients delivers a message to every client in ID order.
// Sorting keeps delivery order reproducible; map iteration is random.
func (h *Hub) broadcastToClients(message Message) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	sort.Slice(clients, func(i, j int) bool {
		return clients[i].id < clients[j].id
	})

	var toRemove []*Client
	for _, client := range clients {
		select {
		case client.send <- message:
			metrics.WSMessagesSent.Inc()
		default:
			// Send buffer full, client is too slow to keep.
			toRemove = append(toRemove, client)
		}
	}

	for _, client := range toRemove {
		close(client.send)
		delete(h.clients, client)
	}
	if len(toRemove) > 0 {
		metrics.WSConnections.Set(float64(len(h.clients)))
	}
}

// closeAllClients closes every client in ID order during shutdown.
func (h *Hub) closeAllClients() {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	sort.Slice(clients, func(i, j int) bool {
		return clients[i].id < clients[j].id
	})

	for _, client := range clients {
		close(client.send)
		delete(h.clients, client)
	}
	metrics.WSConnections.Set(0)
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// BroadcastNewRecommendation pushes a new_recommendation envelope to all
// clients.
func (h *Hub) BroadcastNewRecommendation(course models.Course) {
	message := Message{
		Type: models.EnvelopeNewRecommendation,
		Data: course,
	}

	select {
	case h.broadcast <- message:
		logging.Debug().Int("course_id", course.ID).Msg("broadcast new_recommendation")
	default:
		logging.Warn().Msg("broadcast channel full, dropping new_recommendation message")
	}
}

// BroadcastTrendingUpdate pushes a full trending_update envelope to all
// clients.
func (h *Hub) BroadcastTrendingUpdate(trending []models.Course) {
	message := Message{
		Type: models.EnvelopeTrendingUpdate,
		Data: trending,
	}

	select {
	case h.broadcast <- message:
		logging.Debug().Int("count", len(trending)).Msg("broadcast trending_update")
	default:
		logging.Warn().Msg("broadcast channel full, dropping trending_update message")
	}
}
