package sse

import (
	"log/slog"
	"sync"

	"github.com/cmlabs-hris/presensi-backend-go/internal/domain/presence"
)

// historySize is how many recent events each admin feed retains for replay.
const historySize = 5

// subscriberBuffer must hold a full replay plus a burst of live events.
const subscriberBuffer = 16

// Hub fans presence events out to connected admin dashboards. Every admin has an
// independent feed with its own lock, so publishes for one admin never contend with
// another's. Feeds outlive their connections: the recent history keeps accumulating
// while no dashboard is open and is replayed to the next one that connects.
type Hub struct {
	mu    sync.RWMutex
	feeds map[string]*feed
}

type feed struct {
	mu      sync.Mutex
	conns   []chan presence.Event // registration order
	history []presence.Event      // oldest first, at most historySize
}

// NewHub creates a new presence Hub instance
func NewHub() *Hub {
	return &Hub{
		feeds: make(map[string]*feed),
	}
}

func (h *Hub) getOrCreateFeed(adminID string) *feed {
	h.mu.RLock()
	f, ok := h.feeds[adminID]
	h.mu.RUnlock()
	if ok {
		return f
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if f, ok = h.feeds[adminID]; !ok {
		f = &feed{}
		h.feeds[adminID] = f
	}
	return f
}

// Register adds a dashboard connection for an admin and returns its event channel
// with a cleanup function. The first connection on an idle feed receives the
// buffered recent events, oldest first, before any live event; further connections
// of the same admin start empty.
func (h *Hub) Register(adminID string) (chan presence.Event, func()) {
	f := h.getOrCreateFeed(adminID)

	ch := make(chan presence.Event, subscriberBuffer)

	f.mu.Lock()
	if len(f.conns) == 0 {
		for _, event := range f.history {
			ch <- event
		}
	}
	f.conns = append(f.conns, ch)
	f.mu.Unlock()

	cleanup := func() {
		h.Unregister(adminID, ch)
	}

	return ch, cleanup
}

// Unregister removes a connection and closes its channel. Unknown connections are
// ignored, so calling cleanup twice is safe.
func (h *Hub) Unregister(adminID string, ch chan presence.Event) {
	h.mu.RLock()
	f, ok := h.feeds[adminID]
	h.mu.RUnlock()
	if !ok {
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	for i, conn := range f.conns {
		if conn == ch {
			f.conns = append(f.conns[:i], f.conns[i+1:]...)
			close(conn)
			return
		}
	}
}

// Publish appends the event to the admin's recent history and hands it to the first
// connection able to accept it; remaining connections of the same admin are left
// alone. Stalled connections are skipped with a warning, and events with an unknown
// type are dropped outright. Publish never blocks and never returns an error.
func (h *Hub) Publish(adminID string, event presence.Event) {
	if !presence.KnownType(event.Type) {
		slog.Warn("Dropping presence event with unknown type",
			"type", event.Type,
			"admin_id", adminID,
			"event_id", event.ID)
		return
	}

	f := h.getOrCreateFeed(adminID)

	f.mu.Lock()
	defer f.mu.Unlock()

	f.history = append(f.history, event)
	if len(f.history) > historySize {
		f.history = f.history[len(f.history)-historySize:]
	}

	for _, ch := range f.conns {
		select {
		case ch <- event:
			return
		default:
			slog.Warn("Skipping stalled presence subscriber",
				"admin_id", adminID,
				"event_id", event.ID)
		}
	}
	// No connection took it; the history entry keeps it for replay.
}

// SubscriberCount returns the number of active connections for an admin
func (h *Hub) SubscriberCount(adminID string) int {
	h.mu.RLock()
	f, ok := h.feeds[adminID]
	h.mu.RUnlock()
	if !ok {
		return 0
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.conns)
}
