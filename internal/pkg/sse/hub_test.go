package sse

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmlabs-hris/presensi-backend-go/internal/domain/presence"
)

func testEvent(i int) presence.Event {
	return presence.Event{
		ID:        fmt.Sprintf("event-%03d", i),
		Type:      presence.TypeLocationUpdate,
		Message:   fmt.Sprintf("update %d", i),
		Employee:  presence.Employee{ID: "emp-1", Name: "Budi", Email: "budi@example.com"},
		Timestamp: time.Now().UTC(),
	}
}

func drain(ch chan presence.Event) []presence.Event {
	var got []presence.Event
	for {
		select {
		case event, ok := <-ch:
			if !ok {
				return got
			}
			got = append(got, event)
		default:
			return got
		}
	}
}

func TestHubReplaysHistoryToFirstConnection(t *testing.T) {
	hub := NewHub()

	for i := 1; i <= 3; i++ {
		hub.Publish("admin-1", testEvent(i))
	}

	ch, cleanup := hub.Register("admin-1")
	defer cleanup()

	got := drain(ch)
	require.Len(t, got, 3)
	assert.Equal(t, "event-001", got[0].ID)
	assert.Equal(t, "event-002", got[1].ID)
	assert.Equal(t, "event-003", got[2].ID)
}

func TestHubHistoryKeepsOnlyRecentEvents(t *testing.T) {
	hub := NewHub()

	for i := 1; i <= 6; i++ {
		hub.Publish("admin-1", testEvent(i))
	}

	ch, cleanup := hub.Register("admin-1")
	defer cleanup()

	got := drain(ch)
	require.Len(t, got, historySize)
	assert.Equal(t, "event-002", got[0].ID, "oldest event should have been evicted")
	assert.Equal(t, "event-006", got[len(got)-1].ID)
}

func TestHubSecondConnectionGetsNoReplay(t *testing.T) {
	hub := NewHub()

	hub.Publish("admin-1", testEvent(1))
	hub.Publish("admin-1", testEvent(2))

	first, cleanupFirst := hub.Register("admin-1")
	defer cleanupFirst()
	require.Len(t, drain(first), 2)

	second, cleanupSecond := hub.Register("admin-1")
	defer cleanupSecond()
	assert.Empty(t, drain(second), "replay is only for the first connection of an idle feed")
}

func TestHubDeliversToExactlyOneConnection(t *testing.T) {
	hub := NewHub()

	first, cleanupFirst := hub.Register("admin-1")
	defer cleanupFirst()
	second, cleanupSecond := hub.Register("admin-1")
	defer cleanupSecond()

	hub.Publish("admin-1", testEvent(1))

	assert.Len(t, drain(first), 1)
	assert.Empty(t, drain(second))
}

func TestHubSkipsStalledConnection(t *testing.T) {
	hub := NewHub()

	stalled, cleanupStalled := hub.Register("admin-1")
	defer cleanupStalled()
	healthy, cleanupHealthy := hub.Register("admin-1")
	defer cleanupHealthy()

	// Fill the first connection's buffer without draining it.
	for i := 1; i <= subscriberBuffer; i++ {
		hub.Publish("admin-1", testEvent(i))
	}
	hub.Publish("admin-1", testEvent(subscriberBuffer+1))

	got := drain(healthy)
	require.Len(t, got, 1, "overflow event should fall through to the next connection")
	assert.Equal(t, fmt.Sprintf("event-%03d", subscriberBuffer+1), got[0].ID)
	assert.Len(t, drain(stalled), subscriberBuffer)
}

func TestHubDropsUnknownEventType(t *testing.T) {
	hub := NewHub()

	event := testEvent(1)
	event.Type = "reboot"
	hub.Publish("admin-1", event)

	ch, cleanup := hub.Register("admin-1")
	defer cleanup()
	assert.Empty(t, drain(ch), "unknown event types must not reach history or subscribers")
}

func TestHubFeedsAreIndependent(t *testing.T) {
	hub := NewHub()

	hub.Publish("admin-1", testEvent(1))

	ch, cleanup := hub.Register("admin-2")
	defer cleanup()
	assert.Empty(t, drain(ch))
}

func TestHubUnregisterClosesChannel(t *testing.T) {
	hub := NewHub()

	ch, cleanup := hub.Register("admin-1")
	require.Equal(t, 1, hub.SubscriberCount("admin-1"))

	cleanup()
	assert.Equal(t, 0, hub.SubscriberCount("admin-1"))

	_, open := <-ch
	assert.False(t, open, "cleanup should close the channel")

	// A second cleanup must not panic.
	cleanup()
}

func TestHubHistorySurvivesDisconnect(t *testing.T) {
	hub := NewHub()

	ch, cleanup := hub.Register("admin-1")
	hub.Publish("admin-1", testEvent(1))
	require.Len(t, drain(ch), 1)
	cleanup()

	hub.Publish("admin-1", testEvent(2))

	reconnected, cleanupReconnected := hub.Register("admin-1")
	defer cleanupReconnected()

	got := drain(reconnected)
	require.Len(t, got, 2, "events published while disconnected should replay alongside older history")
	assert.Equal(t, "event-001", got[0].ID)
	assert.Equal(t, "event-002", got[1].ID)
}
