package service

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/leadisle/faceid/internal/pairing/domain"
)

func TestHubDeliversToChannelSubscribers(t *testing.T) {
	t.Parallel()

	hub := NewHub()
	a := hub.Subscribe("session-a")
	b := hub.Subscribe("session-a")
	other := hub.Subscribe("session-b")

	ev := domain.SessionEvent{SessionID: "session-a", Status: domain.SessionScanned, Username: "alice"}
	hub.Publish("session-a", ev)

	require.Equal(t, ev, <-a.Events())
	require.Equal(t, ev, <-b.Events())

	select {
	case got := <-other.Events():
		t.Fatalf("subscriber on another channel received %+v", got)
	default:
	}
}

func TestHubPublishToEmptyChannelIsNoop(t *testing.T) {
	t.Parallel()

	hub := NewHub()
	hub.Publish("nobody-listening", domain.SessionEvent{SessionID: "nobody-listening"})
	require.Equal(t, 0, hub.SubscriberCount("nobody-listening"))
}

func TestHubDropsEventsForSlowSubscribers(t *testing.T) {
	t.Parallel()

	hub := NewHub()
	sub := hub.Subscribe("busy")

	// Overfill the buffer; the extra publishes must not block.
	for i := 0; i < subscriberBuffer*2; i++ {
		hub.Publish("busy", domain.SessionEvent{SessionID: "busy", Status: domain.SessionScanned})
	}

	received := 0
	for {
		select {
		case <-sub.Events():
			received++
			continue
		default:
		}
		break
	}
	require.Equal(t, subscriberBuffer, received)
}

func TestHubUnsubscribeClosesAndCollects(t *testing.T) {
	t.Parallel()

	hub := NewHub()
	a := hub.Subscribe("chan")
	b := hub.Subscribe("chan")
	require.Equal(t, 2, hub.SubscriberCount("chan"))

	hub.Unsubscribe(a)
	require.Equal(t, 1, hub.SubscriberCount("chan"))

	_, open := <-a.Events()
	require.False(t, open, "events channel should be closed after unsubscribe")

	// Double unsubscribe must be safe.
	hub.Unsubscribe(a)
	require.Equal(t, 1, hub.SubscriberCount("chan"))

	hub.Unsubscribe(b)
	require.Equal(t, 0, hub.SubscriberCount("chan"))

	// Publishing after everyone left must not panic.
	hub.Publish("chan", domain.SessionEvent{SessionID: "chan"})
}

func TestHubUnsubscribeNil(t *testing.T) {
	t.Parallel()

	hub := NewHub()
	hub.Unsubscribe(nil)
}
