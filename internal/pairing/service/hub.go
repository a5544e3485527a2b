package service

import (
	"sync"

	"github.com/leadisle/faceid/internal/pairing/domain"
)

// subscriberBuffer is the per-subscriber event queue depth. A subscriber
// that falls this far behind starts dropping events; the session record is
// the source of truth and the PC polls it as a fallback.
const subscriberBuffer = 8

// Subscriber is one real-time listener on a session channel. Events arrive
// on Events() until Unsubscribe closes it.
type Subscriber struct {
	channel string
	events  chan domain.SessionEvent
}

// Events returns the subscriber's receive channel.
func (s *Subscriber) Events() <-chan domain.SessionEvent {
	return s.events
}

// Hub fans session state-change events out to every subscriber of the
// session's channel. Delivery is best effort and at most once per subscriber
// per publish; a slow or gone subscriber silently drops the event.
type Hub struct {
	mu   sync.RWMutex
	subs map[string]map[*Subscriber]struct{}
}

func NewHub() *Hub {
	return &Hub{subs: make(map[string]map[*Subscriber]struct{})}
}

// Subscribe registers a new listener on the given channel id.
func (h *Hub) Subscribe(channelID string) *Subscriber {
	sub := &Subscriber{
		channel: channelID,
		events:  make(chan domain.SessionEvent, subscriberBuffer),
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	set, ok := h.subs[channelID]
	if !ok {
		set = make(map[*Subscriber]struct{})
		h.subs[channelID] = set
	}
	set[sub] = struct{}{}
	return sub
}

// Unsubscribe removes the listener and closes its event channel. The channel
// entry is garbage-collected when the last subscriber leaves.
func (h *Hub) Unsubscribe(sub *Subscriber) {
	if sub == nil {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	set, ok := h.subs[sub.channel]
	if !ok {
		return
	}
	if _, ok := set[sub]; !ok {
		return
	}

	delete(set, sub)
	if len(set) == 0 {
		delete(h.subs, sub.channel)
	}
	close(sub.events)
}

// Publish delivers ev to every current subscriber of channelID. The send
// never blocks the caller; a full subscriber buffer drops the event.
func (h *Hub) Publish(channelID string, ev domain.SessionEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for sub := range h.subs[channelID] {
		select {
		case sub.events <- ev:
		default:
		}
	}
}

// SubscriberCount reports the current number of listeners on a channel.
func (h *Hub) SubscriberCount(channelID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[channelID])
}
