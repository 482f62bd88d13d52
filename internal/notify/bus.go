package notify

import (
	"log/slog"
	"sync"
	"time"
)

// Notification describes a completed board mutation. While it stays
// pending, the mutation it describes can be reversed exactly once
// through the protocol that issued it.
type Notification struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// Bus fans notifications out to subscribers. Publishing never
// blocks; a subscriber that falls behind loses notifications.
type Bus struct {
	mu    sync.Mutex
	subs  map[chan Notification]struct{}
	depth int
}

// NewBus constructs a Bus.
func NewBus() *Bus {
	return &Bus{
		subs:  make(map[chan Notification]struct{}),
		depth: 16,
	}
}

// Subscribe registers a subscriber and returns its channel plus a
// cancel function that must be called to release it. The channel is
// never closed: publishes may race with cancellation, and a send on
// a closed channel would panic. Delivery simply stops after cancel;
// readers are expected to select on their own done signal.
func (b *Bus) Subscribe() (<-chan Notification, func()) {
	ch := make(chan Notification, b.depth)
	b.mu.Lock()
	b.subs[ch] = struct{}{}
	count := len(b.subs)
	b.mu.Unlock()
	slog.Debug("notification bus subscribe", "subs", count)

	return ch, func() {
		b.mu.Lock()
		delete(b.subs, ch)
		b.mu.Unlock()
		slog.Debug("notification bus unsubscribe")
	}
}

// Publish delivers a notification to every subscriber.
func (b *Bus) Publish(n Notification) {
	b.mu.Lock()
	subs := make([]chan Notification, 0, len(b.subs))
	for sub := range b.subs {
		subs = append(subs, sub)
	}
	b.mu.Unlock()

	dropped := 0
	for _, sub := range subs {
		select {
		case sub <- n:
		default:
			dropped++
		}
	}
	if dropped > 0 {
		slog.Warn("notification bus dropped", "count", dropped, "id", n.ID)
	}
}
