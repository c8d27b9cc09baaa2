package events

import "sync"

// subscriberBuffer is how many events a subscriber may fall behind
// before Publish starts dropping for it. A scrape run emits at most a
// few events per second, so a small buffer covers normal jitter.
const subscriberBuffer = 16

// Hub fans serialized events out to SSE subscribers. Delivery is best
// effort: a subscriber that stops draining loses events instead of
// stalling the publisher.
type Hub struct {
	mu   sync.Mutex
	subs map[chan string]struct{}
}

func NewHub() *Hub {
	return &Hub{subs: make(map[chan string]struct{})}
}

// Subscribe registers a new subscriber and returns its channel. The
// caller must Unsubscribe when done or the channel leaks.
func (h *Hub) Subscribe() chan string {
	ch := make(chan string, subscriberBuffer)
	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()
	return ch
}

// Unsubscribe removes the subscriber and closes its channel. Calling
// it twice with the same channel is a no-op.
func (h *Hub) Unsubscribe(ch chan string) {
	h.mu.Lock()
	if _, ok := h.subs[ch]; ok {
		delete(h.subs, ch)
		close(ch)
	}
	h.mu.Unlock()
}

// Publish delivers evt to every subscriber with buffer room left.
func (h *Hub) Publish(evt string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs {
		select {
		case ch <- evt:
		default:
		}
	}
}
