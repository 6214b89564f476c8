// Package signal wakes waiters when a dispatch attempt is resolved.
package signal

import (
	"context"
	"sync"
)

// Notifier announces that an attempt changed status.
type Notifier interface {
	Notify(ctx context.Context, attemptID string) error
}

// Hub fans notifications out to in-process subscribers.
type Hub struct {
	mu   sync.Mutex
	subs map[string]map[chan struct{}]struct{}
}

// NewHub returns an empty hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[string]map[chan struct{}]struct{})}
}

// Subscribe returns a channel that receives a value after each Notify for attemptID.
// Wakeups coalesce: a subscriber that has not drained sees one pending value.
// The returned func must be called to release the subscription.
func (h *Hub) Subscribe(attemptID string) (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)

	h.mu.Lock()
	set, ok := h.subs[attemptID]
	if !ok {
		set = make(map[chan struct{}]struct{})
		h.subs[attemptID] = set
	}
	set[ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.subs[attemptID], ch)
			if len(h.subs[attemptID]) == 0 {
				delete(h.subs, attemptID)
			}
		})
	}
}

// Notify wakes every subscriber of attemptID without blocking.
func (h *Hub) Notify(_ context.Context, attemptID string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs[attemptID] {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
	return nil
}

// Subscribers returns the number of live subscriptions for attemptID.
func (h *Hub) Subscribers(attemptID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs[attemptID])
}

// Fanout notifies every wrapped notifier and returns the first error.
type Fanout []Notifier

// Notify calls each notifier in order.
func (f Fanout) Notify(ctx context.Context, attemptID string) error {
	var first error
	for _, n := range f {
		if err := n.Notify(ctx, attemptID); err != nil && first == nil {
			first = err
		}
	}
	return first
}
