// Package hub is the in-process event sink: publishers never block, slow
// subscribers lose events rather than stalling the tick loop.
package hub

import (
	"sync"
	"sync/atomic"

	"agentarium/internal/app/ports"
)

const subscriberBuffer = 100

type Hub struct {
	mu      sync.RWMutex
	subs    map[int]chan ports.Event
	nextID  int
	closed  bool
	dropped atomic.Uint64
}

func New() *Hub {
	return &Hub{subs: map[int]chan ports.Event{}}
}

// Publish fans the event out to every subscriber. A subscriber with a full
// buffer is skipped and the drop counted.
func (h *Hub) Publish(evt ports.Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.closed {
		return
	}
	for _, ch := range h.subs {
		select {
		case ch <- evt:
		default:
			h.dropped.Add(1)
		}
	}
}

// Subscribe registers a new consumer. The returned cancel func must be
// called to release the subscription; the channel closes afterwards.
func (h *Hub) Subscribe() (<-chan ports.Event, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	id := h.nextID
	h.nextID++
	ch := make(chan ports.Event, subscriberBuffer)
	if h.closed {
		close(ch)
		return ch, func() {}
	}
	h.subs[id] = ch

	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if sub, ok := h.subs[id]; ok {
			delete(h.subs, id)
			close(sub)
		}
	}
	return ch, cancel
}

// Dropped reports how many events were lost to full subscriber buffers.
func (h *Hub) Dropped() uint64 {
	return h.dropped.Load()
}

func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for id, ch := range h.subs {
		delete(h.subs, id)
		close(ch)
	}
}
