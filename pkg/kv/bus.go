package kv

import (
	"context"
	"sync"
)

const subscriberBuffer = 8

// Bus is the in-process Watcher. Delivery is best-effort: a subscriber that
// stops draining its channel misses events instead of blocking writers.
type Bus struct {
	mu   sync.Mutex
	subs map[string][]chan Event
}

// NewBus builds an empty in-process event bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[string][]chan Event)}
}

// Notify fans the change out to every subscriber of key.
func (b *Bus) Notify(_ context.Context, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.subs[key] {
		select {
		case ch <- Event{Key: key}:
		default:
		}
	}
	return nil
}

// Subscribe registers a listener for key. The returned cancel func must be
// called to release the channel.
func (b *Bus) Subscribe(key string) (<-chan Event, func()) {
	ch := make(chan Event, subscriberBuffer)

	b.mu.Lock()
	b.subs[key] = append(b.subs[key], ch)
	b.mu.Unlock()

	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		listeners := b.subs[key]
		for i, candidate := range listeners {
			if candidate == ch {
				b.subs[key] = append(listeners[:i], listeners[i+1:]...)
				close(ch)
				return
			}
		}
	}
	return ch, cancel
}
