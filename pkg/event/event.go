// Package event is a small in-process publish/subscribe bus. The store
// fires on it after every committed dispatch; the websocket hub and the
// CLI's verbose log listen.
package event

import "sync"

// Handler receives an event payload.
type Handler func(payload any)

type listener struct {
	id uint64
	h  Handler
}

// Bus maps event names to listeners. The zero value is not usable; call New.
type Bus struct {
	mu       sync.RWMutex
	nextID   uint64
	handlers map[string][]listener
}

func New() *Bus {
	return &Bus{handlers: map[string][]listener{}}
}

// Listen registers h for name and returns a function that removes it.
func (b *Bus) Listen(name string, h Handler) (unsubscribe func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.handlers[name] = append(b.handlers[name], listener{id: id, h: h})

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		hs := b.handlers[name]
		for i, l := range hs {
			if l.id == id {
				b.handlers[name] = append(hs[:i:i], hs[i+1:]...)
				return
			}
		}
	}
}

func (b *Bus) snapshot(name string) []Handler {
	b.mu.RLock()
	defer b.mu.RUnlock()
	hs := make([]Handler, len(b.handlers[name]))
	for i, l := range b.handlers[name] {
		hs[i] = l.h
	}
	return hs
}

// Fire calls every listener for name synchronously, in registration order.
func (b *Bus) Fire(name string, payload any) {
	for _, h := range b.snapshot(name) {
		h(payload)
	}
}

// FireAsync calls each listener on its own goroutine and returns at once.
func (b *Bus) FireAsync(name string, payload any) {
	for _, h := range b.snapshot(name) {
		go h(payload)
	}
}

// Flush removes all listeners.
func (b *Bus) Flush() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = map[string][]listener{}
}
