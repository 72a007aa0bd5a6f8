// Package session fans out session lifecycle events to per-user observers.
package session

import (
	"sync"
	"time"
)

type EventKind string

const (
	SignedIn  EventKind = "signed_in"
	Refreshed EventKind = "token_refreshed"
	SignedOut EventKind = "signed_out"
)

type Event struct {
	Kind   EventKind `json:"event"`
	UserID string    `json:"user_id"`
	At     time.Time `json:"at"`
}

// Bus delivers events synchronously to the observers registered for the
// event's user. Observers must not block.
type Bus struct {
	mu     sync.RWMutex
	nextID uint64
	subs   map[string]map[uint64]func(Event)
}

func NewBus() *Bus {
	return &Bus{subs: make(map[string]map[uint64]func(Event))}
}

// Subscribe registers fn for userID's events. The returned function removes
// the subscription and is safe to call more than once.
func (b *Bus) Subscribe(userID string, fn func(Event)) (unsubscribe func()) {
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	if b.subs[userID] == nil {
		b.subs[userID] = make(map[uint64]func(Event))
	}
	b.subs[userID][id] = fn
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.subs[userID], id)
			if len(b.subs[userID]) == 0 {
				delete(b.subs, userID)
			}
		})
	}
}

func (b *Bus) Publish(e Event) {
	b.mu.RLock()
	observers := make([]func(Event), 0, len(b.subs[e.UserID]))
	for _, fn := range b.subs[e.UserID] {
		observers = append(observers, fn)
	}
	b.mu.RUnlock()

	for _, fn := range observers {
		fn(e)
	}
}

// Subscribers reports how many observers userID currently has.
func (b *Bus) Subscribers(userID string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[userID])
}
