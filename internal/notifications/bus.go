package notifications

import (
	"sync"

	"github.com/sisuapp/sisu/internal/domain/audit"
)

type Kind string

const (
	KindUserCreated  Kind = "user.created"
	KindUserUpdated  Kind = "user.updated"
	KindUserLoggedIn Kind = "user.logged_in"
)

// Event describes one account-level occurrence. Changes is only set for
// KindUserUpdated and carries the change set the update produced.
type Event struct {
	Kind    Kind
	Email   string
	At      int64 // epoch milliseconds
	Changes audit.ChangeSet
}

// Bus is an in-process observer registry, owned by the composition root.
// Subscribe hands back a disposer func instead of an index, so unsubscribing
// is safe no matter how many subscribers came and went in between.
type Bus struct {
	mu   sync.RWMutex
	next int
	subs map[int]func(Event)
}

func NewBus() *Bus {
	return &Bus{subs: make(map[int]func(Event))}
}

func (b *Bus) Subscribe(fn func(Event)) (unsubscribe func()) {
	b.mu.Lock()
	id := b.next
	b.next++
	b.subs[id] = fn
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		delete(b.subs, id)
		b.mu.Unlock()
	}
}

// Publish delivers the event to every current subscriber, synchronously and
// in no particular order.
func (b *Bus) Publish(ev Event) {
	b.mu.RLock()
	fns := make([]func(Event), 0, len(b.subs))

	for _, fn := range b.subs {
		fns = append(fns, fn)
	}
	b.mu.RUnlock()

	for _, fn := range fns {
		fn(ev)
	}
}
