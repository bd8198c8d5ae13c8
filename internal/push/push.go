package push

import (
	"context"
	"sync"
)

// Event names delivered by the backend push channel.
const (
	EventOrderCreated   = "commande-creee"
	EventStatusChanged  = "statut-commande-change"
	EventOrderDelivered = "commande-livree"
)

// Event is one named push frame. Consumers only use it to trigger a
// re-fetch; no business logic reads beyond the message and the id.
type Event struct {
	Type       string `json:"type"`
	Message    string `json:"message"`
	CommandeID int64  `json:"commandeId"`
}

// Handler receives dispatched events.
type Handler func(Event)

// Channel is the push-event source the rest of the app subscribes to.
type Channel interface {
	Subscribe(fn Handler) (unsubscribe func())
	Run(ctx context.Context) error
}

// fanout is the shared subscriber registry used by the implementations.
type fanout struct {
	mu       sync.Mutex
	nextID   int
	handlers map[int]Handler
}

func newFanout() *fanout {
	return &fanout{handlers: make(map[int]Handler)}
}

func (f *fanout) subscribe(fn Handler) func() {
	f.mu.Lock()
	id := f.nextID
	f.nextID++
	f.handlers[id] = fn
	f.mu.Unlock()
	return func() {
		f.mu.Lock()
		delete(f.handlers, id)
		f.mu.Unlock()
	}
}

func (f *fanout) dispatch(ev Event) {
	f.mu.Lock()
	handlers := make([]Handler, 0, len(f.handlers))
	for _, fn := range f.handlers {
		handlers = append(handlers, fn)
	}
	f.mu.Unlock()
	for _, fn := range handlers {
		fn(ev)
	}
}
