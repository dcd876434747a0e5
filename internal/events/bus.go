package events

import (
	"sync"

	"github.com/wayfarerhq/wayfarer/internal/logger"
)

// Handler processes one event. Handlers should not panic; failures are
// surfaced via the returned error, logged by the bus, and never interrupt
// delivery to remaining subscribers.
type Handler func(Event) error

// Subscription represents a registered handler. Unsubscribe stops delivery.
type Subscription interface {
	Unsubscribe()
}

type subscription struct {
	bus      *Bus
	id       int
	evType   Type
	wildcard bool
}

func (s *subscription) Unsubscribe() {
	s.bus.remove(s)
}

type entry struct {
	id      int
	handler Handler
}

// Bus is an in-process observer registry keyed by event type. Publish is
// synchronous: it returns only after every matching handler has run, in
// the order the handlers were registered. The publisher never waits on
// work a handler spawns itself.
type Bus struct {
	mu       sync.Mutex
	nextID   int
	byType   map[Type][]entry
	wildcard []entry
	log      *logger.Logger
}

// NewBus creates an empty bus. log may be nil.
func NewBus(log *logger.Logger) *Bus {
	return &Bus{byType: make(map[Type][]entry), log: log}
}

// Subscribe registers handler for one event type.
func (b *Bus) Subscribe(evType Type, handler Handler) Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.nextID
	b.nextID++
	b.byType[evType] = append(b.byType[evType], entry{id: id, handler: handler})
	return &subscription{bus: b, id: id, evType: evType}
}

// SubscribeAll registers handler for every event type. Reporters use this
// to observe the whole stream through a single handler.
func (b *Bus) SubscribeAll(handler Handler) Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.nextID
	b.nextID++
	b.wildcard = append(b.wildcard, entry{id: id, handler: handler})
	return &subscription{bus: b, id: id, wildcard: true}
}

// Emit delivers the event to every matching handler, wildcard and typed
// alike, in the order the handlers were registered on the bus. Both entry
// lists are kept sorted by id, so a merge preserves global order.
func (b *Bus) Emit(ev Event) {
	b.mu.Lock()
	typed := b.byType[ev.Type]
	handlers := make([]entry, 0, len(b.wildcard)+len(typed))
	i, k := 0, 0
	for i < len(b.wildcard) && k < len(typed) {
		if b.wildcard[i].id < typed[k].id {
			handlers = append(handlers, b.wildcard[i])
			i++
		} else {
			handlers = append(handlers, typed[k])
			k++
		}
	}
	handlers = append(handlers, b.wildcard[i:]...)
	handlers = append(handlers, typed[k:]...)
	b.mu.Unlock()

	for _, e := range handlers {
		delivered := ev
		if c, ok := ev.Payload.(clonable); ok {
			delivered.Payload = c.clonePayload()
		}
		if err := e.handler(delivered); err != nil && b.log != nil {
			b.log.WithFields(map[string]any{"event": string(ev.Type)}).Error(err, "event handler failed")
		}
	}
}

func (b *Bus) remove(s *subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if s.wildcard {
		b.wildcard = removeEntry(b.wildcard, s.id)
		return
	}
	b.byType[s.evType] = removeEntry(b.byType[s.evType], s.id)
}

func removeEntry(entries []entry, id int) []entry {
	for i, e := range entries {
		if e.id == id {
			return append(entries[:i], entries[i+1:]...)
		}
	}
	return entries
}
