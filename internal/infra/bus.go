package infra

import "sync"

// EventType represents the type of event in the system
type EventType int

const (
	BatteryAdded EventType = iota
	SessionOpened
	SessionClosed
)

// String returns the string representation of the EventType
func (et EventType) String() string {
	switch et {
	case BatteryAdded:
		return "BatteryAdded"
	case SessionOpened:
		return "SessionOpened"
	case SessionClosed:
		return "SessionClosed"
	default:
		return "Unknown"
	}
}

type Event interface{ EventType() EventType }
type Handler func(Event)

// Bus delivers events synchronously, in subscription order, on the
// publisher's goroutine. Publish and Subscribe may be called concurrently.
type Bus struct {
	mu   sync.RWMutex
	subs map[EventType][]Handler
}

func NewBus() *Bus { return &Bus{subs: map[EventType][]Handler{}} }

func (b *Bus) Publish(e Event) {
	b.mu.RLock()
	handlers := b.subs[e.EventType()]
	b.mu.RUnlock()
	for _, h := range handlers {
		h(e)
	}
}

func (b *Bus) Subscribe(evt EventType, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs[evt] = append(b.subs[evt], h)
}
