package events

import (
	"sync"
	"time"

	"github.com/idflores/twitch-irc/internal/logger"
)

// EventSource represents the source of an event
type EventSource string

const (
	EventSourceClient    EventSource = "client"
	EventSourceTransport EventSource = "transport"
)

// Event represents a generic event
type Event struct {
	Type      string
	Data      map[string]interface{}
	Timestamp time.Time
	Source    EventSource
}

// Subscriber is an interface for event subscribers
type Subscriber interface {
	OnEvent(event Event)
}

// SubscriberFunc adapts a plain function to the Subscriber interface.
type SubscriberFunc func(event Event)

func (f SubscriberFunc) OnEvent(event Event) { f(event) }

// EventBus manages event routing. Delivery is synchronous and in
// registration order, so subscribers observe events in the exact order
// they were emitted.
type EventBus struct {
	subscribers map[string][]Subscriber
	mu          sync.RWMutex
}

// NewEventBus creates a new event bus
func NewEventBus() *EventBus {
	return &EventBus{
		subscribers: make(map[string][]Subscriber),
	}
}

// Subscribe subscribes a subscriber to a specific event type. The type
// "*" receives every event.
func (eb *EventBus) Subscribe(eventType string, subscriber Subscriber) {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	eb.subscribers[eventType] = append(eb.subscribers[eventType], subscriber)
}

// Unsubscribe removes a subscriber from an event type. The subscriber
// must be a comparable value (func values are not; register a pointer
// type when removal is needed).
func (eb *EventBus) Unsubscribe(eventType string, subscriber Subscriber) {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	subs := eb.subscribers[eventType]
	for i, sub := range subs {
		if sub == subscriber {
			eb.subscribers[eventType] = append(subs[:i], subs[i+1:]...)
			break
		}
	}
}

// Emit delivers an event to the type's subscribers, then to wildcard
// subscribers. A panicking subscriber is isolated: the remaining
// subscribers still receive the event and the emitting loop continues.
func (eb *EventBus) Emit(event Event) {
	eb.mu.RLock()
	subs := make([]Subscriber, len(eb.subscribers[event.Type]))
	copy(subs, eb.subscribers[event.Type])
	wildcardSubs := make([]Subscriber, len(eb.subscribers["*"]))
	copy(wildcardSubs, eb.subscribers["*"])
	eb.mu.RUnlock()

	for _, sub := range subs {
		deliver(sub, event)
	}
	for _, sub := range wildcardSubs {
		deliver(sub, event)
	}
}

func deliver(sub Subscriber, event Event) {
	defer func() {
		if r := recover(); r != nil {
			logger.Log.Error().
				Str("event_type", event.Type).
				Interface("panic", r).
				Msg("Subscriber panicked; continuing delivery")
		}
	}()
	sub.OnEvent(event)
}
