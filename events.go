package jgnash

import "sync"

// EventType names a domain event posted by the engine after a successful
// mutation.
type EventType string

const (
	EventAccountAdded       EventType = "account.added"
	EventAccountModified    EventType = "account.modified"
	EventAccountRemoved     EventType = "account.removed"
	EventTransactionAdded   EventType = "transaction.added"
	EventTransactionRemoved EventType = "transaction.removed"
	EventBudgetAdded        EventType = "budget.added"
	EventBudgetUpdated      EventType = "budget.updated"
	EventBudgetRemoved      EventType = "budget.removed"
	EventExchangeRateAdded  EventType = "exchangerate.added"
)

// Event carries the event type and the identifier of the affected entity.
type Event struct {
	Type     EventType
	EntityID string
}

// MessageBus fans out domain events to registered listeners. Posting is
// fire-and-forget: delivery and ordering toward listeners are external
// concerns, the engine never waits on a listener.
type MessageBus struct {
	mu        sync.RWMutex
	listeners []func(Event)
}

// NewMessageBus returns an empty bus.
func NewMessageBus() *MessageBus { return &MessageBus{} }

// Subscribe registers a listener for all events.
func (b *MessageBus) Subscribe(fn func(Event)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.listeners = append(b.listeners, fn)
}

// Post delivers the event to every listener on its own goroutine.
func (b *MessageBus) Post(e Event) {
	if b == nil {
		return
	}
	b.mu.RLock()
	listeners := b.listeners
	b.mu.RUnlock()
	for _, fn := range listeners {
		go fn(e)
	}
}
