package events

import (
	"context"
	"sync"

	log "github.com/sirupsen/logrus"
)

// EventType identifies the kind of event flowing through the bus.
type EventType string

const (
	EventTypeBalanceChange EventType = "balance_change"
	EventTypeUserCreated   EventType = "user_created"
	EventTypeRaffleEnded   EventType = "raffle_ended"
	EventTypeTaxReset      EventType = "tax_reset"
	EventTypeSettingsSaved EventType = "settings_saved"
)

// Event is the base interface for all events.
type Event interface {
	Type() EventType
}

// BalanceChangeEvent is published after any committed wallet mutation.
type BalanceChangeEvent struct {
	DiscordID  int64
	GuildID    int64
	Amount     int64
	NewBalance int64
	Reason     string
}

func (e BalanceChangeEvent) Type() EventType { return EventTypeBalanceChange }

// UserCreatedEvent is published when a user row is lazily created.
type UserCreatedEvent struct {
	DiscordID int64
	Username  string
}

func (e UserCreatedEvent) Type() EventType { return EventTypeUserCreated }

// RaffleEndedEvent signals the announcement collaborator that a draw
// completed and winners should be posted.
type RaffleEndedEvent struct {
	RaffleID  int64
	GuildID   int64
	ChannelID int64
	Title     string
	WinnerIDs []int64
}

func (e RaffleEndedEvent) Type() EventType { return EventTypeRaffleEnded }

// TaxResetEvent is published when a clan's contribution period is zeroed.
type TaxResetEvent struct {
	ClanRoleID int64
	GuildID    int64
}

func (e TaxResetEvent) Type() EventType { return EventTypeTaxReset }

// SettingsSavedEvent is published after guild settings change so caches
// can invalidate.
type SettingsSavedEvent struct {
	GuildID int64
}

func (e SettingsSavedEvent) Type() EventType { return EventTypeSettingsSaved }

// Handler is a function that handles events.
type Handler func(ctx context.Context, event Event)

// Bus manages event subscriptions and dispatching.
type Bus struct {
	mu       sync.RWMutex
	handlers map[EventType][]Handler
}

// NewBus creates a new event bus.
func NewBus() *Bus {
	return &Bus{handlers: make(map[EventType][]Handler)}
}

// Subscribe adds a handler for a specific event type.
func (b *Bus) Subscribe(eventType EventType, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[eventType] = append(b.handlers[eventType], handler)
}

// Emit publishes an event to all registered handlers. Handlers run
// asynchronously so a slow announcer never blocks a commit path.
func (b *Bus) Emit(ctx context.Context, event Event) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers[event.Type()]))
	copy(handlers, b.handlers[event.Type()])
	b.mu.RUnlock()

	for _, handler := range handlers {
		go func(h Handler) {
			defer func() {
				if r := recover(); r != nil {
					log.WithFields(log.Fields{
						"eventType": event.Type(),
						"panic":     r,
					}).Error("Event handler panicked")
				}
			}()
			h(ctx, event)
		}(handler)
	}
}

// TransactionalBus stashes events published during a unit of work and
// flushes them to the real bus only after the database commit succeeds.
type TransactionalBus struct {
	real    *Bus
	pending []Event
}

// NewTransactionalBus wraps a bus for use inside one unit of work.
func NewTransactionalBus(real *Bus) *TransactionalBus {
	return &TransactionalBus{real: real}
}

// Publish queues an event until Flush.
func (b *TransactionalBus) Publish(e Event) {
	b.pending = append(b.pending, e)
}

// Flush emits all pending events. Called after a successful commit.
func (b *TransactionalBus) Flush(ctx context.Context) {
	for _, e := range b.pending {
		b.real.Emit(ctx, e)
	}
	b.pending = nil
}

// Discard drops pending events. Called on rollback.
func (b *TransactionalBus) Discard() {
	b.pending = nil
}
