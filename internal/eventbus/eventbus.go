package eventbus

import (
	"runtime/debug"
	"sync"

	"github.com/rs/zerolog"

	"facetgrip/internal/domain"
)

// Re-export domain types for convenience
type DomainEvent = domain.DomainEvent
type EventType = domain.EventType

// Event type constants
const (
	EventResultPublished      = domain.EventResultPublished
	EventItemsChanged         = domain.EventItemsChanged
	EventFilterReset          = domain.EventFilterReset
	EventCollectionReconciled = domain.EventCollectionReconciled
	EventError                = domain.EventError
)

// Re-export domain event types
type ResultPublishedEvent = domain.ResultPublishedEvent
type ItemsChangedEvent = domain.ItemsChangedEvent
type FilterResetEvent = domain.FilterResetEvent
type CollectionReconciledEvent = domain.CollectionReconciledEvent
type ErrorEvent = domain.ErrorEvent

const defaultBufferSize = 1000

// EventHandler is a function that handles domain events
type EventHandler func(DomainEvent)

// EventBus is the interface for the event bus
type EventBus interface {
	Publish(event DomainEvent)
	Subscribe(eventType EventType, handler EventHandler) func()
	Close()
}

type subscription struct {
	id      uint64
	handler EventHandler
}

// bus is the concrete implementation of EventBus. A single dispatcher
// goroutine delivers events in publication order. Events are never dropped:
// once the channel is full they queue in overflow until the dispatcher
// catches up.
type bus struct {
	mu        sync.RWMutex
	handlers  map[EventType][]subscription
	nextID    uint64
	eventChan chan DomainEvent

	overflowMu sync.Mutex
	overflow   []DomainEvent
	wake       chan struct{}

	wg        sync.WaitGroup
	quit      chan struct{}
	closeOnce sync.Once
	closed    bool
	logger    zerolog.Logger
}

// Option configures the bus
type Option func(*bus)

// WithLogger sets the logger used for dispatch diagnostics
func WithLogger(logger zerolog.Logger) Option {
	return func(b *bus) { b.logger = logger }
}

// WithBufferSize sets the capacity of the pending event queue
func WithBufferSize(size int) Option {
	return func(b *bus) {
		if size > 0 {
			b.eventChan = make(chan DomainEvent, size)
		}
	}
}

// New creates a new event bus
func New(opts ...Option) EventBus {
	b := &bus{
		handlers:  make(map[EventType][]subscription),
		eventChan: make(chan DomainEvent, defaultBufferSize),
		quit:      make(chan struct{}),
		wake:      make(chan struct{}, 1),
		logger:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(b)
	}

	b.wg.Add(1)
	go b.dispatch()

	return b
}

// Publish queues an event for all subscribers without blocking. Once the
// channel is full events wait in an overflow queue, so nothing published
// before Close is lost.
func (b *bus) Publish(event DomainEvent) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return
	}

	if event.Type() != EventResultPublished {
		b.logger.Debug().Str("event", string(event.Type())).Msg("publishing event")
	}

	b.overflowMu.Lock()
	if len(b.overflow) == 0 {
		select {
		case b.eventChan <- event:
			b.overflowMu.Unlock()
			return
		default:
			b.logger.Warn().Str("event", string(event.Type())).Msg("event bus channel full, queueing in overflow")
		}
	}
	// Later events join the overflow too so order is kept
	b.overflow = append(b.overflow, event)
	b.overflowMu.Unlock()

	select {
	case b.wake <- struct{}{}:
	default:
	}
}

// Subscribe subscribes to events of a specific type.
// Returns an unsubscribe function
func (b *bus) Subscribe(eventType EventType, handler EventHandler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.handlers[eventType] = append(b.handlers[eventType], subscription{id: id, handler: handler})

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()

		subs := b.handlers[eventType]
		for i, s := range subs {
			if s.id == id {
				b.handlers[eventType] = append(subs[:i:i], subs[i+1:]...)
				break
			}
		}
	}
}

// Close stops the dispatcher. Events still queued are delivered first.
func (b *bus) Close() {
	b.closeOnce.Do(func() {
		b.mu.Lock()
		b.closed = true
		b.mu.Unlock()
		close(b.quit)
		b.wg.Wait()
	})
}

func (b *bus) dispatch() {
	defer b.wg.Done()

	for {
		select {
		case event := <-b.eventChan:
			b.deliver(event)
			b.drainOverflow()
		case <-b.wake:
			b.drainOverflow()
		case <-b.quit:
			for {
				select {
				case event := <-b.eventChan:
					b.deliver(event)
				default:
					if !b.drainOverflow() {
						return
					}
				}
			}
		}
	}
}

// drainOverflow delivers queued overflow events once the channel is empty.
// It reports whether anything was delivered.
func (b *bus) drainOverflow() bool {
	b.overflowMu.Lock()
	if len(b.eventChan) > 0 || len(b.overflow) == 0 {
		b.overflowMu.Unlock()
		return false
	}
	batch := b.overflow
	b.overflow = nil
	b.overflowMu.Unlock()

	for _, event := range batch {
		b.deliver(event)
	}
	return true
}

func (b *bus) deliver(event DomainEvent) {
	b.mu.RLock()
	subs := b.handlers[event.Type()]
	// Copy so handlers can (un)subscribe without deadlocking
	handlersCopy := make([]EventHandler, len(subs))
	for i, s := range subs {
		handlersCopy[i] = s.handler
	}
	b.mu.RUnlock()

	for _, handler := range handlersCopy {
		b.call(handler, event)
	}
}

func (b *bus) call(handler EventHandler, event DomainEvent) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error().
				Str("event", string(event.Type())).
				Interface("panic", r).
				Bytes("stack", debug.Stack()).
				Msg("event handler panic")
		}
	}()
	handler(event)
}
