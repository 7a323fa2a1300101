// Package collection keeps the authoritative view of the item set under
// management and detects when it has gone stale.
//
// Two triggers are supported and may be combined: a push notification from the
// host renderer (Notify) and a periodic reconciliation poll comparing the
// current cardinality with the last one observed (Start / Reconcile).
package collection

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"facetgrip/internal/domain"
)

// DefaultReconcileInterval is the poll period used when none is configured
const DefaultReconcileInterval = time.Second

// Provider enumerates the current members of the host collection
type Provider interface {
	Items() []domain.Item
}

// Counter is implemented by providers that can report their cardinality
// without building the full item list
type Counter interface {
	Count() int
}

// Reason tells a change handler which trigger fired
type Reason string

const (
	ReasonPushed     Reason = "pushed"
	ReasonReconciled Reason = "reconciled"
)

// Change describes a detected collection change
type Change struct {
	Reason        Reason
	PreviousCount int
	CurrentCount  int
}

// ChangeHandler is invoked whenever a trigger reports the collection changed
type ChangeHandler func(Change)

// Sync owns the live list of items under management
type Sync struct {
	provider Provider
	onChange ChangeHandler
	logger   zerolog.Logger

	mu        sync.Mutex
	lastCount int
	seen      bool // lastCount holds an observation
	cancel    context.CancelFunc
	done      chan struct{}
}

// Option configures a Sync
type Option func(*Sync)

// WithLogger sets the logger
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Sync) { s.logger = logger }
}

// WithChangeHandler sets the callback fired by both triggers
func WithChangeHandler(handler ChangeHandler) Option {
	return func(s *Sync) { s.onChange = handler }
}

// New creates a Sync over provider
func New(provider Provider, opts ...Option) *Sync {
	s := &Sync{
		provider: provider,
		logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Snapshot re-enumerates the host collection. The returned slice is a
// point-in-time copy owned by the caller.
func (s *Sync) Snapshot() []domain.Item {
	items := s.enumerate()
	snapshot := make([]domain.Item, 0, len(items))
	for _, item := range items {
		if item != nil {
			snapshot = append(snapshot, item)
		}
	}

	s.mu.Lock()
	s.lastCount = len(items)
	s.seen = true
	s.mu.Unlock()

	return snapshot
}

// lastObserved returns the cardinality observed by the latest snapshot or poll
func (s *Sync) lastObserved() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastCount
}

// Notify is the push trigger: the host finished adding or removing items
func (s *Sync) Notify() {
	s.mu.Lock()
	prev := s.lastCount
	s.mu.Unlock()

	s.fire(Change{Reason: ReasonPushed, PreviousCount: prev, CurrentCount: s.count()})
}

// Reconcile is the pull trigger. It compares the current cardinality with the
// last observed one and fires the change handler when they differ.
func (s *Sync) Reconcile() bool {
	current := s.count()

	s.mu.Lock()
	prev, seen := s.lastCount, s.seen
	s.lastCount = current
	s.seen = true
	s.mu.Unlock()

	if !seen || prev == current {
		return false
	}

	s.logger.Debug().
		Int("previous", prev).
		Int("current", current).
		Msg("reconciliation detected collection change")
	s.fire(Change{Reason: ReasonReconciled, PreviousCount: prev, CurrentCount: current})
	return true
}

// Start runs the reconciliation poll until ctx is done or Stop is called.
// Starting an already running poll restarts it with the new interval.
func (s *Sync) Start(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultReconcileInterval
	}
	s.Stop()

	pollCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	s.mu.Lock()
	s.cancel = cancel
	s.done = done
	s.mu.Unlock()

	go func() {
		defer close(done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-pollCtx.Done():
				return
			case <-ticker.C:
				s.Reconcile()
			}
		}
	}()
}

// Stop tears down the reconciliation poll. It is safe to call repeatedly.
func (s *Sync) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// running reports whether the reconciliation poll is active
func (s *Sync) running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancel != nil
}

func (s *Sync) enumerate() []domain.Item {
	if s.provider == nil {
		return nil
	}
	return s.provider.Items()
}

func (s *Sync) count() int {
	if counter, ok := s.provider.(Counter); ok {
		return counter.Count()
	}
	return len(s.enumerate())
}

func (s *Sync) fire(change Change) {
	if s.onChange == nil {
		return
	}
	s.onChange(change)
}
