// Package controller orchestrates the filter pipeline: it receives input
// events, mutates the filter state, evaluates a fresh collection snapshot and
// publishes the result.
//
// # Concurrency
//
// A Controller serializes every mutation and evaluation pass behind one mutex,
// so input events, debounce timers, the reconciliation poll and push
// notifications may arrive from different goroutines. Host callbacks
// (visibility and facet visuals) run while that mutex is held and must not
// call back into the controller.
package controller

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"facetgrip/internal/collection"
	"facetgrip/internal/domain"
	"facetgrip/internal/eventbus"
	"facetgrip/internal/filter"
)

// ErrNoCollection is returned when a controller is created without a collection provider
var ErrNoCollection = errors.New("collection provider is required")

// Options wires the collaborators of a controller. Only Collection is required.
type Options struct {
	Collection collection.Provider
	Facets     FacetProvider
	Visibility ItemVisibilityController
	Visuals    FacetVisualController
	Notifier   Notifier
	Bus        eventbus.EventBus
	Logger     *zerolog.Logger
	Config     *Config // nil means DefaultConfig()
}

// FacetInfo describes a registered facet
type FacetInfo struct {
	ID       domain.FacetID
	Control  domain.FacetControl
	Selected string
}

// Controller is an independent filter instance
type Controller struct {
	id         string
	cfg        Config
	logger     zerolog.Logger
	provider   collection.Provider
	facetSrc   FacetProvider
	visibility ItemVisibilityController
	visuals    FacetVisualController
	notifier   Notifier
	bus        eventbus.EventBus
	sync       *collection.Sync

	mu       sync.Mutex
	state    *filter.State
	controls []domain.FacetControl // indexed by FacetID
	last     domain.Result
	closed   bool

	// debounced search
	pendingSearch string
	searchGen     uint64
	searchTimer   *time.Timer

	unsubscribers []func()
}

// New discovers facets, builds an empty filter state and runs the initial
// evaluation pass. Call Start to enable the reconciliation poll.
func New(opts Options) (*Controller, error) {
	if opts.Collection == nil {
		return nil, ErrNoCollection
	}

	cfg := DefaultConfig()
	if opts.Config != nil {
		cfg = *opts.Config
	}

	c := &Controller{
		id:         uuid.NewString(),
		cfg:        cfg.withDefaults(),
		logger:     zerolog.Nop(),
		provider:   opts.Collection,
		facetSrc:   opts.Facets,
		visibility: opts.Visibility,
		visuals:    opts.Visuals,
		notifier:   opts.Notifier,
		bus:        opts.Bus,
	}
	if opts.Logger != nil {
		c.logger = opts.Logger.With().Str("controller", c.id).Logger()
	}

	c.sync = collection.New(opts.Collection,
		collection.WithLogger(c.logger),
		collection.WithChangeHandler(c.handleCollectionChange),
	)

	c.mu.Lock()
	c.discoverFacetsLocked()
	c.refreshVisualsLocked()
	c.evaluateLocked()
	c.mu.Unlock()

	c.subscribe()

	c.logger.Info().
		Int("facets", len(c.controls)).
		Int("items", c.last.TotalCount).
		Msg("filter controller initialized")

	return c, nil
}

// ID returns the instance identifier carried by published results
func (c *Controller) ID() string {
	return c.id
}

// Start enables the reconciliation poll when configured. The poll stops when
// ctx is done or Close is called.
func (c *Controller) Start(ctx context.Context) {
	c.mu.Lock()
	closed := c.closed
	c.mu.Unlock()
	if closed || !c.cfg.ReconcileEnabled {
		return
	}
	c.sync.Start(ctx, c.cfg.ReconcileInterval)
	c.logger.Debug().Dur("interval", c.cfg.ReconcileInterval).Msg("reconciliation poll started")
}

// Close cancels pending work and detaches every listener and timer.
// The controller ignores all input afterwards.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.cancelPendingSearchLocked()
	unsubscribers := c.unsubscribers
	c.unsubscribers = nil
	c.mu.Unlock()

	// The poll may be waiting on c.mu, so stop it without holding the lock
	c.sync.Stop()
	for _, unsubscribe := range unsubscribers {
		unsubscribe()
	}
	c.logger.Debug().Msg("filter controller closed")
}

// SetSearch applies a search term immediately, superseding pending keystrokes
func (c *Controller) SetSearch(term string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.cancelPendingSearchLocked()
	c.state.SetSearchTerm(term)
	c.evaluateLocked()
}

// SetSearchDebounced records a keystroke. Only the last value within the quiet
// period is applied.
func (c *Controller) SetSearchDebounced(term string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.cancelPendingSearchLocked()
	c.pendingSearch = term
	gen := c.searchGen
	c.searchTimer = time.AfterFunc(c.cfg.SearchDebounce, func() {
		c.flushSearch(gen)
	})
}

// FlushSearch applies a pending debounced search right away
func (c *Controller) FlushSearch() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || c.searchTimer == nil {
		return
	}
	term := c.pendingSearch
	c.cancelPendingSearchLocked()
	c.state.SetSearchTerm(term)
	c.evaluateLocked()
}

// ClearSearch empties the search term immediately, bypassing the debounce
func (c *Controller) ClearSearch() {
	c.SetSearch("")
}

// SelectTag toggles value on a facet. Unknown facets are ignored.
func (c *Controller) SelectTag(id domain.FacetID, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	if err := c.state.SelectFacetValue(id, value); err != nil {
		c.logger.Debug().Err(err).Int("facet", int(id)).Str("value", value).Msg("ignoring tag selection")
		return
	}
	c.refreshFacetVisualsLocked(id)
	c.evaluateLocked()
}

// ClearFacet empties the selection of a facet. Unknown facets are ignored.
func (c *Controller) ClearFacet(id domain.FacetID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	if err := c.state.ClearFacet(id); err != nil {
		c.logger.Debug().Err(err).Int("facet", int(id)).Msg("ignoring facet clear")
		return
	}
	c.refreshFacetVisualsLocked(id)
	c.evaluateLocked()
}

// Reset clears the search term and every facet selection
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.cancelPendingSearchLocked()
	c.state.Reset()
	c.refreshVisualsLocked()
	c.evaluateLocked()
	c.publish(eventbus.FilterResetEvent{ControllerID: c.id})
}

// NotifyItemsChanged is the explicit push trigger for hosts that re-rendered
// their collection
func (c *Controller) NotifyItemsChanged() {
	c.mu.Lock()
	closed := c.closed
	c.mu.Unlock()
	if closed {
		return
	}
	c.sync.Notify()
}

// Reinitialize re-discovers facet controls and items from scratch. Selections
// whose facet key still exists are carried over to the new facet ids. A
// pending debounced keystroke is applied by this pass instead of firing
// against the rebuilt state later.
func (c *Controller) Reinitialize() {
	// Refresh must be idempotent: a host serving both roles is refreshed twice
	if refresher, ok := c.provider.(Refresher); ok {
		if err := refresher.Refresh(); err != nil {
			c.logger.Warn().Err(err).Msg("collection refresh failed")
			c.publish(eventbus.ErrorEvent{Message: "collection refresh failed", Err: err})
		}
	}
	if refresher, ok := c.facetSrc.(Refresher); ok {
		if err := refresher.Refresh(); err != nil {
			c.logger.Warn().Err(err).Msg("facet refresh failed")
			c.publish(eventbus.ErrorEvent{Message: "facet refresh failed", Err: err})
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}

	previous := make(map[string]string)
	for id, value := range c.state.Selections() {
		if value != "" && int(id) < len(c.controls) {
			previous[c.controls[id].Key] = value
		}
	}
	term := c.state.SearchTerm()
	if c.searchTimer != nil {
		term = c.pendingSearch
	}
	c.cancelPendingSearchLocked()

	c.discoverFacetsLocked()
	c.state.SetSearchTerm(term)
	for _, info := range c.facetInfosLocked() {
		value, ok := previous[info.Control.Key]
		if !ok {
			continue
		}
		if len(info.Control.Tags) > 0 && !info.Control.HasTag(value) {
			continue
		}
		_ = c.state.SelectFacetValue(info.ID, value)
	}

	c.refreshVisualsLocked()
	c.evaluateLocked()
	c.logger.Info().Int("facets", len(c.controls)).Int("items", c.last.TotalCount).Msg("filter controller reinitialized")
}

// GetState returns a read-only snapshot of the current constraints and counts
func (c *Controller) GetState() domain.Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	return copyResult(c.last)
}

// Facets returns the registered facets with their current selection
func (c *Controller) Facets() []FacetInfo {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.facetInfosLocked()
}

// FacetByKey looks up a facet by its tag namespace
func (c *Controller) FacetByKey(key string) (domain.FacetID, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, control := range c.controls {
		if control.Key == key {
			return domain.FacetID(i), true
		}
	}
	return 0, false
}

func (c *Controller) flushSearch(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	// A superseded timer may still fire after Stop lost the race
	if c.closed || gen != c.searchGen {
		return
	}
	c.searchTimer = nil
	c.state.SetSearchTerm(c.pendingSearch)
	c.evaluateLocked()
}

func (c *Controller) cancelPendingSearchLocked() {
	c.searchGen++
	if c.searchTimer != nil {
		c.searchTimer.Stop()
		c.searchTimer = nil
	}
}

func (c *Controller) handleCollectionChange(change collection.Change) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}

	c.logger.Debug().
		Str("reason", string(change.Reason)).
		Int("previous", change.PreviousCount).
		Int("current", change.CurrentCount).
		Msg("collection changed")

	c.evaluateLocked()
	if change.Reason == collection.ReasonReconciled {
		c.publish(eventbus.CollectionReconciledEvent{
			ControllerID:  c.id,
			PreviousCount: change.PreviousCount,
			CurrentCount:  change.CurrentCount,
		})
	}
}

func (c *Controller) subscribe() {
	var unsubscribers []func()
	if c.notifier != nil {
		unsubscribers = append(unsubscribers, c.notifier.Subscribe(c.NotifyItemsChanged))
	}
	if c.bus != nil {
		unsubscribers = append(unsubscribers, c.bus.Subscribe(eventbus.EventItemsChanged, func(e eventbus.DomainEvent) {
			event, ok := e.(eventbus.ItemsChangedEvent)
			if !ok || (event.ControllerID != "" && event.ControllerID != c.id) {
				return
			}
			c.NotifyItemsChanged()
		}))
	}

	c.mu.Lock()
	c.unsubscribers = append(c.unsubscribers, unsubscribers...)
	c.mu.Unlock()
}

func (c *Controller) discoverFacetsLocked() {
	var controls []domain.FacetControl
	if c.facetSrc != nil {
		controls = c.facetSrc.Facets()
	}
	c.controls = controls

	facets := make([]filter.Facet, len(controls))
	for i, control := range controls {
		facets[i] = filter.Facet{ID: domain.FacetID(i), Key: control.Key}
	}
	c.state = filter.NewState(facets)
}

func (c *Controller) facetInfosLocked() []FacetInfo {
	infos := make([]FacetInfo, len(c.controls))
	for i, control := range c.controls {
		id := domain.FacetID(i)
		selected, _ := c.state.Selection(id)
		infos[i] = FacetInfo{ID: id, Control: control, Selected: selected}
	}
	return infos
}

// evaluateLocked runs one pass against a fresh snapshot paired with the
// criteria current at invocation
func (c *Controller) evaluateLocked() {
	criteria := c.state.Criteria()
	items := c.sync.Snapshot()

	shown, hidden := filter.Evaluate(items, criteria)
	if c.visibility != nil {
		for _, item := range shown {
			c.visibility.Show(item)
		}
		for _, item := range hidden {
			c.visibility.Hide(item)
		}
	}
	visible := len(shown)

	c.last = domain.Result{
		ControllerID: c.id,
		SearchTerm:   criteria.SearchTerm,
		Selections:   c.state.Selections(),
		VisibleCount: visible,
		TotalCount:   len(items),
	}

	c.logger.Debug().
		Str("search", criteria.SearchTerm).
		Int("active_facets", len(criteria.Facets)).
		Int("visible", visible).
		Int("total", len(items)).
		Msg("evaluation pass")

	c.publish(eventbus.ResultPublishedEvent{Result: copyResult(c.last)})
}

func (c *Controller) refreshVisualsLocked() {
	for i := range c.controls {
		c.refreshFacetVisualsLocked(domain.FacetID(i))
	}
}

func (c *Controller) refreshFacetVisualsLocked(id domain.FacetID) {
	if c.visuals == nil || int(id) < 0 || int(id) >= len(c.controls) {
		return
	}
	control := c.controls[id]
	selected, active := c.state.Selection(id)

	for _, tag := range control.Tags {
		c.visuals.SetSelected(id, tag.Value, active && tag.Value == selected)
	}

	if !active {
		c.visuals.SetSummary(id, "", false)
		return
	}
	if label, ok := control.LabelFor(selected); ok {
		c.visuals.SetSummary(id, label, true)
		return
	}
	if c.cfg.RawLabelFallback {
		c.visuals.SetSummary(id, selected, true)
		return
	}
	c.visuals.SetSummary(id, "", false)
}

func (c *Controller) publish(event eventbus.DomainEvent) {
	if c.bus == nil {
		return
	}
	c.bus.Publish(event)
}

func copyResult(r domain.Result) domain.Result {
	selections := make(map[domain.FacetID]string, len(r.Selections))
	for id, value := range r.Selections {
		selections[id] = value
	}
	r.Selections = selections
	return r
}
