package ui

import (
	"sync"

	"facetgrip/internal/domain"
)

// Host is the render target of a filter controller. The controller calls it
// from timer and poll goroutines while the bubbletea loop reads it, so all
// state sits behind a mutex. Items must be comparable (pointer handles).
// Only items the controller explicitly showed are rendered, so a handle that
// appeared in the collection but was not evaluated yet stays hidden.
type Host struct {
	mu        sync.RWMutex
	shown     map[domain.Item]struct{}
	selected  map[domain.FacetID]map[string]bool
	summaries map[domain.FacetID]string
}

// NewHost creates an empty host that renders nothing until items are shown
func NewHost() *Host {
	return &Host{
		shown:     make(map[domain.Item]struct{}),
		selected:  make(map[domain.FacetID]map[string]bool),
		summaries: make(map[domain.FacetID]string),
	}
}

// Show marks an item as rendered
func (h *Host) Show(item domain.Item) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.shown[item] = struct{}{}
}

// Hide marks an item as not rendered
func (h *Host) Hide(item domain.Item) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.shown, item)
}

// SetSelected records the active state of a tag affordance
func (h *Host) SetSelected(facet domain.FacetID, value string, selected bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	tags, ok := h.selected[facet]
	if !ok {
		tags = make(map[string]bool)
		h.selected[facet] = tags
	}
	if selected {
		tags[value] = true
	} else {
		delete(tags, value)
	}
}

// SetSummary records the summary label of a facet
func (h *Host) SetSummary(facet domain.FacetID, label string, ok bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if ok {
		h.summaries[facet] = label
	} else {
		delete(h.summaries, facet)
	}
}

// Visible filters items down to the rendered ones, keeping their order
func (h *Host) Visible(items []domain.Item) []domain.Item {
	h.mu.RLock()
	defer h.mu.RUnlock()
	visible := make([]domain.Item, 0, len(items))
	for _, item := range items {
		if _, shown := h.shown[item]; shown {
			visible = append(visible, item)
		}
	}
	return visible
}

// IsSelected reports whether a tag is marked active
func (h *Host) IsSelected(facet domain.FacetID, value string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.selected[facet][value]
}

// Summary returns the summary label of a facet
func (h *Host) Summary(facet domain.FacetID) (string, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	label, ok := h.summaries[facet]
	return label, ok
}

// Forget drops state for items that left the collection
func (h *Host) Forget(current []domain.Item) {
	keep := make(map[domain.Item]struct{}, len(current))
	for _, item := range current {
		keep[item] = struct{}{}
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for item := range h.shown {
		if _, ok := keep[item]; !ok {
			delete(h.shown, item)
		}
	}
}
