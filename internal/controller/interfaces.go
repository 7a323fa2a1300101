package controller

import (
	"facetgrip/internal/domain"
)

// ItemVisibilityController applies the render decision for an item.
// Implementations must not call back into the controller.
type ItemVisibilityController interface {
	Show(item domain.Item)
	Hide(item domain.Item)
}

// FacetVisualController reflects facet selection state in the host
type FacetVisualController interface {
	// SetSelected marks a tag affordance as active or inactive
	SetSelected(facet domain.FacetID, value string, selected bool)
	// SetSummary updates the summary control of a facet; ok is false when
	// the facet has no active selection to display
	SetSummary(facet domain.FacetID, label string, ok bool)
}

// FacetProvider enumerates the facet controls of the host in declaration order
type FacetProvider interface {
	Facets() []domain.FacetControl
}

// Notifier is a push channel the host fires after it finished adding or
// removing items. Subscribe returns a function that removes the listener.
type Notifier interface {
	Subscribe(listener func()) (unsubscribe func())
}

// Refresher is implemented by providers that can rebuild their view of the host
// from scratch; Reinitialize calls it before re-discovering facets and items
type Refresher interface {
	Refresh() error
}
