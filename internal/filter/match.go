package filter

import (
	"facetgrip/internal/domain"
	"facetgrip/internal/textnorm"
)

// ActiveFacet is a facet with a non-empty selection
type ActiveFacet struct {
	ID    domain.FacetID
	Key   string
	Value string
}

// Criteria is a point-in-time copy of a State used for one evaluation pass
type Criteria struct {
	SearchTerm string // already normalized
	Facets     []ActiveFacet
}

// IsEmpty reports whether the criteria impose no constraint at all
func (c Criteria) IsEmpty() bool {
	return c.SearchTerm == "" && len(c.Facets) == 0
}

// Matches evaluates the criteria against an item: the search predicate and
// every active facet predicate must hold.
func Matches(item domain.Item, c Criteria) bool {
	if item == nil {
		return false
	}
	return matchesSearch(item, c.SearchTerm) && matchesFacets(item, c.Facets)
}

// matchesSearch passes when at least one fragment contains the term
func matchesSearch(item domain.Item, term string) bool {
	if term == "" {
		return true
	}
	for _, fragment := range item.SearchFragments() {
		if textnorm.Contains(fragment, term) {
			return true
		}
	}
	return false
}

// matchesFacets is the conjunction of all facet predicates. An item with no
// tags for a facet key cannot satisfy that facet.
func matchesFacets(item domain.Item, facets []ActiveFacet) bool {
	for _, f := range facets {
		if !carries(item.FacetTags(f.Key), f.Value) {
			return false
		}
	}
	return true
}

func carries(tags []string, value string) bool {
	for _, tag := range tags {
		if tag == value {
			return true
		}
	}
	return false
}

// Evaluate splits items into matching and non-matching in a single pass.
// Both slices keep collection order.
func Evaluate(items []domain.Item, c Criteria) (visible, hidden []domain.Item) {
	unconstrained := c.IsEmpty()
	for _, item := range items {
		if item != nil && (unconstrained || Matches(item, c)) {
			visible = append(visible, item)
		} else {
			hidden = append(hidden, item)
		}
	}
	return visible, hidden
}
