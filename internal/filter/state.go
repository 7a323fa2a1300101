package filter

import (
	"facetgrip/internal/domain"
	"facetgrip/internal/textnorm"
)

// Facet declares a facet slot: its id and the tag namespace it consults on items
type Facet struct {
	ID  domain.FacetID
	Key string
}

type facetSlot struct {
	Facet
	selected string // "" means no selection
}

// State holds the active constraints: the normalized search term and, per
// facet, at most one selected value. It is mutated in place and never persisted.
type State struct {
	searchTerm string
	facets     []facetSlot
	index      map[domain.FacetID]int
}

// NewState creates an empty state for the given facets, in declaration order
func NewState(facets []Facet) *State {
	s := &State{
		facets: make([]facetSlot, 0, len(facets)),
		index:  make(map[domain.FacetID]int, len(facets)),
	}
	for _, f := range facets {
		if _, dup := s.index[f.ID]; dup {
			continue
		}
		s.index[f.ID] = len(s.facets)
		s.facets = append(s.facets, facetSlot{Facet: f})
	}
	return s
}

// SetSearchTerm stores the normalized form of raw
func (s *State) SetSearchTerm(raw string) {
	s.searchTerm = textnorm.Normalize(raw)
}

// SearchTerm returns the normalized search term
func (s *State) SearchTerm() string {
	return s.searchTerm
}

// SelectFacetValue applies exclusive-choice semantics: selecting the active
// value deselects it, any other value replaces the previous selection.
func (s *State) SelectFacetValue(id domain.FacetID, value string) error {
	slot, err := s.slot(id)
	if err != nil {
		return err
	}
	if value == "" || slot.selected == value {
		slot.selected = ""
		return nil
	}
	slot.selected = value
	return nil
}

// ClearFacet empties the selection of a facet
func (s *State) ClearFacet(id domain.FacetID) error {
	slot, err := s.slot(id)
	if err != nil {
		return err
	}
	slot.selected = ""
	return nil
}

// Reset clears the search term and every facet selection
func (s *State) Reset() {
	s.searchTerm = ""
	for i := range s.facets {
		s.facets[i].selected = ""
	}
}

// Selection returns the active value of a facet
func (s *State) Selection(id domain.FacetID) (string, bool) {
	i, ok := s.index[id]
	if !ok || s.facets[i].selected == "" {
		return "", false
	}
	return s.facets[i].selected, true
}

// HasFacet reports whether id is registered
func (s *State) HasFacet(id domain.FacetID) bool {
	_, ok := s.index[id]
	return ok
}

// Facets returns the registered facets in declaration order
func (s *State) Facets() []Facet {
	out := make([]Facet, len(s.facets))
	for i, slot := range s.facets {
		out[i] = slot.Facet
	}
	return out
}

// Selections returns every facet mapped to its value, "" for none
func (s *State) Selections() map[domain.FacetID]string {
	out := make(map[domain.FacetID]string, len(s.facets))
	for _, slot := range s.facets {
		out[slot.ID] = slot.selected
	}
	return out
}

// Criteria returns an immutable copy of the active constraints
func (s *State) Criteria() Criteria {
	c := Criteria{SearchTerm: s.searchTerm}
	for _, slot := range s.facets {
		if slot.selected != "" {
			c.Facets = append(c.Facets, ActiveFacet{ID: slot.ID, Key: slot.Key, Value: slot.selected})
		}
	}
	return c
}

func (s *State) slot(id domain.FacetID) (*facetSlot, error) {
	i, ok := s.index[id]
	if !ok {
		return nil, NewUnknownFacetError(id)
	}
	return &s.facets[i], nil
}
