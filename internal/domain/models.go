package domain

// FacetID identifies a facet for the lifetime of a controller. IDs are assigned
// by declaration order of the discovered facet controls.
type FacetID int

// Item is a handle to an element of the host collection. The engine only
// references items; it never owns or copies them.
type Item interface {
	// SearchFragments returns the raw text nodes eligible for search matching.
	SearchFragments() []string
	// FacetTags returns the tag values the item carries for the facet namespace key.
	FacetTags(key string) []string
}

// TagControl is one selectable value of a facet
type TagControl struct {
	Value string
	Label string // optional display label
}

// FacetControl describes a facet as discovered from the host
type FacetControl struct {
	Key  string // tag namespace consulted on items
	Name string
	Tags []TagControl
}

// LabelFor returns the declared label for a tag value
func (f FacetControl) LabelFor(value string) (string, bool) {
	for _, tag := range f.Tags {
		if tag.Value == value && tag.Label != "" {
			return tag.Label, true
		}
	}
	return "", false
}

// HasTag reports whether value is one of the declared tags
func (f FacetControl) HasTag(value string) bool {
	for _, tag := range f.Tags {
		if tag.Value == value {
			return true
		}
	}
	return false
}

// Result is the externally observable outcome of an evaluation pass
type Result struct {
	ControllerID string
	SearchTerm   string
	Selections   map[FacetID]string // one entry per facet, "" means none
	VisibleCount int
	TotalCount   int
}

// Selection returns the active value of a facet ("" if none or unknown)
func (r Result) Selection(id FacetID) string {
	return r.Selections[id]
}

// IsFiltered reports whether any constraint is active
func (r Result) IsFiltered() bool {
	if r.SearchTerm != "" {
		return true
	}
	for _, value := range r.Selections {
		if value != "" {
			return true
		}
	}
	return false
}
