package filter

import (
	"errors"
	"fmt"

	"facetgrip/internal/domain"
)

// ErrUnknownFacet is returned when a facet id is not part of the state
var ErrUnknownFacet = errors.New("unknown facet")

// UnknownFacetError carries the offending facet id
type UnknownFacetError struct {
	Facet domain.FacetID
}

func (e *UnknownFacetError) Error() string {
	return fmt.Sprintf("facet %d is not registered", e.Facet)
}

func (e *UnknownFacetError) Is(target error) bool {
	return target == ErrUnknownFacet
}

// NewUnknownFacetError creates a new UnknownFacetError
func NewUnknownFacetError(id domain.FacetID) *UnknownFacetError {
	return &UnknownFacetError{Facet: id}
}
