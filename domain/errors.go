package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoPropertyName signals the planner was invoked on a dependency without a
// property-indirected requirement. This is a caller bug, not a user-facing
// condition: non-indirected dependencies take the direct update path.
var ErrNoPropertyName = errors.New("dependency has no property-indirected requirement")

// ErrGroupInconsistent signals the property index does not list the
// dependency under its own property. The planner fails closed instead of
// producing a plan from a disagreeing snapshot.
var ErrGroupInconsistent = errors.New("property index does not contain the dependency being updated")

// DeclarationNotFoundError reports that the manifest fragment declaring a
// grouped dependency could not be located. It fails the entire group.
type DeclarationNotFoundError struct {
	Dependency string
	File       string
}

func (e *DeclarationNotFoundError) Error() string {
	if e.File == "" {
		return fmt.Sprintf("no declaration found for dependency %q", e.Dependency)
	}
	return fmt.Sprintf("no declaration found for dependency %q in %s", e.Dependency, e.File)
}

// CandidateUnavailableError reports that the group validation conjunction
// failed: at least one grouped dependency's catalog is known to lack the
// candidate version.
type CandidateUnavailableError struct {
	Version string
	Names   []string
}

func (e *CandidateUnavailableError) Error() string {
	return fmt.Sprintf(
		"candidate %s unavailable for grouped dependencies: %s",
		e.Version, strings.Join(e.Names, ", "),
	)
}

// CatalogLookupError reports that the catalog for at least one grouped
// dependency could not be consulted at all. It only rejects a group under
// strict lookups, and it is distinct from CandidateUnavailableError: the
// candidate may well exist, the listing never arrived.
type CatalogLookupError struct {
	Names []string
}

func (e *CatalogLookupError) Error() string {
	return fmt.Sprintf(
		"catalog lookup failed for grouped dependencies: %s",
		strings.Join(e.Names, ", "),
	)
}

// UnresolvableNestingError reports a property whose value chains through more
// levels of property references than MaxNestingDepth allows.
type UnresolvableNestingError struct {
	Property string
	Depth    int
}

func (e *UnresolvableNestingError) Error() string {
	return fmt.Sprintf(
		"property %q nests deeper than %d levels and cannot be resolved",
		e.Property, e.Depth,
	)
}
