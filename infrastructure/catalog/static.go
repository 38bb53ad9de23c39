package catalog

import (
	"context"

	"github.com/prashuchaudhary/dependabot-core/domain"
)

// StaticCatalog serves version listings declared directly in the
// configuration. It backs offline runs and lets tests pin catalog contents.
type StaticCatalog struct {
	versions map[string][]string
}

// NewStaticCatalog creates a catalog from a dependency-name -> versions map.
func NewStaticCatalog(versions map[string][]string) *StaticCatalog {
	return &StaticCatalog{versions: versions}
}

var _ RoutedCatalog = (*StaticCatalog)(nil)

// Supports returns true when the dependency has a declared listing.
func (c *StaticCatalog) Supports(dep domain.Dependency) bool {
	_, ok := c.versions[dep.Name]
	return ok
}

// VersionsFor implements domain.VersionCatalog.
func (c *StaticCatalog) VersionsFor(
	_ context.Context,
	dep domain.Dependency,
) ([]domain.VersionCandidate, error) {
	listed := c.versions[dep.Name]
	candidates := make([]domain.VersionCandidate, 0, len(listed))
	for _, version := range listed {
		candidates = append(candidates, domain.VersionCandidate{Version: version})
	}
	return candidates, nil
}
