package catalog

import (
	"context"

	logger "github.com/sirupsen/logrus"

	"github.com/prashuchaudhary/dependabot-core/domain"
)

// RoutedCatalog is a version catalog that knows which dependencies it can
// answer for.
type RoutedCatalog interface {
	domain.VersionCatalog

	// Supports returns true if this catalog is the right source for the
	// dependency.
	Supports(dep domain.Dependency) bool
}

// Mux routes each dependency to the first registered catalog that supports
// it. This realizes the per-dependency catalog views the group validator
// expects: members of one property group may resolve against different
// sources. A dependency no catalog supports yields an empty listing, which
// the validator treats as "no information".
type Mux struct {
	catalogs []RoutedCatalog
}

// NewMux creates a mux over the given catalogs, consulted in order.
func NewMux(catalogs ...RoutedCatalog) *Mux {
	return &Mux{catalogs: catalogs}
}

var _ domain.VersionCatalog = (*Mux)(nil)

// VersionsFor implements domain.VersionCatalog.
func (m *Mux) VersionsFor(
	ctx context.Context,
	dep domain.Dependency,
) ([]domain.VersionCandidate, error) {
	for _, c := range m.catalogs {
		if c.Supports(dep) {
			return c.VersionsFor(ctx, dep)
		}
	}
	logger.Debugf("no catalog supports %q, treating as no information", dep.Name)
	return nil, nil
}
