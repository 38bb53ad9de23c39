package catalog

import (
	"context"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/prashuchaudhary/dependabot-core/domain"
)

const defaultCacheSize = 256

// CachedCatalog memoizes successful lookups of an inner catalog for the
// lifetime of one process. Failed lookups are not cached so a flaky registry
// can recover; manifest snapshots are never cached at all, only the remote
// listings, which do not change when local files do.
type CachedCatalog struct {
	inner domain.VersionCatalog
	cache *lru.Cache[string, []domain.VersionCandidate]
}

// NewCachedCatalog wraps the inner catalog with an LRU cache.
func NewCachedCatalog(inner domain.VersionCatalog) (*CachedCatalog, error) {
	cache, err := lru.New[string, []domain.VersionCandidate](defaultCacheSize)
	if err != nil {
		return nil, err
	}
	return &CachedCatalog{inner: inner, cache: cache}, nil
}

var _ domain.VersionCatalog = (*CachedCatalog)(nil)

// VersionsFor implements domain.VersionCatalog.
func (c *CachedCatalog) VersionsFor(
	ctx context.Context,
	dep domain.Dependency,
) ([]domain.VersionCandidate, error) {
	key := dep.PackageManager + "/" + dep.Name

	if versions, ok := c.cache.Get(key); ok {
		return versions, nil
	}

	versions, err := c.inner.VersionsFor(ctx, dep)
	if err != nil {
		return nil, err
	}

	c.cache.Add(key, versions)
	return versions, nil
}
