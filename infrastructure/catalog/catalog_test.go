package catalog_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prashuchaudhary/dependabot-core/config"
	"github.com/prashuchaudhary/dependabot-core/domain"
	"github.com/prashuchaudhary/dependabot-core/infrastructure/catalog"
)

// countingCatalog is a routed catalog that counts lookups, used to observe
// cache and mux behavior.
type countingCatalog struct {
	supports bool
	versions []domain.VersionCandidate
	err      error
	calls    int
}

func (c *countingCatalog) Supports(domain.Dependency) bool { return c.supports }

func (c *countingCatalog) VersionsFor(
	context.Context,
	domain.Dependency,
) ([]domain.VersionCandidate, error) {
	c.calls++
	return c.versions, c.err
}

func TestStaticCatalog(t *testing.T) {
	t.Parallel()

	t.Run("should serve configured listings", func(t *testing.T) {
		t.Parallel()

		// given
		c := catalog.NewStaticCatalog(map[string][]string{
			"org.example:lib-a": {"1.0.0", "1.2.0"},
		})
		dep := domain.Dependency{Name: "org.example:lib-a"}

		// when
		versions, err := c.VersionsFor(context.Background(), dep)

		// then
		require.NoError(t, err)
		require.Len(t, versions, 2)
		assert.Equal(t, "1.0.0", versions[0].Version)
		assert.True(t, c.Supports(dep))
	})

	t.Run("should not support undeclared dependencies", func(t *testing.T) {
		t.Parallel()

		// given
		c := catalog.NewStaticCatalog(nil)

		// then
		assert.False(t, c.Supports(domain.Dependency{Name: "anything"}))
	})
}

func TestMux(t *testing.T) {
	t.Parallel()

	t.Run("should route to the first supporting catalog", func(t *testing.T) {
		t.Parallel()

		// given
		wrong := &countingCatalog{supports: false}
		right := &countingCatalog{
			supports: true,
			versions: []domain.VersionCandidate{{Version: "1.2.0"}},
		}
		mux := catalog.NewMux(wrong, right)

		// when
		versions, err := mux.VersionsFor(context.Background(), domain.Dependency{Name: "lib-a"})

		// then
		require.NoError(t, err)
		require.Len(t, versions, 1)
		assert.Equal(t, 0, wrong.calls)
		assert.Equal(t, 1, right.calls)
	})

	t.Run("should yield no information when nothing supports", func(t *testing.T) {
		t.Parallel()

		// given
		mux := catalog.NewMux(&countingCatalog{supports: false})

		// when
		versions, err := mux.VersionsFor(context.Background(), domain.Dependency{Name: "lib-a"})

		// then
		require.NoError(t, err)
		assert.Empty(t, versions)
	})
}

func TestCachedCatalog(t *testing.T) {
	t.Parallel()

	t.Run("should serve repeated lookups from the cache", func(t *testing.T) {
		t.Parallel()

		// given
		inner := &countingCatalog{
			supports: true,
			versions: []domain.VersionCandidate{{Version: "1.2.0"}},
		}
		cached, err := catalog.NewCachedCatalog(inner)
		require.NoError(t, err)
		dep := domain.Dependency{Name: "lib-a", PackageManager: "maven"}

		// when
		first, err1 := cached.VersionsFor(context.Background(), dep)
		second, err2 := cached.VersionsFor(context.Background(), dep)

		// then
		require.NoError(t, err1)
		require.NoError(t, err2)
		assert.Equal(t, first, second)
		assert.Equal(t, 1, inner.calls)
	})

	t.Run("should key entries by package manager and name", func(t *testing.T) {
		t.Parallel()

		// given the same name in two ecosystems
		inner := &countingCatalog{supports: true}
		cached, err := catalog.NewCachedCatalog(inner)
		require.NoError(t, err)

		// when
		_, _ = cached.VersionsFor(context.Background(),
			domain.Dependency{Name: "lib-a", PackageManager: "maven"})
		_, _ = cached.VersionsFor(context.Background(),
			domain.Dependency{Name: "lib-a", PackageManager: "npm"})

		// then
		assert.Equal(t, 2, inner.calls)
	})

	t.Run("should not cache failures", func(t *testing.T) {
		t.Parallel()

		// given
		inner := &countingCatalog{supports: true, err: errors.New("unreachable")}
		cached, err := catalog.NewCachedCatalog(inner)
		require.NoError(t, err)
		dep := domain.Dependency{Name: "lib-a", PackageManager: "maven"}

		// when
		_, err1 := cached.VersionsFor(context.Background(), dep)
		_, err2 := cached.VersionsFor(context.Background(), dep)

		// then both lookups hit the inner catalog
		require.Error(t, err1)
		require.Error(t, err2)
		assert.Equal(t, 2, inner.calls)
	})
}

func TestFromConfig(t *testing.T) {
	t.Parallel()

	t.Run("should build a working catalog from static registries", func(t *testing.T) {
		t.Parallel()

		// given
		cfg := config.Default()
		cfg.Registries = []config.RegistryConfig{
			{Type: "static", Versions: map[string][]string{"lib-a": {"1.2.0"}}},
		}

		// when
		c, err := catalog.FromConfig(cfg)
		require.NoError(t, err)
		versions, lookupErr := c.VersionsFor(context.Background(),
			domain.Dependency{Name: "lib-a"})

		// then
		require.NoError(t, lookupErr)
		require.Len(t, versions, 1)
		assert.Equal(t, "1.2.0", versions[0].Version)
	})

	t.Run("should fall back to a git tag catalog", func(t *testing.T) {
		t.Parallel()

		// given
		cfg := config.Default()

		// when
		c, err := catalog.FromConfig(cfg)

		// then
		require.NoError(t, err)
		assert.NotNil(t, c)
	})
}
