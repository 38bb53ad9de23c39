package catalog_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prashuchaudhary/dependabot-core/domain"
	"github.com/prashuchaudhary/dependabot-core/infrastructure/catalog"
)

const metadataXML = `<?xml version="1.0" encoding="UTF-8"?>
<metadata>
  <groupId>org.example</groupId>
  <artifactId>lib-a</artifactId>
  <versioning>
    <latest>1.2.0</latest>
    <release>1.2.0</release>
    <versions>
      <version>1.0.0</version>
      <version>1.1.0</version>
      <version>1.2.0</version>
    </versions>
  </versioning>
</metadata>
`

func TestMavenCatalog_Supports(t *testing.T) {
	t.Parallel()

	t.Run("should support maven coordinates only", func(t *testing.T) {
		t.Parallel()

		// given
		c := catalog.NewMavenCatalog("https://repo.example.org", "")

		// then
		assert.True(t, c.Supports(domain.Dependency{
			Name: "org.example:lib-a", PackageManager: "maven",
		}))
		assert.False(t, c.Supports(domain.Dependency{
			Name: "lib-a", PackageManager: "maven",
		}))
		assert.False(t, c.Supports(domain.Dependency{
			Name: "org.example:lib-a", PackageManager: "npm",
		}))
	})
}

func TestMavenCatalog_VersionsFor(t *testing.T) {
	t.Parallel()

	t.Run("should parse the repository listing", func(t *testing.T) {
		t.Parallel()

		// given
		var requestedPath string
		server := httptest.NewServer(http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				requestedPath = r.URL.Path
				_, _ = w.Write([]byte(metadataXML))
			}))
		defer server.Close()

		c := catalog.NewMavenCatalog(server.URL, "")
		dep := domain.Dependency{Name: "org.example:lib-a", PackageManager: "maven"}

		// when
		versions, err := c.VersionsFor(context.Background(), dep)

		// then
		require.NoError(t, err)
		assert.Equal(t, "/org/example/lib-a/maven-metadata.xml", requestedPath)
		require.Len(t, versions, 3)
		assert.Equal(t, "1.0.0", versions[0].Version)
		assert.Equal(t, "1.2.0", versions[2].Version)
		assert.Contains(t, versions[0].ListingURL, "maven-metadata.xml")
	})

	t.Run("should send the bearer token when configured", func(t *testing.T) {
		t.Parallel()

		// given
		var authHeader string
		server := httptest.NewServer(http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				authHeader = r.Header.Get("Authorization")
				_, _ = w.Write([]byte(metadataXML))
			}))
		defer server.Close()

		c := catalog.NewMavenCatalog(server.URL, "secret")
		dep := domain.Dependency{Name: "org.example:lib-a", PackageManager: "maven"}

		// when
		_, err := c.VersionsFor(context.Background(), dep)

		// then
		require.NoError(t, err)
		assert.Equal(t, "Bearer secret", authHeader)
	})

	t.Run("should fail on a non-200 response", func(t *testing.T) {
		t.Parallel()

		// given
		server := httptest.NewServer(http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
			}))
		defer server.Close()

		c := catalog.NewMavenCatalog(server.URL, "")
		dep := domain.Dependency{Name: "org.example:ghost", PackageManager: "maven"}

		// when
		versions, err := c.VersionsFor(context.Background(), dep)

		// then
		require.Error(t, err)
		assert.Nil(t, versions)
		assert.Contains(t, err.Error(), "404")
	})

	t.Run("should fail on malformed listings", func(t *testing.T) {
		t.Parallel()

		// given
		server := httptest.NewServer(http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte("not xml at all <"))
			}))
		defer server.Close()

		c := catalog.NewMavenCatalog(server.URL, "")
		dep := domain.Dependency{Name: "org.example:lib-a", PackageManager: "maven"}

		// when
		versions, err := c.VersionsFor(context.Background(), dep)

		// then
		require.Error(t, err)
		assert.Nil(t, versions)
	})
}
