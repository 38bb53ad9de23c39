package catalog

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/prashuchaudhary/dependabot-core/domain"
)

const requestTimeout = 30 * time.Second

// MavenCatalog lists available versions from a Maven repository's
// maven-metadata.xml listing.
type MavenCatalog struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewMavenCatalog creates a catalog for the given repository base URL, e.g.
// "https://repo.maven.apache.org/maven2".
func NewMavenCatalog(baseURL, token string) *MavenCatalog {
	return &MavenCatalog{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
	}
}

var _ RoutedCatalog = (*MavenCatalog)(nil)

// Supports returns true for Maven coordinates (groupId:artifactId).
func (c *MavenCatalog) Supports(dep domain.Dependency) bool {
	return dep.PackageManager == "maven" && strings.Count(dep.Name, ":") == 1
}

// VersionsFor implements domain.VersionCatalog.
func (c *MavenCatalog) VersionsFor(
	ctx context.Context,
	dep domain.Dependency,
) ([]domain.VersionCandidate, error) {
	group, artifact, found := strings.Cut(dep.Name, ":")
	if !found {
		return nil, fmt.Errorf("invalid maven coordinates: %q", dep.Name)
	}

	artifactURL := fmt.Sprintf(
		"%s/%s/%s",
		c.baseURL, strings.ReplaceAll(group, ".", "/"), artifact,
	)
	listingURL := artifactURL + "/maven-metadata.xml"

	metadata, err := c.fetchMetadata(ctx, listingURL)
	if err != nil {
		return nil, err
	}

	candidates := make([]domain.VersionCandidate, 0, len(metadata.Versioning.Versions))
	for _, version := range metadata.Versioning.Versions {
		candidates = append(candidates, domain.VersionCandidate{
			Version:    version,
			SourceURL:  artifactURL,
			ListingURL: listingURL,
		})
	}
	return candidates, nil
}

type mavenMetadata struct {
	XMLName    xml.Name `xml:"metadata"`
	Versioning struct {
		Latest   string   `xml:"latest"`
		Release  string   `xml:"release"`
		Versions []string `xml:"versions>version"`
	} `xml:"versioning"`
}

func (c *MavenCatalog) fetchMetadata(ctx context.Context, url string) (*mavenMetadata, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s: %w", url, err)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d fetching %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read listing from %s: %w", url, err)
	}

	var metadata mavenMetadata
	if parseErr := xml.Unmarshal(body, &metadata); parseErr != nil {
		return nil, fmt.Errorf("failed to parse listing from %s: %w", url, parseErr)
	}
	return &metadata, nil
}
