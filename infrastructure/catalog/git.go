package catalog

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	githttp "github.com/go-git/go-git/v5/plumbing/transport/http"
	"github.com/go-git/go-git/v5/storage/memory"
	"golang.org/x/mod/semver"

	"github.com/prashuchaudhary/dependabot-core/domain"
)

// GitTagCatalog lists available versions from the tags of a dependency's git
// remote, sorted by semantic version descending. No clone is performed; only
// the remote's advertised refs are read.
type GitTagCatalog struct {
	token string
}

// NewGitTagCatalog creates a catalog, optionally authenticated with a token
// for private remotes.
func NewGitTagCatalog(token string) *GitTagCatalog {
	return &GitTagCatalog{token: token}
}

var _ RoutedCatalog = (*GitTagCatalog)(nil)

// Supports returns true for dependencies whose source is a git remote.
func (c *GitTagCatalog) Supports(dep domain.Dependency) bool {
	return isGitSource(dep.Source)
}

// VersionsFor implements domain.VersionCatalog.
func (c *GitTagCatalog) VersionsFor(
	ctx context.Context,
	dep domain.Dependency,
) ([]domain.VersionCandidate, error) {
	remote := git.NewRemote(memory.NewStorage(), &gitconfig.RemoteConfig{
		Name: "origin",
		URLs: []string{normalizeGitURL(dep.Source)},
	})

	opts := &git.ListOptions{}
	if c.token != "" {
		opts.Auth = &githttp.BasicAuth{Username: "token", Password: c.token}
	}

	refs, err := remote.ListContext(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list tags for %s: %w", dep.Source, err)
	}

	var versions []string
	for _, ref := range refs {
		if ref.Name().IsTag() {
			versions = append(versions, ref.Name().Short())
		}
	}

	sortVersionsDescending(versions)

	candidates := make([]domain.VersionCandidate, 0, len(versions))
	for _, version := range versions {
		candidates = append(candidates, domain.VersionCandidate{
			Version:   version,
			SourceURL: dep.Source,
		})
	}
	return candidates, nil
}

// sortVersionsDescending orders tags newest first, using semver where both
// sides parse and plain string order otherwise.
func sortVersionsDescending(versions []string) {
	sort.SliceStable(versions, func(i, j int) bool {
		a, b := normalizeVersion(versions[i]), normalizeVersion(versions[j])
		if semver.IsValid(a) && semver.IsValid(b) {
			return semver.Compare(a, b) > 0
		}
		return versions[i] > versions[j]
	})
}

func normalizeVersion(version string) string {
	version = strings.TrimSpace(version)
	if strings.HasPrefix(version, "v") {
		return version
	}
	return "v" + version
}

func isGitSource(source string) bool {
	return strings.HasPrefix(source, "git::") ||
		strings.HasPrefix(source, "git@") ||
		strings.Contains(source, "github.com") ||
		strings.Contains(source, "gitlab.com") ||
		strings.Contains(source, "bitbucket.org") ||
		strings.Contains(source, "dev.azure.com") ||
		strings.Contains(source, "_git/")
}

// normalizeGitURL strips Terraform-style prefixes and query parts so the
// remote URL is usable for listing.
func normalizeGitURL(source string) string {
	url := strings.TrimPrefix(source, "git::")
	if idx := strings.Index(url, "?"); idx >= 0 {
		url = url[:idx]
	}
	return url
}
