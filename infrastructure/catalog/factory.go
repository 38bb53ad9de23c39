package catalog

import (
	"fmt"

	"github.com/prashuchaudhary/dependabot-core/config"
	"github.com/prashuchaudhary/dependabot-core/domain"
)

// FromConfig builds the process-wide version catalog: one routed catalog per
// configured registry behind a mux, wrapped in an LRU cache. With no
// registries configured, git sources still resolve through an
// unauthenticated tag listing.
func FromConfig(cfg *config.Config) (domain.VersionCatalog, error) {
	var routed []RoutedCatalog

	for i, reg := range cfg.Registries {
		switch reg.Type {
		case "git":
			routed = append(routed, NewGitTagCatalog(reg.Token))
		case "maven":
			routed = append(routed, NewMavenCatalog(reg.URL, reg.Token))
		case "static":
			routed = append(routed, NewStaticCatalog(reg.Versions))
		default:
			return nil, fmt.Errorf("registries[%d]: unknown type %q", i, reg.Type)
		}
	}

	if len(routed) == 0 {
		routed = append(routed, NewGitTagCatalog(""))
	}

	return NewCachedCatalog(NewMux(routed...))
}
