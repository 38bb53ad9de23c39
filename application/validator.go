package application

import (
	"context"
	"strings"

	semver "github.com/Masterminds/semver/v3"
	logger "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/prashuchaudhary/dependabot-core/domain"
)

// GroupValidator decides whether a candidate version is simultaneously
// acceptable to every member of a property group. Each member is checked
// against its own catalog view; the conjunction is commutative, so lookups
// fan out concurrently and combine in any completion order.
type GroupValidator struct {
	catalog domain.VersionCatalog

	// strictLookups elevates a failed catalog lookup to a rejection instead
	// of treating it as "no information". Off by default.
	strictLookups bool
}

// NewGroupValidator creates a validator backed by the given catalog.
func NewGroupValidator(catalog domain.VersionCatalog, strictLookups bool) *GroupValidator {
	return &GroupValidator{
		catalog:       catalog,
		strictLookups: strictLookups,
	}
}

type memberLookup struct {
	versions []domain.VersionCandidate
	err      error
}

// GroupDecision is the validator's verdict on one candidate. Unavailable and
// LookupFailed are kept apart so rejections can say whether a catalog denied
// the candidate or simply could not be consulted.
type GroupDecision struct {
	Acceptable   bool
	Unavailable  []string // members whose catalogs lack the candidate
	LookupFailed []string // members whose lookups errored; set only under strict lookups
}

// IsCandidateAcceptable accepts iff, for every dependency in the group, the
// candidate version is present in that dependency's catalog or the catalog
// has no information (empty listing, or a failed lookup under the permissive
// default). A single member whose catalog is known to lack the candidate
// vetoes the whole group.
func (v *GroupValidator) IsCandidateAcceptable(
	ctx context.Context,
	group []domain.Dependency,
	candidateVersion string,
) GroupDecision {
	lookups := make([]memberLookup, len(group))

	eg, egCtx := errgroup.WithContext(ctx)
	for i, dep := range group {
		eg.Go(func() error {
			versions, err := v.catalog.VersionsFor(egCtx, dep)
			lookups[i] = memberLookup{versions: versions, err: err}
			return nil
		})
	}
	_ = eg.Wait()

	var decision GroupDecision
	for i, dep := range group {
		lookup := lookups[i]

		if lookup.err != nil {
			logger.Debugf(
				"catalog lookup failed for %q: %v", dep.Name, lookup.err,
			)
			if v.strictLookups {
				decision.LookupFailed = append(decision.LookupFailed, dep.Name)
			}
			continue
		}

		// Empty catalog means no information, which must not block an
		// otherwise valid group upgrade.
		if len(lookup.versions) == 0 {
			continue
		}

		if !containsVersion(lookup.versions, candidateVersion) {
			decision.Unavailable = append(decision.Unavailable, dep.Name)
		}
	}

	decision.Acceptable = len(decision.Unavailable) == 0 && len(decision.LookupFailed) == 0
	return decision
}

func containsVersion(versions []domain.VersionCandidate, candidate string) bool {
	for _, v := range versions {
		if versionsEqual(v.Version, candidate) {
			return true
		}
	}
	return false
}

// versionsEqual compares version strings semantically where both sides
// parse, so "v1.2.0", "1.2.0" and "1.2" all match each other. Non-semver
// texts fall back to string comparison with the optional "v" prefix dropped.
func versionsEqual(a, b string) bool {
	va, errA := semver.NewVersion(a)
	vb, errB := semver.NewVersion(b)
	if errA == nil && errB == nil {
		return va.Equal(vb)
	}
	return strings.TrimPrefix(a, "v") == strings.TrimPrefix(b, "v")
}
