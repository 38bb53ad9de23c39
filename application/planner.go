package application

import (
	"context"
	"fmt"

	logger "github.com/sirupsen/logrus"

	"github.com/prashuchaudhary/dependabot-core/domain"
)

// CoordinatedUpdatePlanner turns "can dependency D move to version V?" into
// an all-or-nothing set of update plans covering every dependency that shares
// D's version property. It either returns one plan per group member or a
// typed rejection, never a partial result.
type CoordinatedUpdatePlanner struct {
	index     *PropertyIndex
	validator *GroupValidator
	locator   domain.DeclarationLocator
	rewriter  domain.RequirementRewriter
}

// NewCoordinatedUpdatePlanner creates a planner over one manifest snapshot.
func NewCoordinatedUpdatePlanner(
	index *PropertyIndex,
	validator *GroupValidator,
	locator domain.DeclarationLocator,
	rewriter domain.RequirementRewriter,
) *CoordinatedUpdatePlanner {
	return &CoordinatedUpdatePlanner{
		index:     index,
		validator: validator,
		locator:   locator,
		rewriter:  rewriter,
	}
}

// Plan computes the coordinated update for the dependency's property group.
// Rejections are returned as typed errors: domain.ErrNoPropertyName when the
// dependency is not property-indirected (the trivial direct path is handled
// by the caller), domain.ErrGroupInconsistent when the index disagrees with
// the dependency, *domain.CandidateUnavailableError when a member's catalog
// lacks the candidate, *domain.CatalogLookupError when strict lookups turn a
// failed listing into a rejection, and any locator error when a member's
// declaration cannot be found.
//
// Two invocations on the same snapshot and candidate yield identical plan
// sequences: group order is parse order and nothing here is randomized.
func (p *CoordinatedUpdatePlanner) Plan(
	ctx context.Context,
	dep domain.Dependency,
	candidate domain.VersionCandidate,
) ([]domain.UpdatePlan, error) {
	req, ok := dep.PropertyRequirement()
	if !ok {
		return nil, domain.ErrNoPropertyName
	}
	property := req.Metadata.PropertyName

	group := p.index.Group(property)
	if !p.index.Contains(property, dep.Name) {
		return nil, fmt.Errorf("property %q: %w", property, domain.ErrGroupInconsistent)
	}

	logger.Debugf(
		"[%s] property %q groups %d dependencies for candidate %s",
		dep.PackageManager, property, len(group), candidate.Version,
	)

	decision := p.validator.IsCandidateAcceptable(ctx, group, candidate.Version)
	if !decision.Acceptable {
		if len(decision.Unavailable) > 0 {
			return nil, &domain.CandidateUnavailableError{
				Version: candidate.Version,
				Names:   decision.Unavailable,
			}
		}
		return nil, &domain.CatalogLookupError{Names: decision.LookupFailed}
	}

	plans := make([]domain.UpdatePlan, 0, len(group))
	for _, member := range group {
		memberReq, found := member.RequirementForProperty(property)
		if !found {
			return nil, fmt.Errorf("property %q: %w", property, domain.ErrGroupInconsistent)
		}

		decl, err := p.locator.Locate(member, memberReq)
		if err != nil {
			// A single missing declaration fails the whole group; a partial
			// plan must never be observable.
			return nil, err
		}

		plans = append(plans, domain.UpdatePlan{
			Name:                 member.Name,
			PackageManager:       member.PackageManager,
			Version:              candidate.Version,
			Requirements:         p.rewriter.Rewrite(member.Requirements, candidate.Version, []string{property}),
			PreviousVersion:      member.Version,
			PreviousRequirements: member.Requirements,
			PropertyName:         property,
			File:                 decl.File,
			PreviousVersionText:  decl.VersionString,
			NewVersionText:       newVersionText(decl.VersionString, property, candidate.Version),
		})
	}

	return plans, nil
}

// newVersionText rewrites the raw text of the defining declaration. When the
// text carries the property's placeholder, only the token is substituted;
// otherwise the declaring site holds the property's literal definition and
// the candidate replaces it wholesale.
func newVersionText(versionString, property, candidate string) string {
	if domain.ContainsPlaceholder(versionString, property) {
		return domain.SubstitutePlaceholder(versionString, property, candidate)
	}
	return candidate
}
