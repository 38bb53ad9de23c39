package ecosystem

import "github.com/prashuchaudhary/dependabot-core/domain"

// PropertyAwareRewriter is the requirement rewriter shared by ecosystems
// whose manifests use ${name}-style placeholders. Requirements indirected
// through an updated property keep their placeholder text verbatim (the
// property's defining declaration is rewritten elsewhere); literal
// requirements are rewritten in place.
type PropertyAwareRewriter struct{}

// NewPropertyAwareRewriter creates the shared rewriter.
func NewPropertyAwareRewriter() *PropertyAwareRewriter {
	return &PropertyAwareRewriter{}
}

// Rewrite implements domain.RequirementRewriter. The input slice is never
// mutated; a fresh slice is returned.
//
// updatedProperties is unused here: an updated property is rewritten at its
// defining declaration and a property outside the update must not change at
// all, so placeholder text stays verbatim in both cases. Ecosystems that
// encode the property inside the requirement text itself (npm aliases)
// consult the set in their own rewriters.
func (w *PropertyAwareRewriter) Rewrite(
	reqs []domain.Requirement,
	newVersion string,
	_ []string,
) []domain.Requirement {
	result := make([]domain.Requirement, len(reqs))
	for i, req := range reqs {
		result[i] = req
		if req.IsPropertyIndirected() {
			continue
		}
		if newVersion != "" {
			result[i].Requirement = newVersion
		}
	}
	return result
}

var _ domain.RequirementRewriter = (*PropertyAwareRewriter)(nil)
