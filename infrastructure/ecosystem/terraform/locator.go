package terraform

import (
	"errors"

	"github.com/prashuchaudhary/dependabot-core/domain"
)

// locator resolves declarations against the snapshot's locals. Literal
// requirements declare themselves; property requirements resolve to the
// locals entry that defines the shared value.
type locator struct {
	locals map[string]localDefinition
}

var _ domain.DeclarationLocator = (*locator)(nil)

func (l *locator) Locate(
	dep domain.Dependency,
	req domain.Requirement,
) (*domain.Declaration, error) {
	if !req.IsPropertyIndirected() {
		return &domain.Declaration{
			File:          req.File,
			VersionString: req.Requirement,
		}, nil
	}

	def, err := resolveLocal(l.locals, req.Metadata.PropertyName)
	if err != nil {
		var nesting *domain.UnresolvableNestingError
		if errors.As(err, &nesting) {
			return nil, err
		}
		return nil, &domain.DeclarationNotFoundError{
			Dependency: dep.Name,
			File:       req.File,
		}
	}

	return &domain.Declaration{
		File:          def.file,
		VersionString: def.literal,
	}, nil
}
