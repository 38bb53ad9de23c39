package maven

import (
	"errors"

	"github.com/prashuchaudhary/dependabot-core/domain"
)

// locator finds the manifest fragment declaring a requirement. For literal
// requirements that is the dependency entry itself; for property-indirected
// requirements it is the property's defining <properties> entry, resolved
// through bounded nesting.
type locator struct {
	properties map[string]propertyDefinition
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

	def, err := resolveProperty(l.properties, req.Metadata.PropertyName)
	if err != nil {
		if errors.Is(err, errPropertyNotDefined) {
			return nil, &domain.DeclarationNotFoundError{
				Dependency: dep.Name,
				File:       req.File,
			}
		}
		return nil, err
	}

	return &domain.Declaration{
		File:          def.file,
		VersionString: def.value,
	}, nil
}
