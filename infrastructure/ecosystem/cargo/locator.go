package cargo

import "github.com/prashuchaudhary/dependabot-core/domain"

// locator resolves declarations against the workspace dependency table.
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

	def, ok := l.properties[req.Metadata.PropertyName]
	if !ok {
		return nil, &domain.DeclarationNotFoundError{
			Dependency: dep.Name,
			File:       req.File,
		}
	}

	return &domain.Declaration{
		File:          def.file,
		VersionString: def.value,
	}, nil
}
