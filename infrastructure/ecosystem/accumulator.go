package ecosystem

import "github.com/prashuchaudhary/dependabot-core/domain"

// Accumulator merges dependency declarations found across manifest files into
// one Dependency per name, preserving first-seen order. A dependency's name
// is unique within a manifest snapshot for a given package manager, but its
// requirements may come from many files.
type Accumulator struct {
	packageManager string
	order          []string
	byName         map[string]*domain.Dependency
}

// NewAccumulator creates an accumulator for one package manager.
func NewAccumulator(packageManager string) *Accumulator {
	return &Accumulator{
		packageManager: packageManager,
		byName:         make(map[string]*domain.Dependency),
	}
}

// Add records one declaration. The version and source stick on first
// non-empty sighting; every requirement is appended in call order.
func (a *Accumulator) Add(name, version, source string, req domain.Requirement) {
	dep, ok := a.byName[name]
	if !ok {
		dep = &domain.Dependency{
			Name:           name,
			PackageManager: a.packageManager,
		}
		a.byName[name] = dep
		a.order = append(a.order, name)
	}
	if dep.Version == "" {
		dep.Version = version
	}
	if dep.Source == "" {
		dep.Source = source
	}
	dep.Requirements = append(dep.Requirements, req)
}

// List returns the accumulated dependencies in first-seen order.
func (a *Accumulator) List() []domain.Dependency {
	result := make([]domain.Dependency, 0, len(a.order))
	for _, name := range a.order {
		result = append(result, *a.byName[name])
	}
	return result
}
