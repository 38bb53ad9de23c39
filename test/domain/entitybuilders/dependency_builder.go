package entitybuilders //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"github.com/prashuchaudhary/dependabot-core/domain"
	testkit "github.com/rios0rios0/testkit/pkg/test"
)

// DependencyBuilder helps create test dependencies with a fluent interface.
type DependencyBuilder struct {
	*testkit.BaseBuilder
	name           string
	version        string
	source         string
	packageManager string
	requirements   []domain.Requirement
}

// NewDependencyBuilder creates a new dependency builder with sensible defaults.
func NewDependencyBuilder() *DependencyBuilder {
	return &DependencyBuilder{
		BaseBuilder:    testkit.NewBaseBuilder(),
		name:           "test-dependency",
		version:        "1.0.0",
		source:         "example.org/test/dep",
		packageManager: "maven",
	}
}

// WithName sets the dependency name.
func (b *DependencyBuilder) WithName(name string) *DependencyBuilder {
	b.name = name
	return b
}

// WithVersion sets the resolved version.
func (b *DependencyBuilder) WithVersion(version string) *DependencyBuilder {
	b.version = version
	return b
}

// WithSource sets the source URL/path.
func (b *DependencyBuilder) WithSource(source string) *DependencyBuilder {
	b.source = source
	return b
}

// WithPackageManager sets the package manager name.
func (b *DependencyBuilder) WithPackageManager(name string) *DependencyBuilder {
	b.packageManager = name
	return b
}

// WithLiteralRequirement appends a requirement declared with a literal version.
func (b *DependencyBuilder) WithLiteralRequirement(file, text string) *DependencyBuilder {
	b.requirements = append(b.requirements, domain.Requirement{
		File:        file,
		Requirement: text,
	})
	return b
}

// WithPropertyRequirement appends a requirement indirected through a shared
// version property. The requirement text is the placeholder form.
func (b *DependencyBuilder) WithPropertyRequirement(file, property string) *DependencyBuilder {
	b.requirements = append(b.requirements, domain.Requirement{
		File:        file,
		Requirement: domain.Placeholder(property),
		Metadata: domain.RequirementMetadata{
			PropertyName: property,
		},
	})
	return b
}

// Build creates the dependency (satisfies testkit.Builder interface).
func (b *DependencyBuilder) Build() interface{} {
	return b.BuildDependency()
}

// BuildDependency creates the dependency with a concrete return type.
func (b *DependencyBuilder) BuildDependency() domain.Dependency {
	return domain.Dependency{
		Name:           b.name,
		Version:        b.version,
		Source:         b.source,
		PackageManager: b.packageManager,
		Requirements:   b.requirements,
	}
}
