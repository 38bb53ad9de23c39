package domain

import "context"

// VersionCatalog answers "which versions exist for this dependency?". Each
// grouped dependency may resolve against a different registry or source, so
// lookups are always per dependency. An empty result means "no information"
// and is treated permissively by the validator, never as a rejection.
type VersionCatalog interface {
	// VersionsFor returns the known available versions for a dependency,
	// ordered newest first when the catalog can order them.
	VersionsFor(ctx context.Context, dep Dependency) ([]VersionCandidate, error)
}

// Declaration is the literal manifest fragment currently declaring a
// requirement. VersionString is the raw version text at the declaring site:
// it may carry a property placeholder rather than a resolved literal.
type Declaration struct {
	File          string
	VersionString string
}

// DeclarationLocator finds the manifest fragment declaring a requirement.
// For property-indirected requirements this is the property's defining
// declaration, resolved through at most MaxNestingDepth levels of nesting.
// A missing declaration is reported as DeclarationNotFoundError.
type DeclarationLocator interface {
	Locate(dep Dependency, req Requirement) (*Declaration, error)
}

// RequirementRewriter recomputes requirement texts for a new version. The
// updatedProperties set tells the rewriter which placeholders are being
// redefined elsewhere and must be preserved verbatim; literal requirements
// are rewritten in place.
type RequirementRewriter interface {
	Rewrite(reqs []Requirement, newVersion string, updatedProperties []string) []Requirement
}
