package domain

// CoordinationMode selects which policy an ecosystem applies to the shared
// property hazard: a full coordinated rewrite, or a conservative veto that
// refuses to report the dependency as independently resolvable.
type CoordinationMode string

const (
	// CoordinationFull runs the coordinated update planner on the whole
	// property group.
	CoordinationFull CoordinationMode = "full"

	// CoordinationVeto only runs the single-dependency guard.
	CoordinationVeto CoordinationMode = "veto"
)

// Ecosystem abstracts a dependency ecosystem (Maven POMs, Terraform modules,
// Cargo workspaces, etc.). Each implementation owns manifest detection and
// parsing, and provides the locator/rewriter collaborators for its formats.
type Ecosystem interface {
	// Name returns the ecosystem identifier (e.g. "maven", "terraform").
	Name() string

	// DefaultCoordination returns the policy applied when the configuration
	// does not override it.
	DefaultCoordination() CoordinationMode

	// Detect returns true if the given directory uses this ecosystem.
	Detect(dir string) bool

	// Parse reads all manifests under dir and returns the declared
	// dependencies in a stable, deterministic order.
	Parse(dir string) ([]Dependency, error)

	// Locator returns a declaration locator bound to the manifests under dir.
	Locator(dir string) (DeclarationLocator, error)

	// Rewriter returns the ecosystem's requirement rewriter.
	Rewriter() RequirementRewriter
}
