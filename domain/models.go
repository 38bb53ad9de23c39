package domain

// Dependency represents a single named dependency parsed from a project's
// manifest files. Values are immutable once parsed; an update produces a new
// value (carried inside an UpdatePlan), never a mutation in place.
type Dependency struct {
	Name           string        // Dependency identity, unique per package manager
	Version        string        // Current resolved version; may be empty for property-only declarations
	Source         string        // Source URL/path used for catalog lookups
	Requirements   []Requirement // All declarations of this dependency, in parse order
	PackageManager string        // Ecosystem tag (e.g. "maven", "terraform")
}

// Requirement is one declaration of a dependency inside one manifest file.
type Requirement struct {
	File        string // Manifest file the declaration came from
	Requirement string // Raw version constraint text; may be a placeholder like "${name}"
	Metadata    RequirementMetadata
}

// RequirementMetadata carries parse-time annotations for a requirement.
type RequirementMetadata struct {
	// PropertyName is non-empty iff the requirement's version text is
	// indirected through a named, shared property instead of a literal.
	PropertyName string
}

// IsPropertyIndirected reports whether the requirement resolves through a
// named property rather than a literal version string.
func (r Requirement) IsPropertyIndirected() bool {
	return r.Metadata.PropertyName != ""
}

// PropertyRequirement returns the first property-indirected requirement of
// the dependency, if any.
func (d Dependency) PropertyRequirement() (Requirement, bool) {
	for _, req := range d.Requirements {
		if req.IsPropertyIndirected() {
			return req, true
		}
	}
	return Requirement{}, false
}

// RequirementForProperty returns the first requirement indirected through the
// given property name.
func (d Dependency) RequirementForProperty(property string) (Requirement, bool) {
	for _, req := range d.Requirements {
		if req.Metadata.PropertyName == property {
			return req, true
		}
	}
	return Requirement{}, false
}

// VersionCandidate is a version under evaluation, with the provenance needed
// to rewrite requirement text once the group accepts it.
type VersionCandidate struct {
	Version    string
	SourceURL  string
	ListingURL string
}

// UpdatePlan is the planned edit for one dependency of an accepted property
// group. Plans for a group are produced together or not at all.
type UpdatePlan struct {
	Name           string
	PackageManager string

	Version      string
	Requirements []Requirement

	PreviousVersion      string
	PreviousRequirements []Requirement

	// Provenance of the defining declaration being rewritten.
	PropertyName        string
	File                string
	PreviousVersionText string
	NewVersionText      string
}
