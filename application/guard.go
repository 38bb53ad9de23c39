package application

import "github.com/prashuchaudhary/dependabot-core/domain"

// SingleDependencyGuard is the conservative policy for ecosystems that never
// attempt a coordinated rewrite: it refuses to report a dependency as
// independently resolvable when its version property is shared with another
// dependency, so a caller can never emit a partial, inconsistent edit.
type SingleDependencyGuard struct{}

// NewSingleDependencyGuard creates the guard.
func NewSingleDependencyGuard() *SingleDependencyGuard {
	return &SingleDependencyGuard{}
}

// BlocksResolution returns true iff the dependency has a property-indirected
// requirement whose property name is also used by some other dependency in
// the snapshot. Dependencies without property indirection are never blocked.
func (g *SingleDependencyGuard) BlocksResolution(
	dep domain.Dependency,
	all []domain.Dependency,
) bool {
	for _, req := range dep.Requirements {
		property := req.Metadata.PropertyName
		if property == "" {
			continue
		}
		for _, other := range all {
			if other.Name == dep.Name {
				continue
			}
			for _, otherReq := range other.Requirements {
				if otherReq.Metadata.PropertyName == property {
					return true
				}
			}
		}
	}
	return false
}
