package application

import (
	"sort"

	"github.com/prashuchaudhary/dependabot-core/domain"
)

// PropertyIndex maps each property name to the dependencies whose
// requirements are indirected through it. It is built once per manifest
// snapshot and passed by reference into the validator and planner; it is
// never reused across manifest edits because a new parse must follow any
// write.
type PropertyIndex struct {
	groups map[string][]domain.Dependency
}

// NewPropertyIndex scans the parsed dependencies and groups them by property
// name. Order within a group follows parse order, and a dependency appears at
// most once per (dependency, property) membership.
func NewPropertyIndex(deps []domain.Dependency) *PropertyIndex {
	groups := make(map[string][]domain.Dependency)
	seen := make(map[string]map[string]bool)

	for _, dep := range deps {
		for _, req := range dep.Requirements {
			property := req.Metadata.PropertyName
			if property == "" {
				continue
			}
			if seen[property] == nil {
				seen[property] = make(map[string]bool)
			}
			if seen[property][dep.Name] {
				continue
			}
			seen[property][dep.Name] = true
			groups[property] = append(groups[property], dep)
		}
	}

	return &PropertyIndex{groups: groups}
}

// Group returns the dependencies sharing the given property name, in parse
// order. The result is nil for unknown properties.
func (ix *PropertyIndex) Group(property string) []domain.Dependency {
	return ix.groups[property]
}

// Contains reports whether the named dependency belongs to the property's
// group.
func (ix *PropertyIndex) Contains(property, dependencyName string) bool {
	for _, dep := range ix.groups[property] {
		if dep.Name == dependencyName {
			return true
		}
	}
	return false
}

// Shared reports whether more than one dependency references the property.
func (ix *PropertyIndex) Shared(property string) bool {
	return len(ix.groups[property]) > 1
}

// PropertyNames returns all indexed property names, sorted for deterministic
// iteration.
func (ix *PropertyIndex) PropertyNames() []string {
	names := make([]string, 0, len(ix.groups))
	for name := range ix.groups {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
