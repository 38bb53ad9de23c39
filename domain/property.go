package domain

import "strings"

// MaxNestingDepth bounds how many levels of property-to-property references a
// locator may follow before giving up with UnresolvableNestingError.
const MaxNestingDepth = 2

// Placeholder returns the placeholder token for a property name, e.g.
// "${shared.version}".
func Placeholder(property string) string {
	return "${" + property + "}"
}

// ContainsPlaceholder reports whether the text carries the placeholder token
// for the given property.
func ContainsPlaceholder(text, property string) bool {
	return strings.Contains(text, Placeholder(property))
}

// SubstitutePlaceholder replaces every occurrence of the property's
// placeholder token with the literal version text. The replacement targets
// the token itself, never a resolved value, so the property's single point of
// definition stays authoritative after the edit.
func SubstitutePlaceholder(text, property, literal string) string {
	return strings.ReplaceAll(text, Placeholder(property), literal)
}
