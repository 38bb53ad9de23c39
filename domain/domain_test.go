package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prashuchaudhary/dependabot-core/domain"
)

func TestPlaceholder(t *testing.T) {
	t.Parallel()

	t.Run("should build the placeholder token", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, "${shared.version}", domain.Placeholder("shared.version"))
	})

	t.Run("should detect the token inside text", func(t *testing.T) {
		t.Parallel()

		assert.True(t, domain.ContainsPlaceholder("${shared.version}-release", "shared.version"))
		assert.False(t, domain.ContainsPlaceholder("1.2.0", "shared.version"))
	})

	t.Run("should substitute only the token", func(t *testing.T) {
		t.Parallel()

		// when
		result := domain.SubstitutePlaceholder("${shared.version}-release", "shared.version", "1.2.0")

		// then
		assert.Equal(t, "1.2.0-release", result)
	})

	t.Run("should not touch other properties' tokens", func(t *testing.T) {
		t.Parallel()

		// when
		result := domain.SubstitutePlaceholder("${other.version}", "shared.version", "1.2.0")

		// then
		assert.Equal(t, "${other.version}", result)
	})
}

func TestDependency_PropertyRequirement(t *testing.T) {
	t.Parallel()

	t.Run("should return the first indirected requirement", func(t *testing.T) {
		t.Parallel()

		// given
		dep := domain.Dependency{
			Name: "org.example:lib-a",
			Requirements: []domain.Requirement{
				{File: "pom.xml", Requirement: "1.0.0"},
				{
					File:        "child/pom.xml",
					Requirement: "${shared.version}",
					Metadata:    domain.RequirementMetadata{PropertyName: "shared.version"},
				},
			},
		}

		// when
		req, ok := dep.PropertyRequirement()

		// then
		require.True(t, ok)
		assert.Equal(t, "shared.version", req.Metadata.PropertyName)
		assert.True(t, req.IsPropertyIndirected())
	})

	t.Run("should report literal-only dependencies", func(t *testing.T) {
		t.Parallel()

		// given
		dep := domain.Dependency{
			Name:         "org.example:plain",
			Requirements: []domain.Requirement{{File: "pom.xml", Requirement: "1.0.0"}},
		}

		// when
		_, ok := dep.PropertyRequirement()

		// then
		assert.False(t, ok)
	})
}

func TestDependency_RequirementForProperty(t *testing.T) {
	t.Parallel()

	t.Run("should match by property name", func(t *testing.T) {
		t.Parallel()

		// given
		dep := domain.Dependency{
			Name: "org.example:lib-a",
			Requirements: []domain.Requirement{
				{
					File:        "pom.xml",
					Requirement: "${a.version}",
					Metadata:    domain.RequirementMetadata{PropertyName: "a.version"},
				},
				{
					File:        "pom.xml",
					Requirement: "${b.version}",
					Metadata:    domain.RequirementMetadata{PropertyName: "b.version"},
				},
			},
		}

		// when
		req, ok := dep.RequirementForProperty("b.version")

		// then
		require.True(t, ok)
		assert.Equal(t, "${b.version}", req.Requirement)

		_, missing := dep.RequirementForProperty("c.version")
		assert.False(t, missing)
	})
}
