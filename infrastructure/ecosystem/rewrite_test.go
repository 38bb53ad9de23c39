package ecosystem_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prashuchaudhary/dependabot-core/domain"
	"github.com/prashuchaudhary/dependabot-core/infrastructure/ecosystem"
)

func TestPropertyAwareRewriter_Rewrite(t *testing.T) {
	t.Parallel()

	t.Run("should preserve placeholder requirements verbatim", func(t *testing.T) {
		t.Parallel()

		// given
		reqs := []domain.Requirement{
			{
				File:        "pom.xml",
				Requirement: "${shared.version}",
				Metadata:    domain.RequirementMetadata{PropertyName: "shared.version"},
			},
		}
		rewriter := ecosystem.NewPropertyAwareRewriter()

		// when
		result := rewriter.Rewrite(reqs, "1.2.0", []string{"shared.version"})

		// then
		require.Len(t, result, 1)
		assert.Equal(t, "${shared.version}", result[0].Requirement)
	})

	t.Run("should preserve placeholders of properties outside the update", func(t *testing.T) {
		t.Parallel()

		// given a requirement indirected through an unrelated property
		reqs := []domain.Requirement{
			{
				File:        "pom.xml",
				Requirement: "${other.version}",
				Metadata:    domain.RequirementMetadata{PropertyName: "other.version"},
			},
		}
		rewriter := ecosystem.NewPropertyAwareRewriter()

		// when
		result := rewriter.Rewrite(reqs, "1.2.0", []string{"shared.version"})

		// then the unrelated indirection is untouched
		require.Len(t, result, 1)
		assert.Equal(t, "${other.version}", result[0].Requirement)
	})

	t.Run("should rewrite literal requirements", func(t *testing.T) {
		t.Parallel()

		// given
		reqs := []domain.Requirement{
			{File: "pom.xml", Requirement: "1.0.0"},
		}
		rewriter := ecosystem.NewPropertyAwareRewriter()

		// when
		result := rewriter.Rewrite(reqs, "1.2.0", nil)

		// then
		require.Len(t, result, 1)
		assert.Equal(t, "1.2.0", result[0].Requirement)
	})

	t.Run("should not mutate the input slice", func(t *testing.T) {
		t.Parallel()

		// given
		reqs := []domain.Requirement{
			{File: "pom.xml", Requirement: "1.0.0"},
		}
		rewriter := ecosystem.NewPropertyAwareRewriter()

		// when
		_ = rewriter.Rewrite(reqs, "1.2.0", nil)

		// then
		assert.Equal(t, "1.0.0", reqs[0].Requirement)
	})
}

func TestAccumulator(t *testing.T) {
	t.Parallel()

	t.Run("should merge requirements across files", func(t *testing.T) {
		t.Parallel()

		// given
		acc := ecosystem.NewAccumulator("maven")

		// when
		acc.Add("org.example:lib-a", "1.0.0", "",
			domain.Requirement{File: "pom.xml", Requirement: "${shared.version}"})
		acc.Add("org.example:lib-a", "", "",
			domain.Requirement{File: "child/pom.xml", Requirement: "${shared.version}"})
		deps := acc.List()

		// then
		require.Len(t, deps, 1)
		assert.Equal(t, "1.0.0", deps[0].Version)
		assert.Len(t, deps[0].Requirements, 2)
	})

	t.Run("should keep the first non-empty version", func(t *testing.T) {
		t.Parallel()

		// given
		acc := ecosystem.NewAccumulator("maven")

		// when
		acc.Add("org.example:lib-a", "", "", domain.Requirement{File: "a"})
		acc.Add("org.example:lib-a", "1.0.0", "", domain.Requirement{File: "b"})
		acc.Add("org.example:lib-a", "2.0.0", "", domain.Requirement{File: "c"})
		deps := acc.List()

		// then
		require.Len(t, deps, 1)
		assert.Equal(t, "1.0.0", deps[0].Version)
	})

	t.Run("should list dependencies in first-seen order", func(t *testing.T) {
		t.Parallel()

		// given
		acc := ecosystem.NewAccumulator("maven")

		// when
		acc.Add("z", "1.0.0", "", domain.Requirement{File: "pom.xml"})
		acc.Add("a", "1.0.0", "", domain.Requirement{File: "pom.xml"})
		deps := acc.List()

		// then
		require.Len(t, deps, 2)
		assert.Equal(t, "z", deps[0].Name)
		assert.Equal(t, "a", deps[1].Name)
	})
}
