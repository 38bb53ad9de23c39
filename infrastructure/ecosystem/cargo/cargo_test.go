package cargo_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prashuchaudhary/dependabot-core/domain"
	"github.com/prashuchaudhary/dependabot-core/infrastructure/ecosystem/cargo"
)

const workspaceManifest = `[workspace]
members = ["crates/app"]

[workspace.dependencies]
serde = "1.0.190"
tokio = { version = "1.35.0", features = ["full"] }
`

const memberManifest = `[package]
name = "app"

[dependencies]
serde = { workspace = true }
anyhow = "1.0.75"

[dev-dependencies]
tokio = { workspace = true }
`

func writeManifest(t *testing.T, dir, rel, content string) {
	t.Helper()

	path := filepath.Join(dir, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func findDep(deps []domain.Dependency, name string) (domain.Dependency, bool) {
	for _, dep := range deps {
		if dep.Name == name {
			return dep, true
		}
	}
	return domain.Dependency{}, false
}

func TestEcosystem_Detect(t *testing.T) {
	t.Parallel()

	t.Run("should detect a directory with a root Cargo.toml", func(t *testing.T) {
		t.Parallel()

		// given
		dir := t.TempDir()
		writeManifest(t, dir, "Cargo.toml", workspaceManifest)

		// then
		assert.True(t, cargo.New().Detect(dir))
	})

	t.Run("should not detect a directory without Cargo.toml", func(t *testing.T) {
		t.Parallel()

		assert.False(t, cargo.New().Detect(t.TempDir()))
	})
}

func TestEcosystem_Parse(t *testing.T) {
	t.Parallel()

	t.Run("should resolve workspace references to the shared version", func(t *testing.T) {
		t.Parallel()

		// given
		dir := t.TempDir()
		writeManifest(t, dir, "Cargo.toml", workspaceManifest)
		writeManifest(t, dir, "crates/app/Cargo.toml", memberManifest)

		// when
		deps, err := cargo.New().Parse(dir)

		// then
		require.NoError(t, err)

		serde, ok := findDep(deps, "serde")
		require.True(t, ok)
		assert.Equal(t, "1.0.190", serde.Version)

		memberReq, found := serde.RequirementForProperty("workspace.dependencies.serde")
		require.True(t, found)
		assert.Equal(t, "${workspace.dependencies.serde}", memberReq.Requirement)
		assert.Equal(t, filepath.Join("crates", "app", "Cargo.toml"), memberReq.File)
	})

	t.Run("should keep literal member dependencies untagged", func(t *testing.T) {
		t.Parallel()

		// given
		dir := t.TempDir()
		writeManifest(t, dir, "Cargo.toml", workspaceManifest)
		writeManifest(t, dir, "crates/app/Cargo.toml", memberManifest)

		// when
		deps, err := cargo.New().Parse(dir)

		// then
		require.NoError(t, err)

		anyhow, ok := findDep(deps, "anyhow")
		require.True(t, ok)
		assert.Equal(t, "1.0.75", anyhow.Version)
		require.Len(t, anyhow.Requirements, 1)
		assert.False(t, anyhow.Requirements[0].IsPropertyIndirected())
	})

	t.Run("should read versions from dependency tables", func(t *testing.T) {
		t.Parallel()

		// given tokio is declared as an inline table with extra keys
		dir := t.TempDir()
		writeManifest(t, dir, "Cargo.toml", workspaceManifest)

		// when
		deps, err := cargo.New().Parse(dir)

		// then
		require.NoError(t, err)

		tokio, ok := findDep(deps, "tokio")
		require.True(t, ok)
		assert.Equal(t, "1.35.0", tokio.Version)
	})

	t.Run("should fail when no Cargo.toml exists", func(t *testing.T) {
		t.Parallel()

		// when
		deps, err := cargo.New().Parse(t.TempDir())

		// then
		require.Error(t, err)
		assert.Nil(t, deps)
	})
}

func TestEcosystem_Locator(t *testing.T) {
	t.Parallel()

	t.Run("should locate the workspace table entry", func(t *testing.T) {
		t.Parallel()

		// given
		dir := t.TempDir()
		writeManifest(t, dir, "Cargo.toml", workspaceManifest)
		writeManifest(t, dir, "crates/app/Cargo.toml", memberManifest)
		eco := cargo.New()
		deps, err := eco.Parse(dir)
		require.NoError(t, err)
		serde, ok := findDep(deps, "serde")
		require.True(t, ok)
		req, found := serde.RequirementForProperty("workspace.dependencies.serde")
		require.True(t, found)

		locator, err := eco.Locator(dir)
		require.NoError(t, err)

		// when
		decl, err := locator.Locate(serde, req)

		// then
		require.NoError(t, err)
		assert.Equal(t, "Cargo.toml", decl.File)
		assert.Equal(t, "1.0.190", decl.VersionString)
	})

	t.Run("should report a workspace reference with no table entry", func(t *testing.T) {
		t.Parallel()

		// given a member referencing a crate the workspace never declares
		dir := t.TempDir()
		writeManifest(t, dir, "Cargo.toml", `[workspace]
members = ["crates/app"]
`)
		writeManifest(t, dir, "crates/app/Cargo.toml", `[package]
name = "app"

[dependencies]
serde = { workspace = true }
`)
		eco := cargo.New()
		deps, err := eco.Parse(dir)
		require.NoError(t, err)
		serde, ok := findDep(deps, "serde")
		require.True(t, ok)

		locator, err := eco.Locator(dir)
		require.NoError(t, err)

		// when
		decl, locateErr := locator.Locate(serde, serde.Requirements[0])

		// then
		assert.Nil(t, decl)

		var notFound *domain.DeclarationNotFoundError
		require.ErrorAs(t, locateErr, &notFound)
		assert.Equal(t, "serde", notFound.Dependency)
	})
}
