package cargo

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/pelletier/go-toml/v2"

	"github.com/prashuchaudhary/dependabot-core/domain"
	ecosystemPkg "github.com/prashuchaudhary/dependabot-core/infrastructure/ecosystem"
)

const (
	ecosystemName  = "cargo"
	propertyPrefix = "workspace.dependencies."
)

// Ecosystem implements domain.Ecosystem for Cargo workspaces. A member crate
// declaring `serde = { workspace = true }` is indirected through the
// workspace-level [workspace.dependencies] entry, which is the single point
// of definition for the version.
type Ecosystem struct{}

// New creates a new Cargo ecosystem.
func New() domain.Ecosystem {
	return &Ecosystem{}
}

func (e *Ecosystem) Name() string { return ecosystemName }

// DefaultCoordination is veto: each crate name maps to its own workspace
// property, so the conservative guard is the cheaper default. Configuration
// can opt a project into full coordination.
func (e *Ecosystem) DefaultCoordination() domain.CoordinationMode {
	return domain.CoordinationVeto
}

// Detect returns true if the directory has a root Cargo.toml.
func (e *Ecosystem) Detect(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, "Cargo.toml"))
	return err == nil
}

// Parse reads every Cargo.toml under dir (workspace root and members) and
// returns the declared dependencies, merged by crate name across files.
func (e *Ecosystem) Parse(dir string) ([]domain.Dependency, error) {
	manifests, err := parseCargoFiles(dir)
	if err != nil {
		return nil, err
	}

	properties := workspaceProperties(manifests)
	acc := ecosystemPkg.NewAccumulator(ecosystemName)

	for _, manifest := range manifests {
		for _, name := range sortedKeys(manifest.content.Workspace.Dependencies) {
			version, _ := dependencyVersion(manifest.content.Workspace.Dependencies[name])
			if version == "" {
				continue
			}
			acc.Add(name, version, "", domain.Requirement{
				File:        manifest.path,
				Requirement: version,
			})
		}

		for _, section := range manifest.content.dependencySections() {
			for _, name := range sortedKeys(section) {
				version, workspaceRef := dependencyVersion(section[name])

				req := domain.Requirement{File: manifest.path}
				if workspaceRef {
					property := propertyPrefix + name
					req.Requirement = domain.Placeholder(property)
					req.Metadata.PropertyName = property
					if def, ok := properties[property]; ok {
						version = def.value
					}
				} else if version != "" {
					req.Requirement = version
				} else {
					continue
				}

				acc.Add(name, version, "", req)
			}
		}
	}

	return acc.List(), nil
}

// Locator returns a declaration locator over the [workspace.dependencies]
// entries under dir.
func (e *Ecosystem) Locator(dir string) (domain.DeclarationLocator, error) {
	manifests, err := parseCargoFiles(dir)
	if err != nil {
		return nil, err
	}
	return &locator{properties: workspaceProperties(manifests)}, nil
}

func (e *Ecosystem) Rewriter() domain.RequirementRewriter {
	return ecosystemPkg.NewPropertyAwareRewriter()
}

// --- manifest parsing ---

type cargoFile struct {
	path    string
	content cargoManifest
}

type cargoManifest struct {
	Package struct {
		Name string `toml:"name"`
	} `toml:"package"`
	Workspace struct {
		Members      []string       `toml:"members"`
		Dependencies map[string]any `toml:"dependencies"`
	} `toml:"workspace"`
	Dependencies      map[string]any `toml:"dependencies"`
	DevDependencies   map[string]any `toml:"dev-dependencies"`
	BuildDependencies map[string]any `toml:"build-dependencies"`
}

func (m cargoManifest) dependencySections() []map[string]any {
	return []map[string]any{m.Dependencies, m.DevDependencies, m.BuildDependencies}
}

func parseCargoFiles(dir string) ([]cargoFile, error) {
	var manifests []cargoFile

	walkErr := filepath.WalkDir(dir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			if entry.Name() == "target" {
				return filepath.SkipDir
			}
			return nil
		}
		if entry.Name() != "Cargo.toml" {
			return nil
		}

		data, readErr := os.ReadFile(path)
		if readErr != nil {
			return fmt.Errorf("failed to read %s: %w", path, readErr)
		}

		var manifest cargoManifest
		if parseErr := toml.Unmarshal(data, &manifest); parseErr != nil {
			return fmt.Errorf("failed to parse %s: %w", path, parseErr)
		}

		rel, relErr := filepath.Rel(dir, path)
		if relErr != nil {
			rel = path
		}
		manifests = append(manifests, cargoFile{path: rel, content: manifest})
		return nil
	})
	if walkErr != nil {
		return nil, walkErr
	}

	if len(manifests) == 0 {
		return nil, fmt.Errorf("no Cargo.toml found under %s", dir)
	}
	return manifests, nil
}

// dependencyVersion interprets one dependency value: a bare string, a table
// with a version key, or a { workspace = true } reference.
func dependencyVersion(value any) (string, bool) {
	switch v := value.(type) {
	case string:
		return v, false
	case map[string]any:
		if ws, ok := v["workspace"].(bool); ok && ws {
			return "", true
		}
		if version, ok := v["version"].(string); ok {
			return version, false
		}
	}
	return "", false
}

type propertyDefinition struct {
	file  string
	value string
}

func workspaceProperties(manifests []cargoFile) map[string]propertyDefinition {
	properties := make(map[string]propertyDefinition)
	for _, manifest := range manifests {
		for name, raw := range manifest.content.Workspace.Dependencies {
			version, _ := dependencyVersion(raw)
			if version == "" {
				continue
			}
			property := propertyPrefix + name
			if _, exists := properties[property]; exists {
				continue
			}
			properties[property] = propertyDefinition{file: manifest.path, value: version}
		}
	}
	return properties
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
