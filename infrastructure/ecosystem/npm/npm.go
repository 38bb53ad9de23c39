package npm

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/prashuchaudhary/dependabot-core/domain"
	ecosystemPkg "github.com/prashuchaudhary/dependabot-core/infrastructure/ecosystem"
)

const (
	ecosystemName = "npm"
	aliasPrefix   = "npm:"
)

// Ecosystem implements domain.Ecosystem for npm/Yarn manifests. The sharing
// relation here is the alias form `"name": "npm:target@version"`: several
// entries aliasing the same target are pinned to the same upstream package,
// so updating one of them alone would desynchronize the set.
type Ecosystem struct{}

// New creates a new npm ecosystem.
func New() domain.Ecosystem {
	return &Ecosystem{}
}

func (e *Ecosystem) Name() string { return ecosystemName }

// DefaultCoordination is veto: alias targets have no single point of
// definition to rewrite, so the conservative guard is the safe default.
func (e *Ecosystem) DefaultCoordination() domain.CoordinationMode {
	return domain.CoordinationVeto
}

// Detect returns true if the directory has a root package.json.
func (e *Ecosystem) Detect(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, "package.json"))
	return err == nil
}

// Parse reads every package.json under dir (workspaces included, node_modules
// skipped) and returns the declared dependencies.
func (e *Ecosystem) Parse(dir string) ([]domain.Dependency, error) {
	manifests, err := parsePackageFiles(dir)
	if err != nil {
		return nil, err
	}

	acc := ecosystemPkg.NewAccumulator(ecosystemName)

	for _, manifest := range manifests {
		for _, section := range manifest.content.dependencySections() {
			for _, name := range sortedKeys(section) {
				raw := section[name]
				req := domain.Requirement{File: manifest.path, Requirement: raw}

				version := raw
				source := ""
				if target, aliasVersion, isAlias := parseAlias(raw); isAlias {
					req.Metadata.PropertyName = target
					version = aliasVersion
					source = target
				}

				acc.Add(name, version, source, req)
			}
		}
	}

	return acc.List(), nil
}

// Locator returns the declaration locator for package.json entries. Every
// requirement declares itself: aliases carry their own version text instead
// of referencing a separate definition.
func (e *Ecosystem) Locator(string) (domain.DeclarationLocator, error) {
	return &locator{}, nil
}

func (e *Ecosystem) Rewriter() domain.RequirementRewriter {
	return &rewriter{}
}

// --- manifest parsing ---

type packageFile struct {
	path    string
	content packageManifest
}

type packageManifest struct {
	Name             string            `json:"name"`
	Dependencies     map[string]string `json:"dependencies"`
	DevDependencies  map[string]string `json:"devDependencies"`
	PeerDependencies map[string]string `json:"peerDependencies"`
}

func (m packageManifest) dependencySections() []map[string]string {
	return []map[string]string{m.Dependencies, m.DevDependencies, m.PeerDependencies}
}

func parsePackageFiles(dir string) ([]packageFile, error) {
	var manifests []packageFile

	walkErr := filepath.WalkDir(dir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			if entry.Name() == "node_modules" {
				return filepath.SkipDir
			}
			return nil
		}
		if entry.Name() != "package.json" {
			return nil
		}

		data, readErr := os.ReadFile(path)
		if readErr != nil {
			return fmt.Errorf("failed to read %s: %w", path, readErr)
		}

		var manifest packageManifest
		if parseErr := json.Unmarshal(data, &manifest); parseErr != nil {
			return fmt.Errorf("failed to parse %s: %w", path, parseErr)
		}

		rel, relErr := filepath.Rel(dir, path)
		if relErr != nil {
			rel = path
		}
		manifests = append(manifests, packageFile{path: rel, content: manifest})
		return nil
	})
	if walkErr != nil {
		return nil, walkErr
	}

	if len(manifests) == 0 {
		return nil, fmt.Errorf("no package.json found under %s", dir)
	}
	return manifests, nil
}

// parseAlias splits "npm:target@version" into its target and version. Scoped
// targets ("npm:@scope/pkg@^1.0.0") keep their leading @.
func parseAlias(raw string) (string, string, bool) {
	if !strings.HasPrefix(raw, aliasPrefix) {
		return "", "", false
	}
	rest := strings.TrimPrefix(raw, aliasPrefix)

	at := strings.LastIndex(rest, "@")
	if at <= 0 {
		return "", "", false
	}
	return rest[:at], rest[at+1:], true
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// --- collaborators ---

type locator struct{}

var _ domain.DeclarationLocator = (*locator)(nil)

func (l *locator) Locate(
	_ domain.Dependency,
	req domain.Requirement,
) (*domain.Declaration, error) {
	if _, version, isAlias := parseAlias(req.Requirement); isAlias {
		return &domain.Declaration{File: req.File, VersionString: version}, nil
	}
	return &domain.Declaration{File: req.File, VersionString: req.Requirement}, nil
}

// rewriter rebuilds alias strings around the new version; plain requirements
// are rewritten in place.
type rewriter struct{}

var _ domain.RequirementRewriter = (*rewriter)(nil)

func (w *rewriter) Rewrite(
	reqs []domain.Requirement,
	newVersion string,
	updatedProperties []string,
) []domain.Requirement {
	updated := make(map[string]bool, len(updatedProperties))
	for _, p := range updatedProperties {
		updated[p] = true
	}

	result := make([]domain.Requirement, len(reqs))
	for i, req := range reqs {
		result[i] = req
		if newVersion == "" {
			continue
		}
		if target, _, isAlias := parseAlias(req.Requirement); isAlias {
			if updated[target] {
				result[i].Requirement = aliasPrefix + target + "@" + newVersion
			}
			continue
		}
		result[i].Requirement = newVersion
	}
	return result
}
