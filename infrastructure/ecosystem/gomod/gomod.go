package gomod

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/mod/modfile"

	"github.com/prashuchaudhary/dependabot-core/domain"
	ecosystemPkg "github.com/prashuchaudhary/dependabot-core/infrastructure/ecosystem"
)

const ecosystemName = "gomod"

// Ecosystem implements domain.Ecosystem for Go modules. go.mod has no
// property indirection at all, so every dependency takes the trivial direct
// path and the guard never blocks. It exists so callers get a uniform answer
// across ecosystems instead of a special case.
type Ecosystem struct{}

// New creates a new Go modules ecosystem.
func New() domain.Ecosystem {
	return &Ecosystem{}
}

func (e *Ecosystem) Name() string { return ecosystemName }

func (e *Ecosystem) DefaultCoordination() domain.CoordinationMode {
	return domain.CoordinationVeto
}

// Detect returns true if the directory has a go.mod.
func (e *Ecosystem) Detect(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, "go.mod"))
	return err == nil
}

// Parse reads the root go.mod and returns its direct requirements.
func (e *Ecosystem) Parse(dir string) ([]domain.Dependency, error) {
	path := filepath.Join(dir, "go.mod")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	file, err := modfile.Parse("go.mod", data, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	acc := ecosystemPkg.NewAccumulator(ecosystemName)
	for _, require := range file.Require {
		if require.Indirect {
			continue
		}
		acc.Add(
			require.Mod.Path,
			require.Mod.Version,
			"https://"+require.Mod.Path,
			domain.Requirement{
				File:        "go.mod",
				Requirement: require.Mod.Version,
			},
		)
	}

	return acc.List(), nil
}

// Locator returns the trivial locator: every go.mod requirement declares
// itself.
func (e *Ecosystem) Locator(string) (domain.DeclarationLocator, error) {
	return &locator{}, nil
}

func (e *Ecosystem) Rewriter() domain.RequirementRewriter {
	return ecosystemPkg.NewPropertyAwareRewriter()
}

type locator struct{}

var _ domain.DeclarationLocator = (*locator)(nil)

func (l *locator) Locate(
	_ domain.Dependency,
	req domain.Requirement,
) (*domain.Declaration, error) {
	return &domain.Declaration{
		File:          req.File,
		VersionString: req.Requirement,
	}, nil
}
