// Package testdoubles provides test doubles (spies, stubs, dummies) for domain
// interfaces. These are hand-crafted implementations, no mock frameworks.
package testdoubles

import (
	"context"
	"sync"

	"github.com/prashuchaudhary/dependabot-core/domain"
)

// ---------------------------------------------------------------------------
// SpyCatalog
// ---------------------------------------------------------------------------

// SpyCatalog implements domain.VersionCatalog as a configurable spy. The
// validator fans lookups out concurrently, so call tracking is mutex-guarded.
type SpyCatalog struct {
	// VersionsByName maps dependency name -> available versions.
	VersionsByName map[string][]domain.VersionCandidate
	// Err is returned for every lookup when set.
	Err error

	// spy: dependency names that were looked up
	mu      sync.Mutex
	Lookups []string
}

var _ domain.VersionCatalog = (*SpyCatalog)(nil)

func (c *SpyCatalog) VersionsFor(
	_ context.Context,
	dep domain.Dependency,
) ([]domain.VersionCandidate, error) {
	c.mu.Lock()
	c.Lookups = append(c.Lookups, dep.Name)
	c.mu.Unlock()

	if c.Err != nil {
		return nil, c.Err
	}
	return c.VersionsByName[dep.Name], nil
}

// LookupCount returns how many lookups were issued.
func (c *SpyCatalog) LookupCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.Lookups)
}

// ---------------------------------------------------------------------------
// SpyLocator
// ---------------------------------------------------------------------------

// SpyLocator implements domain.DeclarationLocator as a configurable spy.
// Unconfigured dependencies locate to their own requirement text, which is
// the common case for literal declarations.
type SpyLocator struct {
	// Declarations maps dependency name -> declaration to return.
	Declarations map[string]*domain.Declaration
	// Missing marks dependency names whose declaration cannot be found.
	Missing map[string]bool
	// Err is returned for every call when set.
	Err error

	// spy: dependency names that were located
	Located []string
}

var _ domain.DeclarationLocator = (*SpyLocator)(nil)

func (l *SpyLocator) Locate(
	dep domain.Dependency,
	req domain.Requirement,
) (*domain.Declaration, error) {
	l.Located = append(l.Located, dep.Name)

	if l.Err != nil {
		return nil, l.Err
	}
	if l.Missing[dep.Name] {
		return nil, &domain.DeclarationNotFoundError{
			Dependency: dep.Name,
			File:       req.File,
		}
	}
	if decl, ok := l.Declarations[dep.Name]; ok {
		return decl, nil
	}
	return &domain.Declaration{
		File:          req.File,
		VersionString: req.Requirement,
	}, nil
}

// ---------------------------------------------------------------------------
// SpyRewriter
// ---------------------------------------------------------------------------

// RewriteCall records a single invocation of Rewrite.
type RewriteCall struct {
	NewVersion        string
	UpdatedProperties []string
}

// SpyRewriter implements domain.RequirementRewriter: it preserves
// placeholder-bearing requirements and rewrites literals, recording calls.
type SpyRewriter struct {
	Calls []RewriteCall
}

var _ domain.RequirementRewriter = (*SpyRewriter)(nil)

func (w *SpyRewriter) Rewrite(
	reqs []domain.Requirement,
	newVersion string,
	updatedProperties []string,
) []domain.Requirement {
	w.Calls = append(w.Calls, RewriteCall{
		NewVersion:        newVersion,
		UpdatedProperties: updatedProperties,
	})

	result := make([]domain.Requirement, len(reqs))
	for i, req := range reqs {
		result[i] = req
		if !req.IsPropertyIndirected() && newVersion != "" {
			result[i].Requirement = newVersion
		}
	}
	return result
}

// ---------------------------------------------------------------------------
// StubEcosystem
// ---------------------------------------------------------------------------

// StubEcosystem implements domain.Ecosystem with canned responses.
type StubEcosystem struct {
	EcosystemName string
	Coordination  domain.CoordinationMode
	Detected      bool

	Dependencies []domain.Dependency
	ParseErr     error

	StubLocator  domain.DeclarationLocator
	LocatorErr   error
	StubRewriter domain.RequirementRewriter

	// spy: directories passed to Detect and Parse
	DetectedDirs []string
	ParsedDirs   []string
}

var _ domain.Ecosystem = (*StubEcosystem)(nil)

func (e *StubEcosystem) Name() string { return e.EcosystemName }

func (e *StubEcosystem) DefaultCoordination() domain.CoordinationMode {
	if e.Coordination == "" {
		return domain.CoordinationFull
	}
	return e.Coordination
}

func (e *StubEcosystem) Detect(dir string) bool {
	e.DetectedDirs = append(e.DetectedDirs, dir)
	return e.Detected
}

func (e *StubEcosystem) Parse(dir string) ([]domain.Dependency, error) {
	e.ParsedDirs = append(e.ParsedDirs, dir)
	return e.Dependencies, e.ParseErr
}

func (e *StubEcosystem) Locator(string) (domain.DeclarationLocator, error) {
	if e.LocatorErr != nil {
		return nil, e.LocatorErr
	}
	if e.StubLocator != nil {
		return e.StubLocator, nil
	}
	return &SpyLocator{}, nil
}

func (e *StubEcosystem) Rewriter() domain.RequirementRewriter {
	if e.StubRewriter != nil {
		return e.StubRewriter
	}
	return &SpyRewriter{}
}
