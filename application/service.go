package application

import (
	"context"
	"errors"
	"fmt"

	logger "github.com/sirupsen/logrus"

	"github.com/prashuchaudhary/dependabot-core/config"
	"github.com/prashuchaudhary/dependabot-core/domain"
	ecosystemPkg "github.com/prashuchaudhary/dependabot-core/infrastructure/ecosystem"
)

// CheckService orchestrates the full update-check flow: detect the
// ecosystem, parse the manifest snapshot, build the property index once, and
// dispatch to the coordinated planner or the single-dependency guard
// according to the ecosystem's coordination policy.
type CheckService struct {
	ecosystems *ecosystemPkg.Registry
	catalog    domain.VersionCatalog
	guard      *SingleDependencyGuard
}

// NewCheckService creates a new service over the given ecosystem registry and
// version catalog.
func NewCheckService(
	ecosystems *ecosystemPkg.Registry,
	catalog domain.VersionCatalog,
) *CheckService {
	return &CheckService{
		ecosystems: ecosystems,
		catalog:    catalog,
		guard:      NewSingleDependencyGuard(),
	}
}

// CheckOptions identifies one update-check request.
type CheckOptions struct {
	Dir            string
	DependencyName string
	Candidate      string
	EcosystemName  string // If set, skip detection and use this ecosystem
	Verbose        bool

	// DryRun computes and returns plans without claiming an applied update;
	// callers must present the result as a preview.
	DryRun bool
}

// CheckResult is the outcome of one update-check request. Exactly one of
// Direct, Blocked, Rejected, or a non-empty Plans describes the decision.
type CheckResult struct {
	Ecosystem string
	Mode      domain.CoordinationMode

	// Direct means the dependency is not property-indirected; the trivial
	// literal update path applies and no coordination is needed.
	Direct bool

	// Blocked means the veto policy refused to report the dependency as
	// independently resolvable.
	Blocked bool

	// Rejected means the coordinated planner failed the group; Reason carries
	// the diagnostic. Callers must not read Rejected as "no update needed".
	Rejected bool
	Reason   string

	// DryRun echoes the request flag: Plans are a preview and the run must
	// not be reported as an applied update.
	DryRun bool

	Plans []domain.UpdatePlan
}

// Check answers "can this dependency be updated to this candidate version?"
// for the manifest snapshot under opts.Dir.
func (s *CheckService) Check(
	ctx context.Context,
	cfg *config.Config,
	opts CheckOptions,
) (*CheckResult, error) {
	if opts.Verbose {
		logger.SetLevel(logger.DebugLevel)
	}

	eco, err := s.resolveEcosystem(cfg, opts.Dir, opts.EcosystemName)
	if err != nil {
		return nil, err
	}

	deps, err := eco.Parse(opts.Dir)
	if err != nil {
		return nil, fmt.Errorf("[%s] failed to parse manifests: %w", eco.Name(), err)
	}

	dep, found := findDependency(deps, opts.DependencyName)
	if !found {
		return nil, fmt.Errorf(
			"[%s] dependency %q not declared in %s",
			eco.Name(), opts.DependencyName, opts.Dir,
		)
	}

	mode := coordinationMode(cfg, eco)
	result := &CheckResult{Ecosystem: eco.Name(), Mode: mode}

	if _, indirected := dep.PropertyRequirement(); !indirected {
		logger.Infof(
			"[%s] %s uses a literal version, direct update path applies",
			eco.Name(), dep.Name,
		)
		result.Direct = true
		return result, nil
	}

	switch mode {
	case domain.CoordinationVeto:
		result.Blocked = s.guard.BlocksResolution(dep, deps)
		if result.Blocked {
			logger.Infof(
				"[%s] %s shares a version property with another dependency, refusing standalone update",
				eco.Name(), dep.Name,
			)
		}
		return result, nil

	case domain.CoordinationFull:
		return s.planCoordinated(ctx, cfg, eco, deps, dep, opts, result)

	default:
		return nil, fmt.Errorf("unknown coordination mode %q", mode)
	}
}

// planCoordinated assembles the snapshot's property index and runs the
// coordinated planner, mapping typed rejections into the result.
func (s *CheckService) planCoordinated(
	ctx context.Context,
	cfg *config.Config,
	eco domain.Ecosystem,
	deps []domain.Dependency,
	dep domain.Dependency,
	opts CheckOptions,
	result *CheckResult,
) (*CheckResult, error) {
	locator, err := eco.Locator(opts.Dir)
	if err != nil {
		return nil, fmt.Errorf("[%s] failed to build locator: %w", eco.Name(), err)
	}

	index := NewPropertyIndex(deps)
	validator := NewGroupValidator(s.catalog, cfg.Policy.StrictLookups)
	planner := NewCoordinatedUpdatePlanner(index, validator, locator, eco.Rewriter())

	plans, err := planner.Plan(ctx, dep, domain.VersionCandidate{Version: opts.Candidate})
	if err != nil {
		if rejection(err) {
			result.Rejected = true
			result.Reason = err.Error()
			logger.Infof("[%s] rejected: %v", eco.Name(), err)
			return result, nil
		}
		return nil, err
	}

	result.Plans = plans
	result.DryRun = opts.DryRun
	if opts.DryRun {
		logger.Infof(
			"[%s] dry run: coordinated update of %d dependencies to %s would be planned",
			eco.Name(), len(plans), opts.Candidate,
		)
	} else {
		logger.Infof(
			"[%s] planned coordinated update of %d dependencies to %s",
			eco.Name(), len(plans), opts.Candidate,
		)
	}
	return result, nil
}

// PropertyGroupView is a printable view of one property group.
type PropertyGroupView struct {
	Property     string
	Dependencies []string
}

// Groups lists every property group in the manifest snapshot under dir.
func (s *CheckService) Groups(
	cfg *config.Config,
	dir, ecosystemName string,
) (string, []PropertyGroupView, error) {
	eco, err := s.resolveEcosystem(cfg, dir, ecosystemName)
	if err != nil {
		return "", nil, err
	}

	deps, err := eco.Parse(dir)
	if err != nil {
		return "", nil, fmt.Errorf("[%s] failed to parse manifests: %w", eco.Name(), err)
	}

	index := NewPropertyIndex(deps)
	views := make([]PropertyGroupView, 0)
	for _, property := range index.PropertyNames() {
		view := PropertyGroupView{Property: property}
		for _, dep := range index.Group(property) {
			view.Dependencies = append(view.Dependencies, dep.Name)
		}
		views = append(views, view)
	}

	return eco.Name(), views, nil
}

// Guard runs only the single-dependency veto check, regardless of the
// ecosystem's coordination mode.
func (s *CheckService) Guard(
	cfg *config.Config,
	dir, ecosystemName, dependencyName string,
) (bool, error) {
	eco, err := s.resolveEcosystem(cfg, dir, ecosystemName)
	if err != nil {
		return false, err
	}

	deps, err := eco.Parse(dir)
	if err != nil {
		return false, fmt.Errorf("[%s] failed to parse manifests: %w", eco.Name(), err)
	}

	dep, found := findDependency(deps, dependencyName)
	if !found {
		return false, fmt.Errorf(
			"[%s] dependency %q not declared in %s", eco.Name(), dependencyName, dir,
		)
	}

	return s.guard.BlocksResolution(dep, deps), nil
}

func (s *CheckService) resolveEcosystem(
	cfg *config.Config,
	dir, name string,
) (domain.Ecosystem, error) {
	if name != "" {
		eco := s.ecosystems.Get(name)
		if eco == nil {
			return nil, fmt.Errorf("unknown ecosystem: %q", name)
		}
		if !enabled(cfg, name) {
			return nil, fmt.Errorf("ecosystem %q is disabled in the configuration", name)
		}
		return eco, nil
	}

	for _, eco := range s.ecosystems.All() {
		if !enabled(cfg, eco.Name()) {
			continue
		}
		if eco.Detect(dir) {
			logger.Debugf("detected ecosystem %q in %s", eco.Name(), dir)
			return eco, nil
		}
	}
	return nil, errors.New("no supported ecosystem detected; specify one with --ecosystem")
}

// rejection reports whether the planner error is a typed rejection to be
// surfaced in the result, as opposed to an internal failure. Group
// inconsistency intentionally stays a hard error: it means the snapshot
// disagrees with itself.
func rejection(err error) bool {
	var unavailable *domain.CandidateUnavailableError
	var lookup *domain.CatalogLookupError
	var notFound *domain.DeclarationNotFoundError
	var nesting *domain.UnresolvableNestingError
	return errors.As(err, &unavailable) ||
		errors.As(err, &lookup) ||
		errors.As(err, &notFound) ||
		errors.As(err, &nesting)
}

func findDependency(deps []domain.Dependency, name string) (domain.Dependency, bool) {
	for _, dep := range deps {
		if dep.Name == name {
			return dep, true
		}
	}
	return domain.Dependency{}, false
}

// coordinationMode resolves the policy for an ecosystem: config override
// first, ecosystem default otherwise.
func coordinationMode(cfg *config.Config, eco domain.Ecosystem) domain.CoordinationMode {
	if ecoCfg, ok := cfg.Ecosystems[eco.Name()]; ok && ecoCfg.Coordination != "" {
		return domain.CoordinationMode(ecoCfg.Coordination)
	}
	return eco.DefaultCoordination()
}

func enabled(cfg *config.Config, name string) bool {
	ecoCfg, ok := cfg.Ecosystems[name]
	if !ok || ecoCfg.Enabled == nil {
		return true
	}
	return *ecoCfg.Enabled
}
