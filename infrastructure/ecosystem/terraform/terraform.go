package terraform

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	logger "github.com/sirupsen/logrus"
	"github.com/zclconf/go-cty/cty"

	"github.com/prashuchaudhary/dependabot-core/domain"
	ecosystemPkg "github.com/prashuchaudhary/dependabot-core/infrastructure/ecosystem"
)

const ecosystemName = "terraform"

// Ecosystem implements domain.Ecosystem for Terraform configurations. Module
// version pins are frequently indirected through locals: a single
// `locals { vpc_version = "1.0.0" }` entry referenced from many module
// blocks, which is exactly the shared-property relation the planner
// coordinates.
type Ecosystem struct{}

// New creates a new Terraform ecosystem.
func New() domain.Ecosystem {
	return &Ecosystem{}
}

func (e *Ecosystem) Name() string { return ecosystemName }

func (e *Ecosystem) DefaultCoordination() domain.CoordinationMode {
	return domain.CoordinationFull
}

// Detect returns true if the directory contains .tf files.
func (e *Ecosystem) Detect(dir string) bool {
	files, err := listTerraformFiles(dir)
	return err == nil && len(files) > 0
}

// Parse reads every .tf file under dir, collects locals as property
// definitions, and returns module dependencies with their version
// requirements resolved against them.
func (e *Ecosystem) Parse(dir string) ([]domain.Dependency, error) {
	files, err := parseTerraformFiles(dir)
	if err != nil {
		return nil, err
	}

	locals := collectLocals(files)
	evalCtx := localsEvalContext(locals)
	acc := ecosystemPkg.NewAccumulator(ecosystemName)

	for _, file := range files {
		for _, block := range file.moduleBlocks() {
			name := ""
			if len(block.Labels) > 0 {
				name = block.Labels[0]
			}

			attrs, _ := block.Body.JustAttributes()
			sourceAttr, hasSource := attrs["source"]
			if !hasSource {
				continue
			}

			source := evaluateString(sourceAttr.Expr, evalCtx)
			req, version, ok := moduleRequirement(file.path, attrs, sourceAttr, locals, source)
			if !ok {
				logger.Debugf("[terraform] module %q in %s carries no version pin", name, file.path)
				continue
			}

			acc.Add(name, version, stripRef(source), req)
		}
	}

	return acc.List(), nil
}

// Locator returns a declaration locator over the locals definitions under dir.
func (e *Ecosystem) Locator(dir string) (domain.DeclarationLocator, error) {
	files, err := parseTerraformFiles(dir)
	if err != nil {
		return nil, err
	}
	return &locator{locals: collectLocals(files)}, nil
}

func (e *Ecosystem) Rewriter() domain.RequirementRewriter {
	return ecosystemPkg.NewPropertyAwareRewriter()
}

// --- HCL parsing ---

type tfFile struct {
	path    string
	content *hcl.BodyContent
}

func (f tfFile) moduleBlocks() []*hcl.Block {
	var blocks []*hcl.Block
	for _, block := range f.content.Blocks {
		if block.Type == "module" {
			blocks = append(blocks, block)
		}
	}
	return blocks
}

func (f tfFile) localsBlocks() []*hcl.Block {
	var blocks []*hcl.Block
	for _, block := range f.content.Blocks {
		if block.Type == "locals" {
			blocks = append(blocks, block)
		}
	}
	return blocks
}

var terraformSchema = &hcl.BodySchema{
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "module", LabelNames: []string{"name"}},
		{Type: "locals"},
	},
}

func listTerraformFiles(dir string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".tf") {
			paths = append(paths, path)
		}
		return nil
	})
	return paths, err
}

func parseTerraformFiles(dir string) ([]tfFile, error) {
	paths, err := listTerraformFiles(dir)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no .tf files found under %s", dir)
	}

	parser := hclparse.NewParser()
	var files []tfFile

	for _, path := range paths {
		data, readErr := os.ReadFile(path)
		if readErr != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, readErr)
		}

		file, diags := parser.ParseHCL(data, path)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse %s: %s", path, diags.Error())
		}

		content, _, partialDiags := file.Body.PartialContent(terraformSchema)
		if partialDiags.HasErrors() {
			return nil, fmt.Errorf("failed to parse %s: %s", path, partialDiags.Error())
		}

		rel, relErr := filepath.Rel(dir, path)
		if relErr != nil {
			rel = path
		}
		files = append(files, tfFile{path: rel, content: content})
	}

	return files, nil
}

// --- locals as property definitions ---

// localDefinition is one locals entry: either a string literal or a reference
// to another local (one nesting level, bounded by the resolver).
type localDefinition struct {
	file    string
	literal string
	ref     string // non-empty when the value is `local.<ref>`
}

func collectLocals(files []tfFile) map[string]localDefinition {
	locals := make(map[string]localDefinition)
	for _, file := range files {
		for _, block := range file.localsBlocks() {
			attrs, _ := block.Body.JustAttributes()
			for name, attr := range attrs {
				if _, exists := locals[name]; exists {
					continue
				}
				if ref, ok := localRef(attr.Expr); ok {
					locals[name] = localDefinition{file: file.path, ref: ref}
					continue
				}
				val, diags := attr.Expr.Value(nil)
				if diags.HasErrors() || val.Type() != cty.String {
					continue
				}
				locals[name] = localDefinition{file: file.path, literal: val.AsString()}
			}
		}
	}
	return locals
}

// resolveLocal chases a local to its literal definition through at most
// domain.MaxNestingDepth levels of local-to-local references.
func resolveLocal(
	locals map[string]localDefinition,
	name string,
) (localDefinition, error) {
	current := name
	for depth := 0; depth < domain.MaxNestingDepth; depth++ {
		def, ok := locals[current]
		if !ok {
			return localDefinition{}, fmt.Errorf("local %q is not defined", current)
		}
		if def.ref == "" {
			return def, nil
		}
		current = def.ref
	}
	return localDefinition{}, &domain.UnresolvableNestingError{
		Property: name,
		Depth:    domain.MaxNestingDepth,
	}
}

// localsEvalContext exposes every resolvable local as local.<name> so source
// templates like "git::...?ref=${local.vpc_version}" evaluate to literals.
func localsEvalContext(locals map[string]localDefinition) *hcl.EvalContext {
	values := make(map[string]cty.Value)
	for name := range locals {
		if def, err := resolveLocal(locals, name); err == nil {
			values[name] = cty.StringVal(def.literal)
		}
	}
	if len(values) == 0 {
		return &hcl.EvalContext{}
	}
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{"local": cty.ObjectVal(values)},
	}
}

// localRef returns the local name an expression references, if any.
func localRef(expr hcl.Expression) (string, bool) {
	for _, traversal := range expr.Variables() {
		if traversal.RootName() != "local" || len(traversal) < 2 {
			continue
		}
		if attr, ok := traversal[1].(hcl.TraverseAttr); ok {
			return attr.Name, true
		}
	}
	return "", false
}

func evaluateString(expr hcl.Expression, evalCtx *hcl.EvalContext) string {
	val, diags := expr.Value(evalCtx)
	if diags.HasErrors() || val.Type() != cty.String {
		return ""
	}
	return val.AsString()
}

// moduleRequirement derives the version requirement of one module block: an
// explicit version attribute wins, then a ?ref= pin inside the source.
// Requirements indirected through a local are normalized to the ${name}
// placeholder form the core substitutes on.
func moduleRequirement(
	path string,
	attrs hcl.Attributes,
	sourceAttr *hcl.Attribute,
	locals map[string]localDefinition,
	source string,
) (domain.Requirement, string, bool) {
	if versionAttr, ok := attrs["version"]; ok {
		if property, isRef := localRef(versionAttr.Expr); isRef {
			return propertyRequirement(path, property, locals)
		}
		if literal := evaluateString(versionAttr.Expr, nil); literal != "" {
			return domain.Requirement{File: path, Requirement: literal}, literal, true
		}
	}

	if property, isRef := localRef(sourceAttr.Expr); isRef {
		return propertyRequirement(path, property, locals)
	}

	if version := extractRef(source); version != "" {
		return domain.Requirement{File: path, Requirement: version}, version, true
	}

	return domain.Requirement{}, "", false
}

func propertyRequirement(
	path, property string,
	locals map[string]localDefinition,
) (domain.Requirement, string, bool) {
	req := domain.Requirement{
		File:        path,
		Requirement: domain.Placeholder(property),
		Metadata:    domain.RequirementMetadata{PropertyName: property},
	}
	version := ""
	if def, err := resolveLocal(locals, property); err == nil {
		version = def.literal
	}
	return req, version, true
}

// --- source helpers ---

var refPattern = regexp.MustCompile(`\?ref=([^&\s"]+)`)

func extractRef(source string) string {
	if matches := refPattern.FindStringSubmatch(source); len(matches) > 1 {
		return matches[1]
	}
	return ""
}

func stripRef(source string) string {
	return refPattern.ReplaceAllString(source, "")
}
