package maven

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	logger "github.com/sirupsen/logrus"

	"github.com/prashuchaudhary/dependabot-core/domain"
	ecosystemPkg "github.com/prashuchaudhary/dependabot-core/infrastructure/ecosystem"
)

const ecosystemName = "maven"

// placeholderPattern matches a version text that is exactly one ${property}
// reference.
var placeholderPattern = regexp.MustCompile(`^\$\{([^}]+)\}$`)

var errPropertyNotDefined = errors.New("property not defined")

// Ecosystem implements domain.Ecosystem for Maven POM files. Version sharing
// happens through <properties>: many <dependency> entries can point at one
// ${some.version} property, so updates must be coordinated across the group.
type Ecosystem struct{}

// New creates a new Maven ecosystem.
func New() domain.Ecosystem {
	return &Ecosystem{}
}

func (e *Ecosystem) Name() string { return ecosystemName }

// DefaultCoordination is full: Maven is the ecosystem the coordinated
// planner exists for.
func (e *Ecosystem) DefaultCoordination() domain.CoordinationMode {
	return domain.CoordinationFull
}

// Detect returns true if the directory has a root pom.xml.
func (e *Ecosystem) Detect(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, "pom.xml"))
	return err == nil
}

// Parse reads every pom.xml under dir (parent and modules) and returns the
// declared dependencies, merged by groupId:artifactId across files.
func (e *Ecosystem) Parse(dir string) ([]domain.Dependency, error) {
	poms, err := parsePOMFiles(dir)
	if err != nil {
		return nil, err
	}

	properties := mergeProperties(poms)
	acc := ecosystemPkg.NewAccumulator(ecosystemName)

	for _, pom := range poms {
		for _, dep := range pom.project.allDependencies() {
			if dep.Version == "" {
				// Version managed by a parent outside this snapshot.
				continue
			}

			name := dep.GroupID + ":" + dep.ArtifactID
			req := domain.Requirement{
				File:        pom.path,
				Requirement: dep.Version,
			}

			version := dep.Version
			if matches := placeholderPattern.FindStringSubmatch(dep.Version); matches != nil {
				property := matches[1]
				req.Metadata.PropertyName = property
				resolved, resolveErr := resolveProperty(properties, property)
				if resolveErr != nil {
					logger.Debugf("[maven] %s: %v", name, resolveErr)
					version = ""
				} else {
					version = resolved.value
				}
			}

			acc.Add(name, version, "", req)
		}
	}

	return acc.List(), nil
}

// Locator returns a declaration locator over the <properties> definitions
// found under dir.
func (e *Ecosystem) Locator(dir string) (domain.DeclarationLocator, error) {
	poms, err := parsePOMFiles(dir)
	if err != nil {
		return nil, err
	}
	return &locator{properties: mergeProperties(poms)}, nil
}

func (e *Ecosystem) Rewriter() domain.RequirementRewriter {
	return ecosystemPkg.NewPropertyAwareRewriter()
}

// --- POM parsing ---

type pomFile struct {
	path    string // relative to the project root
	project pomProject
}

type pomProject struct {
	XMLName              xml.Name        `xml:"project"`
	Properties           pomProperties   `xml:"properties"`
	Dependencies         []pomDependency `xml:"dependencies>dependency"`
	DependencyManagement struct {
		Dependencies []pomDependency `xml:"dependencies>dependency"`
	} `xml:"dependencyManagement"`
}

func (p pomProject) allDependencies() []pomDependency {
	deps := make([]pomDependency, 0, len(p.Dependencies)+len(p.DependencyManagement.Dependencies))
	deps = append(deps, p.Dependencies...)
	deps = append(deps, p.DependencyManagement.Dependencies...)
	return deps
}

type pomDependency struct {
	GroupID    string `xml:"groupId"`
	ArtifactID string `xml:"artifactId"`
	Version    string `xml:"version"`
}

// pomProperties decodes the free-form <properties> element, whose children
// are named after the properties they define.
type pomProperties struct {
	Entries map[string]string
}

func (p *pomProperties) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	p.Entries = make(map[string]string)
	for {
		token, err := d.Token()
		if err != nil {
			return err
		}
		switch el := token.(type) {
		case xml.StartElement:
			var value string
			if decodeErr := d.DecodeElement(&value, &el); decodeErr != nil {
				return decodeErr
			}
			p.Entries[el.Name.Local] = strings.TrimSpace(value)
		case xml.EndElement:
			if el.Name == start.Name {
				return nil
			}
		}
	}
}

// parsePOMFiles walks dir for pom.xml files and parses each, ordered
// parent-first: shallower paths before deeper ones, lexical within a depth.
// WalkDir alone visits lexically, which would put a module directory sorting
// before "pom.xml" ahead of the root pom.
func parsePOMFiles(dir string) ([]pomFile, error) {
	var poms []pomFile

	walkErr := filepath.WalkDir(dir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() || entry.Name() != "pom.xml" {
			return nil
		}

		data, readErr := os.ReadFile(path)
		if readErr != nil {
			return fmt.Errorf("failed to read %s: %w", path, readErr)
		}

		var project pomProject
		if parseErr := xml.Unmarshal(data, &project); parseErr != nil {
			return fmt.Errorf("failed to parse %s: %w", path, parseErr)
		}

		rel, relErr := filepath.Rel(dir, path)
		if relErr != nil {
			rel = path
		}

		poms = append(poms, pomFile{path: rel, project: project})
		return nil
	})
	if walkErr != nil {
		return nil, walkErr
	}

	if len(poms) == 0 {
		return nil, fmt.Errorf("no pom.xml found under %s", dir)
	}

	sort.SliceStable(poms, func(i, j int) bool {
		di := strings.Count(poms[i].path, string(filepath.Separator))
		dj := strings.Count(poms[j].path, string(filepath.Separator))
		if di != dj {
			return di < dj
		}
		return poms[i].path < poms[j].path
	})
	return poms, nil
}

// propertyDefinition is one <properties> entry and where it lives.
type propertyDefinition struct {
	file  string
	value string
}

// mergeProperties flattens property definitions across files; the first
// definition of a name wins, and parsePOMFiles orders the files parent-first,
// so a parent pom's value takes precedence over a module's redefinition.
func mergeProperties(poms []pomFile) map[string]propertyDefinition {
	merged := make(map[string]propertyDefinition)
	for _, pom := range poms {
		for name, value := range pom.project.Properties.Entries {
			if _, exists := merged[name]; exists {
				continue
			}
			merged[name] = propertyDefinition{file: pom.path, value: value}
		}
	}
	return merged
}

// resolveProperty chases a property to its literal definition through at most
// domain.MaxNestingDepth levels of ${other} references.
func resolveProperty(
	properties map[string]propertyDefinition,
	property string,
) (propertyDefinition, error) {
	current := property
	for depth := 0; depth < domain.MaxNestingDepth; depth++ {
		def, ok := properties[current]
		if !ok {
			return propertyDefinition{}, fmt.Errorf("property %q: %w", current, errPropertyNotDefined)
		}
		matches := placeholderPattern.FindStringSubmatch(def.value)
		if matches == nil {
			return def, nil
		}
		current = matches[1]
	}
	return propertyDefinition{}, &domain.UnresolvableNestingError{
		Property: property,
		Depth:    domain.MaxNestingDepth,
	}
}
