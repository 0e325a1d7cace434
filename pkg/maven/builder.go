package maven

import (
	"encoding/xml"
	"fmt"
	"os"
	"regexp"
	"strings"
)

// ModelBuilder builds the effective model of a POM file.
//
// Implementations return [*ModelBuildingError] when the POM cannot be turned
// into a model (malformed, incomplete, unresolvable parent) and any other
// error for I/O faults.
type ModelBuilder interface {
	BuildModel(pomFile string, ctx ModelContext) (*Model, error)
}

// ModelContext resolves POMs referenced from the POM being built, such as
// parents. A nil ModelContext resolves nothing.
type ModelContext interface {
	// ResolvePOM returns the local path of the POM identified by c.
	ResolvePOM(c Coordinates) (path string, ok bool)
}

// ModelBuildingError reports a POM that cannot be turned into a model.
type ModelBuildingError struct {
	File   string
	Reason string
	Cause  error
}

func (e *ModelBuildingError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("build model %s: %s: %v", e.File, e.Reason, e.Cause)
	}
	return fmt.Sprintf("build model %s: %s", e.File, e.Reason)
}

func (e *ModelBuildingError) Unwrap() error { return e.Cause }

// DefaultMaxParentDepth bounds parent chains.
const DefaultMaxParentDepth = 16

// DefaultModelBuilder parses POM files with encoding/xml and resolves their
// parent chain through a ModelContext.
//
// The zero value is ready to use. It holds no state between calls and is
// safe for concurrent use.
type DefaultModelBuilder struct {
	// MaxParentDepth limits parent chain length; 0 means DefaultMaxParentDepth.
	MaxParentDepth int
}

// NewModelBuilder returns a DefaultModelBuilder with default limits.
func NewModelBuilder() *DefaultModelBuilder {
	return &DefaultModelBuilder{}
}

var _ ModelBuilder = (*DefaultModelBuilder)(nil)

// BuildModel implements ModelBuilder.
func (b *DefaultModelBuilder) BuildModel(pomFile string, ctx ModelContext) (*Model, error) {
	maxDepth := b.MaxParentDepth
	if maxDepth <= 0 {
		maxDepth = DefaultMaxParentDepth
	}

	leaf, err := readPOM(pomFile)
	if err != nil {
		return nil, err
	}

	chain := []*pomProject{leaf}
	seen := make(map[string]bool)
	for cur := leaf; cur.Parent != nil; {
		ref := cur.Parent
		key := strings.TrimSpace(ref.GroupID) + ":" + strings.TrimSpace(ref.ArtifactID) + ":" + strings.TrimSpace(ref.Version)
		if strings.TrimSpace(ref.GroupID) == "" || strings.TrimSpace(ref.ArtifactID) == "" || strings.TrimSpace(ref.Version) == "" {
			return nil, &ModelBuildingError{File: pomFile, Reason: fmt.Sprintf("incomplete parent reference %q", key)}
		}
		if seen[key] {
			return nil, &ModelBuildingError{File: pomFile, Reason: fmt.Sprintf("parent cycle at %s", key)}
		}
		seen[key] = true
		if len(chain) > maxDepth {
			return nil, &ModelBuildingError{File: pomFile, Reason: fmt.Sprintf("parent chain deeper than %d", maxDepth)}
		}

		parentCoords := newParentRef(ref).Coordinates()
		if ctx == nil {
			return nil, &ModelBuildingError{File: pomFile, Reason: "unresolvable parent " + parentCoords.String()}
		}
		path, ok := ctx.ResolvePOM(parentCoords)
		if !ok {
			return nil, &ModelBuildingError{File: pomFile, Reason: "unresolvable parent " + parentCoords.String()}
		}
		parent, err := readPOM(path)
		if err != nil {
			return nil, err
		}
		chain = append(chain, parent)
		cur = parent
	}

	var mb modelBuild
	for i := len(chain) - 1; i >= 0; i-- {
		mb.inherit(chain[i], i == 0)
	}
	m := mb.model
	if leaf.Parent != nil {
		m.Parent = newParentRef(leaf.Parent)
	}
	if m.Packaging == "" {
		m.Packaging = DefaultPackaging
	}

	mb.interpolate()
	mb.applyManagement()

	switch {
	case m.GroupID == "":
		return nil, &ModelBuildingError{File: pomFile, Reason: "groupId not found"}
	case m.ArtifactID == "":
		return nil, &ModelBuildingError{File: pomFile, Reason: "artifactId not found"}
	case m.Version == "":
		return nil, &ModelBuildingError{File: pomFile, Reason: "version not found"}
	}
	if strings.Contains(m.GroupID, "${") || strings.Contains(m.ArtifactID, "${") || strings.Contains(m.Version, "${") {
		return nil, &ModelBuildingError{File: pomFile, Reason: "unresolved expression in coordinates " + m.Coordinates().String()}
	}
	return m, nil
}

// readPOM reads and parses one POM file. Read failures are returned as-is;
// parse failures as *ModelBuildingError.
func readPOM(path string) (*pomProject, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read pom: %w", err)
	}
	var pom pomProject
	if err := xml.Unmarshal(data, &pom); err != nil {
		return nil, &ModelBuildingError{File: path, Reason: "malformed pom", Cause: err}
	}
	return &pom, nil
}

// modelBuild accumulates a model while walking a parent chain root-first.
type modelBuild struct {
	model      *Model
	management []Dependency
}

func (mb *modelBuild) inherit(p *pomProject, leaf bool) {
	if mb.model == nil {
		mb.model = &Model{Properties: make(map[string]string)}
	}
	m := mb.model

	setIf(&m.GroupID, p.GroupID)
	setIf(&m.Version, p.Version)
	setIf(&m.URL, p.URL)
	setIf(&m.Description, p.Description)
	if leaf {
		m.ArtifactID = strings.TrimSpace(p.ArtifactID)
		m.Name = strings.TrimSpace(p.Name)
		m.Packaging = strings.TrimSpace(p.Packaging)
		// A child without its own groupId/version takes the parent reference's.
		if m.GroupID == "" && p.Parent != nil {
			m.GroupID = strings.TrimSpace(p.Parent.GroupID)
		}
		if m.Version == "" && p.Parent != nil {
			m.Version = strings.TrimSpace(p.Parent.Version)
		}
	}

	if len(p.Licenses) > 0 {
		m.Licenses = m.Licenses[:0:0]
		for _, l := range p.Licenses {
			m.Licenses = append(m.Licenses, License{Name: strings.TrimSpace(l.Name), URL: strings.TrimSpace(l.URL)})
		}
	}
	if len(p.Developers) > 0 {
		m.Developers = m.Developers[:0:0]
		for _, d := range p.Developers {
			m.Developers = append(m.Developers, Developer{
				ID:    strings.TrimSpace(d.ID),
				Name:  strings.TrimSpace(d.Name),
				Email: strings.TrimSpace(d.Email),
			})
		}
	}
	for k, v := range p.Properties {
		m.Properties[k] = v
	}

	m.Dependencies = mergeDeps(m.Dependencies, p.Dependencies)
	mb.management = mergeDeps(mb.management, p.DependencyManagement)
}

// mergeDeps overlays child entries on inherited ones, keyed by
// groupId:artifactId:type:classifier. Inherited order is kept.
func mergeDeps(inherited []Dependency, own []pomDependency) []Dependency {
	if len(own) == 0 {
		return inherited
	}
	out := append([]Dependency(nil), inherited...)
	index := make(map[string]int, len(out))
	for i, d := range out {
		index[d.key()] = i
	}
	for _, raw := range own {
		d := raw.toDependency()
		if i, ok := index[d.key()]; ok {
			out[i] = d
			continue
		}
		index[d.key()] = len(out)
		out = append(out, d)
	}
	return out
}

func setIf(dst *string, v string) {
	if v = strings.TrimSpace(v); v != "" {
		*dst = v
	}
}

var expression = regexp.MustCompile(`\$\{([^}]+)\}`)

// maxInterpolationPasses bounds nested property expansion.
const maxInterpolationPasses = 8

func (mb *modelBuild) interpolate() {
	m := mb.model
	// Coordinates first so that later fields see resolved values.
	m.GroupID = mb.expand(m.GroupID)
	m.Version = mb.expand(m.Version)
	m.ArtifactID = mb.expand(m.ArtifactID)
	m.Name = mb.expand(m.Name)
	m.Description = mb.expand(m.Description)
	m.URL = mb.expand(m.URL)
	m.Packaging = mb.expand(m.Packaging)
	for i := range m.Licenses {
		m.Licenses[i].Name = mb.expand(m.Licenses[i].Name)
		m.Licenses[i].URL = mb.expand(m.Licenses[i].URL)
	}
	for _, deps := range [][]Dependency{m.Dependencies, mb.management} {
		for i := range deps {
			d := &deps[i]
			d.GroupID = mb.expand(d.GroupID)
			d.ArtifactID = mb.expand(d.ArtifactID)
			d.Version = mb.expand(d.Version)
			d.Classifier = mb.expand(d.Classifier)
			d.Scope = mb.expand(d.Scope)
			d.Type = mb.expand(d.Type)
		}
	}
}

// expand replaces resolvable ${...} expressions in s; unknown ones are kept.
func (mb *modelBuild) expand(s string) string {
	for i := 0; i < maxInterpolationPasses && strings.Contains(s, "${"); i++ {
		next := expression.ReplaceAllStringFunc(s, func(expr string) string {
			key := expr[2 : len(expr)-1]
			if v, ok := mb.lookup(key); ok {
				return v
			}
			return expr
		})
		if next == s {
			break
		}
		s = next
	}
	return s
}

func (mb *modelBuild) lookup(key string) (string, bool) {
	m := mb.model
	key = strings.TrimSpace(key)
	if v, ok := m.Properties[key]; ok {
		return v, true
	}
	var v string
	switch strings.TrimPrefix(strings.TrimPrefix(key, "project."), "pom.") {
	case "groupId":
		v = m.GroupID
	case "artifactId":
		v = m.ArtifactID
	case "version":
		v = m.Version
	case "packaging":
		v = m.Packaging
	case "name":
		v = m.Name
	case "description":
		v = m.Description
	case "url":
		v = m.URL
	case "parent.groupId":
		if m.Parent != nil {
			v = m.Parent.GroupID
		}
	case "parent.artifactId":
		if m.Parent != nil {
			v = m.Parent.ArtifactID
		}
	case "parent.version":
		if m.Parent != nil {
			v = m.Parent.Version
		}
	}
	// Self references such as <version>${project.version}</version> stay unresolved.
	if v == "" || strings.Contains(v, "${"+key+"}") {
		return "", false
	}
	return v, true
}

// applyManagement fills missing dependency versions and scopes from
// <dependencyManagement>.
func (mb *modelBuild) applyManagement() {
	if len(mb.management) == 0 {
		return
	}
	managed := make(map[string]Dependency, len(mb.management))
	for _, d := range mb.management {
		managed[d.key()] = d
	}
	deps := mb.model.Dependencies
	for i := range deps {
		md, ok := managed[deps[i].key()]
		if !ok {
			continue
		}
		if deps[i].Version == "" {
			deps[i].Version = md.Version
		}
		if deps[i].Scope == "" {
			deps[i].Scope = md.Scope
		}
	}
}

func newParentRef(p *pomParent) *ParentRef {
	return &ParentRef{
		GroupID:      strings.TrimSpace(p.GroupID),
		ArtifactID:   strings.TrimSpace(p.ArtifactID),
		Version:      strings.TrimSpace(p.Version),
		RelativePath: strings.TrimSpace(p.RelativePath),
	}
}
