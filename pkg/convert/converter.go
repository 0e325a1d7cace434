// Package convert turns resolved Maven artifacts into RubyGems
// specifications and .gem archives.
//
// The mapping is lossy by nature. Only the fields RubyGems can express are
// carried over, and Maven version ranges are narrowed to a single version
// (see [NarrowRequirement]). Every gem is built for the java platform and
// ships the artifact's jar under lib/ next to a small loader script.
//
// Callers check [Converter.CanConvert] first. The build methods return a
// PRECONDITION_VIOLATION error when handed an artifact that fails it.
package convert

import (
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"strings"

	"github.com/matzehuels/gembridge/pkg/errors"
	"github.com/matzehuels/gembridge/pkg/gems"
	gbio "github.com/matzehuels/gembridge/pkg/io"
	"github.com/matzehuels/gembridge/pkg/maven"
)

// Metadata keys recorded in every generated specification.
const (
	MetaCoordinates = "maven_coordinates"
	MetaPackaging   = "maven_packaging"
)

// Options configures a Converter.
type Options struct {
	Naming          NamingPolicy
	RubyGemsVersion string // defaults to gems.DefaultRubyGemsVersion
}

// Converter maps artifacts to gems. It holds no mutable state and is safe
// for concurrent use.
type Converter struct {
	codec gems.Codec
	opts  Options
}

// NewConverter returns a Converter that serializes specifications with codec,
// or with gems.YAMLCodec when codec is nil.
func NewConverter(codec gems.Codec, opts Options) *Converter {
	if codec == nil {
		codec = gems.YAMLCodec{}
	}
	if opts.RubyGemsVersion == "" {
		opts.RubyGemsVersion = gems.DefaultRubyGemsVersion
	}
	return &Converter{codec: codec, opts: opts}
}

// Codec returns the codec used for specifications.
func (c *Converter) Codec() gems.Codec {
	return c.codec
}

// CanConvert reports whether a can be turned into a gem: its POM was built,
// its coordinates are well formed, it maps to a valid gem name, and a jar
// exists when the packaging requires one.
func (c *Converter) CanConvert(a *Artifact) bool {
	if a == nil || a.Model == nil || !a.Coordinates.Valid() {
		return false
	}
	if errors.ValidateGemName(c.GemName(a)) != nil {
		return false
	}
	if maven.IsBinaryPackaging(a.Model.Packaging) {
		return a.HasBinary()
	}
	return true
}

func (c *Converter) precondition(a *Artifact, op string) error {
	if c.CanConvert(a) {
		return nil
	}
	return &errors.Error{
		Code:    errors.ErrCodePrecondition,
		Message: op + " called on an artifact that cannot be converted",
		Item:    a.String(),
	}
}

// Specification builds the gem specification for a. The result depends only
// on a, so repeated calls yield equal specifications.
func (c *Converter) Specification(a *Artifact) (*gems.Specification, error) {
	if err := c.precondition(a, "Specification"); err != nil {
		return nil, err
	}
	return c.specification(a, true), nil
}

func (c *Converter) specification(a *Artifact, withFiles bool) *gems.Specification {
	m := a.Model
	name := c.opts.Naming.GemName(m.GroupID, m.ArtifactID)

	spec := &gems.Specification{
		Name:         name,
		Version:      gems.VersionFromMaven(m.Version),
		Platform:     gems.PlatformJava,
		Summary:      firstNonEmpty(m.Name, m.ArtifactID),
		Description:  firstNonEmpty(m.Description, m.Name, m.ArtifactID),
		Homepage:     m.URL,
		RequirePaths: []string{"lib"},
		Dependencies: c.dependencies(m),
		Metadata: map[string]string{
			MetaCoordinates: m.GroupID + ":" + m.ArtifactID + ":" + m.Version,
			MetaPackaging:   m.Packaging,
		},
		RequiredRubyVersion:     gems.AnyVersion(),
		RequiredRubyGemsVersion: gems.AnyVersion(),
		RubyGemsVersion:         c.opts.RubyGemsVersion,
		SpecificationVersion:    gems.DefaultSpecificationVersion,
	}
	for _, d := range m.Developers {
		if author := firstNonEmpty(d.Name, d.ID); author != "" {
			spec.Authors = append(spec.Authors, author)
		}
		if d.Email != "" {
			spec.Emails = append(spec.Emails, d.Email)
		}
	}
	for _, l := range m.Licenses {
		if l.Name != "" {
			spec.Licenses = append(spec.Licenses, l.Name)
		}
	}
	if withFiles {
		spec.Files = []string{loaderPath(name)}
		if a.BinaryFile != "" {
			spec.Files = append(spec.Files, jarPath(a.BinaryFile))
		}
	}
	return spec
}

// dependencies translates compile and runtime dependencies to :runtime and
// test dependencies to :development. Other scopes, optional dependencies,
// unresolved coordinates and names that are not valid gem names are
// dropped.
func (c *Converter) dependencies(m *maven.Model) []gems.Dependency {
	var out []gems.Dependency
	seen := make(map[string]bool)
	for _, d := range m.Dependencies {
		if d.Optional || d.Unresolved() {
			continue
		}
		var typ string
		switch d.EffectiveScope() {
		case maven.ScopeCompile, maven.ScopeRuntime:
			typ = gems.DependencyRuntime
		case maven.ScopeTest:
			typ = gems.DependencyDevelopment
		default:
			continue
		}
		name := c.opts.Naming.GemName(d.GroupID, d.ArtifactID)
		if seen[name] || errors.ValidateGemName(name) != nil {
			continue
		}
		seen[name] = true
		out = append(out, gems.Dependency{
			Name:        name,
			Type:        typ,
			Requirement: NarrowRequirement(d.Version),
		})
	}
	slices.SortStableFunc(out, func(x, y gems.Dependency) int {
		if x.Type != y.Type {
			return strings.Compare(x.Type, y.Type)
		}
		return strings.Compare(x.Name, y.Name)
	})
	return out
}

// GemName returns the gem name a maps to under the naming policy.
func (c *Converter) GemName(a *Artifact) string {
	if a == nil {
		return ""
	}
	return c.identity(a).Name
}

// GemFileName returns the .gem file name for a, e.g. "a-1.0-java.gem".
// It does not require a to be convertible; without a model the name is
// derived from the coordinates.
func (c *Converter) GemFileName(a *Artifact) string {
	if a == nil {
		return ""
	}
	return c.identity(a).FileName()
}

// SpecFileName returns the .gemspec file name for a.
func (c *Converter) SpecFileName(a *Artifact) string {
	if a == nil {
		return ""
	}
	return c.identity(a).SpecFileName()
}

// identity returns a specification carrying only name, version and platform.
func (c *Converter) identity(a *Artifact) *gems.Specification {
	g, id, v := a.Coordinates.GroupID, a.Coordinates.ArtifactID, a.Coordinates.Version
	if m := a.Model; m != nil {
		g, id, v = m.GroupID, m.ArtifactID, m.Version
	}
	return &gems.Specification{
		Name:     c.opts.Naming.GemName(g, id),
		Version:  gems.VersionFromMaven(v),
		Platform: gems.PlatformJava,
	}
}

// CreateGemStub writes a gem for a whose data archive is empty, so the gem
// resolves but carries no code. It returns the path of the written file.
func (c *Converter) CreateGemStub(a *Artifact, outDir string) (string, error) {
	if err := c.precondition(a, "CreateGemStub"); err != nil {
		return "", err
	}
	return c.writeGem(a, outDir, c.specification(a, false), nil)
}

// CreateGem writes the full gem for a: the loader script and, when present,
// the jar. It returns the path of the written file.
func (c *Converter) CreateGem(a *Artifact, outDir string) (string, error) {
	if err := c.precondition(a, "CreateGem"); err != nil {
		return "", err
	}
	spec := c.specification(a, true)
	files := []gems.File{{
		Name: loaderPath(spec.Name),
		Data: loaderScript(a, spec),
	}}
	if a.BinaryFile != "" {
		files = append(files, gems.File{Name: jarPath(a.BinaryFile), Source: a.BinaryFile})
	}
	return c.writeGem(a, outDir, spec, files)
}

func (c *Converter) writeGem(a *Artifact, outDir string, spec *gems.Specification, files []gems.File) (string, error) {
	if err := gbio.EnsureDir(outDir); err != nil {
		return "", errors.WrapItem(errors.ErrCodePackagingIO, err, a.String(), "prepare output directory")
	}
	target := filepath.Join(outDir, spec.FileName())
	err := gbio.WriteFileAtomic(target, func(w io.Writer) error {
		return gems.WritePackage(w, spec, c.codec, files)
	})
	if err != nil {
		if errors.GetCode(err) != "" {
			return "", err
		}
		return "", errors.WrapItem(errors.ErrCodePackagingIO, err, a.String(), "write %s", target)
	}
	return target, nil
}

func loaderPath(name string) string {
	return "lib/" + name + ".rb"
}

func jarPath(binaryFile string) string {
	return "lib/" + filepath.Base(binaryFile)
}

// loaderScript requires the gem's runtime dependencies and then its jar.
func loaderScript(a *Artifact, spec *gems.Specification) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n", spec.Metadata[MetaCoordinates])
	b.WriteString("require 'java'\n")
	for _, d := range spec.RuntimeDependencies() {
		fmt.Fprintf(&b, "require '%s'\n", d.Name)
	}
	if a.BinaryFile != "" {
		fmt.Fprintf(&b, "require File.expand_path('%s', File.dirname(__FILE__))\n", filepath.Base(a.BinaryFile))
	}
	return []byte(b.String())
}

func firstNonEmpty(vs ...string) string {
	for _, v := range vs {
		if v != "" {
			return v
		}
	}
	return ""
}
