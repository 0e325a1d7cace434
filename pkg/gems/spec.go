package gems

import (
	"fmt"
	"strings"
)

// Platforms.
const (
	PlatformRuby = "ruby"
	PlatformJava = "java"
)

// Dependency types.
const (
	DependencyRuntime     = ":runtime"
	DependencyDevelopment = ":development"
)

// Defaults written into every generated specification.
const (
	DefaultRubyGemsVersion      = "3.4.10"
	DefaultSpecificationVersion = 4
)

// Specification is a Gem::Specification.
//
// Values are treated as immutable once built; use [Specification.Clone]
// before deriving a variant.
type Specification struct {
	Name     string
	Version  string
	Platform string

	Summary     string
	Description string
	Homepage    string
	Authors     []string
	Emails      []string
	Licenses    []string

	Files        []string
	RequirePaths []string
	Dependencies []Dependency
	Requirements []string
	Metadata     map[string]string

	RequiredRubyVersion     Requirement
	RequiredRubyGemsVersion Requirement
	RubyGemsVersion         string
	SpecificationVersion    int
}

// Dependency is a Gem::Dependency.
type Dependency struct {
	Name        string
	Type        string // DependencyRuntime or DependencyDevelopment
	Requirement Requirement
}

// FullName returns name-version, suffixed with the platform unless it is
// the generic ruby platform.
func (s *Specification) FullName() string {
	if s.Platform == "" || s.Platform == PlatformRuby {
		return s.Name + "-" + s.Version
	}
	return s.Name + "-" + s.Version + "-" + s.Platform
}

// FileName returns the .gem file name.
func (s *Specification) FileName() string {
	return s.FullName() + ".gem"
}

// SpecFileName returns the .gemspec file name.
func (s *Specification) SpecFileName() string {
	return s.FullName() + ".gemspec"
}

// String renders a specification for diagnostics.
func (s *Specification) String() string {
	return fmt.Sprintf("%s (%d dependencies, %d files)", s.FullName(), len(s.Dependencies), len(s.Files))
}

// RuntimeDependencies returns the dependencies of type :runtime.
func (s *Specification) RuntimeDependencies() []Dependency {
	var out []Dependency
	for _, d := range s.Dependencies {
		if d.Type == DependencyRuntime {
			out = append(out, d)
		}
	}
	return out
}

// SanitizeName maps s onto the characters RubyGems accepts in gem names.
// Anything else becomes '_'.
func SanitizeName(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.', r == '_', r == '-':
			return r
		}
		return '_'
	}, strings.TrimSpace(s))
}
