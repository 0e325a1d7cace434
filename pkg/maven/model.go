package maven

import "strings"

// Dependency scopes.
const (
	ScopeCompile  = "compile"
	ScopeRuntime  = "runtime"
	ScopeTest     = "test"
	ScopeProvided = "provided"
	ScopeSystem   = "system"
	ScopeImport   = "import"
)

// DefaultPackaging is assumed when a POM does not declare <packaging>.
const DefaultPackaging = "jar"

// binaryPackagings carry a jar payload next to the POM.
var binaryPackagings = map[string]bool{
	"jar":          true,
	"bundle":       true,
	"maven-plugin": true,
	"ejb":          true,
}

// IsBinaryPackaging reports whether artifacts of the given packaging ship a
// jar file alongside their POM.
func IsBinaryPackaging(packaging string) bool {
	return binaryPackagings[packaging]
}

// Model is the effective POM of an artifact: parent sections merged in and
// ${...} expressions interpolated. It is read-only once built.
type Model struct {
	GroupID      string
	ArtifactID   string
	Version      string
	Packaging    string
	Name         string
	Description  string
	URL          string
	Licenses     []License
	Developers   []Developer
	Dependencies []Dependency
	Parent       *ParentRef
	Properties   map[string]string
}

// Coordinates returns the coordinates of the model's POM file.
func (m *Model) Coordinates() Coordinates {
	return Coordinates{
		GroupID:    m.GroupID,
		ArtifactID: m.ArtifactID,
		Version:    m.Version,
		Extension:  ExtPOM,
	}
}

// License is a <license> entry.
type License struct {
	Name string
	URL  string
}

// Developer is a <developer> entry.
type Developer struct {
	ID    string
	Name  string
	Email string
}

// ParentRef is the <parent> reference of a POM.
type ParentRef struct {
	GroupID      string
	ArtifactID   string
	Version      string
	RelativePath string
}

// Coordinates returns the coordinates of the parent POM.
func (p *ParentRef) Coordinates() Coordinates {
	return Coordinates{
		GroupID:    p.GroupID,
		ArtifactID: p.ArtifactID,
		Version:    p.Version,
		Extension:  ExtPOM,
	}
}

// Dependency is a resolved <dependency> entry. Scope is empty when the POM
// does not declare one, which Maven treats as compile.
type Dependency struct {
	GroupID    string
	ArtifactID string
	Version    string
	Type       string
	Classifier string
	Scope      string
	Optional   bool
}

// EffectiveScope returns Scope, defaulting to compile.
func (d Dependency) EffectiveScope() string {
	if d.Scope == "" {
		return ScopeCompile
	}
	return d.Scope
}

// Unresolved reports whether the coordinates still carry ${...} expressions.
func (d Dependency) Unresolved() bool {
	return strings.Contains(d.GroupID, "${") || strings.Contains(d.ArtifactID, "${")
}

func (d Dependency) key() string {
	return d.GroupID + ":" + d.ArtifactID + ":" + d.Type + ":" + d.Classifier
}
