package gems

import "strings"

// Requirement operators.
const (
	OpEqual        = "="
	OpGreaterEqual = ">="
)

// Constraint is one operator/version pair of a Gem::Requirement.
type Constraint struct {
	Op      string
	Version string
}

func (c Constraint) String() string {
	return c.Op + " " + c.Version
}

// Requirement is a Gem::Requirement: every constraint must hold.
type Requirement []Constraint

// Exactly returns the requirement "= v".
func Exactly(v string) Requirement {
	return Requirement{{Op: OpEqual, Version: v}}
}

// AnyVersion returns the requirement ">= 0".
func AnyVersion() Requirement {
	return Requirement{{Op: OpGreaterEqual, Version: "0"}}
}

func (r Requirement) String() string {
	if len(r) == 0 {
		return AnyVersion().String()
	}
	parts := make([]string, len(r))
	for i, c := range r {
		parts[i] = c.String()
	}
	return strings.Join(parts, ", ")
}

// VersionFromMaven turns a Maven version into a Gem::Version string.
// Separators '-' and '_' become '.', characters RubyGems rejects are dropped
// and empty segments removed, so "1.0-SNAPSHOT" becomes "1.0.SNAPSHOT".
// A version with nothing left maps to "0".
func VersionFromMaven(v string) string {
	var b strings.Builder
	for _, r := range v {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
			b.WriteRune(r)
		case r == '.', r == '-', r == '_':
			b.WriteByte('.')
		}
	}
	segs := strings.FieldsFunc(b.String(), func(r rune) bool { return r == '.' })
	if len(segs) == 0 {
		return "0"
	}
	return strings.Join(segs, ".")
}
