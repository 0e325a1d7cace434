package convert

import (
	"os"

	"github.com/matzehuels/gembridge/pkg/maven"
)

// Artifact is a Maven artifact resolved from a repository: its coordinates,
// the effective POM, and the jar payload when one exists.
//
// An Artifact is built per request and never shared or cached.
type Artifact struct {
	Coordinates maven.Coordinates
	Model       *maven.Model
	BinaryFile  string // absolute path of the jar; empty when absent
}

// HasBinary reports whether the jar payload exists as a regular file.
func (a *Artifact) HasBinary() bool {
	if a == nil || a.BinaryFile == "" {
		return false
	}
	info, err := os.Stat(a.BinaryFile)
	return err == nil && info.Mode().IsRegular()
}

// String returns the artifact's coordinates.
func (a *Artifact) String() string {
	if a == nil {
		return "<nil>"
	}
	return a.Coordinates.String()
}
