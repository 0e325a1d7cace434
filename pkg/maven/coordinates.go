package maven

import "strings"

// Extensions of the two files that make up a stored artifact.
const (
	ExtPOM = "pom"
	ExtJAR = "jar"
)

// Coordinates identify a single file of an artifact in a Maven repository.
//
// Version is the version as it appears in the file name. For timestamped
// snapshots it differs from BaseVersion, the version directory
// (e.g. "1.0-20240101.120000-3" vs "1.0-SNAPSHOT"). An empty BaseVersion
// means it equals Version.
//
// Coordinates are comparable values and never mutated after construction.
type Coordinates struct {
	GroupID     string // e.g. "com.google.guava"
	ArtifactID  string // e.g. "guava"
	Version     string // e.g. "31.0-jre"
	BaseVersion string // version directory, empty for releases
	Classifier  string // e.g. "sources", usually empty
	Extension   string // e.g. "pom" or "jar"
}

// Valid reports whether all required fields are present.
func (c Coordinates) Valid() bool {
	return c.GroupID != "" && c.ArtifactID != "" && c.Version != "" && c.Extension != ""
}

// Dir returns the version directory, falling back to Version.
func (c Coordinates) Dir() string {
	if c.BaseVersion != "" {
		return c.BaseVersion
	}
	return c.Version
}

// WithExtension returns a copy of c pointing at a sibling file.
func (c Coordinates) WithExtension(ext string) Coordinates {
	c.Extension = ext
	return c
}

// String renders "groupId:artifactId:version[:classifier]:extension".
func (c Coordinates) String() string {
	parts := []string{c.GroupID, c.ArtifactID, c.Version}
	if c.Classifier != "" {
		parts = append(parts, c.Classifier)
	}
	parts = append(parts, c.Extension)
	return strings.Join(parts, ":")
}
