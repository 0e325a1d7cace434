package repository

import (
	"strings"

	"github.com/matzehuels/gembridge/pkg/errors"
	"github.com/matzehuels/gembridge/pkg/maven"
)

const (
	pomSuffix = "." + maven.ExtPOM
	jarSuffix = "." + maven.ExtJAR
)

// Resolver maps repository item paths to the coordinates of the artifact's
// POM. It has no side effects.
type Resolver struct {
	Layout maven.Layout // nil means maven.DefaultLayout
}

// Resolve returns the POM coordinates for itemPath, which names either the
// POM or the jar of an artifact. ok is false for any other file and for
// paths that do not follow the layout.
func (r Resolver) Resolve(itemPath string) (maven.Coordinates, bool) {
	path, ok := r.artifactPOMPath(itemPath)
	if !ok {
		return maven.Coordinates{}, false
	}

	layout := r.Layout
	if layout == nil {
		layout = maven.DefaultLayout{}
	}
	c, ok := layout.PathToCoordinates(path)
	if !ok || c.Extension != maven.ExtPOM {
		return maven.Coordinates{}, false
	}
	return c, true
}

// artifactPOMPath normalizes itemPath and substitutes the jar extension with
// the POM extension. ok is false for other files.
func (Resolver) artifactPOMPath(itemPath string) (string, bool) {
	path := strings.TrimPrefix(itemPath, "/")
	if errors.ValidatePath(path) != nil {
		return "", false
	}
	switch {
	case strings.HasSuffix(path, pomSuffix):
		return path, true
	case strings.HasSuffix(path, jarSuffix):
		return strings.TrimSuffix(path, jarSuffix) + pomSuffix, true
	}
	return "", false
}
