package maven

import (
	"regexp"
	"strings"
)

// Layout maps coordinates to repository-relative paths and back.
type Layout interface {
	// PathToCoordinates parses a repository-relative path. ok is false when
	// the path is not a validly laid-out artifact file.
	PathToCoordinates(path string) (c Coordinates, ok bool)

	// CoordinatesToPath returns the repository-relative path of c.
	CoordinatesToPath(c Coordinates) string
}

// DefaultLayout is the standard Maven 2 repository layout.
type DefaultLayout struct{}

var _ Layout = DefaultLayout{}

const snapshotSuffix = "-SNAPSHOT"

var snapshotTimestamp = regexp.MustCompile(`^\d{8}\.\d{6}-\d+`)

// PathToCoordinates implements Layout.
func (DefaultLayout) PathToCoordinates(path string) (Coordinates, bool) {
	path = strings.TrimPrefix(path, "/")
	parts := strings.Split(path, "/")
	// group (at least one segment), artifact, version, file
	if len(parts) < 4 {
		return Coordinates{}, false
	}
	for _, p := range parts {
		if p == "" || p == "." || p == ".." {
			return Coordinates{}, false
		}
	}

	n := len(parts)
	file, dir, artifactID := parts[n-1], parts[n-2], parts[n-3]
	groupID := strings.Join(parts[:n-3], ".")

	rest, ok := strings.CutPrefix(file, artifactID+"-")
	if !ok {
		return Coordinates{}, false
	}

	c := Coordinates{GroupID: groupID, ArtifactID: artifactID}
	switch {
	case strings.HasPrefix(rest, dir):
		c.Version = dir
		rest = rest[len(dir):]
	case strings.HasSuffix(dir, snapshotSuffix):
		base := strings.TrimSuffix(dir, snapshotSuffix) + "-"
		stamp, ok := strings.CutPrefix(rest, base)
		if !ok {
			return Coordinates{}, false
		}
		ts := snapshotTimestamp.FindString(stamp)
		if ts == "" {
			return Coordinates{}, false
		}
		c.Version = base + ts
		c.BaseVersion = dir
		rest = stamp[len(ts):]
	default:
		return Coordinates{}, false
	}

	switch {
	case strings.HasPrefix(rest, "."):
		c.Extension = rest[1:]
	case strings.HasPrefix(rest, "-"):
		classifier, ext, ok := strings.Cut(rest[1:], ".")
		if !ok || classifier == "" {
			return Coordinates{}, false
		}
		c.Classifier = classifier
		c.Extension = ext
	default:
		return Coordinates{}, false
	}

	if !c.Valid() {
		return Coordinates{}, false
	}
	return c, true
}

// CoordinatesToPath implements Layout.
func (DefaultLayout) CoordinatesToPath(c Coordinates) string {
	groupPath := strings.ReplaceAll(c.GroupID, ".", "/")
	file := c.ArtifactID + "-" + c.Version
	if c.Classifier != "" {
		file += "-" + c.Classifier
	}
	file += "." + c.Extension
	return groupPath + "/" + c.ArtifactID + "/" + c.Dir() + "/" + file
}
