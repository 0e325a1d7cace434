package repository

import (
	stderrors "errors"
	"io/fs"
	"os"
	"syscall"

	"github.com/matzehuels/gembridge/pkg/errors"
	"github.com/matzehuels/gembridge/pkg/maven"
	"github.com/matzehuels/gembridge/pkg/storage"
)

// PairLocation is where an artifact's POM and jar live on disk.
//
// MetadataExists false means the pair is invalid and the artifact cannot be
// converted. BinaryFile is empty when the jar does not exist.
type PairLocation struct {
	MetadataFile   string
	BinaryFile     string
	MetadataExists bool
	BothExist      bool
}

// Locator finds the files of an artifact in a filesystem-backed repository.
// It only stats files.
type Locator struct{}

// Locate returns the location of the POM and jar for c in repo.
//
// Storage that is not filesystem-backed fails with UNSUPPORTED_STORAGE.
// A missing POM yields an invalid location and a nil error. Stat failures
// other than "does not exist" are LOCATOR_IO errors.
func (Locator) Locate(c maven.Coordinates, repo *Repository) (PairLocation, error) {
	var s storage.Storage
	if repo != nil {
		s = repo.Storage
	}
	fsys, err := storage.AsFilesystem(s)
	if err != nil {
		return PairLocation{}, errors.WrapItem(errors.ErrCodeUnsupportedStorage, err, c.String(), "locate artifact")
	}

	layout := repo.LayoutOrDefault()
	pomFile, err := fsys.FileFromBase(layout.CoordinatesToPath(c.WithExtension(maven.ExtPOM)))
	if err != nil {
		// Coordinates that cannot name a file inside the repository.
		return PairLocation{}, nil
	}
	jarFile, err := fsys.FileFromBase(layout.CoordinatesToPath(c.WithExtension(maven.ExtJAR)))
	if err != nil {
		return PairLocation{}, nil
	}

	var loc PairLocation
	ok, err := isRegularFile(pomFile)
	if err != nil {
		return PairLocation{}, errors.WrapItem(errors.ErrCodeLocatorIO, err, c.String(), "stat %s", pomFile)
	}
	if !ok {
		return loc, nil
	}
	loc.MetadataFile = pomFile
	loc.MetadataExists = true

	ok, err = isRegularFile(jarFile)
	if err != nil {
		return PairLocation{}, errors.WrapItem(errors.ErrCodeLocatorIO, err, c.WithExtension(maven.ExtJAR).String(), "stat %s", jarFile)
	}
	if ok {
		loc.BinaryFile = jarFile
		loc.BothExist = true
	}
	return loc, nil
}

// isRegularFile reports whether path is an existing regular file. Missing
// files, including paths through a non-directory, are not errors.
func isRegularFile(path string) (bool, error) {
	info, err := os.Stat(path)
	switch {
	case err == nil:
		return info.Mode().IsRegular(), nil
	case stderrors.Is(err, fs.ErrNotExist), stderrors.Is(err, syscall.ENOTDIR):
		return false, nil
	default:
		return false, err
	}
}
