// Package repository resolves stored Maven repository items into
// convertible artifacts.
//
// Resolution runs in three steps, each usable on its own:
//
//  1. [Resolver] maps an item path (.pom or .jar) to coordinates.
//  2. [Locator] finds the POM and jar for those coordinates on disk.
//  3. [MetadataBuilder] builds the effective POM, resolving parents from
//     the same repository.
//
// [Helper] chains the three and yields a [convert.Artifact]. Items that
// simply are not convertible (checksums, broken POMs, missing files) are
// reported as skips, never as errors. Errors are reserved for I/O faults
// and carry the offending item.
package repository

import (
	"github.com/matzehuels/gembridge/pkg/maven"
	"github.com/matzehuels/gembridge/pkg/storage"
)

// Repository is a Maven repository the bridge reads from.
type Repository struct {
	ID      string
	Storage storage.Storage
	Layout  maven.Layout // nil means maven.DefaultLayout
}

// NewLocal returns a repository stored in dir with the default layout.
func NewLocal(id, dir string) (*Repository, error) {
	s, err := storage.NewLocal(dir)
	if err != nil {
		return nil, err
	}
	return &Repository{ID: id, Storage: s}, nil
}

// LayoutOrDefault returns the repository layout.
func (r *Repository) LayoutOrDefault() maven.Layout {
	if r == nil || r.Layout == nil {
		return maven.DefaultLayout{}
	}
	return r.Layout
}

// BaseDir returns the directory the repository is stored in, or an
// UNSUPPORTED_STORAGE error when its storage is not filesystem-backed.
func (r *Repository) BaseDir() (string, error) {
	var s storage.Storage
	if r != nil {
		s = r.Storage
	}
	fs, err := storage.AsFilesystem(s)
	if err != nil {
		return "", err
	}
	return fs.BaseDir(), nil
}
