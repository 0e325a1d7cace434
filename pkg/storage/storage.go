// Package storage describes the repository storage engines gembridge reads
// artifacts from.
//
// The conversion pipeline only needs one capability from a storage engine:
// mapping a repository-relative item path to a file on the local disk. That
// capability is [FilesystemBacked]. Other engines (remote proxies, virtual
// group repositories) implement only [Storage] and are rejected by the
// locating step with an UNSUPPORTED_STORAGE error.
package storage

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/gembridge/pkg/errors"
)

// Storage kinds.
const (
	KindLocal = "local"
	KindProxy = "proxy"
	KindGroup = "group"
)

// Storage is the minimal view of a repository's storage engine.
type Storage interface {
	// Kind names the engine, e.g. "local" or "proxy".
	Kind() string
}

// FilesystemBacked is implemented by storage whose items live as plain files
// under a base directory.
type FilesystemBacked interface {
	Storage

	// BaseDir returns the absolute root directory of the repository.
	BaseDir() string

	// FileFromBase maps a repository-relative path to an absolute file path.
	// The file need not exist.
	FileFromBase(rel string) (string, error)
}

// AsFilesystem returns s as FilesystemBacked, or an UNSUPPORTED_STORAGE
// error naming its kind.
func AsFilesystem(s Storage) (FilesystemBacked, error) {
	if s == nil {
		return nil, errors.New(errors.ErrCodeUnsupportedStorage, "repository has no storage")
	}
	fs, ok := s.(FilesystemBacked)
	if !ok {
		return nil, errors.New(errors.ErrCodeUnsupportedStorage, "storage kind %q is not filesystem-backed", s.Kind())
	}
	return fs, nil
}

// Local is a repository stored in a directory on the local disk.
type Local struct {
	dir string
}

var _ FilesystemBacked = (*Local)(nil)

// NewLocal returns storage rooted at dir. The directory must exist.
func NewLocal(dir string) (*Local, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "resolve repository directory %s", dir)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "repository directory %s", abs)
	}
	if !info.IsDir() {
		return nil, errors.New(errors.ErrCodeInvalidPath, "repository path %s is not a directory", abs)
	}
	return &Local{dir: abs}, nil
}

// Kind implements Storage.
func (l *Local) Kind() string { return KindLocal }

// BaseDir implements FilesystemBacked.
func (l *Local) BaseDir() string { return l.dir }

// FileFromBase implements FilesystemBacked. Paths escaping the base
// directory are rejected with INVALID_PATH.
func (l *Local) FileFromBase(rel string) (string, error) {
	rel = strings.TrimLeft(rel, "/")
	if err := errors.ValidatePath(rel); err != nil {
		return "", err
	}
	return filepath.Join(l.dir, filepath.FromSlash(rel)), nil
}

// Remote is a storage engine whose items are not on the local disk, such as
// a proxy of a remote repository or a virtual group. It only reports its kind.
type Remote struct {
	kind string
}

// NewRemote returns a non-filesystem storage of the given kind.
func NewRemote(kind string) *Remote {
	return &Remote{kind: kind}
}

// Kind implements Storage.
func (r *Remote) Kind() string { return r.kind }
