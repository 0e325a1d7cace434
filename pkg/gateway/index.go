package gateway

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/gembridge/pkg/errors"
	"github.com/matzehuels/gembridge/pkg/gems"
	gbio "github.com/matzehuels/gembridge/pkg/io"
)

// IndexFileName is the index written by JSONIndexer.
const IndexFileName = "index.json"

// IndexEntry describes one gem of a JSON index.
type IndexEntry struct {
	File         string            `json:"file"`
	Name         string            `json:"name"`
	Version      string            `json:"version"`
	Platform     string            `json:"platform"`
	Dependencies []IndexDependency `json:"dependencies,omitempty"`
	SHA256       string            `json:"sha256,omitempty"` // of data.tar.gz
	Size         int64             `json:"size"`
	Digest       string            `json:"digest"` // SHA256 of the .gem file
}

// IndexDependency is a runtime dependency of an indexed gem.
type IndexDependency struct {
	Name        string `json:"name"`
	Requirement string `json:"requirement"`
}

// IndexSkip is a .gem file that could not be indexed.
type IndexSkip struct {
	File   string `json:"file"`
	Reason string `json:"reason"`
}

// Index is the content of an index file.
type Index struct {
	Gems    []IndexEntry `json:"gems"`
	Skipped []IndexSkip  `json:"skipped,omitempty"`
}

// JSONIndexer lists the gems of a directory in IndexFileName.
type JSONIndexer struct {
	Codec  gems.Codec  // nil means gems.YAMLCodec
	Logger *log.Logger // nil means log.Default()
}

var _ Indexer = JSONIndexer{}

// Index implements Indexer. With update set, an entry of the existing index
// is reused when its file still has the recorded size and digest; any other
// gem is read again. Entries for deleted gems are dropped either way.
//
// A .gem that cannot be read is logged and listed under Skipped; it does not
// fail the refresh.
func (ix JSONIndexer) Index(baseDir string, update bool) error {
	codec := ix.Codec
	if codec == nil {
		codec = gems.YAMLCodec{}
	}
	logger := ix.Logger
	if logger == nil {
		logger = log.Default()
	}
	indexPath := filepath.Join(baseDir, IndexFileName)

	known := make(map[string]IndexEntry)
	if update {
		idx, err := ReadIndex(indexPath)
		switch {
		case err == nil:
			for _, e := range idx.Gems {
				known[e.File] = e
			}
		case os.IsNotExist(err):
		default:
			logger.Warn("ignoring unreadable index", "file", indexPath, "err", err)
		}
	}

	dirents, err := os.ReadDir(baseDir)
	if err != nil {
		return errors.WrapItem(errors.ErrCodePackagingIO, err, baseDir, "list gems")
	}
	out := Index{Gems: []IndexEntry{}}
	for _, d := range dirents {
		if !d.Type().IsRegular() || !strings.HasSuffix(d.Name(), ".gem") {
			continue
		}
		path := filepath.Join(baseDir, d.Name())
		size, digest, err := fileDigest(path)
		if err != nil {
			logger.Warn("skipping gem", "file", d.Name(), "err", err)
			out.Skipped = append(out.Skipped, IndexSkip{File: d.Name(), Reason: err.Error()})
			continue
		}
		if e, ok := known[d.Name()]; ok && e.Size == size && e.Digest == digest {
			out.Gems = append(out.Gems, e)
			continue
		}
		e, err := indexEntry(path, codec)
		if err != nil {
			logger.Warn("skipping gem", "file", d.Name(), "err", err)
			out.Skipped = append(out.Skipped, IndexSkip{File: d.Name(), Reason: err.Error()})
			continue
		}
		e.Size, e.Digest = size, digest
		out.Gems = append(out.Gems, e)
	}
	slices.SortFunc(out.Gems, func(a, b IndexEntry) int {
		return strings.Compare(a.File, b.File)
	})

	if err := gbio.ExportJSON(out, indexPath); err != nil {
		return errors.WrapItem(errors.ErrCodePackagingIO, err, indexPath, "write index")
	}
	logger.Debug("wrote index", "file", indexPath, "gems", len(out.Gems), "skipped", len(out.Skipped))
	return nil
}

func indexEntry(path string, codec gems.Codec) (IndexEntry, error) {
	pkg, err := gems.OpenPackage(path, codec)
	if err != nil {
		return IndexEntry{}, err
	}
	e := IndexEntry{
		File:     filepath.Base(path),
		Name:     pkg.Spec.Name,
		Version:  pkg.Spec.Version,
		Platform: pkg.Spec.Platform,
		SHA256:   pkg.Checksums["SHA256"][gems.EntryData],
	}
	for _, dep := range pkg.Spec.RuntimeDependencies() {
		e.Dependencies = append(e.Dependencies, IndexDependency{Name: dep.Name, Requirement: dep.Requirement.String()})
	}
	return e, nil
}

func fileDigest(path string) (int64, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, "", errors.WrapItem(errors.ErrCodePackagingIO, err, path, "open gem")
	}
	defer f.Close()
	h := sha256.New()
	n, err := io.Copy(h, f)
	if err != nil {
		return 0, "", errors.WrapItem(errors.ErrCodePackagingIO, err, path, "read gem")
	}
	return n, hex.EncodeToString(h.Sum(nil)), nil
}

// ReadIndex reads an index file written by JSONIndexer. A missing file
// returns an error satisfying os.IsNotExist.
func ReadIndex(path string) (*Index, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var idx Index
	if err := json.Unmarshal(data, &idx); err != nil {
		return nil, errors.WrapItem(errors.ErrCodeInvalidInput, err, path, "parse index")
	}
	return &idx, nil
}
