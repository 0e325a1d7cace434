package gems

import (
	"archive/tar"
	"bytes"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"hash"
	"io"
	"os"
	"slices"
	"time"

	"github.com/klauspost/compress/gzip"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/gembridge/pkg/errors"
)

// Entries of the outer .gem tar, in the order RubyGems writes them.
const (
	EntryMetadata  = "metadata.gz"
	EntryData      = "data.tar.gz"
	EntryChecksums = "checksums.yaml.gz"
)

// Epoch is the modification time stamped on every archive entry and gzip
// header, which keeps archives byte-for-byte reproducible.
var Epoch = time.Date(1980, time.January, 2, 0, 0, 0, 0, time.UTC)

// maxEntrySize bounds how much of a single archive entry ReadPackage buffers.
const maxEntrySize = 1 << 30

const (
	fileMode    = 0o644
	outerMode   = 0o444
	archiveUser = "wheel"
)

// File is one file of a gem's data archive.
type File struct {
	Name   string // slash-separated path inside the gem, e.g. "lib/a.rb"
	Mode   int64  // 0 means 0644
	Data   []byte // contents, used when Source is empty
	Source string // local file streamed into the archive
}

// WritePackage writes the .gem archive for spec and files to w.
//
// The specification is stored as-is; callers keep spec.Files in step with
// files. Failures reading a Source file or writing to w are PACKAGING_IO
// errors.
func WritePackage(w io.Writer, spec *Specification, codec Codec, files []File) error {
	meta, err := codec.Encode(spec)
	if err != nil {
		return err
	}
	metaGz, err := gzipBytes(meta)
	if err != nil {
		return errors.Wrap(errors.ErrCodePackagingIO, err, "compress %s", EntryMetadata)
	}
	data, err := dataArchive(files)
	if err != nil {
		return err
	}
	sums, err := checksums(map[string][]byte{EntryMetadata: metaGz, EntryData: data})
	if err != nil {
		return errors.Wrap(errors.ErrCodePackagingIO, err, "encode checksums")
	}
	sumsGz, err := gzipBytes(sums)
	if err != nil {
		return errors.Wrap(errors.ErrCodePackagingIO, err, "compress %s", EntryChecksums)
	}

	tw := tar.NewWriter(w)
	for _, e := range []struct {
		name string
		body []byte
	}{
		{EntryMetadata, metaGz},
		{EntryData, data},
		{EntryChecksums, sumsGz},
	} {
		if err := tw.WriteHeader(header(e.name, outerMode, int64(len(e.body)))); err != nil {
			return errors.Wrap(errors.ErrCodePackagingIO, err, "write %s header", e.name)
		}
		if _, err := tw.Write(e.body); err != nil {
			return errors.Wrap(errors.ErrCodePackagingIO, err, "write %s", e.name)
		}
	}
	if err := tw.Close(); err != nil {
		return errors.Wrap(errors.ErrCodePackagingIO, err, "close gem archive")
	}
	return nil
}

func header(name string, mode, size int64) *tar.Header {
	return &tar.Header{
		Typeflag: tar.TypeReg,
		Name:     name,
		Mode:     mode,
		Size:     size,
		ModTime:  Epoch,
		Uname:    archiveUser,
		Gname:    archiveUser,
	}
}

func newGzipWriter(w io.Writer) *gzip.Writer {
	zw, _ := gzip.NewWriterLevel(w, gzip.BestCompression) // level is valid
	zw.ModTime = Epoch
	return zw
}

func gzipBytes(b []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw := newGzipWriter(&buf)
	if _, err := zw.Write(b); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// dataArchive builds data.tar.gz in memory.
func dataArchive(files []File) ([]byte, error) {
	var buf bytes.Buffer
	zw := newGzipWriter(&buf)
	tw := tar.NewWriter(zw)
	for _, f := range files {
		if err := writeFile(tw, f); err != nil {
			return nil, err
		}
	}
	if err := tw.Close(); err != nil {
		return nil, errors.Wrap(errors.ErrCodePackagingIO, err, "close %s", EntryData)
	}
	if err := zw.Close(); err != nil {
		return nil, errors.Wrap(errors.ErrCodePackagingIO, err, "compress %s", EntryData)
	}
	return buf.Bytes(), nil
}

func writeFile(tw *tar.Writer, f File) error {
	mode := f.Mode
	if mode == 0 {
		mode = fileMode
	}
	if f.Source == "" {
		if err := tw.WriteHeader(header(f.Name, mode, int64(len(f.Data)))); err != nil {
			return errors.WrapItem(errors.ErrCodePackagingIO, err, f.Name, "write header")
		}
		if _, err := tw.Write(f.Data); err != nil {
			return errors.WrapItem(errors.ErrCodePackagingIO, err, f.Name, "write file")
		}
		return nil
	}

	src, err := os.Open(f.Source)
	if err != nil {
		return errors.WrapItem(errors.ErrCodePackagingIO, err, f.Source, "open payload")
	}
	defer src.Close()
	info, err := src.Stat()
	if err != nil {
		return errors.WrapItem(errors.ErrCodePackagingIO, err, f.Source, "stat payload")
	}
	if err := tw.WriteHeader(header(f.Name, mode, info.Size())); err != nil {
		return errors.WrapItem(errors.ErrCodePackagingIO, err, f.Name, "write header")
	}
	if _, err := io.Copy(tw, src); err != nil {
		return errors.WrapItem(errors.ErrCodePackagingIO, err, f.Source, "copy payload")
	}
	return nil
}

// checksumAlgorithms are written to checksums.yaml.gz.
var checksumAlgorithms = map[string]func() hash.Hash{
	"SHA256": sha256.New,
	"SHA512": sha512.New,
}

func checksums(entries map[string][]byte) ([]byte, error) {
	sums := make(map[string]map[string]string, len(checksumAlgorithms))
	for algo, newHash := range checksumAlgorithms {
		sums[algo] = make(map[string]string, len(entries))
		for name, body := range entries {
			h := newHash()
			h.Write(body)
			sums[algo][name] = hex.EncodeToString(h.Sum(nil))
		}
	}
	var buf bytes.Buffer
	buf.WriteString("---\n")
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(sums); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// =============================================================================
// Reading
// =============================================================================

// Package is a .gem archive read back into memory.
type Package struct {
	Spec      *Specification
	Files     map[string][]byte            // data archive contents by path
	Checksums map[string]map[string]string // algorithm -> entry -> hex digest
}

// FileNames returns the data archive paths in sorted order.
func (p *Package) FileNames() []string {
	names := make([]string, 0, len(p.Files))
	for name := range p.Files {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// OpenPackage reads the .gem file at path.
func OpenPackage(path string, codec Codec) (*Package, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.WrapItem(errors.ErrCodePackagingIO, err, path, "open gem")
	}
	defer f.Close()
	pkg, err := ReadPackage(f, codec)
	if err != nil {
		return nil, err
	}
	return pkg, nil
}

// ReadPackage reads a .gem archive, verifies the checksums it carries, and
// decodes its specification. Structural problems are INVALID_PACKAGE errors.
func ReadPackage(r io.Reader, codec Codec) (*Package, error) {
	entries := make(map[string][]byte, 3)
	tr := tar.NewReader(r)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidPackage, err, "read gem archive")
		}
		if hdr.Typeflag != tar.TypeReg {
			continue
		}
		body, err := io.ReadAll(io.LimitReader(tr, maxEntrySize))
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidPackage, err, "read %s", hdr.Name)
		}
		entries[hdr.Name] = body
	}

	metaGz, ok := entries[EntryMetadata]
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidPackage, "gem has no %s", EntryMetadata)
	}
	data, ok := entries[EntryData]
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidPackage, "gem has no %s", EntryData)
	}

	pkg := &Package{Files: make(map[string][]byte)}
	if sumsGz, ok := entries[EntryChecksums]; ok {
		raw, err := gunzip(sumsGz)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidPackage, err, "decompress %s", EntryChecksums)
		}
		if err := yaml.Unmarshal(raw, &pkg.Checksums); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidPackage, err, "parse %s", EntryChecksums)
		}
		if err := verifyChecksums(pkg.Checksums, entries); err != nil {
			return nil, err
		}
	}

	meta, err := gunzip(metaGz)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPackage, err, "decompress %s", EntryMetadata)
	}
	if pkg.Spec, err = codec.Decode(meta); err != nil {
		return nil, err
	}

	zr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPackage, err, "decompress %s", EntryData)
	}
	defer zr.Close()
	dr := tar.NewReader(zr)
	for {
		hdr, err := dr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidPackage, err, "read %s", EntryData)
		}
		if hdr.FileInfo().IsDir() {
			continue
		}
		body, err := io.ReadAll(io.LimitReader(dr, maxEntrySize))
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidPackage, err, "read %s", hdr.Name)
		}
		pkg.Files[hdr.Name] = body
	}
	return pkg, nil
}

func gunzip(b []byte) ([]byte, error) {
	zr, err := gzip.NewReader(bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	defer zr.Close()
	return io.ReadAll(io.LimitReader(zr, maxEntrySize))
}

func verifyChecksums(sums map[string]map[string]string, entries map[string][]byte) error {
	for algo, digests := range sums {
		newHash, ok := checksumAlgorithms[algo]
		if !ok {
			continue
		}
		for name, want := range digests {
			body, ok := entries[name]
			if !ok {
				return errors.New(errors.ErrCodeInvalidPackage, "checksum for missing entry %s", name)
			}
			h := newHash()
			h.Write(body)
			if got := hex.EncodeToString(h.Sum(nil)); got != want {
				return errors.New(errors.ErrCodeInvalidPackage, "%s mismatch for %s", algo, name)
			}
		}
	}
	return nil
}
