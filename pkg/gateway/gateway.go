// Package gateway is the entry point a repository manager uses to turn Maven
// artifacts into RubyGems packages.
//
// A [Gateway] bundles a [convert.Converter] with the manifest codec and an
// optional package indexer. It holds no mutable state; every call is
// independent and may be retried.
package gateway

import (
	"io"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/gembridge/pkg/convert"
	"github.com/matzehuels/gembridge/pkg/errors"
	"github.com/matzehuels/gembridge/pkg/gems"
	gbio "github.com/matzehuels/gembridge/pkg/io"
)

// Indexer rebuilds the package index of a directory of gems.
type Indexer interface {
	Index(baseDir string, update bool) error
}

// Option configures a Gateway.
type Option func(*Gateway)

// WithLogger sets the logger. The default is log.Default().
func WithLogger(l *log.Logger) Option {
	return func(g *Gateway) {
		if l != nil {
			g.logger = l
		}
	}
}

// WithIndexer enables RefreshPackageIndex.
func WithIndexer(ix Indexer) Option {
	return func(g *Gateway) { g.indexer = ix }
}

// Gateway converts artifacts and writes the resulting files.
type Gateway struct {
	conv    *convert.Converter
	codec   gems.Codec
	indexer Indexer
	logger  *log.Logger
}

// New returns a Gateway. A nil conv uses convert.NewConverter with codec and
// default options; a nil codec uses gems.YAMLCodec. Manifests are always
// encoded with the converter's codec, so codec only matters when conv is nil.
func New(conv *convert.Converter, codec gems.Codec, opts ...Option) *Gateway {
	if conv == nil {
		if codec == nil {
			codec = gems.YAMLCodec{}
		}
		conv = convert.NewConverter(codec, convert.Options{})
	}
	g := &Gateway{conv: conv, codec: conv.Codec(), logger: log.Default()}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Converter returns the underlying converter.
func (g *Gateway) Converter() *convert.Converter {
	return g.conv
}

// CanConvert reports whether a can be converted.
func (g *Gateway) CanConvert(a *convert.Artifact) bool {
	return g.conv.CanConvert(a)
}

// ManifestFileName returns the file name of the gem built for a.
func (g *Gateway) ManifestFileName(a *convert.Artifact) string {
	return g.conv.GemFileName(a)
}

// WriteManifest encodes the specification of a and writes it to target,
// replacing any existing file atomically.
func (g *Gateway) WriteManifest(a *convert.Artifact, target string) error {
	spec, err := g.conv.Specification(a)
	if err != nil {
		return err
	}
	data, err := g.codec.Encode(spec)
	if err != nil {
		return err
	}
	err = gbio.WriteFileAtomic(target, func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	})
	if err != nil {
		return errors.WrapItem(errors.ErrCodePackagingIO, err, a.String(), "write manifest")
	}
	g.logger.Debug("wrote manifest", "artifact", a, "file", target)
	return nil
}

// CreateGemStub writes a gem without payload into dir.
func (g *Gateway) CreateGemStub(a *convert.Artifact, dir string) (string, error) {
	path, err := g.conv.CreateGemStub(a, dir)
	if err != nil {
		return "", err
	}
	g.logger.Debug("wrote gem stub", "artifact", a, "file", filepath.Base(path))
	return path, nil
}

// CreateGem writes the full gem into dir.
func (g *Gateway) CreateGem(a *convert.Artifact, dir string) (string, error) {
	path, err := g.conv.CreateGem(a, dir)
	if err != nil {
		return "", err
	}
	g.logger.Debug("wrote gem", "artifact", a, "file", filepath.Base(path))
	return path, nil
}

// IndexingSupported reports whether an Indexer is configured.
func (g *Gateway) IndexingSupported() bool {
	return g.indexer != nil
}

// RefreshPackageIndex rebuilds the index of the gems in baseDir, or only
// adds new gems when update is set. Without an Indexer it does nothing.
func (g *Gateway) RefreshPackageIndex(baseDir string, update bool) error {
	if g.indexer == nil {
		g.logger.Debug("package indexing not configured", "dir", baseDir)
		return nil
	}
	return g.indexer.Index(baseDir, update)
}
