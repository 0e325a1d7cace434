package repository

import (
	stderrors "errors"

	"github.com/matzehuels/gembridge/pkg/errors"
	"github.com/matzehuels/gembridge/pkg/maven"
	"github.com/matzehuels/gembridge/pkg/storage"
)

// MetadataBuilder builds effective POMs, resolving parents from the
// repository the POM belongs to.
type MetadataBuilder struct {
	builder maven.ModelBuilder
}

// NewMetadataBuilder wraps b. A nil b uses maven.NewModelBuilder.
func NewMetadataBuilder(b maven.ModelBuilder) *MetadataBuilder {
	if b == nil {
		b = maven.NewModelBuilder()
	}
	return &MetadataBuilder{builder: b}
}

// Build builds the model of pomFile.
//
// A POM that cannot be built (malformed, incomplete, unresolvable parent)
// returns ok=false and a nil error. Other failures, such as the file
// vanishing mid-read, are METADATA_IO errors carrying pomFile.
func (b *MetadataBuilder) Build(pomFile string, repo *Repository) (m *maven.Model, ok bool, err error) {
	m, err = b.builder.BuildModel(pomFile, newModelContext(repo))
	if err != nil {
		var mbe *maven.ModelBuildingError
		if stderrors.As(err, &mbe) {
			return nil, false, nil
		}
		return nil, false, errors.WrapItem(errors.ErrCodeMetadataIO, err, pomFile, "build model")
	}
	return m, true, nil
}

// modelContext resolves parent POMs inside one filesystem-backed repository.
type modelContext struct {
	fs     storage.FilesystemBacked
	layout maven.Layout
}

// newModelContext returns nil when repo cannot serve files, so that only
// self-contained POMs build.
func newModelContext(repo *Repository) maven.ModelContext {
	if repo == nil {
		return nil
	}
	fs, err := storage.AsFilesystem(repo.Storage)
	if err != nil {
		return nil
	}
	return modelContext{fs: fs, layout: repo.LayoutOrDefault()}
}

func (c modelContext) ResolvePOM(coords maven.Coordinates) (string, bool) {
	path, err := c.fs.FileFromBase(c.layout.CoordinatesToPath(coords.WithExtension(maven.ExtPOM)))
	if err != nil {
		return "", false
	}
	ok, err := isRegularFile(path)
	if err != nil || !ok {
		return "", false
	}
	return path, true
}
