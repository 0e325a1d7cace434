package repository

import (
	"github.com/matzehuels/gembridge/pkg/convert"
	"github.com/matzehuels/gembridge/pkg/errors"
	"github.com/matzehuels/gembridge/pkg/maven"
)

// Skip reasons reported by Helper.Inspect.
const (
	ReasonNotArtifact        = "not a pom or jar file"
	ReasonLayout             = "path does not follow the repository layout"
	ReasonUnsupportedStorage = "storage is not filesystem-backed"
	ReasonNoMetadata         = "pom file not found"
	ReasonBadMetadata        = "pom cannot be built"
)

// Resolution is the outcome of resolving one repository item.
type Resolution struct {
	Coordinates maven.Coordinates
	Artifact    *convert.Artifact // nil when the item was skipped
	Reason      string            // why the item was skipped
}

// Skipped reports whether the item did not resolve to an artifact.
func (r Resolution) Skipped() bool {
	return r.Artifact == nil
}

// Helper resolves repository items into artifacts.
type Helper struct {
	metadata *MetadataBuilder
}

// NewHelper returns a Helper that builds POMs with b (nil for the default
// builder).
func NewHelper(b maven.ModelBuilder) *Helper {
	return &Helper{metadata: NewMetadataBuilder(b)}
}

// ArtifactForItem resolves itemPath in repo. It returns a nil artifact and a
// nil error when the item is not convertible; see Inspect for the reason.
//
// The artifact of a jar-packaged POM whose jar is missing is still returned;
// convert.Converter.CanConvert rejects it.
func (h *Helper) ArtifactForItem(repo *Repository, itemPath string) (*convert.Artifact, error) {
	res, err := h.Inspect(repo, itemPath)
	if err != nil {
		return nil, err
	}
	return res.Artifact, nil
}

// Inspect resolves itemPath in repo and explains skips. Errors are I/O
// faults only, identified by item.
func (h *Helper) Inspect(repo *Repository, itemPath string) (Resolution, error) {
	coords, ok := Resolver{Layout: repo.LayoutOrDefault()}.Resolve(itemPath)
	if !ok {
		if !isArtifactFile(itemPath) {
			return Resolution{Reason: ReasonNotArtifact}, nil
		}
		return Resolution{Reason: ReasonLayout}, nil
	}
	res := Resolution{Coordinates: coords}

	loc, err := Locator{}.Locate(coords, repo)
	switch {
	case errors.Is(err, errors.ErrCodeUnsupportedStorage):
		res.Reason = ReasonUnsupportedStorage
		return res, nil
	case err != nil:
		return res, err
	case !loc.MetadataExists:
		res.Reason = ReasonNoMetadata
		return res, nil
	}

	model, ok, err := h.metadata.Build(loc.MetadataFile, repo)
	if err != nil {
		return res, err
	}
	if !ok {
		res.Reason = ReasonBadMetadata
		return res, nil
	}

	res.Artifact = &convert.Artifact{
		Coordinates: coords,
		Model:       model,
		BinaryFile:  loc.BinaryFile,
	}
	return res, nil
}

func isArtifactFile(path string) bool {
	_, ok := Resolver{}.artifactPOMPath(path)
	return ok
}
