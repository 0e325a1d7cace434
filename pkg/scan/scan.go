// Package scan converts every artifact of a filesystem-backed repository in
// one batch.
//
// A [Scanner] walks the repository base directory, selects items with glob
// patterns, resolves each through [repository.Helper] and writes gems through
// a [gateway.Gateway]. Items run concurrently up to Options.Jobs. One bad
// artifact never aborts the batch: skips and failures are recorded in the
// [Report] and the scan moves on. Only context cancellation and an
// unreadable base directory stop a scan early.
package scan

import (
	"context"
	"io/fs"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gobwas/glob"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/gembridge/pkg/convert"
	"github.com/matzehuels/gembridge/pkg/errors"
	"github.com/matzehuels/gembridge/pkg/gateway"
	"github.com/matzehuels/gembridge/pkg/observability"
	"github.com/matzehuels/gembridge/pkg/repository"
)

// DefaultInclude selects every POM of a repository.
var DefaultInclude = []string{"**/*.pom"}

// Skip reasons reported for resolved artifacts that cannot be converted.
const (
	ReasonNoBinary    = "jar file not found"
	ReasonInvalidName = "no valid gem name"
)

// Options configures a Scanner.
type Options struct {
	Include      []string // glob patterns over slash-separated item paths; empty means DefaultInclude
	Exclude      []string
	Jobs         int  // concurrent conversions; <= 0 means runtime.NumCPU()
	Stub         bool // write stubs instead of full gems
	RefreshIndex bool // refresh the gateway package index after the scan
}

// Scanner runs batch conversions.
type Scanner struct {
	gw      *gateway.Gateway
	helper  *repository.Helper
	include []glob.Glob
	exclude []glob.Glob
	jobs    int
	stub    bool
	refresh bool
	logger  *log.Logger
}

// New returns a Scanner writing through gw. A nil logger uses log.Default().
// Patterns that do not compile are INVALID_INPUT errors.
func New(gw *gateway.Gateway, opts Options, logger *log.Logger) (*Scanner, error) {
	if gw == nil {
		gw = gateway.New(nil, nil)
	}
	if logger == nil {
		logger = log.Default()
	}
	include := opts.Include
	if len(include) == 0 {
		include = DefaultInclude
	}
	s := &Scanner{
		gw:      gw,
		helper:  repository.NewHelper(nil),
		jobs:    opts.Jobs,
		stub:    opts.Stub,
		refresh: opts.RefreshIndex,
		logger:  logger,
	}
	if s.jobs <= 0 {
		s.jobs = runtime.NumCPU()
	}
	var err error
	if s.include, err = compilePatterns(include); err != nil {
		return nil, err
	}
	if s.exclude, err = compilePatterns(opts.Exclude); err != nil {
		return nil, err
	}
	return s, nil
}

func compilePatterns(patterns []string) ([]glob.Glob, error) {
	out := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(strings.TrimPrefix(p, "/"), '/')
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid pattern %q", p)
		}
		out = append(out, g)
	}
	return out, nil
}

// Selects reports whether item, a slash-separated repository path, passes
// the include and exclude patterns.
func (s *Scanner) Selects(item string) bool {
	item = strings.TrimPrefix(item, "/")
	for _, g := range s.exclude {
		if g.Match(item) {
			return false
		}
	}
	for _, g := range s.include {
		if g.Match(item) {
			return true
		}
	}
	return false
}

// Scan converts the selected items of repo into outDir.
//
// The returned report is complete up to the point the scan stopped. The
// error is non-nil only when the scan could not run to completion: a
// repository that is not filesystem-backed, an unreadable directory, a
// cancelled context or a failed index refresh.
func (s *Scanner) Scan(ctx context.Context, repo *repository.Repository, outDir string) (*Report, error) {
	runID := uuid.New().String()
	logger := s.logger.With("run", runID[:8])
	report := &Report{RunID: runID, OutputDir: outDir, StartedAt: time.Now()}
	if repo != nil {
		report.Repository = repo.ID
	}

	baseDir, err := repo.BaseDir()
	if err != nil {
		return report, err
	}
	observability.Scan().OnScanStart(ctx, runID, baseDir)
	logger.Info("scanning repository", "repository", report.Repository, "dir", baseDir, "jobs", s.jobs)

	var (
		mu sync.Mutex
		g  errgroup.Group
	)
	g.SetLimit(s.jobs)

	walkErr := filepath.WalkDir(baseDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return errors.WrapItem(errors.ErrCodeLocatorIO, err, path, "walk repository")
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			if path != baseDir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(baseDir, path)
		if err != nil {
			return err
		}
		item := filepath.ToSlash(rel)
		if !s.Selects(item) {
			return nil
		}
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			res := s.convertItem(ctx, logger, repo, item, outDir)
			mu.Lock()
			report.add(res)
			mu.Unlock()
			if res.skipped != nil {
				observability.Scan().OnItemSkipped(ctx, runID, item, res.skipped.Reason)
			}
			return nil
		})
		return nil
	})
	g.Wait()

	report.finish()
	if walkErr == nil {
		walkErr = ctx.Err()
	}
	if walkErr == nil && s.refresh && len(report.Converted) > 0 {
		if walkErr = s.gw.RefreshPackageIndex(outDir, true); walkErr != nil {
			logger.Error("index refresh failed", "dir", outDir, "err", walkErr)
		}
	}
	observability.Scan().OnScanComplete(ctx, runID, len(report.Converted), len(report.Skipped), len(report.Failed), report.Duration, walkErr)

	logger.Info("scan finished",
		"converted", len(report.Converted),
		"skipped", len(report.Skipped),
		"failed", len(report.Failed),
		"duration", report.Duration)
	return report, walkErr
}

// itemResult holds exactly one outcome.
type itemResult struct {
	converted *Converted
	skipped   *Skipped
	failed    *Failed
}

func (s *Scanner) convertItem(ctx context.Context, logger *log.Logger, repo *repository.Repository, item, outDir string) itemResult {
	res, err := s.helper.Inspect(repo, item)
	if err != nil {
		logger.Warn("cannot resolve item", "item", item, "err", err)
		return itemResult{failed: newFailed(item, err)}
	}
	if res.Skipped() {
		logger.Debug("skipped", "item", item, "reason", res.Reason)
		return itemResult{skipped: &Skipped{Item: item, Reason: res.Reason}}
	}
	a := res.Artifact
	if !s.gw.CanConvert(a) {
		reason := ReasonNoBinary
		if err := errors.ValidateGemName(s.gw.Converter().GemName(a)); err != nil {
			reason = ReasonInvalidName
		}
		logger.Debug("skipped", "item", item, "reason", reason)
		return itemResult{skipped: &Skipped{Item: item, Reason: reason}}
	}

	observability.Conversion().OnConvertStart(ctx, a.String())
	start := time.Now()
	gemFile, err := s.write(a, outDir)
	observability.Conversion().OnConvertComplete(ctx, a.String(), gemFile, time.Since(start), err)
	if err != nil {
		logger.Error("conversion failed", "item", item, "err", err)
		return itemResult{failed: newFailed(item, err)}
	}
	logger.Debug("converted", "item", item, "gem", filepath.Base(gemFile))
	return itemResult{converted: &Converted{
		Item:        item,
		Coordinates: a.Coordinates.String(),
		GemFile:     gemFile,
		Stub:        s.stub,
	}}
}

func (s *Scanner) write(a *convert.Artifact, outDir string) (string, error) {
	if s.stub {
		return s.gw.CreateGemStub(a, outDir)
	}
	return s.gw.CreateGem(a, outDir)
}
