package scan

import (
	"slices"
	"strings"
	"time"

	"github.com/matzehuels/gembridge/pkg/errors"
	gbio "github.com/matzehuels/gembridge/pkg/io"
)

// Report is the outcome of one scan.
type Report struct {
	RunID      string        `json:"run_id"`
	Repository string        `json:"repository"`
	OutputDir  string        `json:"output_dir"`
	StartedAt  time.Time     `json:"started_at"`
	Duration   time.Duration `json:"duration_ns"`
	Converted  []Converted   `json:"converted"`
	Skipped    []Skipped     `json:"skipped"`
	Failed     []Failed      `json:"failed"`
}

// Converted is an item written as a gem.
type Converted struct {
	Item        string `json:"item"`
	Coordinates string `json:"coordinates"`
	GemFile     string `json:"gem_file"`
	Stub        bool   `json:"stub,omitempty"`
}

// Skipped is an item that is not convertible.
type Skipped struct {
	Item   string `json:"item"`
	Reason string `json:"reason"`
}

// Failed is an item that hit an I/O fault or another hard error. Retryable
// is set for I/O faults, which a later scan may get past.
type Failed struct {
	Item      string `json:"item"`
	Code      string `json:"code,omitempty"`
	Error     string `json:"error"`
	Retryable bool   `json:"retryable,omitempty"`
}

func newFailed(item string, err error) *Failed {
	return &Failed{
		Item:      item,
		Code:      string(errors.GetCode(err)),
		Error:     err.Error(),
		Retryable: errors.IsIO(err),
	}
}

func (r *Report) add(res itemResult) {
	switch {
	case res.converted != nil:
		r.Converted = append(r.Converted, *res.converted)
	case res.skipped != nil:
		r.Skipped = append(r.Skipped, *res.skipped)
	case res.failed != nil:
		r.Failed = append(r.Failed, *res.failed)
	}
}

// finish sorts the outcomes by item, since workers complete in any order.
func (r *Report) finish() {
	r.Duration = time.Since(r.StartedAt)
	slices.SortFunc(r.Converted, func(a, b Converted) int { return strings.Compare(a.Item, b.Item) })
	slices.SortFunc(r.Skipped, func(a, b Skipped) int { return strings.Compare(a.Item, b.Item) })
	slices.SortFunc(r.Failed, func(a, b Failed) int { return strings.Compare(a.Item, b.Item) })
}

// Total returns the number of items the scan looked at.
func (r *Report) Total() int {
	return len(r.Converted) + len(r.Skipped) + len(r.Failed)
}

// OK reports whether no item failed.
func (r *Report) OK() bool {
	return len(r.Failed) == 0
}

// Export writes the report as JSON to path.
func (r *Report) Export(path string) error {
	return gbio.ExportJSON(r, path)
}
