package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/gembridge/pkg/repository"
	"github.com/matzehuels/gembridge/pkg/scan"
)

// scanOpts holds the command-line flags for the scan command.
type scanOpts struct {
	repoID  string
	output  string
	include []string
	exclude []string
	jobs    int
	stub    bool
	index   bool
	report  string
	naming  string
}

// scanCommand creates the scan command.
func (c *CLI) scanCommand() *cobra.Command {
	opts := &scanOpts{}

	cmd := &cobra.Command{
		Use:   "scan [repo-dir]",
		Short: "Convert every artifact of a repository",
		Long: `Walk a Maven repository and write a gem for every convertible artifact.

Items that are not convertible are reported as skipped; items that fail are
reported and the scan continues. The command exits non-zero when any item
failed.

Example:
  gembridge scan /srv/maven -o /srv/gems --exclude '**/*-SNAPSHOT/**' --index`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := c.Config.Repository.BaseDir
			if len(args) == 1 {
				dir = args[0]
			}
			if dir == "" {
				dir = "."
			}
			return c.runScan(cmd, opts, dir)
		},
	}

	cmd.Flags().StringVar(&opts.repoID, "repo-id", "local", "repository name")
	cmd.Flags().StringVarP(&opts.output, "output", "o", ".", "output directory")
	cmd.Flags().StringSliceVar(&opts.include, "include", scan.DefaultInclude, "glob patterns of items to convert")
	cmd.Flags().StringSliceVar(&opts.exclude, "exclude", nil, "glob patterns of items to leave out")
	cmd.Flags().IntVarP(&opts.jobs, "jobs", "j", 0, "concurrent conversions (0 = number of CPUs)")
	cmd.Flags().BoolVar(&opts.stub, "stub", false, "write gems without payload")
	cmd.Flags().BoolVar(&opts.index, "index", false, "refresh index.json in the output directory")
	cmd.Flags().StringVar(&opts.report, "report", "", "write a JSON report to this file")
	namingFlag(cmd, &opts.naming)

	return cmd
}

func (c *CLI) runScan(cmd *cobra.Command, opts *scanOpts, dir string) error {
	cfg := c.Config
	index := flagOr(cmd, "index", opts.index, cfg.Output.Index)
	gw, err := c.newGateway(opts.naming, index)
	if err != nil {
		return err
	}
	repo, err := repository.NewLocal(flagOr(cmd, "repo-id", opts.repoID, cfg.Repository.ID), dir)
	if err != nil {
		return err
	}
	s, err := scan.New(gw, scan.Options{
		Include:      flagOrSlice(cmd, "include", opts.include, cfg.Scan.Include),
		Exclude:      flagOrSlice(cmd, "exclude", opts.exclude, cfg.Scan.Exclude),
		Jobs:         flagOr(cmd, "jobs", opts.jobs, cfg.Scan.Jobs),
		Stub:         flagOr(cmd, "stub", opts.stub, cfg.Output.Stub),
		RefreshIndex: index,
	}, c.Logger)
	if err != nil {
		return err
	}

	outDir := flagOr(cmd, "output", opts.output, cfg.Output.Dir)
	report, scanErr := s.Scan(cmd.Context(), repo, outDir)

	if path := flagOr(cmd, "report", opts.report, cfg.Scan.Report); path != "" {
		if err := report.Export(path); err != nil {
			c.Logger.Error("cannot write report", "file", path, "err", err)
		} else {
			printFile(path)
		}
	}
	if scanErr != nil {
		return scanErr
	}

	if report.Total() == 0 {
		printInfo("No items matched in %s", dir)
		return nil
	}
	printReport(report)
	if !report.OK() {
		return fmt.Errorf("%d of %d items failed", len(report.Failed), report.Total())
	}
	return nil
}

func printReport(r *scan.Report) {
	printSuccess("Converted %s artifacts into %s",
		StyleNumber.Render(fmt.Sprint(len(r.Converted))), StyleValue.Render(r.OutputDir))
	printStats(len(r.Converted), len(r.Skipped), len(r.Failed), r.Duration)
	for _, f := range r.Failed {
		if f.Retryable {
			printError("%s: %s (retryable)", f.Item, f.Error)
			continue
		}
		printError("%s: %s", f.Item, f.Error)
	}
}
