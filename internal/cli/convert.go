package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/gembridge/pkg/convert"
	"github.com/matzehuels/gembridge/pkg/errors"
	"github.com/matzehuels/gembridge/pkg/gateway"
	"github.com/matzehuels/gembridge/pkg/repository"
)

// artifactOpts holds the flags shared by commands that resolve one item.
type artifactOpts struct {
	repoDir string // repository base directory
	repoID  string // repository name shown in logs
	naming  string // gem naming policy
}

func (o *artifactOpts) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.repoDir, "repo", "r", ".", "Maven repository base directory")
	cmd.Flags().StringVar(&o.repoID, "repo-id", "local", "repository name")
	namingFlag(cmd, &o.naming)
}

// resolve returns the convertible artifact named by item. Items that do not
// resolve or cannot be converted are NOT_CONVERTIBLE errors.
func (c *CLI) resolve(cmd *cobra.Command, o *artifactOpts, gw *gateway.Gateway, item string) (*convert.Artifact, error) {
	dir := flagOr(cmd, "repo", o.repoDir, c.Config.Repository.BaseDir)
	id := flagOr(cmd, "repo-id", o.repoID, c.Config.Repository.ID)
	repo, err := repository.NewLocal(id, dir)
	if err != nil {
		return nil, err
	}
	rel, err := itemPath(repo, item)
	if err != nil {
		return nil, err
	}

	res, err := repository.NewHelper(nil).Inspect(repo, rel)
	if err != nil {
		return nil, err
	}
	if res.Skipped() {
		return nil, &errors.Error{Code: errors.ErrCodeNotConvertible, Message: res.Reason, Item: rel}
	}
	if !gw.CanConvert(res.Artifact) {
		return nil, &errors.Error{Code: errors.ErrCodeNotConvertible, Message: "jar file not found", Item: rel}
	}
	c.Logger.Debug("resolved artifact", "item", rel, "artifact", res.Artifact)
	return res.Artifact, nil
}

// itemPath turns a command line argument into a repository item path. Paths
// that exist on disk are taken relative to the repository base directory.
func itemPath(repo *repository.Repository, arg string) (string, error) {
	if !filepath.IsAbs(arg) {
		return filepath.ToSlash(filepath.Clean(arg)), nil
	}
	base, err := repo.BaseDir()
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(base, arg)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", errors.New(errors.ErrCodeInvalidPath, "%s is outside repository %s", arg, base)
	}
	return filepath.ToSlash(rel), nil
}

// convertOpts holds the command-line flags for the convert command.
type convertOpts struct {
	artifactOpts
	output string // output directory
	stub   bool   // write a gem without payload
}

// convertCommand creates the convert command.
func (c *CLI) convertCommand() *cobra.Command {
	opts := &convertOpts{}

	cmd := &cobra.Command{
		Use:   "convert <item>",
		Short: "Convert one artifact into a .gem",
		Long: `Convert the artifact named by a repository item path (its .pom or .jar)
into a java-platform gem.

Example:
  gembridge convert -r /srv/maven com/google/guava/guava/31.0-jre/guava-31.0-jre.jar -o gems/`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runConvert(cmd, opts, args[0])
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVarP(&opts.output, "output", "o", ".", "output directory")
	cmd.Flags().BoolVar(&opts.stub, "stub", false, "write a gem without payload")

	return cmd
}

func (c *CLI) runConvert(cmd *cobra.Command, opts *convertOpts, item string) error {
	prog := newProgress(c.Logger)
	gw, err := c.newGateway(opts.naming, false)
	if err != nil {
		return err
	}
	a, err := c.resolve(cmd, &opts.artifactOpts, gw, item)
	if err != nil {
		return err
	}

	outDir := flagOr(cmd, "output", opts.output, c.Config.Output.Dir)
	write := gw.CreateGem
	if flagOr(cmd, "stub", opts.stub, c.Config.Output.Stub) {
		write = gw.CreateGemStub
	}
	path, err := write(a, outDir)
	if err != nil {
		return err
	}
	prog.done("Converted " + a.String())

	printSuccess("Wrote %s", StyleHighlight.Render(filepath.Base(path)))
	printFile(path)
	return nil
}

// specOpts holds the command-line flags for the spec command.
type specOpts struct {
	artifactOpts
	output string // gemspec file (stdout if empty)
}

// specCommand creates the spec command.
func (c *CLI) specCommand() *cobra.Command {
	opts := &specOpts{}

	cmd := &cobra.Command{
		Use:   "spec <item>",
		Short: "Print the gem specification of one artifact",
		Long: `Print the YAML gem specification generated for an artifact, or write it
to a file with --output.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			gw, err := c.newGateway(opts.naming, false)
			if err != nil {
				return err
			}
			a, err := c.resolve(cmd, &opts.artifactOpts, gw, args[0])
			if err != nil {
				return err
			}
			if opts.output != "" {
				if err := gw.WriteManifest(a, opts.output); err != nil {
					return err
				}
				printSuccess("Wrote %s", opts.output)
				return nil
			}
			spec, err := gw.Converter().Specification(a)
			if err != nil {
				return err
			}
			data, err := gw.Converter().Codec().Encode(spec)
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), string(data))
			return err
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write the gemspec to this file")

	return cmd
}
