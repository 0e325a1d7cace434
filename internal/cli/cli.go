// Package cli implements the gembridge command-line interface.
package cli

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/gembridge/pkg/buildinfo"
	"github.com/matzehuels/gembridge/pkg/convert"
	"github.com/matzehuels/gembridge/pkg/gateway"
	"github.com/matzehuels/gembridge/pkg/gems"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "gembridge"

	// configFileName is looked up in the config directory.
	configFileName = "config.toml"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config *Config

	configPath string
}

// New creates a new CLI instance with a default logger and an empty config.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: &Config{},
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
// The config file is loaded before any subcommand runs.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           appName,
		Short:         "gembridge serves Maven artifacts as RubyGems",
		Long:          `gembridge converts artifacts stored in a Maven repository into RubyGems packages, so JRuby projects can depend on Java libraries through Bundler.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.loadConfig(cmd.Flags().Changed("config"))
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", defaultConfigPath(), "config file")

	// Register all subcommands
	root.AddCommand(c.convertCommand())
	root.AddCommand(c.specCommand())
	root.AddCommand(c.scanCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.completionCommand())

	return root
}

func (c *CLI) loadConfig(explicit bool) error {
	cfg, err := loadConfig(c.configPath, explicit)
	if err != nil {
		return err
	}
	for _, key := range cfg.undecoded {
		c.Logger.Warn("unknown config key", "key", key, "file", c.configPath)
	}
	c.Config = cfg
	return nil
}

// =============================================================================
// Gateway Factory
// =============================================================================

// newGateway creates a gateway using the configured naming policy unless
// naming is set.
func (c *CLI) newGateway(naming string, index bool) (*gateway.Gateway, error) {
	if naming == "" {
		naming = c.Config.Naming.Policy
	}
	policy, err := convert.ParseNamingPolicy(naming)
	if err != nil {
		return nil, err
	}
	codec := gems.YAMLCodec{}
	opts := []gateway.Option{gateway.WithLogger(c.Logger)}
	if index {
		opts = append(opts, gateway.WithIndexer(gateway.JSONIndexer{Codec: codec, Logger: c.Logger}))
	}
	conv := convert.NewConverter(codec, convert.Options{Naming: policy})
	return gateway.New(conv, codec, opts...), nil
}

// =============================================================================
// Paths
// =============================================================================

// configDir returns the config directory using XDG standard (~/.config/gembridge/).
func configDir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}

func defaultConfigPath() string {
	dir, err := configDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, configFileName)
}
