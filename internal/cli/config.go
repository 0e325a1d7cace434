package cli

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"
)

// Config is the content of the gembridge config file.
//
//	[repository]
//	id = "releases"
//	base_dir = "/srv/maven"
//
//	[output]
//	dir = "/srv/gems"
//	stub = false
//	index = true
//
//	[scan]
//	include = ["**/*.pom"]
//	exclude = ["**/*-SNAPSHOT/**"]
//	jobs = 4
//	report = "/var/log/gembridge/last-scan.json"
//
//	[naming]
//	policy = "artifact"
type Config struct {
	Repository RepositoryConfig `toml:"repository"`
	Output     OutputConfig     `toml:"output"`
	Scan       ScanConfig       `toml:"scan"`
	Naming     NamingConfig     `toml:"naming"`

	undecoded []string
}

// RepositoryConfig locates the Maven repository.
type RepositoryConfig struct {
	ID      string `toml:"id"`
	BaseDir string `toml:"base_dir"`
}

// OutputConfig controls where and how gems are written.
type OutputConfig struct {
	Dir   string `toml:"dir"`
	Stub  bool   `toml:"stub"`
	Index bool   `toml:"index"`
}

// ScanConfig holds batch scan settings.
type ScanConfig struct {
	Include []string `toml:"include"`
	Exclude []string `toml:"exclude"`
	Jobs    int      `toml:"jobs"`
	Report  string   `toml:"report"`
}

// NamingConfig selects the gem naming policy ("artifact" or "group").
type NamingConfig struct {
	Policy string `toml:"policy"`
}

// loadConfig reads the config file at path. A missing file yields an empty
// config unless explicit is set, i.e. the user named the file.
func loadConfig(path string, explicit bool) (*Config, error) {
	if path == "" {
		return &Config{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	for _, key := range md.Undecoded() {
		cfg.undecoded = append(cfg.undecoded, key.String())
	}
	return &cfg, nil
}

// flagOr returns the value of the named flag when it was set on the command
// line or when the config value is zero, and the config value otherwise.
func flagOr[T comparable](cmd *cobra.Command, name string, flag, config T) T {
	var zero T
	if cmd.Flags().Changed(name) || config == zero {
		return flag
	}
	return config
}

// flagOrSlice is flagOr for string slices.
func flagOrSlice(cmd *cobra.Command, name string, flag, config []string) []string {
	if cmd.Flags().Changed(name) || len(config) == 0 {
		return flag
	}
	return config
}
