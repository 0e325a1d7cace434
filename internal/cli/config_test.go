package cli

import (
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/spf13/cobra"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
[repository]
id = "releases"
base_dir = "/srv/maven"

[output]
dir = "/srv/gems"
stub = true

[scan]
include = ["**/*.pom"]
exclude = ["**/*-SNAPSHOT/**"]
jobs = 4

[naming]
policy = "group"
colour = "blue"
`)

	cfg, err := loadConfig(path, true)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Repository.ID != "releases" || cfg.Repository.BaseDir != "/srv/maven" {
		t.Errorf("Repository = %+v", cfg.Repository)
	}
	if cfg.Output.Dir != "/srv/gems" || !cfg.Output.Stub || cfg.Output.Index {
		t.Errorf("Output = %+v", cfg.Output)
	}
	if cfg.Scan.Jobs != 4 || !slices.Equal(cfg.Scan.Exclude, []string{"**/*-SNAPSHOT/**"}) {
		t.Errorf("Scan = %+v", cfg.Scan)
	}
	if cfg.Naming.Policy != "group" {
		t.Errorf("Naming = %+v", cfg.Naming)
	}
	if !slices.Equal(cfg.undecoded, []string{"naming.colour"}) {
		t.Errorf("undecoded = %v", cfg.undecoded)
	}
}

func TestLoadConfigMissing(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "none.toml")

	cfg, err := loadConfig(missing, false)
	if err != nil || cfg == nil {
		t.Fatalf("implicit missing config: %v", err)
	}
	if _, err := loadConfig(missing, true); err == nil {
		t.Error("explicit missing config should fail")
	}
	if cfg, err := loadConfig("", true); err != nil || cfg == nil {
		t.Errorf("empty path: %v", err)
	}
}

func TestLoadConfigInvalid(t *testing.T) {
	path := writeConfig(t, "[scan]\njobs = \"many\"\n")
	if _, err := loadConfig(path, true); err == nil {
		t.Error("expected parse error")
	}
}

func TestDefaultConfigPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	if got := defaultConfigPath(); got != filepath.Join("/tmp/xdg", "gembridge", "config.toml") {
		t.Errorf("defaultConfigPath() = %q", got)
	}
}

func TestFlagOr(t *testing.T) {
	newCmd := func(args ...string) *cobra.Command {
		cmd := &cobra.Command{Use: "x"}
		cmd.Flags().String("out", ".", "")
		cmd.Flags().Int("jobs", 0, "")
		cmd.Flags().StringSlice("exclude", nil, "")
		if err := cmd.Flags().Parse(args); err != nil {
			t.Fatal(err)
		}
		return cmd
	}

	cmd := newCmd()
	if got := flagOr(cmd, "out", ".", "/srv/gems"); got != "/srv/gems" {
		t.Errorf("unset flag: got %q, want config value", got)
	}
	if got := flagOr(cmd, "jobs", 0, 0); got != 0 {
		t.Errorf("unset flag, zero config: got %d", got)
	}

	cmd = newCmd("--out", "here", "--exclude", "a,b")
	if got := flagOr(cmd, "out", "here", "/srv/gems"); got != "here" {
		t.Errorf("set flag: got %q", got)
	}
	if got := flagOrSlice(cmd, "exclude", []string{"a", "b"}, []string{"c"}); !slices.Equal(got, []string{"a", "b"}) {
		t.Errorf("set slice flag: got %v", got)
	}
	if got := flagOrSlice(newCmd(), "exclude", nil, []string{"c"}); !slices.Equal(got, []string{"c"}) {
		t.Errorf("unset slice flag: got %v", got)
	}
}
