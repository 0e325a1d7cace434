package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/gembridge/pkg/errors"
	"github.com/matzehuels/gembridge/pkg/gems"
	"github.com/matzehuels/gembridge/pkg/scan"
)

func testRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	pom := func(a, packaging string) string {
		return `<project><groupId>org.acme</groupId><artifactId>` + a +
			`</artifactId><version>1.0</version><packaging>` + packaging + `</packaging></project>`
	}
	files := map[string]string{
		"org/acme/a/1.0/a-1.0.pom":         pom("a", "jar"),
		"org/acme/a/1.0/a-1.0.jar":         "jar bytes",
		"org/acme/nojar/1.0/nojar-1.0.pom": pom("nojar", "jar"),
	}
	for rel, content := range files {
		p := filepath.Join(dir, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

// execute runs the CLI with args and no config file.
func execute(t *testing.T, stdout io.Writer, args ...string) error {
	t.Helper()
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	root.SetArgs(append([]string{"--config", ""}, args...))
	root.SetOut(stdout)
	root.SetErr(io.Discard)
	return root.ExecuteContext(context.Background())
}

func TestConvertCommand(t *testing.T) {
	repo := testRepo(t)
	out := t.TempDir()

	if err := execute(t, io.Discard, "convert", "-r", repo, "-o", out, "org/acme/a/1.0/a-1.0.jar"); err != nil {
		t.Fatalf("convert: %v", err)
	}
	pkg, err := gems.OpenPackage(filepath.Join(out, "a-1.0-java.gem"), gems.YAMLCodec{})
	if err != nil {
		t.Fatal(err)
	}
	if string(pkg.Files["lib/a-1.0.jar"]) != "jar bytes" {
		t.Errorf("files = %v", pkg.FileNames())
	}

	// Absolute paths inside the repository work too.
	abs := filepath.Join(repo, "org", "acme", "a", "1.0", "a-1.0.pom")
	if err := execute(t, io.Discard, "convert", "-r", repo, "-o", out, "--stub", "--naming", "group", abs); err != nil {
		t.Fatalf("convert absolute: %v", err)
	}
	if _, err := os.Stat(filepath.Join(out, "org.acme.a-1.0-java.gem")); err != nil {
		t.Errorf("group-qualified gem: %v", err)
	}
}

func TestConvertCommand_NotConvertible(t *testing.T) {
	repo := testRepo(t)
	tests := map[string]string{
		"missing jar":  "org/acme/nojar/1.0/nojar-1.0.pom",
		"missing pom":  "org/acme/b/1.0/b-1.0.jar",
		"not artifact": "org/acme/a/1.0/a-1.0.pom.sha1",
	}
	for name, item := range tests {
		t.Run(name, func(t *testing.T) {
			err := execute(t, io.Discard, "convert", "-r", repo, "-o", t.TempDir(), item)
			if !errors.Is(err, errors.ErrCodeNotConvertible) {
				t.Errorf("error = %v, want NOT_CONVERTIBLE", err)
			}
		})
	}

	outside := filepath.Join(t.TempDir(), "a-1.0.jar")
	if err := execute(t, io.Discard, "convert", "-r", repo, outside); !errors.Is(err, errors.ErrCodeInvalidPath) {
		t.Errorf("outside repository: error = %v", err)
	}
	if err := execute(t, io.Discard, "convert", "-r", repo, "--naming", "odd", "org/acme/a/1.0/a-1.0.pom"); err == nil {
		t.Error("unknown naming policy should fail")
	}
}

func TestSpecCommand(t *testing.T) {
	repo := testRepo(t)

	var buf bytes.Buffer
	if err := execute(t, &buf, "spec", "-r", repo, "org/acme/a/1.0/a-1.0.pom"); err != nil {
		t.Fatalf("spec: %v", err)
	}
	spec, err := gems.YAMLCodec{}.Decode(buf.Bytes())
	if err != nil {
		t.Fatalf("decode stdout: %v\n%s", err, buf.String())
	}
	if spec.Name != "a" || spec.Version != "1.0" {
		t.Errorf("spec = %s", spec.FullName())
	}

	target := filepath.Join(t.TempDir(), "a.gemspec")
	if err := execute(t, io.Discard, "spec", "-r", repo, "-o", target, "org/acme/a/1.0/a-1.0.pom"); err != nil {
		t.Fatalf("spec -o: %v", err)
	}
	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(data, buf.Bytes()) {
		t.Error("file and stdout specifications differ")
	}
}

func TestScanCommand(t *testing.T) {
	repo := testRepo(t)
	out := t.TempDir()
	report := filepath.Join(t.TempDir(), "report.json")
	cfg := writeConfig(t, "[output]\ndir = \""+filepath.ToSlash(out)+"\"\nindex = true\n")

	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	root.SetArgs([]string{"--config", cfg, "scan", repo, "--report", report, "-j", "2"})
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("scan: %v", err)
	}

	for _, name := range []string{"a-1.0-java.gem", "index.json"} {
		if _, err := os.Stat(filepath.Join(out, name)); err != nil {
			t.Errorf("%s: %v", name, err)
		}
	}
	data, err := os.ReadFile(report)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), scan.ReasonNoBinary) {
		t.Errorf("report lacks the skipped item:\n%s", data)
	}
}

func TestScanCommand_BadPattern(t *testing.T) {
	err := execute(t, io.Discard, "scan", testRepo(t), "-o", t.TempDir(), "--include", "[oops")
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("error = %v, want INVALID_INPUT", err)
	}
}

func TestInspectCommand(t *testing.T) {
	repo := testRepo(t)
	out := t.TempDir()
	if err := execute(t, io.Discard, "convert", "-r", repo, "-o", out, "org/acme/a/1.0/a-1.0.pom"); err != nil {
		t.Fatal(err)
	}
	if err := execute(t, io.Discard, "inspect", filepath.Join(out, "a-1.0-java.gem")); err != nil {
		t.Errorf("inspect: %v", err)
	}
	if err := execute(t, io.Discard, "inspect", filepath.Join(out, "missing.gem")); !errors.Is(err, errors.ErrCodePackagingIO) {
		t.Errorf("inspect missing: error = %v", err)
	}
}

func TestCompletionCommand(t *testing.T) {
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		var out bytes.Buffer
		if err := execute(t, &out, "completion", shell); err != nil {
			t.Fatalf("completion %s: %v", shell, err)
		}
		if !strings.Contains(out.String(), "gembridge") {
			t.Errorf("completion %s output does not mention gembridge", shell)
		}
	}
	if err := execute(t, io.Discard, "completion", "tcsh"); err == nil {
		t.Error("completion tcsh: expected error")
	}
}

func TestNamingFlagCompletion(t *testing.T) {
	root := New(io.Discard, LogInfo).RootCommand()
	for _, name := range []string{"convert", "spec", "scan"} {
		cmd, _, err := root.Find([]string{name})
		if err != nil {
			t.Fatal(err)
		}
		complete, ok := cmd.GetFlagCompletionFunc("naming")
		if !ok {
			t.Fatalf("%s: no completion for --naming", name)
		}
		got, _ := complete(cmd, nil, "")
		if len(got) != 2 || got[0] != "artifact" || got[1] != "group" {
			t.Errorf("%s --naming completions = %v", name, got)
		}
	}
}
