package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dgallion1/mdcount/internal/config"
)

const sampleDoc = "# Title\n\nSome words here.\n"

// runCLI executes the root command with an isolated config home.
func runCLI(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{}, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func isolateConfig(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", home)
	return filepath.Join(home, "mdcount", "config.toml")
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestCount_Stdin(t *testing.T) {
	isolateConfig(t)

	tests := []struct {
		name  string
		stdin string
		args  []string
		want  string
	}{
		{"defaults", sampleDoc, nil, "<stdin> has 4 words\nTotal: 4\n"},
		{"headings off", sampleDoc, []string{"--headings=false"}, "<stdin> has 3 words\nTotal: 3\n"},
		{"all", sampleDoc, []string{"--all"}, "<stdin> has 4 words\nTotal: 4\n"},
		{"empty input", "", nil, "<stdin> has 0 words\nTotal: 0\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := runCLI(t, tt.stdin, tt.args...)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if out != tt.want {
				t.Errorf("expected %q, got %q", tt.want, out)
			}
		})
	}
}

func TestCount_Files(t *testing.T) {
	isolateConfig(t)
	dir := t.TempDir()
	a := filepath.Join(dir, "a.md")
	b := filepath.Join(dir, "b.md")
	writeFile(t, a, "one two")
	writeFile(t, b, "> quoted words\n\nthree")

	out, _, err := runCLI(t, "", a, b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := fmt.Sprintf("%s has 2 words\n%s has 1 words\nTotal: 3\n", a, b)
	if out != want {
		t.Errorf("expected %q, got %q", want, out)
	}

	out, _, err = runCLI(t, "", "--blockquotes", "--jobs=1", a, b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasSuffix(out, "Total: 5\n") {
		t.Errorf("expected blockquotes to count, got %q", out)
	}
}

func TestCount_JSON(t *testing.T) {
	isolateConfig(t)
	out, _, err := runCLI(t, sampleDoc, "--json", "--headings=false")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var report jsonReport
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("decode report %q: %v", out, err)
	}
	if report.Total != 3 || len(report.Files) != 1 || report.Files[0].Name != stdinName {
		t.Errorf("unexpected report %+v", report)
	}
	if report.Options != "footnotes,tables" {
		t.Errorf("unexpected options %q", report.Options)
	}
}

func TestCount_Errors(t *testing.T) {
	isolateConfig(t)
	dir := t.TempDir()
	unsupported := filepath.Join(dir, "image.png")
	writeFile(t, unsupported, "binary")
	good := filepath.Join(dir, "good.md")
	writeFile(t, good, "fine words")

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"force without output", []string{"--force"}, "--force is only allowed with --output"},
		{"all with a category", []string{"--all", "--headings"}, "none of the others can be"},
		{"missing file", []string{filepath.Join(dir, "missing.md")}, "could not open file"},
		{"bad jobs", []string{"--jobs=0"}, "--jobs must be > 0"},
		{"unsupported file", []string{good, unsupported}, "1 of 2 files could not be counted"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := runCLI(t, sampleDoc, tt.args...)
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestCount_PartialFailureStillReports(t *testing.T) {
	isolateConfig(t)
	dir := t.TempDir()
	good := filepath.Join(dir, "good.md")
	writeFile(t, good, "fine words")

	out, stderr, err := runCLI(t, "", good, filepath.Join(dir, "x.png"))
	if err == nil {
		// x.png does not exist, so reading fails before counting.
		t.Fatal("expected an error")
	}
	if out != "" {
		t.Errorf("expected no report when an input cannot be read, got %q", out)
	}
	if !strings.Contains(stderr, "could not open file") {
		t.Errorf("expected the error on stderr, got %q", stderr)
	}

	png := filepath.Join(dir, "y.png")
	writeFile(t, png, "bytes")
	out, stderr, err = runCLI(t, "", good, png)
	if err == nil {
		t.Fatal("expected an error")
	}
	want := fmt.Sprintf("%s has 2 words\nTotal: 2\n", good)
	if out != want {
		t.Errorf("expected %q, got %q", want, out)
	}
	if !strings.Contains(stderr, "could not count file") {
		t.Errorf("expected a logged failure, got %q", stderr)
	}
}

func TestCount_Output(t *testing.T) {
	isolateConfig(t)
	path := filepath.Join(t.TempDir(), "nested", "dir", "report.txt")

	out, _, err := runCLI(t, sampleDoc, "--output", path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "" {
		t.Errorf("expected nothing on stdout, got %q", out)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	if string(data) != "<stdin> has 4 words\nTotal: 4\n" {
		t.Errorf("unexpected report %q", data)
	}

	if _, _, err := runCLI(t, "one", "-o", path); err == nil || !strings.Contains(err.Error(), "already exists") {
		t.Fatalf("expected an already exists error, got %v", err)
	}

	if _, _, err := runCLI(t, "one", "-o", path, "--force"); err != nil {
		t.Fatalf("unexpected error with --force: %v", err)
	}
	data, _ = os.ReadFile(path)
	if string(data) != "<stdin> has 1 words\nTotal: 1\n" {
		t.Errorf("expected the report to be overwritten, got %q", data)
	}
}

func TestCount_ConfigPrecedence(t *testing.T) {
	cfgPath := isolateConfig(t)
	writeFile(t, cfgPath, "[count]\nheadings = false\njobs = 2\n")

	out, _, err := runCLI(t, sampleDoc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "<stdin> has 3 words\nTotal: 3\n" {
		t.Errorf("expected config to disable headings, got %q", out)
	}

	out, _, err = runCLI(t, sampleDoc, "--headings")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "<stdin> has 4 words\nTotal: 4\n" {
		t.Errorf("expected the flag to win over config, got %q", out)
	}

	doc := "> quoted\n\n# Title\n\nword\n"
	writeFile(t, cfgPath, "[count]\nall = true\nblockquotes = false\n")
	out, _, err = runCLI(t, doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "<stdin> has 2 words\nTotal: 2\n" {
		t.Errorf("expected all minus blockquotes, got %q", out)
	}

	other := filepath.Join(t.TempDir(), "other.toml")
	writeFile(t, other, "[count]\nblockquotes = true\n")
	out, _, err = runCLI(t, doc, "--config", other)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "<stdin> has 3 words\nTotal: 3\n" {
		t.Errorf("expected --config to pick the file, got %q", out)
	}

	writeFile(t, cfgPath, "[count]\nheadigns = false\n")
	if _, _, err := runCLI(t, sampleDoc); err == nil || !strings.Contains(err.Error(), "failed to load config") {
		t.Errorf("expected a config error, got %v", err)
	}
}

func TestConfigCmd(t *testing.T) {
	cfgPath := isolateConfig(t)

	out, _, err := runCLI(t, "", "config")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.TrimSpace(out) != cfgPath {
		t.Errorf("expected path %q, got %q", cfgPath, out)
	}
	if _, err := config.LoadConfig(cfgPath); err != nil {
		t.Fatalf("expected the template to parse: %v", err)
	}

	// An existing file is left alone.
	writeFile(t, cfgPath, "[count]\nhtml = true\n")
	if _, _, err := runCLI(t, "", "config"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data, _ := os.ReadFile(cfgPath)
	if string(data) != "[count]\nhtml = true\n" {
		t.Errorf("expected config untouched, got %q", data)
	}
}
