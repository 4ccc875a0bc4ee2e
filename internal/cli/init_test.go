package cli

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestInit_WritesSampleConfig(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.yaml")

	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs([]string{"init", "--out", path})

	if err := root.Execute(); err != nil {
		t.Fatalf("init execute: %v", err)
	}
	if !strings.Contains(out.String(), "Wrote sample config to") {
		t.Fatalf("unexpected output: %s", out.String())
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read config: %v", err)
	}
	s := string(data)
	if !strings.Contains(s, "swagger2sdk configuration") {
		t.Fatalf("unexpected config contents: %s", s)
	}
	for _, key := range []string{"swagger:", "output:", "pkg:", "onDuplicateOperation:", "workers:"} {
		if !strings.Contains(s, "# "+key) {
			t.Errorf("sample config does not document %s", key)
		}
	}
}

// Every commented key of the sample config must be accepted by generate.
func TestInit_SampleKeysAreKnown(t *testing.T) {
	t.Parallel()
	var lines []string
	for _, line := range strings.Split(sampleConfigYAML, "\n") {
		if strings.HasPrefix(line, "# ") && strings.Contains(line, ": ") && !strings.HasSuffix(line, ")") {
			candidate := strings.TrimPrefix(line, "# ")
			key := candidate[:strings.Index(candidate, ":")]
			if !strings.Contains(key, " ") {
				lines = append(lines, candidate)
			}
		}
	}
	if len(lines) < 15 {
		t.Fatalf("expected the sample to document every option, found %d", len(lines))
	}
	var raw map[string]any
	if err := yaml.Unmarshal([]byte(strings.Join(lines, "\n")), &raw); err != nil {
		t.Fatalf("uncommented sample is not YAML: %v", err)
	}

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg := defaultGenerateConfig()
	if err := applyGenerateConfigFromFile(&cfg, path); err != nil {
		t.Fatalf("sample keys rejected: %v", err)
	}
	if cfg.PackageName != "@acme/pets-sdk" || cfg.Workers != 0 || cfg.OnDuplicateOperation != "error" {
		t.Fatalf("unexpected values from sample: %+v", cfg)
	}
}

func TestInit_ExistingWithoutForce(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("x"), 0o600); err != nil {
		t.Fatalf("prewrite: %v", err)
	}

	root := NewRootCmd()
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	root.SetArgs([]string{"init", "--out", path})

	err := root.Execute()
	if err == nil {
		t.Fatalf("expected error for existing file without --force")
	}
	if _, ok := err.(usageError); !ok {
		t.Fatalf("expected usage error, got %T: %v", err, err)
	}

	root = NewRootCmd()
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	root.SetArgs([]string{"init", "--out", path, "--force"})
	if err := root.Execute(); err != nil {
		t.Fatalf("init --force: %v", err)
	}
	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), "swagger2sdk configuration") {
		t.Fatalf("expected overwritten config, got %q", data)
	}
}
