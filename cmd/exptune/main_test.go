package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/exptune/exptune/internal/spec"
)

const testSpecYAML = `cartpole-dqn:
  env: CartPole-v1
  run: DQN
  stop:
    episode_reward_mean: 150
  config:
    lr:
      grid_search: [0.0005, 0.001]
    gamma: 0.99

hartmann6-tiny:
  objective: hartmann6
  metric: hartmann6
  mode: min
  num_samples: 2
  max_concurrent: 2
  iterations: 2
  seed: 7
  space:
    x1: {distribution: uniform, low: 0.0, high: 1.0}
    x2: {distribution: uniform, low: 0.0, high: 1.0}
    x3: {distribution: uniform, low: 0.0, high: 1.0}
    x4: {distribution: uniform, low: 0.0, high: 1.0}
    x5: {distribution: uniform, low: 0.0, high: 1.0}
    x6: {distribution: uniform, low: 0.0, high: 1.0}
`

func writeTestSpec(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "specs.yaml")
	if err := os.WriteFile(path, []byte(testSpecYAML), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestValidateCommand_Pass(t *testing.T) {
	specPath := writeTestSpec(t)
	outPath := filepath.Join(t.TempDir(), "validate.json")

	cmd := newValidateCommand()
	cmd.SetArgs([]string{specPath, "--schema-dir", schemaDir(t), "--out", outPath})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("validate: %v", err)
	}

	raw, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatal(err)
	}
	var r spec.ValidationReport
	if err := json.Unmarshal(raw, &r); err != nil {
		t.Fatal(err)
	}
	if !r.Passed || r.ExitCode != spec.ExitPass {
		t.Fatalf("report = %+v", r)
	}
	if len(r.Blocks) != 2 {
		t.Fatalf("checked %d blocks, want 2", len(r.Blocks))
	}
}

func TestValidateCommand_MarkdownFormat(t *testing.T) {
	specPath := writeTestSpec(t)
	outPath := filepath.Join(t.TempDir(), "validate.md")

	cmd := newValidateCommand()
	cmd.SetArgs([]string{specPath, "--schema-dir", schemaDir(t), "--format", "md", "--out", outPath})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("validate --format md: %v", err)
	}
	if _, err := os.Stat(outPath); err != nil {
		t.Fatal(err)
	}
}

func TestExportCommand_ExpandGrid(t *testing.T) {
	specPath := writeTestSpec(t)
	outPath := filepath.Join(t.TempDir(), "expanded.yaml")

	cmd := newExportCommand()
	cmd.SetArgs([]string{"--in", specPath, "--expand", "--out", outPath})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("export --expand: %v", err)
	}

	f, err := spec.LoadFile(outPath)
	if err != nil {
		t.Fatal(err)
	}
	// Two grid values for lr give two concrete run specs.
	if len(f.Runs) != 2 {
		t.Fatalf("got %d run blocks after expansion, want 2", len(f.Runs))
	}
	if len(f.Tunes) != 1 {
		t.Fatalf("tune blocks changed during run expansion: %d", len(f.Tunes))
	}
}

func TestExportCommand_DeterminismCheck(t *testing.T) {
	specPath := writeTestSpec(t)
	outPath := filepath.Join(t.TempDir(), "out.json")

	cmd := newExportCommand()
	cmd.SetArgs([]string{"--in", specPath, "--format", "json", "--determinism-check", "3", "--out", outPath})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("export --determinism-check: %v", err)
	}
}

func TestRunCommand_StoresExperiment(t *testing.T) {
	specPath := writeTestSpec(t)
	storeDir := t.TempDir()

	cmd := newRunCommand()
	cmd.SetArgs([]string{"--in", specPath, "--block", "hartmann6-tiny", "--store", storeDir})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("run: %v", err)
	}

	entries, err := os.ReadDir(storeDir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("store holds %d files, want 1", len(entries))
	}
}

func TestReportCommand_FromStoredExperiment(t *testing.T) {
	specPath := writeTestSpec(t)
	storeDir := t.TempDir()

	runCmd := newRunCommand()
	runCmd.SetArgs([]string{"--in", specPath, "--block", "hartmann6-tiny", "--store", storeDir})
	if err := runCmd.Execute(); err != nil {
		t.Fatal(err)
	}
	entries, err := os.ReadDir(storeDir)
	if err != nil || len(entries) == 0 {
		t.Fatalf("no stored experiment: %v", err)
	}

	outPath := filepath.Join(t.TempDir(), "report.md")
	reportCmd := newReportCommand()
	reportCmd.SetArgs([]string{"--in", filepath.Join(storeDir, entries[0].Name()), "--out", outPath})
	if err := reportCmd.Execute(); err != nil {
		t.Fatalf("report: %v", err)
	}
	raw, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatal(err)
	}
	if len(raw) == 0 {
		t.Fatal("empty report")
	}
}

func repoRoot(t *testing.T) string {
	t.Helper()
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatalf("cannot resolve test file path")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(filename), "..", ".."))
}

func schemaDir(t *testing.T) string {
	t.Helper()
	return filepath.Join(repoRoot(t), "schemas", "v1")
}
