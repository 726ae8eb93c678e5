package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/exptune/exptune/internal/spec"
	"github.com/exptune/exptune/pkg/types"
)

func reportExperiment() *types.Experiment {
	best := -3.20021
	return &types.Experiment{
		SchemaVersion: "1.0.0",
		ExperimentID:  "exp-42",
		SpecName:      "hartmann6-random",
		SpecDigest:    "sha256:deadbeef",
		Objective:     "hartmann6",
		Metric:        "hartmann6",
		Mode:          types.ModeMin,
		Status:        types.ExperimentCompleted,
		BestTrialID:   "trial-good",
		BestValue:     &best,
		Trials: []types.TrialResult{
			{
				TrialID:      "trial-good",
				Params:       map[string]any{"x1": 0.21, "x2": 0.14},
				Status:       types.TrialTerminated,
				Iterations:   100,
				BestValue:    best,
				FinalMetrics: map[string]float64{"hartmann6": best, "l2norm": 0.9431},
			},
			{
				TrialID: "trial-infeasible",
				Params:  map[string]any{"x1": 0.9, "x2": 0.9},
				Status:  types.TrialInfeasible,
			},
			{
				TrialID: "trial-bad",
				Status:  types.TrialError,
				Error:   "parameter x1 is not numeric",
			},
		},
	}
}

func TestBuildMarkdown(t *testing.T) {
	md := BuildMarkdown(reportExperiment())
	for _, want := range []string{
		"# Experiment Report: hartmann6-random",
		"`exp-42`",
		"`sha256:deadbeef`",
		"Best Trial: `trial-good`",
		"| trial-good | terminated | 100 |",
		"| trial-infeasible | infeasible |",
		"## Errors",
		"trial-bad: parameter x1 is not numeric",
		"## Best Parameters",
		"| x1 | 0.21 |",
	} {
		if !strings.Contains(md, want) {
			t.Fatalf("markdown missing %q\n%s", want, md)
		}
	}
	// Parameter rows come out sorted.
	if strings.Index(md, "| x1 |") > strings.Index(md, "| x2 |") {
		t.Fatal("parameters not sorted")
	}
}

// A stored record can name a best trial without carrying a best value, for
// example after hand edits to the JSON. The report must not panic on it.
func TestBuildMarkdownBestTrialWithoutValue(t *testing.T) {
	exp := reportExperiment()
	exp.BestValue = nil
	md := BuildMarkdown(exp)
	if !strings.Contains(md, "Best Trial: `trial-good`") {
		t.Fatalf("best trial line missing:\n%s", md)
	}
	if !strings.Contains(md, "## Best Parameters") {
		t.Fatal("best-parameter table should still render")
	}
}

func TestBuildMarkdownNoFeasibleTrial(t *testing.T) {
	exp := reportExperiment()
	exp.BestTrialID = ""
	exp.BestValue = nil
	md := BuildMarkdown(exp)
	if !strings.Contains(md, "Best Trial: none (no feasible trial)") {
		t.Fatalf("expected no-best marker:\n%s", md)
	}
	if strings.Contains(md, "## Best Parameters") {
		t.Fatal("best-parameter table should be omitted")
	}
}

func TestWriteMarkdownAndJSON(t *testing.T) {
	dir := t.TempDir()
	exp := reportExperiment()

	mdPath := filepath.Join(dir, "report.md")
	if err := WriteMarkdown(mdPath, exp); err != nil {
		t.Fatal(err)
	}
	raw, err := os.ReadFile(mdPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(raw), "# Experiment Report") {
		t.Fatalf("unexpected markdown file:\n%s", raw)
	}

	jsonPath := filepath.Join(dir, "report.json")
	if err := WriteJSON(jsonPath, exp); err != nil {
		t.Fatal(err)
	}
	var got types.Experiment
	data, err := os.ReadFile(jsonPath)
	if err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	}
	if got.ExperimentID != exp.ExperimentID {
		t.Fatalf("json report lost the experiment id: %+v", got)
	}
}

func TestBuildValidationMarkdown(t *testing.T) {
	r := spec.ValidationReport{
		Passed:   false,
		ExitCode: spec.ExitSpecInvalid,
		Blocks: []spec.BlockResult{
			{File: "a.yaml", Block: "cartpole-dqn", Kind: "run", Passed: true},
			{File: "a.yaml", Block: "hartmann6-random", Kind: "tune", Passed: false,
				Errors: []string{"constraint x1 | x2: bad token"}},
		},
	}
	md := BuildValidationMarkdown(r)
	for _, want := range []string{
		"Status: **FAIL**",
		"Exit Code: `12`",
		"| a.yaml | cartpole-dqn | run | true | ok |",
		`bad token`,
	} {
		if !strings.Contains(md, want) {
			t.Fatalf("validation markdown missing %q\n%s", want, md)
		}
	}
	if strings.Contains(md, "constraint x1 | x2") {
		t.Fatal("pipes inside error messages must be escaped")
	}
}
