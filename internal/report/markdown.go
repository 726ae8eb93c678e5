package report

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/exptune/exptune/internal/spec"
	"github.com/exptune/exptune/pkg/types"
)

func BuildMarkdown(exp *types.Experiment) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("# Experiment Report: %s\n\n", exp.SpecName))
	b.WriteString(fmt.Sprintf("- Experiment ID: `%s`\n", exp.ExperimentID))
	b.WriteString(fmt.Sprintf("- Spec Digest: `%s`\n", exp.SpecDigest))
	b.WriteString(fmt.Sprintf("- Objective: `%s` (%s %s)\n", exp.Objective, exp.Mode, exp.Metric))
	b.WriteString(fmt.Sprintf("- Status: **%s**\n", exp.Status))
	b.WriteString(fmt.Sprintf("- Trials: `%d`\n", len(exp.Trials)))

	if best := exp.BestTrial(); best != nil && exp.BestValue != nil {
		b.WriteString(fmt.Sprintf("- Best Trial: `%s` with %s = `%g`\n", best.TrialID, exp.Metric, *exp.BestValue))
	} else if best != nil {
		b.WriteString(fmt.Sprintf("- Best Trial: `%s`\n", best.TrialID))
	} else {
		b.WriteString("- Best Trial: none (no feasible trial)\n")
	}

	b.WriteString("\n## Trials\n\n")
	b.WriteString(fmt.Sprintf("| Trial | Status | Iterations | best %s | l2norm |\n", exp.Metric))
	b.WriteString("|---|---|---:|---:|---:|\n")
	for _, tr := range exp.Trials {
		norm := "-"
		if v, ok := tr.FinalMetrics["l2norm"]; ok {
			norm = fmt.Sprintf("%.4f", v)
		}
		value := "-"
		if tr.Status == types.TrialTerminated || tr.Status == types.TrialInfeasible {
			value = fmt.Sprintf("%.6f", tr.BestValue)
		}
		b.WriteString(fmt.Sprintf("| %s | %s | %d | %s | %s |\n", tr.TrialID, tr.Status, tr.Iterations, value, norm))
	}

	var errored []types.TrialResult
	for _, tr := range exp.Trials {
		if tr.Status == types.TrialError {
			errored = append(errored, tr)
		}
	}
	if len(errored) > 0 {
		b.WriteString("\n## Errors\n\n")
		for _, tr := range errored {
			b.WriteString(fmt.Sprintf("- %s: %s\n", tr.TrialID, tr.Error))
		}
	}

	if params := bestParams(exp); params != "" {
		b.WriteString("\n## Best Parameters\n\n")
		b.WriteString(params)
	}
	return b.String()
}

func bestParams(exp *types.Experiment) string {
	best := exp.BestTrial()
	if best == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString("| Parameter | Value |\n")
	b.WriteString("|---|---|\n")
	for _, name := range sortedKeys(best.Params) {
		b.WriteString(fmt.Sprintf("| %s | %v |\n", name, best.Params[name]))
	}
	return b.String()
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func WriteMarkdown(path string, exp *types.Experiment) error {
	return os.WriteFile(path, []byte(BuildMarkdown(exp)), 0o644)
}

// BuildValidationMarkdown renders a validation report the way experiment
// reports are rendered, one row per spec block.
func BuildValidationMarkdown(r spec.ValidationReport) string {
	status := "PASS"
	if !r.Passed {
		status = "FAIL"
	}
	var b strings.Builder
	b.WriteString("# Spec Validation Report\n\n")
	b.WriteString(fmt.Sprintf("- Status: **%s**\n", status))
	b.WriteString(fmt.Sprintf("- Exit Code: `%d`\n", r.ExitCode))
	b.WriteString(fmt.Sprintf("- Blocks Checked: `%d`\n\n", len(r.Blocks)))

	b.WriteString("| File | Block | Kind | Passed | Errors |\n")
	b.WriteString("|---|---|---|---:|---|\n")
	for _, blk := range r.Blocks {
		msg := strings.Join(blk.Errors, "; ")
		if msg == "" {
			msg = "ok"
		}
		b.WriteString(fmt.Sprintf("| %s | %s | %s | %t | %s |\n", blk.File, blk.Block, blk.Kind, blk.Passed, strings.ReplaceAll(msg, "|", "\\|")))
	}
	return b.String()
}

func WriteValidationMarkdown(path string, r spec.ValidationReport) error {
	return os.WriteFile(path, []byte(BuildValidationMarkdown(r)), 0o644)
}
