package spec

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/exptune/exptune/internal/search"
	"github.com/exptune/exptune/pkg/schema"
)

// ValidateFiles schema-validates every block of every spec file and checks
// tune blocks for constraint-expression and search-space errors. Run specs
// are checked against the schema only; whether their hyperparameter keys are
// meaningful is the external trainer's business.
func ValidateFiles(schemaDir string, paths ...string) ValidationReport {
	report := ValidationReport{Passed: true, ExitCode: ExitPass}
	runSchema := filepath.Join(schemaDir, "runspec.schema.json")
	tuneSchema := filepath.Join(schemaDir, "tunespec.schema.json")

	for _, path := range paths {
		raw, err := os.ReadFile(path)
		if err != nil {
			report.add(path, "", "", []string{err.Error()}, ExitLoadFail)
			continue
		}
		var blocks map[string]map[string]any
		if err := yaml.Unmarshal(raw, &blocks); err != nil {
			report.add(path, "", "", []string{fmt.Sprintf("parse: %v", err)}, ExitLoadFail)
			continue
		}
		names := make([]string, 0, len(blocks))
		for name := range blocks {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			doc := blocks[name]
			kind := "run"
			schemaPath := runSchema
			if _, isTune := doc["space"]; isTune {
				kind = "tune"
				schemaPath = tuneSchema
			}
			abs, err := filepath.Abs(schemaPath)
			if err != nil {
				report.add(path, name, kind, []string{err.Error()}, ExitLoadFail)
				continue
			}
			violations, err := schema.Validate(abs, doc)
			if err != nil {
				report.add(path, name, kind, []string{err.Error()}, ExitLoadFail)
				continue
			}
			if len(violations) > 0 {
				report.add(path, name, kind, violations, ExitSchemaFail)
				continue
			}
			if kind == "tune" {
				report.add(path, name, kind, tuneErrors(path, name), ExitSpecInvalid)
				continue
			}
			report.add(path, name, kind, nil, ExitPass)
		}
	}
	if len(report.Blocks) == 0 {
		report.Passed = false
		report.ExitCode = ExitLoadFail
		report.Blocks = append(report.Blocks, BlockResult{Passed: false, Errors: []string{"no spec blocks found"}})
	}
	return report
}

// tuneErrors runs the deeper checks the schema cannot express: distribution
// bounds and constraint expression syntax.
func tuneErrors(path, name string) []string {
	f, err := LoadFile(path)
	if err != nil {
		return []string{err.Error()}
	}
	ts, ok := f.Tunes[name]
	if !ok {
		return []string{fmt.Sprintf("block %s is not a tune spec", name)}
	}
	errs := make([]string, 0)
	if err := search.ValidateSpace(ts.Space); err != nil {
		errs = append(errs, err.Error())
	}
	if _, err := search.ParseLinearAll(ts.ParameterConstraints); err != nil {
		errs = append(errs, err.Error())
	}
	if _, err := search.ParseOutcomeAll(ts.OutcomeConstraints); err != nil {
		errs = append(errs, err.Error())
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}
