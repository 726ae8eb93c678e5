package spec

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/exptune/exptune/pkg/types"
)

// File holds every named block parsed from one spec document. Blocks
// carrying a search space are tune specs; everything else is a run spec
// handed wholesale to an external trainer.
type File struct {
	Path  string
	Runs  map[string]*types.RunSpec
	Tunes map[string]*types.TuneSpec
}

func LoadFile(path string) (*File, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read spec %s: %w", path, err)
	}
	return Parse(path, raw)
}

// Parse decodes a YAML document of named spec blocks.
func Parse(path string, raw []byte) (*File, error) {
	var blocks map[string]yaml.Node
	if err := yaml.Unmarshal(raw, &blocks); err != nil {
		return nil, fmt.Errorf("parse spec %s: %w", path, err)
	}
	if len(blocks) == 0 {
		return nil, fmt.Errorf("spec %s contains no blocks", path)
	}

	f := &File{
		Path:  path,
		Runs:  make(map[string]*types.RunSpec),
		Tunes: make(map[string]*types.TuneSpec),
	}
	for name, node := range blocks {
		var probe map[string]any
		if err := node.Decode(&probe); err != nil {
			return nil, fmt.Errorf("spec %s: block %s: %w", path, name, err)
		}
		if _, isTune := probe["space"]; isTune {
			ts := &types.TuneSpec{}
			if err := node.Decode(ts); err != nil {
				return nil, fmt.Errorf("spec %s: tune block %s: %w", path, name, err)
			}
			ts.Name = name
			if err := checkTune(ts); err != nil {
				return nil, fmt.Errorf("spec %s: tune block %s: %w", path, name, err)
			}
			f.Tunes[name] = ts
			continue
		}
		rs := &types.RunSpec{}
		if err := node.Decode(rs); err != nil {
			return nil, fmt.Errorf("spec %s: run block %s: %w", path, name, err)
		}
		rs.Name = name
		if err := checkRun(rs); err != nil {
			return nil, fmt.Errorf("spec %s: run block %s: %w", path, name, err)
		}
		f.Runs[name] = rs
	}
	return f, nil
}

func checkRun(rs *types.RunSpec) error {
	if rs.Env == "" {
		return fmt.Errorf("env is required")
	}
	if rs.Run == "" {
		return fmt.Errorf("run is required")
	}
	return nil
}

func checkTune(ts *types.TuneSpec) error {
	if ts.Objective == "" {
		return fmt.Errorf("objective is required")
	}
	if ts.Metric == "" {
		return fmt.Errorf("metric is required")
	}
	if ts.Mode != types.ModeMin && ts.Mode != types.ModeMax {
		return fmt.Errorf("mode must be %q or %q, got %q", types.ModeMin, types.ModeMax, ts.Mode)
	}
	if ts.NumSamples < 1 {
		return fmt.Errorf("num_samples must be at least 1, got %d", ts.NumSamples)
	}
	return nil
}

// Names lists every block name in sorted order.
func (f *File) Names() []string {
	names := make([]string, 0, len(f.Runs)+len(f.Tunes))
	for name := range f.Runs {
		names = append(names, name)
	}
	for name := range f.Tunes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Block returns the named run or tune spec.
func (f *File) Block(name string) (any, error) {
	if rs, ok := f.Runs[name]; ok {
		return rs, nil
	}
	if ts, ok := f.Tunes[name]; ok {
		return ts, nil
	}
	return nil, fmt.Errorf("spec %s has no block named %q (have %v)", f.Path, name, f.Names())
}

func (f *File) docMap() map[string]any {
	doc := make(map[string]any, len(f.Runs)+len(f.Tunes))
	for name, rs := range f.Runs {
		doc[name] = rs
	}
	for name, ts := range f.Tunes {
		doc[name] = ts
	}
	return doc
}

// ExportYAML re-serializes every block. Together with Parse this preserves
// the exact key/value set of the source document.
func (f *File) ExportYAML() ([]byte, error) {
	raw, err := yaml.Marshal(f.docMap())
	if err != nil {
		return nil, fmt.Errorf("export spec %s: %w", f.Path, err)
	}
	return raw, nil
}

// ExportJSON re-serializes every block as indented JSON.
func (f *File) ExportJSON() ([]byte, error) {
	raw, err := json.MarshalIndent(f.docMap(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("export spec %s: %w", f.Path, err)
	}
	return raw, nil
}
