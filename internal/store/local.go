package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/exptune/exptune/pkg/types"
)

const experimentSuffix = ".experiment.json"

// Save writes an experiment record into the local store directory and
// returns the stored path.
func Save(dir string, exp *types.Experiment) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create store: %w", err)
	}
	name := fmt.Sprintf("%s_%s%s", sanitize(exp.SpecName), exp.ExperimentID, experimentSuffix)
	path := filepath.Join(dir, name)
	raw, err := json.MarshalIndent(exp, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal experiment: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return "", fmt.Errorf("write experiment: %w", err)
	}
	return path, nil
}

// Load reads one stored experiment record.
func Load(path string) (*types.Experiment, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read experiment %s: %w", path, err)
	}
	var exp types.Experiment
	if err := json.Unmarshal(raw, &exp); err != nil {
		return nil, fmt.Errorf("parse experiment %s: %w", path, err)
	}
	return &exp, nil
}

// List returns the stored experiment paths in sorted order.
func List(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	paths := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), experimentSuffix) {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}

// Find locates a stored experiment by its ID.
func Find(dir, experimentID string) (*types.Experiment, error) {
	paths, err := List(dir)
	if err != nil {
		return nil, err
	}
	for _, p := range paths {
		if !strings.Contains(filepath.Base(p), experimentID) {
			continue
		}
		exp, err := Load(p)
		if err != nil {
			return nil, err
		}
		if exp.ExperimentID == experimentID {
			return exp, nil
		}
	}
	return nil, fmt.Errorf("experiment %s not found in %s", experimentID, dir)
}

// EnsureDefaultStoreDir creates the default local store.
func EnsureDefaultStoreDir() (string, error) {
	d := ".exptune/experiments"
	if err := os.MkdirAll(d, 0o755); err != nil {
		return "", fmt.Errorf("create local store: %w", err)
	}
	return d, nil
}

func sanitize(name string) string {
	return strings.NewReplacer("/", "_", ":", "_", " ", "_", "=", "_", ",", "_").Replace(name)
}
