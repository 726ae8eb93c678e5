//go:build e2e

package e2e

import (
	"path/filepath"
	"runtime"
	"testing"

	"github.com/exptune/exptune/internal/spec"
	"github.com/exptune/exptune/pkg/types"
)

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

func specPath(t *testing.T, name string) string {
	t.Helper()
	return filepath.Join(repoRoot(t), "examples", "specs", name+".yaml")
}

func loadTuneBlock(t *testing.T, path, block string) *types.TuneSpec {
	t.Helper()
	f, err := spec.LoadFile(path)
	if err != nil {
		t.Fatalf("load %s: %v", path, err)
	}
	ts, ok := f.Tunes[block]
	if !ok {
		t.Fatalf("spec %s has no tune block %q (have %v)", path, block, f.Names())
	}
	return ts
}
