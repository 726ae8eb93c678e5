package spec

import (
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"testing"

	"gopkg.in/yaml.v3"
)

const mixedSpecYAML = `cartpole-dqn:
  env: CartPole-v1
  run: DQN
  stop:
    episode_reward_mean: 150
    timesteps_total: 100000
  config:
    lr: 0.0005
    gamma: 0.99
    train_batch_size: 32
    replay_buffer_config:
      type: PrioritizedReplayBuffer
      capacity: 50000
hartmann6-random:
  objective: hartmann6
  metric: hartmann6
  mode: min
  num_samples: 10
  iterations: 5
  space:
    x1: {distribution: uniform, low: 0.0, high: 1.0}
    x2: {distribution: uniform, low: 0.0, high: 1.0}
`

func writeSpec(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "specs.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadFileSplitsKinds(t *testing.T) {
	f, err := LoadFile(writeSpec(t, mixedSpecYAML))
	if err != nil {
		t.Fatal(err)
	}
	if len(f.Runs) != 1 || len(f.Tunes) != 1 {
		t.Fatalf("got %d runs and %d tunes, want 1 and 1", len(f.Runs), len(f.Tunes))
	}
	rs := f.Runs["cartpole-dqn"]
	if rs == nil || rs.Env != "CartPole-v1" || rs.Run != "DQN" {
		t.Fatalf("run block = %+v", rs)
	}
	if rs.Stop["episode_reward_mean"] != 150 {
		t.Fatalf("stop = %v", rs.Stop)
	}
	ts := f.Tunes["hartmann6-random"]
	if ts == nil || ts.Objective != "hartmann6" || ts.NumSamples != 10 {
		t.Fatalf("tune block = %+v", ts)
	}
}

// Parsing then re-serializing a spec must preserve every literal key/value.
func TestRoundTripPreservesValues(t *testing.T) {
	path := writeSpec(t, mixedSpecYAML)
	first, err := LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	raw, err := first.ExportYAML()
	if err != nil {
		t.Fatal(err)
	}
	second, err := Parse(path, raw)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(first.Runs, second.Runs) {
		t.Fatalf("run blocks changed across round trip:\n%+v\nvs\n%+v", first.Runs["cartpole-dqn"], second.Runs["cartpole-dqn"])
	}
	if !reflect.DeepEqual(first.Tunes, second.Tunes) {
		t.Fatalf("tune blocks changed across round trip:\n%+v\nvs\n%+v", first.Tunes["hartmann6-random"], second.Tunes["hartmann6-random"])
	}
}

// JSON export must carry exactly the keys of the source document: block
// names stay map keys and never leak into block bodies.
func TestExportJSONPreservesKeySet(t *testing.T) {
	path := writeSpec(t, mixedSpecYAML)
	f, err := LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	raw, err := f.ExportJSON()
	if err != nil {
		t.Fatal(err)
	}

	var exported map[string]map[string]any
	if err := json.Unmarshal(raw, &exported); err != nil {
		t.Fatal(err)
	}
	var source map[string]map[string]any
	if err := yaml.Unmarshal([]byte(mixedSpecYAML), &source); err != nil {
		t.Fatal(err)
	}

	if len(exported) != len(source) {
		t.Fatalf("exported %d blocks, source has %d", len(exported), len(source))
	}
	for name, srcBlock := range source {
		expBlock, ok := exported[name]
		if !ok {
			t.Fatalf("block %s missing from JSON export", name)
		}
		if !reflect.DeepEqual(blockKeys(srcBlock), blockKeys(expBlock)) {
			t.Fatalf("block %s key set changed:\nsource:   %v\nexported: %v", name, blockKeys(srcBlock), blockKeys(expBlock))
		}
	}
}

func blockKeys(block map[string]any) []string {
	keys := make([]string, 0, len(block))
	for k := range block {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func TestRoundTripPreservesSmallLiterals(t *testing.T) {
	content := `atari-dqn:
  env: BreakoutNoFrameskip-v4
  run: DQN
  config:
    lr: 0.0000625
    buffer_size: 1000000
    noisy: true
    label: per
`
	path := writeSpec(t, content)
	first, err := LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	raw, err := first.ExportYAML()
	if err != nil {
		t.Fatal(err)
	}
	second, err := Parse(path, raw)
	if err != nil {
		t.Fatal(err)
	}
	cfg := second.Runs["atari-dqn"].Config
	if cfg["lr"] != 0.0000625 {
		t.Errorf("lr = %v (%T)", cfg["lr"], cfg["lr"])
	}
	if cfg["buffer_size"] != 1000000 {
		t.Errorf("buffer_size = %v (%T)", cfg["buffer_size"], cfg["buffer_size"])
	}
	if cfg["noisy"] != true {
		t.Errorf("noisy = %v", cfg["noisy"])
	}
	if cfg["label"] != "per" {
		t.Errorf("label = %v", cfg["label"])
	}
}

func TestLoadFileErrors(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{"missing env", "bad:\n  run: DQN\n"},
		{"missing run", "bad:\n  env: CartPole-v1\n"},
		{"bad mode", "bad:\n  objective: hartmann6\n  metric: m\n  mode: best\n  num_samples: 1\n  space:\n    x1: {distribution: uniform, low: 0, high: 1}\n"},
		{"zero samples", "bad:\n  objective: hartmann6\n  metric: m\n  mode: min\n  num_samples: 0\n  space:\n    x1: {distribution: uniform, low: 0, high: 1}\n"},
		{"empty", ""},
		{"not yaml", "::::"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := LoadFile(writeSpec(t, tc.content)); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestBlockLookup(t *testing.T) {
	f, err := LoadFile(writeSpec(t, mixedSpecYAML))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.Block("cartpole-dqn"); err != nil {
		t.Fatal(err)
	}
	if _, err := f.Block("hartmann6-random"); err != nil {
		t.Fatal(err)
	}
	if _, err := f.Block("nope"); err == nil {
		t.Fatal("expected error for unknown block")
	}
	want := []string{"cartpole-dqn", "hartmann6-random"}
	if !reflect.DeepEqual(f.Names(), want) {
		t.Fatalf("Names() = %v, want %v", f.Names(), want)
	}
}
