package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/exptune/exptune/internal/report"
	"github.com/exptune/exptune/internal/run"
	"github.com/exptune/exptune/internal/serve"
	"github.com/exptune/exptune/internal/spec"
	"github.com/exptune/exptune/internal/store"
	"github.com/exptune/exptune/pkg/types"
)

type cliError struct {
	code int
	err  error
}

func (e cliError) Error() string { return e.err.Error() }

func main() {
	root := newRootCommand()
	if err := root.Execute(); err != nil {
		var ce cliError
		if errors.As(err, &ce) {
			fmt.Fprintln(os.Stderr, ce.err)
			os.Exit(ce.code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "exptune",
		Short: "Experiment configuration and hyperparameter search toolkit",
	}
	root.AddCommand(newInitCommand())
	root.AddCommand(newValidateCommand())
	root.AddCommand(newExportCommand())
	root.AddCommand(newRunCommand())
	root.AddCommand(newReportCommand())
	root.AddCommand(newServeCommand())
	return root
}

func newInitCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize exptune configuration, example specs, and local store",
		RunE: func(_ *cobra.Command, _ []string) error {
			if _, err := store.EnsureDefaultStoreDir(); err != nil {
				return err
			}
			if !fileExists("exptune.yaml") {
				if err := os.WriteFile("exptune.yaml", []byte(defaultConfigYAML), 0o644); err != nil {
					return err
				}
			}
			if !fileExists("examples/specs/cartpole-dqn.yaml") {
				if err := os.MkdirAll("examples/specs", 0o755); err != nil {
					return err
				}
				if err := os.WriteFile("examples/specs/cartpole-dqn.yaml", []byte(exampleRunSpecYAML), 0o644); err != nil {
					return err
				}
			}
			if !fileExists("examples/specs/hartmann6.yaml") {
				if err := os.MkdirAll("examples/specs", 0o755); err != nil {
					return err
				}
				if err := os.WriteFile("examples/specs/hartmann6.yaml", []byte(exampleTuneSpecYAML), 0o644); err != nil {
					return err
				}
			}
			fmt.Println("initialized exptune config, example specs, and local store")
			return nil
		},
	}
}

func newValidateCommand() *cobra.Command {
	var schemaDir, format, outPath string
	cmd := &cobra.Command{
		Use:   "validate [spec files or dirs]",
		Short: "Validate spec blocks against their schemas",
		RunE: func(_ *cobra.Command, args []string) error {
			cfg, err := projectConfig()
			if err != nil {
				return cliError{code: spec.ExitLoadFail, err: err}
			}
			if schemaDir == "" {
				schemaDir = cfg.SchemaDir
			}
			paths, err := resolveSpecPaths(args, cfg)
			if err != nil {
				return cliError{code: spec.ExitLoadFail, err: err}
			}
			r := spec.ValidateFiles(schemaDir, paths...)

			switch format {
			case "json":
				if outPath == "" {
					outPath = "validate.json"
				}
				if err := report.WriteJSON(outPath, r); err != nil {
					return err
				}
				fmt.Println(outPath)
			case "md":
				if outPath == "" {
					outPath = "validate.md"
				}
				if err := report.WriteValidationMarkdown(outPath, r); err != nil {
					return err
				}
				fmt.Println(outPath)
			default:
				return fmt.Errorf("unsupported format %s", format)
			}

			if !r.Passed {
				return cliError{code: r.ExitCode, err: fmt.Errorf("spec validation failed")}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&schemaDir, "schema-dir", "", "schema directory (defaults to schema_dir from exptune.yaml)")
	cmd.Flags().StringVar(&format, "format", "json", "output format (json|md)")
	cmd.Flags().StringVar(&outPath, "out", "", "output report path")
	return cmd
}

func newExportCommand() *cobra.Command {
	var inPath, format, outPath, block string
	var expand bool
	var determinismCheck int
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Re-serialize spec blocks, optionally expanding grid searches",
		RunE: func(_ *cobra.Command, _ []string) error {
			if inPath == "" {
				return fmt.Errorf("--in is required")
			}
			f, err := spec.LoadFile(inPath)
			if err != nil {
				return cliError{code: spec.ExitLoadFail, err: err}
			}

			if determinismCheck > 1 {
				names := f.Names()
				if block != "" {
					names = []string{block}
				}
				for _, name := range names {
					if err := spec.CheckDeterminism(inPath, name, determinismCheck); err != nil {
						return cliError{code: spec.ExitSpecInvalid, err: err}
					}
				}
			}

			if expand {
				expandedRuns := make(map[string]*types.RunSpec)
				for _, rs := range f.Runs {
					variants, err := spec.ExpandGrid(rs)
					if err != nil {
						return cliError{code: spec.ExitSpecInvalid, err: err}
					}
					for _, v := range variants {
						expandedRuns[v.Name] = v
					}
				}
				f.Runs = expandedRuns
			}

			var raw []byte
			switch format {
			case "yaml":
				raw, err = f.ExportYAML()
			case "json":
				raw, err = f.ExportJSON()
			default:
				return fmt.Errorf("unsupported format %s", format)
			}
			if err != nil {
				return err
			}
			if outPath == "" {
				fmt.Print(string(raw))
				return nil
			}
			if err := os.WriteFile(outPath, raw, 0o644); err != nil {
				return err
			}
			fmt.Println(outPath)
			return nil
		},
	}
	cmd.Flags().StringVar(&inPath, "in", "", "spec file to export")
	cmd.Flags().StringVar(&format, "format", "yaml", "output format (yaml|json)")
	cmd.Flags().StringVar(&outPath, "out", "", "output path (stdout when empty)")
	cmd.Flags().StringVar(&block, "block", "", "restrict determinism check to one block")
	cmd.Flags().BoolVar(&expand, "expand", false, "expand grid_search directives")
	cmd.Flags().IntVar(&determinismCheck, "determinism-check", 1, "parse the file multiple times and compare block digests")
	return cmd
}

func newRunCommand() *cobra.Command {
	var inPath, block, storeDir string
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Execute a tune block and store the experiment record",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if inPath == "" || block == "" {
				return fmt.Errorf("--in and --block are required")
			}
			f, err := spec.LoadFile(inPath)
			if err != nil {
				return cliError{code: spec.ExitLoadFail, err: err}
			}
			ts, ok := f.Tunes[block]
			if !ok {
				if _, isRun := f.Runs[block]; isRun {
					return cliError{code: spec.ExitRunFail, err: fmt.Errorf("block %s is a run spec for an external trainer; only tune blocks run here", block)}
				}
				return cliError{code: spec.ExitLoadFail, err: fmt.Errorf("spec %s has no block named %q (have %v)", inPath, block, f.Names())}
			}

			runner, err := run.New(ts)
			if err != nil {
				return cliError{code: spec.ExitSpecInvalid, err: err}
			}
			exp, err := runner.Run(cmd.Context())
			if err != nil {
				return cliError{code: spec.ExitRunFail, err: err}
			}
			path, err := store.Save(storeDir, exp)
			if err != nil {
				return err
			}
			fmt.Println(path)
			return nil
		},
	}
	cmd.Flags().StringVar(&inPath, "in", "", "spec file containing the tune block")
	cmd.Flags().StringVar(&block, "block", "", "tune block name")
	cmd.Flags().StringVar(&storeDir, "store", ".exptune/experiments", "experiment store directory")
	return cmd
}

func newReportCommand() *cobra.Command {
	var inPath, outPath string
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Generate markdown report from a stored experiment",
		RunE: func(_ *cobra.Command, _ []string) error {
			if inPath == "" || outPath == "" {
				return fmt.Errorf("--in and --out are required")
			}
			exp, err := store.Load(inPath)
			if err != nil {
				return err
			}
			if err := report.WriteMarkdown(outPath, exp); err != nil {
				return err
			}
			fmt.Println(outPath)
			return nil
		},
	}
	cmd.Flags().StringVar(&inPath, "in", "", "experiment JSON input")
	cmd.Flags().StringVar(&outPath, "out", "", "markdown output")
	return cmd
}

func newServeCommand() *cobra.Command {
	var port int
	var storeDir string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve stored experiments over HTTP",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg := serve.Config{Port: port, StoreDir: storeDir}
			router := serve.NewRouter(cfg)
			addr := fmt.Sprintf(":%d", cfg.Port)
			fmt.Fprintf(os.Stderr, "exptune api listening on %s\n", addr)
			return router.Run(addr)
		},
	}
	cmd.Flags().IntVar(&port, "port", 8080, "listen port")
	cmd.Flags().StringVar(&storeDir, "store", ".exptune/experiments", "experiment store directory")
	return cmd
}

// projectConfig reads exptune.yaml from the working directory, falling back
// on the built-in defaults when no config file exists.
func projectConfig() (spec.ProjectConfig, error) {
	cfg := spec.DefaultProjectConfig()
	if fileExists("exptune.yaml") {
		if err := spec.LoadConfig("exptune.yaml", &cfg); err != nil {
			return spec.ProjectConfig{}, err
		}
	}
	return cfg, nil
}

// resolveSpecPaths expands the given files and directories, or falls back on
// the project config's spec paths.
func resolveSpecPaths(args []string, cfg spec.ProjectConfig) ([]string, error) {
	roots := args
	if len(roots) == 0 {
		roots = cfg.SpecPaths
	}
	paths := make([]string, 0, len(roots))
	for _, root := range roots {
		fi, err := os.Stat(root)
		if err != nil {
			return nil, err
		}
		if !fi.IsDir() {
			paths = append(paths, root)
			continue
		}
		entries, err := os.ReadDir(root)
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			name := e.Name()
			if strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml") {
				paths = append(paths, filepath.Join(root, name))
			}
		}
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no spec files found")
	}
	return paths, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

const defaultConfigYAML = `spec_paths:
  - examples/specs
store_dir: .exptune/experiments
schema_dir: schemas/v1
`

const exampleRunSpecYAML = `cartpole-dqn:
  env: CartPole-v1
  run: DQN
  stop:
    episode_reward_mean: 150
    timesteps_total: 100000
  config:
    lr:
      grid_search: [0.0005, 0.001]
    gamma: 0.99
    train_batch_size: 32
    num_workers: 0
    target_network_update_freq: 500
    replay_buffer_config:
      type: PrioritizedReplayBuffer
      capacity: 50000
      prioritized_replay_alpha: 0.6
    evaluation_interval: 10
    exploration_config:
      epsilon_timesteps: 10000
      final_epsilon: 0.02
`

const exampleTuneSpecYAML = `hartmann6-random:
  objective: hartmann6
  metric: hartmann6
  mode: min
  num_samples: 30
  max_concurrent: 4
  iterations: 100
  seed: 1234
  stop:
    training_iteration: 100
  space:
    x1: {distribution: uniform, low: 0.0, high: 1.0}
    x2: {distribution: uniform, low: 0.0, high: 1.0}
    x3: {distribution: uniform, low: 0.0, high: 1.0}
    x4: {distribution: uniform, low: 0.0, high: 1.0}
    x5: {distribution: uniform, low: 0.0, high: 1.0}
    x6: {distribution: uniform, low: 0.0, high: 1.0}
  parameter_constraints:
    - "x1 + x2 <= 2.0"
  outcome_constraints:
    - "l2norm <= 1.25"
`
