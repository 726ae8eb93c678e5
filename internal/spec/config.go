package spec

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ProjectConfig is the tool-level configuration read from exptune.yaml.
type ProjectConfig struct {
	SpecPaths []string `yaml:"spec_paths"`
	StoreDir  string   `yaml:"store_dir"`
	SchemaDir string   `yaml:"schema_dir"`
}

func LoadConfig(path string, out any) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func DefaultProjectConfig() ProjectConfig {
	return ProjectConfig{
		SpecPaths: []string{"examples/specs"},
		StoreDir:  ".exptune/experiments",
		SchemaDir: "schemas/v1",
	}
}
