package types

// RunSpec is a named configuration block describing one training experiment:
// the environment and algorithm to run, the stopping rule, and the
// hyperparameter mapping handed to the trainer. The config mapping is kept
// open-schema so every literal value round-trips unchanged.
type RunSpec struct {
	Name   string             `yaml:"-" json:"-"`
	Env    string             `yaml:"env" json:"env"`
	Run    string             `yaml:"run" json:"run"`
	Stop   map[string]float64 `yaml:"stop,omitempty" json:"stop,omitempty"`
	Config map[string]any     `yaml:"config,omitempty" json:"config,omitempty"`
}

// GridSearchKey marks a config value as a grid-search directive. A config
// entry of the form {grid_search: [...]} expands into one concrete run spec
// per listed value.
const GridSearchKey = "grid_search"
