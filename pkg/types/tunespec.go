package types

// TuneSpec is a named configuration block describing one hyperparameter
// search over a built-in objective: the metric to optimize, the sampling
// budget, the concurrency cap, the search space, and optional constraint
// expressions.
type TuneSpec struct {
	Name                 string               `yaml:"-" json:"-"`
	Objective            string               `yaml:"objective" json:"objective"`
	Metric               string               `yaml:"metric" json:"metric"`
	Mode                 string               `yaml:"mode" json:"mode"`
	NumSamples           int                  `yaml:"num_samples" json:"num_samples"`
	MaxConcurrent        int                  `yaml:"max_concurrent,omitempty" json:"max_concurrent,omitempty"`
	Iterations           int                  `yaml:"iterations,omitempty" json:"iterations,omitempty"`
	Seed                 int64                `yaml:"seed,omitempty" json:"seed,omitempty"`
	Stop                 map[string]float64   `yaml:"stop,omitempty" json:"stop,omitempty"`
	Space                map[string]ParamSpec `yaml:"space" json:"space"`
	ParameterConstraints []string             `yaml:"parameter_constraints,omitempty" json:"parameter_constraints,omitempty"`
	OutcomeConstraints   []string             `yaml:"outcome_constraints,omitempty" json:"outcome_constraints,omitempty"`
}

// ParamSpec describes the sampling distribution for one tunable parameter.
// Bounds and values are implementer-supplied literals.
type ParamSpec struct {
	Distribution string  `yaml:"distribution" json:"distribution"`
	Low          float64 `yaml:"low,omitempty" json:"low,omitempty"`
	High         float64 `yaml:"high,omitempty" json:"high,omitempty"`
	Values       []any   `yaml:"values,omitempty" json:"values,omitempty"`
}

const (
	ModeMin = "min"
	ModeMax = "max"
)

const (
	DistUniform    = "uniform"
	DistLogUniform = "loguniform"
	DistRandInt    = "randint"
	DistChoice     = "choice"
	DistGrid       = "grid"
)

// Stop-condition keys with counter semantics. Every other stop key is
// compared against the latest reported metric of the same name.
const (
	StopTrainingIteration = "training_iteration"
	StopTimestepsTotal    = "timesteps_total"
)
