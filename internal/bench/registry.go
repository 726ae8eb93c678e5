package bench

import (
	"fmt"
	"sort"
)

// Objective is a built-in benchmark function the trial runner can evaluate
// in-process. External training algorithms (DQN, PPO, ...) are deliberately
// not represented here; running them is the external framework's job.
type Objective struct {
	Name string
	// Dim is the required input dimension, 0 for any.
	Dim  int
	Eval func(x []float64) (float64, error)
}

var objectives = map[string]Objective{
	"hartmann6": {Name: "hartmann6", Dim: 6, Eval: Hartmann6},
	"branin":    {Name: "branin", Dim: 2, Eval: Branin},
	"sphere":    {Name: "sphere", Dim: 0, Eval: Sphere},
}

// Lookup resolves an objective name to its evaluator. Unknown names get an
// error listing what is available, so a run spec aimed at an external trainer
// fails loudly instead of pretending to train.
func Lookup(name string) (Objective, error) {
	obj, ok := objectives[name]
	if !ok {
		return Objective{}, fmt.Errorf("objective %q is not a built-in benchmark (have %v); training algorithms run in the external framework", name, Names())
	}
	return obj, nil
}

// Names lists the built-in objectives in sorted order.
func Names() []string {
	names := make([]string, 0, len(objectives))
	for name := range objectives {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
