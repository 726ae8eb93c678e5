package search

import (
	"fmt"

	"github.com/exptune/exptune/pkg/types"
)

// maxRejectionAttempts bounds constraint rejection sampling per suggestion.
const maxRejectionAttempts = 1000

// RandomSearch suggests points drawn independently from the search space,
// rejection-sampling against the parameter constraints.
type RandomSearch struct {
	space       map[string]types.ParamSpec
	constraints []LinearConstraint
	sampler     *Sampler
}

func NewRandomSearch(space map[string]types.ParamSpec, constraintExprs []string, seed int64) (*RandomSearch, error) {
	if err := ValidateSpace(space); err != nil {
		return nil, err
	}
	constraints, err := ParseLinearAll(constraintExprs)
	if err != nil {
		return nil, err
	}
	return &RandomSearch{
		space:       space,
		constraints: constraints,
		sampler:     NewSampler(seed),
	}, nil
}

// Suggest draws the next candidate point. It fails when the parameter
// constraints reject every draw within the attempt budget, which usually
// means the constraints exclude (almost) the entire space.
func (r *RandomSearch) Suggest() (map[string]any, error) {
	for attempt := 0; attempt < maxRejectionAttempts; attempt++ {
		point, err := r.sampler.Sample(r.space)
		if err != nil {
			return nil, err
		}
		if r.feasible(point) {
			return point, nil
		}
	}
	return nil, fmt.Errorf("no feasible point found after %d draws; parameter constraints are too tight", maxRejectionAttempts)
}

func (r *RandomSearch) feasible(point map[string]any) bool {
	if len(r.constraints) == 0 {
		return true
	}
	floats := FloatParams(point)
	for _, c := range r.constraints {
		if !c.Satisfied(floats) {
			return false
		}
	}
	return true
}
