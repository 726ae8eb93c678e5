package search

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/exptune/exptune/pkg/types"
)

// Sampler draws points from a search space. A non-zero seed makes the draw
// sequence reproducible.
type Sampler struct {
	rng *rand.Rand
}

func NewSampler(seed int64) *Sampler {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Sampler{rng: rand.New(rand.NewSource(seed))}
}

// Sample draws one value for every parameter in the space.
func (s *Sampler) Sample(space map[string]types.ParamSpec) (map[string]any, error) {
	point := make(map[string]any, len(space))
	for _, name := range ParamNames(space) {
		v, err := s.sampleParam(space[name])
		if err != nil {
			return nil, fmt.Errorf("sample %s: %w", name, err)
		}
		point[name] = v
	}
	return point, nil
}

func (s *Sampler) sampleParam(p types.ParamSpec) (any, error) {
	switch p.Distribution {
	case types.DistUniform:
		return p.Low + s.rng.Float64()*(p.High-p.Low), nil
	case types.DistLogUniform:
		if p.Low <= 0 {
			return nil, fmt.Errorf("loguniform requires low > 0, got %v", p.Low)
		}
		lo, hi := math.Log(p.Low), math.Log(p.High)
		return math.Exp(lo + s.rng.Float64()*(hi-lo)), nil
	case types.DistRandInt:
		lo, hi := int(p.Low), int(p.High)
		if lo >= hi {
			return nil, fmt.Errorf("randint requires low < high, got [%d, %d)", lo, hi)
		}
		return lo + s.rng.Intn(hi-lo), nil
	case types.DistChoice, types.DistGrid:
		if len(p.Values) == 0 {
			return nil, fmt.Errorf("%s requires at least one value", p.Distribution)
		}
		return p.Values[s.rng.Intn(len(p.Values))], nil
	default:
		return nil, fmt.Errorf("unknown distribution %q", p.Distribution)
	}
}
