package search

import (
	"fmt"
	"sort"

	"github.com/exptune/exptune/pkg/types"
)

// ValidateSpace checks that every parameter descriptor is internally
// consistent: known distribution, ordered bounds, non-empty value lists.
func ValidateSpace(space map[string]types.ParamSpec) error {
	if len(space) == 0 {
		return fmt.Errorf("search space is empty")
	}
	for _, name := range ParamNames(space) {
		p := space[name]
		switch p.Distribution {
		case types.DistUniform, types.DistRandInt:
			if p.Low >= p.High {
				return fmt.Errorf("param %s: low %v must be less than high %v", name, p.Low, p.High)
			}
		case types.DistLogUniform:
			if p.Low <= 0 {
				return fmt.Errorf("param %s: loguniform requires low > 0, got %v", name, p.Low)
			}
			if p.Low >= p.High {
				return fmt.Errorf("param %s: low %v must be less than high %v", name, p.Low, p.High)
			}
		case types.DistChoice, types.DistGrid:
			if len(p.Values) == 0 {
				return fmt.Errorf("param %s: %s requires at least one value", name, p.Distribution)
			}
		default:
			return fmt.Errorf("param %s: unknown distribution %q", name, p.Distribution)
		}
	}
	return nil
}

// ParamNames returns the parameter names in sorted order. Samplers and
// objective evaluators both rely on this ordering.
func ParamNames(space map[string]types.ParamSpec) []string {
	names := make([]string, 0, len(space))
	for name := range space {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// FloatParams extracts the numeric subset of a sampled point for constraint
// and objective evaluation. Choice values that are not numbers are skipped.
func FloatParams(params map[string]any) map[string]float64 {
	out := make(map[string]float64, len(params))
	for name, v := range params {
		if f, ok := asFloat(v); ok {
			out[name] = f
		}
	}
	return out
}

func asFloat(v any) (float64, bool) {
	switch vv := v.(type) {
	case float64:
		return vv, true
	case float32:
		return float64(vv), true
	case int:
		return float64(vv), true
	case int64:
		return float64(vv), true
	default:
		return 0, false
	}
}
