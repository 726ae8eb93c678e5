package spec

import (
	"fmt"
	"sort"
	"strings"

	"github.com/exptune/exptune/pkg/types"
)

type gridAxis struct {
	path   []string
	values []any
}

// ExpandGrid expands every grid_search directive in the run spec's config
// into the cartesian product of concrete run specs. A spec without
// directives is returned unchanged as a single-element slice.
func ExpandGrid(rs *types.RunSpec) ([]*types.RunSpec, error) {
	axes := make([]gridAxis, 0)
	if err := collectGridAxes(nil, rs.Config, &axes); err != nil {
		return nil, fmt.Errorf("run block %s: %w", rs.Name, err)
	}
	if len(axes) == 0 {
		return []*types.RunSpec{rs}, nil
	}

	total := 1
	for _, a := range axes {
		total *= len(a.values)
	}
	variants := make([]*types.RunSpec, 0, total)
	indices := make([]int, len(axes))
	for v := 0; v < total; v++ {
		cfg := copyMap(rs.Config)
		labels := make([]string, 0, len(axes))
		for i, a := range axes {
			value := a.values[indices[i]]
			if err := setPath(cfg, a.path, value); err != nil {
				return nil, fmt.Errorf("run block %s: %w", rs.Name, err)
			}
			labels = append(labels, fmt.Sprintf("%s=%v", strings.Join(a.path, "."), value))
		}
		variants = append(variants, &types.RunSpec{
			Name:   fmt.Sprintf("%s_%d_%s", rs.Name, v, strings.Join(labels, ",")),
			Env:    rs.Env,
			Run:    rs.Run,
			Stop:   copyStop(rs.Stop),
			Config: cfg,
		})

		for i := len(axes) - 1; i >= 0; i-- {
			indices[i]++
			if indices[i] < len(axes[i].values) {
				break
			}
			indices[i] = 0
		}
	}
	return variants, nil
}

// collectGridAxes walks the config mapping depth-first in sorted key order
// so expansion is deterministic.
func collectGridAxes(prefix []string, cfg map[string]any, axes *[]gridAxis) error {
	keys := make([]string, 0, len(cfg))
	for k := range cfg {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		path := append(append([]string{}, prefix...), k)
		child, ok := cfg[k].(map[string]any)
		if !ok {
			continue
		}
		if raw, isGrid := child[types.GridSearchKey]; isGrid {
			if len(child) != 1 {
				return fmt.Errorf("%s: grid_search must be the only key in its mapping", strings.Join(path, "."))
			}
			values, ok := raw.([]any)
			if !ok || len(values) == 0 {
				return fmt.Errorf("%s: grid_search requires a non-empty list", strings.Join(path, "."))
			}
			*axes = append(*axes, gridAxis{path: path, values: values})
			continue
		}
		if err := collectGridAxes(path, child, axes); err != nil {
			return err
		}
	}
	return nil
}

func setPath(cfg map[string]any, path []string, value any) error {
	cur := cfg
	for _, k := range path[:len(path)-1] {
		next, ok := cur[k].(map[string]any)
		if !ok {
			return fmt.Errorf("%s: path vanished during expansion", strings.Join(path, "."))
		}
		cur = next
	}
	cur[path[len(path)-1]] = value
	return nil
}

func copyMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = copyValue(v)
	}
	return out
}

func copyValue(v any) any {
	switch vv := v.(type) {
	case map[string]any:
		return copyMap(vv)
	case []any:
		out := make([]any, len(vv))
		for i, item := range vv {
			out[i] = copyValue(item)
		}
		return out
	default:
		return v
	}
}

func copyStop(stop map[string]float64) map[string]float64 {
	if stop == nil {
		return nil
	}
	out := make(map[string]float64, len(stop))
	for k, v := range stop {
		out[k] = v
	}
	return out
}
