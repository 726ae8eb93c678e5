package run

import (
	"github.com/exptune/exptune/pkg/types"
)

// stopper applies a stop-condition mapping to per-iteration measurements.
// A trial stops as soon as ANY condition is reached. Counter keys compare
// against the iteration counters; any other key compares the latest metric
// of that name against its threshold. For the objective metric the
// comparison direction follows the optimization mode, so a min-mode search
// can stop on reaching a low enough value.
type stopper struct {
	conditions map[string]float64
	metric     string
	mode       string
}

func newStopper(conditions map[string]float64, metric, mode string) *stopper {
	return &stopper{conditions: conditions, metric: metric, mode: mode}
}

func (s *stopper) shouldStop(m types.Measurement) bool {
	for key, threshold := range s.conditions {
		switch key {
		case types.StopTrainingIteration:
			if float64(m.TrainingIteration) >= threshold {
				return true
			}
		case types.StopTimestepsTotal:
			if float64(m.TimestepsTotal) >= threshold {
				return true
			}
		default:
			v, ok := m.Metrics[key]
			if !ok {
				continue
			}
			if key == s.metric && s.mode == types.ModeMin {
				if v <= threshold {
					return true
				}
				continue
			}
			if v >= threshold {
				return true
			}
		}
	}
	return false
}
