package run

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/exptune/exptune/internal/bench"
	"github.com/exptune/exptune/internal/search"
	"github.com/exptune/exptune/pkg/types"
)

// runTrial is the evaluation loop for one sampled point: evaluate the
// objective once per iteration and report a measurement with a strictly
// growing iteration index, until the iteration budget or a stop condition
// ends the trial.
func (r *Runner) runTrial(ctx context.Context, params map[string]any) types.TrialResult {
	tr := types.TrialResult{
		TrialID:   uuid.NewString(),
		Params:    params,
		Status:    types.TrialRunning,
		StartedAt: time.Now().UTC().Format(time.RFC3339),
	}

	x, err := r.vector(params)
	if err != nil {
		return r.failTrial(tr, err)
	}

	stop := newStopper(r.spec.Stop, r.spec.Metric, r.spec.Mode)
	for i := 0; i < r.spec.Iterations; i++ {
		if err := ctx.Err(); err != nil {
			return r.failTrial(tr, fmt.Errorf("trial canceled: %w", err))
		}
		value, err := r.objective.Eval(x)
		if err != nil {
			return r.failTrial(tr, err)
		}
		m := types.Measurement{
			TrainingIteration: i + 1,
			TimestepsTotal:    i,
			Metrics: map[string]float64{
				r.spec.Metric: value,
				"l2norm":      bench.L2Norm(x),
			},
			RecordedAt: time.Now().UTC().Format(time.RFC3339),
		}
		tr.Measurements = append(tr.Measurements, m)
		tr.Iterations = i + 1
		if tr.Iterations == 1 || better(value, tr.BestValue, r.spec.Mode) {
			tr.BestValue = value
		}
		if stop.shouldStop(m) {
			break
		}
	}

	last := tr.Measurements[len(tr.Measurements)-1]
	tr.FinalMetrics = last.Metrics
	tr.EndedAt = time.Now().UTC().Format(time.RFC3339)
	tr.Status = types.TrialTerminated
	for _, c := range r.outcome {
		if !c.Satisfied(tr.FinalMetrics) {
			tr.Status = types.TrialInfeasible
			break
		}
	}
	return tr
}

func (r *Runner) failTrial(tr types.TrialResult, err error) types.TrialResult {
	tr.Status = types.TrialError
	tr.Error = err.Error()
	tr.EndedAt = time.Now().UTC().Format(time.RFC3339)
	return tr
}

// vector orders the sampled point by sorted parameter name for the
// objective evaluator.
func (r *Runner) vector(params map[string]any) ([]float64, error) {
	floats := search.FloatParams(params)
	names := search.ParamNames(r.spec.Space)
	x := make([]float64, 0, len(names))
	for _, name := range names {
		v, ok := floats[name]
		if !ok {
			return nil, fmt.Errorf("param %s is not numeric; objective %s takes numeric inputs only", name, r.objective.Name)
		}
		x = append(x, v)
	}
	return x, nil
}

func better(candidate, incumbent float64, mode string) bool {
	if mode == types.ModeMin {
		return candidate < incumbent
	}
	return candidate > incumbent
}
