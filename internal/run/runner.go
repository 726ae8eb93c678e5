package run

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/exptune/exptune/internal/bench"
	"github.com/exptune/exptune/internal/search"
	"github.com/exptune/exptune/internal/spec"
	"github.com/exptune/exptune/pkg/types"
)

const defaultIterations = 100

// Runner executes one tune block: it draws num_samples points from the
// search space and evaluates each in its own trial, at most max_concurrent
// trials in flight at once.
type Runner struct {
	spec      *types.TuneSpec
	objective bench.Objective
	search    *search.RandomSearch
	outcome   []search.OutcomeConstraint
	digest    string
}

// New validates the tune block and prepares a runner for it.
func New(ts *types.TuneSpec) (*Runner, error) {
	digest, err := spec.Digest(ts)
	if err != nil {
		return nil, err
	}

	// Work on a copy so defaults never leak back into the parsed spec.
	cp := *ts
	if cp.Iterations <= 0 {
		cp.Iterations = defaultIterations
	}
	if cp.MaxConcurrent <= 0 {
		cp.MaxConcurrent = cp.NumSamples
	}
	if cp.NumSamples < 1 {
		return nil, fmt.Errorf("tune block %s: num_samples must be at least 1", cp.Name)
	}
	if cp.Mode != types.ModeMin && cp.Mode != types.ModeMax {
		return nil, fmt.Errorf("tune block %s: mode must be min or max, got %q", cp.Name, cp.Mode)
	}

	obj, err := bench.Lookup(cp.Objective)
	if err != nil {
		return nil, fmt.Errorf("tune block %s: %w", cp.Name, err)
	}
	if obj.Dim != 0 && len(cp.Space) != obj.Dim {
		return nil, fmt.Errorf("tune block %s: objective %s takes %d parameters, search space has %d", cp.Name, obj.Name, obj.Dim, len(cp.Space))
	}

	rs, err := search.NewRandomSearch(cp.Space, cp.ParameterConstraints, cp.Seed)
	if err != nil {
		return nil, fmt.Errorf("tune block %s: %w", cp.Name, err)
	}
	outcome, err := search.ParseOutcomeAll(cp.OutcomeConstraints)
	if err != nil {
		return nil, fmt.Errorf("tune block %s: %w", cp.Name, err)
	}

	return &Runner{
		spec:      &cp,
		objective: obj,
		search:    rs,
		outcome:   outcome,
		digest:    digest,
	}, nil
}

// Run draws all candidate points, evaluates them under the concurrency cap,
// and returns the completed experiment record.
func (r *Runner) Run(ctx context.Context) (*types.Experiment, error) {
	exp := &types.Experiment{
		SchemaVersion: "1.0.0",
		ExperimentID:  uuid.NewString(),
		SpecName:      r.spec.Name,
		SpecDigest:    r.digest,
		Objective:     r.spec.Objective,
		Metric:        r.spec.Metric,
		Mode:          r.spec.Mode,
		Status:        types.ExperimentCompleted,
		CreatedAt:     time.Now().UTC().Format(time.RFC3339),
	}

	// Suggestions are drawn up front and sequentially so a fixed seed
	// yields the same candidate set regardless of the concurrency cap.
	points := make([]map[string]any, r.spec.NumSamples)
	for i := range points {
		p, err := r.search.Suggest()
		if err != nil {
			return nil, fmt.Errorf("tune block %s: %w", r.spec.Name, err)
		}
		points[i] = p
	}

	results := make([]types.TrialResult, len(points))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.spec.MaxConcurrent)
	for i, p := range points {
		i, p := i, p
		g.Go(func() error {
			results[i] = r.runTrial(gctx, p)
			return nil
		})
	}
	// Trial failures land in the result records, never in the group error.
	_ = g.Wait()

	if ctx.Err() != nil {
		exp.Status = types.ExperimentAborted
	}
	exp.Trials = results
	selectBest(exp)
	exp.CompletedAt = time.Now().UTC().Format(time.RFC3339)
	return exp, nil
}

// selectBest picks the winner by metric and mode over feasible trials only.
func selectBest(exp *types.Experiment) {
	for i := range exp.Trials {
		tr := &exp.Trials[i]
		if tr.Status != types.TrialTerminated {
			continue
		}
		if exp.BestValue == nil || better(tr.BestValue, *exp.BestValue, exp.Mode) {
			v := tr.BestValue
			exp.BestValue = &v
			exp.BestTrialID = tr.TrialID
		}
	}
}
