package types

type TrialStatus string

const (
	TrialPending    TrialStatus = "pending"
	TrialRunning    TrialStatus = "running"
	TrialTerminated TrialStatus = "terminated"
	TrialInfeasible TrialStatus = "infeasible"
	TrialError      TrialStatus = "error"
)

// Measurement is one per-iteration metric report from a running trial.
// TrainingIteration starts at 1 and only ever grows within a trial.
type Measurement struct {
	TrainingIteration int                `json:"training_iteration"`
	TimestepsTotal    int                `json:"timesteps_total"`
	Metrics           map[string]float64 `json:"metrics"`
	RecordedAt        string             `json:"recorded_at"`
}

// TrialResult is the full record of one sampled point: the parameters drawn
// from the search space, every measurement the evaluation loop reported, and
// the terminal status.
type TrialResult struct {
	TrialID      string             `json:"trial_id"`
	Params       map[string]any     `json:"params"`
	Status       TrialStatus        `json:"status"`
	Iterations   int                `json:"iterations"`
	BestValue    float64            `json:"best_value"`
	FinalMetrics map[string]float64 `json:"final_metrics,omitempty"`
	Error        string             `json:"error,omitempty"`
	StartedAt    string             `json:"started_at"`
	EndedAt      string             `json:"ended_at"`
	Measurements []Measurement      `json:"measurements,omitempty"`
}
