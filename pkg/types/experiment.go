package types

type ExperimentStatus string

const (
	ExperimentCompleted ExperimentStatus = "completed"
	ExperimentAborted   ExperimentStatus = "aborted"
)

// Experiment is the stored record of one executed tune block. SpecDigest
// fingerprints the exact configuration the trials were drawn from, so results
// can always be traced back to the spec that produced them.
type Experiment struct {
	SchemaVersion string           `json:"schema_version"`
	ExperimentID  string           `json:"experiment_id"`
	SpecName      string           `json:"spec_name"`
	SpecDigest    string           `json:"spec_digest"`
	Objective     string           `json:"objective"`
	Metric        string           `json:"metric"`
	Mode          string           `json:"mode"`
	Status        ExperimentStatus `json:"status"`
	CreatedAt     string           `json:"created_at"`
	CompletedAt   string           `json:"completed_at,omitempty"`
	BestTrialID   string           `json:"best_trial_id,omitempty"`
	BestValue     *float64         `json:"best_value,omitempty"`
	Trials        []TrialResult    `json:"trials"`
}

// BestTrial returns the trial named by BestTrialID, or nil when the
// experiment produced no feasible trial.
func (e *Experiment) BestTrial() *TrialResult {
	if e.BestTrialID == "" {
		return nil
	}
	for i := range e.Trials {
		if e.Trials[i].TrialID == e.BestTrialID {
			return &e.Trials[i]
		}
	}
	return nil
}
