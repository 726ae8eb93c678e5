package spec

const (
	ExitPass        = 0
	ExitLoadFail    = 10
	ExitSchemaFail  = 11
	ExitSpecInvalid = 12
	ExitRunFail     = 13
)

type BlockResult struct {
	File   string   `json:"file"`
	Block  string   `json:"block"`
	Kind   string   `json:"kind"`
	Passed bool     `json:"passed"`
	Errors []string `json:"errors,omitempty"`
}

type ValidationReport struct {
	Passed   bool          `json:"passed"`
	ExitCode int           `json:"exit_code"`
	Blocks   []BlockResult `json:"blocks"`
}

func (r *ValidationReport) add(file, block, kind string, errs []string, exit int) {
	br := BlockResult{File: file, Block: block, Kind: kind, Passed: len(errs) == 0, Errors: errs}
	r.Blocks = append(r.Blocks, br)
	if !br.Passed {
		r.Passed = false
		if r.ExitCode == ExitPass || exit > r.ExitCode {
			r.ExitCode = exit
		}
	}
}
