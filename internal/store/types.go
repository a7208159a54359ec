package store

import (
	"time"

	"github.com/google/uuid"
)

// NewRunID returns a fresh unique run identifier.
func NewRunID() string {
	return uuid.NewString()
}

// RunRecord is the persisted outcome of one benchmark run: which problem and
// optimizer, the best parameters found and the performance metrics that the
// benchmark scores algorithms on.
type RunRecord struct {
	// RunID is the unique identifier for this run.
	RunID string `json:"runId"`

	// Problem and Optimizer name what was benchmarked.
	Problem   string `json:"problem"`
	Optimizer string `json:"optimizer"`

	// Seed is the RNG seed the run was started with.
	Seed int64 `json:"seed"`

	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt"`

	// BestInput holds the best parameters in input space, BestParams the
	// same point in original space.
	BestInput  []float64 `json:"bestInput"`
	BestParams []float64 `json:"bestParams,omitempty"`

	// BestCost is the RMSE cost achieved by BestInput.
	BestCost float64 `json:"bestCost"`

	// SolveCount is the number of model solves the run spent.
	SolveCount int `json:"solveCount"`

	// FinalRMSRE and IdentifiedParams score the recovered parameters against
	// the true ones.
	FinalRMSRE       float64 `json:"finalRmsre"`
	IdentifiedParams int     `json:"identifiedParams"`
	TotalParams      int     `json:"totalParams"`

	// Converged reports whether the run finished below the problem's cost
	// threshold.
	Converged bool `json:"converged"`
}

// RunInfo is the listing summary of a run, without the parameter vectors.
type RunInfo struct {
	RunID      string    `json:"runId"`
	Problem    string    `json:"problem"`
	Optimizer  string    `json:"optimizer"`
	BestCost   float64   `json:"bestCost"`
	SolveCount int       `json:"solveCount"`
	Converged  bool      `json:"converged"`
	FinishedAt time.Time `json:"finishedAt"`
}

// ToInfo converts a full record to its listing summary.
func (r *RunRecord) ToInfo() RunInfo {
	return RunInfo{
		RunID:      r.RunID,
		Problem:    r.Problem,
		Optimizer:  r.Optimizer,
		BestCost:   r.BestCost,
		SolveCount: r.SolveCount,
		Converged:  r.Converged,
		FinishedAt: r.FinishedAt,
	}
}

// Validate checks the record for missing or inconsistent fields.
func (r *RunRecord) Validate() error {
	if r.RunID == "" {
		return &ValidationError{Field: "RunID", Reason: "cannot be empty"}
	}
	if r.Problem == "" {
		return &ValidationError{Field: "Problem", Reason: "cannot be empty"}
	}
	if r.Optimizer == "" {
		return &ValidationError{Field: "Optimizer", Reason: "cannot be empty"}
	}
	if len(r.BestInput) == 0 {
		return &ValidationError{Field: "BestInput", Reason: "cannot be empty"}
	}
	if r.BestParams != nil && len(r.BestParams) != len(r.BestInput) {
		return &ValidationError{Field: "BestParams", Reason: "length does not match BestInput"}
	}
	if r.SolveCount < 0 {
		return &ValidationError{Field: "SolveCount", Reason: "cannot be negative"}
	}
	if r.TotalParams <= 0 {
		return &ValidationError{Field: "TotalParams", Reason: "must be positive"}
	}
	if r.IdentifiedParams < 0 || r.IdentifiedParams > r.TotalParams {
		return &ValidationError{Field: "IdentifiedParams", Reason: "outside [0, TotalParams]"}
	}
	return nil
}

// ValidationError represents an invalid run record field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return "validation error: " + e.Field + " " + e.Reason
}
