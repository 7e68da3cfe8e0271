package engine

import (
	"time"

	"github.com/google/uuid"
)

// Run represents a single sync invocation from gate check to terminal state.
// Runs exist only in memory; nothing about them is persisted.
type Run struct {
	// ID is the unique identifier for this run.
	ID string `json:"id"`

	// Environment is the runtime environment name the gate evaluated.
	Environment string `json:"environment"`

	// Status is the current run status.
	Status RunStatus `json:"status"`

	// StartedAt is when the run started.
	StartedAt time.Time `json:"started_at"`

	// CompletedAt is when the run reached a terminal state.
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	// Duration is the total run time once terminal.
	Duration time.Duration `json:"duration"`

	// Steps are the step results in execution order.
	Steps []StepResult `json:"steps"`

	// Summary provides aggregate statistics for the run.
	Summary RunSummary `json:"summary"`

	// Error is the fatal error message for aborted runs.
	Error string `json:"error,omitempty"`
}

// StepResult represents the outcome of one step in the run sequence.
type StepResult struct {
	// Name is the step identifier.
	Name StepName `json:"name"`

	// Status indicates how the step ended.
	Status StepStatus `json:"status"`

	// StartedAt is when the step started.
	StartedAt time.Time `json:"started_at"`

	// Duration is the step execution time.
	Duration time.Duration `json:"duration"`

	// Message is an optional human-readable outcome note.
	Message string `json:"message,omitempty"`

	// Warnings are non-fatal conditions raised during the step.
	Warnings []string `json:"warnings,omitempty"`
}

// RunSummary provides aggregate statistics about a run.
type RunSummary struct {
	// StepsRun is the number of steps that executed.
	StepsRun int `json:"steps_run"`

	// StepsSkipped is the number of steps skipped by the run options.
	StepsSkipped int `json:"steps_skipped"`

	// Warnings is the total number of non-fatal conditions raised.
	Warnings int `json:"warnings"`

	// PluginsActivated is the number of plugins actually activated.
	PluginsActivated int `json:"plugins_activated"`

	// PluginsDeactivated is the number of plugins actually deactivated.
	PluginsDeactivated int `json:"plugins_deactivated"`
}

// NewRun creates a pending run for the given environment.
func NewRun(environment string) *Run {
	return &Run{
		ID:          uuid.New().String(),
		Environment: environment,
		Status:      RunStatusPending,
	}
}

// Start marks the run as running.
func (r *Run) Start() {
	r.Status = RunStatusRunning
	r.StartedAt = time.Now()
}

// Complete marks the run terminal with the given status.
func (r *Run) Complete(status RunStatus) {
	now := time.Now()
	r.Status = status
	r.CompletedAt = &now
	r.Duration = now.Sub(r.StartedAt)
}

// RecordStep appends a step result and updates the summary counters.
func (r *Run) RecordStep(result StepResult) {
	r.Steps = append(r.Steps, result)
	switch result.Status {
	case StepStatusSkipped:
		r.Summary.StepsSkipped++
	default:
		r.Summary.StepsRun++
	}
	r.Summary.Warnings += len(result.Warnings)
}
