package engine

import (
	"encoding/json"
	"fmt"
)

// RunStatus represents the overall status of a sync run.
type RunStatus string

const (
	// RunStatusPending indicates the run is constructed but not yet started.
	RunStatusPending RunStatus = "pending"

	// RunStatusRunning indicates the run is currently executing.
	RunStatusRunning RunStatus = "running"

	// RunStatusSucceeded indicates the run completed the full sequence.
	// Per-plugin warnings do not prevent this state.
	RunStatusSucceeded RunStatus = "succeeded"

	// RunStatusAborted indicates a fatal condition stopped the run before
	// the sequence completed.
	RunStatusAborted RunStatus = "aborted"
)

// IsTerminal returns true if the run status represents a final state.
func (s RunStatus) IsTerminal() bool {
	return s == RunStatusSucceeded || s == RunStatusAborted
}

// IsActive returns true if the run is pending or running.
func (s RunStatus) IsActive() bool {
	return s == RunStatusPending || s == RunStatusRunning
}

// Validate checks if the run status is valid.
func (s RunStatus) Validate() error {
	switch s {
	case RunStatusPending, RunStatusRunning, RunStatusSucceeded, RunStatusAborted:
		return nil
	default:
		return fmt.Errorf("invalid run status: %s", s)
	}
}

// MarshalJSON implements custom JSON marshaling for type-safe enum serialization.
func (s RunStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(s))
}

// UnmarshalJSON implements custom JSON unmarshaling with validation.
func (s *RunStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	*s = RunStatus(str)
	return s.Validate()
}

// StepName identifies a step in the fixed run sequence.
type StepName string

const (
	// StepEnvironmentGate checks the runtime environment against the
	// permitted set before anything else runs.
	StepEnvironmentGate StepName = "environment_gate"

	// StepResolveSettings resolves and validates connection settings.
	StepResolveSettings StepName = "resolve_settings"

	// StepLocateLocalTool discovers the local WP-CLI executable.
	StepLocateLocalTool StepName = "locate_local_tool"

	// StepProbeRemote verifies the remote host accepts connections.
	StepProbeRemote StepName = "probe_remote"

	// StepLocateRemoteTool discovers the WP-CLI executable on the remote.
	StepLocateRemoteTool StepName = "locate_remote_tool"

	// StepSyncDatabase streams the remote database into the local site.
	StepSyncDatabase StepName = "sync_database"

	// StepAfterDatabaseHooks runs configured commands after a database import.
	StepAfterDatabaseHooks StepName = "after_database_hooks"

	// StepSyncUploads pulls the remote uploads directory.
	StepSyncUploads StepName = "sync_uploads"

	// StepActivatePlugins reconciles plugins toward the active state.
	StepActivatePlugins StepName = "activate_plugins"

	// StepDeactivatePlugins reconciles plugins toward the inactive state.
	StepDeactivatePlugins StepName = "deactivate_plugins"
)

// StepSequence is the fixed execution order of a full run.
var StepSequence = []StepName{
	StepEnvironmentGate,
	StepResolveSettings,
	StepLocateLocalTool,
	StepProbeRemote,
	StepLocateRemoteTool,
	StepSyncDatabase,
	StepAfterDatabaseHooks,
	StepSyncUploads,
	StepActivatePlugins,
	StepDeactivatePlugins,
}

// Validate checks if the step name is valid.
func (s StepName) Validate() error {
	for _, known := range StepSequence {
		if s == known {
			return nil
		}
	}
	return fmt.Errorf("invalid step name: %s", s)
}

// StepStatus represents the status of a single run step.
type StepStatus string

const (
	// StepStatusSucceeded indicates the step completed, possibly with
	// per-item warnings.
	StepStatusSucceeded StepStatus = "succeeded"

	// StepStatusSkipped indicates the step was not requested by the
	// run options.
	StepStatusSkipped StepStatus = "skipped"

	// StepStatusAborted indicates the step raised the fatal condition
	// that ended the run.
	StepStatusAborted StepStatus = "aborted"
)

// Validate checks if the step status is valid.
func (s StepStatus) Validate() error {
	switch s {
	case StepStatusSucceeded, StepStatusSkipped, StepStatusAborted:
		return nil
	default:
		return fmt.Errorf("invalid step status: %s", s)
	}
}
