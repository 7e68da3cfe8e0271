package engine

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind classifies a sync error for abort and reporting decisions.
type ErrorKind string

const (
	// ErrKindEnvironmentUnsafe indicates the runtime environment is not in
	// the permitted set. Nothing else runs after this.
	ErrKindEnvironmentUnsafe ErrorKind = "environment_unsafe"

	// ErrKindMissingSettings indicates one or more required connection
	// settings could not be resolved, or a resolved value was invalid.
	ErrKindMissingSettings ErrorKind = "missing_settings"

	// ErrKindRemoteUnreachable indicates the reachability probe observed
	// the ssh client's connection-failure status.
	ErrKindRemoteUnreachable ErrorKind = "remote_unreachable"

	// ErrKindRemoteToolNotFound indicates no remote WP-CLI candidate
	// exists on the target host.
	ErrKindRemoteToolNotFound ErrorKind = "remote_tool_not_found"

	// ErrKindPluginNotAvailable indicates a named plugin is not installed.
	// Reported as a warning; the run continues.
	ErrKindPluginNotAvailable ErrorKind = "plugin_not_available"

	// ErrKindPluginStateUnchanged indicates a plugin already holds its
	// target state. Reported as a warning; the run continues.
	ErrKindPluginStateUnchanged ErrorKind = "plugin_state_unchanged"

	// ErrKindInternal indicates an unexpected failure inside satellite
	// itself, such as an unevaluable policy.
	ErrKindInternal ErrorKind = "internal"
)

// IsFatal reports whether an error of this kind aborts the run.
// Plugin-level kinds are per-item warnings; everything else aborts.
func (k ErrorKind) IsFatal() bool {
	return k != ErrKindPluginNotAvailable && k != ErrKindPluginStateUnchanged
}

// SyncError represents a classified sync failure with context.
type SyncError struct {
	// Kind is the error classification driving abort behavior.
	Kind ErrorKind `json:"kind"`

	// Message is the human-readable error message.
	Message string `json:"message"`

	// Step is the run step during which the error occurred, if known.
	Step StepName `json:"step,omitempty"`

	// Plugin is the plugin slug for plugin-level warnings.
	Plugin string `json:"plugin,omitempty"`

	// Err is the underlying error that caused this error.
	Err error `json:"-"`

	// Details contains additional context-specific information.
	Details map[string]interface{} `json:"details,omitempty"`
}

// Error implements the error interface.
func (e *SyncError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s", e.Kind, e.Message)
	if e.Step != "" {
		fmt.Fprintf(&b, " (step=%s)", e.Step)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %s", e.Err.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error for error chain inspection.
func (e *SyncError) Unwrap() error {
	return e.Err
}

// Is implements error equality checking for errors.Is.
func (e *SyncError) Is(target error) bool {
	t, ok := target.(*SyncError)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// WithStep adds step context to an error.
func (e *SyncError) WithStep(step StepName) *SyncError {
	e.Step = step
	return e
}

// WithDetail adds a detail field to the error context.
func (e *SyncError) WithDetail(key string, value interface{}) *SyncError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// NewEnvironmentUnsafeError creates the gate-denied error.
func NewEnvironmentUnsafeError(environment string) *SyncError {
	return &SyncError{
		Kind:    ErrKindEnvironmentUnsafe,
		Message: fmt.Sprintf("environment %q is not safe to sync into", environment),
		Details: map[string]interface{}{"environment": environment},
	}
}

// NewMissingSettingsError creates the failed-resolution error. The missing
// list names the settings that could not be resolved or were invalid.
func NewMissingSettingsError(missing []string) *SyncError {
	return &SyncError{
		Kind:    ErrKindMissingSettings,
		Message: fmt.Sprintf("missing or invalid settings: %s", strings.Join(missing, ", ")),
		Details: map[string]interface{}{"missing": missing},
	}
}

// NewRemoteUnreachableError creates the probe-failure error.
func NewRemoteUnreachableError(target string, err error) *SyncError {
	return &SyncError{
		Kind:    ErrKindRemoteUnreachable,
		Message: fmt.Sprintf("remote host %s is unreachable", target),
		Err:     err,
		Details: map[string]interface{}{"target": target},
	}
}

// NewRemoteToolNotFoundError creates the failed remote discovery error.
func NewRemoteToolNotFoundError(candidates []string) *SyncError {
	return &SyncError{
		Kind:    ErrKindRemoteToolNotFound,
		Message: fmt.Sprintf("no WP-CLI executable found on remote host (tried %s)", strings.Join(candidates, ", ")),
		Details: map[string]interface{}{"candidates": candidates},
	}
}

// NewPluginNotAvailableError creates the not-installed plugin warning.
// The action is "activate" or "deactivate".
func NewPluginNotAvailableError(plugin, action string) *SyncError {
	return &SyncError{
		Kind:    ErrKindPluginNotAvailable,
		Message: fmt.Sprintf("plugin %q is not available to %s", plugin, action),
		Plugin:  plugin,
	}
}

// NewPluginStateUnchangedError creates the already-in-state plugin warning.
// The state is "active" or "inactive".
func NewPluginStateUnchangedError(plugin, state string) *SyncError {
	return &SyncError{
		Kind:    ErrKindPluginStateUnchanged,
		Message: fmt.Sprintf("plugin %q is already %s", plugin, state),
		Plugin:  plugin,
	}
}

// NewInternalError creates an internal failure error.
func NewInternalError(message string, err error) *SyncError {
	return &SyncError{
		Kind:    ErrKindInternal,
		Message: message,
		Err:     err,
	}
}

// IsEnvironmentUnsafe returns true if the error is the gate denial.
func IsEnvironmentUnsafe(err error) bool {
	return kindOf(err) == ErrKindEnvironmentUnsafe
}

// IsMissingSettings returns true if the error is a failed resolution.
func IsMissingSettings(err error) bool {
	return kindOf(err) == ErrKindMissingSettings
}

// IsRemoteUnreachable returns true if the error is a failed probe.
func IsRemoteUnreachable(err error) bool {
	return kindOf(err) == ErrKindRemoteUnreachable
}

// IsRemoteToolNotFound returns true if the error is a failed remote discovery.
func IsRemoteToolNotFound(err error) bool {
	return kindOf(err) == ErrKindRemoteToolNotFound
}

// IsFatal returns true if the error aborts the run. An unclassified
// non-nil error is treated as fatal.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	var e *SyncError
	if errors.As(err, &e) {
		return e.Kind.IsFatal()
	}
	return true
}

// IsWarning returns true if the error is a non-fatal per-plugin condition.
func IsWarning(err error) bool {
	var e *SyncError
	if errors.As(err, &e) {
		return !e.Kind.IsFatal()
	}
	return false
}

func kindOf(err error) ErrorKind {
	var e *SyncError
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
