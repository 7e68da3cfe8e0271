package engine

import (
	"context"
)

// Gate decides whether the runtime environment may sync at all.
// This is the first check of every run; a denial stops everything.
type Gate interface {
	// IsSafe reports whether the named environment is permitted to
	// receive a sync. The comparison is exact and case-sensitive.
	IsSafe(ctx context.Context, environment string) (bool, error)
}

// Resolver builds validated connection settings from the configuration
// layers. Resolution fails with a missing-settings error when any
// required value is absent or invalid.
type Resolver interface {
	// Resolve reads all layers, applies precedence, and validates the
	// resulting settings.
	Resolve(ctx context.Context) (*Settings, error)
}

// Transport executes commands on the remote host through the shared
// ssh invocation template. The template is fixed at construction from
// resolved settings.
type Transport interface {
	// Probe verifies the remote host accepts connections. Only the ssh
	// client's connection-failure status counts as unreachable.
	Probe(ctx context.Context) error

	// FileExists reports whether a regular file exists on the remote.
	FileExists(ctx context.Context, path string) bool

	// Command composes the full local argv that runs the given command
	// line on the remote, for use as a pipeline stage.
	Command(remote string) []string

	// Template returns the client invocation without target or remote
	// command, for tools such as rsync that take a remote-shell
	// argument and address the host themselves.
	Template() []string
}

// TransportFactory builds a transport from resolved settings. The
// orchestrator constructs the transport only after resolution succeeds;
// a construction failure aborts the run at the probe step.
type TransportFactory func(settings *Settings) (Transport, error)

// Locator discovers WP-CLI executables on both ends of the transport.
type Locator interface {
	// LocateLocal probes the local candidates in order and returns the
	// first hit, or the empty string when none resolve. A missing local
	// tool is not fatal here.
	LocateLocal(ctx context.Context) string

	// LocateRemote probes the remote candidates in order through the
	// transport and returns the first existing path. An operator-
	// configured candidate from settings is probed first. No candidate
	// existing is fatal.
	LocateRemote(ctx context.Context, transport Transport, settings *Settings) (string, error)
}

// DatabaseSyncer streams the remote database into the local site as a
// single composed pipeline. Pipeline failures are logged, not returned;
// the syncer runs only after remote discovery succeeded.
type DatabaseSyncer interface {
	// Sync exports, transfers, and imports the database in one stream.
	Sync(ctx context.Context, transport Transport, settings *Settings)
}

// UploadsSyncer pulls the remote uploads directory into the local site.
// Failures are logged, not returned.
type UploadsSyncer interface {
	// Sync transfers the uploads tree over the transport template.
	Sync(ctx context.Context, transport Transport, settings *Settings)
}

// HookRunner executes configured commands after the database import.
// Each command failure is a warning; execution continues.
type HookRunner interface {
	// Run executes the commands sequentially through the local shell.
	Run(ctx context.Context, commands []string)
}

// ReconcileOutcome reports what a reconciliation pass did.
type ReconcileOutcome struct {
	// Changed is the number of plugins whose state was actually changed.
	Changed int

	// Warnings are the non-fatal per-plugin conditions raised.
	Warnings []string
}

// ReconcilerFactory builds a reconciler bound to the discovered local
// tool. Local discovery happens mid-run, so construction is deferred.
type ReconcilerFactory func(localToolPath string) Reconciler

// Reconciler converges named plugins toward an activation state.
// Plugins are handled independently; one failure never blocks the rest.
type Reconciler interface {
	// Activate converges each named plugin toward the active state.
	Activate(ctx context.Context, plugins []string) ReconcileOutcome

	// Deactivate converges each named plugin toward the inactive state.
	Deactivate(ctx context.Context, plugins []string) ReconcileOutcome
}

// Reporter presents run progress to the operator. Implementations write
// human-readable output; the run's structured record stays in the logs.
type Reporter interface {
	// Info reports a neutral progress message.
	Info(msg string)

	// Successf reports a successful outcome.
	Successf(format string, args ...interface{})

	// Warnf reports a non-fatal condition.
	Warnf(format string, args ...interface{})

	// Errorf reports a fatal condition.
	Errorf(format string, args ...interface{})
}
