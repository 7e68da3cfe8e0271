package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/satellite-sync/satellite/pkg/telemetry"
)

// Orchestrator drives the fixed sync sequence from environment gate to
// plugin reconciliation. The sequence is strictly ordered: a fatal
// condition aborts the run where it happened and no later step runs.
// One orchestrator serves one process; each Sync call produces an
// independent run record.
type Orchestrator struct {
	gate       Gate
	resolver   Resolver
	transport  TransportFactory
	locator    Locator
	database   DatabaseSyncer
	uploads    UploadsSyncer
	hooks      HookRunner
	reconciler ReconcilerFactory
	reporter   Reporter
	tracer     *telemetry.Tracer
	metrics    *telemetry.Metrics
	logger     zerolog.Logger
}

// Config wires the orchestrator's collaborators.
type Config struct {
	Gate       Gate
	Resolver   Resolver
	Transport  TransportFactory
	Locator    Locator
	Database   DatabaseSyncer
	Uploads    UploadsSyncer
	Hooks      HookRunner
	Reconciler ReconcilerFactory
	Reporter   Reporter
	Tracer     *telemetry.Tracer
	Metrics    *telemetry.Metrics
	Logger     zerolog.Logger
}

// NewOrchestrator creates an orchestrator from the given wiring. A nil
// tracer or metrics instance is replaced by a disabled one; a nil
// reporter reports nothing.
func NewOrchestrator(cfg Config) *Orchestrator {
	tracer := cfg.Tracer
	if tracer == nil {
		tracer, _ = telemetry.NewTracer(telemetry.TracingConfig{}, "satellite", "dev", "")
	}
	metrics := cfg.Metrics
	if metrics == nil {
		metrics, _ = telemetry.NewMetrics(telemetry.MetricsConfig{})
	}
	reporter := cfg.Reporter
	if reporter == nil {
		reporter = noopReporter{}
	}

	return &Orchestrator{
		gate:       cfg.Gate,
		resolver:   cfg.Resolver,
		transport:  cfg.Transport,
		locator:    cfg.Locator,
		database:   cfg.Database,
		uploads:    cfg.Uploads,
		hooks:      cfg.Hooks,
		reconciler: cfg.Reconciler,
		reporter:   reporter,
		tracer:     tracer,
		metrics:    metrics,
		logger:     cfg.Logger.With().Str("component", "engine").Logger(),
	}
}

// Sync runs the sequence once and returns the run record. The record
// is complete for both terminal states; the returned error is the
// fatal condition of an aborted run, nil for a succeeded one.
func (o *Orchestrator) Sync(ctx context.Context, environment string, opts Options) (*Run, error) {
	run := NewRun(environment)
	run.Start()

	ctx, runSpan := o.tracer.StartRunSpan(ctx, run.ID, environment)
	defer runSpan.End()

	o.metrics.RecordRunStarted(environment)
	logger := o.logger.With().Str("run_id", run.ID).Logger()
	logger.Info().
		Str("environment", environment).
		Str("trace_id", telemetry.TraceID(ctx)).
		Msg("Starting sync run")

	err := o.execute(ctx, run, environment, opts)
	if err != nil {
		run.Error = err.Error()
		run.Complete(RunStatusAborted)
		telemetry.RecordError(runSpan, err)
		runSpan.SetAttributes(telemetry.AttrRunStatus.String(string(run.Status)))
		o.metrics.RecordRunCompleted(string(run.Status), run.Duration)
		o.metrics.RecordError(string(kindOf(err)))

		o.reporter.Errorf("%s", errorMessage(err))
		logger.Error().Err(err).Dur("duration", run.Duration).Msg("Sync run aborted")
		return run, err
	}

	run.Complete(RunStatusSucceeded)
	telemetry.RecordSuccess(runSpan)
	runSpan.SetAttributes(telemetry.AttrRunStatus.String(string(run.Status)))
	o.metrics.RecordRunCompleted(string(run.Status), run.Duration)

	o.reporter.Successf("sync finished: %d steps run, %d skipped, %d warnings",
		run.Summary.StepsRun, run.Summary.StepsSkipped, run.Summary.Warnings)
	logger.Info().
		Dur("duration", run.Duration).
		Int("warnings", run.Summary.Warnings).
		Msg("Sync run succeeded")
	return run, nil
}

// execute walks the step sequence in order. Skipped steps are recorded
// with a reason so every run documents the full sequence it considered.
func (o *Orchestrator) execute(ctx context.Context, run *Run, environment string, opts Options) error {
	// The gate comes first; nothing runs in a forbidden environment.
	if err := o.runStep(ctx, run, StepEnvironmentGate, func(ctx context.Context, step *StepResult) error {
		o.reporter.Info(fmt.Sprintf("checking environment %q", environment))
		safe, err := o.gate.IsSafe(ctx, environment)
		if err != nil {
			return err
		}
		if !safe {
			return NewEnvironmentUnsafeError(environment).WithStep(StepEnvironmentGate)
		}
		step.Message = fmt.Sprintf("environment %q is permitted", environment)
		return nil
	}); err != nil {
		return err
	}

	var settings *Settings
	if err := o.runStep(ctx, run, StepResolveSettings, func(ctx context.Context, step *StepResult) error {
		o.reporter.Info("resolving connection settings")
		resolved, err := o.resolver.Resolve(ctx)
		if err != nil {
			return err
		}
		settings = resolved
		step.Message = fmt.Sprintf("remote target %s:%s", settings.Target(), settings.SSHPort)
		return nil
	}); err != nil {
		return err
	}

	if err := o.runStep(ctx, run, StepLocateLocalTool, func(ctx context.Context, step *StepResult) error {
		settings.LocalToolPath = o.locator.LocateLocal(ctx)
		if settings.LocalToolPath == "" {
			warning := `no local WP-CLI executable found; relying on "wp" from PATH`
			step.Warnings = append(step.Warnings, warning)
			o.reporter.Warnf("%s", warning)
			o.metrics.RecordWarnings(1)
			return nil
		}
		step.Message = settings.LocalToolPath
		return nil
	}); err != nil {
		return err
	}

	telemetry.SpanFromContext(ctx).SetAttributes(telemetry.AttrTargetHost.String(settings.SSHHost))

	var transport Transport
	if err := o.runStep(ctx, run, StepProbeRemote, func(ctx context.Context, step *StepResult) error {
		built, err := o.transport(settings)
		if err != nil {
			return NewInternalError("failed to build ssh transport", err).WithStep(StepProbeRemote)
		}
		transport = built

		o.reporter.Info(fmt.Sprintf("probing %s", settings.Target()))
		if err := transport.Probe(ctx); err != nil {
			return err
		}
		step.Message = fmt.Sprintf("%s is reachable", settings.Target())
		return nil
	}); err != nil {
		return err
	}

	if err := o.runStep(ctx, run, StepLocateRemoteTool, func(ctx context.Context, step *StepResult) error {
		path, err := o.locator.LocateRemote(ctx, transport, settings)
		if err != nil {
			return err
		}
		settings.RemoteToolPath = path
		step.Message = path
		return nil
	}); err != nil {
		return err
	}

	if opts.Database {
		if err := o.runStep(ctx, run, StepSyncDatabase, func(ctx context.Context, step *StepResult) error {
			o.reporter.Info("syncing database")
			o.database.Sync(ctx, transport, settings)
			step.Message = "database pipeline finished"
			return nil
		}); err != nil {
			return err
		}
	} else {
		o.skipStep(run, StepSyncDatabase, "database sync not requested")
	}

	switch {
	case !opts.Database:
		o.skipStep(run, StepAfterDatabaseHooks, "database sync not requested")
	case len(settings.AfterDatabaseHooks) == 0:
		o.skipStep(run, StepAfterDatabaseHooks, "no hooks configured")
	default:
		if err := o.runStep(ctx, run, StepAfterDatabaseHooks, func(ctx context.Context, step *StepResult) error {
			o.reporter.Info(fmt.Sprintf("running %d after-database hooks", len(settings.AfterDatabaseHooks)))
			o.hooks.Run(ctx, settings.AfterDatabaseHooks)
			step.Message = fmt.Sprintf("%d hooks run", len(settings.AfterDatabaseHooks))
			return nil
		}); err != nil {
			return err
		}
	}

	if opts.Uploads {
		if err := o.runStep(ctx, run, StepSyncUploads, func(ctx context.Context, step *StepResult) error {
			o.reporter.Info("syncing uploads")
			o.uploads.Sync(ctx, transport, settings)
			step.Message = "uploads transfer finished"
			return nil
		}); err != nil {
			return err
		}
	} else {
		o.skipStep(run, StepSyncUploads, "uploads sync not requested")
	}

	reconciler := o.reconciler(settings.LocalToolPath)

	switch {
	case !opts.ActivatePlugins:
		o.skipStep(run, StepActivatePlugins, "plugin activation disabled")
	case settings.ActivatePlugins == nil:
		o.skipStep(run, StepActivatePlugins, "no activation list configured")
	default:
		if err := o.runStep(ctx, run, StepActivatePlugins, func(ctx context.Context, step *StepResult) error {
			o.reporter.Info(fmt.Sprintf("activating %d plugins", len(settings.ActivatePlugins)))
			outcome := reconciler.Activate(ctx, settings.ActivatePlugins)
			o.recordReconcile(run, step, "activate", outcome)
			run.Summary.PluginsActivated += outcome.Changed
			return nil
		}); err != nil {
			return err
		}
	}

	switch {
	case !opts.DeactivatePlugins:
		o.skipStep(run, StepDeactivatePlugins, "plugin deactivation disabled")
	case settings.DeactivatePlugins == nil:
		o.skipStep(run, StepDeactivatePlugins, "no deactivation list configured")
	default:
		if err := o.runStep(ctx, run, StepDeactivatePlugins, func(ctx context.Context, step *StepResult) error {
			o.reporter.Info(fmt.Sprintf("deactivating %d plugins", len(settings.DeactivatePlugins)))
			outcome := reconciler.Deactivate(ctx, settings.DeactivatePlugins)
			o.recordReconcile(run, step, "deactivate", outcome)
			run.Summary.PluginsDeactivated += outcome.Changed
			return nil
		}); err != nil {
			return err
		}
	}

	return nil
}

// runStep executes one step with timing, tracing, and recording. The
// body fills in the message and warnings of its step result.
func (o *Orchestrator) runStep(ctx context.Context, run *Run, name StepName, body func(context.Context, *StepResult) error) error {
	stepCtx, span := o.tracer.StartStepSpan(ctx, string(name))
	defer span.End()

	timer := telemetry.NewTimer()
	result := StepResult{
		Name:      name,
		Status:    StepStatusSucceeded,
		StartedAt: time.Now(),
	}

	err := body(stepCtx, &result)
	result.Duration = timer.Duration()

	if err != nil {
		result.Status = StepStatusAborted
		result.Message = errorMessage(err)
		telemetry.RecordError(span, err)
	} else {
		telemetry.RecordSuccess(span)
	}
	span.SetAttributes(telemetry.AttrStepStatus.String(string(result.Status)))

	run.RecordStep(result)
	o.metrics.RecordStep(string(name), string(result.Status), result.Duration)

	o.logger.Debug().
		Str("run_id", run.ID).
		Str("step", string(name)).
		Str("status", string(result.Status)).
		Dur("duration", result.Duration).
		Msg("Step finished")
	return err
}

// skipStep records a step the run options excluded.
func (o *Orchestrator) skipStep(run *Run, name StepName, reason string) {
	run.RecordStep(StepResult{
		Name:      name,
		Status:    StepStatusSkipped,
		StartedAt: time.Now(),
		Message:   reason,
	})
	o.metrics.RecordStep(string(name), string(StepStatusSkipped), 0)
}

// recordReconcile folds a reconciliation outcome into the step result
// and surfaces its warnings to the operator.
func (o *Orchestrator) recordReconcile(run *Run, step *StepResult, action string, outcome ReconcileOutcome) {
	step.Message = fmt.Sprintf("%d plugins changed", outcome.Changed)
	step.Warnings = append(step.Warnings, outcome.Warnings...)
	for _, warning := range outcome.Warnings {
		o.reporter.Warnf("%s", warning)
	}
	o.metrics.RecordPluginsChanged(action, outcome.Changed)
	o.metrics.RecordWarnings(len(outcome.Warnings))
}

// errorMessage prefers the classified message over the full formatted
// error for operator-facing output.
func errorMessage(err error) string {
	var syncErr *SyncError
	if errors.As(err, &syncErr) {
		return syncErr.Message
	}
	return err.Error()
}

// noopReporter drops all progress output.
type noopReporter struct{}

func (noopReporter) Info(msg string) {}

func (noopReporter) Successf(format string, args ...interface{}) {}

func (noopReporter) Warnf(format string, args ...interface{}) {}

func (noopReporter) Errorf(format string, args ...interface{}) {}
