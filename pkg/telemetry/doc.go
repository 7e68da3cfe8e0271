// Package telemetry provides observability instrumentation for
// satellite sync runs.
//
// The package integrates structured logging (zerolog), distributed
// tracing (OpenTelemetry), and metrics (Prometheus) behind a single
// configuration surface.
//
// # Architecture
//
// The telemetry system is built on three pillars:
//
//  1. Structured Logging - component-scoped logging with zerolog
//  2. Distributed Tracing - one span per run, one per step
//  3. Metrics Collection - Prometheus counters and histograms
//
// Tracing and metrics are off by default: a one-shot sync invoked by an
// operator usually needs only its log output. Both switch on through
// flags or configuration without code changes.
//
// # Usage
//
// Initialize telemetry at process startup:
//
//	cfg := telemetry.DefaultConfig()
//	cfg.ServiceVersion = version
//
//	tel, err := telemetry.New(cfg)
//	if err != nil {
//	    return err
//	}
//	defer tel.Shutdown(context.Background())
//
// Component loggers hang off the base logger:
//
//	logger := tel.Logger.With().Str("component", "engine").Logger()
//
// # Distributed Tracing
//
// The run is the root span; each step of the sequence nests under it:
//
//	ctx, span := tel.Tracer.StartRunSpan(ctx, runID, environment)
//	defer span.End()
//
//	ctx, stepSpan := tel.Tracer.StartStepSpan(ctx, "probe_remote")
//	defer stepSpan.End()
//
//	if err != nil {
//	    telemetry.RecordError(stepSpan, err)
//	}
//
// Exporters: "stdout" for local debugging, "otlp" for a collector,
// "none" to generate spans without exporting.
//
// # Metrics
//
// Metrics expose run and step counts, durations, applied plugin
// changes, and warning totals. The HTTP endpoint only starts when a
// listen address is configured:
//
//	if err := tel.StartMetricsServer(); err != nil {
//	    return err
//	}
package telemetry
