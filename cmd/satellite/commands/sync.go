package commands

import (
	"context"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/satellite-sync/satellite/pkg/config"
	"github.com/satellite-sync/satellite/pkg/dbsync"
	"github.com/satellite-sync/satellite/pkg/engine"
	"github.com/satellite-sync/satellite/pkg/hook"
	"github.com/satellite-sync/satellite/pkg/plugins"
	"github.com/satellite-sync/satellite/pkg/policy"
	"github.com/satellite-sync/satellite/pkg/report"
	"github.com/satellite-sync/satellite/pkg/runner"
	"github.com/satellite-sync/satellite/pkg/telemetry"
	sshtransport "github.com/satellite-sync/satellite/pkg/transports/ssh"
	"github.com/satellite-sync/satellite/pkg/uploads"
	"github.com/satellite-sync/satellite/pkg/wpcli"
)

func newSyncCommand(version string) *cobra.Command {
	var (
		database string
		uploads  string
	)

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Run a one-shot sync from the remote environment",
		Long: `Run a one-shot sync pulling the remote WordPress environment into
this one.

By default only plugin reconciliation runs. The database and uploads
transfers are opt-in; a bare flag means true, and an explicit value is
read as the truthy set (true, yes, 1).`,
		Example: `  # Reconcile plugins only
  satellite sync

  # Full sync including database and uploads
  satellite sync --database --uploads

  # Explicit values; anything outside the truthy set means false
  satellite sync --database=yes --uploads=false`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			environment := config.EnvironmentName()

			tel, err := newTelemetry(version, environment)
			if err != nil {
				return err
			}
			defer shutdownTelemetry(tel)
			log.Logger = tel.Logger

			if metricsListen != "" {
				if err := tel.StartMetricsServer(); err != nil {
					return err
				}
			}

			opts := syncOptions(cmd.Flags(), database, uploads)

			orchestrator, err := buildOrchestrator(tel)
			if err != nil {
				return err
			}

			_, err = orchestrator.Sync(cmd.Context(), environment, opts)
			return err
		},
	}

	cmd.Flags().StringVar(&database, "database", "false", "sync the database (bare flag means true)")
	cmd.Flags().StringVar(&uploads, "uploads", "false", "sync the uploads directory (bare flag means true)")
	cmd.Flags().Lookup("database").NoOptDefVal = "true"
	cmd.Flags().Lookup("uploads").NoOptDefVal = "true"

	return cmd
}

// syncOptions applies explicitly supplied transfer flags over the
// defaults. An absent flag keeps its default; a supplied value is read
// through the truthy set.
func syncOptions(flags *pflag.FlagSet, database, uploads string) engine.Options {
	opts := engine.DefaultOptions()
	if flags.Changed("database") {
		opts.Database = engine.IsTruthy(database)
	}
	if flags.Changed("uploads") {
		opts.Uploads = engine.IsTruthy(uploads)
	}
	return opts
}

// buildOrchestrator wires the full step sequence against the real
// collaborators: the OPA gate, the layered resolver, the OpenSSH
// transport, and WP-CLI on both ends.
func buildOrchestrator(tel *telemetry.Telemetry) (*engine.Orchestrator, error) {
	run := runner.New(tel.Logger)

	gate, err := policy.NewGate(tel.Logger)
	if err != nil {
		return nil, err
	}

	resolver, err := newResolver(run, tel.Logger)
	if err != nil {
		return nil, err
	}

	// With --json the logs are the machine-readable surface; styled
	// progress lines would only pollute stdout.
	var reporter engine.Reporter = report.NewConsole(os.Stdout)
	if jsonOutput {
		reporter = report.NewSilent()
	}

	return engine.NewOrchestrator(engine.Config{
		Gate:     gate,
		Resolver: resolver,
		Transport: func(settings *engine.Settings) (engine.Transport, error) {
			return sshtransport.New(sshtransport.FromSettings(settings), run, tel.Logger)
		},
		Locator:  wpcli.NewLocator(run, tel.Logger),
		Database: dbsync.NewSyncer(run, tel.Logger),
		Uploads:  uploads.NewSyncer(run, tel.Logger),
		Hooks:    hook.NewExecutor(run, tel.Logger),
		Reconciler: func(localToolPath string) engine.Reconciler {
			host := wpcli.NewHost(run, localToolPath, tel.Logger)
			return plugins.NewReconciler(host, tel.Logger)
		},
		Reporter: reporter,
		Tracer:   tel.Tracer,
		Metrics:  tel.Metrics,
		Logger:   tel.Logger,
	}), nil
}

// shutdownTelemetry flushes pending spans with a bounded grace period.
func shutdownTelemetry(tel *telemetry.Telemetry) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := tel.Shutdown(ctx); err != nil {
		tel.Logger.Warn().Err(err).Msg("telemetry shutdown failed")
	}
}
