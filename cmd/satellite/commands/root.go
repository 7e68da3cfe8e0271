package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/satellite-sync/satellite/pkg/config"
	"github.com/satellite-sync/satellite/pkg/runner"
	"github.com/satellite-sync/satellite/pkg/telemetry"
)

var (
	// Global flags
	configPath    string
	verbose       bool
	jsonOutput    bool
	traceExporter string
	metricsListen string
)

// Execute runs the root command
func Execute(ctx context.Context, version, commit, buildDate string) error {
	rootCmd := newRootCommand(version, commit, buildDate)
	return rootCmd.ExecuteContext(ctx)
}

func newRootCommand(version, commit, buildDate string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "satellite",
		Short: "Satellite - WordPress environment sync",
		Long: `Satellite pulls a remote WordPress environment into the local one
in a single one-shot run.

A sync run, in order:
  - Refuses to run outside development, local, or staging
  - Resolves connection settings from SATELLITE_* variables and satellite.yml
  - Probes the remote host and locates WP-CLI on both ends
  - Streams the remote database dump straight into the local import (--database)
  - Pulls the uploads directory via rsync (--uploads)
  - Activates and deactivates plugins to match the configured lists

Nothing is persisted between runs and nothing on the remote is modified.`,
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildDate),

		// Fatal conditions are reported by the run itself; cobra should
		// not repeat them or dump usage on top.
		SilenceUsage:  true,
		SilenceErrors: true,

		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Optional .env preload keeps SATELLITE_* values next to
			// the project; a missing file is not an error.
			_ = godotenv.Load()
		},
	}

	// Persistent flags available to all commands
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "settings file path (default satellite.yml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "log in JSON format")
	rootCmd.PersistentFlags().StringVar(&traceExporter, "trace-exporter", "none", "trace exporter (none, stdout, otlp)")
	rootCmd.PersistentFlags().StringVar(&metricsListen, "metrics-listen", "", "Prometheus listen address (empty disables metrics)")

	// Add subcommands
	rootCmd.AddCommand(newSyncCommand(version))
	rootCmd.AddCommand(newDoctorCommand(version))
	rootCmd.AddCommand(newInitCommand())

	return rootCmd
}

// newTelemetry builds the observability stack from the persistent flags
// and replaces the bootstrap global logger with the configured one.
func newTelemetry(version, environment string) (*telemetry.Telemetry, error) {
	cfg := telemetry.DefaultConfig()
	cfg.ServiceVersion = version
	cfg.Environment = environment
	cfg.Logging.Level = logLevel()
	if jsonOutput {
		cfg.Logging.Format = "json"
	}

	if traceExporter != "" && traceExporter != "none" {
		cfg.Tracing.Enabled = true
		cfg.Tracing.Exporter = traceExporter
		cfg.Tracing.Endpoint = otlpEndpoint()
	}

	if metricsListen != "" {
		cfg.Metrics.Enabled = true
		cfg.Metrics.ListenAddress = metricsListen
	}

	tel, err := telemetry.New(cfg)
	if err != nil {
		return nil, err
	}
	zerolog.SetGlobalLevel(telemetry.ParseLevel(cfg.Logging.Level))
	return tel, nil
}

// logLevel resolves the effective log level: --verbose wins, then
// LOG_LEVEL, then info. Unknown names degrade to info.
func logLevel() string {
	if verbose {
		return "debug"
	}
	return telemetry.ParseLevel(os.Getenv("LOG_LEVEL")).String()
}

// otlpEndpoint resolves the OTLP collector endpoint from the standard
// environment variable, defaulting to a local collector.
func otlpEndpoint() string {
	if endpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"); endpoint != "" {
		return endpoint
	}
	return "localhost:4317"
}

// newResolver builds the layered settings resolver: environment
// variables first, then the settings file. A file that exists but fails
// schema validation is a startup error.
func newResolver(run runner.Runner, logger zerolog.Logger) (*config.Resolver, error) {
	path := configPath
	if path == "" {
		path = config.DefaultConfigFile
	}

	fileSource, err := config.NewFileSource(path)
	if err != nil {
		return nil, err
	}

	source := config.NewLayered(config.NewEnvSource(), fileSource)
	return config.NewResolver(source, run, logger), nil
}
