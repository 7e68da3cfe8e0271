// Package dbsync streams the remote database into the local site as a
// single composed shell pipeline. The export is compressed on the
// remote, streamed over the transport, and decompressed straight into
// the local import, so no intermediate file is written on either side.
package dbsync

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/satellite-sync/satellite/pkg/engine"
	"github.com/satellite-sync/satellite/pkg/runner"
	"github.com/satellite-sync/satellite/pkg/wpcli"
)

// Syncer runs the database pipeline. It implements
// engine.DatabaseSyncer: pipeline failures are logged, never returned,
// since the orchestrator has already verified the remote side when
// this runs.
type Syncer struct {
	runner runner.Runner
	logger zerolog.Logger
}

// NewSyncer creates a database syncer over the given process runner.
func NewSyncer(run runner.Runner, logger zerolog.Logger) *Syncer {
	return &Syncer{
		runner: run,
		logger: logger.With().Str("component", "dbsync").Logger(),
	}
}

// Pipeline composes the argv stages of the transfer: remote export and
// compression as one transport command, an optional local progress
// meter, then decompression feeding the local import.
func Pipeline(transport engine.Transport, settings *engine.Settings) [][]string {
	remote := fmt.Sprintf("cd %s && %s db export --single-transaction --quiet - | gzip -cf",
		runner.ShellQuote(settings.SSHPath),
		runner.ShellQuote(settings.RemoteToolPath))

	stages := [][]string{transport.Command(remote)}
	if settings.HasProgressViewer {
		stages = append(stages, []string{"pv", "-b"})
	}

	localTool := settings.LocalToolPath
	if localTool == "" {
		localTool = wpcli.DefaultTool
	}
	stages = append(stages,
		[]string{"gunzip", "-c"},
		[]string{localTool, "db", "import", "--quiet", "-"},
	)

	return stages
}

// Sync runs the pipeline to completion, streaming progress to the
// runner's output writers.
func (s *Syncer) Sync(ctx context.Context, transport engine.Transport, settings *engine.Settings) {
	stages := Pipeline(transport, settings)
	line, err := runner.PipelineCommand(stages)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to compose database pipeline")
		return
	}

	s.logger.Info().Str("pipeline", line).Msg("Starting database sync")

	result, err := s.runner.Pipe(ctx, stages)
	if err != nil {
		s.logger.Error().Err(err).Msg("Database pipeline failed to start")
		return
	}
	if result.ExitCode != 0 {
		s.logger.Warn().
			Int("exit_code", result.ExitCode).
			Msg("Database pipeline exited non-zero")
		return
	}

	s.logger.Info().Dur("duration", result.Duration).Msg("Database sync finished")
}
