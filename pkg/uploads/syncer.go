// Package uploads pulls the remote uploads directory into the local
// site with rsync over the shared ssh template. Deletions are applied
// after the transfer so an interrupted run never leaves the local tree
// emptier than it started.
package uploads

import (
	"context"
	"fmt"
	"path"

	"github.com/rs/zerolog"

	"github.com/satellite-sync/satellite/pkg/engine"
	"github.com/satellite-sync/satellite/pkg/runner"
)

// RelativePath is the uploads directory relative to the site root on
// both sides of the transfer.
const RelativePath = "wp-content/uploads"

// Syncer mirrors the remote uploads tree locally. It implements
// engine.UploadsSyncer: transfer failures are logged, never returned.
type Syncer struct {
	runner runner.Runner
	logger zerolog.Logger
}

// NewSyncer creates an uploads syncer over the given process runner.
func NewSyncer(run runner.Runner, logger zerolog.Logger) *Syncer {
	return &Syncer{
		runner: run,
		logger: logger.With().Str("component", "uploads").Logger(),
	}
}

// Command composes the rsync argv for the pull. The transport template
// becomes rsync's remote shell; the target address lives in the source
// argument.
func Command(transport engine.Transport, settings *engine.Settings) []string {
	source := fmt.Sprintf("%s:%s/", settings.Target(), path.Join(settings.SSHPath, RelativePath))

	return []string{
		"rsync", "-az", "--delete-after",
		"-e", runner.ShellJoin(transport.Template()),
		source,
		RelativePath + "/",
	}
}

// Sync runs the transfer to completion.
func (s *Syncer) Sync(ctx context.Context, transport engine.Transport, settings *engine.Settings) {
	argv := Command(transport, settings)
	s.logger.Info().Str("command", runner.ShellJoin(argv)).Msg("Starting uploads sync")

	result, err := s.runner.Run(ctx, argv)
	if err != nil {
		s.logger.Error().Err(err).Msg("Uploads transfer failed to start")
		return
	}
	if result.ExitCode != 0 {
		s.logger.Warn().
			Int("exit_code", result.ExitCode).
			Str("stderr", result.Stderr).
			Msg("Uploads transfer exited non-zero")
		return
	}

	s.logger.Info().Dur("duration", result.Duration).Msg("Uploads sync finished")
}
