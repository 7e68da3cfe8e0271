// Package wpcli discovers and drives WP-CLI executables. Discovery
// probes a fixed candidate order on each side of the transport; the
// host type wraps the local executable for plugin state commands.
package wpcli

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/satellite-sync/satellite/pkg/engine"
	"github.com/satellite-sync/satellite/pkg/runner"
)

// LocalCandidates are the executable names probed on the local PATH,
// in order. The first hit wins.
var LocalCandidates = []string{"wp", "wp-cli", "wp-cli.phar"}

// RemoteCandidates are the absolute paths probed on the remote host
// when the operator has not configured one.
var RemoteCandidates = []string{"/usr/local/bin/wp", "/usr/bin/wp"}

// Locator probes both ends of the transport for a WP-CLI executable.
// It implements engine.Locator.
type Locator struct {
	runner runner.Runner
	logger zerolog.Logger
}

// NewLocator creates a locator using the given process runner.
func NewLocator(run runner.Runner, logger zerolog.Logger) *Locator {
	return &Locator{
		runner: run,
		logger: logger.With().Str("component", "wpcli").Logger(),
	}
}

// LocateLocal probes the local candidates in order and returns the
// resolved path of the first one on PATH. The empty string means no
// candidate resolved, which callers treat as non-fatal.
func (l *Locator) LocateLocal(ctx context.Context) string {
	for _, candidate := range LocalCandidates {
		if path, ok := l.runner.LookPath(candidate); ok {
			l.logger.Debug().Str("path", path).Msg("Located local WP-CLI")
			return path
		}
	}

	l.logger.Warn().Msg("No local WP-CLI executable found")
	return ""
}

// LocateRemote probes the remote candidates in order through the
// transport and returns the first path that exists as a regular file.
// An operator-configured candidate is probed before the built-in ones.
// No candidate existing aborts the run.
func (l *Locator) LocateRemote(ctx context.Context, transport engine.Transport, settings *engine.Settings) (string, error) {
	candidates := make([]string, 0, len(RemoteCandidates)+1)
	if settings.RemoteToolCandidate != "" {
		candidates = append(candidates, settings.RemoteToolCandidate)
	}
	candidates = append(candidates, RemoteCandidates...)

	for _, candidate := range candidates {
		if transport.FileExists(ctx, candidate) {
			l.logger.Debug().Str("path", candidate).Msg("Located remote WP-CLI")
			return candidate, nil
		}
	}

	return "", engine.NewRemoteToolNotFoundError(candidates).WithStep(engine.StepLocateRemoteTool)
}
