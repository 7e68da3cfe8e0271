// Package hook runs operator-configured shell commands at defined
// points of a sync run. Hooks are best-effort: a failing command logs
// a warning and the run carries on, since hooks typically do local
// cleanup such as search-replace or cache flushes that must not stop
// the sync itself.
package hook

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/satellite-sync/satellite/pkg/runner"
)

// Executor runs hook commands sequentially through the local shell.
// It implements engine.HookRunner.
type Executor struct {
	runner runner.Runner
	logger zerolog.Logger
}

// NewExecutor creates a hook executor over the given process runner.
func NewExecutor(run runner.Runner, logger zerolog.Logger) *Executor {
	return &Executor{
		runner: run,
		logger: logger.With().Str("component", "hook").Logger(),
	}
}

// Run executes the commands in order. Blank entries are skipped;
// failures are logged and never stop the remaining hooks.
func (e *Executor) Run(ctx context.Context, commands []string) {
	for i, command := range commands {
		if strings.TrimSpace(command) == "" {
			continue
		}

		log := e.logger.With().Int("hook", i+1).Str("command", command).Logger()
		log.Info().Msg("Running hook")

		result, err := e.runner.RunShell(ctx, command)
		if err != nil {
			log.Warn().Err(err).Msg("Hook failed to start")
			continue
		}
		if result.ExitCode != 0 {
			log.Warn().Int("exit_code", result.ExitCode).Msg("Hook exited non-zero")
			continue
		}

		log.Debug().Dur("duration", result.Duration).Msg("Hook finished")
	}
}
