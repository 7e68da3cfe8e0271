// Package ssh runs remote commands through the local OpenSSH client.
//
// Every remote operation of a sync run shares one invocation template,
// ssh -p <port> <user>@<host>, built once from resolved settings. The
// template also serves as the transport argument for tools such as
// rsync that spawn their own ssh processes.
package ssh

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/satellite-sync/satellite/pkg/engine"
	"github.com/satellite-sync/satellite/pkg/runner"
)

const (
	// probeCommand is the remote no-op used to verify connectivity.
	probeCommand = "exit"

	// unreachableExitStatus is the OpenSSH client's own exit status for
	// connection failures. Remote commands failing with any other
	// status still prove the host itself is reachable.
	unreachableExitStatus = 255
)

// Transport executes remote commands by spawning the local ssh binary.
// It implements engine.Transport.
type Transport struct {
	config Config
	runner runner.Runner
	logger zerolog.Logger
}

// New creates a transport from the given configuration.
func New(config Config, run runner.Runner, logger zerolog.Logger) (*Transport, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid transport config: %w", err)
	}
	if config.Binary == "" {
		config.Binary = DefaultBinary
	}

	return &Transport{
		config: config,
		runner: run,
		logger: logger.With().
			Str("component", "transport").
			Str("target", config.Target()).
			Logger(),
	}, nil
}

// Template returns the client invocation without target or remote
// command: ssh -p <port>. Tools such as rsync take this as their
// remote-shell argument and address the host themselves.
func (t *Transport) Template() []string {
	return []string{t.config.Binary, "-p", t.config.Port}
}

// Command composes the full local argv that runs the given command line
// on the remote host: ssh -p <port> <user>@<host> <command>.
func (t *Transport) Command(remote string) []string {
	return append(t.Template(), t.config.Target(), remote)
}

// Probe verifies the remote host accepts connections by running a no-op
// remote command. Only the ssh client's own connection-failure status
// counts as unreachable; any other exit status means the connection
// worked.
func (t *Transport) Probe(ctx context.Context) error {
	result, err := t.runner.Run(ctx, t.Command(probeCommand))
	if err != nil {
		return engine.NewInternalError("failed to start ssh client", err).WithStep(engine.StepProbeRemote)
	}

	if result.ExitCode == unreachableExitStatus {
		t.logger.Error().
			Int("exit_code", result.ExitCode).
			Str("stderr", result.Stderr).
			Msg("Remote host unreachable")
		return engine.NewRemoteUnreachableError(
			t.config.Target(),
			fmt.Errorf("ssh exited with status %d", result.ExitCode),
		).WithStep(engine.StepProbeRemote)
	}

	t.logger.Debug().Int("exit_code", result.ExitCode).Msg("Remote host reachable")
	return nil
}

// Run executes a command line on the remote host and captures its
// output. A non-zero remote exit status is reported via the result,
// not the error.
func (t *Transport) Run(ctx context.Context, remote string) (*runner.Result, error) {
	return t.runner.Run(ctx, t.Command(remote))
}

// FileExists reports whether a regular file exists on the remote host.
// Transport failures count as absence.
func (t *Transport) FileExists(ctx context.Context, path string) bool {
	remote := "test -f " + runner.ShellQuote(path)
	result, err := t.runner.Run(ctx, t.Command(remote))
	if err != nil {
		t.logger.Warn().Err(err).Str("path", path).Msg("Remote file check failed to run")
		return false
	}

	return result.ExitCode == 0
}
