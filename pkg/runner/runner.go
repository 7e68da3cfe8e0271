// Package runner provides local process execution for satellite.
//
// Every external invocation in a sync run goes through a Runner: tool
// discovery probes, the ssh transport, WP-CLI calls, and the composed
// database pipeline. Keeping the surface behind an interface lets the
// orchestration packages run against a recording fake in tests without
// spawning a single process.
package runner

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// DefaultShell interprets composed pipelines and hook commands.
const DefaultShell = "/bin/sh"

// Result captures the outcome of a finished process.
type Result struct {
	// ExitCode is the process exit status. A non-zero value is data,
	// not an error: callers decide what a given status means.
	ExitCode int
	// Stdout holds captured standard output for captured runs.
	Stdout string
	// Stderr holds captured standard error for captured runs.
	Stderr string
	// Duration is the wall-clock run time.
	Duration time.Duration
}

// Runner executes local processes.
type Runner interface {
	// Run executes argv directly (no shell) and captures output.
	// A non-zero exit status is reported via Result.ExitCode with a
	// nil error; the error return is reserved for spawn failures.
	Run(ctx context.Context, argv []string) (*Result, error)
	// RunShell executes a command line through the shell with output
	// streamed to the runner's writers rather than captured.
	RunShell(ctx context.Context, command string) (*Result, error)
	// Pipe composes the given stages into a single shell pipeline
	// (stage1 | stage2 | ...) and executes it. Output streams to the
	// runner's writers so progress filters stay visible.
	Pipe(ctx context.Context, stages [][]string) (*Result, error)
	// LookPath reports whether name resolves to an executable on PATH.
	LookPath(name string) (string, bool)
}

// ExecRunner is the os/exec backed Runner used outside of tests.
type ExecRunner struct {
	shell  string
	stdout io.Writer
	stderr io.Writer
	logger zerolog.Logger

	// commandContext allows substituting process creation in tests.
	commandContext func(ctx context.Context, name string, arg ...string) *exec.Cmd
	lookPath       func(name string) (string, error)
}

// Option configures an ExecRunner.
type Option func(*ExecRunner)

// WithShell overrides the shell used for RunShell and Pipe.
func WithShell(shell string) Option {
	return func(r *ExecRunner) { r.shell = shell }
}

// WithStreams overrides the writers streamed runs attach to.
func WithStreams(stdout, stderr io.Writer) Option {
	return func(r *ExecRunner) {
		r.stdout = stdout
		r.stderr = stderr
	}
}

// WithCommandContext substitutes process creation, for tests.
func WithCommandContext(fn func(ctx context.Context, name string, arg ...string) *exec.Cmd) Option {
	return func(r *ExecRunner) { r.commandContext = fn }
}

// WithLookPath substitutes PATH resolution, for tests.
func WithLookPath(fn func(name string) (string, error)) Option {
	return func(r *ExecRunner) { r.lookPath = fn }
}

// New creates an ExecRunner with the given logger and options.
func New(logger zerolog.Logger, opts ...Option) *ExecRunner {
	r := &ExecRunner{
		shell:          DefaultShell,
		stdout:         os.Stdout,
		stderr:         os.Stderr,
		logger:         logger.With().Str("component", "runner").Logger(),
		commandContext: exec.CommandContext,
		lookPath:       exec.LookPath,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes argv directly and captures its output.
func (r *ExecRunner) Run(ctx context.Context, argv []string) (*Result, error) {
	if len(argv) == 0 {
		return nil, fmt.Errorf("empty command")
	}

	cmd := r.commandContext(ctx, argv[0], argv[1:]...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	r.logger.Debug().Strs("argv", argv).Msg("executing command")

	start := time.Now()
	err := cmd.Run()
	result := &Result{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(start),
	}
	return r.finish(argv[0], result, err)
}

// RunShell executes a command line through the shell, streaming output.
func (r *ExecRunner) RunShell(ctx context.Context, command string) (*Result, error) {
	if command == "" {
		return nil, fmt.Errorf("empty command")
	}

	cmd := r.commandContext(ctx, r.shell, "-c", command)
	cmd.Stdout = r.stdout
	cmd.Stderr = r.stderr

	r.logger.Debug().Str("command", command).Msg("executing shell command")

	start := time.Now()
	err := cmd.Run()
	result := &Result{Duration: time.Since(start)}
	return r.finish(command, result, err)
}

// Pipe composes stages into one shell pipeline and executes it.
func (r *ExecRunner) Pipe(ctx context.Context, stages [][]string) (*Result, error) {
	line, err := PipelineCommand(stages)
	if err != nil {
		return nil, err
	}
	return r.RunShell(ctx, line)
}

// LookPath reports whether name resolves to an executable on PATH.
func (r *ExecRunner) LookPath(name string) (string, bool) {
	path, err := r.lookPath(name)
	if err != nil {
		return "", false
	}
	return path, true
}

func (r *ExecRunner) finish(what string, result *Result, err error) (*Result, error) {
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			result.ExitCode = exitErr.ExitCode()
			return result, nil
		}
		return nil, fmt.Errorf("failed to execute %q: %w", what, err)
	}
	result.ExitCode = 0
	return result, nil
}

// PipelineCommand renders stages as a single shell pipeline. Each stage
// is an argv whose elements are quoted individually, so a remote command
// handed to ssh as one argument survives as one argument.
func PipelineCommand(stages [][]string) (string, error) {
	if len(stages) == 0 {
		return "", fmt.Errorf("empty pipeline")
	}
	parts := make([]string, 0, len(stages))
	for i, stage := range stages {
		if len(stage) == 0 {
			return "", fmt.Errorf("pipeline stage %d is empty", i)
		}
		parts = append(parts, ShellJoin(stage))
	}
	return strings.Join(parts, " | "), nil
}

// ShellJoin renders argv as a shell command line, quoting each element.
func ShellJoin(argv []string) string {
	quoted := make([]string, len(argv))
	for i, arg := range argv {
		quoted[i] = ShellQuote(arg)
	}
	return strings.Join(quoted, " ")
}

const safeArgChars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789_-./:=@%+,"

// ShellQuote quotes a single argument for a POSIX shell. Arguments made
// of safe characters pass through unchanged.
func ShellQuote(arg string) string {
	if arg == "" {
		return "''"
	}
	safe := true
	for _, c := range arg {
		if !strings.ContainsRune(safeArgChars, c) {
			safe = false
			break
		}
	}
	if safe {
		return arg
	}
	return "'" + strings.ReplaceAll(arg, "'", `'\''`) + "'"
}
