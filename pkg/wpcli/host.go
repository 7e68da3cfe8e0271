package wpcli

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/satellite-sync/satellite/pkg/runner"
)

// DefaultTool is the executable used when local discovery found nothing.
// It is left to PATH resolution at invocation time.
const DefaultTool = "wp"

// Host drives the local WP-CLI executable. Plugin state queries report
// their answer through the exit status, so a non-zero status is data
// here, not a failure.
type Host struct {
	runner runner.Runner
	tool   string
	logger zerolog.Logger
}

// NewHost creates a host around the given executable. An empty tool
// falls back to DefaultTool.
func NewHost(run runner.Runner, tool string, logger zerolog.Logger) *Host {
	if tool == "" {
		tool = DefaultTool
	}

	return &Host{
		runner: run,
		tool:   tool,
		logger: logger.With().Str("component", "wpcli").Str("tool", tool).Logger(),
	}
}

// Tool returns the executable this host invokes.
func (h *Host) Tool() string {
	return h.tool
}

// IsInstalled reports whether the named plugin is installed on the
// local site.
func (h *Host) IsInstalled(ctx context.Context, plugin string) (bool, error) {
	return h.query(ctx, "is-installed", plugin)
}

// IsActive reports whether the named plugin is active on the local site.
func (h *Host) IsActive(ctx context.Context, plugin string) (bool, error) {
	return h.query(ctx, "is-active", plugin)
}

// Activate activates the named plugin on the local site.
func (h *Host) Activate(ctx context.Context, plugin string) error {
	return h.change(ctx, "activate", plugin)
}

// Deactivate deactivates the named plugin on the local site.
func (h *Host) Deactivate(ctx context.Context, plugin string) error {
	return h.change(ctx, "deactivate", plugin)
}

// Version returns the local WP-CLI version string.
func (h *Host) Version(ctx context.Context) (string, error) {
	result, err := h.runner.Run(ctx, h.command("cli", "version"))
	if err != nil {
		return "", err
	}
	if result.ExitCode != 0 {
		return "", fmt.Errorf("%s cli version exited with status %d", h.tool, result.ExitCode)
	}

	return strings.TrimSpace(result.Stdout), nil
}

func (h *Host) command(args ...string) []string {
	return append([]string{h.tool}, args...)
}

// query runs a plugin state check whose exit status carries the answer.
func (h *Host) query(ctx context.Context, subcommand, plugin string) (bool, error) {
	result, err := h.runner.Run(ctx, h.command("plugin", subcommand, plugin))
	if err != nil {
		return false, err
	}

	return result.ExitCode == 0, nil
}

// change runs a plugin state mutation, where a non-zero exit status is
// a real failure.
func (h *Host) change(ctx context.Context, subcommand, plugin string) error {
	result, err := h.runner.Run(ctx, h.command("plugin", subcommand, plugin))
	if err != nil {
		return err
	}
	if result.ExitCode != 0 {
		return fmt.Errorf("%s plugin %s %s exited with status %d: %s",
			h.tool, subcommand, plugin, result.ExitCode, strings.TrimSpace(result.Stderr))
	}

	h.logger.Debug().Str("plugin", plugin).Str("action", subcommand).Msg("Plugin state changed")
	return nil
}
