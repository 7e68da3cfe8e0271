// Package plugins converges WordPress plugins toward a desired
// activation state. Each plugin is handled on its own: state checks
// decide whether a change is needed, and anything short of a change is
// a warning rather than a failure, so one bad plugin never blocks the
// rest of the list.
package plugins

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/satellite-sync/satellite/pkg/engine"
)

// Host is the plugin command surface the reconciler drives. A WP-CLI
// host satisfies this.
type Host interface {
	// IsInstalled reports whether the plugin exists on the site.
	IsInstalled(ctx context.Context, plugin string) (bool, error)

	// IsActive reports whether the plugin is currently active.
	IsActive(ctx context.Context, plugin string) (bool, error)

	// Activate turns the plugin on.
	Activate(ctx context.Context, plugin string) error

	// Deactivate turns the plugin off.
	Deactivate(ctx context.Context, plugin string) error
}

// Reconciler converges named plugins toward an activation state. It
// implements engine.Reconciler.
type Reconciler struct {
	host   Host
	logger zerolog.Logger
}

// NewReconciler creates a reconciler over the given plugin host.
func NewReconciler(host Host, logger zerolog.Logger) *Reconciler {
	return &Reconciler{
		host:   host,
		logger: logger.With().Str("component", "plugins").Logger(),
	}
}

// Activate converges each named plugin toward the active state, in
// list order.
func (r *Reconciler) Activate(ctx context.Context, list []string) engine.ReconcileOutcome {
	return r.converge(ctx, list, "activate", "active", true)
}

// Deactivate converges each named plugin toward the inactive state, in
// list order.
func (r *Reconciler) Deactivate(ctx context.Context, list []string) engine.ReconcileOutcome {
	return r.converge(ctx, list, "deactivate", "inactive", false)
}

func (r *Reconciler) converge(ctx context.Context, list []string, action, state string, wantActive bool) engine.ReconcileOutcome {
	var outcome engine.ReconcileOutcome

	for _, plugin := range list {
		warning, changed := r.convergeOne(ctx, plugin, action, state, wantActive)
		if warning != "" {
			r.logger.Warn().Str("plugin", plugin).Str("action", action).Msg(warning)
			outcome.Warnings = append(outcome.Warnings, warning)
		}
		if changed {
			r.logger.Info().Str("plugin", plugin).Str("action", action).Msg("Plugin converged")
			outcome.Changed++
		}
	}

	return outcome
}

// convergeOne moves a single plugin toward the desired state. It
// returns a warning message when the plugin could not be changed, and
// whether a change actually happened.
func (r *Reconciler) convergeOne(ctx context.Context, plugin, action, state string, wantActive bool) (string, bool) {
	installed, err := r.host.IsInstalled(ctx, plugin)
	if err != nil {
		return fmt.Sprintf("failed to check plugin %q: %v", plugin, err), false
	}
	if !installed {
		return engine.NewPluginNotAvailableError(plugin, action).Message, false
	}

	active, err := r.host.IsActive(ctx, plugin)
	if err != nil {
		return fmt.Sprintf("failed to check plugin %q: %v", plugin, err), false
	}
	if active == wantActive {
		return engine.NewPluginStateUnchangedError(plugin, state).Message, false
	}

	if wantActive {
		err = r.host.Activate(ctx, plugin)
	} else {
		err = r.host.Deactivate(ctx, plugin)
	}
	if err != nil {
		return fmt.Sprintf("failed to %s plugin %q: %v", action, plugin, err), false
	}

	return "", true
}
