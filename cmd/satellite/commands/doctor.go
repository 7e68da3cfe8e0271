package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/satellite-sync/satellite/pkg/config"
	"github.com/satellite-sync/satellite/pkg/engine"
	"github.com/satellite-sync/satellite/pkg/policy"
	"github.com/satellite-sync/satellite/pkg/report"
	"github.com/satellite-sync/satellite/pkg/runner"
	sshtransport "github.com/satellite-sync/satellite/pkg/transports/ssh"
	"github.com/satellite-sync/satellite/pkg/wpcli"
)

func newDoctorCommand(version string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Diagnose the sync preconditions",
		Long: `Diagnose whether a sync could run from this machine.

The checks mirror the sync sequence without transferring anything:
  - Environment gate for the current SATELLITE_ENV
  - Settings resolution across environment variables and satellite.yml
  - Local WP-CLI discovery
  - Remote host reachability over ssh
  - Remote WP-CLI discovery

Each check is reported individually; doctor keeps going past failures
where later checks still make sense.`,
		Example: `  # Diagnose with settings from the default locations
  satellite doctor

  # Diagnose against an explicit settings file
  satellite doctor --config ./staging/satellite.yml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			environment := config.EnvironmentName()

			tel, err := newTelemetry(version, environment)
			if err != nil {
				return err
			}
			defer shutdownTelemetry(tel)
			log.Logger = tel.Logger

			ctx := cmd.Context()
			console := report.NewConsole(os.Stdout)
			run := runner.New(tel.Logger)
			failures := 0

			// Environment gate
			gate, err := policy.NewGate(tel.Logger)
			if err != nil {
				return err
			}
			decision, err := gate.Explain(ctx, environment)
			if err != nil {
				console.Errorf("environment gate: %s", errorText(err))
				failures++
			} else if decision.Allowed {
				console.Successf("environment %q may receive a sync", environment)
			} else {
				for _, violation := range decision.Violations {
					console.Errorf("%s", violation.Message)
				}
				failures++
			}

			// Settings resolution
			resolver, err := newResolver(run, tel.Logger)
			if err != nil {
				console.Errorf("settings file: %v", err)
				return fmt.Errorf("doctor found %d problems", failures+1)
			}
			settings, err := resolver.Resolve(ctx)
			if err != nil {
				console.Errorf("%s", errorText(err))
				return fmt.Errorf("doctor found %d problems", failures+1)
			}
			console.Successf("settings resolved: %s port %s, site root %s",
				settings.Target(), settings.SSHPort, settings.SSHPath)

			// Local tooling
			locator := wpcli.NewLocator(run, tel.Logger)
			if local := locator.LocateLocal(ctx); local != "" {
				console.Successf("local WP-CLI: %s", local)
			} else {
				console.Warnf(`no local WP-CLI executable found; a sync would rely on "wp" from PATH`)
			}
			if settings.HasProgressViewer {
				console.Info("progress viewer (pv) available for database transfers")
			}

			// Remote reachability and tooling
			transport, err := sshtransport.New(sshtransport.FromSettings(settings), run, tel.Logger)
			if err != nil {
				console.Errorf("ssh transport: %v", err)
				return fmt.Errorf("doctor found %d problems", failures+1)
			}
			if err := transport.Probe(ctx); err != nil {
				console.Errorf("%s", errorText(err))
				failures++
			} else {
				console.Successf("%s is reachable", settings.Target())

				remote, err := locator.LocateRemote(ctx, transport, settings)
				if err != nil {
					console.Errorf("%s", errorText(err))
					failures++
				} else {
					console.Successf("remote WP-CLI: %s", remote)
				}
			}

			if failures > 0 {
				return fmt.Errorf("doctor found %d problems", failures)
			}
			console.Successf("all checks passed")
			return nil
		},
	}

	return cmd
}

// errorText prefers the classified message for operator-facing output.
func errorText(err error) string {
	var syncErr *engine.SyncError
	if errors.As(err, &syncErr) {
		return syncErr.Message
	}
	return err.Error()
}
