package commands

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/satellite-sync/satellite/pkg/config"
)

// starterSettings is the commented satellite.yml template written by
// init. Every key is commented out so the file is inert until edited;
// environment variables beat the file layer for every key.
const starterSettings = `# Satellite settings
#
# Every key here can also be set through the environment as
# SATELLITE_<KEY> (upper-cased), which takes precedence over this file.
# The runtime environment itself comes from SATELLITE_ENV (or
# WP_ENVIRONMENT_TYPE); only development, local, and staging may
# receive a sync.

# Remote connection (required for a sync)
#ssh_host: staging.example.com
#ssh_port: 22
#ssh_user: deploy

# Absolute path of the WordPress site root on the remote
#ssh_path: /var/www/html

# Optional remote WP-CLI location, probed before the built-in
# candidates /usr/local/bin/wp and /usr/bin/wp
#remote_tool_path: /opt/wp-cli/wp

# Plugins to activate after a sync, in order (comma or space separated
# when given as a string)
#sync_activate_plugins:
#  - query-monitor
#  - debug-bar

# Plugins to deactivate after a sync
#sync_deactivate_plugins:
#  - wp-super-cache
#  - autoptimize

# Commands run through the local shell after a database import
#hooks_after_database:
#  - wp search-replace 'https://example.com' 'http://example.local'
#  - wp cache flush
`

func newInitCommand() *cobra.Command {
	var (
		force bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a starter settings file",
		Long: `Write a commented starter satellite.yml into the current directory.

The generated file documents every supported key and its environment
variable override. All keys start commented out, so the file changes
nothing until edited.`,
		Example: `  # Create ./satellite.yml
  satellite init

  # Create the file somewhere else
  satellite init --config ./staging/satellite.yml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := configPath
			if path == "" {
				path = config.DefaultConfigFile
			}

			log.Info().Str("path", path).Msg("Writing starter settings file")

			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}

			if err := os.WriteFile(path, []byte(starterSettings), 0644); err != nil {
				return fmt.Errorf("failed to write %s: %w", path, err)
			}

			fmt.Printf("✓ Created settings file: %s\n\n", path)
			fmt.Printf("Next steps:\n")
			fmt.Printf("  1. Fill in the ssh_* settings for your remote site\n")
			fmt.Printf("  2. Mark this machine as syncable:\n")
			fmt.Printf("     export SATELLITE_ENV=development\n")
			fmt.Printf("  3. Check the preconditions:\n")
			fmt.Printf("     satellite doctor\n")
			fmt.Printf("  4. Run a sync:\n")
			fmt.Printf("     satellite sync --database\n\n")

			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing settings file")

	return cmd
}
