package engine

// DefaultSSHPort is used when no layer configures a port.
const DefaultSSHPort = "22"

// Settings holds the resolved connection and behavior settings for a run.
// The resolver writes every field except the tool paths, which discovery
// fills in exactly once; after that the struct is read-only.
type Settings struct {
	// SSHHost is the remote host name or address.
	SSHHost string `json:"ssh_host" validate:"required"`

	// SSHPort is the remote port as a digits-only string.
	SSHPort string `json:"ssh_port" validate:"required,number"`

	// SSHUser is the remote login user.
	SSHUser string `json:"ssh_user" validate:"required"`

	// SSHPath is the absolute path of the site root on the remote.
	SSHPath string `json:"ssh_path" validate:"required"`

	// ActivatePlugins are the plugins to converge toward active, in
	// configured order. Nil means no activation was requested at all,
	// which is distinct from an empty list.
	ActivatePlugins []string `json:"activate_plugins,omitempty"`

	// DeactivatePlugins are the plugins to converge toward inactive.
	// Nil carries the same meaning as for ActivatePlugins.
	DeactivatePlugins []string `json:"deactivate_plugins,omitempty"`

	// RemoteToolCandidate is an optional operator-configured remote
	// WP-CLI path, probed before the built-in candidates.
	RemoteToolCandidate string `json:"remote_tool_candidate,omitempty"`

	// AfterDatabaseHooks are commands run after a database import.
	AfterDatabaseHooks []string `json:"after_database_hooks,omitempty"`

	// HasProgressViewer is true when pv is available locally.
	HasProgressViewer bool `json:"has_progress_viewer"`

	// LocalToolPath is the discovered local WP-CLI executable. Empty
	// until discovery runs; may stay empty without aborting the run.
	LocalToolPath string `json:"local_tool_path,omitempty"`

	// RemoteToolPath is the discovered remote WP-CLI executable. Empty
	// until discovery runs; remote discovery failing is fatal.
	RemoteToolPath string `json:"remote_tool_path,omitempty"`
}

// Target returns the user@host form used by the ssh template.
func (s *Settings) Target() string {
	return s.SSHUser + "@" + s.SSHHost
}

// Options selects which parts of the sequence a run performs.
type Options struct {
	// Database enables the database transfer step.
	Database bool `json:"database"`

	// Uploads enables the uploads transfer step.
	Uploads bool `json:"uploads"`

	// ActivatePlugins enables the plugin activation step.
	ActivatePlugins bool `json:"activate_plugins"`

	// DeactivatePlugins enables the plugin deactivation step.
	DeactivatePlugins bool `json:"deactivate_plugins"`
}

// DefaultOptions returns the option set used when no flags are given:
// transfers are opt-in, plugin reconciliation is on.
func DefaultOptions() Options {
	return Options{
		Database:          false,
		Uploads:           false,
		ActivatePlugins:   true,
		DeactivatePlugins: true,
	}
}

// IsTruthy reports whether an explicitly supplied option value counts as
// true. Recognized: boolean true, the strings "true" and "yes", the
// integer 1, and the string "1". Everything else is false.
func IsTruthy(value interface{}) bool {
	switch v := value.(type) {
	case bool:
		return v
	case string:
		return v == "true" || v == "yes" || v == "1"
	case int:
		return v == 1
	default:
		return false
	}
}
