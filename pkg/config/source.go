package config

import (
	"errors"
	"os"
	"strings"
)

// Canonical setting keys shared by every layer. The environment layer
// maps a key to SATELLITE_<KEY> upper-cased; the file layer uses the key
// verbatim.
const (
	KeySSHHost           = "ssh_host"
	KeySSHPort           = "ssh_port"
	KeySSHUser           = "ssh_user"
	KeySSHPath           = "ssh_path"
	KeyActivatePlugins   = "sync_activate_plugins"
	KeyDeactivatePlugins = "sync_deactivate_plugins"
	KeyRemoteToolPath    = "remote_tool_path"
	KeyAfterDatabase     = "hooks_after_database"
)

// EnvPrefix namespaces every satellite environment variable.
const EnvPrefix = "SATELLITE_"

// EnvEnvironment names the runtime environment discriminator variable.
const EnvEnvironment = EnvPrefix + "ENV"

// DefaultConfigFile is the file layer read when --config is not given.
const DefaultConfigFile = "satellite.yml"

// ErrKeyUndefined reports that a layer does not define a key at all.
// It is distinct from a key defined with an empty value, which layers
// treat as undefined so that lookup falls through to the next layer.
var ErrKeyUndefined = errors.New("configuration key not defined")

// Source is the lookup capability implemented by each configuration layer.
type Source interface {
	// Lookup returns the raw string value for a canonical key.
	// Returns ErrKeyUndefined when the layer does not define the key.
	Lookup(key string) (string, error)

	// LookupList returns the raw list value for a canonical key.
	// Returns ErrKeyUndefined when the layer does not define the key.
	LookupList(key string) ([]string, error)
}

// EnvSource reads settings from SATELLITE_* environment variables.
type EnvSource struct {
	// lookupEnv allows substituting the environment in tests.
	lookupEnv func(name string) (string, bool)
}

// NewEnvSource creates an EnvSource backed by the process environment.
func NewEnvSource() *EnvSource {
	return &EnvSource{lookupEnv: os.LookupEnv}
}

// NewEnvSourceFrom creates an EnvSource backed by the given map, for tests.
func NewEnvSourceFrom(env map[string]string) *EnvSource {
	return &EnvSource{lookupEnv: func(name string) (string, bool) {
		v, ok := env[name]
		return v, ok
	}}
}

// Lookup returns the value of SATELLITE_<KEY>.
func (s *EnvSource) Lookup(key string) (string, error) {
	v, ok := s.lookupEnv(EnvName(key))
	if !ok {
		return "", ErrKeyUndefined
	}
	return v, nil
}

// LookupList returns the value of SATELLITE_<KEY> split on semicolons.
// The semicolon delimiter keeps commands with spaces intact.
func (s *EnvSource) LookupList(key string) ([]string, error) {
	raw, err := s.Lookup(key)
	if err != nil {
		return nil, err
	}
	var items []string
	for _, part := range strings.Split(raw, ";") {
		if part = strings.TrimSpace(part); part != "" {
			items = append(items, part)
		}
	}
	return items, nil
}

// EnvName maps a canonical key to its environment variable name.
func EnvName(key string) string {
	return EnvPrefix + strings.ToUpper(key)
}

// Layered composes sources with earlier sources taking precedence.
// A layer contributes a value only when it defines the key with a
// non-empty value; otherwise lookup falls through to the next layer.
type Layered struct {
	sources []Source
}

// NewLayered creates a composite source. Earlier sources win.
func NewLayered(sources ...Source) *Layered {
	return &Layered{sources: sources}
}

// Lookup returns the first non-empty value any layer defines.
func (l *Layered) Lookup(key string) (string, error) {
	for _, src := range l.sources {
		v, err := src.Lookup(key)
		if errors.Is(err, ErrKeyUndefined) {
			continue
		}
		if err != nil {
			return "", err
		}
		if v == "" {
			continue
		}
		return v, nil
	}
	return "", ErrKeyUndefined
}

// LookupList returns the first non-empty list any layer defines.
func (l *Layered) LookupList(key string) ([]string, error) {
	for _, src := range l.sources {
		items, err := src.LookupList(key)
		if errors.Is(err, ErrKeyUndefined) {
			continue
		}
		if err != nil {
			return nil, err
		}
		if len(items) == 0 {
			continue
		}
		return items, nil
	}
	return nil, ErrKeyUndefined
}

// EnvironmentName returns the runtime environment discriminator: the
// SATELLITE_ENV variable, falling back to WP_ENVIRONMENT_TYPE, and
// finally to "production" so an unconfigured machine fails the gate.
func EnvironmentName() string {
	if v := os.Getenv(EnvEnvironment); v != "" {
		return v
	}
	if v := os.Getenv("WP_ENVIRONMENT_TYPE"); v != "" {
		return v
	}
	return "production"
}
