package ssh

import (
	"fmt"
	"strconv"

	"github.com/satellite-sync/satellite/pkg/engine"
)

// DefaultBinary is the ssh client executable used when none is configured.
const DefaultBinary = "ssh"

// Config holds the connection parameters for the OpenSSH client
// invocation. Every remote operation of a run goes through the same
// template, so the values here shape all of them.
type Config struct {
	// Host is the remote hostname or IP address
	Host string

	// Port is the SSH port as a digits-only string
	Port string

	// User is the SSH username
	User string

	// Binary is the ssh client executable (default: "ssh")
	Binary string
}

// FromSettings builds a Config from resolved connection settings.
func FromSettings(settings *engine.Settings) Config {
	return Config{
		Host:   settings.SSHHost,
		Port:   settings.SSHPort,
		User:   settings.SSHUser,
		Binary: DefaultBinary,
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Host == "" {
		return fmt.Errorf("host is required")
	}

	if c.User == "" {
		return fmt.Errorf("user is required")
	}

	port, err := strconv.Atoi(c.Port)
	if err != nil {
		return fmt.Errorf("invalid port: %q", c.Port)
	}
	if port <= 0 || port > 65535 {
		return fmt.Errorf("invalid port: %d", port)
	}

	return nil
}

// Target returns the user@host connection target.
func (c *Config) Target() string {
	return c.User + "@" + c.Host
}
