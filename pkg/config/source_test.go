package config

import (
	"errors"
	"testing"
)

func TestEnvName(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{KeySSHHost, "SATELLITE_SSH_HOST"},
		{KeySSHPort, "SATELLITE_SSH_PORT"},
		{KeyActivatePlugins, "SATELLITE_SYNC_ACTIVATE_PLUGINS"},
		{KeyAfterDatabase, "SATELLITE_HOOKS_AFTER_DATABASE"},
	}

	for _, tt := range tests {
		if got := EnvName(tt.key); got != tt.want {
			t.Errorf("EnvName(%s) = %q, want %q", tt.key, got, tt.want)
		}
	}
}

func TestEnvSourceLookup(t *testing.T) {
	src := NewEnvSourceFrom(map[string]string{
		"SATELLITE_SSH_HOST": "db.example.com",
		"SATELLITE_SSH_USER": "",
	})

	if v, err := src.Lookup(KeySSHHost); err != nil || v != "db.example.com" {
		t.Errorf("Lookup(ssh_host) = %q, %v; want db.example.com, nil", v, err)
	}

	// Defined-but-empty is reported as defined; layering decides the rest.
	if v, err := src.Lookup(KeySSHUser); err != nil || v != "" {
		t.Errorf("Lookup(ssh_user) = %q, %v; want empty, nil", v, err)
	}

	if _, err := src.Lookup(KeySSHPath); !errors.Is(err, ErrKeyUndefined) {
		t.Errorf("Lookup(ssh_path) error = %v, want ErrKeyUndefined", err)
	}
}

func TestEnvSourceLookupList(t *testing.T) {
	src := NewEnvSourceFrom(map[string]string{
		"SATELLITE_HOOKS_AFTER_DATABASE": "wp cache flush ; wp rewrite flush;",
	})

	items, err := src.LookupList(KeyAfterDatabase)
	if err != nil {
		t.Fatalf("LookupList() error = %v", err)
	}
	want := []string{"wp cache flush", "wp rewrite flush"}
	if len(items) != len(want) {
		t.Fatalf("LookupList() = %v, want %v", items, want)
	}
	for i := range want {
		if items[i] != want[i] {
			t.Errorf("item %d = %q, want %q", i, items[i], want[i])
		}
	}
}

func TestLayeredPrecedence(t *testing.T) {
	env := NewEnvSourceFrom(map[string]string{
		"SATELLITE_SSH_HOST": "env.example.com",
		"SATELLITE_SSH_USER": "",
	})
	file := NewEnvSourceFrom(map[string]string{
		"SATELLITE_SSH_HOST": "file.example.com",
		"SATELLITE_SSH_USER": "deploy",
	})
	layered := NewLayered(env, file)

	// The first layer wins when it has a non-empty value.
	if v, _ := layered.Lookup(KeySSHHost); v != "env.example.com" {
		t.Errorf("Lookup(ssh_host) = %q, want env.example.com", v)
	}

	// An empty first-layer value falls through.
	if v, _ := layered.Lookup(KeySSHUser); v != "deploy" {
		t.Errorf("Lookup(ssh_user) = %q, want deploy", v)
	}

	// Undefined everywhere surfaces ErrKeyUndefined.
	if _, err := layered.Lookup(KeySSHPath); !errors.Is(err, ErrKeyUndefined) {
		t.Errorf("Lookup(ssh_path) error = %v, want ErrKeyUndefined", err)
	}
}

func TestEnvironmentName(t *testing.T) {
	t.Run("satellite env wins", func(t *testing.T) {
		t.Setenv("SATELLITE_ENV", "staging")
		t.Setenv("WP_ENVIRONMENT_TYPE", "local")
		if got := EnvironmentName(); got != "staging" {
			t.Errorf("EnvironmentName() = %q, want staging", got)
		}
	})

	t.Run("wordpress environment type as fallback", func(t *testing.T) {
		t.Setenv("SATELLITE_ENV", "")
		t.Setenv("WP_ENVIRONMENT_TYPE", "development")
		if got := EnvironmentName(); got != "development" {
			t.Errorf("EnvironmentName() = %q, want development", got)
		}
	})

	t.Run("defaults to production", func(t *testing.T) {
		t.Setenv("SATELLITE_ENV", "")
		t.Setenv("WP_ENVIRONMENT_TYPE", "")
		if got := EnvironmentName(); got != "production" {
			t.Errorf("EnvironmentName() = %q, want production", got)
		}
	})
}
