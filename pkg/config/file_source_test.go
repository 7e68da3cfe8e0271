package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "satellite.yml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

func TestFileSourceLookup(t *testing.T) {
	path := writeConfigFile(t, `
ssh_host: db.example.com
ssh_port: 8022
ssh_user: deploy
ssh_path: /srv/site
sync_activate_plugins:
  - plugin-a
  - plugin-b
hooks_after_database: wp cache flush
`)

	src, err := NewFileSource(path)
	if err != nil {
		t.Fatalf("NewFileSource() error = %v", err)
	}

	// A numeric port resolves like its quoted form.
	if v, _ := src.Lookup(KeySSHPort); v != "8022" {
		t.Errorf("Lookup(ssh_port) = %q, want 8022", v)
	}
	if v, _ := src.Lookup(KeySSHHost); v != "db.example.com" {
		t.Errorf("Lookup(ssh_host) = %q, want db.example.com", v)
	}

	// A list value flattens for Lookup so the tokenizer sees it whole.
	if v, _ := src.Lookup(KeyActivatePlugins); v != "plugin-a,plugin-b" {
		t.Errorf("Lookup(sync_activate_plugins) = %q, want plugin-a,plugin-b", v)
	}

	list, err := src.LookupList(KeyActivatePlugins)
	if err != nil || len(list) != 2 || list[0] != "plugin-a" || list[1] != "plugin-b" {
		t.Errorf("LookupList(sync_activate_plugins) = %v, %v; want [plugin-a plugin-b], nil", list, err)
	}

	// A scalar hook stays one command even though it contains spaces.
	hooks, err := src.LookupList(KeyAfterDatabase)
	if err != nil || len(hooks) != 1 || hooks[0] != "wp cache flush" {
		t.Errorf("LookupList(hooks_after_database) = %v, %v; want [wp cache flush], nil", hooks, err)
	}

	if _, err := src.Lookup(KeyRemoteToolPath); !errors.Is(err, ErrKeyUndefined) {
		t.Errorf("Lookup(remote_tool_path) error = %v, want ErrKeyUndefined", err)
	}
}

func TestFileSourceMissingFileIsEmptyLayer(t *testing.T) {
	src, err := NewFileSource(filepath.Join(t.TempDir(), "absent.yml"))
	if err != nil {
		t.Fatalf("NewFileSource() error = %v", err)
	}

	if _, err := src.Lookup(KeySSHHost); !errors.Is(err, ErrKeyUndefined) {
		t.Errorf("Lookup(ssh_host) error = %v, want ErrKeyUndefined", err)
	}
}

func TestFileSourceRejectsBadContent(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "malformed yaml",
			content: "ssh_host: [unclosed",
		},
		{
			name:    "unknown key",
			content: "ssh_hostname: db.example.com\n",
		},
		{
			name:    "wrong type",
			content: "ssh_host: 42\n",
		},
		{
			name:    "zero port",
			content: "ssh_port: 0\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfigFile(t, tt.content)
			if _, err := NewFileSource(path); err == nil {
				t.Error("NewFileSource() error = nil, want validation error")
			}
		})
	}
}
