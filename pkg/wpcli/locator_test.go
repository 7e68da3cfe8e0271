package wpcli

import (
	"context"
	"reflect"
	"testing"

	"github.com/rs/zerolog"

	"github.com/satellite-sync/satellite/pkg/engine"
	"github.com/satellite-sync/satellite/pkg/runner"
)

// fakeRunner serves canned results and remembers what it ran.
type fakeRunner struct {
	commands [][]string
	exitCode int
	stdout   string
	stderr   string
	runErr   error
	paths    map[string]string
}

func (f *fakeRunner) Run(ctx context.Context, argv []string) (*runner.Result, error) {
	f.commands = append(f.commands, argv)
	if f.runErr != nil {
		return nil, f.runErr
	}
	return &runner.Result{ExitCode: f.exitCode, Stdout: f.stdout, Stderr: f.stderr}, nil
}

func (f *fakeRunner) RunShell(ctx context.Context, command string) (*runner.Result, error) {
	return &runner.Result{}, nil
}

func (f *fakeRunner) Pipe(ctx context.Context, stages [][]string) (*runner.Result, error) {
	return &runner.Result{}, nil
}

func (f *fakeRunner) LookPath(name string) (string, bool) {
	path, ok := f.paths[name]
	return path, ok
}

// fakeTransport answers file checks from a fixed set and records the
// probe order.
type fakeTransport struct {
	files  map[string]bool
	probed []string
}

func (f *fakeTransport) Probe(ctx context.Context) error { return nil }

func (f *fakeTransport) FileExists(ctx context.Context, path string) bool {
	f.probed = append(f.probed, path)
	return f.files[path]
}

func (f *fakeTransport) Command(remote string) []string {
	return []string{"ssh", "-p", "22", "deploy@example.com", remote}
}

func (f *fakeTransport) Template() []string {
	return []string{"ssh", "-p", "22"}
}

func TestLocateLocal(t *testing.T) {
	tests := []struct {
		name  string
		paths map[string]string
		want  string
	}{
		{
			name:  "first candidate wins",
			paths: map[string]string{"wp": "/usr/local/bin/wp", "wp-cli": "/usr/bin/wp-cli"},
			want:  "/usr/local/bin/wp",
		},
		{
			name:  "falls through to later candidates",
			paths: map[string]string{"wp-cli.phar": "/opt/wp-cli.phar"},
			want:  "/opt/wp-cli.phar",
		},
		{
			name:  "nothing on path",
			paths: map[string]string{},
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			locator := NewLocator(&fakeRunner{paths: tt.paths}, zerolog.Nop())
			if got := locator.LocateLocal(context.Background()); got != tt.want {
				t.Errorf("LocateLocal() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLocateRemote(t *testing.T) {
	locator := NewLocator(&fakeRunner{}, zerolog.Nop())
	transport := &fakeTransport{files: map[string]bool{"/usr/bin/wp": true}}

	got, err := locator.LocateRemote(context.Background(), transport, &engine.Settings{})
	if err != nil {
		t.Fatalf("LocateRemote() returned error: %v", err)
	}
	if got != "/usr/bin/wp" {
		t.Errorf("LocateRemote() = %q, want %q", got, "/usr/bin/wp")
	}

	wantProbed := []string{"/usr/local/bin/wp", "/usr/bin/wp"}
	if !reflect.DeepEqual(transport.probed, wantProbed) {
		t.Errorf("probe order = %v, want %v", transport.probed, wantProbed)
	}
}

func TestLocateRemoteConfiguredCandidateFirst(t *testing.T) {
	locator := NewLocator(&fakeRunner{}, zerolog.Nop())
	transport := &fakeTransport{files: map[string]bool{"/opt/wp": true, "/usr/bin/wp": true}}
	settings := &engine.Settings{RemoteToolCandidate: "/opt/wp"}

	got, err := locator.LocateRemote(context.Background(), transport, settings)
	if err != nil {
		t.Fatalf("LocateRemote() returned error: %v", err)
	}
	if got != "/opt/wp" {
		t.Errorf("LocateRemote() = %q, want %q", got, "/opt/wp")
	}

	// The first hit short-circuits the probe sequence.
	if !reflect.DeepEqual(transport.probed, []string{"/opt/wp"}) {
		t.Errorf("probe order = %v, want %v", transport.probed, []string{"/opt/wp"})
	}
}

func TestLocateRemoteNoneFound(t *testing.T) {
	locator := NewLocator(&fakeRunner{}, zerolog.Nop())
	transport := &fakeTransport{files: map[string]bool{}}
	settings := &engine.Settings{RemoteToolCandidate: "/opt/wp"}

	_, err := locator.LocateRemote(context.Background(), transport, settings)
	if err == nil {
		t.Fatal("expected error when no candidate exists")
	}
	if !engine.IsRemoteToolNotFound(err) {
		t.Errorf("IsRemoteToolNotFound() = false for %v", err)
	}

	wantProbed := []string{"/opt/wp", "/usr/local/bin/wp", "/usr/bin/wp"}
	if !reflect.DeepEqual(transport.probed, wantProbed) {
		t.Errorf("probe order = %v, want %v", transport.probed, wantProbed)
	}
}
