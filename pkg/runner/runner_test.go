package runner

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func newTestRunner(opts ...Option) *ExecRunner {
	return New(zerolog.Nop(), opts...)
}

func TestShellJoin(t *testing.T) {
	tests := []struct {
		name string
		argv []string
		want string
	}{
		{
			name: "plain tokens pass through",
			argv: []string{"rsync", "-az", "--delete-after"},
			want: "rsync -az --delete-after",
		},
		{
			name: "token with spaces is quoted",
			argv: []string{"ssh", "-p", "22", "deploy@example.com", "cd /srv && exit"},
			want: "ssh -p 22 deploy@example.com 'cd /srv && exit'",
		},
		{
			name: "embedded single quote survives",
			argv: []string{"echo", "it's"},
			want: `echo 'it'\''s'`,
		},
		{
			name: "empty token renders as empty quotes",
			argv: []string{"printf", ""},
			want: "printf ''",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ShellJoin(tt.argv); got != tt.want {
				t.Errorf("ShellJoin() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPipelineCommand(t *testing.T) {
	tests := []struct {
		name    string
		stages  [][]string
		want    string
		wantErr bool
	}{
		{
			name:   "single stage",
			stages: [][]string{{"gunzip", "-c"}},
			want:   "gunzip -c",
		},
		{
			name: "remote export through local import",
			stages: [][]string{
				{"ssh", "-p", "22", "deploy@db.example.com", "cd /srv/site && wp db export - | gzip -cf"},
				{"gunzip", "-c"},
				{"wp", "db", "import", "--quiet", "-"},
			},
			want: "ssh -p 22 deploy@db.example.com 'cd /srv/site && wp db export - | gzip -cf' | gunzip -c | wp db import --quiet -",
		},
		{
			name:    "empty pipeline rejected",
			stages:  nil,
			wantErr: true,
		},
		{
			name:    "empty stage rejected",
			stages:  [][]string{{"gunzip", "-c"}, {}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := PipelineCommand(tt.stages)
			if (err != nil) != tt.wantErr {
				t.Fatalf("PipelineCommand() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("PipelineCommand() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRunCapturesOutputAndExitCode(t *testing.T) {
	r := newTestRunner()

	result, err := r.Run(context.Background(), []string{"/bin/sh", "-c", "printf hello; exit 3"})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if result.ExitCode != 3 {
		t.Errorf("ExitCode = %d, want 3", result.ExitCode)
	}
	if result.Stdout != "hello" {
		t.Errorf("Stdout = %q, want %q", result.Stdout, "hello")
	}
}

func TestRunSpawnFailure(t *testing.T) {
	r := newTestRunner()

	if _, err := r.Run(context.Background(), []string{"/nonexistent/satellite-test-binary"}); err == nil {
		t.Error("Run() expected spawn error, got nil")
	}
	if _, err := r.Run(context.Background(), nil); err == nil {
		t.Error("Run() expected error for empty argv, got nil")
	}
}

func TestRunShellStreamsOutput(t *testing.T) {
	var out bytes.Buffer
	r := newTestRunner(WithStreams(&out, &out))

	result, err := r.RunShell(context.Background(), "printf streamed")
	if err != nil {
		t.Fatalf("RunShell() error = %v", err)
	}
	if result.ExitCode != 0 {
		t.Errorf("ExitCode = %d, want 0", result.ExitCode)
	}
	if out.String() != "streamed" {
		t.Errorf("stream = %q, want %q", out.String(), "streamed")
	}
}

func TestPipeComposesSingleShellInvocation(t *testing.T) {
	var gotName string
	var gotArgs []string
	r := newTestRunner(WithCommandContext(func(ctx context.Context, name string, arg ...string) *exec.Cmd {
		gotName = name
		gotArgs = arg
		return exec.CommandContext(ctx, "true")
	}))

	stages := [][]string{
		{"ssh", "-p", "2222", "deploy@example.com", "cat backup.sql.gz"},
		{"gunzip", "-c"},
	}
	if _, err := r.Pipe(context.Background(), stages); err != nil {
		t.Fatalf("Pipe() error = %v", err)
	}

	if gotName != DefaultShell {
		t.Errorf("shell = %q, want %q", gotName, DefaultShell)
	}
	wantLine := "ssh -p 2222 deploy@example.com 'cat backup.sql.gz' | gunzip -c"
	if len(gotArgs) != 2 || gotArgs[0] != "-c" || gotArgs[1] != wantLine {
		t.Errorf("args = %v, want [-c %q]", gotArgs, wantLine)
	}
}

func TestLookPath(t *testing.T) {
	r := newTestRunner(WithLookPath(func(name string) (string, error) {
		if name == "pv" {
			return "/usr/bin/pv", nil
		}
		return "", fmt.Errorf("not found")
	}))

	if path, ok := r.LookPath("pv"); !ok || path != "/usr/bin/pv" {
		t.Errorf("LookPath(pv) = %q, %v; want /usr/bin/pv, true", path, ok)
	}
	if _, ok := r.LookPath("wp-cli.phar"); ok {
		t.Error("LookPath(wp-cli.phar) = true, want false")
	}

	if !strings.HasPrefix(DefaultShell, "/") {
		t.Errorf("DefaultShell = %q, want absolute path", DefaultShell)
	}
}
