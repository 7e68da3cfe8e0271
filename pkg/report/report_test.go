package report

import (
	"bytes"
	"strings"
	"testing"
)

func TestConsoleLines(t *testing.T) {
	var buf bytes.Buffer
	console := NewConsole(&buf)

	console.Info("probing remote host")
	console.Successf("database sync finished in %s", "2.1s")
	console.Warnf("plugin %q is already active", "akismet")
	console.Errorf("remote host %s is unreachable", "deploy@example.com")

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d: %q", len(lines), buf.String())
	}

	wants := []string{
		"probing remote host",
		"database sync finished in 2.1s",
		`plugin "akismet" is already active`,
		"remote host deploy@example.com is unreachable",
	}
	for i, want := range wants {
		if !strings.Contains(lines[i], want) {
			t.Errorf("line %d = %q, want it to contain %q", i, lines[i], want)
		}
	}
}

func TestSilentReportsNothing(t *testing.T) {
	// The silent reporter must be safe to call without any setup.
	silent := NewSilent()
	silent.Info("probing")
	silent.Successf("done in %s", "1s")
	silent.Warnf("warned")
	silent.Errorf("failed")
}
