package policy

import (
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestGatePermittedEnvironments(t *testing.T) {
	gate, err := NewGate(zerolog.Nop())
	if err != nil {
		t.Fatalf("NewGate() error = %v", err)
	}

	tests := []struct {
		name        string
		environment string
		want        bool
	}{
		{"development is permitted", "development", true},
		{"local is permitted", "local", true},
		{"staging is permitted", "staging", true},
		{"production is denied", "production", false},
		{"empty environment is denied", "", false},
		{"matching is case-sensitive", "Development", false},
		{"upper case is denied", "STAGING", false},
		{"abbreviations are denied", "dev", false},
		{"unknown names are denied", "qa", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := gate.IsSafe(context.Background(), tt.environment)
			if err != nil {
				t.Fatalf("IsSafe(%q) error = %v", tt.environment, err)
			}
			if got != tt.want {
				t.Errorf("IsSafe(%q) = %v, want %v", tt.environment, got, tt.want)
			}
		})
	}
}

func TestGateExplain(t *testing.T) {
	gate, err := NewGate(zerolog.Nop())
	if err != nil {
		t.Fatalf("NewGate() error = %v", err)
	}

	denied, err := gate.Explain(context.Background(), "production")
	if err != nil {
		t.Fatalf("Explain(production) error = %v", err)
	}
	if denied.Allowed {
		t.Error("Explain(production).Allowed = true, want false")
	}
	if len(denied.Violations) == 0 {
		t.Fatal("Explain(production) returned no violations")
	}
	if !strings.Contains(denied.Violations[0].Message, "production") {
		t.Errorf("violation message = %q, want it to name the environment", denied.Violations[0].Message)
	}
	if denied.Violations[0].Severity != SeverityCritical {
		t.Errorf("violation severity = %s, want %s", denied.Violations[0].Severity, SeverityCritical)
	}

	allowed, err := gate.Explain(context.Background(), "staging")
	if err != nil {
		t.Fatalf("Explain(staging) error = %v", err)
	}
	if !allowed.Allowed || len(allowed.Violations) != 0 {
		t.Errorf("Explain(staging) = %+v, want allowed with no violations", allowed)
	}
}
