package plugins

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/rs/zerolog"
)

// fakeHost serves plugin state from fixed sets and records mutations.
type fakeHost struct {
	installed   map[string]bool
	active      map[string]bool
	checkErr    map[string]error
	changeErr   map[string]error
	activated   []string
	deactivated []string
}

func (f *fakeHost) IsInstalled(ctx context.Context, plugin string) (bool, error) {
	if err := f.checkErr[plugin]; err != nil {
		return false, err
	}
	return f.installed[plugin], nil
}

func (f *fakeHost) IsActive(ctx context.Context, plugin string) (bool, error) {
	return f.active[plugin], nil
}

func (f *fakeHost) Activate(ctx context.Context, plugin string) error {
	if err := f.changeErr[plugin]; err != nil {
		return err
	}
	f.activated = append(f.activated, plugin)
	return nil
}

func (f *fakeHost) Deactivate(ctx context.Context, plugin string) error {
	if err := f.changeErr[plugin]; err != nil {
		return err
	}
	f.deactivated = append(f.deactivated, plugin)
	return nil
}

func TestActivate(t *testing.T) {
	tests := []struct {
		name         string
		host         *fakeHost
		plugins      []string
		wantChanged  int
		wantWarnings []string
		wantApplied  []string
	}{
		{
			name: "inactive plugin gets activated",
			host: &fakeHost{
				installed: map[string]bool{"query-monitor": true},
				active:    map[string]bool{},
			},
			plugins:     []string{"query-monitor"},
			wantChanged: 1,
			wantApplied: []string{"query-monitor"},
		},
		{
			name: "missing plugin warns and is skipped",
			host: &fakeHost{
				installed: map[string]bool{},
				active:    map[string]bool{},
			},
			plugins:      []string{"query-monitor"},
			wantWarnings: []string{`plugin "query-monitor" is not available to activate`},
		},
		{
			name: "already active plugin warns and is skipped",
			host: &fakeHost{
				installed: map[string]bool{"query-monitor": true},
				active:    map[string]bool{"query-monitor": true},
			},
			plugins:      []string{"query-monitor"},
			wantWarnings: []string{`plugin "query-monitor" is already active`},
		},
		{
			name: "plugins are handled independently",
			host: &fakeHost{
				installed: map[string]bool{"query-monitor": true, "debug-bar": true},
				active:    map[string]bool{"debug-bar": true},
			},
			plugins:     []string{"missing-one", "query-monitor", "debug-bar"},
			wantChanged: 1,
			wantWarnings: []string{
				`plugin "missing-one" is not available to activate`,
				`plugin "debug-bar" is already active`,
			},
			wantApplied: []string{"query-monitor"},
		},
		{
			name: "empty list does nothing",
			host: &fakeHost{
				installed: map[string]bool{"query-monitor": true},
				active:    map[string]bool{},
			},
			plugins: []string{},
		},
		{
			name: "nil list does nothing",
			host: &fakeHost{
				installed: map[string]bool{"query-monitor": true},
				active:    map[string]bool{},
			},
			plugins: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reconciler := NewReconciler(tt.host, zerolog.Nop())

			outcome := reconciler.Activate(context.Background(), tt.plugins)
			if outcome.Changed != tt.wantChanged {
				t.Errorf("Changed = %d, want %d", outcome.Changed, tt.wantChanged)
			}
			if !reflect.DeepEqual(outcome.Warnings, tt.wantWarnings) {
				t.Errorf("Warnings = %v, want %v", outcome.Warnings, tt.wantWarnings)
			}
			if !reflect.DeepEqual(tt.host.activated, tt.wantApplied) {
				t.Errorf("activated = %v, want %v", tt.host.activated, tt.wantApplied)
			}
		})
	}
}

func TestDeactivate(t *testing.T) {
	tests := []struct {
		name         string
		host         *fakeHost
		plugins      []string
		wantChanged  int
		wantWarnings []string
		wantApplied  []string
	}{
		{
			name: "active plugin gets deactivated",
			host: &fakeHost{
				installed: map[string]bool{"wp-super-cache": true},
				active:    map[string]bool{"wp-super-cache": true},
			},
			plugins:     []string{"wp-super-cache"},
			wantChanged: 1,
			wantApplied: []string{"wp-super-cache"},
		},
		{
			name: "missing plugin warns",
			host: &fakeHost{
				installed: map[string]bool{},
				active:    map[string]bool{},
			},
			plugins:      []string{"wp-super-cache"},
			wantWarnings: []string{`plugin "wp-super-cache" is not available to deactivate`},
		},
		{
			name: "already inactive plugin warns",
			host: &fakeHost{
				installed: map[string]bool{"wp-super-cache": true},
				active:    map[string]bool{},
			},
			plugins:      []string{"wp-super-cache"},
			wantWarnings: []string{`plugin "wp-super-cache" is already inactive`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reconciler := NewReconciler(tt.host, zerolog.Nop())

			outcome := reconciler.Deactivate(context.Background(), tt.plugins)
			if outcome.Changed != tt.wantChanged {
				t.Errorf("Changed = %d, want %d", outcome.Changed, tt.wantChanged)
			}
			if !reflect.DeepEqual(outcome.Warnings, tt.wantWarnings) {
				t.Errorf("Warnings = %v, want %v", outcome.Warnings, tt.wantWarnings)
			}
			if !reflect.DeepEqual(tt.host.deactivated, tt.wantApplied) {
				t.Errorf("deactivated = %v, want %v", tt.host.deactivated, tt.wantApplied)
			}
		})
	}
}

func TestActivateCheckFailure(t *testing.T) {
	host := &fakeHost{
		installed: map[string]bool{"good": true},
		active:    map[string]bool{},
		checkErr:  map[string]error{"bad": errors.New("wp exploded")},
	}
	reconciler := NewReconciler(host, zerolog.Nop())

	outcome := reconciler.Activate(context.Background(), []string{"bad", "good"})
	if outcome.Changed != 1 {
		t.Errorf("Changed = %d, want 1", outcome.Changed)
	}
	if len(outcome.Warnings) != 1 {
		t.Fatalf("Warnings = %v, want one entry", outcome.Warnings)
	}
	if want := `failed to check plugin "bad": wp exploded`; outcome.Warnings[0] != want {
		t.Errorf("warning = %q, want %q", outcome.Warnings[0], want)
	}
}

func TestActivateChangeFailure(t *testing.T) {
	host := &fakeHost{
		installed: map[string]bool{"fragile": true},
		active:    map[string]bool{},
		changeErr: map[string]error{"fragile": errors.New("fatal PHP error")},
	}
	reconciler := NewReconciler(host, zerolog.Nop())

	outcome := reconciler.Activate(context.Background(), []string{"fragile"})
	if outcome.Changed != 0 {
		t.Errorf("Changed = %d, want 0", outcome.Changed)
	}
	if len(outcome.Warnings) != 1 {
		t.Fatalf("Warnings = %v, want one entry", outcome.Warnings)
	}
	if want := `failed to activate plugin "fragile": fatal PHP error`; outcome.Warnings[0] != want {
		t.Errorf("warning = %q, want %q", outcome.Warnings[0], want)
	}
}
