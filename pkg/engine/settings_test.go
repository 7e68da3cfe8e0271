package engine

import "testing"

func TestIsTruthy(t *testing.T) {
	tests := []struct {
		name  string
		value interface{}
		want  bool
	}{
		{"bool true", true, true},
		{"bool false", false, false},
		{"string true", "true", true},
		{"string yes", "yes", true},
		{"string one", "1", true},
		{"int one", 1, true},
		{"string TRUE is not recognized", "TRUE", false},
		{"string no", "no", false},
		{"string empty", "", false},
		{"int zero", 0, false},
		{"int two", 2, false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsTruthy(tt.value); got != tt.want {
				t.Errorf("IsTruthy(%v) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()

	if opts.Database {
		t.Error("Database default = true, want false")
	}
	if opts.Uploads {
		t.Error("Uploads default = true, want false")
	}
	if !opts.ActivatePlugins {
		t.Error("ActivatePlugins default = false, want true")
	}
	if !opts.DeactivatePlugins {
		t.Error("DeactivatePlugins default = false, want true")
	}
}

func TestSettingsTarget(t *testing.T) {
	s := &Settings{SSHHost: "db.example.com", SSHUser: "deploy"}
	if got, want := s.Target(), "deploy@db.example.com"; got != want {
		t.Errorf("Target() = %q, want %q", got, want)
	}
}

func TestRunStatusTransitions(t *testing.T) {
	run := NewRun("staging")
	if run.ID == "" {
		t.Fatal("NewRun() produced empty ID")
	}
	if run.Status != RunStatusPending {
		t.Errorf("Status = %s, want %s", run.Status, RunStatusPending)
	}

	run.Start()
	if !run.Status.IsActive() {
		t.Errorf("Status = %s, want active", run.Status)
	}

	run.RecordStep(StepResult{Name: StepEnvironmentGate, Status: StepStatusSucceeded})
	run.RecordStep(StepResult{Name: StepSyncDatabase, Status: StepStatusSkipped})
	run.RecordStep(StepResult{
		Name:     StepActivatePlugins,
		Status:   StepStatusSucceeded,
		Warnings: []string{"plugin \"akismet\" is already active"},
	})

	run.Complete(RunStatusSucceeded)
	if !run.Status.IsTerminal() {
		t.Errorf("Status = %s, want terminal", run.Status)
	}
	if run.CompletedAt == nil {
		t.Error("CompletedAt = nil after Complete()")
	}
	if run.Summary.StepsRun != 2 {
		t.Errorf("StepsRun = %d, want 2", run.Summary.StepsRun)
	}
	if run.Summary.StepsSkipped != 1 {
		t.Errorf("StepsSkipped = %d, want 1", run.Summary.StepsSkipped)
	}
	if run.Summary.Warnings != 1 {
		t.Errorf("Warnings = %d, want 1", run.Summary.Warnings)
	}
}

func TestStepNameValidate(t *testing.T) {
	for _, step := range StepSequence {
		if err := step.Validate(); err != nil {
			t.Errorf("Validate(%s) = %v, want nil", step, err)
		}
	}
	if err := StepName("make_coffee").Validate(); err == nil {
		t.Error("Validate(make_coffee) = nil, want error")
	}
}
