package policy

// EnvironmentGatePolicy returns the built-in policy deciding whether the
// runtime environment may receive a sync. The permitted set is fixed and
// the comparison is exact: "Development" or "STAGING" do not pass.
func EnvironmentGatePolicy() Policy {
	return Policy{
		Name:        "environment-gate",
		Description: "Permits syncing only into development, local, or staging environments",
		Package:     "satellite.policies.environment",
		Severity:    SeverityCritical,
		Rego: `package satellite.policies.environment

import rego.v1

# Environments that may receive a sync. Matching is case-sensitive.
permitted_environments := ["development", "local", "staging"]

default allow := false

allow if {
	input.environment in permitted_environments
}

deny contains violation if {
	not allow
	violation := {
		"message": sprintf("environment '%s' is not permitted to receive a sync", [input.environment]),
		"severity": "critical",
	}
}`,
	}
}
