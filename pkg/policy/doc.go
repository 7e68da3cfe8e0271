// Package policy implements the environment safety gate with embedded
// Rego policies evaluated in-process through OPA.
//
// # Overview
//
// Before anything else happens in a run, the gate decides whether the
// current runtime environment may receive a sync at all. The permitted
// set is fixed: development, local, and staging, compared exactly and
// case-sensitively. Everything else - production above all - is denied.
//
// The gate fails closed: a policy that cannot be evaluated denies the
// run with an internal error rather than letting it proceed.
//
// # Usage Example
//
//	gate, err := policy.NewGate(logger)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	safe, err := gate.IsSafe(ctx, config.EnvironmentName())
//	if err != nil || !safe {
//	    // abort the run
//	}
//
// Explain returns the individual violations behind a denial for
// diagnostic commands.
package policy
