// Package engine provides the core types and orchestration for satellite
// sync runs.
//
// # Overview
//
// A run is one invocation of the synchronization sequence:
//
//	environment gate -> settings resolution -> local tool discovery ->
//	reachability probe -> remote tool discovery -> database transfer ->
//	post-import hooks -> uploads transfer -> plugin activation ->
//	plugin deactivation
//
// The sequence is strictly ordered and single-threaded. Fatal conditions
// (gate denial, unresolved settings, unreachable remote, missing remote
// tool) abort the run immediately with a classified SyncError; per-plugin
// conditions are warnings that never change control flow. Transfers are
// fire-and-forget: their process failures are logged, not inspected.
//
// # Components
//
// Orchestrator: drives the sequence against the capability interfaces
// declared in this package (Gate, Resolver, Locator, Transport factories,
// syncers, Reconciler, Reporter). Every collaborator is injected, so the
// whole sequence runs against fakes in tests.
//
// Run, StepResult, RunSummary: the in-memory record of one invocation.
// Runs carry a UUID and step timings for the logs and the final report;
// nothing is ever persisted.
//
// SyncError: classified errors with kinds that decide fatality. See
// errors.go for the kinds and their predicates.
//
// # Concurrency
//
// One run at a time, one attempt per external invocation, no retries.
// Settings are written once during resolution and discovery and are
// read-only afterward.
package engine
