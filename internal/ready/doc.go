// Package ready provides a one-shot readiness gate.
//
// Subsystems that take time to come up (the preview server, the library
// load) expose a Gate. Dependents await the gate with a context and a
// bounded timeout instead of polling a flag. A timed-out await is a
// warning condition for the caller, not a crash: the dependent feature
// is skipped.
//
// A Gate signals exactly once. Later Signal calls are ignored, so a
// subsystem can report readiness from multiple paths without coordination.
package ready
