// Package trace records what the optimizer did and why.
//
// Enable tracing via command-line flags:
//
//	licm run --trace=- --trace-level=detail prog.ir
//
// Tracers:
//
//   - Nop: zero-overhead tracer when disabled
//   - StreamTracer: writes each event immediately (text or NDJSON)
//   - RingTracer: keeps the last N events in memory
//   - MultiTracer: fans events out to several tracers
//
// Levels select which scopes are emitted:
//
//   - LevelOff: nothing
//   - LevelError: failures only
//   - LevelPhase: driver and per-function events
//   - LevelDetail: per-loop events
//   - LevelDebug: per-instruction decisions
//
// The tracer travels in a context.Context (WithTracer / FromContext), so
// library code never needs a tracer parameter.
package trace
