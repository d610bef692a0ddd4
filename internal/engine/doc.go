// Package engine implements the tick-driven scheduler that stands in for the
// game engine's update loop.
//
// ARCHITECTURE:
//
// Single-Writer Tick Loop:
// Every mutation of an entity's pose state happens on the goroutine that
// calls Framework.Tick (directly, or through Framework.Run). This ensures:
// - No parallel mutation of the same entity's pose
// - Deterministic ordering of deferred work
// - Simple reasoning about what the engine has rendered
//
// Tick Processing Flow:
//  1. Clock advances to tick t
//  2. Update hooks run in registration order (the engine's own animation
//     update, e.g. recomputing rendered bone transforms)
//  3. Tasks due at or before t run in (due, seq) order
//
// Suspension is explicit: RunOnTick(delay, fn) returns immediately and fn
// runs delay ticks later. Tasks scheduled while a tick is being processed run
// on a later tick, never the current one.
//
// CRITICAL PATTERNS:
//
// Logical Ticks:
// Ordering uses the monotonic tick counter from Clock, never wall time.
// Tasks with the same due tick run FIFO.
//
// No Cancellation:
// Once scheduled a task runs. Callers avoid double work by not scheduling,
// and the work itself is idempotent.
package engine
