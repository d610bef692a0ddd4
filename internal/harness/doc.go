// Package harness runs scripted posing sessions against a rig and checks
// the resulting trace.
//
// # Scenario Format
//
// Scenarios are YAML files:
//
//	name: wave_undo
//	description: "Undo restores the pose before an import"
//	rig: rigs/humanoid.cue
//	settings:
//	  undo_stack_size: 10
//	steps:
//	  - op: import
//	    resource: wave
//	  - op: drain
//	  - op: undo
//	assertions:
//	  - type: final_state
//	    can_undo: false
//	    can_redo: true
//
// The rig path is resolved relative to the scenario file.
//
// # Operations
//
//   - import: apply a resource or pose file (preset, components,
//     model_transform, snapshot, reset, reconcile)
//   - load_resource: built-in pose as scene or body (as_body, freeze)
//   - override: set one bone's rotation from Euler degrees
//   - snapshot: schedule a history snapshot (reset, reconcile)
//   - tick, drain: advance the engine
//   - undo, redo, mirror, flip
//   - select: a bone, the model target, or nothing
//   - reset: clear overrides (snapshot, skeleton, clear_redo)
//   - settings: change the undo stack size
//   - save_pose, load_pose, save_history: round trip through the library
//
// # Assertion Types
//
//   - op_order: operations appear in the given order
//   - op_count: an operation appears exactly N times
//   - final_state: undo/redo availability and overridden bones at the end
//   - stored_rows: number of rows in a library table
//
// # Deterministic Testing
//
// Each scenario runs on a fresh engine starting at tick 0 with an
// in-memory store and fixed row IDs. Traces carry no floats, so golden
// files are identical across platforms.
package harness
