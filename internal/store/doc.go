// Package store provides SQLite-backed storage for the pose library and
// per-entity history journals.
//
// # Tables
//
//   - poses: named native pose documents, upserted by name. Saving the same
//     content again is a no-op (content_hash comparison).
//   - history_entries: the undo and redo stacks of each entity, rewritten
//     as a whole on every save.
//
// # Ordering
//
//   - Rows carry a seq INTEGER from a logical clock, never timestamps.
//   - Queries order by (seq, id) or (stack, position) with COLLATE BINARY
//     so results are identical across runs.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
