// Package posing is the per-entity posing capability: it owns an entity's
// pose model and undo/redo history, imports and exports pose documents, and
// runs the snapshot/reconcile protocol on the engine tick.
//
// # Reconcile
//
// Some pose changes only become final after the engine has rendered them
// (the rig may clamp or correct bones). A snapshot with reconcile therefore
// waits ReconcileDelay ticks, exports the settled skeleton, re-imports it
// with every component, and pushes the history entry another ReconcileDelay
// ticks later:
//
//	import -> (SnapshotDelay) -> reconcile export/re-import -> (ReconcileDelay) -> push
//
// All scheduled closures capture documents or clones, never live bones.
//
// # Threading
//
// A Capability is confined to the engine goroutine. Callers on other
// goroutines go through engine.Framework.Post.
package posing
