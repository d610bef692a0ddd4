// Package history implements the bounded, branch-free undo/redo history of a
// single entity's pose.
//
// The undo stack always keeps one base entry below the undoable ones: the
// first snapshot ever taken lazily pushes an empty sentinel so there is
// something to undo back to. Capacity counts undoable entries; the stacks
// hold at most capacity+1 entries and drop the oldest first.
//
// History owns every entry it stores. Entries are cloned on the way in and
// on the way out, so callers can never alias a stored snapshot.
//
// Multi-entity (grouped) undo is not handled here. A coordinator that needs
// atomic undo across entities drives each entity's History through the
// GroupedHistory mediator interface.
package history
