package history

import (
	"github.com/roach88/livepose/internal/pose"
	"github.com/roach88/livepose/internal/xform"
)

// DefaultCapacity is the number of undoable steps kept when no
// configuration says otherwise.
const DefaultCapacity = 50

// Entry is one snapshot in the history.
type Entry struct {
	Info           *pose.Info
	ModelTransform xform.Transform
}

func (e Entry) clone() Entry {
	return Entry{Info: e.Info.Clone(), ModelTransform: e.ModelTransform}
}

// History holds the undo and redo stacks of one entity.
//
// Not safe for concurrent use; all access happens on the engine goroutine.
type History struct {
	undo     stack[Entry]
	redo     stack[Entry]
	capacity int
}

// New creates an empty history keeping up to capacity undoable steps.
// A capacity of zero or less disables history.
func New(capacity int) *History {
	return &History{capacity: capacity}
}

// Capacity returns the configured number of undoable steps.
func (h *History) Capacity() int {
	return h.capacity
}

// SetCapacity changes the number of undoable steps. Zero or less clears both
// stacks; otherwise both stacks are trimmed to the new bound.
func (h *History) SetCapacity(n int) {
	h.capacity = n
	if n <= 0 {
		h.Clear()
		return
	}
	h.undo.Trim(n + 1)
	h.redo.Trim(n + 1)
}

// Snapshot records info as the newest state. The redo stack is cleared.
// With history disabled both stacks are cleared and nothing is retained.
func (h *History) Snapshot(info *pose.Info, modelTransform xform.Transform) {
	if h.capacity <= 0 {
		h.Clear()
		return
	}

	h.redo.Clear()

	if h.undo.Len() == 0 {
		h.undo.Push(Entry{Info: pose.NewInfo(), ModelTransform: xform.Identity()})
	}

	h.undo.Push(Entry{Info: info.Clone(), ModelTransform: modelTransform})
	h.undo.Trim(h.capacity + 1)
}

// Undo moves the newest state onto the redo stack and returns a clone of the
// state that is now current. When only the base entry remains nothing moves
// and the base entry is returned. ok is false only when the history is empty.
func (h *History) Undo() (current *pose.Info, ok bool) {
	if h.undo.Len() > 1 {
		if e, popped := h.undo.Pop(); popped {
			h.redo.Push(e)
		}
	}

	top, ok := h.undo.Peek()
	if !ok {
		return nil, false
	}
	return top.Info.Clone(), true
}

// Redo moves the newest redo entry back onto the undo stack and returns a
// clone of it.
func (h *History) Redo() (current *pose.Info, ok bool) {
	e, ok := h.redo.Pop()
	if !ok {
		return nil, false
	}
	h.undo.Push(e)
	return e.Info.Clone(), true
}

// CanUndo reports whether an undo would change the current state.
// The base entry does not count.
func (h *History) CanUndo() bool {
	n := h.undo.Len()
	return n != 0 && n != 1
}

// CanRedo reports whether a redo is available.
func (h *History) CanRedo() bool {
	return h.redo.Len() > 0
}

// Current returns a clone of the newest undo entry.
func (h *History) Current() (Entry, bool) {
	e, ok := h.undo.Peek()
	if !ok {
		return Entry{}, false
	}
	return e.clone(), true
}

// ClearRedo drops every redo entry.
func (h *History) ClearRedo() {
	h.redo.Clear()
}

// Clear drops both stacks.
func (h *History) Clear() {
	h.undo.Clear()
	h.redo.Clear()
}

// Depth returns the number of entries on each stack, base entry included.
func (h *History) Depth() (undo, redo int) {
	return h.undo.Len(), h.redo.Len()
}

// Entries returns clones of both stacks, bottom to top.
func (h *History) Entries() (undo, redo []Entry) {
	for _, e := range h.undo.Items() {
		undo = append(undo, e.clone())
	}
	for _, e := range h.redo.Items() {
		redo = append(redo, e.clone())
	}
	return undo, redo
}

// Restore replaces both stacks with clones of the given entries, bottom to
// top, then applies the capacity bound. Used when loading a persisted
// journal.
func (h *History) Restore(undo, redo []Entry) {
	h.Clear()
	if h.capacity <= 0 {
		return
	}
	for _, e := range undo {
		h.undo.Push(e.clone())
	}
	for _, e := range redo {
		h.redo.Push(e.clone())
	}
	h.undo.Trim(h.capacity + 1)
	h.redo.Trim(h.capacity + 1)
}

// GroupedHistory coordinates undo/redo across several selected entities.
// Implementations own atomicity across the set and delegate per-entity
// snapshot and restore to each entity's History.
type GroupedHistory interface {
	CanUndo() bool
	CanRedo() bool
	Undo()
	Redo()
}
