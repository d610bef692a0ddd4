package posing

import (
	"log/slog"

	"github.com/roach88/livepose/internal/engine"
	"github.com/roach88/livepose/internal/history"
	"github.com/roach88/livepose/internal/pose"
)

// Option configures a Capability.
type Option func(*Capability)

// WithSettings sets the tunables. Defaults to DefaultSettings.
func WithSettings(s Settings) Option {
	return func(c *Capability) {
		c.settings = s
	}
}

// WithLogger sets the logger. Defaults to slog.Default.
func WithLogger(l *slog.Logger) Option {
	return func(c *Capability) {
		c.log = l
	}
}

// WithGroup installs the multi-entity history mediator.
func WithGroup(g Group) Option {
	return func(c *Capability) {
		c.group = g
	}
}

// WithTagger installs the optional pose tagger.
func WithTagger(t PoseTagger) Option {
	return func(c *Capability) {
		c.tagger = t
	}
}

// Capability is the posing state of one entity.
type Capability struct {
	entity   Entity
	fw       *engine.Framework
	info     *pose.Info
	history  *history.History
	settings Settings

	selected  Selection
	hover     Selection
	lastHover Selection

	// expression holds the pre-expression pose between an expression
	// import and its snapshot.
	expression *expressionBuffer

	group  Group
	tagger PoseTagger
	log    *slog.Logger
}

// New creates the posing capability for entity, scheduling on fw.
func New(entity Entity, fw *engine.Framework, opts ...Option) *Capability {
	c := &Capability{
		entity:    entity,
		fw:        fw,
		info:      pose.NewInfo(),
		settings:  DefaultSettings(),
		selected:  NoSelection{},
		hover:     NoSelection{},
		lastHover: NoSelection{},
		log:       slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = c.log.With("entity", entity.ID())
	c.history = history.New(c.settings.UndoStackSize)
	return c
}

// Entity returns the posed entity.
func (c *Capability) Entity() Entity { return c.entity }

// Info returns the live pose model. The pointer changes on undo and redo,
// so renderers should call Info on every frame rather than keep it.
func (c *Capability) Info() *pose.Info { return c.info }

// History returns the entity's history.
func (c *Capability) History() *history.History { return c.history }

// Settings returns the active tunables.
func (c *Capability) Settings() Settings { return c.settings }

// ApplySettings swaps the tunables. Undo capacity takes effect at once;
// a size of zero or less clears history.
func (c *Capability) ApplySettings(s Settings) {
	c.settings = s
	c.history.SetCapacity(s.UndoStackSize)
	c.log.Info("posing settings applied",
		"undo_stack_size", s.UndoStackSize,
		"reconcile_delay", s.ReconcileDelay,
		"snapshot_delay", s.SnapshotDelay,
	)
}

// RestoreHistory replaces the history with the entries of h and makes the
// newest undo entry the live pose. Used to resume a persisted journal.
func (c *Capability) RestoreHistory(h *history.History) {
	undo, redo := h.Entries()
	c.history.Restore(undo, redo)
	if e, ok := c.history.Current(); ok {
		c.info = e.Info
	}
}

// HasOverride reports whether any bone accepted by pred is overridden.
// A nil pred also counts weapon and model overrides.
func (c *Capability) HasOverride(pred func(pose.BoneAddress) bool) bool {
	return c.info.IsOverridden(pred)
}

// HasIKApplied reports whether any bone has IK enabled.
func (c *Capability) HasIKApplied() bool {
	return c.info.HasIK()
}

// SetBoneOverride edits one bone of the live pose model. It does not
// snapshot; callers snapshot when the edit is committed.
func (c *Capability) SetBoneOverride(addr pose.BoneAddress, o pose.Override) {
	c.info.SetBoneOverride(addr, o)
}

// CanUndo reports whether this entity or the selection group can undo.
func (c *Capability) CanUndo() bool {
	return c.history.CanUndo() || (c.group != nil && c.group.CanUndo())
}

// CanRedo reports whether this entity or the selection group can redo.
func (c *Capability) CanRedo() bool {
	return c.history.CanRedo() || (c.group != nil && c.group.CanRedo())
}

// Undo restores the previous history entry, or delegates to the group
// when several entities are selected.
func (c *Capability) Undo() {
	if c.grouped() {
		c.group.Undo()
		return
	}
	c.undoLocal()
	c.tagPose()
}

// Redo re-applies the next history entry, or delegates to the group when
// several entities are selected.
func (c *Capability) Redo() {
	if c.grouped() {
		c.group.Redo()
		return
	}
	c.redoLocal()
	c.tagPose()
}

func (c *Capability) undoLocal() {
	if info, ok := c.history.Undo(); ok {
		c.info = info
	}
}

func (c *Capability) redoLocal() {
	if info, ok := c.history.Redo(); ok {
		c.info = info
	}
}

func (c *Capability) grouped() bool {
	return c.group != nil && c.group.Len() > 1
}

func (c *Capability) tagPose() {
	if c.entity.ObjectIndex() != 0 || c.tagger == nil || !c.tagger.Available() {
		return
	}
	c.tagger.TagPose()
}
