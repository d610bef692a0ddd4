package posing

import (
	"github.com/roach88/livepose/internal/history"
	"github.com/roach88/livepose/internal/pose"
)

// Engine bridge types, re-exported for callers that only import posing.
type (
	Entity   = pose.Entity
	Skeleton = pose.Skeleton
	Bone     = pose.Bone
	Timeline = pose.Timeline
)

// PoseTagger is notified after undo, redo and mirror on the local player
// so companion tools (footwear height sync) can refresh. Optional.
type PoseTagger interface {
	Available() bool
	TagPose()
}

// Group is the multi-entity history mediator. When more than one entity is
// selected, Undo and Redo are delegated to it.
type Group interface {
	history.GroupedHistory
	Len() int
}
