package pose

import (
	"fmt"

	"github.com/roach88/livepose/internal/xform"
)

// MirrorMode controls how an override propagates to the opposite-side bone
// while a user drags it.
type MirrorMode int

const (
	MirrorNone MirrorMode = iota
	MirrorCopy
	MirrorInverse
)

func (m MirrorMode) String() string {
	switch m {
	case MirrorNone:
		return "none"
	case MirrorCopy:
		return "copy"
	case MirrorInverse:
		return "inverse"
	default:
		return fmt.Sprintf("MirrorMode(%d)", int(m))
	}
}

// BoneEntry is the override record for one bone.
type BoneEntry struct {
	Transform xform.Transform
	Applied   xform.Components
	IK        bool
	Mirror    MirrorMode
}

// Overridden reports whether the entry changes anything.
func (e BoneEntry) Overridden() bool {
	return !e.Applied.Empty()
}

// Override describes one edit to a bone entry.
//
// IK and Mirror are optional. Without Clobber a nil value keeps the
// existing flag; with Clobber the flags are always replaced and nil means
// the default (IK off, MirrorNone).
type Override struct {
	Transform  xform.Transform
	Components xform.Components
	IK         *bool
	Mirror     *MirrorMode
	Clobber    bool
}

func (e BoneEntry) merge(o Override) BoneEntry {
	e.Transform = e.Transform.OrIdentity().Apply(o.Transform, o.Components)
	e.Applied |= o.Components & xform.All

	if o.Clobber {
		e.IK = o.IK != nil && *o.IK
		e.Mirror = MirrorNone
		if o.Mirror != nil {
			e.Mirror = *o.Mirror
		}
		return e
	}

	if o.IK != nil {
		e.IK = *o.IK
	}
	if o.Mirror != nil {
		e.Mirror = *o.Mirror
	}
	return e
}

// Ptr returns a pointer to v, for the optional Override fields.
func Ptr[T any](v T) *T {
	return &v
}
