package rig

import (
	"log/slog"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/roach88/livepose/internal/engine"
	"github.com/roach88/livepose/internal/pose"
	"github.com/roach88/livepose/internal/xform"
)

// SettleFunc post-processes a bone's rendered transform, standing in for
// engine-side corrections such as IK.
type SettleFunc func(b pose.Bone, t xform.Transform) xform.Transform

// Option configures a Rig.
type Option func(*Rig)

// WithSettle adds a settle hook run after rotation limits.
func WithSettle(fn SettleFunc) Option {
	return func(r *Rig) {
		r.settle = fn
	}
}

// WithLogger sets the rig's logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Rig) {
		r.log = l
	}
}

// Rig is a posable entity with a live composite skeleton. It implements
// pose.Entity, pose.Skeleton and pose.Timeline.
//
// Rig is not safe for concurrent use; it is driven from the engine tick.
type Rig struct {
	def    Definition
	bones  []*bone
	index  map[pose.BoneAddress]*bone
	model  xform.Transform
	valid  bool
	frozen bool

	source func() *pose.Info
	settle SettleFunc
	log    *slog.Logger
}

// New builds a rig from a definition. Body bones are ordered before
// main-hand bones, which come before off-hand bones.
func New(def *Definition, opts ...Option) *Rig {
	r := &Rig{
		def:   *def,
		index: make(map[pose.BoneAddress]*bone),
		model: xform.Identity(),
		valid: true,
		log:   slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}

	r.addSkeleton(pose.SkeletonCharacter, def.Bones)
	r.addSkeleton(pose.SkeletonMainHand, def.MainHand)
	r.addSkeleton(pose.SkeletonOffHand, def.OffHand)

	return r
}

func (r *Rig) addSkeleton(slot int, defs []BoneDef) {
	seenPartial := make(map[int]bool)
	for _, d := range defs {
		first := !seenPartial[d.Partial]
		seenPartial[d.Partial] = true

		base := xform.New(
			mgl64.Vec3(d.Position),
			xform.FromEuler(mgl64.Vec3(d.Rotation)),
			mgl64.Vec3(d.Scale),
		)
		b := &bone{
			addr:         pose.BoneAddress{Skeleton: slot, Partial: d.Partial, Name: d.Name},
			base:         base,
			last:         base,
			raw:          base,
			limit:        d.Limit,
			partialRoot:  first || d.PartialRoot,
			skeletonRoot: slot == pose.SkeletonCharacter && d.Partial == 0 && first,
			visible:      d.Visible,
		}
		r.bones = append(r.bones, b)
		r.index[b.addr] = b
	}
}

// Attach binds the rig to a pose model source and renders it once per tick
// of fw. The source is read on every tick, so it may return a different
// model after undo or redo.
func (r *Rig) Attach(fw *engine.Framework, source func() *pose.Info) {
	r.source = source
	fw.OnUpdate(func(int64) {
		r.Update()
	})
}

// Update renders the current pose model onto every bone.
func (r *Rig) Update() {
	if !r.valid {
		return
	}

	var info *pose.Info
	if r.source != nil {
		info = r.source()
	}

	for _, b := range r.bones {
		t := b.base
		if info != nil {
			switch b.addr.Skeleton {
			case pose.SkeletonMainHand:
				if w, ok := info.MainHand[b.addr.Name]; ok {
					t = w
				}
			case pose.SkeletonOffHand:
				if w, ok := info.OffHand[b.addr.Name]; ok {
					t = w
				}
			}
			if e, ok := info.Bones[b.addr]; ok {
				t = t.Apply(e.Transform, e.Applied)
			}
		}

		b.raw = t
		if b.limit > 0 {
			t.Rotation = ClampRotation(t.Rotation, b.limit)
		}
		if r.settle != nil {
			t = r.settle(b, t)
		}
		b.last = t
	}
}

// ID returns the rig name.
func (r *Rig) ID() string { return r.def.Name }

// ObjectIndex returns the entity's object table index.
func (r *Rig) ObjectIndex() int { return r.def.ObjectIndex }

// IsProp reports whether the entity is a prop rather than an actor.
func (r *Rig) IsProp() bool { return r.def.Prop }

// Skeleton returns the rig itself.
func (r *Rig) Skeleton() pose.Skeleton { return r }

// ResetPose returns every bone to its rest transform until the next update.
func (r *Rig) ResetPose() {
	for _, b := range r.bones {
		b.last = b.base
		b.raw = b.base
	}
	r.log.Debug("rig pose reset", "rig", r.def.Name)
}

func (r *Rig) ModelTransform() xform.Transform { return r.model }

func (r *Rig) SetModelTransform(t xform.Transform) { r.model = t }

// Timeline returns the rig as its own timeline when the definition enables one.
func (r *Rig) Timeline() (pose.Timeline, bool) {
	if !r.def.Timeline {
		return nil, false
	}
	return r, true
}

// Freeze stops the timeline.
func (r *Rig) Freeze() { r.frozen = true }

// Frozen reports whether Freeze was called.
func (r *Rig) Frozen() bool { return r.frozen }

// Valid reports whether the skeleton is live.
func (r *Rig) Valid() bool { return r.valid }

// Invalidate simulates the engine tearing the skeleton down.
func (r *Rig) Invalidate() { r.valid = false }

// Bone looks up a bone by address.
func (r *Rig) Bone(addr pose.BoneAddress) (pose.Bone, bool) {
	if !r.valid {
		return nil, false
	}
	b, ok := r.index[addr]
	if !ok {
		return nil, false
	}
	return b, true
}

// FirstVisibleBone returns the first visible bone named name.
func (r *Rig) FirstVisibleBone(name string) (pose.Bone, bool) {
	if !r.valid {
		return nil, false
	}
	for _, b := range r.bones {
		if b.addr.Name == name && b.visible {
			return b, true
		}
	}
	return nil, false
}

// Bones returns every bone in rig order.
func (r *Rig) Bones() []pose.Bone {
	if !r.valid {
		return nil
	}
	out := make([]pose.Bone, len(r.bones))
	for i, b := range r.bones {
		out[i] = b
	}
	return out
}

type bone struct {
	addr         pose.BoneAddress
	base         xform.Transform
	last         xform.Transform
	raw          xform.Transform
	limit        float64
	partialRoot  bool
	skeletonRoot bool
	visible      bool
}

func (b *bone) Name() string                      { return b.addr.Name }
func (b *bone) Address() pose.BoneAddress         { return b.addr }
func (b *bone) LastTransform() xform.Transform    { return b.last }
func (b *bone) LastRawTransform() xform.Transform { return b.raw }
func (b *bone) IsPartialRoot() bool               { return b.partialRoot }
func (b *bone) IsSkeletonRoot() bool              { return b.skeletonRoot }
func (b *bone) Visible() bool                     { return b.visible }
