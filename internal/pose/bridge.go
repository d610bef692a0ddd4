package pose

import "github.com/roach88/livepose/internal/xform"

// Bone is the read view of one live bone provided by the engine bridge.
type Bone interface {
	Name() string
	Address() BoneAddress

	// LastTransform is the transform rendered on the last tick, after any
	// engine-side corrections.
	LastTransform() xform.Transform
	// LastRawTransform is the transform before engine-side corrections.
	LastRawTransform() xform.Transform

	IsPartialRoot() bool
	IsSkeletonRoot() bool
	Visible() bool
}

// Skeleton is a live composite skeleton: the character body plus its
// weapon partials. It may become invalid when the entity is redrawn.
type Skeleton interface {
	Valid() bool
	Bone(addr BoneAddress) (Bone, bool)
	// FirstVisibleBone returns the first visible bone with the given name,
	// searching the character body before weapons.
	FirstVisibleBone(name string) (Bone, bool)
	Bones() []Bone
}

// Timeline is the animation timeline of an entity.
type Timeline interface {
	Freeze()
	Frozen() bool
}

// Entity is a posable actor or prop.
type Entity interface {
	ID() string
	ObjectIndex() int
	IsProp() bool

	Skeleton() Skeleton
	// ResetPose drops any transient engine state on the skeleton.
	ResetPose()

	ModelTransform() xform.Transform
	SetModelTransform(t xform.Transform)

	// Timeline reports the entity's timeline, if it has one. Poses can only
	// be imported into entities with a timeline.
	Timeline() (Timeline, bool)
}
