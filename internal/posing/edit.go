package posing

import (
	"github.com/roach88/livepose/internal/mirror"
	"github.com/roach88/livepose/internal/pose"
	"github.com/roach88/livepose/internal/xform"
)

// MirrorPose mirrors the whole pose across the character's YZ plane and
// imports it with every component, reset and reconcile.
func (c *Capability) MirrorPose() bool {
	skel := c.entity.Skeleton()
	if skel == nil || !skel.Valid() || len(skel.Bones()) == 0 {
		return false
	}

	mirrored := mirror.Pose(c.ExportPose(), skel)
	ok := c.importPose(mirrored, ImportOptions{
		Preset:           PresetIPC,
		Components:       xform.All,
		ModelTransform:   true,
		GenerateSnapshot: true,
		Reset:            true,
		Reconcile:        true,
	})
	c.tagPose()
	return ok
}

// FlipSelectedBone flips the selected bone. Model flips are not supported.
func (c *Capability) FlipSelectedBone() bool {
	if b := c.SelectedBone(); b != nil {
		return c.FlipBone(b.Address())
	}
	if ts, ok := c.selected.(TargetSelection); ok {
		c.log.Debug("flip not supported for target", "target", string(ts.Target))
	}
	return false
}

// FlipBone replaces the bone's rendered rotation with its mirror image,
// keeping the entry's IK and mirror flags, and snapshots without reset.
func (c *Capability) FlipBone(addr pose.BoneAddress) bool {
	b := c.resolve(addr)
	if b == nil {
		return false
	}

	t := b.LastTransform()
	t.Rotation = mirror.BoneRotation(t.Rotation)

	entry, _ := c.info.Entry(addr)
	c.info.SetBoneOverride(addr, pose.Override{
		Transform:  t,
		Components: xform.All,
		IK:         pose.Ptr(entry.IK),
		Mirror:     pose.Ptr(entry.Mirror),
		Clobber:    true,
	})

	c.Snapshot(false, true)
	return true
}
