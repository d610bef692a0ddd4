package posing

import (
	"errors"

	"github.com/roach88/livepose/internal/document"
	"github.com/roach88/livepose/internal/pose"
	"github.com/roach88/livepose/internal/xform"
)

// ImportPose applies a pose document to the entity. It returns false, after
// logging a warning, when the entity has no timeline, the document is a
// scene, a legacy document cannot be upgraded, or the document is empty. A
// rejected import changes nothing.
func (c *Capability) ImportPose(doc document.Document, opts ImportOptions) bool {
	if _, ok := c.entity.Timeline(); !ok {
		c.log.Warn("entity has no timeline, pose not imported",
			"preset", opts.Preset.String())
		return false
	}

	p, err := document.Native(doc)
	if err != nil {
		if errors.Is(err, document.ErrUnsupportedScene) {
			c.log.Warn("scene pose import is not supported yet")
		} else {
			c.log.Warn("invalid pose file", "error", err)
		}
		return false
	}

	return c.importPose(p, opts)
}

// LoadResourcePose imports a built-in pose. asBody restricts it to body
// rotations; freeze stops the entity's timeline first.
func (c *Capability) LoadResourcePose(name string, asBody, freeze bool) bool {
	doc, err := document.LoadResource(name)
	if err != nil {
		c.log.Warn("resource pose not found", "name", name, "error", err)
		return false
	}

	opts := ImportOptions{Preset: PresetScene, GenerateSnapshot: true}
	if asBody {
		opts = ImportOptions{Preset: PresetBody, Components: xform.Rotation, GenerateSnapshot: true}
	}

	if freeze {
		if tl, ok := c.entity.Timeline(); ok {
			tl.Freeze()
		}
	}
	return c.ImportPose(doc, opts)
}

// importPose is the shared import path for user imports, mirroring and
// reconcile. It never checks the timeline.
func (c *Capability) importPose(p *document.Pose, opts ImportOptions) bool {
	if p.Empty() {
		c.log.Warn("invalid pose file", "reason", document.ErrEmptyPose.Error())
		c.log.Debug("invalid pose file",
			"preset", opts.Preset.String(),
			"reset", opts.Reset,
			"reconcile", opts.Reconcile,
			"snapshot", opts.GenerateSnapshot,
		)
		return false
	}

	skel := c.entity.Skeleton()
	if skel == nil || !skel.Valid() {
		c.log.Warn("skeleton not available, pose not imported")
		return false
	}

	p = p.Clone()
	p.SanitizeBoneNames()

	if opts.Preset == PresetExpression {
		c.log.Info("loading pose as expression")
		c.expression = &expressionBuffer{pose: c.ExportPose()}
	}

	pl := opts.plan()
	applied := c.apply(p, pl, nil)

	c.log.Debug("pose imported",
		"preset", opts.Preset.String(),
		"components", pl.components.String(),
		"bones", applied,
	)

	if opts.GenerateSnapshot {
		reset, reconcile := opts.Reset, opts.Reconcile
		c.fw.RunOnTick(c.settings.SnapshotDelay, func() {
			c.Snapshot(reset, reconcile)
		})
	}
	return true
}

// apply writes p into the pose model by plan. skip, when set, excludes
// bone names after the plan's own filter. Returns the number of bones set.
func (c *Capability) apply(p *document.Pose, pl plan, skip BoneFilter) int {
	skel := c.entity.Skeleton()
	if skel == nil || !skel.Valid() {
		return 0
	}

	n := 0
	for _, b := range skel.Bones() {
		name := b.Name()
		if !pl.accepts(name) || (skip != nil && skip(name)) {
			continue
		}
		addr := b.Address()

		switch addr.Skeleton {
		case pose.SkeletonCharacter:
			t, ok := p.Bones[name]
			if !ok {
				continue
			}
			c.info.SetBoneOverride(addr, pose.Override{Transform: t, Components: pl.components})
			n++

		case pose.SkeletonMainHand:
			if applyWeapon(c.info.MainHand, p.MainHand, b, pl.components) {
				n++
			}

		case pose.SkeletonOffHand:
			if applyWeapon(c.info.OffHand, p.OffHand, b, pl.components) {
				n++
			}
		}
	}

	if pl.model {
		c.info.ModelDifference = p.ModelDifference.OrIdentity()
		c.info.ModelAbsoluteValues = p.ModelAbsoluteValues.OrIdentity()
		if c.settings.ApplyModelTransform {
			c.entity.SetModelTransform(c.entity.ModelTransform().Apply(p.ModelAbsoluteValues.OrIdentity(), pl.components))
		}
	}
	return n
}

func applyWeapon(dst, src map[string]xform.Transform, b Bone, mask xform.Components) bool {
	t, ok := src[b.Name()]
	if !ok {
		return false
	}
	cur, ok := dst[b.Name()]
	if !ok {
		cur = b.LastTransform()
	}
	dst[b.Name()] = cur.Apply(t, mask)
	return true
}

// ExportPose captures the rendered skeleton as a native pose document.
// When several partials share a bone name the first one wins.
func (c *Capability) ExportPose() *document.Pose {
	out := document.NewPose()
	out.ModelDifference = c.info.ModelDifference.OrIdentity()
	out.ModelAbsoluteValues = c.entity.ModelTransform().OrIdentity()

	skel := c.entity.Skeleton()
	if skel == nil || !skel.Valid() {
		return out
	}

	for _, b := range skel.Bones() {
		var dst map[string]xform.Transform
		switch b.Address().Skeleton {
		case pose.SkeletonCharacter:
			dst = out.Bones
		case pose.SkeletonMainHand:
			dst = out.MainHand
		case pose.SkeletonOffHand:
			dst = out.OffHand
		default:
			continue
		}
		if _, seen := dst[b.Name()]; seen {
			continue
		}
		dst[b.Name()] = b.LastTransform()
	}
	return out
}

// Reset drops every override (props keep theirs). With clearRedo the redo
// stack is dropped; with generateSnapshot the reset state is recorded.
func (c *Capability) Reset(generateSnapshot, reset, clearRedo bool) {
	if !c.entity.IsProp() {
		c.resetPose()
	}
	if clearRedo {
		c.history.ClearRedo()
	}
	if generateSnapshot {
		c.Snapshot(reset, false)
	}
}

func (c *Capability) resetPose() {
	c.info.Reset()
	c.entity.ResetPose()
}
