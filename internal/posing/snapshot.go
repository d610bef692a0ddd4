package posing

import (
	"github.com/roach88/livepose/internal/document"
	"github.com/roach88/livepose/internal/xform"
)

type expressionBuffer struct {
	pose *document.Pose
}

// Snapshot records the current pose model in history.
//
// With history disabled (undo size <= 0) both stacks are cleared. After an
// expression import the buffered body pose is restored first. Without
// reconcile the entry is pushed at once; with reconcile see the package
// documentation. reset asks the reconcile step to reset transient skeleton
// state before re-importing; it never touches history.
func (c *Capability) Snapshot(reset, reconcile bool) {
	if c.history.Capacity() <= 0 {
		c.history.Clear()
		return
	}

	c.history.ClearRedo()

	if buf := c.expression; buf != nil {
		c.expression = nil
		n := c.apply(buf.pose, plan{components: xform.All}, IsFaceBone)
		c.log.Debug("expression body restored", "bones", n)
	}

	if !reconcile {
		c.push()
		return
	}
	c.reconcile(reset)
}

func (c *Capability) reconcile(reset bool) {
	delay := c.settings.ReconcileDelay
	c.fw.RunOnTick(delay, func() {
		settled := c.ExportPose()
		if reset {
			// Model transforms are not transient.
			diff, abs := c.info.ModelDifference, c.info.ModelAbsoluteValues
			c.resetPose()
			c.info.ModelDifference, c.info.ModelAbsoluteValues = diff, abs
		}
		n := c.apply(settled, plan{components: xform.All}, nil)
		c.log.Debug("pose reconciled", "bones", n, "tick", c.fw.CurrentTick())

		c.fw.RunOnTick(delay, c.push)
	})
}

func (c *Capability) push() {
	c.history.Snapshot(c.info, c.entity.ModelTransform())
	undo, redo := c.history.Depth()
	c.log.Debug("snapshot recorded", "undo", undo, "redo", redo)
}
