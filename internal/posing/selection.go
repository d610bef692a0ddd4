package posing

import "github.com/roach88/livepose/internal/pose"

// Selection is what the user has picked: nothing, a bone, or a non-bone
// target. It is one of NoSelection, BoneSelection or TargetSelection.
type Selection interface {
	isSelection()
}

// NoSelection selects nothing.
type NoSelection struct{}

// BoneSelection selects one bone by address.
type BoneSelection struct {
	Address pose.BoneAddress
}

// Target names a selectable thing that is not a bone.
type Target string

// TargetModel selects the entity's model transform.
const TargetModel Target = "model"

// TargetSelection selects a non-bone target.
type TargetSelection struct {
	Target Target
}

func (NoSelection) isSelection()     {}
func (BoneSelection) isSelection()   {}
func (TargetSelection) isSelection() {}

// Select replaces the current selection. A nil selection clears it.
func (c *Capability) Select(s Selection) {
	if s == nil {
		s = NoSelection{}
	}
	c.selected = s
}

// ClearSelection selects nothing.
func (c *Capability) ClearSelection() {
	c.selected = NoSelection{}
}

// Selected returns the current selection. A bone selection whose bone or
// skeleton no longer exists reads as NoSelection.
func (c *Capability) Selected() Selection {
	if bs, ok := c.selected.(BoneSelection); ok {
		if c.resolve(bs.Address) == nil {
			return NoSelection{}
		}
	}
	return c.selected
}

// SelectedBone returns the selected live bone, or nil when nothing valid
// is selected.
func (c *Capability) SelectedBone() Bone {
	bs, ok := c.selected.(BoneSelection)
	if !ok {
		return nil
	}
	return c.resolve(bs.Address)
}

// SetHover records the hovered item; the previous one becomes LastHover.
// Hover state never enters history.
func (c *Capability) SetHover(s Selection) {
	if s == nil {
		s = NoSelection{}
	}
	c.lastHover = c.hover
	c.hover = s
}

func (c *Capability) Hover() Selection { return c.hover }

func (c *Capability) LastHover() Selection { return c.lastHover }

func (c *Capability) resolve(addr pose.BoneAddress) Bone {
	skel := c.entity.Skeleton()
	if skel == nil || !skel.Valid() {
		return nil
	}
	b, ok := skel.Bone(addr)
	if !ok {
		return nil
	}
	return b
}
