package pose

import (
	"fmt"
	"sort"

	"github.com/tiendc/go-deepcopy"

	"github.com/roach88/livepose/internal/xform"
)

// Info is the pose model of one entity.
type Info struct {
	Bones    map[BoneAddress]BoneEntry
	MainHand map[string]xform.Transform
	OffHand  map[string]xform.Transform

	ModelDifference     xform.Transform
	ModelAbsoluteValues xform.Transform
}

// NewInfo returns an empty pose model.
func NewInfo() *Info {
	return &Info{
		Bones:               make(map[BoneAddress]BoneEntry),
		MainHand:            make(map[string]xform.Transform),
		OffHand:             make(map[string]xform.Transform),
		ModelDifference:     xform.Identity(),
		ModelAbsoluteValues: xform.Identity(),
	}
}

// SetBoneOverride merges o into the entry at addr, creating it if needed.
// An entry whose mask stays empty is not kept.
func (p *Info) SetBoneOverride(addr BoneAddress, o Override) {
	p.ensure()
	entry, ok := p.Bones[addr]
	if !ok {
		entry = BoneEntry{Transform: xform.Identity()}
	}
	entry = entry.merge(o)
	if !entry.Overridden() {
		delete(p.Bones, addr)
		return
	}
	p.Bones[addr] = entry
}

// ClearBone drops the override at addr.
func (p *Info) ClearBone(addr BoneAddress) {
	delete(p.Bones, addr)
}

// Entry returns the override at addr.
func (p *Info) Entry(addr BoneAddress) (BoneEntry, bool) {
	e, ok := p.Bones[addr]
	return e, ok
}

// IsOverridden reports whether any bone entry accepted by pred carries an
// override. With a nil predicate weapon maps and model transforms count too.
func (p *Info) IsOverridden(pred func(BoneAddress) bool) bool {
	for addr, e := range p.Bones {
		if pred != nil && !pred(addr) {
			continue
		}
		if e.Overridden() {
			return true
		}
	}
	if pred != nil {
		return false
	}
	return len(p.MainHand) > 0 || len(p.OffHand) > 0 ||
		!p.ModelDifference.OrIdentity().ApproxEqual(xform.Identity(), 1e-9)
}

// HasIK reports whether any bone has IK enabled.
func (p *Info) HasIK() bool {
	for _, e := range p.Bones {
		if e.IK {
			return true
		}
	}
	return false
}

// Prune removes entries with an empty mask.
func (p *Info) Prune() {
	for addr, e := range p.Bones {
		if !e.Overridden() {
			delete(p.Bones, addr)
		}
	}
}

// Reset drops every override and restores identity model transforms.
func (p *Info) Reset() {
	p.Bones = make(map[BoneAddress]BoneEntry)
	p.MainHand = make(map[string]xform.Transform)
	p.OffHand = make(map[string]xform.Transform)
	p.ModelDifference = xform.Identity()
	p.ModelAbsoluteValues = xform.Identity()
}

// Clone returns a deep copy of p.
//
// Panics if the copy fails, which only happens when Info gains a field the
// copier cannot handle.
func (p *Info) Clone() *Info {
	if p == nil {
		return NewInfo()
	}
	out := &Info{}
	if err := deepcopy.Copy(out, *p); err != nil {
		panic(fmt.Sprintf("pose: clone: %v", err))
	}
	out.ensure()
	return out
}

// Equal compares two models by value within tolerance.
func (p *Info) Equal(o *Info, tolerance float64) bool {
	if len(p.Bones) != len(o.Bones) || len(p.MainHand) != len(o.MainHand) || len(p.OffHand) != len(o.OffHand) {
		return false
	}
	for addr, a := range p.Bones {
		b, ok := o.Bones[addr]
		if !ok || a.Applied != b.Applied || a.IK != b.IK || a.Mirror != b.Mirror {
			return false
		}
		if !a.Transform.ApproxEqual(b.Transform, tolerance) {
			return false
		}
	}
	if !transformMapsEqual(p.MainHand, o.MainHand, tolerance) || !transformMapsEqual(p.OffHand, o.OffHand, tolerance) {
		return false
	}
	return p.ModelDifference.OrIdentity().ApproxEqual(o.ModelDifference.OrIdentity(), tolerance) &&
		p.ModelAbsoluteValues.OrIdentity().ApproxEqual(o.ModelAbsoluteValues.OrIdentity(), tolerance)
}

// Addresses returns the bone addresses in a stable order.
func (p *Info) Addresses() []BoneAddress {
	out := make([]BoneAddress, 0, len(p.Bones))
	for addr := range p.Bones {
		out = append(out, addr)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Skeleton != b.Skeleton {
			return a.Skeleton < b.Skeleton
		}
		if a.Partial != b.Partial {
			return a.Partial < b.Partial
		}
		return a.Name < b.Name
	})
	return out
}

func (p *Info) ensure() {
	if p.Bones == nil {
		p.Bones = make(map[BoneAddress]BoneEntry)
	}
	if p.MainHand == nil {
		p.MainHand = make(map[string]xform.Transform)
	}
	if p.OffHand == nil {
		p.OffHand = make(map[string]xform.Transform)
	}
}

func transformMapsEqual(a, b map[string]xform.Transform, tolerance float64) bool {
	for name, ta := range a {
		tb, ok := b[name]
		if !ok || !ta.ApproxEqual(tb, tolerance) {
			return false
		}
	}
	return true
}
