// Package mirror reflects a pose across the character's YZ plane.
package mirror

import (
	"sort"
	"strings"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/roach88/livepose/internal/document"
	"github.com/roach88/livepose/internal/pose"
	"github.com/roach88/livepose/internal/xform"
)

// Denylist holds name fragments of bones that are never mirrored and are
// left out of the result.
var Denylist = []string{"iv_shiri", "iv_kougan"}

// Pose returns the mirror image of p against the live skeleton skel.
//
// Left/right pairs (suffixes _l and _r) swap with mirrored transforms when
// the counterpart is visible on the skeleton and present in p. Other bones
// are mirrored in place. Partial roots other than the skeleton root are
// copied unchanged. Bones the skeleton cannot resolve are dropped. Weapon
// maps swap hands. Bones are visited in name order so the result does not
// depend on map iteration.
//
// Mirroring the result again returns p within floating-point tolerance.
func Pose(p *document.Pose, skel pose.Skeleton) *document.Pose {
	out := document.NewPose()

	names := make([]string, 0, len(p.Bones))
	for name := range p.Bones {
		names = append(names, name)
	}
	sort.Strings(names)

	processed := make(map[string]bool, len(names))
	for _, name := range names {
		if processed[name] {
			continue
		}
		t := p.Bones[name]

		b, ok := skel.FirstVisibleBone(name)
		if !ok {
			continue
		}
		if denied(b.Name()) {
			continue
		}
		if b.IsPartialRoot() && !b.IsSkeletonRoot() {
			out.Bones[name] = t
			continue
		}

		if opposite, ok := counterpart(name, skel); ok {
			if ot, present := p.Bones[opposite]; present {
				out.Bones[name] = BoneTransform(ot)
				out.Bones[opposite] = BoneTransform(t)
				processed[name] = true
				processed[opposite] = true
				continue
			}
		}

		out.Bones[name] = BoneTransform(t)
		processed[name] = true
	}

	for name, t := range p.MainHand {
		out.OffHand[name] = BoneTransform(t)
	}
	for name, t := range p.OffHand {
		out.MainHand[name] = BoneTransform(t)
	}

	out.ModelDifference = ModelTransform(p.ModelDifference.OrIdentity())
	out.ModelAbsoluteValues = ModelTransform(p.ModelAbsoluteValues.OrIdentity())
	return out
}

// BoneTransform mirrors a bone transform: X position is negated and the
// rotation goes through BoneRotation. Scale is kept.
func BoneTransform(t xform.Transform) xform.Transform {
	return xform.Transform{
		Position: mgl64.Vec3{-t.Position[0], t.Position[1], t.Position[2]},
		Rotation: BoneRotation(t.Rotation),
		Scale:    t.Scale,
	}
}

// BoneRotation maps Euler (X, Y, Z) to (180 - X, -Y, Z).
func BoneRotation(q mgl64.Quat) mgl64.Quat {
	e := xform.ToEuler(q)
	e[0] = 180 - e[0]
	e[1] = -e[1]
	return xform.FromEuler(e)
}

// ModelTransform mirrors a model transform: X position and Euler Y are
// negated. Unlike BoneTransform, Euler X is kept.
func ModelTransform(t xform.Transform) xform.Transform {
	e := xform.ToEuler(t.Rotation)
	e[1] = -e[1]

	return xform.Transform{
		Position: mgl64.Vec3{-t.Position[0], t.Position[1], t.Position[2]},
		Rotation: xform.FromEuler(e),
		Scale:    t.Scale,
	}
}

func denied(name string) bool {
	for _, frag := range Denylist {
		if strings.Contains(name, frag) {
			return true
		}
	}
	return false
}

// counterpart returns the opposite-side name when one is visible on skel.
func counterpart(name string, skel pose.Skeleton) (string, bool) {
	var opposite string
	switch {
	case strings.HasSuffix(name, "_l"):
		opposite = strings.TrimSuffix(name, "_l") + "_r"
	case strings.HasSuffix(name, "_r"):
		opposite = strings.TrimSuffix(name, "_r") + "_l"
	default:
		return "", false
	}
	if _, ok := skel.FirstVisibleBone(opposite); !ok {
		return "", false
	}
	return opposite, true
}
