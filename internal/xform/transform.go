package xform

import "github.com/go-gl/mathgl/mgl64"

// Transform is a position/rotation/scale triple.
type Transform struct {
	Position mgl64.Vec3
	Rotation mgl64.Quat
	Scale    mgl64.Vec3
}

// Identity returns the transform that leaves a bone untouched.
func Identity() Transform {
	return Transform{
		Position: mgl64.Vec3{0, 0, 0},
		Rotation: mgl64.QuatIdent(),
		Scale:    mgl64.Vec3{1, 1, 1},
	}
}

// New builds a transform from its parts.
func New(position mgl64.Vec3, rotation mgl64.Quat, scale mgl64.Vec3) Transform {
	return Transform{Position: position, Rotation: rotation, Scale: scale}
}

// IsZero reports whether t is the zero value, which is not a valid transform
// (zero quaternion, zero scale).
func (t Transform) IsZero() bool {
	return t == Transform{}
}

// OrIdentity returns Identity for the zero value and t otherwise.
func (t Transform) OrIdentity() Transform {
	if t.IsZero() {
		return Identity()
	}
	return t
}

// Apply returns a copy of t with the components selected by mask taken
// from src. Unselected components keep their current value.
func (t Transform) Apply(src Transform, mask Components) Transform {
	out := t
	if mask&Position != 0 {
		out.Position = src.Position
	}
	if mask&Rotation != 0 {
		out.Rotation = src.Rotation
	}
	if mask&Scale != 0 {
		out.Scale = src.Scale
	}
	return out
}

// Compose layers a relative transform on top of t: positions add, rotations
// multiply (t then delta) and scales multiply per axis.
func (t Transform) Compose(delta Transform) Transform {
	return Transform{
		Position: t.Position.Add(delta.Position),
		Rotation: t.Rotation.Mul(delta.Rotation).Normalize(),
		Scale: mgl64.Vec3{
			t.Scale[0] * delta.Scale[0],
			t.Scale[1] * delta.Scale[1],
			t.Scale[2] * delta.Scale[2],
		},
	}
}

// ApproxEqual compares two transforms within tolerance. Rotations are
// compared up to sign since q and -q describe the same orientation.
func (t Transform) ApproxEqual(o Transform, tolerance float64) bool {
	return t.Position.ApproxEqualThreshold(o.Position, tolerance) &&
		t.Scale.ApproxEqualThreshold(o.Scale, tolerance) &&
		SameRotation(t.Rotation, o.Rotation, tolerance)
}

// SameRotation reports whether a and b describe the same orientation.
func SameRotation(a, b mgl64.Quat, tolerance float64) bool {
	d := a.Normalize().Dot(b.Normalize())
	if d < 0 {
		d = -d
	}
	return 1-d <= tolerance
}
