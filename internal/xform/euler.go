package xform

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// ToEuler converts a rotation to Euler degrees (X roll, Y pitch, Z yaw).
func ToEuler(q mgl64.Quat) mgl64.Vec3 {
	q = q.Normalize()
	w, x, y, z := q.W, q.V[0], q.V[1], q.V[2]

	sinrCosp := 2 * (w*x + y*z)
	cosrCosp := 1 - 2*(x*x+y*y)
	roll := math.Atan2(sinrCosp, cosrCosp)

	sinp := 2 * (w*y - z*x)
	var pitch float64
	if math.Abs(sinp) >= 1 {
		pitch = math.Copysign(math.Pi/2, sinp)
	} else {
		pitch = math.Asin(sinp)
	}

	sinyCosp := 2 * (w*z + x*y)
	cosyCosp := 1 - 2*(y*y+z*z)
	yaw := math.Atan2(sinyCosp, cosyCosp)

	return mgl64.Vec3{mgl64.RadToDeg(roll), mgl64.RadToDeg(pitch), mgl64.RadToDeg(yaw)}
}

// FromEuler converts Euler degrees (X roll, Y pitch, Z yaw) to a unit quaternion.
func FromEuler(e mgl64.Vec3) mgl64.Quat {
	hr := mgl64.DegToRad(e[0]) / 2
	hp := mgl64.DegToRad(e[1]) / 2
	hy := mgl64.DegToRad(e[2]) / 2

	cr, sr := math.Cos(hr), math.Sin(hr)
	cp, sp := math.Cos(hp), math.Sin(hp)
	cy, sy := math.Cos(hy), math.Sin(hy)

	return mgl64.Quat{
		W: cr*cp*cy + sr*sp*sy,
		V: mgl64.Vec3{
			sr*cp*cy - cr*sp*sy,
			cr*sp*cy + sr*cp*sy,
			cr*cp*sy - sr*sp*cy,
		},
	}.Normalize()
}
