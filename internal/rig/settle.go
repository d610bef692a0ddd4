package rig

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// ClampRotation limits the rotation angle of q to limitDeg degrees around
// its own axis. Rotations within the limit are returned unchanged.
func ClampRotation(q mgl64.Quat, limitDeg float64) mgl64.Quat {
	q = q.Normalize()
	if q.W < 0 {
		q = q.Scale(-1)
	}

	angle := 2 * math.Acos(math.Min(1, q.W))
	limit := mgl64.DegToRad(limitDeg)
	if angle <= limit {
		return q
	}

	axis := q.V
	if axis.Len() == 0 {
		return q
	}
	return mgl64.QuatRotate(limit, axis.Normalize())
}
