// Package xform provides the transform value shared by every pose layer.
//
// A Transform is a position/rotation/scale triple built on mgl64. Values are
// immutable by convention: every operation returns a new Transform.
//
// # Euler Convention
//
// Euler angles are expressed in degrees as (X, Y, Z) = (roll, pitch, yaw)
// and compose as q = qZ * qY * qX. ToEuler and FromEuler are inverses for
// every rotation outside gimbal lock (|Y| < 90).
package xform
