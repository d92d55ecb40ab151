package steering

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

var up = mgl64.Vec3{0, 1, 0}

// LookRotation returns the yaw-only rotation whose forward (+Z) points
// along dir projected on the ground plane.
func LookRotation(dir mgl64.Vec3) mgl64.Quat {
	if dir.X() == 0 && dir.Z() == 0 {
		return mgl64.QuatIdent()
	}
	return mgl64.QuatRotate(math.Atan2(dir.X(), dir.Z()), up)
}

// Yaw extracts the heading angle of q around +Y.
func Yaw(q mgl64.Quat) float64 {
	f := q.Rotate(mgl64.Vec3{0, 0, 1})
	return math.Atan2(f.X(), f.Z())
}

// Slerp interpolates along the shorter arc, with t clamped to [0, 1].
func Slerp(a, b mgl64.Quat, t float64) mgl64.Quat {
	t = mgl64.Clamp(t, 0, 1)
	if a.Dot(b) < 0 {
		b = b.Scale(-1)
	}
	return mgl64.QuatSlerp(a, b, t).Normalize()
}

func sanitize(q mgl64.Quat) mgl64.Quat {
	if q.Len() < 1e-9 {
		return mgl64.QuatIdent()
	}
	return q.Normalize()
}
