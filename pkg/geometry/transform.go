package geometry

import (
	"math"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Transform maps mesh-local points into the common (world) frame. The zero
// value is the identity.
type Transform struct {
	m   sdf.M44
	set bool
}

// Identity returns the identity transform
func Identity() Transform {
	return Transform{}
}

// NewTransform composes translate * rotZ * rotY * rotX * scale. Rotation
// angles are Euler angles in degrees. A zero scale vector means unit scale.
func NewTransform(translate, rotateDeg, scale Vector3) Transform {
	if scale.IsZero() {
		scale = Vector3{X: 1, Y: 1, Z: 1}
	}
	xRad := rotateDeg.X * math.Pi / 180.0
	yRad := rotateDeg.Y * math.Pi / 180.0
	zRad := rotateDeg.Z * math.Pi / 180.0

	rot := sdf.RotateZ(zRad).Mul(sdf.RotateY(yRad)).Mul(sdf.RotateX(xRad))
	m := sdf.Translate3d(toVec(translate)).Mul(rot).Mul(sdf.Scale3d(toVec(scale)))
	return Transform{m: m, set: true}
}

// Translate returns a pure translation
func Translate(v Vector3) Transform {
	return Transform{m: sdf.Translate3d(toVec(v)), set: true}
}

// Scale returns a (possibly non-uniform) scale about the origin
func Scale(v Vector3) Transform {
	return Transform{m: sdf.Scale3d(toVec(v)), set: true}
}

// RotateX returns a rotation about the X axis by angle radians
func RotateX(angle float64) Transform {
	return Transform{m: sdf.RotateX(angle), set: true}
}

// RotateY returns a rotation about the Y axis by angle radians
func RotateY(angle float64) Transform {
	return Transform{m: sdf.RotateY(angle), set: true}
}

// RotateZ returns a rotation about the Z axis by angle radians
func RotateZ(angle float64) Transform {
	return Transform{m: sdf.RotateZ(angle), set: true}
}

// Then returns the transform that applies t first and next afterwards
func (t Transform) Then(next Transform) Transform {
	switch {
	case !next.set:
		return t
	case !t.set:
		return next
	}
	return Transform{m: next.m.Mul(t.m), set: true}
}

// IsIdentity reports whether the transform was never set
func (t Transform) IsIdentity() bool {
	return !t.set
}

// Apply maps p through the transform
func (t Transform) Apply(p Vector3) Vector3 {
	if !t.set {
		return p
	}
	return fromVec(t.m.MulPosition(toVec(p)))
}

func toVec(v Vector3) v3.Vec {
	return v3.Vec{X: v.X, Y: v.Y, Z: v.Z}
}

func fromVec(v v3.Vec) Vector3 {
	return Vector3{X: v.X, Y: v.Y, Z: v.Z}
}
