package geometry

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrZeroNormal is returned when a plane normal has no direction
	ErrZeroNormal = errors.New("plane normal is zero")
	// ErrCollinearPoints is returned when three points do not span a plane
	ErrCollinearPoints = errors.New("points are collinear")
)

// minNormalLength guards normalisation against vectors too short to have a direction
const minNormalLength = 1e-12

// Side is the position of a point relative to a plane
type Side int

const (
	Below Side = -1
	On    Side = 0
	Above Side = 1
)

func (s Side) String() string {
	switch s {
	case Below:
		return "below"
	case On:
		return "on"
	case Above:
		return "above"
	}
	return fmt.Sprintf("Side(%d)", int(s))
}

// Opposite returns the other side; On stays On
func (s Side) Opposite() Side {
	return -s
}

// Plane is the set of points p with dot(Normal, p) == Offset. Normal is a
// unit vector and Offset is the signed distance of the plane from the origin
// measured along it.
type Plane struct {
	Normal Vector3
	Offset float64
}

// NewPlane creates a plane from a normal and a signed offset along that
// normal. A non-unit normal is normalized and the offset rescaled with it.
func NewPlane(normal Vector3, offset float64) (Plane, error) {
	length := normal.Length()
	if length < minNormalLength || math.IsNaN(length) || math.IsInf(length, 0) {
		return Plane{}, ErrZeroNormal
	}
	return Plane{Normal: normal.Mul(1 / length), Offset: offset / length}, nil
}

// NewPlaneFromPointNormal creates the plane through point with the given normal
func NewPlaneFromPointNormal(point, normal Vector3) (Plane, error) {
	n := normal.Normalize()
	if normal.Length() < minNormalLength {
		return Plane{}, ErrZeroNormal
	}
	return Plane{Normal: n, Offset: n.Dot(point)}, nil
}

// NewPlaneFromPoints creates the plane through a, b and c. The normal
// follows the winding a, b, c.
func NewPlaneFromPoints(a, b, c Vector3) (Plane, error) {
	normal := b.Sub(a).Cross(c.Sub(a))
	if normal.Length() < minNormalLength {
		return Plane{}, fmt.Errorf("%w: %v %v %v", ErrCollinearPoints, a, b, c)
	}
	return NewPlaneFromPointNormal(a, normal)
}

// Validate reports ErrZeroNormal for planes built without a constructor
func (p Plane) Validate() error {
	l := p.Normal.Length()
	if l < minNormalLength || math.IsNaN(l) || math.IsNaN(p.Offset) {
		return ErrZeroNormal
	}
	return nil
}

// SignedDistance returns dot(Normal, point) - Offset
func (p Plane) SignedDistance(point Vector3) float64 {
	return p.Normal.Dot(point) - p.Offset
}

// Classify returns the side of point. Distances within eps (inclusive) are On.
func (p Plane) Classify(point Vector3, eps float64) Side {
	return SideOf(p.SignedDistance(point), eps)
}

// SideOf maps a signed distance to a side using the symmetric tolerance:
// d > eps is Above, d < -eps is Below, anything else is On.
func SideOf(d, eps float64) Side {
	switch {
	case d > eps:
		return Above
	case d < -eps:
		return Below
	}
	return On
}

// Point returns the point of the plane closest to the origin
func (p Plane) Point() Vector3 {
	return p.Normal.Mul(p.Offset)
}

// Project returns the orthogonal projection of point onto the plane
func (p Plane) Project(point Vector3) Vector3 {
	return point.Sub(p.Normal.Mul(p.SignedDistance(point)))
}

// Flip returns the same plane with Above and Below exchanged
func (p Plane) Flip() Plane {
	return Plane{Normal: p.Normal.Negate(), Offset: -p.Offset}
}

// Basis returns two unit vectors u and v spanning the plane with
// u x v == Normal.
func (p Plane) Basis() (u, v Vector3) {
	n := p.Normal
	// Start from the axis least aligned with n
	helper := Vector3{X: 1}
	if math.Abs(n.X) > math.Abs(n.Y) || math.Abs(n.X) > math.Abs(n.Z) {
		if math.Abs(n.Y) < math.Abs(n.Z) {
			helper = Vector3{Y: 1}
		} else {
			helper = Vector3{Z: 1}
		}
	}
	u = helper.Sub(n.Mul(helper.Dot(n))).Normalize()
	v = n.Cross(u)
	return u, v
}

// To2D returns the coordinates of point in the plane basis
func (p Plane) To2D(point Vector3) (float64, float64) {
	u, v := p.Basis()
	rel := point.Sub(p.Point())
	return rel.Dot(u), rel.Dot(v)
}
