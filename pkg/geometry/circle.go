package geometry

import (
	"errors"
	"fmt"
	"math"
)

// CircleFit represents the result of fitting a circle to points
type CircleFit struct {
	Center Vector3 // Circle center in 3D
	Radius float64 // Circle radius
	Normal Vector3 // Normal of the plane containing the circle
	StdDev float64 // Standard deviation of the point distances from the circle
}

// FitCircle fits a circle through points lying in plane, for example the
// ring of a planar cut through a cylinder.
//
// The circle is computed through three points spread over the input (first,
// one third and two thirds along) with the determinant formula:
//
//	D  = 2(x1(y2-y3) + x2(y3-y1) + x3(y1-y2))
//	cx = ((x1²+y1²)(y2-y3) + (x2²+y2²)(y3-y1) + (x3²+y3²)(y1-y2)) / D
//	cy = ((x1²+y1²)(x3-x2) + (x2²+y2²)(x1-x3) + (x3²+y3²)(x2-x1)) / D
//
// StdDev over all points tells how circular the input really is.
func FitCircle(points []Vector3, plane Plane) (*CircleFit, error) {
	if len(points) < 3 {
		return nil, fmt.Errorf("need at least 3 points to fit a circle, got %d", len(points))
	}
	if err := plane.Validate(); err != nil {
		return nil, err
	}

	points2D := make([][2]float64, len(points))
	for i, p := range points {
		x, y := plane.To2D(p)
		points2D[i] = [2]float64{x, y}
	}

	n := len(points2D)
	p1, p2, p3 := points2D[0], points2D[n/3], points2D[2*n/3]
	x1, y1 := p1[0], p1[1]
	x2, y2 := p2[0], p2[1]
	x3, y3 := p3[0], p3[1]

	D := 2.0 * (x1*(y2-y3) + x2*(y3-y1) + x3*(y1-y2))
	if math.Abs(D) < 1e-10 {
		return nil, errors.New("points are collinear")
	}

	s1 := x1*x1 + y1*y1
	s2 := x2*x2 + y2*y2
	s3 := x3*x3 + y3*y3

	cx := (s1*(y2-y3) + s2*(y3-y1) + s3*(y1-y2)) / D
	cy := (s1*(x3-x2) + s2*(x1-x3) + s3*(x2-x1)) / D
	radius := math.Hypot(x1-cx, y1-cy)

	var sumError float64
	for _, p := range points2D {
		d := math.Hypot(p[0]-cx, p[1]-cy) - radius
		sumError += d * d
	}

	u, v := plane.Basis()
	center := plane.Point().Add(u.Mul(cx)).Add(v.Mul(cy))

	return &CircleFit{
		Center: center,
		Radius: radius,
		Normal: plane.Normal,
		StdDev: math.Sqrt(sumError / float64(n)),
	}, nil
}
