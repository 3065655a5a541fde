package slice

import (
	"fmt"

	"github.com/philipparndt/meshcut/pkg/geometry"
)

// Intersect returns the point where segment a-b crosses the plane, given the
// signed distances da and db of its endpoints, together with the parameter
// t in [0, 1] along the segment. The result is clamped to the segment.
//
// The endpoints must be on opposite sides or one of them within eps of the
// plane; anything else, including da == db, is ErrDegenerateEdge.
func Intersect(a, b geometry.Vector3, da, db, eps float64) (geometry.Vector3, float64, error) {
	if da == db {
		return geometry.Vector3{}, 0, fmt.Errorf("%w: endpoints at equal distance %g", ErrDegenerateEdge, da)
	}
	if (da > eps && db > eps) || (da < -eps && db < -eps) {
		return geometry.Vector3{}, 0, fmt.Errorf("%w: segment does not cross the plane (%g, %g)", ErrDegenerateEdge, da, db)
	}

	t := da / (da - db)
	switch {
	case t < 0:
		t = 0
	case t > 1:
		t = 1
	}

	switch t {
	case 0:
		return a, 0, nil
	case 1:
		return b, 1, nil
	}
	return a.Lerp(b, t), t, nil
}
