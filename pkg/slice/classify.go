package slice

import (
	"fmt"

	"github.com/philipparndt/meshcut/pkg/geometry"
)

// Case is the topological relation of a triangle to the cutting plane
type Case int

const (
	// CaseBelow: every vertex strictly below
	CaseBelow Case = iota
	// CaseAbove: every vertex strictly above
	CaseAbove
	// CaseCoplanar: every vertex on the plane
	CaseCoplanar
	// CaseTouching: one or two vertices on the plane, the rest on one side.
	// There is no crossing and the triangle belongs wholly to that side.
	CaseTouching
	// CaseVertexCrossing: one vertex on the plane and the other two on
	// opposite sides. The on-plane vertex is one end of the cut.
	CaseVertexCrossing
	// CaseStraddle: no vertex on the plane and vertices on both sides
	CaseStraddle
)

func (c Case) String() string {
	switch c {
	case CaseBelow:
		return "below"
	case CaseAbove:
		return "above"
	case CaseCoplanar:
		return "coplanar"
	case CaseTouching:
		return "touching"
	case CaseVertexCrossing:
		return "vertex-crossing"
	case CaseStraddle:
		return "straddle"
	}
	return fmt.Sprintf("Case(%d)", int(c))
}

// Classification is the result of classifying one triangle
type Classification struct {
	Case Case
	// Side is the side the whole triangle belongs to for CaseBelow,
	// CaseAbove and CaseTouching, and On otherwise.
	Side      geometry.Side
	Distances [3]float64
	Sides     [3]geometry.Side
}

// Classify computes the signed distance of each vertex to plane and buckets
// the triangle. It never fails: degenerate triangles are classified like
// any other and left for the splitter to reject.
func Classify(v [3]geometry.Vector3, plane geometry.Plane, eps float64) Classification {
	var c Classification
	for i, p := range v {
		c.Distances[i] = plane.SignedDistance(p)
		c.Sides[i] = geometry.SideOf(c.Distances[i], eps)
	}
	c.Case, c.Side = caseOf(c.Sides)
	return c
}

// OnPlane returns the number of vertices on the plane
func (c Classification) OnPlane() int {
	n := 0
	for _, s := range c.Sides {
		if s == geometry.On {
			n++
		}
	}
	return n
}

// Crosses reports whether the triangle has to be split
func (c Classification) Crosses() bool {
	return c.Case == CaseStraddle || c.Case == CaseVertexCrossing
}

func caseOf(sides [3]geometry.Side) (Case, geometry.Side) {
	var below, on, above int
	for _, s := range sides {
		switch s {
		case geometry.Below:
			below++
		case geometry.Above:
			above++
		default:
			on++
		}
	}

	switch {
	case on == 3:
		return CaseCoplanar, geometry.On
	case on == 0 && above == 0:
		return CaseBelow, geometry.Below
	case on == 0 && below == 0:
		return CaseAbove, geometry.Above
	case above == 0:
		return CaseTouching, geometry.Below
	case below == 0:
		return CaseTouching, geometry.Above
	case on == 1:
		return CaseVertexCrossing, geometry.On
	}
	return CaseStraddle, geometry.On
}
