// Package volume computes the enclosed volume of closed triangle meshes.
package volume

import (
	"fmt"
	"math"

	"github.com/philipparndt/meshcut/pkg/geometry"
)

// Reference selects the apex of the signed tetrahedra
type Reference int

const (
	// Centroid uses the mean of all vertices. It keeps the summed terms
	// small for meshes far away from the origin.
	Centroid Reference = iota
	// Origin uses (0, 0, 0)
	Origin
)

func (r Reference) String() string {
	switch r {
	case Centroid:
		return "centroid"
	case Origin:
		return "origin"
	}
	return fmt.Sprintf("Reference(%d)", int(r))
}

// ParseReference parses "centroid" or "origin"; empty selects Centroid
func ParseReference(s string) (Reference, error) {
	switch s {
	case "", "centroid":
		return Centroid, nil
	case "origin":
		return Origin, nil
	}
	return 0, fmt.Errorf("unknown volume reference %q (expected centroid or origin)", s)
}

// Result holds the outcome of a volume computation
type Result struct {
	// Volume is the absolute enclosed volume
	Volume float64
	// Signed is the raw sum; negative for inward facing meshes
	Signed float64
	// Reference is the apex used for the tetrahedra
	Reference geometry.Vector3
	// Degenerate lists triangles with coincident vertices. They contribute
	// nothing and are reported only.
	Degenerate []int
}

// Compute sums the signed volumes of the tetrahedra spanned by each triangle
// and the reference point. The mesh is assumed closed and consistently
// wound; open meshes yield a value that depends on the reference.
func Compute(triangles []geometry.Triangle, ref Reference) Result {
	var res Result
	if len(triangles) == 0 {
		return res
	}
	if ref == Centroid {
		res.Reference = centroid(triangles)
	}

	r := res.Reference
	sum := 0.0
	for i, tri := range triangles {
		if tri.HasCoincidentVertices() {
			res.Degenerate = append(res.Degenerate, i)
			continue
		}
		a, b, c := tri.V1.Sub(r), tri.V2.Sub(r), tri.V3.Sub(r)
		sum += a.Dot(b.Cross(c))
	}
	res.Signed = sum / 6
	res.Volume = math.Abs(res.Signed)
	return res
}

// Of returns the absolute volume using the centroid reference
func Of(triangles []geometry.Triangle) float64 {
	return Compute(triangles, Centroid).Volume
}

// OfMesh returns the absolute world-space volume of mesh
func OfMesh(mesh *geometry.Mesh) float64 {
	if mesh.IsEmpty() {
		return 0
	}
	return Of(mesh.WorldTriangles())
}

func centroid(triangles []geometry.Triangle) geometry.Vector3 {
	var sum geometry.Vector3
	for _, tri := range triangles {
		sum = sum.Add(tri.V1).Add(tri.V2).Add(tri.V3)
	}
	return sum.Mul(1 / float64(3*len(triangles)))
}
