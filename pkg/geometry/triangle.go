package geometry

// Triangle is an ordered vertex triple. The winding V1, V2, V3 defines the
// face orientation; Normal carries the facet normal stored alongside it (as
// in STL files) and may be zero when unknown.
type Triangle struct {
	Normal     Vector3
	V1, V2, V3 Vector3
}

// NewTriangle creates a triangle from a facet normal and three vertices
func NewTriangle(normal, v1, v2, v3 Vector3) Triangle {
	return Triangle{Normal: normal, V1: v1, V2: v2, V3: v3}
}

// NewFace creates a triangle whose stored normal is derived from its winding
func NewFace(v1, v2, v3 Vector3) Triangle {
	t := Triangle{V1: v1, V2: v2, V3: v3}
	t.Normal = t.UnitNormal()
	return t
}

// Vertices returns the three vertices in winding order
func (t Triangle) Vertices() [3]Vector3 {
	return [3]Vector3{t.V1, t.V2, t.V3}
}

// FaceNormal returns cross(V1-V2, V1-V3). Its length is twice the area.
func (t Triangle) FaceNormal() Vector3 {
	return t.V1.Sub(t.V2).Cross(t.V1.Sub(t.V3))
}

// UnitNormal returns the normalized face normal, or zero for degenerate triangles
func (t Triangle) UnitNormal() Vector3 {
	return t.FaceNormal().Normalize()
}

// Area returns the surface area of the triangle
func (t Triangle) Area() float64 {
	return t.FaceNormal().Length() / 2
}

// EdgeLengths returns the lengths of V1-V2, V2-V3 and V3-V1
func (t Triangle) EdgeLengths() [3]float64 {
	return [3]float64{
		t.V1.Distance(t.V2),
		t.V2.Distance(t.V3),
		t.V3.Distance(t.V1),
	}
}

// Perimeter returns the sum of the edge lengths
func (t Triangle) Perimeter() float64 {
	e := t.EdgeLengths()
	return e[0] + e[1] + e[2]
}

// Center returns the centroid of the triangle
func (t Triangle) Center() Vector3 {
	s := t.V1.Add(t.V2).Add(t.V3)
	return Vector3{X: s.X / 3, Y: s.Y / 3, Z: s.Z / 3}
}

// IsDegenerate reports whether twice the area is at most eps, which covers
// coincident and collinear vertices.
func (t Triangle) IsDegenerate(eps float64) bool {
	return t.FaceNormal().Length() <= eps
}

// HasCoincidentVertices reports whether any two vertices are identical
func (t Triangle) HasCoincidentVertices() bool {
	return t.V1 == t.V2 || t.V1 == t.V3 || t.V2 == t.V3
}

// Flip reverses the winding in place
func (t *Triangle) Flip() {
	t.V2, t.V3 = t.V3, t.V2
	t.Normal = t.Normal.Negate()
}

// AlignTo re-winds the triangle in place so that its face normal points
// along dir. It reports whether the vertices were swapped.
func (t *Triangle) AlignTo(dir Vector3) bool {
	if t.FaceNormal().Dot(dir) > 0 {
		return false
	}
	t.V2, t.V3 = t.V3, t.V2
	t.Normal = t.UnitNormal()
	return true
}
