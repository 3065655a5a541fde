package stl

import (
	"github.com/philipparndt/meshcut/pkg/geometry"
)

// Model represents a complete STL model
type Model struct {
	Name      string
	Triangles []geometry.Triangle
}

// NewModel creates a new STL model
func NewModel(name string) *Model {
	return &Model{
		Name:      name,
		Triangles: make([]geometry.Triangle, 0),
	}
}

// FromTriangles wraps triangles, for example one half of a slice, as a model
func FromTriangles(name string, triangles []geometry.Triangle) *Model {
	return &Model{Name: name, Triangles: triangles}
}

// FromMesh converts an indexed mesh into a model in the world frame
func FromMesh(mesh *geometry.Mesh) *Model {
	if mesh.IsEmpty() {
		return NewModel("")
	}
	return FromTriangles(mesh.Name, mesh.WorldTriangles())
}

// AddTriangle adds a triangle to the model
func (m *Model) AddTriangle(triangle geometry.Triangle) {
	m.Triangles = append(m.Triangles, triangle)
}

// TriangleCount returns the number of triangles in the model
func (m *Model) TriangleCount() int {
	return len(m.Triangles)
}

// Mesh returns the model as an indexed mesh. Vertices with identical
// coordinates are shared, which is what gives the slicer its topology.
func (m *Model) Mesh() *geometry.Mesh {
	return geometry.NewMeshFromTriangles(m.Name, m.Triangles)
}

// BoundingBox calculates the bounding box of the entire model
func (m *Model) BoundingBox() geometry.BoundingBox {
	bbox := geometry.NewBoundingBox()
	for _, triangle := range m.Triangles {
		bbox.Extend(triangle.V1)
		bbox.Extend(triangle.V2)
		bbox.Extend(triangle.V3)
	}
	return bbox
}

// SurfaceArea calculates the total surface area of the model
func (m *Model) SurfaceArea() float64 {
	totalArea := 0.0
	for _, triangle := range m.Triangles {
		totalArea += triangle.Area()
	}
	return totalArea
}
