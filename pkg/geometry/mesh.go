package geometry

import (
	"errors"
	"fmt"
)

// ErrInvalidMesh is returned by Mesh.Validate
var ErrInvalidMesh = errors.New("invalid mesh")

// Mesh is an indexed triangle mesh. Vertices are in local space and shared
// between triangles by index; Transform brings them into the world frame.
type Mesh struct {
	Name      string
	Vertices  []Vector3
	Indices   []uint32 // three per triangle
	Transform Transform
}

// NewMesh creates a mesh with the identity transform
func NewMesh(name string, vertices []Vector3, indices []uint32) *Mesh {
	return &Mesh{Name: name, Vertices: vertices, Indices: indices}
}

// NewMeshFromTriangles builds an indexed mesh from a triangle soup, sharing
// vertices whose coordinates are identical.
func NewMeshFromTriangles(name string, triangles []Triangle) *Mesh {
	m := &Mesh{
		Name:     name,
		Vertices: make([]Vector3, 0, len(triangles)),
		Indices:  make([]uint32, 0, len(triangles)*3),
	}
	ids := make(map[Vector3]uint32, len(triangles))
	for _, tri := range triangles {
		for _, v := range tri.Vertices() {
			id, ok := ids[v]
			if !ok {
				id = uint32(len(m.Vertices))
				ids[v] = id
				m.Vertices = append(m.Vertices, v)
			}
			m.Indices = append(m.Indices, id)
		}
	}
	return m
}

// VertexCount returns the number of vertices
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// TriangleCount returns the number of triangles
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// IsEmpty reports whether the mesh has no triangles
func (m *Mesh) IsEmpty() bool {
	return m == nil || len(m.Indices) == 0 || len(m.Vertices) == 0
}

// Validate checks that the mesh is non-empty and every index is in range
func (m *Mesh) Validate() error {
	if m.IsEmpty() {
		return fmt.Errorf("%w: no triangles", ErrInvalidMesh)
	}
	if len(m.Indices)%3 != 0 {
		return fmt.Errorf("%w: index count %d is not a multiple of 3", ErrInvalidMesh, len(m.Indices))
	}
	for i, idx := range m.Indices {
		if int(idx) >= len(m.Vertices) {
			return fmt.Errorf("%w: index %d at position %d out of range (%d vertices)", ErrInvalidMesh, idx, i, len(m.Vertices))
		}
	}
	return nil
}

// WorldVertex returns vertex i in the world frame
func (m *Mesh) WorldVertex(i int) Vector3 {
	return m.Transform.Apply(m.Vertices[i])
}

// WorldTriangles returns every triangle in the world frame. The mesh must be valid.
func (m *Mesh) WorldTriangles() []Triangle {
	world := make([]Vector3, len(m.Vertices))
	for i, v := range m.Vertices {
		world[i] = m.Transform.Apply(v)
	}
	tris := make([]Triangle, 0, m.TriangleCount())
	for i := 0; i+2 < len(m.Indices); i += 3 {
		tris = append(tris, NewFace(world[m.Indices[i]], world[m.Indices[i+1]], world[m.Indices[i+2]]))
	}
	return tris
}

// BoundingBox returns the world-space bounds of the mesh
func (m *Mesh) BoundingBox() BoundingBox {
	bbox := NewBoundingBox()
	for _, v := range m.Vertices {
		bbox.Extend(m.Transform.Apply(v))
	}
	return bbox
}

// Buffers flattens triangles into a vertex buffer (x, y, z per vertex) and
// sequential index triples, the layout mesh-construction APIs consume.
func Buffers(triangles []Triangle) ([]float32, []uint32) {
	vertices := make([]float32, 0, len(triangles)*9)
	indices := make([]uint32, 0, len(triangles)*3)
	for i, tri := range triangles {
		for j, v := range tri.Vertices() {
			vertices = append(vertices, float32(v.X), float32(v.Y), float32(v.Z))
			indices = append(indices, uint32(i*3+j))
		}
	}
	return vertices, indices
}
