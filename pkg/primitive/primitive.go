// Package primitive builds simple closed meshes for testing and for slicing
// without an input file.
package primitive

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	"github.com/philipparndt/meshcut/pkg/geometry"
)

// DefaultCells is the marching cubes resolution along the longest axis
const DefaultCells = 64

// snap is the grid marching cubes output is rounded to before welding
const snap = 1e-9

// Box returns an axis-aligned box of the given size centred at the origin,
// eight shared vertices and twelve outward facing triangles.
func Box(size geometry.Vector3) *geometry.Mesh {
	x, y, z := size.X/2, size.Y/2, size.Z/2
	vertices := []geometry.Vector3{
		{X: -x, Y: -y, Z: -z},
		{X: x, Y: -y, Z: -z},
		{X: x, Y: y, Z: -z},
		{X: -x, Y: y, Z: -z},
		{X: -x, Y: -y, Z: z},
		{X: x, Y: -y, Z: z},
		{X: x, Y: y, Z: z},
		{X: -x, Y: y, Z: z},
	}
	indices := []uint32{
		0, 3, 2, 0, 2, 1, // -z
		4, 5, 6, 4, 6, 7, // +z
		0, 1, 5, 0, 5, 4, // -y
		3, 7, 6, 3, 6, 2, // +y
		0, 4, 7, 0, 7, 3, // -x
		1, 2, 6, 1, 6, 5, // +x
	}
	return geometry.NewMesh("box", vertices, indices)
}

// Cube returns a cube with edge length size centred at the origin
func Cube(size float64) *geometry.Mesh {
	m := Box(geometry.Vector3{X: size, Y: size, Z: size})
	m.Name = "cube"
	return m
}

// Quad returns an open square of edge length size in the XY plane, centred
// at the origin and facing +Z, as two triangles.
func Quad(size float64) *geometry.Mesh {
	h := size / 2
	vertices := []geometry.Vector3{
		{X: -h, Y: -h},
		{X: h, Y: -h},
		{X: h, Y: h},
		{X: -h, Y: h},
	}
	return geometry.NewMesh("quad", vertices, []uint32{0, 1, 2, 0, 2, 3})
}

// Sphere returns a marching cubes tessellation of a sphere centred at the origin
func Sphere(radius float64, cells int) (*geometry.Mesh, error) {
	s, err := sdf.Sphere3D(radius)
	if err != nil {
		return nil, fmt.Errorf("failed to create sphere: %w", err)
	}
	return tessellate("sphere", s, cells), nil
}

// Cylinder returns a marching cubes tessellation of a cylinder along Z,
// centred at the origin.
func Cylinder(height, radius float64, cells int) (*geometry.Mesh, error) {
	s, err := sdf.Cylinder3D(height, radius, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to create cylinder: %w", err)
	}
	return tessellate("cylinder", s, cells), nil
}

// tessellate renders s and welds the triangle soup into an indexed mesh.
// Coordinates are snapped first so neighbouring cells share vertices.
func tessellate(name string, s sdf.SDF3, cells int) *geometry.Mesh {
	if cells <= 0 {
		cells = DefaultCells
	}
	triangles := render.ToTriangles(s, render.NewMarchingCubesUniform(cells))

	tris := make([]geometry.Triangle, 0, len(triangles))
	for _, t := range triangles {
		tri := geometry.NewFace(snapVec(t[0].X, t[0].Y, t[0].Z), snapVec(t[1].X, t[1].Y, t[1].Z), snapVec(t[2].X, t[2].Y, t[2].Z))
		if tri.HasCoincidentVertices() {
			continue
		}
		tris = append(tris, tri)
	}
	return geometry.NewMeshFromTriangles(name, tris)
}

func snapVec(x, y, z float64) geometry.Vector3 {
	return geometry.Vector3{
		X: math.Round(x/snap) * snap,
		Y: math.Round(y/snap) * snap,
		Z: math.Round(z/snap) * snap,
	}
}

// Builder creates a primitive mesh with default dimensions
type Builder func() (*geometry.Mesh, error)

var builders = map[string]Builder{
	"cube": func() (*geometry.Mesh, error) { return Cube(1), nil },
	"quad": func() (*geometry.Mesh, error) { return Quad(2), nil },
	"sphere": func() (*geometry.Mesh, error) {
		return Sphere(1, DefaultCells)
	},
	"cylinder": func() (*geometry.Mesh, error) {
		return Cylinder(2, 1, DefaultCells)
	},
}

// Names returns the names accepted by ByName in sorted order
func Names() []string {
	names := make([]string, 0, len(builders))
	for name := range builders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ByName builds the primitive with the given name: a unit cube, a 2x2
// quad, a unit sphere or a cylinder of radius 1 and height 2.
func ByName(name string) (*geometry.Mesh, error) {
	b, ok := builders[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("unknown primitive %q (expected one of %s)", name, strings.Join(Names(), ", "))
	}
	return b()
}
