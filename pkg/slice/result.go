package slice

import (
	"errors"

	"github.com/philipparndt/meshcut/pkg/geometry"
)

// Half is the output for one side of the plane
type Half struct {
	// Surface holds the original surface on this side, split where it crossed the plane
	Surface []geometry.Triangle
	// Cap holds the triangles closing the cut, empty when capping is disabled
	Cap []geometry.Triangle
	// Rings are the boundary loops of the cross-section on this side
	Rings []Ring
}

// Triangles returns the surface followed by the cap in a new slice
func (h Half) Triangles() []geometry.Triangle {
	tris := make([]geometry.Triangle, 0, len(h.Surface)+len(h.Cap))
	tris = append(tris, h.Surface...)
	return append(tris, h.Cap...)
}

// TriangleCount returns the number of surface and cap triangles
func (h Half) TriangleCount() int {
	return len(h.Surface) + len(h.Cap)
}

// IsEmpty reports whether nothing ended up on this side
func (h Half) IsEmpty() bool {
	return h.TriangleCount() == 0
}

// Buffers returns the half as a flat vertex buffer and sequential index triples
func (h Half) Buffers() ([]float32, []uint32) {
	return geometry.Buffers(h.Triangles())
}

// Mesh returns the half as an indexed mesh in the world frame
func (h Half) Mesh(name string) *geometry.Mesh {
	return geometry.NewMeshFromTriangles(name, h.Triangles())
}

func (h *Half) reset() {
	h.Surface = h.Surface[:0]
	h.Cap = h.Cap[:0]
	h.Rings = h.Rings[:0]
}

// Result is the outcome of one slice. It is created per call, or reset and
// refilled by Slicer.SliceInto.
type Result struct {
	Below       Half
	Above       Half
	Diagnostics []Diagnostic
}

// Side returns the half for side; On yields nil
func (r *Result) Side(side geometry.Side) *Half {
	switch side {
	case geometry.Below:
		return &r.Below
	case geometry.Above:
		return &r.Above
	}
	return nil
}

// Reset empties the result while keeping its buffers for reuse
func (r *Result) Reset() {
	r.Below.reset()
	r.Above.reset()
	r.Diagnostics = r.Diagnostics[:0]
}

// Err joins all diagnostics into one error, or returns nil when there were none
func (r *Result) Err() error {
	if len(r.Diagnostics) == 0 {
		return nil
	}
	errs := make([]error, len(r.Diagnostics))
	for i, d := range r.Diagnostics {
		errs[i] = d
	}
	return errors.Join(errs...)
}

// Count returns the number of diagnostics of kind k
func (r *Result) Count(k Kind) int {
	n := 0
	for _, d := range r.Diagnostics {
		if d.Kind == k {
			n++
		}
	}
	return n
}
