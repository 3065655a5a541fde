// Package slice cuts closed triangle meshes with a plane.
//
// A Slicer makes one pass over the mesh: every triangle is classified
// against the plane, triangles crossing it are split with their winding
// preserved, and the pieces are sorted onto the side they belong to. Once
// all triangles are done, the open boundary each side has on the plane is
// walked into rings and fan-triangulated into caps so both halves are
// closed again.
package slice

import (
	"context"
	"fmt"

	"github.com/philipparndt/meshcut/pkg/geometry"
	"golang.org/x/sync/errgroup"
)

// cancelCheckInterval is how many triangles a worker processes between context checks
const cancelCheckInterval = 1024

// Slicer slices meshes and keeps its scratch buffers between calls. A
// Slicer is not safe for concurrent use; use one per goroutine.
type Slicer struct {
	opts Options

	weld  map[geometry.Vector3]int32
	ids   []int32 // mesh vertex index -> weld id
	pos   []geometry.Vector3
	dist  []float64
	sides []geometry.Side

	chunks []pieces
	diags  [][]Diagnostic
	below  []piece
	above  []piece
}

// New returns a Slicer using opts
func New(opts Options) *Slicer {
	return &Slicer{
		opts: opts,
		weld: make(map[geometry.Vector3]int32),
	}
}

// Options returns the options the slicer was created with
func (s *Slicer) Options() Options {
	return s.opts
}

// Slice cuts mesh with plane using a new Slicer configured with opts
func Slice(mesh *geometry.Mesh, plane geometry.Plane, opts Options) (*Result, error) {
	return New(opts).Slice(mesh, plane)
}

// Slice cuts mesh with plane into a new Result
func (s *Slicer) Slice(mesh *geometry.Mesh, plane geometry.Plane) (*Result, error) {
	res := &Result{}
	if err := s.SliceContext(context.Background(), res, mesh, plane); err != nil {
		return res, err
	}
	return res, nil
}

// SliceInto cuts mesh with plane, reusing the buffers of dst
func (s *Slicer) SliceInto(dst *Result, mesh *geometry.Mesh, plane geometry.Plane) error {
	return s.SliceContext(context.Background(), dst, mesh, plane)
}

// SliceContext is SliceInto with cancellation of the triangle pass. On any
// error dst is left empty.
func (s *Slicer) SliceContext(ctx context.Context, dst *Result, mesh *geometry.Mesh, plane geometry.Plane) error {
	dst.Reset()

	if mesh == nil {
		return fmt.Errorf("%w: nil mesh", ErrInvalidInput)
	}
	if err := mesh.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := plane.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	s.weldVertices(mesh, plane)

	if err := s.splitAll(ctx, mesh, plane); err != nil {
		dst.Reset()
		return fmt.Errorf("failed to split triangles: %w", err)
	}

	s.below, s.above = s.below[:0], s.above[:0]
	for i := range s.chunks {
		s.below = append(s.below, s.chunks[i].below...)
		s.above = append(s.above, s.chunks[i].above...)
		dst.Diagnostics = append(dst.Diagnostics, s.diags[i]...)
	}
	for _, p := range s.below {
		dst.Below.Surface = append(dst.Below.Surface, p.triangle())
	}
	for _, p := range s.above {
		dst.Above.Surface = append(dst.Above.Surface, p.triangle())
	}

	// Rings need every triangle of a side, so they are built after the pass.
	dst.Diagnostics = buildRings(s.below, geometry.Below, plane.Normal, plane, s.opts, &dst.Below, dst.Diagnostics)
	dst.Diagnostics = buildRings(s.above, geometry.Above, plane.Normal.Negate(), plane, s.opts, &dst.Above, dst.Diagnostics)
	return nil
}

// weldVertices brings every vertex into the world frame, merges vertices
// with identical coordinates and computes one signed distance per merged
// vertex so triangles sharing a vertex always agree on its side.
func (s *Slicer) weldVertices(mesh *geometry.Mesh, plane geometry.Plane) {
	eps := s.opts.epsilon()
	clear(s.weld)
	s.ids = s.ids[:0]
	s.pos = s.pos[:0]
	s.dist = s.dist[:0]
	s.sides = s.sides[:0]

	for _, v := range mesh.Vertices {
		w := mesh.Transform.Apply(v)
		id, ok := s.weld[w]
		if !ok {
			id = int32(len(s.pos))
			s.weld[w] = id
			d := plane.SignedDistance(w)
			s.pos = append(s.pos, w)
			s.dist = append(s.dist, d)
			s.sides = append(s.sides, geometry.SideOf(d, eps))
		}
		s.ids = append(s.ids, id)
	}
}

// splitAll runs the triangle pass, in contiguous chunks when more than one
// worker is configured. Chunks are merged in order so the output does not
// depend on scheduling.
func (s *Slicer) splitAll(ctx context.Context, mesh *geometry.Mesh, plane geometry.Plane) error {
	n := mesh.TriangleCount()
	workers := s.opts.workers()
	if workers > n {
		workers = n
	}

	for len(s.chunks) < workers {
		s.chunks = append(s.chunks, pieces{})
		s.diags = append(s.diags, nil)
	}
	s.chunks = s.chunks[:workers]
	s.diags = s.diags[:workers]
	for i := range s.chunks {
		s.chunks[i].reset()
		s.diags[i] = s.diags[i][:0]
	}

	sp := newSplitter(plane, s.opts)
	if workers == 1 {
		return s.splitRange(ctx, sp, mesh, 0, n, 0)
	}

	g, ctx := errgroup.WithContext(ctx)
	size := (n + workers - 1) / workers
	for w := 0; w < workers; w++ {
		lo, hi := w*size, min((w+1)*size, n)
		if lo >= hi {
			continue
		}
		g.Go(func() error {
			return s.splitRange(ctx, sp, mesh, lo, hi, w)
		})
	}
	return g.Wait()
}

func (s *Slicer) splitRange(ctx context.Context, sp splitter, mesh *geometry.Mesh, lo, hi, chunk int) error {
	out := &s.chunks[chunk]
	for t := lo; t < hi; t++ {
		if (t-lo)%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}

		var tri piece
		var c Classification
		for j := 0; j < 3; j++ {
			id := s.ids[mesh.Indices[3*t+j]]
			tri[j] = corner{p: s.pos[id], key: vertexKey(id), d: s.dist[id], side: s.sides[id]}
			c.Distances[j] = s.dist[id]
			c.Sides[j] = s.sides[id]
		}
		c.Case, c.Side = caseOf(c.Sides)

		rejected := len(out.rejected)
		if err := sp.split(tri, c, out); err != nil {
			s.diags[chunk] = append(s.diags[chunk], newDiagnostic(t, c.Side, err))
			continue
		}
		for _, side := range out.rejected[rejected:] {
			err := fmt.Errorf("%w: %s piece of %s triangle has no area", ErrDegenerateTriangle, side, c.Case)
			s.diags[chunk] = append(s.diags[chunk], newDiagnostic(t, side, err))
		}
	}
	return nil
}
