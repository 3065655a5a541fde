package slice

import (
	"fmt"

	"github.com/philipparndt/meshcut/pkg/geometry"
)

// pointKey identifies a point by topology rather than by coordinates: a
// welded vertex is {id, -1} and the crossing of the edge between welded
// vertices i < j is {i, j}. Neighbouring triangles therefore agree on the
// identity of every point they share on the plane.
type pointKey struct {
	a, b int32
}

func vertexKey(id int32) pointKey {
	return pointKey{a: id, b: -1}
}

func edgeKey(i, j int32) pointKey {
	if i > j {
		i, j = j, i
	}
	return pointKey{a: i, b: j}
}

// corner is a triangle vertex annotated for splitting
type corner struct {
	p    geometry.Vector3
	key  pointKey
	d    float64
	side geometry.Side
}

// piece is an output triangle that remembers the identity of its corners
type piece [3]corner

func (p piece) faceNormal() geometry.Vector3 {
	return p[0].p.Sub(p[1].p).Cross(p[0].p.Sub(p[2].p))
}

func (p piece) hasCoincidentCorners() bool {
	for i := range p {
		j := (i + 1) % 3
		if p[i].key == p[j].key || p[i].p == p[j].p {
			return true
		}
	}
	return false
}

func (p piece) triangle() geometry.Triangle {
	return geometry.NewFace(p[0].p, p[1].p, p[2].p)
}

// pieces collects the output of the splitter for one or more triangles
type pieces struct {
	below    []piece
	above    []piece
	rejected []geometry.Side
}

func (ps *pieces) add(p piece, side geometry.Side) {
	if side == geometry.Below {
		ps.below = append(ps.below, p)
	} else {
		ps.above = append(ps.above, p)
	}
}

func (ps *pieces) reset() {
	ps.below = ps.below[:0]
	ps.above = ps.above[:0]
	ps.rejected = ps.rejected[:0]
}

type splitter struct {
	eps      float64
	coplanar CoplanarPolicy
	normal   geometry.Vector3 // plane normal
}

func newSplitter(plane geometry.Plane, opts Options) splitter {
	return splitter{
		eps:      opts.epsilon(),
		coplanar: opts.Coplanar,
		normal:   plane.Normal,
	}
}

// split distributes tri over the two sides. Triangles that do not cross
// the plane are kept as they are. Degenerate split pieces are dropped and
// recorded in out.rejected. An error means nothing was emitted for tri.
func (s splitter) split(tri piece, c Classification, out *pieces) error {
	src := tri.faceNormal()

	switch c.Case {
	case CaseBelow, CaseAbove, CaseTouching:
		out.add(tri, c.Side)
		return nil

	case CaseCoplanar:
		side := s.coplanarSide(src)
		if side != geometry.On {
			out.add(tri, side)
		}
		return nil

	case CaseVertexCrossing:
		return s.splitAtVertex(tri, src, out)

	case CaseStraddle:
		return s.splitStraddle(tri, src, out)
	}
	return fmt.Errorf("%w: unknown case %v", ErrAmbiguousTopology, c.Case)
}

func (s splitter) coplanarSide(src geometry.Vector3) geometry.Side {
	switch s.coplanar {
	case CoplanarBelow:
		return geometry.Below
	case CoplanarAbove:
		return geometry.Above
	case CoplanarOutward:
		switch d := src.Dot(s.normal); {
		case d > 0:
			return geometry.Below
		case d < 0:
			return geometry.Above
		}
	}
	return geometry.On
}

// splitAtVertex handles one vertex on the plane and the others on opposite
// sides. The on-plane vertex is used as is; only the opposite edge is cut.
func (s splitter) splitAtVertex(tri piece, src geometry.Vector3, out *pieces) error {
	k := -1
	for i, c := range tri {
		if c.side == geometry.On {
			if k >= 0 {
				return fmt.Errorf("%w: more than one vertex on the plane", ErrAmbiguousTopology)
			}
			k = i
		}
	}
	if k < 0 {
		return fmt.Errorf("%w: no vertex on the plane", ErrAmbiguousTopology)
	}

	// cyclic rotation keeps the winding
	a, b, c := tri[k], tri[(k+1)%3], tri[(k+2)%3]
	if b.side == geometry.On || b.side != c.side.Opposite() {
		return fmt.Errorf("%w: remaining vertices are not on opposite sides", ErrAmbiguousTopology)
	}

	p, err := s.cross(b, c)
	if err != nil {
		return err
	}

	s.emit(piece{a, b, p}, b.side, src, out)
	s.emit(piece{a, p, c}, c.side, src, out)
	return nil
}

// splitStraddle handles the general case: one lone vertex on one side and
// two on the other. The lone side keeps a triangle, the other a quad.
func (s splitter) splitStraddle(tri piece, src geometry.Vector3, out *pieces) error {
	lone := -1
	for i := range tri {
		prev, next := tri[(i+2)%3], tri[(i+1)%3]
		if tri[i].side != prev.side && prev.side == next.side {
			lone = i
			break
		}
	}
	if lone < 0 {
		return fmt.Errorf("%w: no lone vertex among sides %v %v %v", ErrAmbiguousTopology, tri[0].side, tri[1].side, tri[2].side)
	}

	a, b, c := tri[lone], tri[(lone+1)%3], tri[(lone+2)%3]
	if a.side == geometry.On || b.side == geometry.On {
		return fmt.Errorf("%w: straddling triangle has a vertex on the plane", ErrAmbiguousTopology)
	}

	p, err := s.cross(a, b)
	if err != nil {
		return err
	}
	q, err := s.cross(c, a)
	if err != nil {
		return err
	}

	s.emit(piece{a, p, q}, a.side, src, out)

	// Quad p, b, c, q. Cut along the diagonal whose smaller triangle is larger.
	t1, t2 := piece{p, b, c}, piece{p, c, q}
	u1, u2 := piece{p, b, q}, piece{b, c, q}
	if minArea(u1, u2) > minArea(t1, t2) {
		t1, t2 = u1, u2
	}
	s.emit(t1, b.side, src, out)
	s.emit(t2, b.side, src, out)
	return nil
}

func minArea(a, b piece) float64 {
	la, lb := a.faceNormal().LengthSquared(), b.faceNormal().LengthSquared()
	if la < lb {
		return la
	}
	return lb
}

// cross returns the corner where edge a-b meets the plane. The endpoints
// are ordered by key first so both triangles sharing the edge compute the
// same bits.
func (s splitter) cross(a, b corner) (corner, error) {
	if b.key.a < a.key.a {
		a, b = b, a
	}
	p, _, err := Intersect(a.p, b.p, a.d, b.d, s.eps)
	if err != nil {
		return corner{}, err
	}
	return corner{p: p, key: edgeKey(a.key.a, b.key.a), side: geometry.On}, nil
}

// emit appends a split piece to side after rejecting degenerate pieces and
// re-winding any piece whose normal does not agree with the source face. A
// piece is degenerate when two corners coincide or its area is negligible
// next to the source face.
func (s splitter) emit(p piece, side geometry.Side, src geometry.Vector3, out *pieces) {
	n := p.faceNormal()
	if p.hasCoincidentCorners() || n.Length() <= sliverRatio*src.Length() {
		out.rejected = append(out.rejected, side)
		return
	}
	if n.Dot(src) <= 0 {
		p[1], p[2] = p[2], p[1]
	}
	out.add(p, side)
}

// SplitTriangle splits a single world-space triangle by plane. Triangles
// that do not cross the plane are returned whole on their side. When a
// piece is degenerate it is left out and ErrDegenerateTriangle is returned
// alongside the remaining pieces.
func SplitTriangle(tri geometry.Triangle, plane geometry.Plane, opts Options) (below, above []geometry.Triangle, err error) {
	if err := plane.Validate(); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	sp := newSplitter(plane, opts)
	v := tri.Vertices()
	c := Classify(v, plane, sp.eps)

	var corners piece
	for i := range v {
		corners[i] = corner{p: v[i], key: vertexKey(int32(i)), d: c.Distances[i], side: c.Sides[i]}
	}

	var out pieces
	if err := sp.split(corners, c, &out); err != nil {
		return nil, nil, err
	}
	for _, p := range out.below {
		below = append(below, p.triangle())
	}
	for _, p := range out.above {
		above = append(above, p.triangle())
	}
	if len(out.rejected) > 0 {
		err = fmt.Errorf("%w: %d piece(s) dropped", ErrDegenerateTriangle, len(out.rejected))
	}
	return below, above, err
}
