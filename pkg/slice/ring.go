package slice

import (
	"fmt"
	"math"
	"sort"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"github.com/philipparndt/meshcut/pkg/geometry"
)

// Ring is an ordered loop of points on the cutting plane bounding one
// side's cross-section.
//
// Walked rings follow the boundary edges of that side's surface, so the
// fan (p[i], centroid, p[i+1]) faces out of the side without correction.
// Rings built by OrderRing are sorted by angle around the plane normal and
// need their fan aligned explicitly.
type Ring struct {
	Points []geometry.Vector3
	Walked bool
}

// Len returns the number of points
func (r Ring) Len() int {
	return len(r.Points)
}

// Centroid returns the mean of the ring points
func (r Ring) Centroid() geometry.Vector3 {
	var sum geometry.Vector3
	if len(r.Points) == 0 {
		return sum
	}
	for _, p := range r.Points {
		sum = sum.Add(p)
	}
	return sum.Mul(1 / float64(len(r.Points)))
}

// Project returns the ring in the 2D basis of plane, closed (first point repeated)
func (r Ring) Project(plane geometry.Plane) orb.Ring {
	if len(r.Points) == 0 {
		return nil
	}
	u, v := plane.Basis()
	origin := plane.Point()
	ring := make(orb.Ring, 0, len(r.Points)+1)
	for _, p := range r.Points {
		rel := p.Sub(origin)
		ring = append(ring, orb.Point{rel.Dot(u), rel.Dot(v)})
	}
	return append(ring, ring[0])
}

// Area returns the area enclosed by the ring projected onto plane
func (r Ring) Area(plane geometry.Plane) float64 {
	if len(r.Points) < 3 {
		return 0
	}
	return planar.Area(r.Project(plane))
}

// Orientation returns the winding of the ring seen from the side the plane
// normal points to: orb.CCW for counter-clockwise.
func (r Ring) Orientation(plane geometry.Plane) orb.Orientation {
	if len(r.Points) < 3 {
		return 0
	}
	return r.Project(plane).Orientation()
}

// OrderRing orders an unordered set of cut points into a ring by sorting
// them by angle around their centroid in the plane's 2D basis. Points
// closer than eps to an earlier point are dropped. The resulting ring runs
// counter-clockwise around the plane normal.
func OrderRing(points []geometry.Vector3, plane geometry.Plane, eps float64) Ring {
	unique := make([]geometry.Vector3, 0, len(points))
	for _, p := range points {
		dup := false
		for _, q := range unique {
			if p.ApproxEqual(q, eps) {
				dup = true
				break
			}
		}
		if !dup {
			unique = append(unique, p)
		}
	}

	ring := Ring{Points: unique}
	if len(unique) < 3 {
		return ring
	}

	type polar struct {
		p     geometry.Vector3
		angle float64
	}
	u, v := plane.Basis()
	c := ring.Centroid()
	sorted := make([]polar, len(unique))
	for i, p := range unique {
		rel := p.Sub(c)
		sorted[i] = polar{p: p, angle: math.Atan2(rel.Dot(v), rel.Dot(u))}
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].angle < sorted[j].angle
	})
	for i, s := range sorted {
		unique[i] = s.p
	}
	return ring
}

// Triangulate fans the ring around its centroid, emitting
// (p[i], centroid, p[i+1]) for each consecutive pair including the closing
// one. Fans that are degenerate relative to the ring's size are skipped.
// When align is non-zero every triangle is re-wound to face along it.
func Triangulate(ring Ring, align geometry.Vector3) []geometry.Triangle {
	n := len(ring.Points)
	if n < 3 {
		return nil
	}
	c := ring.Centroid()

	// twice the area of a fan scales with the squared ring radius
	var radius2 float64
	for _, p := range ring.Points {
		radius2 = math.Max(radius2, p.Sub(c).LengthSquared())
	}
	areaEps := sliverRatio * radius2

	tris := make([]geometry.Triangle, 0, n)
	for i, p := range ring.Points {
		tri := geometry.Triangle{V1: p, V2: c, V3: ring.Points[(i+1)%n]}
		if tri.HasCoincidentVertices() || tri.IsDegenerate(areaEps) {
			continue
		}
		if !align.IsZero() {
			tri.AlignTo(align)
		}
		tri.Normal = tri.UnitNormal()
		tris = append(tris, tri)
	}
	return tris
}

// boundaryEdge is a directed on-plane edge in the winding of the triangle it came from
type boundaryEdge struct {
	from, to pointKey
}

// boundaryEdges returns the on-plane edges of ps that belong to exactly one
// piece, in order of first appearance, plus the number of on-plane edges
// shared by more than two pieces.
func boundaryEdges(ps []piece, positions map[pointKey]geometry.Vector3) (edges []boundaryEdge, nonManifold int) {
	type tally struct {
		edge  boundaryEdge
		count int
	}
	index := make(map[[2]pointKey]int)
	var tallies []tally

	for _, p := range ps {
		for i := range p {
			a, b := p[i], p[(i+1)%3]
			if a.side != geometry.On || b.side != geometry.On || a.key == b.key {
				continue
			}
			positions[a.key] = a.p
			positions[b.key] = b.p

			k := [2]pointKey{a.key, b.key}
			if less(b.key, a.key) {
				k = [2]pointKey{b.key, a.key}
			}
			if j, ok := index[k]; ok {
				tallies[j].count++
				continue
			}
			index[k] = len(tallies)
			tallies = append(tallies, tally{edge: boundaryEdge{from: a.key, to: b.key}, count: 1})
		}
	}

	for _, t := range tallies {
		switch {
		case t.count == 1:
			edges = append(edges, t.edge)
		case t.count > 2:
			nonManifold++
		}
	}
	return edges, nonManifold
}

func less(a, b pointKey) bool {
	if a.a != b.a {
		return a.a < b.a
	}
	return a.b < b.b
}

// walkRings chains boundary edges head to tail. Chains that return to
// their start become walked rings; the rest are returned as open chains.
func walkRings(edges []boundaryEdge, positions map[pointKey]geometry.Vector3) (rings []Ring, open [][]geometry.Vector3) {
	outgoing := make(map[pointKey][]int, len(edges))
	for i, e := range edges {
		outgoing[e.from] = append(outgoing[e.from], i)
	}
	used := make([]bool, len(edges))

	for i := range edges {
		if used[i] {
			continue
		}
		start := edges[i].from
		chain := []geometry.Vector3{positions[start]}
		closed := false

		for cur := i; ; {
			used[cur] = true
			to := edges[cur].to
			if to == start {
				closed = true
				break
			}
			chain = append(chain, positions[to])

			next := -1
			for _, j := range outgoing[to] {
				if !used[j] {
					next = j
					break
				}
			}
			if next < 0 {
				break
			}
			cur = next
		}

		if closed {
			rings = append(rings, Ring{Points: chain, Walked: true})
		} else {
			open = append(open, chain)
		}
	}
	return rings, open
}

// buildRings extracts the rings bounding one side's cross-section and, unless
// capping is disabled, the cap triangles closing them. align is the outward
// direction of the cap for this side.
func buildRings(ps []piece, side geometry.Side, align geometry.Vector3, plane geometry.Plane, opts Options, half *Half, diags []Diagnostic) []Diagnostic {
	eps := opts.epsilon()
	positions := make(map[pointKey]geometry.Vector3)
	edges, nonManifold := boundaryEdges(ps, positions)
	if nonManifold > 0 {
		diags = append(diags, newDiagnostic(-1, side, fmt.Errorf("%w: %d edge(s) on the plane", ErrNonManifoldEdge, nonManifold)))
	}
	if len(edges) == 0 {
		return diags
	}

	rings, open := walkRings(edges, positions)

	// Chains that did not close (open surfaces, unwelded input) are merged
	// and ordered by angle instead.
	if len(open) > 0 {
		var loose []geometry.Vector3
		for _, chain := range open {
			loose = append(loose, chain...)
		}
		diags = append(diags, newDiagnostic(-1, side, fmt.Errorf("%w: %d chain(s), %d point(s)", ErrOpenBoundary, len(open), len(loose))))

		fallback := OrderRing(loose, plane, eps)
		if fallback.Len() < 3 {
			diags = append(diags, newDiagnostic(-1, side, fmt.Errorf("%w: %d distinct point(s)", ErrDegenerateCap, fallback.Len())))
		} else {
			rings = append(rings, fallback)
		}
	}

	for _, ring := range rings {
		half.Rings = append(half.Rings, ring)
		if opts.NoCap {
			continue
		}
		dir := geometry.Vector3{}
		if !ring.Walked {
			dir = align
		}
		tris := Triangulate(ring, dir)
		if len(tris) == 0 {
			diags = append(diags, newDiagnostic(-1, side, fmt.Errorf("%w: ring of %d collinear point(s)", ErrDegenerateCap, ring.Len())))
			continue
		}
		half.Cap = append(half.Cap, tris...)
	}
	return diags
}
