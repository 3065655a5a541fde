package slice

import (
	"testing"

	"github.com/philipparndt/meshcut/pkg/geometry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func face(v [3]geometry.Vector3) geometry.Triangle {
	return geometry.NewFace(v[0], v[1], v[2])
}

func totalArea(tris []geometry.Triangle) float64 {
	sum := 0.0
	for _, t := range tris {
		sum += t.Area()
	}
	return sum
}

func requireWindingKept(t *testing.T, src geometry.Triangle, tris []geometry.Triangle) {
	t.Helper()
	n := src.FaceNormal()
	for i, tri := range tris {
		require.Greater(t, tri.FaceNormal().Dot(n), 0.0, "piece %d flipped", i)
	}
}

func requireOnSide(t *testing.T, tris []geometry.Triangle, side geometry.Side) {
	t.Helper()
	for i, tri := range tris {
		for _, v := range tri.Vertices() {
			s := groundPlane.Classify(v, DefaultEpsilon)
			require.True(t, s == side || s == geometry.On, "piece %d has vertex %v on %s", i, v, s)
		}
	}
}

func TestSplitStraddle(t *testing.T) {
	tests := []struct {
		name      string
		v         [3]geometry.Vector3
		wantBelow int
		wantAbove int
	}{
		{"lone above", tri(1, -1, -1), 2, 1},
		{"lone below", tri(-1, 1, 1), 1, 2},
		{"lone in the middle", tri(-1, 2, -3), 2, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := face(tt.v)
			below, above, err := SplitTriangle(src, groundPlane, Options{})
			require.NoError(t, err)
			assert.Len(t, below, tt.wantBelow)
			assert.Len(t, above, tt.wantAbove)

			assert.InDelta(t, src.Area(), totalArea(below)+totalArea(above), 1e-12)
			requireWindingKept(t, src, below)
			requireWindingKept(t, src, above)
			requireOnSide(t, below, geometry.Below)
			requireOnSide(t, above, geometry.Above)
		})
	}
}

func TestSplitVertexCrossing(t *testing.T) {
	src := face(tri(0, -1, 1))
	below, above, err := SplitTriangle(src, groundPlane, Options{})
	require.NoError(t, err)
	require.Len(t, below, 1)
	require.Len(t, above, 1)

	assert.InDelta(t, src.Area(), below[0].Area()+above[0].Area(), 1e-12)
	requireWindingKept(t, src, below)
	requireWindingKept(t, src, above)

	// the on-plane vertex is shared by both pieces
	origin := geometry.NewVector3(0, 0, 0)
	assert.Contains(t, below[0].Vertices(), origin)
	assert.Contains(t, above[0].Vertices(), origin)
}

func TestSplitWholeTriangles(t *testing.T) {
	tests := []struct {
		name      string
		v         [3]geometry.Vector3
		wantBelow int
		wantAbove int
	}{
		{"below", tri(-1, -1, -1), 1, 0},
		{"above", tri(1, 1, 1), 0, 1},
		{"touching edge", tri(0, 0, -1), 1, 0},
		{"touching vertex", tri(0, 1, 1), 0, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := face(tt.v)
			below, above, err := SplitTriangle(src, groundPlane, Options{})
			require.NoError(t, err)
			assert.Len(t, below, tt.wantBelow)
			assert.Len(t, above, tt.wantAbove)
			for _, out := range append(below, above...) {
				assert.Equal(t, src.Vertices(), out.Vertices())
			}
		})
	}
}

func TestSplitCoplanarPolicy(t *testing.T) {
	up := face(tri(0, 0, 0)) // faces +Z, along the plane normal
	down := up
	down.Flip()

	tests := []struct {
		name      string
		src       geometry.Triangle
		policy    CoplanarPolicy
		wantBelow int
		wantAbove int
	}{
		{"outward along normal", up, CoplanarOutward, 1, 0},
		{"outward against normal", down, CoplanarOutward, 0, 1},
		{"below", down, CoplanarBelow, 1, 0},
		{"above", up, CoplanarAbove, 0, 1},
		{"drop", up, CoplanarDrop, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			below, above, err := SplitTriangle(tt.src, groundPlane, Options{Coplanar: tt.policy})
			require.NoError(t, err)
			assert.Len(t, below, tt.wantBelow)
			assert.Len(t, above, tt.wantAbove)
		})
	}
}

func TestSplitDegenerateTriangle(t *testing.T) {
	// collinear vertices crossing the plane
	src := geometry.NewFace(
		geometry.NewVector3(0, 0, -1),
		geometry.NewVector3(0, 0, 0.5),
		geometry.NewVector3(0, 0, 1),
	)
	below, above, err := SplitTriangle(src, groundPlane, Options{})
	assert.ErrorIs(t, err, ErrDegenerateTriangle)
	assert.Empty(t, below)
	assert.Empty(t, above)
}

func TestSplitInvalidPlane(t *testing.T) {
	_, _, err := SplitTriangle(face(tri(1, -1, -1)), geometry.Plane{}, Options{})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestSplitSharedEdgeIsBitIdentical(t *testing.T) {
	// two triangles sharing the edge a-b, listed in opposite directions
	a := corner{p: geometry.NewVector3(0.1, 0.2, -0.7), key: vertexKey(0), d: -0.7, side: geometry.Below}
	b := corner{p: geometry.NewVector3(0.3, 0.9, 0.3), key: vertexKey(1), d: 0.3, side: geometry.Above}

	sp := newSplitter(groundPlane, Options{})
	p, err := sp.cross(a, b)
	require.NoError(t, err)
	q, err := sp.cross(b, a)
	require.NoError(t, err)

	assert.Equal(t, p.p, q.p)
	assert.Equal(t, p.key, q.key)
	assert.Equal(t, edgeKey(0, 1), p.key)
}

func TestSplitQuadDiagonal(t *testing.T) {
	// the cut runs close to the lone vertex along one edge, so one of the
	// two quad diagonals would produce a sliver
	src := geometry.NewFace(
		geometry.NewVector3(0, 0, 1),
		geometry.NewVector3(10, 0, -9),
		geometry.NewVector3(0.1, 1, -1),
	)
	below, _, err := SplitTriangle(src, groundPlane, Options{})
	require.NoError(t, err)
	require.Len(t, below, 2)

	smaller := min(below[0].Area(), below[1].Area())
	assert.Greater(t, smaller, 0.2*totalArea(below))
}
