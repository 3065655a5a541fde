package slice

import (
	"math"
	"testing"

	"github.com/paulmach/orb"
	"github.com/philipparndt/meshcut/pkg/geometry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func square() []geometry.Vector3 {
	return []geometry.Vector3{
		geometry.NewVector3(1, 1, 0),
		geometry.NewVector3(-1, -1, 0),
		geometry.NewVector3(1, -1, 0),
		geometry.NewVector3(-1, 1, 0),
	}
}

func TestOrderRing(t *testing.T) {
	ring := OrderRing(square(), groundPlane, DefaultEpsilon)
	require.Equal(t, 4, ring.Len())
	assert.False(t, ring.Walked)

	assert.Equal(t, orb.CCW, ring.Orientation(groundPlane))
	assert.InDelta(t, 4.0, math.Abs(ring.Area(groundPlane)), 1e-12)
	assert.Equal(t, geometry.Vector3{}, ring.Centroid())
}

func TestOrderRingFlippedPlane(t *testing.T) {
	ring := OrderRing(square(), groundPlane.Flip(), DefaultEpsilon)
	// counter-clockwise around -Z is clockwise seen from +Z
	assert.Equal(t, orb.CW, ring.Orientation(groundPlane))
	assert.Equal(t, orb.CCW, ring.Orientation(groundPlane.Flip()))
}

func TestOrderRingDropsDuplicates(t *testing.T) {
	points := append(square(), geometry.NewVector3(1, 1, 1e-9), geometry.NewVector3(-1, -1, 0))
	ring := OrderRing(points, groundPlane, DefaultEpsilon)
	assert.Equal(t, 4, ring.Len())

	ring = OrderRing(points[:2], groundPlane, DefaultEpsilon)
	assert.Equal(t, 2, ring.Len())
}

func TestTriangulate(t *testing.T) {
	ring := OrderRing(square(), groundPlane, DefaultEpsilon)

	up := Triangulate(ring, groundPlane.Normal)
	require.Len(t, up, 4)
	assert.InDelta(t, 4.0, totalArea(up), 1e-12)
	for _, tri := range up {
		assert.Greater(t, tri.FaceNormal().Z, 0.0)
		assert.InDelta(t, 1.0, tri.Normal.Z, 1e-12)
	}

	down := Triangulate(ring, groundPlane.Normal.Negate())
	require.Len(t, down, 4)
	for _, tri := range down {
		assert.Less(t, tri.FaceNormal().Z, 0.0)
	}
}

func TestTriangulateDegenerate(t *testing.T) {
	assert.Empty(t, Triangulate(Ring{}, groundPlane.Normal))

	collinear := Ring{Points: []geometry.Vector3{
		geometry.NewVector3(0, 0, 0),
		geometry.NewVector3(1, 0, 0),
		geometry.NewVector3(2, 0, 0),
	}}
	assert.Empty(t, Triangulate(collinear, groundPlane.Normal))
}

func TestWalkRings(t *testing.T) {
	k := func(i int32) pointKey { return vertexKey(i) }
	positions := map[pointKey]geometry.Vector3{
		k(0): geometry.NewVector3(0, 0, 0),
		k(1): geometry.NewVector3(1, 0, 0),
		k(2): geometry.NewVector3(1, 1, 0),
		k(3): geometry.NewVector3(5, 5, 0),
		k(4): geometry.NewVector3(6, 5, 0),
	}
	edges := []boundaryEdge{
		{k(1), k(2)},
		{k(3), k(4)},
		{k(0), k(1)},
		{k(2), k(0)},
	}

	rings, open := walkRings(edges, positions)
	require.Len(t, rings, 1)
	assert.True(t, rings[0].Walked)
	assert.Equal(t, []geometry.Vector3{positions[k(1)], positions[k(2)], positions[k(0)]}, rings[0].Points)

	require.Len(t, open, 1)
	assert.Equal(t, []geometry.Vector3{positions[k(3)], positions[k(4)]}, open[0])
}

func TestBoundaryEdges(t *testing.T) {
	on := func(id int32, x, y float64) corner {
		return corner{p: geometry.NewVector3(x, y, 0), key: vertexKey(id), side: geometry.On}
	}
	below := func(id int32) corner {
		return corner{p: geometry.NewVector3(0, 0, -1), key: vertexKey(id), side: geometry.Below}
	}

	// two pieces sharing the on-plane edge 0-1, one with its own edge 1-2
	ps := []piece{
		{on(0, 0, 0), on(1, 1, 0), below(9)},
		{on(1, 1, 0), on(0, 0, 0), on(2, 1, 1)},
	}
	positions := make(map[pointKey]geometry.Vector3)
	edges, nonManifold := boundaryEdges(ps, positions)

	assert.Equal(t, 0, nonManifold)
	assert.Equal(t, []boundaryEdge{
		{vertexKey(0), vertexKey(2)},
		{vertexKey(2), vertexKey(1)},
	}, edges)
	assert.Len(t, positions, 3)
}
