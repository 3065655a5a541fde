package volume_test

import (
	"testing"

	"github.com/philipparndt/meshcut/pkg/geometry"
	"github.com/philipparndt/meshcut/pkg/primitive"
	"github.com/philipparndt/meshcut/pkg/volume"
	"github.com/stretchr/testify/assert"
)

func TestUnitCube(t *testing.T) {
	res := volume.Compute(primitive.Cube(1).WorldTriangles(), volume.Centroid)
	assert.InDelta(t, 1.0, res.Volume, 1e-12)
	assert.Greater(t, res.Signed, 0.0)
	assert.Empty(t, res.Degenerate)
	assert.InDelta(t, 0.0, res.Reference.Length(), 1e-12)
}

func TestTransformedCube(t *testing.T) {
	tests := []struct {
		name      string
		transform geometry.Transform
		want      float64
	}{
		{"far away", geometry.Translate(geometry.NewVector3(1e6, -2e6, 3e6)), 1},
		{"rotated", geometry.NewTransform(geometry.Vector3{}, geometry.NewVector3(30, 45, 60), geometry.Vector3{}), 1},
		{"scaled", geometry.Scale(geometry.NewVector3(3, 1, 1)), 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := primitive.Cube(1)
			m.Transform = tt.transform
			assert.InEpsilon(t, tt.want, volume.OfMesh(m), 1e-6)
		})
	}
}

func TestReferenceIndependence(t *testing.T) {
	m := primitive.Box(geometry.NewVector3(1, 2, 3))
	m.Transform = geometry.Translate(geometry.NewVector3(5, 5, 5))
	tris := m.WorldTriangles()

	centroid := volume.Compute(tris, volume.Centroid)
	origin := volume.Compute(tris, volume.Origin)
	assert.InDelta(t, centroid.Volume, origin.Volume, 1e-9)
	assert.Equal(t, geometry.Vector3{}, origin.Reference)
}

func TestInvertedWinding(t *testing.T) {
	tris := primitive.Cube(1).WorldTriangles()
	for i := range tris {
		tris[i].Flip()
	}
	res := volume.Compute(tris, volume.Centroid)
	assert.Less(t, res.Signed, 0.0)
	assert.InDelta(t, 1.0, res.Volume, 1e-12)
}

func TestFlatMesh(t *testing.T) {
	assert.InDelta(t, 0.0, volume.OfMesh(primitive.Quad(2)), 1e-12)
	assert.Equal(t, 0.0, volume.Of(nil))
	assert.Equal(t, 0.0, volume.OfMesh(nil))
}

func TestDegenerateTriangles(t *testing.T) {
	tris := primitive.Cube(1).WorldTriangles()
	p := geometry.NewVector3(0.5, 0.5, 0.5)
	tris = append(tris, geometry.NewFace(p, p, geometry.Vector3{}))

	res := volume.Compute(tris, volume.Centroid)
	assert.Equal(t, []int{12}, res.Degenerate)
	assert.InDelta(t, 1.0, res.Volume, 1e-9)
}

func TestParseReference(t *testing.T) {
	r, err := volume.ParseReference("origin")
	assert.NoError(t, err)
	assert.Equal(t, volume.Origin, r)

	r, err = volume.ParseReference("")
	assert.NoError(t, err)
	assert.Equal(t, volume.Centroid, r)

	_, err = volume.ParseReference("apex")
	assert.Error(t, err)
}
