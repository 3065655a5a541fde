package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/philipparndt/meshcut/pkg/geometry"
	"github.com/philipparndt/meshcut/pkg/slice"
	"github.com/philipparndt/meshcut/pkg/volume"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const yamlJob = `
input: part.stl
plane:
  normal: [0, 2, 0]
  offset: 0.5
transform:
  translate: [1, 0, 0]
  rotate: [0, 0, 90]
slice:
  epsilon: 0.0001
  coplanar: drop
  workers: 4
volume: origin
output:
  below: out/below.stl
  ascii: true
`

const tomlJob = `
input = "part.stl"
volume = "origin"

[plane]
normal = [0.0, 2.0, 0.0]
offset = 0.5

[transform]
translate = [1.0, 0.0, 0.0]
rotate = [0.0, 0.0, 90.0]

[slice]
epsilon = 0.0001
coplanar = "drop"
workers = 4

[output]
below = "out/below.stl"
ascii = true
`

func write(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFormatsAgree(t *testing.T) {
	fromYAML, err := Load(write(t, "job.yaml", yamlJob))
	require.NoError(t, err)
	fromTOML, err := Load(write(t, "job.toml", tomlJob))
	require.NoError(t, err)

	assert.Equal(t, fromYAML, fromTOML)
	assert.Equal(t, "part.stl", fromYAML.Input)
	assert.True(t, fromYAML.Output.ASCII)
}

func TestLoadedJob(t *testing.T) {
	cfg, err := Load(write(t, "job.yml", yamlJob))
	require.NoError(t, err)

	opts, err := cfg.SliceOptions()
	require.NoError(t, err)
	assert.Equal(t, slice.Options{Epsilon: 0.0001, Coplanar: slice.CoplanarDrop, Workers: 4}, opts)

	ref, err := cfg.VolumeReference()
	require.NoError(t, err)
	assert.Equal(t, volume.Origin, ref)

	plane, err := cfg.CutPlane()
	require.NoError(t, err)
	assert.Equal(t, geometry.NewVector3(0, 1, 0), plane.Normal)
	assert.InDelta(t, 0.5, plane.Offset, 1e-12)

	tr, err := cfg.WorldTransform()
	require.NoError(t, err)
	p := tr.Apply(geometry.NewVector3(1, 0, 0))
	assert.InDelta(t, 1.0, p.X, 1e-12)
	assert.InDelta(t, 1.0, p.Y, 1e-12)
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	plane, err := cfg.CutPlane()
	require.NoError(t, err)
	assert.Equal(t, geometry.NewVector3(0, 0, 1), plane.Normal)

	tr, err := cfg.WorldTransform()
	require.NoError(t, err)
	assert.True(t, tr.IsIdentity())
}

func TestPlaneVariants(t *testing.T) {
	cfg := Default()
	cfg.Plane = Plane{Normal: []float64{1, 0, 0}, Point: []float64{2, 5, 5}}
	plane, err := cfg.CutPlane()
	require.NoError(t, err)
	assert.InDelta(t, 2.0, plane.Offset, 1e-12)

	cfg.Plane = Plane{Through: [][]float64{{0, 0, 3}, {1, 0, 3}, {0, 1, 3}}}
	plane, err = cfg.CutPlane()
	require.NoError(t, err)
	assert.Equal(t, geometry.NewVector3(0, 0, 1), plane.Normal)
	assert.InDelta(t, 3.0, plane.Offset, 1e-12)
}

func TestInvalid(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"zero normal", func(c *Config) { c.Plane.Normal = []float64{0, 0, 0} }},
		{"short normal", func(c *Config) { c.Plane.Normal = []float64{0, 1} }},
		{"collinear points", func(c *Config) { c.Plane.Through = [][]float64{{0, 0, 0}, {1, 0, 0}, {2, 0, 0}} }},
		{"two points", func(c *Config) { c.Plane.Through = [][]float64{{0, 0, 0}, {1, 0, 0}} }},
		{"coplanar policy", func(c *Config) { c.Slice.Coplanar = "sideways" }},
		{"negative epsilon", func(c *Config) { c.Slice.Epsilon = -1 }},
		{"volume reference", func(c *Config) { c.Volume = "apex" }},
		{"zero scale", func(c *Config) { c.Transform.Scale = []float64{1, 0, 1} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(write(t, "job.json", "{}"))
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = Load(write(t, "job.yaml", "plane: [oops"))
	assert.Error(t, err)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
