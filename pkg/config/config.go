// Package config loads slice jobs from YAML or TOML files.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/philipparndt/meshcut/pkg/geometry"
	"github.com/philipparndt/meshcut/pkg/slice"
	"github.com/philipparndt/meshcut/pkg/volume"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is returned for configurations that fail validation
var ErrInvalidConfig = errors.New("invalid config")

// Plane selects the cutting plane in one of three ways: normal and offset,
// normal and a point, or three points.
type Plane struct {
	Normal  []float64   `yaml:"normal" toml:"normal"`
	Offset  float64     `yaml:"offset" toml:"offset"`
	Point   []float64   `yaml:"point" toml:"point"`
	Through [][]float64 `yaml:"through" toml:"through"`
}

// Transform places the input mesh in the world frame
type Transform struct {
	Translate []float64 `yaml:"translate" toml:"translate"`
	Rotate    []float64 `yaml:"rotate" toml:"rotate"` // degrees
	Scale     []float64 `yaml:"scale" toml:"scale"`
}

// Slice holds the kernel options
type Slice struct {
	Epsilon  float64 `yaml:"epsilon" toml:"epsilon"`
	Coplanar string  `yaml:"coplanar" toml:"coplanar"`
	NoCap    bool    `yaml:"no_cap" toml:"no_cap"`
	Workers  int     `yaml:"workers" toml:"workers"`
}

// Output names the files the halves are written to
type Output struct {
	Below string `yaml:"below" toml:"below"`
	Above string `yaml:"above" toml:"above"`
	ASCII bool   `yaml:"ascii" toml:"ascii"`
}

// Config is a complete slice job
type Config struct {
	Input     string    `yaml:"input" toml:"input"`
	Primitive string    `yaml:"primitive" toml:"primitive"`
	Plane     Plane     `yaml:"plane" toml:"plane"`
	Transform Transform `yaml:"transform" toml:"transform"`
	Slice     Slice     `yaml:"slice" toml:"slice"`
	Volume    string    `yaml:"volume" toml:"volume"` // centroid or origin
	Output    Output    `yaml:"output" toml:"output"`
}

// Default returns a job cutting at the XY plane with default options
func Default() *Config {
	return &Config{
		Plane:  Plane{Normal: []float64{0, 0, 1}},
		Slice:  Slice{Epsilon: slice.DefaultEpsilon, Coplanar: slice.CoplanarOutward.String(), Workers: 1},
		Volume: volume.Centroid.String(),
	}
}

// Load reads a YAML (.yaml, .yml) or TOML (.toml) file on top of Default
// and validates it.
func Load(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := Default()
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", filename, err)
		}
	case ".toml":
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", filename, err)
		}
	default:
		return nil, fmt.Errorf("%w: unsupported config format %q", ErrInvalidConfig, ext)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the plane can be built and every name is known
func (c *Config) Validate() error {
	if _, err := c.CutPlane(); err != nil {
		return err
	}
	if _, err := c.WorldTransform(); err != nil {
		return err
	}
	if _, err := c.SliceOptions(); err != nil {
		return err
	}
	if _, err := c.VolumeReference(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// SliceOptions converts the slice section into kernel options
func (c *Config) SliceOptions() (slice.Options, error) {
	policy, err := slice.ParseCoplanarPolicy(c.Slice.Coplanar)
	if err != nil {
		return slice.Options{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if c.Slice.Epsilon < 0 {
		return slice.Options{}, fmt.Errorf("%w: negative epsilon %g", ErrInvalidConfig, c.Slice.Epsilon)
	}
	return slice.Options{
		Epsilon:  c.Slice.Epsilon,
		Coplanar: policy,
		NoCap:    c.Slice.NoCap,
		Workers:  c.Slice.Workers,
	}, nil
}

// VolumeReference returns the configured tetrahedron apex
func (c *Config) VolumeReference() (volume.Reference, error) {
	return volume.ParseReference(c.Volume)
}

// CutPlane builds the plane. Three points take precedence over a point,
// which takes precedence over the offset.
func (c *Config) CutPlane() (geometry.Plane, error) {
	p := c.Plane
	if len(p.Through) > 0 {
		if len(p.Through) != 3 {
			return geometry.Plane{}, fmt.Errorf("%w: plane.through needs three points, got %d", ErrInvalidConfig, len(p.Through))
		}
		var pts [3]geometry.Vector3
		for i, raw := range p.Through {
			v, err := Vector(raw, "plane.through")
			if err != nil {
				return geometry.Plane{}, err
			}
			pts[i] = v
		}
		plane, err := geometry.NewPlaneFromPoints(pts[0], pts[1], pts[2])
		if err != nil {
			return geometry.Plane{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
		return plane, nil
	}

	normal, err := Vector(p.Normal, "plane.normal")
	if err != nil {
		return geometry.Plane{}, err
	}

	var plane geometry.Plane
	if len(p.Point) > 0 {
		point, err := Vector(p.Point, "plane.point")
		if err != nil {
			return geometry.Plane{}, err
		}
		plane, err = geometry.NewPlaneFromPointNormal(point, normal)
		if err != nil {
			return geometry.Plane{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
		return plane, nil
	}

	// The offset is measured along the normal as written, so scale it with
	// the normal to keep the plane in place.
	plane, err = geometry.NewPlane(normal, p.Offset*normal.Length())
	if err != nil {
		return geometry.Plane{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return plane, nil
}

// WorldTransform builds the mesh transform; missing parts are neutral
func (c *Config) WorldTransform() (geometry.Transform, error) {
	t := c.Transform
	if len(t.Translate) == 0 && len(t.Rotate) == 0 && len(t.Scale) == 0 {
		return geometry.Identity(), nil
	}

	var translate, rotate, scale geometry.Vector3
	var err error
	if len(t.Translate) > 0 {
		if translate, err = Vector(t.Translate, "transform.translate"); err != nil {
			return geometry.Transform{}, err
		}
	}
	if len(t.Rotate) > 0 {
		if rotate, err = Vector(t.Rotate, "transform.rotate"); err != nil {
			return geometry.Transform{}, err
		}
	}
	if len(t.Scale) > 0 {
		if scale, err = Vector(t.Scale, "transform.scale"); err != nil {
			return geometry.Transform{}, err
		}
		if scale.X == 0 || scale.Y == 0 || scale.Z == 0 {
			return geometry.Transform{}, fmt.Errorf("%w: transform.scale has a zero component", ErrInvalidConfig)
		}
	}
	return geometry.NewTransform(translate, rotate, scale), nil
}

// Vector converts a three element list; field names the setting in errors
func Vector(raw []float64, field string) (geometry.Vector3, error) {
	if len(raw) != 3 {
		return geometry.Vector3{}, fmt.Errorf("%w: %s needs three values, got %d", ErrInvalidConfig, field, len(raw))
	}
	return geometry.NewVector3(raw[0], raw[1], raw[2]), nil
}
