package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/philipparndt/meshcut/pkg/config"
	"github.com/philipparndt/meshcut/pkg/geometry"
	"github.com/philipparndt/meshcut/pkg/openscad"
	"github.com/philipparndt/meshcut/pkg/primitive"
	"github.com/philipparndt/meshcut/pkg/stl"
	"github.com/spf13/cobra"
)

// sourceFlags select the input mesh and place it in the world frame
type sourceFlags struct {
	primitive string
	translate []float64
	rotate    []float64
	scale     []float64
}

func addSourceFlags(cmd *cobra.Command, f *sourceFlags) {
	cmd.Flags().StringVar(&f.primitive, "primitive", "", fmt.Sprintf("Use a built-in mesh instead of a file (%v)", primitive.Names()))
	cmd.Flags().Float64SliceVar(&f.translate, "translate", nil, "Translate the mesh by x,y,z")
	cmd.Flags().Float64SliceVar(&f.rotate, "rotate", nil, "Rotate the mesh by x,y,z degrees (applied X, then Y, then Z)")
	cmd.Flags().Float64SliceVar(&f.scale, "scale", nil, "Scale the mesh by x,y,z")
}

// apply copies the flags the user set onto cfg
func (f *sourceFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("primitive") {
		cfg.Primitive = f.primitive
	}
	if cmd.Flags().Changed("translate") {
		cfg.Transform.Translate = f.translate
	}
	if cmd.Flags().Changed("rotate") {
		cfg.Transform.Rotate = f.rotate
	}
	if cmd.Flags().Changed("scale") {
		cfg.Transform.Scale = f.scale
	}
}

// inputArg resolves the input file from the arguments or the config
func inputArg(args []string, cfg *config.Config) {
	if len(args) > 0 {
		cfg.Input = args[0]
	}
}

// loadMesh builds the mesh described by cfg: a primitive, an OpenSCAD
// source or an STL file, with the configured transform.
func loadMesh(ctx context.Context, cfg *config.Config) (*geometry.Mesh, error) {
	transform, err := cfg.WorldTransform()
	if err != nil {
		return nil, err
	}

	var mesh *geometry.Mesh
	switch {
	case cfg.Primitive != "":
		mesh, err = primitive.ByName(cfg.Primitive)
		if err != nil {
			return nil, err
		}

	case cfg.Input == "":
		return nil, fmt.Errorf("no input: pass a file or --primitive")

	case openscad.IsSource(cfg.Input):
		abs, err := filepath.Abs(cfg.Input)
		if err != nil {
			return nil, err
		}
		model, err := openscad.NewRenderer(filepath.Dir(abs)).Render(ctx, abs)
		if err != nil {
			return nil, err
		}
		mesh = model.Mesh()

	default:
		model, err := stl.Parse(cfg.Input)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", cfg.Input, err)
		}
		mesh = model.Mesh()
		if mesh.Name == "" {
			mesh.Name = filepath.Base(cfg.Input)
		}
	}

	mesh.Transform = transform
	return mesh, nil
}

// watchedFiles returns the files whose change should trigger a rerun
func watchedFiles(cfg *config.Config) ([]string, error) {
	if cfg.Input == "" {
		return nil, fmt.Errorf("--watch needs an input file")
	}
	if openscad.IsSource(cfg.Input) {
		abs, err := filepath.Abs(cfg.Input)
		if err != nil {
			return nil, err
		}
		return openscad.NewRenderer(filepath.Dir(abs)).ResolveDependencies(abs)
	}
	return []string{cfg.Input}, nil
}
