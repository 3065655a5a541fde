package main

import (
	"context"
	"fmt"
	"os"

	"github.com/philipparndt/meshcut/pkg/analysis"
	"github.com/philipparndt/meshcut/pkg/config"
	"github.com/philipparndt/meshcut/pkg/volume"
	"github.com/spf13/cobra"
)

var (
	volumeReference string
	volumeSource    sourceFlags
)

var volumeCmd = &cobra.Command{
	Use:   "volume [file]",
	Short: "Compute the enclosed volume of a closed mesh",
	Long: `Sum the signed volumes of the tetrahedra spanned by each triangle and a
reference point. The result is only meaningful for closed, consistently
wound meshes; a negative signed volume means the mesh faces inward.`,
	Args: cobra.MaximumNArgs(1),
	Run:  runVolume,
}

func init() {
	rootCmd.AddCommand(volumeCmd)

	volumeCmd.Flags().StringVar(&volumeReference, "reference", volume.Centroid.String(), "Tetrahedron apex: centroid or origin")
	addSourceFlags(volumeCmd, &volumeSource)
}

func runVolume(cmd *cobra.Command, args []string) {
	ref, err := volume.ParseReference(volumeReference)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	cfg := config.Default()
	inputArg(args, cfg)
	volumeSource.apply(cmd, cfg)

	mesh, err := loadMesh(context.Background(), cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading mesh: %v\n", err)
		os.Exit(1)
	}

	res := volume.Compute(mesh.WorldTriangles(), ref)

	fmt.Printf("Volume: %s\n", analysis.FormatMeasurement(res.Volume, "cubic units"))
	fmt.Printf("Signed: %.6f\n", res.Signed)
	fmt.Printf("Reference: %s %s\n", ref, analysis.FormatVector(res.Reference))
	if res.Signed < 0 {
		fmt.Println("Warning: negative signed volume, the mesh is wound inward")
	}
	if len(res.Degenerate) > 0 {
		fmt.Printf("Skipped %d triangle(s) with coincident vertices\n", len(res.Degenerate))
	}
}
