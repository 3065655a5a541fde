package main

import (
	"context"
	"fmt"
	"os"

	"github.com/philipparndt/meshcut/pkg/analysis"
	"github.com/philipparndt/meshcut/pkg/config"
	"github.com/spf13/cobra"
)

var infoSource sourceFlags

var infoCmd = &cobra.Command{
	Use:   "info [file]",
	Short: "Display general information about a mesh",
	Long:  "Show comprehensive information including dimensions, triangle count, surface area, volume, edge statistics and whether the mesh is watertight.",
	Args:  cobra.MaximumNArgs(1),
	Run:   runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
	addSourceFlags(infoCmd, &infoSource)
}

func runInfo(cmd *cobra.Command, args []string) {
	cfg := config.Default()
	inputArg(args, cfg)
	infoSource.apply(cmd, cfg)

	mesh, err := loadMesh(context.Background(), cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading mesh: %v\n", err)
		os.Exit(1)
	}

	result := analysis.Analyze(mesh)

	fmt.Println("Mesh Information")
	fmt.Println("====================")
	if result.Name != "" {
		fmt.Printf("Name: %s\n", result.Name)
	}
	if cfg.Input != "" && cfg.Primitive == "" {
		fmt.Printf("File: %s\n", cfg.Input)
	}
	fmt.Println()

	fmt.Println("Model Statistics:")
	fmt.Printf("  Triangles: %d\n", result.TriangleCount)
	fmt.Printf("  Vertices: %d\n", result.VertexCount)
	fmt.Printf("  Edges: %d\n", result.EdgeCount)
	fmt.Printf("  Surface Area: %.6f square units\n", result.SurfaceArea)
	fmt.Printf("  Volume: %.6f cubic units\n", result.Volume)
	fmt.Printf("  Watertight: %t\n", result.Watertight())
	if !result.Watertight() {
		fmt.Printf("  Boundary Edges: %d\n", result.BoundaryEdges)
		fmt.Printf("  Non-manifold Edges: %d\n", result.NonManifoldEdges)
	}
	if result.DegenerateTriangles > 0 {
		fmt.Printf("  Degenerate Triangles: %d\n", result.DegenerateTriangles)
	}
	fmt.Println()

	fmt.Println("Bounding Box:")
	fmt.Printf("  Min: %s\n", analysis.FormatVector(result.BoundingBox.Min))
	fmt.Printf("  Max: %s\n", analysis.FormatVector(result.BoundingBox.Max))
	fmt.Printf("  Center: %s\n\n", analysis.FormatVector(result.BoundingBox.Center()))

	fmt.Println("Dimensions:")
	fmt.Printf("  Width (X): %.6f units\n", result.Dimensions.X)
	fmt.Printf("  Depth (Y): %.6f units\n", result.Dimensions.Y)
	fmt.Printf("  Height (Z): %.6f units\n", result.Dimensions.Z)
	fmt.Printf("  Diagonal: %.6f units\n\n", result.BoundingBox.Diagonal())

	fmt.Println("Edge Lengths:")
	fmt.Printf("  Minimum: %.6f units\n", result.MinEdgeLength)
	fmt.Printf("  Maximum: %.6f units\n", result.MaxEdgeLength)
	fmt.Printf("  Average: %.6f units\n", result.AvgEdgeLength)
}
