package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"sort"

	"github.com/philipparndt/meshcut/pkg/analysis"
	"github.com/philipparndt/meshcut/pkg/config"
	"github.com/spf13/cobra"
)

var (
	triCount      int
	triLargest    bool
	triSmallest   bool
	triDegenerate bool
	triSource     sourceFlags
)

type triangleInfo struct {
	Index      int
	Area       float64
	Perimeter  float64
	Degenerate bool
	Vertices   string
}

var trianglesCmd = &cobra.Command{
	Use:   "triangles [file]",
	Short: "Analyze the triangles of a mesh",
	Long:  "Display information about triangles including area, perimeter, and vertex positions in the world frame.",
	Args:  cobra.MaximumNArgs(1),
	Run:   runTriangles,
}

func init() {
	rootCmd.AddCommand(trianglesCmd)

	trianglesCmd.Flags().IntVarP(&triCount, "count", "n", 10, "Number of triangles to display")
	trianglesCmd.Flags().BoolVarP(&triLargest, "largest", "l", false, "Show largest triangles by area")
	trianglesCmd.Flags().BoolVarP(&triSmallest, "smallest", "s", false, "Show smallest triangles by area")
	trianglesCmd.Flags().BoolVarP(&triDegenerate, "degenerate", "d", false, "Show only triangles with coincident vertices")
	addSourceFlags(trianglesCmd, &triSource)
}

func runTriangles(cmd *cobra.Command, args []string) {
	cfg := config.Default()
	inputArg(args, cfg)
	triSource.apply(cmd, cfg)

	mesh, err := loadMesh(context.Background(), cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading mesh: %v\n", err)
		os.Exit(1)
	}

	world := mesh.WorldTriangles()
	if len(world) == 0 {
		fmt.Println("Mesh has no triangles")
		return
	}

	triangles := make([]triangleInfo, 0, len(world))
	totalArea := 0.0
	minArea := math.MaxFloat64
	maxArea := 0.0

	for i, tri := range world {
		area := tri.Area()
		info := triangleInfo{
			Index:      i,
			Area:       area,
			Perimeter:  tri.Perimeter(),
			Degenerate: tri.HasCoincidentVertices(),
			Vertices: fmt.Sprintf("%s, %s, %s",
				analysis.FormatVector(tri.V1),
				analysis.FormatVector(tri.V2),
				analysis.FormatVector(tri.V3)),
		}

		totalArea += area
		if area < minArea {
			minArea = area
		}
		if area > maxArea {
			maxArea = area
		}

		if triDegenerate && !info.Degenerate {
			continue
		}
		triangles = append(triangles, info)
	}

	if triLargest {
		sort.SliceStable(triangles, func(i, j int) bool {
			return triangles[i].Area > triangles[j].Area
		})
	} else if triSmallest {
		sort.SliceStable(triangles, func(i, j int) bool {
			return triangles[i].Area < triangles[j].Area
		})
	}

	count := triCount
	if count > len(triangles) {
		count = len(triangles)
	}

	var title string
	switch {
	case triLargest:
		title = fmt.Sprintf("Top %d Largest Triangles", count)
	case triSmallest:
		title = fmt.Sprintf("Top %d Smallest Triangles", count)
	case triDegenerate:
		title = fmt.Sprintf("Degenerate Triangles (found %d)", len(triangles))
	default:
		title = fmt.Sprintf("First %d Triangles", count)
	}

	fmt.Println(title)
	fmt.Println("====================")
	fmt.Printf("Total triangles: %d\n", len(world))
	fmt.Printf("Total surface area: %.6f square units\n", totalArea)
	fmt.Printf("Min triangle area: %.6f square units\n", minArea)
	fmt.Printf("Max triangle area: %.6f square units\n", maxArea)
	fmt.Printf("Avg triangle area: %.6f square units\n\n", totalArea/float64(len(world)))

	for _, tri := range triangles[:count] {
		fmt.Printf("Triangle #%d:\n", tri.Index)
		fmt.Printf("  Area: %.6f square units\n", tri.Area)
		fmt.Printf("  Perimeter: %.6f units\n", tri.Perimeter)
		if tri.Degenerate {
			fmt.Println("  Degenerate: coincident vertices")
		}
		fmt.Printf("  Vertices: %s\n\n", tri.Vertices)
	}
}
