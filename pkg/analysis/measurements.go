package analysis

import (
	"fmt"
	"math"
	"sort"

	"github.com/philipparndt/meshcut/pkg/geometry"
	"github.com/philipparndt/meshcut/pkg/slice"
	"github.com/philipparndt/meshcut/pkg/volume"
)

// EdgeInfo contains information about an edge in the mesh
type EdgeInfo struct {
	Start      geometry.Vector3
	End        geometry.Vector3
	Length     float64
	TriangleID int
}

// Report contains various measurements of a mesh
type Report struct {
	Name          string
	BoundingBox   geometry.BoundingBox
	Dimensions    geometry.Vector3
	Volume        float64
	SurfaceArea   float64
	TriangleCount int
	VertexCount   int
	EdgeCount     int // unique edges
	MinEdgeLength float64
	MaxEdgeLength float64
	AvgEdgeLength float64
	// BoundaryEdges are used by exactly one triangle
	BoundaryEdges int
	// NonManifoldEdges are used by more than two triangles
	NonManifoldEdges int
	// DegenerateTriangles have coincident vertices
	DegenerateTriangles int
	AllEdges            []EdgeInfo
}

// Watertight reports whether every edge is shared by exactly two triangles
func (r *Report) Watertight() bool {
	return r.TriangleCount > 0 && r.BoundaryEdges == 0 && r.NonManifoldEdges == 0
}

// Analyze performs comprehensive analysis on a mesh in its world frame.
// Edges are identified by vertex index, so the mesh should be welded.
func Analyze(mesh *geometry.Mesh) *Report {
	result := &Report{AllEdges: make([]EdgeInfo, 0)}
	if mesh.IsEmpty() {
		return result
	}

	triangles := mesh.WorldTriangles()
	result.Name = mesh.Name
	result.BoundingBox = mesh.BoundingBox()
	result.Dimensions = result.BoundingBox.Size()
	result.TriangleCount = len(triangles)
	result.VertexCount = mesh.VertexCount()
	result.Volume = volume.Of(triangles)

	// Collect all edges
	minLength := math.MaxFloat64
	maxLength := 0.0
	totalLength := 0.0
	uses := make(map[[2]uint32]int)

	for i, triangle := range triangles {
		result.SurfaceArea += triangle.Area()
		if triangle.HasCoincidentVertices() {
			result.DegenerateTriangles++
		}

		vertices := triangle.Vertices()
		for j := 0; j < 3; j++ {
			a, b := mesh.Indices[3*i+j], mesh.Indices[3*i+(j+1)%3]
			if a > b {
				a, b = b, a
			}
			key := [2]uint32{a, b}
			uses[key]++
			if uses[key] > 1 {
				continue
			}

			start, end := vertices[j], vertices[(j+1)%3]
			length := start.Distance(end)
			result.AllEdges = append(result.AllEdges, EdgeInfo{
				Start:      start,
				End:        end,
				Length:     length,
				TriangleID: i,
			})

			totalLength += length
			if length < minLength {
				minLength = length
			}
			if length > maxLength {
				maxLength = length
			}
		}
	}

	for _, n := range uses {
		switch {
		case n == 1:
			result.BoundaryEdges++
		case n > 2:
			result.NonManifoldEdges++
		}
	}

	result.EdgeCount = len(result.AllEdges)
	result.MinEdgeLength = minLength
	result.MaxEdgeLength = maxLength
	if result.EdgeCount > 0 {
		result.AvgEdgeLength = totalLength / float64(result.EdgeCount)
	}

	return result
}

// HalfReport summarises one side of a slice
type HalfReport struct {
	Side            geometry.Side
	SurfaceCount    int
	CapCount        int
	Rings           int
	Volume          float64
	CrossSection    float64 // area enclosed by the rings
	DegenerateCount int     // triangles skipped by the volume sum
	// Circles holds a circle fit per ring, nil where the ring is too
	// small or collinear. Useful when cutting round parts.
	Circles []*geometry.CircleFit
}

// SliceReport summarises a slice result
type SliceReport struct {
	Plane       geometry.Plane
	Below       HalfReport
	Above       HalfReport
	Diagnostics map[slice.Kind]int
}

// AnalyzeSlice measures both halves of res, which was cut by plane
func AnalyzeSlice(res *slice.Result, plane geometry.Plane, ref volume.Reference) *SliceReport {
	report := &SliceReport{
		Plane:       plane,
		Below:       analyzeHalf(&res.Below, geometry.Below, plane, ref),
		Above:       analyzeHalf(&res.Above, geometry.Above, plane, ref),
		Diagnostics: make(map[slice.Kind]int),
	}
	for _, d := range res.Diagnostics {
		report.Diagnostics[d.Kind]++
	}
	return report
}

func analyzeHalf(h *slice.Half, side geometry.Side, plane geometry.Plane, ref volume.Reference) HalfReport {
	v := volume.Compute(h.Triangles(), ref)
	hr := HalfReport{
		Side:            side,
		SurfaceCount:    len(h.Surface),
		CapCount:        len(h.Cap),
		Rings:           len(h.Rings),
		Volume:          v.Volume,
		DegenerateCount: len(v.Degenerate),
	}
	for _, r := range h.Rings {
		hr.CrossSection += math.Abs(r.Area(plane))
		fit, _ := geometry.FitCircle(r.Points, plane)
		hr.Circles = append(hr.Circles, fit)
	}
	return hr
}

// DiagnosticKinds returns the kinds present in the report in a stable order
func (r *SliceReport) DiagnosticKinds() []slice.Kind {
	kinds := make([]slice.Kind, 0, len(r.Diagnostics))
	for k := range r.Diagnostics {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

// FindEdgesByLength finds all edges within a length range
func FindEdgesByLength(result *Report, minLength, maxLength float64) []EdgeInfo {
	var edges []EdgeInfo
	for _, edge := range result.AllEdges {
		if edge.Length >= minLength && edge.Length <= maxLength {
			edges = append(edges, edge)
		}
	}
	return edges
}

// FindLongestEdges returns the N longest edges in the mesh
func FindLongestEdges(result *Report, count int) []EdgeInfo {
	edges := make([]EdgeInfo, len(result.AllEdges))
	copy(edges, result.AllEdges)

	sort.Slice(edges, func(i, j int) bool {
		return edges[i].Length > edges[j].Length
	})

	if count > len(edges) {
		count = len(edges)
	}

	return edges[:count]
}

// FindShortestEdges returns the N shortest edges in the mesh
func FindShortestEdges(result *Report, count int) []EdgeInfo {
	edges := make([]EdgeInfo, len(result.AllEdges))
	copy(edges, result.AllEdges)

	sort.Slice(edges, func(i, j int) bool {
		return edges[i].Length < edges[j].Length
	})

	if count > len(edges) {
		count = len(edges)
	}

	return edges[:count]
}

// FormatMeasurement formats a measurement with appropriate units
func FormatMeasurement(value float64, unit string) string {
	if unit == "" {
		unit = "units"
	}
	return fmt.Sprintf("%.6f %s", value, unit)
}

// FormatVector formats a 3D vector
func FormatVector(v geometry.Vector3) string {
	return fmt.Sprintf("(%.6f, %.6f, %.6f)", v.X, v.Y, v.Z)
}
