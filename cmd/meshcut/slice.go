package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/philipparndt/meshcut/pkg/analysis"
	"github.com/philipparndt/meshcut/pkg/config"
	"github.com/philipparndt/meshcut/pkg/geometry"
	"github.com/philipparndt/meshcut/pkg/slice"
	"github.com/philipparndt/meshcut/pkg/stl"
	"github.com/philipparndt/meshcut/pkg/watcher"
	"github.com/spf13/cobra"
)

var (
	sliceConfigFile string
	sliceNormal     []float64
	sliceOffset     float64
	slicePoint      []float64
	sliceThrough    []float64
	sliceCoplanar   string
	sliceEpsilon    float64
	sliceWorkers    int
	sliceNoCap      bool
	sliceBelow      string
	sliceAbove      string
	sliceASCII      bool
	sliceVolume     string
	sliceWatch      bool
	sliceSource     sourceFlags
)

var sliceCmd = &cobra.Command{
	Use:   "slice [file]",
	Short: "Cut a mesh with a plane into two closed halves",
	Long: `Cut a mesh with a plane and report both halves: triangle and cap counts,
volumes and cross-section area. Use --below and --above to write the halves
as STL files.

The plane is given by --normal and --offset (distance from the origin along
the normal), by --normal and --point, or by --through with three points.
Settings can also be loaded from a YAML or TOML file with --config; flags
override the file.`,
	Example: `  meshcut slice part.stl --normal 0,0,1 --offset 10 --below bottom.stl --above top.stl
  meshcut slice --primitive sphere --through 0,0,0,1,0,0,0,1,0
  meshcut slice --config job.yaml --watch`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSlice,
}

func init() {
	rootCmd.AddCommand(sliceCmd)

	f := sliceCmd.Flags()
	f.StringVarP(&sliceConfigFile, "config", "c", "", "Load settings from a YAML or TOML file")
	f.Float64SliceVar(&sliceNormal, "normal", []float64{0, 0, 1}, "Plane normal x,y,z")
	f.Float64Var(&sliceOffset, "offset", 0, "Plane distance from the origin along the normal")
	f.Float64SliceVar(&slicePoint, "point", nil, "A point x,y,z on the plane, used with --normal")
	f.Float64SliceVar(&sliceThrough, "through", nil, "Three points x1,y1,z1,x2,y2,z2,x3,y3,z3 spanning the plane")
	f.StringVar(&sliceCoplanar, "coplanar", slice.CoplanarOutward.String(), "Where triangles lying in the plane go: outward, below, above or drop")
	f.Float64Var(&sliceEpsilon, "epsilon", slice.DefaultEpsilon, "Distance within which a vertex counts as on the plane")
	f.IntVar(&sliceWorkers, "workers", 1, "Split the triangle pass across this many goroutines")
	f.BoolVar(&sliceNoCap, "no-cap", false, "Leave the halves open along the cut")
	f.StringVar(&sliceBelow, "below", "", "Write the half below the plane to this STL file")
	f.StringVar(&sliceAbove, "above", "", "Write the half above the plane to this STL file")
	f.BoolVar(&sliceASCII, "ascii", false, "Write ASCII instead of binary STL")
	f.StringVar(&sliceVolume, "volume-reference", "centroid", "Tetrahedron apex for the volumes: centroid or origin")
	f.BoolVarP(&sliceWatch, "watch", "w", false, "Slice again whenever the input changes")
	addSourceFlags(sliceCmd, &sliceSource)
}

// sliceJob assembles the job from the config file and the flags that were set
func sliceJob(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.Default()
	if sliceConfigFile != "" {
		loaded, err := config.Load(sliceConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	inputArg(args, cfg)
	sliceSource.apply(cmd, cfg)

	flags := cmd.Flags()
	if flags.Changed("normal") || flags.Changed("offset") || flags.Changed("point") {
		cfg.Plane = config.Plane{Normal: sliceNormal, Offset: sliceOffset, Point: slicePoint}
	}
	if flags.Changed("through") {
		if len(sliceThrough) != 9 {
			return nil, fmt.Errorf("--through needs nine values, got %d", len(sliceThrough))
		}
		cfg.Plane = config.Plane{Through: [][]float64{sliceThrough[0:3], sliceThrough[3:6], sliceThrough[6:9]}}
	}
	if flags.Changed("coplanar") {
		cfg.Slice.Coplanar = sliceCoplanar
	}
	if flags.Changed("epsilon") {
		cfg.Slice.Epsilon = sliceEpsilon
	}
	if flags.Changed("workers") {
		cfg.Slice.Workers = sliceWorkers
	}
	if flags.Changed("no-cap") {
		cfg.Slice.NoCap = sliceNoCap
	}
	if flags.Changed("below") {
		cfg.Output.Below = sliceBelow
	}
	if flags.Changed("above") {
		cfg.Output.Above = sliceAbove
	}
	if flags.Changed("ascii") {
		cfg.Output.ASCII = sliceASCII
	}
	if flags.Changed("volume-reference") {
		cfg.Volume = sliceVolume
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runSlice(cmd *cobra.Command, args []string) error {
	cfg, err := sliceJob(cmd, args)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	opts, err := cfg.SliceOptions()
	if err != nil {
		return err
	}
	slicer := slice.New(opts)
	var res slice.Result

	if !sliceWatch {
		return sliceOnce(ctx, cfg, slicer, &res)
	}

	files, err := watchedFiles(cfg)
	if err != nil {
		return err
	}

	if err := sliceOnce(ctx, cfg, slicer, &res); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}

	fw, err := watcher.NewFileWatcher(200 * time.Millisecond)
	if err != nil {
		return err
	}
	defer fw.Close()

	// Reruns are serialised through this channel so the slicer and result
	// are only used from this goroutine.
	changed := make(chan string, 1)
	if err := fw.Watch(files, func(path string) {
		select {
		case changed <- path:
		default:
		}
	}); err != nil {
		return err
	}

	done := make(chan error, 1)
	go func() { done <- fw.Run(ctx) }()

	fmt.Printf("\nWatching %s (Ctrl+C to stop)\n", strings.Join(files, ", "))
	return watchLoop(ctx, changed, done, func(path string) {
		fmt.Printf("\n%s changed, slicing again\n\n", filepath.Base(path))
		if err := sliceOnce(ctx, cfg, slicer, &res); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
	})
}

// watchLoop calls rerun for every change until the watcher stops. Stopping
// through ctx is a clean exit.
func watchLoop(ctx context.Context, changed <-chan string, done <-chan error, rerun func(path string)) error {
	for {
		select {
		case path := <-changed:
			rerun(path)
		case <-ctx.Done():
			<-done
			return nil
		case err := <-done:
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}
	}
}

func sliceOnce(ctx context.Context, cfg *config.Config, slicer *slice.Slicer, res *slice.Result) error {
	mesh, err := loadMesh(ctx, cfg)
	if err != nil {
		return err
	}
	plane, err := cfg.CutPlane()
	if err != nil {
		return err
	}
	ref, err := cfg.VolumeReference()
	if err != nil {
		return err
	}

	start := time.Now()
	if err := slicer.SliceContext(ctx, res, mesh, plane); err != nil {
		return err
	}
	elapsed := time.Since(start)

	printSliceReport(mesh, analysis.AnalyzeSlice(res, plane, ref), elapsed)
	printDiagnostics(res.Diagnostics)

	if err := writeHalf(cfg.Output.Below, mesh.Name+" below", res.Below, cfg.Output.ASCII); err != nil {
		return err
	}
	return writeHalf(cfg.Output.Above, mesh.Name+" above", res.Above, cfg.Output.ASCII)
}

func writeHalf(path, name string, half slice.Half, ascii bool) error {
	if path == "" {
		return nil
	}
	if err := stl.Save(path, stl.FromTriangles(name, half.Triangles()), ascii); err != nil {
		return err
	}
	fmt.Printf("Wrote %d triangles to %s\n", half.TriangleCount(), path)
	return nil
}

func printSliceReport(mesh *geometry.Mesh, report *analysis.SliceReport, elapsed time.Duration) {
	fmt.Println("Slice Result")
	fmt.Println("====================")
	if mesh.Name != "" {
		fmt.Printf("Mesh: %s (%d triangles)\n", mesh.Name, mesh.TriangleCount())
	}
	fmt.Printf("Plane: normal %s, offset %.6f\n", analysis.FormatVector(report.Plane.Normal), report.Plane.Offset)
	fmt.Printf("Time: %s\n\n", elapsed.Round(time.Microsecond))

	for _, h := range []analysis.HalfReport{report.Below, report.Above} {
		title := strings.ToUpper(h.Side.String()[:1]) + h.Side.String()[1:]
		fmt.Printf("%s:\n", title)
		fmt.Printf("  Surface Triangles: %d\n", h.SurfaceCount)
		fmt.Printf("  Cap Triangles: %d\n", h.CapCount)
		fmt.Printf("  Rings: %d\n", h.Rings)
		fmt.Printf("  Cross Section: %.6f square units\n", h.CrossSection)
		for i, c := range h.Circles {
			if c == nil {
				continue
			}
			fmt.Printf("  Ring %d: center %s, radius %.6f (std dev %.6f)\n",
				i+1, analysis.FormatVector(c.Center), c.Radius, c.StdDev)
		}
		fmt.Printf("  Volume: %.6f cubic units\n\n", h.Volume)
	}
	fmt.Printf("Total Volume: %.6f cubic units\n", report.Below.Volume+report.Above.Volume)

	if len(report.Diagnostics) > 0 {
		fmt.Println("\nDiagnostics:")
		for _, k := range report.DiagnosticKinds() {
			fmt.Printf("  %s: %d\n", k, report.Diagnostics[k])
		}
	}
}

// maxDiagnostics limits how many diagnostics are printed in full
const maxDiagnostics = 10

func printDiagnostics(diags []slice.Diagnostic) {
	for i, d := range diags {
		if i == maxDiagnostics {
			fmt.Fprintf(os.Stderr, "... and %d more\n", len(diags)-maxDiagnostics)
			return
		}
		fmt.Fprintf(os.Stderr, "Warning: %v\n", d)
	}
}
