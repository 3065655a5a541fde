package stl

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/philipparndt/meshcut/pkg/geometry"
)

// WriteBinary writes model as binary STL. Facet normals are recomputed
// from the winding.
func WriteBinary(w io.Writer, model *Model) error {
	if uint64(len(model.Triangles)) > math.MaxUint32 {
		return fmt.Errorf("too many triangles for binary STL: %d", len(model.Triangles))
	}
	bw := bufio.NewWriter(w)

	header := make([]byte, headerSize)
	copy(header, model.Name)
	if _, err := bw.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if err := binary.Write(bw, binary.LittleEndian, uint32(len(model.Triangles))); err != nil {
		return fmt.Errorf("failed to write triangle count: %w", err)
	}

	for i, tri := range model.Triangles {
		t := binaryTriangle{
			Normal: f32(tri.UnitNormal()),
			V1:     f32(tri.V1),
			V2:     f32(tri.V2),
			V3:     f32(tri.V3),
		}
		if err := binary.Write(bw, binary.LittleEndian, &t); err != nil {
			return fmt.Errorf("failed to write triangle %d: %w", i, err)
		}
	}
	return bw.Flush()
}

func f32(v geometry.Vector3) [3]float32 {
	return [3]float32{float32(v.X), float32(v.Y), float32(v.Z)}
}

// WriteASCII writes model as ASCII STL
func WriteASCII(w io.Writer, model *Model) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "solid %s\n", model.Name)
	for _, tri := range model.Triangles {
		n := tri.UnitNormal()
		fmt.Fprintf(bw, "  facet normal %g %g %g\n", n.X, n.Y, n.Z)
		fmt.Fprintln(bw, "    outer loop")
		for _, v := range tri.Vertices() {
			fmt.Fprintf(bw, "      vertex %g %g %g\n", v.X, v.Y, v.Z)
		}
		fmt.Fprintln(bw, "    endloop")
		fmt.Fprintln(bw, "  endfacet")
	}
	fmt.Fprintf(bw, "endsolid %s\n", model.Name)
	return bw.Flush()
}

// Save writes model to filename, creating parent directories as needed
func Save(filename string, model *Model, ascii bool) error {
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}

	write := WriteBinary
	if ascii {
		write = WriteASCII
	}
	if err := write(file, model); err != nil {
		file.Close()
		return fmt.Errorf("failed to write %s: %w", filename, err)
	}
	return file.Close()
}
