package stl

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/philipparndt/meshcut/pkg/geometry"
)

const (
	headerSize   = 80
	countSize    = 4
	triangleSize = 50
)

// ErrFormat is returned for data that is neither ASCII nor binary STL
var ErrFormat = errors.New("invalid STL data")

// Parse reads an STL file and returns a Model
// It automatically detects whether the file is ASCII or binary format
func Parse(filename string) (*Model, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return Read(file)
}

// Read parses STL data from r. Binary files whose header happens to start
// with "solid" are recognised by their size.
func Read(r io.Reader) (*Model, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read STL data: %w", err)
	}

	if isBinary(data) {
		return parseBinary(data)
	}
	if bytes.HasPrefix(bytes.TrimLeft(data, " \t\r\n"), []byte("solid")) {
		return parseASCII(bytes.NewReader(data))
	}
	if len(data) < headerSize+countSize {
		return nil, fmt.Errorf("%w: %d bytes is too short", ErrFormat, len(data))
	}
	return parseBinary(data)
}

func isBinary(data []byte) bool {
	if len(data) < headerSize+countSize {
		return false
	}
	count := binary.LittleEndian.Uint32(data[headerSize:])
	return uint64(len(data)) == uint64(headerSize+countSize)+uint64(count)*triangleSize
}

// parseASCII parses an ASCII STL file
func parseASCII(reader io.Reader) (*Model, error) {
	scanner := bufio.NewScanner(reader)
	model := NewModel("")

	var currentNormal geometry.Vector3
	var vertices []geometry.Vector3
	line := 0

	for scanner.Scan() {
		line++
		fields := strings.Fields(scanner.Text())

		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "solid":
			if len(fields) > 1 {
				model.Name = strings.Join(fields[1:], " ")
			}

		case "facet":
			if len(fields) >= 5 && fields[1] == "normal" {
				n, err := parseVector(fields[2:5])
				if err != nil {
					return nil, fmt.Errorf("%w: line %d: %v", ErrFormat, line, err)
				}
				currentNormal = n
			}

		case "vertex":
			if len(fields) < 4 {
				return nil, fmt.Errorf("%w: line %d: vertex needs three coordinates", ErrFormat, line)
			}
			v, err := parseVector(fields[1:4])
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: %v", ErrFormat, line, err)
			}
			vertices = append(vertices, v)

		case "endfacet":
			if len(vertices) != 3 {
				return nil, fmt.Errorf("%w: line %d: facet has %d vertices", ErrFormat, line, len(vertices))
			}
			model.AddTriangle(geometry.NewTriangle(currentNormal, vertices[0], vertices[1], vertices[2]))
			vertices = vertices[:0]
			currentNormal = geometry.Vector3{}
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading ASCII STL: %w", err)
	}

	return model, nil
}

func parseVector(fields []string) (geometry.Vector3, error) {
	var c [3]float64
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return geometry.Vector3{}, err
		}
		c[i] = v
	}
	return geometry.NewVector3(c[0], c[1], c[2]), nil
}

// binaryTriangle is the on-disk layout of one binary STL facet
type binaryTriangle struct {
	Normal    [3]float32
	V1        [3]float32
	V2        [3]float32
	V3        [3]float32
	Attribute uint16
}

func vec(f [3]float32) geometry.Vector3 {
	return geometry.NewVector3(float64(f[0]), float64(f[1]), float64(f[2]))
}

// parseBinary parses a binary STL file. The triangle count in the header
// must fit in data.
func parseBinary(data []byte) (*Model, error) {
	model := NewModel("")
	reader := bytes.NewReader(data)

	// Read 80-byte header
	header := make([]byte, headerSize)
	if _, err := io.ReadFull(reader, header); err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	// Extract name from header (if present)
	model.Name = strings.TrimSpace(string(bytes.TrimRight(header, "\x00")))

	// Read triangle count
	var triangleCount uint32
	if err := binary.Read(reader, binary.LittleEndian, &triangleCount); err != nil {
		return nil, fmt.Errorf("failed to read triangle count: %w", err)
	}

	available := (len(data) - headerSize - countSize) / triangleSize
	if uint64(triangleCount) > uint64(available) {
		return nil, fmt.Errorf("%w: header declares %d triangles, data holds %d", ErrFormat, triangleCount, available)
	}

	model.Triangles = make([]geometry.Triangle, 0, triangleCount)
	for i := uint32(0); i < triangleCount; i++ {
		var t binaryTriangle
		if err := binary.Read(reader, binary.LittleEndian, &t); err != nil {
			return nil, fmt.Errorf("failed to read triangle %d: %w", i, err)
		}
		model.AddTriangle(geometry.NewTriangle(vec(t.Normal), vec(t.V1), vec(t.V2), vec(t.V3)))
	}

	return model, nil
}
