package slice

import (
	"errors"
	"fmt"

	"github.com/philipparndt/meshcut/pkg/geometry"
)

var (
	// ErrInvalidInput is returned for nil or empty meshes, out of range
	// indices and planes without a normal.
	ErrInvalidInput = errors.New("invalid slice input")
	// ErrDegenerateEdge means an edge intersection was requested for a
	// segment that does not cross the plane. It points at a classification bug.
	ErrDegenerateEdge = errors.New("degenerate edge")
	// ErrAmbiguousTopology means a triangle classified as crossing did not
	// produce the expected intersection count.
	ErrAmbiguousTopology = errors.New("ambiguous triangle topology")
	// ErrDegenerateTriangle means a triangle or split piece had no area
	ErrDegenerateTriangle = errors.New("degenerate triangle")
	// ErrOpenBoundary means boundary edges on the plane did not close into a ring
	ErrOpenBoundary = errors.New("open boundary")
	// ErrNonManifoldEdge means an on-plane edge was shared by more than two triangles of one side
	ErrNonManifoldEdge = errors.New("non-manifold edge")
	// ErrDegenerateCap means a ring had fewer than three distinct points
	ErrDegenerateCap = errors.New("degenerate cap")
)

// Kind classifies a Diagnostic
type Kind int

const (
	KindDegenerateTriangle Kind = iota
	KindDegenerateEdge
	KindAmbiguousTopology
	KindOpenBoundary
	KindNonManifoldEdge
	KindDegenerateCap
)

func (k Kind) String() string {
	switch k {
	case KindDegenerateTriangle:
		return "degenerate-triangle"
	case KindDegenerateEdge:
		return "degenerate-edge"
	case KindAmbiguousTopology:
		return "ambiguous-topology"
	case KindOpenBoundary:
		return "open-boundary"
	case KindNonManifoldEdge:
		return "non-manifold-edge"
	case KindDegenerateCap:
		return "degenerate-cap"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Diagnostic records a recoverable problem met during a slice. The
// offending triangle or piece was skipped and the pass continued.
type Diagnostic struct {
	Kind Kind
	// Triangle is the source triangle index, or -1 for ring and cap problems
	Triangle int
	Side     geometry.Side
	Err      error
}

func (d Diagnostic) Error() string {
	if d.Triangle >= 0 {
		return fmt.Sprintf("triangle %d (%s): %v", d.Triangle, d.Side, d.Err)
	}
	return fmt.Sprintf("%s side: %v", d.Side, d.Err)
}

func (d Diagnostic) Unwrap() error {
	return d.Err
}

func kindOf(err error) Kind {
	switch {
	case errors.Is(err, ErrDegenerateEdge):
		return KindDegenerateEdge
	case errors.Is(err, ErrAmbiguousTopology):
		return KindAmbiguousTopology
	case errors.Is(err, ErrOpenBoundary):
		return KindOpenBoundary
	case errors.Is(err, ErrNonManifoldEdge):
		return KindNonManifoldEdge
	case errors.Is(err, ErrDegenerateCap):
		return KindDegenerateCap
	}
	return KindDegenerateTriangle
}

func newDiagnostic(triangle int, side geometry.Side, err error) Diagnostic {
	return Diagnostic{Kind: kindOf(err), Triangle: triangle, Side: side, Err: err}
}
