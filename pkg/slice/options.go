package slice

import (
	"fmt"
	"strings"
)

// DefaultEpsilon is the plane tolerance used when Options.Epsilon is not set
const DefaultEpsilon = 1e-6

// sliverRatio is the area, relative to its source face or ring, below
// which a split piece or cap fan counts as degenerate. It is independent
// of the plane tolerance and of the mesh scale.
const sliverRatio = 1e-12

// CoplanarPolicy decides where triangles lying entirely in the cutting
// plane go. A coplanar triangle is never emitted on both sides.
type CoplanarPolicy int

const (
	// CoplanarOutward assigns a coplanar triangle to the side whose cut face
	// it already is: below when its normal points along the plane normal,
	// above when it points against it.
	CoplanarOutward CoplanarPolicy = iota
	// CoplanarBelow always keeps coplanar triangles below
	CoplanarBelow
	// CoplanarAbove always keeps coplanar triangles above
	CoplanarAbove
	// CoplanarDrop discards coplanar triangles; the caps close the cut instead
	CoplanarDrop
)

var coplanarNames = map[CoplanarPolicy]string{
	CoplanarOutward: "outward",
	CoplanarBelow:   "below",
	CoplanarAbove:   "above",
	CoplanarDrop:    "drop",
}

func (p CoplanarPolicy) String() string {
	if name, ok := coplanarNames[p]; ok {
		return name
	}
	return fmt.Sprintf("CoplanarPolicy(%d)", int(p))
}

// ParseCoplanarPolicy parses the names printed by CoplanarPolicy.String.
// An empty string selects CoplanarOutward.
func ParseCoplanarPolicy(s string) (CoplanarPolicy, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return CoplanarOutward, nil
	}
	for policy, name := range coplanarNames {
		if name == s {
			return policy, nil
		}
	}
	return 0, fmt.Errorf("unknown coplanar policy %q (expected outward, below, above or drop)", s)
}

// Options configures a Slicer. The zero value is ready to use.
type Options struct {
	// Epsilon is the distance within which a point counts as on the plane.
	// Values <= 0 select DefaultEpsilon.
	Epsilon float64
	// Coplanar selects the coplanar triangle policy
	Coplanar CoplanarPolicy
	// NoCap disables closing the cut with cap triangles. Rings are still reported.
	NoCap bool
	// Workers splits the triangle pass across goroutines. Values <= 1 run sequentially.
	Workers int
}

// DefaultOptions returns the options used by the zero value, spelled out
func DefaultOptions() Options {
	return Options{Epsilon: DefaultEpsilon, Coplanar: CoplanarOutward, Workers: 1}
}

func (o Options) epsilon() float64 {
	if o.Epsilon <= 0 {
		return DefaultEpsilon
	}
	return o.Epsilon
}


func (o Options) workers() int {
	if o.Workers < 1 {
		return 1
	}
	return o.Workers
}
