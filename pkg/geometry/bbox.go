package geometry

import "math"

// BoundingBox is an axis-aligned box
type BoundingBox struct {
	Min Vector3
	Max Vector3
}

// NewBoundingBox returns an empty box that any point will extend
func NewBoundingBox() BoundingBox {
	inf := math.Inf(1)
	return BoundingBox{
		Min: Vector3{X: inf, Y: inf, Z: inf},
		Max: Vector3{X: -inf, Y: -inf, Z: -inf},
	}
}

// Extend grows the box to include p
func (b *BoundingBox) Extend(p Vector3) {
	b.Min = b.Min.Min(p)
	b.Max = b.Max.Max(p)
}

// IsEmpty reports whether no point has been added
func (b BoundingBox) IsEmpty() bool {
	return b.Min.X > b.Max.X || b.Min.Y > b.Max.Y || b.Min.Z > b.Max.Z
}

// Size returns the extent along each axis
func (b BoundingBox) Size() Vector3 {
	if b.IsEmpty() {
		return Vector3{}
	}
	return b.Max.Sub(b.Min)
}

// Center returns the midpoint of the box
func (b BoundingBox) Center() Vector3 {
	if b.IsEmpty() {
		return Vector3{}
	}
	return b.Min.Add(b.Max).Mul(0.5)
}

// Diagonal returns the length of the box diagonal
func (b BoundingBox) Diagonal() float64 {
	return b.Size().Length()
}

// Volume returns the volume of the box itself
func (b BoundingBox) Volume() float64 {
	s := b.Size()
	return s.X * s.Y * s.Z
}
