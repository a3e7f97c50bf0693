package field

import (
	"math"

	"github.com/arl/seamesh/geom"
)

// SizeField is a Field[float64] carrying the additional invariant that every
// value is strictly positive, per spec.md §3.
type SizeField struct {
	*Field[float64]
	max float64
}

// NewSizeField wraps f as a SizeField, computing and caching MaxValue.
// Panics if any value is non-positive.
func NewSizeField(f *Field[float64]) *SizeField {
	max := math.Inf(-1)
	for _, v := range f.Values() {
		if v <= 0 {
			panic("field.NewSizeField: all values must be strictly positive")
		}
		if v > max {
			max = v
		}
	}
	return &SizeField{Field: f, max: max}
}

// MaxValue returns the largest size value over the grid.
func (s *SizeField) MaxValue() float64 { return s.max }

// TriangleIsAcceptable reports whether the longest edge among v0, v1, v2 is
// strictly below the minimum of the size field sampled at the three
// corners, per spec.md §3. A corner outside the field's box imposes no
// constraint (sampled size is treated as +Inf), since the triangulator
// backends occasionally propose candidate points just outside the domain
// due to floating-point round-off at the boundary.
func (s *SizeField) TriangleIsAcceptable(v0, v1, v2 geom.Point) bool {
	longest := math.Max(v0.DistTo(v1), math.Max(v1.DistTo(v2), v2.DistTo(v0)))

	minSize := math.Inf(1)
	for _, p := range [3]geom.Point{v0, v1, v2} {
		if v, ok := s.Sample(p); ok {
			minSize = math.Min(minSize, v)
		}
	}
	return longest < minSize
}
