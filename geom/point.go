// Package geom implements the planar geometric primitives of spec.md §3:
// points and boxes in lon/lat degrees, the LineGraph planar graph, the
// half-edge HEPolygon, and the single robust segment-intersection predicate
// that both lean on (spec.md §9, "Floating-point robustness in line
// intersections").
package geom

import (
	"math"

	"github.com/arl/assertgo"
)

// EarthRadiusM is R_earth from spec.md §3, in metres.
const EarthRadiusM = 6371009.0

// MetersPerDegree converts a distance in degrees of latitude/longitude to
// metres, spec.md §3's METERS_PER_DEGREE = π·R_earth/180.
const MetersPerDegree = math.Pi * EarthRadiusM / 180.0

// MetersToDegrees converts a metre distance to the equivalent in degrees.
func MetersToDegrees(m float64) float64 { return m / MetersPerDegree }

// DegreesToMeters converts a degree distance to the equivalent in metres.
func DegreesToMeters(deg float64) float64 { return deg * MetersPerDegree }

// Point is a 2-D point, (longitude, latitude) in degrees throughout this
// module unless documented otherwise.
type Point struct {
	X, Y float64
}

// Add returns p+q.
func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

// Sub returns p-q.
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// Scale returns p scaled by s.
func (p Point) Scale(s float64) Point { return Point{p.X * s, p.Y * s} }

// Dot returns the dot product of p and q.
func (p Point) Dot(q Point) float64 { return p.X*q.X + p.Y*q.Y }

// Cross returns the 2-D (scalar) cross product p × q.
func (p Point) Cross(q Point) float64 { return p.X*q.Y - p.Y*q.X }

// Len returns the Euclidean norm of p.
func (p Point) Len() float64 { return math.Hypot(p.X, p.Y) }

// DistTo returns the Euclidean distance between p and q, in the same unit as
// their coordinates (degrees).
func (p Point) DistTo(q Point) float64 { return p.Sub(q).Len() }

// DistToMeters is DistTo converted to metres via MetersPerDegree, the scalar
// conversion spec.md §1 allows in place of true geographic projection.
func (p Point) DistToMeters(q Point) float64 { return DegreesToMeters(p.DistTo(q)) }

// Lerp returns the point a fraction t of the way from p to q.
func (p Point) Lerp(q Point, t float64) Point { return p.Add(q.Sub(p).Scale(t)) }

// Less orders points lexicographically by (X, Y), used to find the
// guaranteed-convex vertex of a freshly built polygon (spec.md §3).
func (p Point) Less(q Point) bool {
	if p.X != q.X {
		return p.X < q.X
	}
	return p.Y < q.Y
}

// Box is an axis-aligned bounding box, (Min, Max) per spec.md §3.
type Box struct {
	Min, Max Point
}

// EmptyBox returns a box primed to grow via Extend.
func EmptyBox() Box {
	return Box{
		Min: Point{math.Inf(1), math.Inf(1)},
		Max: Point{math.Inf(-1), math.Inf(-1)},
	}
}

// Extend grows b to include p, returning the new box.
func (b Box) Extend(p Point) Box {
	return Box{
		Min: Point{math.Min(b.Min.X, p.X), math.Min(b.Min.Y, p.Y)},
		Max: Point{math.Max(b.Max.X, p.X), math.Max(b.Max.Y, p.Y)},
	}
}

// Union returns the smallest box containing both b and o.
func (b Box) Union(o Box) Box {
	return Box{
		Min: Point{math.Min(b.Min.X, o.Min.X), math.Min(b.Min.Y, o.Min.Y)},
		Max: Point{math.Max(b.Max.X, o.Max.X), math.Max(b.Max.Y, o.Max.Y)},
	}
}

// Contains reports whether p lies within b, inclusive of the boundary.
func (b Box) Contains(p Point) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X && p.Y >= b.Min.Y && p.Y <= b.Max.Y
}

// Size returns (Max - Min).
func (b Box) Size() Point { return b.Max.Sub(b.Min) }

// BoxOf computes the bounding box of pts. Panics if pts is empty — an
// empty-aggregate invariant violation per spec.md §7.
func BoxOf(pts []Point) Box {
	assert.True(len(pts) > 0, "geom.BoxOf: empty point set")
	box := EmptyBox()
	for _, p := range pts {
		box = box.Extend(p)
	}
	return box
}
