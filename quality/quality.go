// Package quality implements QualityAnalysis (spec.md §4.7): pure functions
// over a mesh.Mesh, and optionally a field.SizeField, reporting per-face and
// per-vertex quality metrics and their aggregate statistics, in the style
// of original_source/src/analysis/mesh_quality.cpp and aggregates.h.
package quality

import (
	"math"

	"github.com/arl/seamesh/field"
	"github.com/arl/seamesh/mesh"
	"gonum.org/v1/gonum/floats"
)

// relativeEdgeLengthSamples is the number of evenly spaced points sampled
// along each edge for RelativeEdgeLength, per spec.md §4.7.
const relativeEdgeLengthSamples = 5

// RadiusRatio returns 2*inradius/circumradius for face f, the same metric
// original_source's computeQuality computes: 1 for an equilateral triangle,
// tending to 0 as a triangle degenerates. Returns 0 for a degenerate
// (zero-area, collinear, or otherwise numerically unstable) triangle.
func RadiusRatio(m *mesh.Mesh, f mesh.FaceHandle) float64 {
	vs := m.FaceVertices(f)
	va, vb, vc := m.Position(vs[0]), m.Position(vs[1]), m.Position(vs[2])

	a := vb.DistTo(vc)
	b := va.DistTo(vc)
	c := va.DistTo(vb)

	s := (a + b + c) / 2
	inRadius := math.Sqrt((s - a) * (s - b) * (s - c) / s)
	if math.IsNaN(inRadius) {
		return 0
	}

	ab := vb.Sub(va).Scale(1 / c)
	ac := vc.Sub(va).Scale(1 / b)
	cosA := ab.Dot(ac)
	sinA := math.Sqrt(1 - cosA*cosA)
	if sinA == 0 {
		return 0
	}
	outRadius := 0.5 * a / sinA
	if math.IsInf(outRadius, 0) || math.IsNaN(outRadius) {
		return 0
	}

	return 2 * inRadius / outRadius
}

// ShapeRegularity returns 4*sqrt(3)*signed_area / (a^2+b^2+c^2) for face f,
// per spec.md §4.7: 1 for an equilateral triangle (any orientation), 0 in
// the degenerate limit, negative for a CW-wound (inverted) triangle.
func ShapeRegularity(m *mesh.Mesh, f mesh.FaceHandle) float64 {
	vs := m.FaceVertices(f)
	va, vb, vc := m.Position(vs[0]), m.Position(vs[1]), m.Position(vs[2])

	a := vb.DistTo(vc)
	b := va.DistTo(vc)
	c := va.DistTo(vb)
	sumSq := a*a + b*b + c*c
	if sumSq == 0 {
		return 0
	}
	return 4 * math.Sqrt(3) * m.FaceArea(f) / sumSq
}

// ValenceDeviation returns valence(v) - mesh.Mesh.OptimalValence(v), per
// spec.md §4.7: 0 at the ideal degree, positive for an overcrowded vertex,
// negative for an undercrowded one.
func ValenceDeviation(m *mesh.Mesh, v mesh.VertexHandle) int {
	return m.Valence(v) - m.OptimalValence(v)
}

// RelativeEdgeLength samples sf at relativeEdgeLengthSamples evenly spaced
// points along h's edge, averages them, and divides that average into the
// edge's actual length: 1 means the edge matches the size field exactly,
// >1 means the edge is longer than the field wants, per spec.md §4.7. ok is
// false if every sample falls outside sf's box.
func RelativeEdgeLength(m *mesh.Mesh, h mesh.HalfEdgeHandle, sf *field.SizeField) (ratio float64, ok bool) {
	a, b := m.Position(m.Origin(h)), m.Position(m.Dest(h))
	length := a.DistTo(b)

	var sum float64
	var n int
	for i := 0; i < relativeEdgeLengthSamples; i++ {
		t := (float64(i) + 0.5) / relativeEdgeLengthSamples
		p := a.Lerp(b, t)
		if v, sampleOK := sf.Sample(p); sampleOK {
			sum += v
			n++
		}
	}
	if n == 0 {
		return 0, false
	}
	avg := sum / float64(n)
	if avg == 0 {
		return 0, false
	}
	return length / avg, true
}

// Aggregates is {min, max, avg} over a non-empty slice of values, per
// spec.md §4.7. Panics on an empty slice: aggregating nothing is a caller
// bug, not a reportable degenerate case.
type Aggregates struct {
	Min, Max, Avg float64
}

// Aggregate reduces values into an Aggregates, using gonum/floats for the
// min/max/sum reductions.
func Aggregate(values []float64) Aggregates {
	if len(values) == 0 {
		panic("quality.Aggregate: cannot aggregate empty data")
	}
	return Aggregates{
		Min: floats.Min(values),
		Max: floats.Max(values),
		Avg: floats.Sum(values) / float64(len(values)),
	}
}

// FaceRadiusRatios returns RadiusRatio for every live face, in face-handle
// order.
func FaceRadiusRatios(m *mesh.Mesh) []float64 {
	var out []float64
	m.Faces(func(f mesh.FaceHandle) { out = append(out, RadiusRatio(m, f)) })
	return out
}

// FaceShapeRegularities returns ShapeRegularity for every live face, in
// face-handle order.
func FaceShapeRegularities(m *mesh.Mesh) []float64 {
	var out []float64
	m.Faces(func(f mesh.FaceHandle) { out = append(out, ShapeRegularity(m, f)) })
	return out
}

// VertexValenceDeviations returns ValenceDeviation for every live vertex, in
// vertex-handle order.
func VertexValenceDeviations(m *mesh.Mesh) []int {
	var out []int
	m.Vertices(func(v mesh.VertexHandle) { out = append(out, ValenceDeviation(m, v)) })
	return out
}
