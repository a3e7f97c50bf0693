package mesh

import "math"

// OptimalValence returns the target vertex degree spec.md §4.5's
// flip rule and §4.7's valence-deviation metric both measure against: 6 for
// an interior vertex, or a boundary vertex's share of that same 6-neighbour
// interior fan scaled by its actual geometric interior angle, plus one for
// the two boundary edges themselves, clamped to [2, 6].
func (m *Mesh) OptimalValence(v VertexHandle) int {
	if !m.IsBoundaryVertex(v) {
		return 6
	}
	theta := m.boundaryInteriorAngle(v)
	opt := int(math.Round(theta/(2*math.Pi)*6)) + 1
	if opt < 2 {
		opt = 2
	}
	if opt > 6 {
		opt = 6
	}
	return opt
}

// boundaryInteriorAngle sums, over every real (non-virtual) half-edge
// outgoing from v, the angle at v inside that half-edge's triangle. This is
// the true geometric interior angle at a boundary vertex, including reflex
// angles a naive two-neighbour acos would clamp away.
func (m *Mesh) boundaryInteriorAngle(v VertexHandle) float64 {
	p := m.Position(v)
	var sum float64
	for _, h := range m.VertexHalfEdges(v) {
		if m.IsVirtualHalfEdge(h) {
			continue
		}
		a := m.Position(m.Dest(h)).Sub(p)
		b := m.Position(m.Origin(m.Prev(h))).Sub(p)
		sum += math.Abs(math.Atan2(a.Cross(b), a.Dot(b)))
	}
	return sum
}
