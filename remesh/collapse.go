package remesh

import (
	"math"

	"github.com/arl/seamesh/field"
	"github.com/arl/seamesh/geom"
	"github.com/arl/seamesh/mesh"
)

// collinearSinTolerance bounds how far from perfectly straight two
// consecutive boundary segments may be and still be treated as collinear,
// expressed as the sine of the angle between them (about 1.7 degrees).
const collinearSinTolerance = 0.03

// collapseShortEdges collapses every undirected edge shorter than
// size(midpoint)*minFactor whose endpoints were untouched this iteration and
// whose collapse is topologically legal. A boundary edge only collapses when
// one of its two adjacent boundary segments is collinear with it, and always
// collapses into that collinear side so the boundary polyline's shape is
// preserved. An interior edge with one endpoint on the boundary collapses
// into that endpoint, which keeps its position; an interior edge with both
// endpoints on the boundary never collapses.
func collapseShortEdges(m *mesh.Mesh, sf *field.SizeField, minFactor float64) int {
	n := m.HalfEdgeCount()
	count := 0
	for i := 0; i < n; i++ {
		h := mesh.HalfEdgeHandle(i)
		if m.HalfEdgeDeleted(h) {
			continue
		}
		t := m.Twin(h)
		if int(h) > int(t) {
			continue
		}
		a, b := m.Origin(h), m.Dest(h)
		if m.Marked(a) || m.Marked(b) {
			continue
		}

		pa, pb := m.Position(a), m.Position(b)
		mid := pa.Lerp(pb, 0.5)
		size, ok := sf.Sample(mid)
		if !ok {
			continue
		}
		if pa.DistTo(pb) >= size*minFactor {
			continue
		}

		isBoundary := m.IsVirtualHalfEdge(h) || m.IsVirtualHalfEdge(t)
		if isBoundary {
			if collapseBoundaryEdge(m, h, t) {
				count++
			}
			continue
		}
		aBoundary, bBoundary := m.IsBoundaryVertex(a), m.IsBoundaryVertex(b)
		var collapsed bool
		switch {
		case aBoundary && bBoundary:
			continue
		case aBoundary:
			// Keep boundary vertex a in place, remove b.
			collapsed = m.CollapseEdge(h, 0)
		case bBoundary:
			// Keep boundary vertex b in place, remove a.
			collapsed = m.CollapseEdge(t, 0)
		default:
			collapsed = m.CollapseEdge(h, 0.5)
		}
		if collapsed {
			count++
		}
	}
	return count
}

// collapseBoundaryEdge implements the boundary discipline of spec.md §4.5:
// collapse only if collinear with an adjacent boundary segment, collapsing
// into that side so the straight run survives unbent.
func collapseBoundaryEdge(m *mesh.Mesh, h, t mesh.HalfEdgeHandle) bool {
	bv := h
	if !m.IsVirtualHalfEdge(bv) {
		bv = t
	}
	x, y := m.Origin(bv), m.Dest(bv)
	prevHE := m.Prev(bv)
	nextHE := m.Next(bv)
	p := m.Origin(prevHE)
	q := m.Dest(nextHE)

	prevCollinear := collinear(m.Position(p), m.Position(x), m.Position(y))
	nextCollinear := collinear(m.Position(x), m.Position(y), m.Position(q))

	switch {
	case prevCollinear:
		// x is the redundant straight-through point: delete x, keep y.
		return m.CollapseEdge(m.Twin(bv), 0)
	case nextCollinear:
		// y is the redundant straight-through point: delete y, keep x.
		return m.CollapseEdge(bv, 0)
	default:
		return false
	}
}

// collinear reports whether p->a and a->b point in (near enough) the same
// direction.
func collinear(p, a, b geom.Point) bool {
	d1 := a.Sub(p)
	d2 := b.Sub(a)
	l1, l2 := d1.Len(), d2.Len()
	if l1 == 0 || l2 == 0 {
		return true
	}
	sinAngle := math.Abs(d1.Cross(d2)) / (l1 * l2)
	return sinAngle < collinearSinTolerance
}
