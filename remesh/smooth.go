package remesh

import (
	"github.com/arl/seamesh/geom"
	"github.com/arl/seamesh/mesh"
)

// smoothInteriorVertices moves every interior vertex to the centroid of its
// one-ring, per spec.md §4.5's tangential smoothing step. Boundary vertices
// are left untouched so the boundary polyline's shape is preserved.
//
// Every new position is computed from the mesh's state before this pass
// began, so the result doesn't depend on vertex iteration order.
func smoothInteriorVertices(m *mesh.Mesh) {
	type move struct {
		v mesh.VertexHandle
		p geom.Point
	}
	var moves []move

	m.Vertices(func(v mesh.VertexHandle) {
		if m.IsBoundaryVertex(v) {
			return
		}
		ring := m.OneRing(v)
		if len(ring) == 0 {
			return
		}
		var sum geom.Point
		for _, r := range ring {
			sum = sum.Add(m.Position(r))
		}
		moves = append(moves, move{v, sum.Scale(1 / float64(len(ring)))})
	})

	for _, mv := range moves {
		m.SetPosition(mv.v, mv.p)
	}
}
