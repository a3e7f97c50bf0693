package remesh

import "github.com/arl/seamesh/mesh"

// equalizeValences visits every real interior edge once, flipping it when
// doing so lowers the sum of squared deviations of its four surrounding
// vertices' degrees from their optimal valences, per spec.md §4.5's flip
// criterion.
func equalizeValences(m *mesh.Mesh) int {
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
		if m.IsVirtualHalfEdge(h) || m.IsVirtualHalfEdge(t) {
			continue
		}

		s, tgt := m.Origin(h), m.Dest(h)
		l := m.Dest(m.Next(h))
		r := m.Dest(m.Next(t))

		dvs := m.Valence(s) - m.OptimalValence(s)
		dvt := m.Valence(tgt) - m.OptimalValence(tgt)
		dvl := m.Valence(l) - m.OptimalValence(l)
		dvr := m.Valence(r) - m.OptimalValence(r)

		before := dvs*dvs + dvt*dvt + dvl*dvl + dvr*dvr
		after := (dvs-1)*(dvs-1) + (dvt-1)*(dvt-1) + (dvl+1)*(dvl+1) + (dvr+1)*(dvr+1)
		if after >= before {
			continue
		}
		if m.FlipEdge(h) {
			count++
		}
	}
	return count
}
