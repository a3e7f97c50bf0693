// Package mesh implements the 2-manifold half-edge triangle Mesh of
// spec.md §3: vertex marking, edge delete/flip/collapse/split under
// manifold-preserving guards, garbage collection, and face-area/valence/
// boundary queries.
package mesh

import (
	"github.com/arl/gogeo/f32/d3"
	"github.com/arl/seamesh/geom"
)

// VertexHandle, HalfEdgeHandle and FaceHandle address mesh elements by
// index into parallel arrays, the same arena-and-index discipline
// geom.HEPolygon uses in place of a pointer graph.
type VertexHandle int
type HalfEdgeHandle int
type FaceHandle int

const invalid = -1

// Mesh is a triangle mesh over 3-D points whose Z is always zero, with
// half-edge connectivity: for each half-edge, Next/Prev walk its triangle,
// Twin crosses to the opposite triangle, or on a boundary edge to a virtual
// half-edge that has no face and belongs to the boundary loop.
type Mesh struct {
	positions    []d3.Vec3
	vertDeleted  []bool
	vertMarked   []bool
	vertHalfEdge []HalfEdgeHandle // one incident outgoing half-edge

	heOrigin  []VertexHandle
	heTwin    []HalfEdgeHandle
	heNext    []HalfEdgeHandle
	hePrev    []HalfEdgeHandle
	heFace    []FaceHandle
	heDeleted []bool

	faceHalfEdge []HalfEdgeHandle
	faceDeleted  []bool
}

// NewFromTriangles builds a Mesh from a vertex soup and a list of
// counter-clockwise triangle index triples, pairing each half-edge with its
// twin across shared edges. Edges referenced by more than two triangles
// (non-manifold input) are rejected.
func NewFromTriangles(points []geom.Point, tris [][3]int) (*Mesh, bool) {
	m := &Mesh{
		positions:    make([]d3.Vec3, len(points)),
		vertDeleted:  make([]bool, len(points)),
		vertMarked:   make([]bool, len(points)),
		vertHalfEdge: make([]HalfEdgeHandle, len(points)),
	}
	for i, p := range points {
		m.positions[i] = d3.NewVec3XYZ(float32(p.X), float32(p.Y), 0)
	}

	type edgeKey [2]int
	edgeToHalf := make(map[edgeKey]HalfEdgeHandle, len(tris)*3)

	for _, tri := range tris {
		face := FaceHandle(len(m.faceHalfEdge))
		base := HalfEdgeHandle(len(m.heOrigin))
		for k := 0; k < 3; k++ {
			m.heOrigin = append(m.heOrigin, VertexHandle(tri[k]))
			m.heTwin = append(m.heTwin, invalid)
			m.heNext = append(m.heNext, base+HalfEdgeHandle((k+1)%3))
			m.hePrev = append(m.hePrev, base+HalfEdgeHandle((k+2)%3))
			m.heFace = append(m.heFace, face)
			m.heDeleted = append(m.heDeleted, false)
			m.vertHalfEdge[tri[k]] = base + HalfEdgeHandle(k)
		}
		m.faceHalfEdge = append(m.faceHalfEdge, base)
		m.faceDeleted = append(m.faceDeleted, false)

		for k := 0; k < 3; k++ {
			a, b := tri[k], tri[(k+1)%3]
			key := edgeKey{a, b}
			if _, dup := edgeToHalf[key]; dup {
				return nil, false // non-manifold: same directed edge twice
			}
			edgeToHalf[key] = base + HalfEdgeHandle(k)
		}
	}

	for key, he := range edgeToHalf {
		twinKey := edgeKey{key[1], key[0]}
		if twin, ok := edgeToHalf[twinKey]; ok {
			m.heTwin[he] = twin
		}
	}

	// Every edge lacking a twin borders the mesh's outside: give it one, a
	// virtual half-edge with no face, so that Twin is always valid and a
	// vertex's one-ring is always a single uniform rotation even at the
	// boundary. outgoing[v] collects each boundary vertex's single
	// boundary-loop-outgoing half-edge so the per-loop Next/Prev links can
	// be stitched in a second pass.
	outgoing := make(map[VertexHandle]HalfEdgeHandle)
	loopDest := make(map[HalfEdgeHandle]VertexHandle)
	n := len(m.heTwin)
	for he := 0; he < n; he++ {
		if m.heTwin[he] != invalid {
			continue
		}
		h := HalfEdgeHandle(he)
		o, d := m.heOrigin[h], m.heOrigin[m.heNext[h]] // Origin(h), Dest(h)
		b := HalfEdgeHandle(len(m.heOrigin))
		m.heOrigin = append(m.heOrigin, d)
		m.heTwin = append(m.heTwin, h)
		m.heNext = append(m.heNext, invalid)
		m.hePrev = append(m.hePrev, invalid)
		m.heFace = append(m.heFace, invalid)
		m.heDeleted = append(m.heDeleted, false)
		m.heTwin[h] = b
		outgoing[d] = b
		loopDest[b] = o
	}
	for _, b := range outgoing {
		next, ok := outgoing[loopDest[b]]
		if !ok {
			return nil, false // boundary vertex with no continuing loop edge
		}
		m.heNext[b] = next
		m.hePrev[next] = b
	}
	return m, true
}

// NumVertices, NumFaces report the live element counts.
func (m *Mesh) NumVertices() int {
	n := 0
	for _, d := range m.vertDeleted {
		if !d {
			n++
		}
	}
	return n
}

func (m *Mesh) NumFaces() int {
	n := 0
	for _, d := range m.faceDeleted {
		if !d {
			n++
		}
	}
	return n
}

// Position returns v's point, ignoring the always-zero Z component.
func (m *Mesh) Position(v VertexHandle) geom.Point {
	p := m.positions[v]
	return geom.Point{X: float64(p.X()), Y: float64(p.Y())}
}

// SetPosition overwrites v's point.
func (m *Mesh) SetPosition(v VertexHandle, p geom.Point) {
	m.positions[v] = d3.NewVec3XYZ(float32(p.X), float32(p.Y), 0)
}

// Mark flags v as touched (remesh uses this within one iteration to keep
// split-created vertices from being immediately collapsed again).
func (m *Mesh) Mark(v VertexHandle)        { m.vertMarked[v] = true }
func (m *Mesh) Marked(v VertexHandle) bool { return m.vertMarked[v] }

func (m *Mesh) ClearMarks() {
	for i := range m.vertMarked {
		m.vertMarked[i] = false
	}
}

func (m *Mesh) IsDeleted(v VertexHandle) bool { return m.vertDeleted[v] }

// Next, Prev, Twin, Origin, Face are the raw half-edge accessors.
func (m *Mesh) Next(h HalfEdgeHandle) HalfEdgeHandle           { return m.heNext[h] }
func (m *Mesh) Prev(h HalfEdgeHandle) HalfEdgeHandle           { return m.hePrev[h] }
func (m *Mesh) Twin(h HalfEdgeHandle) HalfEdgeHandle           { return m.heTwin[h] }
func (m *Mesh) Origin(h HalfEdgeHandle) VertexHandle           { return m.heOrigin[h] }
func (m *Mesh) Dest(h HalfEdgeHandle) VertexHandle             { return m.heOrigin[m.heNext[h]] }
func (m *Mesh) FaceOf(h HalfEdgeHandle) FaceHandle             { return m.heFace[h] }
func (m *Mesh) HalfEdgeOf(f FaceHandle) HalfEdgeHandle         { return m.faceHalfEdge[f] }
func (m *Mesh) OutgoingHalfEdge(v VertexHandle) HalfEdgeHandle { return m.vertHalfEdge[v] }

// IsBoundaryEdge reports whether h's edge has no real triangle on one
// side: either h itself or its twin is a virtual half-edge (Face invalid),
// meaning the edge borders the mesh's outer boundary or a hole.
func (m *Mesh) IsBoundaryEdge(h HalfEdgeHandle) bool {
	return m.heFace[h] == invalid || m.heFace[m.heTwin[h]] == invalid
}

// IsBoundaryVertex reports whether any half-edge incident to v is virtual,
// i.e. v sits on the mesh's outer boundary or a hole.
func (m *Mesh) IsBoundaryVertex(v VertexHandle) bool {
	boundary := false
	m.forEachOutgoing(v, func(h HalfEdgeHandle) bool {
		if m.heFace[h] == invalid {
			boundary = true
			return false
		}
		return true
	})
	return boundary
}

// Valence returns v's vertex degree (number of incident edges).
func (m *Mesh) Valence(v VertexHandle) int {
	n := 0
	m.forEachOutgoing(v, func(HalfEdgeHandle) bool { n++; return true })
	return n
}

// OneRing returns the vertices directly connected to v, in fan order.
func (m *Mesh) OneRing(v VertexHandle) []VertexHandle {
	var ring []VertexHandle
	m.forEachOutgoing(v, func(h HalfEdgeHandle) bool {
		ring = append(ring, m.Dest(h))
		return true
	})
	return ring
}

// forEachOutgoing visits every half-edge leaving v, real or virtual,
// fanning around via Twin(Prev(h)) until back to the start. Because every
// edge has a twin (virtual half-edges stand in for the mesh's boundary),
// this is always a single closed rotation, even at a boundary vertex.
func (m *Mesh) forEachOutgoing(v VertexHandle, visit func(HalfEdgeHandle) bool) {
	start := m.vertHalfEdge[v]
	h := start
	for {
		if !visit(h) {
			return
		}
		h = m.heTwin[m.hePrev[h]]
		if h == start {
			return
		}
	}
}

// FaceArea returns the unsigned area of face f.
func (m *Mesh) FaceArea(f FaceHandle) float64 {
	h0 := m.faceHalfEdge[f]
	a := m.Position(m.heOrigin[h0])
	b := m.Position(m.heOrigin[m.heNext[h0]])
	c := m.Position(m.heOrigin[m.hePrev[h0]])
	return 0.5 * ((b.X-a.X)*(c.Y-a.Y) - (c.X-a.X)*(b.Y-a.Y))
}

// Faces calls fn once per live face.
func (m *Mesh) Faces(fn func(FaceHandle)) {
	for f := range m.faceHalfEdge {
		if !m.faceDeleted[f] {
			fn(FaceHandle(f))
		}
	}
}

// Vertices calls fn once per live vertex.
func (m *Mesh) Vertices(fn func(VertexHandle)) {
	for v := range m.positions {
		if !m.vertDeleted[v] {
			fn(VertexHandle(v))
		}
	}
}

// HalfEdgeCount returns the raw half-edge slot count, including tombstoned
// entries not yet GC'd. Callers snapshot this before a pass that may append
// new half-edges (split) so the pass only visits edges that existed at its
// start.
func (m *Mesh) HalfEdgeCount() int { return len(m.heOrigin) }

// HalfEdgeDeleted reports whether h has been tombstoned.
func (m *Mesh) HalfEdgeDeleted(h HalfEdgeHandle) bool { return m.heDeleted[h] }

// IsVirtualHalfEdge reports whether h has no real triangle: it represents
// the mesh's outer boundary or the rim of a hole.
func (m *Mesh) IsVirtualHalfEdge(h HalfEdgeHandle) bool { return m.heFace[h] == invalid }

// VertexHalfEdges returns every half-edge leaving v, real or virtual, in fan
// order (the same order forEachOutgoing visits).
func (m *Mesh) VertexHalfEdges(v VertexHandle) []HalfEdgeHandle {
	return m.outgoingHandles(v)
}

// FaceVertices returns face f's three corner vertices in cycle order.
func (m *Mesh) FaceVertices(f FaceHandle) [3]VertexHandle {
	h0 := m.faceHalfEdge[f]
	return [3]VertexHandle{m.heOrigin[h0], m.heOrigin[m.heNext[h0]], m.heOrigin[m.hePrev[h0]]}
}
