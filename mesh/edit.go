package mesh

import "github.com/arl/gogeo/f32/d3"

// FlipEdge replaces the shared edge of the two triangles bordering h with
// the other diagonal of their quadrilateral. It refuses (reports false) on
// a boundary edge, since flipping requires a triangle on both sides, and
// when the flip would duplicate an edge already present in the one-ring of
// either new endpoint (which would break the 2-manifold invariant).
func (m *Mesh) FlipEdge(h HalfEdgeHandle) bool {
	if m.IsBoundaryEdge(h) {
		return false
	}
	t := m.heTwin[h]

	hn, hp := m.heNext[h], m.hePrev[h]
	tn, tp := m.heNext[t], m.hePrev[t]

	a, b := m.heOrigin[h], m.heOrigin[t] // the shared edge's endpoints
	c := m.heOrigin[hp]                  // apex opposite h in its face
	d := m.heOrigin[tp]                  // apex opposite t in its face

	if c == d {
		return false // degenerate quad
	}
	for _, nb := range m.OneRing(c) {
		if nb == d {
			return false // c-d edge already exists: flip would duplicate it
		}
	}

	fh, ft := m.heFace[h], m.heFace[t]

	// Rewire h to run c->d, t to run d->c.
	m.heOrigin[h] = c
	m.heOrigin[t] = d

	m.heNext[h], m.hePrev[h] = tp, hn
	m.heNext[t], m.hePrev[t] = hp, tn

	m.heNext[hn], m.hePrev[hn] = h, tp
	m.heNext[tp], m.hePrev[tp] = hn, h

	m.heNext[tn], m.hePrev[tn] = t, hp
	m.heNext[hp], m.hePrev[hp] = tn, t

	m.heFace[h], m.heFace[hn], m.heFace[tp] = fh, fh, fh
	m.heFace[t], m.heFace[tn], m.heFace[hp] = ft, ft, ft
	m.faceHalfEdge[fh] = h
	m.faceHalfEdge[ft] = t

	if m.vertHalfEdge[a] == h || m.vertHalfEdge[a] == t {
		m.vertHalfEdge[a] = tn
	}
	if m.vertHalfEdge[b] == h || m.vertHalfEdge[b] == t {
		m.vertHalfEdge[b] = hn
	}
	m.vertHalfEdge[c] = h
	m.vertHalfEdge[d] = t

	return true
}

// SplitEdge inserts a new vertex at t along h's edge (t=0.5 is the
// midpoint), retriangulating the one or two bordering faces into two or
// four. It returns the new vertex and true on success; a non-manifold
// split (e.g. h already deleted) reports false.
func (m *Mesh) SplitEdge(h HalfEdgeHandle, t float64) (VertexHandle, bool) {
	if m.heDeleted[h] {
		return 0, false
	}
	a, b := m.heOrigin[h], m.Dest(h)
	mid := m.Position(a).Lerp(m.Position(b), t)

	nv := VertexHandle(len(m.positions))
	m.positions = append(m.positions, d3.NewVec3XYZ(float32(mid.X), float32(mid.Y), 0))
	m.vertDeleted = append(m.vertDeleted, false)
	m.vertMarked = append(m.vertMarked, false)
	m.vertHalfEdge = append(m.vertHalfEdge, invalid)

	twin := m.heTwin[h]
	h2 := m.splitSide(h, nv)    // nv..Dest(h) piece on h's side
	t2 := m.splitSide(twin, nv) // nv..Dest(twin) piece on twin's side

	// h (shortened to a->nv) now borders t2 (nv->a); h2 (nv->b) now
	// borders twin (shortened to b->nv).
	m.heTwin[h], m.heTwin[t2] = t2, h
	m.heTwin[h2], m.heTwin[twin] = twin, h2

	m.vertHalfEdge[nv] = h2
	return nv, true
}

// splitSide inserts nv partway along half-edge h (origin a, dest b),
// shortening h to a->nv and returning a new half-edge nv->b that continues
// in h's place. On a real face the bordering triangle a-b-c is
// retriangulated into a-nv-c / nv-b-c joined by a fresh diagonal; on a
// virtual (boundary) half-edge, nv->b is simply spliced into the boundary
// loop with no face created. The caller is responsible for twinning h and
// the returned half-edge with their counterparts on the opposite side.
func (m *Mesh) splitSide(h HalfEdgeHandle, nv VertexHandle) HalfEdgeHandle {
	hn, hp := m.heNext[h], m.hePrev[h]
	a := m.heOrigin[h]
	f := m.heFace[h]

	h2 := HalfEdgeHandle(len(m.heOrigin))
	m.heOrigin = append(m.heOrigin, nv)
	m.heTwin = append(m.heTwin, invalid)
	m.heNext = append(m.heNext, hn)
	m.hePrev = append(m.hePrev, invalid)
	m.heFace = append(m.heFace, f)
	m.heDeleted = append(m.heDeleted, false)

	if f == invalid {
		// Boundary loop: just splice h2 in between h and hn.
		m.heNext[h] = h2
		m.hePrev[h2] = h
		m.hePrev[hn] = h2
		m.vertHalfEdge[a] = h
		return h2
	}

	c := m.heOrigin[hp]

	d1 := HalfEdgeHandle(len(m.heOrigin))
	m.heOrigin = append(m.heOrigin, nv)
	m.heTwin = append(m.heTwin, invalid)
	m.heNext = append(m.heNext, hp)
	m.hePrev = append(m.hePrev, h2)
	m.heFace = append(m.heFace, invalid)
	m.heDeleted = append(m.heDeleted, false)

	d2 := HalfEdgeHandle(len(m.heOrigin))
	m.heOrigin = append(m.heOrigin, c)
	m.heTwin = append(m.heTwin, d1)
	m.heNext = append(m.heNext, h)
	m.hePrev = append(m.hePrev, hn)
	m.heFace = append(m.heFace, f)
	m.heDeleted = append(m.heDeleted, false)
	m.heTwin[d1] = d2

	newFace := FaceHandle(len(m.faceHalfEdge))
	m.faceHalfEdge = append(m.faceHalfEdge, h2)
	m.faceDeleted = append(m.faceDeleted, false)

	// Triangle 1 (a, nv, c): h (a->nv, shortened), d1 (nv->c), hp (c->a).
	m.heNext[h] = d1
	m.hePrev[h] = hp
	m.heNext[hp] = h
	m.hePrev[hp] = d1
	m.heFace[hp] = f
	m.faceHalfEdge[f] = h

	// Triangle 2 (nv, b, c): h2 (nv->b), hn (b->c), d2 (c->nv).
	m.heNext[hn] = d2
	m.hePrev[hn] = h2
	m.hePrev[h2] = hn
	m.heFace[hn] = newFace
	m.heFace[h2] = newFace
	m.faceHalfEdge[newFace] = h2

	m.vertHalfEdge[a] = h
	return h2
}

// CollapseEdge merges h's destination into its origin at the given blend
// and tombstones the destination vertex, the collapsed edge's two
// half-edges (and their twins), and the one or two faces that degenerate
// to zero area. It refuses when the link condition fails: if the
// origin and destination share a neighbour vertex other than the two
// apexes of the faces being removed, collapsing would pinch two unrelated
// parts of the mesh together into a non-manifold vertex.
func (m *Mesh) CollapseEdge(h HalfEdgeHandle, lambda float64) bool {
	if m.heDeleted[h] {
		return false
	}
	a, b := m.heOrigin[h], m.Dest(h)

	apexes := make(map[VertexHandle]bool, 2)
	if f := m.heFace[h]; f != invalid {
		apexes[m.heOrigin[m.hePrev[h]]] = true
	}
	if t := m.heTwin[h]; t != invalid {
		apexes[m.heOrigin[m.hePrev[t]]] = true
	}

	ringA := make(map[VertexHandle]bool)
	for _, nb := range m.OneRing(a) {
		ringA[nb] = true
	}
	for _, nb := range m.OneRing(b) {
		if nb == a {
			continue
		}
		if ringA[nb] && !apexes[nb] {
			return false // link condition violated
		}
	}

	newPos := m.Position(a).Lerp(m.Position(b), lambda)
	m.SetPosition(a, newPos)

	// Retarget every half-edge leaving b to leave a instead.
	for _, out := range m.outgoingHandles(b) {
		m.heOrigin[out] = a
	}

	m.collapseSide(h)
	if t := m.heTwin[h]; t != invalid {
		m.collapseSide(t)
	}

	m.vertDeleted[b] = true
	if m.vertHalfEdge[a] == h || m.heDeleted[m.vertHalfEdge[a]] {
		for _, out := range m.outgoingHandles(a) {
			if !m.heDeleted[out] {
				m.vertHalfEdge[a] = out
				break
			}
		}
	}
	return true
}

// outgoingHandles is forEachOutgoing collected into a slice, snapshotted
// before the caller starts mutating next/prev/twin pointers.
func (m *Mesh) outgoingHandles(v VertexHandle) []HalfEdgeHandle {
	var out []HalfEdgeHandle
	m.forEachOutgoing(v, func(h HalfEdgeHandle) bool { out = append(out, h); return true })
	return out
}

// collapseSide removes the face bordering h (now degenerate since its
// origin and destination were merged), stitching the two remaining sides
// of that triangle together as twins. If h is itself a virtual boundary
// half-edge, there is no triangle to collapse: its neighbours in the
// boundary loop are simply spliced together.
func (m *Mesh) collapseSide(h HalfEdgeHandle) {
	hn, hp := m.heNext[h], m.hePrev[h]
	if m.heFace[h] == invalid {
		m.heNext[hp] = hn
		m.hePrev[hn] = hp
		m.heDeleted[h] = true
		return
	}
	m.faceDeleted[m.heFace[h]] = true

	outer1, outer2 := m.heTwin[hn], m.heTwin[hp]
	if outer1 != invalid {
		m.heTwin[outer1] = outer2
	}
	if outer2 != invalid {
		m.heTwin[outer2] = outer1
	}

	apex := m.heOrigin[hp]
	if m.vertHalfEdge[apex] == hp || m.vertHalfEdge[apex] == hn {
		if outer2 != invalid {
			m.vertHalfEdge[apex] = outer2
		} else if outer1 != invalid {
			m.vertHalfEdge[apex] = m.heNext[outer1]
		}
	}

	m.heDeleted[h] = true
	m.heDeleted[hn] = true
	m.heDeleted[hp] = true
}

// GC compacts the mesh, discarding every tombstoned vertex, half-edge and
// face and remapping the survivors to a dense 0..n range. Call this after a
// batch of Collapse/Split/Flip operations, not between every single one.
func (m *Mesh) GC() {
	vmap := make([]VertexHandle, len(m.positions))
	newPositions := m.positions[:0]
	newMarked := m.vertMarked[:0]
	newVHE := m.vertHalfEdge[:0]
	nv := VertexHandle(0)
	for v := range m.positions {
		if m.vertDeleted[v] {
			vmap[v] = invalid
			continue
		}
		vmap[v] = nv
		newPositions = append(newPositions, m.positions[v])
		newMarked = append(newMarked, m.vertMarked[v])
		newVHE = append(newVHE, m.vertHalfEdge[v])
		nv++
	}

	hemap := make([]HalfEdgeHandle, len(m.heOrigin))
	nh := HalfEdgeHandle(0)
	for h := range m.heOrigin {
		if m.heDeleted[h] {
			hemap[h] = invalid
			continue
		}
		hemap[h] = nh
		nh++
	}

	fmap := make([]FaceHandle, len(m.faceHalfEdge))
	nf := FaceHandle(0)
	for f := range m.faceHalfEdge {
		if m.faceDeleted[f] {
			fmap[f] = invalid
			continue
		}
		fmap[f] = nf
		nf++
	}

	newOrigin := make([]VertexHandle, 0, nh)
	newTwin := make([]HalfEdgeHandle, 0, nh)
	newNext := make([]HalfEdgeHandle, 0, nh)
	newPrev := make([]HalfEdgeHandle, 0, nh)
	newFace := make([]FaceHandle, 0, nh)
	for h := range m.heOrigin {
		if m.heDeleted[h] {
			continue
		}
		newOrigin = append(newOrigin, vmap[m.heOrigin[h]])
		newTwin = append(newTwin, remapHE(hemap, m.heTwin[h]))
		newNext = append(newNext, remapHE(hemap, m.heNext[h]))
		newPrev = append(newPrev, remapHE(hemap, m.hePrev[h]))
		newFace = append(newFace, remapFace(fmap, m.heFace[h]))
	}

	newFaceHE := make([]HalfEdgeHandle, 0, nf)
	for f := range m.faceHalfEdge {
		if m.faceDeleted[f] {
			continue
		}
		newFaceHE = append(newFaceHE, remapHE(hemap, m.faceHalfEdge[f]))
	}

	for i, vhe := range newVHE {
		newVHE[i] = remapHE(hemap, vhe)
	}

	m.positions = newPositions
	m.vertMarked = newMarked
	m.vertHalfEdge = newVHE
	m.vertDeleted = make([]bool, nv)

	m.heOrigin = newOrigin
	m.heTwin = newTwin
	m.heNext = newNext
	m.hePrev = newPrev
	m.heFace = newFace
	m.heDeleted = make([]bool, nh)

	m.faceHalfEdge = newFaceHE
	m.faceDeleted = make([]bool, nf)
}

func remapHE(hemap []HalfEdgeHandle, h HalfEdgeHandle) HalfEdgeHandle {
	if h == invalid {
		return invalid
	}
	return hemap[h]
}

func remapFace(fmap []FaceHandle, f FaceHandle) FaceHandle {
	if f == invalid {
		return invalid
	}
	return fmap[f]
}

// RemoveFace tombstones f and its three half-edges, along with any virtual
// (boundary) twin half-edge that would otherwise be left dangling with no
// live owner. It does not fix up vertHalfEdge or twin pointers on the
// remaining mesh: callers that discard whole connected components (see
// triangulate.largestSubmesh) call PruneOrphans and GC once every losing
// face has been removed, not after each individual call.
func (m *Mesh) RemoveFace(f FaceHandle) {
	if m.faceDeleted[f] {
		return
	}
	h0 := m.faceHalfEdge[f]
	h := h0
	for {
		next := m.heNext[h]
		if t := m.heTwin[h]; t != invalid && m.heFace[t] == invalid {
			m.heDeleted[t] = true
		}
		m.heDeleted[h] = true
		h = next
		if h == h0 {
			break
		}
	}
	m.faceDeleted[f] = true
}

// PruneOrphans tombstones every vertex no live half-edge originates from.
func (m *Mesh) PruneOrphans() {
	referenced := make([]bool, len(m.positions))
	for h := range m.heOrigin {
		if !m.heDeleted[h] {
			referenced[m.heOrigin[h]] = true
		}
	}
	for v := range m.positions {
		if !referenced[v] {
			m.vertDeleted[v] = true
		}
	}
}
