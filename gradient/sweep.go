package gradient

import (
	"math"

	"github.com/arl/seamesh/field"
)

// Sweep is the heap-based monotone fast-sweep limiter of spec.md §4.2:
// repeatedly pop the grid's current minimum, fixing it, then try to lower
// each of its unfixed 4-neighbours via the two-neighbour quadratic solve.
// Because a node's value only ever decreases and the heap always yields the
// current global minimum, a popped value is final (causality), and the
// algorithm terminates after exactly one pop per node plus a bounded number
// of decrease-keys.
type Sweep struct{}

func (Sweep) Limit(s *field.SizeField, limit float64) *field.SizeField {
	nx, ny := s.Dims()
	cs := s.CellSize()
	n := nx * ny
	h := newNodeHeap(n)

	id := func(i, j int) int32 { return int32(j*nx + i) }
	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			h.push(id(i, j), s.At(i, j))
		}
	}

	type offset struct{ di, dj int }
	neighbors := []offset{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}

	for !h.empty() {
		c := h.popMin()
		ci, cj := int(c%int32(nx)), int(c/int32(nx))

		for _, o := range neighbors {
			ni, nj := ci+o.di, cj+o.dj
			if ni < 0 || ni >= nx || nj < 0 || nj >= ny {
				continue
			}
			nid := id(ni, nj)
			if !h.contains(nid) {
				continue
			}
			if cand, ok := sweepCandidate(h, id, ni, nj, nx, ny, cs.X, cs.Y, limit); ok {
				h.decreaseKey(nid, cand)
			}
		}
	}

	out := make([]float64, n)
	for i := int32(0); i < int32(n); i++ {
		out[i] = h.valueOf(i)
	}
	return field.NewSizeField(field.New[float64](s.Box(), nx, ny, out))
}

// sweepCandidate computes the smallest positive candidate value for node
// (i, j) across its (up to) four quadrants, per spec.md §4.2: each quadrant
// pairs the horizontal and vertical neighbour of (i, j) on one side, using
// them only if already fixed. If no quadrant has both neighbours fixed, the
// candidate is the smallest value+limit*spacing over the lone fixed axis
// neighbours; ok is false only when no neighbour of (i, j) is fixed.
func sweepCandidate(h *nodeHeap, id func(i, j int) int32, i, j, nx, ny int, hx, hy, limit float64) (float64, bool) {
	type axisNeighbor struct {
		v  float64
		h  float64
		ok bool
	}
	horiz := func(di int) axisNeighbor {
		ii := i + di
		if ii < 0 || ii >= nx {
			return axisNeighbor{}
		}
		nid := id(ii, j)
		if h.contains(nid) {
			return axisNeighbor{}
		}
		return axisNeighbor{v: h.valueOf(nid), h: hx, ok: true}
	}
	vert := func(dj int) axisNeighbor {
		jj := j + dj
		if jj < 0 || jj >= ny {
			return axisNeighbor{}
		}
		nid := id(i, jj)
		if h.contains(nid) {
			return axisNeighbor{}
		}
		return axisNeighbor{v: h.valueOf(nid), h: hy, ok: true}
	}

	best := math.Inf(1)
	found := false

	tryQuadrant := func(a, b axisNeighbor) {
		if !a.ok || !b.ok {
			return
		}
		if x, ok := solveQuadrant(a.v, a.h, b.v, b.h, limit); ok && x < best {
			best = x
			found = true
		}
	}

	left, right := horiz(-1), horiz(1)
	up, down := vert(-1), vert(1)
	tryQuadrant(left, up)
	tryQuadrant(left, down)
	tryQuadrant(right, up)
	tryQuadrant(right, down)

	// No full quadrant available (grid border or neighbours both unfixed):
	// fall back to a single-axis update from whichever lone fixed neighbour
	// exists, matching the weaker axial bound in that degenerate case.
	if !found {
		for _, a := range []axisNeighbor{left, right, up, down} {
			if a.ok {
				cand := a.v + limit*a.h
				if cand < best {
					best = cand
					found = true
				}
			}
		}
	}
	return best, found
}

// solveQuadrant solves ((x-v0)/h0)^2 + ((x-v1)/h1)^2 = limit^2 for the
// smallest root at least as large as max(v0, v1), generalizing spec.md
// §4.2's single-spacing quadratic to independent axial spacings.
func solveQuadrant(v0, h0, v1, h1, limit float64) (float64, bool) {
	a := 1/(h0*h0) + 1/(h1*h1)
	b := -2 * (v0/(h0*h0) + v1/(h1*h1))
	c := v0*v0/(h0*h0) + v1*v1/(h1*h1) - limit*limit

	disc := b*b - 4*a*c
	if disc < 0 {
		return 0, false
	}
	sq := math.Sqrt(disc)
	x := (-b + sq) / (2 * a)
	floor := math.Max(v0, v1)
	if x < floor {
		return 0, false
	}
	return x, true
}
