package gradient

import (
	"math"

	"github.com/arl/seamesh/field"
)

// Axial is the cheaper direct-update limiter of spec.md §4.2: when a node is
// fixed, each of its 4 or 8 neighbours is offered the candidate
// limit*spacing(c,n) + value(c), taken only if it lowers the neighbour.
// This gives a weaker bound along the diagonals than Sweep's quadrant solve,
// since a diagonal neighbour's own axial distance is never accounted for
// directly — it only benefits transitively through its axis-aligned
// neighbours.
type Axial struct {
	// Diagonal includes the four diagonal neighbours in addition to the
	// four axis-aligned ones (the 8-neighbour variant of spec.md §4.2).
	Diagonal bool
}

func (a Axial) Limit(s *field.SizeField, limit float64) *field.SizeField {
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

	type offset struct {
		di, dj int
		dist   float64
	}
	diag := math.Hypot(cs.X, cs.Y)
	neighbors := []offset{
		{-1, 0, cs.X}, {1, 0, cs.X}, {0, -1, cs.Y}, {0, 1, cs.Y},
	}
	if a.Diagonal {
		neighbors = append(neighbors,
			offset{-1, -1, diag}, offset{1, -1, diag}, offset{-1, 1, diag}, offset{1, 1, diag})
	}

	for !h.empty() {
		c := h.popMin()
		ci, cj := int(c%int32(nx)), int(c/int32(nx))
		cv := h.valueOf(c)

		for _, o := range neighbors {
			ni, nj := ci+o.di, cj+o.dj
			if ni < 0 || ni >= nx || nj < 0 || nj >= ny {
				continue
			}
			nid := id(ni, nj)
			if !h.contains(nid) {
				continue
			}
			h.decreaseKey(nid, cv+limit*o.dist)
		}
	}

	out := make([]float64, n)
	for i := int32(0); i < int32(n); i++ {
		out[i] = h.valueOf(i)
	}
	return field.NewSizeField(field.New[float64](s.Box(), nx, ny, out))
}
