package geom

import (
	"math"
	"math/rand"

	"github.com/arl/assertgo"
)

// Handle addresses a vertex and, equivalently, the half-edge starting at
// that vertex, in a HEPolygon. Handles are stable across Split/Collapse and
// only invalidated by Compact, per spec.md §3.
type Handle int

// HEPolygon is the half-edge polygon of spec.md §3: a single simple closed
// polygon, guaranteed counter-clockwise, stored as parallel arrays of points
// and half-edges addressed by small integer Handles rather than pointers —
// the arena-and-index shape spec.md §9 calls for in place of a reference
// graph.
type HEPolygon struct {
	points  []Point
	next    []Handle
	prev    []Handle
	deleted []bool
	start   Handle // any currently-live handle, used as an iteration seed
	live    int     // count of live (non-tombstoned) vertices
}

// NewHEPolygonFromPoints builds a HEPolygon from an ordered, simple vertex
// ring, reorienting it counter-clockwise if necessary.
func NewHEPolygonFromPoints(pts []Point) *HEPolygon {
	assert.True(len(pts) >= 3, "geom.NewHEPolygonFromPoints: need >= 3 points")

	pp := make([]Point, len(pts))
	copy(pp, pts)
	if shoelace(pp) < 0 {
		reverseInPlace(pp)
	}

	n := len(pp)
	h := &HEPolygon{
		points:  pp,
		next:    make([]Handle, n),
		prev:    make([]Handle, n),
		deleted: make([]bool, n),
		start:   0,
		live:    n,
	}
	for i := 0; i < n; i++ {
		h.next[i] = Handle((i + 1) % n)
		h.prev[i] = Handle((i - 1 + n) % n)
	}
	return h
}

func shoelace(pts []Point) float64 {
	sum := 0.0
	n := len(pts)
	for i := 0; i < n; i++ {
		a, b := pts[i], pts[(i+1)%n]
		sum += a.X*b.Y - b.X*a.Y
	}
	return sum / 2
}

func reverseInPlace(pts []Point) {
	for i, j := 0, len(pts)-1; i < j; i, j = i+1, j-1 {
		pts[i], pts[j] = pts[j], pts[i]
	}
}

// NumVertices returns the number of live vertices.
func (h *HEPolygon) NumVertices() int { return h.live }

// Point returns the position at handle v. v must be live.
func (h *HEPolygon) Point(v Handle) Point {
	assert.True(!h.deleted[v], "geom.HEPolygon.Point: tombstoned handle")
	return h.points[v]
}

// Next returns the half-edge handle following v around the cycle.
func (h *HEPolygon) Next(v Handle) Handle { return h.next[v] }

// Prev returns the half-edge handle preceding v around the cycle.
func (h *HEPolygon) Prev(v Handle) Handle { return h.prev[v] }

// Start returns a handle guaranteed live, usable as an iteration seed.
func (h *HEPolygon) Start() Handle { return h.start }

// Each calls fn once per live vertex, in cycle order starting from Start.
func (h *HEPolygon) Each(fn func(v Handle)) {
	if h.live == 0 {
		return
	}
	start := h.start
	v := start
	for {
		fn(v)
		v = h.next[v]
		if v == start {
			break
		}
	}
}

// OrderedPoints returns the live vertex positions in cycle order. Handles are not
// preserved in the returned slice's indices.
func (h *HEPolygon) OrderedPoints() []Point {
	pts := make([]Point, 0, h.live)
	h.Each(func(v Handle) { pts = append(pts, h.points[v]) })
	return pts
}

// Split inserts a new vertex on the half-edge starting at v, at parameter
// lambda in [0, 1] between Point(v) and Point(Next(v)), and returns the new
// vertex's handle.
func (h *HEPolygon) Split(v Handle, lambda float64) Handle {
	assert.True(!h.deleted[v], "geom.HEPolygon.Split: tombstoned handle")
	nv := h.next[v]
	p := h.points[v].Lerp(h.points[nv], lambda)

	newHandle := Handle(len(h.points))
	h.points = append(h.points, p)
	h.deleted = append(h.deleted, false)
	h.next = append(h.next, nv)
	h.prev = append(h.prev, v)

	h.next[v] = newHandle
	h.prev[nv] = newHandle
	h.live++
	return newHandle
}

// Collapse tombstones the vertex at the start of the half-edge v (i.e. v
// itself) and moves the kept endpoint (Next(v)) to the blend of the two
// original positions at parameter lambda. Returns the kept handle.
func (h *HEPolygon) Collapse(v Handle, lambda float64) Handle {
	assert.True(!h.deleted[v], "geom.HEPolygon.Collapse: tombstoned handle")
	assert.True(h.live > 3, "geom.HEPolygon.Collapse: would degenerate polygon")

	kept := h.next[v]
	p := h.points[v].Lerp(h.points[kept], lambda)
	h.points[kept] = p

	before := h.prev[v]
	h.next[before] = kept
	h.prev[kept] = before

	h.deleted[v] = true
	h.live--
	if h.start == v {
		h.start = kept
	}
	return kept
}

// Compact relocates live entries into a dense prefix of the backing arrays
// and rewrites Next/Prev accordingly, discarding tombstoned entries. All
// previously obtained handles are invalidated.
func (h *HEPolygon) Compact() {
	n := h.live
	newPoints := make([]Point, 0, n)
	remap := make(map[Handle]Handle, n)

	h.Each(func(v Handle) {
		remap[v] = Handle(len(newPoints))
		newPoints = append(newPoints, h.points[v])
	})

	newNext := make([]Handle, n)
	newPrev := make([]Handle, n)
	for old, nw := range remap {
		newNext[nw] = remap[h.next[old]]
		newPrev[nw] = remap[h.prev[old]]
	}

	h.points = newPoints
	h.next = newNext
	h.prev = newPrev
	h.deleted = make([]bool, n)
	h.start = 0
}

// Area returns the (positive, since CCW) shoelace area of the live polygon.
func (h *HEPolygon) Area() float64 {
	return shoelace(h.OrderedPoints())
}

// Box returns the bounding box of the live vertices.
func (h *HEPolygon) Box() Box {
	return BoxOf(h.OrderedPoints())
}

// HasSelfIntersection runs the O(n²) pairwise edge-crossing check of
// spec.md §3 over the live polygon's edges.
func (h *HEPolygon) HasSelfIntersection() bool {
	return h.ToLineGraph().HasSelfIntersection()
}

// ToLineGraph converts the live cycle to a LineGraph, compacting indices in
// cycle order (index i connects to index i+1 mod n).
func (h *HEPolygon) ToLineGraph() *LineGraph {
	lg := NewLineGraph()
	pts := h.OrderedPoints()
	for _, p := range pts {
		lg.AddVertex(p)
	}
	n := len(pts)
	for i := 0; i < n; i++ {
		lg.AddEdge(i, (i+1)%n)
	}
	return lg
}

// PointInPolygon classifies p against the live polygon using random-direction
// ray casting (geom.PointInPolygon), seeded from math/rand's package-level
// source so repeated calls don't correlate.
func (h *HEPolygon) PointInPolygon(p Point) PointInPolyResult {
	return PointInPolygon(p, h.OrderedPoints(), rand.Float64)
}

// RepresentativeInteriorPoint returns a point guaranteed to lie in the
// polygon's interior, derived from a convex vertex: the lexicographically
// smallest vertex of a simple CCW polygon is always convex (spec.md §3), so
// nudging slightly inward along the bisector of its two incident edges lands
// inside.
func (h *HEPolygon) RepresentativeInteriorPoint() Point {
	pts := h.OrderedPoints()
	n := len(pts)
	assert.True(n >= 3, "geom.HEPolygon.RepresentativeInteriorPoint: degenerate polygon")

	best := 0
	for i := 1; i < n; i++ {
		if pts[i].Less(pts[best]) {
			best = i
		}
	}
	prev := pts[(best-1+n)%n]
	cur := pts[best]
	nextp := pts[(best+1)%n]

	toPrev := unit(prev.Sub(cur))
	toNext := unit(nextp.Sub(cur))
	bisector := unit(toPrev.Add(toNext))

	// Step inward by a small fraction of the shorter incident edge.
	step := math.Min(cur.DistTo(prev), cur.DistTo(nextp)) * 0.01
	if step == 0 {
		step = 1e-9
	}
	return cur.Add(bisector.Scale(step))
}

func unit(p Point) Point {
	l := p.Len()
	if l == 0 {
		return Point{}
	}
	return p.Scale(1 / l)
}
