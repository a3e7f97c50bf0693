package geom

// LineGraph is the planar graph of spec.md §3: an ordered point list plus
// edges addressed as unordered index pairs. It is the common currency
// between MarchingQuads (which produces one) and BoundaryBuilder (which
// clips and classifies one into a Boundary of HEPolygons).
type LineGraph struct {
	Points []Point
	Edges  [][2]int
}

// NewLineGraph returns an empty graph.
func NewLineGraph() *LineGraph {
	return &LineGraph{}
}

// AddVertex appends p and returns its index.
func (g *LineGraph) AddVertex(p Point) int {
	g.Points = append(g.Points, p)
	return len(g.Points) - 1
}

// AddEdge records an edge between vertex indices a and b.
func (g *LineGraph) AddEdge(a, b int) {
	g.Edges = append(g.Edges, [2]int{a, b})
}

// Box returns the bounding box of all vertices.
func (g *LineGraph) Box() Box {
	return BoxOf(g.Points)
}

// Adjacency returns, for every vertex index, the list of vertex indices it is
// directly connected to by an edge.
func (g *LineGraph) Adjacency() [][]int {
	adj := make([][]int, len(g.Points))
	for _, e := range g.Edges {
		adj[e[0]] = append(adj[e[0]], e[1])
		adj[e[1]] = append(adj[e[1]], e[0])
	}
	return adj
}

// RemoveDegenerateGeometry drops zero-length edges (both endpoints at the
// same coordinate) and duplicate edges between the same coordinate pair,
// returning a new graph with vertex indices renumbered. This is
// remove_degenerated_geometry from spec.md §4.3, run after marching-quads so
// an iso line passing exactly through a grid node doesn't leave a
// zero-length edge behind.
func (g *LineGraph) RemoveDegenerateGeometry() *LineGraph {
	out := NewLineGraph()
	// Map original coordinate -> new index, collapsing duplicate-coordinate
	// vertices as we go.
	index := make(map[Point]int)
	remap := make([]int, len(g.Points))
	for i, p := range g.Points {
		if idx, ok := index[p]; ok {
			remap[i] = idx
			continue
		}
		idx := out.AddVertex(p)
		index[p] = idx
		remap[i] = idx
	}

	seen := make(map[[2]int]bool)
	for _, e := range g.Edges {
		a, b := remap[e[0]], remap[e[1]]
		if a == b {
			continue // zero-length
		}
		key := [2]int{a, b}
		if key[0] > key[1] {
			key[0], key[1] = key[1], key[0]
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		out.AddEdge(a, b)
	}
	return out
}

// HasSelfIntersection reports whether any two non-adjacent edges of the graph
// cross, using the O(n²) pairwise check spec.md §3/§4.4 specifies for the
// has_intersections postcondition.
func (g *LineGraph) HasSelfIntersection() bool {
	for i := 0; i < len(g.Edges); i++ {
		for j := i + 1; j < len(g.Edges); j++ {
			if shareVertex(g.Edges[i], g.Edges[j]) {
				continue
			}
			s1 := Segment{A: g.Points[g.Edges[i][0]], B: g.Points[g.Edges[i][1]]}
			s2 := Segment{A: g.Points[g.Edges[j][0]], B: g.Points[g.Edges[j][1]]}
			kind, _, _, _ := SegmentIntersect(s1, s2)
			if kind == Proper || kind == Collinear {
				return true
			}
		}
	}
	return false
}

func shareVertex(a, b [2]int) bool {
	return a[0] == b[0] || a[0] == b[1] || a[1] == b[0] || a[1] == b[1]
}

// CombinePolygons merges the LineGraph forms of several HEPolygons into a
// single LineGraph, offsetting vertex indices so each polygon's edges remain
// internally consistent. Used to build the combined outer+islands graph that
// BoundaryBuilder's has_intersections postcondition runs against.
func CombinePolygons(polys ...*LineGraph) *LineGraph {
	out := NewLineGraph()
	for _, lg := range polys {
		base := len(out.Points)
		out.Points = append(out.Points, lg.Points...)
		for _, e := range lg.Edges {
			out.AddEdge(base+e[0], base+e[1])
		}
	}
	return out
}
