package boundary

import (
	"sort"

	"github.com/arl/seamesh/geom"
	"github.com/dhconnelly/rtreego"
)

const rtreeMinChildren, rtreeMaxChildren = 25, 50

// crossing records one region/coast edge intersection, in the global order
// spec.md §4.4 step 4 needs: region edges walked in CCW order, intersections
// within an edge sorted by parameter t.
type crossing struct {
	regionEdge int
	t          float64
	point      geom.Point
	coastEdge  int
	u          float64
}

// coastEdgeSpatial adapts a coast LineGraph edge to rtreego.Spatial.
type coastEdgeSpatial struct {
	idx  int
	rect rtreego.Rect
}

func (s coastEdgeSpatial) Bounds() rtreego.Rect { return s.rect }

func edgeRect(a, b geom.Point) rtreego.Rect {
	minX, maxX := a.X, b.X
	if minX > maxX {
		minX, maxX = maxX, minX
	}
	minY, maxY := a.Y, b.Y
	if minY > maxY {
		minY, maxY = maxY, minY
	}
	const eps = 1e-9
	lengths := []float64{maxX - minX + eps, maxY - minY + eps}
	rect, _ := rtreego.NewRect(rtreego.Point{minX, minY}, lengths)
	return rect
}

func buildCoastIndex(coast *geom.LineGraph) *rtreego.Rtree {
	tree := rtreego.NewTree(2, rtreeMinChildren, rtreeMaxChildren)
	for i, e := range coast.Edges {
		a, b := coast.Points[e[0]], coast.Points[e[1]]
		tree.Insert(coastEdgeSpatial{idx: i, rect: edgeRect(a, b)})
	}
	return tree
}

// findCrossings implements spec.md §4.4 step 3: for each region half-edge in
// CCW order, find coast edges it intersects, sorted by intersection
// parameter t along the region edge. Parallel/collinear pairs are skipped,
// handled as the degenerate case spec.md calls out.
func findCrossings(region *geom.HEPolygon, coast *geom.LineGraph) []crossing {
	tree := buildCoastIndex(coast)

	var out []crossing
	edgeIdx := 0
	region.Each(func(v geom.Handle) {
		a := region.Point(v)
		b := region.Point(region.Next(v))
		regionSeg := geom.Segment{A: a, B: b}

		candidates := tree.SearchIntersect(edgeRect(a, b))
		var found []crossing
		for _, c := range candidates {
			ce := c.(coastEdgeSpatial)
			e := coast.Edges[ce.idx]
			coastSeg := geom.Segment{A: coast.Points[e[0]], B: coast.Points[e[1]]}

			kind, _, t, u := geom.SegmentIntersect(regionSeg, coastSeg)
			if kind != geom.Proper {
				continue // Collinear/parallel pairs are skipped, per spec.md §4.4.
			}
			found = append(found, crossing{
				regionEdge: edgeIdx,
				t:          t,
				point:      regionSeg.A.Lerp(regionSeg.B, t),
				coastEdge:  ce.idx,
				u:          u,
			})
		}
		sort.Slice(found, func(i, j int) bool { return found[i].t < found[j].t })
		out = append(out, found...)
		edgeIdx++
	})
	return out
}
