package boundary

import (
	"github.com/arl/seamesh/field"
	"github.com/arl/seamesh/geom"
)

// extractCycles implements spec.md §4.4 step 5: a depth-first traversal of
// the clamped coast graph (every vertex now has degree <= 2) emitting all
// closed cycles of 3 or more vertices as HEPolygons. Open paths (left behind
// by a clamp cut whose outside fragment dangled rather than closed) are
// walked and discarded without panicking on the dead end.
func extractCycles(coast *geom.LineGraph) []*geom.HEPolygon {
	adj := coast.Adjacency()
	visited := make([]bool, len(coast.Points))
	var cycles []*geom.HEPolygon

	for start := range adj {
		if visited[start] {
			continue
		}
		if len(adj[start]) == 0 {
			visited[start] = true
			continue
		}

		path := []int{start}
		visited[start] = true
		prev, cur := -1, start
		closed := false

		for {
			neighbors := adj[cur]
			if len(neighbors) < 2 {
				break // dead end: an open path, not a cycle.
			}
			next := neighbors[0]
			if next == prev {
				next = neighbors[1]
			}
			if next == start {
				closed = true
				break
			}
			if visited[next] {
				break // malformed graph; bail out of this component.
			}
			visited[next] = true
			path = append(path, next)
			prev, cur = cur, next
		}

		if closed && len(path) >= 3 {
			pts := make([]geom.Point, len(path))
			for i, idx := range path {
				pts[i] = coast.Points[idx]
			}
			cycles = append(cycles, geom.NewHEPolygonFromPoints(pts))
		}
	}
	return cycles
}

// firstNonEdgeVertex returns the first vertex of poly that does not lie
// exactly on an edge of ref, per spec.md §4.4 steps 6/8.
func firstNonEdgeVertex(poly, ref *geom.HEPolygon) (geom.Point, bool) {
	var found geom.Point
	ok := false
	poly.Each(func(v geom.Handle) {
		if ok {
			return
		}
		p := poly.Point(v)
		if ref.PointInPolygon(p) != geom.OnEdge {
			found, ok = p, true
		}
	})
	return found, ok
}

// pruneOutsideRegion implements spec.md §4.4 step 6: discard cycles whose
// interior lies outside the region.
func pruneOutsideRegion(cycles []*geom.HEPolygon, region *geom.HEPolygon) []*geom.HEPolygon {
	var kept []*geom.HEPolygon
	for _, c := range cycles {
		p, ok := firstNonEdgeVertex(c, region)
		if !ok {
			continue
		}
		if region.PointInPolygon(p) == geom.Inside {
			kept = append(kept, c)
		}
	}
	return kept
}

// enclosesWater implements the water-enclosure test of spec.md §4.4 step 7:
// walk each half-edge and compare the sign of (p2-p1) x grad(elevation(p1)),
// skipping vertices on land (a proxy for "on the region boundary", since
// clamp-inserted region corners are the only vertices likely to read as
// land elevation on an otherwise all-coast cycle). Ties are resolved by
// majority vote across all usable edges rather than the first one alone,
// trading spec.md §9's fragile single-edge heuristic for a more robust one.
func enclosesWater(poly *geom.HEPolygon, bathy *field.Field[int16], height float64) bool {
	const landEps = 1e-6
	neg, pos := 0, 0
	poly.Each(func(v geom.Handle) {
		p1 := poly.Point(v)
		elevation, ok := bathy.Sample(p1)
		if !ok || elevation >= height-landEps {
			return
		}
		grad, ok := bathy.Gradient(p1)
		if !ok {
			return
		}
		p2 := poly.Point(poly.Next(v))
		sign := p2.Sub(p1).Cross(grad)
		switch {
		case sign < 0:
			neg++
		case sign > 0:
			pos++
		}
	})
	return neg > pos
}

// selectOuter implements spec.md §4.4 step 7. If there were no region/coast
// crossings and the region's first corner is water, the region itself is
// the outer boundary (regionIsOuter); otherwise the largest-area
// water-enclosing cycle wins.
func selectOuter(cycles []*geom.HEPolygon, bathy *field.Field[int16], height float64, region *geom.HEPolygon, regionIsOuter bool) (*geom.HEPolygon, []*geom.HEPolygon, error) {
	if regionIsOuter {
		return region, cycles, nil
	}

	bestIdx := -1
	bestArea := -1.0
	for i, c := range cycles {
		if !enclosesWater(c, bathy, height) {
			continue
		}
		if a := c.Area(); a > bestArea {
			bestArea, bestIdx = a, i
		}
	}
	if bestIdx < 0 {
		return nil, nil, errInvalidRegionNoOuter
	}

	rest := make([]*geom.HEPolygon, 0, len(cycles)-1)
	for i, c := range cycles {
		if i != bestIdx {
			rest = append(rest, c)
		}
	}
	return cycles[bestIdx], rest, nil
}

// classifyIslands implements spec.md §4.4 step 8.
func classifyIslands(rest []*geom.HEPolygon, outer *geom.HEPolygon, bathy *field.Field[int16], height float64) []*geom.HEPolygon {
	var islands []*geom.HEPolygon
	for _, c := range rest {
		p, ok := firstNonEdgeVertex(c, outer)
		if !ok || outer.PointInPolygon(p) != geom.Inside {
			continue
		}
		if enclosesWater(c, bathy, height) {
			continue
		}
		islands = append(islands, c)
	}
	return islands
}
