package boundary

import "github.com/arl/seamesh/geom"

// clampCuts implements spec.md §4.4 step 4: pairs of crossings (starting
// from the first if the first region corner is water, otherwise the second)
// delimit a cut segment. Between each pair, the coast fragment outside the
// region is replaced by a path from the first intersection, through any
// region corners strictly between the two region edges involved, to the
// second intersection. coast is mutated in place.
func clampCuts(coast *geom.LineGraph, region *geom.HEPolygon, crossings []crossing, firstCornerWater bool) {
	if len(crossings) < 2 {
		return
	}

	var orderedHandles []geom.Handle
	region.Each(func(v geom.Handle) { orderedHandles = append(orderedHandles, v) })
	n := len(orderedHandles)

	origEdgeCount := len(coast.Edges)
	removed := make([]bool, origEdgeCount)

	start := 0
	if !firstCornerWater {
		start = 1
	}

	for idx := start; idx+1 < len(crossings); idx += 2 {
		c1, c2 := crossings[idx], crossings[idx+1]
		spliceCut(coast, region, orderedHandles, n, c1, c2, removed)
	}

	filtered := coast.Edges[:0]
	for i, e := range coast.Edges {
		if i < origEdgeCount && removed[i] {
			continue
		}
		filtered = append(filtered, e)
	}
	coast.Edges = filtered
}

func spliceCut(coast *geom.LineGraph, region *geom.HEPolygon, orderedHandles []geom.Handle, n int, c1, c2 crossing, removed []bool) {
	iv1 := coast.AddVertex(c1.point)
	iv2 := coast.AddVertex(c2.point)

	insideEndpoint := func(coastEdgeIdx int) int {
		e := coast.Edges[coastEdgeIdx]
		a, b := coast.Points[e[0]], coast.Points[e[1]]
		if region.PointInPolygon(a) != geom.Outside {
			return e[0]
		}
		if region.PointInPolygon(b) != geom.Outside {
			return e[1]
		}
		// Neither endpoint reads as inside or on the region boundary (both
		// test Outside); arbitrarily keep the first, matching the degenerate
		// tie-break spec.md §9 accepts for boundary grazing cases.
		return e[0]
	}

	insideA := insideEndpoint(c1.coastEdge)
	insideB := insideEndpoint(c2.coastEdge)
	removed[c1.coastEdge] = true
	removed[c2.coastEdge] = true

	// Corners strictly between the two region edges, walking forward from
	// the end of c1's edge to the start of c2's edge.
	var corners []int
	if c1.regionEdge != c2.regionEdge {
		for i := (c1.regionEdge + 1) % n; ; i = (i + 1) % n {
			corners = append(corners, coast.AddVertex(region.Point(orderedHandles[i])))
			if i == c2.regionEdge {
				break
			}
		}
	}

	chain := append([]int{insideA, iv1}, corners...)
	chain = append(chain, iv2, insideB)
	for i := 0; i+1 < len(chain); i++ {
		coast.AddEdge(chain[i], chain[i+1])
	}
}
