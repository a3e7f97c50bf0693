// Package boundary implements BoundaryBuilder (spec.md §4.4): clipping the
// coastline iso-contour against a region polygon to produce a meshable
// domain of one outer ring and zero or more islands.
package boundary

import (
	"github.com/arl/seamesh/contour"
	"github.com/arl/seamesh/errs"
	"github.com/arl/seamesh/field"
	"github.com/arl/seamesh/geom"
	"github.com/arl/seamesh/internal/buildlog"
)

var errInvalidRegionNoOuter = errs.New(errs.InvalidRegion, "boundary.Build", "no water-enclosing cycle found for outer boundary")

// Options mirrors spec.md §4.4's { ignore_islands, simplify, min_angle_deg }.
type Options struct {
	IgnoreIslands bool
	Simplify      bool
	MinAngleDeg   float64
}

// Boundary is spec.md §3's { outer, islands }.
type Boundary struct {
	Outer   *geom.HEPolygon
	Islands []*geom.HEPolygon
}

// Build runs the nine-step BoundaryBuilder pipeline of spec.md §4.4 over
// bathy clipped against region at iso value height.
func Build(ctx *buildlog.Context, bathy *field.Field[int16], region *geom.LineGraph, sizeField *field.SizeField, height float64, opts Options) (*Boundary, error) {
	defer ctx.Scope("boundary.Build")()

	// Step 1: region canonicalisation.
	regionPoly, err := canonicalizeRegion(region)
	if err != nil {
		return nil, err
	}
	ctx.Progressf("boundary: region canonicalised, %d vertices", regionPoly.NumVertices())

	// Step 2: coast extraction.
	coast := contour.Extract[int16](ctx, bathy, height, 0)
	ctx.Progressf("boundary: coast contour has %d vertices", len(coast.Points))

	// Step 3: intersections.
	crossings := findCrossings(regionPoly, coast)
	ctx.Progressf("boundary: found %d region/coast crossings", len(crossings))

	// Step 4: clamp — splice the coastline at alternating crossing pairs.
	firstCornerWater := isWater(bathy, regionPoly.Point(regionPoly.Start()), height)
	clampCuts(coast, regionPoly, crossings, firstCornerWater)

	// Step 5: cycle extraction.
	cycles := extractCycles(coast)
	ctx.Progressf("boundary: extracted %d closed cycles", len(cycles))

	// Step 6: domain pruning.
	cycles = pruneOutsideRegion(cycles, regionPoly)

	// Step 7: outer selection.
	outer, rest, err := selectOuter(cycles, bathy, height, regionPoly, len(crossings) == 0 && firstCornerWater)
	if err != nil {
		return nil, err
	}

	// Step 8: island classification.
	var islands []*geom.HEPolygon
	if !opts.IgnoreIslands {
		islands = classifyIslands(rest, outer, bathy, height)
	}

	// Step 9: simplification.
	if opts.Simplify {
		outer = simplify(outer, sizeField, opts.MinAngleDeg)
		kept := islands[:0]
		for _, isl := range islands {
			if s := simplify(isl, sizeField, opts.MinAngleDeg); s != nil {
				kept = append(kept, s)
			}
		}
		islands = kept
	}

	b := &Boundary{Outer: outer, Islands: islands}
	if HasIntersections(b) {
		ctx.Warningf("boundary: outer+islands union has crossing edges")
	}
	return b, nil
}

// isWater reports whether the bathymetric elevation sampled at p is below
// the iso height, spec.md §4.4's "corner is water" test.
func isWater(bathy *field.Field[int16], p geom.Point, height float64) bool {
	v, ok := bathy.Sample(p)
	return ok && v < height
}

// HasIntersections is the has_intersections post-condition of spec.md §4.4:
// combine outer + islands into a LineGraph and report whether any two
// non-adjacent edges intersect.
func HasIntersections(b *Boundary) bool {
	polys := make([]*geom.LineGraph, 0, 1+len(b.Islands))
	polys = append(polys, b.Outer.ToLineGraph())
	for _, isl := range b.Islands {
		polys = append(polys, isl.ToLineGraph())
	}
	return geom.CombinePolygons(polys...).HasSelfIntersection()
}

func canonicalizeRegion(region *geom.LineGraph) (*geom.HEPolygon, error) {
	if region.HasSelfIntersection() {
		return nil, errs.New(errs.InvalidRegion, "boundary.Build", "region self-intersects")
	}
	adj := region.Adjacency()
	if len(adj) == 0 {
		return nil, errs.New(errs.InvalidRegion, "boundary.Build", "region is empty")
	}
	for _, neighbors := range adj {
		if len(neighbors) != 2 {
			return nil, errs.New(errs.InvalidRegion, "boundary.Build", "region vertex does not have adjacency 2")
		}
	}

	ordered, ok := walkSingleCycle(adj)
	if !ok {
		return nil, errs.New(errs.InvalidRegion, "boundary.Build", "region is not exactly one cycle")
	}

	pts := make([]geom.Point, len(ordered))
	for i, idx := range ordered {
		pts[i] = region.Points[idx]
	}
	return geom.NewHEPolygonFromPoints(pts), nil
}

// walkSingleCycle follows adj (every vertex degree 2) from vertex 0, and
// reports ok=false unless every vertex is visited exactly once before
// returning to the start.
func walkSingleCycle(adj [][]int) ([]int, bool) {
	n := len(adj)
	visited := make([]bool, n)
	order := make([]int, 0, n)

	prev, cur := -1, 0
	for i := 0; i < n; i++ {
		if visited[cur] {
			return nil, false
		}
		visited[cur] = true
		order = append(order, cur)

		next := adj[cur][0]
		if next == prev {
			next = adj[cur][1]
		}
		prev, cur = cur, next
	}
	if cur != 0 {
		return nil, false
	}
	for _, v := range visited {
		if !v {
			return nil, false
		}
	}
	return order, true
}
