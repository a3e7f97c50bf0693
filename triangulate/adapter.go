package triangulate

import (
	"math"
	"math/rand"

	"github.com/arl/seamesh/boundary"
	"github.com/arl/seamesh/errs"
	"github.com/arl/seamesh/field"
	"github.com/arl/seamesh/geom"
	"github.com/arl/seamesh/internal/buildlog"
	"github.com/arl/seamesh/mesh"
)

// timerGenerate is the accumulated-duration label for Adapter.Generate.
const timerGenerate buildlog.Timer = "triangulate.generate"

// Adapter wraps a Backend and a bound SizeField, implementing the
// TriangulatorAdapter operation of spec.md §4.6: generate_mesh(boundary,
// size_field) → Mesh. All three required post-processing steps beyond the raw
// backend call — handle conversion with overflow checking, orphan-vertex
// discard, and reduction to the largest connected submesh by summed face
// area — are performed here, identically regardless of which Backend ran.
type Adapter struct {
	Backend   Backend
	SizeField *field.SizeField
}

// Generate triangulates b's outer ring and islands (as holes with an
// interior seed point each) and returns the resulting Mesh.
func (a *Adapter) Generate(ctx *buildlog.Context, b *boundary.Boundary) (*mesh.Mesh, error) {
	defer ctx.Scope(timerGenerate)()

	outer := b.Outer.OrderedPoints()
	holes := make([][]geom.Point, len(b.Islands))
	seeds := make([]geom.Point, len(b.Islands))
	for i, isl := range b.Islands {
		holes[i] = isl.OrderedPoints()
		seed, ok := interiorSeed(isl)
		if !ok {
			return nil, errs.New(errs.DegeneratePolygon, "triangulate.Adapter.Generate", "island has no interior seed point")
		}
		seeds[i] = seed
	}

	points, tris, err := a.Backend.Generate(ctx, outer, holes, seeds, a.SizeField)
	if err != nil {
		return nil, errs.Wrap(errs.BackendFailure, "triangulate.Adapter.Generate", err)
	}

	tris, err = checkedTriangles(points, tris)
	if err != nil {
		return nil, err
	}

	points, tris = dropOrphanVertices(points, tris)

	m, ok := mesh.NewFromTriangles(points, tris)
	if !ok {
		return nil, errs.New(errs.BackendFailure, "triangulate.Adapter.Generate", "backend produced a non-manifold triangulation")
	}

	m = largestSubmesh(m)
	ctx.Progressf("triangulate: %d vertices, %d faces after reduction", m.NumVertices(), m.NumFaces())
	return m, nil
}

// checkedTriangles re-validates every index triple the backend returned
// against len(points), the index-safe conversion with overflow check
// spec.md §4.6 requires at the value-array boundary an exec-based backend
// crosses.
func checkedTriangles(points []geom.Point, tris [][3]int) ([][3]int, error) {
	n := len(points)
	for _, tri := range tris {
		for _, idx := range tri {
			if idx < 0 || idx >= n {
				return nil, errs.New(errs.BackendFailure, "triangulate.checkedTriangles", "triangle index out of range")
			}
		}
	}
	return tris, nil
}

// dropOrphanVertices removes vertices unreferenced by any triangle,
// remapping the surviving triangle indices.
func dropOrphanVertices(points []geom.Point, tris [][3]int) ([]geom.Point, [][3]int) {
	used := make([]bool, len(points))
	for _, tri := range tris {
		for _, idx := range tri {
			used[idx] = true
		}
	}
	remap := make([]int, len(points))
	out := make([]geom.Point, 0, len(points))
	for i, p := range points {
		if used[i] {
			remap[i] = len(out)
			out = append(out, p)
		} else {
			remap[i] = -1
		}
	}
	newTris := make([][3]int, len(tris))
	for i, tri := range tris {
		newTris[i] = [3]int{remap[tri[0]], remap[tri[1]], remap[tri[2]]}
	}
	return out, newTris
}

// largestSubmesh reduces m to its connected component with the greatest
// summed face area, discarding the rest via tombstone-and-compact. Two
// faces are connected when they share a real (non-virtual) edge.
func largestSubmesh(m *mesh.Mesh) *mesh.Mesh {
	parent := map[mesh.FaceHandle]mesh.FaceHandle{}
	var find func(mesh.FaceHandle) mesh.FaceHandle
	find = func(f mesh.FaceHandle) mesh.FaceHandle {
		for parent[f] != f {
			parent[f] = parent[parent[f]]
			f = parent[f]
		}
		return f
	}
	union := func(a, b mesh.FaceHandle) {
		ra, rb := find(a), find(b)
		if ra != rb {
			parent[ra] = rb
		}
	}

	m.Faces(func(f mesh.FaceHandle) { parent[f] = f })
	m.Faces(func(f mesh.FaceHandle) {
		h0 := m.HalfEdgeOf(f)
		h := h0
		for {
			if t := m.Twin(h); m.FaceOf(t) != mesh.FaceHandle(-1) {
				union(f, m.FaceOf(t))
			}
			h = m.Next(h)
			if h == h0 {
				break
			}
		}
	})

	area := map[mesh.FaceHandle]float64{}
	m.Faces(func(f mesh.FaceHandle) {
		area[find(f)] += math.Abs(m.FaceArea(f))
	})

	var best mesh.FaceHandle
	bestArea := -1.0
	for root, a := range area {
		if a > bestArea {
			bestArea, best = a, root
		}
	}

	m.Faces(func(f mesh.FaceHandle) {
		if find(f) != best {
			m.RemoveFace(f)
		}
	})
	m.PruneOrphans()
	m.GC()
	return m
}

// interiorSeed returns a point strictly inside isl, used as the hole seed
// an external mesher needs to know which side of a hole boundary to leave
// untriangulated. The polygon's own centroid-of-vertices is not guaranteed
// interior for a non-convex ring, so this walks the ordered points looking
// for the first triangle of three consecutive vertices whose centroid the
// polygon itself reports as contained — cheap and robust enough for the
// small, already-simplified island rings this package receives.
func interiorSeed(isl *geom.HEPolygon) (geom.Point, bool) {
	pts := isl.OrderedPoints()
	n := len(pts)
	if n < 3 {
		return geom.Point{}, false
	}
	for i := 0; i < n; i++ {
		a, b, c := pts[i], pts[(i+1)%n], pts[(i+2)%n]
		mid := geom.Point{X: (a.X + b.X + c.X) / 3, Y: (a.Y + b.Y + c.Y) / 3}
		if geom.PointInPolygon(mid, pts, rand.Float64) == geom.Inside {
			return mid, true
		}
	}
	return geom.Point{}, false
}
