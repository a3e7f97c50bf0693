// Package remesh implements IsotropicRemeshing (spec.md §4.5): a fixed
// number of split / collapse / valence-equalizing-flip / tangential-smoothing
// passes that drive a triangulation's edge lengths and vertex valences
// towards the bound SizeField's target, in the teacher's mesh-editing style
// (recast/meshdetail.go) generalized to a half-edge topology.
package remesh

import (
	"github.com/arl/seamesh/field"
	"github.com/arl/seamesh/internal/buildlog"
	"github.com/arl/seamesh/mesh"
)

const timerRun buildlog.Timer = "remesh.run"

// Options parameterizes Run, per spec.md §4.5.
type Options struct {
	// MinFactor is the short-edge collapse threshold, as a fraction of the
	// size field sampled at an edge's midpoint. Default range 0.6-0.7.
	MinFactor float64
	// MaxFactor is the long-edge split threshold, same units. Default 1.3.
	MaxFactor float64
	// Iterations bounds the number of split/collapse/flip/smooth passes.
	// Default range 10-20.
	Iterations int
}

// DefaultOptions returns the mid-range defaults spec.md §4.5 names.
func DefaultOptions() Options {
	return Options{MinFactor: 0.65, MaxFactor: 1.3, Iterations: 15}
}

// Run mutates m in place, applying Options.Iterations passes of isotropic
// remeshing driven by sf.
func Run(ctx *buildlog.Context, m *mesh.Mesh, sf *field.SizeField, opts Options) {
	defer ctx.Scope(timerRun)()

	for iter := 0; iter < opts.Iterations; iter++ {
		m.ClearMarks()

		nSplit := splitLongEdges(m, sf, opts.MaxFactor)
		nCollapse := collapseShortEdges(m, sf, opts.MinFactor)
		nFlip := equalizeValences(m)
		m.GC()
		smoothInteriorVertices(m)

		ctx.Progressf("remesh: iteration %d/%d: %d splits, %d collapses, %d flips (%d verts, %d faces)",
			iter+1, opts.Iterations, nSplit, nCollapse, nFlip, m.NumVertices(), m.NumFaces())
	}
}

// splitLongEdges splits every undirected edge longer than
// size(midpoint)*maxFactor at its midpoint, marking the new vertex so the
// same iteration's collapse pass leaves it alone. Visits the half-edge
// array snapshotted at entry, since SplitEdge appends new half-edges past
// that range.
func splitLongEdges(m *mesh.Mesh, sf *field.SizeField, maxFactor float64) int {
	n := m.HalfEdgeCount()
	count := 0
	for i := 0; i < n; i++ {
		h := mesh.HalfEdgeHandle(i)
		if m.HalfEdgeDeleted(h) {
			continue
		}
		t := m.Twin(h)
		if int(h) > int(t) {
			continue // visit each undirected edge once
		}
		a, b := m.Position(m.Origin(h)), m.Position(m.Dest(h))
		mid := a.Lerp(b, 0.5)
		size, ok := sf.Sample(mid)
		if !ok {
			continue
		}
		if a.DistTo(b) <= size*maxFactor {
			continue
		}
		nv, ok := m.SplitEdge(h, 0.5)
		if !ok {
			continue
		}
		m.Mark(nv)
		count++
	}
	return count
}
