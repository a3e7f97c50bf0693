// Package contour implements MarchingQuads (spec.md §4.3): iso-contour
// extraction from a ScalarField into a LineGraph.
package contour

import (
	"runtime"
	"sync"

	"github.com/arl/seamesh/field"
	"github.com/arl/seamesh/geom"
	"github.com/arl/seamesh/internal/buildlog"
)

// side identifies one of a cell's four edges.
type side int

const (
	sideBottom side = iota // v00-v10
	sideRight               // v10-v11
	sideTop                 // v01-v11
	sideLeft                // v00-v01
)

type edgePair [2]side

const numShards = 16

// dedupTable is a sharded map from canonical cell-edge key to the LineGraph
// vertex index created for it, per spec.md §4.3: "deduplicate the contour
// vertex by a globally-unique cell-edge key". Sharding by key lets unrelated
// cells proceed without contending on a single lock, matching SPEC_FULL's
// concurrency model; it does not need to be as fine-grained as the sharded
// region-merge maps of a much larger mesh pipeline, but the shape carries
// over directly.
type dedupTable struct {
	shards [numShards]struct {
		mu sync.Mutex
		m  map[int64]int
	}
}

func newDedupTable() *dedupTable {
	var t dedupTable
	for i := range t.shards {
		t.shards[i].m = make(map[int64]int)
	}
	return &t
}

func (t *dedupTable) shardFor(key int64) *struct {
	mu sync.Mutex
	m  map[int64]int
} {
	return &t.shards[(key%numShards+numShards)%numShards]
}

// Extract traces the iso-value contour of f into a LineGraph, per spec.md
// §4.3. workers <= 0 defaults to runtime.GOMAXPROCS(0).
func Extract[T field.Number](ctx *buildlog.Context, f *field.Field[T], iso float64, workers int) *geom.LineGraph {
	defer ctx.Scope("contour.Extract")()

	nx, ny := f.Dims()
	ncellsX, ncellsY := nx-1, ny-1

	lg := geom.NewLineGraph()
	var graphMu sync.Mutex
	dedup := newDedupTable()

	vertexFor := func(key int64, a, b geom.Point, va, vb, isoVal float64) int {
		shard := dedup.shardFor(key)
		shard.mu.Lock()
		if v, ok := shard.m[key]; ok {
			shard.mu.Unlock()
			return v
		}
		shard.mu.Unlock()

		p := lerpOnSide(a, b, va, vb, isoVal)

		graphMu.Lock()
		v := lg.AddVertex(p)
		graphMu.Unlock()

		shard.mu.Lock()
		// Another goroutine may have raced us; keep whichever vertex was
		// recorded first so both cells sharing this edge agree.
		if existing, ok := shard.m[key]; ok {
			shard.mu.Unlock()
			return existing
		}
		shard.m[key] = v
		shard.mu.Unlock()
		return v
	}

	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > ncellsY && ncellsY > 0 {
		workers = ncellsY
	}
	if workers < 1 {
		workers = 1
	}

	rows := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range rows {
				for i := 0; i < ncellsX; i++ {
					processCell(f, i, j, nx, ncellsX, ncellsY, iso, vertexFor, func(a, b int) {
						graphMu.Lock()
						lg.AddEdge(a, b)
						graphMu.Unlock()
					})
				}
			}
		}()
	}
	for j := 0; j < ncellsY; j++ {
		rows <- j
	}
	close(rows)
	wg.Wait()

	ctx.Progressf("contour: extracted %d raw vertices over %dx%d cells", len(lg.Points), ncellsX, ncellsY)
	return lg.RemoveDegenerateGeometry()
}

func processCell[T field.Number](f *field.Field[T], i, j, nx, ncellsX, ncellsY int, iso float64, vertexFor func(key int64, a, b geom.Point, va, vb, isoVal float64) int, addEdge func(a, b int)) {
	v00 := float64(f.At(i, j))
	v10 := float64(f.At(i+1, j))
	v11 := float64(f.At(i+1, j+1))
	v01 := float64(f.At(i, j+1))

	sig := 0
	if v00 > iso {
		sig |= 1
	}
	if v10 > iso {
		sig |= 2
	}
	if v11 > iso {
		sig |= 4
	}
	if v01 > iso {
		sig |= 8
	}
	if sig == 0 || sig == 15 {
		return
	}

	p00, p10, p11, p01 := f.NodePoint(i, j), f.NodePoint(i+1, j), f.NodePoint(i+1, j+1), f.NodePoint(i, j+1)

	sideEndpoints := func(s side) (geom.Point, geom.Point, float64, float64) {
		switch s {
		case sideBottom:
			return p00, p10, v00, v10
		case sideRight:
			return p10, p11, v10, v11
		case sideTop:
			return p01, p11, v01, v11
		default:
			return p00, p01, v00, v01
		}
	}

	pairs := edgesForSignature(sig, v00, v10, v11, v01, iso)
	for _, pr := range pairs {
		aA, aB, aVa, aVb := sideEndpoints(pr[0])
		bA, bB, bVa, bVb := sideEndpoints(pr[1])

		keyA := canonicalKey(i, j, ncellsX, ncellsY, pr[0])
		keyB := canonicalKey(i, j, ncellsX, ncellsY, pr[1])

		va := vertexFor(keyA, aA, aB, aVa, aVb, iso)
		vb := vertexFor(keyB, bA, bB, bVa, bVb, iso)
		addEdge(va, vb)
	}
}

// edgesForSignature returns the up-to-two side pairs an active cell must
// connect, per spec.md §4.3's 16-entry table. Ambiguous saddle signatures
// (5 and 10) resolve via the asymptotic decider.
func edgesForSignature(sig int, v00, v10, v11, v01, iso float64) []edgePair {
	switch sig {
	case 1, 14:
		return []edgePair{{sideLeft, sideBottom}}
	case 2, 13:
		return []edgePair{{sideBottom, sideRight}}
	case 4, 11:
		return []edgePair{{sideRight, sideTop}}
	case 8, 7:
		return []edgePair{{sideTop, sideLeft}}
	case 3, 12:
		return []edgePair{{sideLeft, sideRight}}
	case 6, 9:
		return []edgePair{{sideBottom, sideTop}}
	case 5:
		if asymptoticDecider(v00, v10, v11, v01, iso) {
			return []edgePair{{sideBottom, sideRight}, {sideTop, sideLeft}}
		}
		return []edgePair{{sideLeft, sideBottom}, {sideRight, sideTop}}
	case 10:
		if asymptoticDecider(v00, v10, v11, v01, iso) {
			return []edgePair{{sideLeft, sideBottom}, {sideRight, sideTop}}
		}
		return []edgePair{{sideBottom, sideRight}, {sideTop, sideLeft}}
	default:
		return nil
	}
}

// asymptoticDecider resolves saddle ambiguity per spec.md §4.3: true selects
// the cross-diagonal pairing.
func asymptoticDecider(v0, v1, v2, v3, iso float64) bool {
	denom := v0 + v2 - v1 - v3
	if denom == 0 {
		return false
	}
	return (v0*v2+v1*v3)/denom < iso
}

// lerpOnSide finds the iso crossing between a (value va) and b (value vb),
// falling back to the midpoint when va == vb to avoid a zero denominator.
func lerpOnSide(a, b geom.Point, va, vb, iso float64) geom.Point {
	if va == vb {
		return a.Lerp(b, 0.5)
	}
	t := (iso - va) / (vb - va)
	return a.Lerp(b, t)
}

// canonicalKey maps a (cell, side) pair to a key shared by both cells that
// border the same physical edge: the top/right side of a cell is redirected
// to the bottom/left side of its neighbour when one exists, so both cells
// compute the same key for their shared edge.
func canonicalKey(i, j, ncellsX, ncellsY int, s side) int64 {
	ci, cj, cs := i, j, s
	switch s {
	case sideTop:
		if j+1 < ncellsY {
			ci, cj, cs = i, j+1, sideBottom
		}
	case sideRight:
		if i+1 < ncellsX {
			ci, cj, cs = i+1, j, sideLeft
		}
	}
	// Multiplier is 4, not 2, since cs ranges over all four sides here
	// (redirection above only narrows which side is used, not the range);
	// collision-free either way, but worth flagging against a literal
	// reading of the base-cell-index-times-2 text this deviates from.
	cellIdx := int64(cj*ncellsX + ci)
	return cellIdx*4 + int64(cs)
}
