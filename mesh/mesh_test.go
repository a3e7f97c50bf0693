package mesh

import (
	"testing"

	"github.com/arl/seamesh/geom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// twoTriangles builds a unit square split by its a-c diagonal:
//
//	d --- c
//	| \   |
//	|  \  |
//	a --- b
func twoTriangles() *Mesh {
	pts := []geom.Point{
		{X: 0, Y: 0}, // a
		{X: 1, Y: 0}, // b
		{X: 1, Y: 1}, // c
		{X: 0, Y: 1}, // d
	}
	tris := [][3]int{
		{0, 1, 2}, // a, b, c
		{0, 2, 3}, // a, c, d
	}
	m, ok := NewFromTriangles(pts, tris)
	if !ok {
		panic("twoTriangles: unexpected non-manifold build")
	}
	return m
}

func TestNewFromTrianglesCountsAndAreas(t *testing.T) {
	m := twoTriangles()
	assert.Equal(t, 4, m.NumVertices())
	assert.Equal(t, 2, m.NumFaces())

	total := 0.0
	m.Faces(func(f FaceHandle) { total += m.FaceArea(f) })
	assert.InDelta(t, 1.0, total, 1e-9)
}

func TestValenceAndBoundary(t *testing.T) {
	m := twoTriangles()
	// a (vertex 0) touches both triangles plus the shared diagonal: valence 3.
	assert.Equal(t, 3, m.Valence(0))
	assert.True(t, m.IsBoundaryVertex(0))
	assert.True(t, m.IsBoundaryVertex(1))
}

func TestFlipEdgeSwapsDiagonal(t *testing.T) {
	m := twoTriangles()

	var shared HalfEdgeHandle = -1
	for h := 0; h < len(m.heOrigin); h++ {
		hh := HalfEdgeHandle(h)
		if !m.IsBoundaryEdge(hh) {
			shared = hh
			break
		}
	}
	require.NotEqual(t, HalfEdgeHandle(-1), shared)

	before := m.OneRing(0) // a's ring includes c pre-flip
	assert.Contains(t, before, VertexHandle(2))

	ok := m.FlipEdge(shared)
	require.True(t, ok)

	assert.NotContains(t, m.OneRing(0), VertexHandle(2))
	assert.Contains(t, m.OneRing(1), VertexHandle(3))

	total := 0.0
	m.Faces(func(f FaceHandle) { total += m.FaceArea(f) })
	assert.InDelta(t, 1.0, total, 1e-9)
}

func TestFlipEdgeRefusesOnBoundary(t *testing.T) {
	m := twoTriangles()
	var boundary HalfEdgeHandle = -1
	for h := 0; h < len(m.heOrigin); h++ {
		hh := HalfEdgeHandle(h)
		if m.IsBoundaryEdge(hh) {
			boundary = hh
			break
		}
	}
	require.NotEqual(t, HalfEdgeHandle(-1), boundary)
	assert.False(t, m.FlipEdge(boundary))
}

func TestSplitEdgePreservesAreaAndIncrementsFaces(t *testing.T) {
	m := twoTriangles()
	var ab HalfEdgeHandle
	for h := 0; h < len(m.heOrigin); h++ {
		hh := HalfEdgeHandle(h)
		o, d := m.Origin(hh), m.Dest(hh)
		if (o == 0 && d == 1) || (o == 1 && d == 0) {
			ab = hh
			break
		}
	}

	nv, ok := m.SplitEdge(ab, 0.5)
	require.True(t, ok)
	assert.Equal(t, VertexHandle(4), nv)
	assert.Equal(t, geom.Point{X: 0.5, Y: 0}, m.Position(nv))
	assert.Equal(t, 3, m.NumFaces())

	total := 0.0
	m.Faces(func(f FaceHandle) { total += m.FaceArea(f) })
	assert.InDelta(t, 1.0, total, 1e-9)
}

func TestCollapseEdgeMergesVerticesAndGC(t *testing.T) {
	m := twoTriangles()
	var ab HalfEdgeHandle
	for h := 0; h < len(m.heOrigin); h++ {
		hh := HalfEdgeHandle(h)
		o, d := m.Origin(hh), m.Dest(hh)
		if (o == 0 && d == 1) || (o == 1 && d == 0) {
			ab = hh
			break
		}
	}

	ok := m.CollapseEdge(ab, 0.5)
	require.True(t, ok)
	assert.True(t, m.IsDeleted(1))
	assert.Equal(t, 3, m.NumVertices())
	assert.Equal(t, 1, m.NumFaces())

	m.GC()
	assert.Equal(t, 3, m.NumVertices())
	assert.Equal(t, 1, m.NumFaces())
	m.Vertices(func(v VertexHandle) { assert.False(t, m.IsDeleted(v)) })
}

func TestCollapseEdgeRefusesOnceAlreadyDeleted(t *testing.T) {
	m := twoTriangles()
	var ab HalfEdgeHandle
	for h := 0; h < len(m.heOrigin); h++ {
		hh := HalfEdgeHandle(h)
		o, d := m.Origin(hh), m.Dest(hh)
		if (o == 0 && d == 1) || (o == 1 && d == 0) {
			ab = hh
			break
		}
	}
	require.True(t, m.CollapseEdge(ab, 0.5))
	assert.False(t, m.CollapseEdge(ab, 0.5))
}

func TestMarkAndClearMarks(t *testing.T) {
	m := twoTriangles()
	m.Mark(0)
	assert.True(t, m.Marked(0))
	assert.False(t, m.Marked(1))
	m.ClearMarks()
	assert.False(t, m.Marked(0))
}

func TestNewFromTrianglesRejectsNonManifold(t *testing.T) {
	pts := []geom.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}}
	tris := [][3]int{
		{0, 1, 2},
		{0, 1, 3}, // re-uses directed edge 0->1
	}
	_, ok := NewFromTriangles(pts, tris)
	assert.False(t, ok)
}
