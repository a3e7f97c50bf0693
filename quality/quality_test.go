package quality

import (
	"math"
	"testing"

	"github.com/arl/seamesh/field"
	"github.com/arl/seamesh/geom"
	"github.com/arl/seamesh/mesh"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// twoTriangles builds a unit square split by its a-c diagonal:
//
//	d --- c
//	| \   |
//	|  \  |
//	a --- b
func twoTriangles() *mesh.Mesh {
	pts := []geom.Point{
		{X: 0, Y: 0}, // a
		{X: 1, Y: 0}, // b
		{X: 1, Y: 1}, // c
		{X: 0, Y: 1}, // d
	}
	tris := [][3]int{
		{0, 1, 2},
		{0, 2, 3},
	}
	m, ok := mesh.NewFromTriangles(pts, tris)
	if !ok {
		panic("twoTriangles: unexpected non-manifold build")
	}
	return m
}

func equilateralTriangle() *mesh.Mesh {
	pts := []geom.Point{
		{X: 0, Y: 0},
		{X: 1, Y: 0},
		{X: 0.5, Y: math.Sqrt(3) / 2},
	}
	m, ok := mesh.NewFromTriangles(pts, [][3]int{{0, 1, 2}})
	if !ok {
		panic("equilateralTriangle: unexpected non-manifold build")
	}
	return m
}

func TestRadiusRatioEquilateralIsOne(t *testing.T) {
	m := equilateralTriangle()
	var f mesh.FaceHandle
	m.Faces(func(fh mesh.FaceHandle) { f = fh })
	assert.InDelta(t, 1.0, RadiusRatio(m, f), 1e-9)
}

func TestRadiusRatioRightTriangleLessThanOne(t *testing.T) {
	m := twoTriangles()
	var f mesh.FaceHandle
	m.Faces(func(fh mesh.FaceHandle) { f = fh })
	r := RadiusRatio(m, f)
	assert.Greater(t, r, 0.0)
	assert.Less(t, r, 1.0)
}

func TestRadiusRatioDegenerateIsZero(t *testing.T) {
	pts := []geom.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}}
	m, ok := mesh.NewFromTriangles(pts, [][3]int{{0, 1, 2}})
	require.True(t, ok)
	var f mesh.FaceHandle
	m.Faces(func(fh mesh.FaceHandle) { f = fh })
	assert.Equal(t, 0.0, RadiusRatio(m, f))
}

func TestShapeRegularityEquilateralIsOne(t *testing.T) {
	m := equilateralTriangle()
	var f mesh.FaceHandle
	m.Faces(func(fh mesh.FaceHandle) { f = fh })
	assert.InDelta(t, 1.0, ShapeRegularity(m, f), 1e-9)
}

func TestValenceDeviationZeroForWellFormedInteriorVertex(t *testing.T) {
	pts := []geom.Point{{X: 0, Y: 0}}
	for i := 0; i < 6; i++ {
		a := float64(i) * math.Pi / 3
		pts = append(pts, geom.Point{X: 2 * math.Cos(a), Y: 2 * math.Sin(a)})
	}
	var tris [][3]int
	for i := 0; i < 6; i++ {
		tris = append(tris, [3]int{0, i + 1, (i+1)%6 + 1})
	}
	fan, ok := mesh.NewFromTriangles(pts, tris)
	require.True(t, ok)
	assert.Equal(t, 0, ValenceDeviation(fan, 0))
}

func TestRelativeEdgeLengthMatchesFieldIsOne(t *testing.T) {
	m := twoTriangles()
	box := geom.Box{Min: geom.Point{X: -1, Y: -1}, Max: geom.Point{X: 2, Y: 2}}
	f := field.New[float64](box, 2, 2, []float64{0.5, 0.5, 0.5, 0.5})
	sf := field.NewSizeField(f)

	var ab mesh.HalfEdgeHandle = -1
	for h := 0; h < m.HalfEdgeCount(); h++ {
		hh := mesh.HalfEdgeHandle(h)
		if m.Origin(hh) == 0 && m.Dest(hh) == 1 {
			ab = hh
		}
	}
	require.NotEqual(t, mesh.HalfEdgeHandle(-1), ab)

	ratio, ok := RelativeEdgeLength(m, ab, sf)
	require.True(t, ok)
	assert.InDelta(t, 2.0, ratio, 1e-9) // edge length 1, field 0.5 -> ratio 2
}

func TestAggregateComputesMinMaxAvg(t *testing.T) {
	agg := Aggregate([]float64{1, 2, 3, 4})
	assert.Equal(t, 1.0, agg.Min)
	assert.Equal(t, 4.0, agg.Max)
	assert.Equal(t, 2.5, agg.Avg)
}

func TestAggregatePanicsOnEmpty(t *testing.T) {
	assert.Panics(t, func() { Aggregate(nil) })
}

func TestFaceRadiusRatiosCoversEveryFace(t *testing.T) {
	m := twoTriangles()
	got := FaceRadiusRatios(m)
	assert.Len(t, got, 2)
}
