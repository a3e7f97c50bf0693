package triangulate

import (
	"testing"

	"github.com/arl/seamesh/boundary"
	"github.com/arl/seamesh/field"
	"github.com/arl/seamesh/geom"
	"github.com/arl/seamesh/internal/buildlog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubBackend returns a fixed triangle soup, ignoring its inputs, so
// Adapter's post-processing logic can be tested without invoking a real
// external mesher.
type stubBackend struct {
	points []geom.Point
	tris   [][3]int
	err    error
}

func (s *stubBackend) Generate(ctx *buildlog.Context, outer []geom.Point, holes [][]geom.Point, seeds []geom.Point, sf *field.SizeField) ([]geom.Point, [][3]int, error) {
	return s.points, s.tris, s.err
}

func unitSquareBoundary(t *testing.T) *boundary.Boundary {
	t.Helper()
	outer := geom.NewHEPolygonFromPoints([]geom.Point{
		{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10},
	})
	return &boundary.Boundary{Outer: outer}
}

func flatSizeField(t *testing.T, value float64) *field.SizeField {
	t.Helper()
	box := geom.Box{Min: geom.Point{X: -1, Y: -1}, Max: geom.Point{X: 11, Y: 11}}
	f := field.New[float64](box, 2, 2, []float64{value, value, value, value})
	return field.NewSizeField(f)
}

func TestAdapterDropsOrphanVertices(t *testing.T) {
	points := []geom.Point{
		{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10},
		{X: 5, Y: 5}, // orphan: referenced by no triangle
	}
	tris := [][3]int{{0, 1, 2}, {0, 2, 3}}

	a := &Adapter{Backend: &stubBackend{points: points, tris: tris}, SizeField: flatSizeField(t, 100)}
	m, err := a.Generate(buildlog.New(false), unitSquareBoundary(t))
	require.NoError(t, err)
	assert.Equal(t, 4, m.NumVertices())
	assert.Equal(t, 2, m.NumFaces())
}

func TestAdapterKeepsLargestConnectedSubmesh(t *testing.T) {
	// Two disjoint right triangles: (0,1,2) has area 0.5, (3,4,5) has area 50.
	points := []geom.Point{
		{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 1}, // small, area 0.5
		{X: 100, Y: 100}, {X: 110, Y: 100}, {X: 100, Y: 110}, // big, area 50
	}
	tris := [][3]int{{0, 1, 2}, {3, 4, 5}}

	a := &Adapter{Backend: &stubBackend{points: points, tris: tris}, SizeField: flatSizeField(t, 1000)}
	m, err := a.Generate(buildlog.New(false), unitSquareBoundary(t))
	require.NoError(t, err)
	assert.Equal(t, 3, m.NumVertices())
	assert.Equal(t, 1, m.NumFaces())
}

func TestAdapterRejectsOutOfRangeTriangleIndex(t *testing.T) {
	points := []geom.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 1}}
	tris := [][3]int{{0, 1, 5}}

	a := &Adapter{Backend: &stubBackend{points: points, tris: tris}, SizeField: flatSizeField(t, 1000)}
	_, err := a.Generate(buildlog.New(false), unitSquareBoundary(t))
	assert.Error(t, err)
}

func TestAdapterPropagatesBackendError(t *testing.T) {
	a := &Adapter{Backend: &stubBackend{err: assert.AnError}, SizeField: flatSizeField(t, 1000)}
	_, err := a.Generate(buildlog.New(false), unitSquareBoundary(t))
	assert.Error(t, err)
}

func TestRejectedCircumcentersSkipsAcceptableTriangles(t *testing.T) {
	sf := flatSizeField(t, 1000)
	points := []geom.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 1}}
	tris := [][3]int{{0, 1, 2}}
	assert.Empty(t, rejectedCircumcenters(points, tris, sf))
}

func TestRejectedCircumcentersFlagsOversizedTriangle(t *testing.T) {
	sf := flatSizeField(t, 1.0)
	points := []geom.Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 0, Y: 10}}
	tris := [][3]int{{0, 1, 2}}
	got := rejectedCircumcenters(points, tris, sf)
	require.Len(t, got, 1)
}

func TestCircumcenterDegenerateTriangle(t *testing.T) {
	_, ok := circumcenter(geom.Point{X: 0, Y: 0}, geom.Point{X: 1, Y: 0}, geom.Point{X: 2, Y: 0})
	assert.False(t, ok)
}

func TestInteriorSeedFindsPointInsideRing(t *testing.T) {
	isl := geom.NewHEPolygonFromPoints([]geom.Point{
		{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 4, Y: 4}, {X: 0, Y: 4},
	})
	p, ok := interiorSeed(isl)
	require.True(t, ok)
	assert.True(t, p.X > 0 && p.X < 4 && p.Y > 0 && p.Y < 4)
}
