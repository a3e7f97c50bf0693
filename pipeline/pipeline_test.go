package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/arl/seamesh/config"
	"github.com/arl/seamesh/geom"
	"github.com/arl/seamesh/triangulate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRegionRectangle(t *testing.T) {
	g, err := loadRegion(config.PolyRegion{
		Type: "rectangle",
		Min:  geom.Point{X: 0, Y: 0},
		Max:  geom.Point{X: 2, Y: 3},
	})
	require.NoError(t, err)
	assert.Len(t, g.Points, 4)
	assert.Len(t, g.Edges, 4)
	assert.Equal(t, geom.Point{X: 2, Y: 3}, g.Points[2])
}

func TestLoadRegionFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "r.poly")
	require.NoError(t, os.WriteFile(path, []byte("3 2 0 0\n1 0 0\n2 1 0\n3 0 1\n3 0\n1 1 2\n2 2 3\n3 3 1\n0\n"), 0o644))

	g, err := loadRegion(config.PolyRegion{Type: "file", Path: path})
	require.NoError(t, err)
	assert.Len(t, g.Points, 3)
	assert.Len(t, g.Edges, 3)
}

func TestLoadRegionRejectsUnknownType(t *testing.T) {
	_, err := loadRegion(config.PolyRegion{Type: "circle"})
	assert.Error(t, err)
}

func TestToResolutionConvertsAOIs(t *testing.T) {
	res := toResolution(config.Resolution{
		Coarsest: 10000, Finest: 1000, Coastal: 5000,
		AOI: []config.AreaOfInterest{
			{CenterPos: geom.Point{X: 1, Y: 2}, InnerRadius: 5, OuterRadius: 10, ElementSize: 100},
		},
	})
	assert.Equal(t, 10000.0, res.CoarsestM)
	require.Len(t, res.AOIs, 1)
	assert.Equal(t, geom.Point{X: 1, Y: 2}, res.AOIs[0].Center)
	assert.Equal(t, 100.0, res.AOIs[0].SizeM)
}

func TestTriangulatorBackendResolvesNames(t *testing.T) {
	b, err := triangulatorBackend("triangle")
	require.NoError(t, err)
	assert.IsType(t, &triangulate.Delaunay{}, b)

	b, err = triangulatorBackend("jigsaw")
	require.NoError(t, err)
	assert.IsType(t, &triangulate.AdvancingFront{}, b)

	_, err = triangulatorBackend("delaunator")
	assert.Error(t, err)
}

func TestOutputPathDerivesSiblingName(t *testing.T) {
	assert.Equal(t, "out_boundary.poly", outputPath("out.vtk", "_boundary.poly"))
	assert.Equal(t, "sizefield.vtk", outputPath("", "_sizefield.vtk"))
	assert.Equal(t, "noext_boundary.poly", outputPath("noext", "_boundary.poly"))
}
