package polyfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/arl/seamesh/geom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestReadOneBasedInlineSquare(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "square.poly", `4 2 0 0
1 0 0
2 1 0
3 1 1
4 0 1
4 0
1 1 2
2 2 3
3 3 4
4 4 1
0
`)
	f, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, []geom.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}}, f.Graph.Points)
	assert.ElementsMatch(t, [][2]int{{0, 1}, {1, 2}, {2, 3}, {3, 0}}, f.Graph.Edges)
	assert.Empty(t, f.Holes)
}

func TestReadZeroBasedInlineSquare(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "square0.poly", `4 2 0 0
0 0 0
1 1 0
2 1 1
3 0 1
4 0
0 0 1
1 1 2
2 2 3
3 3 0
0
`)
	f, err := Read(path)
	require.NoError(t, err)
	assert.ElementsMatch(t, [][2]int{{0, 1}, {1, 2}, {2, 3}, {3, 0}}, f.Graph.Edges)
}

func TestReadExternalNodeFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "region.node", `3 2 0 0
1 0 0
2 2 0
3 1 2
`)
	path := writeFile(t, dir, "region.poly", `0 2 0 0
3 0
1 1 2
2 2 3
3 3 1
0
`)
	f, err := Read(path)
	require.NoError(t, err)
	require.Len(t, f.Graph.Points, 3)
	assert.Equal(t, geom.Point{X: 1, Y: 2}, f.Graph.Points[2])
	assert.ElementsMatch(t, [][2]int{{0, 1}, {1, 2}, {2, 0}}, f.Graph.Edges)
}

func TestReadHolesSection(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "withhole.poly", `4 2 0 0
1 0 0
2 4 0
3 4 4
4 0 4
4 0
1 1 2
2 2 3
3 3 4
4 4 1
1
1 2 2
`)
	f, err := Read(path)
	require.NoError(t, err)
	require.Len(t, f.Holes, 1)
	assert.Equal(t, geom.Point{X: 2, Y: 2}, f.Holes[0])
}

func TestReadSkipsCommentsAndBlankLines(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "commented.poly", `# vertices
3 2 0 0
1 0 0 # origin
2 1 0
3 0 1

# segments
3 0
1 1 2
2 2 3
3 3 1
0
`)
	f, err := Read(path)
	require.NoError(t, err)
	assert.Len(t, f.Graph.Points, 3)
	assert.Len(t, f.Graph.Edges, 3)
}

func TestWriteThenReadRoundTrips(t *testing.T) {
	dir := t.TempDir()
	g := geom.NewLineGraph()
	g.AddVertex(geom.Point{X: 0, Y: 0})
	g.AddVertex(geom.Point{X: 3, Y: 0})
	g.AddVertex(geom.Point{X: 3, Y: 3})
	g.AddEdge(0, 1)
	g.AddEdge(1, 2)
	g.AddEdge(2, 0)
	holes := []geom.Point{{X: 1, Y: 1}}

	path := filepath.Join(dir, "out.poly")
	require.NoError(t, Write(path, g, holes))

	f, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, g.Points, f.Graph.Points)
	assert.ElementsMatch(t, g.Edges, f.Graph.Edges)
	assert.Equal(t, holes, f.Holes)
}

func TestReadRejectsMissingFile(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "missing.poly"))
	assert.Error(t, err)
}

func TestReadRejectsMalformedSegmentLine(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "bad.poly", `2 2 0 0
1 0 0
2 1 0
1 0
1 x y
0
`)
	_, err := Read(path)
	assert.Error(t, err)
}
