package mesh

import (
	"math"
	"testing"

	"github.com/arl/seamesh/geom"
	"github.com/stretchr/testify/assert"
)

func TestOptimalValenceInterior(t *testing.T) {
	// A regular hexagonal fan: center plus six rim points, six triangles.
	// The center vertex is interior and gets the flat optimum of 6.
	pts := []geom.Point{{X: 0, Y: 0}}
	for i := 0; i < 6; i++ {
		a := float64(i) * math.Pi / 3
		pts = append(pts, geom.Point{X: 2 * math.Cos(a), Y: 2 * math.Sin(a)})
	}
	var tris [][3]int
	for i := 0; i < 6; i++ {
		tris = append(tris, [3]int{0, i + 1, (i+1)%6 + 1})
	}
	fan, ok := NewFromTriangles(pts, tris)
	if !ok {
		t.Fatal("unexpected non-manifold fan")
	}
	assert.False(t, fan.IsBoundaryVertex(0))
	assert.Equal(t, 6, fan.OptimalValence(0))
}

func TestOptimalValenceBoundaryRightAngleCorner(t *testing.T) {
	m := twoTriangles()
	// Vertex b=(1,0) is the single right-angle corner of triangle a,b,c:
	// interior angle pi/2, scaled optimum is round((pi/2)/(2pi)*6)+1 = 3.
	assert.True(t, m.IsBoundaryVertex(1))
	assert.Equal(t, 3, m.OptimalValence(1))
}
