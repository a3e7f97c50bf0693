package field

import (
	"testing"

	"github.com/arl/seamesh/geom"
	"github.com/stretchr/testify/assert"
)

func unitBoxField() *Field[float64] {
	box := geom.Box{Min: geom.Point{0, 0}, Max: geom.Point{1, 1}}
	// corners: (0,0)=0 (1,0)=1 (0,1)=2 (1,1)=3, row-major by j then i
	values := []float64{0, 1, 2, 3}
	return New[float64](box, 2, 2, values)
}

func TestSampleMatchesCornersExactly(t *testing.T) {
	f := unitBoxField()
	v, ok := f.Sample(geom.Point{0, 0})
	assert.True(t, ok)
	assert.Equal(t, 0.0, v)

	v, ok = f.Sample(geom.Point{1, 1})
	assert.True(t, ok)
	assert.Equal(t, 3.0, v)
}

func TestSampleBilinearInterior(t *testing.T) {
	f := unitBoxField()
	v, ok := f.Sample(geom.Point{0.5, 0.5})
	assert.True(t, ok)
	assert.InDelta(t, 1.5, v, 1e-9)
}

func TestSampleOutOfRange(t *testing.T) {
	f := unitBoxField()
	_, ok := f.Sample(geom.Point{2, 2})
	assert.False(t, ok)
}

func TestCellSize(t *testing.T) {
	box := geom.Box{Min: geom.Point{0, 0}, Max: geom.Point{10, 20}}
	f := New[float64](box, 11, 21, nil)
	cs := f.CellSize()
	assert.InDelta(t, 1.0, cs.X, 1e-9)
	assert.InDelta(t, 1.0, cs.Y, 1e-9)
}

func TestGradientAtLinearField(t *testing.T) {
	box := geom.Box{Min: geom.Point{0, 0}, Max: geom.Point{10, 9}}
	f := New[float64](box, 11, 2, nil)
	for i := 0; i < 11; i++ {
		for j := 0; j < 2; j++ {
			f.Set(i, j, float64(i))
		}
	}
	g := f.GradientAt(5, 0)
	assert.InDelta(t, 1.0, g.X, 1e-9)
	assert.InDelta(t, 0.0, g.Y, 1e-9)
}

func TestSizeFieldRejectsNonPositive(t *testing.T) {
	box := geom.Box{Min: geom.Point{0, 0}, Max: geom.Point{1, 1}}
	f := New[float64](box, 2, 2, []float64{1, 1, 1, 0})
	assert.Panics(t, func() { NewSizeField(f) })
}

func TestTriangleIsAcceptable(t *testing.T) {
	box := geom.Box{Min: geom.Point{0, 0}, Max: geom.Point{10, 10}}
	f := New[float64](box, 2, 2, []float64{5, 5, 5, 5})
	sf := NewSizeField(f)

	small := sf.TriangleIsAcceptable(geom.Point{0, 0}, geom.Point{1, 0}, geom.Point{0, 1})
	assert.True(t, small)

	big := sf.TriangleIsAcceptable(geom.Point{0, 0}, geom.Point{9, 0}, geom.Point{0, 9})
	assert.False(t, big)
}
