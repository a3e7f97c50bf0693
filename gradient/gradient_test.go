package gradient

import (
	"math"
	"testing"

	"github.com/arl/seamesh/field"
	"github.com/arl/seamesh/geom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// spikeField is flat except for one corner node set far higher than its
// neighbours, the textbook case a gradient limiter must smooth.
func spikeField(t *testing.T, nx, ny int, spike float64) *field.SizeField {
	t.Helper()
	box := geom.Box{Min: geom.Point{X: 0, Y: 0}, Max: geom.Point{X: float64(nx - 1), Y: float64(ny - 1)}}
	values := make([]float64, nx*ny)
	for i := range values {
		values[i] = 1
	}
	values[0] = spike
	f := field.New[float64](box, nx, ny, values)
	return field.NewSizeField(f)
}

func maxAdjacentDiff(t *testing.T, sf *field.SizeField, nx, ny int) float64 {
	t.Helper()
	max := 0.0
	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			if i+1 < nx {
				if d := math.Abs(sf.At(i, j) - sf.At(i+1, j)); d > max {
					max = d
				}
			}
			if j+1 < ny {
				if d := math.Abs(sf.At(i, j) - sf.At(i, j+1)); d > max {
					max = d
				}
			}
		}
	}
	return max
}

func TestSweepNeverRaisesValues(t *testing.T) {
	sf := spikeField(t, 5, 5, 100)
	out := Sweep{}.Limit(sf, 1.0)
	nx, ny := sf.Dims()
	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			assert.LessOrEqual(t, out.At(i, j), sf.At(i, j)+1e-9)
		}
	}
}

func TestSweepBoundsAxialGradient(t *testing.T) {
	sf := spikeField(t, 6, 6, 1000)
	limit := 0.5
	out := Sweep{}.Limit(sf, limit)
	nx, ny := sf.Dims()
	cs := out.CellSize()
	spacing := math.Min(cs.X, cs.Y)

	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			if i+1 < nx {
				d := math.Abs(out.At(i, j) - out.At(i+1, j))
				assert.LessOrEqual(t, d, limit*cs.X*(1+1e-3))
			}
			if j+1 < ny {
				d := math.Abs(out.At(i, j) - out.At(i, j+1))
				assert.LessOrEqual(t, d, limit*cs.Y*(1+1e-3))
			}
		}
	}
	_ = spacing
}

func TestAxialNeverRaisesValues(t *testing.T) {
	sf := spikeField(t, 5, 5, 50)
	out := Axial{}.Limit(sf, 1.0)
	nx, ny := sf.Dims()
	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			assert.LessOrEqual(t, out.At(i, j), sf.At(i, j)+1e-9)
		}
	}
}

func TestAxialIsWeakerThanSweepOnDiagonal(t *testing.T) {
	sf := spikeField(t, 6, 6, 1000)
	limit := 0.5

	sweep := Sweep{}.Limit(sf, limit)
	axial := Axial{}.Limit(sf, limit)

	// Along the exact diagonal from the spike, the axial-only 4-neighbour
	// variant propagates more slowly than the quadrant-aware sweep, so its
	// value there should be no smaller.
	assert.GreaterOrEqual(t, axial.At(2, 2), sweep.At(2, 2)-1e-9)
}

func TestForMethodResolvesNames(t *testing.T) {
	require.IsType(t, Axial{}, ForMethod("omg"))
	require.IsType(t, Sweep{}, ForMethod("marche"))
	assert.Nil(t, ForMethod("none"))
}
