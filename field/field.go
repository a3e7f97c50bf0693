// Package field implements ScalarField<T> from spec.md §3: a regular 2-D
// grid over a geographic bounding box with bilinear sampling and
// finite-difference gradients, generalized with a Go type parameter over the
// grid's storage type (int16 for raw bathymetry, float64 for derived size
// fields) in place of spec.md's notional ScalarField<T>.
package field

import (
	"github.com/arl/assertgo"
	"github.com/arl/seamesh/geom"
)

// Number is the set of scalar types a Field may carry.
type Number interface {
	~int16 | ~int32 | ~float32 | ~float64
}

// Field is a regular nx-by-ny grid of T values over Box, corner-sampled:
// the outermost grid nodes coincide exactly with the box corners rather than
// cell centers, per spec.md §3.
type Field[T Number] struct {
	box    geom.Box
	nx, ny int
	values []T // row-major, length nx*ny
}

// New builds a Field over box with the given grid dimensions, both of which
// must be >= 2 per spec.md §3. values must be row-major and exactly nx*ny
// long; a nil values allocates a zeroed grid.
func New[T Number](box geom.Box, nx, ny int, values []T) *Field[T] {
	assert.True(nx >= 2 && ny >= 2, "field.New: grid dimensions must be >= 2")
	if values == nil {
		values = make([]T, nx*ny)
	}
	assert.True(len(values) == nx*ny, "field.New: value count does not match grid dimensions")
	return &Field[T]{box: box, nx: nx, ny: ny, values: values}
}

// Box returns the field's bounding box.
func (f *Field[T]) Box() geom.Box { return f.box }

// Dims returns (nx, ny).
func (f *Field[T]) Dims() (nx, ny int) { return f.nx, f.ny }

// CellSize returns the grid spacing (dx, dy), (max-min)/(dim-1) per spec.md §3.
func (f *Field[T]) CellSize() geom.Point {
	size := f.box.Size()
	return geom.Point{
		X: size.X / float64(f.nx-1),
		Y: size.Y / float64(f.ny-1),
	}
}

// idx returns the row-major storage index of grid node (i, j).
func (f *Field[T]) idx(i, j int) int { return j*f.nx + i }

// At returns the exact value stored at grid node (i, j).
func (f *Field[T]) At(i, j int) T {
	assert.True(i >= 0 && i < f.nx && j >= 0 && j < f.ny, "field.Field.At: index out of range")
	return f.values[f.idx(i, j)]
}

// Set overwrites the value at grid node (i, j). Coordinates are immutable
// once built; only values are mutable, per spec.md §3.
func (f *Field[T]) Set(i, j int, v T) {
	assert.True(i >= 0 && i < f.nx && j >= 0 && j < f.ny, "field.Field.Set: index out of range")
	f.values[f.idx(i, j)] = v
}

// NodePoint returns the geographic position of grid node (i, j).
func (f *Field[T]) NodePoint(i, j int) geom.Point {
	cs := f.CellSize()
	return geom.Point{
		X: f.box.Min.X + float64(i)*cs.X,
		Y: f.box.Min.Y + float64(j)*cs.Y,
	}
}

// Values returns the backing row-major value slice. Callers must not retain
// it beyond the Field's lifetime in a way that breaks the single-owner
// model of spec.md §5.
func (f *Field[T]) Values() []T { return f.values }

// cellOf locates the grid cell (i, j) containing point p, where (i, j) is
// the lower-left corner node, clamped to [0, nx-2] x [0, ny-2], and returns
// the fractional offset (u, v) within that cell, both in [0, 1].
//
// Returns ok=false if p lies outside Box (spec.md §3's OutOfRange case).
func (f *Field[T]) cellOf(p geom.Point) (i, j int, u, v float64, ok bool) {
	if !f.box.Contains(p) {
		return 0, 0, 0, 0, false
	}
	cs := f.CellSize()
	fx := (p.X - f.box.Min.X) / cs.X
	fy := (p.Y - f.box.Min.Y) / cs.Y

	i = int(fx)
	if i >= f.nx-1 {
		i = f.nx - 2
	}
	j = int(fy)
	if j >= f.ny-1 {
		j = f.ny - 2
	}
	u = fx - float64(i)
	v = fy - float64(j)
	return i, j, u, v, true
}

// Sample returns the bilinear interpolation of the field at p. ok is false
// if p lies outside the field's box (spec.md §3's OutOfRange).
func (f *Field[T]) Sample(p geom.Point) (value float64, ok bool) {
	i, j, u, v, ok := f.cellOf(p)
	if !ok {
		return 0, false
	}
	v00 := float64(f.At(i, j))
	v10 := float64(f.At(i+1, j))
	v01 := float64(f.At(i, j+1))
	v11 := float64(f.At(i+1, j+1))
	return bilerp(v00, v10, v01, v11, u, v), true
}

func bilerp(v00, v10, v01, v11, u, v float64) float64 {
	top := v00*(1-u) + v10*u
	bot := v01*(1-u) + v11*u
	return top*(1-v) + bot*v
}

// GradientAt returns the central-difference gradient at grid node (i, j),
// falling back to a forward/backward difference at the border, per
// spec.md §3's gradient_at.
func (f *Field[T]) GradientAt(i, j int) geom.Point {
	assert.True(i >= 0 && i < f.nx && j >= 0 && j < f.ny, "field.Field.GradientAt: index out of range")
	cs := f.CellSize()

	var dx float64
	switch {
	case f.nx == 1:
		dx = 0
	case i == 0:
		dx = (float64(f.At(1, j)) - float64(f.At(0, j))) / cs.X
	case i == f.nx-1:
		dx = (float64(f.At(i, j)) - float64(f.At(i-1, j))) / cs.X
	default:
		dx = (float64(f.At(i+1, j)) - float64(f.At(i-1, j))) / (2 * cs.X)
	}

	var dy float64
	switch {
	case f.ny == 1:
		dy = 0
	case j == 0:
		dy = (float64(f.At(i, 1)) - float64(f.At(i, 0))) / cs.Y
	case j == f.ny-1:
		dy = (float64(f.At(i, j)) - float64(f.At(i, j-1))) / cs.Y
	default:
		dy = (float64(f.At(i, j+1)) - float64(f.At(i, j-1))) / (2 * cs.Y)
	}

	return geom.Point{X: dx, Y: dy}
}

// Gradient returns the bilinear interpolation of the four enclosing nodes'
// GradientAt, per spec.md §3's gradient(point). ok is false outside Box.
func (f *Field[T]) Gradient(p geom.Point) (grad geom.Point, ok bool) {
	i, j, u, v, ok := f.cellOf(p)
	if !ok {
		return geom.Point{}, false
	}
	g00 := f.GradientAt(i, j)
	g10 := f.GradientAt(i+1, j)
	g01 := f.GradientAt(i, j+1)
	g11 := f.GradientAt(i+1, j+1)
	return geom.Point{
		X: bilerp(g00.X, g10.X, g01.X, g11.X, u, v),
		Y: bilerp(g00.Y, g10.Y, g01.Y, g11.Y, u, v),
	}, true
}

// Map returns a new Field of the same shape with each value replaced by
// fn(i, j, value). Used by sizing/gradient to derive one field from another
// without repeating the grid bookkeeping.
func Map[T, U Number](f *Field[T], fn func(i, j int, v T) U) *Field[U] {
	out := New[U](f.box, f.nx, f.ny, nil)
	for j := 0; j < f.ny; j++ {
		for i := 0; i < f.nx; i++ {
			out.Set(i, j, fn(i, j, f.At(i, j)))
		}
	}
	return out
}
