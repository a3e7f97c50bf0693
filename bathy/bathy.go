// Package bathy implements the ScalarField<i16> raster decoder of spec.md
// §6: loading a NetCDF bathymetry grid into a field.Field[int16] over a
// lon/lat bounding box, stitching the antimeridian when the raster's
// longitude axis wraps.
package bathy

import (
	"github.com/arl/seamesh/errs"
	"github.com/arl/seamesh/field"
	"github.com/arl/seamesh/geom"
	"github.com/fhs/go-netcdf/netcdf"
)

// Options names the NetCDF variables to read, since the convention differs
// between bathymetry providers (GEBCO uses "elevation", ETOPO uses "z").
type Options struct {
	// LonVar, LatVar, ElevationVar are the dataset variable names. Empty
	// fields fall back to "lon"/"lat"/"elevation".
	LonVar, LatVar, ElevationVar string
}

func (o Options) resolved() Options {
	if o.LonVar == "" {
		o.LonVar = "lon"
	}
	if o.LatVar == "" {
		o.LatVar = "lat"
	}
	if o.ElevationVar == "" {
		o.ElevationVar = "elevation"
	}
	return o
}

// LoadNetCDF opens path, reads the longitude/latitude axes and the
// elevation grid, and returns a field.Field[int16] over the grid's
// bounding box in degrees. Longitude is normalised to the ascending,
// antimeridian-stitched axis spec.md §6 requires: a raster whose raw
// longitude values wrap past 180 (e.g. 170...180,-180...-170) is
// reassembled into one ascending run by shifting the wrapped half by
// +360 degrees and concatenating its row segment after the other.
func LoadNetCDF(path string, opts Options) (*field.Field[int16], error) {
	opts = opts.resolved()

	ds, err := netcdf.OpenFile(path, netcdf.NOWRITE)
	if err != nil {
		return nil, errs.Wrap(errs.IoError, "bathy.LoadNetCDF", err)
	}
	defer ds.Close()

	lon, err := readFloat64Var(ds, opts.LonVar)
	if err != nil {
		return nil, errs.Wrap(errs.IoError, "bathy.LoadNetCDF", err)
	}
	lat, err := readFloat64Var(ds, opts.LatVar)
	if err != nil {
		return nil, errs.Wrap(errs.IoError, "bathy.LoadNetCDF", err)
	}

	elevVar, err := ds.Var(opts.ElevationVar)
	if err != nil {
		return nil, errs.Wrap(errs.IoError, "bathy.LoadNetCDF", err)
	}
	nx, ny := len(lon), len(lat)
	raw := make([]int16, nx*ny)
	if err := elevVar.ReadInt16s(raw); err != nil {
		return nil, errs.Wrap(errs.IoError, "bathy.LoadNetCDF", err)
	}

	if !ascending(lat) {
		return nil, errs.New(errs.InvalidConfig, "bathy.LoadNetCDF", "latitude axis must be ascending")
	}

	lon, perm := stitchAntimeridian(lon)
	values := make([]int16, nx*ny)
	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			values[j*nx+i] = raw[j*nx+perm[i]]
		}
	}

	box := geom.Box{
		Min: geom.Point{X: lon[0], Y: lat[0]},
		Max: geom.Point{X: lon[nx-1], Y: lat[ny-1]},
	}
	return field.New[int16](box, nx, ny, values), nil
}

func readFloat64Var(ds netcdf.Dataset, name string) ([]float64, error) {
	v, err := ds.Var(name)
	if err != nil {
		return nil, err
	}
	dims, err := v.Dims()
	if err != nil {
		return nil, err
	}
	n, err := dims[0].Len()
	if err != nil {
		return nil, err
	}
	out := make([]float64, n)
	if err := v.ReadFloat64s(out); err != nil {
		return nil, err
	}
	return out, nil
}

func ascending(xs []float64) bool {
	for i := 1; i < len(xs); i++ {
		if xs[i] <= xs[i-1] {
			return false
		}
	}
	return true
}

// stitchAntimeridian detects a single wrap point in a raw longitude axis
// (a decrease between consecutive samples, the signature of a grid stored
// in (-180, 180] order that crosses the dateline) and returns a new,
// strictly ascending axis plus the permutation of the original column
// indices that produces it: lon[i] = raw[perm[i]] after unwrapping. The
// segment after the wrap point restarted at -180, so it is shifted by
// +360 and kept in its original trailing position, continuing the
// ascending run the leading segment started. An already-ascending axis is
// returned unchanged with the identity permutation.
func stitchAntimeridian(raw []float64) (lon []float64, perm []int) {
	wrap := -1
	for i := 1; i < len(raw); i++ {
		if raw[i] < raw[i-1] {
			wrap = i
			break
		}
	}
	if wrap < 0 {
		perm = make([]int, len(raw))
		for i := range perm {
			perm[i] = i
		}
		return append([]float64(nil), raw...), perm
	}

	n := len(raw)
	lon = make([]float64, n)
	perm = make([]int, n)
	k := 0
	for i := 0; i < wrap; i++ {
		lon[k] = raw[i]
		perm[k] = i
		k++
	}
	for i := wrap; i < n; i++ {
		lon[k] = raw[i] + 360
		perm[k] = i
		k++
	}
	return lon, perm
}
