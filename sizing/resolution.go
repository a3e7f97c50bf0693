// Package sizing implements ReferenceSizeBuilder (spec.md §4.1): turning a
// bathymetry raster and a Resolution spec into a SizeField.
package sizing

import (
	"github.com/arl/seamesh/errs"
	"github.com/arl/seamesh/geom"
)

var errInvalidResolution = errs.New(errs.InvalidConfig, "sizing.Build", "coarsest/finest/coastal must be positive and every AOI must have r_inner < r_outer")

// AreaOfInterest is a circular region where a custom target edge length
// applies, blended over the annulus between the two radii, per spec.md §3.
type AreaOfInterest struct {
	Center  geom.Point
	RInner  float64 // metres
	ROuter  float64 // metres
	SizeM   float64 // target edge length inside RInner, metres
}

// Resolution is the Resolution spec of spec.md §3, all length fields in
// metres.
type Resolution struct {
	CoarsestM float64
	FinestM   float64
	CoastalM  float64
	AOIs      []AreaOfInterest
}

// validate checks the positivity constraints spec.md §4.1 requires,
// returning errInvalidResolution, an errs.InvalidConfig-kind error that
// sizing.Build returns unchanged.
func (r Resolution) validate() error {
	if r.CoarsestM <= 0 || r.FinestM <= 0 || r.CoastalM <= 0 {
		return errInvalidResolution
	}
	for _, a := range r.AOIs {
		if a.RInner >= a.ROuter {
			return errInvalidResolution
		}
	}
	return nil
}
