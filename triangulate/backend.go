// Package triangulate implements the TriangulatorAdapter of spec.md §4.6:
// translating a Boundary and SizeField into an external mesher's data model
// and back into a mesh.Mesh, behind two interchangeable backends.
package triangulate

import (
	"github.com/arl/seamesh/field"
	"github.com/arl/seamesh/geom"
	"github.com/arl/seamesh/internal/buildlog"
)

// Backend is the planar-straight-line-graph-in, triangle-soup-out contract
// both external meshers satisfy. outer and each holes[i] are closed
// polylines in CCW/CW order as produced by geom.HEPolygon.OrderedPoints;
// seeds[i] is one interior point of holes[i]'s enclosed (excluded) region.
type Backend interface {
	Generate(ctx *buildlog.Context, outer []geom.Point, holes [][]geom.Point, seeds []geom.Point, sizeField *field.SizeField) ([]geom.Point, [][3]int, error)
}
