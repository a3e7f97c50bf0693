package boundary

import (
	"math"

	"github.com/arl/seamesh/field"
	"github.com/arl/seamesh/geom"
)

// simplify implements spec.md §4.4 step 9: repeated edge collapse until no
// more collapses occur. Returns nil if the polygon degenerates below 3
// vertices. A nil input polygon (e.g. no outer found upstream) passes
// through unchanged.
func simplify(poly *geom.HEPolygon, sizeField *field.SizeField, minAngleDeg float64) *geom.HEPolygon {
	if poly == nil {
		return nil
	}

	dead := make(map[geom.Handle]bool)
	maxPasses := poly.NumVertices() + 1

	for pass := 0; pass < maxPasses; pass++ {
		var snapshot []geom.Handle
		poly.Each(func(v geom.Handle) { snapshot = append(snapshot, v) })

		changed := false
		for _, v := range snapshot {
			if dead[v] || poly.NumVertices() <= 3 {
				continue
			}
			nv := poly.Next(v)
			if dead[nv] {
				continue
			}
			if shouldCollapse(poly, sizeField, minAngleDeg, v, nv) {
				poly.Collapse(v, 0)
				dead[v] = true
				changed = true
			}
		}
		if !changed {
			break
		}
	}

	poly.Compact()
	if poly.NumVertices() < 3 {
		return nil
	}
	return poly
}

func shouldCollapse(poly *geom.HEPolygon, sizeField *field.SizeField, minAngleDeg float64, v, nv geom.Handle) bool {
	p1, p2 := poly.Point(v), poly.Point(nv)

	if sizeField != nil {
		mid := p1.Lerp(p2, 0.5)
		if size, ok := sizeField.Sample(mid); ok && p1.DistTo(p2) < size {
			return true
		}
	}

	nnv := poly.Next(nv)
	if p1.DistToMeters(poly.Point(nnv)) < 1.0 {
		return true
	}

	if minAngleDeg > 0 {
		angle := interiorAngleDeg(p1, p2, poly.Point(nnv))
		if angle < minAngleDeg {
			return true
		}
	}
	return false
}

// interiorAngleDeg returns the angle at b between ba and bc, in degrees.
func interiorAngleDeg(a, b, c geom.Point) float64 {
	ba := a.Sub(b)
	bc := c.Sub(b)
	denom := ba.Len() * bc.Len()
	if denom == 0 {
		return 0
	}
	cos := ba.Dot(bc) / denom
	cos = math.Max(-1, math.Min(1, cos))
	return math.Acos(cos) * 180 / math.Pi
}
