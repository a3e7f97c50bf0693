package sizing

import (
	"math"
	"runtime"
	"sync"

	"github.com/arl/seamesh/field"
	"github.com/arl/seamesh/geom"
	"github.com/arl/seamesh/internal/buildlog"
)

// gravityConst is g in the CFL/gravity-wave rules of spec.md §4.1.
const gravityConst = 9.81

// landClampM is the depth magnitude beyond which land elevation is folded
// back to be treated symmetrically with deep water, spec.md §4.1 step 1.
const landClampM = 500

// Build derives a SizeField over bathy's domain from res, per the six steps
// of spec.md §4.1. seaLevelM is the sea_level config offset, in metres.
//
// The per-node loop runs over a worker pool sized to GOMAXPROCS, per
// spec.md §5.2: each goroutine only ever writes the node it owns, so no
// locking is required beyond that exclusive write.
func Build(ctx *buildlog.Context, bathy *field.Field[int16], seaLevelM float64, res Resolution) (*field.SizeField, error) {
	if err := res.validate(); err != nil {
		return nil, err
	}
	defer ctx.Scope("sizing.Build")()

	nx, ny := bathy.Dims()
	out := field.New[float64](bathy.Box(), nx, ny, nil)

	factor := res.CoarsestM / 200
	floor := 0.1 * res.FinestM * res.FinestM / (factor * factor)

	workers := runtime.GOMAXPROCS(0)
	if workers > ny {
		workers = ny
	}
	if workers < 1 {
		workers = 1
	}

	var wg sync.WaitGroup
	rows := make(chan int)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range rows {
				for i := 0; i < nx; i++ {
					out.Set(i, j, nodeSize(bathy, i, j, seaLevelM, factor, floor, res))
				}
			}
		}()
	}
	for j := 0; j < ny; j++ {
		rows <- j
	}
	close(rows)
	wg.Wait()

	ctx.Progressf("sizing: built %dx%d size field", nx, ny)
	return field.NewSizeField(out), nil
}

func nodeSize(bathy *field.Field[int16], i, j int, seaLevelM, factor, floor float64, res Resolution) float64 {
	elevation := float64(bathy.At(i, j))
	p := bathy.NodePoint(i, j)

	// Step 1: depth, with land above landClampM folded symmetrically to
	// avoid the clamp in step 2 always winning on land.
	depth := -elevation + seaLevelM
	if depth < -landClampM {
		depth = -depth
	}

	// Step 2: clamp below by the finest/factor floor.
	if depth < floor {
		depth = floor
	}

	// Step 3: CFL and gravity-wave rules.
	cfl := factor * math.Sqrt(gravityConst*depth)

	gradDeg := bathy.GradientAt(i, j)
	gradPerMeter := gradDeg.Len() / geom.MetersPerDegree

	var gravityRule float64
	if gradPerMeter == 0 {
		// Division by zero gradient: fall back to the coastal floor, per
		// spec.md §4.1.
		gravityRule = res.CoastalM
	} else {
		gravityRule = math.Max(factor*0.02*depth/gradPerMeter, res.CoastalM)
	}

	// Step 4.
	size := math.Min(2*res.CoarsestM, math.Min(gravityRule, math.Max(cfl, res.CoastalM)))

	// Step 5: AOI blending, applied in declaration order so later AOIs can
	// refine the result of earlier ones, matching original_source.
	for _, aoi := range res.AOIs {
		d := p.DistToMeters(aoi.Center)
		size = math.Max(blend(size, d, aoi), cfl)
	}

	// Step 6: store back in the field's native unit.
	return geom.MetersToDegrees(size)
}

// blend implements spec.md §4.1 step 5's AOI blend: size_aoi inside RInner,
// the field's current size outside ROuter, a linear interpolation in the
// annulus, and always the minimum with the current size.
func blend(current, dist float64, aoi AreaOfInterest) float64 {
	var target float64
	switch {
	case dist <= aoi.RInner:
		target = aoi.SizeM
	case dist >= aoi.ROuter:
		target = current
	default:
		t := (dist - aoi.RInner) / (aoi.ROuter - aoi.RInner)
		target = aoi.SizeM + t*(current-aoi.SizeM)
	}
	return math.Min(current, target)
}
