// Package pipeline wires every stage named in spec.md §2 into one run: load
// bathymetry, build the reference size field, limit its gradient, clip the
// coastline against the region polygon, triangulate, remesh, and write the
// requested outputs. It is the single place config.Config's fields turn
// into calls against bathy/sizing/gradient/boundary/triangulate/remesh.
package pipeline

import (
	"fmt"
	"strings"

	"github.com/arl/seamesh/bathy"
	"github.com/arl/seamesh/boundary"
	"github.com/arl/seamesh/config"
	"github.com/arl/seamesh/errs"
	"github.com/arl/seamesh/field"
	"github.com/arl/seamesh/geom"
	"github.com/arl/seamesh/gradient"
	"github.com/arl/seamesh/internal/buildlog"
	"github.com/arl/seamesh/mesh"
	"github.com/arl/seamesh/meshio"
	"github.com/arl/seamesh/polyfile"
	"github.com/arl/seamesh/quality"
	"github.com/arl/seamesh/remesh"
	"github.com/arl/seamesh/sizing"
	"github.com/arl/seamesh/triangulate"
)

const timerRun buildlog.Timer = "pipeline.run"

// Result is everything a run produces, for the CLI (or a test) to inspect
// or write out.
type Result struct {
	Bathy     *field.Field[int16]
	SizeField *field.SizeField
	Boundary  *boundary.Boundary
	Mesh      *mesh.Mesh
}

// Run executes the full pipeline against cfg and returns the generated
// mesh plus the intermediate artifacts Output's save_* flags may need.
func Run(ctx *buildlog.Context, cfg *config.Config) (*Result, error) {
	defer ctx.Scope(timerRun)()

	bathyField, err := bathy.LoadNetCDF(cfg.NetcdfBathymetry, bathy.Options{})
	if err != nil {
		return nil, err
	}
	nx, ny := bathyField.Dims()
	ctx.Progressf("pipeline: loaded bathymetry, %dx%d grid", nx, ny)

	region, err := loadRegion(cfg.PolyRegion)
	if err != nil {
		return nil, err
	}

	sizeField, err := sizing.Build(ctx, bathyField, cfg.SeaLevel, toResolution(cfg.Resolution))
	if err != nil {
		return nil, err
	}

	if limiter := gradient.ForMethod(cfg.GradientLimiting.Method); limiter != nil {
		sizeField = limiter.Limit(sizeField, cfg.GradientLimiting.Limit)
		ctx.Progressf("pipeline: gradient-limited size field with method %q", cfg.GradientLimiting.Method)
	}

	b, err := boundary.Build(ctx, bathyField, region, sizeField, cfg.Boundary.Height, boundary.Options{
		IgnoreIslands: cfg.Boundary.IgnoreIslands,
		Simplify:      cfg.Boundary.MinAngle > 0,
		MinAngleDeg:   cfg.Boundary.MinAngle,
	})
	if err != nil {
		return nil, err
	}
	if boundary.HasIntersections(b) && !cfg.Boundary.AllowSelfIntersection {
		return nil, errs.New(errs.BoundaryIntersection, "pipeline.Run", "outer boundary and islands intersect")
	}

	backend, err := triangulatorBackend(cfg.Triangulator)
	if err != nil {
		return nil, err
	}
	adapter := &triangulate.Adapter{Backend: backend, SizeField: sizeField}
	m, err := adapter.Generate(ctx, b)
	if err != nil {
		return nil, err
	}
	ctx.Progressf("pipeline: triangulated, %d vertices / %d faces", m.NumVertices(), m.NumFaces())

	opts := remesh.DefaultOptions()
	opts.Iterations = cfg.RemeshingIterations
	remesh.Run(ctx, m, sizeField, opts)
	ctx.Progressf("pipeline: remeshed, %d vertices / %d faces", m.NumVertices(), m.NumFaces())

	radiusRatio := quality.Aggregate(quality.FaceRadiusRatios(m))
	ctx.Progressf("pipeline: radius ratio min=%.3f avg=%.3f max=%.3f", radiusRatio.Min, radiusRatio.Avg, radiusRatio.Max)

	res := &Result{Bathy: bathyField, SizeField: sizeField, Boundary: b, Mesh: m}
	if err := writeOutputs(cfg.Output, res); err != nil {
		return nil, err
	}
	return res, nil
}

func loadRegion(pr config.PolyRegion) (*geom.LineGraph, error) {
	switch pr.Type {
	case "file":
		f, err := polyfile.Read(pr.Path)
		if err != nil {
			return nil, err
		}
		return f.Graph, nil
	case "rectangle":
		g := geom.NewLineGraph()
		g.AddVertex(geom.Point{X: pr.Min.X, Y: pr.Min.Y})
		g.AddVertex(geom.Point{X: pr.Max.X, Y: pr.Min.Y})
		g.AddVertex(geom.Point{X: pr.Max.X, Y: pr.Max.Y})
		g.AddVertex(geom.Point{X: pr.Min.X, Y: pr.Max.Y})
		g.AddEdge(0, 1)
		g.AddEdge(1, 2)
		g.AddEdge(2, 3)
		g.AddEdge(3, 0)
		return g, nil
	default:
		return nil, errs.New(errs.InvalidConfig, "pipeline.loadRegion", fmt.Sprintf("unknown poly_region.type %q", pr.Type))
	}
}

func toResolution(r config.Resolution) sizing.Resolution {
	aois := make([]sizing.AreaOfInterest, len(r.AOI))
	for i, a := range r.AOI {
		aois[i] = sizing.AreaOfInterest{
			Center: a.CenterPos,
			RInner: a.InnerRadius,
			ROuter: a.OuterRadius,
			SizeM:  a.ElementSize,
		}
	}
	return sizing.Resolution{CoarsestM: r.Coarsest, FinestM: r.Finest, CoastalM: r.Coastal, AOIs: aois}
}

func triangulatorBackend(name string) (triangulate.Backend, error) {
	switch name {
	case "triangle":
		return &triangulate.Delaunay{}, nil
	case "jigsaw":
		return &triangulate.AdvancingFront{}, nil
	default:
		return nil, errs.New(errs.InvalidConfig, "pipeline.triangulatorBackend", fmt.Sprintf("unknown triangulator %q", name))
	}
}

func writeOutputs(out config.Output, res *Result) error {
	if out.SaveBathymetry {
		if err := meshio.WriteVTKField(outputPath(out.MeshFilePath, "_bathymetry.vtk"), res.Bathy, false); err != nil {
			return err
		}
	}
	if out.SaveSizeFunction {
		if err := meshio.WriteVTKField(outputPath(out.MeshFilePath, "_sizefield.vtk"), res.SizeField.Field, false); err != nil {
			return err
		}
	}
	if out.SaveBoundary {
		graph := geom.CombinePolygons(append([]*geom.LineGraph{res.Boundary.Outer.ToLineGraph()}, islandGraphs(res.Boundary.Islands)...)...)
		if err := polyfile.Write(outputPath(out.MeshFilePath, "_boundary.poly"), graph, nil); err != nil {
			return err
		}
	}

	if out.MeshFilePath == "" {
		return nil
	}
	format, err := meshio.ParseFormat(out.MeshFileFormat)
	if err != nil {
		return err
	}
	return meshio.Write(format, out.MeshFilePath, res.Mesh, res.Bathy)
}

func islandGraphs(islands []*geom.HEPolygon) []*geom.LineGraph {
	out := make([]*geom.LineGraph, len(islands))
	for i, isl := range islands {
		out[i] = isl.ToLineGraph()
	}
	return out
}

// outputPath derives a sibling output path by stripping mainPath's
// extension and appending suffix, or using suffix alone if mainPath is
// empty.
func outputPath(mainPath, suffix string) string {
	if mainPath == "" {
		return strings.TrimPrefix(suffix, "_")
	}
	if idx := strings.LastIndexByte(mainPath, '.'); idx >= 0 {
		return mainPath[:idx] + suffix
	}
	return mainPath + suffix
}
