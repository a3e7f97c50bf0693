package triangulate

import (
	"bufio"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/arl/seamesh/errs"
	"github.com/arl/seamesh/field"
	"github.com/arl/seamesh/geom"
	"github.com/arl/seamesh/internal/buildlog"
)

const timerAdvancingFrontExec buildlog.Timer = "triangulate.advancingfront.exec"

// AdvancingFront triangulates by shelling out to JIGSAW (D. Engwirda): it
// writes the outline as a JIGSAW .msh GEOM object, the bound SizeField as a
// gridded .msh HFUN object covering the same bounding box, and an .opts file
// selecting the frontal-Delaunay algorithm, then invokes the jigsaw binary
// and parses the resulting MSH2 mesh.
type AdvancingFront struct {
	// BinaryPath is the jigsaw executable to invoke. Defaults to "jigsaw"
	// resolved from PATH.
	BinaryPath string
}

func (a *AdvancingFront) binary() string {
	if a.BinaryPath != "" {
		return a.BinaryPath
	}
	return "jigsaw"
}

func (a *AdvancingFront) Generate(ctx *buildlog.Context, outer []geom.Point, holes [][]geom.Point, seeds []geom.Point, sizeField *field.SizeField) ([]geom.Point, [][3]int, error) {
	dir, err := os.MkdirTemp("", "seamesh-jigsaw-")
	if err != nil {
		return nil, nil, errs.Wrap(errs.IoError, "triangulate.AdvancingFront.Generate", err)
	}
	defer os.RemoveAll(dir)

	geomPath := filepath.Join(dir, "coast.msh")
	hfunPath := filepath.Join(dir, "size.msh")
	meshPath := filepath.Join(dir, "mesh.msh")
	optsPath := filepath.Join(dir, "jigsaw.jig")

	if err := writeGeomMsh(geomPath, outer, holes); err != nil {
		return nil, nil, err
	}
	if err := writeHfunMsh(hfunPath, sizeField); err != nil {
		return nil, nil, err
	}
	if err := writeOpts(optsPath, geomPath, hfunPath, meshPath, sizeField); err != nil {
		return nil, nil, err
	}

	defer ctx.Scope(timerAdvancingFrontExec)()
	cmd := exec.Command(a.binary(), optsPath)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return nil, nil, errs.Wrap(errs.BackendFailure, "triangulate.AdvancingFront.Generate", fmt.Errorf("%s: %w", out, err))
	}

	return readMsh(meshPath)
}

// writeGeomMsh emits a JIGSAW MSH2 GEOM object: the outer ring and each
// hole ring as POINT2/EDGE2 sections sharing one vertex list, the same
// planar-straight-line-graph shape the Delaunay backend's .poly file
// encodes, just in JIGSAW's own format.
func writeGeomMsh(path string, outer []geom.Point, holes [][]geom.Point) error {
	f, err := os.Create(path)
	if err != nil {
		return errs.Wrap(errs.IoError, "triangulate.writeGeomMsh", err)
	}
	defer f.Close()
	w := bufio.NewWriter(f)

	var points []geom.Point
	type edge struct{ a, b int }
	var edges []edge
	appendLoop := func(loop []geom.Point) {
		start := len(points)
		for i, p := range loop {
			points = append(points, p)
			edges = append(edges, edge{start + i, start + (i+1)%len(loop)})
		}
	}
	appendLoop(outer)
	for _, h := range holes {
		appendLoop(h)
	}

	fmt.Fprintln(w, "#seamesh coastline GEOM")
	fmt.Fprintln(w, "MSHID=2;EUCLIDEAN-MESH")
	fmt.Fprintln(w, "NDIMS=2")
	fmt.Fprintf(w, "POINT=%d\n", len(points))
	for _, p := range points {
		fmt.Fprintf(w, "%.17g;%.17g;0\n", p.X, p.Y)
	}
	fmt.Fprintf(w, "EDGE2=%d\n", len(edges))
	for _, e := range edges {
		fmt.Fprintf(w, "%d;%d\n", e.a, e.b)
	}
	return w.Flush()
}

// writeHfunMsh emits the bound SizeField as a JIGSAW gridded HFUN object:
// the same corner-sampled regular grid field.Field already stores, just
// re-laid-out in JIGSAW's row-major VALUE block.
func writeHfunMsh(path string, sf *field.SizeField) error {
	f, err := os.Create(path)
	if err != nil {
		return errs.Wrap(errs.IoError, "triangulate.writeHfunMsh", err)
	}
	defer f.Close()
	w := bufio.NewWriter(f)

	nx, ny := sf.Dims()

	fmt.Fprintln(w, "#seamesh size function HFUN")
	fmt.Fprintln(w, "MSHID=3;EUCLIDEAN-GRID")
	fmt.Fprintln(w, "NDIMS=2")
	fmt.Fprintf(w, "COORD=1;%d\n", nx)
	for i := 0; i < nx; i++ {
		fmt.Fprintf(w, "%.17g\n", sf.NodePoint(i, 0).X)
	}
	fmt.Fprintf(w, "COORD=2;%d\n", ny)
	for j := 0; j < ny; j++ {
		fmt.Fprintf(w, "%.17g\n", sf.NodePoint(0, j).Y)
	}
	fmt.Fprintf(w, "VALUE=%d;1\n", nx*ny)
	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			fmt.Fprintf(w, "%.17g\n", sf.At(i, j))
		}
	}
	return w.Flush()
}

// writeOpts emits the JIGSAW .opts file. HFUN_HMAX is pinned to the size
// field's own maximum so JIGSAW's default relative HMAX (2% of the bbox
// diagonal) never clips the supplied HFUN grid to a finer mesh than the
// size field specifies.
func writeOpts(path, geomPath, hfunPath, meshPath string, sf *field.SizeField) error {
	f, err := os.Create(path)
	if err != nil {
		return errs.Wrap(errs.IoError, "triangulate.writeOpts", err)
	}
	defer f.Close()
	w := bufio.NewWriter(f)
	fmt.Fprintf(w, "GEOM_FILE=%s\n", geomPath)
	fmt.Fprintf(w, "HFUN_FILE=%s\n", hfunPath)
	fmt.Fprintf(w, "MESH_FILE=%s\n", meshPath)
	fmt.Fprintln(w, "HFUN_SCAL=absolute")
	fmt.Fprintf(w, "HFUN_HMAX=%.17g\n", sf.MaxValue())
	fmt.Fprintln(w, "HFUN_HMIN=0")
	fmt.Fprintln(w, "MESH_DIMS=2")
	fmt.Fprintln(w, "MESH_TOP1=true")
	fmt.Fprintln(w, "VERBOSITY=1")
	return w.Flush()
}

// readMsh parses a JIGSAW MSH2 output mesh's POINT2 and TRIA3 sections.
func readMsh(path string) ([]geom.Point, [][3]int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, errs.Wrap(errs.IoError, "triangulate.readMsh", err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)

	var points []geom.Point
	var tris [][3]int

	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		switch {
		case strings.HasPrefix(line, "POINT="):
			n, err := strconv.Atoi(strings.TrimPrefix(line, "POINT="))
			if err != nil {
				return nil, nil, errs.New(errs.BackendFailure, "triangulate.readMsh", "malformed POINT header")
			}
			points = make([]geom.Point, n)
			for i := 0; i < n; i++ {
				if !sc.Scan() {
					return nil, nil, errs.New(errs.BackendFailure, "triangulate.readMsh", "truncated POINT block")
				}
				fields := strings.Split(strings.TrimSpace(sc.Text()), ";")
				if len(fields) < 2 {
					return nil, nil, errs.New(errs.BackendFailure, "triangulate.readMsh", "malformed POINT row")
				}
				x, errx := strconv.ParseFloat(fields[0], 64)
				y, erry := strconv.ParseFloat(fields[1], 64)
				if errx != nil || erry != nil {
					return nil, nil, errs.New(errs.BackendFailure, "triangulate.readMsh", "malformed POINT coordinate")
				}
				points[i] = geom.Point{X: x, Y: y}
			}
		case strings.HasPrefix(line, "TRIA3="):
			n, err := strconv.Atoi(strings.TrimPrefix(line, "TRIA3="))
			if err != nil {
				return nil, nil, errs.New(errs.BackendFailure, "triangulate.readMsh", "malformed TRIA3 header")
			}
			tris = make([][3]int, n)
			for i := 0; i < n; i++ {
				if !sc.Scan() {
					return nil, nil, errs.New(errs.BackendFailure, "triangulate.readMsh", "truncated TRIA3 block")
				}
				fields := strings.Split(strings.TrimSpace(sc.Text()), ";")
				if len(fields) < 3 {
					return nil, nil, errs.New(errs.BackendFailure, "triangulate.readMsh", "malformed TRIA3 row")
				}
				var tri [3]int
				for k := 0; k < 3; k++ {
					idx, err := strconv.Atoi(fields[k])
					if err != nil {
						return nil, nil, errs.New(errs.BackendFailure, "triangulate.readMsh", "malformed TRIA3 index")
					}
					tri[k] = idx
				}
				tris[i] = tri
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, nil, errs.Wrap(errs.IoError, "triangulate.readMsh", err)
	}
	if points == nil {
		return nil, nil, errs.New(errs.BackendFailure, "triangulate.readMsh", "output mesh has no POINT block")
	}
	return points, tris, nil
}
