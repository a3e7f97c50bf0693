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

const timerDelaunayExec buildlog.Timer = "triangulate.delaunay.exec"

// Delaunay triangulates by shelling out to the real Triangle binary (J.R.
// Shewchuk): it writes the outline as a planar straight-line graph (.poly
// file), invokes triangle -zBPp on it, then enforces the SizeField's
// unsuitability predicate itself. Triangle's own -u switch calls back into a
// linked-in C function per candidate triangle, which isn't expressible
// across a process boundary; instead this runs a verify-and-re-split loop:
// walk the output looking for triangles field.SizeField.TriangleIsAcceptable
// rejects, add a Steiner point at each one's circumcenter, and re-invoke
// triangle -zBPp on the PSLG plus every Steiner point accumulated so far,
// until no triangle is rejected or MaxRefineIterations is hit.
type Delaunay struct {
	// BinaryPath is the triangle executable to invoke. Defaults to
	// "triangle" resolved from PATH.
	BinaryPath string
	// MaxRefineIterations bounds the re-split loop. Defaults to 20.
	MaxRefineIterations int
}

func (d *Delaunay) binary() string {
	if d.BinaryPath != "" {
		return d.BinaryPath
	}
	return "triangle"
}

func (d *Delaunay) maxIter() int {
	if d.MaxRefineIterations > 0 {
		return d.MaxRefineIterations
	}
	return 20
}

func (d *Delaunay) Generate(ctx *buildlog.Context, outer []geom.Point, holes [][]geom.Point, seeds []geom.Point, sizeField *field.SizeField) ([]geom.Point, [][3]int, error) {
	dir, err := os.MkdirTemp("", "seamesh-triangle-")
	if err != nil {
		return nil, nil, errs.Wrap(errs.IoError, "triangulate.Delaunay.Generate", err)
	}
	defer os.RemoveAll(dir)

	base := filepath.Join(dir, "region")

	var steiner []geom.Point
	for iter := 0; ; iter++ {
		if err := writePolyFile(base+".poly", outer, holes, seeds, steiner); err != nil {
			return nil, nil, err
		}
		points, tris, err := d.run(ctx, base)
		if err != nil {
			return nil, nil, err
		}
		rejected := rejectedCircumcenters(points, tris, sizeField)
		if len(rejected) == 0 {
			return points, tris, nil
		}
		if iter >= d.maxIter() {
			ctx.Warningf("triangulate.Delaunay: hit MaxRefineIterations (%d) with rejected triangles remaining", d.maxIter())
			return points, tris, nil
		}
		ctx.Progressf("triangulate.Delaunay: re-splitting %d oversized triangles (pass %d)", len(rejected), iter+1)
		steiner = append(steiner, rejected...)
	}
}

// run invokes triangle -zBPp on base.poly and parses its base.1.node/.1.ele
// output.
func (d *Delaunay) run(ctx *buildlog.Context, base string) ([]geom.Point, [][3]int, error) {
	defer ctx.Scope(timerDelaunayExec)()
	cmd := exec.Command(d.binary(), "-zBPp", base+".poly")
	out, err := cmd.CombinedOutput()
	if err != nil {
		return nil, nil, errs.Wrap(errs.BackendFailure, "triangulate.Delaunay.run", fmt.Errorf("%s: %w", out, err))
	}
	points, err := readNodeFile(base + ".1.node")
	if err != nil {
		return nil, nil, err
	}
	tris, err := readEleFile(base + ".1.ele")
	if err != nil {
		return nil, nil, err
	}
	return points, tris, nil
}

// writePolyFile emits a Triangle .poly file: outer and every hole as a
// closed boundary segment loop over a shared point list, one interior seed
// point per hole (Triangle's own way of saying "don't triangulate inside
// this ring"), and any accumulated Steiner points as extra unconstrained
// points so they get incorporated into the CDT without adding segments.
func writePolyFile(path string, outer []geom.Point, holes [][]geom.Point, seeds []geom.Point, steiner []geom.Point) error {
	f, err := os.Create(path)
	if err != nil {
		return errs.Wrap(errs.IoError, "triangulate.writePolyFile", err)
	}
	defer f.Close()
	w := bufio.NewWriter(f)

	var points []geom.Point
	type segment struct{ a, b int }
	var segments []segment

	appendLoop := func(loop []geom.Point) {
		start := len(points)
		for i, p := range loop {
			points = append(points, p)
			next := start + (i+1)%len(loop)
			segments = append(segments, segment{start + i, next})
		}
	}
	appendLoop(outer)
	for _, h := range holes {
		appendLoop(h)
	}
	for _, p := range steiner {
		points = append(points, p)
	}

	fmt.Fprintf(w, "%d 2 0 0\n", len(points))
	for i, p := range points {
		fmt.Fprintf(w, "%d %.17g %.17g\n", i+1, p.X, p.Y)
	}
	fmt.Fprintf(w, "%d 0\n", len(segments))
	for i, s := range segments {
		fmt.Fprintf(w, "%d %d %d\n", i+1, s.a+1, s.b+1)
	}
	fmt.Fprintf(w, "%d\n", len(seeds))
	for i, s := range seeds {
		fmt.Fprintf(w, "%d %.17g %.17g\n", i+1, s.X, s.Y)
	}
	return w.Flush()
}

func readNodeFile(path string) ([]geom.Point, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errs.Wrap(errs.IoError, "triangulate.readNodeFile", err)
	}
	defer f.Close()
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)

	n, err := readCountHeader(sc)
	if err != nil {
		return nil, err
	}
	points := make([]geom.Point, n)
	for i := 0; i < n; i++ {
		fields, err := nextDataLine(sc)
		if err != nil {
			return nil, err
		}
		x, errx := strconv.ParseFloat(fields[1], 64)
		y, erry := strconv.ParseFloat(fields[2], 64)
		if errx != nil || erry != nil {
			return nil, errs.New(errs.BackendFailure, "triangulate.readNodeFile", "malformed node coordinate")
		}
		points[i] = geom.Point{X: x, Y: y}
	}
	return points, nil
}

func readEleFile(path string) ([][3]int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errs.Wrap(errs.IoError, "triangulate.readEleFile", err)
	}
	defer f.Close()
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)

	n, err := readCountHeader(sc)
	if err != nil {
		return nil, err
	}
	tris := make([][3]int, n)
	for i := 0; i < n; i++ {
		fields, err := nextDataLine(sc)
		if err != nil {
			return nil, err
		}
		var tri [3]int
		for k := 0; k < 3; k++ {
			idx, err := strconv.Atoi(fields[k+1])
			if err != nil {
				return nil, errs.New(errs.BackendFailure, "triangulate.readEleFile", "malformed element index")
			}
			tri[k] = idx - 1 // triangle's output is 1-based
		}
		tris[i] = tri
	}
	return tris, nil
}

// readCountHeader reads the leading "<count> ..." header line, skipping
// Triangle's '#'-prefixed comment lines.
func readCountHeader(sc *bufio.Scanner) (int, error) {
	fields, err := nextDataLine(sc)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0, errs.New(errs.BackendFailure, "triangulate.readCountHeader", "malformed header")
	}
	return n, nil
}

func nextDataLine(sc *bufio.Scanner) ([]string, error) {
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		return strings.Fields(line), nil
	}
	if err := sc.Err(); err != nil {
		return nil, errs.Wrap(errs.IoError, "triangulate.nextDataLine", err)
	}
	return nil, errs.New(errs.BackendFailure, "triangulate.nextDataLine", "unexpected end of file")
}

// rejectedCircumcenters returns the circumcenter of every triangle the
// SizeField's unsuitability predicate rejects.
func rejectedCircumcenters(points []geom.Point, tris [][3]int, sizeField *field.SizeField) []geom.Point {
	var out []geom.Point
	for _, tri := range tris {
		v0, v1, v2 := points[tri[0]], points[tri[1]], points[tri[2]]
		if sizeField.TriangleIsAcceptable(v0, v1, v2) {
			continue
		}
		if c, ok := circumcenter(v0, v1, v2); ok {
			out = append(out, c)
		}
	}
	return out
}

// circumcenter returns the circumcenter of triangle (a,b,c), or false for a
// degenerate (collinear) triangle.
func circumcenter(a, b, c geom.Point) (geom.Point, bool) {
	d := 2 * (a.X*(b.Y-c.Y) + b.X*(c.Y-a.Y) + c.X*(a.Y-b.Y))
	if d == 0 {
		return geom.Point{}, false
	}
	a2 := a.X*a.X + a.Y*a.Y
	b2 := b.X*b.X + b.Y*b.Y
	c2 := c.X*c.X + c.Y*c.Y
	ux := (a2*(b.Y-c.Y) + b2*(c.Y-a.Y) + c2*(a.Y-b.Y)) / d
	uy := (a2*(c.X-b.X) + b2*(a.X-c.X) + c2*(b.X-a.X)) / d
	return geom.Point{X: ux, Y: uy}, true
}
