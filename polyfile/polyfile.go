// Package polyfile reads and writes the plain-text poly region format of
// spec.md §6: a vertex list, a boundary segment list, and an optional hole
// list, the same file shape triangulate.Delaunay already speaks for its own
// PSLG handoff to Triangle, generalized here to the region-input side:
// externally supplied node files and either zero- or one-based indexing.
package polyfile

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/arl/seamesh/errs"
	"github.com/arl/seamesh/geom"
)

// File is a parsed poly region: the boundary graph plus any hole seed
// points the file's holes section names.
type File struct {
	Graph *geom.LineGraph
	Holes []geom.Point
}

// Read parses a .poly file at path. If the file's vertex count is 0, the
// vertices are read instead from a sibling "<name-without-ext>.node" file,
// the poly format's external-node-file convention. The vertex and segment
// index base (0- or 1-based) is detected from the first vertex's index in
// whichever file actually carries the vertex list.
func Read(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errs.Wrap(errs.IoError, "polyfile.Read", err)
	}
	defer f.Close()
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)

	nVerts, err := readHeaderLine(sc)
	if err != nil {
		return nil, err
	}

	var points []geom.Point
	var base int
	if nVerts == 0 {
		nodePath := strings.TrimSuffix(path, filepath.Ext(path)) + ".node"
		points, base, err = readNodeSection(nodePath)
		if err != nil {
			return nil, err
		}
	} else {
		points, base, err = readVertexLines(sc, nVerts)
		if err != nil {
			return nil, err
		}
	}

	nSegs, err := readHeaderLine(sc)
	if err != nil {
		return nil, err
	}
	graph := geom.NewLineGraph()
	for _, p := range points {
		graph.AddVertex(p)
	}
	for i := 0; i < nSegs; i++ {
		fields, err := nextDataLine(sc)
		if err != nil {
			return nil, errs.Wrap(errs.IoError, "polyfile.Read", err)
		}
		a, errA := strconv.Atoi(fields[1])
		b, errB := strconv.Atoi(fields[2])
		if errA != nil || errB != nil {
			return nil, errs.New(errs.IoError, "polyfile.Read", "malformed segment line")
		}
		graph.AddEdge(a-base, b-base)
	}

	var holes []geom.Point
	if sc.Scan() {
		nHoles, err := strconv.Atoi(strings.Fields(sc.Text())[0])
		if err == nil {
			for i := 0; i < nHoles; i++ {
				fields, err := nextDataLine(sc)
				if err != nil {
					return nil, errs.Wrap(errs.IoError, "polyfile.Read", err)
				}
				x, errx := strconv.ParseFloat(fields[1], 64)
				y, erry := strconv.ParseFloat(fields[2], 64)
				if errx != nil || erry != nil {
					return nil, errs.New(errs.IoError, "polyfile.Read", "malformed hole line")
				}
				holes = append(holes, geom.Point{X: x, Y: y})
			}
		}
	}

	return &File{Graph: graph, Holes: holes}, nil
}

// Write emits g and holes as a self-contained .poly file (vertices inline,
// never delegated to an external node file), always 1-based, matching
// Triangle's own convention.
func Write(path string, g *geom.LineGraph, holes []geom.Point) error {
	f, err := os.Create(path)
	if err != nil {
		return errs.Wrap(errs.IoError, "polyfile.Write", err)
	}
	defer f.Close()
	w := bufio.NewWriter(f)

	fmt.Fprintf(w, "%d 2 0 0\n", len(g.Points))
	for i, p := range g.Points {
		fmt.Fprintf(w, "%d %.17g %.17g\n", i+1, p.X, p.Y)
	}
	fmt.Fprintf(w, "%d 0\n", len(g.Edges))
	for i, e := range g.Edges {
		fmt.Fprintf(w, "%d %d %d\n", i+1, e[0]+1, e[1]+1)
	}
	fmt.Fprintf(w, "%d\n", len(holes))
	for i, p := range holes {
		fmt.Fprintf(w, "%d %.17g %.17g\n", i+1, p.X, p.Y)
	}
	return w.Flush()
}

// readHeaderLine parses a poly/node section header line and returns its
// first field, the element count.
func readHeaderLine(sc *bufio.Scanner) (count int, err error) {
	toks, err := nextDataLine(sc)
	if err != nil {
		return 0, errs.Wrap(errs.IoError, "polyfile.readHeaderLine", err)
	}
	n, convErr := strconv.Atoi(toks[0])
	if convErr != nil {
		return 0, errs.New(errs.IoError, "polyfile.readHeaderLine", "malformed section header")
	}
	return n, nil
}

// readVertexLines reads n "index x y [attrs] [marker]" lines and returns
// the points plus the detected index base (0 if the first vertex's index
// is 0, 1 otherwise).
func readVertexLines(sc *bufio.Scanner, n int) ([]geom.Point, int, error) {
	points := make([]geom.Point, n)
	base := 1
	for i := 0; i < n; i++ {
		fields, err := nextDataLine(sc)
		if err != nil {
			return nil, 0, errs.Wrap(errs.IoError, "polyfile.readVertexLines", err)
		}
		idx, errIdx := strconv.Atoi(fields[0])
		x, errx := strconv.ParseFloat(fields[1], 64)
		y, erry := strconv.ParseFloat(fields[2], 64)
		if errIdx != nil || errx != nil || erry != nil {
			return nil, 0, errs.New(errs.IoError, "polyfile.readVertexLines", "malformed vertex line")
		}
		if i == 0 && idx == 0 {
			base = 0
		}
		points[i] = geom.Point{X: x, Y: y}
	}
	return points, base, nil
}

// readNodeSection reads an entire external .node file.
func readNodeSection(path string) ([]geom.Point, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, errs.Wrap(errs.IoError, "polyfile.readNodeSection", err)
	}
	defer f.Close()
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)

	n, err := readHeaderLine(sc)
	if err != nil {
		return nil, 0, err
	}
	return readVertexLines(sc, n)
}

// nextDataLine returns the whitespace-split fields of the next
// non-blank, non-comment ("#"-prefixed) line.
func nextDataLine(sc *bufio.Scanner) ([]string, error) {
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if idx := strings.Index(line, "#"); idx >= 0 {
			line = strings.TrimSpace(line[:idx])
		}
		return strings.Fields(line), nil
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return nil, fmt.Errorf("unexpected end of file")
}
