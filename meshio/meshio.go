// Package meshio writes the final Mesh and its source ScalarField to the
// output formats spec.md §6 names: legacy VTK (ASCII or big-endian binary),
// OFF, and the vertex/element/height triple a downstream ocean model reads
// directly.
package meshio

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"os"
	"strings"

	"github.com/arl/seamesh/errs"
	"github.com/arl/seamesh/field"
	"github.com/arl/seamesh/mesh"
)

// WriteVTKField writes data as a legacy VTK STRUCTURED_POINTS dataset, the
// format spec.md §6 names for dumping an intermediate scalar field (the
// size field, say) for inspection. binary selects the big-endian raw
// SCALARS payload VTK's legacy format requires over one ASCII value per
// line.
func WriteVTKField[T field.Number](path string, data *field.Field[T], binary bool) error {
	f, err := os.Create(path)
	if err != nil {
		return errs.Wrap(errs.IoError, "meshio.WriteVTKField", err)
	}
	defer f.Close()
	w := bufio.NewWriter(f)

	nx, ny := data.Dims()
	cs := data.CellSize()
	box := data.Box()

	fmt.Fprintln(w, "# vtk DataFile Version 3.0")
	fmt.Fprintln(w, path)
	if binary {
		fmt.Fprintln(w, "BINARY")
	} else {
		fmt.Fprintln(w, "ASCII")
	}
	fmt.Fprintln(w, "DATASET STRUCTURED_POINTS")
	fmt.Fprintf(w, "DIMENSIONS %d %d 1\n", nx, ny)
	fmt.Fprintf(w, "ORIGIN %g %g 0\n", box.Min.X, box.Min.Y)
	fmt.Fprintf(w, "SPACING %g %g 1\n", cs.X, cs.Y)
	fmt.Fprintf(w, "POINT_DATA %d\n", nx*ny)
	fmt.Fprintf(w, "SCALARS value %s 1\n", vtkScalarType[T]())
	fmt.Fprintln(w, "LOOKUP_TABLE data_table")

	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			v := data.At(i, j)
			if binary {
				if err := writeBigEndian(w, v); err != nil {
					return errs.Wrap(errs.IoError, "meshio.WriteVTKField", err)
				}
			} else {
				fmt.Fprintf(w, "%v\n", v)
			}
		}
	}
	if binary {
		fmt.Fprintln(w)
	}
	if err := w.Flush(); err != nil {
		return errs.Wrap(errs.IoError, "meshio.WriteVTKField", err)
	}
	return nil
}

func vtkScalarType[T field.Number]() string {
	var zero T
	switch any(zero).(type) {
	case int16:
		return "short"
	case float32:
		return "float"
	default:
		return "double"
	}
}

// writeBigEndian encodes v big-endian, the byte order legacy VTK binary
// payloads require regardless of host architecture.
func writeBigEndian[T field.Number](w *bufio.Writer, v T) error {
	switch x := any(v).(type) {
	case int16:
		return binary.Write(w, binary.BigEndian, x)
	case int32:
		return binary.Write(w, binary.BigEndian, x)
	case float32:
		return binary.Write(w, binary.BigEndian, x)
	case float64:
		return binary.Write(w, binary.BigEndian, x)
	default:
		return fmt.Errorf("meshio: unsupported scalar type %T", v)
	}
}

// WriteVTKMesh writes m as a legacy VTK UNSTRUCTURED_GRID dataset of
// triangle cells, the mesh-inspection counterpart of WriteVTKField.
func WriteVTKMesh(path string, m *mesh.Mesh) error {
	f, err := os.Create(path)
	if err != nil {
		return errs.Wrap(errs.IoError, "meshio.WriteVTKMesh", err)
	}
	defer f.Close()
	w := bufio.NewWriter(f)

	fmt.Fprintln(w, "# vtk DataFile Version 3.0")
	fmt.Fprintln(w, path)
	fmt.Fprintln(w, "ASCII")
	fmt.Fprintln(w, "DATASET UNSTRUCTURED_GRID")

	nv := m.NumVertices()
	fmt.Fprintf(w, "POINTS %d double\n", nv)
	m.Vertices(func(v mesh.VertexHandle) {
		p := m.Position(v)
		fmt.Fprintf(w, "%g %g 0\n", p.X, p.Y)
	})

	nf := m.NumFaces()
	fmt.Fprintf(w, "CELLS %d %d\n", nf, nf*4)
	m.Faces(func(fh mesh.FaceHandle) {
		vs := m.FaceVertices(fh)
		fmt.Fprintf(w, "3 %d %d %d\n", vs[0], vs[1], vs[2])
	})
	fmt.Fprintf(w, "CELL_TYPES %d\n", nf)
	for i := 0; i < nf; i++ {
		fmt.Fprintln(w, "5") // VTK_TRIANGLE
	}

	if err := w.Flush(); err != nil {
		return errs.Wrap(errs.IoError, "meshio.WriteVTKMesh", err)
	}
	return nil
}

// WriteOFF writes m in the OFF format.
func WriteOFF(path string, m *mesh.Mesh) error {
	f, err := os.Create(path)
	if err != nil {
		return errs.Wrap(errs.IoError, "meshio.WriteOFF", err)
	}
	defer f.Close()
	w := bufio.NewWriter(f)

	fmt.Fprintln(w, "OFF")
	fmt.Fprintf(w, "%d %d 0\n", m.NumVertices(), m.NumFaces())
	m.Vertices(func(v mesh.VertexHandle) {
		p := m.Position(v)
		fmt.Fprintf(w, "%g %g 0\n", p.X, p.Y)
	})
	m.Faces(func(fh mesh.FaceHandle) {
		vs := m.FaceVertices(fh)
		fmt.Fprintf(w, "3 %d %d %d\n", vs[0], vs[1], vs[2])
	})

	if err := w.Flush(); err != nil {
		return errs.Wrap(errs.IoError, "meshio.WriteOFF", err)
	}
	return nil
}

// WriteTriple writes m as the three-file vertex/element/height layout an
// ocean model reads directly: "<prefix>nod2d.out" (vertex count header,
// then "index x y boundary_marker" per vertex), "<prefix>elem2d.out"
// (triangle count header, then "v1 v2 v3" per face), and
// "<prefix>nodhn.out" (one bathymetry sample per vertex, in vertex order).
// Indices are 1-based unless zeroBased is set. height samples bathy at each
// vertex's position; a vertex outside bathy's domain gets 0.
func WriteTriple(prefix string, m *mesh.Mesh, bathy *field.Field[int16], zeroBased bool) error {
	nod2D, err := os.Create(prefix + "nod2d.out")
	if err != nil {
		return errs.Wrap(errs.IoError, "meshio.WriteTriple", err)
	}
	defer nod2D.Close()
	nodhn, err := os.Create(prefix + "nodhn.out")
	if err != nil {
		return errs.Wrap(errs.IoError, "meshio.WriteTriple", err)
	}
	defer nodhn.Close()
	elem2D, err := os.Create(prefix + "elem2d.out")
	if err != nil {
		return errs.Wrap(errs.IoError, "meshio.WriteTriple", err)
	}
	defer elem2D.Close()

	nodW := bufio.NewWriter(nod2D)
	hnW := bufio.NewWriter(nodhn)
	elemW := bufio.NewWriter(elem2D)

	base := 1
	if zeroBased {
		base = 0
	}

	index := make(map[mesh.VertexHandle]int)
	fmt.Fprintf(nodW, "%d\n", m.NumVertices())
	counter := base
	m.Vertices(func(v mesh.VertexHandle) {
		index[v] = counter
		p := m.Position(v)
		marker := 0
		if m.IsBoundaryVertex(v) {
			marker = 1
		}
		fmt.Fprintf(nodW, "%d %.15g %.15g %d\n", counter, p.X, p.Y, marker)

		h, ok := bathy.Sample(p)
		if !ok {
			h = 0
		}
		fmt.Fprintf(hnW, "%.15g\n", h)
		counter++
	})

	fmt.Fprintf(elemW, "%d\n", m.NumFaces())
	m.Faces(func(fh mesh.FaceHandle) {
		vs := m.FaceVertices(fh)
		fmt.Fprintf(elemW, "%d %d %d\n", index[vs[0]], index[vs[1]], index[vs[2]])
	})

	for _, wr := range []*bufio.Writer{nodW, hnW, elemW} {
		if err := wr.Flush(); err != nil {
			return errs.Wrap(errs.IoError, "meshio.WriteTriple", err)
		}
	}
	return nil
}

// Format names the mesh output format spec.md §6's `output.mesh_file_format`
// key selects.
type Format string

const (
	FormatVTK    Format = "vtk"
	FormatOFF    Format = "off"
	FormatTriple Format = "nod2d"
)

// ParseFormat validates a mesh_file_format config value.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case FormatVTK:
		return FormatVTK, nil
	case FormatOFF:
		return FormatOFF, nil
	case FormatTriple:
		return FormatTriple, nil
	default:
		return "", errs.New(errs.InvalidConfig, "meshio.ParseFormat", fmt.Sprintf("unknown mesh_file_format %q", s))
	}
}

// Write dispatches m to the writer named by format under the given output
// path (prefix, for FormatTriple).
func Write(format Format, path string, m *mesh.Mesh, bathy *field.Field[int16]) error {
	switch format {
	case FormatVTK:
		return WriteVTKMesh(path, m)
	case FormatOFF:
		return WriteOFF(path, m)
	case FormatTriple:
		return WriteTriple(path, m, bathy, false)
	default:
		return errs.New(errs.InvalidConfig, "meshio.Write", fmt.Sprintf("unknown format %q", format))
	}
}
