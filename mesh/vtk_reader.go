package mesh

import (
	"bufio"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// VTK cell type codes
var vtkTypes = map[int]ElementType{
	3:  Line,
	5:  Triangle,
	9:  Quad,
	10: Tet,
	12: Hex,
	13: Prism,
	14: Pyramid,
}

// VTKCellType returns the VTK code of an element type
func VTKCellType(e ElementType) int {
	for code, t := range vtkTypes {
		if t == e {
			return code
		}
	}
	return 0
}

type vtkTokens struct {
	sc *bufio.Scanner
}

func malformed(format string, args ...interface{}) error {
	return errors.Wrapf(ErrMalformedInput, "vtk: "+format, args...)
}

func (t *vtkTokens) word() (string, error) {
	if !t.sc.Scan() {
		if err := t.sc.Err(); err != nil {
			return "", errors.Wrap(err, "reading vtk file")
		}
		return "", io.EOF
	}
	return t.sc.Text(), nil
}

// next is word inside a section, where the end of file is an error
func (t *vtkTokens) next() (string, error) {
	w, err := t.word()
	if err == io.EOF {
		return "", malformed("unexpected end of file")
	}
	return w, err
}

func (t *vtkTokens) readInt() (int, error) {
	w, err := t.next()
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(w)
	if err != nil {
		return 0, malformed("expected integer, got %q", w)
	}
	return n, nil
}

// readCount reads a non negative count no larger than max
func (t *vtkTokens) readCount(what string, max int) (int, error) {
	n, err := t.readInt()
	if err != nil {
		return 0, errors.Wrapf(err, "%s count", what)
	}
	if n < 0 || n > max {
		return 0, malformed("%s count %d outside [0,%d]", what, n, max)
	}
	return n, nil
}

func (t *vtkTokens) readFloat() (float64, error) {
	w, err := t.next()
	if err != nil {
		return 0, err
	}
	x, err := strconv.ParseFloat(w, 64)
	if err != nil {
		return 0, malformed("expected float, got %q", w)
	}
	return x, nil
}

// ReadVTK reads a legacy ASCII VTK unstructured grid (.vtk)
func ReadVTK(filename string) (*Mesh, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrap(err, "opening vtk file")
	}
	defer file.Close()
	return ParseVTK(file)
}

// ParseVTK reads a legacy ASCII VTK unstructured grid. Point and cell data
// sections are skipped.
func ParseVTK(rd io.Reader) (*Mesh, error) {
	br := bufio.NewReader(rd)
	// Version line and free form title
	version, err := br.ReadString('\n')
	if err != nil {
		return nil, errors.Wrap(err, "reading vtk header")
	}
	if !strings.HasPrefix(version, "# vtk DataFile") {
		return nil, malformed("not a legacy vtk file: %q", strings.TrimSpace(version))
	}
	if _, err = br.ReadString('\n'); err != nil {
		return nil, errors.Wrap(err, "reading vtk title")
	}
	sc := bufio.NewScanner(br)
	sc.Split(bufio.ScanWords)
	tok := &vtkTokens{sc: sc}

	var (
		msh       = NewMesh()
		cells     [][]int
		cellTypes []int
		w         string
	)
scan:
	for {
		if w, err = tok.word(); err == io.EOF {
			break
		} else if err != nil {
			return nil, err
		}
		switch strings.ToUpper(w) {
		case "ASCII":
		case "BINARY":
			return nil, malformed("binary vtk files are not supported")
		case "DATASET":
			if w, err = tok.next(); err != nil {
				return nil, err
			}
			if w != "UNSTRUCTURED_GRID" {
				return nil, malformed("unsupported vtk dataset %s", w)
			}
		case "POINTS":
			var n int
			if n, err = tok.readCount("point", math.MaxInt32); err != nil {
				return nil, err
			}
			if _, err = tok.next(); err != nil { // data type
				return nil, err
			}
			// Counts are not trusted for allocation, a short file fails on EOF
			msh.Vertices = make([][]float64, 0, min(n, 1<<16))
			for i := 0; i < n; i++ {
				xyz := make([]float64, 3)
				for j := range xyz {
					if xyz[j], err = tok.readFloat(); err != nil {
						return nil, errors.Wrapf(err, "point %d", i)
					}
				}
				msh.Vertices = append(msh.Vertices, xyz)
			}
		case "CELLS":
			var n int
			if n, err = tok.readCount("cell", math.MaxInt32); err != nil {
				return nil, err
			}
			if _, err = tok.readCount("cell list", math.MaxInt32); err != nil {
				return nil, err
			}
			cells = make([][]int, 0, min(n, 1<<16))
			for i := 0; i < n; i++ {
				var k int
				if k, err = tok.readCount("cell vertex", maxCellVertices); err != nil {
					return nil, errors.Wrapf(err, "cell %d", i)
				}
				verts := make([]int, k)
				for j := range verts {
					if verts[j], err = tok.readInt(); err != nil {
						return nil, errors.Wrapf(err, "cell %d", i)
					}
				}
				cells = append(cells, verts)
			}
		case "CELL_TYPES":
			var n int
			if n, err = tok.readCount("cell type", math.MaxInt32); err != nil {
				return nil, err
			}
			cellTypes = make([]int, 0, min(n, 1<<16))
			for i := 0; i < n; i++ {
				var ct int
				if ct, err = tok.readInt(); err != nil {
					return nil, errors.Wrapf(err, "cell type %d", i)
				}
				cellTypes = append(cellTypes, ct)
			}
		case "CELL_DATA", "POINT_DATA":
			break scan
		default:
			return nil, malformed("unexpected vtk keyword %q", w)
		}
	}
	if len(cells) != len(cellTypes) {
		return nil, malformed("%d cells but %d cell types", len(cells), len(cellTypes))
	}
	for i, verts := range cells {
		etype, ok := vtkTypes[cellTypes[i]]
		if !ok {
			return nil, malformed("cell %d has unsupported vtk type %d", i, cellTypes[i])
		}
		if err = msh.AddElement(etype, verts, 0); err != nil {
			return nil, err
		}
	}
	msh.Finalize()
	return msh, nil
}
