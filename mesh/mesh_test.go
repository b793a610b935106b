package mesh

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Helper function to create temporary test files
func createTempFile(t *testing.T, name, content string) string {
	t.Helper()
	tmpFile := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(tmpFile, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	return tmpFile
}

const singleHexNeu = `        CONTROL INFO 2.0.0
** GAMBIT NEUTRAL FILE
Test mesh for unit testing
PROGRAM:                  Gmsh     VERSION:  4.13.1
Sat Jun  7 21:41:35 2025
     NUMNP     NELEM     NGRPS    NBSETS     NDFCD     NDFVL
         8        1         1         0         3         3
ENDOFSECTION
   NODAL COORDINATES 2.0.0
         1   0.00000000000e+00   0.00000000000e+00   0.00000000000e+00
         2   1.00000000000e+00   0.00000000000e+00   0.00000000000e+00
         3   1.00000000000e+00   1.00000000000e+00   0.00000000000e+00
         4   0.00000000000e+00   1.00000000000e+00   0.00000000000e+00
         5   0.00000000000e+00   0.00000000000e+00   1.00000000000e+00
         6   1.00000000000e+00   0.00000000000e+00   1.00000000000e+00
         7   1.00000000000e+00   1.00000000000e+00   1.00000000000e+00
         8   0.00000000000e+00   1.00000000000e+00   1.00000000000e+00
ENDOFSECTION
   ELEMENTS/CELLS 2.0.0
         1         4         8         1         2         3         4         5         6         7         8
ENDOFSECTION
       ELEMENT GROUP 2.0.0
GROUP:           1 ELEMENTS:           1 MATERIAL:           2 NFLAGS:           1
fluid
       0
         1
ENDOFSECTION`

// Two unit hexes stacked along X
const twoHexVTK = `# vtk DataFile Version 2.0
two hexes, shared face at x = 1
ASCII
DATASET UNSTRUCTURED_GRID
POINTS 12 float
0 0 0  1 0 0  2 0 0
0 1 0  1 1 0  2 1 0
0 0 1  1 0 1  2 0 1
0 1 1  1 1 1  2 1 1
CELLS 2 18
8 0 1 4 3 6 7 10 9
8 1 2 5 4 7 8 11 10
CELL_TYPES 2
12
12
CELL_DATA 2
SCALARS GEOM_DIM int 1
LOOKUP_TABLE default
3
3
`

func TestReadGambitSingleHex(t *testing.T) {
	msh, err := ReadMeshFile(createTempFile(t, "hex.neu", singleHexNeu))
	require.NoError(t, err)
	assert.Equal(t, 8, msh.NumVertices)
	assert.Equal(t, 1, msh.NumElements)
	assert.Equal(t, 6, msh.NumFaces)
	assert.Equal(t, []ElementType{Hex}, msh.ElementTypes)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7}, msh.EtoV[0])
	assert.Equal(t, []int{1}, msh.ElementTags)
	assert.Equal(t, []float64{1, 1, 1}, msh.Vertices[6])
	assert.Equal(t, 6, msh.NumBoundaryFaces())
}

func TestReadGambitErrors(t *testing.T) {
	const elem = "         1         4         8"
	for name, bad := range map[string]string{
		"unknown type":   strings.Replace(singleHexNeu, elem, "         1         9         8", 1),
		"negative count": strings.Replace(singleHexNeu, elem, "         1         4        -3", 1),
		"wrong count":    strings.Replace(singleHexNeu, elem, "         1         4         6", 1),
		"garbage type":   strings.Replace(singleHexNeu, elem, "         1         x         8", 1),
		"negative nodes": strings.Replace(singleHexNeu, "         8        1         1", "        -8        1         1", 1),
		"missing node":   strings.Replace(singleHexNeu, "         8   0.00000000000e+00   1.00000000000e+00   1.00000000000e+00", "         7   0.00000000000e+00   1.00000000000e+00   1.00000000000e+00", 1),
		"bad group size": strings.Replace(singleHexNeu, "ELEMENTS:           1", "ELEMENTS:          -1", 1),
		"bad node ref":   strings.Replace(singleHexNeu, "         1         2         3         4         5", "         0         2         3         4         5", 1),
	} {
		_, err := ReadGambitNeutral(createTempFile(t, "bad.neu", bad))
		assert.True(t, errors.Is(err, ErrMalformedInput), "%s: %v", name, err)
	}

	_, err := ReadGambitNeutral(filepath.Join(t.TempDir(), "missing.neu"))
	assert.Error(t, err)
}

func TestReadVTKTwoHexes(t *testing.T) {
	msh, err := ReadMeshFile(createTempFile(t, "two.vtk", twoHexVTK))
	require.NoError(t, err)
	assert.Equal(t, 12, msh.NumVertices)
	assert.Equal(t, 2, msh.NumElements)
	// 6 + 6 faces, one shared
	assert.Equal(t, 11, msh.NumFaces)
	assert.Equal(t, 10, msh.NumBoundaryFaces())
	assert.Equal(t, []int{0, 1}, msh.Hexes())

	// Element 0 touches element 1 through its face 3, (1,4,7,10) in VTK order
	assert.Equal(t, 1, msh.EToE[0][3])
	assert.Equal(t, msh.EToF[0][3], msh.EToF[1][5])
	assert.Equal(t, 0, msh.EToE[1][5])
}

func TestParseVTKErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"not vtk", "hello\nworld\n"},
		{"binary", "# vtk DataFile Version 2.0\nx\nBINARY\n"},
		{"structured", "# vtk DataFile Version 2.0\nx\nASCII\nDATASET STRUCTURED_POINTS\n"},
		{"bad hex", "# vtk DataFile Version 2.0\nx\nASCII\nDATASET UNSTRUCTURED_GRID\nPOINTS 1 float\n0 0 0\nCELLS 1 2\n1 0\nCELL_TYPES 1\n12\n"},
		{"unknown vertex", "# vtk DataFile Version 2.0\nx\nASCII\nDATASET UNSTRUCTURED_GRID\nPOINTS 1 float\n0 0 0\nCELLS 1 3\n2 0 5\nCELL_TYPES 1\n3\n"},
		{"truncated", "# vtk DataFile Version 2.0\nx\nASCII\nDATASET UNSTRUCTURED_GRID\nPOINTS 2 float\n0 0 0\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseVTK(strings.NewReader(tt.content))
			assert.True(t, errors.Is(err, ErrMalformedInput), "%v", err)
		})
	}
}

func TestParseVTKBadCounts(t *testing.T) {
	const head = "# vtk DataFile Version 2.0\nx\nASCII\nDATASET UNSTRUCTURED_GRID\n"
	for name, body := range map[string]string{
		"negative points":    "POINTS -1 double\n",
		"garbage points":     "POINTS lots double\n",
		"huge points":        "POINTS 4000000000 double\n0 0 0\n",
		"negative cells":     "POINTS 1 float\n0 0 0\nCELLS -2 2\n",
		"negative cell size": "POINTS 1 float\n0 0 0\nCELLS 1 2\n-1\n",
		"huge cell size":     "POINTS 1 float\n0 0 0\nCELLS 1 2\n1000000000 0\n",
		"negative types":     "POINTS 1 float\n0 0 0\nCELL_TYPES -5\n",
		"short cells":        "POINTS 1 float\n0 0 0\nCELLS 3 6\n1 0\n",
		"garbage coordinate": "POINTS 1 float\n0 zero 0\n",
	} {
		_, err := ParseVTK(strings.NewReader(head + body))
		assert.True(t, errors.Is(err, ErrMalformedInput), "%s: %v", name, err)
	}

	_, err := ParseVTK(strings.NewReader("# vtk DataFile Version 2.0\nx\nASCII\nDATASET"))
	assert.True(t, errors.Is(err, ErrMalformedInput), "%v", err)
}

func TestUnsupportedExtension(t *testing.T) {
	_, err := ReadMeshFile("mesh.stl")
	assert.Error(t, err)
}

func TestPrintStatistics(t *testing.T) {
	msh, err := ParseVTK(strings.NewReader(twoHexVTK))
	require.NoError(t, err)
	var buf bytes.Buffer
	msh.PrintStatistics(&buf)
	out := buf.String()
	assert.Contains(t, out, "Elements: 2")
	assert.Contains(t, out, "Hex: 2")
	assert.Contains(t, out, "Boundary faces: 10")
}
