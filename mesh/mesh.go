package mesh

import (
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// ErrMalformedInput marks mesh files and elements that can not be read
var ErrMalformedInput = errors.New("malformed block input")

// maxCellVertices bounds the vertex count of a single cell read from a file
const maxCellVertices = 64

// ElementType represents the cell shapes found in imported meshes
type ElementType int

const (
	Line ElementType = iota
	Triangle
	Quad
	Tet
	Hex
	Prism
	Pyramid
)

func (e ElementType) String() string {
	return [...]string{"Line", "Triangle", "Quad", "Tet", "Hex", "Prism", "Pyramid"}[e]
}

// NumVertices is the corner count of the element type
func (e ElementType) NumVertices() int {
	return [...]int{2, 3, 4, 4, 8, 6, 5}[e]
}

// Face represents a face of an element
type Face struct {
	Vertices []int // Sorted vertex indices
	Element  int   // First element found touching the face
	LocalID  int   // Local face ID within that element
}

// Mesh is an imported unstructured mesh. Hexahedra use the VTK corner order.
type Mesh struct {
	Vertices [][]float64 // Vertex coordinates [nvertices][3]

	EtoV         [][]int       // Element to vertex connectivity [nelems][nverts_per_elem]
	ElementTypes []ElementType // Element type for each element
	ElementTags  []int         // Group tag for each element

	// Built by BuildConnectivity
	EToE    [][]int        // Element to element, -1 on the boundary
	EToF    [][]int        // Element to face
	Faces   []Face         // All unique faces
	FaceMap map[string]int // Sorted vertex key to face ID

	NumElements int
	NumVertices int
	NumFaces    int
}

func NewMesh() *Mesh {
	return &Mesh{
		FaceMap: make(map[string]int),
	}
}

// ReadMeshFile reads a mesh file based on extension
func ReadMeshFile(filename string) (*Mesh, error) {
	ext := strings.ToLower(filepath.Ext(filename))

	switch ext {
	case ".neu":
		return ReadGambitNeutral(filename)
	case ".vtk":
		return ReadVTK(filename)
	default:
		return nil, errors.Errorf("unsupported mesh format: %s", ext)
	}
}

// AddElement appends an element, checking its vertex count and references
func (m *Mesh) AddElement(etype ElementType, verts []int, tag int) error {
	if len(verts) != etype.NumVertices() {
		return errors.Wrapf(ErrMalformedInput, "%s element %d has %d vertices, expected %d",
			etype, len(m.EtoV), len(verts), etype.NumVertices())
	}
	for _, v := range verts {
		if v < 0 || v >= len(m.Vertices) {
			return errors.Wrapf(ErrMalformedInput, "element %d references unknown vertex %d", len(m.EtoV), v)
		}
	}
	m.EtoV = append(m.EtoV, append([]int(nil), verts...))
	m.ElementTypes = append(m.ElementTypes, etype)
	m.ElementTags = append(m.ElementTags, tag)
	return nil
}

// Finalize sets the counters and builds the face connectivity
func (m *Mesh) Finalize() {
	m.NumElements = len(m.EtoV)
	m.NumVertices = len(m.Vertices)
	m.BuildConnectivity()
}

func faceKey(verts []int) (key string, sorted []int) {
	sorted = append([]int(nil), verts...)
	sort.Ints(sorted)
	return fmt.Sprintf("%v", sorted), sorted
}

// BuildConnectivity builds element-to-element and face connectivity
func (m *Mesh) BuildConnectivity() {
	m.EToE = make([][]int, m.NumElements)
	m.EToF = make([][]int, m.NumElements)
	m.Faces = m.Faces[:0]
	m.FaceMap = make(map[string]int)

	for elemID := 0; elemID < m.NumElements; elemID++ {
		faceVertices := GetElementFaces(m.ElementTypes[elemID], m.EtoV[elemID])

		m.EToE[elemID] = make([]int, len(faceVertices))
		m.EToF[elemID] = make([]int, len(faceVertices))

		for localFaceID, faceVerts := range faceVertices {
			key, sorted := faceKey(faceVerts)
			m.EToE[elemID][localFaceID] = -1

			if faceID, exists := m.FaceMap[key]; exists {
				// Interior face, link both sides
				face := m.Faces[faceID]
				m.EToE[elemID][localFaceID] = face.Element
				m.EToE[face.Element][face.LocalID] = elemID
				m.EToF[elemID][localFaceID] = faceID
				continue
			}
			faceID := len(m.Faces)
			m.Faces = append(m.Faces, Face{Vertices: sorted, Element: elemID, LocalID: localFaceID})
			m.FaceMap[key] = faceID
			m.EToF[elemID][localFaceID] = faceID
		}
	}

	m.NumFaces = len(m.Faces)
}

// GetElementFaces returns the face vertices for each element type
func GetElementFaces(elemType ElementType, vertices []int) [][]int {
	switch elemType {
	case Tet:
		return [][]int{
			{vertices[0], vertices[2], vertices[1]},
			{vertices[0], vertices[1], vertices[3]},
			{vertices[1], vertices[2], vertices[3]},
			{vertices[0], vertices[3], vertices[2]},
		}
	case Hex:
		return [][]int{
			{vertices[0], vertices[3], vertices[2], vertices[1]}, // bottom
			{vertices[4], vertices[5], vertices[6], vertices[7]}, // top
			{vertices[0], vertices[1], vertices[5], vertices[4]},
			{vertices[1], vertices[2], vertices[6], vertices[5]},
			{vertices[2], vertices[3], vertices[7], vertices[6]},
			{vertices[3], vertices[0], vertices[4], vertices[7]},
		}
	case Prism:
		return [][]int{
			{vertices[0], vertices[2], vertices[1]},
			{vertices[3], vertices[4], vertices[5]},
			{vertices[0], vertices[1], vertices[4], vertices[3]},
			{vertices[1], vertices[2], vertices[5], vertices[4]},
			{vertices[2], vertices[0], vertices[3], vertices[5]},
		}
	case Pyramid:
		return [][]int{
			{vertices[0], vertices[3], vertices[2], vertices[1]},
			{vertices[0], vertices[1], vertices[4]},
			{vertices[1], vertices[2], vertices[4]},
			{vertices[2], vertices[3], vertices[4]},
			{vertices[3], vertices[0], vertices[4]},
		}
	default:
		return [][]int{}
	}
}

// Hexes returns the ids of the hexahedral elements
func (m *Mesh) Hexes() (ids []int) {
	for i, t := range m.ElementTypes {
		if t == Hex {
			ids = append(ids, i)
		}
	}
	return
}

// NumBoundaryFaces counts element faces without a neighbour
func (m *Mesh) NumBoundaryFaces() (n int) {
	for _, nbrs := range m.EToE {
		for _, nbr := range nbrs {
			if nbr < 0 {
				n++
			}
		}
	}
	return
}

// PrintStatistics writes mesh statistics
func (m *Mesh) PrintStatistics(w io.Writer) {
	fmt.Fprintf(w, "Mesh Statistics:\n")
	fmt.Fprintf(w, "  Vertices: %d\n", m.NumVertices)
	fmt.Fprintf(w, "  Elements: %d\n", m.NumElements)
	fmt.Fprintf(w, "  Faces: %d\n", m.NumFaces)

	typeCounts := make(map[ElementType]int)
	for _, t := range m.ElementTypes {
		typeCounts[t]++
	}
	types := make([]int, 0, len(typeCounts))
	for t := range typeCounts {
		types = append(types, int(t))
	}
	sort.Ints(types)
	fmt.Fprintf(w, "  Element types:\n")
	for _, t := range types {
		fmt.Fprintf(w, "    %s: %d\n", ElementType(t), typeCounts[ElementType(t)])
	}
	fmt.Fprintf(w, "  Boundary faces: %d\n", m.NumBoundaryFaces())
}
