package blocking

import "github.com/pkg/errors"

// Local corner numbering of a block, with z the third axis:
//
//	0 (xmin,ymin,zmin)  1 (xmin,ymax,zmin)  2 (xmax,ymax,zmin)  3 (xmax,ymin,zmin)
//	4 (xmin,ymin,zmax)  5 (xmin,ymax,zmax)  6 (xmax,ymax,zmax)  7 (xmax,ymin,zmax)
var hexFaces = [6][4]int{
	{0, 1, 2, 3},
	{4, 5, 6, 7},
	{0, 1, 5, 4},
	{1, 2, 6, 5},
	{2, 3, 7, 6},
	{3, 0, 4, 7},
}

var hexEdges = [12][2]int{
	{0, 1}, {1, 2}, {2, 3}, {3, 0},
	{4, 5}, {5, 6}, {6, 7}, {7, 4},
	{0, 4}, {1, 5}, {2, 6}, {3, 7},
}

// vtkOrder maps between the block corner numbering and the VTK hexahedron
// numbering. The permutation is its own inverse.
var vtkOrder = [8]int{0, 3, 2, 1, 4, 7, 6, 5}

// parallelEdges lists, for a directed local edge (start, end), the three other
// directed edges of the block running the same way
var parallelEdges = map[[2]int][3][2]int{
	{0, 1}: {{3, 2}, {4, 5}, {7, 6}},
	{1, 0}: {{2, 3}, {5, 4}, {6, 7}},
	{0, 3}: {{1, 2}, {4, 7}, {5, 6}},
	{3, 0}: {{2, 1}, {7, 4}, {6, 5}},
	{0, 4}: {{1, 5}, {3, 7}, {2, 6}},
	{4, 0}: {{5, 1}, {7, 3}, {6, 2}},
	{1, 2}: {{0, 3}, {5, 6}, {4, 7}},
	{2, 1}: {{3, 0}, {6, 5}, {7, 4}},
	{1, 5}: {{0, 4}, {2, 6}, {3, 7}},
	{5, 1}: {{4, 0}, {6, 2}, {7, 3}},
	{2, 3}: {{1, 0}, {6, 7}, {5, 4}},
	{3, 2}: {{0, 1}, {7, 6}, {4, 5}},
	{2, 6}: {{1, 5}, {3, 7}, {0, 4}},
	{6, 2}: {{5, 1}, {7, 3}, {4, 0}},
	{3, 7}: {{0, 4}, {2, 6}, {1, 5}},
	{7, 3}: {{4, 0}, {6, 2}, {5, 1}},
	{4, 5}: {{0, 1}, {7, 6}, {3, 2}},
	{5, 4}: {{1, 0}, {6, 7}, {2, 3}},
	{4, 7}: {{0, 3}, {5, 6}, {1, 2}},
	{7, 4}: {{3, 0}, {6, 5}, {2, 1}},
	{5, 6}: {{1, 2}, {4, 7}, {0, 3}},
	{6, 5}: {{2, 1}, {7, 4}, {3, 0}},
	{6, 7}: {{2, 3}, {5, 4}, {1, 0}},
	{7, 6}: {{3, 2}, {4, 5}, {0, 1}},
}

// ParallelEdges returns the three local edges of a block parallel to the
// directed local edge start -> end, oriented the same way
func ParallelEdges(start, end int) ([3][2]int, error) {
	e, ok := parallelEdges[[2]int{start, end}]
	if !ok {
		return e, errors.Wrapf(ErrEnumeration, "(%d,%d) is not a block edge", start, end)
	}
	return e, nil
}

func localIndex(nodes [8]int, n int) int {
	for i, m := range nodes {
		if m == n {
			return i
		}
	}
	return -1
}
