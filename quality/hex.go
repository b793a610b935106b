// Package quality computes shape measures of hexahedral cells.
//
// Corners follow the VTK ordering: 0-3 is the bottom quad, counter clockwise
// seen from the top, and 4-7 the top quad above them.
package quality

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

// Corner neighbours ordered so the three edge vectors form a right handed
// frame on a well oriented hexahedron
var cornerFrames = [8][3]int{
	{1, 3, 4}, {2, 0, 5}, {3, 1, 6}, {0, 2, 7},
	{7, 5, 0}, {4, 6, 1}, {5, 7, 2}, {6, 4, 3},
}

// Decomposition into six tetrahedra around the 0-6 diagonal
var hexTets = [6][4]int{
	{0, 1, 2, 6}, {0, 2, 3, 6}, {0, 3, 7, 6},
	{0, 7, 4, 6}, {0, 4, 5, 6}, {0, 5, 1, 6},
}

func det3(a, b, c r3.Vec) float64 {
	return mat.Det(mat.NewDense(3, 3, []float64{
		a.X, a.Y, a.Z,
		b.X, b.Y, b.Z,
		c.X, c.Y, c.Z,
	}))
}

// HexVolume returns the signed volume of the hexahedron
func HexVolume(p [8]r3.Vec) (vol float64) {
	for _, t := range hexTets {
		o := p[t[0]]
		vol += det3(r3.Sub(p[t[1]], o), r3.Sub(p[t[2]], o), r3.Sub(p[t[3]], o)) / 6
	}
	return
}

func cornerJacobian(p [8]r3.Vec, i int) (det, scale float64) {
	f := cornerFrames[i]
	a, b, c := r3.Sub(p[f[0]], p[i]), r3.Sub(p[f[1]], p[i]), r3.Sub(p[f[2]], p[i])
	return det3(a, b, c), r3.Norm(a) * r3.Norm(b) * r3.Norm(c)
}

// HexJacobian returns the minimum corner Jacobian determinant
func HexJacobian(p [8]r3.Vec) (jac float64) {
	jac = math.Inf(1)
	for i := range cornerFrames {
		d, _ := cornerJacobian(p, i)
		jac = math.Min(jac, d)
	}
	return
}

// HexScaledJacobian returns the minimum corner Jacobian normalised by the
// lengths of the corner edges, in [-1, 1]. Degenerate corners score 0.
func HexScaledJacobian(p [8]r3.Vec) (sj float64) {
	sj = math.Inf(1)
	for i := range cornerFrames {
		d, s := cornerJacobian(p, i)
		if s == 0 {
			sj = math.Min(sj, 0)
			continue
		}
		sj = math.Min(sj, d/s)
	}
	return
}
