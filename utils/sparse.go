package utils

import (
	"fmt"

	"github.com/james-bowman/sparse"
	"gonum.org/v1/gonum/mat"
)

// DOK is a dictionary of keys matrix used to assemble sparse operators
type DOK struct {
	M    *sparse.DOK
	name string
}

func NewDOK(nr, nc int, name string) DOK {
	return DOK{M: sparse.NewDOK(nr, nc), name: name}
}

// Dims and At satisfy the read side of mat.Matrix
func (m DOK) Dims() (r, c int)    { return m.M.Dims() }
func (m DOK) At(i, j int) float64 { return m.M.At(i, j) }

func (m DOK) Set(i, j int, val float64) {
	nr, nc := m.Dims()
	if i < 0 || i >= nr || j < 0 || j >= nc {
		panic(fmt.Errorf("index (%d,%d) outside of %d x %d matrix \"%s\"", i, j, nr, nc, m.name))
	}
	m.M.Set(i, j, val)
}

// Add accumulates val into the entry at i,j
func (m DOK) Add(i, j int, val float64) { m.Set(i, j, m.M.At(i, j)+val) }

// MulDense converts the operator to compressed rows and returns m * X
func (m DOK) MulDense(X *mat.Dense) *mat.Dense {
	var (
		csr   = m.M.ToCSR()
		nr, _ = m.Dims()
		_, nc = X.Dims()
		R     = mat.NewDense(nr, nc, nil)
	)
	R.Mul(csr, X)
	return R
}

// AveragingOperator builds the relaxation operator R = (1-w) I + w A, where A
// averages each row over its neighbours. Rows without neighbours are identity.
func AveragingOperator(n int, neighbours [][]int, w float64) (R DOK) {
	R = NewDOK(n, n, "averaging")
	for i := 0; i < n; i++ {
		nb := neighbours[i]
		if len(nb) == 0 {
			R.Set(i, i, 1)
			continue
		}
		R.Add(i, i, 1-w)
		for _, j := range nb {
			R.Add(i, j, w/float64(len(nb)))
		}
	}
	return
}
