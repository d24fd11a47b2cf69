package utils

import (
	"fmt"

	"github.com/james-bowman/sparse"
	"gonum.org/v1/gonum/mat"
)

// DOK wraps a dictionary-of-keys sparse matrix for incremental assembly of
// the truncated influence operator. Convert to CSR before repeated
// matrix-vector products.
type DOK struct {
	M    *sparse.DOK
	name string
}

func NewDOK(nr, nc int) (R DOK) {
	R = DOK{sparse.NewDOK(nr, nc), "unnamed"}
	return
}

func (m DOK) Dims() (r, c int)    { return m.M.Dims() }
func (m DOK) At(i, j int) float64 { return m.M.At(i, j) }
func (m DOK) T() mat.Matrix      { return m.M.T() }

func (m DOK) Set(i, j int, val float64) {
	m.M.Set(i, j, val)
}

func (m DOK) ToCSR() (R CSR) {
	R = CSR{m.M.ToCSR(), m.name}
	return
}

// CSR wraps a compressed-sparse-row matrix for the large-N operator path.
type CSR struct {
	M    *sparse.CSR
	name string
}

func (m CSR) Dims() (r, c int)    { return m.M.Dims() }
func (m CSR) At(i, j int) float64 { return m.M.At(i, j) }
func (m CSR) T() mat.Matrix      { return m.M.T() }

func (m CSR) NNZ() int { return m.M.NNZ() }

// MulVec multiplies the sparse matrix into x, writing the result into y.
func (m CSR) MulVec(x, y []float64) {
	var (
		nr, nc = m.Dims()
	)
	if len(x) != nc || len(y) != nr {
		panic(fmt.Errorf("dimension mismatch in sparse MulVec: [%d x %d] with x[%d], y[%d]",
			nr, nc, len(x), len(y)))
	}
	xv := mat.NewVecDense(nc, x)
	yv := mat.NewVecDense(nr, y)
	yv.MulVec(m.M, xv)
}
