package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatrixMulVec(t *testing.T) {
	M := NewMatrix(2, 3, []float64{
		1, 2, 3,
		4, 5, 6,
	})
	x := []float64{1, 1, 1}
	y := make([]float64, 2)
	M.MulVec(x, y)
	assert.Equal(t, []float64{6, 15}, y)

	xt := []float64{1, 1}
	yt := make([]float64, 3)
	M.MulVecT(xt, yt)
	assert.Equal(t, []float64{5, 7, 9}, yt)

	R := M.Transpose()
	nr, nc := R.Dims()
	assert.Equal(t, 3, nr)
	assert.Equal(t, 2, nc)
	assert.Equal(t, 4., R.At(0, 1))
}

func TestMatrixCopyIsolation(t *testing.T) {
	M := NewMatrix(2, 2, []float64{1, 2, 3, 4})
	C := M.Copy()
	C.Set(0, 0, 99)
	assert.Equal(t, 1., M.At(0, 0))
	C.Scale(2).Add(M)
	assert.Equal(t, 199., C.At(0, 0))
}

func TestVecHelpers(t *testing.T) {
	a := []float64{3, 4}
	assert.Equal(t, 5., VecNorm2(a))
	b := VecCopy(a)
	VecAXPY(2, a, b)
	assert.Equal(t, []float64{9, 12}, b)
	r := make([]float64, 2)
	VecSubInto(b, a, r)
	assert.Equal(t, []float64{6, 8}, r)
	assert.Equal(t, 8., VecMaxAbs(r))
}
