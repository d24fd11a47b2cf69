package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDOKToCSRMulVec(t *testing.T) {
	dok := NewDOK(3, 3)
	dok.Set(0, 0, 2)
	dok.Set(1, 2, -1)
	dok.Set(2, 1, 4)
	csr := dok.ToCSR()
	assert.Equal(t, 3, csr.NNZ())

	x := []float64{1, 2, 3}
	y := make([]float64, 3)
	csr.MulVec(x, y)
	assert.Equal(t, []float64{2, -3, 8}, y)
}
