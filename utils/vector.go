package utils

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Slice-based vector helpers for the solver hot loops. A gonum VecDense view
// is available through VecDense for interop with mat-based routines.

func VecDense(v []float64) *mat.VecDense {
	return mat.NewVecDense(len(v), v)
}

func VecDot(a, b []float64) (dot float64) {
	for i, val := range a {
		dot += val * b[i]
	}
	return
}

func VecNorm2(a []float64) (nrm float64) {
	nrm = math.Sqrt(VecDot(a, a))
	return
}

// VecAXPY computes y += alpha*x in place.
func VecAXPY(alpha float64, x, y []float64) {
	for i, val := range x {
		y[i] += alpha * val
	}
}

func VecScale(alpha float64, x []float64) {
	for i := range x {
		x[i] *= alpha
	}
}

func VecCopy(src []float64) (dst []float64) {
	dst = make([]float64, len(src))
	copy(dst, src)
	return
}

// VecSubInto computes r = a - b.
func VecSubInto(a, b, r []float64) {
	for i, val := range a {
		r[i] = val - b[i]
	}
}

func VecMaxAbs(a []float64) (mx float64) {
	for _, val := range a {
		if v := math.Abs(val); v > mx {
			mx = v
		}
	}
	return
}
