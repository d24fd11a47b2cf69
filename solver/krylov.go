package solver

import (
	"math"

	"github.com/youwol/arch/utils"
)

// Krylov methods on the assembled operator, for models without inequality
// constraints. Restarted GMRES and CG on the normal equations; both treat
// the operator as a black box so the matrix-free storage works unchanged.

const gmresRestart = 30

// gmres drives ||A x - rhs|| below tol*||rhs|| or maxIter outer products.
// Returns the relative residual history.
func (s *Solver) gmres(x, rhs []float64, tol float64, maxIter int) (history []float64) {
	var (
		n     = len(rhs)
		r     = make([]float64, n)
		w     = make([]float64, n)
		rhsNm = utils.VecNorm2(rhs)
	)
	if rhsNm == 0 {
		for i := range x {
			x[i] = 0
		}
		history = append(history, 0)
		return
	}
	for outer := 0; outer < maxIter; outer++ {
		s.ifl.Apply(x, r)
		utils.VecSubInto(rhs, r, r)
		beta := utils.VecNorm2(r)
		history = append(history, beta/rhsNm)
		if beta/rhsNm <= tol {
			return
		}
		// Arnoldi with modified Gram-Schmidt
		m := gmresRestart
		V := make([][]float64, m+1)
		H := make([][]float64, m+1)
		for i := range H {
			H[i] = make([]float64, m)
		}
		V[0] = utils.VecCopy(r)
		utils.VecScale(1/beta, V[0])
		var (
			cs = make([]float64, m)
			sn = make([]float64, m)
			g  = make([]float64, m+1)
		)
		g[0] = beta
		k := 0
		for ; k < m; k++ {
			s.ifl.Apply(V[k], w)
			for i := 0; i <= k; i++ {
				H[i][k] = utils.VecDot(w, V[i])
				utils.VecAXPY(-H[i][k], V[i], w)
			}
			H[k+1][k] = utils.VecNorm2(w)
			if H[k+1][k] < 1e-300 {
				k++
				break
			}
			V[k+1] = utils.VecCopy(w)
			utils.VecScale(1/H[k+1][k], V[k+1])
			// Apply the accumulated Givens rotations to the new column
			for i := 0; i < k; i++ {
				h0 := cs[i]*H[i][k] + sn[i]*H[i+1][k]
				H[i+1][k] = -sn[i]*H[i][k] + cs[i]*H[i+1][k]
				H[i][k] = h0
			}
			d := math.Hypot(H[k][k], H[k+1][k])
			cs[k], sn[k] = H[k][k]/d, H[k+1][k]/d
			H[k][k] = d
			H[k+1][k] = 0
			g[k+1] = -sn[k] * g[k]
			g[k] = cs[k] * g[k]
			if math.Abs(g[k+1])/rhsNm <= tol {
				k++
				break
			}
		}
		// Back substitution and solution update
		y := make([]float64, k)
		for i := k - 1; i >= 0; i-- {
			sum := g[i]
			for j := i + 1; j < k; j++ {
				sum -= H[i][j] * y[j]
			}
			y[i] = sum / H[i][i]
		}
		for i := 0; i < k; i++ {
			utils.VecAXPY(y[i], V[i], x)
		}
	}
	return
}

// cgns runs conjugate gradients on the normal equations A^T A x = A^T rhs.
func (s *Solver) cgns(x, rhs []float64, tol float64, maxIter int) (history []float64) {
	var (
		n     = len(rhs)
		r     = make([]float64, n) // rhs - A x
		rn    = make([]float64, n) // A^T r
		p     = make([]float64, n)
		ap    = make([]float64, n)
		rhsNm = utils.VecNorm2(rhs)
	)
	if rhsNm == 0 {
		for i := range x {
			x[i] = 0
		}
		history = append(history, 0)
		return
	}
	s.ifl.Apply(x, r)
	utils.VecSubInto(rhs, r, r)
	s.applyT(r, rn)
	copy(p, rn)
	gamma := utils.VecDot(rn, rn)
	for iter := 0; iter < maxIter; iter++ {
		rel := utils.VecNorm2(r) / rhsNm
		history = append(history, rel)
		if rel <= tol {
			return
		}
		s.ifl.Apply(p, ap)
		denom := utils.VecDot(ap, ap)
		if denom == 0 {
			return
		}
		alpha := gamma / denom
		utils.VecAXPY(alpha, p, x)
		utils.VecAXPY(-alpha, ap, r)
		s.applyT(r, rn)
		gammaNew := utils.VecDot(rn, rn)
		beta := gammaNew / gamma
		gamma = gammaNew
		for i := range p {
			p[i] = rn[i] + beta*p[i]
		}
	}
	return
}

// applyT computes y = A^T x.
func (s *Solver) applyT(x, y []float64) {
	switch s.ifl.storage {
	case StorageDense:
		s.ifl.dense.MulVecT(x, y)
	default:
		// Column traversal through row recomputation
		for j := range y {
			y[j] = 0
		}
		for i := 0; i < s.ifl.N; i++ {
			for a := 0; a < 3; a++ {
				xi := x[3*i+a]
				if xi == 0 {
					continue
				}
				row := s.rowOf(i, a)
				utils.VecAXPY(xi, row, y)
			}
		}
	}
}

// rowOf materializes one operator row; only used by the transpose product
// in non-dense storage.
func (s *Solver) rowOf(i, a int) (row []float64) {
	var (
		n = s.ifl.N
	)
	row = make([]float64, 3*n)
	switch s.ifl.storage {
	case StorageSparse:
		s.ifl.csr.M.DoRowNonZero(3*i+a, func(_, j int, v float64) {
			row[j] = v
		})
	default:
		for j := 0; j < n; j++ {
			var B = s.ifl.computeBlock(i, j)
			for k := 0; k < 3; k++ {
				row[3*j+k] = B[a][k]
			}
		}
	}
	return
}
