package solver

import (
	"sync"

	"github.com/youwol/arch/geometry"
	"github.com/youwol/arch/model"
	"github.com/youwol/arch/utils"
)

// Block relaxation over elements. Seidel updates in canonical order with the
// most recent neighbor values; Jacobi updates against the previous sweep.
// The parallel variant splits elements into contiguous per-core ranges: each
// range runs a Seidel pass over its own elements, reading the other ranges
// as they stood at the start of the sweep, so results are deterministic for
// a given core count.

// sweepSeidel performs one Gauss-Seidel sweep in place over b, applying the
// constraint projections of each element's surface after its block solve.
func (s *Solver) sweepSeidel(b, rhs []float64) {
	for i := 0; i < s.ifl.N; i++ {
		s.updateBlock(i, b, b, rhs)
	}
}

// sweepJacobi performs one Jacobi sweep reading bPrev and writing b.
func (s *Solver) sweepJacobi(b, bPrev, rhs []float64) {
	for i := 0; i < s.ifl.N; i++ {
		s.updateBlock(i, bPrev, b, rhs)
	}
}

// sweepColored runs a Seidel sweep with elements sharded over cores;
// each shard updates its own elements in order and reads the other shards'
// values as they were at the start of the sweep.
func (s *Solver) sweepColored(b, rhs []float64, pm *utils.PartitionMap) {
	var (
		wg   sync.WaitGroup
		snap = append([]float64(nil), b...)
	)
	for np := 0; np < pm.ParallelDegree; np++ {
		wg.Add(1)
		go func(np int) {
			defer wg.Done()
			iMin, iMax := pm.GetBucketRange(np)
			local := append([]float64(nil), snap...)
			for i := iMin; i < iMax; i++ {
				s.updateBlock(i, local, local, rhs)
			}
			copy(b[3*iMin:3*iMax], local[3*iMin:3*iMax])
		}(np)
	}
	wg.Wait()
}

// updateBlock solves the 3x3 diagonal block of element i against the
// current field read from bIn, writes the (possibly projected) result into
// bOut.
func (s *Solver) updateBlock(i int, bIn, bOut []float64, rhs []float64) {
	var (
		ifl   = s.ifl
		bPrev = geometry.Vec3{bIn[3*i], bIn[3*i+1], bIn[3*i+2]}
		rhsI  = geometry.Vec3{rhs[3*i], rhs[3*i+1], rhs[3*i+2]}
		row   = ifl.RowApply(i, bIn)
		diag  = ifl.Diag(i)
		off   = row.Sub(diag.MulVec(bPrev))
		cand  = ifl.DiagInv(i).MulVec(rhsI.Sub(off))
	)
	constraints := s.mdl.Surfaces()[s.mdl.SurfaceOf(i)].Constraints()
	if len(constraints) != 0 {
		// Trial traction of the element if it keeps its previous Burgers
		// vector, in its local frame
		var (
			bcs   = s.mdl.BCsOf(i)
			trial = ifl.RemoteTractionLocal(i).Add(ifl.RowApplyTraction(i, bIn))
			types [3]model.BCType
		)
		for a := 0; a < 3; a++ {
			types[a] = bcs[a].Type
		}
		p := &model.Projection{
			Index:   i,
			Tri:     s.mdl.Triangle(i),
			B:       cand,
			T:       trial,
			BPrev:   bPrev,
			DiagInv: ifl.DiagInv(i),
			RHS:     rhsI,
			Off:     off,
			TRem:    ifl.RemoteTractionLocal(i),
			BCTypes: types,
		}
		for _, c := range constraints {
			c.Project(p)
		}
		cand = p.B
	}
	bOut[3*i], bOut[3*i+1], bOut[3*i+2] = cand[0], cand[1], cand[2]
}

// residualNorm computes ||A b - rhs||_2.
func (s *Solver) residualNorm(b, rhs, work []float64) float64 {
	s.ifl.Apply(b, work)
	utils.VecSubInto(work, rhs, work)
	return utils.VecNorm2(work)
}
