package solver

import (
	"fmt"
	"math"
	"sync"
	"sync/atomic"

	"github.com/youwol/arch/geometry"
	"github.com/youwol/arch/kernel"
	"github.com/youwol/arch/model"
	"github.com/youwol/arch/utils"
)

// Storage selects the influence-operator representation.
type Storage uint8

const (
	// StorageDense keeps every 3x3 block; O(N^2) memory, preferred below
	// a few thousand elements.
	StorageDense Storage = iota
	// StorageSparse drops far-field blocks below a relative cutoff and
	// stores the remainder in CSR.
	StorageSparse
	// StorageMatrixFree recomputes kernel entries on the fly; pair with
	// the Krylov methods for large N.
	StorageMatrixFree
)

// Influence is the assembled operator mapping element Burgers DOFs to the
// per-axis boundary-condition residuals at element centers. Rows follow the
// canonical DOF order: element index major, local axis (normal, strike, dip)
// minor. For a traction-type axis the row carries the induced traction
// (outward normal, tension positive); for a displacement-type axis the row
// is the identity.
type Influence struct {
	mdl   *model.Model
	kern  kernel.Kernel
	N     int
	delta float64 // absolute center offset along the element normal

	storage Storage
	dense   utils.Matrix
	csr     utils.CSR

	// Full traction rows of constrained elements, kept alongside the BC
	// rows so friction projections see the actual normal traction even
	// when the normal axis is displacement-locked.
	tracIdx map[int]int
	trac    utils.Matrix

	diag    []geometry.Mat3
	diagInv []geometry.Mat3

	onEdgeWarned atomic.Bool
}

// Assemble builds the operator for the model. cutoff is the relative
// magnitude below which off-diagonal blocks are dropped in sparse storage.
func Assemble(mdl *model.Model, storage Storage, deltaFraction, cutoff float64, cores int, obs Observer) (ifl *Influence) {
	var (
		n = mdl.NumTriangles()
	)
	ifl = &Influence{
		mdl:     mdl,
		kern:    kernel.Kernel{Nu: mdl.Mat.Nu, HalfSpace: mdl.HalfSpace},
		N:       n,
		delta:   deltaFraction * mdl.Size(),
		storage: storage,
		diag:    make([]geometry.Mat3, n),
		diagInv: make([]geometry.Mat3, n),
	}

	// Diagonal blocks are needed by every storage mode and every method.
	for i := 0; i < n; i++ {
		ifl.diag[i] = ifl.computeBlock(i, i)
		inv, ok := ifl.diag[i].Inverse()
		if !ok {
			panic(fmt.Errorf("singular diagonal block at triangle %d", i))
		}
		ifl.diagInv[i] = inv
	}

	// Elements carrying constraints get full traction rows on the side.
	ifl.tracIdx = make(map[int]int)
	for i := 0; i < n; i++ {
		if len(mdl.Surfaces()[mdl.SurfaceOf(i)].Constraints()) != 0 {
			ifl.tracIdx[i] = len(ifl.tracIdx)
		}
	}

	switch storage {
	case StorageMatrixFree:
		return
	case StorageDense:
		ifl.dense = utils.NewMatrix(3*n, 3*n)
		ifl.fillDense(cores, obs)
	case StorageSparse:
		ifl.fillSparse(cutoff, obs)
	}
	return
}

// computeTractionBlock returns the full 3x3 traction rows at receiver i for
// unit Burgers on source j, in the receiver's local frame. The evaluation
// point sits a small offset off the element plane to stay clear of the
// displacement jump; the traction is continuous across it.
func (ifl *Influence) computeTractionBlock(i, j int) (B geometry.Mat3) {
	var (
		ti = ifl.mdl.Triangle(i)
		tj = ifl.mdl.Triangle(j)
		p  = ti.Center.Add(ti.Normal.Scale(ifl.delta))
	)
	if ifl.kern.HalfSpace && p[2] > 0 {
		p = ti.Center.Sub(ti.Normal.Scale(ifl.delta))
	}
	var (
		lambda = ifl.mdl.Mat.Lambda()
		mu     = ifl.mdl.Mat.Mu()
	)
	for k := 0; k < 3; k++ {
		var unit geometry.Vec3
		unit[k] = 1
		E, onEdge := ifl.kern.Strain(p, tj, unit)
		if onEdge {
			ifl.onEdgeWarned.Store(true)
		}
		S := kernel.Stress(E, lambda, mu)
		tLoc := ti.ToLocal(kernel.Traction(S, ti.Normal))
		for a := 0; a < 3; a++ {
			B[a][k] = tLoc[a]
		}
	}
	return
}

// computeBlock returns the 3x3 block coupling source element j to the BC
// rows of receiver element i, in the receiver's local frame.
func (ifl *Influence) computeBlock(i, j int) geometry.Mat3 {
	return ifl.bcRows(i, j, ifl.mdl.BCsOf(i), geometry.Mat3{}, false)
}

func (ifl *Influence) fillDense(cores int, obs Observer) {
	var (
		n    = ifl.N
		pm   = utils.NewPartitionMap(cores, n)
		data = ifl.dense.Data()
		wg   sync.WaitGroup
	)
	if len(ifl.tracIdx) != 0 {
		ifl.trac = utils.NewMatrix(3*len(ifl.tracIdx), 3*n)
	}
	for np := 0; np < pm.ParallelDegree; np++ {
		wg.Add(1)
		go func(np int) {
			defer wg.Done()
			iMin, iMax := pm.GetBucketRange(np)
			for i := iMin; i < iMax; i++ {
				var (
					bcs         = ifl.mdl.BCsOf(i)
					ci, tracked = ifl.tracIdx[i]
				)
				for j := 0; j < n; j++ {
					var (
						T     geometry.Mat3
						haveT bool
					)
					if tracked {
						T = ifl.computeTractionBlock(i, j)
						haveT = true
						tData := ifl.trac.Data()
						for a := 0; a < 3; a++ {
							row := tData[(3*ci+a)*3*n:]
							for k := 0; k < 3; k++ {
								row[3*j+k] = T[a][k]
							}
						}
					}
					B := ifl.bcRows(i, j, bcs, T, haveT)
					for a := 0; a < 3; a++ {
						row := data[(3*i+a)*3*n:]
						for k := 0; k < 3; k++ {
							row[3*j+k] = B[a][k]
						}
					}
				}
			}
		}(np)
	}
	wg.Wait()
	if obs != nil {
		obs.OnProgress(0, 0, PhaseBuild)
	}
}

// bcRows derives the BC-row block from the traction rows T (computed when
// haveT is false and any axis needs it).
func (ifl *Influence) bcRows(i, j int, bcs [3]model.BC, T geometry.Mat3, haveT bool) (B geometry.Mat3) {
	needTraction := false
	for a := 0; a < 3; a++ {
		if bcs[a].Type == model.BCTraction {
			needTraction = true
		}
	}
	if needTraction && !haveT {
		T = ifl.computeTractionBlock(i, j)
	}
	for k := 0; k < 3; k++ {
		for a := 0; a < 3; a++ {
			if bcs[a].Type == model.BCTraction {
				B[a][k] = T[a][k]
			} else if i == j && a == k {
				B[a][k] = 1
			}
		}
	}
	return
}

func (ifl *Influence) fillSparse(cutoff float64, obs Observer) {
	var (
		n   = ifl.N
		dok = utils.NewDOK(3*n, 3*n)
	)
	for i := 0; i < n; i++ {
		ref := blockMaxAbs(ifl.diag[i])
		for j := 0; j < n; j++ {
			var B geometry.Mat3
			if i == j {
				B = ifl.diag[i]
			} else {
				B = ifl.computeBlock(i, j)
				if blockMaxAbs(B) < cutoff*ref {
					continue
				}
			}
			for a := 0; a < 3; a++ {
				for k := 0; k < 3; k++ {
					if B[a][k] != 0 {
						dok.Set(3*i+a, 3*j+k, B[a][k])
					}
				}
			}
		}
	}
	ifl.csr = dok.ToCSR()
	if obs != nil {
		obs.OnProgress(0, 0, PhaseBuild)
	}
}

func blockMaxAbs(B geometry.Mat3) (mx float64) {
	for a := 0; a < 3; a++ {
		for k := 0; k < 3; k++ {
			mx = math.Max(mx, math.Abs(B[a][k]))
		}
	}
	return
}

// Diag returns the 3x3 diagonal block of element i.
func (ifl *Influence) Diag(i int) geometry.Mat3 { return ifl.diag[i] }

// DiagInv returns the inverse diagonal block of element i.
func (ifl *Influence) DiagInv(i int) geometry.Mat3 { return ifl.diagInv[i] }

// Apply computes y = A x over the full DOF vector.
func (ifl *Influence) Apply(x, y []float64) {
	switch ifl.storage {
	case StorageDense:
		ifl.dense.MulVec(x, y)
	case StorageSparse:
		ifl.csr.MulVec(x, y)
	default:
		for i := 0; i < ifl.N; i++ {
			r := ifl.RowApply(i, x)
			y[3*i], y[3*i+1], y[3*i+2] = r[0], r[1], r[2]
		}
	}
}

// RowApply computes the three residual rows of element i against the DOF
// vector x.
func (ifl *Influence) RowApply(i int, x []float64) (r geometry.Vec3) {
	switch ifl.storage {
	case StorageDense:
		var (
			n    = ifl.N
			data = ifl.dense.Data()
		)
		for a := 0; a < 3; a++ {
			row := data[(3*i+a)*3*n : (3*i+a+1)*3*n]
			var sum float64
			for j, v := range row {
				sum += v * x[j]
			}
			r[a] = sum
		}
	case StorageSparse:
		for a := 0; a < 3; a++ {
			var sum float64
			ifl.csr.M.DoRowNonZero(3*i+a, func(_, j int, v float64) {
				sum += v * x[j]
			})
			r[a] = sum
		}
	default:
		for j := 0; j < ifl.N; j++ {
			var B geometry.Mat3
			if i == j {
				B = ifl.diag[i]
			} else {
				B = ifl.computeBlock(i, j)
			}
			xj := geometry.Vec3{x[3*j], x[3*j+1], x[3*j+2]}
			r = r.Add(B.MulVec(xj))
		}
	}
	return
}

// RHS builds the right-hand side from the current BC values and remotes:
// prescribed value minus the projected remote traction for traction rows,
// the prescribed displacement scalar for displacement rows. Remote stress is
// evaluated once per element center. The prescribed value on the normal
// axis is pressure-positive (a positive value opens the element); strike and
// dip values are engineer shear tractions.
func (ifl *Influence) RHS() (rhs []float64) {
	var (
		n = ifl.N
	)
	rhs = make([]float64, 3*n)
	for i := 0; i < n; i++ {
		var (
			t    = ifl.mdl.Triangle(i)
			bcs  = ifl.mdl.BCsOf(i)
			c    = t.Center
			sRem = ifl.mdl.RemoteStressAt(c)
			tRem = t.ToLocal(sRem.MulVec(t.Normal))
		)
		for a := 0; a < 3; a++ {
			v := bcs[a].Value.At(c[0], c[1], c[2])
			if bcs[a].Type == model.BCTraction {
				if a == 0 {
					v = -v
				}
				rhs[3*i+a] = v - tRem[a]
			} else {
				rhs[3*i+a] = v
			}
		}
	}
	return
}

// RowApplyTraction computes the induced traction at element i for the DOF
// vector x, in the element local frame, from the stored traction rows when
// available and by kernel recomputation otherwise.
func (ifl *Influence) RowApplyTraction(i int, x []float64) (t geometry.Vec3) {
	if ci, ok := ifl.tracIdx[i]; ok && ifl.trac.M != nil {
		var (
			n    = ifl.N
			data = ifl.trac.Data()
		)
		for a := 0; a < 3; a++ {
			row := data[(3*ci+a)*3*n : (3*ci+a+1)*3*n]
			var sum float64
			for j, v := range row {
				sum += v * x[j]
			}
			t[a] = sum
		}
		return
	}
	for j := 0; j < ifl.N; j++ {
		T := ifl.computeTractionBlock(i, j)
		xj := geometry.Vec3{x[3*j], x[3*j+1], x[3*j+2]}
		t = t.Add(T.MulVec(xj))
	}
	return
}

// EdgeWarning reports that some evaluation point fell on an element edge
// and the principal-value limit was used.
func (ifl *Influence) EdgeWarning() bool { return ifl.onEdgeWarned.Load() }

// RemoteTractionLocal returns the remote traction at element i's center in
// its local frame; used by the constraint projections.
func (ifl *Influence) RemoteTractionLocal(i int) geometry.Vec3 {
	t := ifl.mdl.Triangle(i)
	return t.ToLocal(ifl.mdl.RemoteStressAt(t.Center).MulVec(t.Normal))
}

// Release drops the stored operator, keeping only the diagonal blocks;
// subsequent applications recompute kernel entries on the fly.
func (ifl *Influence) Release() {
	ifl.dense = utils.Matrix{}
	ifl.trac = utils.Matrix{}
	ifl.csr = utils.CSR{}
	ifl.storage = StorageMatrixFree
}
