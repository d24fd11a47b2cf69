// Package solver assembles the influence operator of a model and resolves
// the mixed boundary-condition system with block iterative methods, under
// equality and inequality constraints.
package solver

import (
	"bytes"
	"fmt"
	"math"
	"strings"

	"github.com/youwol/arch/geometry"
	"github.com/youwol/arch/model"
	"github.com/youwol/arch/utils"
)

// Options configures a solve. Zero values fall back to the documented
// defaults through NewOptions.
type Options struct {
	Name              string  // seidel | jacobi | gmres | cgns | parallel
	Eps               float64 // relative residual target
	MaxIter           int
	Cores             int
	AutoReleaseMemory bool
	Storage           Storage
	SparseCutoff      float64 // relative block drop tolerance for sparse storage
	DeltaFraction     float64 // center offset as a fraction of model size
	DivergenceWindow  int     // consecutive growing residuals before giving up
}

func NewOptions() Options {
	return Options{
		Name:              "seidel",
		Eps:               1e-9,
		MaxIter:           200,
		Cores:             1,
		AutoReleaseMemory: true,
		Storage:           StorageDense,
		SparseCutoff:      1e-6,
		DeltaFraction:     1e-8,
		DivergenceWindow:  10,
	}
}

// Solver drives one model to convergence. It holds non-owning references to
// the model and is invalidated by model dirty events.
type Solver struct {
	mdl  *model.Model
	opts Options
	obs  Observer

	ifl     *Influence
	bcSig   []byte
	burgers []float64
	status  Status
	history []float64
}

// bcTypeSignature captures the per-axis BC types; a change forces
// reassembly even without an explicit dirty mark.
func bcTypeSignature(mdl *model.Model) (sig []byte) {
	n := mdl.NumTriangles()
	sig = make([]byte, 3*n)
	for i := 0; i < n; i++ {
		bcs := mdl.BCsOf(i)
		for a := 0; a < 3; a++ {
			sig[3*i+a] = byte(bcs[a].Type)
		}
	}
	return
}

func New(mdl *model.Model, opts Options, obs Observer) *Solver {
	if obs == nil {
		obs = NullObserver{}
	}
	if opts.Eps == 0 {
		opts.Eps = 1e-9
	}
	if opts.MaxIter == 0 {
		opts.MaxIter = 200
	}
	if opts.Cores == 0 {
		opts.Cores = 1
	}
	if opts.DeltaFraction == 0 {
		opts.DeltaFraction = 1e-8
	}
	if opts.DivergenceWindow == 0 {
		opts.DivergenceWindow = 10
	}
	if opts.Name == "" {
		opts.Name = "seidel"
	}
	return &Solver{mdl: mdl, opts: opts, obs: obs, status: StatusIdle}
}

// Status reports the state of the last run.
func (s *Solver) Status() Status { return s.status }

// Burgers returns the current DOF vector in canonical order, local frames.
func (s *Solver) Burgers() []float64 { return s.burgers }

// ResidualHistory returns the per-iteration relative residuals of the last
// run.
func (s *Solver) ResidualHistory() []float64 { return s.history }

// Tractions returns the total traction (remote plus induced) at every
// element center in the element local frames, flat [tn, ts, td, ...].
// Recomputes kernel entries when the operator was released.
func (s *Solver) Tractions() (t []float64) {
	var (
		n = s.ifl.N
	)
	t = make([]float64, 3*n)
	for i := 0; i < n; i++ {
		tr := s.ifl.RemoteTractionLocal(i).Add(s.ifl.RowApplyTraction(i, s.burgers))
		t[3*i], t[3*i+1], t[3*i+2] = tr[0], tr[1], tr[2]
	}
	return
}

// hasInequalityConstraints reports whether any surface carries projection
// hooks; the Krylov methods refuse those models.
func (s *Solver) hasInequalityConstraints() bool {
	for _, sf := range s.mdl.Surfaces() {
		if len(sf.Constraints()) != 0 {
			return true
		}
	}
	return false
}

// Run assembles (when dirty) and iterates to a terminal status. The call
// blocks; progress and warnings stream through the observer.
func (s *Solver) Run() (status Status, err error) {
	if err = s.mdl.Validate(); err != nil {
		s.obs.OnError(err)
		return StatusIdle, err
	}
	method := strings.ToLower(s.opts.Name)
	switch method {
	case "seidel", "jacobi", "gmres", "cgns", "parallel":
	default:
		err = fmt.Errorf("solver: unknown method %q", s.opts.Name)
		s.obs.OnError(err)
		return StatusIdle, err
	}
	if (method == "gmres" || method == "cgns") && s.hasInequalityConstraints() {
		err = fmt.Errorf("solver: %s does not support constraint projections; use seidel or jacobi", method)
		s.obs.OnError(err)
		return StatusIdle, err
	}

	n := s.mdl.NumTriangles()
	s.obs.OnMessage(fmt.Sprintf("solving %d triangles with %s", n, method))
	sig := bcTypeSignature(s.mdl)
	if s.ifl == nil || s.mdl.Dirty() || s.ifl.N != n || !bytes.Equal(sig, s.bcSig) {
		s.status = StatusAssembling
		s.obs.OnProgress(0, 0, PhaseBuild)
		s.ifl = Assemble(s.mdl, s.opts.Storage, s.opts.DeltaFraction, s.opts.SparseCutoff, s.opts.Cores, s.obs)
		s.bcSig = sig
		s.mdl.ClearDirty()
		if s.ifl.EdgeWarning() {
			s.obs.OnWarning("evaluation point on a triangle edge; principal-value limit used")
		}
	}
	rhs := s.ifl.RHS()

	// Warm start from the previous Burgers vector when its size still
	// matches the element count; otherwise start from zero.
	if len(s.burgers) != 3*n {
		s.burgers = make([]float64, 3*n)
	}

	s.status = StatusIterating
	s.history = s.history[:0]
	switch method {
	case "gmres":
		s.history = s.gmres(s.burgers, rhs, s.opts.Eps, s.opts.MaxIter)
		s.status = s.krylovStatus(rhs)
	case "cgns":
		s.history = s.cgns(s.burgers, rhs, s.opts.Eps, s.opts.MaxIter)
		s.status = s.krylovStatus(rhs)
	default:
		s.status = s.relax(method, rhs)
	}

	if s.opts.AutoReleaseMemory {
		s.ifl.Release()
	}
	s.obs.OnEnd(s.status)
	return s.status, nil
}

func (s *Solver) krylovStatus(rhs []float64) Status {
	work := make([]float64, len(rhs))
	rel := s.relResidual(s.burgers, rhs, work)
	if rel <= s.opts.Eps {
		return StatusConverged
	}
	return StatusDiverged
}

func (s *Solver) relResidual(b, rhs, work []float64) float64 {
	rhsNm := utils.VecNorm2(rhs)
	if rhsNm == 0 {
		return 0
	}
	return s.residualNorm(b, rhs, work) / rhsNm
}

// relax runs the Seidel, Jacobi or colored-parallel relaxation with
// best-so-far bookkeeping, divergence detection and cooperative stop.
// Unconstrained runs converge on the relative residual; with inequality
// constraints the projections rewrite the effective targets, so convergence
// is measured on the normalized iterate change instead.
func (s *Solver) relax(method string, rhs []float64) Status {
	var (
		n           = s.ifl.N
		b           = s.burgers
		work        = make([]float64, 3*n)
		bPrev       []float64
		pm          *utils.PartitionMap
		constrained = s.hasInequalityConstraints()
		bOld        []float64
		firstChange float64

		best    = math.Inf(1)
		bestB   = make([]float64, 3*n)
		growing int
		lastRel = math.Inf(1)
	)
	if method == "jacobi" {
		bPrev = make([]float64, 3*n)
	}
	if method == "parallel" {
		pm = utils.NewPartitionMap(s.opts.Cores, n)
	}
	if constrained {
		bOld = make([]float64, 3*n)
	}

	rhsNm := utils.VecNorm2(rhs)
	if rhsNm == 0 && !constrained {
		// Zero loading: the solution is identically zero.
		for i := range b {
			b[i] = 0
		}
		s.history = append(s.history, 0)
		s.obs.OnProgress(0, 0, PhaseSolve)
		return StatusConverged
	}

	for k := 1; k <= s.opts.MaxIter; k++ {
		if s.obs.StopRequested() {
			copy(b, bestB)
			return StatusStopped
		}
		if constrained {
			copy(bOld, b)
		}
		switch method {
		case "jacobi":
			copy(bPrev, b)
			s.sweepJacobi(b, bPrev, rhs)
		case "parallel":
			s.sweepColored(b, rhs, pm)
		default:
			s.sweepSeidel(b, rhs)
		}
		var rel float64
		if constrained {
			utils.VecSubInto(b, bOld, work)
			change := utils.VecNorm2(work)
			if k == 1 {
				firstChange = change
				if firstChange == 0 {
					s.history = append(s.history, 0)
					return StatusConverged
				}
			}
			rel = change / firstChange
		} else {
			rel = s.relResidual(b, rhs, work)
		}
		s.history = append(s.history, rel)
		s.obs.OnProgress(k, rel, PhaseSolve)
		if rel < best {
			best = rel
			copy(bestB, b)
		}
		if rel <= s.opts.Eps {
			return StatusConverged
		}
		if rel > lastRel {
			growing++
			if growing >= s.opts.DivergenceWindow {
				s.obs.OnWarning(s.divergenceDiagnostic())
				copy(b, bestB)
				return StatusDiverged
			}
		} else {
			growing = 0
		}
		lastRel = rel
	}
	// Out of iterations: return the best iterate seen.
	copy(b, bestB)
	if s.hasInequalityConstraints() {
		s.obs.OnWarning(fmt.Sprintf(
			"no convergence with the active constraint set after %d iterations, returning best iterate (residual %.3e)",
			s.opts.MaxIter, best))
	}
	if best <= s.opts.Eps {
		return StatusConverged
	}
	return StatusStopped
}

// divergenceDiagnostic names the most likely geometric cause: the pair of
// elements with the most anti-parallel normals (small dihedral angle or
// overlap).
func (s *Solver) divergenceDiagnostic() string {
	var (
		n         = s.mdl.NumTriangles()
		worst     = 1.0
		wi, wj    = -1, -1
		sizeScale = s.mdl.Size()
	)
	for i := 0; i < n; i++ {
		ti := s.mdl.Triangle(i)
		for j := i + 1; j < n; j++ {
			tj := s.mdl.Triangle(j)
			if ti.Center.Sub(tj.Center).Norm() > 0.05*sizeScale {
				continue
			}
			// A sharp fold between close elements shows up as nearly
			// anti-parallel normals.
			if c := geometry.DihedralCos(ti, tj); c < worst {
				worst = c
				wi, wj = i, j
			}
		}
	}
	if wi < 0 {
		return "solver diverged: residual grew for consecutive iterations; check for overlapping triangles"
	}
	return fmt.Sprintf(
		"solver diverged: residual grew for consecutive iterations; suspect triangles %d and %d (small dihedral angle or overlap)",
		wi, wj)
}
