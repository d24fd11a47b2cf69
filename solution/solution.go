// Package solution evaluates elastic fields induced by a converged Burgers
// vector field at arbitrary points, by superposition of kernel
// contributions over all elements, and reports Burgers vectors in the
// requested convention.
package solution

import (
	"fmt"
	"sync"

	"github.com/youwol/arch/geometry"
	"github.com/youwol/arch/kernel"
	"github.com/youwol/arch/model"
	"github.com/youwol/arch/utils"
)

// Solution holds a read-only reference to the model and a Burgers snapshot
// in canonical DOF order (local frames).
type Solution struct {
	mdl     *model.Model
	burgers []float64
	kern    kernel.Kernel
	delta   float64
	cores   int
}

// New builds a solution view over a Burgers snapshot. cores bounds the
// worker pool for point evaluation; deltaFraction scales the side-offset
// used at element centers.
func New(mdl *model.Model, burgers []float64, cores int, deltaFraction float64) (s *Solution, err error) {
	if len(burgers) != 3*mdl.NumTriangles() {
		return nil, fmt.Errorf("solution: burgers length %d does not match 3x%d triangles",
			len(burgers), mdl.NumTriangles())
	}
	if cores < 1 {
		cores = 1
	}
	if deltaFraction == 0 {
		deltaFraction = 1e-8
	}
	s = &Solution{
		mdl:     mdl,
		burgers: burgers,
		kern:    kernel.Kernel{Nu: mdl.Mat.Nu, HalfSpace: mdl.HalfSpace},
		delta:   deltaFraction * mdl.Size(),
		cores:   cores,
	}
	return
}

func (s *Solution) localB(j int) geometry.Vec3 {
	return geometry.Vec3{s.burgers[3*j], s.burgers[3*j+1], s.burgers[3*j+2]}
}

// forEachPoint shards the flat [x,y,z,...] array over the worker pool.
func (s *Solution) forEachPoint(points []float64, fn func(i int, p geometry.Vec3)) error {
	if len(points)%3 != 0 {
		return fmt.Errorf("solution: point array length %d not divisible by 3", len(points))
	}
	var (
		n  = len(points) / 3
		pm = utils.NewPartitionMap(s.cores, n)
		wg sync.WaitGroup
	)
	for np := 0; np < pm.ParallelDegree; np++ {
		wg.Add(1)
		go func(np int) {
			defer wg.Done()
			iMin, iMax := pm.GetBucketRange(np)
			for i := iMin; i < iMax; i++ {
				fn(i, geometry.Vec3{points[3*i], points[3*i+1], points[3*i+2]})
			}
		}(np)
	}
	wg.Wait()
	return nil
}

// Displ returns the displacement induced by the discontinuities at each
// point, flat [ux,uy,uz,...]. Remotes do not contribute to displacement in
// stress-remote mode.
func (s *Solution) Displ(points []float64) (out []float64, err error) {
	out = make([]float64, len(points))
	err = s.forEachPoint(points, func(i int, p geometry.Vec3) {
		u := s.displAt(p)
		out[3*i], out[3*i+1], out[3*i+2] = u[0], u[1], u[2]
	})
	return
}

func (s *Solution) displAt(p geometry.Vec3) (u geometry.Vec3) {
	for j := 0; j < s.mdl.NumTriangles(); j++ {
		uj, _ := s.kern.Displacement(p, s.mdl.Triangle(j), s.localB(j))
		u = u.Add(uj)
	}
	return
}

// Strain returns the induced strain at each point, flat symmetric tensors
// [xx,xy,xz,yy,yz,zz,...].
func (s *Solution) Strain(points []float64) (out []float64, err error) {
	out = make([]float64, 2*len(points))
	err = s.forEachPoint(points, func(i int, p geometry.Vec3) {
		E := s.strainAt(p)
		copy(out[6*i:6*i+6], E[:])
	})
	return
}

func (s *Solution) strainAt(p geometry.Vec3) (E geometry.Sym) {
	for j := 0; j < s.mdl.NumTriangles(); j++ {
		Ej, _ := s.kern.Strain(p, s.mdl.Triangle(j), s.localB(j))
		E = E.Add(Ej)
	}
	return
}

// Stress returns the total stress at each point: the sum of every remote
// and of the induced field, flat symmetric tensors.
func (s *Solution) Stress(points []float64) (out []float64, err error) {
	var (
		lambda = s.mdl.Mat.Lambda()
		mu     = s.mdl.Mat.Mu()
	)
	out = make([]float64, 2*len(points))
	err = s.forEachPoint(points, func(i int, p geometry.Vec3) {
		S := kernel.Stress(s.strainAt(p), lambda, mu).Add(s.mdl.RemoteStressAt(p))
		copy(out[6*i:6*i+6], S[:])
	})
	return
}

// Burgers reports the Burgers vectors per surface as flat arrays. local
// selects the element local frame over global components; with atTriangles
// false, element values are interpolated to surface vertices by
// area-weighted averaging.
func (s *Solution) Burgers(local, atTriangles bool) (out [][]float64) {
	var (
		base = 0
	)
	for _, sf := range s.mdl.Surfaces() {
		var vals []float64
		for i, t := range sf.Tris {
			b := s.localB(base + i)
			if !local {
				g := t.ToGlobal(b)
				vals = append(vals, g[0], g[1], g[2])
			} else {
				vals = append(vals, b[0], b[1], b[2])
			}
		}
		if !atTriangles {
			vals = interpolateToVertices(sf, vals)
		}
		out = append(out, vals)
		base += len(sf.Tris)
	}
	return
}

// interpolateToVertices averages element values onto the shared vertices of
// a surface, weighted by element area.
func interpolateToVertices(sf *model.Surface, triVals []float64) (out []float64) {
	var (
		nv     = len(sf.Vertices) / 3
		weight = make([]float64, nv)
	)
	out = make([]float64, 3*nv)
	for e, t := range sf.Tris {
		for c := 0; c < 3; c++ {
			v := sf.Indices[3*e+c]
			weight[v] += t.Area
			for k := 0; k < 3; k++ {
				out[3*v+k] += t.Area * triVals[3*e+k]
			}
		}
	}
	for v := 0; v < nv; v++ {
		if weight[v] == 0 {
			continue
		}
		for k := 0; k < 3; k++ {
			out[3*v+k] /= weight[v]
		}
	}
	return
}

// BurgersPlus and BurgersMinus return the total displacement on the
// positive and negative side of every element center, flat global vectors.
// Their difference reproduces the Burgers field up to the offset tolerance.
func (s *Solution) BurgersPlus() []float64  { return s.sideDispl(+1) }
func (s *Solution) BurgersMinus() []float64 { return s.sideDispl(-1) }

func (s *Solution) sideDispl(side float64) (out []float64) {
	var (
		n = s.mdl.NumTriangles()
	)
	out = make([]float64, 3*n)
	points := make([]float64, 3*n)
	for i := 0; i < n; i++ {
		t := s.mdl.Triangle(i)
		p := t.Center.Add(t.Normal.Scale(side * s.delta))
		points[3*i], points[3*i+1], points[3*i+2] = p[0], p[1], p[2]
	}
	displ, err := s.Displ(points)
	if err != nil {
		panic(err)
	}
	copy(out, displ)
	return
}

// SeismicMoment is mu * sum(area * |burgers|) over every element.
func (s *Solution) SeismicMoment() (m0 float64) {
	var (
		mu = s.mdl.Mat.Mu()
	)
	for j := 0; j < s.mdl.NumTriangles(); j++ {
		m0 += mu * s.mdl.Triangle(j).Area * s.localB(j).Norm()
	}
	return
}

// SeismicMomentOfSurface restricts the moment sum to one surface.
func (s *Solution) SeismicMomentOfSurface(surface int) (m0 float64) {
	var (
		mu = s.mdl.Mat.Mu()
	)
	for j := 0; j < s.mdl.NumTriangles(); j++ {
		if s.mdl.SurfaceOf(j) != surface {
			continue
		}
		m0 += mu * s.mdl.Triangle(j).Area * s.localB(j).Norm()
	}
	return
}
