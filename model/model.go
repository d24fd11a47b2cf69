// Package model aggregates surfaces, remotes and the elastic material into
// the boundary-value problem handed to the solver. It owns the canonical
// element ordering that defines the global degree-of-freedom index: elements
// are numbered by surface insertion order, then intra-surface order, with
// three local DOFs per element.
package model

import (
	"fmt"
	"math"

	"github.com/youwol/arch/geometry"
)

type Model struct {
	Mat       Material
	HalfSpace bool

	surfaces []*Surface
	remotes  []Remote

	dirty bool
	// canonical index: global element -> (surface, intra-surface) position.
	// Rebuilt lazily; holds no element data so BC edits and geometry
	// replacement stay visible without invalidation.
	surfaceOf []int
	localIdx  []int
}

func New(mat Material) *Model {
	return &Model{Mat: mat, dirty: true}
}

func (m *Model) AddSurface(s *Surface) {
	m.surfaces = append(m.surfaces, s)
	m.surfaceOf = nil
	m.dirty = true
}

func (m *Model) AddRemote(r Remote) {
	m.remotes = append(m.remotes, r)
}

// ClearRemotes removes every remote; the assembled operator stays valid.
func (m *Model) ClearRemotes() { m.remotes = nil }

func (m *Model) Surfaces() []*Surface { return m.surfaces }
func (m *Model) Remotes() []Remote    { return m.remotes }

// SetDirty marks the model after an external mutation that index/metadata
// comparison cannot detect (in-place geometry edits). The next solve
// reassembles the influence operator.
func (m *Model) SetDirty() { m.dirty = true }

// Dirty reports whether the operator must be reassembled.
func (m *Model) Dirty() bool { return m.dirty }

// ClearDirty is called by the solver once the operator is rebuilt.
func (m *Model) ClearDirty() { m.dirty = false }

// SetMaterial replaces the material; a Poisson ratio change invalidates the
// assembled operator.
func (m *Model) SetMaterial(mat Material) {
	if mat.Nu != m.Mat.Nu {
		m.dirty = true
	}
	m.Mat = mat
}

func (m *Model) rebuildIndex() {
	m.surfaceOf = m.surfaceOf[:0]
	m.localIdx = m.localIdx[:0]
	for si, s := range m.surfaces {
		for i := range s.Tris {
			m.surfaceOf = append(m.surfaceOf, si)
			m.localIdx = append(m.localIdx, i)
		}
	}
}

// NumTriangles is the total element count over all surfaces.
func (m *Model) NumTriangles() (n int) {
	for _, s := range m.surfaces {
		n += len(s.Tris)
	}
	return
}

// Triangle returns the element at the canonical global index.
func (m *Model) Triangle(i int) *geometry.Triangle {
	m.ensureIndex()
	return m.surfaces[m.surfaceOf[i]].Tris[m.localIdx[i]]
}

// BCsOf returns the per-axis conditions of the element at the global index.
func (m *Model) BCsOf(i int) [3]BC {
	m.ensureIndex()
	return m.surfaces[m.surfaceOf[i]].BCs[m.localIdx[i]]
}

// SurfaceOf returns the owning surface index of a global element index.
func (m *Model) SurfaceOf(i int) int {
	m.ensureIndex()
	return m.surfaceOf[i]
}

func (m *Model) ensureIndex() {
	if len(m.surfaceOf) != m.NumTriangles() {
		m.rebuildIndex()
	}
}

// RemoteStressAt sums every remote at a point.
func (m *Model) RemoteStressAt(p geometry.Vec3) (s geometry.Sym) {
	for _, r := range m.remotes {
		s = s.Add(r.StressAt(p[0], p[1], p[2]))
	}
	return
}

// Size is the diagonal of the model bounding box, the length scale for the
// side-offset used at element centers.
func (m *Model) Size() float64 {
	var (
		lo = geometry.Vec3{math.Inf(1), math.Inf(1), math.Inf(1)}
		hi = geometry.Vec3{math.Inf(-1), math.Inf(-1), math.Inf(-1)}
	)
	for _, s := range m.surfaces {
		for _, t := range s.Tris {
			for _, v := range t.V {
				for k := 0; k < 3; k++ {
					lo[k] = math.Min(lo[k], v[k])
					hi[k] = math.Max(hi[k], v[k])
				}
			}
		}
	}
	d := hi.Sub(lo).Norm()
	if math.IsInf(d, 0) || d == 0 {
		d = 1
	}
	return d
}

// Validate fails loudly on configuration errors before any iteration,
// naming the offending entity by index.
func (m *Model) Validate() error {
	if err := m.Mat.Validate(); err != nil {
		return err
	}
	if len(m.surfaces) == 0 {
		return fmt.Errorf("model: no surfaces")
	}
	n := 0
	for si, s := range m.surfaces {
		if len(s.Tris) == 0 {
			return fmt.Errorf("model: surface %d has no triangles", si)
		}
		for ti, t := range s.Tris {
			if t.Area <= 0 || math.IsNaN(t.Area) {
				return fmt.Errorf("model: surface %d triangle %d has non-positive area", si, ti)
			}
		}
		n += len(s.Tris)
	}
	if m.HalfSpace {
		for si, s := range m.surfaces {
			for ti, t := range s.Tris {
				for _, v := range t.V {
					if v[2] > 0 {
						return fmt.Errorf("model: half-space requires z <= 0, surface %d triangle %d has z = %g",
							si, ti, v[2])
					}
				}
			}
		}
	}
	return nil
}
