package model

import (
	"fmt"

	"github.com/youwol/arch/geometry"
)

// Surface is an ordered set of triangular elements built from shared-vertex
// arrays. It owns its triangles, per-element boundary conditions and
// constraints. Replacing the geometry invalidates the owning model.
type Surface struct {
	Tris     []*geometry.Triangle
	BCs      [][3]BC // parallel to Tris
	Vertices []float64
	Indices  []int

	constraints []Constraint // projection hooks, applied in registration order
}

// NewSurface builds a surface from flat arrays: vertices [x0,y0,z0, x1,...]
// and indices as triples into the vertex list.
func NewSurface(vertices []float64, indices []int) (s *Surface, err error) {
	if len(vertices)%3 != 0 {
		return nil, fmt.Errorf("surface: vertex array length %d not divisible by 3", len(vertices))
	}
	if len(indices)%3 != 0 {
		return nil, fmt.Errorf("surface: index array length %d not divisible by 3", len(indices))
	}
	s = &Surface{Vertices: vertices, Indices: indices}
	nv := len(vertices) / 3
	vert := func(i int) (geometry.Vec3, error) {
		if i < 0 || i >= nv {
			return geometry.Vec3{}, fmt.Errorf("surface: vertex index %d out of range [0,%d)", i, nv)
		}
		return geometry.Vec3{vertices[3*i], vertices[3*i+1], vertices[3*i+2]}, nil
	}
	for k := 0; k+2 < len(indices); k += 3 {
		var p [3]geometry.Vec3
		for j := 0; j < 3; j++ {
			if p[j], err = vert(indices[k+j]); err != nil {
				return nil, err
			}
		}
		var t *geometry.Triangle
		if t, err = geometry.NewTriangle(p[0], p[1], p[2]); err != nil {
			return nil, fmt.Errorf("surface triangle %d: %w", k/3, err)
		}
		s.Tris = append(s.Tris, t)
		s.BCs = append(s.BCs, DefaultBCs())
	}
	return
}

// SetBC applies one boundary condition to every element of the surface.
// Axis and type accept their documented string synonyms.
func (s *Surface) SetBC(axis, bcType string, value BCValue) (err error) {
	var (
		ax int
		tp BCType
	)
	if ax, err = ParseAxis(axis); err != nil {
		return
	}
	if tp, err = ParseBCType(bcType); err != nil {
		return
	}
	for i := range s.BCs {
		s.BCs[i][ax] = BC{Type: tp, Value: value}
	}
	return
}

// SetElementBC overrides the condition of a single element.
func (s *Surface) SetElementBC(elem int, axis, bcType string, value BCValue) (err error) {
	if elem < 0 || elem >= len(s.Tris) {
		return fmt.Errorf("surface: element %d out of range [0,%d)", elem, len(s.Tris))
	}
	var (
		ax int
		tp BCType
	)
	if ax, err = ParseAxis(axis); err != nil {
		return
	}
	if tp, err = ParseBCType(bcType); err != nil {
		return
	}
	s.BCs[elem][ax] = BC{Type: tp, Value: value}
	return
}

// AddConstraint appends a projection hook; the solver applies hooks in
// registration order after each local block solve.
func (s *Surface) AddConstraint(c Constraint) {
	s.constraints = append(s.constraints, c)
}

// Constraints returns the registered hooks in order.
func (s *Surface) Constraints() []Constraint {
	return s.constraints
}

// ReplaceGeometry rebuilds the triangles from new vertex positions, keeping
// the triangle count, boundary conditions and constraints. The caller must
// mark the owning model dirty afterwards; the assembled operator is stale.
func (s *Surface) ReplaceGeometry(vertices []float64) (err error) {
	if len(vertices) != len(s.Vertices) {
		return fmt.Errorf("surface: replacement vertex array length %d, want %d",
			len(vertices), len(s.Vertices))
	}
	replaced, err := NewSurface(vertices, s.Indices)
	if err != nil {
		return
	}
	s.Vertices = vertices
	s.Tris = replaced.Tris
	return
}

// Area is the summed element area.
func (s *Surface) Area() (a float64) {
	for _, t := range s.Tris {
		a += t.Area
	}
	return
}
