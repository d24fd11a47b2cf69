// Package kernel implements the closed-form elastic influence of a flat
// triangular dislocation element on a field point, in a homogeneous
// isotropic whole space or half-space (free surface z = 0), following
// Nikkhoo & Walter (2015) with the singular-point treatment folded into the
// principal branch.
package kernel

import "github.com/youwol/arch/geometry"

// Kernel bundles the medium parameters shared by every evaluation.
type Kernel struct {
	Nu        float64 // Poisson ratio
	HalfSpace bool
}

// Displacement returns the displacement at p induced by the element carrying
// the local Burgers vector b = (opening, strike-slip, dip-slip). onEdge
// reports that p sits on an element edge within geometric tolerance; the
// value is then the principal-value limit.
func (k Kernel) Displacement(p geometry.Vec3, t *geometry.Triangle, b geometry.Vec3) (u geometry.Vec3, onEdge bool) {
	if k.HalfSpace {
		u, onEdge = dispHS(p, t.V[0], t.V[1], t.V[2], b[1], b[2], b[0], k.Nu)
		return
	}
	u, onEdge = dispFS(p, t.V[0], t.V[1], t.V[2], b[1], b[2], b[0], k.Nu)
	return
}

// Strain returns the strain tensor at p induced by the element carrying the
// local Burgers vector b, in global coordinates.
func (k Kernel) Strain(p geometry.Vec3, t *geometry.Triangle, b geometry.Vec3) (E geometry.Sym, onEdge bool) {
	if k.HalfSpace {
		E, onEdge = strainHS(p, t.V[0], t.V[1], t.V[2], b[1], b[2], b[0], k.Nu)
		return
	}
	E, onEdge = strainFS(p, t.V[0], t.V[1], t.V[2], b[1], b[2], b[0], k.Nu)
	return
}

// Stress applies Hooke's law to a strain tensor.
func Stress(E geometry.Sym, lambda, mu float64) (S geometry.Sym) {
	var (
		tr = E.Trace()
	)
	S = E.Scale(2 * mu)
	S[0] += lambda * tr
	S[3] += lambda * tr
	S[5] += lambda * tr
	return
}

// Traction is the stress vector on a facet with unit normal n.
func Traction(S geometry.Sym, n geometry.Vec3) geometry.Vec3 {
	return S.MulVec(n)
}
