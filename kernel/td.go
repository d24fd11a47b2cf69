package kernel

import (
	"math"

	"github.com/youwol/arch/geometry"
)

// Triangular dislocation in a whole space, after Nikkhoo & Walter (2015).
// The element-local slip vector is (opening, strike-slip, dip-slip); the
// element-local coordinate system (TDCS) has x along the element normal.

// tdFrame returns the unit normal, strike and dip vectors of the element
// built from its vertices, matching geometry.Triangle's frame.
func tdFrame(p1, p2, p3 geometry.Vec3) (vnorm, vstrike, vdip geometry.Vec3) {
	var (
		eZ = geometry.Vec3{0, 0, 1}
	)
	vnorm = p2.Sub(p1).Cross(p3.Sub(p1)).Normalize()
	vstrike = eZ.Cross(vnorm)
	if vstrike.Norm() < 1e-14 {
		vstrike = geometry.Vec3{0, vnorm[2], 0}
	}
	vstrike = vstrike.Normalize()
	vdip = vnorm.Cross(vstrike)
	return
}

// trimodefinder classifies the projection of a field point onto the element
// plane: +1 selects configuration I, -1 configuration II, 0 flags a point
// exactly on an element edge (principal-value case).
func trimodefinder(x, y, z float64, p1, p2, p3 [2]float64) (trimode int) {
	var (
		den = (p2[1]-p3[1])*(p1[0]-p3[0]) + (p3[0]-p2[0])*(p1[1]-p3[1])
		a   = ((p2[1]-p3[1])*(x-p3[0]) + (p3[0]-p2[0])*(y-p3[1])) / den
		b   = ((p3[1]-p1[1])*(x-p3[0]) + (p1[0]-p3[0])*(y-p3[1])) / den
		c   = 1 - a - b
	)
	trimode = 1
	if a < 0 && b > c && c > a {
		trimode = -1
	}
	if b < 0 && c > a && a > b {
		trimode = -1
	}
	if c < 0 && a > b && b > c {
		trimode = -1
	}
	if a == 0 && b >= 0 && c >= 0 {
		trimode = 0
	}
	if a >= 0 && b == 0 && c >= 0 {
		trimode = 0
	}
	if a >= 0 && b >= 0 && c == 0 {
		trimode = 0
	}
	if trimode == 0 && z != 0 {
		trimode = 1
	}
	return
}

// tdSetupD transforms the coordinates and slip into the ADCS of one element
// leg and accumulates the angular dislocation displacement back in TDCS.
func tdSetupD(x, y, z, alpha, bx, by, bz, nu float64, triVertex, sideVec geometry.Vec3) (u, v, w float64) {
	var (
		// In-plane rotation TDCS -> ADCS
		a11, a12 = sideVec[2], -sideVec[1]
		a21, a22 = sideVec[1], sideVec[2]

		y1  = a11*(y-triVertex[1]) + a12*(z-triVertex[2])
		z1  = a21*(y-triVertex[1]) + a22*(z-triVertex[2])
		by1 = a11*by + a12*bz
		bz1 = a21*by + a22*bz
	)
	u, v0, w0 := angDisDisp(x, y1, z1, -math.Pi+alpha, bx, by1, bz1, nu)
	v = a11*v0 + a21*w0
	w = a12*v0 + a22*w0
	return
}

// tdSetupS is the strain counterpart of tdSetupD.
func tdSetupS(x, y, z, alpha, bx, by, bz, nu float64, triVertex, sideVec geometry.Vec3) (e geometry.Sym) {
	var (
		a11, a12 = sideVec[2], -sideVec[1]
		a21, a22 = sideVec[1], sideVec[2]

		y1  = a11*(y-triVertex[1]) + a12*(z-triVertex[2])
		z1  = a21*(y-triVertex[1]) + a22*(z-triVertex[2])
		by1 = a11*by + a12*bz
		bz1 = a21*by + a22*bz
	)
	exx, eyy, ezz, exy, exz, eyz := angDisStrain(x, y1, z1, -math.Pi+alpha, bx, by1, bz1, nu)
	// Rotate the tensor from ADCS back to TDCS; the ADCS base vectors in
	// TDCS are the columns of the transpose of the in-plane rotation.
	B := geometry.Mat3{
		{1, 0, 0},
		{0, a11, a21},
		{0, a12, a22},
	}
	e = geometry.Sym{exx, exy, exz, eyy, eyz, ezz}.Rotate(B)
	return
}

// tdGeom is the per-element precomputation shared by the displacement and
// strain evaluations.
type tdGeom struct {
	vnorm, vstrike, vdip geometry.Vec3
	p1, p3               geometry.Vec3 // TDCS vertex coords; p2 is the origin
	e12, e13, e23        geometry.Vec3
	angA, angB, angC     float64
}

func newTDGeom(P1, P2, P3 geometry.Vec3) (g tdGeom) {
	g.vnorm, g.vstrike, g.vdip = tdFrame(P1, P2, P3)
	toLocal := func(v geometry.Vec3) geometry.Vec3 {
		return geometry.Vec3{v.Dot(g.vnorm), v.Dot(g.vstrike), v.Dot(g.vdip)}
	}
	g.p1 = toLocal(P1.Sub(P2))
	g.p3 = toLocal(P3.Sub(P2))
	g.e12 = g.p1.Scale(-1).Normalize()
	g.e13 = g.p3.Sub(g.p1).Normalize()
	g.e23 = g.p3.Normalize()
	g.angA = math.Acos(clamp1(g.e12.Dot(g.e13)))
	g.angB = math.Acos(clamp1(-g.e12.Dot(g.e23)))
	g.angC = math.Acos(clamp1(g.e23.Dot(g.e13)))
	return
}

func clamp1(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}

func (g tdGeom) toLocal(v geometry.Vec3) geometry.Vec3 {
	return geometry.Vec3{v.Dot(g.vnorm), v.Dot(g.vstrike), v.Dot(g.vdip)}
}

func (g tdGeom) toGlobal(v geometry.Vec3) geometry.Vec3 {
	return g.vnorm.Scale(v[0]).Add(g.vstrike.Scale(v[1])).Add(g.vdip.Scale(v[2]))
}

// dispFS returns the displacement at X of a triangular dislocation
// (P1, P2, P3) in a whole space with slip (ss, ds, ts). onEdge reports a
// field point on an element edge; the returned value is then the
// principal-value limit along the element plane.
func dispFS(X, P1, P2, P3 geometry.Vec3, ss, ds, ts, nu float64) (u geometry.Vec3, onEdge bool) {
	var (
		g          = newTDGeom(P1, P2, P3)
		bx, by, bz = ts, ss, ds
		p          = g.toLocal(X.Sub(P2))
		x, y, z    = p[0], p[1], p[2]
	)
	trimode := trimodefinder(y, z, x,
		[2]float64{g.p1[1], g.p1[2]}, [2]float64{0, 0}, [2]float64{g.p3[1], g.p3[2]})

	var uu, vv, ww float64
	switch trimode {
	case 1:
		u1, v1, w1 := tdSetupD(x, y, z, g.angA, bx, by, bz, nu, g.p1, g.e13.Scale(-1))
		u2, v2, w2 := tdSetupD(x, y, z, g.angB, bx, by, bz, nu, geometry.Vec3{}, g.e12)
		u3, v3, w3 := tdSetupD(x, y, z, g.angC, bx, by, bz, nu, g.p3, g.e23)
		uu, vv, ww = u1+u2+u3, v1+v2+v3, w1+w2+w3
	case -1:
		u1, v1, w1 := tdSetupD(x, y, z, g.angA, bx, by, bz, nu, g.p1, g.e13)
		u2, v2, w2 := tdSetupD(x, y, z, g.angB, bx, by, bz, nu, geometry.Vec3{}, g.e12.Scale(-1))
		u3, v3, w3 := tdSetupD(x, y, z, g.angC, bx, by, bz, nu, g.p3, g.e23.Scale(-1))
		uu, vv, ww = u1+u2+u3, v1+v2+v3, w1+w2+w3
	default:
		// Point on an element edge: principal value, the solid-angle term
		// below carries the whole contribution.
		onEdge = true
	}

	// Burgers function (solid angle) contribution
	var (
		a  = geometry.Vec3{-x, g.p1[1] - y, g.p1[2] - z}
		b  = geometry.Vec3{-x, -y, -z}
		cc = geometry.Vec3{-x, g.p3[1] - y, g.p3[2] - z}
		na = a.Norm()
		nb = b.Norm()
		nc = cc.Norm()
	)
	fiN := a.Dot(b.Cross(cc))
	fiD := na*nb*nc + a.Dot(b)*nc + a.Dot(cc)*nb + b.Dot(cc)*na
	fi := -2 * math.Atan2(fiN, fiD) / (4 * math.Pi)

	uu += bx * fi
	vv += by * fi
	ww += bz * fi

	u = g.toGlobal(geometry.Vec3{uu, vv, ww})
	return
}

// strainFS returns the strain tensor at X of a triangular dislocation in a
// whole space, in global coordinates.
func strainFS(X, P1, P2, P3 geometry.Vec3, ss, ds, ts, nu float64) (E geometry.Sym, onEdge bool) {
	var (
		g          = newTDGeom(P1, P2, P3)
		bx, by, bz = ts, ss, ds
		p          = g.toLocal(X.Sub(P2))
		x, y, z    = p[0], p[1], p[2]
	)
	trimode := trimodefinder(y, z, x,
		[2]float64{g.p1[1], g.p1[2]}, [2]float64{0, 0}, [2]float64{g.p3[1], g.p3[2]})

	var e geometry.Sym
	switch trimode {
	case 1:
		e1 := tdSetupS(x, y, z, g.angA, bx, by, bz, nu, g.p1, g.e13.Scale(-1))
		e2 := tdSetupS(x, y, z, g.angB, bx, by, bz, nu, geometry.Vec3{}, g.e12)
		e3 := tdSetupS(x, y, z, g.angC, bx, by, bz, nu, g.p3, g.e23)
		e = e1.Add(e2).Add(e3)
	case -1:
		e1 := tdSetupS(x, y, z, g.angA, bx, by, bz, nu, g.p1, g.e13)
		e2 := tdSetupS(x, y, z, g.angB, bx, by, bz, nu, geometry.Vec3{}, g.e12.Scale(-1))
		e3 := tdSetupS(x, y, z, g.angC, bx, by, bz, nu, g.p3, g.e23.Scale(-1))
		e = e1.Add(e2).Add(e3)
	default:
		onEdge = true
	}

	// Rotate from TDCS to the global frame; the TDCS base vectors are the
	// columns of the rotation.
	Q := geometry.MatFromCols(g.vnorm, g.vstrike, g.vdip)
	E = e.Rotate(Q)
	return
}
