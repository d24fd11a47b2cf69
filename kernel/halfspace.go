package kernel

import (
	"fmt"
	"math"

	"github.com/youwol/arch/geometry"
)

// Half-space solution: the total field is the superposition of the real
// source, its image across the free surface z = 0, and a harmonic correction
// that cancels the residual traction on z = 0. After Nikkhoo & Walter (2015).

// dispHS returns the displacement at X of a triangular dislocation in the
// half-space z <= 0.
func dispHS(X, P1, P2, P3 geometry.Vec3, ss, ds, ts, nu float64) (u geometry.Vec3, onEdge bool) {
	checkHalfSpace(X, P1, P2, P3)
	uMS, onEdge := dispFS(X, P1, P2, P3, ss, ds, ts, nu)
	uFSC := dispHarmonic(X, P1, P2, P3, ss, ds, ts, nu)

	// Image dislocation: mirrored vertices, same slip scalars
	var (
		q1 = geometry.Vec3{P1[0], P1[1], -P1[2]}
		q2 = geometry.Vec3{P2[0], P2[1], -P2[2]}
		q3 = geometry.Vec3{P3[0], P3[1], -P3[2]}
	)
	uIS, _ := dispFS(X, q1, q2, q3, ss, ds, ts, nu)
	if P1[2] == 0 && P2[2] == 0 && P3[2] == 0 {
		uIS[2] = -uIS[2]
	}
	u = uMS.Add(uIS).Add(uFSC)
	return
}

// strainHS returns the strain at X of a triangular dislocation in the
// half-space z <= 0. The real-source and image terms are closed-form; the
// harmonic correction gradient is evaluated by fourth-order central
// differences of the harmonic displacement, with the step tied to the
// element size.
func strainHS(X, P1, P2, P3 geometry.Vec3, ss, ds, ts, nu float64) (E geometry.Sym, onEdge bool) {
	checkHalfSpace(X, P1, P2, P3)
	eMS, onEdge := strainFS(X, P1, P2, P3, ss, ds, ts, nu)

	var (
		q1 = geometry.Vec3{P1[0], P1[1], -P1[2]}
		q2 = geometry.Vec3{P2[0], P2[1], -P2[2]}
		q3 = geometry.Vec3{P3[0], P3[1], -P3[2]}
	)
	eIS, _ := strainFS(X, q1, q2, q3, ss, ds, ts, nu)

	eFSC := strainHarmonic(X, P1, P2, P3, ss, ds, ts, nu)
	E = eMS.Add(eIS).Add(eFSC)
	return
}

func checkHalfSpace(X, P1, P2, P3 geometry.Vec3) {
	if X[2] > 0 || P1[2] > 0 || P2[2] > 0 || P3[2] > 0 {
		panic(fmt.Errorf("half-space solution: z coordinates must not be positive, have field %g, vertices %g %g %g",
			X[2], P1[2], P2[2], P3[2]))
	}
}

// dispHarmonic sums the free-surface correction of the three angular
// dislocation pairs along the element sides.
func dispHarmonic(X, P1, P2, P3 geometry.Vec3, ss, ds, ts, nu float64) (u geometry.Vec3) {
	var (
		vnorm, vstrike, vdip = tdFrame(P1, P2, P3)
		// Slip vector in the global frame
		b = vnorm.Scale(ts).Add(vstrike.Scale(ss)).Add(vdip.Scale(ds))
	)
	u1 := angSetupFSC(X, b, P1, P2, nu)
	u2 := angSetupFSC(X, b, P2, P3, nu)
	u3 := angSetupFSC(X, b, P3, P1, nu)
	u = u1.Add(u2).Add(u3)
	return
}

// strainHarmonic differentiates dispHarmonic with a fourth-order central
// stencil. The harmonic term is smooth below the free surface, so the
// stencil converges fast; the step follows the source-to-field scale.
func strainHarmonic(X, P1, P2, P3 geometry.Vec3, ss, ds, ts, nu float64) (E geometry.Sym) {
	var (
		scale = math.Max(P2.Sub(P1).Norm(), math.Max(P3.Sub(P2).Norm(), P1.Sub(P3).Norm()))
		h     = 1e-5 * scale
		grad  geometry.Mat3 // grad[i][j] = du_i/dx_j
	)
	for j := 0; j < 3; j++ {
		var dx geometry.Vec3
		dx[j] = h
		up1 := dispHarmonic(X.Add(dx), P1, P2, P3, ss, ds, ts, nu)
		um1 := dispHarmonic(X.Sub(dx), P1, P2, P3, ss, ds, ts, nu)
		up2 := dispHarmonic(X.Add(dx.Scale(2)), P1, P2, P3, ss, ds, ts, nu)
		um2 := dispHarmonic(X.Sub(dx.Scale(2)), P1, P2, P3, ss, ds, ts, nu)
		for i := 0; i < 3; i++ {
			grad[i][j] = (8*(up1[i]-um1[i]) - (up2[i] - um2[i])) / (12 * h)
		}
	}
	E = geometry.Sym{
		grad[0][0],
		0.5 * (grad[0][1] + grad[1][0]),
		0.5 * (grad[0][2] + grad[2][0]),
		grad[1][1],
		0.5 * (grad[1][2] + grad[2][1]),
		grad[2][2],
	}
	return
}

// angSetupFSC evaluates the free-surface correction of the angular
// dislocation pair along the side PA -> PB.
func angSetupFSC(X, b, PA, PB geometry.Vec3, nu float64) (u geometry.Vec3) {
	var (
		side = PB.Sub(PA)
		eZ   = geometry.Vec3{0, 0, 1}
		beta = math.Acos(clamp1(-side.Normalize().Dot(eZ)))
	)
	if math.Abs(beta) < 1e-14 || math.Abs(math.Pi-beta) < 1e-14 {
		// Vertical side: the pair cancels
		return
	}
	var (
		ey1 = geometry.Vec3{side[0], side[1], 0}.Normalize()
		ey3 = eZ.Scale(-1)
		ey2 = ey3.Cross(ey1)
		// Rows map global components into the ADCS of the pair
		A = geometry.MatFromRows(ey1, ey2, ey3)

		yA  = A.MulVec(X.Sub(PA))
		yAB = A.MulVec(side)
		yB  = yA.Sub(yAB)
		bA  = A.MulVec(b)
	)
	// Artefact-free configuration selection near the free surface
	var vA, vB geometry.Vec3
	if beta*yA[0] >= 0 {
		vA = angDisDispFSC(yA[0], yA[1], yA[2], -math.Pi+beta, bA[0], bA[1], bA[2], nu, -PA[2])
		vB = angDisDispFSC(yB[0], yB[1], yB[2], -math.Pi+beta, bA[0], bA[1], bA[2], nu, -PB[2])
	} else {
		vA = angDisDispFSC(yA[0], yA[1], yA[2], beta, bA[0], bA[1], bA[2], nu, -PA[2])
		vB = angDisDispFSC(yB[0], yB[1], yB[2], beta, bA[0], bA[1], bA[2], nu, -PB[2])
	}
	u = A.Transpose().MulVec(vB.Sub(vA))
	return
}

// angDisDispFSC is the harmonic free-surface correction of an angular
// dislocation: Burgers components (b1, b2, b3) in ADCS, apex depth a below
// the free surface.
func angDisDispFSC(y1, y2, y3, beta, b1, b2, b3, nu, a float64) (v geometry.Vec3) {
	var (
		sinB = math.Sin(beta)
		cosB = math.Cos(beta)
		cotB = 1 / math.Tan(beta)
		y3b  = y3 + 2*a
		z1b  = y1*cosB + y3b*sinB
		z3b  = -y1*sinB + y3b*cosB
		r2b  = y1*y1 + y2*y2 + y3b*y3b
		rb   = math.Sqrt(r2b)
		rb3  = rb * r2b

		fib = 2 * math.Atan(-y2/(-(rb+y3b)/math.Tan(beta/2)+y1)) // The Burgers function

		c = 1. / (4 * math.Pi * (1 - nu))
	)

	v1cb1 := b1 * c * (-2*(1-nu)*(1-2*nu)*fib*cotB*cotB +
		(1-2*nu)*y2/(rb+y3b)*((1-2*nu-a/rb)*cotB-y1/(rb+y3b)*(nu+a/rb)) +
		(1-2*nu)*y2*cosB*cotB/(rb+z3b)*(cosB+a/rb) +
		a*y2*(y3b-a)*cotB/rb3 +
		y2*(y3b-a)/(rb*(rb+y3b))*(-(1-2*nu)*cotB+y1/(rb+y3b)*(2*nu+a/rb)+a*y1/r2b) +
		y2*(y3b-a)/(rb*(rb+z3b))*(cosB/(rb+z3b)*((rb*cosB+y3b)*((1-2*nu)*cosB-a/rb)*cotB+
			2*(1-nu)*(rb*sinB-y1)*cosB)-a*y3b*cosB*cotB/r2b))

	v2cb1 := b1 * c * ((1-2*nu)*((2*(1-nu)*cotB*cotB-nu)*math.Log(rb+y3b)-
		(2*(1-nu)*cotB*cotB+1-2*nu)*cosB*math.Log(rb+z3b)) -
		(1-2*nu)/(rb+y3b)*(y1*cotB*(1-2*nu-a/rb)+nu*y3b-a+y2*y2/(rb+y3b)*(nu+a/rb)) -
		(1-2*nu)*z1b*cotB/(rb+z3b)*(cosB+a/rb) -
		a*y1*(y3b-a)*cotB/rb3 +
		(y3b-a)/(rb+y3b)*(-2*nu+1/rb*((1-2*nu)*y1*cotB-a)+
			y2*y2/(rb*(rb+y3b))*(2*nu+a/rb)+a*y2*y2/rb3) +
		(y3b-a)/(rb+z3b)*(cosB*cosB-1/rb*((1-2*nu)*z1b*cotB+a*cosB)+
			a*y3b*z1b*cotB/rb3-1/(rb*(rb+z3b))*(y2*y2*cosB*cosB-
			a*z1b*cotB/rb*(rb*cosB+y3b))))

	v3cb1 := b1 * c * (2*(1-nu)*((1-2*nu)*fib*cotB+y2/(rb+y3b)*(2*nu+a/rb)-
		y2*cosB/(rb+z3b)*(cosB+a/rb)) +
		y2*(y3b-a)/rb*(2*nu/(rb+y3b)+a/r2b) +
		y2*(y3b-a)*cosB/(rb*(rb+z3b))*(1-2*nu-
			(rb*cosB+y3b)/(rb+z3b)*(cosB+a/rb)-a*y3b/r2b))

	v1cb2 := b2 * c * ((1-2*nu)*((2*(1-nu)*cotB*cotB+nu)*math.Log(rb+y3b)-
		(2*(1-nu)*cotB*cotB+1)*cosB*math.Log(rb+z3b)) +
		(1-2*nu)/(rb+y3b)*(-(1-2*nu)*y1*cotB+nu*y3b-a+a*y1*cotB/rb+
			y1*y1/(rb+y3b)*(nu+a/rb)) -
		(1-2*nu)*cotB/(rb+z3b)*(z1b*cosB-a*(rb*sinB-y1)/(rb*cosB)) -
		a*y1*(y3b-a)*cotB/rb3 +
		(y3b-a)/(rb+y3b)*(2*nu+1/rb*((1-2*nu)*y1*cotB+a)-
			y1*y1/(rb*(rb+y3b))*(2*nu+a/rb)-a*y1*y1/rb3) +
		(y3b-a)*cotB/(rb+z3b)*(-cosB*sinB+a*y1*y3b/(rb3*cosB)+
			(rb*sinB-y1)/rb*(2*(1-nu)*cosB-(rb*cosB+y3b)/(rb+z3b)*(1+a/(rb*cosB)))))

	v2cb2 := b2 * c * (2*(1-nu)*(1-2*nu)*fib*cotB*cotB +
		(1-2*nu)*y2/(rb+y3b)*(-(1-2*nu-a/rb)*cotB+y1/(rb+y3b)*(nu+a/rb)) -
		(1-2*nu)*y2*cotB/(rb+z3b)*(1+a/(rb*cosB)) -
		a*y2*(y3b-a)*cotB/rb3 +
		y2*(y3b-a)/(rb*(rb+y3b))*((1-2*nu)*cotB-2*nu*y1/(rb+y3b)-
			a*y1/rb*(1/rb+1/(rb+y3b))) +
		y2*(y3b-a)*cotB/(rb*(rb+z3b))*(-2*(1-nu)*cosB+
			(rb*cosB+y3b)/(rb+z3b)*(1+a/(rb*cosB))+a*y3b/(r2b*cosB)))

	v3cb2 := b2 * c * (-2*(1-nu)*(1-2*nu)*cotB*(math.Log(rb+y3b)-cosB*math.Log(rb+z3b)) -
		2*(1-nu)*y1/(rb+y3b)*(2*nu+a/rb) +
		2*(1-nu)*z1b/(rb+z3b)*(cosB+a/rb) +
		(y3b-a)/rb*((1-2*nu)*cotB-2*nu*y1/(rb+y3b)-a*y1/r2b) -
		(y3b-a)/(rb+z3b)*(cosB*sinB+(rb*cosB+y3b)*cotB/rb*
			(2*(1-nu)*cosB-(rb*cosB+y3b)/(rb+z3b))+
			a/rb*(sinB-y3b*z1b/r2b-z1b*(rb*cosB+y3b)/(rb*(rb+z3b)))))

	v1cb3 := b3 * c * ((1-2*nu)*(y2/(rb+y3b)*(1+a/rb)-y2*cosB/(rb+z3b)*(cosB+a/rb)) -
		y2*(y3b-a)/rb*(a/r2b+1/(rb+y3b)) +
		y2*(y3b-a)*cosB/(rb*(rb+z3b))*((rb*cosB+y3b)/(rb+z3b)*(cosB+a/rb)+a*y3b/r2b))

	v2cb3 := b3 * c * ((1-2*nu)*(-sinB*math.Log(rb+z3b)-y1/(rb+y3b)*(1+a/rb)+
		z1b/(rb+z3b)*(cosB+a/rb)) +
		y1*(y3b-a)/rb*(a/r2b+1/(rb+y3b)) -
		(y3b-a)/(rb+z3b)*(sinB*(cosB-a/rb)+z1b/rb*(1+a*y3b/r2b)-
			1/(rb*(rb+z3b))*(y2*y2*cosB*sinB-a*z1b/rb*(rb*cosB+y3b))))

	v3cb3 := b3 * c * (2*(1-nu)*fib+2*(1-nu)*(y2*sinB/(rb+z3b)*(cosB+a/rb)) +
		y2*(y3b-a)*sinB/(rb*(rb+z3b))*(1+(rb*cosB+y3b)/(rb+z3b)*(cosB+a/rb)+
			a*y3b/r2b))

	v = geometry.Vec3{v1cb1 + v1cb2 + v1cb3, v2cb1 + v2cb2 + v2cb3, v3cb1 + v3cb2 + v3cb3}
	return
}
