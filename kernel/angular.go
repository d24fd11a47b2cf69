package kernel

import "math"

// Angular dislocation primitives in the angular dislocation coordinate
// system (ADCS), after Nikkhoo & Walter (2015). The x axis is normal to the
// dislocation plane, the dislocation line runs from the origin at the angle
// alpha from the z axis.

// angDisDisp returns the displacement at (x, y, z) of an angular dislocation
// with Burgers components (bx, by, bz) in ADCS.
func angDisDisp(x, y, z, alpha, bx, by, bz, nu float64) (u, v, w float64) {
	var (
		cosA = math.Cos(alpha)
		sinA = math.Sin(alpha)
		eta  = y*cosA - z*sinA
		zeta = y*sinA + z*cosA
		r    = math.Sqrt(x*x + y*y + z*z)
	)
	// Clamp to avoid complex logarithms on the dislocation line
	if zeta > r {
		zeta = r
	}
	if z > r {
		z = r
	}
	var (
		c  = 1. / (8 * math.Pi * (1 - nu))
		rz = r - z
		rq = r - zeta // zeta singular surface
	)
	ux := bx * c * (x*y/r/rz - x*eta/r/rq)
	vx := bx * c * (eta*sinA/rq - y*eta/r/rq + y*y/r/rz + (1-2*nu)*(cosA*math.Log(rq)-math.Log(rz)))
	wx := bx * c * (eta*cosA/rq - y/r - eta*z/r/rq - (1-2*nu)*sinA*math.Log(rq))

	uy := by * c * (x*x*cosA/r/rq - x*x/r/rz - (1-2*nu)*(cosA*math.Log(rq)-math.Log(rz)))
	vy := by * x * c * (y*cosA/r/rq - sinA*cosA/rq - y/r/rz)
	wy := by * x * c * (z*cosA/r/rq - cosA*cosA/rq + 1/r)

	uz := bz * sinA * c * ((1-2*nu)*math.Log(rq) - x*x/r/rq)
	vz := bz * x * sinA * c * (sinA/rq - y/r/rq)
	wz := bz * x * sinA * c * (cosA/rq - z/r/rq)

	u = ux + uy + uz
	v = vx + vy + vz
	w = wx + wy + wz
	return
}

// angDisStrain returns the strain at (x, y, z) of an angular dislocation
// with Burgers components (bx, by, bz) in ADCS.
func angDisStrain(x, y, z, alpha, bx, by, bz, nu float64) (Exx, Eyy, Ezz, Exy, Exz, Eyz float64) {
	var (
		cosA = math.Cos(alpha)
		sinA = math.Sin(alpha)
		eta  = y*cosA - z*sinA
		zeta = y*sinA + z*cosA

		x2 = x * x
		y2 = y * y
		z2 = z * z
		r2 = x2 + y2 + z2
		r  = math.Sqrt(r2)
		r3 = r * r2

		rz   = r * (r - z)
		r2z2 = r2 * (r - z) * (r - z)
		r3z  = r3 * (r - z)

		W    = zeta - r
		W2   = W * W
		Wr   = W * r
		W2r  = W2 * r
		Wr3  = W * r3
		W2r2 = W2 * r2

		C = (r*cosA - z) / Wr
		S = (r*sinA - y) / Wr

		c = 1. / (8 * math.Pi * (1 - nu))
	)

	// Partial derivatives of the Burgers function
	rFiRx := (eta/r/(r-zeta) - y/r/(r-z)) / (4 * math.Pi)
	rFiRy := (x/r/(r-z) - cosA*x/r/(r-zeta)) / (4 * math.Pi)
	rFiRz := (sinA * x / r / (r - zeta)) / (4 * math.Pi)

	Exx = bx*rFiRx +
		bx*c*(eta/Wr+eta*x2/W2r2-eta*x2/Wr3+y/rz-x2*y/r2z2-x2*y/r3z) -
		by*x*c*(((2*nu+1)/Wr+x2/W2r2-x2/Wr3)*cosA+(2*nu+1)/rz-x2/r2z2-x2/r3z) +
		bz*x*sinA*c*((2*nu+1)/Wr+x2/W2r2-x2/Wr3)

	Eyy = by*rFiRy +
		bx*c*((1/Wr+S*S-y2/Wr3)*eta+(2*nu+1)*y/rz-y*y2/r2z2-y*y2/r3z-2*nu*cosA*S) -
		by*x*c*(1/rz-y2/r2z2-y2/r3z+(1/Wr+S*S-y2/Wr3)*cosA) +
		bz*x*sinA*c*(1/Wr+S*S-y2/Wr3)

	Ezz = bz*rFiRz +
		bx*c*(eta/W/r+eta*C*C-eta*z2/Wr3+y*z/r3+2*nu*sinA*C) -
		by*x*c*((1/Wr+C*C-z2/Wr3)*cosA+z/r3) +
		bz*x*sinA*c*(1/Wr+C*C-z2/Wr3)

	Exy = bx*rFiRy/2 + by*rFiRx/2 -
		bx*c*(x*y2/r2z2-nu*x/rz+x*y2/r3z-nu*x*cosA/Wr+eta*x*S/Wr+eta*x*y/Wr3) +
		by*c*(x2*y/r2z2-nu*y/rz+x2*y/r3z+nu*cosA*S+x2*y*cosA/Wr3+x2*cosA*S/Wr) -
		bz*sinA*c*(nu*S+x2*S/Wr+x2*y/Wr3)

	Exz = bx*rFiRz/2 + bz*rFiRx/2 -
		bx*c*(-x*y/r3+nu*x*sinA/Wr+eta*x*C/Wr+eta*x*z/Wr3) +
		by*c*(-x2/r3+nu/r+nu*cosA*C+x2*z*cosA/Wr3+x2*cosA*C/Wr) -
		bz*sinA*c*(nu*C+x2*C/Wr+x2*z/Wr3)

	Eyz = by*rFiRz/2 + bz*rFiRy/2 +
		bx*c*(y2/r3-nu/r-nu*cosA*C+nu*sinA*S+eta*sinA*cosA/W2-
			eta*(y*cosA+z*sinA)/W2r+eta*y*z/W2r2-eta*y*z/Wr3) -
		by*x*c*(y/r3+sinA*cosA*cosA/W2-cosA*(y*cosA+z*sinA)/W2r+
			y*z*cosA/W2r2-y*z*cosA/Wr3) -
		bz*x*sinA*c*(y*z/Wr3-sinA*cosA/W2+(y*cosA+z*sinA)/W2r-y*z/W2r2)

	return
}
