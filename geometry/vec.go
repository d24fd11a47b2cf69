package geometry

import "math"

// Vec3 is a 3-component vector in the global frame unless noted otherwise.
type Vec3 [3]float64

func (a Vec3) Add(b Vec3) Vec3      { return Vec3{a[0] + b[0], a[1] + b[1], a[2] + b[2]} }
func (a Vec3) Sub(b Vec3) Vec3      { return Vec3{a[0] - b[0], a[1] - b[1], a[2] - b[2]} }
func (a Vec3) Scale(s float64) Vec3 { return Vec3{a[0] * s, a[1] * s, a[2] * s} }

func (a Vec3) Dot(b Vec3) float64 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

func (a Vec3) Cross(b Vec3) Vec3 {
	return Vec3{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

func (a Vec3) Norm() float64 {
	return math.Sqrt(a.Dot(a))
}

func (a Vec3) Normalize() (u Vec3) {
	var (
		n = a.Norm()
	)
	if n == 0 {
		panic("cannot normalize zero vector")
	}
	u = a.Scale(1. / n)
	return
}

// Mat3 is a 3x3 matrix stored row-major.
type Mat3 [3][3]float64

func Identity3() Mat3 {
	return Mat3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
}

// MatFromRows builds the matrix whose rows are r0, r1, r2.
func MatFromRows(r0, r1, r2 Vec3) (M Mat3) {
	M = Mat3{r0, r1, r2}
	return
}

// MatFromCols builds the matrix whose columns are c0, c1, c2.
func MatFromCols(c0, c1, c2 Vec3) (M Mat3) {
	for i := 0; i < 3; i++ {
		M[i][0], M[i][1], M[i][2] = c0[i], c1[i], c2[i]
	}
	return
}

func (M Mat3) MulVec(v Vec3) (r Vec3) {
	for i := 0; i < 3; i++ {
		r[i] = M[i][0]*v[0] + M[i][1]*v[1] + M[i][2]*v[2]
	}
	return
}

func (M Mat3) Mul(B Mat3) (R Mat3) {
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			R[i][j] = M[i][0]*B[0][j] + M[i][1]*B[1][j] + M[i][2]*B[2][j]
		}
	}
	return
}

func (M Mat3) Transpose() (R Mat3) {
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			R[i][j] = M[j][i]
		}
	}
	return
}

func (M Mat3) Det() float64 {
	return M[0][0]*(M[1][1]*M[2][2]-M[1][2]*M[2][1]) -
		M[0][1]*(M[1][0]*M[2][2]-M[1][2]*M[2][0]) +
		M[0][2]*(M[1][0]*M[2][1]-M[1][1]*M[2][0])
}

// Inverse returns the inverse by adjugate. ok is false when the matrix is
// singular to working precision.
func (M Mat3) Inverse() (R Mat3, ok bool) {
	var (
		det = M.Det()
	)
	if math.Abs(det) < 1e-300 {
		return R, false
	}
	inv := 1. / det
	R[0][0] = (M[1][1]*M[2][2] - M[1][2]*M[2][1]) * inv
	R[0][1] = (M[0][2]*M[2][1] - M[0][1]*M[2][2]) * inv
	R[0][2] = (M[0][1]*M[1][2] - M[0][2]*M[1][1]) * inv
	R[1][0] = (M[1][2]*M[2][0] - M[1][0]*M[2][2]) * inv
	R[1][1] = (M[0][0]*M[2][2] - M[0][2]*M[2][0]) * inv
	R[1][2] = (M[0][2]*M[1][0] - M[0][0]*M[1][2]) * inv
	R[2][0] = (M[1][0]*M[2][1] - M[1][1]*M[2][0]) * inv
	R[2][1] = (M[0][1]*M[2][0] - M[0][0]*M[2][1]) * inv
	R[2][2] = (M[0][0]*M[1][1] - M[0][1]*M[1][0]) * inv
	return R, true
}

// Sym is a symmetric rank-2 tensor in the serialization order
// [xx, xy, xz, yy, yz, zz].
type Sym [6]float64

func (s Sym) At(i, j int) float64 {
	switch {
	case i == 0 && j == 0:
		return s[0]
	case i == 1 && j == 1:
		return s[3]
	case i == 2 && j == 2:
		return s[5]
	case (i == 0 && j == 1) || (i == 1 && j == 0):
		return s[1]
	case (i == 0 && j == 2) || (i == 2 && j == 0):
		return s[2]
	default:
		return s[4]
	}
}

func (s Sym) Add(o Sym) (r Sym) {
	for i := range s {
		r[i] = s[i] + o[i]
	}
	return
}

func (s Sym) Scale(a float64) (r Sym) {
	for i := range s {
		r[i] = s[i] * a
	}
	return
}

func (s Sym) Trace() float64 {
	return s[0] + s[3] + s[5]
}

// MulVec applies the tensor to a vector: sigma . n.
func (s Sym) MulVec(n Vec3) (t Vec3) {
	t[0] = s[0]*n[0] + s[1]*n[1] + s[2]*n[2]
	t[1] = s[1]*n[0] + s[3]*n[1] + s[4]*n[2]
	t[2] = s[2]*n[0] + s[4]*n[1] + s[5]*n[2]
	return
}

// Rotate transforms the tensor components by the rotation R: R . s . R^T.
func (s Sym) Rotate(R Mat3) (r Sym) {
	var full Mat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			full[i][j] = s.At(i, j)
		}
	}
	rot := R.Mul(full).Mul(R.Transpose())
	r = Sym{rot[0][0], rot[0][1], rot[0][2], rot[1][1], rot[1][2], rot[2][2]}
	return
}
