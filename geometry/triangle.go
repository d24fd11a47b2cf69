package geometry

import (
	"fmt"
	"math"
)

// Local frame axis indices: x = outward normal, y = strike, z = dip
// (positive up). Okada convention.
const (
	AxisNormal = 0
	AxisStrike = 1
	AxisDip    = 2
)

// Triangle is a flat triangular dislocation element. The derived quantities
// are computed once at construction; vertex mutation requires rebuilding the
// triangle and marking the owning model dirty.
type Triangle struct {
	V      [3]Vec3
	Center Vec3
	Normal Vec3 // unit
	Strike Vec3 // unit, horizontal
	Dip    Vec3 // unit, Dip . z >= 0 for non-horizontal elements
	Area   float64
}

func NewTriangle(p1, p2, p3 Vec3) (t *Triangle, err error) {
	var (
		e1 = p2.Sub(p1)
		e2 = p3.Sub(p1)
		n  = e1.Cross(e2)
		nn = n.Norm()
	)
	if nn == 0 || math.IsNaN(nn) {
		err = fmt.Errorf("degenerate triangle: vertices %v, %v, %v", p1, p2, p3)
		return
	}
	t = &Triangle{
		V:      [3]Vec3{p1, p2, p3},
		Center: p1.Add(p2).Add(p3).Scale(1. / 3.),
		Normal: n.Scale(1. / nn),
		Area:   0.5 * nn,
	}
	t.Strike, t.Dip = localFrame(t.Normal)
	return
}

// localFrame derives the strike and dip unit vectors from the unit normal.
// Strike is horizontal; dip lies in the plane of the normal and the global
// vertical with a non-negative z component.
func localFrame(n Vec3) (strike, dip Vec3) {
	var (
		eZ = Vec3{0, 0, 1}
	)
	strike = eZ.Cross(n)
	if strike.Norm() < 1e-14 {
		// Horizontal element: strike degenerates, pick the y axis signed by
		// the normal so that (n, s, d) stays right-handed.
		strike = Vec3{0, n[2], 0}
	}
	strike = strike.Normalize()
	dip = n.Cross(strike)
	return
}

// Frame returns the rotation whose rows are (normal, strike, dip); it maps
// global components to local components.
func (t *Triangle) Frame() Mat3 {
	return MatFromRows(t.Normal, t.Strike, t.Dip)
}

// ToLocal expresses a global-frame vector in the triangle local frame.
func (t *Triangle) ToLocal(v Vec3) Vec3 {
	return Vec3{v.Dot(t.Normal), v.Dot(t.Strike), v.Dot(t.Dip)}
}

// ToGlobal expresses a local-frame vector in the global frame.
func (t *Triangle) ToGlobal(v Vec3) Vec3 {
	return t.Normal.Scale(v[0]).Add(t.Strike.Scale(v[1])).Add(t.Dip.Scale(v[2]))
}

// MinEdge returns the length of the shortest edge.
func (t *Triangle) MinEdge() (l float64) {
	l = math.Inf(1)
	for i := 0; i < 3; i++ {
		e := t.V[(i+1)%3].Sub(t.V[i]).Norm()
		if e < l {
			l = e
		}
	}
	return
}

// DihedralCos returns the cosine of the angle between the normals of two
// triangles; values near -1 mark the near-folded pairs that defeat the
// iterative solvers.
func DihedralCos(a, b *Triangle) float64 {
	return a.Normal.Dot(b.Normal)
}
