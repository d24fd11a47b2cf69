package kernel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/youwol/arch/geometry"
)

func testTriangle(t *testing.T) *geometry.Triangle {
	tri, err := geometry.NewTriangle(
		geometry.Vec3{0, 0, 0},
		geometry.Vec3{1, 0, 0},
		geometry.Vec3{0.2, 1.1, 0.4},
	)
	require.NoError(t, err)
	return tri
}

func TestDisplacementJumpAcrossElement(t *testing.T) {
	// The displacement discontinuity across the element center equals the
	// Burgers vector
	var (
		tri   = testTriangle(t)
		k     = Kernel{Nu: 0.25}
		b     = geometry.Vec3{0.7, -0.4, 1.3}
		delta = 1e-7
	)
	pPlus := tri.Center.Add(tri.Normal.Scale(delta))
	pMinus := tri.Center.Sub(tri.Normal.Scale(delta))
	uPlus, _ := k.Displacement(pPlus, tri, b)
	uMinus, _ := k.Displacement(pMinus, tri, b)
	jump := uPlus.Sub(uMinus)
	want := tri.ToGlobal(b)
	assert.InDelta(t, 0, jump.Sub(want).Norm(), 1e-5)
}

func TestDisplacementLinearInBurgers(t *testing.T) {
	var (
		tri = testTriangle(t)
		k   = Kernel{Nu: 0.3}
		p   = geometry.Vec3{0.8, 0.6, 0.9}
		b1  = geometry.Vec3{1, 0, 0}
		b2  = geometry.Vec3{0, -2, 0.5}
	)
	u1, _ := k.Displacement(p, tri, b1)
	u2, _ := k.Displacement(p, tri, b2)
	u12, _ := k.Displacement(p, tri, b1.Add(b2))
	assert.InDelta(t, 0, u12.Sub(u1.Add(u2)).Norm(), 1e-13)

	e1, _ := k.Strain(p, tri, b1)
	e3, _ := k.Strain(p, tri, b1.Scale(3))
	for i := range e3 {
		assert.InDelta(t, 3*e1[i], e3[i], 1e-12)
	}
}

func TestFarFieldDecay(t *testing.T) {
	// A dislocation is a dipole source: displacement decays like 1/r^2
	var (
		tri = testTriangle(t)
		k   = Kernel{Nu: 0.25}
		b   = geometry.Vec3{1, 1, 1}
		dir = geometry.Vec3{1, 0.5, 0.7}.Normalize()
	)
	uNear, _ := k.Displacement(tri.Center.Add(dir.Scale(5)), tri, b)
	uFar, _ := k.Displacement(tri.Center.Add(dir.Scale(50)), tri, b)
	ratio := uNear.Norm() / uFar.Norm()
	assert.Greater(t, ratio, 50.)
}

func TestStrainMatchesDisplacementGradient(t *testing.T) {
	// Central differences of the closed-form displacement reproduce the
	// closed-form strain away from the element
	var (
		tri = testTriangle(t)
		k   = Kernel{Nu: 0.25}
		b   = geometry.Vec3{0.5, 1.2, -0.8}
		h   = 1e-5
	)
	points := []geometry.Vec3{
		{0.9, 0.7, 0.8},
		{-0.5, -0.4, 0.6},
		{0.3, 0.2, -1.1},
	}
	for _, p := range points {
		var grad geometry.Mat3
		for j := 0; j < 3; j++ {
			var dx geometry.Vec3
			dx[j] = h
			up, _ := k.Displacement(p.Add(dx), tri, b)
			um, _ := k.Displacement(p.Sub(dx), tri, b)
			for i := 0; i < 3; i++ {
				grad[i][j] = (up[i] - um[i]) / (2 * h)
			}
		}
		fd := geometry.Sym{
			grad[0][0],
			0.5 * (grad[0][1] + grad[1][0]),
			0.5 * (grad[0][2] + grad[2][0]),
			grad[1][1],
			0.5 * (grad[1][2] + grad[2][1]),
			grad[2][2],
		}
		E, _ := k.Strain(p, tri, b)
		for i := range E {
			assert.InDelta(t, fd[i], E[i], 1e-7)
		}
	}
}

func TestTractionContinuityAcrossElement(t *testing.T) {
	// The traction vector on the element plane is continuous across the
	// displacement jump
	var (
		tri   = testTriangle(t)
		k     = Kernel{Nu: 0.25}
		b     = geometry.Vec3{1, 0.3, -0.6}
		delta = 1e-6
		mu    = 1.0
		lam   = 1.0
	)
	ePlus, _ := k.Strain(tri.Center.Add(tri.Normal.Scale(delta)), tri, b)
	eMinus, _ := k.Strain(tri.Center.Sub(tri.Normal.Scale(delta)), tri, b)
	tPlus := Traction(Stress(ePlus, lam, mu), tri.Normal)
	tMinus := Traction(Stress(eMinus, lam, mu), tri.Normal)
	assert.InDelta(t, 0, tPlus.Sub(tMinus).Norm(), 1e-3*tPlus.Norm())
}

func TestTrimodefinder(t *testing.T) {
	var (
		p1 = [2]float64{0, 0}
		p2 = [2]float64{1, 0}
		p3 = [2]float64{0, 1}
	)
	assert.Equal(t, 1, trimodefinder(0.2, 0.2, 0, p1, p2, p3))     // inside
	assert.Equal(t, -1, trimodefinder(1.2, 0.9, 0, p1, p2, p3))    // beyond the hypotenuse
	assert.Equal(t, 0, trimodefinder(0.5, 0, 0, p1, p2, p3))       // on edge, in plane
	assert.Equal(t, 1, trimodefinder(0.5, 0, 0.1, p1, p2, p3))     // above edge
}

func TestHookeStressTraction(t *testing.T) {
	var (
		e   = geometry.Sym{1e-3, 0, 0, 0, 0, 0}
		mu  = 30.0
		lam = 40.0
	)
	s := Stress(e, lam, mu)
	assert.InDelta(t, (lam+2*mu)*1e-3, s[0], 1e-12)
	assert.InDelta(t, lam*1e-3, s[3], 1e-12)
	assert.InDelta(t, lam*1e-3, s[5], 1e-12)
	tr := Traction(s, geometry.Vec3{1, 0, 0})
	assert.InDelta(t, s[0], tr[0], 1e-12)
}
