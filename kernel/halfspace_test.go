package kernel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/youwol/arch/geometry"
)

func buriedTriangle(t *testing.T) *geometry.Triangle {
	tri, err := geometry.NewTriangle(
		geometry.Vec3{0, 0, -2},
		geometry.Vec3{1, 0, -2.3},
		geometry.Vec3{0.2, 1.1, -1.8},
	)
	require.NoError(t, err)
	return tri
}

func TestFreeSurfaceTractionVanishes(t *testing.T) {
	// Image plus harmonic correction cancels the traction on z = 0 for any
	// slip vector
	var (
		tri = buriedTriangle(t)
		k   = Kernel{Nu: 0.25, HalfSpace: true}
		eZ  = geometry.Vec3{0, 0, 1}
		mu  = 1.0
		lam = 1.0
	)
	slips := []geometry.Vec3{
		{1, 0, 0},
		{0, 1, 0},
		{0, 0, 1},
		{0.7, -1.1, 0.4},
	}
	points := []geometry.Vec3{
		{0, 0, 0},
		{2, 1, 0},
		{-1.5, 3, 0},
		{5, -4, 0},
	}
	for _, b := range slips {
		// Field scale at depth for the relative tolerance
		eRef, _ := k.Strain(geometry.Vec3{0.5, 0.5, -1}, tri, b)
		ref := Traction(Stress(eRef, lam, mu), eZ).Norm()
		require.Greater(t, ref, 0.)
		for _, p := range points {
			E, _ := k.Strain(p, tri, b)
			tz := Traction(Stress(E, lam, mu), eZ)
			assert.InDelta(t, 0, tz[0]/ref, 1e-4)
			assert.InDelta(t, 0, tz[1]/ref, 1e-4)
			assert.InDelta(t, 0, tz[2]/ref, 1e-4)
		}
	}
}

func TestHalfSpaceReducesToFullSpaceAtDepth(t *testing.T) {
	// Far below the free surface relative to the source-surface distance,
	// the image contribution is a small correction
	var (
		tri = buriedTriangle(t)
		b   = geometry.Vec3{1, 0.5, -0.2}
		hs  = Kernel{Nu: 0.25, HalfSpace: true}
		fs  = Kernel{Nu: 0.25}
		p   = geometry.Vec3{0.4, 0.3, -2.5}
	)
	uHS, _ := hs.Displacement(p, tri, b)
	uFS, _ := fs.Displacement(p, tri, b)
	diff := uHS.Sub(uFS).Norm()
	assert.Less(t, diff, 0.5*uFS.Norm())
	assert.Greater(t, diff, 0.) // image does contribute
}

func TestHalfSpaceRejectsPositiveZ(t *testing.T) {
	var (
		tri = buriedTriangle(t)
		k   = Kernel{Nu: 0.25, HalfSpace: true}
	)
	assert.Panics(t, func() {
		k.Displacement(geometry.Vec3{0, 0, 1}, tri, geometry.Vec3{1, 0, 0})
	})
}

func TestHalfSpaceDisplacementJump(t *testing.T) {
	// The discontinuity across the element is unchanged by the free surface
	var (
		tri   = buriedTriangle(t)
		k     = Kernel{Nu: 0.25, HalfSpace: true}
		b     = geometry.Vec3{0.4, 1.2, -0.9}
		delta = 1e-7
	)
	uPlus, _ := k.Displacement(tri.Center.Add(tri.Normal.Scale(delta)), tri, b)
	uMinus, _ := k.Displacement(tri.Center.Sub(tri.Normal.Scale(delta)), tri, b)
	jump := uPlus.Sub(uMinus)
	want := tri.ToGlobal(b)
	assert.InDelta(t, 0, jump.Sub(want).Norm(), 1e-5)
}
