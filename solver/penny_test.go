package solver

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/youwol/arch/geometry"
	"github.com/youwol/arch/solution"
)

// S2: a traction-free penny-shaped crack under a uniform remote axial
// stress. The central opening has the closed form 8(1-nu^2) sigma a / (pi E).
func TestPennyCrackOpening(t *testing.T) {
	var (
		nu    = 0.25
		E     = 1.0
		sigma = -1.0
		a     = 1.0
	)
	mdl, sf := diskModel(t, 200, geometry.Sym{0, 0, 0, 0, 0, sigma})

	opts := NewOptions()
	opts.AutoReleaseMemory = false
	s := New(mdl, opts, nil)
	status, err := s.Run()
	require.NoError(t, err)
	require.Equal(t, StatusConverged, status)

	// Opening of the element whose center is closest to the crack axis
	var (
		b      = s.Burgers()
		center = -1
		rMin   = math.Inf(1)
	)
	for i, tri := range sf.Tris {
		r := math.Hypot(tri.Center[0], tri.Center[1])
		if r < rMin {
			rMin = r
			center = i
		}
	}
	want := 8 * (1 - nu*nu) * sigma * a / (math.Pi * E)
	assert.InEpsilon(t, want, b[3*center], 0.05)

	// Property 7: the Seidel residual decreases geometrically on this
	// well-conditioned linear problem
	hist := s.ResidualHistory()
	require.Greater(t, len(hist), 2)
	for k := 1; k < len(hist); k++ {
		assert.LessOrEqual(t, hist[k], hist[k-1]*1.01)
	}
	assert.Less(t, hist[len(hist)-1], 1e-3*hist[0])

	// Property 3: burgersPlus - burgersMinus reproduces the Burgers field
	sol, err := solution.New(mdl, b, 1, 1e-8)
	require.NoError(t, err)
	var (
		plus  = sol.BurgersPlus()
		minus = sol.BurgersMinus()
		scale = math.Abs(want)
	)
	for i, tri := range sf.Tris {
		jump := geometry.Vec3{
			plus[3*i] - minus[3*i],
			plus[3*i+1] - minus[3*i+1],
			plus[3*i+2] - minus[3*i+2],
		}
		bGlob := tri.ToGlobal(geometry.Vec3{b[3*i], b[3*i+1], b[3*i+2]})
		assert.InDelta(t, 0, jump.Sub(bGlob).Norm(), 1e-4*scale)
	}
}
