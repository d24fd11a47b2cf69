package solver

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/youwol/arch/geometry"
	"github.com/youwol/arch/model"
)

// S4: a square fault dipping 60 degrees under an Andersonian regime with
// Coulomb friction. Residual tractions end on or inside the cone; sliding
// elements slip along (collinear with) the resolved shear traction.
func TestCoulombFriction(t *testing.T) {
	var (
		dip = 60 * math.Pi / 180
		du  = geometry.Vec3{1, 0, 0}
		dv  = geometry.Vec3{0, math.Cos(dip), math.Sin(dip)}
		muF = 0.6
	)
	vertices, indices := geometry.NewRectMesh(geometry.Vec3{0, 0, -2}, du, dv, 4, 4)
	sf, err := model.NewSurface(vertices, indices)
	require.NoError(t, err)
	sf.AddConstraint(model.Coulomb{Mu: muF, Cohesion: 0})

	mdl := model.New(model.Material{Nu: 0.25, E: 1, Rho: 1})
	mdl.AddSurface(sf)
	// SH : Sv : Sh = 0.6 : 1 : 0.1 at 45 degrees
	mdl.AddRemote(model.AndersonianRemote{RH: 0.6, Rh: 0.1, Theta: math.Pi / 4, Rho: 1, G: 1})

	opts := NewOptions()
	opts.Eps = 1e-8
	opts.MaxIter = 500
	opts.AutoReleaseMemory = false
	s := New(mdl, opts, nil)
	_, err = s.Run()
	require.NoError(t, err)

	var (
		b       = s.Burgers()
		tr      = s.Tractions()
		maxSlip = 0.
		slid    = 0
	)
	for i := range sf.Tris {
		maxSlip = math.Max(maxSlip, math.Hypot(b[3*i+1], b[3*i+2]))
	}
	require.Greater(t, maxSlip, 0.)
	for i := range sf.Tris {
		var (
			sn  = tr[3*i]
			tau = math.Hypot(tr[3*i+1], tr[3*i+2])
			cap = math.Max(0, -sn*muF)
		)
		// On or inside the cone
		assert.LessOrEqual(t, tau, cap*(1+1e-4)+1e-8)
		slip := math.Hypot(b[3*i+1], b[3*i+2])
		if slip > 1e-6*maxSlip {
			slid++
			// The positive face moves with the shear traction acting on
			// it: slip is collinear with the resolved shear
			dot := b[3*i+1]*tr[3*i+1] + b[3*i+2]*tr[3*i+2]
			assert.GreaterOrEqual(t, dot, -1e-10)
		}
	}
	assert.Greater(t, slid, 0)
}
