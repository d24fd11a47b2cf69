package solver

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/youwol/arch/geometry"
	"github.com/youwol/arch/kernel"
	"github.com/youwol/arch/model"
	"github.com/youwol/arch/solution"
)

// S3 and property 5: for a buried crack in half-space mode, the induced
// stress leaves the plane z = 0 traction-free.
func TestHalfSpaceFreeSurface(t *testing.T) {
	vertices, indices := geometry.NewDiskMesh(geometry.Vec3{0, 0, -2}, 1, 40)
	sf, err := model.NewSurface(vertices, indices)
	require.NoError(t, err)
	require.NoError(t, sf.SetBC("normal", "free", model.BCValue{}))

	mdl := model.New(model.Material{Nu: 0.25, E: 1})
	mdl.HalfSpace = true
	mdl.AddSurface(sf)
	mdl.AddRemote(model.UniformRemote{S: geometry.Sym{0, 0, 0, 0, 0, -1}})

	opts := NewOptions()
	s := New(mdl, opts, nil)
	status, err := s.Run()
	require.NoError(t, err)
	require.Equal(t, StatusConverged, status)

	sol, err := solution.New(mdl, s.Burgers(), 1, 1e-8)
	require.NoError(t, err)
	points := []float64{
		0, 0, 0,
		1.5, 0.5, 0,
		-2, 3, 0,
		4, -4, 0,
	}
	strains, err := sol.Strain(points)
	require.NoError(t, err)
	var (
		lambda = mdl.Mat.Lambda()
		mu     = mdl.Mat.Mu()
		eZ     = geometry.Vec3{0, 0, 1}
		ref    = 0.
		tz     = make([]geometry.Vec3, len(points)/3)
	)
	for i := range tz {
		var E geometry.Sym
		copy(E[:], strains[6*i:6*i+6])
		S := kernel.Stress(E, lambda, mu)
		tz[i] = kernel.Traction(S, eZ)
		for _, v := range S {
			ref = math.Max(ref, math.Abs(v))
		}
	}
	require.Greater(t, ref, 0.)
	for _, v := range tz {
		assert.InDelta(t, 0, v[0]/ref, 1e-4)
		assert.InDelta(t, 0, v[1]/ref, 1e-4)
		assert.InDelta(t, 0, v[2]/ref, 1e-4)
	}
}

func TestHalfSpaceRejectsSurfaceAboveZero(t *testing.T) {
	vertices, indices := geometry.NewDiskMesh(geometry.Vec3{0, 0, 1}, 1, 20)
	sf, err := model.NewSurface(vertices, indices)
	require.NoError(t, err)
	mdl := model.New(model.Material{Nu: 0.25, E: 1})
	mdl.HalfSpace = true
	mdl.AddSurface(sf)
	_, err = New(mdl, NewOptions(), nil).Run()
	assert.Error(t, err)
}
