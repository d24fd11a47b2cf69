package solution

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/youwol/arch/geometry"
	"github.com/youwol/arch/model"
)

func imposedSlipModel(t *testing.T, slip geometry.Vec3) (*model.Model, *model.Surface, []float64) {
	vertices, indices := geometry.NewRectMesh(
		geometry.Vec3{0, 0, -1}, geometry.Vec3{2, 0, 0}, geometry.Vec3{0, 1, 0}, 3, 2)
	sf, err := model.NewSurface(vertices, indices)
	require.NoError(t, err)
	// Impose the slip on every axis: the Burgers field is the BC itself
	require.NoError(t, sf.SetBC("normal", "locked", model.BCValue{Value: slip[0]}))
	require.NoError(t, sf.SetBC("strike", "locked", model.BCValue{Value: slip[1]}))
	require.NoError(t, sf.SetBC("dip", "locked", model.BCValue{Value: slip[2]}))
	mdl := model.New(model.Material{Nu: 0.25, E: 1})
	mdl.AddSurface(sf)

	burgers := make([]float64, 3*len(sf.Tris))
	for i := range sf.Tris {
		burgers[3*i], burgers[3*i+1], burgers[3*i+2] = slip[0], slip[1], slip[2]
	}
	return mdl, sf, burgers
}

func TestSeismicMoment(t *testing.T) {
	// Property 6: M0 = mu * area * slip for uniform imposed slip
	var (
		slip = geometry.Vec3{0, 0.8, 0}
	)
	mdl, sf, burgers := imposedSlipModel(t, slip)
	sol, err := New(mdl, burgers, 1, 0)
	require.NoError(t, err)
	want := mdl.Mat.Mu() * sf.Area() * 0.8
	assert.InDelta(t, want, sol.SeismicMoment(), 1e-12*want)
}

func TestBurgersReports(t *testing.T) {
	var (
		slip = geometry.Vec3{0.5, -1, 0.25}
	)
	mdl, sf, burgers := imposedSlipModel(t, slip)
	sol, err := New(mdl, burgers, 1, 0)
	require.NoError(t, err)

	local := sol.Burgers(true, true)
	require.Len(t, local, 1)
	require.Len(t, local[0], 3*len(sf.Tris))
	for i := range sf.Tris {
		assert.Equal(t, slip[0], local[0][3*i])
		assert.Equal(t, slip[1], local[0][3*i+1])
		assert.Equal(t, slip[2], local[0][3*i+2])
	}

	global := sol.Burgers(false, true)
	for i, tri := range sf.Tris {
		want := tri.ToGlobal(slip)
		got := geometry.Vec3{global[0][3*i], global[0][3*i+1], global[0][3*i+2]}
		assert.InDelta(t, 0, got.Sub(want).Norm(), 1e-14)
	}

	// Vertex interpolation of a uniform field is the same uniform field
	atVerts := sol.Burgers(true, false)
	require.Len(t, atVerts[0], len(sf.Vertices))
	for v := 0; v < len(atVerts[0])/3; v++ {
		assert.InDelta(t, slip[0], atVerts[0][3*v], 1e-12)
		assert.InDelta(t, slip[1], atVerts[0][3*v+1], 1e-12)
		assert.InDelta(t, slip[2], atVerts[0][3*v+2], 1e-12)
	}
}

func TestFieldEvaluationAndParallelism(t *testing.T) {
	var (
		slip = geometry.Vec3{1, 0, 0}
	)
	mdl, _, burgers := imposedSlipModel(t, slip)
	sol1, err := New(mdl, burgers, 1, 0)
	require.NoError(t, err)
	sol4, err := New(mdl, burgers, 4, 0)
	require.NoError(t, err)

	points := make([]float64, 0, 3*20)
	for i := 0; i < 20; i++ {
		points = append(points, 3+0.2*float64(i), -1+0.1*float64(i), 1+0.05*float64(i))
	}
	u1, err := sol1.Displ(points)
	require.NoError(t, err)
	u4, err := sol4.Displ(points)
	require.NoError(t, err)
	assert.Equal(t, u1, u4)

	// Far from the source the field decays
	far, err := sol1.Displ([]float64{100, 100, 100})
	require.NoError(t, err)
	near := math.Hypot(u1[0], math.Hypot(u1[1], u1[2]))
	assert.Less(t, math.Abs(far[0]), near)

	// Stress sums remotes on top of the induced field
	mdl.AddRemote(model.UniformRemote{S: geometry.Sym{0, 0, 0, 0, 0, -1}})
	stress, err := sol1.Stress([]float64{50, 50, 50})
	require.NoError(t, err)
	assert.InDelta(t, -1, stress[5], 1e-3)

	_, err = sol1.Displ([]float64{1, 2})
	assert.Error(t, err)
	_, err = sol1.Strain([]float64{1, 2, 3, 4})
	assert.Error(t, err)
}

func TestSolutionLengthMismatch(t *testing.T) {
	mdl, _, burgers := imposedSlipModel(t, geometry.Vec3{1, 0, 0})
	_, err := New(mdl, burgers[:len(burgers)-3], 1, 0)
	assert.Error(t, err)
}
