package InputParameters

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	data := []byte(`
Title: "Penny crack"
Nu: 0.25
Young: 1.
HalfSpace: true
Remote: [0, 0, 0, 0, 0, -1]
BCs:
  normal: {free: 0}
  strike: {free: 0}
  dip: {locked: 0.5}
Solver: seidel
Eps: 1.e-9
MaxIterations: 200
Cores: 4
AutoReleaseMemory: false
`)
	ip := &InputParameters{}
	require.NoError(t, ip.Parse(data))
	assert.Equal(t, "Penny crack", ip.Title)
	assert.Equal(t, 0.25, ip.Nu)
	assert.True(t, ip.HalfSpace)
	assert.Equal(t, [6]float64{0, 0, 0, 0, 0, -1}, ip.Remote)
	assert.Equal(t, "seidel", ip.Solver)
	assert.Equal(t, 1e-9, ip.Eps)
	assert.Equal(t, 200, ip.MaxIterations)
	assert.Equal(t, 4, ip.Cores)
	require.NotNil(t, ip.AutoReleaseMemory)
	assert.False(t, *ip.AutoReleaseMemory)
	assert.Equal(t, 0.5, ip.BCs["dip"]["locked"])
}

func TestParseBad(t *testing.T) {
	ip := &InputParameters{}
	assert.Error(t, ip.Parse([]byte("Nu: [not a number")))
}
