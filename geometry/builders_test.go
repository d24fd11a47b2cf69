package geometry

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func meshArea(t *testing.T, vertices []float64, indices []int) (area float64, count int) {
	for k := 0; k+2 < len(indices); k += 3 {
		var p [3]Vec3
		for j := 0; j < 3; j++ {
			i := indices[k+j]
			p[j] = Vec3{vertices[3*i], vertices[3*i+1], vertices[3*i+2]}
		}
		tri, err := NewTriangle(p[0], p[1], p[2])
		require.NoError(t, err)
		area += tri.Area
		count++
	}
	return
}

func TestDiskMesh(t *testing.T) {
	center := Vec3{1, -2, -3}
	vertices, indices := NewDiskMesh(center, 2, 200)
	area, count := meshArea(t, vertices, indices)
	assert.GreaterOrEqual(t, count, 200)
	assert.InEpsilon(t, math.Pi*4, area, 0.01)
	// All vertices in the plane of the disk
	for i := 2; i < len(vertices); i += 3 {
		assert.InDelta(t, center[2], vertices[i], 1e-12)
	}
}

func TestRectMesh(t *testing.T) {
	vertices, indices := NewRectMesh(Vec3{0, 0, -2}, Vec3{2, 0, 0}, Vec3{0, 1, 1}, 4, 3)
	area, count := meshArea(t, vertices, indices)
	assert.Equal(t, 24, count)
	assert.InDelta(t, 2*math.Sqrt2, area, 1e-12)
}
