package readfiles

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadTriMesh(t *testing.T) {
	input := `# penny patch
3 1

0.0 0.0 0.0
1.0 0.0 0.0
1.0 1.0 0.0
0 1 2
`
	vertices, indices, err := readTriMesh(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0, 0, 1, 0, 0, 1, 1, 0}, vertices)
	assert.Equal(t, []int{0, 1, 2}, indices)
}

func TestReadTriMeshErrors(t *testing.T) {
	_, _, err := readTriMesh(strings.NewReader(""))
	assert.Error(t, err)

	_, _, err = readTriMesh(strings.NewReader("2 1\n0 0 0\n"))
	assert.Error(t, err) // missing vertex

	_, _, err = readTriMesh(strings.NewReader("1 1\n0 0 zero\n0 1 2\n"))
	assert.Error(t, err) // bad float

	_, _, err = readTriMesh(strings.NewReader("1 0\n0 0 0\n"))
	assert.NoError(t, err)
}
