package geometry

import (
	"math"

	"github.com/pradeep-pyro/triangle"
)

// NewDiskMesh triangulates a disk of the given radius centered at center in
// the plane z = center[2], with approximately nTarget elements. Points are
// laid out on concentric rings and triangulated with Delaunay. Returns flat
// vertex and index arrays in the surface-construction layout.
func NewDiskMesh(center Vec3, radius float64, nTarget int) (vertices []float64, indices []int) {
	var (
		pts [][2]float64
	)
	// nTarget triangles needs roughly nTarget/2 points
	nRings := int(math.Sqrt(float64(nTarget)/(2*math.Pi))) + 1
	if nRings < 2 {
		nRings = 2
	}
	pts = append(pts, [2]float64{0, 0})
	for ring := 1; ring <= nRings; ring++ {
		r := radius * float64(ring) / float64(nRings)
		nOnRing := 6 * ring
		for k := 0; k < nOnRing; k++ {
			theta := 2 * math.Pi * float64(k) / float64(nOnRing)
			pts = append(pts, [2]float64{r * math.Cos(theta), r * math.Sin(theta)})
		}
	}
	tris := triangle.Delaunay(pts)
	vertices = make([]float64, 0, 3*len(pts))
	for _, p := range pts {
		vertices = append(vertices, center[0]+p[0], center[1]+p[1], center[2])
	}
	indices = make([]int, 0, 3*len(tris))
	for _, tri := range tris {
		indices = append(indices, int(tri[0]), int(tri[1]), int(tri[2]))
	}
	return
}

// NewRectMesh builds a structured triangulation of the planar rectangle
// spanned by origin and the two edge vectors du, dv, split into nu x nv
// quads of two triangles each.
func NewRectMesh(origin, du, dv Vec3, nu, nv int) (vertices []float64, indices []int) {
	if nu < 1 || nv < 1 {
		panic("NewRectMesh needs at least one subdivision per direction")
	}
	vertID := func(i, j int) int { return i*(nv+1) + j }
	for i := 0; i <= nu; i++ {
		for j := 0; j <= nv; j++ {
			p := origin.
				Add(du.Scale(float64(i) / float64(nu))).
				Add(dv.Scale(float64(j) / float64(nv)))
			vertices = append(vertices, p[0], p[1], p[2])
		}
	}
	for i := 0; i < nu; i++ {
		for j := 0; j < nv; j++ {
			a, b := vertID(i, j), vertID(i+1, j)
			c, d := vertID(i+1, j+1), vertID(i, j+1)
			indices = append(indices, a, b, c, a, c, d)
		}
	}
	return
}
