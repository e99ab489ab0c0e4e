package march

import "github.com/chazu/shapeup/pkg/mesh"

// MaxTrianglesPerCell is the largest number of triangles any case emits.
const MaxTrianglesPerCell = 5

// Triangulate appends the triangles of one cube to dst and returns how many
// it emitted. Uniform cubes return immediately. Each crossed edge is
// interpolated once, however many triangles share it.
func Triangulate(c *Cube, dst *mesh.Buffer) (int, error) {
	caseIndex := c.CaseIndex()
	if Uniform(caseIndex) {
		return 0, nil
	}

	var verts [12]mesh.Vertex
	crossed := edgeTable[caseIndex]
	for e := 0; e < 12; e++ {
		if crossed&(1<<e) != 0 {
			a, b := edgeCorners[e][0], edgeCorners[e][1]
			verts[e] = Interpolate(c[a], c[b])
		}
	}

	row := &triTable[caseIndex]
	n := 0
	for i := 0; row[i] != -1; i += 3 {
		if err := dst.AppendTriangle(verts[row[i]], verts[row[i+1]], verts[row[i+2]]); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}
