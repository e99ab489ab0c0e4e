package mesh

import "math"

// Indexed is a flat indexed triangle mesh with per-vertex normals, the form
// GPU-oriented formats expect. All arrays are flat: Vertices and Normals
// hold 3 floats per vertex, Indices 3 per triangle.
type Indexed struct {
	Vertices []float32
	Normals  []float32
	Indices  []uint32
}

// VertexCount returns the number of vertices.
func (m *Indexed) VertexCount() int {
	return len(m.Vertices) / 3
}

// TriangleCount returns the number of triangles.
func (m *Indexed) TriangleCount() int {
	return len(m.Indices) / 3
}

// IsEmpty returns true if the mesh has no geometry.
func (m *Indexed) IsEmpty() bool {
	return len(m.Vertices) == 0
}

// degenerateNormal stands in for the normal of a zero-area triangle. glTF
// requires NORMAL values of unit length.
var degenerateNormal = Vertex{0, 0, 1}

// Indexed converts the soup into an indexed mesh. Vertices are not shared
// between triangles, so every vertex carries its face's normal. Zero-area
// triangles, which snapping to grid corners produces, get degenerateNormal.
func (b *Buffer) Indexed() *Indexed {
	numTri := b.TriangleCount()
	numVerts := numTri * 3

	m := &Indexed{
		Vertices: make([]float32, 0, numVerts*3),
		Normals:  make([]float32, 0, numVerts*3),
		Indices:  make([]uint32, 0, numVerts),
	}
	for i := 0; i < numTri; i++ {
		tri := b.Triangle(i)
		n := FaceNormal(tri)
		if n == (Vertex{}) {
			n = degenerateNormal
		}
		for j := 0; j < 3; j++ {
			v := tri[j]
			m.Vertices = append(m.Vertices, v[0], v[1], v[2])
			m.Normals = append(m.Normals, n[0], n[1], n[2])
			m.Indices = append(m.Indices, uint32(i*3+j))
		}
	}
	return m
}

// FaceNormal returns the unit normal of tri following its winding, or the
// zero vector for a degenerate triangle.
func FaceNormal(tri [3]Vertex) Vertex {
	e1 := Vertex{tri[1][0] - tri[0][0], tri[1][1] - tri[0][1], tri[1][2] - tri[0][2]}
	e2 := Vertex{tri[2][0] - tri[0][0], tri[2][1] - tri[0][1], tri[2][2] - tri[0][2]}
	n := Vertex{
		e1[1]*e2[2] - e1[2]*e2[1],
		e1[2]*e2[0] - e1[0]*e2[2],
		e1[0]*e2[1] - e1[1]*e2[0],
	}
	l := float32(math.Sqrt(float64(n[0]*n[0] + n[1]*n[1] + n[2]*n[2])))
	if l == 0 {
		return Vertex{}
	}
	return Vertex{n[0] / l, n[1] / l, n[2] / l}
}
