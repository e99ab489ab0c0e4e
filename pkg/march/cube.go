package march

import "github.com/chazu/shapeup/pkg/mesh"

// IsoValue is the level whose crossings are triangulated. Negative samples
// are inside.
const IsoValue = 0

// Epsilon is the tolerance used when interpolating along an edge.
const Epsilon = 1e-5

// Corner is one cube corner: its position and sampled field value.
type Corner struct {
	Pos   mesh.Vertex
	Value float32
}

// Cube is a grid cell's eight corners in the order described in the
// package documentation.
type Cube [8]Corner

// cornerOffsets gives each corner's offset from the cell origin in steps.
var cornerOffsets = [8][3]float32{
	{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0},
	{0, 0, 1}, {1, 0, 1}, {1, 1, 1}, {0, 1, 1},
}

// edgeCorners gives the two corners joined by each edge.
var edgeCorners = [12][2]int{
	{0, 1}, {1, 2}, {2, 3}, {3, 0},
	{4, 5}, {5, 6}, {6, 7}, {7, 4},
	{0, 4}, {1, 5}, {2, 6}, {3, 7},
}

// NewCube builds the cell whose corner 0 is at origin, with the given step
// per axis and the eight corner samples.
func NewCube(origin, step mesh.Vertex, values [8]float32) Cube {
	var c Cube
	for i, off := range cornerOffsets {
		c[i] = Corner{
			Pos: mesh.Vertex{
				origin[0] + off[0]*step[0],
				origin[1] + off[1]*step[1],
				origin[2] + off[2]*step[2],
			},
			Value: values[i],
		}
	}
	return c
}

// EdgeCorners returns the corner indices joined by edge e.
func EdgeCorners(e int) (a, b int) {
	return edgeCorners[e][0], edgeCorners[e][1]
}

// Classify returns the case index for eight corner samples: bit i is set
// when sample i is below the iso value.
func Classify(values [8]float32) uint8 {
	var idx uint8
	for i, v := range values {
		if v < IsoValue {
			idx |= 1 << i
		}
	}
	return idx
}

// CaseIndex classifies the cube by its corner values.
func (c *Cube) CaseIndex() uint8 {
	var idx uint8
	for i := range c {
		if c[i].Value < IsoValue {
			idx |= 1 << i
		}
	}
	return idx
}

// Uniform reports whether a case index is wholly outside (0) or wholly
// inside (255) the surface. Such cells emit nothing.
func Uniform(caseIndex uint8) bool {
	return caseIndex == 0 || caseIndex == 255
}

// CrossedEdges returns the 12-bit mask of edges whose corners straddle the
// surface for the given case.
func CrossedEdges(caseIndex uint8) uint16 {
	return edgeTable[caseIndex]
}

// TriangleEdges returns the edge indices of the triangles for a case, three
// per triangle, without the terminating sentinel.
func TriangleEdges(caseIndex uint8) []int8 {
	row := triTable[caseIndex][:]
	for i, e := range row {
		if e < 0 {
			return row[:i]
		}
	}
	return row
}
