package march

import (
	"math"

	"github.com/chazu/shapeup/pkg/mesh"
)

// Interpolate returns the point where the field crosses the iso value along
// the edge from a to b, assuming the field is linear along it.
//
// The checks run in a fixed order: a sample within Epsilon of the iso
// value snaps to its own corner (a first), and an edge whose samples are
// within Epsilon of each other returns a instead of dividing by a near-zero
// difference. Differences are taken in float32 and compared against
// Epsilon in float64.
func Interpolate(a, b Corner) mesh.Vertex {
	if nearZero(IsoValue - a.Value) {
		return a.Pos
	}
	if nearZero(IsoValue - b.Value) {
		return b.Pos
	}
	if nearZero(a.Value - b.Value) {
		return a.Pos
	}
	mu := (IsoValue - a.Value) / (b.Value - a.Value)
	return mesh.Vertex{
		a.Pos[0] + mu*(b.Pos[0]-a.Pos[0]),
		a.Pos[1] + mu*(b.Pos[1]-a.Pos[1]),
		a.Pos[2] + mu*(b.Pos[2]-a.Pos[2]),
	}
}

func nearZero(v float32) bool {
	return math.Abs(float64(v)) < Epsilon
}
