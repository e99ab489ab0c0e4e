package tessellate

import (
	"fmt"
	"math"

	"github.com/chazu/shapeup/pkg/kernel"
	"github.com/chazu/shapeup/pkg/mesh"
)

// DefaultResolution is the target cell edge length in world units.
const DefaultResolution = 0.03

// maxLatticePoints bounds one sampled plane.
const maxLatticePoints = math.MaxInt32

// Grid is the sampling lattice laid over a bounding box. Counts are the
// number of lattice points per axis (at least 2); there are Counts-1 cells
// per axis.
type Grid struct {
	Origin mesh.Vertex
	Counts [3]int
	Steps  [3]float32
}

// PlanGrid lays a lattice with cells of roughly resolution world units over
// b. The point count per axis is extent/resolution rounded to the nearest
// integer, plus one.
func PlanGrid(b BoundingBox, resolution float32) (Grid, error) {
	if !(resolution > 0) {
		return Grid{}, fmt.Errorf("resolution must be positive, got %g", resolution)
	}
	e := b.Extent()
	extent := [3]float32{e.X, e.Y, e.Z}

	g := Grid{Origin: mesh.Vertex{b.Min.X, b.Min.Y, b.Min.Z}}
	for axis, ext := range extent {
		if !(ext >= 0) {
			return Grid{}, fmt.Errorf("bounding box %v is inverted on axis %d", b, axis)
		}
		// Converting an out-of-range float to int is implementation
		// defined, so the point count is checked before the conversion.
		q := float64(ext) / float64(resolution)
		if !(q < maxLatticePoints) {
			return Grid{}, fmt.Errorf("%w: %g points on axis %d", ErrAllocation, q, axis)
		}
		n := max(int(q+1.5), 2)
		g.Counts[axis] = n
		g.Steps[axis] = ext / float32(n-1)
	}
	if g.Counts[0] > maxLatticePoints/g.Counts[1] {
		return Grid{}, fmt.Errorf("%w: lattice of %dx%d points per plane", ErrAllocation, g.Counts[0], g.Counts[1])
	}
	return g, nil
}

// Cells returns the number of cells per axis.
func (g Grid) Cells() [3]int {
	return [3]int{g.Counts[0] - 1, g.Counts[1] - 1, g.Counts[2] - 1}
}

// Slabs returns the number of slabs in the sweep.
func (g Grid) Slabs() int {
	return g.Counts[2] - 1
}

// Lattice returns the per-plane lattice handed to the sampler.
func (g Grid) Lattice() kernel.Lattice {
	return kernel.Lattice{
		Origin: [2]float32{g.Origin[0], g.Origin[1]},
		Step:   [2]float32{g.Steps[0], g.Steps[1]},
		NX:     g.Counts[0],
		NY:     g.Counts[1],
	}
}

// Depth returns the world z of plane k.
func (g Grid) Depth(k int) float32 {
	return g.Origin[2] + float32(k)*g.Steps[2]
}

// cellOrigin returns the position of corner 0 of cell (x, y) in slab k.
func (g Grid) cellOrigin(x, y, k int) mesh.Vertex {
	return mesh.Vertex{
		g.Origin[0] + float32(x)*g.Steps[0],
		g.Origin[1] + float32(y)*g.Steps[1],
		g.Depth(k),
	}
}

func (g Grid) String() string {
	return fmt.Sprintf("%dx%dx%d", g.Counts[0], g.Counts[1], g.Counts[2])
}
