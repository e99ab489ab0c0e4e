// Package tessellate extracts the zero isosurface of a scene's field as a
// triangle soup. It plans a lattice over the padded scene bounds, sweeps it
// slab by slab with marching cubes and writes the accumulated triangles out.
package tessellate

import (
	"fmt"

	"github.com/chazu/shapeup/pkg/mesh"
	"github.com/chazu/shapeup/pkg/scene"
)

// DefaultMargin is the world-space padding added to every face of the
// scene bounds.
const DefaultMargin = 1.0

// BoundingBox is an axis-aligned box with Min <= Max per component.
type BoundingBox struct {
	Min, Max scene.Vec3
}

// Extent returns Max - Min.
func (b BoundingBox) Extent() scene.Vec3 {
	return b.Max.Sub(b.Min)
}

// Contains reports whether v lies inside b grown by tol on every face.
func (b BoundingBox) Contains(v mesh.Vertex, tol float32) bool {
	return v[0] >= b.Min.X-tol && v[0] <= b.Max.X+tol &&
		v[1] >= b.Min.Y-tol && v[1] <= b.Max.Y+tol &&
		v[2] >= b.Min.Z-tol && v[2] <= b.Max.Z+tol
}

func (b BoundingBox) String() string {
	return fmt.Sprintf("%v..%v", b.Min, b.Max)
}

// ComputeBounds encloses every primitive of s in a box, using each
// primitive's half-size diagonal as a radius around its position, and pads
// the result by margin. Rotation, rounding and blending are ignored, so the
// box is conservative rather than tight.
func ComputeBounds(s *scene.Scene, margin float32) (BoundingBox, error) {
	if s == nil || s.IsEmpty() {
		return BoundingBox{}, fmt.Errorf("%w: %w", ErrScenePrecondition, scene.ErrEmptyScene)
	}

	var b BoundingBox
	for i, p := range s.Primitives {
		r := p.BoundingRadius()
		lo, hi := p.Position.AddScalar(-r), p.Position.AddScalar(r)
		if i == 0 {
			b.Min, b.Max = lo, hi
			continue
		}
		b.Min = scene.Vec3{X: min(b.Min.X, lo.X), Y: min(b.Min.Y, lo.Y), Z: min(b.Min.Z, lo.Z)}
		b.Max = scene.Vec3{X: max(b.Max.X, hi.X), Y: max(b.Max.Y, hi.Y), Z: max(b.Max.Z, hi.Z)}
	}
	b.Min = b.Min.AddScalar(-margin)
	b.Max = b.Max.AddScalar(margin)
	return b, nil
}
