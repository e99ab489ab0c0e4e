// Package analytic evaluates a scene's signed distance field in closed form.
//
// Each primitive is a rounded box placed by translate·Rz·Ry·Rx. Primitives
// are folded in scene order with a polynomial smooth union (additive) or
// smooth subtraction, using the primitive's blob amount as blend width.
package analytic

import (
	"math"

	"github.com/chazu/shapeup/pkg/kernel"
	"github.com/chazu/shapeup/pkg/scene"
)

// Compile-time interface check.
var _ kernel.Field = (*Field)(nil)

type mat3 [3][3]float64

func (m *mat3) mul(x, y, z float64) (float64, float64, float64) {
	return m[0][0]*x + m[0][1]*y + m[0][2]*z,
		m[1][0]*x + m[1][1]*y + m[1][2]*z,
		m[2][0]*x + m[2][1]*y + m[2][2]*z
}

// box is a primitive prepared for evaluation.
type box struct {
	pos      [3]float64
	inv      mat3 // world -> local rotation
	inner    [3]float64
	radius   float64
	blend    float64
	mirror   scene.Mirror
	subtract bool
}

// Field is an immutable snapshot of a scene's field. It is safe for
// concurrent use.
type Field struct {
	boxes []box
}

// New prepares the field for s. Later edits to s are not observed.
func New(s *scene.Scene) *Field {
	f := &Field{boxes: make([]box, 0, s.Len())}
	for _, p := range s.Primitives {
		f.boxes = append(f.boxes, prepare(p))
	}
	return f
}

func prepare(p scene.Primitive) box {
	r := float64(p.EffectiveCornerRadius())
	return box{
		pos:      [3]float64{float64(p.Position.X), float64(p.Position.Y), float64(p.Position.Z)},
		inv:      inverseRotation(p.Rotation),
		inner:    [3]float64{float64(p.HalfSize.X) - r, float64(p.HalfSize.Y) - r, float64(p.HalfSize.Z) - r},
		radius:   r,
		blend:    float64(p.EffectiveBlobAmount()),
		mirror:   p.Mirror,
		subtract: p.Subtract,
	}
}

// inverseRotation returns (Rz·Ry·Rx)ᵀ for Euler angles in degrees.
func inverseRotation(deg scene.Vec3) mat3 {
	sx, cx := math.Sincos(float64(deg.X) * math.Pi / 180)
	sy, cy := math.Sincos(float64(deg.Y) * math.Pi / 180)
	sz, cz := math.Sincos(float64(deg.Z) * math.Pi / 180)

	// Forward rotation R = Rz·Ry·Rx.
	r := mat3{
		{cz * cy, cz*sy*sx - sz*cx, cz*sy*cx + sz*sx},
		{sz * cy, sz*sy*sx + cz*cx, sz*sy*cx - cz*sx},
		{-sy, cy * sx, cy * cx},
	}
	var t mat3
	for i := range 3 {
		for j := range 3 {
			t[i][j] = r[j][i]
		}
	}
	return t
}

func (b *box) distance(x, y, z float64) float64 {
	if b.mirror.X {
		x = math.Abs(x)
	}
	if b.mirror.Y {
		y = math.Abs(y)
	}
	if b.mirror.Z {
		z = math.Abs(z)
	}
	lx, ly, lz := b.inv.mul(x-b.pos[0], y-b.pos[1], z-b.pos[2])
	return roundBox(lx, ly, lz, b.inner, b.radius)
}

// roundBox is the distance to a box of half-extent inner+r with edges
// rounded by r.
func roundBox(x, y, z float64, inner [3]float64, r float64) float64 {
	qx := math.Abs(x) - inner[0]
	qy := math.Abs(y) - inner[1]
	qz := math.Abs(z) - inner[2]
	ox, oy, oz := math.Max(qx, 0), math.Max(qy, 0), math.Max(qz, 0)
	outside := math.Sqrt(ox*ox + oy*oy + oz*oz)
	inside := math.Min(math.Max(qx, math.Max(qy, qz)), 0)
	return outside + inside - r
}

// Evaluate implements kernel.Field. An empty scene, or one with only
// subtractive primitives, evaluates to +Inf everywhere.
func (f *Field) Evaluate(x, y, z float64) float64 {
	d := math.Inf(1)
	for i := range f.boxes {
		b := &f.boxes[i]
		di := b.distance(x, y, z)
		switch {
		case b.subtract:
			if !math.IsInf(d, 1) {
				d = SmoothSubtract(d, di, b.blend)
			}
		case math.IsInf(d, 1):
			d = di
		default:
			d = SmoothUnion(d, di, b.blend)
		}
	}
	return d
}

// SmoothUnion is the polynomial smooth minimum of a and b with blend width k.
func SmoothUnion(a, b, k float64) float64 {
	h := clamp(0.5+0.5*(b-a)/k, 0, 1)
	return mix(b, a, h) - k*h*(1-h)
}

// SmoothSubtract removes b from a: the polynomial smooth maximum of a and -b.
func SmoothSubtract(a, b, k float64) float64 {
	b = -b
	h := clamp(0.5-0.5*(b-a)/k, 0, 1)
	return mix(b, a, h) + k*h*(1-h)
}

func clamp(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, x))
}

func mix(x, y, a float64) float64 {
	return x*(1-a) + y*a
}
