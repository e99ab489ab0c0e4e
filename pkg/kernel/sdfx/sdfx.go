// Package sdfx implements kernel.Field using the github.com/deadsy/sdfx
// SDF-based CAD library. The scene is compiled once into an sdf.SDF3 tree
// and evaluated point by point.
package sdfx

import (
	"fmt"
	"math"

	"github.com/chazu/shapeup/pkg/kernel"
	"github.com/chazu/shapeup/pkg/scene"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Compile-time interface check.
var _ kernel.Field = (*Field)(nil)

// Field wraps the compiled sdf.SDF3 of a scene. A scene without additive
// primitives has no solid and evaluates to +Inf.
type Field struct {
	s sdf.SDF3
}

// New compiles s into an SDF3 tree.
func New(s *scene.Scene) (*Field, error) {
	var acc sdf.SDF3
	for i, p := range s.Primitives {
		prim, err := primitive(p)
		if err != nil {
			return nil, fmt.Errorf("primitive %d: %w", i, err)
		}
		k := float64(p.EffectiveBlobAmount())
		switch {
		case p.Subtract:
			if acc == nil {
				continue
			}
			acc = sdf.Difference3D(acc, prim)
			if d, ok := acc.(*sdf.DifferenceSDF3); ok {
				d.SetMax(sdf.PolyMax(k))
			}
		case acc == nil:
			acc = prim
		default:
			acc = sdf.Union3D(acc, prim)
			if u, ok := acc.(*sdf.UnionSDF3); ok {
				u.SetMin(sdf.PolyMin(k))
			}
		}
	}
	return &Field{s: acc}, nil
}

// primitive builds the rounded box for p, placed by translate·Rz·Ry·Rx.
func primitive(p scene.Primitive) (sdf.SDF3, error) {
	size := v3.Vec{X: 2 * float64(p.HalfSize.X), Y: 2 * float64(p.HalfSize.Y), Z: 2 * float64(p.HalfSize.Z)}
	box, err := sdf.Box3D(size, float64(p.EffectiveCornerRadius()))
	if err != nil {
		return nil, fmt.Errorf("sdfx.Box3D: %w", err)
	}

	xRad := float64(p.Rotation.X) * math.Pi / 180.0
	yRad := float64(p.Rotation.Y) * math.Pi / 180.0
	zRad := float64(p.Rotation.Z) * math.Pi / 180.0

	m := sdf.Translate3d(v3.Vec{X: float64(p.Position.X), Y: float64(p.Position.Y), Z: float64(p.Position.Z)}).
		Mul(sdf.RotateZ(zRad)).Mul(sdf.RotateY(yRad)).Mul(sdf.RotateX(xRad))
	s := sdf.Transform3D(box, m)

	if p.Mirror.Any() {
		s = newMirror(s, p.Mirror)
	}
	return s, nil
}

// Evaluate implements kernel.Field.
func (f *Field) Evaluate(x, y, z float64) float64 {
	if f.s == nil {
		return math.Inf(1)
	}
	return f.s.Evaluate(v3.Vec{X: x, Y: y, Z: z})
}

// BoundingBox returns the axis-aligned bounding box of the compiled solid.
// ok is false when the scene has no solid.
func (f *Field) BoundingBox() (min, max [3]float64, ok bool) {
	if f.s == nil {
		return min, max, false
	}
	bb := f.s.BoundingBox()
	min = [3]float64{bb.Min.X, bb.Min.Y, bb.Min.Z}
	max = [3]float64{bb.Max.X, bb.Max.Y, bb.Max.Z}
	return min, max, true
}

// mirrorSDF3 evaluates its child at |p| on the mirrored axes.
type mirrorSDF3 struct {
	s  sdf.SDF3
	m  scene.Mirror
	bb sdf.Box3
}

func newMirror(s sdf.SDF3, m scene.Mirror) sdf.SDF3 {
	bb := s.BoundingBox()
	reflect := func(lo, hi *float64) {
		*lo, *hi = math.Min(*lo, -*hi), math.Max(*hi, -*lo)
	}
	if m.X {
		reflect(&bb.Min.X, &bb.Max.X)
	}
	if m.Y {
		reflect(&bb.Min.Y, &bb.Max.Y)
	}
	if m.Z {
		reflect(&bb.Min.Z, &bb.Max.Z)
	}
	return &mirrorSDF3{s: s, m: m, bb: bb}
}

// Evaluate returns the minimum distance to the mirrored solid.
func (s *mirrorSDF3) Evaluate(p v3.Vec) float64 {
	if s.m.X {
		p.X = math.Abs(p.X)
	}
	if s.m.Y {
		p.Y = math.Abs(p.Y)
	}
	if s.m.Z {
		p.Z = math.Abs(p.Z)
	}
	return s.s.Evaluate(p)
}

// BoundingBox covers the solid and its reflections.
func (s *mirrorSDF3) BoundingBox() sdf.Box3 {
	return s.bb
}
