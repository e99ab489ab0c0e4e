package scene

import (
	"fmt"
	"math"
)

// Vec3 is a 3-component single-precision vector. Scene data is stored in
// float32 to match the on-disk record layout.
type Vec3 struct {
	X, Y, Z float32
}

// Add returns the component-wise sum of v and o.
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{X: v.X + o.X, Y: v.Y + o.Y, Z: v.Z + o.Z}
}

// Sub returns the component-wise difference v - o.
func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{X: v.X - o.X, Y: v.Y - o.Y, Z: v.Z - o.Z}
}

// AddScalar adds s to every component.
func (v Vec3) AddScalar(s float32) Vec3 {
	return Vec3{X: v.X + s, Y: v.Y + s, Z: v.Z + s}
}

// Scale multiplies every component by s.
func (v Vec3) Scale(s float32) Vec3 {
	return Vec3{X: v.X * s, Y: v.Y * s, Z: v.Z * s}
}

// Length returns the Euclidean length of v.
func (v Vec3) Length() float32 {
	return float32(math.Sqrt(float64(v.X)*float64(v.X) + float64(v.Y)*float64(v.Y) + float64(v.Z)*float64(v.Z)))
}

// MinComponent returns the smallest of X, Y and Z.
func (v Vec3) MinComponent() float32 {
	return min(v.X, v.Y, v.Z)
}

func (v Vec3) String() string {
	return fmt.Sprintf("(%g, %g, %g)", v.X, v.Y, v.Z)
}

// Color is an 8-bit RGB color.
type Color struct {
	R, G, B uint8
}

// DefaultColor is the color given to the first primitive of a new scene.
var DefaultColor = Color{R: 239, G: 160, B: 92}

// Mirror holds per-axis mirror flags. A mirrored axis evaluates the
// primitive at |p| on that axis, reflecting it through the world plane.
type Mirror struct {
	X, Y, Z bool
}

// Any reports whether at least one axis is mirrored.
func (m Mirror) Any() bool {
	return m.X || m.Y || m.Z
}

const (
	// MinCornerRadius is the smallest rounding applied to any primitive.
	MinCornerRadius = 0.01

	// MinBlobAmount is the floor applied to a primitive's blend width.
	MinBlobAmount = 0.0001
)

// Primitive is a single rounded box in the scene.
type Primitive struct {
	Position     Vec3
	HalfSize     Vec3
	Rotation     Vec3 // Euler angles in degrees
	CornerRadius float32
	BlobAmount   float32
	Color        Color
	Mirror       Mirror
	Subtract     bool
}

// NewPrimitive returns the primitive the editor creates by default: a unit
// half-size box at the origin with the given color. Corner radius and blob
// amount are left at zero; evaluation applies their floors.
func NewPrimitive(c Color) Primitive {
	return Primitive{
		HalfSize: Vec3{X: 1, Y: 1, Z: 1},
		Color:    c,
	}
}

// EffectiveCornerRadius returns the rounding radius used when evaluating
// the field: the corner radius clamped to the smallest half-extent, with a
// floor of MinCornerRadius.
func (p Primitive) EffectiveCornerRadius() float32 {
	return max(MinCornerRadius, min(p.CornerRadius, p.HalfSize.MinComponent()))
}

// EffectiveBlobAmount returns the blend width with its positive floor applied.
func (p Primitive) EffectiveBlobAmount() float32 {
	return max(p.BlobAmount, MinBlobAmount)
}

// BoundingRadius is the conservative radius used for export bounds: the
// length of the half-size diagonal. Rotation and rounding are ignored, so
// the bound is looser than the true extent.
func (p Primitive) BoundingRadius() float32 {
	return p.HalfSize.Length()
}

// Bounds returns the unrotated box pos ± half-size. The editor uses it to
// decide on which side of a mirror plane a primitive lies.
func (p Primitive) Bounds() (lo, hi Vec3) {
	return p.Position.Sub(p.HalfSize), p.Position.Add(p.HalfSize)
}
