package scene

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyScene is returned when an operation needs at least one primitive.
	ErrEmptyScene = errors.New("scene has no primitives")

	// ErrIndexOutOfRange is returned for a primitive or selection index that
	// does not refer to a primitive.
	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrInvalidPrimitive is returned when a primitive violates its invariants.
	ErrInvalidPrimitive = errors.New("invalid primitive")
)

// Validate checks a single primitive. Only the half-size is rejected when
// out of range: every extent must be positive. Corner radius and blob
// amount are clamped at evaluation time (EffectiveCornerRadius,
// EffectiveBlobAmount), so saved scenes with zero values stay exportable.
func (p Primitive) Validate() error {
	h := p.HalfSize
	if !(h.X > 0 && h.Y > 0 && h.Z > 0) {
		return fmt.Errorf("%w: half-size %s must be positive", ErrInvalidPrimitive, h)
	}
	return nil
}

// Validate checks the scene as a whole before export: it must be non-empty,
// the selection must be NoSelection or a valid index, and every primitive
// must be valid. The first problem found is returned.
func (s *Scene) Validate() error {
	if s == nil || len(s.Primitives) == 0 {
		return ErrEmptyScene
	}
	if s.Selected != NoSelection && (s.Selected < 0 || s.Selected >= len(s.Primitives)) {
		return fmt.Errorf("%w: selection %d (scene has %d)", ErrIndexOutOfRange, s.Selected, len(s.Primitives))
	}
	for i, p := range s.Primitives {
		if err := p.Validate(); err != nil {
			return fmt.Errorf("primitive %d: %w", i, err)
		}
	}
	return nil
}

// Normalize rewrites primitive values into canonical form in place: the
// corner radius is clamped to [0, min half-extent] and a negative or NaN
// blob amount becomes zero. Both evaluate exactly as before, since the
// field applies its own floors. Half-sizes are left alone.
func (s *Scene) Normalize() {
	for i := range s.Primitives {
		p := &s.Primitives[i]
		if !(p.BlobAmount > 0) {
			p.BlobAmount = 0
		}
		p.CornerRadius = max(0, min(p.CornerRadius, p.HalfSize.MinComponent()))
	}
}
