package scene

import "fmt"

// NoSelection is the Selected value of a scene with nothing selected.
const NoSelection = -1

// MaxPrimitives is the capacity of a scene. The .ocad format itself has no
// such limit; the editor refuses to add past it.
const MaxPrimitives = 100

// Scene is an ordered list of primitives plus the editor's selection.
// Evaluation order matters: subtractive primitives only cut from the
// primitives that precede them.
type Scene struct {
	Primitives []Primitive
	Selected   int

	lastColor Color
}

// New returns an empty scene with nothing selected.
func New() *Scene {
	return &Scene{Selected: NoSelection, lastColor: DefaultColor}
}

// NewDefault returns the scene the editor starts with: a single default
// primitive, selected.
func NewDefault() *Scene {
	s := New()
	s.Primitives = append(s.Primitives, NewPrimitive(s.lastColor))
	s.Selected = 0
	return s
}

// Len returns the number of primitives.
func (s *Scene) Len() int {
	return len(s.Primitives)
}

// IsEmpty reports whether the scene has no primitives.
func (s *Scene) IsEmpty() bool {
	return len(s.Primitives) == 0
}

// Get returns a pointer to primitive i so the caller can edit it in place.
func (s *Scene) Get(i int) (*Primitive, error) {
	if err := s.checkIndex(i); err != nil {
		return nil, err
	}
	return &s.Primitives[i], nil
}

// Selection returns the selected primitive, or nil if nothing is selected.
func (s *Scene) Selection() *Primitive {
	if s.Selected < 0 || s.Selected >= len(s.Primitives) {
		return nil
	}
	return &s.Primitives[s.Selected]
}

// Add appends a default primitive colored with the last color set and
// selects it. It returns the new primitive's index.
func (s *Scene) Add() (int, error) {
	return s.Append(NewPrimitive(s.lastColor))
}

// Append adds p to the end of the scene and selects it.
func (s *Scene) Append(p Primitive) (int, error) {
	if len(s.Primitives) >= MaxPrimitives {
		return NoSelection, fmt.Errorf("scene is full (%d primitives)", MaxPrimitives)
	}
	s.Primitives = append(s.Primitives, p)
	s.Selected = len(s.Primitives) - 1
	return s.Selected, nil
}

// Delete removes primitive i. If it was selected, the selection moves to the
// last primitive; selections after i shift down by one.
func (s *Scene) Delete(i int) error {
	if err := s.checkIndex(i); err != nil {
		return err
	}
	s.Primitives = append(s.Primitives[:i], s.Primitives[i+1:]...)

	switch {
	case s.Selected == i:
		s.Selected = len(s.Primitives) - 1
	case s.Selected > i:
		s.Selected--
	}
	return nil
}

// Select makes primitive i the selection.
func (s *Scene) Select(i int) error {
	if err := s.checkIndex(i); err != nil {
		return err
	}
	s.Selected = i
	return nil
}

// ClearSelection deselects everything.
func (s *Scene) ClearSelection() {
	s.Selected = NoSelection
}

// SetColor sets the color of primitive i and remembers it for new primitives.
func (s *Scene) SetColor(i int, c Color) error {
	if err := s.checkIndex(i); err != nil {
		return err
	}
	s.Primitives[i].Color = c
	s.lastColor = c
	return nil
}

// SetMirror updates the mirror flags of primitive i. A primitive that gains
// a mirror axis while lying entirely on the negative side of it is reflected
// onto the positive side, so the mirrored copy lands where it already was.
func (s *Scene) SetMirror(i int, m Mirror) error {
	if err := s.checkIndex(i); err != nil {
		return err
	}
	p := &s.Primitives[i]
	p.Mirror = m

	_, hi := p.Bounds()
	if m.X && hi.X <= 0 {
		p.Position.X = -p.Position.X
		p.Rotation.Y = -p.Rotation.Y
		p.Rotation.Z = -p.Rotation.Z
	}
	if m.Y && hi.Y <= 0 {
		p.Position.Y = -p.Position.Y
		p.Rotation.X = -p.Rotation.X
		p.Rotation.Z = -p.Rotation.Z
	}
	if m.Z && hi.Z <= 0 {
		p.Position.Z = -p.Position.Z
		p.Rotation.Y = -p.Rotation.Y
		p.Rotation.X = -p.Rotation.X
	}
	return nil
}

// Snapshot returns a deep copy of the scene. Exports work on a snapshot so
// the editor can keep mutating the live scene.
func (s *Scene) Snapshot() *Scene {
	out := &Scene{
		Primitives: make([]Primitive, len(s.Primitives)),
		Selected:   s.Selected,
		lastColor:  s.lastColor,
	}
	copy(out.Primitives, s.Primitives)
	return out
}

func (s *Scene) checkIndex(i int) error {
	if i < 0 || i >= len(s.Primitives) {
		return fmt.Errorf("%w: primitive %d (scene has %d)", ErrIndexOutOfRange, i, len(s.Primitives))
	}
	return nil
}
