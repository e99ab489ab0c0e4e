package scene

import (
	"errors"
	"math"
	"testing"
)

func TestNewDefault(t *testing.T) {
	s := NewDefault()
	if s.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", s.Len())
	}
	if s.Selected != 0 {
		t.Errorf("Selected = %d, want 0", s.Selected)
	}
	p := s.Primitives[0]
	if p.HalfSize != (Vec3{1, 1, 1}) {
		t.Errorf("HalfSize = %v, want (1, 1, 1)", p.HalfSize)
	}
	if p.Color != DefaultColor || DefaultColor != (Color{R: 239, G: 160, B: 92}) {
		t.Errorf("Color = %v, want %v", p.Color, Color{R: 239, G: 160, B: 92})
	}
	if p.BlobAmount != 0 || p.CornerRadius != 0 {
		t.Errorf("BlobAmount = %g, CornerRadius = %g, want 0, 0", p.BlobAmount, p.CornerRadius)
	}
	if err := s.Validate(); err != nil {
		t.Errorf("default scene should validate: %v", err)
	}
}

func TestAddUsesLastColor(t *testing.T) {
	s := NewDefault()
	red := Color{R: 255}
	if err := s.SetColor(0, red); err != nil {
		t.Fatalf("SetColor: %v", err)
	}
	i, err := s.Add()
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if i != 1 || s.Selected != 1 {
		t.Errorf("Add() = %d, Selected = %d, want 1, 1", i, s.Selected)
	}
	if s.Primitives[1].Color != red {
		t.Errorf("new primitive color = %v, want %v", s.Primitives[1].Color, red)
	}
}

func TestAddRefusesPastCapacity(t *testing.T) {
	s := New()
	for i := 0; i < MaxPrimitives; i++ {
		if _, err := s.Add(); err != nil {
			t.Fatalf("Add %d: %v", i, err)
		}
	}
	if _, err := s.Add(); err == nil {
		t.Fatal("expected error adding past capacity")
	}
}

func TestDeleteSelection(t *testing.T) {
	tests := []struct {
		name         string
		selected     int
		deleteIndex  int
		wantSelected int
	}{
		{"delete selected middle", 1, 1, 2},
		{"delete selected last", 3, 3, 2},
		{"delete before selection", 2, 0, 1},
		{"delete after selection", 1, 2, 1},
		{"nothing selected", NoSelection, 0, NoSelection},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New()
			for i := 0; i < 4; i++ {
				p := NewPrimitive(DefaultColor)
				p.Position.X = float32(i)
				if _, err := s.Append(p); err != nil {
					t.Fatal(err)
				}
			}
			s.Selected = tt.selected
			if err := s.Delete(tt.deleteIndex); err != nil {
				t.Fatalf("Delete: %v", err)
			}
			if s.Len() != 3 {
				t.Fatalf("Len() = %d, want 3", s.Len())
			}
			if s.Selected != tt.wantSelected {
				t.Errorf("Selected = %d, want %d", s.Selected, tt.wantSelected)
			}
			for _, p := range s.Primitives {
				if p.Position.X == float32(tt.deleteIndex) {
					t.Errorf("primitive %d still present", tt.deleteIndex)
				}
			}
		})
	}
}

func TestIndexErrors(t *testing.T) {
	s := NewDefault()
	if err := s.Delete(5); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("Delete(5) err = %v, want ErrIndexOutOfRange", err)
	}
	if err := s.Select(-1); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("Select(-1) err = %v, want ErrIndexOutOfRange", err)
	}
	if _, err := s.Get(1); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("Get(1) err = %v, want ErrIndexOutOfRange", err)
	}
}

func TestSetMirrorReflectsNegativeSide(t *testing.T) {
	s := New()
	p := NewPrimitive(DefaultColor)
	p.Position = Vec3{X: -3, Y: 2, Z: 0}
	p.Rotation = Vec3{X: 10, Y: 20, Z: 30}
	if _, err := s.Append(p); err != nil {
		t.Fatal(err)
	}

	if err := s.SetMirror(0, Mirror{X: true}); err != nil {
		t.Fatalf("SetMirror: %v", err)
	}
	got := s.Primitives[0]
	if got.Position != (Vec3{X: 3, Y: 2, Z: 0}) {
		t.Errorf("Position = %v, want (3, 2, 0)", got.Position)
	}
	if got.Rotation != (Vec3{X: 10, Y: -20, Z: -30}) {
		t.Errorf("Rotation = %v, want (10, -20, -30)", got.Rotation)
	}

	// Already on the positive side of Y: no reflection.
	if err := s.SetMirror(0, Mirror{X: true, Y: true}); err != nil {
		t.Fatal(err)
	}
	if s.Primitives[0].Position.Y != 2 {
		t.Errorf("Position.Y = %g, want 2", s.Primitives[0].Position.Y)
	}
}

func TestSnapshotIsIndependent(t *testing.T) {
	s := NewDefault()
	snap := s.Snapshot()
	s.Primitives[0].Position.X = 42
	if snap.Primitives[0].Position.X != 0 {
		t.Error("snapshot shares storage with the live scene")
	}
}

func TestPrimitiveValidate(t *testing.T) {
	base := NewPrimitive(DefaultColor)
	tests := []struct {
		name    string
		mutate  func(p *Primitive)
		wantErr bool
	}{
		{"default", func(p *Primitive) {}, false},
		{"zero half-size", func(p *Primitive) { p.HalfSize.Y = 0 }, true},
		{"negative half-size", func(p *Primitive) { p.HalfSize.X = -1 }, true},
		{"NaN half-size", func(p *Primitive) { p.HalfSize.Z = float32(math.NaN()) }, true},
		{"negative corner radius", func(p *Primitive) { p.CornerRadius = -0.1 }, false},
		{"corner radius too large", func(p *Primitive) { p.HalfSize.Z = 0.5; p.CornerRadius = 0.6 }, false},
		{"zero blob", func(p *Primitive) { p.BlobAmount = 0 }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := base
			tt.mutate(&p)
			err := p.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() err = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidPrimitive) {
				t.Errorf("err = %v, want ErrInvalidPrimitive", err)
			}
		})
	}
}

func TestSceneValidate(t *testing.T) {
	if err := New().Validate(); !errors.Is(err, ErrEmptyScene) {
		t.Errorf("empty scene err = %v, want ErrEmptyScene", err)
	}

	s := NewDefault()
	s.Selected = 3
	if err := s.Validate(); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("bad selection err = %v, want ErrIndexOutOfRange", err)
	}
}

func TestNormalize(t *testing.T) {
	s := NewDefault()
	s.Primitives[0].BlobAmount = -2
	s.Primitives[0].CornerRadius = 5
	before := s.Primitives[0]
	s.Normalize()
	p := s.Primitives[0]
	if p.BlobAmount != 0 {
		t.Errorf("BlobAmount = %g, want 0", p.BlobAmount)
	}
	if p.EffectiveBlobAmount() != before.EffectiveBlobAmount() {
		t.Errorf("EffectiveBlobAmount changed: %g -> %g", before.EffectiveBlobAmount(), p.EffectiveBlobAmount())
	}
	if p.EffectiveCornerRadius() != before.EffectiveCornerRadius() {
		t.Errorf("EffectiveCornerRadius changed: %g -> %g", before.EffectiveCornerRadius(), p.EffectiveCornerRadius())
	}
	if p.CornerRadius != 1 {
		t.Errorf("CornerRadius = %g, want 1", p.CornerRadius)
	}
	if err := s.Validate(); err != nil {
		t.Errorf("normalized scene should validate: %v", err)
	}
}

func TestEffectiveValues(t *testing.T) {
	p := NewPrimitive(DefaultColor)
	if r := p.EffectiveCornerRadius(); r != MinCornerRadius {
		t.Errorf("EffectiveCornerRadius() = %g, want %g", r, MinCornerRadius)
	}
	p.CornerRadius = 0.25
	if r := p.EffectiveCornerRadius(); r != 0.25 {
		t.Errorf("EffectiveCornerRadius() = %g, want 0.25", r)
	}
	if r := p.BoundingRadius(); math.Abs(float64(r)-math.Sqrt(3)) > 1e-6 {
		t.Errorf("BoundingRadius() = %g, want sqrt(3)", r)
	}
}
