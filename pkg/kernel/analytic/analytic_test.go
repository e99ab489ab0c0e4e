package analytic

import (
	"math"
	"testing"

	"github.com/chazu/shapeup/pkg/scene"
)

const tol = 1e-6

func near(a, b float64) bool { return math.Abs(a-b) < tol }

func unitScene(prims ...scene.Primitive) *scene.Scene {
	s := scene.New()
	s.Primitives = append(s.Primitives, prims...)
	return s
}

func TestUnitBoxDistances(t *testing.T) {
	f := New(unitScene(scene.NewPrimitive(scene.DefaultColor)))

	tests := []struct {
		name    string
		x, y, z float64
		want    float64
	}{
		{"center", 0, 0, 0, -1},
		{"on face", 1, 0, 0, 0},
		{"outside face", 2, 0, 0, 1},
		{"inside near face", 0, 0.75, 0, -0.25},
		{"below", 0, 0, -3, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := f.Evaluate(tt.x, tt.y, tt.z)
			if !near(got, tt.want) {
				t.Errorf("Evaluate(%g, %g, %g) = %g, want %g", tt.x, tt.y, tt.z, got, tt.want)
			}
		})
	}
}

func TestCornerRounding(t *testing.T) {
	p := scene.NewPrimitive(scene.DefaultColor)
	p.CornerRadius = 0.5
	f := New(unitScene(p))

	// The corner of the unrounded box is outside the rounded one by
	// r*(sqrt(3)-1).
	got := f.Evaluate(1, 1, 1)
	want := 0.5 * (math.Sqrt(3) - 1)
	if !near(got, want) {
		t.Errorf("corner distance = %g, want %g", got, want)
	}
	// Face centers are unaffected.
	if got := f.Evaluate(1, 0, 0); !near(got, 0) {
		t.Errorf("face distance = %g, want 0", got)
	}
}

func TestTranslationAndRotation(t *testing.T) {
	p := scene.NewPrimitive(scene.DefaultColor)
	p.Position = scene.Vec3{X: 5}
	p.HalfSize = scene.Vec3{X: 2, Y: 1, Z: 1}
	p.Rotation = scene.Vec3{Z: 90}
	f := New(unitScene(p))

	// After a quarter turn about Z the long axis lies along Y.
	if got := f.Evaluate(5, 2, 0); math.Abs(got) > 1e-5 {
		t.Errorf("rotated long face distance = %g, want 0", got)
	}
	if got := f.Evaluate(6, 0, 0); math.Abs(got) > 1e-5 {
		t.Errorf("rotated short face distance = %g, want 0", got)
	}
}

func TestEmptyAndSubtractOnly(t *testing.T) {
	if got := New(scene.New()).Evaluate(0, 0, 0); !math.IsInf(got, 1) {
		t.Errorf("empty scene = %g, want +Inf", got)
	}
	p := scene.NewPrimitive(scene.DefaultColor)
	p.Subtract = true
	if got := New(unitScene(p)).Evaluate(0, 0, 0); !math.IsInf(got, 1) {
		t.Errorf("subtract-only scene = %g, want +Inf", got)
	}
}

func TestSubtract(t *testing.T) {
	base := scene.NewPrimitive(scene.DefaultColor)
	base.HalfSize = scene.Vec3{X: 2, Y: 2, Z: 2}
	hole := scene.NewPrimitive(scene.DefaultColor)
	hole.Position = scene.Vec3{X: 2}
	hole.Subtract = true
	f := New(unitScene(base, hole))

	if got := f.Evaluate(2, 0, 0); got <= 0 {
		t.Errorf("carved point = %g, want outside", got)
	}
	if got := f.Evaluate(-1.5, 0, 0); got >= 0 {
		t.Errorf("untouched point = %g, want inside", got)
	}
}

func TestMirror(t *testing.T) {
	p := scene.NewPrimitive(scene.DefaultColor)
	p.Position = scene.Vec3{X: 3}
	p.Mirror = scene.Mirror{X: true}
	f := New(unitScene(p))

	a := f.Evaluate(3, 0, 0)
	b := f.Evaluate(-3, 0, 0)
	if !near(a, -1) || !near(a, b) {
		t.Errorf("mirrored centers = %g, %g, want -1 both", a, b)
	}
	if got := f.Evaluate(0, 0, 0); got <= 0 {
		t.Errorf("origin = %g, want outside", got)
	}
}

func TestSmoothUnion(t *testing.T) {
	// Far apart values reduce to min.
	if got := SmoothUnion(1, 5, 0.1); !near(got, 1) {
		t.Errorf("SmoothUnion(1, 5) = %g, want 1", got)
	}
	// Equal values dip by k/4.
	if got := SmoothUnion(1, 1, 0.4); !near(got, 0.9) {
		t.Errorf("SmoothUnion(1, 1, 0.4) = %g, want 0.9", got)
	}
}

func TestSmoothSubtract(t *testing.T) {
	// Far apart reduces to max(a, -b).
	if got := SmoothSubtract(-2, 3, 0.1); !near(got, -2) {
		t.Errorf("SmoothSubtract(-2, 3) = %g, want -2", got)
	}
	if got := SmoothSubtract(-2, -1, 0.1); !near(got, 1) {
		t.Errorf("SmoothSubtract(-2, -1) = %g, want 1", got)
	}
}

func TestSnapshotIsolation(t *testing.T) {
	s := unitScene(scene.NewPrimitive(scene.DefaultColor))
	f := New(s)
	s.Primitives[0].Position = scene.Vec3{X: 10}
	if got := f.Evaluate(0, 0, 0); !near(got, -1) {
		t.Errorf("field observed scene edit: %g", got)
	}
}
