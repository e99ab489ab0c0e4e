package march

import (
	"math"
	"testing"

	"github.com/chazu/shapeup/pkg/mesh"
)

func TestInterpolate(t *testing.T) {
	p0 := mesh.Vertex{0, 0, 0}
	p1 := mesh.Vertex{1, 0, 0}

	tests := []struct {
		name string
		a, b Corner
		want mesh.Vertex
	}{
		{"midpoint", Corner{p0, -1}, Corner{p1, 1}, mesh.Vertex{0.5, 0, 0}},
		{"quarter", Corner{p0, -1}, Corner{p1, 3}, mesh.Vertex{0.25, 0, 0}},
		{"reversed signs", Corner{p0, 3}, Corner{p1, -1}, mesh.Vertex{0.75, 0, 0}},
		{"a on surface", Corner{p0, 0}, Corner{p1, 1}, p0},
		{"b on surface", Corner{p0, -1}, Corner{p1, 0}, p1},
		{"both on surface picks a", Corner{p0, 0}, Corner{p1, 0}, p0},
		{"a within epsilon", Corner{p0, 5e-6}, Corner{p1, -1}, p0},
		// float32(1e-5) is just below 1e-5 in double precision.
		{"a at float32 epsilon", Corner{p0, 1e-5}, Corner{p1, -1}, p0},
		{"b at float32 epsilon", Corner{p0, -1}, Corner{p1, -1e-5}, p1},
		{"just past epsilon interpolates", Corner{p0, 1.0001e-5}, Corner{p1, -1}, mesh.Vertex{1.0001e-5, 0, 0}},
		{"degenerate equal values", Corner{p0, 0.3}, Corner{p1, 0.3}, p0},
		{"degenerate nearly equal", Corner{p0, 0.3}, Corner{p1, 0.300001}, p0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Interpolate(tt.a, tt.b)
			for i := range got {
				if math.IsNaN(float64(got[i])) || math.IsInf(float64(got[i]), 0) {
					t.Fatalf("Interpolate produced %v", got)
				}
				if math.Abs(float64(got[i]-tt.want[i])) > 1e-6 {
					t.Fatalf("Interpolate() = %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestInterpolateExactMidpoint(t *testing.T) {
	got := Interpolate(Corner{mesh.Vertex{0, 0, 0}, -1}, Corner{mesh.Vertex{1, 0, 0}, 1})
	if got != (mesh.Vertex{0.5, 0, 0}) {
		t.Errorf("Interpolate() = %v, want exactly (0.5, 0, 0)", got)
	}
}
