package march

import (
	"testing"

	"github.com/chazu/shapeup/pkg/mesh"
)

// valuesForCase returns corner samples realising a case index: -1 for
// inside corners, +1 for outside ones.
func valuesForCase(caseIndex int) [8]float32 {
	var v [8]float32
	for i := range v {
		if caseIndex&(1<<i) != 0 {
			v[i] = -1
		} else {
			v[i] = 1
		}
	}
	return v
}

func unitCube(values [8]float32) Cube {
	return NewCube(mesh.Vertex{0, 0, 0}, mesh.Vertex{1, 1, 1}, values)
}

func TestClassify(t *testing.T) {
	for c := 0; c < 256; c++ {
		v := valuesForCase(c)
		if got := Classify(v); int(got) != c {
			t.Fatalf("Classify(case %d) = %d", c, got)
		}
		cube := unitCube(v)
		if got := cube.CaseIndex(); int(got) != c {
			t.Fatalf("CaseIndex(case %d) = %d", c, got)
		}
	}
}

func TestClassifyZeroIsOutside(t *testing.T) {
	var v [8]float32
	if got := Classify(v); got != 0 {
		t.Errorf("all-zero samples classified as %d, want 0", got)
	}
}

func TestUniformCasesEmitNothing(t *testing.T) {
	for _, c := range []int{0, 255} {
		b := mesh.NewBuffer(0)
		cube := unitCube(valuesForCase(c))
		n, err := Triangulate(&cube, b)
		if err != nil {
			t.Fatalf("case %d: %v", c, err)
		}
		if n != 0 || b.Len() != 0 {
			t.Errorf("case %d emitted %d triangles", c, n)
		}
		if len(TriangleEdges(uint8(c))) != 0 {
			t.Errorf("case %d has table entries", c)
		}
	}
}

func TestEveryMixedCaseEmitsTriangles(t *testing.T) {
	for c := 1; c < 255; c++ {
		b := mesh.NewBuffer(0)
		cube := unitCube(valuesForCase(c))
		n, err := Triangulate(&cube, b)
		if err != nil {
			t.Fatalf("case %d: %v", c, err)
		}
		if n == 0 || n > MaxTrianglesPerCell {
			t.Errorf("case %d emitted %d triangles", c, n)
		}
		if b.Len()%3 != 0 || b.Len() != 3*n {
			t.Errorf("case %d: %d vertices for %d triangles", c, b.Len(), n)
		}
	}
}

func TestTableEdgesCrossSurface(t *testing.T) {
	for c := 1; c < 255; c++ {
		edges := TriangleEdges(uint8(c))
		if len(edges)%3 != 0 {
			t.Fatalf("case %d: %d edge entries is not a multiple of 3", c, len(edges))
		}
		for _, e := range edges {
			a, b := EdgeCorners(int(e))
			inA := c&(1<<a) != 0
			inB := c&(1<<b) != 0
			if inA == inB {
				t.Errorf("case %d uses edge %d whose corners %d and %d agree", c, e, a, b)
			}
			if CrossedEdges(uint8(c))&(1<<e) == 0 {
				t.Errorf("case %d uses edge %d missing from its edge mask", c, e)
			}
		}
	}
}

func TestEdgeMaskMatchesCornerSigns(t *testing.T) {
	for c := 0; c < 256; c++ {
		var want uint16
		for e := 0; e < 12; e++ {
			a, b := EdgeCorners(e)
			if (c>>a)&1 != (c>>b)&1 {
				want |= 1 << e
			}
		}
		if got := CrossedEdges(uint8(c)); got != want {
			t.Errorf("case %d: mask %03x, want %03x", c, got, want)
		}
	}
}

func TestTriangleVerticesLieOnCrossedEdges(t *testing.T) {
	// With samples of -1 and +1 every crossing is an edge midpoint, so each
	// emitted coordinate is 0, 0.5 or 1 with exactly one 0.5.
	for c := 1; c < 255; c++ {
		b := mesh.NewBuffer(0)
		cube := unitCube(valuesForCase(c))
		if _, err := Triangulate(&cube, b); err != nil {
			t.Fatal(err)
		}
		for _, v := range b.Vertices() {
			halves := 0
			for _, x := range v {
				switch x {
				case 0.5:
					halves++
				case 0, 1:
				default:
					t.Fatalf("case %d: vertex %v off the lattice", c, v)
				}
			}
			if halves != 1 {
				t.Fatalf("case %d: vertex %v is not an edge midpoint", c, v)
			}
		}
	}
}

func TestNewCubePositions(t *testing.T) {
	c := NewCube(mesh.Vertex{1, 2, 3}, mesh.Vertex{0.5, 0.25, 2}, [8]float32{})
	want := [8]mesh.Vertex{
		{1, 2, 3}, {1.5, 2, 3}, {1.5, 2.25, 3}, {1, 2.25, 3},
		{1, 2, 5}, {1.5, 2, 5}, {1.5, 2.25, 5}, {1, 2.25, 5},
	}
	for i := range want {
		if c[i].Pos != want[i] {
			t.Errorf("corner %d = %v, want %v", i, c[i].Pos, want[i])
		}
	}
}

func TestTriangulateStopsOnFullBuffer(t *testing.T) {
	b := mesh.NewBuffer(3)
	b.SetLimit(3)
	// Case 0x69 emits four triangles; only the first fits.
	cube := unitCube(valuesForCase(0x69))
	n, err := Triangulate(&cube, b)
	if err == nil {
		t.Fatal("expected capacity error")
	}
	if n != 1 || b.TriangleCount() != 1 {
		t.Errorf("emitted %d triangles before failing, buffer holds %d", n, b.TriangleCount())
	}
}
