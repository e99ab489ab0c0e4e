// Package kernel defines the scalar-field interfaces the exporter samples.
// Implementations (analytic, sdfx) evaluate a scene's signed distance field
// behind these interfaces. The abstraction lets the field come from a
// closed-form CPU evaluator, an SDF library or a GPU slicer without changing
// the sweep.
package kernel

import (
	"errors"
	"fmt"
	"math"

	"golang.org/x/sync/errgroup"
)

// Lattice is the 2D grid of sample points in one depth plane. Point (i, j)
// is at Origin + (i*Step[0], j*Step[1]) and is stored at index i + j*NX.
type Lattice struct {
	Origin [2]float32
	Step   [2]float32
	NX, NY int
}

// Len returns the number of lattice points.
func (l Lattice) Len() int {
	return l.NX * l.NY
}

// Point returns the world x, y of lattice point (i, j).
func (l Lattice) Point(i, j int) (x, y float32) {
	return l.Origin[0] + float32(i)*l.Step[0], l.Origin[1] + float32(j)*l.Step[1]
}

// Sampler evaluates the field over a whole lattice at one depth. Negative
// samples are inside; the surface is the zero level set.
type Sampler interface {
	// Sample returns l.Len() samples in row-major order for depth z. If dst
	// has enough capacity it is reused for the result.
	Sample(l Lattice, z float32, dst []float32) ([]float32, error)
}

// SamplerFunc adapts a function to the Sampler interface.
type SamplerFunc func(l Lattice, z float32, dst []float32) ([]float32, error)

// Sample calls f(l, z, dst).
func (f SamplerFunc) Sample(l Lattice, z float32, dst []float32) ([]float32, error) {
	return f(l, z, dst)
}

// Field is a point-wise signed distance evaluator.
type Field interface {
	Evaluate(x, y, z float64) float64
}

// ErrNonFinite is returned when a field yields NaN for a lattice point.
var ErrNonFinite = errors.New("field produced a non-finite sample")

// PlaneSampler samples a Field over a lattice one point at a time. With
// Workers > 1 the rows of a plane are split across goroutines; Field
// implementations must then be safe for concurrent Evaluate calls.
type PlaneSampler struct {
	Field   Field
	Workers int
}

// Compile-time interface check.
var _ Sampler = (*PlaneSampler)(nil)

// NewPlaneSampler returns a sequential sampler over f.
func NewPlaneSampler(f Field) *PlaneSampler {
	return &PlaneSampler{Field: f, Workers: 1}
}

// Sample implements Sampler.
func (s *PlaneSampler) Sample(l Lattice, z float32, dst []float32) ([]float32, error) {
	if l.NX <= 0 || l.NY <= 0 {
		return nil, fmt.Errorf("invalid lattice %dx%d", l.NX, l.NY)
	}
	n := l.Len()
	if cap(dst) < n {
		dst = make([]float32, n)
	}
	dst = dst[:n]

	workers := s.Workers
	if workers <= 1 || l.NY < 2 {
		if err := s.sampleRows(l, z, dst, 0, l.NY); err != nil {
			return nil, err
		}
		return dst, nil
	}

	var g errgroup.Group
	g.SetLimit(workers)
	rowsPer := (l.NY + workers - 1) / workers
	for start := 0; start < l.NY; start += rowsPer {
		lo, hi := start, min(start+rowsPer, l.NY)
		g.Go(func() error {
			return s.sampleRows(l, z, dst, lo, hi)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return dst, nil
}

func (s *PlaneSampler) sampleRows(l Lattice, z float32, dst []float32, lo, hi int) error {
	zf := float64(z)
	for j := lo; j < hi; j++ {
		row := dst[j*l.NX : (j+1)*l.NX]
		for i := range row {
			x, y := l.Point(i, j)
			d := s.Field.Evaluate(float64(x), float64(y), zf)
			if math.IsNaN(d) {
				return fmt.Errorf("%w at (%g, %g, %g)", ErrNonFinite, x, y, z)
			}
			row[i] = float32(d)
		}
	}
	return nil
}
