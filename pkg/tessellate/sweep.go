package tessellate

import (
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/chazu/shapeup/pkg/kernel"
	"github.com/chazu/shapeup/pkg/march"
	"github.com/chazu/shapeup/pkg/mesh"
)

// localCapacity is the initial vertex capacity of a worker's slab buffer.
const localCapacity = 1 << 12

// sweeper walks the grid one slab at a time. Two plane slots roll along
// the z axis: after each slab the back plane becomes the next front plane,
// so every depth is sampled exactly once.
type sweeper struct {
	grid    Grid
	sampler kernel.Sampler
	buf     *mesh.Buffer
	workers int
	log     *zap.Logger

	skipped int
	bands   []*mesh.Buffer // per-worker scratch, reused across slabs
}

// plane is one rolling slot.
type plane struct {
	values []float32
	ok     bool
}

func (s *sweeper) run() error {
	lat := s.grid.Lattice()
	var front, back plane
	s.sample(lat, 0, &front)

	for k := 0; k < s.grid.Slabs(); k++ {
		s.sample(lat, k+1, &back)
		if front.ok && back.ok {
			if err := s.slab(k, front.values, back.values); err != nil {
				return err
			}
		} else {
			s.skipped++
			s.log.Warn("skipping slab", zap.Int("slab", k))
		}
		front, back = back, front
	}
	return nil
}

// sample fills p with plane k, reusing its storage. A failure is logged and
// leaves p marked unusable; the sweep carries on.
func (s *sweeper) sample(lat kernel.Lattice, k int, p *plane) {
	z := s.grid.Depth(k)
	values, err := s.sampler.Sample(lat, z, p.values)
	if err == nil && len(values) != lat.Len() {
		err = fmt.Errorf("got %d samples, want %d", len(values), lat.Len())
	}
	if err != nil {
		p.ok = false
		s.log.Warn("sampling failed",
			zap.Int("plane", k),
			zap.Float32("z", z),
			zap.Error(fmt.Errorf("%w: %w", ErrSamplingFailure, err)))
		return
	}
	p.values, p.ok = values, true
}

// slab triangulates every cell between planes k and k+1.
func (s *sweeper) slab(k int, front, back []float32) error {
	rows := s.grid.Counts[1] - 1
	if s.workers <= 1 || rows < 2 {
		return s.rows(k, front, back, 0, rows, s.buf)
	}

	// Each worker fills its own buffer over a contiguous band of rows; the
	// bands are appended in row order so the result matches a sequential
	// sweep byte for byte.
	n := min(s.workers, rows)
	per := (rows + n - 1) / n
	var g errgroup.Group
	bands := 0
	for lo := 0; lo < rows; lo += per {
		hi := min(lo+per, rows)
		band := s.band(bands)
		bands++
		g.Go(func() error {
			return s.rows(k, front, back, lo, hi, band)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	for _, band := range s.bands[:bands] {
		if err := s.buf.AppendBuffer(band); err != nil {
			return err
		}
	}
	return nil
}

// band returns the i'th worker buffer, emptied.
func (s *sweeper) band(i int) *mesh.Buffer {
	if i == len(s.bands) {
		s.bands = append(s.bands, mesh.NewBuffer(localCapacity))
	}
	b := s.bands[i]
	b.Reset()
	return b
}

// rows triangulates cells with y in [lo, hi) of slab k into dst.
func (s *sweeper) rows(k int, front, back []float32, lo, hi int, dst *mesh.Buffer) error {
	nx := s.grid.Counts[0]
	step := mesh.Vertex(s.grid.Steps)
	for y := lo; y < hi; y++ {
		for x := 0; x < nx-1; x++ {
			i := x + y*nx
			j := i + nx
			values := [8]float32{
				front[i], front[i+1], front[j+1], front[j],
				back[i], back[i+1], back[j+1], back[j],
			}
			if march.Uniform(march.Classify(values)) {
				continue
			}
			cube := march.NewCube(s.grid.cellOrigin(x, y, k), step, values)
			if _, err := march.Triangulate(&cube, dst); err != nil {
				return err
			}
		}
	}
	return nil
}
