package tessellate

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/chazu/shapeup/pkg/kernel"
	"github.com/chazu/shapeup/pkg/mesh"
	"github.com/chazu/shapeup/pkg/scene"
)

// Error kinds reported by an export. Use errors.Is to classify.
var (
	// ErrScenePrecondition: the scene is empty or fails validation.
	ErrScenePrecondition = errors.New("scene precondition violated")
	// ErrSamplingFailure: the sampler could not produce a plane. Affected
	// slabs are skipped; the export itself still succeeds.
	ErrSamplingFailure = errors.New("sampling failed")
	// ErrAllocation: the mesh buffer could not grow. No file is written.
	ErrAllocation = errors.New("mesh allocation failed")
	// ErrIO: the output file could not be written.
	ErrIO = errors.New("output write failed")
)

// State is the phase an Exporter is in.
type State int

const (
	StateInit State = iota
	StateSweep
	StateFlush
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateInit:
		return "init"
	case StateSweep:
		return "sweep"
	case StateFlush:
		return "flush"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Options configures an Exporter. Zero values select the defaults.
type Options struct {
	Resolution      float32 // cell edge length, DefaultResolution if 0
	Margin          float32 // bounds padding; DefaultMargin if 0, use a negative value for none
	Workers         int     // goroutines per slab, 1 if <= 1
	InitialCapacity int     // initial mesh capacity in vertices
	MaxVertices     int     // mesh capacity limit, 0 for none
	Write           mesh.WriteOptions
	Logger          *zap.Logger
}

func (o Options) withDefaults() Options {
	if o.Resolution == 0 {
		o.Resolution = DefaultResolution
	}
	switch {
	case o.Margin == 0:
		o.Margin = DefaultMargin
	case o.Margin < 0:
		o.Margin = 0
	}
	if o.Workers < 1 {
		o.Workers = 1
	}
	if o.InitialCapacity <= 0 {
		o.InitialCapacity = mesh.DefaultCapacity
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	return o
}

// Result describes one export.
type Result struct {
	Bounds       BoundingBox
	Grid         Grid
	Triangles    int
	SkippedSlabs int
	Duration     time.Duration
	// Path is set once the mesh has been written.
	Path string
	// Mesh holds the triangles until they are written. It is kept after a
	// failed write so the caller can retry with WriteMesh.
	Mesh *mesh.Buffer
}

// Exporter runs the INIT → SWEEP → FLUSH → DONE pipeline. An Exporter is
// not safe for concurrent use; the scene must not change while an export
// is running.
type Exporter struct {
	opts  Options
	log   *zap.Logger
	state State
}

// New returns an Exporter with the given options.
func New(opts Options) *Exporter {
	opts = opts.withDefaults()
	return &Exporter{opts: opts, log: opts.Logger, state: StateInit}
}

// State returns the phase reached by the last operation.
func (e *Exporter) State() State {
	return e.state
}

func (e *Exporter) enter(s State) {
	e.state = s
	e.log.Debug("export state", zap.Stringer("state", s))
}

// Export tessellates s with sampler and writes the triangles to path.
// Errors from the write step wrap ErrIO and return the Result with its
// Mesh still set.
func (e *Exporter) Export(s *scene.Scene, sampler kernel.Sampler, path string) (*Result, error) {
	res, err := e.Tessellate(s, sampler)
	if err != nil {
		return nil, err
	}
	if err := e.WriteMesh(res, path); err != nil {
		return res, err
	}
	return res, nil
}

// Tessellate runs INIT and SWEEP and returns the in-memory mesh without
// writing it.
func (e *Exporter) Tessellate(s *scene.Scene, sampler kernel.Sampler) (*Result, error) {
	start := time.Now()
	e.enter(StateInit)

	if s == nil {
		return nil, e.fail(fmt.Errorf("%w: nil scene", ErrScenePrecondition))
	}
	if err := s.Validate(); err != nil {
		return nil, e.fail(fmt.Errorf("%w: %w", ErrScenePrecondition, err))
	}
	if sampler == nil {
		return nil, e.fail(errors.New("nil sampler"))
	}
	bounds, err := ComputeBounds(s, e.opts.Margin)
	if err != nil {
		return nil, e.fail(err)
	}
	grid, err := PlanGrid(bounds, e.opts.Resolution)
	if err != nil {
		return nil, e.fail(err)
	}

	buf := mesh.NewBuffer(e.opts.InitialCapacity)
	buf.SetLimit(e.opts.MaxVertices)

	e.log.Info("export started",
		zap.Int("primitives", s.Len()),
		zap.Stringer("bounds", bounds),
		zap.Stringer("grid", grid),
		zap.Int("workers", e.opts.Workers))

	e.enter(StateSweep)
	sw := &sweeper{
		grid:    grid,
		sampler: sampler,
		buf:     buf,
		workers: e.opts.Workers,
		log:     e.log,
	}
	if err := sw.run(); err != nil {
		if errors.Is(err, mesh.ErrCapacityExceeded) {
			err = fmt.Errorf("%w: %w", ErrAllocation, err)
		}
		return nil, e.fail(err)
	}

	res := &Result{
		Bounds:       bounds,
		Grid:         grid,
		Triangles:    buf.TriangleCount(),
		SkippedSlabs: sw.skipped,
		Duration:     time.Since(start),
		Mesh:         buf,
	}
	e.log.Debug("sweep finished",
		zap.Int("triangles", res.Triangles),
		zap.Int("skipped_slabs", res.SkippedSlabs),
		zap.Int("buffer_grows", buf.Grows()),
		zap.Duration("elapsed", res.Duration))
	return res, nil
}

// WriteMesh runs FLUSH for a tessellated result. On success the mesh is
// released and res.Path is set. On failure the mesh is kept and the error
// wraps ErrIO.
func (e *Exporter) WriteMesh(res *Result, path string) error {
	if res == nil || res.Mesh == nil {
		return errors.New("no mesh to write")
	}
	e.enter(StateFlush)
	start := time.Now()
	if err := mesh.WriteFile(path, res.Mesh, e.opts.Write); err != nil {
		e.log.Error("write failed", zap.String("path", path), zap.Error(err))
		return e.fail(fmt.Errorf("%w: %w", ErrIO, err))
	}
	res.Path = path
	res.Mesh = nil
	res.Duration += time.Since(start)
	e.enter(StateDone)
	e.log.Info("export finished",
		zap.String("path", path),
		zap.Stringer("format", e.opts.Write.Format),
		zap.Int("triangles", res.Triangles),
		zap.Int("skipped_slabs", res.SkippedSlabs),
		zap.Duration("elapsed", res.Duration))
	return nil
}

func (e *Exporter) fail(err error) error {
	e.state = StateFailed
	return err
}
