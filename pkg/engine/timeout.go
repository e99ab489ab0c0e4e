package engine

import (
	"errors"
	"fmt"
	"time"

	"github.com/chazu/shapeup/pkg/scene"
)

// EvalTimeout is the default limit for a single evaluation.
const EvalTimeout = 5 * time.Second

var (
	// ErrTimeout is returned when a scene program runs past the engine's
	// timeout. The sandbox goroutine may still be running.
	ErrTimeout = errors.New("evaluation timed out")

	// ErrSuperseded is returned to an Evaluate call whose result arrived
	// after a newer call had started.
	ErrSuperseded = errors.New("evaluation superseded by newer request")
)

type evalResult struct {
	scene    *scene.Scene
	evalErrs []EvalError
	err      error
}

// wait collects the result of evaluation gen from ch. A result that is
// no longer the latest generation is dropped, so a slow program can never
// overwrite the scene of one started after it.
func (e *Engine) wait(ch <-chan evalResult, gen uint64) (*scene.Scene, []EvalError, error) {
	timer := time.NewTimer(e.timeout())
	defer timer.Stop()

	select {
	case res := <-ch:
		e.mu.Lock()
		current := e.generation
		e.mu.Unlock()
		if gen != current {
			return nil, nil, ErrSuperseded
		}
		return res.scene, res.evalErrs, res.err

	case <-timer.C:
		return nil, nil, fmt.Errorf("%w after %s", ErrTimeout, e.timeout())
	}
}

func (e *Engine) timeout() time.Duration {
	if e.Timeout > 0 {
		return e.Timeout
	}
	return EvalTimeout
}
