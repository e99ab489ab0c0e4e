package engine

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/chazu/shapeup/pkg/scene"
)

func TestEvaluateEmptySource(t *testing.T) {
	for name, source := range map[string]string{
		"empty":      "",
		"whitespace": "   \n\t  \n  ",
	} {
		t.Run(name, func(t *testing.T) {
			s, evalErrs, err := NewEngine().Evaluate(source)
			if err != nil {
				t.Fatalf("unexpected fatal error: %v", err)
			}
			if len(evalErrs) > 0 {
				t.Fatalf("unexpected eval errors: %v", evalErrs)
			}
			if s == nil {
				t.Fatal("expected non-nil scene")
			}
			if !s.IsEmpty() || s.Selected != scene.NoSelection {
				t.Errorf("expected empty scene with no selection, got %d primitives, selected %d", s.Len(), s.Selected)
			}
			if err := s.Validate(); !errors.Is(err, scene.ErrEmptyScene) {
				t.Errorf("Validate = %v, want ErrEmptyScene", err)
			}
		})
	}
}

func TestEvaluateValidExpression(t *testing.T) {
	eng := NewEngine()

	// (+ 1 2) is valid Lisp that adds no shapes.
	s, evalErrs, err := eng.Evaluate("(+ 1 2)")
	if err != nil {
		t.Fatalf("unexpected fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("unexpected eval errors: %v", evalErrs)
	}
	if s == nil {
		t.Fatal("expected non-nil scene")
	}
	if !s.IsEmpty() {
		t.Errorf("expected empty scene, got %d primitives", s.Len())
	}
}

func TestEvaluateMultipleExpressions(t *testing.T) {
	eng := NewEngine()

	source := `
(def w 2)
(def gap 4)
(shape :size (vec3 w 1 1))
(shape :pos (vec3 gap 0 0) :size (* w 0.25))
`
	s, evalErrs, err := eng.Evaluate(source)
	if err != nil {
		t.Fatalf("unexpected fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("unexpected eval errors: %v", evalErrs)
	}
	if s.Len() != 2 {
		t.Fatalf("expected 2 primitives, got %d", s.Len())
	}
	if s.Primitives[0].HalfSize.X != 2 {
		t.Errorf("first size.x = %g, want 2", s.Primitives[0].HalfSize.X)
	}
	if s.Primitives[1].Position.X != 4 || s.Primitives[1].HalfSize != (scene.Vec3{X: 0.5, Y: 0.5, Z: 0.5}) {
		t.Errorf("second shape = %+v", s.Primitives[1])
	}
	if s.Selected != 1 {
		t.Errorf("selected = %d, want the last shape", s.Selected)
	}
}

func TestEvaluateSyntaxError(t *testing.T) {
	eng := NewEngine()

	// Unmatched paren is a parse error.
	s, evalErrs, err := eng.Evaluate("(+ 1 2")
	if err != nil {
		t.Fatalf("expected non-fatal eval error, got fatal: %v", err)
	}
	if s != nil {
		t.Fatal("expected nil scene on syntax error")
	}
	if len(evalErrs) == 0 {
		t.Fatal("expected at least one eval error for syntax error")
	}

	// The error message should contain something meaningful.
	msg := evalErrs[0].Message
	if msg == "" {
		t.Error("eval error message should not be empty")
	}
}

func TestEvaluateUndefinedSymbol(t *testing.T) {
	eng := NewEngine()

	// Referencing an undefined symbol should produce an eval error.
	s, evalErrs, err := eng.Evaluate("(+ 1 undefined-symbol)")
	if err != nil {
		t.Fatalf("expected non-fatal eval error, got fatal: %v", err)
	}
	if s != nil {
		t.Fatal("expected nil scene on eval error")
	}
	if len(evalErrs) == 0 {
		t.Fatal("expected at least one eval error for undefined symbol")
	}
}

func TestEvaluateSyntaxErrorHasLineInfo(t *testing.T) {
	eng := NewEngine()

	// Put the error on line 2.
	source := "(+ 1 2)\n(+ 3"
	s, evalErrs, err := eng.Evaluate(source)
	if err != nil {
		t.Fatalf("expected non-fatal eval error, got fatal: %v", err)
	}
	if s != nil {
		t.Fatal("expected nil scene on syntax error")
	}
	if len(evalErrs) == 0 {
		t.Fatal("expected at least one eval error")
	}

	// We expect the line number to be extracted from the zygomys error.
	// Line info may or may not be available depending on the error format;
	// we just check the error is populated.
	e := evalErrs[0]
	if e.Message == "" {
		t.Error("eval error message should not be empty")
	}
	// If line info was extracted, verify it's positive.
	if e.Line > 0 {
		t.Logf("extracted line info: line=%d, message=%q", e.Line, e.Message)
	} else {
		t.Logf("no line info extracted (line=0), message=%q", e.Message)
	}
}

func TestEvalErrorImplementsError(t *testing.T) {
	e := EvalError{Line: 5, Col: 0, Message: "something went wrong"}
	s := e.Error()
	if !strings.Contains(s, "line 5") {
		t.Errorf("Error() should contain line info, got: %s", s)
	}
	if !strings.Contains(s, "something went wrong") {
		t.Errorf("Error() should contain message, got: %s", s)
	}

	// No line info.
	e2 := EvalError{Line: 0, Col: 0, Message: "no location"}
	s2 := e2.Error()
	if strings.Contains(s2, "line") {
		t.Errorf("Error() with no line should not contain 'line', got: %s", s2)
	}
}

func TestEvaluateDeterministic(t *testing.T) {
	eng := NewEngine()
	source := `
(shape :pos (vec3 0.5 0 0) :angle (vec3 0 0 30) :corner-radius 0.2 :blob 0.3)
(shape :size 0.4 :mirror :x :subtract)
`
	first, _, err := eng.Evaluate(source)
	if err != nil || first == nil {
		t.Fatalf("first evaluation: %v", err)
	}

	// Every call runs in a fresh sandbox, so nothing carries over.
	for i := 0; i < 4; i++ {
		s, evalErrs, err := eng.Evaluate(source)
		if err != nil {
			t.Fatalf("iteration %d: unexpected fatal error: %v", i, err)
		}
		if len(evalErrs) > 0 {
			t.Fatalf("iteration %d: unexpected eval errors: %v", i, evalErrs)
		}
		if s.Len() != 2 {
			t.Fatalf("iteration %d: expected 2 primitives, got %d", i, s.Len())
		}
		if s.ContentHash() != first.ContentHash() {
			t.Errorf("iteration %d: hash %d differs from %d", i, s.ContentHash(), first.ContentHash())
		}
	}
}

func TestWaitTimeout(t *testing.T) {
	eng := &Engine{Timeout: 20 * time.Millisecond}
	ch := make(chan evalResult) // never sends

	start := time.Now()
	_, _, err := eng.wait(ch, 0)
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("err = %v, want ErrTimeout", err)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("wait took %s with a 20ms timeout", elapsed)
	}
}

func TestWaitDefaultTimeout(t *testing.T) {
	if got := NewEngine().timeout(); got != EvalTimeout {
		t.Errorf("timeout() = %s, want %s", got, EvalTimeout)
	}
}

func TestWaitDiscardsStaleGeneration(t *testing.T) {
	eng := NewEngine()
	eng.generation = 2

	stale := make(chan evalResult, 1)
	stale <- evalResult{scene: scene.NewDefault()}
	if _, _, err := eng.wait(stale, 1); !errors.Is(err, ErrSuperseded) {
		t.Fatalf("err = %v, want ErrSuperseded", err)
	}

	current := make(chan evalResult, 1)
	current <- evalResult{scene: scene.NewDefault()}
	s, _, err := eng.wait(current, 2)
	if err != nil {
		t.Fatalf("current generation: %v", err)
	}
	if s.Len() != 1 {
		t.Errorf("expected the delivered scene, got %d primitives", s.Len())
	}
}

func TestParseZygomysError(t *testing.T) {
	tests := []struct {
		name     string
		msg      string
		wantLine int
		wantMsg  string
	}{
		{
			name:     "error on line format",
			msg:      "Error on line 5: unexpected token\n",
			wantLine: 5,
			wantMsg:  "unexpected token",
		},
		{
			name:     "no line info",
			msg:      "some generic error",
			wantLine: 0,
			wantMsg:  "some generic error",
		},
		{
			name:     "line format lowercase",
			msg:      "error on line 12: missing paren",
			wantLine: 12,
			wantMsg:  "missing paren",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := parseZygomysError(errString(tt.msg))
			if len(errs) == 0 {
				t.Fatal("expected at least one error")
			}
			e := errs[0]
			if e.Line != tt.wantLine {
				t.Errorf("line = %d, want %d", e.Line, tt.wantLine)
			}
			if !strings.Contains(e.Message, tt.wantMsg) {
				t.Errorf("message = %q, want containing %q", e.Message, tt.wantMsg)
			}
		})
	}
}

// errString is a simple error type for testing.
type errString string

func (e errString) Error() string { return string(e) }
