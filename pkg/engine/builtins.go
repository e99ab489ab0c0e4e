package engine

import (
	"fmt"
	"slices"
	"strings"

	"github.com/chazu/shapeup/pkg/scene"
	zygo "github.com/glycerine/zygomys/zygo"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource transforms scene source code before passing it to
// zygomys. It performs two transformations:
//
//  1. Keyword conversion: :keyword -> "__kw_keyword" (string literal)
//     This avoids the need to register keyword symbols as globals, which
//     would conflict with user-defined variables of the same name.
//
//  2. Kebab-case to underscore: clear-selection -> clear_selection
//     zygomys does not allow hyphens in identifiers (it interprets them
//     as the subtraction operator). This converts kebab-case identifiers
//     to underscore form outside of strings and comments.
//
// Both transformations respect string literal boundaries and line comments.
func preprocessSource(source string) string {
	result := make([]byte, 0, len(source)+len(source)/4)
	b := []byte(source)
	i := 0
	for i < len(b) {
		// Skip double-quoted string literals.
		if b[i] == '"' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '"' {
				if b[i] == '\\' && i+1 < len(b) {
					result = append(result, b[i], b[i+1])
					i += 2
					continue
				}
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Skip backtick-quoted string literals.
		if b[i] == '`' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '`' {
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Convert ; line comments to // comments for zygomys.
		// zygomys uses // for line comments, not the traditional Lisp ;.
		if b[i] == ';' {
			result = append(result, '/', '/')
			i++
			// Skip additional ; characters (;; style).
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Transform :keyword to "__kw_keyword".
		if b[i] == ':' && i+1 < len(b) {
			// Preserve := (assignment operator).
			if b[i+1] == '=' {
				result = append(result, b[i], b[i+1])
				i += 2
				continue
			}
			// Check for keyword: colon followed by a letter.
			if isLetter(b[i+1]) {
				j := i + 1
				for j < len(b) && isKWChar(b[j]) {
					j++
				}
				kwName := string(b[i+1 : j])
				result = append(result, '"')
				result = append(result, []byte(kwPrefix)...)
				result = append(result, []byte(kwName)...)
				result = append(result, '"')
				i = j
				continue
			}
		}
		// Transform kebab-case identifiers: alpha-alpha -> alpha_alpha.
		// Only when hyphen sits between identifier characters (not a minus operator).
		if b[i] == '-' && i > 0 && i+1 < len(b) &&
			isIdentChar(b[i-1]) && isIdentStartChar(b[i+1]) {
			result = append(result, '_')
			i++
			continue
		}
		result = append(result, b[i])
		i++
	}
	return string(result)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

func isIdentStartChar(c byte) bool {
	return isLetter(c)
}

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpVec3 wraps a scene.Vec3.
type sexpVec3 struct {
	vec scene.Vec3
}

func (v *sexpVec3) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec3 %g %g %g)", v.vec.X, v.vec.Y, v.vec.Z)
}
func (v *sexpVec3) Type() *zygo.RegisteredType { return nil }

// sexpColor wraps a scene.Color.
type sexpColor struct {
	color scene.Color
}

func (c *sexpColor) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(rgb %d %d %d)", c.color.R, c.color.G, c.color.B)
}
func (c *sexpColor) Type() *zygo.RegisteredType { return nil }

// sexpShapeRef is the value of a (shape ...) form: the primitive's index.
type sexpShapeRef struct {
	index int
}

func (r *sexpShapeRef) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(shape #%d)", r.index)
}
func (r *sexpShapeRef) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// isKW checks if a Sexp is a preprocessed keyword string.
// Returns the keyword name (without prefix) and true if it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
// Keywords are identified by the __kw_ prefix added during preprocessing.
// A keyword named in flags may stand alone; when it is followed by another
// keyword or ends the list it maps to SexpNull.
func parseArgs(args []zygo.Sexp, flags ...string) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	i := 0
	for i < len(args) {
		name, ok := isKW(args[i])
		if !ok {
			result.positional = append(result.positional, args[i])
			i++
			continue
		}
		if i+1 < len(args) {
			_, nextIsKW := isKW(args[i+1])
			if !nextIsKW || !slices.Contains(flags, name) {
				result.kw[name] = args[i+1]
				i += 2
				continue
			}
		}
		// Keyword at end with no value, or a flag.
		result.kw[name] = zygo.SexpNull
		i++
	}
	return result
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toFloat32 is toFloat64 narrowed to scene precision.
func toFloat32(s zygo.Sexp) (float32, error) {
	f, err := toFloat64(s)
	return float32(f), err
}

// toInt extracts an integer index from a Sexp.
func toInt(s zygo.Sexp) (int, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return int(v.Val), nil
	case *sexpShapeRef:
		return v.index, nil
	}
	return 0, fmt.Errorf("expected index or shape, got %T (%s)", s, s.SexpString(nil))
}

// toBool reads a flag. A bare keyword (SexpNull) counts as true.
func toBool(s zygo.Sexp) (bool, error) {
	if s == zygo.SexpNull {
		return true, nil
	}
	if b, ok := s.(*zygo.SexpBool); ok {
		return b.Val, nil
	}
	return false, fmt.Errorf("expected boolean, got %T (%s)", s, s.SexpString(nil))
}

// toKeywordString extracts a keyword name or plain string from a Sexp.
// Handles both preprocessed keywords (__kw_z) and plain strings ("z").
func toKeywordString(s zygo.Sexp) (string, error) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", fmt.Errorf("expected keyword or string, got %T (%s)", s, s.SexpString(nil))
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], nil
	}
	return str.S, nil
}

// toMirror reads mirror axes: a single axis keyword or a list of them.
func toMirror(s zygo.Sexp) (scene.Mirror, error) {
	var m scene.Mirror
	items := []zygo.Sexp{s}
	if _, ok := s.(*zygo.SexpStr); !ok {
		var err error
		if items, err = sexpListToSlice(s); err != nil {
			return m, fmt.Errorf("expected axis keyword or list of axes: %w", err)
		}
	}
	for _, item := range items {
		name, err := toKeywordString(item)
		if err != nil {
			return m, fmt.Errorf("expected axis keyword (:x, :y, :z): %w", err)
		}
		switch name {
		case "x":
			m.X = true
		case "y":
			m.Y = true
		case "z":
			m.Z = true
		default:
			return m, fmt.Errorf("invalid axis %q, expected x, y, or z", name)
		}
	}
	return m, nil
}

// toVec3 extracts a Vec3 from a sexpVec3. A plain number n is shorthand
// for (vec3 n n n).
func toVec3(s zygo.Sexp) (scene.Vec3, error) {
	if v, ok := s.(*sexpVec3); ok {
		return v.vec, nil
	}
	if f, err := toFloat32(s); err == nil {
		return scene.Vec3{X: f, Y: f, Z: f}, nil
	}
	return scene.Vec3{}, fmt.Errorf("expected vec3, got %T (%s)", s, s.SexpString(nil))
}

// toColor extracts a Color from a sexpColor.
func toColor(s zygo.Sexp) (scene.Color, error) {
	if c, ok := s.(*sexpColor); ok {
		return c.color, nil
	}
	return scene.Color{}, fmt.Errorf("expected rgb color, got %T (%s)", s, s.SexpString(nil))
}

// sexpListToSlice converts a SexpPair (Lisp list) or SexpArray to a Go slice.
func sexpListToSlice(s zygo.Sexp) ([]zygo.Sexp, error) {
	switch v := s.(type) {
	case *zygo.SexpPair:
		return zygo.ListToArray(v)
	case *zygo.SexpArray:
		return v.Val, nil
	case *zygo.SexpSentinel:
		if v == zygo.SexpNull {
			return nil, nil
		}
	}
	return nil, fmt.Errorf("expected list or array, got %T", s)
}

// toChannel extracts a color channel in 0..255.
func toChannel(s zygo.Sexp) (uint8, error) {
	f, err := toFloat64(s)
	if err != nil {
		return 0, err
	}
	if f < 0 || f > 255 {
		return 0, fmt.Errorf("channel %g out of range 0..255", f)
	}
	return uint8(f), nil
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// shapeKeywords lists the keywords (shape ...) understands.
var shapeKeywords = map[string]bool{
	"pos": true, "size": true, "angle": true, "corner-radius": true,
	"blob": true, "color": true, "mirror": true, "subtract": true,
}

// registerBuiltins installs the scene DSL builtins into a zygomys environment.
// The builtins edit the provided Scene during evaluation.
//
// Source code must be preprocessed with preprocessSource() before evaluation so
// that :keyword tokens are converted to recognizable string literals.
func registerBuiltins(env *zygo.Zlisp, s *scene.Scene) {

	// -----------------------------------------------------------------------
	// (vec3 1 2 3)
	// -----------------------------------------------------------------------
	env.AddFunction("vec3", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("vec3 requires exactly 3 arguments, got %d", len(args))
		}

		var v [3]float32
		for i, axis := range []string{"x", "y", "z"} {
			f, err := toFloat32(args[i])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("vec3: %s: %w", axis, err)
			}
			v[i] = f
		}

		return &sexpVec3{vec: scene.Vec3{X: v[0], Y: v[1], Z: v[2]}}, nil
	})

	// -----------------------------------------------------------------------
	// (rgb 240 161 92)
	// -----------------------------------------------------------------------
	env.AddFunction("rgb", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("rgb requires exactly 3 arguments, got %d", len(args))
		}

		var c [3]uint8
		for i, ch := range []string{"r", "g", "b"} {
			v, err := toChannel(args[i])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("rgb: %s: %w", ch, err)
			}
			c[i] = v
		}

		return &sexpColor{color: scene.Color{R: c[0], G: c[1], B: c[2]}}, nil
	})

	// -----------------------------------------------------------------------
	// (shape :pos (vec3 0 1 0) :size (vec3 1 0.5 0.5) :angle (vec3 0 45 0)
	//        :corner-radius 0.2 :blob 0.1 :color (rgb 200 80 40)
	//        :mirror (list :x) :subtract)
	// -----------------------------------------------------------------------
	env.AddFunction("shape", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args, "subtract")
		if len(pa.positional) > 0 {
			return zygo.SexpNull, fmt.Errorf("shape takes only keyword arguments, got %s", pa.positional[0].SexpString(nil))
		}
		for kw := range pa.kw {
			if !shapeKeywords[kw] {
				return zygo.SexpNull, fmt.Errorf("shape: unknown keyword :%s", kw)
			}
		}

		idx, err := s.Add()
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("shape: %w", err)
		}
		p, _ := s.Get(idx)

		vecs := []struct {
			kw  string
			dst *scene.Vec3
		}{
			{"pos", &p.Position},
			{"size", &p.HalfSize},
			{"angle", &p.Rotation},
		}
		for _, v := range vecs {
			if arg, ok := pa.kw[v.kw]; ok {
				vec, err := toVec3(arg)
				if err != nil {
					return zygo.SexpNull, fmt.Errorf("shape: %s: %w", v.kw, err)
				}
				*v.dst = vec
			}
		}
		if v, ok := pa.kw["corner-radius"]; ok {
			f, err := toFloat32(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("shape: corner-radius: %w", err)
			}
			p.CornerRadius = f
		}
		if v, ok := pa.kw["blob"]; ok {
			f, err := toFloat32(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("shape: blob: %w", err)
			}
			p.BlobAmount = f
		}
		if v, ok := pa.kw["subtract"]; ok {
			b, err := toBool(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("shape: subtract: %w", err)
			}
			p.Subtract = b
		}
		if v, ok := pa.kw["color"]; ok {
			c, err := toColor(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("shape: color: %w", err)
			}
			if err := s.SetColor(idx, c); err != nil {
				return zygo.SexpNull, fmt.Errorf("shape: color: %w", err)
			}
		}
		// Mirror last: it may reflect the placement set above.
		if v, ok := pa.kw["mirror"]; ok {
			m, err := toMirror(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("shape: mirror: %w", err)
			}
			if err := s.SetMirror(idx, m); err != nil {
				return zygo.SexpNull, fmt.Errorf("shape: mirror: %w", err)
			}
		}

		return &sexpShapeRef{index: idx}, nil
	})

	// -----------------------------------------------------------------------
	// (select 0) or (select my-shape)
	// -----------------------------------------------------------------------
	env.AddFunction("select", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("select requires exactly 1 argument, got %d", len(args))
		}
		i, err := toInt(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("select: %w", err)
		}
		if err := s.Select(i); err != nil {
			return zygo.SexpNull, fmt.Errorf("select: %w", err)
		}
		return &sexpShapeRef{index: i}, nil
	})

	// -----------------------------------------------------------------------
	// (clear-selection)
	// -----------------------------------------------------------------------
	env.AddFunction("clear_selection", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		s.ClearSelection()
		return zygo.SexpNull, nil
	})

	// -----------------------------------------------------------------------
	// (delete-shape 2)
	//
	// Indices of later shapes shift down by one, so references returned by
	// earlier (shape ...) forms may go stale.
	// -----------------------------------------------------------------------
	env.AddFunction("delete_shape", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("delete-shape requires exactly 1 argument, got %d", len(args))
		}
		i, err := toInt(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("delete-shape: %w", err)
		}
		if err := s.Delete(i); err != nil {
			return zygo.SexpNull, fmt.Errorf("delete-shape: %w", err)
		}
		return zygo.SexpNull, nil
	})
}
