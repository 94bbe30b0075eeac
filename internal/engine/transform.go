package engine

import (
	"regexp"
	"strings"

	"github.com/inamate/svgedit/internal/pathdata"
)

// TransformFunc is one function of an SVG transform list, with its byte
// offsets in the source attribute so it can be rewritten in place.
type TransformFunc struct {
	Name  string
	Args  []float64
	Start int
	End   int
}

var transformFuncRe = regexp.MustCompile(`([a-zA-Z]+)\s*\(([^)]*)\)`)

// ParseTransformList parses a transform attribute into its functions.
// Unknown function names are kept (they compose as identity).
func ParseTransformList(s string) []TransformFunc {
	var out []TransformFunc
	for _, m := range transformFuncRe.FindAllStringSubmatchIndex(s, -1) {
		out = append(out, TransformFunc{
			Name:  s[m[2]:m[3]],
			Args:  pathdata.ScanNumbers(s[m[4]:m[5]]),
			Start: m[0],
			End:   m[1],
		})
	}
	return out
}

// Matrix returns the matrix for a single transform function.
func (f TransformFunc) Matrix() Matrix2D {
	a := f.Args
	arg := func(i int, def float64) float64 {
		if i < len(a) {
			return a[i]
		}
		return def
	}
	switch f.Name {
	case "matrix":
		if len(a) >= 6 {
			return Matrix2D{a[0], a[1], a[2], a[3], a[4], a[5]}
		}
	case "translate":
		return Translate(arg(0, 0), arg(1, 0))
	case "scale":
		sx := arg(0, 1)
		return Scale(sx, arg(1, sx))
	case "rotate":
		if len(a) >= 3 {
			return RotateAround(a[0], a[1], a[2])
		}
		return RotateDegrees(arg(0, 0))
	case "skewX":
		return SkewX(arg(0, 0))
	case "skewY":
		return SkewY(arg(0, 0))
	}
	return Identity()
}

// ComposeTransforms multiplies a list of functions left to right.
func ComposeTransforms(funcs []TransformFunc) Matrix2D {
	m := Identity()
	for _, f := range funcs {
		m = m.Multiply(f.Matrix())
	}
	return m
}

// ParseTransform returns the matrix of a transform attribute value.
func ParseTransform(s string) Matrix2D {
	if strings.TrimSpace(s) == "" {
		return Identity()
	}
	return ComposeTransforms(ParseTransformList(s))
}

// TranslateOf returns the first translate(...) in the list, its index in the
// parsed functions, and the matrix of everything before it. When there is no
// translate, index is -1 and the prefix is identity (a new translate is
// prepended by SetTranslate).
func TranslateOf(s string) (tx, ty float64, index int, prefix Matrix2D) {
	funcs := ParseTransformList(s)
	prefix = Identity()
	for i, f := range funcs {
		if f.Name == "translate" {
			m := f.Matrix()
			return m[4], m[5], i, prefix
		}
		prefix = prefix.Multiply(f.Matrix())
	}
	return 0, 0, -1, Identity()
}

// SetTranslate replaces the first translate(...) function in a transform
// list, or prepends one, leaving every other function untouched.
func SetTranslate(s string, tx, ty float64) string {
	token := "translate(" + pathdata.FormatNumber(tx) + "," + pathdata.FormatNumber(ty) + ")"
	for _, f := range ParseTransformList(s) {
		if f.Name == "translate" {
			return s[:f.Start] + token + s[f.End:]
		}
	}
	rest := strings.TrimSpace(s)
	if rest == "" {
		return token
	}
	return token + " " + rest
}
