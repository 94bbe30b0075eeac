package engine

import (
	"math"
	"strings"

	"github.com/inamate/svgedit/internal/pathdata"
)

// Matrix2D holds the six values of an SVG matrix(a b c d e f) transform in
// that order. A point maps as x' = a*x + c*y + e, y' = b*x + d*y + f.
type Matrix2D [6]float64

func Identity() Matrix2D { return Matrix2D{1, 0, 0, 1, 0, 0} }

// Translate is translate(tx ty).
func Translate(tx, ty float64) Matrix2D { return Matrix2D{1, 0, 0, 1, tx, ty} }

// Scale is scale(sx sy).
func Scale(sx, sy float64) Matrix2D { return Matrix2D{sx, 0, 0, sy, 0, 0} }

func radians(deg float64) float64 { return deg * math.Pi / 180 }

// RotateDegrees is rotate(a) about the origin.
func RotateDegrees(deg float64) Matrix2D {
	s, c := math.Sincos(radians(deg))
	return Matrix2D{c, s, -s, c, 0, 0}
}

// RotateAround is rotate(a cx cy).
func RotateAround(deg, cx, cy float64) Matrix2D {
	return Translate(cx, cy).Multiply(RotateDegrees(deg)).Multiply(Translate(-cx, -cy))
}

// SkewX is skewX(a).
func SkewX(deg float64) Matrix2D { return Matrix2D{1, 0, math.Tan(radians(deg)), 1, 0, 0} }

// SkewY is skewY(a).
func SkewY(deg float64) Matrix2D { return Matrix2D{1, math.Tan(radians(deg)), 0, 1, 0, 0} }

// Multiply returns m·n, the transform that applies n and then m. This is
// the order of a transform list read left to right.
func (m Matrix2D) Multiply(n Matrix2D) Matrix2D {
	a, b, c, d, e, f := m[0], m[1], m[2], m[3], m[4], m[5]
	return Matrix2D{
		a*n[0] + c*n[1],
		b*n[0] + d*n[1],
		a*n[2] + c*n[3],
		b*n[2] + d*n[3],
		a*n[4] + c*n[5] + e,
		b*n[4] + d*n[5] + f,
	}
}

func (m Matrix2D) TransformPoint(x, y float64) (float64, float64) {
	dx, dy := m.TransformVector(x, y)
	return dx + m[4], dy + m[5]
}

// TransformVector maps a displacement, ignoring e and f.
func (m Matrix2D) TransformVector(dx, dy float64) (float64, float64) {
	return m[0]*dx + m[2]*dy, m[1]*dx + m[3]*dy
}

// TransformRect maps the corners of r and returns their axis-aligned bounds.
func (m Matrix2D) TransformRect(r Rect) Rect {
	corners := [4][2]float64{
		{r.X, r.Y},
		{r.X + r.Width, r.Y},
		{r.X + r.Width, r.Y + r.Height},
		{r.X, r.Y + r.Height},
	}
	var out Rect
	for i, p := range corners {
		x, y := m.TransformPoint(p[0], p[1])
		if i == 0 {
			out = Rect{X: x, Y: y}
			continue
		}
		out = out.Extend(Rect{X: x, Y: y})
	}
	return out
}

// Determinant is a*d - b*c, the signed area scale of the transform.
func (m Matrix2D) Determinant() float64 {
	return m[0]*m[3] - m[1]*m[2]
}

// Invert returns the inverse transform. A singular matrix inverts to identity.
func (m Matrix2D) Invert() Matrix2D {
	det := m.Determinant()
	if det == 0 {
		return Identity()
	}
	a, b, c, d, e, f := m[0]/det, m[1]/det, m[2]/det, m[3]/det, m[4], m[5]
	return Matrix2D{
		d, -b,
		-c, a,
		c*f - d*e, b*e - a*f,
	}
}

func (m Matrix2D) IsIdentity() bool {
	const eps = 1e-10
	id := Identity()
	for i := range m {
		if math.Abs(m[i]-id[i]) >= eps {
			return false
		}
	}
	return true
}

// String formats m as an SVG transform function, matrix(a b c d e f).
func (m Matrix2D) String() string {
	parts := make([]string, len(m))
	for i, v := range m {
		parts[i] = pathdata.FormatNumber(v)
	}
	return "matrix(" + strings.Join(parts, " ") + ")"
}
