package engine

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/inamate/svgedit/internal/pathdata"
	"github.com/inamate/svgedit/internal/svgdom"
)

// Num returns the first number of a numeric attribute ("12", "12px",
// "10 20 30" for text x lists), or 0 when missing.
func Num(n *html.Node, key string) float64 {
	v, _ := LookupNum(n, key)
	return v
}

// LookupNum is Num that also reports whether a number was found.
func LookupNum(n *html.Node, key string) (float64, bool) {
	s, ok := svgdom.LookupAttr(n, key)
	if !ok {
		return 0, false
	}
	nums := pathdata.ScanNumbers(s)
	if len(nums) == 0 {
		return 0, false
	}
	return nums[0], true
}

// SetNum writes a number attribute rounded to 3 decimals.
func SetNum(n *html.Node, key string, v float64) {
	svgdom.SetAttr(n, key, pathdata.FormatNumber(v))
}

// Point is a 2D coordinate.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// ParsePoints parses a polyline/polygon points attribute. A trailing odd
// coordinate is ignored.
func ParsePoints(s string) []Point {
	nums := pathdata.ScanNumbers(s)
	pts := make([]Point, 0, len(nums)/2)
	for i := 0; i+1 < len(nums); i += 2 {
		pts = append(pts, Point{X: nums[i], Y: nums[i+1]})
	}
	return pts
}

// FormatPoints renders a points attribute.
func FormatPoints(pts []Point) string {
	parts := make([]string, len(pts))
	for i, p := range pts {
		parts[i] = pathdata.FormatNumber(p.X) + "," + pathdata.FormatNumber(p.Y)
	}
	return strings.Join(parts, " ")
}

// ParseViewBox parses "x y w h". ok is false for malformed values or
// non-positive sizes.
func ParseViewBox(s string) (Rect, bool) {
	nums := pathdata.ScanNumbers(s)
	if len(nums) != 4 || nums[2] <= 0 || nums[3] <= 0 {
		return Rect{}, false
	}
	return Rect{X: nums[0], Y: nums[1], Width: nums[2], Height: nums[3]}, true
}

// FormatViewBox renders a viewBox attribute value.
func FormatViewBox(r Rect) string {
	return pathdata.FormatNumber(r.X) + " " + pathdata.FormatNumber(r.Y) + " " +
		pathdata.FormatNumber(r.Width) + " " + pathdata.FormatNumber(r.Height)
}

// ViewportMatrix maps viewBox user space onto the client rectangle the root
// occupies on screen, following preserveAspectRatio "xMidYMid meet" unless
// par is "none". An empty client rect yields identity.
func ViewportMatrix(viewBox Rect, hasViewBox bool, client Rect, par string) Matrix2D {
	if client.IsEmpty() {
		return Identity()
	}
	if !hasViewBox || viewBox.IsEmpty() {
		return Translate(client.X, client.Y)
	}
	sx := client.Width / viewBox.Width
	sy := client.Height / viewBox.Height
	if strings.TrimSpace(par) == "none" {
		return Matrix2D{sx, 0, 0, sy, client.X - viewBox.X*sx, client.Y - viewBox.Y*sy}
	}
	s := min(sx, sy)
	tx := client.X + (client.Width-viewBox.Width*s)/2 - viewBox.X*s
	ty := client.Y + (client.Height-viewBox.Height*s)/2 - viewBox.Y*s
	return Matrix2D{s, 0, 0, s, tx, ty}
}

// LocalToRoot returns the matrix from el's local user space to root's user
// space: the product of every transform attribute from just below root down
// to el inclusive. Elements outside root get their own chain up to the top.
func LocalToRoot(root, el *html.Node) Matrix2D {
	var chain []*html.Node
	for n := el; n != nil && n != root; n = n.Parent {
		if n.Type == html.ElementNode {
			chain = append(chain, n)
		}
	}
	m := Identity()
	for i := len(chain) - 1; i >= 0; i-- {
		m = m.Multiply(ParseTransform(svgdom.Attr(chain[i], "transform")))
	}
	return m
}

// ParentToRoot returns the matrix from el's parent coordinate space (the
// space its transform attribute is expressed in) to root user space.
func ParentToRoot(root, el *html.Node) Matrix2D {
	if el == nil || el.Parent == nil || el.Parent == root {
		return Identity()
	}
	return LocalToRoot(root, el.Parent)
}

// nonVisual tags never render or hit-test; neither do their descendants.
var nonVisual = map[string]bool{
	"defs":           true,
	"style":          true,
	"script":         true,
	"metadata":       true,
	"title":          true,
	"desc":           true,
	"filter":         true,
	"linearGradient": true,
	"radialGradient": true,
	"mask":           true,
	"pattern":        true,
	"clipPath":       true,
	"marker":         true,
	"symbol":         true,
	"stop":           true,
}

// IsNonVisual reports whether tag is structural or paint-server markup.
func IsNonVisual(tag string) bool {
	return nonVisual[tag]
}

// inherited walks up from n for an inheritable presentation attribute.
func inherited(n *html.Node, key string) string {
	for p := n; p != nil; p = p.Parent {
		if p.Type != html.ElementNode {
			continue
		}
		if v, ok := svgdom.LookupAttr(p, key); ok && v != "inherit" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

// Hidden reports whether n or an ancestor has display="none" or is a
// non-rendering container such as defs, or n is detached from any document.
func Hidden(n *html.Node) bool {
	if n == nil || n.Parent == nil {
		return true
	}
	for p := n; p != nil; p = p.Parent {
		if p.Type != html.ElementNode {
			continue
		}
		if strings.TrimSpace(svgdom.Attr(p, "display")) == "none" || (p != n && nonVisual[p.Data]) {
			return true
		}
	}
	return false
}
