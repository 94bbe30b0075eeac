package engine

import (
	"math"

	"golang.org/x/net/html"

	"github.com/inamate/svgedit/internal/pathdata"
	"github.com/inamate/svgedit/internal/svgdom"
)

// ElementsAt returns every element under the screen point (sx, sy), topmost
// first, like document.elementsFromPoint restricted to root's subtree.
// Descendants come before the containers holding them; root itself is not
// reported. screenCTM maps root user space to screen pixels and tol is a
// screen-pixel slop applied to thin geometry.
func ElementsAt(root *html.Node, sx, sy float64, screenCTM Matrix2D, tol float64) []*html.Node {
	if root == nil {
		return nil
	}
	var hits []*html.Node
	hitTestChildren(root, sx, sy, screenCTM, tol, &hits)
	return hits
}

// hitTestChildren visits children front to back (reverse paint order).
func hitTestChildren(n *html.Node, sx, sy float64, ctm Matrix2D, tol float64, hits *[]*html.Node) bool {
	found := false
	for c := n.LastChild; c != nil; c = c.PrevSibling {
		if hitTestNode(c, sx, sy, ctm, tol, hits) {
			found = true
		}
	}
	return found
}

func hitTestNode(n *html.Node, sx, sy float64, parentCTM Matrix2D, tol float64, hits *[]*html.Node) bool {
	if n.Type != html.ElementNode || n.Namespace != "svg" || IsNonVisual(n.Data) {
		return false
	}
	if svgdom.Attr(n, "display") == "none" {
		return false
	}
	ctm := parentCTM.Multiply(ParseTransform(svgdom.Attr(n, "transform")))

	switch n.Data {
	case "g", "a", "svg", "switch":
		if hitTestChildren(n, sx, sy, ctm, tol, hits) {
			*hits = append(*hits, n)
			return true
		}
		return false
	}

	if inherited(n, "pointer-events") == "none" {
		return false
	}
	det := ctm.Determinant()
	if det == 0 {
		return false
	}
	lx, ly := ctm.Invert().TransformPoint(sx, sy)
	ltol := tol / math.Sqrt(math.Abs(det))
	if containsPoint(n, lx, ly, ltol) {
		*hits = append(*hits, n)
		return true
	}
	return false
}

// containsPoint tests a local-space point against the element's geometry.
func containsPoint(n *html.Node, x, y, tol float64) bool {
	switch n.Data {
	case "circle":
		cx, cy, r := Num(n, "cx"), Num(n, "cy"), Num(n, "r")
		return math.Hypot(x-cx, y-cy) <= r+tol

	case "ellipse":
		cx, cy := Num(n, "cx"), Num(n, "cy")
		rx, ry := Num(n, "rx")+tol, Num(n, "ry")+tol
		if rx <= 0 || ry <= 0 {
			return false
		}
		dx, dy := (x-cx)/rx, (y-cy)/ry
		return dx*dx+dy*dy <= 1

	case "line":
		reach := max(strokeWidth(n)/2, tol)
		return segmentDistance(x, y, Num(n, "x1"), Num(n, "y1"), Num(n, "x2"), Num(n, "y2")) <= reach

	case "polyline", "polygon":
		pts := ParsePoints(svgdom.Attr(n, "points"))
		if len(pts) == 0 {
			return false
		}
		closed := n.Data == "polygon"
		if closed && pointInPolygon(x, y, pts) {
			return true
		}
		return nearPolyline(x, y, pts, closed, max(strokeWidth(n)/2, tol))

	case "path":
		// Approximated by the control hull box.
		minX, minY, maxX, maxY, ok := pathdata.Bounds(pathdata.Parse(svgdom.Attr(n, "d")))
		if !ok {
			return false
		}
		r := Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
		return r.Inflate(max(strokeWidth(n)/2, tol)).Contains(x, y)
	}

	b, err := BBox(n)
	if err != nil {
		return false
	}
	return b.Contains(x, y)
}

func segmentDistance(px, py, x1, y1, x2, y2 float64) float64 {
	dx, dy := x2-x1, y2-y1
	l2 := dx*dx + dy*dy
	if l2 == 0 {
		return math.Hypot(px-x1, py-y1)
	}
	t := ((px-x1)*dx + (py-y1)*dy) / l2
	t = math.Max(0, math.Min(1, t))
	return math.Hypot(px-(x1+t*dx), py-(y1+t*dy))
}

func nearPolyline(x, y float64, pts []Point, closed bool, reach float64) bool {
	if len(pts) == 1 {
		return math.Hypot(x-pts[0].X, y-pts[0].Y) <= reach
	}
	for i := 0; i+1 < len(pts); i++ {
		if segmentDistance(x, y, pts[i].X, pts[i].Y, pts[i+1].X, pts[i+1].Y) <= reach {
			return true
		}
	}
	if closed {
		a, b := pts[len(pts)-1], pts[0]
		return segmentDistance(x, y, a.X, a.Y, b.X, b.Y) <= reach
	}
	return false
}

// pointInPolygon is the even-odd ray casting test.
func pointInPolygon(x, y float64, pts []Point) bool {
	in := false
	for i, j := 0, len(pts)-1; i < len(pts); j, i = i, i+1 {
		a, b := pts[i], pts[j]
		if (a.Y > y) != (b.Y > y) && x < (b.X-a.X)*(y-a.Y)/(b.Y-a.Y)+a.X {
			in = !in
		}
	}
	return in
}
