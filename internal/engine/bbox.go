package engine

import (
	"errors"
	"math"

	"github.com/mattn/go-runewidth"
	"golang.org/x/net/html"

	"github.com/inamate/svgedit/internal/pathdata"
	"github.com/inamate/svgedit/internal/svgdom"
)

// ErrNoBBox is returned for elements without a computable bounding box:
// hidden, detached, empty or non-geometric elements.
var ErrNoBBox = errors.New("no bounding box")

const (
	defaultFontSize = 16.0
	// Average advance of one display cell and the ascent, as fractions of
	// the font size.
	glyphAdvance = 0.6
	glyphAscent  = 0.8
)

// BBox returns the element's bounding box in its local user space, excluding
// its own transform, like SVGGraphicsElement.getBBox.
func BBox(n *html.Node) (Rect, error) {
	return bbox(n, nil)
}

// ContentBBox returns the union of the bounding boxes of root's children in
// root user space. Children for which skip returns true are ignored.
func ContentBBox(root *html.Node, skip func(*html.Node) bool) (Rect, error) {
	return groupBBox(root, skip)
}

func bbox(n *html.Node, skip func(*html.Node) bool) (Rect, error) {
	if !svgdom.IsElement(n) || Hidden(n) || IsNonVisual(n.Data) {
		return Rect{}, ErrNoBBox
	}
	switch n.Data {
	case "rect", "image", "use", "foreignObject":
		w, h := Num(n, "width"), Num(n, "height")
		if n.Data == "use" && !svgdom.HasAttr(n, "width") {
			return Rect{}, ErrNoBBox
		}
		return Rect{X: Num(n, "x"), Y: Num(n, "y"), Width: w, Height: h}, nil

	case "circle":
		r := Num(n, "r")
		return Rect{X: Num(n, "cx") - r, Y: Num(n, "cy") - r, Width: 2 * r, Height: 2 * r}, nil

	case "ellipse":
		rx, ry := Num(n, "rx"), Num(n, "ry")
		return Rect{X: Num(n, "cx") - rx, Y: Num(n, "cy") - ry, Width: 2 * rx, Height: 2 * ry}, nil

	case "line":
		return RectFromPoints(
			[]float64{Num(n, "x1"), Num(n, "x2")},
			[]float64{Num(n, "y1"), Num(n, "y2")},
		), nil

	case "polyline", "polygon":
		pts := ParsePoints(svgdom.Attr(n, "points"))
		if len(pts) == 0 {
			return Rect{}, ErrNoBBox
		}
		xs := make([]float64, len(pts))
		ys := make([]float64, len(pts))
		for i, p := range pts {
			xs[i], ys[i] = p.X, p.Y
		}
		return RectFromPoints(xs, ys), nil

	case "path":
		minX, minY, maxX, maxY, ok := pathdata.Bounds(pathdata.Parse(svgdom.Attr(n, "d")))
		if !ok {
			return Rect{}, ErrNoBBox
		}
		return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}, nil

	case "text":
		return textBBox(n)

	case "g", "a", "svg":
		return groupBBox(n, skip)
	}
	return Rect{}, ErrNoBBox
}

// groupBBox unions children boxes mapped through each child's transform.
func groupBBox(n *html.Node, skip func(*html.Node) bool) (Rect, error) {
	var out Rect
	found := false
	for _, c := range svgdom.Children(n) {
		if skip != nil && skip(c) {
			continue
		}
		b, err := bbox(c, skip)
		if err != nil {
			continue
		}
		b = ParseTransform(svgdom.Attr(c, "transform")).TransformRect(b)
		if !found {
			out = b
			found = true
		} else {
			out = out.Extend(b)
		}
	}
	if !found {
		return Rect{}, ErrNoBBox
	}
	return out, nil
}

// FontSize returns the effective font size of a text element.
func FontSize(n *html.Node) float64 {
	for p := n; p != nil; p = p.Parent {
		if p.Type != html.ElementNode {
			continue
		}
		if v, ok := LookupNum(p, "font-size"); ok && v > 0 {
			return v
		}
	}
	return defaultFontSize
}

// textBBox estimates a text box from the font size and the display width of
// the content in terminal-style cells (wide glyphs count double).
func textBBox(n *html.Node) (Rect, error) {
	content := svgdom.Text(n)
	fs := FontSize(n)
	w := float64(runewidth.StringWidth(content)) * fs * glyphAdvance
	x, y := Num(n, "x"), Num(n, "y")
	switch inherited(n, "text-anchor") {
	case "middle":
		x -= w / 2
	case "end":
		x -= w
	}
	return Rect{X: x, Y: y - fs*glyphAscent, Width: w, Height: fs}, nil
}

// strokeWidth returns the effective stroke width, defaulting to 1.
func strokeWidth(n *html.Node) float64 {
	s := inherited(n, "stroke-width")
	if s == "" {
		return 1
	}
	nums := pathdata.ScanNumbers(s)
	if len(nums) == 0 {
		return 1
	}
	return math.Abs(nums[0])
}
