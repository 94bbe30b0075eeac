package editor

import (
	"math"

	"golang.org/x/net/html"

	"github.com/inamate/svgedit/internal/engine"
	"github.com/inamate/svgedit/internal/pathdata"
	"github.com/inamate/svgedit/internal/svgdom"
)

const minShapeSize = 1.0

// shapeSnapshot freezes an element's attributes at pointer-down. Every drag
// frame is computed from it, so replaying a pointer position is idempotent.
type shapeSnapshot struct {
	node  *html.Node
	attrs []html.Attribute
}

func snapshotOf(n *html.Node) shapeSnapshot {
	return shapeSnapshot{node: n, attrs: append([]html.Attribute(nil), n.Attr...)}
}

// view returns a detached node carrying the snapshot attributes, so the
// engine attribute helpers can read them.
func (s shapeSnapshot) view() *html.Node {
	return &html.Node{Type: html.ElementNode, Data: s.node.Data, Namespace: s.node.Namespace, Attr: s.attrs}
}

func (s shapeSnapshot) restore() {
	s.node.Attr = append([]html.Attribute(nil), s.attrs...)
}

// movesByTransform reports whether whole-element moves rewrite the
// translate(...) of the transform list rather than positional attributes.
func movesByTransform(n *html.Node) bool {
	switch n.Data {
	case "path", "g":
		return true
	case "text":
		return len(pathdata.ScanNumbers(svgdom.Attr(n, "x"))) > 1 ||
			len(pathdata.ScanNumbers(svgdom.Attr(n, "y"))) > 1
	}
	return false
}

// translateShape moves the snapshot element by (dx, dy) root units.
func translateShape(root *html.Node, s shapeSnapshot, dx, dy float64) {
	n, v := s.node, s.view()
	if movesByTransform(v) {
		src := svgdom.Attr(v, "transform")
		tx, ty, _, prefix := engine.TranslateOf(src)
		pdx, pdy := engine.ParentToRoot(root, n).Invert().TransformVector(dx, dy)
		tdx, tdy := prefix.Invert().TransformVector(pdx, pdy)
		svgdom.SetAttr(n, "transform", engine.SetTranslate(src, tx+tdx, ty+tdy))
		return
	}

	ldx, ldy := localDelta(root, n, dx, dy)
	shift := func(kx, ky string) {
		engine.SetNum(n, kx, engine.Num(v, kx)+ldx)
		engine.SetNum(n, ky, engine.Num(v, ky)+ldy)
	}
	switch n.Data {
	case "circle", "ellipse":
		shift("cx", "cy")
	case "line":
		shift("x1", "y1")
		shift("x2", "y2")
	case "polyline", "polygon":
		pts := engine.ParsePoints(svgdom.Attr(v, "points"))
		for i := range pts {
			pts[i].X += ldx
			pts[i].Y += ldy
		}
		svgdom.SetAttr(n, "points", engine.FormatPoints(pts))
	default:
		shift("x", "y")
	}
}

// rectCorners returns the local corners in handle order: top-left,
// top-right, bottom-right, bottom-left.
func rectCorners(n *html.Node) [4]engine.Point {
	x, y := engine.Num(n, "x"), engine.Num(n, "y")
	w, h := engine.Num(n, "width"), engine.Num(n, "height")
	return [4]engine.Point{{X: x, Y: y}, {X: x + w, Y: y}, {X: x + w, Y: y + h}, {X: x, Y: y + h}}
}

// resizeRect moves corner idx of the snapshot rect by the local delta,
// anchored at the opposite corner. Width and height never drop below 1.
func resizeRect(s shapeSnapshot, idx int, ldx, ldy float64) {
	corners := rectCorners(s.view())
	drag := corners[idx]
	anchor := corners[(idx+2)%4]
	px, py := drag.X+ldx, drag.Y+ldy

	var x, y, w, h float64
	if idx == 0 || idx == 3 {
		w = math.Max(minShapeSize, anchor.X-px)
		x = anchor.X - w
	} else {
		w = math.Max(minShapeSize, px-anchor.X)
		x = anchor.X
	}
	if idx == 0 || idx == 1 {
		h = math.Max(minShapeSize, anchor.Y-py)
		y = anchor.Y - h
	} else {
		h = math.Max(minShapeSize, py-anchor.Y)
		y = anchor.Y
	}
	n := s.node
	engine.SetNum(n, "x", x)
	engine.SetNum(n, "y", y)
	engine.SetNum(n, "width", w)
	engine.SetNum(n, "height", h)
}

// edgePoints returns the edge handle positions of a circle or ellipse:
// right, left, bottom, top.
func edgePoints(n *html.Node) [4]engine.Point {
	cx, cy := engine.Num(n, "cx"), engine.Num(n, "cy")
	rx, ry := engine.Num(n, "rx"), engine.Num(n, "ry")
	if n.Data == "circle" {
		rx = engine.Num(n, "r")
		ry = rx
	}
	return [4]engine.Point{{X: cx + rx, Y: cy}, {X: cx - rx, Y: cy}, {X: cx, Y: cy + ry}, {X: cx, Y: cy - ry}}
}

// resizeRadius sets the radius from the center to the local pointer (lx, ly).
// Ellipse handles 0 and 1 control rx, 2 and 3 control ry.
func resizeRadius(s shapeSnapshot, idx int, lx, ly float64) {
	v, n := s.view(), s.node
	cx, cy := engine.Num(v, "cx"), engine.Num(v, "cy")
	switch n.Data {
	case "circle":
		engine.SetNum(n, "r", math.Max(minShapeSize, math.Hypot(lx-cx, ly-cy)))
	case "ellipse":
		if idx < 2 {
			engine.SetNum(n, "rx", math.Max(minShapeSize, math.Abs(lx-cx)))
		} else {
			engine.SetNum(n, "ry", math.Max(minShapeSize, math.Abs(ly-cy)))
		}
	}
}

// moveLineEndpoint moves endpoint idx (0 = x1/y1, 1 = x2/y2) by a local delta.
func moveLineEndpoint(s shapeSnapshot, idx int, ldx, ldy float64) {
	kx, ky := "x1", "y1"
	if idx == 1 {
		kx, ky = "x2", "y2"
	}
	v := s.view()
	engine.SetNum(s.node, kx, engine.Num(v, kx)+ldx)
	engine.SetNum(s.node, ky, engine.Num(v, ky)+ldy)
}

// moveVertex moves polyline/polygon vertex idx by a local delta.
func moveVertex(s shapeSnapshot, idx int, ldx, ldy float64) {
	pts := engine.ParsePoints(svgdom.Attr(s.view(), "points"))
	if idx < 0 || idx >= len(pts) {
		return
	}
	pts[idx].X += ldx
	pts[idx].Y += ldy
	svgdom.SetAttr(s.node, "points", engine.FormatPoints(pts))
}

// movePathPoint rewrites the owning command of point idx of the snapshot
// path, converting relative commands against the snapshot pen position.
func movePathPoint(s shapeSnapshot, cmds []pathdata.Command, idx int, ldx, ldy float64) {
	pts := pathdata.Points(cmds)
	if idx < 0 || idx >= len(pts) {
		return
	}
	p := pts[idx]
	moved := pathdata.MovePoint(cmds, p, p.X+ldx, p.Y+ldy)
	svgdom.SetAttr(s.node, "d", pathdata.Serialize(moved))
}
