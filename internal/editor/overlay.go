package editor

import (
	"strconv"

	"golang.org/x/net/html"

	"github.com/inamate/svgedit/internal/engine"
	"github.com/inamate/svgedit/internal/pathdata"
	"github.com/inamate/svgedit/internal/svgdom"
)

const (
	handleFill   = "#ffffff"
	handleStroke = "#2f7cf6"
	controlFill  = "#f6a22f"
	guideStroke  = "#9aa4b2"
)

// overlayNode creates an editor-owned SVG element. A non-empty handleType
// makes it a hit-testable handle with the given index.
func overlayNode(tag string, handleType HandleType, index int, attrs ...string) *html.Node {
	n := svgdom.NewElement(tag, append([]string{"class", OverlayClass}, attrs...)...)
	if handleType != "" {
		svgdom.SetAttr(n, attrHandleType, string(handleType))
		svgdom.SetAttr(n, attrHandleIndex, strconv.Itoa(index))
	}
	return n
}

func dash(d float64) string {
	s := pathdata.FormatNumber(d)
	return s + " " + s
}

func (e *Editor) addOverlay(n *html.Node) {
	e.root.AppendChild(n)
	e.overlay = append(e.overlay, n)
}

func (e *Editor) clearOverlay() {
	for _, n := range e.overlay {
		svgdom.Detach(n)
	}
	e.overlay = nil
}

// renderOverlay rebuilds every selection overlay from the live geometry and
// the current zoom. Bounding boxes are drawn for all selected elements,
// handles only for a single selection.
func (e *Editor) renderOverlay() {
	e.clearOverlay()
	if e.disposed || len(e.selection) == 0 {
		return
	}
	px := e.ScreenDistanceToSVG(1)
	for _, n := range e.selection {
		b, ok := e.rootBBox(n)
		if !ok {
			continue
		}
		e.addOverlay(overlayNode("rect", "", -1,
			"x", pathdata.FormatNumber(b.X),
			"y", pathdata.FormatNumber(b.Y),
			"width", pathdata.FormatNumber(b.Width),
			"height", pathdata.FormatNumber(b.Height),
			"fill", "none",
			"stroke", handleStroke,
			"stroke-width", pathdata.FormatNumber(px),
			"stroke-dasharray", dash(4*px),
			"pointer-events", "none",
		))
	}
	if len(e.selection) == 1 {
		e.renderHandles(e.primary, px)
	}
}

func (e *Editor) renderHandles(el *html.Node, px float64) {
	m := engine.LocalToRoot(e.root, el)
	r := e.opts.handleRadius * px
	at := func(p engine.Point) engine.Point {
		x, y := m.TransformPoint(p.X, p.Y)
		return engine.Point{X: x, Y: y}
	}

	switch el.Data {
	case "rect":
		for i, c := range rectCorners(el) {
			e.addOverlay(squareHandle(HandleCorner, i, at(c), r, px))
		}
	case "circle", "ellipse":
		for i, c := range edgePoints(el) {
			e.addOverlay(squareHandle(HandleEdge, i, at(c), r, px))
		}
	case "line":
		ends := []engine.Point{
			{X: engine.Num(el, "x1"), Y: engine.Num(el, "y1")},
			{X: engine.Num(el, "x2"), Y: engine.Num(el, "y2")},
		}
		for i, p := range ends {
			e.addOverlay(circleHandle(HandleEndpoint, i, at(p), r, px))
		}
	case "polyline", "polygon":
		for i, p := range engine.ParsePoints(svgdom.Attr(el, "points")) {
			e.addOverlay(circleHandle(HandleEndpoint, i, at(p), r, px))
		}
	case "path":
		cmds := pathdata.Parse(svgdom.Attr(el, "d"))
		pts := pathdata.Points(cmds)
		// Guides first so handles paint above them.
		for _, p := range pts {
			if ax, ay, ok := pathdata.Anchor(cmds, p); ok {
				a, c := at(engine.Point{X: ax, Y: ay}), at(engine.Point{X: p.X, Y: p.Y})
				e.addOverlay(overlayNode("line", "", -1,
					"x1", pathdata.FormatNumber(a.X), "y1", pathdata.FormatNumber(a.Y),
					"x2", pathdata.FormatNumber(c.X), "y2", pathdata.FormatNumber(c.Y),
					"stroke", guideStroke,
					"stroke-width", pathdata.FormatNumber(px),
					"pointer-events", "none",
				))
			}
		}
		for i, p := range pts {
			c := at(engine.Point{X: p.X, Y: p.Y})
			if p.Type == pathdata.PointControl {
				e.addOverlay(diamondHandle(i, c, r, px))
			} else {
				e.addOverlay(circleHandle(HandleEndpoint, i, c, r, px))
			}
		}
	}
}

func circleHandle(t HandleType, i int, c engine.Point, r, px float64) *html.Node {
	return overlayNode("circle", t, i,
		"cx", pathdata.FormatNumber(c.X),
		"cy", pathdata.FormatNumber(c.Y),
		"r", pathdata.FormatNumber(r),
		"fill", handleFill,
		"stroke", handleStroke,
		"stroke-width", pathdata.FormatNumber(px),
	)
}

func squareHandle(t HandleType, i int, c engine.Point, r, px float64) *html.Node {
	return overlayNode("rect", t, i,
		"x", pathdata.FormatNumber(c.X-r),
		"y", pathdata.FormatNumber(c.Y-r),
		"width", pathdata.FormatNumber(2*r),
		"height", pathdata.FormatNumber(2*r),
		"fill", handleFill,
		"stroke", handleStroke,
		"stroke-width", pathdata.FormatNumber(px),
	)
}

func diamondHandle(i int, c engine.Point, r, px float64) *html.Node {
	pts := []engine.Point{{X: c.X, Y: c.Y - r}, {X: c.X + r, Y: c.Y}, {X: c.X, Y: c.Y + r}, {X: c.X - r, Y: c.Y}}
	return overlayNode("polygon", HandleControl, i,
		"points", engine.FormatPoints(pts),
		"fill", controlFill,
		"stroke", handleStroke,
		"stroke-width", pathdata.FormatNumber(px),
	)
}

// OverlayMarkup renders the current overlay nodes, for hosts that draw the
// editor chrome separately from the document.
func (e *Editor) OverlayMarkup() (string, error) {
	var out string
	for _, n := range e.overlay {
		s, err := svgdom.Render(n)
		if err != nil {
			return "", err
		}
		out += s
	}
	if e.marquee != nil && e.marquee.rect != nil {
		s, err := svgdom.Render(e.marquee.rect)
		if err != nil {
			return "", err
		}
		out += s
	}
	if e.text != nil {
		s, err := svgdom.Render(e.text.overlay)
		if err != nil {
			return "", err
		}
		out += s
	}
	return out, nil
}
