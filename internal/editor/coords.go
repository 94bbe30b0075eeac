package editor

import (
	"math"

	"golang.org/x/net/html"

	"github.com/inamate/svgedit/internal/engine"
	"github.com/inamate/svgedit/internal/svgdom"
)

func (e *Editor) clientRect() engine.Rect {
	if e.surface == nil {
		return engine.Rect{}
	}
	return e.surface.ClientRect()
}

// screenCTM maps root user space to screen pixels. Without a laid-out
// surface it is identity and screen coordinates are used as-is.
func (e *Editor) screenCTM() engine.Matrix2D {
	return engine.ViewportMatrix(e.viewBox, true, e.clientRect(), svgdom.Attr(e.root, "preserveAspectRatio"))
}

// ScreenToSVG converts a screen point to root user space.
func (e *Editor) ScreenToSVG(x, y float64) (float64, float64) {
	return e.screenCTM().Invert().TransformPoint(x, y)
}

// SVGToScreen converts a root user space point to screen pixels.
func (e *Editor) SVGToScreen(x, y float64) (float64, float64) {
	return e.screenCTM().TransformPoint(x, y)
}

// ScreenDistanceToSVG converts a screen distance to root user units at the
// current zoom.
func (e *Editor) ScreenDistanceToSVG(d float64) float64 {
	x0, y0 := e.ScreenToSVG(0, 0)
	x1, y1 := e.ScreenToSVG(d, 0)
	return math.Hypot(x1-x0, y1-y0)
}

// LocalToSVGRoot converts a point in el's local user space to root user space.
func (e *Editor) LocalToSVGRoot(el *html.Node, lx, ly float64) (float64, float64) {
	return engine.LocalToRoot(e.root, el).TransformPoint(lx, ly)
}

// rootBBox returns el's bounding box in root space: the four local corners
// mapped through its CTM, then axis aligned.
func (e *Editor) rootBBox(el *html.Node) (engine.Rect, bool) {
	b, err := engine.BBox(el)
	if err != nil {
		e.log.Debug("no bounding box", "tag", el.Data, "error", err)
		return engine.Rect{}, false
	}
	return engine.LocalToRoot(e.root, el).TransformRect(b), true
}

// localDelta converts a root-space displacement into el's local space.
func localDelta(root, el *html.Node, dx, dy float64) (float64, float64) {
	return engine.LocalToRoot(root, el).Invert().TransformVector(dx, dy)
}
