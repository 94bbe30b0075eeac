package editor

import (
	"strconv"

	"golang.org/x/net/html"

	"github.com/inamate/svgedit/internal/engine"
	"github.com/inamate/svgedit/internal/svgdom"
)

// OverlayClass marks every node the editor adds to the scene.
const OverlayClass = "svg-editor-handle"

const (
	attrHandleType  = "data-handle-type"
	attrHandleIndex = "data-handle-index"
)

// HandleType identifies what a handle edits.
type HandleType string

const (
	HandleEndpoint HandleType = "endpoint"
	HandleControl  HandleType = "control"
	HandleCorner   HandleType = "corner"
	HandleEdge     HandleType = "edge"
)

// Handle is a hit overlay handle.
type Handle struct {
	Type  HandleType
	Index int
	Node  *html.Node
}

// Cursor returns the hover cursor for the handle.
func (h Handle) Cursor() string {
	switch h.Type {
	case HandleCorner:
		if h.Index%2 == 0 {
			return "nwse-resize"
		}
		return "nesw-resize"
	case HandleEdge:
		if h.Index < 2 {
			return "ew-resize"
		}
		return "ns-resize"
	}
	return "crosshair"
}

// isOverlay reports whether n is, or sits inside, an editor overlay node.
func isOverlay(n *html.Node) bool {
	for p := n; p != nil; p = p.Parent {
		if p.Type == html.ElementNode && svgdom.HasClass(p, OverlayClass) {
			return true
		}
	}
	return false
}

func (e *Editor) elementsAt(sx, sy float64) []*html.Node {
	return engine.ElementsAt(e.root, sx, sy, e.screenCTM(), e.opts.hitTolerance)
}

// editable reports whether n is a draggable direct child of the root or a
// child of one.
func (e *Editor) editable(n *html.Node) bool {
	if !svgdom.IsElement(n) || n == e.root || !ModelFor(n.Data).Drag {
		return false
	}
	p := n.Parent
	return p == e.root || (p != nil && p.Parent == e.root)
}

// HitTest returns the topmost editable element under the screen point, or
// nil. Overlay and non-visual nodes are never returned.
func (e *Editor) HitTest(sx, sy float64) *html.Node {
	for _, n := range e.elementsAt(sx, sy) {
		if isOverlay(n) || engine.IsNonVisual(n.Data) {
			continue
		}
		if e.editable(n) {
			return n
		}
	}
	return nil
}

// HitTestHandle returns the topmost overlay handle under the screen point.
func (e *Editor) HitTestHandle(sx, sy float64) (Handle, bool) {
	for _, n := range e.elementsAt(sx, sy) {
		if !svgdom.HasClass(n, OverlayClass) {
			continue
		}
		typ, ok := svgdom.LookupAttr(n, attrHandleType)
		if !ok {
			continue
		}
		idx, err := strconv.Atoi(svgdom.Attr(n, attrHandleIndex))
		if err != nil {
			e.log.Debug("handle without index", "type", typ)
			continue
		}
		return Handle{Type: HandleType(typ), Index: idx, Node: n}, true
	}
	return Handle{}, false
}

// updateHoverCursor is pure feedback for an idle pointer.
func (e *Editor) updateHoverCursor(sx, sy float64) {
	if h, ok := e.HitTestHandle(sx, sy); ok {
		e.setCursor(h.Cursor())
		return
	}
	if n := e.HitTest(sx, sy); n != nil {
		e.setCursor(ModelFor(n.Data).Cursor())
		return
	}
	e.setCursor("default")
}
