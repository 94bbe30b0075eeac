package editor

import (
	"math"

	"golang.org/x/net/html"

	"github.com/inamate/svgedit/internal/engine"
	"github.com/inamate/svgedit/internal/pathdata"
	"github.com/inamate/svgedit/internal/svgdom"
)

type dragKind int

const (
	dragTranslate dragKind = iota
	dragMultiTranslate
	dragLineWhole
	dragLineEndpoint
	dragPolyWhole
	dragPolyVertex
	dragPathPoint
	dragResize
	dragPan
)

func (k dragKind) String() string {
	switch k {
	case dragTranslate:
		return "translate"
	case dragMultiTranslate:
		return "multi-translate"
	case dragLineWhole:
		return "line-whole"
	case dragLineEndpoint:
		return "line-endpoint"
	case dragPolyWhole:
		return "poly-whole"
	case dragPolyVertex:
		return "poly-vertex"
	case dragPathPoint:
		return "path-point"
	case dragResize:
		return "resize"
	case dragPan:
		return "pan"
	}
	return "unknown"
}

// dragState is the single active drag. Geometry is always recomputed from
// the pointer-down snapshot and the current pointer position.
type dragState struct {
	kind dragKind

	// Root-space pointer position at pointer-down.
	startX, startY float64
	snaps          []shapeSnapshot
	handle         Handle
	path           []pathdata.Command

	// Pan state, in screen pixels.
	screenX, screenY float64
	viewBox          engine.Rect
	unitPerPx        float64
}

func wholeDragKind(tag string) dragKind {
	switch tag {
	case "line":
		return dragLineWhole
	case "polyline", "polygon":
		return dragPolyWhole
	}
	return dragTranslate
}

func (e *Editor) startDrag(kind dragKind, x, y float64, nodes ...*html.Node) {
	d := &dragState{kind: kind, startX: x, startY: y}
	for _, n := range nodes {
		d.snaps = append(d.snaps, snapshotOf(n))
	}
	e.drag = d
	e.log.Debug("drag started", "kind", kind, "elements", len(nodes))
}

// startHandleDrag begins a handle gesture on the primary element.
func (e *Editor) startHandleDrag(h Handle, x, y float64) {
	el := e.primary
	var kind dragKind
	switch {
	case h.Type == HandleCorner || h.Type == HandleEdge:
		kind = dragResize
	case el.Data == "line":
		kind = dragLineEndpoint
	case el.Data == "polyline" || el.Data == "polygon":
		kind = dragPolyVertex
	case el.Data == "path":
		kind = dragPathPoint
	default:
		e.log.Debug("handle has no gesture", "tag", el.Data, "handle", h.Type)
		return
	}
	e.startDrag(kind, x, y, el)
	e.drag.handle = h
	if kind == dragPathPoint {
		e.drag.path = pathdata.Parse(svgdom.Attr(el, "d"))
	}
}

// applyDrag recomputes the dragged geometry for the root-space pointer
// position (x, y).
func (e *Editor) applyDrag(x, y float64) {
	d := e.drag
	dx, dy := x-d.startX, y-d.startY

	switch d.kind {
	case dragTranslate, dragMultiTranslate, dragLineWhole, dragPolyWhole:
		for _, s := range d.snaps {
			translateShape(e.root, s, dx, dy)
		}
	default:
		s := d.snaps[0]
		ldx, ldy := localDelta(e.root, s.node, dx, dy)
		switch d.kind {
		case dragLineEndpoint:
			moveLineEndpoint(s, d.handle.Index, ldx, ldy)
		case dragPolyVertex:
			moveVertex(s, d.handle.Index, ldx, ldy)
		case dragPathPoint:
			movePathPoint(s, d.path, d.handle.Index, ldx, ldy)
		case dragResize:
			if s.node.Data == "rect" {
				resizeRect(s, d.handle.Index, ldx, ldy)
			} else {
				lx, ly := engine.LocalToRoot(e.root, s.node).Invert().TransformPoint(x, y)
				resizeRadius(s, d.handle.Index, lx, ly)
			}
		}
	}
	e.renderOverlay()
}

// endDrag finishes the active drag. The document is dirty only if the
// pointer travelled further than the dirty epsilon.
func (e *Editor) endDrag(x, y float64) {
	d := e.drag
	e.drag = nil
	if d.kind == dragPan {
		e.setCursor("default")
		return
	}
	moved := math.Hypot(x-d.startX, y-d.startY)
	e.log.Debug("drag ended", "kind", d.kind, "distance", moved)
	if moved > e.opts.dirtyEpsilon {
		e.markDirty()
	}
	e.renderOverlay()
}

// cancelDrag restores every dragged element to its pointer-down geometry.
func (e *Editor) cancelDrag() {
	d := e.drag
	e.drag = nil
	if d.kind == dragPan {
		e.applyViewBox(d.viewBox)
		e.emitZoom()
		e.setCursor("default")
		return
	}
	for _, s := range d.snaps {
		s.restore()
	}
	e.log.Debug("drag cancelled", "kind", d.kind)
	e.renderOverlay()
}

func (e *Editor) onPointerDown(ev *Event) {
	if e.disposed {
		return
	}
	if e.text != nil {
		if e.text.contains(e.elementsAt(ev.ClientX, ev.ClientY)) {
			return
		}
		e.CommitTextEdit()
	}
	if ev.Button == ButtonMiddle {
		ev.PreventDefault()
		e.startPan(ev)
		return
	}
	if ev.Button != ButtonPrimary {
		return
	}
	x, y := e.ScreenToSVG(ev.ClientX, ev.ClientY)

	// Shift-clicks always toggle selection, even over a handle.
	if h, ok := e.HitTestHandle(ev.ClientX, ev.ClientY); ok && e.primary != nil && !ev.Shift {
		ev.PreventDefault()
		e.startHandleDrag(h, x, y)
		return
	}

	target := e.HitTest(ev.ClientX, ev.ClientY)
	if ev.Shift {
		ev.PreventDefault()
		if target != nil {
			e.toggle(target)
		}
		e.marquee = &marqueeState{startX: x, startY: y, alreadyToggled: target != nil, toggled: target}
		return
	}
	if target == nil {
		e.clearSelection()
		return
	}
	ev.PreventDefault()
	if e.isSelected(target) && len(e.selection) > 1 {
		e.startDrag(dragMultiTranslate, x, y, e.dragRoots()...)
		return
	}
	if e.primary != target || len(e.selection) != 1 {
		e.selectOnly(target)
	}
	e.startDrag(wholeDragKind(target.Data), x, y, target)
}

func (e *Editor) onPointerMove(ev *Event) {
	if e.disposed {
		return
	}
	switch {
	case e.drag != nil && e.drag.kind == dragPan:
		e.applyPan(ev)
	case e.drag != nil:
		x, y := e.ScreenToSVG(ev.ClientX, ev.ClientY)
		e.applyDrag(x, y)
	case e.marquee != nil:
		x, y := e.ScreenToSVG(ev.ClientX, ev.ClientY)
		e.updateMarquee(x, y)
	case e.text == nil:
		e.updateHoverCursor(ev.ClientX, ev.ClientY)
	}
}

func (e *Editor) onPointerUp(ev *Event) {
	if e.disposed {
		return
	}
	x, y := e.ScreenToSVG(ev.ClientX, ev.ClientY)
	switch {
	case e.drag != nil:
		e.endDrag(x, y)
	case e.marquee != nil:
		e.finishMarquee(x, y)
	}
}
