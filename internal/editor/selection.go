package editor

import (
	"math"
	"slices"

	"golang.org/x/net/html"

	"github.com/inamate/svgedit/internal/engine"
	"github.com/inamate/svgedit/internal/svgdom"
)

// SelectedElement returns the primary selected element, or nil.
func (e *Editor) SelectedElement() *html.Node { return e.primary }

// Selection returns the selected elements in the order they were added.
func (e *Editor) Selection() []*html.Node {
	return slices.Clone(e.selection)
}

// Select replaces the selection with el, or clears it when el is nil.
func (e *Editor) Select(el *html.Node) {
	if el == nil {
		e.clearSelection()
		return
	}
	e.selectOnly(el)
}

func (e *Editor) isSelected(n *html.Node) bool {
	return slices.Contains(e.selection, n)
}

func (e *Editor) selectOnly(n *html.Node) {
	e.selection = []*html.Node{n}
	e.primary = n
	e.selectionChanged()
}

// setSelection replaces the selection; the last element becomes primary.
func (e *Editor) setSelection(nodes []*html.Node) {
	if len(nodes) == 0 {
		e.clearSelection()
		return
	}
	e.selection = slices.Clone(nodes)
	e.primary = nodes[len(nodes)-1]
	e.selectionChanged()
}

func (e *Editor) clearSelection() {
	if len(e.selection) == 0 && e.primary == nil {
		return
	}
	e.selection = nil
	e.primary = nil
	e.selectionChanged()
}

// toggle adds n to the selection as the new primary, or removes it. Removing
// the primary promotes the most recently added remaining member.
func (e *Editor) toggle(n *html.Node) {
	if i := slices.Index(e.selection, n); i >= 0 {
		e.selection = slices.Delete(e.selection, i, i+1)
		if len(e.selection) == 0 {
			e.clearSelection()
			return
		}
		if e.primary == n {
			e.primary = e.selection[len(e.selection)-1]
		}
	} else {
		e.selection = append(e.selection, n)
		e.primary = n
	}
	e.selectionChanged()
}

func (e *Editor) selectionChanged() {
	e.renderOverlay()
	if e.primary != nil {
		if e.cb.OnSelect != nil {
			e.cb.OnSelect(e.primary)
		}
		return
	}
	if e.cb.OnDeselect != nil {
		e.cb.OnDeselect()
	}
}

// dragRoots returns the selected elements without those nested in another
// selected element, so a group and its child never move twice.
func (e *Editor) dragRoots() []*html.Node {
	var out []*html.Node
	for _, n := range e.selection {
		nested := false
		for _, other := range e.selection {
			if other != n && svgdom.Contains(other, n) {
				nested = true
				break
			}
		}
		if !nested {
			out = append(out, n)
		}
	}
	return out
}

// marqueeState is a rubber-band selection in progress, in root space.
type marqueeState struct {
	startX, startY float64
	// alreadyToggled is set when the gesture began as a shift-click on an
	// element, which was toggled at pointer-down.
	alreadyToggled bool
	toggled        *html.Node
	rect           *html.Node
}

func marqueeRect(x0, y0, x1, y1 float64) engine.Rect {
	return engine.RectFromPoints([]float64{x0, x1}, []float64{y0, y1})
}

// containmentMode reports whether a marquee dragged from (x0, y0) to
// (x1, y1) requires full enclosure. Any reversed axis selects by crossing.
func containmentMode(x0, y0, x1, y1 float64) bool {
	return x1-x0 >= 0 && y1-y0 >= 0
}

func (e *Editor) updateMarquee(x, y float64) {
	m := e.marquee
	r := marqueeRect(m.startX, m.startY, x, y)
	if m.rect == nil {
		m.rect = overlayNode("rect", "", -1,
			"fill", "rgba(80,140,255,0.08)",
			"stroke", "#508cff",
			"pointer-events", "none",
		)
		e.root.AppendChild(m.rect)
	}
	engine.SetNum(m.rect, "x", r.X)
	engine.SetNum(m.rect, "y", r.Y)
	engine.SetNum(m.rect, "width", r.Width)
	engine.SetNum(m.rect, "height", r.Height)
	engine.SetNum(m.rect, "stroke-width", e.ScreenDistanceToSVG(1))
	svgdom.SetAttr(m.rect, "stroke-dasharray", dash(e.ScreenDistanceToSVG(4)))
}

func (e *Editor) clearMarquee() {
	if e.marquee != nil && e.marquee.rect != nil {
		svgdom.Detach(e.marquee.rect)
	}
	e.marquee = nil
}

// finishMarquee applies the rubber band ending at (x, y). A gesture shorter
// than the threshold is a click: on empty space it deselects everything.
func (e *Editor) finishMarquee(x, y float64) {
	m := e.marquee
	e.clearMarquee()

	dist := max(math.Abs(x-m.startX), math.Abs(y-m.startY))
	if dist < e.ScreenDistanceToSVG(e.opts.marqueeThreshold) {
		if !m.alreadyToggled {
			e.clearSelection()
		}
		return
	}

	hits := e.marqueeHits(marqueeRect(m.startX, m.startY, x, y), containmentMode(m.startX, m.startY, x, y))
	next := slices.Clone(e.selection)
	for _, n := range hits {
		if n == m.toggled || slices.Contains(next, n) {
			continue
		}
		next = append(next, n)
	}
	e.log.Debug("marquee", "hits", len(hits), "selected", len(next))
	if len(next) == len(e.selection) {
		return
	}
	e.setSelection(next)
}

// marqueeHits tests each draggable top-level child against r. A group that
// does not match is tested through its own children.
func (e *Editor) marqueeHits(r engine.Rect, containment bool) []*html.Node {
	match := func(n *html.Node) bool {
		b, ok := e.rootBBox(n)
		if !ok {
			return false
		}
		if containment {
			return r.ContainsRect(b)
		}
		return r.Intersects(b)
	}
	candidate := func(n *html.Node) bool {
		return svgdom.IsElement(n) && !isOverlay(n) && ModelFor(n.Data).Drag
	}

	var hits []*html.Node
	for _, c := range svgdom.Children(e.root) {
		if !candidate(c) {
			continue
		}
		if match(c) {
			hits = append(hits, c)
			continue
		}
		if c.Data == "g" {
			for _, gc := range svgdom.Children(c) {
				if candidate(gc) && match(gc) {
					hits = append(hits, gc)
				}
			}
		}
	}
	return hits
}
