package editor

import (
	"math"

	"github.com/inamate/svgedit/internal/engine"
	"github.com/inamate/svgedit/internal/svgdom"
)

// fitMargin is the padding added on each side by FitContent, as a fraction
// of the content size.
const fitMargin = 0.03

// ZoomLevel returns the zoom relative to the viewBox at construction.
func (e *Editor) ZoomLevel() float64 { return e.zoom }

// ViewBox returns the current viewBox.
func (e *Editor) ViewBox() engine.Rect { return e.viewBox }

// SetViewBox overrides the viewBox, for keeping paired views in step. It
// does not call OnZoom. Non-positive sizes are ignored.
func (e *Editor) SetViewBox(x, y, w, h float64) {
	if w <= 0 || h <= 0 || math.IsNaN(w) || math.IsNaN(h) {
		return
	}
	e.applyViewBox(engine.Rect{X: x, Y: y, Width: w, Height: h})
}

// FitContent frames the content bounding box with a small margin, corrected
// to the surface aspect ratio, and reports the new view through OnZoom.
// Without measurable content the original viewBox is framed instead.
func (e *Editor) FitContent() {
	b, err := engine.ContentBBox(e.root, isOverlay)
	if err != nil {
		e.log.Debug("fit content: falling back to original viewBox", "error", err)
		b = e.origViewBox
	}
	if b.Width <= 0 && b.Height <= 0 {
		b = e.origViewBox
	}
	// Degenerate content, such as a single horizontal line, still gets a
	// square frame along the flat axis.
	if b.Width <= 0 {
		b.X -= b.Height / 2
		b.Width = b.Height
	}
	if b.Height <= 0 {
		b.Y -= b.Width / 2
		b.Height = b.Width
	}

	padX, padY := b.Width*fitMargin, b.Height*fitMargin
	vb := engine.Rect{X: b.X - padX, Y: b.Y - padY, Width: b.Width + 2*padX, Height: b.Height + 2*padY}

	if c := e.clientRect(); !c.IsEmpty() {
		aspect := c.Width / c.Height
		if vb.Width/vb.Height > aspect {
			h := vb.Width / aspect
			vb.Y -= (h - vb.Height) / 2
			vb.Height = h
		} else {
			w := vb.Height * aspect
			vb.X -= (w - vb.Width) / 2
			vb.Width = w
		}
	}
	e.applyViewBox(vb)
	e.emitZoom()
}

func (e *Editor) applyViewBox(vb engine.Rect) {
	e.viewBox = vb
	e.zoom = e.origViewBox.Width / vb.Width
	svgdom.SetAttr(e.root, "viewBox", engine.FormatViewBox(vb))
	e.renderOverlay()
}

// zoomAt scales the view by factor (>1 zooms in) keeping the root-space
// point (px, py) fixed on screen. The zoom level is clamped.
func (e *Editor) zoomAt(px, py, factor float64) {
	vb := e.viewBox
	zoom := math.Max(e.opts.minZoom, math.Min(e.opts.maxZoom, e.zoom*factor))
	w := e.origViewBox.Width / zoom
	scale := w / vb.Width
	if scale == 1 {
		return
	}
	e.applyViewBox(engine.Rect{
		X:      px - (px-vb.X)*scale,
		Y:      py - (py-vb.Y)*scale,
		Width:  w,
		Height: vb.Height * scale,
	})
	e.emitZoom()
}

func (e *Editor) onWheel(ev *Event) {
	if e.disposed || ev.DeltaY == 0 {
		return
	}
	ev.PreventDefault()
	px, py := e.ScreenToSVG(ev.ClientX, ev.ClientY)
	factor := e.opts.zoomStep
	if ev.DeltaY > 0 {
		factor = 1 / factor
	}
	e.zoomAt(px, py, factor)
}

// startPan begins a middle-button pan. Panning works in screen pixels
// against the viewBox captured at pointer-down.
func (e *Editor) startPan(ev *Event) {
	e.drag = &dragState{
		kind:      dragPan,
		screenX:   ev.ClientX,
		screenY:   ev.ClientY,
		viewBox:   e.viewBox,
		unitPerPx: e.ScreenDistanceToSVG(1),
	}
	e.setCursor("grabbing")
}

func (e *Editor) applyPan(ev *Event) {
	d := e.drag
	dx := (ev.ClientX - d.screenX) * d.unitPerPx
	dy := (ev.ClientY - d.screenY) * d.unitPerPx
	vb := d.viewBox
	vb.X -= dx
	vb.Y -= dy
	e.applyViewBox(vb)
	e.emitZoom()
}
