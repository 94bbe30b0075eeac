// Package editor implements a direct-manipulation editor over the children
// of one SVG root: selection, dragging, resizing, vertex and path-point
// editing, marquee selection, zoom/pan, clipboard and in-place text editing.
//
// The live SVG attributes are the document model. The editor is single
// threaded: every method and listener must run on the goroutine that owns
// the DOM.
package editor

import (
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/net/html"

	"github.com/inamate/svgedit/internal/engine"
	"github.com/inamate/svgedit/internal/svgdom"
)

var (
	// ErrNotSVGRoot is returned by New when root is not an attached <svg> element.
	ErrNotSVGRoot = errors.New("root is not an attached svg element")
	// ErrNoEventSource is returned by New when events is nil.
	ErrNoEventSource = errors.New("nil event source")
)

// Default viewBox size for roots without viewBox, width/height or content,
// matching the CSS replaced-element default.
const (
	fallbackWidth  = 300
	fallbackHeight = 150
)

// ZoomInfo is reported to OnZoom after wheel zoom, pan and FitContent.
type ZoomInfo struct {
	Zoom    float64     `json:"zoom"`
	ViewBox engine.Rect `json:"viewBox"`
}

// Callbacks are host notifications. Any of them may be nil.
type Callbacks struct {
	OnDirty    func()
	OnSelect   func(primary *html.Node)
	OnDeselect func()
	OnZoom     func(ZoomInfo)
	OnCursor   func(cursor string)
}

// Editor edits the children of one SVG root element.
type Editor struct {
	root    *html.Node
	surface Surface
	cb      Callbacks
	opts    options
	log     *slog.Logger

	removers []func()
	disposed bool

	selection []*html.Node // in the order members were added
	primary   *html.Node

	drag      *dragState
	marquee   *marqueeState
	text      *textEdit
	clipboard []*html.Node

	origViewBox engine.Rect
	viewBox     engine.Rect
	zoom        float64

	dirty   bool
	cursor  string
	overlay []*html.Node
}

// New attaches an editor to root and registers its listeners on events.
func New(root *html.Node, surface Surface, events EventSource, cb Callbacks, opts ...Option) (*Editor, error) {
	if !svgdom.IsElement(root) || root.Data != "svg" || root.Parent == nil {
		return nil, ErrNotSVGRoot
	}
	if events == nil {
		return nil, ErrNoEventSource
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	e := &Editor{
		root:    root,
		surface: surface,
		cb:      cb,
		opts:    o,
		log:     o.logger.With("component", "editor"),
		zoom:    1,
		cursor:  "default",
	}
	e.initViewBox()

	listen := func(t Target, typ EventType, fn Listener) {
		e.removers = append(e.removers, events.AddListener(t, typ, fn))
	}
	listen(TargetRoot, EventPointerDown, e.onPointerDown)
	listen(TargetRoot, EventWheel, e.onWheel)
	listen(TargetRoot, EventDblClick, e.onDblClick)
	listen(TargetWindow, EventPointerMove, e.onPointerMove)
	listen(TargetWindow, EventPointerUp, e.onPointerUp)
	listen(TargetWindow, EventKeyDown, e.onKeyDown)
	listen(TargetWindow, EventBlur, e.onBlur)

	e.log.Debug("editor attached", "viewBox", engine.FormatViewBox(e.viewBox))
	return e, nil
}

// initViewBox reads the root viewBox, assigning one when it is missing.
func (e *Editor) initViewBox() {
	if vb, ok := engine.ParseViewBox(svgdom.Attr(e.root, "viewBox")); ok {
		e.origViewBox, e.viewBox = vb, vb
		return
	}
	vb := engine.Rect{Width: fallbackWidth, Height: fallbackHeight}
	w, okW := engine.LookupNum(e.root, "width")
	h, okH := engine.LookupNum(e.root, "height")
	switch {
	case okW && okH && w > 0 && h > 0:
		vb.Width, vb.Height = w, h
	default:
		if c := e.clientRect(); !c.IsEmpty() {
			vb.Width, vb.Height = c.Width, c.Height
		}
	}
	svgdom.SetAttr(e.root, "viewBox", engine.FormatViewBox(vb))
	e.origViewBox, e.viewBox = vb, vb
}

// Dispose removes every listener and overlay node and cancels a pending
// text edit. It is safe to call more than once.
func (e *Editor) Dispose() {
	if e.disposed {
		return
	}
	e.disposed = true
	for _, remove := range e.removers {
		remove()
	}
	e.removers = nil
	if e.text != nil {
		e.CancelTextEdit()
	}
	e.drag = nil
	e.clearMarquee()
	e.clearOverlay()
	e.log.Debug("editor disposed")
}

// Content returns the root markup with every editor artifact removed. The
// live overlay is put back afterwards.
func (e *Editor) Content() (string, error) {
	type placement struct {
		node, parent, next *html.Node
	}
	var stripped []placement
	svgdom.Walk(e.root, func(n *html.Node) bool {
		if isOverlay(n) {
			stripped = append(stripped, placement{n, n.Parent, n.NextSibling})
			return false
		}
		return true
	})
	for _, p := range stripped {
		p.parent.RemoveChild(p.node)
	}

	var restoreText func()
	if e.text != nil {
		restoreText = e.text.reveal()
	}

	out, err := svgdom.Render(e.root)

	if restoreText != nil {
		restoreText()
	}
	for i := len(stripped) - 1; i >= 0; i-- {
		p := stripped[i]
		p.parent.InsertBefore(p.node, p.next)
	}
	if err != nil {
		return "", fmt.Errorf("content: %w", err)
	}
	return out, nil
}

// Root returns the scene root.
func (e *Editor) Root() *html.Node { return e.root }

// IsDirty reports whether geometry or text changed since construction or
// the last MarkClean.
func (e *Editor) IsDirty() bool { return e.dirty }

// MarkClean resets the dirty flag, after the host persisted Content.
func (e *Editor) MarkClean() { e.dirty = false }

// Cursor returns the current hover cursor.
func (e *Editor) Cursor() string { return e.cursor }

func (e *Editor) markDirty() {
	e.dirty = true
	if e.cb.OnDirty != nil {
		e.cb.OnDirty()
	}
}

func (e *Editor) setCursor(c string) {
	if c == e.cursor {
		return
	}
	e.cursor = c
	if e.cb.OnCursor != nil {
		e.cb.OnCursor(c)
	}
}

func (e *Editor) emitZoom() {
	if e.cb.OnZoom != nil {
		e.cb.OnZoom(ZoomInfo{Zoom: e.zoom, ViewBox: e.viewBox})
	}
}
