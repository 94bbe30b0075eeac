package editor

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"github.com/inamate/svgedit/internal/engine"
	"github.com/inamate/svgedit/internal/svgdom"
)

type harness struct {
	t       *testing.T
	root    *html.Node
	events  *Dispatcher
	surface *StaticSurface
	ed      *Editor

	dirty     int
	selects   []*html.Node
	deselects int
	zooms     []ZoomInfo
	cursors   []string
}

func newHarness(t *testing.T, markup string, opts ...Option) *harness {
	t.Helper()
	root, err := svgdom.Parse(markup)
	require.NoError(t, err)

	h := &harness{t: t, root: root, events: NewDispatcher(), surface: NewStaticSurface(100, 100)}
	h.ed, err = New(root, h.surface, h.events, Callbacks{
		OnDirty:    func() { h.dirty++ },
		OnSelect:   func(n *html.Node) { h.selects = append(h.selects, n) },
		OnDeselect: func() { h.deselects++ },
		OnZoom:     func(z ZoomInfo) { h.zooms = append(h.zooms, z) },
		OnCursor:   func(c string) { h.cursors = append(h.cursors, c) },
	}, opts...)
	require.NoError(t, err)
	t.Cleanup(h.ed.Dispose)
	return h
}

func (h *harness) el(id string) *html.Node {
	h.t.Helper()
	var found *html.Node
	svgdom.Walk(h.root, func(n *html.Node) bool {
		if found == nil && svgdom.Attr(n, "id") == id {
			found = n
		}
		return found == nil
	})
	require.NotNil(h.t, found, id)
	return found
}

func (h *harness) down(x, y float64, shift bool) {
	h.events.Dispatch(TargetRoot, &Event{Type: EventPointerDown, ClientX: x, ClientY: y, Shift: shift})
}

func (h *harness) move(x, y float64) {
	h.events.Dispatch(TargetWindow, &Event{Type: EventPointerMove, ClientX: x, ClientY: y})
}

func (h *harness) up(x, y float64) {
	h.events.Dispatch(TargetWindow, &Event{Type: EventPointerUp, ClientX: x, ClientY: y})
}

func (h *harness) click(x, y float64, shift bool) {
	h.down(x, y, shift)
	h.up(x, y)
}

func (h *harness) dragTo(x0, y0, x1, y1 float64, shift bool) {
	h.down(x0, y0, shift)
	h.move(x1, y1)
	h.up(x1, y1)
}

func (h *harness) key(k string, ctrl bool) {
	h.events.Dispatch(TargetWindow, &Event{Type: EventKeyDown, Key: k, Ctrl: ctrl})
}

func (h *harness) assertSelectionInvariant() {
	h.t.Helper()
	sel := h.ed.Selection()
	if len(sel) == 0 {
		assert.Nil(h.t, h.ed.SelectedElement())
		return
	}
	assert.Contains(h.t, sel, h.ed.SelectedElement())
}

const oneRect = `<svg viewBox="0 0 100 100"><rect id="r" x="10" y="10" width="20" height="20"/></svg>`

const twoRects = `<svg viewBox="0 0 100 100">
	<rect id="a" x="10" y="10" width="20" height="20"/>
	<rect id="b" x="60" y="60" width="20" height="20"/>
</svg>`

func TestNew_Validation(t *testing.T) {
	_, err := New(svgdom.NewElement("rect"), nil, NewDispatcher(), Callbacks{})
	assert.ErrorIs(t, err, ErrNotSVGRoot)

	root, err := svgdom.Parse(oneRect)
	require.NoError(t, err)
	_, err = New(root, nil, nil, Callbacks{})
	assert.ErrorIs(t, err, ErrNoEventSource)
}

func TestNew_AssignsMissingViewBox(t *testing.T) {
	h := newHarness(t, `<svg width="200" height="80"><rect x="0" y="0" width="5" height="5"/></svg>`)
	assert.Equal(t, engine.Rect{Width: 200, Height: 80}, h.ed.ViewBox())
	assert.Equal(t, "0 0 200 80", svgdom.Attr(h.root, "viewBox"))
	assert.Equal(t, 1.0, h.ed.ZoomLevel())
}

func TestDragRect_MovesAndMarksDirtyOnce(t *testing.T) {
	h := newHarness(t, oneRect)
	r := h.el("r")

	h.dragTo(20, 20, 25, 25, false)

	assert.Equal(t, "15", svgdom.Attr(r, "x"))
	assert.Equal(t, "15", svgdom.Attr(r, "y"))
	assert.Equal(t, "20", svgdom.Attr(r, "width"))
	assert.Equal(t, "20", svgdom.Attr(r, "height"))
	assert.True(t, h.ed.IsDirty())
	assert.Equal(t, 1, h.dirty)
	assert.Equal(t, r, h.ed.SelectedElement())
}

func TestClick_IsNotDirty(t *testing.T) {
	h := newHarness(t, oneRect)

	h.click(20, 20, false)

	assert.False(t, h.ed.IsDirty())
	assert.Zero(t, h.dirty)
	assert.Equal(t, "10", svgdom.Attr(h.el("r"), "x"))
	require.Len(t, h.selects, 1)
}

func TestDrag_ReplayIsIdempotent(t *testing.T) {
	h := newHarness(t, oneRect)
	r := h.el("r")

	h.down(20, 20, false)
	h.move(30, 35)
	first := append([]html.Attribute(nil), r.Attr...)
	h.move(30, 35)
	assert.Equal(t, first, r.Attr)

	h.move(25, 25)
	assert.Equal(t, "15", svgdom.Attr(r, "x"))
	h.up(25, 25)
}

func TestClickEmptySpace_Deselects(t *testing.T) {
	h := newHarness(t, oneRect)
	h.click(20, 20, false)
	require.NotNil(t, h.ed.SelectedElement())

	h.click(90, 90, false)
	assert.Nil(t, h.ed.SelectedElement())
	assert.Equal(t, 1, h.deselects)
}

func TestMarquee_ContainmentAndCrossing(t *testing.T) {
	h := newHarness(t, twoRects)
	a := h.el("a")

	h.dragTo(0, 0, 35, 35, true)
	assert.Equal(t, []*html.Node{a}, h.ed.Selection())

	h.key("Escape", false)
	require.Empty(t, h.ed.Selection())

	// Reversed: crossing mode.
	h.dragTo(35, 35, 0, 0, true)
	assert.Equal(t, []*html.Node{a}, h.ed.Selection())
	h.key("Escape", false)

	// a is only partially inside both boxes.
	h.dragTo(0, 0, 20, 20, true)
	assert.Empty(t, h.ed.Selection(), "containment requires full enclosure")
	h.dragTo(35, 35, 20, 20, true)
	assert.Equal(t, []*html.Node{a}, h.ed.Selection(), "crossing selects on overlap")
}

func TestMarqueeHits_ModeSwitch(t *testing.T) {
	h := newHarness(t, `<svg viewBox="0 0 100 100">
		<rect id="inside" x="15" y="15" width="30" height="30"/>
		<rect id="partial" x="5" y="5" width="40" height="40"/>
	</svg>`)
	inside, partial := h.el("inside"), h.el("partial")

	hits := func(x1, y1 float64) []*html.Node {
		return h.ed.marqueeHits(marqueeRect(10, 10, x1, y1), containmentMode(10, 10, x1, y1))
	}
	assert.Equal(t, []*html.Node{inside}, hits(50, 50))
	assert.Contains(t, hits(5, 5), partial)
	assert.Contains(t, hits(50, 5), partial)
}

func TestMarquee_ShortShiftClickOnEmptyDeselects(t *testing.T) {
	h := newHarness(t, twoRects)
	h.click(20, 20, false)
	require.Len(t, h.ed.Selection(), 1)

	h.dragTo(45, 45, 47, 47, true)
	assert.Empty(t, h.ed.Selection())
}

func TestShiftClick_TogglesAndKeepsInvariant(t *testing.T) {
	h := newHarness(t, `<svg viewBox="0 0 100 100">
		<rect id="a" x="0" y="0" width="10" height="10"/>
		<rect id="b" x="20" y="0" width="10" height="10"/>
		<rect id="c" x="40" y="0" width="10" height="10"/>
	</svg>`)
	a, b, c := h.el("a"), h.el("b"), h.el("c")
	centers := map[*html.Node][2]float64{a: {5, 5}, b: {25, 5}, c: {45, 5}}
	toggle := func(n *html.Node) {
		p := centers[n]
		h.click(p[0], p[1], true)
		h.assertSelectionInvariant()
	}

	toggle(a)
	toggle(b)
	toggle(c)
	assert.Equal(t, []*html.Node{a, b, c}, h.ed.Selection())
	assert.Equal(t, c, h.ed.SelectedElement())

	// Removing the primary promotes the most recently added member.
	toggle(c)
	assert.Equal(t, b, h.ed.SelectedElement())
	toggle(a)
	assert.Equal(t, b, h.ed.SelectedElement())
	toggle(b)
	assert.Empty(t, h.ed.Selection())
	assert.Nil(t, h.ed.SelectedElement())
	assert.Equal(t, 1, h.deselects)

	for _, n := range []*html.Node{c, a, c, b, a, b, a, c} {
		toggle(n)
	}
}

func TestMultiDrag_MovesEveryMember(t *testing.T) {
	h := newHarness(t, twoRects)
	a, b := h.el("a"), h.el("b")
	h.click(20, 20, true)
	h.click(70, 70, true)
	require.Len(t, h.ed.Selection(), 2)

	h.dragTo(20, 20, 25, 30, false)

	assert.Equal(t, "15", svgdom.Attr(a, "x"))
	assert.Equal(t, "20", svgdom.Attr(a, "y"))
	assert.Equal(t, "65", svgdom.Attr(b, "x"))
	assert.Equal(t, "70", svgdom.Attr(b, "y"))
	assert.Len(t, h.ed.Selection(), 2, "multi-drag keeps the selection")
	assert.Equal(t, 1, h.dirty)
}

func TestResizeRect_ClampsToMinimumSize(t *testing.T) {
	h := newHarness(t, oneRect)
	r := h.el("r")
	h.click(20, 20, false)

	hd, ok := h.ed.HitTestHandle(30, 30)
	require.True(t, ok)
	assert.Equal(t, Handle{Type: HandleCorner, Index: 2, Node: hd.Node}, hd)

	h.down(30, 30, false)
	h.move(40, 35)
	assert.Equal(t, "30", svgdom.Attr(r, "width"))
	assert.Equal(t, "25", svgdom.Attr(r, "height"))

	h.move(0, 0)
	h.up(0, 0)
	assert.Equal(t, "10", svgdom.Attr(r, "x"))
	assert.Equal(t, "10", svgdom.Attr(r, "y"))
	assert.Equal(t, "1", svgdom.Attr(r, "width"))
	assert.Equal(t, "1", svgdom.Attr(r, "height"))
}

func TestResizeRect_TopLeftMovesOrigin(t *testing.T) {
	h := newHarness(t, oneRect)
	r := h.el("r")
	h.click(20, 20, false)

	h.dragTo(10, 10, 5, 0, false)
	assert.Equal(t, "5", svgdom.Attr(r, "x"))
	assert.Equal(t, "0", svgdom.Attr(r, "y"))
	assert.Equal(t, "25", svgdom.Attr(r, "width"))
	assert.Equal(t, "30", svgdom.Attr(r, "height"))

	h.dragTo(5, 0, 90, 90, false)
	assert.Equal(t, "1", svgdom.Attr(r, "width"))
	assert.Equal(t, "29", svgdom.Attr(r, "x"))
}

func TestResizeCircleAndEllipse(t *testing.T) {
	h := newHarness(t, `<svg viewBox="0 0 100 100">
		<circle id="c" cx="30" cy="30" r="10"/>
		<ellipse id="e" cx="70" cy="70" rx="15" ry="8"/>
	</svg>`)
	c, e := h.el("c"), h.el("e")

	h.click(30, 30, false)
	h.dragTo(40, 30, 50, 30, false)
	assert.Equal(t, "20", svgdom.Attr(c, "r"))
	h.dragTo(50, 30, 30, 30, false)
	assert.Equal(t, "1", svgdom.Attr(c, "r"))

	h.click(70, 70, false)
	require.Equal(t, e, h.ed.SelectedElement())
	h.dragTo(70, 78, 70, 90, false)
	assert.Equal(t, "20", svgdom.Attr(e, "ry"))
	assert.Equal(t, "15", svgdom.Attr(e, "rx"))
	h.dragTo(85, 70, 95, 70, false)
	assert.Equal(t, "25", svgdom.Attr(e, "rx"))
}

func TestLineEndpointAndWholeDrag(t *testing.T) {
	h := newHarness(t, `<svg viewBox="0 0 100 100"><line id="l" x1="10" y1="10" x2="50" y2="10" stroke-width="2"/></svg>`)
	l := h.el("l")

	h.click(30, 10, false)
	require.Equal(t, l, h.ed.SelectedElement())

	h.dragTo(50, 10, 60, 20, false)
	assert.Equal(t, "60", svgdom.Attr(l, "x2"))
	assert.Equal(t, "20", svgdom.Attr(l, "y2"))
	assert.Equal(t, "10", svgdom.Attr(l, "x1"))

	h.dragTo(35, 15, 40, 15, false)
	assert.Equal(t, "15", svgdom.Attr(l, "x1"))
	assert.Equal(t, "65", svgdom.Attr(l, "x2"))
}

func TestPolylineVertexDrag(t *testing.T) {
	h := newHarness(t, `<svg viewBox="0 0 100 100"><polyline id="p" points="10,10 50,10 50,50"/></svg>`)
	p := h.el("p")

	h.click(30, 10, false)
	h.dragTo(50, 50, 60, 65, false)
	assert.Equal(t, "10,10 50,10 60,65", svgdom.Attr(p, "points"))
}

func TestPathPointDrag_RelativeCommand(t *testing.T) {
	h := newHarness(t, `<svg viewBox="0 0 100 100"><path id="d" d="M10 10 l20 0 l0 20"/></svg>`)
	d := h.el("d")

	h.click(20, 20, false)
	hd, ok := h.ed.HitTestHandle(30, 10)
	require.True(t, ok)
	assert.Equal(t, HandleEndpoint, hd.Type)
	assert.Equal(t, 1, hd.Index)

	h.down(30, 10, false)
	h.move(31, 3)
	h.move(30, 0)
	h.up(30, 0)
	assert.Equal(t, "M10 10 l20 -10 l0 20", svgdom.Attr(d, "d"))
	assert.Equal(t, 1, h.dirty)
}

func TestPathWholeDrag_PreservesOtherTransforms(t *testing.T) {
	h := newHarness(t, `<svg viewBox="0 0 100 100"><path id="d" d="M0 0 L10 10" transform="scale(2)"/></svg>`)
	d := h.el("d")

	h.dragTo(10, 10, 14, 10, false)
	assert.Equal(t, "translate(4,0) scale(2)", svgdom.Attr(d, "transform"))

	h.dragTo(14, 10, 20, 13, false)
	assert.Equal(t, "translate(10,3) scale(2)", svgdom.Attr(d, "transform"))
}

func TestTranslate_InsideTransformedGroup(t *testing.T) {
	h := newHarness(t, `<svg viewBox="0 0 100 100"><g transform="scale(2)"><rect id="r" x="5" y="5" width="10" height="10"/></g></svg>`)
	r := h.el("r")

	h.dragTo(20, 20, 30, 30, false)
	assert.Equal(t, "10", svgdom.Attr(r, "x"))
	assert.Equal(t, "10", svgdom.Attr(r, "y"))

	x, y := h.ed.LocalToSVGRoot(r, 10, 10)
	assert.Equal(t, []float64{20, 20}, []float64{x, y})
}

func TestEscapeDuringDrag_RestoresGeometry(t *testing.T) {
	h := newHarness(t, oneRect)
	r := h.el("r")

	h.down(20, 20, false)
	h.move(40, 40)
	require.Equal(t, "30", svgdom.Attr(r, "x"))
	h.key("Escape", false)
	h.up(40, 40)

	assert.Equal(t, "10", svgdom.Attr(r, "x"))
	assert.Equal(t, "10", svgdom.Attr(r, "y"))
	assert.False(t, h.ed.IsDirty())
	assert.Equal(t, r, h.ed.SelectedElement(), "escape only aborted the drag")

	h.key("Escape", false)
	assert.Nil(t, h.ed.SelectedElement())
}

func TestEscape_CancelsMarqueeFirst(t *testing.T) {
	h := newHarness(t, twoRects)
	h.click(20, 20, false)

	h.down(45, 45, true)
	h.move(95, 95)
	h.key("Escape", false)
	h.up(95, 95)

	assert.Len(t, h.ed.Selection(), 1)
	out, err := h.ed.Content()
	require.NoError(t, err)
	assert.NotContains(t, out, OverlayClass)
}

func TestContent_ExcludesOverlay(t *testing.T) {
	h := newHarness(t, twoRects)
	h.click(20, 20, false)

	markup, err := h.ed.OverlayMarkup()
	require.NoError(t, err)
	require.Contains(t, markup, OverlayClass)

	out, err := h.ed.Content()
	require.NoError(t, err)
	assert.NotContains(t, out, OverlayClass)
	assert.NotContains(t, out, attrHandleType)
	assert.Contains(t, out, `id="a"`)

	// The overlay is restored for the live selection.
	again, err := h.ed.OverlayMarkup()
	require.NoError(t, err)
	assert.Equal(t, markup, again)
	var overlays int
	for _, c := range svgdom.Children(h.root) {
		if svgdom.HasClass(c, OverlayClass) {
			overlays++
		}
	}
	assert.Equal(t, 5, overlays, "bounding box and four corner handles")
}

func TestHitTest_SkipsOverlayAndNonVisual(t *testing.T) {
	h := newHarness(t, `<svg viewBox="0 0 100 100"><defs><rect x="0" y="0" width="100" height="100"/></defs><rect id="r" x="10" y="10" width="20" height="20"/></svg>`)
	assert.Nil(t, h.ed.HitTest(80, 80))

	h.click(20, 20, false)
	// The corner handle is above the rect, HitTest still returns the rect.
	assert.Equal(t, h.el("r"), h.ed.HitTest(10, 10))
	_, ok := h.ed.HitTestHandle(20, 20)
	assert.False(t, ok)
}

func TestHoverCursor(t *testing.T) {
	h := newHarness(t, `<svg viewBox="0 0 100 100">
		<rect id="r" x="10" y="10" width="20" height="20"/>
		<line x1="50" y1="50" x2="90" y2="50"/>
		<text x="10" y="90" font-size="10">hi</text>
	</svg>`)

	h.move(20, 20)
	assert.Equal(t, "move", h.ed.Cursor())
	h.move(70, 50)
	assert.Equal(t, "pointer", h.ed.Cursor())
	h.move(14, 86)
	assert.Equal(t, "grab", h.ed.Cursor())
	h.move(95, 5)
	assert.Equal(t, "default", h.ed.Cursor())

	h.click(20, 20, false)
	h.move(30, 30)
	assert.Equal(t, "nwse-resize", h.ed.Cursor())
	h.move(30, 10)
	assert.Equal(t, "nesw-resize", h.ed.Cursor())
	assert.Equal(t, []string{"move", "pointer", "grab", "default", "nwse-resize", "nesw-resize"}, h.cursors)
}

func TestCoordinates_RoundTripAtAnyZoom(t *testing.T) {
	h := newHarness(t, oneRect)
	h.surface.Resize(engine.Rect{X: 13, Y: 7, Width: 400, Height: 250})

	for _, w := range []float64{100, 50, 12.5, 333} {
		h.ed.SetViewBox(-3, 4, w, w)
		for _, p := range [][2]float64{{0, 0}, {13, 7}, {200, 100}, {-50, 999}} {
			sx, sy := h.ed.ScreenToSVG(p[0], p[1])
			bx, by := h.ed.SVGToScreen(sx, sy)
			assert.InDelta(t, p[0], bx, 1e-9)
			assert.InDelta(t, p[1], by, 1e-9)
		}
	}
}

func TestScreenDistance_ScalesInverselyWithZoom(t *testing.T) {
	h := newHarness(t, oneRect)
	h.surface.Resize(engine.Rect{Width: 200, Height: 200})

	base := h.ed.ScreenDistanceToSVG(10)
	assert.InDelta(t, 5, base, 1e-9)

	h.ed.SetViewBox(0, 0, 50, 50)
	assert.InDelta(t, 2.0, h.ed.ZoomLevel(), 1e-9)
	assert.InDelta(t, base/2, h.ed.ScreenDistanceToSVG(10), 1e-9)
	assert.Empty(t, h.zooms, "SetViewBox does not report zoom")
}

func TestMissingSurface_FallsBackToIdentity(t *testing.T) {
	root, err := svgdom.Parse(oneRect)
	require.NoError(t, err)
	ed, err := New(root, nil, NewDispatcher(), Callbacks{})
	require.NoError(t, err)
	defer ed.Dispose()

	x, y := ed.ScreenToSVG(42, 17)
	assert.Equal(t, []float64{42, 17}, []float64{x, y})
}

func TestWheelZoom_PointCentered(t *testing.T) {
	h := newHarness(t, oneRect)

	h.events.Dispatch(TargetRoot, &Event{Type: EventWheel, ClientX: 50, ClientY: 50, DeltaY: -100})

	require.Len(t, h.zooms, 1)
	assert.InDelta(t, 1.1, h.ed.ZoomLevel(), 1e-9)
	vb := h.ed.ViewBox()
	assert.InDelta(t, 100/1.1, vb.Width, 1e-9)
	assert.InDelta(t, 50-50/1.1, vb.X, 1e-9)
	x, y := h.ed.ScreenToSVG(50, 50)
	assert.InDelta(t, 50, x, 1e-9)
	assert.InDelta(t, 50, y, 1e-9)
	assert.Equal(t, h.zooms[0].ViewBox, vb)
}

func TestWheelZoom_Clamped(t *testing.T) {
	h := newHarness(t, oneRect, WithZoomLimits(0.5, 2))
	for range 30 {
		h.events.Dispatch(TargetRoot, &Event{Type: EventWheel, ClientX: 10, ClientY: 10, DeltaY: -1})
	}
	assert.InDelta(t, 2, h.ed.ZoomLevel(), 1e-9)
	for range 60 {
		h.events.Dispatch(TargetRoot, &Event{Type: EventWheel, ClientX: 10, ClientY: 10, DeltaY: 1})
	}
	assert.InDelta(t, 0.5, h.ed.ZoomLevel(), 1e-9)
}

func TestMiddleButtonPan(t *testing.T) {
	h := newHarness(t, oneRect)
	h.events.Dispatch(TargetRoot, &Event{Type: EventPointerDown, ClientX: 50, ClientY: 50, Button: ButtonMiddle})
	h.move(60, 45)
	h.up(60, 45)

	vb := h.ed.ViewBox()
	assert.InDelta(t, -10, vb.X, 1e-9)
	assert.InDelta(t, 5, vb.Y, 1e-9)
	assert.NotEmpty(t, h.zooms)
	assert.False(t, h.ed.IsDirty())
}

func TestFitContent(t *testing.T) {
	h := newHarness(t, oneRect)
	h.surface.Resize(engine.Rect{Width: 200, Height: 100})

	h.ed.FitContent()

	vb := h.ed.ViewBox()
	assert.InDelta(t, 42.4, vb.Width, 1e-9)
	assert.InDelta(t, 21.2, vb.Height, 1e-9)
	assert.InDelta(t, -1.2, vb.X, 1e-9)
	assert.InDelta(t, 9.4, vb.Y, 1e-9)
	require.Len(t, h.zooms, 1)
	assert.InDelta(t, 100/42.4, h.zooms[0].Zoom, 1e-9)
}

func TestFitContent_EmptySceneUsesOriginalViewBox(t *testing.T) {
	h := newHarness(t, `<svg viewBox="0 0 100 100"></svg>`)
	assert.NotPanics(t, h.ed.FitContent)
	vb := h.ed.ViewBox()
	assert.InDelta(t, -3, vb.X, 1e-9)
	assert.InDelta(t, 106, vb.Width, 1e-9)
}

func TestCopyPaste_OffsetsAndSelects(t *testing.T) {
	h := newHarness(t, oneRect)
	h.key("v", true)
	assert.Zero(t, h.dirty, "empty clipboard paste is a no-op")

	h.click(20, 20, false)
	h.key("c", true)
	h.key("v", true)

	sel := h.ed.Selection()
	require.Len(t, sel, 1)
	pasted := sel[0]
	assert.NotEqual(t, h.el("r"), pasted)
	assert.Equal(t, "20", svgdom.Attr(pasted, "x"))
	assert.Equal(t, "20", svgdom.Attr(pasted, "y"))
	assert.False(t, svgdom.HasAttr(pasted, "id"))
	assert.Equal(t, 1, h.dirty)

	// The clipboard persists: a second paste lands at the same offset.
	h.key("v", true)
	assert.Equal(t, "20", svgdom.Attr(h.ed.SelectedElement(), "x"))

	out, err := h.ed.Content()
	require.NoError(t, err)
	assert.Equal(t, 3, strings.Count(out, "<rect"))
}

func TestDuplicate_NestedElementKeepsPlacement(t *testing.T) {
	h := newHarness(t, `<svg viewBox="0 0 100 100"><g transform="translate(50,0)"><rect id="r" x="0" y="0" width="10" height="10"/></g></svg>`)
	h.click(55, 5, false)
	require.Equal(t, h.el("r"), h.ed.SelectedElement())

	h.key("d", true)
	dup := h.ed.SelectedElement()
	require.NotNil(t, dup)
	assert.Equal(t, h.root, dup.Parent)
	assert.Equal(t, "10", svgdom.Attr(dup, "x"))
	x, y := h.ed.LocalToSVGRoot(dup, 10, 10)
	assert.InDelta(t, 60, x, 1e-9)
	assert.InDelta(t, 10, y, 1e-9)
}

func TestDeleteSelection(t *testing.T) {
	h := newHarness(t, twoRects)
	h.click(20, 20, true)
	h.click(70, 70, true)
	h.key("Delete", false)

	assert.Empty(t, svgdom.Children(h.root))
	assert.Nil(t, h.ed.SelectedElement())
	assert.Equal(t, 1, h.dirty)

	h.key("Backspace", false)
	assert.Equal(t, 1, h.dirty)
}

func TestDeleteDuringDrag_MarksDirtyOnce(t *testing.T) {
	h := newHarness(t, oneRect)
	r := h.el("r")
	h.down(20, 20, false)
	h.move(30, 30)
	h.key("Delete", false)
	assert.Nil(t, r.Parent)
	assert.Equal(t, 1, h.dirty)

	h.move(40, 40)
	h.up(40, 40)
	assert.Equal(t, 1, h.dirty)
	assert.Equal(t, "20", svgdom.Attr(r, "x"))
	assert.Empty(t, svgdom.Children(h.root))
}

func TestTextEdit_CommitAndCancel(t *testing.T) {
	h := newHarness(t, `<svg viewBox="0 0 100 100"><text id="t" x="10" y="50" font-size="10">Hi</text></svg>`)
	txt := h.el("t")

	h.events.Dispatch(TargetRoot, &Event{Type: EventDblClick, ClientX: 15, ClientY: 47})
	require.True(t, h.ed.TextEditActive())
	assert.Equal(t, "0", svgdom.Attr(txt, "opacity"))

	out, err := h.ed.Content()
	require.NoError(t, err)
	assert.NotContains(t, out, "foreignObject")
	assert.NotContains(t, out, "opacity")
	assert.Contains(t, out, ">Hi<")

	// Shortcuts are suppressed while editing.
	h.key("Delete", false)
	assert.Equal(t, txt, h.el("t"))

	h.ed.UpdateTextEdit("Hello")
	h.key("Enter", false)
	assert.False(t, h.ed.TextEditActive())
	assert.Equal(t, "Hello", svgdom.Text(txt))
	assert.False(t, svgdom.HasAttr(txt, "opacity"))
	assert.Equal(t, 1, h.dirty)

	h.events.Dispatch(TargetRoot, &Event{Type: EventDblClick, ClientX: 15, ClientY: 47})
	require.True(t, h.ed.TextEditActive())
	h.ed.UpdateTextEdit("discarded")
	h.key("Escape", false)
	assert.False(t, h.ed.TextEditActive())
	assert.Equal(t, "Hello", svgdom.Text(txt))
	assert.Equal(t, 1, h.dirty)
}

func TestTextEdit_UnchangedCommitIsClean(t *testing.T) {
	h := newHarness(t, `<svg viewBox="0 0 100 100"><text id="t" x="10" y="50" font-size="10" opacity="0.5">Hi</text></svg>`)
	require.True(t, h.ed.StartTextEdit(h.el("t")))
	h.events.Dispatch(TargetWindow, &Event{Type: EventBlur})
	assert.False(t, h.ed.TextEditActive())
	assert.Equal(t, "0.5", svgdom.Attr(h.el("t"), "opacity"))
	assert.False(t, h.ed.IsDirty())
}

func TestTextEdit_PointerDownElsewhereCommits(t *testing.T) {
	h := newHarness(t, `<svg viewBox="0 0 100 100"><text id="t" x="10" y="50" font-size="10">Hi</text></svg>`)
	require.True(t, h.ed.StartTextEdit(h.el("t")))
	h.ed.UpdateTextEdit("Bye")

	h.click(90, 90, false)
	assert.False(t, h.ed.TextEditActive())
	assert.Equal(t, "Bye", svgdom.Text(h.el("t")))
}

func TestMalformedPath_DoesNotPanic(t *testing.T) {
	h := newHarness(t, `<svg viewBox="0 0 100 100"><path id="d" d="M10 10 X L 40 Q"/><path d=""/></svg>`)
	assert.NotPanics(t, func() {
		h.click(10, 10, false)
		h.dragTo(10, 10, 20, 20, false)
		_, _ = h.ed.Content()
		h.ed.FitContent()
	})
}

func TestDispose_RemovesListenersOnce(t *testing.T) {
	h := newHarness(t, oneRect)
	assert.Equal(t, 7, h.events.Len())
	h.click(20, 20, false)

	h.ed.Dispose()
	h.ed.Dispose()
	assert.Zero(t, h.events.Len())

	h.dragTo(20, 20, 40, 40, false)
	assert.Equal(t, "10", svgdom.Attr(h.el("r"), "x"))
}

func TestDispose_LeavesNoOverlayInDocument(t *testing.T) {
	const textDoc = `<svg viewBox="0 0 100 100"><text id="t" x="10" y="50" font-size="10">Hi</text><rect id="r" x="60" y="10" width="20" height="20"/></svg>`

	tests := []struct {
		name  string
		setup func(h *harness)
	}{
		{"selection", func(h *harness) {
			h.click(70, 20, false)
			require.NotNil(h.t, h.ed.SelectedElement())
		}},
		{"marquee in progress", func(h *harness) {
			h.down(50, 60, true)
			h.move(95, 95)
		}},
		{"text edit open", func(h *harness) {
			h.events.Dispatch(TargetRoot, &Event{Type: EventDblClick, ClientX: 15, ClientY: 47})
			require.True(h.t, h.ed.TextEditActive())
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, textDoc)
			tt.setup(h)
			before, err := svgdom.Render(h.root)
			require.NoError(t, err)
			require.Contains(t, before, "svg-editor-")

			h.ed.Dispose()
			out, err := svgdom.Render(h.root)
			require.NoError(t, err)
			assert.NotContains(t, out, OverlayClass)
			assert.NotContains(t, out, "foreignObject")
			assert.NotContains(t, out, "opacity")
		})
	}
}

func TestDispatcher_RemoveIsIdempotent(t *testing.T) {
	d := NewDispatcher()
	var calls int
	remove := d.AddListener(TargetWindow, EventKeyDown, func(*Event) { calls++ })
	d.AddListener(TargetWindow, EventKeyDown, func(*Event) { calls += 10 })

	d.Dispatch(TargetRoot, &Event{Type: EventKeyDown})
	assert.Equal(t, 11, calls)

	remove()
	remove()
	d.Dispatch(TargetWindow, &Event{Type: EventKeyDown})
	assert.Equal(t, 21, calls)
	assert.Equal(t, 1, d.Len())
}

func TestModelFor(t *testing.T) {
	assert.Equal(t, Model{Drag: true, Resize: true}, ModelFor("rect"))
	assert.Equal(t, Model{Drag: true, Endpoints: true}, ModelFor("path"))
	assert.Equal(t, Model{Drag: true}, ModelFor("foreignObject"))
	assert.Equal(t, Model{}, ModelFor("defs"))
	assert.Equal(t, "default", ModelFor("stop").Cursor())
}
