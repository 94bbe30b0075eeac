package editor

import (
	"fmt"
	"math"
	"slices"

	"golang.org/x/net/html"

	"github.com/inamate/svgedit/internal/engine"
	"github.com/inamate/svgedit/internal/pathdata"
	"github.com/inamate/svgedit/internal/svgdom"
)

// textEdit is an in-place edit of one <text> element. The element is hidden
// behind a foreignObject holding an editable div until commit or cancel.
type textEdit struct {
	el       *html.Node
	overlay  *html.Node
	div      *html.Node
	original string
	value    string

	hadOpacity bool
	opacity    string
}

func (t *textEdit) contains(nodes []*html.Node) bool {
	return slices.ContainsFunc(nodes, func(n *html.Node) bool {
		return svgdom.Contains(t.overlay, n)
	})
}

func (t *textEdit) hide() {
	t.opacity, t.hadOpacity = svgdom.LookupAttr(t.el, "opacity")
	svgdom.SetAttr(t.el, "opacity", "0")
}

func (t *textEdit) show() {
	if t.hadOpacity {
		svgdom.SetAttr(t.el, "opacity", t.opacity)
	} else {
		svgdom.RemoveAttr(t.el, "opacity")
	}
}

// reveal temporarily restores the element's visibility and returns the func
// that hides it again.
func (t *textEdit) reveal() func() {
	t.show()
	return func() { svgdom.SetAttr(t.el, "opacity", "0") }
}

// TextEditActive reports whether an in-place text edit is open.
func (e *Editor) TextEditActive() bool { return e.text != nil }

// StartTextEdit opens an in-place editor over a <text> element, committing
// any edit already open.
func (e *Editor) StartTextEdit(el *html.Node) bool {
	if svgdom.Tag(el) != "text" {
		return false
	}
	if e.text != nil {
		e.CommitTextEdit()
	}
	b, ok := e.rootBBox(el)
	if !ok {
		return false
	}
	fontSize := engine.FontSize(el)
	if scale := math.Sqrt(math.Abs(engine.LocalToRoot(e.root, el).Determinant())); scale > 0 {
		fontSize *= scale
	}
	style := fmt.Sprintf("font-size:%spx;line-height:1;white-space:pre;outline:none", pathdata.FormatNumber(fontSize))
	if ff := inheritedAttr(el, "font-family"); ff != "" {
		style += ";font-family:" + ff
	}
	if fill := inheritedAttr(el, "fill"); fill != "" {
		style += ";color:" + fill
	}

	content := svgdom.Text(el)
	t := &textEdit{el: el, original: content, value: content}
	t.overlay = overlayNode("foreignObject", "", -1,
		"x", pathdata.FormatNumber(b.X),
		"y", pathdata.FormatNumber(b.Y),
		"width", pathdata.FormatNumber(max(b.Width, b.Height)),
		"height", pathdata.FormatNumber(b.Height),
	)
	t.div = svgdom.NewHTMLElement("div", "contenteditable", "true", "style", style)
	svgdom.SetText(t.div, content)
	t.overlay.AppendChild(t.div)
	e.root.AppendChild(t.overlay)
	t.hide()

	e.text = t
	e.drag = nil
	e.clearMarquee()
	e.log.Debug("text edit started", "length", len(content))
	return true
}

// UpdateTextEdit replaces the pending text of the open edit.
func (e *Editor) UpdateTextEdit(value string) {
	if e.text == nil {
		return
	}
	e.text.value = value
	svgdom.SetText(e.text.div, value)
}

// CommitTextEdit writes the pending text back when it changed, marking the
// document dirty, and closes the edit.
func (e *Editor) CommitTextEdit() {
	t := e.closeTextEdit()
	if t == nil || t.value == t.original {
		return
	}
	svgdom.SetText(t.el, t.value)
	e.renderOverlay()
	e.markDirty()
}

// CancelTextEdit closes the edit without applying it.
func (e *Editor) CancelTextEdit() {
	e.closeTextEdit()
}

func (e *Editor) closeTextEdit() *textEdit {
	t := e.text
	if t == nil {
		return nil
	}
	e.text = nil
	svgdom.Detach(t.overlay)
	t.show()
	return t
}

func (e *Editor) onDblClick(ev *Event) {
	if e.disposed {
		return
	}
	if el := e.HitTest(ev.ClientX, ev.ClientY); svgdom.Tag(el) == "text" {
		ev.PreventDefault()
		e.StartTextEdit(el)
	}
}

func (e *Editor) onBlur(*Event) {
	if e.disposed {
		return
	}
	if e.text != nil {
		e.CommitTextEdit()
	}
}

func inheritedAttr(n *html.Node, key string) string {
	for p := n; p != nil; p = p.Parent {
		if v, ok := svgdom.LookupAttr(p, key); ok && v != "inherit" {
			return v
		}
	}
	return ""
}
