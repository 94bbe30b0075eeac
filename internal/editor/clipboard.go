package editor

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/inamate/svgedit/internal/engine"
	"github.com/inamate/svgedit/internal/svgdom"
)

// Copy replaces the clipboard with detached clones of the selection. A
// clone of a nested element carries its parent transforms, so pasting it at
// the root keeps its on-screen geometry.
func (e *Editor) Copy() {
	if len(e.selection) == 0 {
		return
	}
	clips := make([]*html.Node, 0, len(e.selection))
	for _, n := range e.dragRoots() {
		c := svgdom.Clone(n)
		if m := engine.ParentToRoot(e.root, n); !m.IsIdentity() {
			own := svgdom.Attr(n, "transform")
			svgdom.SetAttr(c, "transform", strings.TrimSpace(m.String()+" "+own))
		}
		clips = append(clips, c)
	}
	e.clipboard = clips
	e.log.Debug("copied", "elements", len(clips))
}

// Paste appends clones of the clipboard to the root, shifted by the paste
// offset, and selects them. An empty clipboard is a no-op.
func (e *Editor) Paste() {
	if len(e.clipboard) == 0 {
		return
	}
	off := e.ScreenDistanceToSVG(e.opts.pasteOffset)
	pasted := make([]*html.Node, 0, len(e.clipboard))
	for _, clip := range e.clipboard {
		n := svgdom.Clone(clip)
		svgdom.Walk(n, func(c *html.Node) bool {
			svgdom.RemoveAttr(c, "id")
			return true
		})
		e.insertContent(n)
		translateShape(e.root, snapshotOf(n), off, off)
		pasted = append(pasted, n)
	}
	e.log.Debug("pasted", "elements", len(pasted))
	e.setSelection(pasted)
	e.markDirty()
}

// Duplicate copies the selection and pastes it.
func (e *Editor) Duplicate() {
	if len(e.selection) == 0 {
		return
	}
	e.Copy()
	e.Paste()
}

// DeleteSelection removes every selected element from the document.
func (e *Editor) DeleteSelection() {
	if len(e.selection) == 0 {
		return
	}
	for _, n := range e.dragRoots() {
		svgdom.Detach(n)
	}
	e.clearSelection()
	e.markDirty()
}

// insertContent appends n to the root below any editor overlay.
func (e *Editor) insertContent(n *html.Node) {
	for c := e.root.FirstChild; c != nil; c = c.NextSibling {
		if isOverlay(c) {
			e.root.InsertBefore(n, c)
			return
		}
	}
	e.root.AppendChild(n)
}
