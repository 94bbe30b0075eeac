package editor

import "strings"

func (e *Editor) onKeyDown(ev *Event) {
	if e.disposed {
		return
	}
	if e.text != nil {
		switch {
		case ev.Key == "Escape":
			ev.PreventDefault()
			e.CancelTextEdit()
		case ev.Key == "Enter" && !ev.Shift:
			ev.PreventDefault()
			e.CommitTextEdit()
		}
		return
	}

	if ev.Ctrl || ev.Meta {
		switch strings.ToLower(ev.Key) {
		case "c":
			e.Copy()
		case "v":
			e.Paste()
		case "d":
			ev.PreventDefault()
			e.Duplicate()
		}
		return
	}

	switch ev.Key {
	case "Escape":
		e.Cancel()
	case "Delete", "Backspace":
		if len(e.selection) > 0 {
			ev.PreventDefault()
			// The dragged nodes are about to leave the document.
			if e.drag != nil && e.drag.kind != dragPan {
				e.drag = nil
			}
			e.DeleteSelection()
		}
	}
}

// Cancel aborts the first applicable of: a marquee, an active drag (whose
// geometry is restored), a text edit, the selection.
func (e *Editor) Cancel() {
	switch {
	case e.marquee != nil:
		e.clearMarquee()
	case e.drag != nil:
		e.cancelDrag()
	case e.text != nil:
		e.CancelTextEdit()
	default:
		e.clearSelection()
	}
}
