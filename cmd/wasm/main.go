//go:build js && wasm

package main

import (
	"encoding/json"
	"syscall/js"

	"golang.org/x/net/html"

	"github.com/inamate/svgedit/internal/document"
	"github.com/inamate/svgedit/internal/editor"
	"github.com/inamate/svgedit/internal/engine"
	"github.com/inamate/svgedit/internal/svgdom"
)

var (
	ed        *editor.Editor
	events    *editor.Dispatcher
	surface   *editor.StaticSurface
	callbacks = map[string]js.Value{}
)

func main() {
	svgEditor := js.Global().Get("Object").New()

	// --- Commands (page → editor) ---
	svgEditor.Set("load", js.FuncOf(load))
	svgEditor.Set("loadSample", js.FuncOf(loadSample))
	svgEditor.Set("dispose", js.FuncOf(dispose))
	svgEditor.Set("resize", js.FuncOf(resize))
	svgEditor.Set("dispatch", js.FuncOf(dispatch))
	svgEditor.Set("updateText", js.FuncOf(updateText))
	svgEditor.Set("setViewBox", js.FuncOf(setViewBox))
	svgEditor.Set("fitContent", js.FuncOf(fitContent))
	svgEditor.Set("markClean", js.FuncOf(markClean))
	svgEditor.Set("on", js.FuncOf(on))

	// --- Queries (page ← editor) ---
	svgEditor.Set("getContent", js.FuncOf(getContent))
	svgEditor.Set("getOverlay", js.FuncOf(getOverlay))
	svgEditor.Set("getViewBox", js.FuncOf(getViewBox))
	svgEditor.Set("getZoom", js.FuncOf(getZoom))
	svgEditor.Set("getCursor", js.FuncOf(getCursor))
	svgEditor.Set("isDirty", js.FuncOf(isDirty))
	svgEditor.Set("screenToSVG", js.FuncOf(screenToSVG))

	js.Global().Set("svgEditor", svgEditor)

	// Signal that WASM is ready
	js.Global().Set("svgEditorWasmReady", js.ValueOf(true))

	// Keep Go runtime alive
	select {}
}

func result(err error) interface{} {
	if err != nil {
		return js.ValueOf(map[string]interface{}{"error": err.Error()})
	}
	return js.ValueOf(map[string]interface{}{"ok": true})
}

func emit(name string, args ...interface{}) {
	if fn, ok := callbacks[name]; ok {
		fn.Invoke(args...)
	}
}

// --- Command Handlers ---

// load(markup, width, height) replaces the edited document.
func load(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return js.ValueOf(map[string]interface{}{"error": "missing svg markup"})
	}
	var w, h float64
	if len(args) >= 3 {
		w, h = args[1].Float(), args[2].Float()
	}
	return result(attach(args[0].String(), w, h))
}

func loadSample(this js.Value, args []js.Value) interface{} {
	return result(attach(document.NewSampleContent(), 0, 0))
}

func attach(markup string, w, h float64) error {
	root, err := svgdom.Parse(markup)
	if err != nil {
		return err
	}
	if ed != nil {
		ed.Dispose()
	}
	events = editor.NewDispatcher()
	surface = editor.NewStaticSurface(w, h)
	ed, err = editor.New(root, surface, events, editor.Callbacks{
		OnDirty: func() { emit("dirty") },
		OnSelect: func(n *html.Node) {
			emit("select", svgdom.Attr(n, "id"), n.Data)
		},
		OnDeselect: func() { emit("deselect") },
		OnZoom: func(z editor.ZoomInfo) {
			emit("zoom", z.Zoom, engine.FormatViewBox(z.ViewBox))
		},
		OnCursor: func(c string) { emit("cursor", c) },
	})
	return err
}

func dispose(this js.Value, args []js.Value) interface{} {
	if ed != nil {
		ed.Dispose()
		ed = nil
	}
	return nil
}

func resize(this js.Value, args []js.Value) interface{} {
	if surface == nil || len(args) < 2 {
		return nil
	}
	surface.Resize(engine.Rect{Width: args[0].Float(), Height: args[1].Float()})
	return nil
}

var eventTargets = map[editor.EventType]editor.Target{
	editor.EventPointerDown: editor.TargetRoot,
	editor.EventWheel:       editor.TargetRoot,
	editor.EventDblClick:    editor.TargetRoot,
	editor.EventPointerMove: editor.TargetWindow,
	editor.EventPointerUp:   editor.TargetWindow,
	editor.EventKeyDown:     editor.TargetWindow,
	editor.EventBlur:        editor.TargetWindow,
}

// dispatch(eventJSON) forwards a DOM event and reports whether the page
// should call preventDefault.
func dispatch(this js.Value, args []js.Value) interface{} {
	if events == nil || len(args) < 1 {
		return js.ValueOf(false)
	}
	var ev editor.Event
	if err := json.Unmarshal([]byte(args[0].String()), &ev); err != nil {
		return js.ValueOf(false)
	}
	target, ok := eventTargets[ev.Type]
	if !ok {
		return js.ValueOf(false)
	}
	events.Dispatch(target, &ev)
	return js.ValueOf(ev.DefaultPrevented())
}

func updateText(this js.Value, args []js.Value) interface{} {
	if ed == nil || len(args) < 1 {
		return nil
	}
	ed.UpdateTextEdit(args[0].String())
	return nil
}

func setViewBox(this js.Value, args []js.Value) interface{} {
	if ed == nil || len(args) < 4 {
		return nil
	}
	ed.SetViewBox(args[0].Float(), args[1].Float(), args[2].Float(), args[3].Float())
	return nil
}

func fitContent(this js.Value, args []js.Value) interface{} {
	if ed != nil {
		ed.FitContent()
	}
	return nil
}

func markClean(this js.Value, args []js.Value) interface{} {
	if ed != nil {
		ed.MarkClean()
	}
	return nil
}

// on(name, fn) registers a callback: dirty, select, deselect, zoom, cursor.
func on(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 || args[1].Type() != js.TypeFunction {
		return nil
	}
	callbacks[args[0].String()] = args[1]
	return nil
}

// --- Query Handlers ---

func getContent(this js.Value, args []js.Value) interface{} {
	if ed == nil {
		return js.ValueOf("")
	}
	out, err := ed.Content()
	if err != nil {
		return js.ValueOf("")
	}
	return js.ValueOf(out)
}

func getOverlay(this js.Value, args []js.Value) interface{} {
	if ed == nil {
		return js.ValueOf("")
	}
	out, err := ed.OverlayMarkup()
	if err != nil {
		return js.ValueOf("")
	}
	return js.ValueOf(out)
}

func getViewBox(this js.Value, args []js.Value) interface{} {
	if ed == nil {
		return js.ValueOf("")
	}
	return js.ValueOf(engine.FormatViewBox(ed.ViewBox()))
}

func getZoom(this js.Value, args []js.Value) interface{} {
	if ed == nil {
		return js.ValueOf(1)
	}
	return js.ValueOf(ed.ZoomLevel())
}

func getCursor(this js.Value, args []js.Value) interface{} {
	if ed == nil {
		return js.ValueOf("default")
	}
	return js.ValueOf(ed.Cursor())
}

func isDirty(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(ed != nil && ed.IsDirty())
}

func screenToSVG(this js.Value, args []js.Value) interface{} {
	if ed == nil || len(args) < 2 {
		return nil
	}
	x, y := ed.ScreenToSVG(args[0].Float(), args[1].Float())
	return js.ValueOf([]interface{}{x, y})
}
