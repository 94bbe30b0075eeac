// Package script replays YAML gesture scripts against an editor.
//
// A script names a surface size and a list of steps, each a single-key map:
//
//	surface: {width: 400, height: 300}
//	steps:
//	  - click: {x: 20, y: 20}
//	  - drag: {from: [20, 20], to: [60, 20], shift: false}
//	  - key: {key: Delete}
//	  - wheel: {x: 200, y: 150, deltaY: -100}
//	  - fit: true
//
// Coordinates are surface pixels.
package script

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/inamate/svgedit/internal/editor"
	"github.com/inamate/svgedit/internal/engine"
)

type Script struct {
	Surface Surface `yaml:"surface"`
	Steps   []Step  `yaml:"steps"`
}

type Surface struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// Step holds exactly one gesture.
type Step struct {
	Down     *Pointer  `yaml:"down,omitempty"`
	Move     *Pointer  `yaml:"move,omitempty"`
	Up       *Pointer  `yaml:"up,omitempty"`
	Click    *Pointer  `yaml:"click,omitempty"`
	DblClick *Pointer  `yaml:"dblclick,omitempty"`
	Drag     *Drag     `yaml:"drag,omitempty"`
	Wheel    *Wheel    `yaml:"wheel,omitempty"`
	Key      *Key      `yaml:"key,omitempty"`
	Type     *string   `yaml:"type,omitempty"`
	Blur     bool      `yaml:"blur,omitempty"`
	Fit      bool      `yaml:"fit,omitempty"`
	ViewBox  []float64 `yaml:"viewbox,omitempty"`
}

type Pointer struct {
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Button int     `yaml:"button"`
	Shift  bool    `yaml:"shift"`
	Ctrl   bool    `yaml:"ctrl"`
	Meta   bool    `yaml:"meta"`
}

type Drag struct {
	From   [2]float64 `yaml:"from"`
	To     [2]float64 `yaml:"to"`
	Steps  int        `yaml:"steps"`
	Button int        `yaml:"button"`
	Shift  bool       `yaml:"shift"`
}

type Wheel struct {
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	DeltaY float64 `yaml:"deltaY"`
}

type Key struct {
	Key   string `yaml:"key"`
	Shift bool   `yaml:"shift"`
	Ctrl  bool   `yaml:"ctrl"`
	Meta  bool   `yaml:"meta"`
	Alt   bool   `yaml:"alt"`
}

// Parse decodes a single-document script, rejecting unknown fields.
func Parse(data []byte) (*Script, error) {
	var s Script
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		if errors.Is(err, io.EOF) {
			return &s, nil
		}
		return nil, fmt.Errorf("decode script: %w", err)
	}
	for i, st := range s.Steps {
		if err := st.validate(); err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}
	}
	return &s, nil
}

func Load(r io.Reader) (*Script, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	return Parse(data)
}

func (st Step) validate() error {
	n := 0
	for _, set := range []bool{
		st.Down != nil, st.Move != nil, st.Up != nil, st.Click != nil,
		st.DblClick != nil, st.Drag != nil, st.Wheel != nil, st.Key != nil,
		st.Type != nil, st.Blur, st.Fit, st.ViewBox != nil,
	} {
		if set {
			n++
		}
	}
	switch {
	case n == 0:
		return errors.New("empty step")
	case n > 1:
		return errors.New("step has more than one gesture")
	case st.ViewBox != nil && len(st.ViewBox) != 4:
		return fmt.Errorf("viewbox needs 4 numbers, got %d", len(st.ViewBox))
	case st.Key != nil && st.Key.Key == "":
		return errors.New("key step without key")
	}
	return nil
}

// Target is what a script drives: an editor and the event source it
// listens on.
type Target struct {
	Editor  *editor.Editor
	Events  *editor.Dispatcher
	Surface *editor.StaticSurface
}

// Run applies every step in order.
func (s *Script) Run(t Target) error {
	if s.Surface.Width > 0 && s.Surface.Height > 0 && t.Surface != nil {
		t.Surface.Resize(engine.Rect{Width: s.Surface.Width, Height: s.Surface.Height})
	}
	for i, st := range s.Steps {
		if err := st.apply(t); err != nil {
			return fmt.Errorf("step %d: %w", i+1, err)
		}
	}
	return nil
}

func (p *Pointer) event(typ editor.EventType) *editor.Event {
	return &editor.Event{
		Type: typ, ClientX: p.X, ClientY: p.Y, Button: p.Button,
		Shift: p.Shift, Ctrl: p.Ctrl, Meta: p.Meta,
	}
}

func (st Step) apply(t Target) error {
	d := t.Events
	switch {
	case st.Down != nil:
		d.Dispatch(editor.TargetRoot, st.Down.event(editor.EventPointerDown))
	case st.Move != nil:
		d.Dispatch(editor.TargetWindow, st.Move.event(editor.EventPointerMove))
	case st.Up != nil:
		d.Dispatch(editor.TargetWindow, st.Up.event(editor.EventPointerUp))
	case st.Click != nil:
		d.Dispatch(editor.TargetRoot, st.Click.event(editor.EventPointerDown))
		d.Dispatch(editor.TargetWindow, st.Click.event(editor.EventPointerUp))
	case st.DblClick != nil:
		d.Dispatch(editor.TargetRoot, st.DblClick.event(editor.EventDblClick))
	case st.Drag != nil:
		st.Drag.apply(d)
	case st.Wheel != nil:
		d.Dispatch(editor.TargetRoot, &editor.Event{
			Type: editor.EventWheel, ClientX: st.Wheel.X, ClientY: st.Wheel.Y, DeltaY: st.Wheel.DeltaY,
		})
	case st.Key != nil:
		d.Dispatch(editor.TargetWindow, &editor.Event{
			Type: editor.EventKeyDown, Key: st.Key.Key,
			Shift: st.Key.Shift, Ctrl: st.Key.Ctrl, Meta: st.Key.Meta, Alt: st.Key.Alt,
		})
	case st.Type != nil:
		if !t.Editor.TextEditActive() {
			return errors.New("type step without an open text edit")
		}
		t.Editor.UpdateTextEdit(*st.Type)
	case st.Blur:
		d.Dispatch(editor.TargetWindow, &editor.Event{Type: editor.EventBlur})
	case st.Fit:
		t.Editor.FitContent()
	case st.ViewBox != nil:
		t.Editor.SetViewBox(st.ViewBox[0], st.ViewBox[1], st.ViewBox[2], st.ViewBox[3])
	default:
		return errors.New("empty step")
	}
	return nil
}

// apply dispatches down, evenly spaced moves and up.
func (g *Drag) apply(d *editor.Dispatcher) {
	steps := max(g.Steps, 1)
	ev := func(typ editor.EventType, x, y float64) *editor.Event {
		return &editor.Event{Type: typ, ClientX: x, ClientY: y, Button: g.Button, Shift: g.Shift}
	}
	d.Dispatch(editor.TargetRoot, ev(editor.EventPointerDown, g.From[0], g.From[1]))
	for i := 1; i <= steps; i++ {
		f := float64(i) / float64(steps)
		x := g.From[0] + (g.To[0]-g.From[0])*f
		y := g.From[1] + (g.To[1]-g.From[1])*f
		d.Dispatch(editor.TargetWindow, ev(editor.EventPointerMove, x, y))
	}
	d.Dispatch(editor.TargetWindow, ev(editor.EventPointerUp, g.To[0], g.To[1]))
}
