package editor

import (
	"sync"

	"github.com/inamate/svgedit/internal/engine"
)

// EventType names a host input event.
type EventType string

const (
	EventPointerDown EventType = "pointerdown"
	EventPointerMove EventType = "pointermove"
	EventPointerUp   EventType = "pointerup"
	EventWheel       EventType = "wheel"
	EventDblClick    EventType = "dblclick"
	EventKeyDown     EventType = "keydown"
	EventBlur        EventType = "blur"
)

// Target is where a listener is attached. Root listeners only see events
// that start on the scene; window listeners see everything, so drags keep
// tracking once the pointer leaves the scene.
type Target int

const (
	TargetRoot Target = iota
	TargetWindow
)

func (t Target) String() string {
	if t == TargetRoot {
		return "root"
	}
	return "window"
}

// Mouse buttons, as in PointerEvent.button.
const (
	ButtonPrimary = 0
	ButtonMiddle  = 1
)

// Event is a pointer, wheel or keyboard event in client (screen) pixels.
type Event struct {
	Type    EventType `json:"type"`
	ClientX float64   `json:"clientX,omitempty"`
	ClientY float64   `json:"clientY,omitempty"`
	Button  int       `json:"button,omitempty"`
	DeltaY  float64   `json:"deltaY,omitempty"`
	Key     string    `json:"key,omitempty"`
	Shift   bool      `json:"shiftKey,omitempty"`
	Ctrl    bool      `json:"ctrlKey,omitempty"`
	Meta    bool      `json:"metaKey,omitempty"`
	Alt     bool      `json:"altKey,omitempty"`

	defaultPrevented bool
}

// PreventDefault marks the event as consumed by the editor.
func (e *Event) PreventDefault() { e.defaultPrevented = true }

// DefaultPrevented reports whether a listener consumed the event.
func (e *Event) DefaultPrevented() bool { return e.defaultPrevented }

// Listener handles one event.
type Listener func(*Event)

// EventSource registers listeners. The returned func removes the listener
// and is safe to call more than once.
type EventSource interface {
	AddListener(target Target, typ EventType, fn Listener) (remove func())
}

// Surface reports the client rectangle, in screen pixels, that the scene
// root occupies.
type Surface interface {
	ClientRect() engine.Rect
}

// StaticSurface is a Surface with a settable rectangle.
type StaticSurface struct {
	mu   sync.RWMutex
	rect engine.Rect
}

// NewStaticSurface returns a surface of the given size at the origin.
func NewStaticSurface(width, height float64) *StaticSurface {
	return &StaticSurface{rect: engine.Rect{Width: width, Height: height}}
}

// ClientRect implements Surface.
func (s *StaticSurface) ClientRect() engine.Rect {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rect
}

// Resize replaces the client rectangle.
func (s *StaticSurface) Resize(r engine.Rect) {
	s.mu.Lock()
	s.rect = r
	s.mu.Unlock()
}

type listenerEntry struct {
	id int
	fn Listener
}

// Dispatcher is an in-process EventSource. Events dispatched to the root
// bubble to window listeners afterwards, like DOM events do.
type Dispatcher struct {
	mu        sync.Mutex
	nextID    int
	listeners map[Target]map[EventType][]listenerEntry
}

// NewDispatcher returns an empty Dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{listeners: make(map[Target]map[EventType][]listenerEntry)}
}

// AddListener implements EventSource.
func (d *Dispatcher) AddListener(target Target, typ EventType, fn Listener) func() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.nextID++
	id := d.nextID
	if d.listeners[target] == nil {
		d.listeners[target] = make(map[EventType][]listenerEntry)
	}
	d.listeners[target][typ] = append(d.listeners[target][typ], listenerEntry{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() { d.remove(target, typ, id) })
	}
}

func (d *Dispatcher) remove(target Target, typ EventType, id int) {
	d.mu.Lock()
	defer d.mu.Unlock()

	entries := d.listeners[target][typ]
	for i, e := range entries {
		if e.id == id {
			d.listeners[target][typ] = append(entries[:i:i], entries[i+1:]...)
			return
		}
	}
}

// Dispatch delivers ev to listeners on target, then bubbles root events to
// the window.
func (d *Dispatcher) Dispatch(target Target, ev *Event) {
	d.deliver(target, ev)
	if target == TargetRoot {
		d.deliver(TargetWindow, ev)
	}
}

func (d *Dispatcher) deliver(target Target, ev *Event) {
	d.mu.Lock()
	entries := append([]listenerEntry(nil), d.listeners[target][ev.Type]...)
	d.mu.Unlock()

	for _, e := range entries {
		e.fn(ev)
	}
}

// Len returns the number of registered listeners.
func (d *Dispatcher) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()

	n := 0
	for _, byType := range d.listeners {
		for _, entries := range byType {
			n += len(entries)
		}
	}
	return n
}
