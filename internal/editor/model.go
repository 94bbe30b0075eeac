package editor

// Model is the fixed interaction capability of a tag.
type Model struct {
	Drag      bool
	Endpoints bool
	Resize    bool
}

var models = map[string]Model{
	"rect":          {Drag: true, Resize: true},
	"circle":        {Drag: true, Resize: true},
	"ellipse":       {Drag: true, Resize: true},
	"line":          {Drag: true, Endpoints: true},
	"polyline":      {Drag: true, Endpoints: true},
	"polygon":       {Drag: true, Endpoints: true},
	"path":          {Drag: true, Endpoints: true},
	"text":          {Drag: true},
	"g":             {Drag: true},
	"image":         {Drag: true},
	"use":           {Drag: true},
	"foreignObject": {Drag: true},
}

// ModelFor returns the interaction model for tag. Unknown tags get the zero
// model.
func ModelFor(tag string) Model {
	return models[tag]
}

// Cursor returns the hover cursor for an element with this model.
func (m Model) Cursor() string {
	switch {
	case m.Endpoints:
		return "pointer"
	case m.Resize:
		return "move"
	case m.Drag:
		return "grab"
	}
	return "default"
}
