package script

import (
	"fmt"

	"github.com/inamate/svgedit/internal/editor"
	"github.com/inamate/svgedit/internal/engine"
	"github.com/inamate/svgedit/internal/svgdom"
)

// Result is the outcome of replaying a script over a document.
type Result struct {
	Content string
	Dirty   bool
	Zoom    float64
	ViewBox string
}

// Replay parses content, attaches an editor and runs s against it.
func Replay(content string, s *Script, opts ...editor.Option) (*Result, error) {
	root, err := svgdom.Parse(content)
	if err != nil {
		return nil, err
	}
	t := Target{
		Events:  editor.NewDispatcher(),
		Surface: editor.NewStaticSurface(0, 0),
	}
	t.Editor, err = editor.New(root, t.Surface, t.Events, editor.Callbacks{}, opts...)
	if err != nil {
		return nil, fmt.Errorf("attach editor: %w", err)
	}
	defer t.Editor.Dispose()

	if err := s.Run(t); err != nil {
		return nil, err
	}
	out, err := t.Editor.Content()
	if err != nil {
		return nil, err
	}
	return &Result{
		Content: out,
		Dirty:   t.Editor.IsDirty(),
		Zoom:    t.Editor.ZoomLevel(),
		ViewBox: engine.FormatViewBox(t.Editor.ViewBox()),
	}, nil
}
