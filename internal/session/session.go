package session

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/net/html"

	"github.com/inamate/svgedit/internal/document"
	"github.com/inamate/svgedit/internal/editor"
	"github.com/inamate/svgedit/internal/engine"
	"github.com/inamate/svgedit/internal/svgdom"
)

// Session is one client's editor over its own parse of a document. All
// editor access is serialized by mu; outbound notifications go to out.
type Session struct {
	mu sync.Mutex

	docID   string
	name    string
	version int

	events  *editor.Dispatcher
	surface *editor.StaticSurface
	ed      *editor.Editor
	out     func(*Message)
	log     *slog.Logger

	lastContent string
	lastOverlay string
}

var inputEvents = map[string]struct {
	typ    editor.EventType
	target editor.Target
}{
	TypePointerDown: {editor.EventPointerDown, editor.TargetRoot},
	TypePointerMove: {editor.EventPointerMove, editor.TargetWindow},
	TypePointerUp:   {editor.EventPointerUp, editor.TargetWindow},
	TypeWheel:       {editor.EventWheel, editor.TargetRoot},
	TypeDblClick:    {editor.EventDblClick, editor.TargetRoot},
	TypeKey:         {editor.EventKeyDown, editor.TargetWindow},
	TypeBlur:        {editor.EventBlur, editor.TargetWindow},
}

// NewSession parses doc and attaches an editor to it. The surface starts
// empty, so screen coordinates equal root coordinates until the client
// reports its size.
func NewSession(doc *document.Document, out func(*Message), log *slog.Logger, opts ...editor.Option) (*Session, error) {
	root, err := svgdom.Parse(doc.Content)
	if err != nil {
		return nil, fmt.Errorf("parse document %s: %w", doc.ID, err)
	}
	if log == nil {
		log = slog.Default()
	}
	s := &Session{
		docID:   doc.ID,
		name:    doc.Name,
		version: doc.Version,
		events:  editor.NewDispatcher(),
		surface: editor.NewStaticSurface(0, 0),
		out:     out,
		log:     log.With("document", doc.ID),
	}

	cb := editor.Callbacks{
		OnDirty: func() { s.out(newMessage(TypeEditorDirty, nil)) },
		OnSelect: func(primary *html.Node) {
			s.out(newMessage(TypeEditorSelect, SelectPayload{
				ID:    svgdom.Attr(primary, "id"),
				Tag:   primary.Data,
				Count: len(s.ed.Selection()),
			}))
		},
		OnDeselect: func() { s.out(newMessage(TypeEditorDeselect, nil)) },
		OnZoom:     func(z editor.ZoomInfo) { s.out(newMessage(TypeEditorZoom, z)) },
		OnCursor:   func(c string) { s.out(newMessage(TypeEditorCursor, CursorPayload{Cursor: c})) },
	}
	opts = append([]editor.Option{editor.WithLogger(s.log)}, opts...)
	s.ed, err = editor.New(root, s.surface, s.events, cb, opts...)
	if err != nil {
		return nil, fmt.Errorf("attach editor: %w", err)
	}
	return s, nil
}

func (s *Session) DocumentID() string { return s.docID }

// Welcome describes the session to a newly joined client.
func (s *Session) Welcome(clientID string) *Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return newMessage(TypeWelcome, WelcomePayload{
		ClientID:   clientID,
		DocumentID: s.docID,
		Name:       s.name,
		Version:    s.version,
	})
}

// Handle applies one inbound message. Save requests are returned as
// wantSave for the hub to run against the store.
func (s *Session) Handle(msg *Message) (wantSave bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if in, ok := inputEvents[msg.Type]; ok {
		var ev InputPayload
		if err := decode(msg.Payload, &ev); err != nil {
			return false, err
		}
		ev.Type = in.typ
		s.events.Dispatch(in.target, &ev)
		s.syncLocked(false)
		return false, nil
	}

	switch msg.Type {
	case TypeTextInput:
		var p TextInputPayload
		if err := decode(msg.Payload, &p); err != nil {
			return false, err
		}
		s.ed.UpdateTextEdit(p.Value)
	case TypeViewSet:
		var p ViewSetPayload
		if err := decode(msg.Payload, &p); err != nil {
			return false, err
		}
		s.ed.SetViewBox(p.X, p.Y, p.Width, p.Height)
	case TypeViewFit:
		s.ed.FitContent()
	case TypeSurfaceResize:
		var p SurfaceResizePayload
		if err := decode(msg.Payload, &p); err != nil {
			return false, err
		}
		s.surface.Resize(engine.Rect{Width: p.Width, Height: p.Height})
	case TypeDocSave:
		return true, nil
	default:
		return false, fmt.Errorf("unknown message type %q", msg.Type)
	}
	s.syncLocked(false)
	return false, nil
}

// Sync sends the full document state regardless of what was last sent.
func (s *Session) Sync() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.syncLocked(true)
}

func (s *Session) syncLocked(force bool) {
	content, err := s.ed.Content()
	if err != nil {
		s.log.Error("serialize content", "error", err)
		return
	}
	overlay, err := s.ed.OverlayMarkup()
	if err != nil {
		s.log.Error("serialize overlay", "error", err)
		return
	}
	if !force && content == s.lastContent && overlay == s.lastOverlay {
		return
	}
	s.lastContent, s.lastOverlay = content, overlay
	s.out(newMessage(TypeDocSync, DocSyncPayload{
		Content: content,
		Overlay: overlay,
		Dirty:   s.ed.IsDirty(),
		Zoom:    s.ed.ZoomLevel(),
		ViewBox: s.ed.ViewBox(),
	}))
}

// Snapshot returns the document content, its base version and whether it
// has unsaved edits.
func (s *Session) Snapshot() (content string, version int, dirty bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	content, err = s.ed.Content()
	return content, s.version, s.ed.IsDirty(), err
}

// Saved records a successful save of content at version. Edits made since
// the snapshot keep the session dirty.
func (s *Session) Saved(content string, version int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.version = version
	if cur, err := s.ed.Content(); err == nil && cur == content {
		s.ed.MarkClean()
	}
	s.out(newMessage(TypeDocSaved, SavedPayload{Version: version}))
}

func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ed.Dispose()
}

func decode(raw json.RawMessage, v interface{}) error {
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}
	return nil
}
