package session

import (
	"encoding/json"

	"github.com/inamate/svgedit/internal/editor"
	"github.com/inamate/svgedit/internal/engine"
)

type Message struct {
	Type       string          `json:"type"`
	DocumentID string          `json:"documentId,omitempty"`
	ClientID   string          `json:"clientId,omitempty"`
	UserID     string          `json:"userId,omitempty"`
	Seq        int64           `json:"seq,omitempty"`
	Payload    json.RawMessage `json:"payload,omitempty"`
}

const (
	// Inbound input, forwarded to the editor as host events.
	TypePointerDown = "pointer.down"
	TypePointerMove = "pointer.move"
	TypePointerUp   = "pointer.up"
	TypeWheel       = "wheel"
	TypeDblClick    = "dblclick"
	TypeKey         = "key"
	TypeBlur        = "blur"

	// Inbound commands
	TypeTextInput     = "text.input"
	TypeViewSet       = "view.set"
	TypeViewFit       = "view.fit"
	TypeSurfaceResize = "surface.resize"
	TypeDocSave       = "doc.save"

	// Connection
	TypeWelcome = "welcome"
	TypeError   = "error"

	// Document sync
	TypeDocSync  = "doc.sync"
	TypeDocSaved = "doc.saved"

	// Editor notifications
	TypeEditorDirty    = "editor.dirty"
	TypeEditorSelect   = "editor.select"
	TypeEditorDeselect = "editor.deselect"
	TypeEditorZoom     = "editor.zoom"
	TypeEditorCursor   = "editor.cursor"
)

// InputPayload carries pointer, wheel and key events in surface pixels.
type InputPayload = editor.Event

type TextInputPayload struct {
	Value string `json:"value"`
}

type ViewSetPayload struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type SurfaceResizePayload struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type WelcomePayload struct {
	ClientID   string `json:"clientId"`
	DocumentID string `json:"documentId"`
	Name       string `json:"name"`
	Version    int    `json:"version"`
}

type DocSyncPayload struct {
	Content string      `json:"content"`
	Overlay string      `json:"overlay"`
	Dirty   bool        `json:"dirty"`
	Zoom    float64     `json:"zoom"`
	ViewBox engine.Rect `json:"viewBox"`
}

type SelectPayload struct {
	ID    string `json:"id,omitempty"`
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

type CursorPayload struct {
	Cursor string `json:"cursor"`
}

type SavedPayload struct {
	Version int `json:"version"`
}

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error codes
const (
	CodeBadMessage = "bad_message"
	CodeLocked     = "locked"
	CodeNotFound   = "not_found"
	CodeSaveFailed = "save_failed"
	CodeConflict   = "conflict"
	CodeInternal   = "internal"
)

func newMessage(typ string, payload interface{}) *Message {
	msg := &Message{Type: typ}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return &Message{Type: TypeError}
		}
		msg.Payload = data
	}
	return msg
}

func errorMessage(code, message string) *Message {
	return newMessage(TypeError, ErrorPayload{Code: code, Message: message})
}
