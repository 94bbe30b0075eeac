package session

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/inamate/svgedit/internal/document"
)

// Authenticator resolves the user behind a websocket upgrade request.
type Authenticator interface {
	RequestUser(r *http.Request) (string, error)
}

// Handler upgrades /ws/documents/{documentId} requests into editing
// sessions.
type Handler struct {
	hub            *Hub
	auth           Authenticator
	allowAnonymous bool
	originPatterns []string
}

func NewHandler(hub *Hub, auth Authenticator, allowAnonymous bool, originPatterns []string) *Handler {
	return &Handler{
		hub:            hub,
		auth:           auth,
		allowAnonymous: allowAnonymous,
		originPatterns: originPatterns,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	documentID := mux.Vars(r)["documentId"]

	userID, err := h.auth.RequestUser(r)
	if err != nil {
		if !h.allowAnonymous {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}
		userID = "anon-" + uuid.New().String()[:8]
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: h.originPatterns,
	})
	if err != nil {
		slog.Error("websocket accept", "error", err)
		return
	}

	client := NewClient(h.hub, conn, userID, documentID, uuid.New().String())
	if err := h.hub.Join(r.Context(), client); err != nil {
		rejectConn(conn, err)
		return
	}

	h.hub.Serve(client)
}

// rejectConn reports a failed join to the peer and closes the connection.
func rejectConn(conn *websocket.Conn, err error) {
	code, status := CodeInternal, websocket.StatusInternalError
	switch {
	case errors.Is(err, ErrLocked):
		code, status = CodeLocked, websocket.StatusPolicyViolation
	case errors.Is(err, document.ErrNotFound):
		code, status = CodeNotFound, websocket.StatusPolicyViolation
	case errors.Is(err, ErrClosed):
		status = websocket.StatusGoingAway
	default:
		slog.Error("join session", "error", err)
	}

	if data, merr := json.Marshal(errorMessage(code, err.Error())); merr == nil {
		ctx, cancel := context.WithTimeout(context.Background(), writeWait)
		conn.Write(ctx, websocket.MessageText, data)
		cancel()
	}
	conn.Close(status, code)
}
