package auth

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/inamate/svgedit/internal/typeid"
)

// Handler issues guest tokens when anonymous editing is enabled.
type Handler struct {
	service        *Service
	allowAnonymous bool
}

func NewHandler(service *Service, allowAnonymous bool) *Handler {
	return &Handler{service: service, allowAnonymous: allowAnonymous}
}

type tokenResponse struct {
	Token  string `json:"token"`
	UserID string `json:"userId"`
}

func (h *Handler) Guest(w http.ResponseWriter, r *http.Request) {
	if !h.allowAnonymous {
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "anonymous access disabled"})
		return
	}

	userID := typeid.NewUserID()
	token, err := h.service.IssueToken(userID, 0)
	if err != nil {
		slog.Error("issue guest token failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	writeJSON(w, http.StatusCreated, tokenResponse{Token: token, UserID: userID})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
