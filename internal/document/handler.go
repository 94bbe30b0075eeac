package document

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
)

type Handler struct {
	store Store
}

func NewHandler(store Store) *Handler {
	return &Handler{store: store}
}

type createRequest struct {
	Name    string `json:"name"`
	Content string `json:"content"`
	Sample  bool   `json:"sample"`
}

type saveRequest struct {
	Content     string `json:"content"`
	BaseVersion int    `json:"baseVersion"`
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	docs, err := h.store.List(r.Context())
	if err != nil {
		slog.Error("list documents failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	writeJSON(w, http.StatusOK, docs)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}

	content := req.Content
	switch {
	case req.Sample:
		content = NewSampleContent()
	case content == "":
		content = NewEmptyContent(DefaultWidth, DefaultHeight)
	}

	doc, err := h.store.Create(r.Context(), req.Name, content)
	if err != nil {
		handleStoreError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, doc)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	doc, err := h.store.Get(r.Context(), mux.Vars(r)["documentId"])
	if err != nil {
		handleStoreError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, doc)
}

// Raw serves the document markup as an SVG image.
func (h *Handler) Raw(w http.ResponseWriter, r *http.Request) {
	doc, err := h.store.Get(r.Context(), mux.Vars(r)["documentId"])
	if err != nil {
		handleStoreError(w, err)
		return
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(doc.Content))
}

func (h *Handler) Save(w http.ResponseWriter, r *http.Request) {
	var req saveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	doc, err := h.store.Save(r.Context(), mux.Vars(r)["documentId"], req.Content, req.BaseVersion)
	if err != nil {
		handleStoreError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, doc)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Delete(r.Context(), mux.Vars(r)["documentId"]); err != nil {
		handleStoreError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Routes mounts the document endpoints on r.
func (h *Handler) Routes(r *mux.Router) {
	r.HandleFunc("/documents", h.List).Methods("GET")
	r.HandleFunc("/documents", h.Create).Methods("POST")
	r.HandleFunc("/documents/{documentId}", h.Get).Methods("GET")
	r.HandleFunc("/documents/{documentId}", h.Save).Methods("PUT")
	r.HandleFunc("/documents/{documentId}", h.Delete).Methods("DELETE")
	r.HandleFunc("/documents/{documentId}/raw", h.Raw).Methods("GET")
}

func handleStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
	case errors.Is(err, ErrInvalidContent):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.Is(err, ErrVersionClash):
		writeJSON(w, http.StatusConflict, map[string]string{"error": "document version changed"})
	default:
		slog.Error("store error", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
