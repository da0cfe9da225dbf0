package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/vinlylog/internal/models"
	"github.com/desertthunder/vinlylog/internal/shared"
)

// Shelf is the read side of the operations layer the facade projects.
// Implemented by [tasks.ShelfEngine].
type Shelf interface {
	Document(ctx context.Context) (*models.Document, error)
	ListLinks(ctx context.Context, username string) ([]models.LinkEntry, error)
}

// Resolver resolves a raw URL into provider-tagged metadata.
type Resolver interface {
	Resolve(ctx context.Context, rawURL string) models.Resolved
}

// APIHandler serves the read-only document and resolution endpoints.
type APIHandler struct {
	shelf    Shelf
	resolver Resolver
	logger   *log.Logger
	mux      *http.ServeMux
}

// NewAPIHandler creates the facade's endpoint handler.
func NewAPIHandler(shelf Shelf, resolver Resolver, logger *log.Logger) *APIHandler {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	h := &APIHandler{shelf: shelf, resolver: resolver, logger: logger, mux: http.NewServeMux()}
	h.mux.HandleFunc("GET /health", h.handleHealth)
	h.mux.HandleFunc("GET /api/doc", h.handleDocument)
	h.mux.HandleFunc("GET /api/users/{username}/links", h.handleUserLinks)
	h.mux.HandleFunc("GET /api/resolve", h.handleResolve)
	return h
}

// Routes returns the method-qualified patterns this handler serves.
func (h *APIHandler) Routes() []string {
	return []string{
		"GET /health",
		"GET /api/doc",
		"GET /api/users/{username}/links",
		"GET /api/resolve",
	}
}

// ServeHTTP implements [http.Handler].
func (h *APIHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

func (h *APIHandler) handleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"time":   models.Timestamp(),
	})
}

func (h *APIHandler) handleDocument(w http.ResponseWriter, r *http.Request) {
	doc, err := h.shelf.Document(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, doc)
}

func (h *APIHandler) handleUserLinks(w http.ResponseWriter, r *http.Request) {
	username := r.PathValue("username")

	entries, err := h.shelf.ListLinks(r.Context(), username)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]any{
		"username": username,
		"links":    entries,
	})
}

func (h *APIHandler) handleResolve(w http.ResponseWriter, r *http.Request) {
	rawURL := r.URL.Query().Get("url")
	if rawURL == "" {
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "url query parameter is required"})
		return
	}

	resolved := h.resolver.Resolve(r.Context(), rawURL)
	h.writeJSON(w, http.StatusOK, resolved)
}

// writeError maps domain errors onto HTTP statuses.
func (h *APIHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError

	var remoteErr *shared.RemoteError
	switch {
	case errors.Is(err, shared.ErrUserNotFound):
		status = http.StatusNotFound
	case errors.Is(err, shared.ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(err, shared.ErrRemoteUnavailable), errors.As(err, &remoteErr):
		status = http.StatusBadGateway
	}

	h.logger.Error("request failed",
		"path", r.URL.Path,
		"status", status,
		"request_id", RequestIDFromContext(r.Context()),
		"err", err,
	)
	h.writeJSON(w, status, map[string]string{"error": err.Error()})
}

func (h *APIHandler) writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := shared.MarshalJSON(v, false)
	if err != nil {
		http.Error(w, "encoding failure", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(data)
}
