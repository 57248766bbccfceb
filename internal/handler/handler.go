// Package handler provides the dev backend's HTTP request handlers.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/dmanalytics/miniapp/internal/model"
	"github.com/dmanalytics/miniapp/internal/store"
)

// SyncRunner starts the background statistics sync.
type SyncRunner interface {
	Start(ctx context.Context) (string, error)
}

// Handler serves the Mini App API.
type Handler struct {
	store  store.Store
	sync   SyncRunner
	logger *slog.Logger
}

// New creates a new Handler instance.
func New(s store.Store, sync SyncRunner, logger *slog.Logger) *Handler {
	return &Handler{
		store:  s,
		sync:   sync,
		logger: logger.With("component", "handler"),
	}
}

// NotFound handles 404 responses.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	writeDetail(w, http.StatusNotFound, "Not Found")
}

// MethodNotAllowed handles 405 responses.
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeDetail(w, http.StatusMethodNotAllowed, "Method Not Allowed")
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeDetail writes the `{"detail": "..."}` error body the client reads.
func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, model.ErrorResponse{Detail: detail})
}

// decodeJSON reads the request body into dst, answering 400 or 413 itself.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeDetail(w, http.StatusRequestEntityTooLarge, "Request body too large")
			return false
		}
		writeDetail(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}
