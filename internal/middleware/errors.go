package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/dmanalytics/miniapp/internal/model"
)

// writeDetail writes the backend's `{"detail": "..."}` error body.
func writeDetail(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(model.ErrorResponse{Detail: detail})
}
