package server

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/Tomlord1122/task-tracker/internal/apperr"
	"github.com/Tomlord1122/task-tracker/internal/logger"
)

type errorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

// respondWithAppError is the single place where errors become responses.
// Server side failures are logged with their cause and answered with a
// generic message.
func (s *Server) respondWithAppError(w http.ResponseWriter, r *http.Request, err error) {
	appErr := apperr.From(err)
	status := appErr.HTTPStatus()
	log := logger.FromContext(r.Context())

	attrs := []any{
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.Int("status", status),
		slog.String("kind", appErr.Kind.String()),
	}
	if status >= http.StatusInternalServerError {
		log.Error("request failed", append(attrs, slog.Any("error", err))...)
	} else {
		log.Debug("request rejected", append(attrs, slog.String("message", appErr.Message))...)
	}

	respondWithError(w, r, status, appErr.PublicMessage())
}

func respondWithError(w http.ResponseWriter, r *http.Request, code int, message string) {
	respondWithJSON(w, code, errorResponse{Error: message, RequestID: requestIDFromContext(r.Context())})
}

func respondWithJSON(w http.ResponseWriter, code int, payload any) {
	response, err := json.Marshal(payload)
	if err != nil {
		slog.Error("error marshaling JSON response", slog.Any("error", err))
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"Internal Server Error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}
