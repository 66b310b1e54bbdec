package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"orderflow/internal/middleware"
)

// errorCode classifies API failures for clients.
type errorCode string

const (
	codeBadRequest        errorCode = "BAD_REQUEST"
	codeValidation        errorCode = "VALIDATION_ERROR"
	codeNotFound          errorCode = "NOT_FOUND"
	codeConflict          errorCode = "CONFLICT"
	codeInsufficientStock errorCode = "INSUFFICIENT_STOCK"
	codeInternal          errorCode = "INTERNAL_ERROR"
)

type apiError struct {
	Code      errorCode `json:"code"`
	Message   string    `json:"message"`
	RequestID string    `json:"request_id,omitempty"`
}

type errorResponse struct {
	Error apiError `json:"error"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes a JSON error envelope and logs server-side failures.
// 4xx responses are logged at warn, 5xx at error.
func writeError(w http.ResponseWriter, r *http.Request, status int, code errorCode, msg string) {
	requestID := middleware.GetRequestID(r.Context())

	if status >= 500 {
		slog.Error("request failed", "status", status, "code", code, "message", msg,
			"path", r.URL.Path, "request_id", requestID)
	} else {
		slog.Warn("request rejected", "status", status, "code", code, "message", msg,
			"path", r.URL.Path, "request_id", requestID)
	}

	writeJSON(w, status, errorResponse{Error: apiError{
		Code:      code,
		Message:   msg,
		RequestID: requestID,
	}})
}

// writeInternalError hides the underlying cause from the client while
// logging it in full.
func writeInternalError(w http.ResponseWriter, r *http.Request, err error) {
	slog.Error("internal error", "error", err, "path", r.URL.Path,
		"request_id", middleware.GetRequestID(r.Context()))
	writeJSON(w, http.StatusInternalServerError, errorResponse{Error: apiError{
		Code:      codeInternal,
		Message:   "An unexpected error occurred",
		RequestID: middleware.GetRequestID(r.Context()),
	}})
}
