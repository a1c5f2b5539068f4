package httputil

import (
	"encoding/json"
	"net/http"

	"github.com/copyflow/detection-engine/internal/pkg/logger"
)

// Error codes shared across the API surface.
const (
	CodeValidation  = "VALIDATION_ERROR"
	CodeInvalidData = "INVALID_DATA"
	CodeRateLimit   = "RATE_LIMIT"
	CodeDetection   = "DETECTION_ERROR"
	CodeInternal    = "INTERNAL_ERROR"
)

// ErrorResponse is the standard error envelope for all API errors. Every
// failure returns this well-formed shape so UI layers render
// consistently; the body is never empty.
type ErrorResponse struct {
	Success    bool   `json:"success"`
	Error      string `json:"error"`
	ErrorCode  string `json:"errorCode"`
	RetryAfter int    `json:"retryAfter,omitempty"`
}

// JSON writes a JSON response with the given status code. The data is
// serialized and Content-Type is set automatically.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("JSON encode failed", "error", err.Error())
	}
}

// OK writes a 200 response with the given data.
func OK(w http.ResponseWriter, data any) {
	JSON(w, http.StatusOK, data)
}

// CodedError writes a JSON error envelope with an error code.
func CodedError(w http.ResponseWriter, status int, code, message string) {
	JSON(w, status, ErrorResponse{Error: message, ErrorCode: code})
}

// RateLimited writes a 429 envelope with a retry hint in seconds.
func RateLimited(w http.ResponseWriter, message string, retryAfterSeconds int) {
	JSON(w, http.StatusTooManyRequests, ErrorResponse{
		Error:      message,
		ErrorCode:  CodeRateLimit,
		RetryAfter: retryAfterSeconds,
	})
}

// InternalError writes a 500 envelope. Logs the real error but returns a
// generic message to the client (never leak internals).
func InternalError(w http.ResponseWriter, err error) {
	if err != nil {
		logger.Error("internal error", "error", err.Error())
	}
	CodedError(w, http.StatusInternalServerError, CodeInternal, "an internal error occurred")
}

// Decode reads JSON from the request body into dst.
// Returns false and writes a 400 response if parsing fails.
func Decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		CodedError(w, http.StatusBadRequest, CodeValidation, "invalid JSON: "+err.Error())
		return false
	}
	return true
}
