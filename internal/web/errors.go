package web

// errors.go provides unified error response handling for the web layer.
//
// It ensures all errors are:
//   - Logged with full technical details for debugging (server-side)
//   - Returned to clients as user-friendly messages with action suggestions
//   - Formatted appropriately based on request type (htmx partial or JSON)
//
// The error flow:
//  1. Handler encounters an error
//  2. Calls respondError(w, r, err, statusFor(err))
//  3. Error is mapped via core.MapError to get user-friendly message
//  4. Technical error + context is logged with request ID for correlation
//  5. User message is rendered in appropriate format for the client

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/JonMunkholm/qbank/internal/core"
	"github.com/JonMunkholm/qbank/internal/csv"
	"github.com/JonMunkholm/qbank/internal/logging"
	"github.com/JonMunkholm/qbank/internal/masterdata"
	"github.com/JonMunkholm/qbank/internal/web/templates"
)

var (
	errNoFile      = errors.New("no file provided")
	errRateLimited = errors.New("rate limit exceeded")
)

// ErrorResponse represents the JSON structure for API error responses.
// Includes both machine-readable (Code) and human-readable (Message, Action) fields.
type ErrorResponse struct {
	Error   string            `json:"error"`
	Message string            `json:"message"`
	Action  string            `json:"action,omitempty"`
	Code    string            `json:"code"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// statusFor picks the HTTP status for an error returned by the service.
func statusFor(err error) int {
	var reqErr *requestError
	switch {
	case errors.As(err, &reqErr),
		errors.Is(err, errNoFile),
		errors.Is(err, core.ErrMissingIdentifier),
		errors.Is(err, core.ErrInvalidMode),
		errors.Is(err, core.ErrUnlockNotConfirmed),
		errors.Is(err, masterdata.ErrUnknownField):
		return http.StatusBadRequest
	case errors.Is(err, core.ErrRecordNotFound),
		errors.Is(err, masterdata.ErrTemplateNotFound):
		return http.StatusNotFound
	case errors.Is(err, core.ErrDuplicateIdentifier),
		errors.Is(err, core.ErrNoEditTarget):
		return http.StatusConflict
	case errors.Is(err, core.ErrFormLocked):
		return http.StatusLocked
	case errors.Is(err, csv.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, core.ErrTooManyImports):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// fail responds with the status statusFor picks.
func fail(w http.ResponseWriter, r *http.Request, err error) {
	respondError(w, r, err, statusFor(err))
}

// respondError handles error responses with user-friendly messages.
// It logs the technical error server-side and returns an htmx partial or JSON.
func respondError(w http.ResponseWriter, r *http.Request, err error, statusCode int) {
	userMsg := core.MapError(err)

	logger := logging.FromContext(r.Context())
	attrs := []any{
		"path", r.URL.Path,
		"method", r.Method,
		"status", statusCode,
		"error", err.Error(),
		"code", userMsg.Code,
	}
	if statusCode >= http.StatusInternalServerError {
		logger.Error("request error", attrs...)
	} else {
		logger.Warn("request rejected", attrs...)
	}

	if isHTMX(r) {
		renderErrorPartial(w, r, userMsg, statusCode)
		return
	}

	resp := ErrorResponse{
		Error:   userMsg.Message,
		Message: userMsg.Message,
		Action:  userMsg.Action,
		Code:    userMsg.Code,
	}
	var reqErr *requestError
	if errors.As(err, &reqErr) {
		resp.Fields = reqErr.fields
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	writeJSON(w, resp)
}

// renderErrorPartial renders an htmx-compatible error fragment.
func renderErrorPartial(w http.ResponseWriter, r *http.Request, msg core.UserMessage, statusCode int) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(statusCode)
	_ = templates.ErrorAlert(msg.Message, msg.Action, msg.Code).Render(r.Context(), w)
}

// isHTMX checks if the request is an htmx request.
func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

// wantsHTML reports whether the caller asked for a partial instead of JSON.
func wantsHTML(r *http.Request) bool {
	if isHTMX(r) {
		return true
	}
	accept := r.Header.Get("Accept")
	return strings.Contains(accept, "text/html") && !strings.Contains(accept, "application/json")
}
