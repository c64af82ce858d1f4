package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/Bla9k/font-and-flare-design-sub000/internal/gacha"
	"github.com/Bla9k/font-and-flare-design-sub000/internal/game"
	"github.com/Bla9k/font-and-flare-design-sub000/internal/service"
	"github.com/Bla9k/font-and-flare-design-sub000/internal/store"
)

// ErrorCode represents machine-readable error codes
type ErrorCode string

const (
	ErrCodeInternal           ErrorCode = "INTERNAL_ERROR"
	ErrCodeBadRequest         ErrorCode = "BAD_REQUEST"
	ErrCodeNotFound           ErrorCode = "NOT_FOUND"
	ErrCodeRequestTooLarge    ErrorCode = "REQUEST_TOO_LARGE"
	ErrCodeValidation         ErrorCode = "VALIDATION_ERROR"
	ErrCodeInvalidJSON        ErrorCode = "INVALID_JSON"
	ErrCodeInvalidBanner      ErrorCode = "INVALID_BANNER"
	ErrCodeBannerInactive     ErrorCode = "BANNER_INACTIVE"
	ErrCodeFeatureUnavailable ErrorCode = "FEATURE_UNAVAILABLE"
)

// ErrorResponse represents a structured error response
type ErrorResponse struct {
	Error     string            `json:"error"`                // HTTP status text
	Message   string            `json:"message"`              // Human-readable description
	Code      ErrorCode         `json:"code"`                 // Machine-readable error code
	Fields    map[string]string `json:"fields,omitempty"`     // Field-level errors
	RequestID string            `json:"request_id,omitempty"` // Request ID for debugging
}

func NewErrorResponse(statusCode int, code ErrorCode, message string) *ErrorResponse {
	return &ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
		Code:    code,
	}
}

// WithFields adds field-level errors to the response
func (e *ErrorResponse) WithFields(fields map[string]string) *ErrorResponse {
	e.Fields = fields
	return e
}

func writeErrorResponse(w http.ResponseWriter, r *http.Request, statusCode int, errResp *ErrorResponse) {
	if reqID := middleware.GetReqID(r.Context()); reqID != "" {
		errResp.RequestID = reqID
	}
	writeJSON(w, statusCode, errResp)
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code ErrorCode, message string) {
	writeErrorResponse(w, r, status, NewErrorResponse(status, code, message))
}

// validationError reports a bad request field.
func validationError(w http.ResponseWriter, r *http.Request, message string, fields map[string]string) {
	errResp := NewErrorResponse(http.StatusBadRequest, ErrCodeValidation, message).WithFields(fields)
	writeErrorResponse(w, r, http.StatusBadRequest, errResp)
}

// writeServiceError maps engine and service errors onto HTTP responses.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		nc *gacha.NoCandidatesError
		ib *gacha.InvalidBannerConfigError
	)
	switch {
	case errors.As(err, &nc), errors.Is(err, service.ErrNotLoaded):
		writeError(w, r, http.StatusServiceUnavailable, ErrCodeFeatureUnavailable, "no rewards available yet")
	case errors.As(err, &ib):
		errResp := NewErrorResponse(http.StatusUnprocessableEntity, ErrCodeInvalidBanner, ib.Error()).
			WithFields(map[string]string{ib.Field: ib.Reason})
		writeErrorResponse(w, r, http.StatusUnprocessableEntity, errResp)
	case errors.Is(err, game.ErrUnknownBanner):
		writeError(w, r, http.StatusNotFound, ErrCodeNotFound, err.Error())
	case errors.Is(err, service.ErrInactive):
		writeError(w, r, http.StatusConflict, ErrCodeBannerInactive, err.Error())
	case errors.Is(err, service.ErrInvalidCount):
		validationError(w, r, "invalid pull request", map[string]string{"count": err.Error()})
	case errors.Is(err, store.ErrEmptyPlayer):
		validationError(w, r, "invalid pull request", map[string]string{"player_id": err.Error()})
	default:
		writeError(w, r, http.StatusInternalServerError, ErrCodeInternal, "internal error")
	}
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
