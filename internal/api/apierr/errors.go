package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mcoot/psconsole/internal/model"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest     = "INVALID_REQUEST"
	CodeInvalidOrigin      = "INVALID_ORIGIN"
	CodeMissingOrigin      = "MISSING_ORIGIN"
	CodeInvalidPreference  = "INVALID_PREFERENCE"
	CodeInvalidAvatar      = "INVALID_AVATAR"
	CodeInvalidUsername    = "INVALID_USERNAME"
	CodeInvalidDuration    = "INVALID_DURATION"
	CodeInvalidAmount      = "INVALID_AMOUNT"
	CodeInvalidAchievement = "INVALID_ACHIEVEMENT"
	CodeInvalidSection     = "INVALID_SECTION"
	CodeInvalidFilter      = "INVALID_FILTER"
	CodeGameNotFound       = "GAME_NOT_FOUND"
	CodeSessionInProgress  = "SESSION_IN_PROGRESS"
	CodeNoActiveSession    = "NO_ACTIVE_SESSION"
	CodeQuotaExceeded      = "QUOTA_EXCEEDED"
	CodeStorageUnavailable = "STORAGE_UNAVAILABLE"
	CodeCatalogUnavailable = "CATALOG_UNAVAILABLE"
	CodeInternalError      = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// StatusOf returns the HTTP status WriteError would use for err
func StatusOf(err error) int {
	return toHTTPError(err).status
}

// toHTTPError converts an error to an httpError.
// Validation errors carry the wrapped detail in their message.
func toHTTPError(err error) *httpError {
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	switch {
	case errors.Is(err, model.ErrInvalidOrigin):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidOrigin, err.Error()}}
	case errors.Is(err, model.ErrInvalidPreference):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidPreference, err.Error()}}
	case errors.Is(err, model.ErrInvalidAvatar):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidAvatar, err.Error()}}
	case errors.Is(err, model.ErrInvalidUsername):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidUsername, err.Error()}}
	case errors.Is(err, model.ErrInvalidDuration):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidDuration, err.Error()}}
	case errors.Is(err, model.ErrInvalidAmount):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidAmount, err.Error()}}
	case errors.Is(err, model.ErrInvalidAchievement):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidAchievement, err.Error()}}
	case errors.Is(err, model.ErrInvalidSection):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidSection, err.Error()}}
	case errors.Is(err, model.ErrInvalidFilter):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidFilter, err.Error()}}
	case errors.Is(err, model.ErrGameNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeGameNotFound, "Game not found"}}
	case errors.Is(err, model.ErrSessionInProgress):
		return &httpError{http.StatusConflict, APIError{CodeSessionInProgress, "A play session is already in progress"}}
	case errors.Is(err, model.ErrNoActiveSession):
		return &httpError{http.StatusNotFound, APIError{CodeNoActiveSession, "No play session in progress"}}
	case errors.Is(err, model.ErrQuotaExceeded):
		return &httpError{http.StatusInsufficientStorage, APIError{CodeQuotaExceeded, "Storage quota exceeded"}}
	case errors.Is(err, model.ErrStorageUnavailable):
		return &httpError{http.StatusServiceUnavailable, APIError{CodeStorageUnavailable, "Storage is unavailable"}}
	case errors.Is(err, model.ErrCatalogUnavailable):
		return &httpError{http.StatusServiceUnavailable, APIError{CodeCatalogUnavailable, "Game catalog is unavailable"}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewMissingOriginError is returned when a request names no storage origin
func NewMissingOriginError() error {
	return &httpError{http.StatusBadRequest, APIError{CodeMissingOrigin, "Console origin required"}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
