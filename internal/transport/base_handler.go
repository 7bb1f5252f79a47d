package transport

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	appErrors "github.com/frahmantamala/expenzor/internal"
	"github.com/frahmantamala/expenzor/pkg/logger"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// BaseHandler provides common functionality for HTTP handlers
type BaseHandler struct {
	Logger *slog.Logger
}

// NewBaseHandler creates a base handler with logger
func NewBaseHandler(lg *slog.Logger) *BaseHandler {
	if lg == nil {
		lg = logger.LoggerWrapper()
		if lg == nil {
			lg = slog.Default()
		}
	}
	return &BaseHandler{Logger: lg}
}

// WriteJSON writes a JSON response
func (h *BaseHandler) WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.Logger.Error("failed to encode JSON response", "error", err)
	}
}

// WriteError writes an AppError as {"error": {...}} with its status code.
func (h *BaseHandler) WriteError(w http.ResponseWriter, err *appErrors.AppError) {
	status, body := err.ToHTTPResponse()
	h.WriteJSON(w, status, body)
}

// HandleServiceError maps any error returned by a service onto the
// response. Errors outside the taxonomy become a 500 without leaking the
// cause.
func (h *BaseHandler) HandleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	appErr, ok := appErrors.IsAppError(err)
	if !ok {
		appErr = appErrors.NewInternalError("internal server error", err)
	}

	lg := logger.From(r.Context())
	if appErr.StatusCode >= http.StatusInternalServerError {
		lg.Error("request failed", "error", err, "code", appErr.Code)
	} else {
		lg.Debug("request rejected", "error", err, "code", appErr.Code)
	}

	h.WriteError(w, appErr)
}

// ReadJSON decodes the request body into dst. Malformed bodies become a
// Validation error naming the offending field when the decoder knows it.
func (h *BaseHandler) ReadJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			return appErrors.NewValidationFieldError(typeErr.Field,
				fmt.Sprintf("%s has an invalid type", typeErr.Field), appErrors.ErrCodeValidationFailed)
		}
		return appErrors.NewValidationError("malformed request body: "+err.Error(), appErrors.ErrCodeValidationFailed).
			WithCause(err)
	}
	return nil
}

// PathInt64 parses a positive integer path or query value.
func PathInt64(name, raw string) (int64, error) {
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v <= 0 {
		return 0, appErrors.NewInvalidArgumentError(
			fmt.Sprintf("%s must be a positive integer, got %q", name, raw), appErrors.ErrCodeInvalidID)
	}
	return v, nil
}

// QueryInt parses an integer query parameter, returning def when absent.
func QueryInt(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, appErrors.NewInvalidArgumentError(
			fmt.Sprintf("%s must be an integer, got %q", name, raw), appErrors.ErrCodeInvalidArgument)
	}
	return v, nil
}

// RequireQuery returns the named query parameter or an InvalidArgument error.
func RequireQuery(r *http.Request, name string) (string, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return "", appErrors.NewInvalidArgumentError(
			fmt.Sprintf("query parameter %s is required", name), appErrors.ErrCodeInvalidArgument)
	}
	return raw, nil
}
