package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"roster/internal/logging"
	"roster/internal/service"
)

// ErrorResponse is the JSON body of every API error.
type ErrorResponse struct {
	Error  string         `json:"error"`
	Code   string         `json:"code"`
	Reason service.Reason `json:"reason,omitempty"`
}

// statusFor maps controller errors to HTTP statuses.
func statusFor(err error) (int, string) {
	switch {
	case service.IsValidation(err):
		return http.StatusUnprocessableEntity, "validation_failed"
	case service.IsNotFound(err):
		return http.StatusNotFound, "not_found"
	case service.IsPersistence(err):
		return http.StatusInternalServerError, "storage_unavailable"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

// userMessage is what the person at the form sees for err.
func userMessage(err error) string {
	var v *service.ValidationError
	if errors.As(err, &v) {
		return v.Message
	}
	var nf *service.NotFoundError
	if errors.As(err, &nf) {
		return "Student " + nf.StudentID + " no longer exists. The form is back in add mode."
	}
	return "The roster could not be saved or loaded. Please try again."
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondErrorJSON(w http.ResponseWriter, r *http.Request, err error) {
	status, code := statusFor(err)
	logError(r, err, status, code)
	writeJSON(w, status, ErrorResponse{
		Error:  userMessage(err),
		Code:   code,
		Reason: service.ReasonOf(err),
	})
}

func logError(r *http.Request, err error, status int, code string) {
	logger := logging.FromContext(r.Context())
	args := []any{"path", r.URL.Path, "method", r.Method, "status", status, "code", code, "error", err.Error()}
	if status >= http.StatusInternalServerError {
		logger.Error("request error", args...)
	} else {
		logger.Info("request rejected", args...)
	}
}
