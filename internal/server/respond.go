package server

import (
	"encoding/json"
	"net/http"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/jyotish/pkg/errors"
)

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

// statusFor maps an error to its HTTP status by kind.
func statusFor(err error) int {
	switch errors.KindOf(err) {
	case errors.KindInput:
		return http.StatusBadRequest
	case errors.KindNotFound:
		return http.StatusNotFound
	case errors.KindEphemeris:
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError reports err to the client. Errors without a code are logged and
// replaced by a generic INTERNAL_ERROR.
func writeError(w http.ResponseWriter, logger *log.Logger, err error) {
	status := statusFor(err)
	body := errorBody{Code: errors.GetCode(err), Message: errors.UserMessage(err)}
	if body.Code == "" {
		logger.Error("unhandled error", "error", err)
		body = errorBody{Code: errors.ErrCodeInternal, Message: "internal error"}
	} else if status >= http.StatusInternalServerError {
		logger.Error("request failed", "code", body.Code, "error", err)
	}
	writeJSON(w, status, body)
}

func notFound(format string, args ...any) error {
	return errors.New(errors.ErrCodeNotFound, format, args...)
}
