package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/tair/product-catalog/pkg/apperror"
	"github.com/tair/product-catalog/pkg/logger"
)

// ErrorBody is the payload of every error response
type ErrorBody struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// MessageBody is the payload of responses that only carry a message
type MessageBody struct {
	Message string `json:"message"`
}

// JSON writes v with the given status
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Logger.Error().Err(err).Msg("Failed to encode response")
	}
}

// Message writes {"message": msg}
func Message(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, MessageBody{Message: msg})
}

// ErrorMessage writes {"error": msg}
func ErrorMessage(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, ErrorBody{Error: msg})
}

// Error maps err to its status code and error payload.
// Validation errors carry their violations joined in details.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	status := apperror.HTTPStatus(err)
	body := ErrorBody{Error: err.Error()}

	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		body.Error = appErr.Message
		body.Details = strings.Join(appErr.Details, ", ")
	}

	if status >= http.StatusInternalServerError {
		logger.Error(r.Context()).Err(err).Str("path", r.URL.Path).Msg("Request failed")
	}

	JSON(w, status, body)
}

// DecodeJSON decodes the request body into v. A malformed body is a validation error.
func DecodeJSON(r *http.Request, v interface{}) error {
	if r.Body == nil || r.Body == http.NoBody {
		return apperror.Validation(invalidBody, "request body is empty")
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apperror.Validation(invalidBody, err.Error())
	}
	return nil
}

const invalidBody = "Invalid request body"
