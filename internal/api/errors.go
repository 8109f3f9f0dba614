package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/elcriollo/station-frontend/internal/forms"
)

const maxBodyBytes = 1 << 20

// ErrorBody is the JSON shape of every failed host response.
type ErrorBody struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// RespondJSON writes body as JSON with status.
func RespondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if body != nil {
		_ = json.NewEncoder(w).Encode(body)
	}
}

// RespondError writes a failed response with message.
func RespondError(w http.ResponseWriter, status int, message string) {
	RespondJSON(w, status, ErrorBody{Message: message})
}

func BadRequest(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusBadRequest, message)
}

func Forbidden(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusForbidden, message)
}

// RespondValidation writes a local validation failure as 422 with the
// per-field messages.
func RespondValidation(w http.ResponseWriter, err *forms.ValidationError) {
	RespondJSON(w, http.StatusUnprocessableEntity, ErrorBody{Message: err.Error(), Fields: err.Fields})
}

// DecodeJSON reads a JSON request body into v. An empty body leaves v
// untouched.
func DecodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
