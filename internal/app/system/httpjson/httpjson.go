// internal/app/system/httpjson/httpjson.go

// Package httpjson writes JSON responses and maps apperr categories to
// HTTP status codes. Success bodies are the resource itself (or a
// {"message": ...} envelope for acknowledgements); failures are always
// {"error": ...}.
package httpjson

import (
	"encoding/json"
	"net/http"

	"github.com/danielhkim/shepherdhub/internal/app/system/apperr"
)

// Respond writes data as JSON with the given status.
func Respond(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// Message writes a {"message": msg} acknowledgement.
func Message(w http.ResponseWriter, status int, msg string) {
	Respond(w, status, map[string]string{"message": msg})
}

// Error writes a {"error": msg} body with the given status.
func Error(w http.ResponseWriter, status int, msg string) {
	Respond(w, status, map[string]string{"error": msg})
}

// Fail classifies err by apperr category and writes the matching
// status: 400 validation, 403 forbidden, 404 not found, 500 otherwise
// (persistence and unknown errors). The raw error text of a 500 is not
// leaked to the client.
func Fail(w http.ResponseWriter, err error) {
	switch {
	case apperr.IsValidation(err):
		Error(w, http.StatusBadRequest, err.Error())
	case apperr.IsForbidden(err):
		Error(w, http.StatusForbidden, err.Error())
	case apperr.IsNotFound(err):
		Error(w, http.StatusNotFound, err.Error())
	default:
		Error(w, http.StatusInternalServerError, "internal server error")
	}
}

// Decode reads the request body as JSON into dst. Unknown fields are
// ignored (the schema is authoritative, not the payload); a malformed
// body is a validation error.
func Decode(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperr.Validationf("invalid JSON body")
	}
	return nil
}
