// Package response writes the JSON envelopes the local HTTP surface answers
// with.
package response

import (
	"encoding/json"
	"net/http"

	"github.com/shashiranjanraj/storefront/pkg/apperr"
)

type envelope struct {
	Status   int    `json:"status"`
	Message  string `json:"message,omitempty"`
	Data     any    `json:"data,omitempty"`
	Errors   any    `json:"errors,omitempty"`
	Redirect string `json:"redirect,omitempty"`
}

func write(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body) //nolint:errcheck
}

// Success sends a 200 JSON response with data.
func Success(w http.ResponseWriter, data any) {
	write(w, http.StatusOK, envelope{Status: http.StatusOK, Data: data})
}

// SeeOther answers a completed action with 303 and the screen to go to next.
// message is optional (e.g. "Profile Updated Successfully").
func SeeOther(w http.ResponseWriter, to, message string) {
	w.Header().Set("Location", to)
	write(w, http.StatusSeeOther, envelope{Status: http.StatusSeeOther, Redirect: to, Message: message})
}

// Error sends a JSON error response.
func Error(w http.ResponseWriter, status int, message string) {
	write(w, status, envelope{Status: status, Message: message})
}

// Fail maps err onto its status and user-facing message. Validation
// failures carry their field map.
func Fail(w http.ResponseWriter, err error) {
	status := apperr.HTTPStatus(err)
	body := envelope{Status: status, Message: apperr.PublicMessage(err)}
	if ae, ok := apperr.As(err); ok && len(ae.Fields) > 0 {
		body.Errors = ae.Fields
	}
	write(w, status, body)
}

// ValidationError sends a 422 with field-level error map.
func ValidationError(w http.ResponseWriter, errs map[string]string) {
	write(w, http.StatusUnprocessableEntity, envelope{
		Status:  http.StatusUnprocessableEntity,
		Message: "Validation failed",
		Errors:  errs,
	})
}

// NotFound sends a 404.
func NotFound(w http.ResponseWriter) {
	Error(w, http.StatusNotFound, "Not found")
}
