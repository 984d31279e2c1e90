// Package response writes the JSON envelope every endpoint answers with:
//
//	{"status": 200, "message": "...", "data": ..., "errors": ..., "meta": ...}
package response

import (
	"encoding/json"
	"net/http"
)

// Envelope is the wire shape of every JSON response.
type Envelope struct {
	Status  int         `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Errors  interface{} `json:"errors,omitempty"`
	Meta    interface{} `json:"meta,omitempty"`
}

// Write encodes body with the given status.
func Write(w http.ResponseWriter, status int, body Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body) //nolint:errcheck
}

func Success(w http.ResponseWriter, data interface{}) {
	Write(w, http.StatusOK, Envelope{Status: http.StatusOK, Data: data})
}

func Created(w http.ResponseWriter, data interface{}) {
	Write(w, http.StatusCreated, Envelope{Status: http.StatusCreated, Data: data})
}

func Error(w http.ResponseWriter, status int, message string) {
	Write(w, status, Envelope{Status: status, Message: message})
}

// ValidationError sends a 422 with a field → message map.
func ValidationError(w http.ResponseWriter, errs map[string]string) {
	Write(w, http.StatusUnprocessableEntity, Envelope{
		Status:  http.StatusUnprocessableEntity,
		Message: "Los datos enviados no son válidos",
		Errors:  errs,
	})
}

// Paginated sends a 200 with items in data and the page description in meta.
func Paginated(w http.ResponseWriter, items interface{}, meta interface{}) {
	Write(w, http.StatusOK, Envelope{Status: http.StatusOK, Data: items, Meta: meta})
}

func Unauthorized(w http.ResponseWriter) { Error(w, http.StatusUnauthorized, "No autorizado") }
func Forbidden(w http.ResponseWriter)    { Error(w, http.StatusForbidden, "Acceso denegado") }
func NotFound(w http.ResponseWriter)     { Error(w, http.StatusNotFound, "Recurso no encontrado") }
