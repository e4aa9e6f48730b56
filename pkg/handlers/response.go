// Package handlers exposes the task API over HTTP.
package handlers

import (
	"encoding/json"
	"net/http"
)

// APIError is the JSON body of every non-2xx response: a stable machine
// code plus a human-readable message.
type APIError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, statusCode int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	if statusCode != http.StatusOK {
		w.WriteHeader(statusCode)
	}
	return json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, statusCode int, code, message string) error {
	return writeJSON(w, statusCode, APIError{Error: code, Message: message})
}
