// Package response writes the JSON envelope every action returns:
// {success, data?, error?}. Failures always travel in the envelope with
// HTTP 200, matching the CGI-era clients this API stays compatible with.
package response

import (
	"encoding/json"
	"net/http"
)

type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func WriteSuccess(w http.ResponseWriter, data any) error {
	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(Envelope{Success: true, Data: data})
}

func WriteFailure(w http.ResponseWriter, message string) error {
	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(Envelope{Success: false, Error: message})
}
