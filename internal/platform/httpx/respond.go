// Package httpx provides the uniform response envelope shared by every
// endpoint.
package httpx

import (
	"encoding/json"
	"net/http"
)

// Envelope is the success body: {"status":"success","message":...,"data":...}
// plus any extra top-level keys (pagination metadata and the like).
type Envelope struct {
	Status  string         `json:"status"`
	Message string         `json:"message"`
	Data    any            `json:"data"`
	Extra   map[string]any `json:"-"`
}

// FailEnvelope is the error body: {"status":"fail","error":...}.
type FailEnvelope struct {
	Status string `json:"status"`
	Error  string `json:"error"`
}

// JSON sends a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// Success sends the success envelope. Extra keys are merged at the top level
// next to status/message/data.
func Success(w http.ResponseWriter, status int, message string, data any, extra map[string]any) {
	if len(extra) == 0 {
		JSON(w, status, Envelope{Status: "success", Message: message, Data: data})
		return
	}
	body := make(map[string]any, len(extra)+3)
	body["status"] = "success"
	body["message"] = message
	body["data"] = data
	for k, v := range extra {
		body[k] = v
	}
	JSON(w, status, body)
}

// Fail sends the error envelope with the given status code.
func Fail(w http.ResponseWriter, status int, message string) {
	JSON(w, status, FailEnvelope{Status: "fail", Error: message})
}

// DecodeJSON decodes a JSON request body into the target struct.
func DecodeJSON(r *http.Request, target any) error {
	return json.NewDecoder(r.Body).Decode(target)
}
