package server

import (
	"encoding/json"
	"net/http"
)

const contentTypeJSON = "application/json; charset=utf-8"

// fallbackBody is sent when a token endpoint response cannot be encoded
var fallbackBody = []byte(`{"error":"internal server error"}`)

// ErrorResponse is the {error} body of every rejected token request
type ErrorResponse struct {
	Error string `json:"error"`
}

// TokenRequest is the body of POST /v1/token
type TokenRequest struct {
	UserID string `json:"userId"`
}

// TokenResponse carries the minted client token
type TokenResponse struct {
	ClientAuthToken string `json:"clientAuthToken"`
}

// respond encodes body as the endpoint's JSON reply
func respond(w http.ResponseWriter, status int, body any) {
	data, err := json.Marshal(body)
	if err != nil {
		status, data = http.StatusInternalServerError, fallbackBody
	}
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

// fail replies with {error: message}
func fail(w http.ResponseWriter, status int, message string) {
	respond(w, status, ErrorResponse{Error: message})
}
