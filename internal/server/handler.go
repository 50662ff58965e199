package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/cord-sdk/cord-cli/internal/credentials"
	"github.com/cord-sdk/cord-cli/internal/token"
)

// maxRequestBody caps the size of a token request body
const maxRequestBody = 64 << 10

// RecordReader reads the current credential record
type RecordReader interface {
	Read(ctx context.Context) (credentials.Record, error)
}

// TokenHandler mints client auth tokens for end users from the
// application credentials in the local credential file.
type TokenHandler struct {
	store    RecordReader
	signer   token.Signer
	observer IssuanceObserver
}

// NewTokenHandler creates a handler. A nil observer discards events.
func NewTokenHandler(store RecordReader, signer token.Signer, observer IssuanceObserver) *TokenHandler {
	if observer == nil {
		observer = noopIssuanceObserver{}
	}
	return &TokenHandler{
		store:    store,
		signer:   signer,
		observer: observer,
	}
}

// ServeHTTP handles POST {"userId": "..."} and responds with {"clientAuthToken": "..."}.
// Missing configuration is the caller's problem (400); I/O failures are ours (500).
func (h *TokenHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req TokenRequest
	decodeErr := json.NewDecoder(io.LimitReader(r.Body, maxRequestBody)).Decode(&req)
	userID := strings.TrimSpace(req.UserID)

	ctx, probe := h.observer.IssuanceStarted(r.Context(), userID)
	defer probe.End()

	if decodeErr != nil {
		h.reject(w, probe, http.StatusBadRequest, "request body must be JSON of the form {\"userId\": string}")
		return
	}
	if userID == "" {
		h.reject(w, probe, http.StatusBadRequest, "userId is required")
		return
	}

	record, err := h.store.Read(ctx)
	if err != nil {
		probe.Failed(err)
		var readErr *credentials.ReadError
		if errors.As(err, &readErr) {
			fail(w, http.StatusInternalServerError, "failed to read cord credentials")
			return
		}
		fail(w, http.StatusInternalServerError, "internal server error")
		return
	}

	creds, err := record.ApplicationCredentials()
	if err != nil {
		var missingErr *credentials.ConfigurationMissingError
		if errors.As(err, &missingErr) {
			h.reject(w, probe, http.StatusBadRequest, missingMessage(missingErr))
			return
		}
		probe.Failed(err)
		fail(w, http.StatusInternalServerError, "internal server error")
		return
	}

	clientToken, err := h.signer.ClientToken(creds.ProjectID, creds.ProjectSecret, map[string]any{
		token.ClaimUserID: userID,
	})
	if err != nil {
		probe.Failed(err)
		fail(w, http.StatusInternalServerError, "failed to sign client token")
		return
	}

	probe.Issued(creds.ProjectID)
	respond(w, http.StatusOK, TokenResponse{ClientAuthToken: clientToken})
}

func (h *TokenHandler) reject(w http.ResponseWriter, probe IssuanceProbe, status int, message string) {
	probe.Rejected(status, message)
	fail(w, status, message)
}

func missingMessage(err *credentials.ConfigurationMissingError) string {
	names := make([]string, len(err.Missing))
	for i, k := range err.Missing {
		names[i] = string(k)
	}
	return strings.Join(names, " and ") + " must be set"
}
