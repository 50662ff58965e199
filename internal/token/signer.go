// Package token mints the bearer tokens presented to the cord API surfaces.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"

	"github.com/cord-sdk/cord-cli/internal/clock"
)

// Claim names understood by the cord API
const (
	ClaimProjectID  = "project_id"
	ClaimAppID      = "app_id"
	ClaimCustomerID = "customer_id"
	ClaimUserID     = "user_id"
)

// DefaultTTL is how long a minted token stays valid
const DefaultTTL = time.Minute

// ErrEmptyCredential is returned when an id or secret is blank
var ErrEmptyCredential = errors.New("credential id and secret must not be empty")

// Signer produces bearer tokens from long-lived identity/secret pairs
type Signer interface {
	// ServerToken authorizes calls to the per-application REST API
	ServerToken(projectID, secret string) (string, error)

	// ManagementToken authorizes calls to the account/management API
	ManagementToken(customerID, secret string) (string, error)

	// ClientToken authorizes an end user of an application.
	// claims typically carries user_id.
	ClientToken(projectID, secret string, claims map[string]any) (string, error)
}

// HMACSignerConfig is the configuration for creating an HMAC signer
type HMACSignerConfig struct {
	// TTL is the token lifetime (defaults to DefaultTTL)
	TTL time.Duration

	// Algorithm is the HMAC algorithm (defaults to HS512)
	Algorithm jwa.SignatureAlgorithm

	// Clock is an optional clock for testing (defaults to system clock)
	Clock clock.Clock
}

// HMACSigner signs JWTs with the caller's secret using an HMAC algorithm
type HMACSigner struct {
	ttl       time.Duration
	algorithm jwa.SignatureAlgorithm
	clock     clock.Clock
}

var _ Signer = (*HMACSigner)(nil)

// NewHMACSigner creates a new HMAC signer
func NewHMACSigner(cfg HMACSignerConfig) *HMACSigner {
	clk := cfg.Clock
	if clk == nil {
		clk = clock.NewSystemClock()
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	alg := cfg.Algorithm
	if alg == "" {
		alg = jwa.HS512
	}

	return &HMACSigner{
		ttl:       ttl,
		algorithm: alg,
		clock:     clk,
	}
}

// ServerToken implements Signer
func (s *HMACSigner) ServerToken(projectID, secret string) (string, error) {
	if projectID == "" || secret == "" {
		return "", ErrEmptyCredential
	}
	return s.sign(secret, map[string]any{
		ClaimProjectID: projectID,
		ClaimAppID:     projectID,
	})
}

// ManagementToken implements Signer
func (s *HMACSigner) ManagementToken(customerID, secret string) (string, error) {
	if customerID == "" || secret == "" {
		return "", ErrEmptyCredential
	}
	return s.sign(secret, map[string]any{
		ClaimCustomerID: customerID,
	})
}

// ClientToken implements Signer.
// The project claims always override same-named entries in claims.
func (s *HMACSigner) ClientToken(projectID, secret string, claims map[string]any) (string, error) {
	if projectID == "" || secret == "" {
		return "", ErrEmptyCredential
	}

	merged := make(map[string]any, len(claims)+2)
	for k, v := range claims {
		merged[k] = v
	}
	merged[ClaimProjectID] = projectID
	merged[ClaimAppID] = projectID

	return s.sign(secret, merged)
}

func (s *HMACSigner) sign(secret string, claims map[string]any) (string, error) {
	now := s.clock.Now()

	token := jwt.New()
	for k, v := range claims {
		if err := token.Set(k, v); err != nil {
			return "", fmt.Errorf("failed to set claim %s: %w", k, err)
		}
	}
	if err := token.Set(jwt.IssuedAtKey, now.Unix()); err != nil {
		return "", fmt.Errorf("failed to set issued at: %w", err)
	}
	if err := token.Set(jwt.ExpirationKey, now.Add(s.ttl).Unix()); err != nil {
		return "", fmt.Errorf("failed to set expiration: %w", err)
	}
	if err := token.Set(jwt.JwtIDKey, uuid.NewString()); err != nil {
		return "", fmt.Errorf("failed to set JWT ID: %w", err)
	}

	signed, err := jwt.Sign(token, jwt.WithKey(s.algorithm, []byte(secret)))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return string(signed), nil
}
