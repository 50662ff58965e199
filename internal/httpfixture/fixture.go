// Package httpfixture serves canned HTTP responses so the CLI can run
// against the cord API without a network, for demos and tests.
package httpfixture

import "net/http"

// Fixture is a canned HTTP response
type Fixture struct {
	StatusCode int               `json:"status" yaml:"status"`
	Headers    map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`
	Body       string            `json:"body" yaml:"body"`
}

// Provider returns a fixture for a request, or nil if none applies
type Provider interface {
	GetFixture(req *http.Request) *Fixture
}

// Rule pairs request matching criteria with the response to serve
type Rule struct {
	Request  Match   `json:"request" yaml:"request"`
	Response Fixture `json:"response" yaml:"response"`
}

// Match describes which requests a rule applies to.
// Empty fields match anything.
type Match struct {
	Method  string            `json:"method" yaml:"method"`                         // e.g. "GET", "*" for any
	URL     string            `json:"url" yaml:"url"`                               // exact URL or regular expression
	URLType string            `json:"url_type,omitempty" yaml:"url_type,omitempty"` // "exact" (default) or "pattern"
	Headers map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`
}

// Set is the on-disk shape of a fixtures file
type Set struct {
	Rules []Rule `json:"fixtures" yaml:"fixtures"`
}
