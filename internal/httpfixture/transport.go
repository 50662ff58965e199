package httpfixture

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
)

// Transport is an http.RoundTripper that answers from a Provider.
// Requests with no fixture go to Next, or fail when Next is nil.
type Transport struct {
	Provider Provider
	Next     http.RoundTripper

	mu       sync.Mutex
	requests []*http.Request
}

// NewTransport creates a transport with no fallback
func NewTransport(provider Provider) *Transport {
	return &Transport{Provider: provider}
}

// RoundTrip implements http.RoundTripper
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	t.mu.Lock()
	t.requests = append(t.requests, req)
	t.mu.Unlock()

	fixture := t.Provider.GetFixture(req)
	if fixture == nil {
		if t.Next != nil {
			return t.Next.RoundTrip(req)
		}
		return nil, fmt.Errorf("no fixture for %s %s", req.Method, req.URL)
	}

	// Drain the request body the way a real server would
	if req.Body != nil {
		_, _ = io.Copy(io.Discard, req.Body)
		_ = req.Body.Close()
	}

	status := fixture.StatusCode
	if status == 0 {
		status = http.StatusOK
	}

	header := make(http.Header, len(fixture.Headers))
	for k, v := range fixture.Headers {
		header.Set(k, v)
	}

	return &http.Response{
		Status:        fmt.Sprintf("%d %s", status, http.StatusText(status)),
		StatusCode:    status,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        header,
		Body:          io.NopCloser(strings.NewReader(fixture.Body)),
		ContentLength: int64(len(fixture.Body)),
		Request:       req,
	}, nil
}

// Requests returns every request seen so far, in order
func (t *Transport) Requests() []*http.Request {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]*http.Request, len(t.requests))
	copy(out, t.requests)
	return out
}
