package dispatch

import (
	"context"

	"github.com/cord-sdk/cord-cli/internal/credentials"
)

// Observer creates request-scoped probes for outbound API calls
type Observer interface {
	RequestStarted(ctx context.Context, surface credentials.Surface, method, endpoint string) (context.Context, Probe)
}

// Probe receives the events of a single API call
type Probe interface {
	// CredentialsResolved is called once the signing identity is known
	CredentialsResolved(identity, secretPrefix, url string)
	ResponseReceived(statusCode int)
	RequestFailed(err error)
	End()
}

// NoopObserver discards all events
type NoopObserver struct{}

func (NoopObserver) RequestStarted(ctx context.Context, _ credentials.Surface, _, _ string) (context.Context, Probe) {
	return ctx, noopProbe{}
}

type noopProbe struct{}

func (noopProbe) CredentialsResolved(string, string, string) {}
func (noopProbe) ResponseReceived(int)                       {}
func (noopProbe) RequestFailed(error)                        {}
func (noopProbe) End()                                       {}
