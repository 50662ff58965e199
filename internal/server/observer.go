package server

import "context"

// IssuanceObserver creates request-scoped probes for client token requests
type IssuanceObserver interface {
	IssuanceStarted(ctx context.Context, userID string) (context.Context, IssuanceProbe)
}

// IssuanceProbe receives the outcome of a single client token request
type IssuanceProbe interface {
	Rejected(status int, reason string)
	Failed(err error)
	Issued(projectID string)
	End()
}

type noopIssuanceObserver struct{}

func (noopIssuanceObserver) IssuanceStarted(ctx context.Context, _ string) (context.Context, IssuanceProbe) {
	return ctx, noopIssuanceProbe{}
}

type noopIssuanceProbe struct{}

func (noopIssuanceProbe) Rejected(int, string) {}
func (noopIssuanceProbe) Failed(error)         {}
func (noopIssuanceProbe) Issued(string)        {}
func (noopIssuanceProbe) End()                 {}
