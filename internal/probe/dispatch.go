package probe

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/cord-sdk/cord-cli/internal/credentials"
	"github.com/cord-sdk/cord-cli/internal/dispatch"
)

// dispatchObserver creates request-scoped logging probes for API calls
type dispatchObserver struct {
	logger logrus.FieldLogger
}

// NewLoggingDispatchObserver creates an observer that logs outbound API calls.
// Secrets are never logged, only their first four characters at debug level.
func NewLoggingDispatchObserver(logger logrus.FieldLogger) dispatch.Observer {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &dispatchObserver{logger: logger}
}

func (o *dispatchObserver) RequestStarted(
	ctx context.Context,
	surface credentials.Surface,
	method string,
	endpoint string,
) (context.Context, dispatch.Probe) {
	entry := o.logger.WithFields(logrus.Fields{
		"surface":  string(surface),
		"method":   method,
		"endpoint": endpoint,
	})
	entry.Debug("Starting API call")

	return ctx, &dispatchProbe{entry: entry}
}

// dispatchProbe logs the events of a single API call
type dispatchProbe struct {
	entry *logrus.Entry
}

func (p *dispatchProbe) CredentialsResolved(identity, secretPrefix, url string) {
	p.entry = p.entry.WithField("url", url)
	p.entry.WithFields(logrus.Fields{
		"identity":      identity,
		"secret_prefix": secretPrefix,
	}).Debug("Sending request")
}

func (p *dispatchProbe) ResponseReceived(statusCode int) {
	p.entry = p.entry.WithField("status", statusCode)
	p.entry.Debug("Response received")
}

func (p *dispatchProbe) RequestFailed(err error) {
	p.entry.WithError(err).Debug("API call failed")
}

func (p *dispatchProbe) End() {
	p.entry.Debug("API call completed")
}
