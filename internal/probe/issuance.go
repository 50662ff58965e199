package probe

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/cord-sdk/cord-cli/internal/server"
)

type issuanceObserver struct {
	logger logrus.FieldLogger
}

// NewLoggingIssuanceObserver creates an observer that logs client token issuance
func NewLoggingIssuanceObserver(logger logrus.FieldLogger) server.IssuanceObserver {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &issuanceObserver{logger: logger}
}

func (o *issuanceObserver) IssuanceStarted(ctx context.Context, userID string) (context.Context, server.IssuanceProbe) {
	entry := o.logger.WithField("user_id", userID)
	entry.Info("Generating client token")
	return ctx, &issuanceProbe{entry: entry}
}

type issuanceProbe struct {
	entry *logrus.Entry
}

func (p *issuanceProbe) Rejected(status int, reason string) {
	p.entry.WithFields(logrus.Fields{
		"status": status,
		"reason": reason,
	}).Warn("Client token request rejected")
}

func (p *issuanceProbe) Failed(err error) {
	p.entry.WithError(err).Error("Client token issuance failed")
}

func (p *issuanceProbe) Issued(projectID string) {
	p.entry.WithField("project_id", projectID).Debug("Client token issued")
}

func (p *issuanceProbe) End() {}
