package email

import (
	"context"
	"errors"
)

// Sender delivers the completed-report summary email.
type Sender interface {
	SendReportSummary(ctx context.Context, toEmail string, sessionID string, summary string) error
}

type disabledSender struct {
	reason string
}

func NewDisabledSender(reason string) Sender {
	return &disabledSender{reason: reason}
}

func (s *disabledSender) SendReportSummary(_ context.Context, _ string, _ string, _ string) error {
	if s.reason == "" {
		return errors.New("email sender disabled")
	}
	return errors.New(s.reason)
}
