package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"accidata/internal/catalog"
	"accidata/internal/domain"
	"accidata/internal/email"
)

var (
	ErrReportNotConfigured = errors.New("report service not configured")
	ErrReportInvalidInput  = errors.New("report service invalid input")
)

// ReportService compiles a finished session's answers into a plain-text
// summary and emails it on request.
type ReportService struct {
	sender email.Sender
	logger *zap.Logger
}

func NewReportService(sender email.Sender, logger *zap.Logger) *ReportService {
	return &ReportService{sender: sender, logger: logger}
}

// BuildSummary walks the catalog in order and renders answered questions as
// Q/A blocks, with the attached files listed at the end.
func (s *ReportService) BuildSummary(cat *catalog.Catalog, answers map[int]string, attachments []domain.AttachmentRecord) string {
	var summary strings.Builder
	summary.WriteString("Accident report responses:\n")

	for _, question := range cat.All() {
		answer, ok := answers[question.ID]
		if !ok || answer == "" {
			continue
		}
		summary.WriteString(fmt.Sprintf("Q: %s\nA: %s\n---\n", strings.TrimSpace(question.Text), strings.TrimSpace(answer)))
	}

	if len(attachments) > 0 {
		summary.WriteString("Attached documents:\n")
		for _, attachment := range attachments {
			summary.WriteString(fmt.Sprintf("- %s (%s)\n", attachment.FileName, attachment.URL))
		}
	}

	return summary.String()
}

// SendSummary emails the summary for a session.
func (s *ReportService) SendSummary(ctx context.Context, toEmail, sessionID, summary string) error {
	if s == nil || s.sender == nil {
		return ErrReportNotConfigured
	}
	toEmail = strings.TrimSpace(toEmail)
	if toEmail == "" || strings.TrimSpace(summary) == "" {
		return ErrReportInvalidInput
	}

	if err := s.sender.SendReportSummary(ctx, toEmail, sessionID, summary); err != nil {
		return fmt.Errorf("send report summary: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("report summary sent", zap.String("session_id", sessionID))
	}
	return nil
}
