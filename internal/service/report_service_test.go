package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"accidata/internal/catalog"
	"accidata/internal/domain"
)

type mockEmailSender struct {
	sent    []string
	sendErr error
}

func (m *mockEmailSender) SendReportSummary(_ context.Context, toEmail, _, _ string) error {
	if m.sendErr != nil {
		return m.sendErr
	}
	m.sent = append(m.sent, toEmail)
	return nil
}

func reportTestCatalog() *catalog.Catalog {
	return catalog.New([]domain.Question{
		{ID: 1, Category: "General", Text: "What happened?"},
		{ID: 2, Category: "General", Text: "When did it happen?"},
		{ID: 3, Category: "Scene", Text: "Where did it happen?"},
	})
}

func TestBuildSummarySkipsUnanswered(t *testing.T) {
	svc := NewReportService(&mockEmailSender{}, zap.NewNop())

	summary := svc.BuildSummary(reportTestCatalog(), map[int]string{
		1: "A rear-end collision.",
		3: "On the highway.",
	}, nil)

	if !strings.Contains(summary, "Q: What happened?\nA: A rear-end collision.\n---\n") {
		t.Fatalf("missing first answer block:\n%s", summary)
	}
	if strings.Contains(summary, "When did it happen?") {
		t.Fatalf("unanswered question must be skipped:\n%s", summary)
	}
	first := strings.Index(summary, "What happened?")
	second := strings.Index(summary, "Where did it happen?")
	if first < 0 || second < 0 || second < first {
		t.Fatalf("answers must follow catalog order:\n%s", summary)
	}
}

func TestBuildSummaryListsAttachments(t *testing.T) {
	svc := NewReportService(&mockEmailSender{}, zap.NewNop())

	summary := svc.BuildSummary(reportTestCatalog(), map[int]string{1: "A1"}, []domain.AttachmentRecord{
		{FileName: "scene.jpg", URL: "https://storage.example.com/x/scene.jpg"},
	})

	if !strings.Contains(summary, "Attached documents:") {
		t.Fatalf("missing attachment section:\n%s", summary)
	}
	if !strings.Contains(summary, "- scene.jpg (https://storage.example.com/x/scene.jpg)") {
		t.Fatalf("missing attachment line:\n%s", summary)
	}
}

func TestSendSummaryValidation(t *testing.T) {
	sender := &mockEmailSender{}
	svc := NewReportService(sender, zap.NewNop())

	if err := svc.SendSummary(context.Background(), "", "s1", "summary"); !errors.Is(err, ErrReportInvalidInput) {
		t.Fatalf("expected ErrReportInvalidInput for empty email, got %v", err)
	}
	if err := svc.SendSummary(context.Background(), "a@b.com", "s1", "  "); !errors.Is(err, ErrReportInvalidInput) {
		t.Fatalf("expected ErrReportInvalidInput for blank summary, got %v", err)
	}
	if len(sender.sent) != 0 {
		t.Fatalf("invalid input must not reach the sender")
	}

	if err := svc.SendSummary(context.Background(), "a@b.com", "s1", "summary"); err != nil {
		t.Fatalf("expected send to succeed, got %v", err)
	}
	if len(sender.sent) != 1 || sender.sent[0] != "a@b.com" {
		t.Fatalf("expected one delivery, got %+v", sender.sent)
	}
}

func TestSendSummaryNotConfigured(t *testing.T) {
	svc := NewReportService(nil, zap.NewNop())
	if err := svc.SendSummary(context.Background(), "a@b.com", "s1", "summary"); !errors.Is(err, ErrReportNotConfigured) {
		t.Fatalf("expected ErrReportNotConfigured, got %v", err)
	}
}

func TestSendSummaryWrapsSenderError(t *testing.T) {
	svc := NewReportService(&mockEmailSender{sendErr: errors.New("smtp timeout")}, zap.NewNop())
	err := svc.SendSummary(context.Background(), "a@b.com", "s1", "summary")
	if err == nil || !strings.Contains(err.Error(), "smtp timeout") {
		t.Fatalf("expected wrapped sender error, got %v", err)
	}
}
