package email

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"portfolio-backend/internal/models"
)

// SecurityReport aggregates scanner and detector findings for one
// alert email.
type SecurityReport struct {
	Result  models.SecurityCheckResult
	Threats []models.ThreatDetection
}

// AlertMailer renders and sends security alert emails.
type AlertMailer struct {
	provider  Provider
	from      string
	recipient string
	logger    *slog.Logger
	now       func() time.Time
}

// NewAlertMailer creates an AlertMailer with a fixed recipient.
func NewAlertMailer(provider Provider, from, recipient string, logger *slog.Logger) *AlertMailer {
	return &AlertMailer{
		provider:  provider,
		from:      from,
		recipient: recipient,
		logger:    logger,
		now:       time.Now,
	}
}

type alertTemplateData struct {
	Status    string
	Timestamp string
	Leaks     []models.SecretLeak
	Threats   []models.ThreatDetection
	Warnings  []models.PublicVarWarning
}

// SendAlert composes the report into an HTML/text alert and delegates
// to the provider. Failures are folded into the result; this method
// never lets an internal error escape.
func (m *AlertMailer) SendAlert(ctx context.Context, report SecurityReport) ContactEmailResult {
	defer func() {
		if r := recover(); r != nil {
			m.logger.Error("alert mailer panic recovered", slog.Any("panic", r))
		}
	}()

	status := "secure"
	if !report.Result.Safe || len(report.Threats) > 0 {
		status = "vulnerable"
	}

	data := alertTemplateData{
		Status:    status,
		Timestamp: m.now().UTC().Format(time.RFC1123),
		Leaks:     report.Result.Leaks,
		Threats:   report.Threats,
		Warnings:  report.Result.PublicVarCheck.Warnings,
	}

	var buf bytes.Buffer
	if err := alertTemplate.Execute(&buf, data); err != nil {
		m.logger.Error("failed to render security alert", slog.Any("error", err))
		return ContactEmailResult{Success: false, Err: fmt.Errorf("failed to render security alert: %w", err)}
	}

	msg := &Message{
		From:    m.from,
		To:      []string{m.recipient},
		Subject: fmt.Sprintf("Security alert: %s", status),
		HTML:    buf.String(),
		Text:    renderAlertText(data),
	}

	result := m.provider.Send(ctx, msg)
	if !result.Success {
		m.logger.Error("security alert send failed", slog.Any("error", result.Err))
		return ContactEmailResult{Success: false, Err: result.Err}
	}

	m.logger.Info("security alert sent",
		slog.String("status", status),
		slog.Int("leaks", len(report.Result.Leaks)),
		slog.Int("threats", len(report.Threats)))

	return ContactEmailResult{Success: true, EmailID: result.MessageID}
}

func renderAlertText(data alertTemplateData) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Security alert: %s (%s)\n\n", data.Status, data.Timestamp)

	if len(data.Leaks) > 0 {
		b.WriteString("Secret leaks:\n")
		for _, leak := range data.Leaks {
			fmt.Fprintf(&b, "  - %s (%s): %s\n", leak.Variable, leak.Severity, leak.Description)
		}
		b.WriteString("\n")
	}
	if len(data.Threats) > 0 {
		b.WriteString("Detected threats:\n")
		for _, t := range data.Threats {
			fmt.Fprintf(&b, "  - %s (%s): %s\n", t.ThreatType, t.Severity, t.Description)
		}
		b.WriteString("\n")
	}
	if len(data.Warnings) > 0 {
		b.WriteString("Public variable warnings:\n")
		for _, w := range data.Warnings {
			fmt.Fprintf(&b, "  - %s: %s\n", w.Variable, w.Reason)
		}
	}
	return b.String()
}
