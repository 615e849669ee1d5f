package logger

import (
	"context"
	"log/slog"
	"time"
)

// AuditLogger emits structured audit records for user-facing actions
// and security findings. Audit lines share the "audit" message so they
// are trivially filterable downstream.
type AuditLogger struct {
	logger *slog.Logger
}

// NewAuditLogger creates a new audit logger
func NewAuditLogger(logger *slog.Logger) *AuditLogger {
	return &AuditLogger{logger: logger}
}

// LogContactSubmission records the outcome of one contact form send.
// The sender address is masked before it reaches the log stream.
func (al *AuditLogger) LogContactSubmission(email, ipAddress string, success bool) {
	attrs := []slog.Attr{
		slog.String("audit_type", "contact"),
		slog.String("sender", SanitizedEmail(email)),
		slog.Bool("success", success),
		slog.String("timestamp", time.Now().UTC().Format(time.RFC3339)),
	}
	if ipAddress != "" {
		attrs = append(attrs, slog.String("ip_address", ipAddress))
	}

	level := slog.LevelInfo
	if !success {
		level = slog.LevelWarn
	}
	al.logger.LogAttrs(context.Background(), level, "audit", attrs...)
}

// LogSecurityFinding records a detector or scanner finding.
func (al *AuditLogger) LogSecurityFinding(findingType, identifier, severity string, metadata map[string]string) {
	attrs := []slog.Attr{
		slog.String("audit_type", "security"),
		slog.String("finding_type", findingType),
		slog.String("severity", severity),
		slog.String("timestamp", time.Now().UTC().Format(time.RFC3339)),
	}
	if identifier != "" {
		attrs = append(attrs, slog.String("identifier", identifier))
	}
	for key, val := range metadata {
		attrs = append(attrs, slog.String(key, val))
	}

	al.logger.LogAttrs(context.Background(), slog.LevelWarn, "audit", attrs...)
}

// LogRateLimit records a rate limit rejection.
func (al *AuditLogger) LogRateLimit(identifier string, blocked bool) {
	al.logger.LogAttrs(context.Background(), slog.LevelWarn, "audit",
		slog.String("audit_type", "rate_limit"),
		slog.String("identifier", identifier),
		slog.Bool("blocked", blocked),
		slog.String("timestamp", time.Now().UTC().Format(time.RFC3339)))
}
