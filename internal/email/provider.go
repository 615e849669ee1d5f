// Package email implements the provider abstraction and the contact
// and alert orchestrators built on top of it.
package email

import (
	"context"
	"fmt"
	"log/slog"

	"portfolio-backend/internal/config"
)

// ProviderKind discriminates the closed set of email backends.
type ProviderKind string

const (
	ProviderSES  ProviderKind = "ses"
	ProviderSMTP ProviderKind = "smtp"
)

// Message is the uniform payload every backend accepts.
type Message struct {
	From    string
	To      []string
	ReplyTo string
	Subject string
	HTML    string
	Text    string
}

// SendResult is the uniform outcome. Backends map transport failures
// into Err instead of returning an error, so callers never need
// provider-specific handling.
type SendResult struct {
	Success   bool
	MessageID string
	Err       error
}

// Provider is the send capability shared by all backends.
type Provider interface {
	Send(ctx context.Context, msg *Message) SendResult
	Kind() ProviderKind
}

// NewProvider selects a backend from configuration. Missing required
// configuration fails fast here, never at first send.
func NewProvider(cfg config.EmailConfig, logger *slog.Logger) (Provider, error) {
	switch ProviderKind(cfg.Provider) {
	case ProviderSES:
		if cfg.AWSRegion == "" {
			return nil, fmt.Errorf("email provider %q requires AWS_REGION", cfg.Provider)
		}
		return NewSESProvider(cfg.AWSRegion, logger)
	case ProviderSMTP:
		if cfg.SMTPHost == "" || cfg.SMTPUser == "" || cfg.SMTPPass == "" {
			return nil, fmt.Errorf("email provider %q requires SMTP_HOST, SMTP_USER and SMTP_PASS", cfg.Provider)
		}
		return NewSMTPProvider(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPSecure, cfg.SMTPUser, cfg.SMTPPass, logger)
	default:
		return nil, fmt.Errorf("unsupported email provider %q", cfg.Provider)
	}
}
