package email

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/wneessen/go-mail"
)

// SMTPProvider sends email over a persistent SMTP client created once
// per instance.
type SMTPProvider struct {
	client *mail.Client
	logger *slog.Logger
}

// NewSMTPProvider creates an SMTP-backed provider. The connection is
// dialed lazily on first send; Verify performs an explicit health
// check.
func NewSMTPProvider(host string, port int, secure bool, user, pass string, logger *slog.Logger) (*SMTPProvider, error) {
	opts := []mail.Option{
		mail.WithPort(port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(user),
		mail.WithPassword(pass),
		mail.WithTLSPortPolicy(mail.TLSOpportunistic),
	}
	if secure {
		opts = append(opts, mail.WithSSLPort(false))
	}

	client, err := mail.NewClient(host, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create SMTP client: %w", err)
	}

	return &SMTPProvider{client: client, logger: logger}, nil
}

// Kind implements Provider.
func (p *SMTPProvider) Kind() ProviderKind { return ProviderSMTP }

// Verify dials the SMTP server and closes the session, proving the
// transport and credentials work.
func (p *SMTPProvider) Verify(ctx context.Context) error {
	if err := p.client.DialWithContext(ctx); err != nil {
		return fmt.Errorf("smtp verify failed: %w", err)
	}
	if err := p.client.Close(); err != nil {
		return fmt.Errorf("smtp close failed: %w", err)
	}
	return nil
}

// Send implements Provider. Transport failures are mapped into the
// result, never raised.
func (p *SMTPProvider) Send(ctx context.Context, msg *Message) SendResult {
	m := mail.NewMsg()
	if err := m.From(msg.From); err != nil {
		return SendResult{Success: false, Err: fmt.Errorf("invalid from address: %w", err)}
	}
	if err := m.To(msg.To...); err != nil {
		return SendResult{Success: false, Err: fmt.Errorf("invalid to address: %w", err)}
	}
	if msg.ReplyTo != "" {
		if err := m.ReplyTo(msg.ReplyTo); err != nil {
			return SendResult{Success: false, Err: fmt.Errorf("invalid reply-to address: %w", err)}
		}
	}
	m.Subject(msg.Subject)
	m.SetMessageID()
	m.SetBodyString(mail.TypeTextHTML, msg.HTML)
	if msg.Text != "" {
		m.AddAlternativeString(mail.TypeTextPlain, msg.Text)
	}

	if err := p.client.DialAndSendWithContext(ctx, m); err != nil {
		p.logger.Error("failed to send email via SMTP",
			slog.String("subject", msg.Subject),
			slog.Any("error", err))
		return SendResult{Success: false, Err: fmt.Errorf("smtp send failed: %w", err)}
	}

	messageID := m.GetMessageID()

	p.logger.Info("email sent via SMTP",
		slog.String("subject", msg.Subject),
		slog.String("message_id", messageID))

	return SendResult{Success: true, MessageID: messageID}
}
