package email

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"portfolio-backend/internal/models"
	pkglogger "portfolio-backend/pkg/logger"

	"github.com/google/uuid"
)

// GeoResolver resolves a sender IP to coarse location data. The
// implementation must degrade to the Unknown record instead of failing.
type GeoResolver interface {
	Lookup(ctx context.Context, ip string) models.GeoLocation
}

// ContactEmailRequest carries the sanitized, validated submission plus
// its request context.
type ContactEmailRequest struct {
	Name      string
	Email     string
	Message   string
	IP        string
	UserAgent string
	Referer   string
}

// ContactEmailResult mirrors the provider result shape for handlers.
type ContactEmailResult struct {
	Success bool
	EmailID string
	Err     error
}

// ContactMailer renders and sends the contact notification email.
type ContactMailer struct {
	provider  Provider
	geo       GeoResolver
	from      string
	recipient string
	logger    *slog.Logger
	now       func() time.Time
}

// NewContactMailer creates a ContactMailer with a fixed recipient.
func NewContactMailer(provider Provider, geo GeoResolver, from, recipient string, logger *slog.Logger) *ContactMailer {
	return &ContactMailer{
		provider:  provider,
		geo:       geo,
		from:      from,
		recipient: recipient,
		logger:    logger,
		now:       time.Now,
	}
}

type contactTemplateData struct {
	Name    string
	Email   string
	Message string
	Meta    models.ContactMetadata
}

// SendEmail resolves metadata, renders the template and delegates to
// the provider with reply-to set to the sender. It never panics and
// never returns a raw internal error shape: every failure is folded
// into the result.
func (m *ContactMailer) SendEmail(ctx context.Context, req ContactEmailRequest) ContactEmailResult {
	defer func() {
		if r := recover(); r != nil {
			m.logger.Error("contact mailer panic recovered", slog.Any("panic", r))
		}
	}()

	meta := m.buildMetadata(ctx, req)

	html, err := renderContact(contactTemplateData{
		Name:    req.Name,
		Email:   req.Email,
		Message: req.Message,
		Meta:    meta,
	})
	if err != nil {
		m.logger.Error("failed to render contact email", slog.Any("error", err))
		return ContactEmailResult{Success: false, Err: fmt.Errorf("failed to render contact email: %w", err)}
	}

	msg := &Message{
		From:    m.from,
		To:      []string{m.recipient},
		ReplyTo: req.Email,
		Subject: fmt.Sprintf("New contact message from %s", req.Name),
		HTML:    html,
		Text:    renderContactText(req, meta),
	}

	result := m.provider.Send(ctx, msg)
	if !result.Success {
		m.logger.Error("contact email send failed",
			slog.String("sender", pkglogger.SanitizedEmail(req.Email)),
			slog.Any("error", result.Err))
		return ContactEmailResult{Success: false, Err: result.Err}
	}

	emailID := result.MessageID
	if emailID == "" {
		emailID = uuid.New().String()
	}

	m.logger.Info("contact email sent",
		slog.String("sender", pkglogger.SanitizedEmail(req.Email)),
		slog.String("email_id", emailID))

	return ContactEmailResult{Success: true, EmailID: emailID}
}

// buildMetadata resolves geolocation and formats the origin-local and
// UTC timestamps. Lookup failures degrade to the Unknown record.
func (m *ContactMailer) buildMetadata(ctx context.Context, req ContactEmailRequest) models.ContactMetadata {
	location := models.UnknownLocation()
	if m.geo != nil {
		location = m.geo.Lookup(ctx, req.IP)
	}

	now := m.now()
	const layout = "Monday, 02 Jan 2006 15:04:05 MST"

	local := now.UTC().Format(layout)
	if location.Timezone != "" && location.Timezone != "Unknown" {
		if tz, err := time.LoadLocation(location.Timezone); err == nil {
			local = now.In(tz).Format(layout)
		}
	}

	return models.ContactMetadata{
		IP:             req.IP,
		Location:       location,
		LocalTimestamp: local,
		UTCTimestamp:   now.UTC().Format(layout),
		UserAgent:      req.UserAgent,
		Referer:        req.Referer,
		ReceivedAt:     now,
	}
}

func renderContact(data contactTemplateData) (string, error) {
	var buf bytes.Buffer
	if err := contactTemplate.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func renderContactText(req ContactEmailRequest, meta models.ContactMetadata) string {
	return fmt.Sprintf(`New contact message

From: %s <%s>

%s

--
IP: %s
Location: %s, %s, %s
Network: %s
Local time: %s
UTC time: %s
User agent: %s
`,
		req.Name, req.Email, req.Message,
		meta.IP,
		meta.Location.City, meta.Location.Region, meta.Location.Country,
		meta.Location.Org,
		meta.LocalTimestamp, meta.UTCTimestamp,
		meta.UserAgent)
}
