package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"portfolio-backend/internal/email"
	"portfolio-backend/internal/models"
	"portfolio-backend/internal/sanitize"
	"portfolio-backend/internal/security"
	pkghttp "portfolio-backend/pkg/http"
	pkglogger "portfolio-backend/pkg/logger"
)

// ContactMailer sends the rendered contact email.
type ContactMailer interface {
	SendEmail(ctx context.Context, req email.ContactEmailRequest) email.ContactEmailResult
}

// CaptchaVerifier checks the submitted captcha token.
type CaptchaVerifier interface {
	Verify(ctx context.Context, token, remoteIP string) error
}

// ContactHandler handles contact form submissions.
type ContactHandler struct {
	mailer   ContactMailer
	verifier CaptchaVerifier
	limiter  *security.RateLimiter
	limit    security.RateLimitConfig
	events   *security.EventLog
	audit    *pkglogger.AuditLogger
	logger   *slog.Logger
}

// NewContactHandler creates a ContactHandler.
func NewContactHandler(
	mailer ContactMailer,
	verifier CaptchaVerifier,
	limiter *security.RateLimiter,
	limit security.RateLimitConfig,
	events *security.EventLog,
	audit *pkglogger.AuditLogger,
	logger *slog.Logger,
) *ContactHandler {
	return &ContactHandler{
		mailer:   mailer,
		verifier: verifier,
		limiter:  limiter,
		limit:    limit,
		events:   events,
		audit:    audit,
		logger:   logger,
	}
}

// ContactRequest is the contact form payload.
type ContactRequest struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Message      string `json:"message"`
	CaptchaToken string `json:"captchaToken"`
}

// ContactResponse is returned on a successful send.
type ContactResponse struct {
	Message string `json:"message"`
	ID      string `json:"id"`
}

// Submit handles POST /api/contact: sanitize, validate, threat-screen,
// rate limit, verify the captcha, then delegate to the mailer.
func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req ContactRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 64<<10)).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "invalid request body")
		return
	}

	submission := models.ContactFormSubmission{
		Name:    sanitize.Text(req.Name, 100),
		Email:   sanitize.Email(req.Email),
		Message: sanitize.Message(req.Message, 2000),
	}

	if err := ValidateRequest(submission); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	ip := pkghttp.ExtractClientIP(r, nil)

	if screened := h.screenForThreats(ip, submission); screened {
		// Deliberately generic: attackers get no hint which pattern fired.
		pkghttp.WriteBadRequest(w, "message could not be accepted")
		return
	}

	result := h.limiter.Check(ip, h.limit)
	if !result.Allowed {
		h.logger.Warn("contact submission rate limited", slog.String("ip", ip))
		pkghttp.WriteTooManyRequests(w, "too many requests, try again later")
		return
	}

	if err := h.verifier.Verify(r.Context(), req.CaptchaToken, ip); err != nil {
		if errors.Is(err, models.ErrCaptchaRejected) {
			pkghttp.WriteBadRequest(w, "captcha verification failed")
			return
		}
		h.logger.Error("captcha verification errored", slog.Any("error", err))
		pkghttp.WriteInternalError(w, "unable to verify captcha")
		return
	}

	sendResult := h.mailer.SendEmail(r.Context(), email.ContactEmailRequest{
		Name:      submission.Name,
		Email:     submission.Email,
		Message:   submission.Message,
		IP:        ip,
		UserAgent: r.UserAgent(),
		Referer:   r.Referer(),
	})
	if !sendResult.Success {
		h.audit.LogContactSubmission(submission.Email, ip, false)
		pkghttp.WriteInternalError(w, "failed to send message")
		return
	}

	h.audit.LogContactSubmission(submission.Email, ip, true)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(ContactResponse{
		Message: "Message sent successfully",
		ID:      sendResult.EmailID,
	})
}

// screenForThreats runs the detector over the free-text fields and
// records any finding as a SecurityEvent.
func (h *ContactHandler) screenForThreats(ip string, submission models.ContactFormSubmission) bool {
	combined := strings.Join([]string{submission.Name, submission.Message}, "\n")
	check := security.IsInputSafe(combined)
	if check.Safe {
		return false
	}

	for i := range check.Threats {
		threat := check.Threats[i]
		h.events.Record(models.SecurityEvent{
			Type:        "contact-form-threat",
			Severity:    threat.Severity,
			Identifier:  ip,
			Description: threat.Description,
			Threat:      &threat,
		})
		h.logger.Warn("threat detected in contact submission",
			slog.String("ip", ip),
			slog.String("threat_type", string(threat.ThreatType)),
			slog.String("severity", string(threat.Severity)))
	}
	return true
}
