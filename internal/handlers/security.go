package handlers

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"

	"portfolio-backend/internal/email"
	"portfolio-backend/internal/models"
	"portfolio-backend/internal/security"
	pkghttp "portfolio-backend/pkg/http"
)

// AlertSender delivers security alert emails.
type AlertSender interface {
	SendAlert(ctx context.Context, report email.SecurityReport) email.ContactEmailResult
}

// SecurityHandler serves the secret-gated security check endpoint.
// Repeated wrong secrets count as auth failures: five within the
// attempt window lock the caller out.
type SecurityHandler struct {
	secret  string
	alerts  AlertSender
	events  *security.EventLog
	monitor *security.AuthMonitor
	environ func() []string
	logger  *slog.Logger
}

// NewSecurityHandler creates a SecurityHandler gated by the shared
// webhook secret.
func NewSecurityHandler(
	secret string,
	alerts AlertSender,
	events *security.EventLog,
	monitor *security.AuthMonitor,
	logger *slog.Logger,
) *SecurityHandler {
	return &SecurityHandler{
		secret:  secret,
		alerts:  alerts,
		events:  events,
		monitor: monitor,
		environ: os.Environ,
		logger:  logger,
	}
}

// SecurityCheckResponse is the endpoint's JSON body.
type SecurityCheckResponse struct {
	Status    string                     `json:"status"`
	Details   models.SecurityCheckResult `json:"details"`
	AlertSent bool                       `json:"alertSent"`
}

// authorize runs the shared-secret gate and feeds the auth monitor.
// Returns false after writing the error response.
func authorize(w http.ResponseWriter, r *http.Request, secret string, monitor *security.AuthMonitor, events *security.EventLog) bool {
	ip := pkghttp.ExtractClientIP(r, nil)

	if monitor.IsLockedOut(ip) {
		pkghttp.WriteUnauthorized(w, "too many failed attempts")
		return false
	}

	provided := r.URL.Query().Get("secret")
	if subtle.ConstantTimeCompare([]byte(provided), []byte(secret)) != 1 {
		threat := monitor.RecordEvent(models.AuthEvent{
			Identifier: ip,
			Type:       models.AuthLoginFailure,
		})
		if threat != nil {
			events.Record(models.SecurityEvent{
				Type:        "brute-force",
				Severity:    threat.Severity,
				Identifier:  ip,
				Description: threat.Description,
			})
		}
		pkghttp.WriteUnauthorized(w, "invalid secret")
		return false
	}

	monitor.RecordEvent(models.AuthEvent{
		Identifier: ip,
		Type:       models.AuthLoginSuccess,
	})
	return true
}

// Check handles GET /api/security?secret=...&alert=1. The response is
// never cacheable.
func (h *SecurityHandler) Check(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "no-store")

	if !authorize(w, r, h.secret, h.monitor, h.events) {
		return
	}

	snapshot := security.ClientSnapshot(h.environ())
	scanner := security.NewClientScanner(snapshot, h.logger)
	result := scanner.RunSecurityCheck()

	status := "secure"
	if !result.Safe {
		status = "vulnerable"
		for _, leak := range result.Leaks {
			h.events.Record(models.SecurityEvent{
				Type:        "secret-leak",
				Severity:    leak.Severity,
				Identifier:  leak.Variable,
				Description: leak.Description,
			})
		}
	}

	alertSent := false
	if !result.Safe && r.URL.Query().Get("alert") != "" {
		sendResult := h.alerts.SendAlert(r.Context(), email.SecurityReport{Result: result})
		alertSent = sendResult.Success
	}

	h.logger.Info("security check completed",
		slog.String("status", status),
		slog.Int("leaks", len(result.Leaks)),
		slog.Bool("alert_sent", alertSent))

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(SecurityCheckResponse{
		Status:    status,
		Details:   result,
		AlertSent: alertSent,
	})
}
