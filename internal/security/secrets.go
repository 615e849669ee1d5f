package security

import (
	"fmt"
	"log/slog"
	"strings"

	"portfolio-backend/internal/models"
)

// PublicEnvPrefix marks variables that are intentionally exposed to
// the browser bundle.
const PublicEnvPrefix = "PUBLIC_"

// serverOnlyVars must never resolve to a value in a client-visible
// environment, with or without the public prefix.
var serverOnlyVars = []string{
	"SMTP_PASS",
	"SMTP_USER",
	"AWS_SECRET_ACCESS_KEY",
	"AWS_ACCESS_KEY_ID",
	"RESEND_API_KEY",
	"SENDGRID_API_KEY",
	"CAPTCHA_SECRET_KEY",
	"WEBHOOK_SECRET",
	"IPINFO_TOKEN",
	"DATABASE_URL",
	"CONTACT_RECIPIENT",
}

// knownSystemVars are runtime-injected names that are expected in any
// environment snapshot and carry no secret material.
var knownSystemVars = map[string]bool{
	"PATH":     true,
	"HOME":     true,
	"USER":     true,
	"SHELL":    true,
	"LANG":     true,
	"TZ":       true,
	"HOSTNAME": true,
	"PWD":      true,
	"PORT":     true,
	"ENV":      true,
	"NODE_ENV": true,
}

// suspiciousSubstrings flag a public variable whose name or value
// looks like it carries secret material.
var suspiciousSubstrings = []string{
	"secret",
	"token",
	"password",
	"api key",
	"apikey",
	"api_key",
	"private key",
	"private_key",
}

// SecretScanner inspects the environment snapshot a client bundle
// would see. A scanner constructed without a snapshot represents the
// server-rendering context and unconditionally reports no leaks.
type SecretScanner struct {
	snapshot map[string]string
	client   bool
	logger   *slog.Logger
}

// NewServerScanner returns a scanner for the server-rendering context.
func NewServerScanner(logger *slog.Logger) *SecretScanner {
	return &SecretScanner{logger: logger}
}

// NewClientScanner returns a scanner over the given client-visible
// environment snapshot.
func NewClientScanner(snapshot map[string]string, logger *slog.Logger) *SecretScanner {
	return &SecretScanner{snapshot: snapshot, client: true, logger: logger}
}

// ClientSnapshot extracts the client-visible subset from a full
// process environment in the KEY=VALUE form of os.Environ.
func ClientSnapshot(environ []string) map[string]string {
	snapshot := make(map[string]string)
	for _, kv := range environ {
		key, value, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		if strings.HasPrefix(key, PublicEnvPrefix) {
			snapshot[key] = value
		}
	}
	return snapshot
}

// DetectSecretLeaks reports server-only variables visible in the
// client environment, plus any unexpected variable that is neither
// public-prefixed nor a known system name.
func (s *SecretScanner) DetectSecretLeaks() []models.SecretLeak {
	if !s.client {
		return nil
	}

	var leaks []models.SecretLeak
	for _, name := range serverOnlyVars {
		for _, candidate := range []string{name, PublicEnvPrefix + name} {
			if s.snapshot[candidate] != "" {
				leaks = append(leaks, models.SecretLeak{
					Variable:    candidate,
					Severity:    models.SeverityCritical,
					Description: fmt.Sprintf("server-only variable %s is visible to the client", candidate),
				})
				s.logger.Error("secret leak detected", slog.String("variable", candidate))
			}
		}
	}

	for key := range s.snapshot {
		if strings.HasPrefix(key, PublicEnvPrefix) || knownSystemVars[key] {
			continue
		}
		leaks = append(leaks, models.SecretLeak{
			Variable:    key,
			Severity:    models.SeverityMedium,
			Description: fmt.Sprintf("unexpected variable %s in client environment", key),
		})
		s.logger.Warn("unexpected client environment variable", slog.String("variable", key))
	}

	return leaks
}

// ValidatePublicVariables scans intentionally-public variables for
// suspicious substrings in name or value. Findings are warnings, not
// failures.
func (s *SecretScanner) ValidatePublicVariables() models.PublicVarCheck {
	check := models.PublicVarCheck{Safe: true}
	if !s.client {
		return check
	}

	for key, value := range s.snapshot {
		if !strings.HasPrefix(key, PublicEnvPrefix) {
			continue
		}
		lowerKey := strings.ToLower(key)
		lowerValue := strings.ToLower(value)
		for _, sub := range suspiciousSubstrings {
			if strings.Contains(lowerKey, sub) || strings.Contains(lowerValue, sub) {
				check.Warnings = append(check.Warnings, models.PublicVarWarning{
					Variable: key,
					Reason:   fmt.Sprintf("name or value contains %q", sub),
				})
				s.logger.Warn("suspicious public variable",
					slog.String("variable", key),
					slog.String("matched", sub))
				break
			}
		}
	}
	return check
}

// RunSecurityCheck composes the leak scan and the public variable
// audit. Safe is false only when an actual leak exists.
func (s *SecretScanner) RunSecurityCheck() models.SecurityCheckResult {
	leaks := s.DetectSecretLeaks()
	publicCheck := s.ValidatePublicVariables()
	return models.SecurityCheckResult{
		Safe:           len(leaks) == 0,
		Leaks:          leaks,
		PublicVarCheck: publicCheck,
	}
}
