package logger_test

import (
	"testing"

	"portfolio-backend/pkg/logger"

	"github.com/stretchr/testify/assert"
)

// ── SanitizedEmail ────────────────────────────────────────────────────────────

func TestSanitizedEmail(t *testing.T) {
	tests := []struct {
		name  string
		email string
		want  string
	}{
		{"typical address", "jane@example.com", "j***@*******.com"},
		{"single char local", "j@example.com", "j@*******.com"},
		{"subdomain", "jane@mail.example.com", "j***@****.*******.com"},
		{"no at sign", "not-an-email", "[invalid-email]"},
		{"empty", "", "[invalid-email]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, logger.SanitizedEmail(tt.email))
		})
	}
}

// ── RedactedAttr ──────────────────────────────────────────────────────────────

func TestRedactedAttr_RedactsOutsideDevelopment(t *testing.T) {
	attr := logger.RedactedAttr("token", "tok-123", "production")
	assert.Equal(t, "[REDACTED]", attr.Value.String())

	attr = logger.RedactedAttr("token", "tok-123", "development")
	assert.Equal(t, "tok-123", attr.Value.String())
}

// ── SanitizeQueryString ───────────────────────────────────────────────────────

func TestSanitizeQueryString(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  bool
	}{
		{"webhook secret", "secret=abc123", true},
		{"captcha token", "captchaToken=tok", true},
		{"mixed case", "SECRET=abc", true},
		{"email param", "email=jane@example.com", true},
		{"benign count", "count=10", false},
		{"benign slug", "slug=my-post", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, logger.SanitizeQueryString(tt.query))
		})
	}
}
