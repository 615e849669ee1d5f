package config_test

import (
	"testing"
	"time"

	"portfolio-backend/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setRequired provides the minimum environment Load accepts.
func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("EMAIL_FROM", "noreply@example.com")
	t.Setenv("CONTACT_RECIPIENT", "owner@example.com")
	t.Setenv("WEBHOOK_SECRET", "correct-horse-battery-staple")
}

// ── Load ──────────────────────────────────────────────────────────────────────

func TestLoad_MinimalEnvironment_AppliesDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "development", cfg.Server.Env)
	assert.Equal(t, "ses", cfg.Email.Provider)
	assert.Equal(t, "us-east-1", cfg.Email.AWSRegion)
	assert.Equal(t, 587, cfg.Email.SMTPPort)
	assert.Equal(t, 5, cfg.Security.ContactMaxRequests)
	assert.Equal(t, time.Minute, cfg.Security.ContactWindow)
	assert.Equal(t, "https://gql.hashnode.com", cfg.CMS.Endpoint)
	assert.Equal(t, 5*time.Minute, cfg.CMS.CacheTTL)
}

func TestLoad_MissingFromAddress_Fails(t *testing.T) {
	t.Setenv("EMAIL_FROM", "")
	t.Setenv("CONTACT_RECIPIENT", "owner@example.com")
	t.Setenv("WEBHOOK_SECRET", "correct-horse-battery-staple")

	_, err := config.Load()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "EMAIL_FROM")
}

func TestLoad_MissingRecipient_Fails(t *testing.T) {
	t.Setenv("EMAIL_FROM", "noreply@example.com")
	t.Setenv("CONTACT_RECIPIENT", "")
	t.Setenv("WEBHOOK_SECRET", "correct-horse-battery-staple")

	_, err := config.Load()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "CONTACT_RECIPIENT")
}

func TestLoad_MissingWebhookSecret_Fails(t *testing.T) {
	t.Setenv("EMAIL_FROM", "noreply@example.com")
	t.Setenv("CONTACT_RECIPIENT", "owner@example.com")
	t.Setenv("WEBHOOK_SECRET", "")

	_, err := config.Load()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "WEBHOOK_SECRET")
}

func TestLoad_ShortWebhookSecret_Fails(t *testing.T) {
	setRequired(t)
	t.Setenv("WEBHOOK_SECRET", "tooshort")

	_, err := config.Load()
	assert.Error(t, err)
}

func TestLoad_ProductionRequiresLongerSecret(t *testing.T) {
	setRequired(t)
	t.Setenv("ENV", "production")
	t.Setenv("WEBHOOK_SECRET", "just-sixteen-chr") // 16 chars, fine in dev

	_, err := config.Load()
	require.Error(t, err)

	t.Setenv("WEBHOOK_SECRET", "a-thirty-two-character-secret-00")
	_, err = config.Load()
	assert.NoError(t, err)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("PORT", "9090")
	t.Setenv("EMAIL_PROVIDER", "smtp")
	t.Setenv("SMTP_HOST", "smtp.example.com")
	t.Setenv("SMTP_PORT", "465")
	t.Setenv("SMTP_SECURE", "true")
	t.Setenv("CONTACT_RATE_LIMIT_MAX", "3")
	t.Setenv("CONTACT_RATE_LIMIT_WINDOW", "30s")
	t.Setenv("CMS_CACHE_TTL", "2m")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "smtp", cfg.Email.Provider)
	assert.Equal(t, "smtp.example.com", cfg.Email.SMTPHost)
	assert.Equal(t, 465, cfg.Email.SMTPPort)
	assert.True(t, cfg.Email.SMTPSecure)
	assert.Equal(t, 3, cfg.Security.ContactMaxRequests)
	assert.Equal(t, 30*time.Second, cfg.Security.ContactWindow)
	assert.Equal(t, 2*time.Minute, cfg.CMS.CacheTTL)
}

func TestLoad_MalformedNumericVars_FallBackToDefaults(t *testing.T) {
	setRequired(t)
	t.Setenv("SMTP_PORT", "not-a-number")
	t.Setenv("CONTACT_RATE_LIMIT_WINDOW", "soon")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 587, cfg.Email.SMTPPort)
	assert.Equal(t, time.Minute, cfg.Security.ContactWindow)
}

func TestLoad_DevelopmentOrigins_AllowLocalhost(t *testing.T) {
	setRequired(t)

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Contains(t, cfg.Server.AllowedOrigins, "http://localhost:3000")
}

func TestLoad_ProductionOrigins_FromEnvOnly(t *testing.T) {
	setRequired(t)
	t.Setenv("ENV", "production")
	t.Setenv("WEBHOOK_SECRET", "a-thirty-two-character-secret-00")
	t.Setenv("ALLOWED_ORIGINS", "https://example.com, https://www.example.com")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"https://example.com", "https://www.example.com"}, cfg.Server.AllowedOrigins)
}

func TestLoad_ProductionWithoutOrigins_AllowsNone(t *testing.T) {
	setRequired(t)
	t.Setenv("ENV", "production")
	t.Setenv("WEBHOOK_SECRET", "a-thirty-two-character-secret-00")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Empty(t, cfg.Server.AllowedOrigins)
}
