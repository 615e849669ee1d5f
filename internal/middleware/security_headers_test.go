package middleware_test

import (
	"net/http/httptest"
	"testing"

	"portfolio-backend/internal/middleware"

	"github.com/stretchr/testify/assert"
)

// ── SecurityHeaders ───────────────────────────────────────────────────────────

func TestSecurityHeaders_AlwaysSet(t *testing.T) {
	h := middleware.SecurityHeaders(middleware.SecurityHeadersConfig{Env: "development"})(okHandler())

	req := httptest.NewRequest("GET", "/api/blog/posts", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "strict-origin-when-cross-origin", w.Header().Get("Referrer-Policy"))
	assert.Contains(t, w.Header().Get("Content-Security-Policy"), "default-src 'none'")
	assert.NotEmpty(t, w.Header().Get("Permissions-Policy"))
}

func TestSecurityHeaders_NoHSTSInDevelopment(t *testing.T) {
	h := middleware.SecurityHeaders(middleware.SecurityHeadersConfig{Env: "development"})(okHandler())

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("X-Forwarded-Proto", "https")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Empty(t, w.Header().Get("Strict-Transport-Security"))
}

func TestSecurityHeaders_NoHSTSOverPlainHTTP(t *testing.T) {
	h := middleware.SecurityHeaders(middleware.SecurityHeadersConfig{Env: "production"})(okHandler())

	req := httptest.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Empty(t, w.Header().Get("Strict-Transport-Security"))
}

func TestSecurityHeaders_HSTSInProductionBehindTLSProxy(t *testing.T) {
	h := middleware.SecurityHeaders(middleware.SecurityHeadersConfig{Env: "production"})(okHandler())

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("X-Forwarded-Proto", "https")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Contains(t, w.Header().Get("Strict-Transport-Security"), "max-age=31536000")
}
