package http_test

import (
	"net/http/httptest"
	"testing"

	pkghttp "portfolio-backend/pkg/http"

	"github.com/stretchr/testify/assert"
)

func TestExtractClientIP_DirectConnection_IgnoresForwardingHeaders(t *testing.T) {
	req := httptest.NewRequest("POST", "/api/contact", nil)
	req.RemoteAddr = "203.0.113.10:54321"

	// A direct client must not be able to spoof its identity and dodge
	// the per-IP rate limit.
	req.Header.Set("X-Forwarded-For", "1.2.3.4, 5.6.7.8")
	req.Header.Set("X-Real-IP", "192.168.1.1")

	config := &pkghttp.IPConfig{TrustedProxies: []string{"10.0.0.0/8"}}

	assert.Equal(t, "203.0.113.10", pkghttp.ExtractClientIP(req, config))
}

func TestExtractClientIP_TrustedProxy_UsesXForwardedFor(t *testing.T) {
	req := httptest.NewRequest("POST", "/api/contact", nil)
	req.RemoteAddr = "10.0.0.5:54321"
	req.Header.Set("X-Forwarded-For", "203.0.113.42, 10.0.0.5")

	config := &pkghttp.IPConfig{TrustedProxies: []string{"10.0.0.0/8"}}

	assert.Equal(t, "203.0.113.42", pkghttp.ExtractClientIP(req, config))
}

func TestExtractClientIP_TrustedProxy_FallsBackToXRealIP(t *testing.T) {
	req := httptest.NewRequest("POST", "/api/contact", nil)
	req.RemoteAddr = "10.0.0.5:54321"
	req.Header.Set("X-Real-IP", "203.0.113.42")

	config := &pkghttp.IPConfig{TrustedProxies: []string{"10.0.0.0/8"}}

	assert.Equal(t, "203.0.113.42", pkghttp.ExtractClientIP(req, config))
}

func TestExtractClientIP_NilConfig_TrustsLoopbackOnly(t *testing.T) {
	req := httptest.NewRequest("POST", "/api/contact", nil)
	req.RemoteAddr = "127.0.0.1:54321"
	req.Header.Set("X-Forwarded-For", "203.0.113.42")

	assert.Equal(t, "203.0.113.42", pkghttp.ExtractClientIP(req, nil))
}

func TestExtractClientIP_SkipsInvalidForwardedEntries(t *testing.T) {
	req := httptest.NewRequest("POST", "/api/contact", nil)
	req.RemoteAddr = "127.0.0.1:54321"
	req.Header.Set("X-Forwarded-For", "not-an-ip, 203.0.113.42")

	assert.Equal(t, "203.0.113.42", pkghttp.ExtractClientIP(req, nil))
}

func TestExtractClientIP_NoPortInRemoteAddr(t *testing.T) {
	req := httptest.NewRequest("POST", "/api/contact", nil)
	req.RemoteAddr = "203.0.113.10"

	assert.Equal(t, "203.0.113.10", pkghttp.ExtractClientIP(req, nil))
}
