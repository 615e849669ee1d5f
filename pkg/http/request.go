package http

import (
	"net"
	"net/http"
	"strings"
)

// IPConfig controls which upstream proxies may supply forwarding
// headers.
type IPConfig struct {
	TrustedProxies []string // CIDR ranges
}

// ExtractClientIP returns the real client IP for rate limiting and
// geolocation. X-Forwarded-For and X-Real-IP are honored only when the
// direct peer is a trusted proxy; otherwise a client could spoof its
// identity and evade the per-IP rate limit. A nil config trusts
// loopback only, matching a reverse proxy on the same host.
func ExtractClientIP(r *http.Request, config *IPConfig) string {
	peer := remoteIP(r)

	trusted := []string{"127.0.0.1/32", "::1/128"}
	if config != nil {
		trusted = config.TrustedProxies
	}

	if isTrustedProxy(peer, trusted) {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			// First valid entry is the originating client.
			for _, part := range strings.Split(xff, ",") {
				candidate := strings.TrimSpace(part)
				if net.ParseIP(candidate) != nil {
					return candidate
				}
			}
		}
		if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); net.ParseIP(xri) != nil {
			return xri
		}
	}

	return peer
}

// remoteIP strips the port from RemoteAddr when present.
func remoteIP(r *http.Request) string {
	if r.RemoteAddr == "" {
		return "unknown"
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

func isTrustedProxy(ip string, cidrs []string) bool {
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return false
	}
	for _, cidr := range cidrs {
		_, ipNet, err := net.ParseCIDR(cidr)
		if err != nil {
			continue
		}
		if ipNet.Contains(parsed) {
			return true
		}
	}
	return false
}
