package logger

import (
	"log/slog"
	"strings"
)

// SanitizedEmail masks a sender address for logging (e.g. "u***@e***.com").
// Contact senders are end users; their addresses stay out of plain logs.
func SanitizedEmail(email string) string {
	local, domain, ok := strings.Cut(email, "@")
	if !ok {
		return "[invalid-email]"
	}

	if len(local) > 1 {
		local = local[:1] + strings.Repeat("*", len(local)-1)
	}

	domainParts := strings.Split(domain, ".")
	for i := 0; i < len(domainParts)-1; i++ {
		domainParts[i] = strings.Repeat("*", len(domainParts[i]))
	}

	return local + "@" + strings.Join(domainParts, ".")
}

// RedactedAttr returns a redacted slog attribute for sensitive values
// outside development.
func RedactedAttr(key, value, env string) slog.Attr {
	if env != "development" {
		return slog.String(key, "[REDACTED]")
	}
	return slog.String(key, value)
}

// sensitiveParams are query parameter names whose presence forces the
// whole query string out of the request log. The security endpoint's
// shared secret and captcha tokens travel this way.
var sensitiveParams = []string{
	"secret",
	"token",
	"password",
	"api_key",
	"apikey",
	"captcha",
	"email",
	"auth",
}

// SanitizeQueryString reports whether rawQuery contains a sensitive
// parameter and must be redacted wholesale.
func SanitizeQueryString(rawQuery string) bool {
	query := strings.ToLower(rawQuery)
	for _, param := range sensitiveParams {
		if strings.Contains(query, param) {
			return true
		}
	}
	return false
}
