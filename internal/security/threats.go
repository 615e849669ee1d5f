package security

import (
	"fmt"
	"regexp"

	"portfolio-backend/internal/models"
)

// MaxInputLength bounds the input the detector will inspect.
const MaxInputLength = 10000

// threatPattern is one compiled pattern inside a matcher's battery.
type threatPattern struct {
	re          *regexp.Regexp
	description string
}

// matcher runs one category's pattern battery against an input and
// returns at most one detection: the first pattern that matches.
type matcher struct {
	threatType     models.ThreatType
	severity       models.Severity
	recommendation string
	patterns       []threatPattern
}

func (m *matcher) match(input string) *models.ThreatDetection {
	for _, p := range m.patterns {
		if loc := p.re.FindStringIndex(input); loc != nil {
			return &models.ThreatDetection{
				Detected:       true,
				ThreatType:     m.threatType,
				Severity:       m.severity,
				Description:    p.description,
				Payload:        excerpt(input, loc[0]),
				Pattern:        p.re.String(),
				Recommendation: m.recommendation,
			}
		}
	}
	return nil
}

// excerpt returns a bounded slice of the input around the match start
// so logs and alerts never carry an unbounded payload.
func excerpt(input string, start int) string {
	const width = 80
	end := start + width
	if end > len(input) {
		end = len(input)
	}
	return input[start:end]
}

// matchers holds every category in declaration order. DetectAllThreats
// reports findings in exactly this order, not by severity.
var matchers = []matcher{
	{
		threatType:     models.ThreatXSS,
		severity:       models.SeverityHigh,
		recommendation: "Encode output and reject markup in free-text fields",
		patterns: []threatPattern{
			{regexp.MustCompile(`(?i)<script[^>]*>`), "script tag"},
			{regexp.MustCompile(`(?i)javascript\s*:`), "javascript: URI"},
			{regexp.MustCompile(`(?i)on(load|error|click|mouseover|focus|submit)\s*=`), "inline event handler"},
			{regexp.MustCompile(`(?i)<(iframe|embed|object|svg)\b`), "embeddable element"},
			{regexp.MustCompile(`(?i)(document\.cookie|document\.write|window\.location)`), "DOM access expression"},
		},
	},
	{
		threatType:     models.ThreatSQLInjection,
		severity:       models.SeverityCritical,
		recommendation: "Use parameterized queries; never interpolate input into SQL",
		patterns: []threatPattern{
			{regexp.MustCompile(`(?i)('|")\s*(or|and)\s*['"]?\s*\d+\s*=\s*\d+`), "tautology clause"},
			{regexp.MustCompile(`(?i)'\s*or\s*'[^']*'\s*=\s*'`), "quoted tautology"},
			{regexp.MustCompile(`(?i)\bunion\s+(all\s+)?select\b`), "UNION SELECT"},
			{regexp.MustCompile(`(?i);\s*(drop|delete|truncate|update|insert)\b`), "stacked statement"},
			{regexp.MustCompile(`(?i)\b(sleep|benchmark|pg_sleep|waitfor\s+delay)\s*\(`), "time-based probe"},
			{regexp.MustCompile(`(--|#|/\*)\s*$`), "trailing SQL comment"},
		},
	},
	{
		threatType:     models.ThreatPathTraversal,
		severity:       models.SeverityHigh,
		recommendation: "Resolve paths against an allow-listed root before use",
		patterns: []threatPattern{
			{regexp.MustCompile(`\.\.[\\/]`), "dot-dot segment"},
			{regexp.MustCompile(`(?i)\.\.%2f|%2e%2e[\\/%]`), "encoded dot-dot segment"},
			{regexp.MustCompile(`(?i)(/etc/(passwd|shadow)|boot\.ini|win\.ini)`), "sensitive system file"},
		},
	},
	{
		threatType:     models.ThreatCommandInjection,
		severity:       models.SeverityCritical,
		recommendation: "Never pass user input to a shell; use exec with fixed argv",
		patterns: []threatPattern{
			{regexp.MustCompile("[;&|]\\s*(cat|ls|rm|curl|wget|nc|bash|sh|powershell|cmd)\\b"), "chained shell command"},
			{regexp.MustCompile("\\$\\([^)]*\\)|`[^`]*`"), "command substitution"},
			{regexp.MustCompile(`(?i)\b(etc/passwd|/bin/(sh|bash))\b`), "shell target path"},
		},
	},
	{
		threatType:     models.ThreatLDAPInjection,
		severity:       models.SeverityMedium,
		recommendation: "Escape LDAP metacharacters before building filters",
		patterns: []threatPattern{
			{regexp.MustCompile(`\(\s*[|&]\s*\(`), "nested filter operator"},
			{regexp.MustCompile(`\*\s*\)\s*\(`), "wildcard filter break-out"},
			{regexp.MustCompile(`(?i)\(\s*(cn|uid|objectclass)\s*=[^)]*\*`), "wildcard attribute filter"},
		},
	},
	{
		threatType:     models.ThreatNoSQLInjection,
		severity:       models.SeverityHigh,
		recommendation: "Reject operator keys in user-supplied query fragments",
		patterns: []threatPattern{
			{regexp.MustCompile(`\$(gt|gte|lt|lte|ne|nin|in|regex|where|exists)\b`), "query operator"},
			{regexp.MustCompile(`(?i)["']\$where["']\s*:`), "$where clause"},
			{regexp.MustCompile(`(?i)\bthis\.[a-z_]+\s*==`), "server-side JS comparison"},
		},
	},
	{
		threatType:     models.ThreatPrototypePollution,
		severity:       models.SeverityHigh,
		recommendation: "Strip __proto__ and constructor keys from merged objects",
		patterns: []threatPattern{
			{regexp.MustCompile(`__proto__`), "__proto__ key"},
			{regexp.MustCompile(`(?i)constructor\s*(\[|\.)\s*["']?prototype`), "constructor.prototype access"},
		},
	},
	{
		threatType:     models.ThreatHeaderInjection,
		severity:       models.SeverityMedium,
		recommendation: "Reject CR/LF in values destined for response headers",
		patterns: []threatPattern{
			{regexp.MustCompile(`(\r\n|%0d%0a|%0D%0A)`), "CRLF sequence"},
			{regexp.MustCompile(`(?i)(\n|%0a)(set-cookie|location|content-type)\s*:`), "injected header field"},
		},
	},
}

// DetectAllThreats runs input through every pattern matcher and returns
// all matches in matcher-declaration order. Empty or oversized input
// yields a single low-severity invalid-input detection.
func DetectAllThreats(input string) []models.ThreatDetection {
	if input == "" || len(input) > MaxInputLength {
		return []models.ThreatDetection{{
			Detected:       true,
			ThreatType:     models.ThreatInvalidInput,
			Severity:       models.SeverityLow,
			Description:    fmt.Sprintf("input must be a non-empty string of at most %d characters", MaxInputLength),
			Recommendation: "Reject the request before further processing",
		}}
	}

	var detections []models.ThreatDetection
	for i := range matchers {
		if d := matchers[i].match(input); d != nil {
			detections = append(detections, *d)
		}
	}
	return detections
}

// SafetyResult is the convenience wrapper around DetectAllThreats.
type SafetyResult struct {
	Safe    bool                     `json:"safe"`
	Threats []models.ThreatDetection `json:"threats"`
}

// IsInputSafe reports whether input matches no configured pattern.
func IsInputSafe(input string) SafetyResult {
	threats := DetectAllThreats(input)
	return SafetyResult{Safe: len(threats) == 0, Threats: threats}
}
