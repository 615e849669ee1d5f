package models

import "time"

// Severity classifies how serious a security finding is.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// ThreatType identifies the category a threat pattern belongs to.
type ThreatType string

const (
	ThreatInvalidInput       ThreatType = "invalid-input"
	ThreatXSS                ThreatType = "xss"
	ThreatSQLInjection       ThreatType = "sql-injection"
	ThreatPathTraversal      ThreatType = "path-traversal"
	ThreatCommandInjection   ThreatType = "command-injection"
	ThreatLDAPInjection      ThreatType = "ldap-injection"
	ThreatNoSQLInjection     ThreatType = "nosql-injection"
	ThreatPrototypePollution ThreatType = "prototype-pollution"
	ThreatHeaderInjection    ThreatType = "header-injection"
	ThreatBruteForce         ThreatType = "brute-force"
)

// ThreatDetection is a pure, stateless classification result. It is not
// stored unless wrapped in a SecurityEvent.
type ThreatDetection struct {
	Detected       bool       `json:"detected"`
	ThreatType     ThreatType `json:"threat_type"`
	Severity       Severity   `json:"severity"`
	Description    string     `json:"description"`
	Payload        string     `json:"payload"`
	Pattern        string     `json:"pattern"`
	Recommendation string     `json:"recommendation"`
}

// RateLimitEntry tracks request counts for one identifier within a
// fixed window. Count only increases within a window; Blocked never
// clears before ResetAt except through a manual unblock.
type RateLimitEntry struct {
	Count        int
	ResetAt      time.Time
	Blocked      bool
	BlockedUntil time.Time
}

// RateLimitResult is the outcome of a single rate limit check.
type RateLimitResult struct {
	Allowed   bool      `json:"allowed"`
	Remaining int       `json:"remaining"`
	ResetAt   time.Time `json:"reset_at"`
	Blocked   bool      `json:"blocked"`
}

// AuthEventType enumerates the auth events the monitor understands.
type AuthEventType string

const (
	AuthLoginSuccess  AuthEventType = "login-success"
	AuthLoginFailure  AuthEventType = "login-failure"
	AuthPasswordReset AuthEventType = "password-reset"
	AuthAccountLocked AuthEventType = "account-locked"
)

// AuthEvent is a single auth-related occurrence for an identifier.
type AuthEvent struct {
	Identifier string
	Type       AuthEventType
	Timestamp  time.Time
	Metadata   map[string]string
}

// AuthAttempt tracks failure state for one identifier.
type AuthAttempt struct {
	Failures    int
	LastAttempt time.Time
	Locked      bool
}

// AuthThreat is the brute-force signal produced once the failure
// threshold is reached.
type AuthThreat struct {
	Type        ThreatType `json:"type"`
	Severity    Severity   `json:"severity"`
	Identifier  string     `json:"identifier"`
	Failures    int        `json:"failures"`
	Description string     `json:"description"`
}

// SecurityEvent is an append-only record held in a bounded in-memory
// ring. Process-lifetime scoped, no persistence.
type SecurityEvent struct {
	ID          string            `json:"id"`
	Type        string            `json:"type"`
	Severity    Severity          `json:"severity"`
	Timestamp   time.Time         `json:"timestamp"`
	Identifier  string            `json:"identifier"`
	Description string            `json:"description"`
	Metadata    map[string]string `json:"metadata,omitempty"`
	Threat      *ThreatDetection  `json:"threat,omitempty"`
}

// SecretLeak describes a server-only variable visible in the client
// environment.
type SecretLeak struct {
	Variable    string   `json:"variable"`
	Severity    Severity `json:"severity"`
	Description string   `json:"description"`
}

// PublicVarWarning flags an intentionally-public variable whose name or
// value looks like it carries secret material.
type PublicVarWarning struct {
	Variable string `json:"variable"`
	Reason   string `json:"reason"`
}

// PublicVarCheck is the result of auditing the intentionally-public
// variable set. Warnings do not fail the check.
type PublicVarCheck struct {
	Safe     bool               `json:"safe"`
	Warnings []PublicVarWarning `json:"warnings"`
}

// SecurityCheckResult composes the leak scan and the public variable
// audit for the security endpoint.
type SecurityCheckResult struct {
	Safe           bool           `json:"safe"`
	Leaks          []SecretLeak   `json:"leaks"`
	PublicVarCheck PublicVarCheck `json:"public_var_check"`
}
