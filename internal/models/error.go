package models

import "errors"

// Sentinel errors shared across services.
var (
	// ErrCaptchaRejected marks a captcha verdict of "not a human", as
	// opposed to a verification transport failure.
	ErrCaptchaRejected = errors.New("captcha verification rejected")

	// ErrUpstreamFailure marks a failure of an external dependency
	// (CMS, captcha provider) after retries were exhausted.
	ErrUpstreamFailure = errors.New("upstream service failure")
)
