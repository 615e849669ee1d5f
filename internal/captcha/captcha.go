// Package captcha verifies challenge tokens against the provider's
// siteverify endpoint.
package captcha

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"portfolio-backend/internal/models"
	"portfolio-backend/internal/retry"
)

// DefaultVerifyURL is the Cloudflare Turnstile siteverify endpoint.
const DefaultVerifyURL = "https://challenges.cloudflare.com/turnstile/v0/siteverify"

const verifyTimeout = 15 * time.Second

// Verifier checks captcha tokens. A verifier with no secret configured
// is disabled and accepts every token, which keeps local development
// working without provider keys.
type Verifier struct {
	secret     string
	verifyURL  string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewVerifier creates a Verifier. verifyURL may be empty to use the
// default endpoint.
func NewVerifier(secret, verifyURL string, logger *slog.Logger) *Verifier {
	if verifyURL == "" {
		verifyURL = DefaultVerifyURL
	}
	return &Verifier{
		secret:     secret,
		verifyURL:  verifyURL,
		httpClient: &http.Client{Timeout: verifyTimeout},
		logger:     logger,
	}
}

// Enabled reports whether a secret key is configured.
func (v *Verifier) Enabled() bool {
	return v.secret != ""
}

type verifyResponse struct {
	Success    bool     `json:"success"`
	ErrorCodes []string `json:"error-codes"`
}

// Verify checks token for the given client IP. A rejected token
// returns models.ErrCaptchaRejected; transport failures are retried
// before surfacing.
func (v *Verifier) Verify(ctx context.Context, token, remoteIP string) error {
	if !v.Enabled() {
		v.logger.Warn("captcha verification skipped, no secret configured")
		return nil
	}
	if strings.TrimSpace(token) == "" {
		return fmt.Errorf("%w: missing token", models.ErrCaptchaRejected)
	}

	form := url.Values{}
	form.Set("secret", v.secret)
	form.Set("response", token)
	if remoteIP != "" {
		form.Set("remoteip", remoteIP)
	}

	cfg := retry.Config{MaxAttempts: 2, InitialDelay: 500 * time.Millisecond, MaxDelay: 2 * time.Second, Multiplier: 2.0}
	result, err := retry.DoValue(ctx, v.logger, "captcha_verify", cfg, func() (*verifyResponse, error) {
		return v.post(ctx, form)
	})
	if err != nil {
		return fmt.Errorf("captcha verification request failed: %w", err)
	}

	if !result.Success {
		v.logger.Warn("captcha token rejected", slog.Any("error_codes", result.ErrorCodes))
		return fmt.Errorf("%w: %s", models.ErrCaptchaRejected, strings.Join(result.ErrorCodes, ","))
	}
	return nil
}

func (v *Verifier) post(ctx context.Context, form url.Values) (*verifyResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.verifyURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to build verify request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &retry.HTTPError{StatusCode: resp.StatusCode, Status: resp.Status}
	}

	var body verifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode verify response: %w", err)
	}
	return &body, nil
}
