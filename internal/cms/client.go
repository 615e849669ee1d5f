// Package cms fetches blog content from the external GraphQL CMS.
package cms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"portfolio-backend/internal/retry"
)

const requestTimeout = 15 * time.Second

// GraphQLError is a GraphQL-level failure: the response carried a
// non-empty errors array, even when HTTP status was 200. It is the
// signal the content service uses to fall back to the basic query tier.
type GraphQLError struct {
	Messages []string
}

func (e *GraphQLError) Error() string {
	return fmt.Sprintf("graphql error: %s", strings.Join(e.Messages, "; "))
}

// Client executes GraphQL queries over HTTP POST.
type Client struct {
	endpoint   string
	httpClient *http.Client
	logger     *slog.Logger
	retryCfg   retry.Config
}

// NewClient creates a GraphQL client for the given endpoint.
func NewClient(endpoint string, logger *slog.Logger) *Client {
	return &Client{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: requestTimeout},
		logger:     logger,
		retryCfg:   retry.Config{MaxAttempts: 3, InitialDelay: 500 * time.Millisecond, MaxDelay: 5 * time.Second, Multiplier: 2.0},
	}
}

type graphqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type graphqlEnvelope struct {
	Data   json.RawMessage `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// Execute posts a query and returns the raw data payload. Transport
// failures are retried; a GraphQL errors array or an absent data field
// is a hard failure for this call.
func (c *Client) Execute(ctx context.Context, query string, variables map[string]any) (json.RawMessage, error) {
	payload, err := json.Marshal(graphqlRequest{Query: query, Variables: variables})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal graphql request: %w", err)
	}

	envelope, err := retry.DoValue(ctx, c.logger, "cms_graphql", c.retryCfg, func() (*graphqlEnvelope, error) {
		return c.post(ctx, payload)
	})
	if err != nil {
		return nil, err
	}

	if len(envelope.Errors) > 0 {
		messages := make([]string, 0, len(envelope.Errors))
		for _, e := range envelope.Errors {
			messages = append(messages, e.Message)
		}
		return nil, &GraphQLError{Messages: messages}
	}

	if len(envelope.Data) == 0 || string(envelope.Data) == "null" {
		return nil, fmt.Errorf("graphql response carried no data")
	}

	return envelope.Data, nil
}

func (c *Client) post(ctx context.Context, payload []byte) (*graphqlEnvelope, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build graphql request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &retry.HTTPError{StatusCode: resp.StatusCode, Status: resp.Status}
	}

	var envelope graphqlEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("failed to decode graphql response: %w", err)
	}
	return &envelope, nil
}
