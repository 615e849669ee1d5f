package cms_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"portfolio-backend/internal/cms"
	"portfolio-backend/internal/retry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── Execute ───────────────────────────────────────────────────────────────────

func TestExecute_Success_ReturnsDataPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req struct {
			Query     string         `json:"query"`
			Variables map[string]any `json:"variables"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "query { ping }", req.Query)
		assert.Equal(t, "blog.example.com", req.Variables["host"])

		w.Write([]byte(`{"data": {"pong": true}}`))
	}))
	defer srv.Close()

	client := cms.NewClient(srv.URL, discardLogger())
	data, err := client.Execute(context.Background(), "query { ping }", map[string]any{"host": "blog.example.com"})

	require.NoError(t, err)
	assert.JSONEq(t, `{"pong": true}`, string(data))
}

func TestExecute_ErrorsArray_ReturnsGraphQLError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": null, "errors": [{"message": "unknown field tags"}]}`))
	}))
	defer srv.Close()

	client := cms.NewClient(srv.URL, discardLogger())
	_, err := client.Execute(context.Background(), "query { bad }", nil)

	var gqlErr *cms.GraphQLError
	require.ErrorAs(t, err, &gqlErr)
	assert.Contains(t, gqlErr.Messages, "unknown field tags")
}

func TestExecute_ErrorsArray_NotRetried(t *testing.T) {
	// A GraphQL-level rejection is deterministic; only transport
	// failures go through the retry loop.
	var requests atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		w.Write([]byte(`{"errors": [{"message": "rejected"}]}`))
	}))
	defer srv.Close()

	client := cms.NewClient(srv.URL, discardLogger())
	_, err := client.Execute(context.Background(), "query { bad }", nil)

	require.Error(t, err)
	assert.Equal(t, int32(1), requests.Load())
}

func TestExecute_ServerError_RetriedThenSucceeds(t *testing.T) {
	var requests atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if requests.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{"data": {"ok": true}}`))
	}))
	defer srv.Close()

	client := cms.NewClient(srv.URL, discardLogger())
	data, err := client.Execute(context.Background(), "query { ok }", nil)

	require.NoError(t, err)
	assert.JSONEq(t, `{"ok": true}`, string(data))
	assert.Equal(t, int32(3), requests.Load())
}

func TestExecute_ClientError_NotRetried(t *testing.T) {
	var requests atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := cms.NewClient(srv.URL, discardLogger())
	_, err := client.Execute(context.Background(), "query { ok }", nil)

	var httpErr *retry.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusUnauthorized, httpErr.StatusCode)
	assert.Equal(t, int32(1), requests.Load())
}

func TestExecute_NullData_Fails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": null}`))
	}))
	defer srv.Close()

	client := cms.NewClient(srv.URL, discardLogger())
	_, err := client.Execute(context.Background(), "query { ok }", nil)

	require.Error(t, err)
	assert.False(t, errors.As(err, new(*cms.GraphQLError)))
}

func TestExecute_MalformedResponseBody_Fails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	client := cms.NewClient(srv.URL, discardLogger())
	_, err := client.Execute(context.Background(), "query { ok }", nil)

	assert.Error(t, err)
}
