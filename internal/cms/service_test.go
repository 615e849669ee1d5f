package cms_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"portfolio-backend/internal/cms"
	"portfolio-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// mockExecutor implements cms.GraphQLExecutor and records every call.
type mockExecutor struct {
	ExecuteFunc func(ctx context.Context, query string, variables map[string]any) (json.RawMessage, error)
	queries     []string
}

func (m *mockExecutor) Execute(ctx context.Context, query string, variables map[string]any) (json.RawMessage, error) {
	m.queries = append(m.queries, query)
	return m.ExecuteFunc(ctx, query, variables)
}

const listingPayload = `{
	"publication": {
		"posts": {
			"edges": [
				{"node": {
					"id": "p1",
					"title": "Shipping a Side Project",
					"brief": "Lessons learned",
					"slug": "shipping-a-side-project",
					"coverImage": {"url": "https://cdn.example.com/cover.png"},
					"publishedAt": "2025-05-01T09:00:00Z",
					"readTimeInMinutes": 6,
					"tags": [{"name": "Go", "slug": "go"}]
				}}
			]
		}
	}
}`

const detailPayload = `{
	"publication": {
		"post": {
			"id": "p1",
			"title": "Shipping a Side Project",
			"slug": "shipping-a-side-project",
			"content": {"html": "<p>Body</p>", "markdown": "Body"},
			"seo": {"description": "Lessons learned shipping"}
		}
	}
}`

func newTestService(exec *mockExecutor) *cms.ContentService {
	return cms.NewContentService(exec, "blog.example.com", time.Minute, 16, discardLogger())
}

// ── GetBlogPosts ──────────────────────────────────────────────────────────────

func TestGetBlogPosts_Success_MapsNodes(t *testing.T) {
	exec := &mockExecutor{
		ExecuteFunc: func(ctx context.Context, query string, variables map[string]any) (json.RawMessage, error) {
			assert.Equal(t, "blog.example.com", variables["host"])
			assert.Equal(t, 10, variables["first"])
			return json.RawMessage(listingPayload), nil
		},
	}
	svc := newTestService(exec)

	posts := svc.GetBlogPosts(context.Background(), 0)

	require.Len(t, posts, 1)
	assert.Equal(t, "p1", posts[0].ID)
	assert.Equal(t, "Shipping a Side Project", posts[0].Title)
	assert.Equal(t, "shipping-a-side-project", posts[0].Slug)
	assert.Equal(t, "https://cdn.example.com/cover.png", posts[0].CoverImageURL)
	assert.Equal(t, 6, posts[0].ReadTime)
	require.Len(t, posts[0].Tags, 1)
	assert.Equal(t, "go", posts[0].Tags[0].Slug)
}

func TestGetBlogPosts_SecondCallServedFromCache(t *testing.T) {
	exec := &mockExecutor{
		ExecuteFunc: func(ctx context.Context, query string, variables map[string]any) (json.RawMessage, error) {
			return json.RawMessage(listingPayload), nil
		},
	}
	svc := newTestService(exec)

	svc.GetBlogPosts(context.Background(), 10)
	svc.GetBlogPosts(context.Background(), 10)

	assert.Len(t, exec.queries, 1)
}

func TestGetBlogPosts_DifferentCount_SeparateCacheEntries(t *testing.T) {
	exec := &mockExecutor{
		ExecuteFunc: func(ctx context.Context, query string, variables map[string]any) (json.RawMessage, error) {
			return json.RawMessage(listingPayload), nil
		},
	}
	svc := newTestService(exec)

	svc.GetBlogPosts(context.Background(), 5)
	svc.GetBlogPosts(context.Background(), 20)

	assert.Len(t, exec.queries, 2)
}

func TestGetBlogPosts_SchemaMismatch_FallsBackToBasicQuery(t *testing.T) {
	exec := &mockExecutor{}
	exec.ExecuteFunc = func(ctx context.Context, query string, variables map[string]any) (json.RawMessage, error) {
		if len(exec.queries) == 1 {
			return nil, &cms.GraphQLError{Messages: []string{"unknown field tags"}}
		}
		return json.RawMessage(listingPayload), nil
	}
	svc := newTestService(exec)

	posts := svc.GetBlogPosts(context.Background(), 10)

	require.Len(t, exec.queries, 2)
	assert.NotEqual(t, exec.queries[0], exec.queries[1])
	assert.Len(t, posts, 1)
}

func TestGetBlogPosts_TransportFailure_NoFallback(t *testing.T) {
	exec := &mockExecutor{
		ExecuteFunc: func(ctx context.Context, query string, variables map[string]any) (json.RawMessage, error) {
			return nil, errors.New("connection refused")
		},
	}
	svc := newTestService(exec)

	posts := svc.GetBlogPosts(context.Background(), 10)

	assert.Len(t, exec.queries, 1)
	assert.Empty(t, posts)
}

func TestGetBlogPosts_BothTiersFail_EmptyListNotError(t *testing.T) {
	exec := &mockExecutor{
		ExecuteFunc: func(ctx context.Context, query string, variables map[string]any) (json.RawMessage, error) {
			return nil, &cms.GraphQLError{Messages: []string{"bad query"}}
		},
	}
	svc := newTestService(exec)

	posts := svc.GetBlogPosts(context.Background(), 10)

	assert.NotNil(t, posts)
	assert.Empty(t, posts)
	assert.Len(t, exec.queries, 2)
}

func TestGetBlogPosts_MalformedPayload_EmptyList(t *testing.T) {
	exec := &mockExecutor{
		ExecuteFunc: func(ctx context.Context, query string, variables map[string]any) (json.RawMessage, error) {
			return json.RawMessage(`{"unexpected": true}`), nil
		},
	}
	svc := newTestService(exec)

	assert.Empty(t, svc.GetBlogPosts(context.Background(), 10))
}

// ── GetBlogPostBySlug ─────────────────────────────────────────────────────────

func TestGetBlogPostBySlug_Success_MapsDetail(t *testing.T) {
	exec := &mockExecutor{
		ExecuteFunc: func(ctx context.Context, query string, variables map[string]any) (json.RawMessage, error) {
			assert.Equal(t, "shipping-a-side-project", variables["slug"])
			return json.RawMessage(detailPayload), nil
		},
	}
	svc := newTestService(exec)

	post, err := svc.GetBlogPostBySlug(context.Background(), "shipping-a-side-project")

	require.NoError(t, err)
	require.NotNil(t, post)
	assert.Equal(t, "Shipping a Side Project", post.Title)
	assert.Equal(t, "<p>Body</p>", post.ContentHTML)
	assert.Equal(t, "Body", post.ContentMarkdown)
	assert.Equal(t, "Lessons learned shipping", post.SEODescription)
}

func TestGetBlogPostBySlug_EmptySlug_NoNetworkCall(t *testing.T) {
	exec := &mockExecutor{
		ExecuteFunc: func(ctx context.Context, query string, variables map[string]any) (json.RawMessage, error) {
			t.Fatal("executor should not be called for an empty slug")
			return nil, nil
		},
	}
	svc := newTestService(exec)

	for _, slug := range []string{"", "   ", "\t\n"} {
		post, err := svc.GetBlogPostBySlug(context.Background(), slug)
		assert.NoError(t, err)
		assert.Nil(t, post)
	}
	assert.Empty(t, exec.queries)
}

func TestGetBlogPostBySlug_UnknownSlug_NilWithoutError(t *testing.T) {
	exec := &mockExecutor{
		ExecuteFunc: func(ctx context.Context, query string, variables map[string]any) (json.RawMessage, error) {
			return json.RawMessage(`{"publication": {"post": null}}`), nil
		},
	}
	svc := newTestService(exec)

	post, err := svc.GetBlogPostBySlug(context.Background(), "no-such-post")

	assert.NoError(t, err)
	assert.Nil(t, post)
}

func TestGetBlogPostBySlug_BothTiersFail_ReturnsError(t *testing.T) {
	// Unlike the listing, detail fetch failures surface to the caller.
	exec := &mockExecutor{
		ExecuteFunc: func(ctx context.Context, query string, variables map[string]any) (json.RawMessage, error) {
			return nil, &cms.GraphQLError{Messages: []string{"bad query"}}
		},
	}
	svc := newTestService(exec)

	post, err := svc.GetBlogPostBySlug(context.Background(), "some-post")

	require.Error(t, err)
	assert.Nil(t, post)
	assert.Contains(t, err.Error(), "some-post")
	assert.ErrorIs(t, err, models.ErrUpstreamFailure)

	var gqlErr *cms.GraphQLError
	assert.True(t, errors.As(err, &gqlErr))
}

func TestGetBlogPostBySlug_FallbackOnlyOnce(t *testing.T) {
	exec := &mockExecutor{
		ExecuteFunc: func(ctx context.Context, query string, variables map[string]any) (json.RawMessage, error) {
			return nil, &cms.GraphQLError{Messages: []string{"rejected"}}
		},
	}
	svc := newTestService(exec)

	_, err := svc.GetBlogPostBySlug(context.Background(), "some-post")

	require.Error(t, err)
	assert.Len(t, exec.queries, 2)
}

// ── PurgeCache ────────────────────────────────────────────────────────────────

func TestPurgeCache_ForcesRefetch(t *testing.T) {
	exec := &mockExecutor{
		ExecuteFunc: func(ctx context.Context, query string, variables map[string]any) (json.RawMessage, error) {
			return json.RawMessage(listingPayload), nil
		},
	}
	svc := newTestService(exec)

	svc.GetBlogPosts(context.Background(), 10)
	svc.PurgeCache()
	svc.GetBlogPosts(context.Background(), 10)

	assert.Len(t, exec.queries, 2)
}

// ── queries ───────────────────────────────────────────────────────────────────

func TestQueries_ExtendedTierRequestsMoreFields(t *testing.T) {
	exec := &mockExecutor{}
	exec.ExecuteFunc = func(ctx context.Context, query string, variables map[string]any) (json.RawMessage, error) {
		if len(exec.queries) == 1 {
			return nil, &cms.GraphQLError{Messages: []string{"rejected"}}
		}
		return json.RawMessage(listingPayload), nil
	}
	svc := newTestService(exec)
	svc.GetBlogPosts(context.Background(), 10)

	require.Len(t, exec.queries, 2)
	assert.True(t, strings.Contains(exec.queries[0], "tags"))
	assert.False(t, strings.Contains(exec.queries[1], "tags"))
}
