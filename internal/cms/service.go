package cms

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"portfolio-backend/internal/models"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Defaults for the response cache.
const (
	DefaultCacheTTL  = 5 * time.Minute
	DefaultCacheSize = 128
)

// GraphQLExecutor is the slice of the client the service consumes.
type GraphQLExecutor interface {
	Execute(ctx context.Context, query string, variables map[string]any) (json.RawMessage, error)
}

// ContentService fetches blog listing and detail data with an
// in-memory TTL cache and a two-tier query fallback.
type ContentService struct {
	client GraphQLExecutor
	cache  *expirable.LRU[string, json.RawMessage]
	host   string
	logger *slog.Logger
}

// NewContentService creates a ContentService for one publication host.
// ttl/size <= 0 fall back to the defaults.
func NewContentService(client GraphQLExecutor, host string, ttl time.Duration, size int, logger *slog.Logger) *ContentService {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if size <= 0 {
		size = DefaultCacheSize
	}
	return &ContentService{
		client: client,
		cache:  expirable.NewLRU[string, json.RawMessage](size, nil, ttl),
		host:   host,
		logger: logger,
	}
}

// PurgeCache drops every cached response. Wired to the revalidation
// webhook so a CMS publish is visible before the TTL elapses.
func (s *ContentService) PurgeCache() {
	s.cache.Purge()
	s.logger.Info("cms cache purged")
}

// cacheKey is the composite (query text, variables) key.
func cacheKey(query string, variables map[string]any) string {
	vars, _ := json.Marshal(variables)
	return query + "|" + string(vars)
}

// fetch returns the data payload for one query, consulting the cache
// first. Expired entries are evicted lazily by the cache on lookup.
func (s *ContentService) fetch(ctx context.Context, query string, variables map[string]any) (json.RawMessage, error) {
	key := cacheKey(query, variables)
	if data, ok := s.cache.Get(key); ok {
		return data, nil
	}

	data, err := s.client.Execute(ctx, query, variables)
	if err != nil {
		return nil, err
	}

	s.cache.Add(key, data)
	return data, nil
}

// fetchTiered tries the extended query and falls back to the basic
// query exactly once when the extended tier fails with a GraphQL-level
// error (schema mismatch). A successful fallback discards the original
// error. Transport failures do not trigger the fallback.
func (s *ContentService) fetchTiered(ctx context.Context, extended, basic string, variables map[string]any) (json.RawMessage, error) {
	data, err := s.fetch(ctx, extended, variables)
	if err == nil {
		return data, nil
	}

	var gqlErr *GraphQLError
	if !errors.As(err, &gqlErr) {
		return nil, err
	}

	s.logger.Warn("extended cms query rejected, falling back to basic query",
		slog.Any("error", err))

	return s.fetch(ctx, basic, variables)
}

type postNode struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Brief      string `json:"brief"`
	Slug       string `json:"slug"`
	CoverImage *struct {
		URL string `json:"url"`
	} `json:"coverImage"`
	PublishedAt       string `json:"publishedAt"`
	ReadTimeInMinutes int    `json:"readTimeInMinutes"`
	Tags              []struct {
		Name string `json:"name"`
		Slug string `json:"slug"`
	} `json:"tags"`
	Content *struct {
		HTML     string `json:"html"`
		Markdown string `json:"markdown"`
	} `json:"content"`
	SEO *struct {
		Description string `json:"description"`
	} `json:"seo"`
}

type postsPayload struct {
	Publication *struct {
		Posts struct {
			Edges []struct {
				Node postNode `json:"node"`
			} `json:"edges"`
		} `json:"posts"`
	} `json:"publication"`
}

type postPayload struct {
	Publication *struct {
		Post *postNode `json:"post"`
	} `json:"publication"`
}

func nodeToPost(n *postNode) models.BlogPost {
	post := models.BlogPost{
		ID:          n.ID,
		Title:       n.Title,
		Brief:       n.Brief,
		Slug:        n.Slug,
		PublishedAt: n.PublishedAt,
		ReadTime:    n.ReadTimeInMinutes,
	}
	if n.CoverImage != nil {
		post.CoverImageURL = n.CoverImage.URL
	}
	for _, t := range n.Tags {
		post.Tags = append(post.Tags, models.BlogTag{Name: t.Name, Slug: t.Slug})
	}
	return post
}

// GetBlogPosts returns up to count listing entries. Any unrecoverable
// failure (both query tiers failed) is swallowed into an empty list;
// GetBlogPostBySlug deliberately does not share this behavior.
func (s *ContentService) GetBlogPosts(ctx context.Context, count int) []models.BlogPost {
	if count <= 0 {
		count = 10
	}
	variables := map[string]any{"host": s.host, "first": count}

	data, err := s.fetchTiered(ctx, extendedPostsQuery, basicPostsQuery, variables)
	if err != nil {
		s.logger.Error("failed to fetch blog posts", slog.Any("error", err))
		return []models.BlogPost{}
	}

	var payload postsPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		s.logger.Error("failed to decode blog posts payload", slog.Any("error", err))
		return []models.BlogPost{}
	}
	if payload.Publication == nil {
		s.logger.Error("blog posts payload carried no publication")
		return []models.BlogPost{}
	}

	posts := make([]models.BlogPost, 0, len(payload.Publication.Posts.Edges))
	for i := range payload.Publication.Posts.Edges {
		posts = append(posts, nodeToPost(&payload.Publication.Posts.Edges[i].Node))
	}
	return posts
}

// GetBlogPostBySlug returns the full post for slug, nil when the CMS
// has no such post, and the original error when both query tiers fail.
// Empty or whitespace-only slugs fail fast before any network call.
func (s *ContentService) GetBlogPostBySlug(ctx context.Context, slug string) (*models.BlogPostDetail, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, nil
	}
	variables := map[string]any{"host": s.host, "slug": slug}

	data, err := s.fetchTiered(ctx, extendedPostQuery, basicPostQuery, variables)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to fetch blog post %q: %w", models.ErrUpstreamFailure, slug, err)
	}

	var payload postPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode blog post payload: %w", err)
	}
	if payload.Publication == nil || payload.Publication.Post == nil {
		return nil, nil
	}

	node := payload.Publication.Post
	detail := &models.BlogPostDetail{BlogPost: nodeToPost(node)}
	if node.Content != nil {
		detail.ContentHTML = node.Content.HTML
		detail.ContentMarkdown = node.Content.Markdown
	}
	if node.SEO != nil {
		detail.SEODescription = node.SEO.Description
	}
	return detail, nil
}
