package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"portfolio-backend/internal/models"
	"portfolio-backend/internal/security"
	pkghttp "portfolio-backend/pkg/http"

	"github.com/go-chi/chi/v5"
)

// ContentService is the slice of the CMS service the handler consumes.
type ContentService interface {
	GetBlogPosts(ctx context.Context, count int) []models.BlogPost
	GetBlogPostBySlug(ctx context.Context, slug string) (*models.BlogPostDetail, error)
	PurgeCache()
}

// BlogHandler serves CMS-backed blog data.
type BlogHandler struct {
	content       ContentService
	webhookSecret string
	monitor       *security.AuthMonitor
	events        *security.EventLog
	logger        *slog.Logger
}

// NewBlogHandler creates a BlogHandler. The webhook secret gates the
// revalidation endpoint; wrong secrets feed the auth monitor.
func NewBlogHandler(
	content ContentService,
	webhookSecret string,
	monitor *security.AuthMonitor,
	events *security.EventLog,
	logger *slog.Logger,
) *BlogHandler {
	return &BlogHandler{
		content:       content,
		webhookSecret: webhookSecret,
		monitor:       monitor,
		events:        events,
		logger:        logger,
	}
}

// ListPostsResponse wraps the listing payload.
type ListPostsResponse struct {
	Posts []models.BlogPost `json:"posts"`
	Total int               `json:"total"`
}

// ListPosts handles GET /api/blog/posts?count=N. Upstream failures
// degrade to an empty list by design.
func (h *BlogHandler) ListPosts(w http.ResponseWriter, r *http.Request) {
	count := 10
	if raw := r.URL.Query().Get("count"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 && parsed <= 50 {
			count = parsed
		}
	}

	posts := h.content.GetBlogPosts(r.Context(), count)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(ListPostsResponse{Posts: posts, Total: len(posts)})
}

// GetPost handles GET /api/blog/posts/{slug}.
func (h *BlogHandler) GetPost(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	post, err := h.content.GetBlogPostBySlug(r.Context(), slug)
	if err != nil {
		h.logger.Error("failed to fetch blog post", slog.String("slug", slug), slog.Any("error", err))
		pkghttp.WriteInternalError(w, "failed to load post")
		return
	}
	if post == nil {
		pkghttp.WriteNotFound(w, "post not found")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(post)
}

// RevalidateResponse confirms a cache purge.
type RevalidateResponse struct {
	Revalidated bool `json:"revalidated"`
}

// Revalidate handles POST /api/revalidate?secret=... by purging the
// CMS cache, making a fresh publish visible before the TTL elapses.
func (h *BlogHandler) Revalidate(w http.ResponseWriter, r *http.Request) {
	if !authorize(w, r, h.webhookSecret, h.monitor, h.events) {
		return
	}

	h.content.PurgeCache()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(RevalidateResponse{Revalidated: true})
}
