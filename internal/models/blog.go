package models

// BlogTag is an optional label attached to a post. Tags are only
// available from the extended CMS query tier.
type BlogTag struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// BlogPost is a read-only listing entry owned by the external CMS.
type BlogPost struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Brief         string    `json:"brief"`
	Slug          string    `json:"slug"`
	CoverImageURL string    `json:"cover_image_url,omitempty"`
	PublishedAt   string    `json:"published_at"`
	ReadTime      int       `json:"read_time_minutes,omitempty"`
	Tags          []BlogTag `json:"tags,omitempty"`
}

// BlogPostDetail is the full post body fetched for a single slug.
type BlogPostDetail struct {
	BlogPost
	ContentHTML     string `json:"content_html"`
	ContentMarkdown string `json:"content_markdown,omitempty"`
	SEODescription  string `json:"seo_description,omitempty"`
}
