package routes

import (
	"portfolio-backend/internal/handlers"
	"portfolio-backend/internal/middleware"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all application routes
func RegisterRoutes(
	router chi.Router,
	contactHandler *handlers.ContactHandler,
	securityHandler *handlers.SecurityHandler,
	blogHandler *handlers.BlogHandler,
) {
	contactLimit := middleware.DefaultContactRateLimit()
	securityLimit := middleware.DefaultSecurityRateLimit()

	router.Route("/api", func(r chi.Router) {
		r.With(middleware.RateLimitByIP(contactLimit)).Post("/contact", contactHandler.Submit)

		r.With(middleware.RateLimitByIP(securityLimit)).Get("/security", securityHandler.Check)
		r.With(middleware.RateLimitByIP(securityLimit)).Post("/revalidate", blogHandler.Revalidate)

		r.Route("/blog", func(r chi.Router) {
			r.Get("/posts", blogHandler.ListPosts)
			r.Get("/posts/{slug}", blogHandler.GetPost)
		})
	})
}
