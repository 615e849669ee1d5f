package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"portfolio-backend/internal/background"
	"portfolio-backend/internal/captcha"
	"portfolio-backend/internal/cms"
	"portfolio-backend/internal/config"
	"portfolio-backend/internal/email"
	"portfolio-backend/internal/geo"
	"portfolio-backend/internal/handlers"
	middlewareCustom "portfolio-backend/internal/middleware"
	"portfolio-backend/internal/routes"
	"portfolio-backend/internal/security"
	pkglogger "portfolio-backend/pkg/logger"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("configuration loaded", slog.String("env", cfg.Server.Env))

	// Email provider, selected by config; fails fast on missing settings
	provider, err := email.NewProvider(cfg.Email, logger)
	if err != nil {
		logger.Error("failed to initialize email provider", slog.Any("error", err))
		os.Exit(1)
	}

	// Geolocation and captcha clients
	geoClient := geo.NewClient(cfg.Geo.Token, logger)
	captchaVerifier := captcha.NewVerifier(cfg.Captcha.SecretKey, cfg.Captcha.VerifyURL, logger)

	// Mailers
	contactMailer := email.NewContactMailer(provider, geoClient, cfg.Email.FromAddress, cfg.Email.Recipient, logger)
	alertMailer := email.NewAlertMailer(provider, cfg.Email.FromAddress, cfg.Email.Recipient, logger)

	// Security state: in-process stores, swappable for a shared backend
	rateLimiter := security.NewRateLimiter(security.NewMemoryRateLimitStore(), logger)
	authMonitor := security.NewAuthMonitor(security.NewMemoryAuthAttemptStore(), logger)
	eventLog := security.NewEventLog(cfg.Security.EventLogCapacity)

	auditLogger := pkglogger.NewAuditLogger(logger)

	// CMS content service
	cmsClient := cms.NewClient(cfg.CMS.Endpoint, logger)
	contentService := cms.NewContentService(cmsClient, cfg.CMS.Host, cfg.CMS.CacheTTL, cfg.CMS.CacheSize, logger)

	// Handlers
	contactLimit := security.RateLimitConfig{
		MaxRequests: cfg.Security.ContactMaxRequests,
		Window:      cfg.Security.ContactWindow,
	}
	contactHandler := handlers.NewContactHandler(contactMailer, captchaVerifier, rateLimiter, contactLimit, eventLog, auditLogger, logger)
	securityHandler := handlers.NewSecurityHandler(cfg.Security.WebhookSecret, alertMailer, eventLog, authMonitor, logger)
	blogHandler := handlers.NewBlogHandler(contentService, cfg.Security.WebhookSecret, authMonitor, eventLog, logger)

	// Periodic sweeps, owned by the process lifecycle
	cleanupManager := background.NewCleanupManager(logger)
	cleanupManager.Register("rate_limit", cfg.Security.RateLimitSweepEvery, rateLimiter.Sweep)
	cleanupManager.Register("auth_monitor", security.AuthSweepInterval, authMonitor.Sweep)

	// Setup CORS middleware
	corsConfig := middlewareCustom.DefaultCORSConfig(cfg.Server.Env)
	corsConfig.AllowedOrigins = cfg.Server.AllowedOrigins

	// Setup router
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middlewareCustom.SecurityHeaders(middlewareCustom.SecurityHeadersConfig{Env: cfg.Server.Env}))
	router.Use(middlewareCustom.CORS(corsConfig))
	router.Use(middlewareCustom.SecureLogger(logger))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))

	// Register routes
	routes.RegisterRoutes(router, contactHandler, securityHandler, blogHandler)

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	})

	// Create server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start sweeps
	cleanupCtx, cleanupCancel := context.WithCancel(context.Background())
	defer cleanupCancel()

	cleanupManager.Start(cleanupCtx)

	// Start server
	go func() {
		logger.Info("starting server", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutdown signal received")

	cleanupCancel()
	cleanupManager.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("server stopped gracefully")
}
