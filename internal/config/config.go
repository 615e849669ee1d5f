package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Email    EmailConfig
	Security SecurityConfig
	CMS      CMSConfig
	Geo      GeoConfig
	Captcha  CaptchaConfig
}

type ServerConfig struct {
	Port           string
	Env            string
	LogLevel       string
	AllowedOrigins []string
}

type EmailConfig struct {
	// Provider selects the backend: "ses" or "smtp".
	Provider    string
	FromAddress string
	Recipient   string

	AWSRegion string

	SMTPHost   string
	SMTPPort   int
	SMTPSecure bool
	SMTPUser   string
	SMTPPass   string
}

type SecurityConfig struct {
	WebhookSecret       string
	ContactMaxRequests  int
	ContactWindow       time.Duration
	RateLimitSweepEvery time.Duration
	EventLogCapacity    int
}

type CMSConfig struct {
	Endpoint  string
	Host      string
	CacheTTL  time.Duration
	CacheSize int
}

type GeoConfig struct {
	Token string
}

type CaptchaConfig struct {
	SiteKey   string
	SecretKey string
	VerifyURL string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	env := getEnv("ENV", "development")

	cfg := &Config{
		Server: ServerConfig{
			Port:           getEnv("PORT", "8080"),
			Env:            env,
			LogLevel:       getEnv("LOG_LEVEL", "info"),
			AllowedOrigins: parseAllowedOrigins(env),
		},
		Email: EmailConfig{
			Provider:    getEnv("EMAIL_PROVIDER", "ses"),
			FromAddress: getEnv("EMAIL_FROM", ""),
			Recipient:   getEnv("CONTACT_RECIPIENT", ""),
			AWSRegion:   getEnv("AWS_REGION", "us-east-1"),
			SMTPHost:    getEnv("SMTP_HOST", ""),
			SMTPPort:    getEnvAsInt("SMTP_PORT", 587),
			SMTPSecure:  getEnvAsBool("SMTP_SECURE", false),
			SMTPUser:    getEnv("SMTP_USER", ""),
			SMTPPass:    getEnv("SMTP_PASS", ""),
		},
		Security: SecurityConfig{
			WebhookSecret:       getEnv("WEBHOOK_SECRET", ""),
			ContactMaxRequests:  getEnvAsInt("CONTACT_RATE_LIMIT_MAX", 5),
			ContactWindow:       getEnvAsDuration("CONTACT_RATE_LIMIT_WINDOW", 1*time.Minute),
			RateLimitSweepEvery: getEnvAsDuration("RATE_LIMIT_SWEEP_INTERVAL", 5*time.Minute),
			EventLogCapacity:    getEnvAsInt("SECURITY_EVENT_CAPACITY", 1000),
		},
		CMS: CMSConfig{
			Endpoint:  getEnv("CMS_ENDPOINT", "https://gql.hashnode.com"),
			Host:      getEnv("CMS_PUBLICATION_HOST", ""),
			CacheTTL:  getEnvAsDuration("CMS_CACHE_TTL", 5*time.Minute),
			CacheSize: getEnvAsInt("CMS_CACHE_SIZE", 128),
		},
		Geo: GeoConfig{
			Token: getEnv("IPINFO_TOKEN", ""),
		},
		Captcha: CaptchaConfig{
			SiteKey:   getEnv("CAPTCHA_SITE_KEY", ""),
			SecretKey: getEnv("CAPTCHA_SECRET_KEY", ""),
			VerifyURL: getEnv("CAPTCHA_VERIFY_URL", ""),
		},
	}

	if cfg.Email.FromAddress == "" {
		return nil, fmt.Errorf("EMAIL_FROM is required")
	}
	if cfg.Email.Recipient == "" {
		return nil, fmt.Errorf("CONTACT_RECIPIENT is required")
	}
	if cfg.Security.WebhookSecret == "" {
		return nil, fmt.Errorf("WEBHOOK_SECRET is required")
	}
	if err := validateWebhookSecret(cfg.Security.WebhookSecret, env); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validateWebhookSecret enforces minimum strength for the shared secret
// gating the security and revalidation endpoints
func validateWebhookSecret(secret, env string) error {
	minLength := 16
	if env == "production" {
		minLength = 32
	}

	if len(secret) < minLength {
		return fmt.Errorf("WEBHOOK_SECRET must be at least %d characters in %s environment (got %d)",
			minLength, env, len(secret))
	}

	weakSecrets := []string{
		"secret", "test", "password", "12345", "changeme",
		"admin", "root", "default", "example",
	}

	secretLower := strings.ToLower(secret)
	for _, weak := range weakSecrets {
		if secretLower == weak {
			return fmt.Errorf("WEBHOOK_SECRET cannot be a common weak value")
		}
	}

	return nil
}

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsBool(key string, defaultVal bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultVal
}

func getEnvAsDuration(key string, defaultVal time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultVal
}

func parseAllowedOrigins(env string) []string {
	if env == "production" {
		originsStr := getEnv("ALLOWED_ORIGINS", "")
		if originsStr == "" {
			return []string{}
		}
		origins := strings.Split(originsStr, ",")
		for i, origin := range origins {
			origins[i] = strings.TrimSpace(origin)
		}
		return origins
	}

	// Development: allow localhost variants
	return []string{
		"http://localhost:3000",
		"http://localhost:8080",
		"http://localhost:5173",
		"http://127.0.0.1:3000",
		"http://127.0.0.1:8080",
		"http://127.0.0.1:5173",
	}
}
