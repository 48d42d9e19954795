// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// knownWeakSecrets contains default/example secrets that must be rejected in production.
var knownWeakSecrets = []string{
	"change-me-to-32-byte-secret-key!",
	"REPLACE_WITH_YOUR_OWN_SECRET_KEY!",
}

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DBPath        string `env:"BIEMME_DB_PATH" envDefault:"./data/biemme2.db"`
	DBDriver      string `env:"BIEMME_DB_DRIVER" envDefault:"sqlite"` // sqlite (pure Go) or sqlite3 (cgo)
	SessionSecret string `env:"BIEMME_SESSION_SECRET,required"`
	ServerHost    string `env:"BIEMME_SERVER_HOST" envDefault:"localhost"`
	ServerPort    int    `env:"BIEMME_SERVER_PORT" envDefault:"8080"`
	Env           string `env:"BIEMME_ENV" envDefault:"development"`
	LogLevel      string `env:"BIEMME_LOG_LEVEL" envDefault:"info"`
	SiteURL       string `env:"BIEMME_SITE_URL" envDefault:"https://biemme2.it"`
	StaticDir     string `env:"BIEMME_STATIC_DIR" envDefault:"./public"`

	// Headless CMS. When CMSURL is empty the local SQLite store serves documents.
	CMSURL          string        `env:"BIEMME_CMS_URL"`
	CMSAPIKey       string        `env:"BIEMME_CMS_API_KEY"`
	CMSFetchTimeout time.Duration `env:"BIEMME_CMS_FETCH_TIMEOUT" envDefault:"5s"`
	APITokenHash    string        `env:"BIEMME_API_TOKEN_HASH"` // argon2id hash guarding PUT /api/globals

	// Cache configuration
	RedisURL         string `env:"BIEMME_REDIS_URL"`                            // Optional Redis URL for distributed caching
	CachePrefix      string `env:"BIEMME_CACHE_PREFIX" envDefault:"biemme2:"`   // Redis key prefix
	CacheTTL         int    `env:"BIEMME_CACHE_TTL" envDefault:"3600"`          // Document revalidation window in seconds
	CacheMaxSize     int    `env:"BIEMME_CACHE_MAX_SIZE" envDefault:"1000"`     // Max memory cache entries
	RevalidateCron   string `env:"BIEMME_REVALIDATE_CRON" envDefault:"@hourly"` // Cache warm-up schedule
	GeoIPReloadCron  string `env:"BIEMME_GEOIP_RELOAD_CRON" envDefault:"@daily"`
	GeoIPDBPath      string `env:"BIEMME_GEOIP_DB_PATH"` // Path to GeoLite2-Country.mmdb file
	ContactRateLimit int    `env:"BIEMME_CONTACT_RATE_LIMIT" envDefault:"5"` // Submissions per IP per hour

	// Mail delivery for the contact form
	SMTPHost     string `env:"BIEMME_SMTP_HOST"`
	SMTPPort     int    `env:"BIEMME_SMTP_PORT" envDefault:"587"`
	SMTPUser     string `env:"BIEMME_SMTP_USER"`
	SMTPPassword string `env:"BIEMME_SMTP_PASSWORD"`
	SMTPFrom     string `env:"BIEMME_SMTP_FROM" envDefault:"noreply@biemme2.com"`
	SMTPSecure   bool   `env:"BIEMME_SMTP_SECURE" envDefault:"false"` // Implicit TLS (port 465) instead of STARTTLS
	ContactEmail string `env:"BIEMME_CONTACT_EMAIL" envDefault:"info@biemme2.com"`

	// reCAPTCHA v3
	RecaptchaSiteKey   string  `env:"BIEMME_RECAPTCHA_SITE_KEY"`
	RecaptchaSecretKey string  `env:"BIEMME_RECAPTCHA_SECRET_KEY"`
	RecaptchaMinScore  float64 `env:"BIEMME_RECAPTCHA_MIN_SCORE" envDefault:"0.3"`

	// Analytics, loaded only after consent
	GAMeasurementID string `env:"BIEMME_GA_MEASUREMENT_ID"`
	GTMID           string `env:"BIEMME_GTM_ID"`
	MetaPixelID     string `env:"BIEMME_META_PIXEL_ID"`

	// Seeding configuration
	DoSeed bool `env:"BIEMME_DO_SEED" envDefault:"false"` // Write fallback documents into the local store
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// UseRedisCache returns true if Redis caching is configured.
func (c Config) UseRedisCache() bool {
	return c.RedisURL != ""
}

// UseRemoteCMS returns true if documents are fetched from a remote CMS.
func (c Config) UseRemoteCMS() bool {
	return c.CMSURL != ""
}

// RecaptchaEnabled returns true if reCAPTCHA verification should run.
// Verification is skipped in development.
func (c Config) RecaptchaEnabled() bool {
	return c.RecaptchaSecretKey != "" && !c.IsDevelopment()
}

// MailEnabled returns true if an SMTP relay is configured.
func (c Config) MailEnabled() bool {
	return c.SMTPHost != ""
}

// GeoIPEnabled returns true if GeoIP database is configured.
func (c Config) GeoIPEnabled() bool {
	return c.GeoIPDBPath != ""
}

// CacheTTLDuration returns the document cache TTL.
func (c Config) CacheTTLDuration() time.Duration {
	return time.Duration(c.CacheTTL) * time.Second
}

// MinSessionSecretLength is the minimum required length for the session secret.
// AES-256 requires 32 bytes minimum for secure encryption.
const MinSessionSecretLength = 32

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if len(cfg.SessionSecret) < MinSessionSecretLength {
		return nil, fmt.Errorf("BIEMME_SESSION_SECRET must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			MinSessionSecretLength, len(cfg.SessionSecret))
	}

	for _, weak := range knownWeakSecrets {
		if cfg.SessionSecret == weak {
			return nil, fmt.Errorf("BIEMME_SESSION_SECRET is a known default value and must not be used; " +
				"generate a secure secret with: openssl rand -base64 32")
		}
	}

	if !hasMinimumEntropy(cfg.SessionSecret) {
		slog.Warn("BIEMME_SESSION_SECRET has low character diversity; " +
			"consider generating a random secret with: openssl rand -base64 32")
	}

	switch cfg.DBDriver {
	case "sqlite", "sqlite3":
	default:
		return nil, fmt.Errorf("BIEMME_DB_DRIVER must be sqlite or sqlite3, got %q", cfg.DBDriver)
	}

	if err := validateURL("BIEMME_SITE_URL", cfg.SiteURL); err != nil {
		return nil, err
	}
	if cfg.CMSURL != "" {
		if err := validateURL("BIEMME_CMS_URL", cfg.CMSURL); err != nil {
			return nil, err
		}
		cfg.CMSURL = strings.TrimRight(cfg.CMSURL, "/")
	}
	cfg.SiteURL = strings.TrimRight(cfg.SiteURL, "/")

	if cfg.CacheTTL <= 0 {
		return nil, fmt.Errorf("BIEMME_CACHE_TTL must be positive, got %d", cfg.CacheTTL)
	}
	if cfg.RecaptchaMinScore < 0 || cfg.RecaptchaMinScore > 1 {
		return nil, fmt.Errorf("BIEMME_RECAPTCHA_MIN_SCORE must be within [0,1], got %v", cfg.RecaptchaMinScore)
	}

	return cfg, nil
}

func validateURL(name, raw string) error {
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%s must be an absolute http(s) URL, got %q", name, raw)
	}
	return nil
}

// hasMinimumEntropy checks that a secret contains at least 3 character classes
// (lowercase, uppercase, digits, special characters).
func hasMinimumEntropy(s string) bool {
	charTypes := 0
	if strings.ContainsAny(s, "abcdefghijklmnopqrstuvwxyz") {
		charTypes++
	}
	if strings.ContainsAny(s, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") {
		charTypes++
	}
	if strings.ContainsAny(s, "0123456789") {
		charTypes++
	}
	if strings.ContainsAny(s, "!@#$%^&*()-_=+[]{}|;:,.<>?/~`'\"\\") {
		charTypes++
	}
	return charTypes >= 3
}
