package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/accountserv/accountserv/pkg/domain"
)

// Config holds application configuration.
type Config struct {
	// Server
	ServerAddr string
	ServerPort int

	// Database (optional; the in-memory store is used when unset)
	DBHost     string
	DBPort     int
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Registration policy
	MaxPerAddress       int
	DefaultFlags        domain.Flag
	RequireVerification bool
	CredentialHashing   bool
	VerificationWindow  time.Duration
	DeliveryTimeout     time.Duration

	// SMTP
	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	SMTPFrom     string
	SMTPFromName string

	// Rate limiting
	RateLimitEnabled bool
	RateLimitPerMin  int
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		// Server defaults
		ServerAddr: getEnv("SERVER_ADDR", "0.0.0.0"),
		ServerPort: getEnvInt("SERVER_PORT", 8080),

		// Database (empty host selects the in-memory store)
		DBHost:     getEnv("DB_HOST", ""),
		DBPort:     getEnvInt("DB_PORT", 5432),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", "postgres"),
		DBName:     getEnv("DB_NAME", "accountserv"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		// Registration policy defaults
		MaxPerAddress:       getEnvInt("MAX_ACCOUNTS_PER_ADDRESS", 5),
		RequireVerification: getEnvBool("REQUIRE_VERIFICATION", false),
		CredentialHashing:   getEnvBool("CREDENTIAL_HASHING", true),
		VerificationWindow:  getEnvDuration("VERIFICATION_WINDOW", 24*time.Hour),
		DeliveryTimeout:     getEnvDuration("DELIVERY_TIMEOUT", 10*time.Second),

		// SMTP (optional)
		SMTPHost:     getEnv("SMTP_HOST", ""),
		SMTPPort:     getEnvInt("SMTP_PORT", 587),
		SMTPUser:     getEnv("SMTP_USER", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		SMTPFrom:     getEnv("SMTP_FROM", ""),
		SMTPFromName: getEnv("SMTP_FROM_NAME", ""),

		// Rate limiting
		RateLimitEnabled: getEnvBool("RATE_LIMIT_ENABLED", true),
		RateLimitPerMin:  getEnvInt("RATE_LIMIT_PER_MINUTE", 10),
	}

	flags, err := domain.ParseDefaultFlags(getEnv("DEFAULT_ACCOUNT_FLAGS", ""))
	if err != nil {
		return nil, fmt.Errorf("DEFAULT_ACCOUNT_FLAGS: %w", err)
	}
	cfg.DefaultFlags = flags

	if cfg.RequireVerification && !cfg.HasSMTP() {
		return nil, fmt.Errorf("REQUIRE_VERIFICATION needs SMTP_HOST and SMTP_FROM")
	}

	return cfg, nil
}

// HasPostgres returns true if a database is configured.
func (c *Config) HasPostgres() bool {
	return c.DBHost != ""
}

// HasSMTP returns true if mail delivery is configured.
func (c *Config) HasSMTP() bool {
	return c.SMTPHost != "" && c.SMTPFrom != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
