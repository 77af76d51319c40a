package config

import (
	"errors"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
// It is the single source of truth for runtime parameters.
type Config struct {
	Port      string
	Env       string
	JWTSecret string

	DB       DatabaseConfig
	Redis    RedisConfig
	SMTP     SMTPConfig
	WhatsApp WhatsAppConfig
	Media    MediaConfig
}

// DatabaseConfig contains PostgreSQL connection parameters.
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// RedisConfig contains Redis connection parameters.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// SMTPConfig contains outbound email parameters. AdminEmail receives new
// order notifications.
type SMTPConfig struct {
	Host       string
	Port       string
	User       string
	Password   string
	From       string
	AdminEmail string
}

// Enabled reports whether outbound email is configured.
func (c SMTPConfig) Enabled() bool {
	return c.Host != "" && c.From != ""
}

// WhatsAppConfig contains the NATS bridge parameters. The bridge publishes
// order notifications to a subject consumed by an external WhatsApp runner.
type WhatsAppConfig struct {
	NATSURL string
	Subject string
}

// Enabled reports whether the WhatsApp bridge is configured.
func (c WhatsAppConfig) Enabled() bool {
	return c.NATSURL != ""
}

// MediaConfig contains S3-compatible object storage parameters for image
// offloading. When unset, images are stored inline.
type MediaConfig struct {
	Region          string
	Bucket          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	PublicBaseURL   string
}

// Enabled reports whether media offloading is configured.
func (c MediaConfig) Enabled() bool {
	return c.Bucket != "" && c.AccessKeyID != ""
}

// Load reads configuration from environment variables. If a .env file exists
// in the working directory, it will be loaded first. It returns a populated
// Config or an error with a human-friendly message.
func Load() (*Config, error) {
	// Load .env if present; ignore error if file is missing so that production
	// environments relying solely on real environment variables keep working.
	_ = godotenv.Load()

	cfg := &Config{}

	// Server
	cfg.Port = getEnv("PORT", "8000")
	cfg.Env = getEnv("ENV", "development")
	cfg.JWTSecret = getEnv("JWT_SECRET", "")

	// Database
	cfg.DB = DatabaseConfig{
		Host:     getEnv("DB_HOST", ""),
		Port:     getEnv("DB_PORT", "5432"),
		User:     getEnv("DB_USER", ""),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", ""),
		SSLMode:  getEnv("DB_SSLMODE", "disable"),
	}

	// Redis
	cfg.Redis = RedisConfig{
		Host:     getEnv("REDIS_HOST", "redis"),
		Port:     getEnv("REDIS_PORT", "6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       getEnvInt("REDIS_DB", 0),
	}

	// Outbound email
	cfg.SMTP = SMTPConfig{
		Host:       getEnv("SMTP_HOST", ""),
		Port:       getEnv("SMTP_PORT", "587"),
		User:       getEnv("SMTP_USER", ""),
		Password:   getEnv("SMTP_PASSWORD", ""),
		From:       getEnv("SMTP_FROM", ""),
		AdminEmail: getEnv("ADMIN_EMAIL", ""),
	}

	// WhatsApp bridge
	cfg.WhatsApp = WhatsAppConfig{
		NATSURL: getEnv("WHATSAPP_NATS_URL", ""),
		Subject: getEnv("WHATSAPP_NATS_SUBJECT", "store.orders.whatsapp"),
	}

	// Media offloading
	cfg.Media = MediaConfig{
		Region:          getEnv("MEDIA_S3_REGION", ""),
		Bucket:          getEnv("MEDIA_S3_BUCKET", ""),
		Endpoint:        getEnv("MEDIA_S3_ENDPOINT", ""),
		AccessKeyID:     getEnv("MEDIA_S3_ACCESS_KEY_ID", ""),
		SecretAccessKey: getEnv("MEDIA_S3_SECRET_ACCESS_KEY", ""),
		PublicBaseURL:   getEnv("MEDIA_PUBLIC_BASE_URL", ""),
	}

	// Basic validation for DB parameters — keeps messages concise and helpful.
	if cfg.DB.Host == "" || cfg.DB.User == "" || cfg.DB.Name == "" {
		return nil, errors.New("database configuration incomplete: ensure DB_HOST, DB_USER, and DB_NAME are set")
	}

	// The server fails closed without a signing secret rather than ever
	// accepting unsigned tokens.
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET must be set for authentication")
	}

	return cfg, nil
}

// getEnv returns the value of an environment variable or a default if empty.
func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// getEnvInt returns the value of an environment variable as an integer or a default if empty/invalid.
func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}
