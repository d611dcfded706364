package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the API service.
type Config struct {
	AppName                string
	AppEnv                 string
	AppPort                string
	BaseURL                string
	DatabaseURL            string
	RedisURL               string
	JWTSecret              string
	SessionTTL             time.Duration
	ResetTokenTTL          time.Duration
	CloudinaryCloudName    string
	CloudinaryAPIKey       string
	CloudinaryAPISecret    string
	CloudinaryUploadFolder string
	DashboardCacheTTL      time.Duration
	UploadMaxSizeMB        int
	SMTPHost               string
	SMTPPort               string
	SMTPUsername           string
	SMTPPassword           string
	SMTPFrom               string
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("LEARNHUB")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "LearnHub API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("base.url", "http://localhost:8080")
	v.SetDefault("session.ttl", "24h")
	v.SetDefault("reset.token_ttl", "1h")
	v.SetDefault("cloudinary.folder", "learnhub/media")
	v.SetDefault("dashboard.cache_ttl", "5m")
	v.SetDefault("upload.max_size_mb", 10)
	v.SetDefault("smtp.port", "587")

	sessionTTL, err := time.ParseDuration(v.GetString("session.ttl"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid session ttl: %w", err)
	}

	resetTTL, err := time.ParseDuration(v.GetString("reset.token_ttl"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid reset token ttl: %w", err)
	}

	cacheTTL, err := time.ParseDuration(v.GetString("dashboard.cache_ttl"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid dashboard cache ttl: %w", err)
	}

	cfg := Config{
		AppName:                v.GetString("app.name"),
		AppEnv:                 v.GetString("app.env"),
		AppPort:                v.GetString("app.port"),
		BaseURL:                strings.TrimRight(v.GetString("base.url"), "/"),
		DatabaseURL:            v.GetString("database.url"),
		RedisURL:               v.GetString("redis.url"),
		JWTSecret:              v.GetString("jwt.secret"),
		SessionTTL:             sessionTTL,
		ResetTokenTTL:          resetTTL,
		CloudinaryCloudName:    v.GetString("cloudinary.cloud_name"),
		CloudinaryAPIKey:       v.GetString("cloudinary.api_key"),
		CloudinaryAPISecret:    v.GetString("cloudinary.api_secret"),
		CloudinaryUploadFolder: v.GetString("cloudinary.folder"),
		DashboardCacheTTL:      cacheTTL,
		UploadMaxSizeMB:        v.GetInt("upload.max_size_mb"),
		SMTPHost:               v.GetString("smtp.host"),
		SMTPPort:               v.GetString("smtp.port"),
		SMTPUsername:           v.GetString("smtp.username"),
		SMTPPassword:           v.GetString("smtp.password"),
		SMTPFrom:               v.GetString("smtp.from"),
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("jwt secret must be provided")
	}

	if cfg.UploadMaxSizeMB <= 0 {
		cfg.UploadMaxSizeMB = 10
	}

	return cfg, nil
}
