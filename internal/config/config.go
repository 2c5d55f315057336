package config

import (
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server  ServerConfig
	DocInt  DocIntConfig
	Archive ArchiveConfig
	CORS    CORSConfig
	Log     LogConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// DocIntConfig holds document intelligence service settings.
type DocIntConfig struct {
	Endpoint        string `mapstructure:"endpoint"`
	APIKey          string `mapstructure:"api_key"`
	ModelID         string `mapstructure:"model_id"`
	APIVersion      string `mapstructure:"api_version"`
	PollIntervalMS  int    `mapstructure:"poll_interval_ms"`
	MaxPolls        int    `mapstructure:"max_polls"`
	HTTPTimeoutSecs int    `mapstructure:"http_timeout_secs"`
	// RequestTimeoutSecs bounds one whole extraction (submit plus polling)
	// as seen by the HTTP layer.
	RequestTimeoutSecs int `mapstructure:"request_timeout_secs"`
}

// ArchiveConfig holds optional S3 archival settings for processed invoices.
type ArchiveConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Region    string `mapstructure:"region"`
	Bucket    string `mapstructure:"bucket"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Prefix    string `mapstructure:"prefix"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from environment variables with the INVEX_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("INVEX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "120s")
	v.SetDefault("server.environment", "development")

	// Document intelligence defaults
	v.SetDefault("docint.endpoint", "")
	v.SetDefault("docint.api_key", "")
	v.SetDefault("docint.model_id", "prebuilt-invoice")
	v.SetDefault("docint.api_version", "2023-07-31")
	v.SetDefault("docint.poll_interval_ms", 1000)
	v.SetDefault("docint.max_polls", 60)
	v.SetDefault("docint.http_timeout_secs", 30)
	v.SetDefault("docint.request_timeout_secs", 90)

	// Archive defaults (disabled unless a bucket is configured)
	v.SetDefault("archive.enabled", false)
	v.SetDefault("archive.region", "us-east-1")
	v.SetDefault("archive.bucket", "")
	v.SetDefault("archive.endpoint", "")
	v.SetDefault("archive.prefix", "invoices")

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":                 "INVEX_SERVER_PORT",
		"server.read_timeout":         "INVEX_SERVER_READ_TIMEOUT",
		"server.write_timeout":        "INVEX_SERVER_WRITE_TIMEOUT",
		"server.environment":          "INVEX_SERVER_ENVIRONMENT",
		"docint.endpoint":             "INVEX_DOCINT_ENDPOINT",
		"docint.api_key":              "INVEX_DOCINT_API_KEY",
		"docint.model_id":             "INVEX_DOCINT_MODEL_ID",
		"docint.api_version":          "INVEX_DOCINT_API_VERSION",
		"docint.poll_interval_ms":     "INVEX_DOCINT_POLL_INTERVAL_MS",
		"docint.max_polls":            "INVEX_DOCINT_MAX_POLLS",
		"docint.http_timeout_secs":    "INVEX_DOCINT_HTTP_TIMEOUT_SECS",
		"docint.request_timeout_secs": "INVEX_DOCINT_REQUEST_TIMEOUT_SECS",
		"archive.enabled":             "INVEX_ARCHIVE_ENABLED",
		"archive.region":              "INVEX_ARCHIVE_REGION",
		"archive.bucket":              "INVEX_ARCHIVE_BUCKET",
		"archive.endpoint":            "INVEX_ARCHIVE_ENDPOINT",
		"archive.access_key":          "INVEX_ARCHIVE_ACCESS_KEY",
		"archive.secret_key":          "INVEX_ARCHIVE_SECRET_KEY",
		"archive.prefix":              "INVEX_ARCHIVE_PREFIX",
		"log.level":                   "INVEX_LOG_LEVEL",
		"log.format":                  "INVEX_LOG_FORMAT",
		"cors.allowed_origins":        "INVEX_CORS_ALLOWED_ORIGINS",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if INVEX_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("INVEX_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.DocInt = DocIntConfig{
		Endpoint:           v.GetString("docint.endpoint"),
		APIKey:             v.GetString("docint.api_key"),
		ModelID:            v.GetString("docint.model_id"),
		APIVersion:         v.GetString("docint.api_version"),
		PollIntervalMS:     v.GetInt("docint.poll_interval_ms"),
		MaxPolls:           v.GetInt("docint.max_polls"),
		HTTPTimeoutSecs:    v.GetInt("docint.http_timeout_secs"),
		RequestTimeoutSecs: v.GetInt("docint.request_timeout_secs"),
	}
	cfg.Archive = ArchiveConfig{
		Enabled:   v.GetBool("archive.enabled"),
		Region:    v.GetString("archive.region"),
		Bucket:    v.GetString("archive.bucket"),
		Endpoint:  v.GetString("archive.endpoint"),
		AccessKey: v.GetString("archive.access_key"),
		SecretKey: v.GetString("archive.secret_key"),
		Prefix:    v.GetString("archive.prefix"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}
	// Parse CORS allowed origins from comma-separated string
	var corsOrigins []string
	for _, o := range strings.Split(v.GetString("cors.allowed_origins"), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			corsOrigins = append(corsOrigins, o)
		}
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: corsOrigins,
	}

	return cfg, nil
}
