// Package config centralizes how traindesk reads environment variables and
// exposes them as strongly typed values shared by the API server and worker.
package config

import (
	"errors"
	"os"
	"strconv"
	"time"
)

// Config holds runtime configuration for every binary.
type Config struct {
	Address     string
	DatabaseURL string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	WorkerPool    int

	CloudinaryCloud  string
	CloudinaryKey    string
	CloudinarySecret string

	ArchiveEndpoint  string
	ArchiveAccessKey string
	ArchiveSecretKey string
	ArchiveBucket    string
	ArchiveRegion    string
	ArchiveUseSSL    bool
	ArchiveURLTTL    time.Duration

	AuthSecret []byte
	TokenTTL   time.Duration

	MaxUploadBytes  int64
	PreviewMaxBytes int64
	PreviewTimeout  time.Duration
}

const (
	defaultAddress        = ":8080"
	defaultMaxUpload      = 100 << 20 // media host plan limit
	defaultPreviewMax     = 25 << 20
	defaultPreviewTimeout = 15 * time.Second
	defaultTokenTTL       = 12 * time.Hour
	defaultArchiveTTL     = 10 * time.Minute
	defaultWorkerCount    = 2
)

// Load reads configuration from environment variables falling back to defaults.
// Media host credentials are read here but validated lazily by the gateway so
// that read-only deployments can run without them.
func Load() (*Config, error) {
	cfg := &Config{
		Address:     readEnv("TRAINDESK_ADDRESS", defaultAddress),
		DatabaseURL: readEnv("DATABASE_URL", ""),

		RedisAddr:     readEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: readEnv("REDIS_PASSWORD", ""),
		RedisDB:       parseInt("REDIS_DB", 0),
		WorkerPool:    parseInt("TRAINDESK_WORKERS", defaultWorkerCount),

		CloudinaryCloud:  readEnv("CLOUDINARY_CLOUD_NAME", ""),
		CloudinaryKey:    readEnv("CLOUDINARY_API_KEY", ""),
		CloudinarySecret: readEnv("CLOUDINARY_API_SECRET", ""),

		ArchiveEndpoint:  readEnv("TRAINDESK_ARCHIVE_ENDPOINT", "localhost:9000"),
		ArchiveAccessKey: readEnv("TRAINDESK_ARCHIVE_ACCESS_KEY", ""),
		ArchiveSecretKey: readEnv("TRAINDESK_ARCHIVE_SECRET_KEY", ""),
		ArchiveBucket:    readEnv("TRAINDESK_ARCHIVE_BUCKET", "traindesk-archive"),
		ArchiveRegion:    readEnv("TRAINDESK_ARCHIVE_REGION", "us-east-1"),
		ArchiveUseSSL:    parseBool("TRAINDESK_ARCHIVE_SSL", false),
		ArchiveURLTTL:    parseDuration("TRAINDESK_ARCHIVE_URL_TTL", defaultArchiveTTL),

		AuthSecret: []byte(readEnv("TRAINDESK_AUTH_SECRET", "")),
		TokenTTL:   parseDuration("TRAINDESK_TOKEN_TTL", defaultTokenTTL),

		MaxUploadBytes:  parseInt64("TRAINDESK_MAX_UPLOAD_BYTES", defaultMaxUpload),
		PreviewMaxBytes: parseInt64("TRAINDESK_PREVIEW_MAX_BYTES", defaultPreviewMax),
		PreviewTimeout:  parseDuration("TRAINDESK_PREVIEW_TIMEOUT", defaultPreviewTimeout),
	}
	if cfg.DatabaseURL == "" {
		return nil, errors.New("DATABASE_URL is not set")
	}
	if len(cfg.AuthSecret) == 0 {
		return nil, errors.New("TRAINDESK_AUTH_SECRET is not set")
	}
	if cfg.WorkerPool <= 0 {
		cfg.WorkerPool = defaultWorkerCount
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = defaultMaxUpload
	}
	return cfg, nil
}

func readEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func parseInt(key string, def int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}

func parseInt64(key string, def int64) int64 {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			return parsed
		}
	}
	return def
}

func parseBool(key string, def bool) bool {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			return parsed
		}
	}
	return def
}

func parseDuration(key string, def time.Duration) time.Duration {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			return parsed
		}
	}
	return def
}
