package config

import (
	"os"
	"strconv"
	"time"
)

const (
	defaultPort          = "8000"
	defaultGeminiModel   = "gemini-2.0-flash-lite"
	defaultGeminiTimeout = 60 * time.Second
	defaultEmbedModel    = "sentence-transformers/all-MiniLM-L6-v2"
	defaultEmbedCacheDir = "local_cache"
	defaultCacheTTL      = time.Hour
)

// Config is assembled once at startup from the environment and passed down to
// the components that need it. Optional integrations (cache, history, archive)
// stay disabled when their connection settings are empty.
type Config struct {
	Port string

	// APIHeader is the shared secret checked against the X-Api-Header request
	// header. Auth is disabled when empty.
	APIHeader string

	GeminiAPIKey  string
	GeminiModel   string
	GeminiTimeout time.Duration

	EmbedModel    string
	EmbedCacheDir string

	DatabaseURL    string
	ValkeyURL      string
	ValkeyPassword string
	CacheTTL       time.Duration

	S3 S3Config

	Debug   bool
	LogJSON bool
}

type S3Config struct {
	EndpointURL string
	Region      string
	AccessKey   string
	SecretKey   string
	Bucket      string
}

// FromEnv reads the full configuration from environment variables.
func FromEnv() *Config {
	return &Config{
		Port:           envOr("PORT", defaultPort),
		APIHeader:      os.Getenv("API_HEADER"),
		GeminiAPIKey:   os.Getenv("GEMINI_API_KEY"),
		GeminiModel:    envOr("GEMINI_MODEL", defaultGeminiModel),
		GeminiTimeout:  envDuration("GEMINI_TIMEOUT", defaultGeminiTimeout),
		EmbedModel:     envOr("EMBED_MODEL", defaultEmbedModel),
		EmbedCacheDir:  envOr("EMBED_CACHE_DIR", defaultEmbedCacheDir),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		ValkeyURL:      os.Getenv("VALKEY_URL"),
		ValkeyPassword: os.Getenv("VALKEY_PASSWORD"),
		CacheTTL:       envDuration("CACHE_TTL", defaultCacheTTL),
		S3: S3Config{
			EndpointURL: os.Getenv("S3_ENDPOINT_URL"),
			Region:      os.Getenv("S3_REGION"),
			AccessKey:   os.Getenv("S3_ACCESS_KEY"),
			SecretKey:   os.Getenv("S3_SECRET_KEY"),
			Bucket:      os.Getenv("S3_BUCKET_NAME"),
		},
		Debug:   envBool("DEBUG"),
		LogJSON: envBool("LOG_JSON"),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	return err == nil && v
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}

	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
