// Package config loads server configuration from the environment and the
// optional engine profile from YAML.
package config

import "os"

// Config holds server configuration.
type Config struct {
	Port     string
	LogLevel string

	// AuditDBPath is the SQLite file backing the durable audit sink.
	AuditDBPath string
	// AuditPostgresURL, when set, enables the Postgres audit sink as well.
	AuditPostgresURL string

	// ReasoningServiceURL is an OpenAI-compatible completions endpoint.
	ReasoningServiceURL string
	ReasoningAPIKey     string
	ReasoningModel      string

	// RedisAddr, when set, enables the explanation response cache.
	RedisAddr string

	// JWTSecret, when set, enables bearer-token identity extraction.
	JWTSecret string

	// ProfilePath points at the optional engine profile YAML.
	ProfilePath string

	// S3 audit archive settings; Bucket empty disables the archiver.
	S3Bucket   string
	S3Region   string
	S3Endpoint string

	OTLPEndpoint string
}

// Load loads configuration from environment variables.
func Load() *Config {
	cfg := &Config{
		Port:                getenv("PORT", "8080"),
		LogLevel:            getenv("LOG_LEVEL", "INFO"),
		AuditDBPath:         getenv("AUDIT_DB_PATH", "audit.db"),
		AuditPostgresURL:    os.Getenv("AUDIT_POSTGRES_URL"),
		ReasoningServiceURL: getenv("REASONING_SERVICE_URL", "http://localhost:1234/v1/chat/completions"),
		ReasoningAPIKey:     os.Getenv("REASONING_API_KEY"),
		ReasoningModel:      getenv("REASONING_MODEL", "gpt-4o-mini"),
		RedisAddr:           os.Getenv("REDIS_ADDR"),
		JWTSecret:           os.Getenv("JWT_SECRET"),
		ProfilePath:         os.Getenv("ENGINE_PROFILE_PATH"),
		S3Bucket:            os.Getenv("AUDIT_S3_BUCKET"),
		S3Region:            getenv("AUDIT_S3_REGION", "us-east-1"),
		S3Endpoint:          os.Getenv("AUDIT_S3_ENDPOINT"),
		OTLPEndpoint:        os.Getenv("OTLP_ENDPOINT"),
	}
	return cfg
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
