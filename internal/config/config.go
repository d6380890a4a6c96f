package config

import (
	"os"
	"strconv"
)

type Config struct {
	Port            string
	MongoURI        string
	MongoDB         string
	JWTSecret       string
	GoogleClientID  string
	GoogleJWKSURL   string
	AIUpstreamURL   string
	AIAPIKey        string
	RedisAddr       string
	RateLimitPerMin int
	RabbitURL       string
	DDEnabled       bool
	Prod            bool
}

// Load reads the whole configuration once at startup. MongoURI has no
// default on purpose: running against an implicit local database hides
// misconfiguration, so main treats an empty value as fatal.
func Load() Config {
	return Config{
		Port:            getenv("APP_PORT", "4000"),
		MongoURI:        os.Getenv("MONGO_URI"),
		MongoDB:         getenv("MONGO_DB", "crm_db"),
		JWTSecret:       getenv("JWT_SECRET", "dev-secret-change-me"),
		GoogleClientID:  os.Getenv("GOOGLE_OAUTH_CLIENT_ID"),
		GoogleJWKSURL:   getenv("GOOGLE_JWKS_URL", "https://www.googleapis.com/oauth2/v3/certs"),
		AIUpstreamURL:   os.Getenv("AI_UPSTREAM_URL"),
		AIAPIKey:        os.Getenv("AI_API_KEY"),
		RedisAddr:       os.Getenv("REDIS_ADDR"),
		RateLimitPerMin: atoi(getenv("RATE_LIMIT_PER_MIN", "30")),
		RabbitURL:       os.Getenv("RABBIT_URL"),
		DDEnabled:       getenv("DD_ENABLED", "false") == "true",
		Prod:            getenv("APP_ENV", "dev") == "prod",
	}
}

func atoi(s string) int {
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return 0
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
