package shared

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv      string
	HTTPAddr    string
	MetricsAddr string

	APIBaseURL string
	APIRPS     int
	APITimeout time.Duration

	RedisAddr string
	RedisDB   int
	RedisPass string

	SessionCookie   string
	AdminCookie     string
	SessionTTL      time.Duration
	AdminSessionTTL time.Duration
	SecureCookies   bool

	UserCacheTTL   time.Duration
	ResolveWorkers int
}

func Load() Config {
	// .env is a dev convenience; absence is fine
	_ = godotenv.Load()

	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return def
	}
	c := Config{
		AppEnv:      env("APP_ENV", "prod"),
		HTTPAddr:    env("HTTP_ADDR", ":8080"),
		MetricsAddr: env("METRICS_ADDR", ""),

		APIBaseURL: env("HBNB_API_BASE_URL", "http://127.0.0.1:5001/api/v1"),
		APIRPS:     atoi("HBNB_API_RPS", 10),
		APITimeout: time.Duration(atoi("HBNB_API_TIMEOUT_SECONDS", 10)) * time.Second,

		RedisAddr: env("REDIS_ADDR", "localhost:6379"),
		RedisPass: env("REDIS_PASSWORD", ""),
		RedisDB:   atoi("REDIS_DB", 0),

		SessionCookie:   env("SESSION_COOKIE", "token"),
		AdminCookie:     env("ADMIN_COOKIE", "admin_token"),
		SessionTTL:      time.Duration(atoi("SESSION_TTL_DAYS", 7)) * 24 * time.Hour,
		AdminSessionTTL: time.Duration(atoi("ADMIN_SESSION_TTL_DAYS", 1)) * 24 * time.Hour,

		UserCacheTTL:   time.Duration(atoi("USER_CACHE_TTL_SECONDS", 900)) * time.Second,
		ResolveWorkers: atoi("RESOLVE_WORKERS", 4),
	}
	c.SecureCookies = c.AppEnv != "dev" && c.AppEnv != "development"
	if c.APIBaseURL == "" {
		log.Warn().Msg("HBNB_API_BASE_URL is empty")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
