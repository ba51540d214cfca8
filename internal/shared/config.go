package shared

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

const (
	BackendMongo  = "mongo"
	BackendMemory = "memory"
)

type Config struct {
	AppEnv      string
	LogLevel    string
	HTTPAddr    string
	MetricsAddr string

	StoreBackend string
	DatabaseURL  string
	DatabaseName string
	StoreTimeout time.Duration

	RedisAddr string
	RedisDB   int
	RedisPass string
	CacheTTL  time.Duration

	RequestTimeout time.Duration

	FeedURL string
	FeedKey string
	FeedRPS int
	Workers int
}

// Load reads the process environment, after merging in a .env file from the
// working directory when one exists. Variables already set win over the file.
func Load() Config {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Warn().Err(err).Msg(".env could not be loaded")
	}
	return fromEnv()
}

func fromEnv() Config {
	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
			log.Warn().Str("key", k).Str("value", v).Msg("not an integer, using default")
		}
		return def
	}
	seconds := func(k string, def int) time.Duration {
		return time.Duration(atoi(k, def)) * time.Second
	}

	c := Config{
		AppEnv:         env("APP_ENV", "prod"),
		LogLevel:       env("LOG_LEVEL", "info"),
		HTTPAddr:       env("HTTP_ADDR", ":"+env("PORT", "8000")),
		MetricsAddr:    env("METRICS_ADDR", ""),
		StoreBackend:   env("STORE_BACKEND", BackendMongo),
		DatabaseURL:    env("DATABASE_URL", ""),
		DatabaseName:   env("DATABASE_NAME", "estate"),
		StoreTimeout:   seconds("STORE_TIMEOUT_SECONDS", 5),
		RedisAddr:      env("REDIS_ADDR", ""),
		RedisPass:      env("REDIS_PASSWORD", ""),
		RedisDB:        atoi("REDIS_DB", 0),
		CacheTTL:       seconds("CACHE_TTL_SECONDS", 60),
		RequestTimeout: seconds("REQUEST_TIMEOUT_SECONDS", 15),
		FeedURL:        env("FEED_URL", ""),
		FeedKey:        env("FEED_API_KEY", ""),
		FeedRPS:        atoi("FEED_RPS", 5),
		Workers:        atoi("IMPORT_WORKERS", 4),
	}
	if c.StoreBackend != BackendMongo && c.StoreBackend != BackendMemory {
		log.Warn().Str("backend", c.StoreBackend).Msg("unknown STORE_BACKEND, using mongo")
		c.StoreBackend = BackendMongo
	}
	if c.Workers < 1 {
		c.Workers = 1
	}
	if c.FeedRPS < 1 {
		c.FeedRPS = 1
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
