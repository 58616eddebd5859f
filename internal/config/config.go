package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

type Config struct {
	Env                string
	ListenAddr         string
	LogLevel           string
	CORSAllowedOrigins []string

	CuratedStore   string
	DatabaseURL    string
	DBMaxConns     int
	MigrateOnStart bool

	RedisURL        string
	VerdictCacheTTL time.Duration

	OpenAIAPIKey        string
	OpenAIBaseURL       string
	OpenAISearchModel   string
	OpenAIAnalysisModel string
	OpenAIMaxAttempts   int

	IntelTimeout  time.Duration
	VerifyTimeout time.Duration
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// Load reads the environment. The returned config is always usable for
// logging; err lists every missing or invalid value.
func Load() (Config, error) {
	cfg := Config{
		Env:                 getenv("APP_ENV", "development"),
		ListenAddr:          getenv("LISTEN_ADDR", ":8080"),
		LogLevel:            getenv("LOG_LEVEL", "info"),
		CORSAllowedOrigins:  getenvList("CORS_ALLOWED_ORIGINS", "*"),
		CuratedStore:        strings.ToLower(getenv("CURATED_STORE", StorePostgres)),
		DatabaseURL:         os.Getenv("DATABASE_URL"),
		DBMaxConns:          getenvInt("DB_MAX_CONNS", 10),
		MigrateOnStart:      getenvBool("MIGRATE_ON_START", false),
		RedisURL:            os.Getenv("REDIS_URL"),
		VerdictCacheTTL:     getenvDuration("VERDICT_CACHE_TTL", 6*time.Hour),
		OpenAIAPIKey:        os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL:       getenv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		OpenAISearchModel:   getenv("OPENAI_SEARCH_MODEL", "gpt-4o"),
		OpenAIAnalysisModel: getenv("OPENAI_ANALYSIS_MODEL", "gpt-4o-mini"),
		OpenAIMaxAttempts:   getenvInt("OPENAI_MAX_ATTEMPTS", 3),
		IntelTimeout:        getenvDuration("INTEL_TIMEOUT", 90*time.Second),
		VerifyTimeout:       getenvDuration("VERIFY_TIMEOUT", 0),
	}

	var errs []error
	switch cfg.CuratedStore {
	case StorePostgres:
		if cfg.DatabaseURL == "" {
			errs = append(errs, fmt.Errorf("DATABASE_URL not set"))
		}
	case StoreMemory:
	default:
		errs = append(errs, fmt.Errorf("CURATED_STORE must be %q or %q, got %q", StorePostgres, StoreMemory, cfg.CuratedStore))
	}
	if cfg.OpenAIAPIKey == "" {
		errs = append(errs, fmt.Errorf("OPENAI_API_KEY not set"))
	}
	return cfg, errors.Join(errs...)
}

// getenvList splits a comma-separated value, dropping empty items.
func getenvList(key, def string) []string {
	var out []string
	for _, item := range strings.Split(getenv(key, def), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if out, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return out
		}
	}
	return def
}

func getenvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if out, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			return out
		}
	}
	return def
}

// getenvDuration accepts Go durations ("30s") or plain seconds ("30").
func getenvDuration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second
	}
	return def
}
