package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, k := range []string{
		"APP_ENV", "LISTEN_ADDR", "LOG_LEVEL", "CORS_ALLOWED_ORIGINS", "CURATED_STORE", "DATABASE_URL",
		"DB_MAX_CONNS", "MIGRATE_ON_START", "REDIS_URL", "VERDICT_CACHE_TTL",
		"OPENAI_API_KEY", "OPENAI_BASE_URL", "OPENAI_SEARCH_MODEL",
		"OPENAI_ANALYSIS_MODEL", "OPENAI_MAX_ATTEMPTS", "INTEL_TIMEOUT", "VERIFY_TIMEOUT",
	} {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_URL", "postgres://localhost/qrsafe")
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, StorePostgres, cfg.CuratedStore)
	assert.Equal(t, 10, cfg.DBMaxConns)
	assert.False(t, cfg.MigrateOnStart)
	assert.Equal(t, "gpt-4o", cfg.OpenAISearchModel)
	assert.Equal(t, "gpt-4o-mini", cfg.OpenAIAnalysisModel)
	assert.Equal(t, 3, cfg.OpenAIMaxAttempts)
	assert.Equal(t, 6*time.Hour, cfg.VerdictCacheTTL)
	assert.Equal(t, 90*time.Second, cfg.IntelTimeout)
	assert.Zero(t, cfg.VerifyTimeout)
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("CURATED_STORE", "Memory")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("MIGRATE_ON_START", "true")
	t.Setenv("DB_MAX_CONNS", "25")
	t.Setenv("INTEL_TIMEOUT", "45")
	t.Setenv("VERIFY_TIMEOUT", "2m")
	t.Setenv("VERDICT_CACHE_TTL", "not-a-duration")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://scan.example, ,https://app.example")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, StoreMemory, cfg.CuratedStore)
	assert.Equal(t, []string{"https://scan.example", "https://app.example"}, cfg.CORSAllowedOrigins)
	assert.True(t, cfg.MigrateOnStart)
	assert.Equal(t, 25, cfg.DBMaxConns)
	assert.Equal(t, 45*time.Second, cfg.IntelTimeout)
	assert.Equal(t, 2*time.Minute, cfg.VerifyTimeout)
	assert.Equal(t, 6*time.Hour, cfg.VerdictCacheTTL)
}

func TestLoadReportsMissingValues(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL not set")
	assert.Contains(t, err.Error(), "OPENAI_API_KEY not set")
	assert.Equal(t, "development", cfg.Env)
}

func TestLoadRejectsUnknownStore(t *testing.T) {
	clearEnv(t)
	t.Setenv("CURATED_STORE", "sqlite")
	t.Setenv("OPENAI_API_KEY", "sk-test")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CURATED_STORE")
}
