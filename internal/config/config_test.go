package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_RequiresDatabaseAndSecret(t *testing.T) {
	t.Setenv("DB_DSN", "")
	t.Setenv("JWT_ACCESS_SECRET", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_DSN")

	t.Setenv("DB_DSN", "postgres://localhost/contracts")
	_, err = Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_ACCESS_SECRET")
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DB_DSN", "postgres://localhost/contracts")
	t.Setenv("JWT_ACCESS_SECRET", "secret")
	t.Setenv("APP_ENV", "")
	t.Setenv("HTTP_PORT", "")
	t.Setenv("TABLE_PAGE_SIZE", "")
	t.Setenv("TABLE_MAX_PAGE_SIZE", "")
	t.Setenv("CACHE_TTL", "")
	t.Setenv("API_RATE_LIMIT", "")
	t.Setenv("API_RATE_BURST", "")
	t.Setenv("REDIS_ADDR", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 7090, cfg.HTTP.Port)
	assert.Equal(t, 10, cfg.Table.PageSize)
	assert.Equal(t, 200, cfg.Table.MaxPageSize)
	assert.Equal(t, 30*time.Second, cfg.Table.CacheTTL)
	assert.Equal(t, []string{"*"}, cfg.HTTP.CORSOrigins)
	assert.Zero(t, cfg.HTTP.RateLimit)
	assert.Equal(t, 20, cfg.HTTP.RateBurst)
	assert.Empty(t, cfg.Redis.Addr)
}

func TestLoad_RateLimitAndRedis(t *testing.T) {
	t.Setenv("DB_DSN", "postgres://localhost/contracts")
	t.Setenv("JWT_ACCESS_SECRET", "secret")
	t.Setenv("API_RATE_LIMIT", "2.5")
	t.Setenv("API_RATE_BURST", "5")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("REDIS_DB", "3")

	cfg, err := Load()
	require.NoError(t, err)
	assert.InDelta(t, 2.5, cfg.HTTP.RateLimit, 1e-9)
	assert.Equal(t, 5, cfg.HTTP.RateBurst)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, 3, cfg.Redis.DB)
}

func TestLoad_PageSizeClampedToMax(t *testing.T) {
	t.Setenv("DB_DSN", "postgres://localhost/contracts")
	t.Setenv("JWT_ACCESS_SECRET", "secret")
	t.Setenv("TABLE_PAGE_SIZE", "500")
	t.Setenv("TABLE_MAX_PAGE_SIZE", "50")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 50, cfg.Table.PageSize)
}

func TestLoadClient(t *testing.T) {
	t.Setenv("API_BASE_URL", "")
	_, err := LoadClient(APIConfig{})
	require.Error(t, err)

	t.Setenv("API_BASE_URL", "http://localhost:7090/")
	t.Setenv("API_TIMEOUT", "3s")
	cfg, err := LoadClient(APIConfig{})
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:7090", cfg.API.BaseURL)
	assert.Equal(t, 3*time.Second, cfg.API.Timeout)

	cfg, err = LoadClient(APIConfig{BaseURL: "http://panel:8080/", Token: "abc"})
	require.NoError(t, err)
	assert.Equal(t, "http://panel:8080", cfg.API.BaseURL)
	assert.Equal(t, "abc", cfg.API.Token)
	assert.Equal(t, 3*time.Second, cfg.API.Timeout)
}

func TestParseList(t *testing.T) {
	assert.Nil(t, parseList("  "))
	assert.Equal(t, []string{"a", "b"}, parseList(" a, ,b ,"))
}

func TestLoadAuth(t *testing.T) {
	t.Setenv("JWT_ACCESS_SECRET", "")
	_, err := LoadAuth()
	require.Error(t, err)

	t.Setenv("JWT_ACCESS_SECRET", "s3cret")
	t.Setenv("DB_DSN", "")
	cfg, err := LoadAuth()
	require.NoError(t, err)
	assert.Equal(t, "s3cret", cfg.Auth.AccessSecret)
}
