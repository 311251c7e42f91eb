package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeEnv(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadFrom_Defaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.GetServerAddr())
	assert.Equal(t, "localhost:6379", cfg.GetRedisAddr())
	assert.Equal(t, time.Hour, cfg.Cache.FlowsCacheTTL)
	assert.Equal(t, "competition-workers", cfg.Worker.ConsumerGroup)
	assert.Equal(t, 5*time.Second, cfg.Worker.StreamReadTimeout)
	assert.Equal(t, 1.0, cfg.Competition.CutoffKm)
	assert.False(t, cfg.ClickHouse.Enabled)
	assert.Equal(t, cfg.Redis.Host, cfg.RedisStreams.Host)
	assert.Equal(t, cfg.Redis.Port, cfg.RedisStreams.Port)
	assert.Equal(t, time.Minute, cfg.Server.WriteTimeout)
	assert.Empty(t, cfg.Server.CORSOrigins)
}

func TestLoadFrom_File(t *testing.T) {
	path := writeEnv(t, `API_PORT=9090
DB_HOST=db.internal
DB_PORT=5433
REDIS_HOST=cache.internal
REDIS_STREAMS_HOST=streams.internal
REDIS_STREAMS_PORT=6380
FLOWS_CACHE_TTL=60
WORKER_ENABLED=true
CLICKHOUSE_ENABLED=true
COMPETITION_CUTOFF_KM=1.5
COMPETITION_PARALLELISM=4
API_CORS_ORIGINS=https://a.example, https://b.example,
`)

	cfg, err := LoadFrom(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Contains(t, cfg.GetDatabaseDSN(), "host=db.internal port=5433")
	assert.Equal(t, "streams.internal", cfg.RedisStreams.Host)
	assert.Equal(t, 6380, cfg.RedisStreams.Port)
	assert.Equal(t, time.Minute, cfg.Cache.FlowsCacheTTL)
	assert.True(t, cfg.Worker.Enabled)
	assert.True(t, cfg.ClickHouse.Enabled)
	assert.Equal(t, 1.5, cfg.Competition.CutoffKm)
	assert.Equal(t, 4, cfg.Competition.Parallelism)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.CORSOrigins)
}

func TestLoadFrom_EnvOverridesFile(t *testing.T) {
	path := writeEnv(t, "LOG_LEVEL=info\n")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := LoadFrom(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadFrom_InvalidCutoff(t *testing.T) {
	path := writeEnv(t, "COMPETITION_CUTOFF_KM=-0.5\n")

	_, err := LoadFrom(path)
	assert.Error(t, err)
}

func TestLoadFrom_ZeroCutoff(t *testing.T) {
	path := writeEnv(t, "COMPETITION_CUTOFF_KM=0\n")

	cfg, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, 0.0, cfg.Competition.CutoffKm)
}
