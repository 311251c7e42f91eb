package cache_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/competition-service/internal/config"
	"github.com/competition-service/internal/repository/cache"
)

func TestNewRedis_Unreachable(t *testing.T) {
	_, err := cache.NewRedis(&config.RedisConfig{Host: "127.0.0.1", Port: 1}, zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis flow cache at 127.0.0.1:1")
}

func TestNewRedisStreams_Unreachable(t *testing.T) {
	_, err := cache.NewRedisStreams(&config.RedisStreamsConfig{Host: "127.0.0.1", Port: 1}, 5*time.Second, zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis calculation streams at 127.0.0.1:1")
}
