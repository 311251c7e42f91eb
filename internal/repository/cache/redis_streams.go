package cache

import (
	"fmt"
	"time"

	"github.com/competition-service/internal/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// NewRedisStreams создает отдельный клиент для стримов запросов расчёта.
// Таймаут чтения должен превышать блокировку XREADGROUP воркера.
func NewRedisStreams(cfg *config.RedisStreamsConfig, blockFor time.Duration, logger *zap.Logger) (*redis.Client, error) {
	readTimeout := 10 * time.Second
	if blockFor+time.Second > readTimeout {
		readTimeout = blockFor + time.Second
	}
	return dial(&redis.Options{
		Addr:        fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password:    cfg.Password,
		DB:          cfg.DB,
		ReadTimeout: readTimeout,
	}, "calculation streams", logger)
}
