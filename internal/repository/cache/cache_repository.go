package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/competition-service/internal/domain"
	"github.com/competition-service/internal/domain/repository"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type cacheRepository struct {
	client *redis.Client
	logger *zap.Logger
}

func NewCacheRepository(redis *Redis) repository.CacheRepository {
	return &cacheRepository{
		client: redis.Client(),
		logger: redis.logger,
	}
}

func (r *cacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := r.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil // Cache miss
	}
	if err != nil {
		r.logger.Error("Failed to get from cache", zap.String("key", key), zap.Error(err))
		return nil, fmt.Errorf("cache get error: %w", err)
	}

	r.logger.Debug("Cache hit", zap.String("key", key))
	return val, nil
}

func (r *cacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := r.client.Set(ctx, key, value, ttl).Err(); err != nil {
		r.logger.Error("Failed to set cache", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("cache set error: %w", err)
	}

	r.logger.Debug("Cache set", zap.String("key", key), zap.Duration("ttl", ttl))
	return nil
}

func (r *cacheRepository) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, key).Err(); err != nil {
		r.logger.Error("Failed to delete from cache", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("cache delete error: %w", err)
	}

	r.logger.Debug("Cache deleted", zap.String("key", key))
	return nil
}

func (r *cacheRepository) Exists(ctx context.Context, key string) (bool, error) {
	val, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		r.logger.Error("Failed to check cache existence", zap.String("key", key), zap.Error(err))
		return false, fmt.Errorf("cache exists error: %w", err)
	}

	return val > 0, nil
}

// GetFlows получает матрицу потоков варианта, nil при промахе
func (r *cacheRepository) GetFlows(ctx context.Context, projectID uuid.UUID, setting domain.Setting) (*domain.FlowMatrix, error) {
	data, err := r.Get(ctx, domain.FlowsCacheKey(projectID, setting))
	if err != nil || data == nil {
		return nil, err
	}

	var flows domain.FlowMatrix
	if err := json.Unmarshal(data, &flows); err != nil {
		r.logger.Error("Failed to unmarshal flows from cache",
			zap.String("project_id", projectID.String()),
			zap.String("setting", string(setting)),
			zap.Error(err))
		return nil, fmt.Errorf("unmarshal flows: %w", err)
	}
	return &flows, nil
}

// SetFlows сохраняет матрицу потоков под ключом ее варианта
func (r *cacheRepository) SetFlows(ctx context.Context, projectID uuid.UUID, flows *domain.FlowMatrix, ttl time.Duration) error {
	data, err := json.Marshal(flows)
	if err != nil {
		r.logger.Error("Failed to marshal flows", zap.Error(err))
		return fmt.Errorf("marshal flows: %w", err)
	}
	return r.Set(ctx, domain.FlowsCacheKey(projectID, flows.Setting), data, ttl)
}

// DeleteFlows удаляет матрицы обоих вариантов и статистику проекта
func (r *cacheRepository) DeleteFlows(ctx context.Context, projectID uuid.UUID) error {
	keys := make([]string, 0, len(domain.Settings)+1)
	for _, s := range domain.Settings {
		keys = append(keys, domain.FlowsCacheKey(projectID, s))
	}
	keys = append(keys, domain.StatsCacheKey(projectID))

	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		r.logger.Error("Failed to invalidate project cache",
			zap.String("project_id", projectID.String()),
			zap.Error(err))
		return fmt.Errorf("cache delete error: %w", err)
	}

	r.logger.Debug("Project cache invalidated", zap.String("project_id", projectID.String()))
	return nil
}

// GetStats получает статистику проекта из кеша
func (r *cacheRepository) GetStats(ctx context.Context, projectID uuid.UUID) (*domain.ProjectStatistics, error) {
	data, err := r.Get(ctx, domain.StatsCacheKey(projectID))
	if err != nil || data == nil {
		return nil, err
	}

	var stats domain.ProjectStatistics
	if err := json.Unmarshal(data, &stats); err != nil {
		r.logger.Error("Failed to unmarshal stats from cache", zap.Error(err))
		return nil, fmt.Errorf("unmarshal stats: %w", err)
	}

	return &stats, nil
}

// SetStats сохраняет статистику проекта в кеше
func (r *cacheRepository) SetStats(ctx context.Context, projectID uuid.UUID, stats *domain.ProjectStatistics, ttl time.Duration) error {
	data, err := json.Marshal(stats)
	if err != nil {
		r.logger.Error("Failed to marshal stats", zap.Error(err))
		return fmt.Errorf("marshal stats: %w", err)
	}

	return r.Set(ctx, domain.StatsCacheKey(projectID), data, ttl)
}
