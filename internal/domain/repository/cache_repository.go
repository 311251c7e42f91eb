package repository

import (
	"context"
	"time"

	"github.com/competition-service/internal/domain"
	"github.com/google/uuid"
)

// CacheRepository определяет методы для работы с кешем
type CacheRepository interface {
	// Get получает значение из кеша по ключу
	Get(ctx context.Context, key string) ([]byte, error)

	// Set сохраняет значение в кеше с TTL
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete удаляет значение из кеша
	Delete(ctx context.Context, key string) error

	// Exists проверяет существование ключа
	Exists(ctx context.Context, key string) (bool, error)

	// GetFlows получает матрицу потоков из кеша, nil при промахе
	GetFlows(ctx context.Context, projectID uuid.UUID, setting domain.Setting) (*domain.FlowMatrix, error)

	// SetFlows сохраняет матрицу потоков в кеше
	SetFlows(ctx context.Context, projectID uuid.UUID, flows *domain.FlowMatrix, ttl time.Duration) error

	// DeleteFlows удаляет матрицы всех вариантов проекта
	DeleteFlows(ctx context.Context, projectID uuid.UUID) error

	// GetStats получает статистику проекта из кеша
	GetStats(ctx context.Context, projectID uuid.UUID) (*domain.ProjectStatistics, error)

	// SetStats сохраняет статистику проекта в кеше
	SetStats(ctx context.Context, projectID uuid.UUID, stats *domain.ProjectStatistics, ttl time.Duration) error
}
