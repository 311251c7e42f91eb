package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/competition-service/internal/domain"
	"github.com/competition-service/internal/domain/repository"
)

// StatsUseCase обрабатывает бизнес-логику для статистики проектов
type StatsUseCase struct {
	projectRepo repository.ProjectRepository
	cacheRepo   repository.CacheRepository
	ttl         time.Duration
	now         func() time.Time
	logger      *zap.Logger
}

// NewStatsUseCase создает новый экземпляр StatsUseCase
func NewStatsUseCase(
	projectRepo repository.ProjectRepository,
	cacheRepo repository.CacheRepository,
	ttl time.Duration,
	logger *zap.Logger,
) *StatsUseCase {
	return &StatsUseCase{
		projectRepo: projectRepo,
		cacheRepo:   cacheRepo,
		ttl:         ttl,
		now:         time.Now,
		logger:      logger,
	}
}

// GetStatistics возвращает статистику проекта, используя кеш когда возможно
func (uc *StatsUseCase) GetStatistics(ctx context.Context, projectID uuid.UUID) (*domain.ProjectStatistics, bool, error) {
	// 1. Проверяем кеш
	cached, err := uc.cacheRepo.GetStats(ctx, projectID)
	if err == nil && cached != nil {
		uc.logger.Debug("Statistics fetched from cache", zap.String("project_id", projectID.String()))
		return cached, true, nil
	}
	if err != nil {
		uc.logger.Warn("Failed to get stats from cache", zap.Error(err))
	}

	// 2. Считаем по входным данным
	project, err := uc.projectRepo.GetProject(ctx, projectID)
	if err != nil {
		return nil, false, toAppError(err)
	}
	stats := project.Statistics(uc.now().UTC())

	// 3. Кешируем
	if err := uc.cacheRepo.SetStats(ctx, projectID, &stats, uc.ttl); err != nil {
		uc.logger.Warn("Failed to cache stats", zap.Error(err))
	}

	return &stats, false, nil
}
