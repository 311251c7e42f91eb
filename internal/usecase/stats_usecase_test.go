package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/competition-service/internal/domain"
	"github.com/competition-service/internal/pkg/errors"
	"github.com/competition-service/internal/usecase"
)

func TestStatsUseCase_GetStatistics(t *testing.T) {
	ctx := context.Background()
	projectID := uuid.New()

	t.Run("computes and caches on miss", func(t *testing.T) {
		projects := &MockProjectRepository{}
		cache := &MockCacheRepository{}
		cache.On("GetStats", ctx, projectID).Return(nil, nil).Once()
		projects.On("GetProject", ctx, projectID).Return(testProject(), nil).Once()
		cache.On("SetStats", ctx, projectID, mock.AnythingOfType("*domain.ProjectStatistics"), 30*time.Minute).Return(nil).Once()

		uc := usecase.NewStatsUseCase(projects, cache, 30*time.Minute, zap.NewNop())
		stats, cached, err := uc.GetStatistics(ctx, projectID)

		require.NoError(t, err)
		assert.False(t, cached)
		assert.Equal(t, 3, stats.Markets.Total)
		assert.Equal(t, 1, stats.Markets.Planned)
		assert.Equal(t, 3, stats.Relations.Total)
		projects.AssertExpectations(t)
		cache.AssertExpectations(t)
	})

	t.Run("returns cached statistics", func(t *testing.T) {
		projects := &MockProjectRepository{}
		cache := &MockCacheRepository{}
		cache.On("GetStats", ctx, projectID).Return(&domain.ProjectStatistics{Markets: domain.MarketStats{Total: 42}}, nil)

		uc := usecase.NewStatsUseCase(projects, cache, time.Minute, zap.NewNop())
		stats, cached, err := uc.GetStatistics(ctx, projectID)

		require.NoError(t, err)
		assert.True(t, cached)
		assert.Equal(t, 42, stats.Markets.Total)
		projects.AssertNotCalled(t, "GetProject", mock.Anything, mock.Anything)
	})

	t.Run("unknown project", func(t *testing.T) {
		projects := &MockProjectRepository{}
		cache := &MockCacheRepository{}
		cache.On("GetStats", ctx, projectID).Return(nil, nil)
		projects.On("GetProject", ctx, projectID).Return(nil, domain.ErrProjectNotFound)

		uc := usecase.NewStatsUseCase(projects, cache, time.Minute, zap.NewNop())
		_, _, err := uc.GetStatistics(ctx, projectID)

		assert.ErrorIs(t, err, errors.ErrProjectNotFound)
	})
}
