package usecase_test

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/competition-service/internal/domain"
	"github.com/competition-service/internal/domain/repository"
)

// MockProjectRepository is a mock of ProjectRepository
type MockProjectRepository struct {
	mock.Mock
}

func (m *MockProjectRepository) GetProject(ctx context.Context, projectID uuid.UUID) (*domain.Project, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Project), args.Error(1)
}

func (m *MockProjectRepository) GetMarket(ctx context.Context, projectID uuid.UUID, marketID int64) (*domain.Market, error) {
	args := m.Called(ctx, projectID, marketID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Market), args.Error(1)
}

func (m *MockProjectRepository) SaveProject(ctx context.Context, projectID uuid.UUID, project *domain.Project) error {
	args := m.Called(ctx, projectID, project)
	return args.Error(0)
}

// MockBaseDataRepository is a mock of BaseDataRepository
type MockBaseDataRepository struct {
	mock.Mock
}

func (m *MockBaseDataRepository) GetBaseData(ctx context.Context) (*domain.BaseData, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BaseData), args.Error(1)
}

func (m *MockBaseDataRepository) SaveBaseData(ctx context.Context, base *domain.BaseData) error {
	args := m.Called(ctx, base)
	return args.Error(0)
}

// MockCacheRepository is a mock of CacheRepository
type MockCacheRepository struct {
	mock.Mock
}

func (m *MockCacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockCacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *MockCacheRepository) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockCacheRepository) Exists(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func (m *MockCacheRepository) GetFlows(ctx context.Context, projectID uuid.UUID, setting domain.Setting) (*domain.FlowMatrix, error) {
	args := m.Called(ctx, projectID, setting)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FlowMatrix), args.Error(1)
}

func (m *MockCacheRepository) SetFlows(ctx context.Context, projectID uuid.UUID, flows *domain.FlowMatrix, ttl time.Duration) error {
	args := m.Called(ctx, projectID, flows, ttl)
	return args.Error(0)
}

func (m *MockCacheRepository) DeleteFlows(ctx context.Context, projectID uuid.UUID) error {
	args := m.Called(ctx, projectID)
	return args.Error(0)
}

func (m *MockCacheRepository) GetStats(ctx context.Context, projectID uuid.UUID) (*domain.ProjectStatistics, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProjectStatistics), args.Error(1)
}

func (m *MockCacheRepository) SetStats(ctx context.Context, projectID uuid.UUID, stats *domain.ProjectStatistics, ttl time.Duration) error {
	args := m.Called(ctx, projectID, stats, ttl)
	return args.Error(0)
}

// MockFlowRepository is a mock of FlowRepository
type MockFlowRepository struct {
	mock.Mock
}

func (m *MockFlowRepository) SaveFlows(ctx context.Context, export repository.FlowExport) (int, error) {
	args := m.Called(ctx, export)
	return args.Int(0), args.Error(1)
}

func (m *MockFlowRepository) MarketRevenues(ctx context.Context, runID uuid.UUID, setting domain.Setting) (map[int64]float64, error) {
	args := m.Called(ctx, runID, setting)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int64]float64), args.Error(1)
}
