package repository

import (
	"context"

	"github.com/competition-service/internal/domain"
	"github.com/google/uuid"
)

// ProjectRepository определяет методы для загрузки входных данных проекта
type ProjectRepository interface {
	// GetProject возвращает рынки, ячейки и расстояния проекта.
	// Возвращает domain.ErrProjectNotFound, если проекта нет.
	GetProject(ctx context.Context, projectID uuid.UUID) (*domain.Project, error)

	// GetMarket возвращает один рынок проекта
	GetMarket(ctx context.Context, projectID uuid.UUID, marketID int64) (*domain.Market, error)

	// SaveProject заменяет все входные данные проекта
	SaveProject(ctx context.Context, projectID uuid.UUID, project *domain.Project) error
}

// BaseDataRepository определяет методы для справочных коэффициентов
type BaseDataRepository interface {
	// GetBaseData возвращает классы размеров и таблицы коэффициентов
	GetBaseData(ctx context.Context) (*domain.BaseData, error)

	// SaveBaseData заменяет справочные таблицы
	SaveBaseData(ctx context.Context, base *domain.BaseData) error
}
