package repository

import (
	"context"

	"github.com/competition-service/internal/domain"
	"github.com/google/uuid"
)

// FlowExport - одна выгрузка матрицы потоков
type FlowExport struct {
	RunID     uuid.UUID
	ProjectID uuid.UUID
	Flows     *domain.FlowMatrix
}

// FlowRepository сохраняет рассчитанные потоки для аналитики
type FlowRepository interface {
	// SaveFlows записывает ненулевые потоки и возвращает число строк
	SaveFlows(ctx context.Context, export FlowExport) (int, error)

	// MarketRevenues возвращает оборот рынков одного расчёта
	MarketRevenues(ctx context.Context, runID uuid.UUID, setting domain.Setting) (map[int64]float64, error)
}
