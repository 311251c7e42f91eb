package clickhouse

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/competition-service/internal/domain"
	"github.com/competition-service/internal/domain/repository"
	"github.com/competition-service/internal/pkg/errors"
)

type flowRepository struct {
	conn   *Conn
	logger *zap.Logger
}

// NewFlowRepository создает репозиторий выгрузки потоков
func NewFlowRepository(conn *Conn, logger *zap.Logger) repository.FlowRepository {
	return &flowRepository{conn: conn, logger: logger}
}

// SaveFlows записывает ненулевые элементы матрицы одним батчем
func (r *flowRepository) SaveFlows(ctx context.Context, export repository.FlowExport) (int, error) {
	flows := export.Flows
	if flows == nil || flows.IsEmpty() {
		return 0, nil
	}

	batch, err := r.conn.PrepareBatch(ctx, `
		INSERT INTO competition_flows (run_id, project_id, setting, market_id, cell_id, flow)
	`)
	if err != nil {
		r.logger.Error("Failed to prepare flow batch", zap.Error(err))
		return 0, errors.ErrDatabaseError
	}

	rows := 0
	for i, marketID := range flows.MarketIDs {
		for j, cellID := range flows.CellIDs {
			v := flows.At(i, j)
			if v == 0 {
				continue
			}
			if err := batch.Append(export.RunID, export.ProjectID, string(flows.Setting), marketID, cellID, v); err != nil {
				r.logger.Error("Failed to append flow", zap.Error(err))
				_ = batch.Abort()
				return 0, errors.ErrDatabaseError
			}
			rows++
		}
	}

	if rows == 0 {
		_ = batch.Abort()
		return 0, nil
	}

	if err := batch.Send(); err != nil {
		r.logger.Error("Failed to send flow batch",
			zap.String("run_id", export.RunID.String()),
			zap.Error(err))
		return 0, errors.ErrDatabaseError
	}

	r.logger.Info("Flows exported",
		zap.String("run_id", export.RunID.String()),
		zap.String("project_id", export.ProjectID.String()),
		zap.String("setting", string(flows.Setting)),
		zap.Int("rows", rows))

	return rows, nil
}

// MarketRevenues суммирует выгруженные потоки по рынкам
func (r *flowRepository) MarketRevenues(ctx context.Context, runID uuid.UUID, setting domain.Setting) (map[int64]float64, error) {
	rows, err := r.conn.Query(ctx, `
		SELECT market_id, sum(flow)
		FROM competition_flows
		WHERE run_id = ? AND setting = ?
		GROUP BY market_id
	`, runID, string(setting))
	if err != nil {
		r.logger.Error("Failed to query market revenues", zap.Error(err))
		return nil, errors.ErrDatabaseError
	}
	defer rows.Close()

	out := make(map[int64]float64)
	for rows.Next() {
		var (
			marketID int64
			revenue  float64
		)
		if err := rows.Scan(&marketID, &revenue); err != nil {
			r.logger.Error("Failed to scan market revenue", zap.Error(err))
			return nil, errors.ErrDatabaseError
		}
		out[marketID] = revenue
	}
	if err := rows.Err(); err != nil {
		r.logger.Error("Failed to read market revenues", zap.Error(err))
		return nil, errors.ErrDatabaseError
	}
	return out, nil
}
