package postgres

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/competition-service/internal/domain"
	"github.com/competition-service/internal/domain/repository"
	"github.com/competition-service/internal/pkg/errors"
)

// insertBatchSize держит число параметров запроса ниже лимита PostgreSQL
const insertBatchSize = 1000

type projectRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewProjectRepository создает новый экземпляр ProjectRepository
func NewProjectRepository(db *DB) repository.ProjectRepository {
	return &projectRepository{
		db:     db.DB,
		logger: db.logger,
	}
}

// GetProject возвращает рынки, ячейки и расстояния проекта
func (r *projectRepository) GetProject(ctx context.Context, projectID uuid.UUID) (*domain.Project, error) {
	if err := r.ensureProject(ctx, projectID); err != nil {
		return nil, err
	}

	project := &domain.Project{}

	err := r.db.SelectContext(ctx, &project.Markets, `
		SELECT id, name, chain_id, business_type_nullfall, business_type_planfall, municipality_code
		FROM markets
		WHERE project_id = $1
		ORDER BY id
	`, projectID)
	if err != nil {
		r.logger.Error("Failed to load markets", zap.String("project_id", projectID.String()), zap.Error(err))
		return nil, errors.ErrDatabaseError
	}

	err = r.db.SelectContext(ctx, &project.Cells, `
		SELECT id, purchasing_power, sub_area_id, municipality_code, lon, lat
		FROM cells
		WHERE project_id = $1
		ORDER BY id
	`, projectID)
	if err != nil {
		r.logger.Error("Failed to load cells", zap.String("project_id", projectID.String()), zap.Error(err))
		return nil, errors.ErrDatabaseError
	}

	err = r.db.SelectContext(ctx, &project.Relations, `
		SELECT market_id, cell_id, road_distance_m, beeline_distance_m
		FROM relations
		WHERE project_id = $1
		ORDER BY market_id, cell_id
	`, projectID)
	if err != nil {
		r.logger.Error("Failed to load relations", zap.String("project_id", projectID.String()), zap.Error(err))
		return nil, errors.ErrDatabaseError
	}

	r.logger.Debug("Project loaded",
		zap.String("project_id", projectID.String()),
		zap.Int("markets", len(project.Markets)),
		zap.Int("cells", len(project.Cells)),
		zap.Int("relations", len(project.Relations)))

	return project, nil
}

// GetMarket возвращает один рынок проекта
func (r *projectRepository) GetMarket(ctx context.Context, projectID uuid.UUID, marketID int64) (*domain.Market, error) {
	var m domain.Market
	err := r.db.GetContext(ctx, &m, `
		SELECT id, name, chain_id, business_type_nullfall, business_type_planfall, municipality_code
		FROM markets
		WHERE project_id = $1 AND id = $2
	`, projectID, marketID)
	if stderrors.Is(err, sql.ErrNoRows) {
		if err := r.ensureProject(ctx, projectID); err != nil {
			return nil, err
		}
		return nil, domain.ErrMarketNotFound
	}
	if err != nil {
		r.logger.Error("Failed to get market",
			zap.String("project_id", projectID.String()),
			zap.Int64("market_id", marketID),
			zap.Error(err))
		return nil, errors.ErrDatabaseError
	}
	return &m, nil
}

type marketRow struct {
	ProjectID uuid.UUID `db:"project_id"`
	domain.Market
}

type cellRow struct {
	ProjectID uuid.UUID `db:"project_id"`
	domain.Cell
}

type relationRow struct {
	ProjectID uuid.UUID `db:"project_id"`
	domain.Relation
}

// SaveProject заменяет все входные данные проекта в одной транзакции
func (r *projectRepository) SaveProject(ctx context.Context, projectID uuid.UUID, project *domain.Project) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		r.logger.Error("Failed to begin transaction", zap.Error(err))
		return errors.ErrDatabaseError
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO projects (id) VALUES ($1)
		ON CONFLICT (id) DO UPDATE SET updated_at = now()
	`, projectID); err != nil {
		return r.saveFailed(projectID, "upsert project", err)
	}

	for _, table := range []string{"relations", "cells", "markets"} {
		if _, err := tx.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE project_id = $1", table), projectID); err != nil {
			return r.saveFailed(projectID, "clear "+table, err)
		}
	}

	markets := make([]marketRow, len(project.Markets))
	for i, m := range project.Markets {
		markets[i] = marketRow{ProjectID: projectID, Market: m}
	}
	if err := insertBatches(ctx, tx, `
		INSERT INTO markets (project_id, id, name, chain_id, business_type_nullfall, business_type_planfall, municipality_code)
		VALUES (:project_id, :id, :name, :chain_id, :business_type_nullfall, :business_type_planfall, :municipality_code)
	`, markets); err != nil {
		return r.saveFailed(projectID, "insert markets", err)
	}

	cells := make([]cellRow, len(project.Cells))
	for i, c := range project.Cells {
		cells[i] = cellRow{ProjectID: projectID, Cell: c}
	}
	if err := insertBatches(ctx, tx, `
		INSERT INTO cells (project_id, id, purchasing_power, sub_area_id, municipality_code, lon, lat)
		VALUES (:project_id, :id, :purchasing_power, :sub_area_id, :municipality_code, :lon, :lat)
	`, cells); err != nil {
		return r.saveFailed(projectID, "insert cells", err)
	}

	relations := make([]relationRow, len(project.Relations))
	for i, rel := range project.Relations {
		relations[i] = relationRow{ProjectID: projectID, Relation: rel}
	}
	if err := insertBatches(ctx, tx, `
		INSERT INTO relations (project_id, market_id, cell_id, road_distance_m, beeline_distance_m)
		VALUES (:project_id, :market_id, :cell_id, :road_distance_m, :beeline_distance_m)
	`, relations); err != nil {
		return r.saveFailed(projectID, "insert relations", err)
	}

	if err := tx.Commit(); err != nil {
		return r.saveFailed(projectID, "commit", err)
	}

	r.logger.Info("Project saved",
		zap.String("project_id", projectID.String()),
		zap.Int("markets", len(markets)),
		zap.Int("cells", len(cells)),
		zap.Int("relations", len(relations)))
	return nil
}

func (r *projectRepository) ensureProject(ctx context.Context, projectID uuid.UUID) error {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM projects WHERE id = $1)`, projectID)
	if err != nil {
		r.logger.Error("Failed to check project", zap.String("project_id", projectID.String()), zap.Error(err))
		return errors.ErrDatabaseError
	}
	if !exists {
		return domain.ErrProjectNotFound
	}
	return nil
}

func (r *projectRepository) saveFailed(projectID uuid.UUID, step string, err error) error {
	r.logger.Error("Failed to save project",
		zap.String("project_id", projectID.String()),
		zap.String("step", step),
		zap.Error(err))
	return errors.ErrDatabaseError
}

// insertBatches выполняет именованный INSERT порциями по insertBatchSize строк
func insertBatches[T any](ctx context.Context, tx *sqlx.Tx, query string, rows []T) error {
	for start := 0; start < len(rows); start += insertBatchSize {
		end := start + insertBatchSize
		if end > len(rows) {
			end = len(rows)
		}
		if _, err := tx.NamedExecContext(ctx, query, rows[start:end]); err != nil {
			return err
		}
	}
	return nil
}
