// Package sqlite хранит проекты в локальном файле для CLI и генератора данных.
package sqlite

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/competition-service/internal/domain"
	"github.com/competition-service/internal/domain/repository"
)

const insertBatchSize = 500

func init() {
	sqlx.BindDriver("sqlite", sqlx.QUESTION)
}

// Store - файл проекта SQLite
type Store struct {
	conn   *sqlx.DB
	logger *zap.Logger
}

var (
	_ repository.ProjectRepository  = (*Store)(nil)
	_ repository.BaseDataRepository = (*Store)(nil)
)

// Open открывает или создает файл и применяет схему
func Open(path string, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	conn, err := sqlx.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// one writer at a time
	conn.SetMaxOpenConns(1)

	s := &Store{conn: conn, logger: logger}
	if err := s.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// Close закрывает соединение
func (s *Store) Close() error {
	return s.conn.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS projects (
		id TEXT PRIMARY KEY,
		created_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS markets (
		project_id TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		id INTEGER NOT NULL,
		name TEXT NOT NULL,
		chain_id INTEGER NOT NULL,
		business_type_nullfall INTEGER NOT NULL,
		business_type_planfall INTEGER NOT NULL,
		municipality_code TEXT NOT NULL,
		PRIMARY KEY (project_id, id)
	);

	CREATE TABLE IF NOT EXISTS cells (
		project_id TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		id INTEGER NOT NULL,
		purchasing_power REAL NOT NULL,
		sub_area_id INTEGER NOT NULL,
		municipality_code TEXT NOT NULL,
		lon REAL NOT NULL,
		lat REAL NOT NULL,
		PRIMARY KEY (project_id, id)
	);

	CREATE TABLE IF NOT EXISTS relations (
		project_id TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		market_id INTEGER NOT NULL,
		cell_id INTEGER NOT NULL,
		road_distance_m REAL NOT NULL,
		beeline_distance_m REAL NOT NULL,
		PRIMARY KEY (project_id, market_id, cell_id)
	);

	CREATE TABLE IF NOT EXISTS municipality_size_classes (
		municipality_code TEXT PRIMARY KEY,
		size_class INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS decay_coefficients (
		size_class INTEGER NOT NULL,
		chain_id INTEGER NOT NULL,
		business_type INTEGER NOT NULL,
		exponent REAL NOT NULL,
		scale_factor REAL NOT NULL,
		PRIMARY KEY (size_class, chain_id, business_type)
	);

	CREATE TABLE IF NOT EXISTS discount_coefficients (
		chain_id INTEGER NOT NULL,
		business_type INTEGER NOT NULL,
		one_nearby_factor REAL NOT NULL,
		two_nearby_factor REAL NOT NULL,
		three_nearby_factor REAL NOT NULL,
		second_far_factor REAL NOT NULL,
		third_far_factor_1 REAL NOT NULL,
		third_far_factor_2 REAL NOT NULL,
		PRIMARY KEY (chain_id, business_type)
	);
	`
	_, err := s.conn.Exec(schema)
	return err
}

// ProjectIDs возвращает идентификаторы всех проектов файла
func (s *Store) ProjectIDs(ctx context.Context) ([]uuid.UUID, error) {
	var raw []string
	if err := s.conn.SelectContext(ctx, &raw, `SELECT id FROM projects ORDER BY created_at, id`); err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	ids := make([]uuid.UUID, 0, len(raw))
	for _, r := range raw {
		id, err := uuid.Parse(r)
		if err != nil {
			return nil, fmt.Errorf("project id %q: %w", r, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// GetProject загружает входные данные проекта
func (s *Store) GetProject(ctx context.Context, projectID uuid.UUID) (*domain.Project, error) {
	if err := s.ensureProject(ctx, projectID); err != nil {
		return nil, err
	}

	id := projectID.String()
	project := &domain.Project{}

	if err := s.conn.SelectContext(ctx, &project.Markets, `
		SELECT id, name, chain_id, business_type_nullfall, business_type_planfall, municipality_code
		FROM markets WHERE project_id = ? ORDER BY id`, id); err != nil {
		return nil, fmt.Errorf("load markets: %w", err)
	}
	if err := s.conn.SelectContext(ctx, &project.Cells, `
		SELECT id, purchasing_power, sub_area_id, municipality_code, lon, lat
		FROM cells WHERE project_id = ? ORDER BY id`, id); err != nil {
		return nil, fmt.Errorf("load cells: %w", err)
	}
	if err := s.conn.SelectContext(ctx, &project.Relations, `
		SELECT market_id, cell_id, road_distance_m, beeline_distance_m
		FROM relations WHERE project_id = ? ORDER BY market_id, cell_id`, id); err != nil {
		return nil, fmt.Errorf("load relations: %w", err)
	}

	return project, nil
}

// GetMarket загружает один рынок проекта
func (s *Store) GetMarket(ctx context.Context, projectID uuid.UUID, marketID int64) (*domain.Market, error) {
	var m domain.Market
	err := s.conn.GetContext(ctx, &m, `
		SELECT id, name, chain_id, business_type_nullfall, business_type_planfall, municipality_code
		FROM markets WHERE project_id = ? AND id = ?`, projectID.String(), marketID)
	if stderrors.Is(err, sql.ErrNoRows) {
		if err := s.ensureProject(ctx, projectID); err != nil {
			return nil, err
		}
		return nil, domain.ErrMarketNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get market: %w", err)
	}
	return &m, nil
}

type marketRow struct {
	ProjectID string `db:"project_id"`
	domain.Market
}

type cellRow struct {
	ProjectID string `db:"project_id"`
	domain.Cell
}

type relationRow struct {
	ProjectID string `db:"project_id"`
	domain.Relation
}

// SaveProject полностью заменяет данные проекта
func (s *Store) SaveProject(ctx context.Context, projectID uuid.UUID, project *domain.Project) error {
	id := projectID.String()

	tx, err := s.conn.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `INSERT OR IGNORE INTO projects (id) VALUES (?)`, id); err != nil {
		return fmt.Errorf("insert project: %w", err)
	}
	for _, table := range []string{"relations", "cells", "markets"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE project_id = ?", id); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	markets := make([]marketRow, len(project.Markets))
	for i, m := range project.Markets {
		markets[i] = marketRow{ProjectID: id, Market: m}
	}
	if err := insertBatches(ctx, tx, `INSERT INTO markets
		(project_id, id, name, chain_id, business_type_nullfall, business_type_planfall, municipality_code)
		VALUES (:project_id, :id, :name, :chain_id, :business_type_nullfall, :business_type_planfall, :municipality_code)`,
		markets); err != nil {
		return fmt.Errorf("insert markets: %w", err)
	}

	cells := make([]cellRow, len(project.Cells))
	for i, c := range project.Cells {
		cells[i] = cellRow{ProjectID: id, Cell: c}
	}
	if err := insertBatches(ctx, tx, `INSERT INTO cells
		(project_id, id, purchasing_power, sub_area_id, municipality_code, lon, lat)
		VALUES (:project_id, :id, :purchasing_power, :sub_area_id, :municipality_code, :lon, :lat)`,
		cells); err != nil {
		return fmt.Errorf("insert cells: %w", err)
	}

	relations := make([]relationRow, len(project.Relations))
	for i, r := range project.Relations {
		relations[i] = relationRow{ProjectID: id, Relation: r}
	}
	if err := insertBatches(ctx, tx, `INSERT INTO relations
		(project_id, market_id, cell_id, road_distance_m, beeline_distance_m)
		VALUES (:project_id, :market_id, :cell_id, :road_distance_m, :beeline_distance_m)`,
		relations); err != nil {
		return fmt.Errorf("insert relations: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	s.logger.Debug("Project written",
		zap.String("project_id", id),
		zap.Int("markets", len(markets)),
		zap.Int("cells", len(cells)),
		zap.Int("relations", len(relations)))
	return nil
}

// GetBaseData загружает справочные таблицы
func (s *Store) GetBaseData(ctx context.Context) (*domain.BaseData, error) {
	base := &domain.BaseData{}
	if err := s.conn.SelectContext(ctx, &base.SizeClasses, `
		SELECT municipality_code, size_class FROM municipality_size_classes ORDER BY municipality_code`); err != nil {
		return nil, fmt.Errorf("load size classes: %w", err)
	}
	if err := s.conn.SelectContext(ctx, &base.DecayCoefficients, `
		SELECT size_class, chain_id, business_type, exponent, scale_factor
		FROM decay_coefficients ORDER BY size_class, chain_id, business_type`); err != nil {
		return nil, fmt.Errorf("load decay coefficients: %w", err)
	}
	if err := s.conn.SelectContext(ctx, &base.DiscountCoefficients, `
		SELECT chain_id, business_type, one_nearby_factor, two_nearby_factor, three_nearby_factor,
			second_far_factor, third_far_factor_1, third_far_factor_2
		FROM discount_coefficients ORDER BY chain_id, business_type`); err != nil {
		return nil, fmt.Errorf("load discount coefficients: %w", err)
	}
	return base, nil
}

// SaveBaseData полностью заменяет справочные таблицы
func (s *Store) SaveBaseData(ctx context.Context, base *domain.BaseData) error {
	tx, err := s.conn.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, table := range []string{"municipality_size_classes", "decay_coefficients", "discount_coefficients"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	if err := insertBatches(ctx, tx, `INSERT INTO municipality_size_classes (municipality_code, size_class)
		VALUES (:municipality_code, :size_class)`, base.SizeClasses); err != nil {
		return fmt.Errorf("insert size classes: %w", err)
	}
	if err := insertBatches(ctx, tx, `INSERT INTO decay_coefficients
		(size_class, chain_id, business_type, exponent, scale_factor)
		VALUES (:size_class, :chain_id, :business_type, :exponent, :scale_factor)`, base.DecayCoefficients); err != nil {
		return fmt.Errorf("insert decay coefficients: %w", err)
	}
	if err := insertBatches(ctx, tx, `INSERT INTO discount_coefficients
		(chain_id, business_type, one_nearby_factor, two_nearby_factor, three_nearby_factor,
		 second_far_factor, third_far_factor_1, third_far_factor_2)
		VALUES (:chain_id, :business_type, :one_nearby_factor, :two_nearby_factor, :three_nearby_factor,
		 :second_far_factor, :third_far_factor_1, :third_far_factor_2)`, base.DiscountCoefficients); err != nil {
		return fmt.Errorf("insert discount coefficients: %w", err)
	}

	return tx.Commit()
}

func (s *Store) ensureProject(ctx context.Context, projectID uuid.UUID) error {
	var n int
	if err := s.conn.GetContext(ctx, &n, `SELECT COUNT(*) FROM projects WHERE id = ?`, projectID.String()); err != nil {
		return fmt.Errorf("check project: %w", err)
	}
	if n == 0 {
		return domain.ErrProjectNotFound
	}
	return nil
}

func insertBatches[T any](ctx context.Context, tx *sqlx.Tx, query string, rows []T) error {
	for start := 0; start < len(rows); start += insertBatchSize {
		end := min(start+insertBatchSize, len(rows))
		if _, err := tx.NamedExecContext(ctx, query, rows[start:end]); err != nil {
			return err
		}
	}
	return nil
}
