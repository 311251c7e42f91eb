package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/competition-service/internal/config"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// schemaTables должны существовать, иначе миграции не применены
var schemaTables = []string{
	"projects", "markets", "cells", "relations",
	"municipality_size_classes", "decay_coefficients", "discount_coefficients",
}

// DB хранит проекты и базовые коэффициенты расчёта конкуренции
type DB struct {
	*sqlx.DB
	logger *zap.Logger
}

func New(cfg *config.DatabaseConfig, logger *zap.Logger) (*DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s application_name=competition-service",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode,
	)

	db, err := sqlx.Connect("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to competition database %s@%s:%d: %w", cfg.DBName, cfg.Host, cfg.Port, err)
	}

	// Пул рассчитан на параллельную загрузку проектов воркерами
	db.SetMaxOpenConns(cfg.MaxConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	out := &DB{DB: db, logger: logger}
	if err := out.Health(ctx); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("Competition database connected",
		zap.String("host", cfg.Host),
		zap.Int("port", cfg.Port),
		zap.String("database", cfg.DBName),
		zap.Int("max_conns", cfg.MaxConns),
	)

	return out, nil
}

func (db *DB) Close() error {
	db.logger.Info("Closing PostgreSQL connection")
	return db.DB.Close()
}

// Health проверяет соединение и наличие таблиц схемы
func (db *DB) Health(ctx context.Context) error {
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}
	var missing []string
	for _, table := range schemaTables {
		var exists bool
		if err := db.GetContext(ctx, &exists, "SELECT to_regclass($1::text) IS NOT NULL", table); err != nil {
			return fmt.Errorf("check table %s: %w", table, err)
		}
		if !exists {
			missing = append(missing, table)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("schema incomplete, run migrations: missing %v", missing)
	}
	return nil
}

// NewDBForTest оборачивает готовое соединение, используется в тестах
func NewDBForTest(sqlxDB *sqlx.DB, logger *zap.Logger) *DB {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DB{
		DB:     sqlxDB,
		logger: logger,
	}
}
