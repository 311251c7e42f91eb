package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/competition-service/internal/domain"
	"github.com/competition-service/internal/domain/repository"
	"github.com/competition-service/internal/pkg/errors"
)

type baseDataRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewBaseDataRepository создает новый экземпляр BaseDataRepository
func NewBaseDataRepository(db *DB) repository.BaseDataRepository {
	return &baseDataRepository{
		db:     db.DB,
		logger: db.logger,
	}
}

// GetBaseData возвращает классы размеров муниципалитетов и таблицы коэффициентов
func (r *baseDataRepository) GetBaseData(ctx context.Context) (*domain.BaseData, error) {
	base := &domain.BaseData{}

	if err := r.db.SelectContext(ctx, &base.SizeClasses, `
		SELECT municipality_code, size_class
		FROM municipality_size_classes
		ORDER BY municipality_code
	`); err != nil {
		r.logger.Error("Failed to load size classes", zap.Error(err))
		return nil, errors.ErrDatabaseError
	}

	if err := r.db.SelectContext(ctx, &base.DecayCoefficients, `
		SELECT size_class, chain_id, business_type, exponent, scale_factor
		FROM decay_coefficients
		ORDER BY size_class, chain_id, business_type
	`); err != nil {
		r.logger.Error("Failed to load decay coefficients", zap.Error(err))
		return nil, errors.ErrDatabaseError
	}

	if err := r.db.SelectContext(ctx, &base.DiscountCoefficients, `
		SELECT chain_id, business_type,
			one_nearby_factor, two_nearby_factor, three_nearby_factor,
			second_far_factor, third_far_factor_1, third_far_factor_2
		FROM discount_coefficients
		ORDER BY chain_id, business_type
	`); err != nil {
		r.logger.Error("Failed to load discount coefficients", zap.Error(err))
		return nil, errors.ErrDatabaseError
	}

	r.logger.Debug("Base data loaded",
		zap.Int("size_classes", len(base.SizeClasses)),
		zap.Int("decay_rows", len(base.DecayCoefficients)),
		zap.Int("discount_rows", len(base.DiscountCoefficients)))

	return base, nil
}

// SaveBaseData заменяет справочные таблицы в одной транзакции
func (r *baseDataRepository) SaveBaseData(ctx context.Context, base *domain.BaseData) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		r.logger.Error("Failed to begin transaction", zap.Error(err))
		return errors.ErrDatabaseError
	}
	defer tx.Rollback()

	for _, table := range []string{"municipality_size_classes", "decay_coefficients", "discount_coefficients"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			r.logger.Error("Failed to clear base table", zap.String("table", table), zap.Error(err))
			return errors.ErrDatabaseError
		}
	}

	if err := insertBatches(ctx, tx, `
		INSERT INTO municipality_size_classes (municipality_code, size_class)
		VALUES (:municipality_code, :size_class)
	`, base.SizeClasses); err != nil {
		r.logger.Error("Failed to insert size classes", zap.Error(err))
		return errors.ErrDatabaseError
	}

	if err := insertBatches(ctx, tx, `
		INSERT INTO decay_coefficients (size_class, chain_id, business_type, exponent, scale_factor)
		VALUES (:size_class, :chain_id, :business_type, :exponent, :scale_factor)
	`, base.DecayCoefficients); err != nil {
		r.logger.Error("Failed to insert decay coefficients", zap.Error(err))
		return errors.ErrDatabaseError
	}

	if err := insertBatches(ctx, tx, `
		INSERT INTO discount_coefficients (chain_id, business_type,
			one_nearby_factor, two_nearby_factor, three_nearby_factor,
			second_far_factor, third_far_factor_1, third_far_factor_2)
		VALUES (:chain_id, :business_type,
			:one_nearby_factor, :two_nearby_factor, :three_nearby_factor,
			:second_far_factor, :third_far_factor_1, :third_far_factor_2)
	`, base.DiscountCoefficients); err != nil {
		r.logger.Error("Failed to insert discount coefficients", zap.Error(err))
		return errors.ErrDatabaseError
	}

	if err := tx.Commit(); err != nil {
		r.logger.Error("Failed to commit base data", zap.Error(err))
		return errors.ErrDatabaseError
	}
	return nil
}
