package usecase

import (
	stderrors "errors"

	"github.com/competition-service/internal/domain"
	"github.com/competition-service/internal/pkg/errors"
	"github.com/competition-service/internal/sales"
)

// toAppError переводит ошибки хранилища и расчёта в ошибки API
func toAppError(err error) error {
	if err == nil {
		return nil
	}

	var appErr *errors.AppError
	switch {
	case stderrors.As(err, &appErr):
		return appErr
	case stderrors.Is(err, domain.ErrProjectNotFound):
		return errors.ErrProjectNotFound
	case stderrors.Is(err, domain.ErrMarketNotFound):
		return errors.ErrMarketNotFound
	case stderrors.Is(err, sales.ErrUnknownSetting):
		return errors.ErrInvalidSetting
	case sales.IsConfigurationError(err):
		return errors.ErrMissingCoefficient.WithDetails(map[string]interface{}{"reason": err.Error()})
	case sales.IsInputError(err):
		return errors.ErrInvalidInputData.WithDetails(map[string]interface{}{"reason": err.Error()})
	}
	return errors.ErrInternalServer
}
