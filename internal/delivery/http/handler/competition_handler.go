package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/competition-service/internal/pkg/errors"
	"github.com/competition-service/internal/pkg/utils"
	"github.com/competition-service/internal/usecase"
	"github.com/competition-service/internal/usecase/dto"
)

// CompetitionHandler - обработчик запросов на расчёт конкуренции
type CompetitionHandler struct {
	competitionUC *usecase.CompetitionUseCase
	logger        *zap.Logger
}

// NewCompetitionHandler - создание нового CompetitionHandler
func NewCompetitionHandler(competitionUC *usecase.CompetitionUseCase, logger *zap.Logger) *CompetitionHandler {
	return &CompetitionHandler{
		competitionUC: competitionUC,
		logger:        logger,
	}
}

// Calculate godoc
// @Summary Расчёт оборота рынков
// @Description Распределяет покупательную силу ячеек по рынкам для нулевого или планового варианта. Результат кешируется до инвалидации.
// @Tags Competition
// @Accept json
// @Produce json
// @Param project_id path string true "ID проекта (UUID)"
// @Param setting path string true "Вариант" Enums(nullfall, planfall)
// @Param request body dto.CalculateRequest false "Параметры ответа"
// @Success 200 {object} utils.SuccessResponse{data=dto.CompetitionResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Failure 422 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Router /api/v1/projects/{project_id}/competition/{setting} [post]
func (h *CompetitionHandler) Calculate(c *fiber.Ctx) error {
	projectID, err := projectIDParam(c)
	if err != nil {
		return utils.SendError(c, err)
	}
	setting, err := settingValue(c.Params("setting"))
	if err != nil {
		return utils.SendError(c, err)
	}

	var req dto.CalculateRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return utils.SendError(c, errors.ErrInvalidRequest.WithDetails(map[string]interface{}{"body": err.Error()}))
		}
	}

	start := time.Now()
	resp, cached, err := h.competitionUC.Calculate(c.Context(), projectID, setting, req)
	if err != nil {
		h.logger.Debug("Calculation request failed",
			zap.String("project_id", projectID.String()),
			zap.String("setting", string(setting)),
			zap.Error(err))
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, resp, &utils.Meta{
		Total:    len(resp.Markets),
		Cached:   cached,
		TimeMSec: float64(time.Since(start).Microseconds()) / 1000,
	})
}

// Invalidate godoc
// @Summary Сброс кеша расчёта
// @Description Удаляет закешированные матрицы потоков и статистику проекта
// @Tags Competition
// @Produce json
// @Param project_id path string true "ID проекта (UUID)"
// @Success 204
// @Failure 400 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Router /api/v1/projects/{project_id}/competition/cache [delete]
func (h *CompetitionHandler) Invalidate(c *fiber.Ctx) error {
	projectID, err := projectIDParam(c)
	if err != nil {
		return utils.SendError(c, err)
	}

	if err := h.competitionUC.Invalidate(c.Context(), projectID); err != nil {
		return utils.SendError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
