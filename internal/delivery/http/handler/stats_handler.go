package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/competition-service/internal/pkg/utils"
	"github.com/competition-service/internal/usecase"
)

// StatsHandler обрабатывает запросы статистики проекта
type StatsHandler struct {
	statsUC *usecase.StatsUseCase
	logger  *zap.Logger
}

// NewStatsHandler создает новый экземпляр StatsHandler
func NewStatsHandler(statsUC *usecase.StatsUseCase, logger *zap.Logger) *StatsHandler {
	return &StatsHandler{
		statsUC: statsUC,
		logger:  logger,
	}
}

// GetStatistics godoc
// @Summary Статистика входных данных проекта
// @Description Число рынков по уровням, планируемые и закрываемые рынки, ячейки, покупательная сила, расстояния
// @Tags Statistics
// @Produce json
// @Param project_id path string true "ID проекта (UUID)"
// @Success 200 {object} utils.SuccessResponse{data=domain.ProjectStatistics}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Router /api/v1/projects/{project_id}/stats [get]
func (h *StatsHandler) GetStatistics(c *fiber.Ctx) error {
	projectID, err := projectIDParam(c)
	if err != nil {
		return utils.SendError(c, err)
	}

	stats, cached, err := h.statsUC.GetStatistics(c.Context(), projectID)
	if err != nil {
		h.logger.Error("Failed to get statistics", zap.String("project_id", projectID.String()), zap.Error(err))
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, stats, &utils.Meta{Cached: cached})
}
