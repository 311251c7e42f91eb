package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/competition-service/internal/domain"
	"github.com/competition-service/internal/pkg/errors"
	"github.com/competition-service/internal/pkg/utils"
	"github.com/competition-service/internal/pkg/validator"
	"github.com/competition-service/internal/usecase"
)

// catchmentQuery - параметры запроса зоны охвата
type catchmentQuery struct {
	MarketID int64  `validate:"required,min=1"`
	Setting  string `validate:"required,oneof=nullfall planfall"`
}

// ReportHandler - обработчик отчётов
type ReportHandler struct {
	reportUC *usecase.ReportUseCase
	logger   *zap.Logger
}

// NewReportHandler - создание нового ReportHandler
func NewReportHandler(reportUC *usecase.ReportUseCase, logger *zap.Logger) *ReportHandler {
	return &ReportHandler{
		reportUC: reportUC,
		logger:   logger,
	}
}

// RevenueReport godoc
// @Summary Изменение оборота рынков
// @Description Сравнивает оборот каждого рынка в нулевом и плановом варианте
// @Tags Reports
// @Produce json
// @Param project_id path string true "ID проекта (UUID)"
// @Success 200 {object} utils.SuccessResponse{data=dto.RevenueReportResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Failure 422 {object} utils.ErrorResponse
// @Router /api/v1/projects/{project_id}/reports/revenue [get]
func (h *ReportHandler) RevenueReport(c *fiber.Ctx) error {
	projectID, err := projectIDParam(c)
	if err != nil {
		return utils.SendError(c, err)
	}

	report, err := h.reportUC.RevenueReport(c.Context(), projectID)
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, report, &utils.Meta{Total: len(report.Markets)})
}

// CentralityReport godoc
// @Summary Центральность муниципалитетов
// @Description Отношение оборота рынков муниципалитета к покупательной силе его ячеек в обоих вариантах
// @Tags Reports
// @Produce json
// @Param project_id path string true "ID проекта (UUID)"
// @Success 200 {object} utils.SuccessResponse{data=dto.CentralityReportResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Failure 422 {object} utils.ErrorResponse
// @Router /api/v1/projects/{project_id}/reports/centrality [get]
func (h *ReportHandler) CentralityReport(c *fiber.Ctx) error {
	projectID, err := projectIDParam(c)
	if err != nil {
		return utils.SendError(c, err)
	}

	report, err := h.reportUC.CentralityReport(c.Context(), projectID)
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, report, &utils.Meta{Total: len(report.Municipalities)})
}

// Catchment godoc
// @Summary Зона охвата рынка
// @Description Ячейки, из которых рынок получает оборот, как GeoJSON FeatureCollection
// @Tags Reports
// @Produce json
// @Param project_id path string true "ID проекта (UUID)"
// @Param market_id path int true "ID рынка"
// @Param setting query string false "Вариант" Enums(nullfall, planfall) default(planfall)
// @Success 200 {object} map[string]interface{} "GeoJSON FeatureCollection"
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/projects/{project_id}/markets/{market_id}/catchment [get]
func (h *ReportHandler) Catchment(c *fiber.Ctx) error {
	projectID, err := projectIDParam(c)
	if err != nil {
		return utils.SendError(c, err)
	}

	marketID, err := c.ParamsInt("market_id")
	if err != nil {
		return utils.SendError(c, errors.ErrInvalidMarketID)
	}
	q := catchmentQuery{
		MarketID: int64(marketID),
		Setting:  c.Query("setting", string(domain.SettingPlanfall)),
	}
	if err := validator.Validate(&q); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest.WithDetails(validator.Details(err)))
	}

	fc, err := h.reportUC.Catchment(c.Context(), projectID, q.MarketID, domain.Setting(q.Setting))
	if err != nil {
		return utils.SendError(c, err)
	}

	body, err := fc.MarshalJSON()
	if err != nil {
		h.logger.Error("Failed to encode catchment", zap.Error(err))
		return utils.SendError(c, errors.ErrInternalServer)
	}
	c.Set(fiber.HeaderContentType, "application/geo+json")
	return c.Send(body)
}
