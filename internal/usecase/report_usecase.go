package usecase

import (
	"context"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"go.uber.org/zap"

	"github.com/competition-service/internal/domain"
	"github.com/competition-service/internal/domain/repository"
	"github.com/competition-service/internal/pkg/errors"
	"github.com/competition-service/internal/pkg/utils"
	"github.com/competition-service/internal/usecase/dto"
)

// FlowProvider отдает матрицы потоков проекта
type FlowProvider interface {
	Flows(ctx context.Context, projectID uuid.UUID, settings ...domain.Setting) (map[domain.Setting]*domain.FlowMatrix, error)
}

// ReportUseCase строит отчёты по рассчитанным потокам
type ReportUseCase struct {
	projectRepo repository.ProjectRepository
	flows       FlowProvider
	logger      *zap.Logger
}

// NewReportUseCase создает новый экземпляр ReportUseCase
func NewReportUseCase(projectRepo repository.ProjectRepository, flows FlowProvider, logger *zap.Logger) *ReportUseCase {
	return &ReportUseCase{
		projectRepo: projectRepo,
		flows:       flows,
		logger:      logger,
	}
}

// RevenueReport сравнивает оборот рынков в нулевом и плановом варианте
func (uc *ReportUseCase) RevenueReport(ctx context.Context, projectID uuid.UUID) (*dto.RevenueReportResponse, error) {
	project, flows, err := uc.load(ctx, projectID, domain.Settings...)
	if err != nil {
		return nil, err
	}
	nullfall, planfall := flows[domain.SettingNullfall], flows[domain.SettingPlanfall]

	changes := domain.RevenueChanges(project.Markets, nullfall, planfall)
	resp := &dto.RevenueReportResponse{
		ProjectID:     projectID,
		TotalNullfall: dto.Money(nullfall.Total()),
		TotalPlanfall: dto.Money(planfall.Total()),
		Markets:       make([]dto.RevenueChange, 0, len(changes)),
	}
	for _, c := range changes {
		rc := dto.RevenueChange{
			MarketID:       c.MarketID,
			Name:           c.Name,
			ChainID:        c.ChainID,
			Status:         c.Status,
			Nullfall:       dto.Money(c.Nullfall),
			Planfall:       dto.Money(c.Planfall),
			AbsoluteChange: dto.Money(c.AbsoluteChange),
		}
		if c.RelativeChange != nil {
			pct := dto.Percent(*c.RelativeChange)
			rc.RelativeChangePct = &pct
		}
		resp.Markets = append(resp.Markets, rc)
	}
	return resp, nil
}

// CentralityReport считает центральность муниципалитетов в обоих вариантах
func (uc *ReportUseCase) CentralityReport(ctx context.Context, projectID uuid.UUID) (*dto.CentralityReportResponse, error) {
	project, flows, err := uc.load(ctx, projectID, domain.Settings...)
	if err != nil {
		return nil, err
	}

	rows := domain.Centralities(project.Markets, project.Cells, flows[domain.SettingNullfall], flows[domain.SettingPlanfall])
	resp := &dto.CentralityReportResponse{
		ProjectID:      projectID,
		Municipalities: make([]dto.Centrality, 0, len(rows)),
	}
	for _, r := range rows {
		resp.Municipalities = append(resp.Municipalities, dto.Centrality{
			MunicipalityCode:        r.MunicipalityCode,
			NullfallRevenue:         dto.Money(r.NullfallRevenue),
			PlanfallRevenue:         dto.Money(r.PlanfallRevenue),
			NullfallPurchasingPower: dto.Money(r.NullfallPurchasingPower),
			PlanfallPurchasingPower: dto.Money(r.PlanfallPurchasingPower),
			NullfallCentrality:      dto.Ratio(r.NullfallCentrality),
			PlanfallCentrality:      dto.Ratio(r.PlanfallCentrality),
		})
	}
	return resp, nil
}

// Catchment возвращает ячейки, из которых рынок получает оборот, как GeoJSON
func (uc *ReportUseCase) Catchment(ctx context.Context, projectID uuid.UUID, marketID int64, setting domain.Setting) (*geojson.FeatureCollection, error) {
	market, err := uc.projectRepo.GetMarket(ctx, projectID, marketID)
	if err != nil {
		return nil, toAppError(err)
	}
	if !market.ExistsIn(setting) {
		return nil, errors.ErrMarketNotFound.WithDetails(map[string]interface{}{
			"market_id": marketID,
			"setting":   string(setting),
		})
	}

	project, flows, err := uc.load(ctx, projectID, setting)
	if err != nil {
		return nil, err
	}
	m := flows[setting]
	row := m.Row(marketID)

	fc := geojson.NewFeatureCollection()
	var points orb.MultiPoint
	for _, c := range project.Cells {
		j, ok := m.CellIndex(c.ID)
		if !ok || row == nil || row[j] <= 0 {
			continue
		}
		pt := orb.Point{c.Lon, c.Lat}
		if !utils.ValidateCoordinates(pt) {
			uc.logger.Warn("Cell has invalid coordinates, skipped",
				zap.Int64("cell_id", c.ID),
				zap.Float64("lat", c.Lat),
				zap.Float64("lon", c.Lon))
			continue
		}

		f := geojson.NewFeature(pt)
		f.ID = c.ID
		f.Properties["cell_id"] = c.ID
		f.Properties["flow"] = dto.Money(row[j]).InexactFloat64()
		share := 0.0
		if c.PurchasingPower > 0 {
			share = row[j] / c.PurchasingPower
		}
		f.Properties["share"] = dto.Ratio(share).InexactFloat64()
		fc.Append(f)
		points = append(points, pt)
	}
	if len(points) > 0 {
		fc.BBox = geojson.NewBBox(points.Bound())
	}

	uc.logger.Debug("Catchment built",
		zap.String("project_id", projectID.String()),
		zap.Int64("market_id", marketID),
		zap.String("setting", string(setting)),
		zap.Int("cells", len(fc.Features)))

	return fc, nil
}

func (uc *ReportUseCase) load(ctx context.Context, projectID uuid.UUID, settings ...domain.Setting) (*domain.Project, map[domain.Setting]*domain.FlowMatrix, error) {
	project, err := uc.projectRepo.GetProject(ctx, projectID)
	if err != nil {
		return nil, nil, toAppError(err)
	}
	flows, err := uc.flows.Flows(ctx, projectID, settings...)
	if err != nil {
		return nil, nil, toAppError(err)
	}
	return project, flows, nil
}
