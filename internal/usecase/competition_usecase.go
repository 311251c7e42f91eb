package usecase

import (
	"context"
	"slices"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/competition-service/internal/domain"
	"github.com/competition-service/internal/domain/repository"
	"github.com/competition-service/internal/sales"
	"github.com/competition-service/internal/usecase/dto"
)

// CompetitionUseCase считает и кеширует матрицы потоков проектов
type CompetitionUseCase struct {
	projectRepo repository.ProjectRepository
	baseRepo    repository.BaseDataRepository
	cacheRepo   repository.CacheRepository
	flowRepo    repository.FlowRepository
	opts        sales.Options
	flowsTTL    time.Duration
	logger      *zap.Logger
}

// NewCompetitionUseCase создает новый экземпляр CompetitionUseCase.
// flowRepo может быть nil, тогда выгрузка потоков отключена.
func NewCompetitionUseCase(
	projectRepo repository.ProjectRepository,
	baseRepo repository.BaseDataRepository,
	cacheRepo repository.CacheRepository,
	flowRepo repository.FlowRepository,
	opts sales.Options,
	flowsTTL time.Duration,
	logger *zap.Logger,
) *CompetitionUseCase {
	return &CompetitionUseCase{
		projectRepo: projectRepo,
		baseRepo:    baseRepo,
		cacheRepo:   cacheRepo,
		flowRepo:    flowRepo,
		opts:        opts,
		flowsTTL:    flowsTTL,
		logger:      logger,
	}
}

// RunResult - итог расчёта нескольких вариантов
type RunResult struct {
	// RunID равен uuid.Nil, если выгрузка выключена или не удалась
	RunID     uuid.UUID
	Flows     map[domain.Setting]*domain.FlowMatrix
	Summaries []domain.SettingSummary
}

// Calculate возвращает оборот рынков одного варианта
func (uc *CompetitionUseCase) Calculate(ctx context.Context, projectID uuid.UUID, setting domain.Setting, req dto.CalculateRequest) (*dto.CompetitionResponse, bool, error) {
	flows, project, err := uc.flowsFor(ctx, projectID, []domain.Setting{setting})
	if err != nil {
		return nil, false, err
	}

	cached := project == nil
	if cached {
		if project, err = uc.projectRepo.GetProject(ctx, projectID); err != nil {
			return nil, false, toAppError(err)
		}
	}

	resp := buildCompetitionResponse(projectID, project, flows[setting])
	if req.IncludeMatrix {
		resp.Matrix = flows[setting]
	}
	return resp, cached, nil
}

// Execute считает запрошенные варианты и выгружает потоки для аналитики
func (uc *CompetitionUseCase) Execute(ctx context.Context, projectID uuid.UUID, settings []domain.Setting) (*RunResult, error) {
	flows, _, err := uc.flowsFor(ctx, projectID, settings)
	if err != nil {
		return nil, err
	}

	result := &RunResult{Flows: flows}
	for _, s := range settings {
		result.Summaries = append(result.Summaries, domain.Summarize(flows[s]))
	}

	if uc.flowRepo == nil {
		return result, nil
	}

	runID := uuid.New()
	for _, s := range settings {
		if _, err := uc.flowRepo.SaveFlows(ctx, repository.FlowExport{RunID: runID, ProjectID: projectID, Flows: flows[s]}); err != nil {
			uc.logger.Warn("Flow export failed, run is not exported",
				zap.String("project_id", projectID.String()),
				zap.String("run_id", runID.String()),
				zap.String("setting", string(s)),
				zap.Error(err))
			return result, nil
		}
	}
	result.RunID = runID
	return result, nil
}

// Flows возвращает матрицы запрошенных вариантов из кеша или расчёта
func (uc *CompetitionUseCase) Flows(ctx context.Context, projectID uuid.UUID, settings ...domain.Setting) (map[domain.Setting]*domain.FlowMatrix, error) {
	flows, _, err := uc.flowsFor(ctx, projectID, settings)
	return flows, err
}

// Invalidate удаляет закешированные результаты проекта
func (uc *CompetitionUseCase) Invalidate(ctx context.Context, projectID uuid.UUID) error {
	if err := uc.cacheRepo.DeleteFlows(ctx, projectID); err != nil {
		uc.logger.Error("Failed to invalidate flows", zap.String("project_id", projectID.String()), zap.Error(err))
		return toAppError(err)
	}
	uc.logger.Info("Flows invalidated", zap.String("project_id", projectID.String()))
	return nil
}

// flowsFor возвращает матрицы и загруженный проект. Проект равен nil, если
// все варианты нашлись в кеше.
func (uc *CompetitionUseCase) flowsFor(ctx context.Context, projectID uuid.UUID, settings []domain.Setting) (map[domain.Setting]*domain.FlowMatrix, *domain.Project, error) {
	flows := make(map[domain.Setting]*domain.FlowMatrix, len(settings))
	var missing []domain.Setting

	// 1. Проверяем кеш
	for _, s := range settings {
		if _, err := domain.ParseSetting(string(s)); err != nil {
			return nil, nil, toAppError(sales.ErrUnknownSetting)
		}
		if _, seen := flows[s]; seen || slices.Contains(missing, s) {
			continue
		}
		cached, err := uc.cacheRepo.GetFlows(ctx, projectID, s)
		if err != nil {
			uc.logger.Warn("Failed to get flows from cache", zap.String("setting", string(s)), zap.Error(err))
		}
		if cached != nil {
			flows[s] = cached
			continue
		}
		missing = append(missing, s)
	}
	if len(missing) == 0 {
		uc.logger.Debug("Flows fetched from cache", zap.String("project_id", projectID.String()))
		return flows, nil, nil
	}

	// 2. Загружаем входные данные
	project, err := uc.projectRepo.GetProject(ctx, projectID)
	if err != nil {
		return nil, nil, toAppError(err)
	}
	base, err := uc.baseRepo.GetBaseData(ctx)
	if err != nil {
		return nil, nil, toAppError(err)
	}

	// 3. Считаем недостающие варианты
	start := time.Now()
	engine := sales.New(*project, *base, uc.opts, uc.logger)
	if len(missing) == 2 {
		nullfall, planfall, err := engine.CalculateBoth()
		if err != nil {
			return nil, nil, uc.calculationFailed(projectID, err)
		}
		flows[domain.SettingNullfall] = nullfall
		flows[domain.SettingPlanfall] = planfall
	} else {
		for _, s := range missing {
			m, err := engine.Calculate(s)
			if err != nil {
				return nil, nil, uc.calculationFailed(projectID, err)
			}
			flows[s] = m
		}
	}

	uc.logger.Info("Competition calculated",
		zap.String("project_id", projectID.String()),
		zap.Int("settings", len(missing)),
		zap.Int("markets", len(project.Markets)),
		zap.Int("cells", len(project.Cells)),
		zap.Duration("took", time.Since(start)))

	// 4. Кешируем, ошибки кеша не прерывают ответ
	for _, s := range missing {
		if err := uc.cacheRepo.SetFlows(ctx, projectID, flows[s], uc.flowsTTL); err != nil {
			uc.logger.Warn("Failed to cache flows", zap.String("setting", string(s)), zap.Error(err))
		}
	}

	return flows, project, nil
}

func (uc *CompetitionUseCase) calculationFailed(projectID uuid.UUID, err error) error {
	uc.logger.Error("Competition calculation failed",
		zap.String("project_id", projectID.String()),
		zap.Error(err))
	return toAppError(err)
}

func buildCompetitionResponse(projectID uuid.UUID, project *domain.Project, flows *domain.FlowMatrix) *dto.CompetitionResponse {
	markets, cells := flows.Dims()
	total := flows.Total()

	purchasingPower := 0.0
	for _, c := range project.Cells {
		if _, ok := flows.CellIndex(c.ID); ok {
			purchasingPower += c.PurchasingPower
		}
	}

	resp := &dto.CompetitionResponse{
		ProjectID:            projectID,
		Setting:              flows.Setting,
		TotalRevenue:         dto.Money(total),
		TotalPurchasingPower: dto.Money(purchasingPower),
		MarketCount:          markets,
		CellCount:            cells,
		Markets:              make([]dto.MarketRevenue, 0, markets),
	}

	for _, m := range project.Markets {
		if _, ok := flows.MarketIndex(m.ID); !ok {
			continue
		}
		revenue := flows.MarketRevenue(m.ID)
		share := 0.0
		if total > 0 {
			share = revenue / total
		}
		resp.Markets = append(resp.Markets, dto.MarketRevenue{
			MarketID:     m.ID,
			Name:         m.Name,
			ChainID:      m.ChainID,
			BusinessType: m.BusinessType(flows.Setting),
			Revenue:      dto.Money(revenue),
			Share:        dto.Ratio(share),
		})
	}
	sort.Slice(resp.Markets, func(a, b int) bool { return resp.Markets[a].MarketID < resp.Markets[b].MarketID })

	return resp
}
