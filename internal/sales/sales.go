// Package sales distributes the purchasing power of settlement cells over
// competing retail markets.
//
// Attraction follows a Huff model with exponential distance decay. Markets of
// the same chain and tier compete for the same cells and are discounted by
// their rank at each cell. The calculation runs either on the status quo
// (nullfall) or on the scenario (planfall).
package sales

import (
	"fmt"
	"math"
	"sort"

	"github.com/competition-service/internal/domain"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Options tune the calculation.
type Options struct {
	// CutoffKm is the nearby distance for same chain competitors. Zero counts
	// only markets tied with the nearest one as nearby.
	CutoffKm float64
	// Parallelism bounds how many chain groups are ranked at once. Zero or
	// less means no bound.
	Parallelism int
}

// DefaultOptions returns the standard calculation options.
func DefaultOptions() Options {
	return Options{CutoffKm: DefaultCutoffKm}
}

// Sales computes flow matrices for one project. It copies its inputs and is
// safe for concurrent use.
type Sales struct {
	markets   []domain.Market
	cells     []domain.Cell
	relations []domain.Relation
	resolver  *ParameterResolver
	opts      Options
	logger    *zap.Logger
}

// New prepares a calculation over the project and base data.
func New(project domain.Project, base domain.BaseData, opts Options, logger *zap.Logger) *Sales {
	if logger == nil {
		logger = zap.NewNop()
	}

	markets := append([]domain.Market(nil), project.Markets...)
	sort.SliceStable(markets, func(a, b int) bool { return markets[a].ID < markets[b].ID })
	cells := append([]domain.Cell(nil), project.Cells...)
	sort.SliceStable(cells, func(a, b int) bool { return cells[a].ID < cells[b].ID })

	return &Sales{
		markets:   markets,
		cells:     cells,
		relations: append([]domain.Relation(nil), project.Relations...),
		resolver:  NewParameterResolver(base),
		opts:      opts,
		logger:    logger,
	}
}

// CalculateNullfall distributes purchasing power in the status quo. Cells of
// planned sub areas do not exist yet and are left out.
func (s *Sales) CalculateNullfall() (*domain.FlowMatrix, error) {
	return s.calculate(domain.SettingNullfall)
}

// CalculatePlanfall distributes purchasing power in the scenario, including
// all cells.
func (s *Sales) CalculatePlanfall() (*domain.FlowMatrix, error) {
	return s.calculate(domain.SettingPlanfall)
}

// Calculate dispatches to the calculation of the given setting.
func (s *Sales) Calculate(setting domain.Setting) (*domain.FlowMatrix, error) {
	switch setting {
	case domain.SettingNullfall:
		return s.CalculateNullfall()
	case domain.SettingPlanfall:
		return s.CalculatePlanfall()
	}
	return nil, fmt.Errorf("%q: %w", setting, ErrUnknownSetting)
}

// CalculateBoth runs nullfall and planfall concurrently.
func (s *Sales) CalculateBoth() (nullfall, planfall *domain.FlowMatrix, err error) {
	var g errgroup.Group
	g.Go(func() error {
		var err error
		nullfall, err = s.CalculateNullfall()
		return err
	})
	g.Go(func() error {
		var err error
		planfall, err = s.CalculatePlanfall()
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return nullfall, planfall, nil
}

func (s *Sales) calculate(setting domain.Setting) (*domain.FlowMatrix, error) {
	if s.opts.CutoffKm < 0 || math.IsNaN(s.opts.CutoffKm) || math.IsInf(s.opts.CutoffKm, 0) {
		return nil, fmt.Errorf("%s: cutoff %v km: %w", setting, s.opts.CutoffKm, ErrInvalidCutoff)
	}
	markets, err := s.activeMarkets(setting)
	if err != nil {
		return nil, err
	}
	cells, err := s.activeCells(setting)
	if err != nil {
		return nil, err
	}

	marketIDs := make([]int64, len(markets))
	marketIdx := make(map[int64]int, len(markets))
	for i, m := range markets {
		marketIDs[i] = m.ID
		marketIdx[m.ID] = i
	}
	cellIDs := make([]int64, len(cells))
	cellIdx := make(map[int64]int, len(cells))
	purchasingPower := make([]float64, len(cells))
	for j, c := range cells {
		cellIDs[j] = c.ID
		cellIdx[c.ID] = j
		purchasingPower[j] = c.PurchasingPower
	}

	if len(markets) == 0 || len(cells) == 0 {
		s.logger.Debug("Nothing to allocate",
			zap.String("setting", string(setting)),
			zap.Int("markets", len(markets)),
			zap.Int("cells", len(cells)))
		return domain.NewFlowMatrix(setting, marketIDs, cellIDs, nil)
	}

	decay := make([]DecayParameters, len(markets))
	competitors := make([]competitor, len(markets))
	for i, m := range markets {
		bt := m.BusinessType(setting)
		params, err := s.resolver.Resolve(m, bt)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", setting, err)
		}
		decay[i] = params.Decay
		competitors[i] = competitor{
			row:      i,
			tier:     domain.TierOf(bt),
			chainID:  m.ChainID,
			discount: params.Discount,
		}
	}

	dist, err := NormalizeDistances(marketIdx, cellIdx, s.relations)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", setting, err)
	}

	attraction := attractionMatrix(dist, decay)
	discount, err := discountMatrix(dist, competitors, s.opts.CutoffKm, s.opts.Parallelism)
	if err != nil {
		return nil, fmt.Errorf("%s: rank competitors: %w", setting, err)
	}
	flows := allocate(attraction, discount, purchasingPower)

	s.logger.Debug("Flows allocated",
		zap.String("setting", string(setting)),
		zap.Int("markets", len(markets)),
		zap.Int("cells", len(cells)))

	return domain.NewFlowMatrix(setting, marketIDs, cellIDs, flows)
}

func (s *Sales) activeMarkets(setting domain.Setting) ([]domain.Market, error) {
	seen := make(map[int64]struct{}, len(s.markets))
	active := make([]domain.Market, 0, len(s.markets))
	for _, m := range s.markets {
		if _, dup := seen[m.ID]; dup {
			return nil, fmt.Errorf("market %d: %w", m.ID, ErrDuplicateID)
		}
		seen[m.ID] = struct{}{}
		if m.ExistsIn(setting) {
			active = append(active, m)
		}
	}
	return active, nil
}

func (s *Sales) activeCells(setting domain.Setting) ([]domain.Cell, error) {
	seen := make(map[int64]struct{}, len(s.cells))
	active := make([]domain.Cell, 0, len(s.cells))
	for _, c := range s.cells {
		if _, dup := seen[c.ID]; dup {
			return nil, fmt.Errorf("cell %d: %w", c.ID, ErrDuplicateID)
		}
		seen[c.ID] = struct{}{}
		if !c.ActiveIn(setting) {
			continue
		}
		if c.PurchasingPower < 0 || math.IsNaN(c.PurchasingPower) || math.IsInf(c.PurchasingPower, 0) {
			return nil, fmt.Errorf("cell %d (%v): %w", c.ID, c.PurchasingPower, ErrInvalidPurchasingPower)
		}
		active = append(active, c)
	}
	return active, nil
}
