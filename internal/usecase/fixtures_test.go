package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/competition-service/internal/domain"
	"github.com/competition-service/internal/repository/memory"
	"github.com/competition-service/internal/sales"
	"github.com/competition-service/internal/usecase"
)

// testProject: market 1 stays, market 2 stays, market 3 opens in the planfall.
// With a decay of e^(-d) the nullfall splits cell 10 as 731.06 / 268.94.
func testProject() *domain.Project {
	return &domain.Project{
		Markets: []domain.Market{
			{ID: 1, Name: "Nord", BusinessTypeNullfall: 2, BusinessTypePlanfall: 2, MunicipalityCode: "A"},
			{ID: 2, Name: "Süd", BusinessTypeNullfall: 2, BusinessTypePlanfall: 2, MunicipalityCode: "B"},
			{ID: 3, Name: "Neu", BusinessTypeNullfall: 0, BusinessTypePlanfall: 2, MunicipalityCode: "B"},
		},
		Cells: []domain.Cell{
			{ID: 10, PurchasingPower: 1000, SubAreaID: -1, MunicipalityCode: "A", Lon: 9.73, Lat: 52.37},
		},
		Relations: []domain.Relation{
			{MarketID: 1, CellID: 10, RoadDistance: 1000, BeelineDistance: 800},
			{MarketID: 2, CellID: 10, RoadDistance: 2000, BeelineDistance: 1500},
			{MarketID: 3, CellID: 10, RoadDistance: 1000, BeelineDistance: 900},
		},
	}
}

func testBaseData() *domain.BaseData {
	base := &domain.BaseData{
		SizeClasses: []domain.MunicipalitySizeClass{
			{MunicipalityCode: "A", SizeClass: 1},
			{MunicipalityCode: "B", SizeClass: 1},
		},
	}
	for bt := 1; bt <= 4; bt++ {
		base.DecayCoefficients = append(base.DecayCoefficients, domain.DecayCoefficient{
			SizeClass: 1, BusinessType: bt, Exponent: -1, ScaleFactor: 1,
		})
		base.DiscountCoefficients = append(base.DiscountCoefficients, domain.DiscountCoefficient{
			BusinessType: bt, OneNearby: 1, TwoNearby: 1, ThreeNearby: 1, SecondFar: 1, ThirdFarOneNear: 1, ThirdFarTwoNear: 1,
		})
	}
	return base
}

type testEnv struct {
	projectID   uuid.UUID
	projects    *memory.ProjectStore
	cache       *memory.CacheStore
	competition *usecase.CompetitionUseCase
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		projectID: uuid.New(),
		projects:  memory.NewProjectStore(),
		cache:     memory.NewCacheStore(),
	}
	require.NoError(t, env.projects.SaveProject(context.Background(), env.projectID, testProject()))
	env.competition = usecase.NewCompetitionUseCase(
		env.projects,
		memoryBase(),
		env.cache,
		nil,
		sales.DefaultOptions(),
		time.Hour,
		zap.NewNop(),
	)
	return env
}

func memoryBase() *memory.BaseDataStore {
	return memory.NewBaseDataStore(*testBaseData())
}
