package postgres_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/competition-service/internal/domain"
	"github.com/competition-service/internal/domain/repository"
	"github.com/competition-service/internal/pkg/errors"
	"github.com/competition-service/internal/repository/postgres"
	"github.com/competition-service/internal/repository/postgres/testhelpers"
)

type ProjectRepositoryTestSuite struct {
	suite.Suite
	tdb      *testhelpers.TestDB
	projects repository.ProjectRepository
	base     repository.BaseDataRepository
	ctx      context.Context
}

func (s *ProjectRepositoryTestSuite) SetupSuite() {
	s.tdb = testhelpers.SetupTestDB(s.T())
	s.projects = s.tdb.NewProjectRepository()
	s.base = s.tdb.NewBaseDataRepository()
	s.ctx = context.Background()
}

func (s *ProjectRepositoryTestSuite) TearDownSuite() {
	if s.tdb != nil {
		s.tdb.Close()
	}
}

func (s *ProjectRepositoryTestSuite) SetupTest() {
	require.NoError(s.T(), s.tdb.Cleanup(s.ctx))
}

func TestProjectRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(ProjectRepositoryTestSuite))
}

func sampleProject() *domain.Project {
	return &domain.Project{
		Markets: []domain.Market{
			{ID: 2, Name: "Planned", ChainID: 5, BusinessTypeNullfall: 0, BusinessTypePlanfall: 3, MunicipalityCode: "03241001"},
			{ID: 1, Name: "Existing", ChainID: 5, BusinessTypeNullfall: 2, BusinessTypePlanfall: 2, MunicipalityCode: "03241001"},
		},
		Cells: []domain.Cell{
			{ID: 10, PurchasingPower: 1000, SubAreaID: -1, MunicipalityCode: "03241001", Lon: 9.73, Lat: 52.37},
			{ID: 11, PurchasingPower: 250.5, SubAreaID: 4, MunicipalityCode: "03241001", Lon: 9.74, Lat: 52.38},
		},
		Relations: []domain.Relation{
			{MarketID: 1, CellID: 10, RoadDistance: 1200, BeelineDistance: 900},
			{MarketID: 1, CellID: 11, RoadDistance: -1, BeelineDistance: 1500},
			{MarketID: 2, CellID: 10, RoadDistance: 800, BeelineDistance: 600},
			{MarketID: 2, CellID: 11, RoadDistance: 400, BeelineDistance: 300},
		},
	}
}

func (s *ProjectRepositoryTestSuite) TestSaveAndGetProject() {
	t := s.T()
	id := uuid.New()

	require.NoError(t, s.projects.SaveProject(s.ctx, id, sampleProject()))

	got, err := s.projects.GetProject(s.ctx, id)
	require.NoError(t, err)

	require.Len(t, got.Markets, 2)
	assert.Equal(t, int64(1), got.Markets[0].ID, "markets are ordered by id")
	assert.Equal(t, "Existing", got.Markets[0].Name)
	assert.Equal(t, 3, got.Markets[1].BusinessTypePlanfall)

	require.Len(t, got.Cells, 2)
	assert.Equal(t, int64(4), got.Cells[1].SubAreaID)
	assert.InDelta(t, 250.5, got.Cells[1].PurchasingPower, 1e-9)

	require.Len(t, got.Relations, 4)
	assert.False(t, got.Relations[1].Reachable())
}

func (s *ProjectRepositoryTestSuite) TestSaveProjectReplacesData() {
	t := s.T()
	id := uuid.New()
	require.NoError(t, s.projects.SaveProject(s.ctx, id, sampleProject()))

	smaller := sampleProject()
	smaller.Markets = smaller.Markets[1:]
	smaller.Relations = smaller.Relations[:2]
	require.NoError(t, s.projects.SaveProject(s.ctx, id, smaller))

	got, err := s.projects.GetProject(s.ctx, id)
	require.NoError(t, err)
	assert.Len(t, got.Markets, 1)
	assert.Len(t, got.Relations, 2)
}

func (s *ProjectRepositoryTestSuite) TestGetProjectNotFound() {
	_, err := s.projects.GetProject(s.ctx, uuid.New())
	assert.ErrorIs(s.T(), err, domain.ErrProjectNotFound)
}

func (s *ProjectRepositoryTestSuite) TestGetMarket() {
	t := s.T()
	id := uuid.New()
	require.NoError(t, s.projects.SaveProject(s.ctx, id, sampleProject()))

	m, err := s.projects.GetMarket(s.ctx, id, 2)
	require.NoError(t, err)
	assert.Equal(t, "Planned", m.Name)

	_, err = s.projects.GetMarket(s.ctx, id, 99)
	assert.ErrorIs(t, err, domain.ErrMarketNotFound)

	_, err = s.projects.GetMarket(s.ctx, uuid.New(), 1)
	assert.ErrorIs(t, err, domain.ErrProjectNotFound)
}

func (s *ProjectRepositoryTestSuite) TestSaveProjectRejectsNegativePurchasingPower() {
	p := sampleProject()
	p.Cells[0].PurchasingPower = -1

	err := s.projects.SaveProject(s.ctx, uuid.New(), p)
	assert.ErrorIs(s.T(), err, errors.ErrDatabaseError)
}

func (s *ProjectRepositoryTestSuite) TestBaseDataRoundTrip() {
	t := s.T()
	base := &domain.BaseData{
		SizeClasses: []domain.MunicipalitySizeClass{{MunicipalityCode: "03241001", SizeClass: 1}},
		DecayCoefficients: []domain.DecayCoefficient{
			{SizeClass: 1, ChainID: 0, BusinessType: 2, Exponent: -0.0012, ScaleFactor: 1.5},
		},
		DiscountCoefficients: []domain.DiscountCoefficient{
			{ChainID: 0, BusinessType: 2, OneNearby: 0.9, TwoNearby: 0.8, ThreeNearby: 0.7, SecondFar: 0.6, ThirdFarOneNear: 0.5, ThirdFarTwoNear: 0.4},
		},
	}

	require.NoError(t, s.base.SaveBaseData(s.ctx, base))

	got, err := s.base.GetBaseData(s.ctx)
	require.NoError(t, err)
	assert.Equal(t, base.SizeClasses, got.SizeClasses)
	assert.Equal(t, base.DecayCoefficients, got.DecayCoefficients)
	assert.Equal(t, base.DiscountCoefficients, got.DiscountCoefficients)
}

func (s *ProjectRepositoryTestSuite) TestHealthDetectsMissingSchema() {
	t := s.T()
	db := postgres.NewDBForTest(s.tdb.DB, nil)
	dir := testhelpers.MigrationsDir(t)

	require.NoError(t, db.Health(s.ctx))

	require.NoError(t, testhelpers.RollbackMigrations(s.tdb.DB.DB, dir))
	err := db.Health(s.ctx)
	require.NoError(t, testhelpers.ApplyMigrations(s.tdb.DB.DB, dir))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "discount_coefficients")
	assert.NoError(t, db.Health(s.ctx))
}
