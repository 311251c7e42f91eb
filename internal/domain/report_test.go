package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

var testTime = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func reportFixture(t *testing.T) ([]Market, []Cell, *FlowMatrix, *FlowMatrix) {
	t.Helper()
	markets := []Market{
		{ID: 1, Name: "A", BusinessTypeNullfall: 2, BusinessTypePlanfall: 2, MunicipalityCode: "001"},
		{ID: 2, Name: "B", BusinessTypeNullfall: 0, BusinessTypePlanfall: 3, MunicipalityCode: "002"},
		{ID: 3, Name: "C", BusinessTypeNullfall: 2, BusinessTypePlanfall: 0, MunicipalityCode: "001"},
		{ID: 4, Name: "never", MunicipalityCode: "001"},
	}
	cells := []Cell{
		{ID: 10, PurchasingPower: 100, SubAreaID: -1, MunicipalityCode: "001"},
		{ID: 11, PurchasingPower: 50, SubAreaID: 1, MunicipalityCode: "002"},
	}
	nullfall, err := NewFlowMatrix(SettingNullfall, []int64{1, 3}, []int64{10},
		mat.NewDense(2, 1, []float64{60, 40}))
	require.NoError(t, err)
	planfall, err := NewFlowMatrix(SettingPlanfall, []int64{1, 2}, []int64{10, 11},
		mat.NewDense(2, 2, []float64{
			70, 10,
			30, 40,
		}))
	require.NoError(t, err)
	return markets, cells, nullfall, planfall
}

func TestStatusOf(t *testing.T) {
	assert.Equal(t, MarketStatusExisting, StatusOf(Market{BusinessTypeNullfall: 1, BusinessTypePlanfall: 2}))
	assert.Equal(t, MarketStatusPlanned, StatusOf(Market{BusinessTypePlanfall: 2}))
	assert.Equal(t, MarketStatusClosing, StatusOf(Market{BusinessTypeNullfall: 2}))
}

func TestRevenueChanges(t *testing.T) {
	markets, _, nullfall, planfall := reportFixture(t)

	changes := RevenueChanges(markets, nullfall, planfall)

	require.Len(t, changes, 3, "market that never exists is skipped")

	assert.Equal(t, int64(1), changes[0].MarketID)
	assert.Equal(t, 60.0, changes[0].Nullfall)
	assert.Equal(t, 80.0, changes[0].Planfall)
	assert.Equal(t, 20.0, changes[0].AbsoluteChange)
	require.NotNil(t, changes[0].RelativeChange)
	assert.InDelta(t, 1.0/3, *changes[0].RelativeChange, 1e-12)

	assert.Equal(t, MarketStatusPlanned, changes[1].Status)
	assert.Nil(t, changes[1].RelativeChange)
	assert.Equal(t, 70.0, changes[1].Planfall)

	assert.Equal(t, MarketStatusClosing, changes[2].Status)
	assert.Equal(t, -40.0, changes[2].AbsoluteChange)
	assert.InDelta(t, -1.0, *changes[2].RelativeChange, 1e-12)
}

func TestCentralities(t *testing.T) {
	markets, cells, nullfall, planfall := reportFixture(t)

	got := Centralities(markets, cells, nullfall, planfall)

	require.Len(t, got, 2)
	assert.Equal(t, "001", got[0].MunicipalityCode)
	assert.Equal(t, 100.0, got[0].NullfallRevenue)
	assert.Equal(t, 100.0, got[0].NullfallPurchasingPower)
	assert.Equal(t, 1.0, got[0].NullfallCentrality)
	assert.Equal(t, 80.0, got[0].PlanfallRevenue)
	assert.Equal(t, 0.8, got[0].PlanfallCentrality)

	assert.Equal(t, "002", got[1].MunicipalityCode)
	assert.Equal(t, 0.0, got[1].NullfallPurchasingPower, "sub area cell is not part of the nullfall")
	assert.Equal(t, 0.0, got[1].NullfallCentrality)
	assert.Equal(t, 70.0, got[1].PlanfallRevenue)
	assert.Equal(t, 1.4, got[1].PlanfallCentrality)
}

func TestProjectStatistics(t *testing.T) {
	p := Project{
		Markets: []Market{
			{ID: 1, ChainID: 5, BusinessTypeNullfall: 1, BusinessTypePlanfall: 1},
			{ID: 2, ChainID: 5, BusinessTypePlanfall: 3},
			{ID: 3, BusinessTypeNullfall: 2},
		},
		Cells: []Cell{
			{ID: 1, PurchasingPower: 10, SubAreaID: -1, Lat: 48.1, Lon: 11.5},
			{ID: 2, PurchasingPower: 5, SubAreaID: 3, Lat: 48.3, Lon: 11.2},
		},
		Relations: []Relation{
			{MarketID: 1, CellID: 1, RoadDistance: 2500},
			{MarketID: 2, CellID: 1, RoadDistance: -1},
		},
	}

	stats := p.Statistics(testTime)

	assert.Equal(t, 3, stats.Markets.Total)
	assert.Equal(t, 1, stats.Markets.Chains)
	assert.Equal(t, 1, stats.Markets.Planned)
	assert.Equal(t, 1, stats.Markets.Closing)
	assert.Equal(t, map[string]int{"local_provider": 1, "small_market": 1}, stats.Markets.ByTierNullfall)
	assert.Equal(t, map[string]int{"local_provider": 1, "large_market": 1}, stats.Markets.ByTierPlanfall)
	assert.Equal(t, 1, stats.Cells.SubAreaCells)
	assert.Equal(t, 10.0, stats.Cells.PurchasingPowerNullfall)
	assert.Equal(t, 15.0, stats.Cells.PurchasingPowerPlanfall)
	assert.Equal(t, 1, stats.Relations.Unreachable)
	assert.Equal(t, 2.5, stats.Relations.MaxRoadKm)
	require.NotNil(t, stats.Extent)
	assert.Equal(t, BoundingBox{MinLat: 48.1, MinLon: 11.2, MaxLat: 48.3, MaxLon: 11.5}, *stats.Extent)
	assert.Equal(t, testTime, stats.LastUpdated)
}
