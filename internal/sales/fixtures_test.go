package sales

import (
	"testing"

	"github.com/competition-service/internal/domain"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testMunicipality = "03241001"

// testDiscount has distinct factors so that every rule branch is observable.
var testDiscount = domain.DiscountCoefficient{
	ChainID:         domain.DefaultChainID,
	OneNearby:       0.9,
	TwoNearby:       0.8,
	ThreeNearby:     0.7,
	SecondFar:       0.6,
	ThirdFarOneNear: 0.5,
	ThirdFarTwoNear: 0.4,
}

// testBaseData returns chain default rows for business types 1 to 4.
func testBaseData(exponent, scale float64) domain.BaseData {
	base := domain.BaseData{
		SizeClasses: []domain.MunicipalitySizeClass{{MunicipalityCode: testMunicipality, SizeClass: 1}},
	}
	for bt := 1; bt <= 4; bt++ {
		base.DecayCoefficients = append(base.DecayCoefficients, domain.DecayCoefficient{
			SizeClass:    1,
			ChainID:      domain.DefaultChainID,
			BusinessType: bt,
			Exponent:     exponent,
			ScaleFactor:  scale,
		})
		d := testDiscount
		d.BusinessType = bt
		base.DiscountCoefficients = append(base.DiscountCoefficients, d)
	}
	return base
}

func market(id, chainID int64, nullfall, planfall int) domain.Market {
	return domain.Market{
		ID:                   id,
		ChainID:              chainID,
		BusinessTypeNullfall: nullfall,
		BusinessTypePlanfall: planfall,
		MunicipalityCode:     testMunicipality,
	}
}

func cell(id int64, pp float64) domain.Cell {
	return domain.Cell{ID: id, PurchasingPower: pp, SubAreaID: -1, MunicipalityCode: testMunicipality}
}

func rel(marketID, cellID int64, roadM float64) domain.Relation {
	return domain.Relation{MarketID: marketID, CellID: cellID, RoadDistance: roadM, BeelineDistance: roadM * 0.7}
}

func newTestSales(t *testing.T, project domain.Project, base domain.BaseData) *Sales {
	t.Helper()
	return New(project, base, DefaultOptions(), zap.NewNop())
}

func planfallFlow(t *testing.T, s *Sales, marketID, cellID int64) float64 {
	t.Helper()
	flows, err := s.CalculatePlanfall()
	require.NoError(t, err)
	v, ok := flows.Flow(marketID, cellID)
	require.True(t, ok, "market %d cell %d not in matrix", marketID, cellID)
	return v
}

// distanceTableFor builds a table with one row per entry of roads and a
// single cell. Beeline distances default to the road distances.
func distanceTableFor(t *testing.T, roads []float64, beelines []float64) *DistanceTable {
	t.Helper()
	marketIdx := make(map[int64]int, len(roads))
	relations := make([]domain.Relation, 0, len(roads))
	for i, road := range roads {
		id := int64(i + 1)
		marketIdx[id] = i
		beeline := road
		if beelines != nil {
			beeline = beelines[i]
		}
		relations = append(relations, domain.Relation{MarketID: id, CellID: 1, RoadDistance: road, BeelineDistance: beeline})
	}
	dist, err := NormalizeDistances(marketIdx, map[int64]int{1: 0}, relations)
	require.NoError(t, err)
	return dist
}

func chainMembers(n int) []ChainMember {
	members := make([]ChainMember, n)
	for k := range members {
		members[k] = ChainMember{Row: k, Discount: testDiscount}
	}
	return members
}
