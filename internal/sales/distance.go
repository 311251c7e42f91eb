package sales

import (
	"fmt"
	"math"

	"github.com/competition-service/internal/domain"
	"gonum.org/v1/gonum/mat"
)

// DistanceTable holds the routed distances between the active markets (rows)
// and the active cells (columns). Pairs without a relation are unreachable.
//
// Road distances of neighbouring markets are often identical because routes
// share the last network segments. Ranking therefore compares road distance
// first and beeline distance second, while attraction uses the plain road
// distance.
type DistanceTable struct {
	markets int
	cells   int
	road    *mat.Dense
	beeline *mat.Dense
}

// NormalizeDistances builds the distance table for the given index maps.
// Relations to markets or cells outside the maps are ignored.
func NormalizeDistances(marketIdx, cellIdx map[int64]int, relations []domain.Relation) (*DistanceTable, error) {
	t := &DistanceTable{markets: len(marketIdx), cells: len(cellIdx)}
	if t.markets == 0 || t.cells == 0 {
		return t, nil
	}

	t.road = mat.NewDense(t.markets, t.cells, nil)
	t.beeline = mat.NewDense(t.markets, t.cells, nil)
	seen := make([]bool, t.markets*t.cells)
	for i := 0; i < t.markets; i++ {
		for j := 0; j < t.cells; j++ {
			t.road.Set(i, j, domain.UnreachableDistance)
			t.beeline.Set(i, j, math.Inf(1))
		}
	}

	for _, rel := range relations {
		i, ok := marketIdx[rel.MarketID]
		if !ok {
			continue
		}
		j, ok := cellIdx[rel.CellID]
		if !ok {
			continue
		}
		if seen[i*t.cells+j] {
			return nil, fmt.Errorf("market %d cell %d: %w", rel.MarketID, rel.CellID, ErrDuplicateRelation)
		}
		seen[i*t.cells+j] = true

		if math.IsNaN(rel.RoadDistance) || math.IsInf(rel.RoadDistance, 0) ||
			math.IsNaN(rel.BeelineDistance) || math.IsInf(rel.BeelineDistance, 0) {
			return nil, fmt.Errorf("market %d cell %d: %w", rel.MarketID, rel.CellID, ErrInvalidDistance)
		}
		if !rel.Reachable() {
			continue
		}
		t.road.Set(i, j, rel.RoadDistance)
		t.beeline.Set(i, j, rel.BeelineDistance)
	}
	return t, nil
}

// Dims returns the number of markets and cells.
func (t *DistanceTable) Dims() (markets, cells int) {
	return t.markets, t.cells
}

// Reachable reports whether market i reaches cell j.
func (t *DistanceTable) Reachable(i, j int) bool {
	return t.road != nil && t.road.At(i, j) >= 0
}

// Kilometers returns the road distance in km, or UnreachableDistance.
func (t *DistanceTable) Kilometers(i, j int) float64 {
	if !t.Reachable(i, j) {
		return domain.UnreachableDistance
	}
	return t.road.At(i, j) / 1000
}

// Less orders markets a and b by proximity to cell j. Unreachable markets sort last.
func (t *DistanceTable) Less(a, b, j int) bool {
	ra, rb := t.Reachable(a, j), t.Reachable(b, j)
	if ra != rb {
		return ra
	}
	if !ra {
		return false
	}
	if da, db := t.road.At(a, j), t.road.At(b, j); da != db {
		return da < db
	}
	return t.beeline.At(a, j) < t.beeline.At(b, j)
}

// Tied reports whether neither market is closer to cell j than the other.
func (t *DistanceTable) Tied(a, b, j int) bool {
	return !t.Less(a, b, j) && !t.Less(b, a, j)
}
