package domain

import (
	"errors"
	"time"
)

var (
	// ErrProjectNotFound возвращается, если проекта нет в хранилище
	ErrProjectNotFound = errors.New("project not found")
	// ErrMarketNotFound возвращается, если рынка нет в проекте
	ErrMarketNotFound = errors.New("market not found")
)

type Point struct {
	Lat float64 `json:"lat" db:"lat"`
	Lon float64 `json:"lon" db:"lon"`
}

type BoundingBox struct {
	MinLat float64 `json:"min_lat" db:"min_lat"`
	MinLon float64 `json:"min_lon" db:"min_lon"`
	MaxLat float64 `json:"max_lat" db:"max_lat"`
	MaxLon float64 `json:"max_lon" db:"max_lon"`
}

// Extend расширяет рамку до точки
func (b BoundingBox) Extend(p Point) BoundingBox {
	if p.Lat < b.MinLat {
		b.MinLat = p.Lat
	}
	if p.Lat > b.MaxLat {
		b.MaxLat = p.Lat
	}
	if p.Lon < b.MinLon {
		b.MinLon = p.Lon
	}
	if p.Lon > b.MaxLon {
		b.MaxLon = p.Lon
	}
	return b
}

// ProjectStatistics представляет сводку по входным данным проекта
type ProjectStatistics struct {
	Markets     MarketStats   `json:"markets"`
	Cells       CellStats     `json:"cells"`
	Relations   RelationStats `json:"relations"`
	Extent      *BoundingBox  `json:"extent,omitempty"`
	LastUpdated time.Time     `json:"last_updated"`
}

// MarketStats статистика по рынкам
type MarketStats struct {
	Total          int            `json:"total"`
	Chains         int            `json:"chains"`
	ByTierNullfall map[string]int `json:"by_tier_nullfall"`
	ByTierPlanfall map[string]int `json:"by_tier_planfall"`
	Planned        int            `json:"planned"`
	Closing        int            `json:"closing"`
}

// CellStats статистика по ячейкам
type CellStats struct {
	Total                   int     `json:"total"`
	SubAreaCells            int     `json:"sub_area_cells"`
	PurchasingPowerNullfall float64 `json:"purchasing_power_nullfall"`
	PurchasingPowerPlanfall float64 `json:"purchasing_power_planfall"`
}

// RelationStats статистика по расстояниям
type RelationStats struct {
	Total       int     `json:"total"`
	Unreachable int     `json:"unreachable"`
	MaxRoadKm   float64 `json:"max_road_km"`
}

// String возвращает имя уровня для отчётов
func (t Tier) String() string {
	switch t {
	case TierLocalProvider:
		return "local_provider"
	case TierSmallMarket:
		return "small_market"
	case TierLargeMarket:
		return "large_market"
	}
	return "none"
}

// Statistics считает сводку по проекту
func (p Project) Statistics(now time.Time) ProjectStatistics {
	stats := ProjectStatistics{
		Markets: MarketStats{
			ByTierNullfall: make(map[string]int),
			ByTierPlanfall: make(map[string]int),
		},
		LastUpdated: now,
	}

	chains := make(map[int64]struct{})
	for _, m := range p.Markets {
		stats.Markets.Total++
		if m.ChainID != DefaultChainID {
			chains[m.ChainID] = struct{}{}
		}
		if m.ExistsIn(SettingNullfall) {
			stats.Markets.ByTierNullfall[TierOf(m.BusinessTypeNullfall).String()]++
		}
		if m.ExistsIn(SettingPlanfall) {
			stats.Markets.ByTierPlanfall[TierOf(m.BusinessTypePlanfall).String()]++
		}
		switch {
		case !m.ExistsIn(SettingNullfall) && m.ExistsIn(SettingPlanfall):
			stats.Markets.Planned++
		case m.ExistsIn(SettingNullfall) && !m.ExistsIn(SettingPlanfall):
			stats.Markets.Closing++
		}
	}
	stats.Markets.Chains = len(chains)

	for i, c := range p.Cells {
		stats.Cells.Total++
		if c.InSubArea() {
			stats.Cells.SubAreaCells++
		} else {
			stats.Cells.PurchasingPowerNullfall += c.PurchasingPower
		}
		stats.Cells.PurchasingPowerPlanfall += c.PurchasingPower

		pt := Point{Lat: c.Lat, Lon: c.Lon}
		if i == 0 {
			stats.Extent = &BoundingBox{MinLat: pt.Lat, MinLon: pt.Lon, MaxLat: pt.Lat, MaxLon: pt.Lon}
		} else {
			ext := stats.Extent.Extend(pt)
			stats.Extent = &ext
		}
	}

	for _, r := range p.Relations {
		stats.Relations.Total++
		if !r.Reachable() {
			stats.Relations.Unreachable++
			continue
		}
		if km := r.RoadDistance / 1000; km > stats.Relations.MaxRoadKm {
			stats.Relations.MaxRoadKm = km
		}
	}

	return stats
}
