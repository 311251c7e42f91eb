package domain

import "fmt"

// Setting selects which market configuration a calculation runs on.
type Setting string

const (
	// SettingNullfall is the status quo.
	SettingNullfall Setting = "nullfall"
	// SettingPlanfall is the scenario under evaluation.
	SettingPlanfall Setting = "planfall"
)

// Settings lists every supported setting in calculation order.
var Settings = []Setting{SettingNullfall, SettingPlanfall}

// ParseSetting converts a raw value into a Setting.
func ParseSetting(s string) (Setting, error) {
	switch Setting(s) {
	case SettingNullfall, SettingPlanfall:
		return Setting(s), nil
	}
	return "", fmt.Errorf("unknown setting %q", s)
}

// Business types. Everything above BusinessTypeSmallMarket is a large market.
const (
	BusinessTypeClosed        = 0
	BusinessTypeLocalProvider = 1
	BusinessTypeSmallMarket   = 2
)

// Tier groups markets for competitor discounting.
type Tier int

const (
	TierNone Tier = iota
	TierLocalProvider
	TierSmallMarket
	TierLargeMarket
)

// TierOf maps a business type to its tier. A closed market has no tier.
func TierOf(businessType int) Tier {
	switch {
	case businessType <= BusinessTypeClosed:
		return TierNone
	case businessType == BusinessTypeLocalProvider:
		return TierLocalProvider
	case businessType == BusinessTypeSmallMarket:
		return TierSmallMarket
	default:
		return TierLargeMarket
	}
}

// Market is an existing or planned retail market.
type Market struct {
	ID                   int64  `json:"id" db:"id"`
	Name                 string `json:"name" db:"name"`
	ChainID              int64  `json:"chain_id" db:"chain_id"`
	BusinessTypeNullfall int    `json:"business_type_nullfall" db:"business_type_nullfall"`
	BusinessTypePlanfall int    `json:"business_type_planfall" db:"business_type_planfall"`
	MunicipalityCode     string `json:"municipality_code" db:"municipality_code"`
}

// BusinessType returns the business type that is active in the given setting.
func (m Market) BusinessType(s Setting) int {
	if s == SettingPlanfall {
		return m.BusinessTypePlanfall
	}
	return m.BusinessTypeNullfall
}

// ExistsIn reports whether the market is open in the given setting.
func (m Market) ExistsIn(s Setting) bool {
	return m.BusinessType(s) != BusinessTypeClosed
}

// Cell is a settlement cell carrying purchasing power.
type Cell struct {
	ID               int64   `json:"id" db:"id"`
	PurchasingPower  float64 `json:"purchasing_power" db:"purchasing_power"`
	SubAreaID        int64   `json:"sub_area_id" db:"sub_area_id"`
	MunicipalityCode string  `json:"municipality_code" db:"municipality_code"`
	Lon              float64 `json:"lon" db:"lon"`
	Lat              float64 `json:"lat" db:"lat"`
}

// InSubArea reports whether the cell belongs to a planned development area.
func (c Cell) InSubArea() bool {
	return c.SubAreaID >= 0
}

// ActiveIn reports whether the cell takes part in the given setting.
// Development cells only exist in the planfall.
func (c Cell) ActiveIn(s Setting) bool {
	return s == SettingPlanfall || !c.InSubArea()
}

// UnreachableDistance marks a market/cell pair the router could not connect.
const UnreachableDistance = -1

// Relation holds the routed and beeline distance between a market and a cell, in meters.
type Relation struct {
	MarketID        int64   `json:"market_id" db:"market_id"`
	CellID          int64   `json:"cell_id" db:"cell_id"`
	RoadDistance    float64 `json:"road_distance_m" db:"road_distance_m"`
	BeelineDistance float64 `json:"beeline_distance_m" db:"beeline_distance_m"`
}

// Reachable reports whether the router found a path.
func (r Relation) Reachable() bool {
	return r.RoadDistance >= 0
}
