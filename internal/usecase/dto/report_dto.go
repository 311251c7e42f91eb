package dto

import (
	"github.com/competition-service/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RevenueChange - изменение оборота рынка между вариантами
type RevenueChange struct {
	MarketID       int64               `json:"market_id"`
	Name           string              `json:"name"`
	ChainID        int64               `json:"chain_id"`
	Status         domain.MarketStatus `json:"status" swaggertype:"string" enums:"existing,planned,closing"`
	Nullfall       decimal.Decimal     `json:"nullfall" swaggertype:"string"`
	Planfall       decimal.Decimal     `json:"planfall" swaggertype:"string"`
	AbsoluteChange decimal.Decimal     `json:"absolute_change" swaggertype:"string"`
	// RelativeChangePct отсутствует для рынков без оборота в нулевом варианте
	RelativeChangePct *decimal.Decimal `json:"relative_change_pct,omitempty" swaggertype:"string"`
}

// RevenueReportResponse - отчёт по обороту
type RevenueReportResponse struct {
	ProjectID     uuid.UUID       `json:"project_id" swaggertype:"string" format:"uuid"`
	TotalNullfall decimal.Decimal `json:"total_nullfall" swaggertype:"string"`
	TotalPlanfall decimal.Decimal `json:"total_planfall" swaggertype:"string"`
	Markets       []RevenueChange `json:"markets"`
}

// Centrality - центральность муниципалитета
type Centrality struct {
	MunicipalityCode        string          `json:"municipality_code"`
	NullfallRevenue         decimal.Decimal `json:"nullfall_revenue" swaggertype:"string"`
	PlanfallRevenue         decimal.Decimal `json:"planfall_revenue" swaggertype:"string"`
	NullfallPurchasingPower decimal.Decimal `json:"nullfall_purchasing_power" swaggertype:"string"`
	PlanfallPurchasingPower decimal.Decimal `json:"planfall_purchasing_power" swaggertype:"string"`
	NullfallCentrality      decimal.Decimal `json:"nullfall_centrality" swaggertype:"string"`
	PlanfallCentrality      decimal.Decimal `json:"planfall_centrality" swaggertype:"string"`
}

// CentralityReportResponse - отчёт по центральности
type CentralityReportResponse struct {
	ProjectID      uuid.UUID    `json:"project_id" swaggertype:"string" format:"uuid"`
	Municipalities []Centrality `json:"municipalities"`
}
