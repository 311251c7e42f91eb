package dto

import (
	"github.com/competition-service/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CalculateRequest - тело запроса на расчёт
type CalculateRequest struct {
	IncludeMatrix bool `json:"include_matrix"`
}

// MarketRevenue - оборот одного рынка
type MarketRevenue struct {
	MarketID     int64           `json:"market_id"`
	Name         string          `json:"name"`
	ChainID      int64           `json:"chain_id"`
	BusinessType int             `json:"business_type"`
	Revenue      decimal.Decimal `json:"revenue" swaggertype:"string" example:"731.06"`
	Share        decimal.Decimal `json:"share" swaggertype:"string" example:"0.7311"`
}

// CompetitionResponse - результат расчёта одного варианта
type CompetitionResponse struct {
	ProjectID            uuid.UUID          `json:"project_id" swaggertype:"string" format:"uuid"`
	Setting              domain.Setting     `json:"setting" swaggertype:"string" enums:"nullfall,planfall"`
	TotalRevenue         decimal.Decimal    `json:"total_revenue" swaggertype:"string"`
	TotalPurchasingPower decimal.Decimal    `json:"total_purchasing_power" swaggertype:"string"`
	MarketCount          int                `json:"market_count"`
	CellCount            int                `json:"cell_count"`
	Markets              []MarketRevenue    `json:"markets"`
	Matrix               *domain.FlowMatrix `json:"matrix,omitempty" swaggerignore:"true"`
}
