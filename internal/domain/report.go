package domain

import "sort"

// MarketStatus описывает изменение рынка между вариантами
type MarketStatus string

const (
	MarketStatusExisting MarketStatus = "existing"
	MarketStatusPlanned  MarketStatus = "planned"
	MarketStatusClosing  MarketStatus = "closing"
)

// StatusOf классифицирует рынок по типам бизнеса в обоих вариантах
func StatusOf(m Market) MarketStatus {
	switch {
	case !m.ExistsIn(SettingNullfall):
		return MarketStatusPlanned
	case !m.ExistsIn(SettingPlanfall):
		return MarketStatusClosing
	}
	return MarketStatusExisting
}

// MarketRevenueChange - оборот рынка в нулевом и плановом варианте
type MarketRevenueChange struct {
	MarketID       int64        `json:"market_id"`
	Name           string       `json:"name"`
	ChainID        int64        `json:"chain_id"`
	Status         MarketStatus `json:"status"`
	Nullfall       float64      `json:"nullfall"`
	Planfall       float64      `json:"planfall"`
	AbsoluteChange float64      `json:"absolute_change"`
	// RelativeChange равен nil, если в нулевом варианте оборота нет
	RelativeChange *float64 `json:"relative_change,omitempty"`
}

// RevenueChanges сравнивает оборот каждого рынка, существующего хотя бы в одном варианте
func RevenueChanges(markets []Market, nullfall, planfall *FlowMatrix) []MarketRevenueChange {
	out := make([]MarketRevenueChange, 0, len(markets))
	for _, m := range markets {
		if !m.ExistsIn(SettingNullfall) && !m.ExistsIn(SettingPlanfall) {
			continue
		}
		c := MarketRevenueChange{
			MarketID: m.ID,
			Name:     m.Name,
			ChainID:  m.ChainID,
			Status:   StatusOf(m),
			Nullfall: nullfall.MarketRevenue(m.ID),
			Planfall: planfall.MarketRevenue(m.ID),
		}
		c.AbsoluteChange = c.Planfall - c.Nullfall
		if c.Nullfall > 0 {
			rel := c.AbsoluteChange / c.Nullfall
			c.RelativeChange = &rel
		}
		out = append(out, c)
	}
	sort.Slice(out, func(a, b int) bool { return out[a].MarketID < out[b].MarketID })
	return out
}

// MunicipalityCentrality - отношение оборота рынков муниципалитета к покупательной силе его жителей
type MunicipalityCentrality struct {
	MunicipalityCode        string  `json:"municipality_code"`
	NullfallRevenue         float64 `json:"nullfall_revenue"`
	PlanfallRevenue         float64 `json:"planfall_revenue"`
	NullfallPurchasingPower float64 `json:"nullfall_purchasing_power"`
	PlanfallPurchasingPower float64 `json:"planfall_purchasing_power"`
	NullfallCentrality      float64 `json:"nullfall_centrality"`
	PlanfallCentrality      float64 `json:"planfall_centrality"`
}

// Centralities считает центральность по муниципалитетам. Покупательная сила
// берётся только из ячеек, участвующих в соответствующем варианте.
func Centralities(markets []Market, cells []Cell, nullfall, planfall *FlowMatrix) []MunicipalityCentrality {
	byCode := make(map[string]*MunicipalityCentrality)
	get := func(code string) *MunicipalityCentrality {
		c, ok := byCode[code]
		if !ok {
			c = &MunicipalityCentrality{MunicipalityCode: code}
			byCode[code] = c
		}
		return c
	}

	for _, m := range markets {
		if _, ok := nullfall.MarketIndex(m.ID); ok {
			get(m.MunicipalityCode).NullfallRevenue += nullfall.MarketRevenue(m.ID)
		}
		if _, ok := planfall.MarketIndex(m.ID); ok {
			get(m.MunicipalityCode).PlanfallRevenue += planfall.MarketRevenue(m.ID)
		}
	}
	for _, c := range cells {
		if _, ok := nullfall.CellIndex(c.ID); ok {
			get(c.MunicipalityCode).NullfallPurchasingPower += c.PurchasingPower
		}
		if _, ok := planfall.CellIndex(c.ID); ok {
			get(c.MunicipalityCode).PlanfallPurchasingPower += c.PurchasingPower
		}
	}

	out := make([]MunicipalityCentrality, 0, len(byCode))
	for _, c := range byCode {
		if c.NullfallPurchasingPower > 0 {
			c.NullfallCentrality = c.NullfallRevenue / c.NullfallPurchasingPower
		}
		if c.PlanfallPurchasingPower > 0 {
			c.PlanfallCentrality = c.PlanfallRevenue / c.PlanfallPurchasingPower
		}
		out = append(out, *c)
	}
	sort.Slice(out, func(a, b int) bool { return out[a].MunicipalityCode < out[b].MunicipalityCode })
	return out
}
