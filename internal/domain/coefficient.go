package domain

// DefaultChainID is the chain-agnostic fallback key of the coefficient tables.
const DefaultChainID int64 = 0

// MunicipalitySizeClass assigns a municipality to a size class.
type MunicipalitySizeClass struct {
	MunicipalityCode string `json:"municipality_code" db:"municipality_code"`
	SizeClass        int    `json:"size_class" db:"size_class"`
}

// DecayCoefficient holds the distance decay parameters for a market kind.
type DecayCoefficient struct {
	SizeClass    int     `json:"size_class" db:"size_class"`
	ChainID      int64   `json:"chain_id" db:"chain_id"`
	BusinessType int     `json:"business_type" db:"business_type"`
	Exponent     float64 `json:"exponent" db:"exponent"`
	ScaleFactor  float64 `json:"scale_factor" db:"scale_factor"`
}

// DiscountCoefficient holds the competitor discount factors for a market kind.
type DiscountCoefficient struct {
	ChainID         int64   `json:"chain_id" db:"chain_id"`
	BusinessType    int     `json:"business_type" db:"business_type"`
	OneNearby       float64 `json:"one_nearby_factor" db:"one_nearby_factor"`
	TwoNearby       float64 `json:"two_nearby_factor" db:"two_nearby_factor"`
	ThreeNearby     float64 `json:"three_nearby_factor" db:"three_nearby_factor"`
	SecondFar       float64 `json:"second_far_factor" db:"second_far_factor"`
	ThirdFarOneNear float64 `json:"third_far_factor_1" db:"third_far_factor_1"`
	ThirdFarTwoNear float64 `json:"third_far_factor_2" db:"third_far_factor_2"`
}

// BaseData bundles the configured lookup tables.
type BaseData struct {
	SizeClasses          []MunicipalitySizeClass `json:"size_classes"`
	DecayCoefficients    []DecayCoefficient      `json:"decay_coefficients"`
	DiscountCoefficients []DiscountCoefficient   `json:"discount_coefficients"`
}

// Project bundles the scenario inputs of one project.
type Project struct {
	Markets   []Market   `json:"markets"`
	Cells     []Cell     `json:"cells"`
	Relations []Relation `json:"relations"`
}
