package sales

import (
	"fmt"
	"math"

	"github.com/competition-service/internal/domain"
)

// DecayParameters describe how fast a market loses attraction with distance.
type DecayParameters struct {
	Exponent    float64
	ScaleFactor float64
}

// Parameters are the resolved coefficients of one market.
type Parameters struct {
	SizeClass int
	Decay     DecayParameters
	Discount  domain.DiscountCoefficient
}

type decayKey struct {
	sizeClass    int
	chainID      int64
	businessType int
}

type discountKey struct {
	chainID      int64
	businessType int
}

// ParameterResolver looks up market coefficients with a chain default fallback.
type ParameterResolver struct {
	sizeClasses map[string]int
	decay       map[decayKey]domain.DecayCoefficient
	discount    map[discountKey]domain.DiscountCoefficient
}

// NewParameterResolver indexes the base data tables. Later rows replace
// earlier rows with the same key.
func NewParameterResolver(base domain.BaseData) *ParameterResolver {
	r := &ParameterResolver{
		sizeClasses: make(map[string]int, len(base.SizeClasses)),
		decay:       make(map[decayKey]domain.DecayCoefficient, len(base.DecayCoefficients)),
		discount:    make(map[discountKey]domain.DiscountCoefficient, len(base.DiscountCoefficients)),
	}
	for _, sc := range base.SizeClasses {
		r.sizeClasses[sc.MunicipalityCode] = sc.SizeClass
	}
	for _, c := range base.DecayCoefficients {
		r.decay[decayKey{c.SizeClass, c.ChainID, c.BusinessType}] = c
	}
	for _, c := range base.DiscountCoefficients {
		r.discount[discountKey{c.ChainID, c.BusinessType}] = c
	}
	return r
}

// SizeClass returns the size class of a municipality.
func (r *ParameterResolver) SizeClass(municipalityCode string) (int, error) {
	sc, ok := r.sizeClasses[municipalityCode]
	if !ok {
		return 0, fmt.Errorf("municipality %q: %w", municipalityCode, ErrMissingSizeClass)
	}
	return sc, nil
}

// Decay returns the decay parameters for the chain, falling back to the chain
// default. Rows with a non-finite value or a negative scale factor are rejected.
func (r *ParameterResolver) Decay(sizeClass int, chainID int64, businessType int) (DecayParameters, error) {
	c, ok := r.decay[decayKey{sizeClass, chainID, businessType}]
	if !ok {
		c, ok = r.decay[decayKey{sizeClass, domain.DefaultChainID, businessType}]
	}
	if !ok {
		return DecayParameters{}, fmt.Errorf("decay size_class=%d chain=%d business_type=%d: %w",
			sizeClass, chainID, businessType, ErrMissingCoefficient)
	}
	if !isFinite(c.Exponent) || !isFinite(c.ScaleFactor) || c.ScaleFactor < 0 {
		return DecayParameters{}, fmt.Errorf("decay size_class=%d chain=%d business_type=%d exponent=%v scale_factor=%v: %w",
			c.SizeClass, c.ChainID, c.BusinessType, c.Exponent, c.ScaleFactor, ErrInvalidCoefficient)
	}
	return DecayParameters{Exponent: c.Exponent, ScaleFactor: c.ScaleFactor}, nil
}

// Discount returns the discount factors for the chain, falling back to the chain default.
func (r *ParameterResolver) Discount(chainID int64, businessType int) (domain.DiscountCoefficient, error) {
	c, ok := r.discount[discountKey{chainID, businessType}]
	if !ok {
		c, ok = r.discount[discountKey{domain.DefaultChainID, businessType}]
	}
	if !ok {
		return domain.DiscountCoefficient{}, fmt.Errorf("discount chain=%d business_type=%d: %w",
			chainID, businessType, ErrMissingCoefficient)
	}
	return c, nil
}

// Resolve returns all coefficients of a market for the given active business type.
func (r *ParameterResolver) Resolve(m domain.Market, businessType int) (Parameters, error) {
	sc, err := r.SizeClass(m.MunicipalityCode)
	if err != nil {
		return Parameters{}, fmt.Errorf("market %d: %w", m.ID, err)
	}
	decay, err := r.Decay(sc, m.ChainID, businessType)
	if err != nil {
		return Parameters{}, fmt.Errorf("market %d: %w", m.ID, err)
	}
	discount, err := r.Discount(m.ChainID, businessType)
	if err != nil {
		return Parameters{}, fmt.Errorf("market %d: %w", m.ID, err)
	}
	return Parameters{SizeClass: sc, Decay: decay, Discount: discount}, nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
