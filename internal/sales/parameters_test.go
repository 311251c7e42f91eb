package sales

import (
	"testing"

	"github.com/competition-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParameterResolver_Decay(t *testing.T) {
	base := testBaseData(-0.5, 1)
	base.DecayCoefficients = append(base.DecayCoefficients, domain.DecayCoefficient{
		SizeClass: 1, ChainID: 42, BusinessType: 3, Exponent: -0.25, ScaleFactor: 2,
	})
	r := NewParameterResolver(base)

	t.Run("chain specific row", func(t *testing.T) {
		p, err := r.Decay(1, 42, 3)
		require.NoError(t, err)
		assert.Equal(t, DecayParameters{Exponent: -0.25, ScaleFactor: 2}, p)
	})

	t.Run("falls back to chain default", func(t *testing.T) {
		p, err := r.Decay(1, 42, 2)
		require.NoError(t, err)
		assert.Equal(t, DecayParameters{Exponent: -0.5, ScaleFactor: 1}, p)
	})

	t.Run("unknown size class has no default", func(t *testing.T) {
		_, err := r.Decay(5, 42, 2)
		assert.ErrorIs(t, err, ErrMissingCoefficient)
	})

	t.Run("negative scale factor in the chain default", func(t *testing.T) {
		broken := testBaseData(-0.5, -1)
		_, err := NewParameterResolver(broken).Decay(1, 42, 2)
		assert.ErrorIs(t, err, ErrInvalidCoefficient)
	})
}

func TestParameterResolver_Discount(t *testing.T) {
	base := testBaseData(-0.5, 1)
	own := testDiscount
	own.ChainID = 8
	own.BusinessType = 2
	own.OneNearby = 0.95
	base.DiscountCoefficients = append(base.DiscountCoefficients, own)
	r := NewParameterResolver(base)

	d, err := r.Discount(8, 2)
	require.NoError(t, err)
	assert.Equal(t, 0.95, d.OneNearby)

	d, err = r.Discount(8, 3)
	require.NoError(t, err)
	assert.Equal(t, testDiscount.OneNearby, d.OneNearby)

	_, err = r.Discount(8, 9)
	assert.ErrorIs(t, err, ErrMissingCoefficient)
}

func TestParameterResolver_Resolve(t *testing.T) {
	r := NewParameterResolver(testBaseData(-0.5, 1))

	p, err := r.Resolve(market(1, 0, 2, 3), 3)
	require.NoError(t, err)
	assert.Equal(t, 1, p.SizeClass)
	assert.Equal(t, 3, p.Discount.BusinessType)

	m := market(2, 0, 2, 2)
	m.MunicipalityCode = "09162000"
	_, err = r.Resolve(m, 2)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingSizeClass)
	assert.Contains(t, err.Error(), "market 2")
}
