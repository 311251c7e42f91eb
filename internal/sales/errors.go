package sales

import "errors"

// Configuration errors. Base data is incomplete and the calculation cannot continue.
var (
	ErrMissingSizeClass   = errors.New("municipality has no size class")
	ErrMissingCoefficient = errors.New("no coefficient row, not even the chain default")
	ErrInvalidCoefficient = errors.New("decay coefficients must be finite with scale factor >= 0")
	ErrInvalidCutoff      = errors.New("cutoff distance must be a finite value >= 0")
)

// Input data errors.
var (
	ErrInvalidPurchasingPower = errors.New("purchasing power must be a finite value >= 0")
	ErrInvalidDistance        = errors.New("distance must be a finite value")
	ErrDuplicateRelation      = errors.New("duplicate relation for market and cell")
	ErrDuplicateID            = errors.New("duplicate id")
	ErrUnknownSetting         = errors.New("unknown setting")
)

// IsConfigurationError reports whether err stems from incomplete or unusable
// base data or options.
func IsConfigurationError(err error) bool {
	return errors.Is(err, ErrMissingSizeClass) ||
		errors.Is(err, ErrMissingCoefficient) ||
		errors.Is(err, ErrInvalidCoefficient) ||
		errors.Is(err, ErrInvalidCutoff)
}

// IsInputError reports whether err stems from inconsistent project data.
func IsInputError(err error) bool {
	return errors.Is(err, ErrInvalidPurchasingPower) ||
		errors.Is(err, ErrInvalidDistance) ||
		errors.Is(err, ErrDuplicateRelation) ||
		errors.Is(err, ErrDuplicateID)
}
