package dto

import "github.com/shopspring/decimal"

const (
	moneyPlaces = 2
	ratioPlaces = 4
)

// Money округляет сумму до центов
func Money(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(moneyPlaces)
}

// Ratio округляет долю до четырёх знаков
func Ratio(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(ratioPlaces)
}

// Percent переводит долю в проценты с двумя знаками
func Percent(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Mul(decimal.NewFromInt(100)).Round(moneyPlaces)
}
