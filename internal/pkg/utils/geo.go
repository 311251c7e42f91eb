package utils

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
)

// BeelineMeters возвращает расстояние по прямой в целых метрах,
// в тех же единицах, что и расстояния связей рынок-ячейка
func BeelineMeters(from, to orb.Point) float64 {
	return math.Round(geo.DistanceHaversine(from, to))
}

// ValidateCoordinates проверяет, что точка лежит в допустимых пределах
func ValidateCoordinates(p orb.Point) bool {
	return p.Lat() >= -90 && p.Lat() <= 90 && p.Lon() >= -180 && p.Lon() <= 180
}
