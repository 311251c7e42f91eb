package sales

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Attraction is the Huff attractiveness of a market at the given distance.
// With a negative exponent it decays with distance.
func Attraction(distanceKm float64, p DecayParameters) float64 {
	return p.ScaleFactor * math.Exp(distanceKm*p.Exponent)
}

// attractionMatrix evaluates Attraction for every reachable pair and 0 elsewhere.
// params is indexed like the rows of dist.
func attractionMatrix(dist *DistanceTable, params []DecayParameters) *mat.Dense {
	markets, cells := dist.Dims()
	out := mat.NewDense(markets, cells, nil)
	for i := 0; i < markets; i++ {
		for j := 0; j < cells; j++ {
			if dist.Reachable(i, j) {
				out.Set(i, j, Attraction(dist.Kilometers(i, j), params[i]))
			}
		}
	}
	return out
}
