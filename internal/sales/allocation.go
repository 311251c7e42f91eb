package sales

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// allocate distributes the purchasing power of every cell over the markets in
// proportion to their discounted attraction. Cells no market attracts keep
// zero flow, as do cells whose attraction overflowed.
func allocate(attraction, discount *mat.Dense, purchasingPower []float64) *mat.Dense {
	var flows mat.Dense
	flows.MulElem(attraction, discount)

	markets, cells := flows.Dims()
	for j := 0; j < cells; j++ {
		total := 0.0
		for i := 0; i < markets; i++ {
			total += flows.At(i, j)
		}
		ok := total > 0 && !math.IsInf(total, 0) && !math.IsNaN(total)
		for i := 0; i < markets; i++ {
			if ok {
				flows.Set(i, j, flows.At(i, j)/total*purchasingPower[j])
			} else {
				flows.Set(i, j, 0)
			}
		}
	}
	return &flows
}
