package indicator

import (
	"iter"

	"github.com/c9s/barfeed/pkg/types"
)

// MapBarPrice maps the bars into the prices selected by the price type.
func MapBarPrice(bars []types.Bar, priceType types.PriceType) []float64 {
	prices := make([]float64, len(bars))
	for i, bar := range bars {
		prices[i] = priceType.Map(bar)
	}

	return prices
}

// Float64s collects the values of an indicator sequence, most recent first.
func Float64s(values iter.Seq[Value]) []float64 {
	var out []float64
	for v := range values {
		out = append(out, v.Value)
	}

	return out
}
