package indicator

import (
	"math"

	"github.com/pkg/errors"

	"github.com/c9s/barfeed/pkg/types"
)

/*
rsi implements Relative Strength Index (RSI) with Wilder's smoothing
https://www.investopedia.com/terms/r/rsi.asp
*/
type RSIParams struct {
	Window int             `json:"window" yaml:"window"`
	Price  types.PriceType `json:"price,omitempty" yaml:"price,omitempty"`
}

type RSI struct {
	*Ind[RSIParams, Value]
}

func NewRSI(symbol types.Symbol, window int) *RSI {
	return &RSI{
		Ind: NewInd(symbol, RSIParams{Window: window, Price: types.PriceTypeClose}, CalculateRSI),
	}
}

func (s *RSI) Last() (float64, bool) {
	v, ok := s.Latest()
	return v.Value, ok
}

// CalculateRSI needs window+1 bars for the first value, which is dated at bar window.
func CalculateRSI(params RSIParams, bars []types.Bar) ([]Value, error) {
	window := params.Window
	if window <= 0 {
		return nil, errors.Wrapf(ErrInvalidWindow, "rsi window %d", window)
	}

	if len(bars) < window+1 {
		return nil, errors.Wrapf(types.ErrInsufficientSource, "rsi window %d requires at least %d bars, got %d", window, window+1, len(bars))
	}

	prices := MapBarPrice(bars, params.Price)
	w := float64(window)

	var avgGain, avgLoss float64
	for i := 1; i <= window; i++ {
		diff := prices[i] - prices[i-1]
		avgGain += math.Max(diff, 0)
		avgLoss += -math.Min(diff, 0)
	}
	avgGain /= w
	avgLoss /= w

	values := make([]Value, 0, len(bars)-window)
	values = append(values, Value{Date: bars[window].Date, Value: rsi(avgGain, avgLoss)})

	for i := window + 1; i < len(bars); i++ {
		diff := prices[i] - prices[i-1]
		avgGain = (avgGain*(w-1) + math.Max(diff, 0)) / w
		avgLoss = (avgLoss*(w-1) - math.Min(diff, 0)) / w
		values = append(values, Value{Date: bars[i].Date, Value: rsi(avgGain, avgLoss)})
	}

	return values, nil
}

func rsi(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		if avgGain == 0 {
			return 50
		}
		return 100
	}

	rs := avgGain / avgLoss
	return 100 - (100 / (1 + rs))
}
