package indicator

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/stat"

	"github.com/c9s/barfeed/pkg/types"
)

const DefaultSmoothing = 2.0

type EMAParams struct {
	Window int `json:"window" yaml:"window"`

	// Smoothing is the numerator of the multiplier smoothing / (window + 1), 2 when unset.
	Smoothing float64         `json:"smoothing,omitempty" yaml:"smoothing,omitempty"`
	Price     types.PriceType `json:"price,omitempty" yaml:"price,omitempty"`
}

func (p EMAParams) Multiplier() float64 {
	smoothing := p.Smoothing
	if smoothing == 0 {
		smoothing = DefaultSmoothing
	}

	return smoothing / float64(p.Window+1)
}

// EMA is the exponential moving average of one symbol's prices.
type EMA struct {
	*Ind[EMAParams, Value]
}

func NewEMA(symbol types.Symbol, window int) *EMA {
	return NewEMAWithParams(symbol, EMAParams{Window: window, Smoothing: DefaultSmoothing, Price: types.PriceTypeClose})
}

func NewEMAWithParams(symbol types.Symbol, params EMAParams) *EMA {
	return &EMA{
		Ind: NewInd(symbol, params, CalculateEMA),
	}
}

func (s *EMA) Window() int {
	return s.Params().Window
}

func (s *EMA) Last() (float64, bool) {
	v, ok := s.Latest()
	return v.Value, ok
}

// CalculateEMA seeds the average with the SMA of the first window, then applies
//
//	ema = price * multiplier + previous * (1 - multiplier)
//
// see https://www.investopedia.com/ask/answers/122314/what-exponential-moving-average-ema-formula-and-how-ema-calculated.asp
func CalculateEMA(params EMAParams, bars []types.Bar) ([]Value, error) {
	window := params.Window
	if window <= 0 {
		return nil, errors.Wrapf(ErrInvalidWindow, "ema window %d", window)
	}

	if len(bars) < window {
		return nil, errors.Wrapf(types.ErrInsufficientSource, "ema window %d requires at least %d bars, got %d", window, window, len(bars))
	}

	prices := MapBarPrice(bars, params.Price)
	multiplier := params.Multiplier()

	values := make([]Value, 0, len(bars)-window+1)
	ema := stat.Mean(prices[:window], nil)
	values = append(values, Value{Date: bars[window-1].Date, Value: ema})

	for i := window; i < len(bars); i++ {
		ema = prices[i]*multiplier + ema*(1-multiplier)
		values = append(values, Value{Date: bars[i].Date, Value: ema})
	}

	return values, nil
}
