package indicator

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/stat"

	"github.com/c9s/barfeed/pkg/types"
)

type SMAParams struct {
	Window int             `json:"window" yaml:"window"`
	Price  types.PriceType `json:"price,omitempty" yaml:"price,omitempty"`
}

// SMA is the simple moving average of one symbol's prices.
type SMA struct {
	*Ind[SMAParams, Value]
}

func NewSMA(symbol types.Symbol, window int) *SMA {
	return NewSMAWithParams(symbol, SMAParams{Window: window, Price: types.PriceTypeClose})
}

func NewSMAWithParams(symbol types.Symbol, params SMAParams) *SMA {
	return &SMA{
		Ind: NewInd(symbol, params, CalculateSMA),
	}
}

func (s *SMA) Window() int {
	return s.Params().Window
}

// Last returns the latest revealed average.
func (s *SMA) Last() (float64, bool) {
	v, ok := s.Latest()
	return v.Value, ok
}

// CalculateSMA emits one average per full window, dated at the last bar of the window.
func CalculateSMA(params SMAParams, bars []types.Bar) ([]Value, error) {
	window := params.Window
	if window <= 0 {
		return nil, errors.Wrapf(ErrInvalidWindow, "sma window %d", window)
	}

	if len(bars) < window {
		return nil, errors.Wrapf(types.ErrInsufficientSource, "sma window %d requires at least %d bars, got %d", window, window, len(bars))
	}

	prices := MapBarPrice(bars, params.Price)
	values := make([]Value, 0, len(bars)-window+1)
	for i := window - 1; i < len(bars); i++ {
		values = append(values, Value{
			Date:  bars[i].Date,
			Value: stat.Mean(prices[i-window+1:i+1], nil),
		})
	}

	return values, nil
}
