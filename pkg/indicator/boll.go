package indicator

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/stat"

	"github.com/c9s/barfeed/pkg/types"
)

/*
boll implements the Bollinger Band indicator
https://www.investopedia.com/terms/b/bollingerbands.asp
*/
type BOLLParams struct {
	Window int `json:"window" yaml:"window"`

	// K is the times of the standard deviation, generally it's 2
	K float64 `json:"k" yaml:"k"`

	Price types.PriceType `json:"price,omitempty" yaml:"price,omitempty"`
}

// Band is one dated Bollinger band.
type Band struct {
	Date   types.BarDate `json:"date"`
	SMA    float64       `json:"sma"`
	StdDev float64       `json:"stdDev"`
	Up     float64       `json:"up"`
	Down   float64       `json:"down"`
}

func (b Band) GetDate() types.BarDate {
	return b.Date
}

type BOLL struct {
	*Ind[BOLLParams, Band]
}

func NewBOLL(symbol types.Symbol, window int, k float64) *BOLL {
	return &BOLL{
		Ind: NewInd(symbol, BOLLParams{Window: window, K: k, Price: types.PriceTypeClose}, CalculateBOLL),
	}
}

func (b *BOLL) LastUpBand() float64 {
	band, _ := b.Latest()
	return band.Up
}

func (b *BOLL) LastDownBand() float64 {
	band, _ := b.Latest()
	return band.Down
}

// CalculateBOLL uses the sample standard deviation of every full window.
func CalculateBOLL(params BOLLParams, bars []types.Bar) ([]Band, error) {
	window := params.Window
	if window <= 1 {
		return nil, errors.Wrapf(ErrInvalidWindow, "boll window %d", window)
	}

	if len(bars) < window {
		return nil, errors.Wrapf(types.ErrInsufficientSource, "boll window %d requires at least %d bars, got %d", window, window, len(bars))
	}

	prices := MapBarPrice(bars, params.Price)
	bands := make([]Band, 0, len(bars)-window+1)
	for i := window - 1; i < len(bars); i++ {
		sma, std := stat.MeanStdDev(prices[i-window+1:i+1], nil)
		bands = append(bands, Band{
			Date:   bars[i].Date,
			SMA:    sma,
			StdDev: std,
			Up:     sma + params.K*std,
			Down:   sma - params.K*std,
		})
	}

	return bands, nil
}
