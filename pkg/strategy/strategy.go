// Package strategy defines the replay consumer protocol and the helpers that
// drive the indicators a strategy owns.
package strategy

import (
	"iter"

	"github.com/pkg/errors"

	"github.com/c9s/barfeed/pkg/indicator"
	"github.com/c9s/barfeed/pkg/types"
)

// MarketData is the read-only view of the revealed bars given to the strategies.
type MarketData interface {
	Bar(symbol types.Symbol) (types.Bar, bool)
	Bars(symbol types.Symbol, n int) (iter.Seq[types.Bar], bool)
}

// IndicatorFiller fills an indicator from the raw history of its symbol.
type IndicatorFiller interface {
	FillIndicator(ind indicator.Indicator) (types.BarDate, error)
}

type Strategy interface {
	ID() string

	// Indicators returns the derived series owned by the strategy.
	Indicators() []indicator.Indicator

	// OnBar is called once per replay step, after the bars and the indicators are advanced.
	OnBar(data MarketData)
}

// Initializer is implemented by strategies that build their indicators from
// their loaded configuration.
type Initializer interface {
	Initialize() error
}

// Validator is implemented by strategies that check their configuration.
type Validator interface {
	Validate() error
}

// Signal is a trading signal recorded by a strategy.
type Signal struct {
	Date   types.BarDate `json:"date"`
	Symbol types.Symbol  `json:"symbol"`
	Type   string        `json:"type"`
	Price  float64       `json:"price"`
}

// SignalReporter is implemented by strategies that record signals.
type SignalReporter interface {
	Signals() []Signal
}

// Base can be embedded by strategies without indicators.
type Base struct{}

func (Base) Indicators() []indicator.Indicator {
	return nil
}

// FillIndicators fills every indicator of the strategy and returns the latest
// of their first dates, the date from which all of them have values.
func FillIndicators(s Strategy, filler IndicatorFiller) (types.BarDate, error) {
	indicators := s.Indicators()
	if len(indicators) == 0 {
		return types.BarDate{}, errors.Wrapf(types.ErrNoIndicators, "strategy %s", s.ID())
	}

	var warmup types.BarDate
	for _, ind := range indicators {
		first, err := filler.FillIndicator(ind)
		if err != nil {
			return types.BarDate{}, errors.Wrapf(err, "strategy %s", s.ID())
		}

		warmup = types.MaxBarDate(warmup, first)
	}

	return warmup, nil
}

// UpdateIndicators advances every indicator of the strategy and stops at the
// first exhausted one.
func UpdateIndicators(s Strategy) bool {
	for _, ind := range s.Indicators() {
		if !ind.Update() {
			return false
		}
	}

	return true
}

// TruncateIndicators drops the indicator values before cutoff.
func TruncateIndicators(s Strategy, cutoff types.BarDate) error {
	for _, ind := range s.Indicators() {
		if err := ind.Truncate(cutoff); err != nil {
			return errors.Wrapf(err, "strategy %s: %s indicator", s.ID(), ind.Symbol())
		}
	}

	return nil
}
