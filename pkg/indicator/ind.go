package indicator

import (
	"iter"

	"github.com/pkg/errors"

	"github.com/c9s/barfeed/pkg/feed"
	"github.com/c9s/barfeed/pkg/types"
)

var _ Indicator = (*Ind[int, Value])(nil)
var _ feed.Feed[Value] = (*Ind[int, Value])(nil)

// CalculateFunc derives the records of an indicator from the raw bars. It must
// be deterministic and free of side effects.
type CalculateFunc[P any, B types.Dated] func(params P, bars []types.Bar) ([]B, error)

// Ind is the generic derived series. The calculate function is held until the
// first Fill and dropped right after, the inner feed only exists after Fill.
type Ind[P any, B types.Dated] struct {
	symbol types.Symbol
	params P

	calculate CalculateFunc[P, B]
	values    *feed.DataFeed[B]
}

func NewInd[P any, B types.Dated](symbol types.Symbol, params P, calculate CalculateFunc[P, B]) *Ind[P, B] {
	return &Ind[P, B]{
		symbol:    symbol,
		params:    params,
		calculate: calculate,
	}
}

func (ind *Ind[P, B]) Symbol() types.Symbol {
	return ind.symbol
}

func (ind *Ind[P, B]) Params() P {
	return ind.params
}

// Filled reports whether the calculation has already been consumed.
func (ind *Ind[P, B]) Filled() bool {
	return ind.calculate == nil
}

func (ind *Ind[P, B]) Fill(bars []types.Bar) (types.BarDate, error) {
	calculate := ind.calculate
	if calculate == nil {
		return types.BarDate{}, errors.Wrapf(types.ErrIndicatorAlreadyFilled, "%s indicator", ind.symbol)
	}
	ind.calculate = nil

	values, err := calculate(ind.params, bars)
	if err != nil {
		return types.BarDate{}, errors.Wrapf(err, "%s indicator calculation error", ind.symbol)
	}

	if len(values) == 0 {
		return types.BarDate{}, errors.Wrapf(types.ErrInsufficientSource, "%s indicator calculated no values from %d bars", ind.symbol, len(bars))
	}

	ind.values = feed.NewDataFeed(values)
	return values[0].GetDate(), nil
}

func (ind *Ind[P, B]) Update() bool {
	if ind.values == nil {
		return false
	}

	return ind.values.Update()
}

func (ind *Ind[P, B]) Latest() (B, bool) {
	if ind.values == nil {
		var zero B
		return zero, false
	}

	return ind.values.Latest()
}

func (ind *Ind[P, B]) LatestN(n int) iter.Seq[B] {
	if ind.values == nil {
		return func(yield func(B) bool) {}
	}

	return ind.values.LatestN(n)
}

// Source returns the pending derived records. Before Fill the indicator acts
// like an empty untouched feed.
func (ind *Ind[P, B]) Source() ([]B, bool) {
	if ind.values == nil {
		return nil, true
	}

	return ind.values.Source()
}

// Truncate drops the derived records before cutoff. Before Fill there is
// nothing to drop, so it succeeds without doing anything.
func (ind *Ind[P, B]) Truncate(cutoff types.BarDate) error {
	if ind.values == nil {
		return nil
	}

	return ind.values.Truncate(cutoff)
}
