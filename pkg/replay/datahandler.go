// Package replay drives a historical replay: it aligns the raw bar feeds of
// several symbols, reveals them one bar per step and feeds the strategies.
package replay

import (
	"context"
	"iter"
	"slices"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/c9s/barfeed/pkg/feed"
	"github.com/c9s/barfeed/pkg/indicator"
	"github.com/c9s/barfeed/pkg/loader"
	"github.com/c9s/barfeed/pkg/types"
)

var handlerLogger = log.WithField("component", "replay")

// DataHandler owns one raw bar feed per symbol. All feeds start at the common
// start date, the latest first bar date among the symbols.
type DataHandler struct {
	symbols    []types.Symbol
	feeds      map[types.Symbol]*feed.BarFeed
	startDate  types.BarDate
	cutoffDate types.BarDate
}

// NewDataHandler loads the history of every symbol and aligns the feeds to the common start date.
func NewDataHandler(ctx context.Context, symbols []types.Symbol, dataLoader loader.DataLoader) (*DataHandler, error) {
	handler := &DataHandler{
		feeds: make(map[types.Symbol]*feed.BarFeed, len(symbols)),
	}

	var firstDates []types.BarDate
	for _, symbol := range symbols {
		if _, exists := handler.feeds[symbol]; exists {
			continue
		}

		bars, err := dataLoader.Load(ctx, symbol)
		if err != nil {
			return nil, errors.Wrapf(err, "unable to load %s bars", symbol)
		}

		barFeed := feed.NewBarFeed(symbol, bars)
		if first, ok := barFeed.FirstDate(); ok {
			firstDates = append(firstDates, first)
		}

		handler.symbols = append(handler.symbols, symbol)
		handler.feeds[symbol] = barFeed
	}

	handler.startDate = types.MaxBarDate(firstDates...)
	for _, symbol := range handler.symbols {
		if err := handler.feeds[symbol].Truncate(handler.startDate); err != nil {
			return nil, err
		}
	}

	handlerLogger.Infof("loaded %d symbols, common start date %s", len(handler.symbols), handler.startDate)
	return handler, nil
}

// Symbols returns the symbols in the order the feeds are advanced.
func (h *DataHandler) Symbols() []types.Symbol {
	return slices.Clone(h.symbols)
}

// StartDate returns the common start date, it is moved forward by Truncate.
func (h *DataHandler) StartDate() types.BarDate {
	return types.MaxBarDate(h.startDate, h.cutoffDate)
}

// Feed returns the raw bar feed of the symbol.
func (h *DataHandler) Feed(symbol types.Symbol) (*feed.BarFeed, bool) {
	f, ok := h.feeds[symbol]
	return f, ok
}

// Streaming reports whether any of the feeds has revealed a bar.
func (h *DataHandler) Streaming() bool {
	for _, f := range h.feeds {
		if f.Streaming() {
			return true
		}
	}

	return false
}

// Bar returns the most recently revealed bar of the symbol.
func (h *DataHandler) Bar(symbol types.Symbol) (types.Bar, bool) {
	f, ok := h.feeds[symbol]
	if !ok {
		return types.Bar{}, false
	}

	return f.Latest()
}

// Bars yields up to n revealed bars of the symbol, most recent first.
func (h *DataHandler) Bars(symbol types.Symbol, n int) (iter.Seq[types.Bar], bool) {
	f, ok := h.feeds[symbol]
	if !ok {
		return nil, false
	}

	return f.LatestN(n), true
}

// Update advances every feed by one bar and returns false at the first
// exhausted feed. The feeds advanced before it are not rolled back, a false
// Update ends the replay. A handler without symbols never advances.
func (h *DataHandler) Update() bool {
	for _, symbol := range h.symbols {
		if !h.feeds[symbol].Update() {
			handlerLogger.Debugf("%s feed is exhausted", symbol)
			return false
		}
	}

	return len(h.symbols) > 0
}

// FillIndicator fills the indicator with the pending bars of its symbol.
// It must be called before the first Update.
func (h *DataHandler) FillIndicator(ind indicator.Indicator) (types.BarDate, error) {
	symbol := ind.Symbol()
	f, ok := h.feeds[symbol]
	if !ok {
		return types.BarDate{}, errors.Wrapf(types.ErrUnknownSeries, "can not fill indicator of %s", symbol)
	}

	bars, ok := f.Source()
	if !ok {
		return types.BarDate{}, errors.Wrapf(types.ErrSourceLocked, "can not fill indicator of %s", symbol)
	}

	return ind.Fill(bars)
}

// Truncate drops the bars before cutoff from every feed, so that the raw bars
// line up with the indicator warm-up.
func (h *DataHandler) Truncate(cutoff types.BarDate) error {
	for _, symbol := range h.symbols {
		if err := h.feeds[symbol].Truncate(cutoff); err != nil {
			return errors.Wrapf(err, "%s feed", symbol)
		}
	}

	if cutoff.After(h.cutoffDate) {
		h.cutoffDate = cutoff
	}

	return nil
}

// Remaining returns the number of steps left before the first exhausted feed,
// it is only available before the replay starts.
func (h *DataHandler) Remaining() (int, bool) {
	remaining := -1
	for _, symbol := range h.symbols {
		n, ok := h.feeds[symbol].Remaining()
		if !ok {
			return 0, false
		}

		if remaining < 0 || n < remaining {
			remaining = n
		}
	}

	return max(remaining, 0), true
}
