package feed

import "github.com/c9s/barfeed/pkg/types"

// BarFeed is the causality feed of the raw bars of one symbol.
type BarFeed struct {
	*DataFeed[types.Bar]

	Symbol types.Symbol
}

func NewBarFeed(symbol types.Symbol, bars []types.Bar) *BarFeed {
	return &BarFeed{
		DataFeed: NewDataFeed(bars),
		Symbol:   symbol,
	}
}

// FirstDate returns the date of the first pending bar while the feed is untouched.
func (f *BarFeed) FirstDate() (types.BarDate, bool) {
	if f.Streaming() || len(f.source) == 0 {
		return types.BarDate{}, false
	}

	return f.source[0].Date, true
}
