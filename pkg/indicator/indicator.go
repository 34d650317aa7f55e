// Package indicator implements derived series. A derived series is calculated
// once from the frozen raw history of one symbol and is then replayed with the
// same causality rules as the raw bars.
package indicator

import (
	"github.com/pkg/errors"

	"github.com/c9s/barfeed/pkg/feed"
	"github.com/c9s/barfeed/pkg/types"
)

var ErrInvalidWindow = errors.New("indicator window must be positive")

// Indicator is the type-erased view of a derived series used by the data
// handler and the strategies.
type Indicator interface {
	feed.Updater
	feed.Truncater

	// Symbol returns the symbol whose raw bars the indicator is calculated from.
	Symbol() types.Symbol

	// Fill calculates the derived series from the given bars. It can only be
	// called once and returns the date of the first derived record.
	Fill(bars []types.Bar) (types.BarDate, error)
}

// Value is a single dated indicator value.
type Value struct {
	Date  types.BarDate `json:"date"`
	Value float64       `json:"value"`
}

func (v Value) GetDate() types.BarDate {
	return v.Date
}
