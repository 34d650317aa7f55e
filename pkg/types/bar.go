package types

import (
	"fmt"
	"strconv"
)

// Dated is implemented by every record that can live in a feed. The date is
// the ordering and truncation key.
type Dated interface {
	GetDate() BarDate
}

// Bar is one daily OHLCV observation of an instrument.
type Bar struct {
	Date     BarDate `json:"date" db:"date"`
	Open     float64 `json:"open" db:"open"`
	High     float64 `json:"high" db:"high"`
	Low      float64 `json:"low" db:"low"`
	Close    float64 `json:"close" db:"close"`
	AdjClose float64 `json:"adjClose" db:"adj_close"`
	Volume   uint64  `json:"volume" db:"volume"`
}

func (b Bar) GetDate() BarDate {
	return b.Date
}

// Mid returns the middle of the high and low price.
func (b Bar) Mid() float64 {
	return (b.High + b.Low) / 2.0
}

// Typical returns the typical price (high + low + close) / 3.
func (b Bar) Typical() float64 {
	return (b.High + b.Low + b.Close) / 3.0
}

func (b Bar) String() string {
	return fmt.Sprintf("%s O:%.4f H:%.4f L:%.4f C:%.4f AC:%.4f V:%d",
		b.Date, b.Open, b.High, b.Low, b.Close, b.AdjClose, b.Volume)
}

func (b Bar) CsvHeader() []string {
	return []string{"date", "open", "high", "low", "close", "adj_close", "volume"}
}

func (b Bar) CsvRecord() []string {
	return []string{
		b.Date.String(),
		strconv.FormatFloat(b.Open, 'f', -1, 64),
		strconv.FormatFloat(b.High, 'f', -1, 64),
		strconv.FormatFloat(b.Low, 'f', -1, 64),
		strconv.FormatFloat(b.Close, 'f', -1, 64),
		strconv.FormatFloat(b.AdjClose, 'f', -1, 64),
		strconv.FormatUint(b.Volume, 10),
	}
}
