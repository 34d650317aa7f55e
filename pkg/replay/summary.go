package replay

import (
	"encoding/json"
	"os"

	"github.com/c9s/barfeed/pkg/strategy"
	"github.com/c9s/barfeed/pkg/types"
)

// Summary is the result of a replay run.
type Summary struct {
	Steps       int           `json:"steps"`
	WarmupDate  types.BarDate `json:"warmupDate"`
	FirstDate   types.BarDate `json:"firstDate"`
	LastDate    types.BarDate `json:"lastDate"`
	Interrupted bool          `json:"interrupted,omitempty"`

	Symbols    []SymbolSummary   `json:"symbols"`
	Strategies []StrategySummary `json:"strategies,omitempty"`
}

type SymbolSummary struct {
	Symbol     types.Symbol `json:"symbol"`
	Bars       int          `json:"bars"`
	FirstClose float64      `json:"firstClose"`
	LastClose  float64      `json:"lastClose"`
}

// Change returns the relative close change over the replay.
func (s SymbolSummary) Change() float64 {
	if s.FirstClose == 0 {
		return 0
	}

	return (s.LastClose - s.FirstClose) / s.FirstClose
}

type StrategySummary struct {
	ID         string            `json:"id"`
	InstanceID string            `json:"instanceID,omitempty"`
	Indicators int               `json:"indicators"`
	Signals    []strategy.Signal `json:"signals,omitempty"`
}

// SignalCounts returns the number of signals per signal type.
func (s StrategySummary) SignalCounts() map[string]int {
	counts := make(map[string]int)
	for _, signal := range s.Signals {
		counts[signal.Type]++
	}
	return counts
}

func (s *Summary) symbol(symbol types.Symbol) *SymbolSummary {
	for i := range s.Symbols {
		if s.Symbols[i].Symbol == symbol {
			return &s.Symbols[i]
		}
	}

	s.Symbols = append(s.Symbols, SymbolSummary{Symbol: symbol})
	return &s.Symbols[len(s.Symbols)-1]
}

func (s *Summary) addBar(symbol types.Symbol, bar types.Bar) {
	sym := s.symbol(symbol)
	if sym.Bars == 0 {
		sym.FirstClose = bar.Close
	}

	sym.Bars++
	sym.LastClose = bar.Close
}

// WriteFile writes the summary as indented JSON.
func (s *Summary) WriteFile(filename string) error {
	out, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(filename, out, 0644)
}
