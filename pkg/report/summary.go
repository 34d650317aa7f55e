// Package report renders replay summaries.
package report

import (
	"fmt"
	"io"
	"sort"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/c9s/barfeed/pkg/replay"
	"github.com/c9s/barfeed/pkg/style"
)

// PrintSummary writes the headline, the symbol table and the strategy table of the summary.
func PrintSummary(w io.Writer, summary *replay.Summary, withColor bool) {
	headline := fmt.Sprintf("REPLAY %s ~ %s, %d STEPS", summary.FirstDate, summary.LastDate, summary.Steps)
	if summary.Interrupted {
		headline += " (INTERRUPTED)"
	}

	if withColor {
		color.New(color.FgHiCyan, color.Bold).Fprintln(w, headline)
	} else {
		fmt.Fprintln(w, headline)
	}

	if !summary.WarmupDate.IsZero() {
		fmt.Fprintf(w, "warm-up date: %s\n", summary.WarmupDate)
	}

	tableStyle := style.NewPlainTableStyle()
	if withColor {
		tableStyle = style.NewDefaultTableStyle()
	}

	SymbolTable(w, summary, tableStyle, withColor).Render()

	if len(summary.Strategies) > 0 {
		StrategyTable(w, summary, tableStyle).Render()
	}
}

func SymbolTable(w io.Writer, summary *replay.Summary, tableStyle *table.Style, withColor bool) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(*tableStyle)
	t.SetTitle("Symbols")
	t.AppendHeader(table.Row{"Symbol", "Bars", "First Close", "Last Close", "Change"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
	})

	for _, s := range summary.Symbols {
		change := style.ChangeString(s.Change())
		if withColor {
			change = style.ColoredChangeString(s.Change())
		}

		t.AppendRow(table.Row{
			s.Symbol,
			s.Bars,
			fmt.Sprintf("%.4f", s.FirstClose),
			fmt.Sprintf("%.4f", s.LastClose),
			change,
		})
	}

	return t
}

func StrategyTable(w io.Writer, summary *replay.Summary, tableStyle *table.Style) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(*tableStyle)
	t.SetTitle("Strategies")
	t.AppendHeader(table.Row{"Strategy", "Indicators", "Signals", "Last Signal"})

	for _, s := range summary.Strategies {
		name := s.ID
		if s.InstanceID != "" {
			name = s.InstanceID
		}

		counts := s.SignalCounts()
		signalTypes := make([]string, 0, len(counts))
		for signalType := range counts {
			signalTypes = append(signalTypes, signalType)
		}
		sort.Strings(signalTypes)

		var signals string
		for i, signalType := range signalTypes {
			if i > 0 {
				signals += ", "
			}
			signals += fmt.Sprintf("%s=%d", signalType, counts[signalType])
		}

		var last string
		if n := len(s.Signals); n > 0 {
			sig := s.Signals[n-1]
			last = fmt.Sprintf("%s %s %s @ %.4f", sig.Date, sig.Symbol, sig.Type, sig.Price)
		}

		t.AppendRow(table.Row{name, s.Indicators, signals, last})
	}

	return t
}
