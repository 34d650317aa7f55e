package replay

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c9s/barfeed/pkg/data/tsv"
	"github.com/c9s/barfeed/pkg/indicator"
	"github.com/c9s/barfeed/pkg/loader"
	"github.com/c9s/barfeed/pkg/strategy"
	"github.com/c9s/barfeed/pkg/types"
)

type recordingStrategy struct {
	symbol types.Symbol
	window int

	sma         *indicator.SMA
	initialized int

	// closes and averages seen by OnBar, in step order
	closes   []float64
	averages []float64
}

func (s *recordingStrategy) ID() string { return "recording" }

func (s *recordingStrategy) Initialize() error {
	s.initialized++
	if s.window > 0 {
		s.sma = indicator.NewSMA(s.symbol, s.window)
	}
	return nil
}

func (s *recordingStrategy) Indicators() []indicator.Indicator {
	if s.sma == nil {
		return nil
	}
	return []indicator.Indicator{s.sma}
}

func (s *recordingStrategy) OnBar(data strategy.MarketData) {
	bar, ok := data.Bar(s.symbol)
	if !ok {
		return
	}

	s.closes = append(s.closes, bar.Close)
	if s.sma != nil {
		v, _ := s.sma.Last()
		s.averages = append(s.averages, v)
	}
}

func newRunnerHandler(t *testing.T) *DataHandler {
	dates := []string{"2020-01-01", "2020-01-02", "2020-01-03", "2020-01-04", "2020-01-05"}
	memLoader := loader.NewMemoryLoader(map[types.Symbol][]types.Bar{
		"AAA": buildBars(dates, 1, 2, 3, 4, 5),
		"BBB": buildBars(dates[1:], 20, 30, 40, 50),
	})

	handler, err := NewDataHandler(context.Background(), []types.Symbol{"AAA", "BBB"}, memLoader)
	require.NoError(t, err)
	return handler
}

func TestRunner_Warmup(t *testing.T) {
	handler := newRunnerHandler(t)
	s := &recordingStrategy{symbol: "AAA", window: 3}

	runner := NewRunner(handler, s)
	summary, err := runner.Run(context.Background())
	require.NoError(t, err)

	// the common start is 01-02, so the 3-bar average is first valid on 01-04
	assert.Equal(t, "2020-01-04", summary.WarmupDate.String())
	assert.Equal(t, 2, summary.Steps)
	assert.Equal(t, "2020-01-04", summary.FirstDate.String())
	assert.Equal(t, "2020-01-05", summary.LastDate.String())

	assert.Equal(t, []float64{4, 5}, s.closes)
	assert.Equal(t, []float64{3, 4}, s.averages)
	assert.Equal(t, 1, s.initialized)

	if assert.Len(t, summary.Symbols, 2) {
		assert.Equal(t, types.Symbol("BBB"), summary.Symbols[1].Symbol)
		assert.Equal(t, 40.0, summary.Symbols[1].FirstClose)
		assert.Equal(t, 50.0, summary.Symbols[1].LastClose)
		assert.InDelta(t, 0.25, summary.Symbols[1].Change(), 1e-9)
	}

	if assert.Len(t, summary.Strategies, 1) {
		assert.Equal(t, "recording", summary.Strategies[0].ID)
		assert.Equal(t, 1, summary.Strategies[0].Indicators)
	}
}

func TestRunner_DateRange(t *testing.T) {
	handler := newRunnerHandler(t)
	s := &recordingStrategy{symbol: "BBB"}

	runner := NewRunner(handler, s)
	runner.StartDate = types.MustParseBarDate("2020-01-03")
	runner.EndDate = types.MustParseBarDate("2020-01-04")

	summary, err := runner.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Steps)
	assert.Equal(t, []float64{30, 40}, s.closes)
}

func TestRunner_Cancelled(t *testing.T) {
	handler := newRunnerHandler(t)
	s := &recordingStrategy{symbol: "AAA"}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	summary, err := NewRunner(handler, s).Run(ctx)
	require.NoError(t, err)
	assert.True(t, summary.Interrupted)
	assert.Equal(t, 0, summary.Steps)
	assert.Empty(t, s.closes)
}

func TestRunner_Dump(t *testing.T) {
	handler := newRunnerHandler(t)

	filename := filepath.Join(t.TempDir(), "dump.tsv")
	dumper, err := tsv.NewWriterFile(filename)
	require.NoError(t, err)

	runner := NewRunner(handler)
	runner.Dumper = dumper
	runner.EnableMetrics = true

	summary, err := runner.Run(context.Background())
	require.NoError(t, err)
	require.NoError(t, dumper.Close())
	assert.Equal(t, 4, summary.Steps)

	data, err := os.ReadFile(filename)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if assert.Len(t, lines, 9) {
		assert.Equal(t, strings.Join(tsv.BarHeader, "\t"), lines[0])
		assert.True(t, strings.HasPrefix(lines[1], "AAA\t2020-01-02\t"))
		assert.True(t, strings.HasPrefix(lines[2], "BBB\t2020-01-02\t"))
	}

	assert.NoError(t, summary.WriteFile(filepath.Join(t.TempDir(), "summary.json")))
}

var errDiskFull = errors.New("disk full")

type failingFile struct{}

func (failingFile) Write(p []byte) (int, error) { return 0, errDiskFull }

func (failingFile) Close() error { return nil }

func TestRunner_DumpError(t *testing.T) {
	handler := newRunnerHandler(t)

	// bufio keeps the first write error, so every later row fails too.
	dumper := tsv.NewWriter(failingFile{})
	require.NoError(t, dumper.WriteBarHeader())
	dumper.Flush()
	require.ErrorIs(t, dumper.Error(), errDiskFull)

	runner := NewRunner(handler)
	runner.Dumper = dumper

	_, err := runner.Run(context.Background())
	if assert.Error(t, err) {
		assert.ErrorIs(t, err, errDiskFull)
		assert.Contains(t, err.Error(), "unable to dump AAA bar")
	}
}

func TestRunner_FillError(t *testing.T) {
	handler := newRunnerHandler(t)
	s := &recordingStrategy{symbol: "CCC", window: 2}

	_, err := NewRunner(handler, s).Run(context.Background())
	assert.ErrorIs(t, err, types.ErrUnknownSeries)
}
