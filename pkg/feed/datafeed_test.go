package feed

import (
	"math"
	"slices"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c9s/barfeed/pkg/types"
)

func buildBars(dates ...string) []types.Bar {
	var bars []types.Bar
	for i, d := range dates {
		bars = append(bars, types.Bar{
			Date:  types.MustParseBarDate(d),
			Close: float64(i + 1),
		})
	}

	return bars
}

func closes(bars []types.Bar) []float64 {
	var out []float64
	for _, b := range bars {
		out = append(out, b.Close)
	}

	return out
}

func TestDataFeed_Latest(t *testing.T) {
	feed := NewDataFeed(buildBars("2021-01-01", "2021-01-02"))

	_, ok := feed.Latest()
	assert.False(t, ok)

	assert.True(t, feed.Update())
	bar, ok := feed.Latest()
	assert.True(t, ok)
	assert.Equal(t, 1.0, bar.Close)

	assert.True(t, feed.Update())
	bar, _ = feed.Latest()
	assert.Equal(t, 2.0, bar.Close)

	// exhausted, the latest record stays on the last one
	assert.False(t, feed.Update())
	assert.False(t, feed.Update())
	bar, _ = feed.Latest()
	assert.Equal(t, 2.0, bar.Close)
	assert.Equal(t, 2, feed.Len())
}

func TestDataFeed_LatestN(t *testing.T) {
	feed := NewDataFeed(buildBars("2021-01-01", "2021-01-02"))

	assert.Empty(t, slices.Collect(feed.LatestN(1)))

	assert.True(t, feed.Update())
	assert.Equal(t, []float64{1}, closes(slices.Collect(feed.LatestN(1))))
	assert.Equal(t, []float64{1}, closes(slices.Collect(feed.LatestN(5))))

	assert.True(t, feed.Update())
	assert.Equal(t, []float64{2}, closes(slices.Collect(feed.LatestN(1))))
	assert.Equal(t, []float64{2, 1}, closes(slices.Collect(feed.LatestN(5))))

	assert.False(t, feed.Update())
	assert.Equal(t, []float64{2}, closes(slices.Collect(feed.LatestN(1))))
	assert.Equal(t, []float64{2, 1}, closes(slices.Collect(feed.LatestN(5))))

	assert.Empty(t, slices.Collect(feed.LatestN(0)))
	assert.Empty(t, slices.Collect(feed.LatestN(-1)))
	assert.Empty(t, slices.Collect(feed.LatestN(math.MinInt)))
	assert.Equal(t, []float64{2, 1}, closes(slices.Collect(feed.LatestN(math.MaxInt))))
}

func TestDataFeed_LatestNRestartable(t *testing.T) {
	feed := NewDataFeed(buildBars("2021-01-01", "2021-01-02", "2021-01-03"))
	for feed.Update() {
	}

	seq := feed.LatestN(2)
	first := closes(slices.Collect(seq))
	second := closes(slices.Collect(seq))
	assert.Equal(t, []float64{3, 2}, first)
	assert.Equal(t, first, second)

	// breaking early is allowed
	var got []float64
	for bar := range feed.LatestN(3) {
		got = append(got, bar.Close)
		break
	}
	assert.Equal(t, []float64{3}, got)
}

func TestDataFeed_Properties(t *testing.T) {
	const n = 6
	dates := []string{"2021-01-01", "2021-01-02", "2021-01-03", "2021-01-04", "2021-01-05", "2021-01-06"}

	for k := 0; k <= n; k++ {
		feed := NewDataFeed(buildBars(dates...))
		for i := 0; i < k; i++ {
			require.True(t, feed.Update())
		}

		for m := 0; m <= n+1; m++ {
			got := closes(slices.Collect(feed.LatestN(m)))
			assert.Len(t, got, min(m, k))
			for i, c := range got {
				assert.Equal(t, float64(k-i), c)
			}
		}
	}

	feed := NewDataFeed(buildBars(dates...))
	for i := 0; i < n; i++ {
		assert.True(t, feed.Update())
	}

	for i := 0; i < 3; i++ {
		assert.False(t, feed.Update())
		bar, ok := feed.Latest()
		assert.True(t, ok)
		assert.Equal(t, float64(n), bar.Close)
	}
}

func TestDataFeed_Source(t *testing.T) {
	feed := NewDataFeed(buildBars("2021-01-01", "2021-01-02"))

	source, ok := feed.Source()
	assert.True(t, ok)
	assert.Equal(t, []float64{1, 2}, closes(source))

	// mutating the returned slice must not touch the feed
	source[0].Close = 100
	source, _ = feed.Source()
	assert.Equal(t, 1.0, source[0].Close)

	n, ok := feed.Remaining()
	assert.True(t, ok)
	assert.Equal(t, 2, n)

	assert.True(t, feed.Update())

	source, ok = feed.Source()
	assert.False(t, ok)
	assert.Nil(t, source)

	_, ok = feed.Remaining()
	assert.False(t, ok)

	// the source stays locked after the feed is exhausted
	assert.True(t, feed.Update())
	assert.False(t, feed.Update())
	_, ok = feed.Source()
	assert.False(t, ok)
}

func TestDataFeed_SourceOfEmptyFeed(t *testing.T) {
	feed := NewDataFeed[types.Bar](nil)
	assert.False(t, feed.Update())

	source, ok := feed.Source()
	assert.True(t, ok, "a feed that never revealed anything is still untouched")
	assert.Empty(t, source)
}

func TestDataFeed_Truncate(t *testing.T) {
	feed := NewDataFeed(buildBars("2021-01-01", "2021-01-02", "2021-01-03"))

	err := feed.Truncate(types.MustParseBarDate("2021-01-02"))
	assert.NoError(t, err)

	source, _ := feed.Source()
	assert.Equal(t, []float64{2, 3}, closes(source))

	assert.True(t, feed.Update())
	assert.True(t, feed.Update())
	assert.False(t, feed.Update())

	assert.Len(t, slices.Collect(feed.LatestN(5)), 2)
}

func TestDataFeed_TruncateEdges(t *testing.T) {
	tests := []struct {
		name   string
		cutoff string
		want   []float64
	}{
		{name: "before all", cutoff: "2020-12-31", want: []float64{1, 2, 3}},
		{name: "exact first", cutoff: "2021-01-01", want: []float64{1, 2, 3}},
		{name: "exact last", cutoff: "2021-01-03", want: []float64{3}},
		{name: "after all", cutoff: "2021-02-01", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			feed := NewDataFeed(buildBars("2021-01-01", "2021-01-02", "2021-01-03"))
			assert.NoError(t, feed.Truncate(types.MustParseBarDate(tt.cutoff)))

			source, ok := feed.Source()
			assert.True(t, ok)
			assert.Equal(t, tt.want, closes(source))
		})
	}
}

func TestDataFeed_TruncateAfterUpdate(t *testing.T) {
	feed := NewDataFeed(buildBars("2021-01-01", "2021-01-02", "2021-01-03"))
	assert.True(t, feed.Update())

	err := feed.Truncate(types.MustParseBarDate("2021-01-03"))
	assert.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrSourceLocked))

	// nothing was dropped
	assert.True(t, feed.Update())
	assert.True(t, feed.Update())
	assert.False(t, feed.Update())
}

func TestBarFeed(t *testing.T) {
	feed := NewBarFeed("IVV", buildBars("2021-01-01", "2021-01-02"))
	assert.Equal(t, types.Symbol("IVV"), feed.Symbol)

	first, ok := feed.FirstDate()
	assert.True(t, ok)
	assert.Equal(t, "2021-01-01", first.String())

	assert.True(t, feed.Update())
	_, ok = feed.FirstDate()
	assert.False(t, ok)

	var _ Feed[types.Bar] = feed
}
