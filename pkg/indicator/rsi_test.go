package indicator

import (
	"slices"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c9s/barfeed/pkg/types"
)

func Test_RSI(t *testing.T) {
	tests := []struct {
		name   string
		closes []float64
		window int
		want   []float64
	}{
		{
			name:   "only gains",
			closes: []float64{1, 2, 3, 4},
			window: 2,
			want:   []float64{100, 100},
		},
		{
			name:   "flat",
			closes: []float64{1, 1, 1},
			window: 2,
			want:   []float64{50},
		},
		{
			name:   "mixed",
			closes: []float64{1, 2, 1, 2},
			window: 2,
			// first: gain 0.5 loss 0.5, second: gain 0.75 loss 0.25
			want: []float64{50, 75},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values, err := CalculateRSI(RSIParams{Window: tt.window}, buildBars("2021-05-01", tt.closes...))
			require.NoError(t, err)
			assert.InDeltaSlice(t, tt.want, Float64s(slices.Values(values)), Delta)
			assert.Equal(t, "2021-05-03", values[0].Date.String())
		})
	}
}

func Test_RSI_InsufficientSource(t *testing.T) {
	rsi := NewRSI("IVV", 3)
	_, err := rsi.Fill(buildBars("2021-05-01", 1, 2, 3))
	assert.True(t, errors.Is(err, types.ErrInsufficientSource))
}
