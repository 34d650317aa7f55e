package indicator

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_BOLL(t *testing.T) {
	boll := NewBOLL("IVV", 3, 2)
	first, err := boll.Fill(buildBars("2021-05-01", 1, 2, 3, 5))
	require.NoError(t, err)
	assert.Equal(t, "2021-05-03", first.String())

	bands, ok := boll.Source()
	require.True(t, ok)
	if assert.Len(t, bands, 2) {
		assert.InDelta(t, 2.0, bands[0].SMA, Delta)
		assert.InDelta(t, 1.0, bands[0].StdDev, Delta)
		assert.InDelta(t, 4.0, bands[0].Up, Delta)
		assert.InDelta(t, 0.0, bands[0].Down, Delta)

		// 2, 3, 5: mean 10/3, sample variance 7/3
		assert.InDelta(t, 10.0/3, bands[1].SMA, Delta)
		assert.InDelta(t, math.Sqrt(7.0/3), bands[1].StdDev, Delta)
	}

	assert.True(t, boll.Update())
	assert.InDelta(t, 4.0, boll.LastUpBand(), Delta)
	assert.InDelta(t, 0.0, boll.LastDownBand(), Delta)
}

func Test_BOLL_InvalidWindow(t *testing.T) {
	_, err := CalculateBOLL(BOLLParams{Window: 1, K: 2}, buildBars("2021-05-01", 1, 2))
	assert.ErrorIs(t, err, ErrInvalidWindow)
}
