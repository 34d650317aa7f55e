package types

import (
	"encoding/json"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestParsePriceType(t *testing.T) {
	p, err := ParsePriceType("")
	assert.NoError(t, err)
	assert.Equal(t, PriceTypeClose, p)

	p, err = ParsePriceType("adj_close")
	assert.NoError(t, err)
	assert.Equal(t, PriceTypeAdjClose, p)

	_, err = ParsePriceType("last")
	assert.True(t, errors.Is(err, ErrInvalidPriceType))

	var s struct {
		Price PriceType `json:"price"`
	}
	assert.NoError(t, json.Unmarshal([]byte(`{"price":"typical"}`), &s))
	assert.Equal(t, PriceTypeTypical, s.Price)
}

func TestPriceType_Map(t *testing.T) {
	bar := Bar{Open: 1, High: 4, Low: 2, Close: 3, AdjClose: 2.5}

	assert.Equal(t, 1.0, PriceTypeOpen.Map(bar))
	assert.Equal(t, 4.0, PriceTypeHigh.Map(bar))
	assert.Equal(t, 2.0, PriceTypeLow.Map(bar))
	assert.Equal(t, 3.0, PriceTypeClose.Map(bar))
	assert.Equal(t, 2.5, PriceTypeAdjClose.Map(bar))
	assert.Equal(t, 3.0, PriceTypeMid.Map(bar))
	assert.Equal(t, 3.0, PriceTypeTypical.Map(bar))
	assert.Equal(t, 3.0, PriceType("").Map(bar))
}
