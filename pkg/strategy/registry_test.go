package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c9s/barfeed/pkg/indicator"
	"github.com/c9s/barfeed/pkg/types"
)

type configurableStrategy struct {
	Base

	Symbol types.Symbol `json:"symbol"`
	Window int          `json:"window"`
}

func (s *configurableStrategy) ID() string { return "configurable" }

func (s *configurableStrategy) OnBar(MarketData) {}

var _ Strategy = (*configurableStrategy)(nil)

func TestNewFromMap(t *testing.T) {
	Register("configurable", &configurableStrategy{})
	defer delete(LoadedStrategies, "configurable")

	assert.Contains(t, Registered(), "configurable")

	assert.Panics(t, func() {
		Register("configurable", &configurableStrategy{})
	})

	s, err := NewFromMap("configurable", map[string]interface{}{
		"symbol": "ivv",
		"window": 5,
	})
	require.NoError(t, err)

	conf, ok := s.(*configurableStrategy)
	if assert.True(t, ok) {
		assert.Equal(t, types.Symbol("IVV"), conf.Symbol)
		assert.Equal(t, 5, conf.Window)
		assert.Equal(t, []indicator.Indicator(nil), conf.Indicators())
	}

	// every call allocates a new instance
	other, err := NewFromMap("configurable", map[string]interface{}{"symbol": "EFA"})
	require.NoError(t, err)
	assert.NotSame(t, s, other)

	_, err = NewFromMap("configurable", map[string]interface{}{"symbol": "TOOLONG"})
	assert.Error(t, err)

	_, err = NewFromMap("unknown", nil)
	assert.Error(t, err)
}
