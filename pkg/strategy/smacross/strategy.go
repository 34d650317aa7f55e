package smacross

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/c9s/barfeed/pkg/indicator"
	"github.com/c9s/barfeed/pkg/strategy"
	"github.com/c9s/barfeed/pkg/types"
)

const ID = "smacross"

const (
	SignalCrossOver  = "crossOver"
	SignalCrossUnder = "crossUnder"
)

var log = logrus.WithField("strategy", ID)

func init() {
	strategy.Register(ID, &Strategy{})
}

type movingAverage interface {
	indicator.Indicator
	Last() (float64, bool)
}

// Strategy records a signal whenever the fast moving average crosses the slow one.
type Strategy struct {
	Symbol     types.Symbol    `json:"symbol"`
	FastWindow int             `json:"fastWindow"`
	SlowWindow int             `json:"slowWindow"`
	Type       string          `json:"type,omitempty"`
	Price      types.PriceType `json:"price,omitempty"`

	fast, slow movingAverage

	// lastDiff is the sign of fast - slow at the previous step, 0 before the first step
	lastDiff int

	signals []strategy.Signal
}

func (s *Strategy) ID() string {
	return ID
}

func (s *Strategy) InstanceID() string {
	return fmt.Sprintf("%s:%s:%d-%d", ID, s.Symbol, s.FastWindow, s.SlowWindow)
}

func (s *Strategy) Validate() error {
	if s.Symbol == "" {
		return fmt.Errorf("%s: symbol is required", ID)
	}

	if s.FastWindow <= 0 || s.SlowWindow <= 0 {
		return fmt.Errorf("%s: windows must be positive, given fast=%d slow=%d", ID, s.FastWindow, s.SlowWindow)
	}

	if s.FastWindow >= s.SlowWindow {
		return fmt.Errorf("%s: fastWindow %d must be less than slowWindow %d", ID, s.FastWindow, s.SlowWindow)
	}

	switch strings.ToLower(s.Type) {
	case "", "sma", "ema":
	default:
		return fmt.Errorf("%s: unsupported moving average type %q", ID, s.Type)
	}

	return nil
}

func (s *Strategy) Initialize() error {
	if err := s.Validate(); err != nil {
		return err
	}

	price := s.Price
	if price == "" {
		price = types.PriceTypeClose
	}

	switch strings.ToLower(s.Type) {
	case "ema":
		s.fast = indicator.NewEMAWithParams(s.Symbol, indicator.EMAParams{Window: s.FastWindow, Smoothing: indicator.DefaultSmoothing, Price: price})
		s.slow = indicator.NewEMAWithParams(s.Symbol, indicator.EMAParams{Window: s.SlowWindow, Smoothing: indicator.DefaultSmoothing, Price: price})
	default:
		s.fast = indicator.NewSMAWithParams(s.Symbol, indicator.SMAParams{Window: s.FastWindow, Price: price})
		s.slow = indicator.NewSMAWithParams(s.Symbol, indicator.SMAParams{Window: s.SlowWindow, Price: price})
	}

	return nil
}

func (s *Strategy) Indicators() []indicator.Indicator {
	if s.fast == nil || s.slow == nil {
		return nil
	}

	return []indicator.Indicator{s.fast, s.slow}
}

func (s *Strategy) Signals() []strategy.Signal {
	return s.signals
}

func (s *Strategy) OnBar(data strategy.MarketData) {
	bar, ok := data.Bar(s.Symbol)
	if !ok {
		return
	}

	fast, ok1 := s.fast.Last()
	slow, ok2 := s.slow.Last()
	if !ok1 || !ok2 {
		return
	}

	diff := 0
	switch {
	case fast > slow:
		diff = 1
	case fast < slow:
		diff = -1
	}

	if diff == 0 {
		return
	}

	if s.lastDiff != 0 && diff != s.lastDiff {
		signal := strategy.Signal{
			Date:   bar.Date,
			Symbol: s.Symbol,
			Type:   SignalCrossOver,
			Price:  bar.Close,
		}

		if diff < 0 {
			signal.Type = SignalCrossUnder
		}

		log.Infof("%s %s at %s, fast %f slow %f, close %f", s.Symbol, signal.Type, bar.Date, fast, slow, bar.Close)
		s.signals = append(s.signals, signal)
	}

	s.lastDiff = diff
}
